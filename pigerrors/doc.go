// Package pigerrors provides structured error types for the pig library.
//
// Import path: github.com/oinktools/pig/pigerrors
//
// This package enables programmatic error handling via [errors.Is] and [errors.As],
// allowing callers to distinguish between different categories of errors and implement
// appropriate recovery strategies.
//
// # Error Types
//
// The package provides eight core error types:
//
//   - [ConfigError]: invalid, missing, or unreadable configuration
//   - [LoadError]: document files that cannot be read from disk
//   - [ParseError]: YAML deserialization failures and structural issues
//   - [MalformedReferenceError]: $ref values that violate the reference grammar
//   - [ReferenceNotFoundError]: $ref key paths with no value in the target document
//   - [CircularReferenceError]: $ref chains that revisit a location being resolved
//   - [RenderError]: template execution failures
//   - [WriteError]: output files that cannot be written
//
// # Sentinel Errors
//
// Each error type has a corresponding sentinel error for use with errors.Is():
//
//   - [ErrConfig]: Matches any [ConfigError]
//   - [ErrLoad]: Matches any [LoadError]
//   - [ErrParse]: Matches any [ParseError]
//   - [ErrReference]: Matches any reference error, malformed, missing, or circular
//   - [ErrMalformedReference]: Matches any [MalformedReferenceError]
//   - [ErrReferenceNotFound]: Matches any [ReferenceNotFoundError]
//   - [ErrCircularReference]: Matches any [CircularReferenceError]
//   - [ErrRender]: Matches any [RenderError]
//   - [ErrWrite]: Matches any [WriteError]
//
// # Usage Examples
//
// Check error category with errors.Is():
//
//	result, err := r.Resolve(ctx, "api.yaml")
//	if errors.Is(err, pigerrors.ErrReference) {
//	    // Handle any reference failure
//	}
//
// Extract error details with errors.As():
//
//	var circErr *pigerrors.CircularReferenceError
//	if errors.As(err, &circErr) {
//	    fmt.Printf("cycle: %s\n", strings.Join(circErr.Chain, " -> "))
//	}
//
// # Error Chaining
//
// Error types with an underlying cause support error chaining via the Cause
// field and Unwrap() method. This allows finding root causes through the
// standard error chain:
//
//	var loadErr *pigerrors.LoadError
//	if errors.As(err, &loadErr) {
//	    if errors.Is(loadErr.Cause, os.ErrNotExist) {
//	        // The referenced file doesn't exist
//	    }
//	}
package pigerrors
