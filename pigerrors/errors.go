// Package pigerrors provides structured error types for pig.
//
// These error types enable programmatic error handling via errors.Is() and
// errors.As(), allowing callers to distinguish between different categories
// of errors and implement appropriate recovery strategies.
//
// # Error Categories
//
//   - ConfigError: invalid, missing, or unreadable pig.yaml configuration
//   - LoadError: document files that cannot be read from disk
//   - ParseError: YAML deserialization failures and structural issues
//   - MalformedReferenceError: $ref values that do not follow the reference grammar
//   - ReferenceNotFoundError: $ref key paths with no value in the target document
//   - CircularReferenceError: $ref chains that revisit a document location
//   - RenderError: template execution failures
//   - WriteError: output files that cannot be written
//
// # Usage with errors.Is
//
//	result, err := resolver.New().Resolve(ctx, "api.yaml")
//	if err != nil {
//	    var circErr *pigerrors.CircularReferenceError
//	    if errors.As(err, &circErr) {
//	        // circErr.Chain names every location in the cycle
//	    }
//	}
package pigerrors

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Sentinel errors for use with errors.Is().
// These allow quick checks without type assertions.
var (
	// ErrConfig indicates an invalid configuration.
	ErrConfig = errors.New("configuration error")

	// ErrLoad indicates a document could not be read.
	ErrLoad = errors.New("load error")

	// ErrParse indicates a parsing failure occurred.
	ErrParse = errors.New("parse error")

	// ErrReference indicates a reference failure of any kind.
	ErrReference = errors.New("reference error")

	// ErrMalformedReference indicates a $ref that violates the reference grammar.
	ErrMalformedReference = errors.New("malformed reference")

	// ErrReferenceNotFound indicates a $ref whose key path has no value.
	ErrReferenceNotFound = errors.New("reference not found")

	// ErrCircularReference indicates a circular $ref was detected.
	ErrCircularReference = errors.New("circular reference")

	// ErrRender indicates a template execution failure.
	ErrRender = errors.New("render error")

	// ErrWrite indicates an output file could not be written.
	ErrWrite = errors.New("write error")
)

// ConfigError represents an invalid configuration or input.
// This includes missing config files, schema violations, and entry paths
// that do not satisfy their constraints.
type ConfigError struct {
	// Path is the config file path or the entry path at fault
	Path string
	// Field is the specific config field with the issue (e.g., "entries[0].api")
	Field string
	// Message describes the configuration error
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ConfigError) Error() string {
	msg := "configuration error"
	if e.Path != "" {
		msg += " in " + e.Path
	}
	if e.Field != "" {
		msg += " for " + e.Field
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}

// LoadError represents a failure to read a document from disk.
type LoadError struct {
	// Path is the file path that could not be read
	Path string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *LoadError) Error() string {
	msg := "load error"
	if e.Path != "" {
		msg += " for " + e.Path
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *LoadError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *LoadError) Is(target error) bool {
	return target == ErrLoad
}

// ParseError represents a failure to parse a YAML document.
// This includes deserialization errors and structural issues.
type ParseError struct {
	// Path is the file path or source identifier
	Path string
	// Line is the line number where the error occurred (0 if unknown)
	Line int
	// Column is the column number where the error occurred (0 if unknown)
	Column int
	// Message describes the parsing failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ParseError) Error() string {
	msg := "parse error"
	if e.Path != "" {
		msg += " in " + e.Path
	}
	if e.Line > 0 {
		msg += fmt.Sprintf(" at line %d", e.Line)
		if e.Column > 0 {
			msg += fmt.Sprintf(", column %d", e.Column)
		}
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// MalformedReferenceError represents a $ref value that violates the
// reference grammar. This includes values without a '#' separator, empty
// key paths, sibling keys next to $ref, and targets that are not mappings.
type MalformedReferenceError struct {
	// Ref is the reference string as written in the document
	Ref string
	// File is the document containing the reference
	File string
	// Message describes the grammar violation
	Message string
}

// Error returns a human-readable error message.
func (e *MalformedReferenceError) Error() string {
	msg := "malformed reference"
	if e.Ref != "" {
		msg += " " + strconv.Quote(e.Ref)
	}
	if e.File != "" {
		msg += " in " + e.File
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Unwrap returns nil as MalformedReferenceError has no underlying cause.
func (e *MalformedReferenceError) Unwrap() error {
	return nil
}

// Is reports whether target matches this error type.
// Matches both ErrReference and ErrMalformedReference.
func (e *MalformedReferenceError) Is(target error) bool {
	return target == ErrReference || target == ErrMalformedReference
}

// ReferenceNotFoundError represents a $ref whose key path does not lead to
// a value in the target document.
type ReferenceNotFoundError struct {
	// Ref is the reference string as written in the document
	Ref string
	// File is the absolute path of the target document
	File string
	// Keys is the full key path the reference asked for
	Keys []string
	// Missing is the shortest key-path prefix with no value
	Missing []string
}

// Error returns a human-readable error message.
func (e *ReferenceNotFoundError) Error() string {
	msg := "reference not found"
	if e.Ref != "" {
		msg += " " + strconv.Quote(e.Ref)
	}
	if e.File != "" && len(e.Missing) > 0 {
		msg += fmt.Sprintf(": no value at %s#/%s", e.File, strings.Join(e.Missing, "/"))
	}
	return msg
}

// Unwrap returns nil as ReferenceNotFoundError has no underlying cause.
func (e *ReferenceNotFoundError) Unwrap() error {
	return nil
}

// Is reports whether target matches this error type.
// Matches both ErrReference and ErrReferenceNotFound.
func (e *ReferenceNotFoundError) Is(target error) bool {
	return target == ErrReference || target == ErrReferenceNotFound
}

// CircularReferenceError represents a $ref chain that revisits a document
// location already being resolved.
type CircularReferenceError struct {
	// Chain lists the canonical identity of every location in the cycle,
	// each exactly once, from the first occurrence to the reference that
	// closed the loop, in traversal order.
	Chain []string
}

// Error returns a human-readable error message.
func (e *CircularReferenceError) Error() string {
	msg := "circular reference"
	if len(e.Chain) > 0 {
		msg += ": " + strings.Join(e.Chain, " -> ")
	}
	return msg
}

// Unwrap returns nil as CircularReferenceError has no underlying cause.
func (e *CircularReferenceError) Unwrap() error {
	return nil
}

// Is reports whether target matches this error type.
// Matches both ErrReference and ErrCircularReference.
func (e *CircularReferenceError) Is(target error) bool {
	return target == ErrReference || target == ErrCircularReference
}

// RenderError represents a template execution failure. The template
// engine's own error is preserved verbatim as the cause.
type RenderError struct {
	// Template is the path of the template that failed
	Template string
	// Entry identifies the config entry being rendered (its api path)
	Entry string
	// Cause is the engine error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *RenderError) Error() string {
	msg := "render error"
	if e.Template != "" {
		msg += " in " + e.Template
	}
	if e.Entry != "" {
		msg += " for entry " + e.Entry
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *RenderError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *RenderError) Is(target error) bool {
	return target == ErrRender
}

// WriteError represents a failure to write an output file or create its
// parent directory.
type WriteError struct {
	// Path is the output path that could not be written
	Path string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *WriteError) Error() string {
	msg := "write error"
	if e.Path != "" {
		msg += " for " + e.Path
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *WriteError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *WriteError) Is(target error) bool {
	return target == ErrWrite
}
