package resolver

import (
	"context"
	"fmt"
)

// Option is a function that configures a resolution pass.
type Option func(*resolveConfig) error

// resolveConfig holds configuration for a resolution pass.
type resolveConfig struct {
	// Input source (required)
	filePath *string

	// Configuration options
	logger   Logger
	registry *Registry
}

// ResolveWithOptions resolves a document using functional options.
// This provides a flexible, extensible API that combines input selection
// and configuration in a single call.
//
// Example:
//
//	result, err := resolver.ResolveWithOptions(ctx,
//	    resolver.WithFilePath("openapi.yaml"),
//	    resolver.WithLogger(logger),
//	)
func ResolveWithOptions(ctx context.Context, opts ...Option) (*Result, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("resolver: invalid options: %w", err)
	}

	r := New()
	if cfg.logger != nil {
		r.Logger = cfg.logger
	}
	if cfg.registry != nil {
		r.Registry = cfg.registry
	}
	return r.Resolve(ctx, *cfg.filePath)
}

// applyOptions applies option functions and validates configuration.
func applyOptions(opts ...Option) (*resolveConfig, error) {
	cfg := &resolveConfig{}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if cfg.filePath == nil {
		return nil, fmt.Errorf("resolver: must specify an input file (use WithFilePath)")
	}

	return cfg, nil
}

// WithFilePath specifies the document to resolve.
func WithFilePath(path string) Option {
	return func(cfg *resolveConfig) error {
		if path == "" {
			return fmt.Errorf("resolver: file path cannot be empty")
		}
		cfg.filePath = &path
		return nil
	}
}

// WithLogger sets a structured logger for debug output during resolution.
// By default, no logging is performed.
//
// The logger interface is compatible with log/slog, zap, and zerolog.
// Use NewSlogAdapter to wrap a *slog.Logger.
func WithLogger(l Logger) Option {
	return func(cfg *resolveConfig) error {
		cfg.logger = l
		return nil
	}
}

// WithRegistry supplies a pre-populated document Registry. The pass will
// reuse any documents the Registry already holds instead of re-reading
// them from disk. Callers sharing a Registry across passes are
// responsible for discarding it when files change.
func WithRegistry(reg *Registry) Option {
	return func(cfg *resolveConfig) error {
		if reg == nil {
			return fmt.Errorf("resolver: registry cannot be nil")
		}
		cfg.registry = reg
		return nil
	}
}
