package config

import (
	env "github.com/caarlos0/env/v11"

	"github.com/oinktools/pig/pigerrors"
)

// Options are process-level settings read from PIG_* environment
// variables. Command-line flags take precedence over these values; the
// CLI only consults Options for flags the user did not set.
type Options struct {
	// Config is the config file path (PIG_CONFIG). Empty means discover
	// pig.yaml from the working directory upward.
	Config string `env:"CONFIG"`

	// Watch keeps pig running and re-rendering on changes (PIG_WATCH).
	Watch bool `env:"WATCH" envDefault:"false"`

	// Parallel renders config entries concurrently (PIG_PARALLEL).
	Parallel bool `env:"PARALLEL" envDefault:"true"`

	// LogLevel is the minimum structured log level (PIG_LOG_LEVEL):
	// debug, info, warn, or error.
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// NoColor disables colored diagnostics (PIG_NO_COLOR).
	NoColor bool `env:"NO_COLOR" envDefault:"false"`
}

// OptionsFromEnv reads Options from the environment.
func OptionsFromEnv() (Options, error) {
	var opts Options
	if err := env.ParseWithOptions(&opts, env.Options{Prefix: "PIG_"}); err != nil {
		return Options{}, &pigerrors.ConfigError{Message: "invalid environment", Cause: err}
	}
	return opts, nil
}
