package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oinktools/pig/pigerrors"
)

// TestOptionsFromEnv verifies PIG_* environment parsing and defaults.
func TestOptionsFromEnv(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		opts, err := OptionsFromEnv()
		require.NoError(t, err)
		assert.Equal(t, "", opts.Config)
		assert.False(t, opts.Watch)
		assert.True(t, opts.Parallel, "parallel rendering is on by default")
		assert.Equal(t, "info", opts.LogLevel)
		assert.False(t, opts.NoColor)
	})

	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv("PIG_CONFIG", "/work/pig.yaml")
		t.Setenv("PIG_WATCH", "true")
		t.Setenv("PIG_PARALLEL", "false")
		t.Setenv("PIG_LOG_LEVEL", "debug")
		t.Setenv("PIG_NO_COLOR", "true")

		opts, err := OptionsFromEnv()
		require.NoError(t, err)
		assert.Equal(t, "/work/pig.yaml", opts.Config)
		assert.True(t, opts.Watch)
		assert.False(t, opts.Parallel)
		assert.Equal(t, "debug", opts.LogLevel)
		assert.True(t, opts.NoColor)
	})

	t.Run("unparseable values are config errors", func(t *testing.T) {
		t.Setenv("PIG_WATCH", "sometimes")

		_, err := OptionsFromEnv()
		require.Error(t, err)
		assert.True(t, errors.Is(err, pigerrors.ErrConfig))
	})
}
