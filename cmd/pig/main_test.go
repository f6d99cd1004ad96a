package main

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oinktools/pig/config"
	"github.com/oinktools/pig/render"
)

func TestParseLogLevel(t *testing.T) {
	cases := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"INFO", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tc := range cases {
		got, err := parseLogLevel(tc.in)
		require.NoError(t, err, "level %q", tc.in)
		assert.Equal(t, tc.want, got, "level %q", tc.in)
	}

	_, err := parseLogLevel("verbose")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "verbose")
}

func TestRelTo(t *testing.T) {
	base := filepath.Join(string(filepath.Separator), "work", "project")
	assert.Equal(t, "api.yaml", relTo(base, filepath.Join(base, "api.yaml")))
	assert.Equal(t, filepath.Join("specs", "api.yaml"), relTo(base, filepath.Join(base, "specs", "api.yaml")))

	outside := filepath.Join(string(filepath.Separator), "elsewhere", "api.yaml")
	assert.Equal(t, outside, relTo(base, outside))
}

func newFlagCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "pig"}
	cmd.Flags().BoolP("watch", "w", false, "")
	cmd.Flags().Bool("parallel", true, "")
	cmd.Flags().String("log-level", "info", "")
	cmd.Flags().Bool("no-color", false, "")
	return cmd
}

func TestApplyFlags_OverridesEnv(t *testing.T) {
	cmd := newFlagCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--watch", "--log-level=debug"}))

	opts := config.Options{Watch: false, Parallel: false, LogLevel: "error"}
	applyFlags(cmd, &opts)

	assert.True(t, opts.Watch, "explicit --watch wins")
	assert.Equal(t, "debug", opts.LogLevel, "explicit --log-level wins")
	assert.False(t, opts.Parallel, "unset flag keeps the environment value")
}

func TestApplyFlags_UnsetKeepsOptions(t *testing.T) {
	cmd := newFlagCmd()
	require.NoError(t, cmd.ParseFlags(nil))

	opts := config.Options{Watch: true, Parallel: true, LogLevel: "warn", NoColor: true}
	applyFlags(cmd, &opts)

	assert.True(t, opts.Watch)
	assert.True(t, opts.Parallel)
	assert.Equal(t, "warn", opts.LogLevel)
	assert.True(t, opts.NoColor)
}

func TestPrintOutcome(t *testing.T) {
	prev := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = prev })

	dir := t.TempDir()
	cfg := &config.Config{Path: filepath.Join(dir, config.FileName)}
	outcome := render.Outcome{
		{
			Entry:    config.Entry{API: filepath.Join(dir, "api.yaml"), Out: filepath.Join(dir, "generated")},
			Rendered: []string{"a.go", "b.go"},
			Duration: 12 * time.Millisecond,
		},
		{
			Entry: config.Entry{API: filepath.Join(dir, "bad.yaml")},
			Err:   os.ErrNotExist,
		},
	}

	var buf bytes.Buffer
	printOutcome(&buf, cfg, outcome)

	out := buf.String()
	assert.Contains(t, out, "✓ api.yaml: 2 files -> generated (12ms)")
	assert.Contains(t, out, "✗ bad.yaml: file does not exist")
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestExecute_RendersProject(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "api.yaml", "openapi: 3.0.3\ninfo:\n  title: Petstore\n  version: 1.0.0\npaths: {}\n")
	writeFile(t, dir, filepath.Join("templates", "title.txt.tmpl"), "{{ .info.title }}\n")
	cfgPath := writeFile(t, dir, config.FileName, "- api: api.yaml\n  in: templates\n  out: generated\n")

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs([]string{"--no-color", cfgPath})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	require.NoError(t, rootCmd.Execute(), "stderr: %s", errOut.String())

	rendered, err := os.ReadFile(filepath.Join(dir, "generated", "title.txt"))
	require.NoError(t, err)
	assert.Equal(t, "Petstore\n", string(rendered))
	assert.Contains(t, out.String(), "✓ api.yaml: 1 files -> generated")
}

func TestExecute_MissingConfig(t *testing.T) {
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs([]string{filepath.Join(t.TempDir(), "absent.yaml")})
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, errOut.String(), "Error:")
}
