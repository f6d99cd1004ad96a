//go:build integration

// Package integration exercises the full pig pipeline end to end:
// config loading, multi-file reference resolution, template rendering,
// and watch mode, run against the shipped petstore example project.
//
// Run with: go test -tags=integration ./integration/...
package integration

import (
	"context"
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oinktools/pig/config"
	"github.com/oinktools/pig/pigerrors"
	"github.com/oinktools/pig/render"
	"github.com/oinktools/pig/resolver"
	"github.com/oinktools/pig/watch"
)

const (
	waitFor = 5 * time.Second
	tick    = 20 * time.Millisecond
)

// petstoreDir returns the absolute path of examples/petstore, whether the
// tests run from the repo root or from the integration directory.
func petstoreDir(t *testing.T) string {
	t.Helper()

	wd, err := os.Getwd()
	require.NoError(t, err, "failed to get working directory")

	for _, dir := range []string{
		filepath.Join(wd, "examples", "petstore"),
		filepath.Join(wd, "..", "examples", "petstore"),
	} {
		if _, err := os.Stat(filepath.Join(dir, config.FileName)); err == nil {
			abs, err := filepath.Abs(dir)
			require.NoError(t, err)
			return abs
		}
	}

	require.Failf(t, "could not find examples/petstore", "from %s", wd)
	return ""
}

// copyProject copies the petstore example into a temp dir so tests can
// render and edit it without touching the checked-in files.
func copyProject(t *testing.T) string {
	t.Helper()

	src := petstoreDir(t)
	dst := t.TempDir()

	err := filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		return os.WriteFile(target, data, 0o644)
	})
	require.NoError(t, err, "failed to copy example project")
	return dst
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err, "failed to read %s", path)
	return string(data)
}

// TestPetstoreExample_Renders renders the example project and checks the
// outputs a user would see after running pig in examples/petstore.
func TestPetstoreExample_Renders(t *testing.T) {
	dir := copyProject(t)

	cfg, err := config.Load(filepath.Join(dir, config.FileName))
	require.NoError(t, err)
	require.Len(t, cfg.Entries, 1)

	outcome := render.NewDriver().Run(context.Background(), cfg)
	require.NoError(t, outcome.Err())
	require.Len(t, outcome, 1)

	res := outcome[0]
	assert.Len(t, res.Dependencies, 2, "petstore.yaml plus the schemas file")
	assert.ElementsMatch(t, []string{
		filepath.Join(dir, "generated", "README.md"),
		filepath.Join(dir, "generated", "model", "types.go"),
	}, res.Rendered)

	readme := readFile(t, filepath.Join(dir, "generated", "README.md"))
	assert.Contains(t, readme, "# Petstore")
	assert.Contains(t, readme, "`GET /pets`")
	assert.Contains(t, readme, "`POST /pets`")
	assert.Contains(t, readme, "`GET /pets/{petId}`")
	assert.Contains(t, readme, "resolved from `./schemas/pet.yaml#/Pet`")

	types := readFile(t, filepath.Join(dir, "generated", "model", "types.go"))
	assert.Contains(t, types, "// Code generated by pig. DO NOT EDIT.")
	assert.Contains(t, types, "package model")
	assert.Contains(t, types, "type Pet struct {")
	assert.Contains(t, types, "type NewPet struct {")
	assert.Contains(t, types, "type Error struct {")
	assert.Regexp(t, "Id\\s+int64\\s+`json:\"id\"`", types)
	assert.Regexp(t, "Message\\s+string\\s+`json:\"message\"`", types)
}

// TestPetstoreExample_ContextDumps checks the resolved-context files
// written next to the rendered output.
func TestPetstoreExample_ContextDumps(t *testing.T) {
	dir := copyProject(t)

	cfg, err := config.Load(filepath.Join(dir, config.FileName))
	require.NoError(t, err)

	outcome := render.NewDriver().Run(context.Background(), cfg)
	require.NoError(t, outcome.Err())

	jsonPath := filepath.Join(dir, "generated", resolver.ContextJSONFile)
	var tree map[string]any
	require.NoError(t, json.Unmarshal([]byte(readFile(t, jsonPath)), &tree))

	info, ok := tree["info"].(map[string]any)
	require.True(t, ok, "info must be a mapping")
	assert.Equal(t, "Petstore", info["title"])

	yamlDump := readFile(t, filepath.Join(dir, "generated", resolver.ContextYAMLFile))
	assert.Contains(t, yamlDump, "$name: Pet")
	assert.Contains(t, yamlDump, "title: Petstore")
}

// TestPetstoreExample_Idempotent re-renders in place and checks the
// template outputs do not change, the invariant watch mode relies on.
func TestPetstoreExample_Idempotent(t *testing.T) {
	dir := copyProject(t)

	cfg, err := config.Load(filepath.Join(dir, config.FileName))
	require.NoError(t, err)

	driver := render.NewDriver()
	require.NoError(t, driver.Run(context.Background(), cfg).Err())

	readmePath := filepath.Join(dir, "generated", "README.md")
	typesPath := filepath.Join(dir, "generated", "model", "types.go")
	readme := readFile(t, readmePath)
	types := readFile(t, typesPath)

	require.NoError(t, driver.Run(context.Background(), cfg).Err())
	assert.Equal(t, readme, readFile(t, readmePath))
	assert.Equal(t, types, readFile(t, typesPath))
}

// TestCircularReference_ReportsFullChain resolves a two-file reference
// loop and checks the error names every hop of the cycle.
func TestCircularReference_ReportsFullChain(t *testing.T) {
	_, err := resolver.ResolveWithOptions(context.Background(),
		resolver.WithFilePath(filepath.Join("testdata", "circular", "a.yaml")))
	require.Error(t, err)

	var circErr *pigerrors.CircularReferenceError
	require.ErrorAs(t, err, &circErr)
	require.GreaterOrEqual(t, len(circErr.Chain), 2)

	msg := err.Error()
	assert.Contains(t, msg, "circular reference: ")
	assert.Contains(t, msg, " -> ")
	assert.Contains(t, msg, "a.yaml#/a")
	assert.Contains(t, msg, "b.yaml#/b")
}

// TestWatch_SchemaEditPropagates starts watch mode on the example copy,
// adds a property to the referenced schemas file, and waits for the
// regenerated Go types to pick it up.
func TestWatch_SchemaEditPropagates(t *testing.T) {
	dir := copyProject(t)

	cfg, err := config.Load(filepath.Join(dir, config.FileName))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = watch.New(cfg, render.NewDriver()).Watch(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		select {
		case <-done:
		case <-time.After(waitFor):
			t.Error("watcher did not stop")
		}
	})

	typesPath := filepath.Join(dir, "generated", "model", "types.go")
	require.Eventually(t, func() bool {
		_, err := os.Stat(typesPath)
		return err == nil
	}, waitFor, tick, "initial render did not happen")

	schemasPath := filepath.Join(dir, "api", "schemas", "pet.yaml")
	edited := readFile(t, schemasPath) + "\nColor:\n  type: object\n  properties:\n    hex:\n      type: string\n"
	require.NoError(t, os.WriteFile(schemasPath, []byte(edited), 0o644))

	// The new schema is not referenced by the spec, so types.go must not
	// change; referencing it requires a spec edit, which we make next.
	specPath := filepath.Join(dir, "api", "petstore.yaml")
	spec := readFile(t, specPath) + "    Color:\n      $ref: \"./schemas/pet.yaml#/Color\"\n"
	require.NoError(t, os.WriteFile(specPath, []byte(spec), 0o644))

	require.Eventually(t, func() bool {
		data, err := os.ReadFile(typesPath)
		return err == nil &&
			strings.Contains(string(data), "type Color struct {") &&
			strings.Contains(string(data), "Hex string")
	}, waitFor, tick, "edited schema never reached the generated types")
}
