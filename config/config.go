// Package config loads and validates pig.yaml, the file that tells pig
// which OpenAPI documents to resolve, where the templates live, and
// where rendered output goes.
//
// A config file is a YAML sequence of entries:
//
//	- api: openapi.yaml
//	  in: templates/
//	  out: generated/
//
// Relative paths resolve against the directory containing the config
// file, so a pig.yaml at the repository root behaves the same no matter
// where pig is invoked from. The raw document is checked against an
// embedded JSON Schema before decoding, so shape errors carry the
// offending location instead of a bare decode failure.
package config

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
	"go.yaml.in/yaml/v4"

	"github.com/oinktools/pig/pigerrors"
)

// FileName is the config file name Discover searches for.
const FileName = "pig.yaml"

//go:embed pig.schema.json
var schemaJSON string

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

// Entry is one generation unit: an OpenAPI document, a template
// directory, and an output directory. All paths are absolute after Load.
type Entry struct {
	// API is the OpenAPI document to resolve.
	API string `yaml:"api"`
	// In is the directory holding the templates.
	In string `yaml:"in"`
	// Out is the directory rendered files are written into.
	Out string `yaml:"out"`
}

// Config is a loaded and validated pig.yaml.
type Config struct {
	// Path is the absolute path of the config file.
	Path string
	// Entries are the generation units in document order.
	Entries []Entry
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	return filepath.Dir(c.Path)
}

// Discover walks from startDir upward looking for a pig.yaml, returning
// its absolute path. It fails with a ConfigError when the filesystem
// root is reached without finding one.
func Discover(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", &pigerrors.ConfigError{Path: startDir, Cause: err}
	}

	for {
		candidate := filepath.Join(dir, FileName)
		if info, err := os.Stat(candidate); err == nil && info.Mode().IsRegular() {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", &pigerrors.ConfigError{
				Path:    startDir,
				Message: FileName + " not found in this directory or any parent",
			}
		}
		dir = parent
	}
}

// Load reads, validates, and resolves the config file at path. Entry
// paths are made absolute against the config directory; every api must
// be an existing file, every in an existing directory, and every out is
// created if missing.
func Load(path string) (*Config, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, &pigerrors.ConfigError{Path: path, Cause: err}
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, &pigerrors.ConfigError{Path: abs, Message: "cannot read config", Cause: err}
	}

	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, &pigerrors.ConfigError{Path: abs, Message: "invalid YAML", Cause: err}
	}

	if err := validateShape(abs, raw); err != nil {
		return nil, err
	}

	var entries []Entry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, &pigerrors.ConfigError{Path: abs, Message: "cannot decode entries", Cause: err}
	}

	cfg := &Config{Path: abs, Entries: entries}
	if err := cfg.resolve(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validateShape checks the decoded document against the embedded JSON
// Schema, naming the offending location on failure.
func validateShape(path string, raw any) error {
	sch, err := configSchema()
	if err != nil {
		return &pigerrors.ConfigError{Path: path, Message: "schema unavailable", Cause: err}
	}

	// Round-trip through JSON so numbers and keys arrive in the shapes
	// the validator expects regardless of the YAML decoder's types.
	encoded, err := json.Marshal(raw)
	if err != nil {
		return &pigerrors.ConfigError{Path: path, Message: "invalid config structure", Cause: err}
	}
	var doc any
	if err := json.Unmarshal(encoded, &doc); err != nil {
		return &pigerrors.ConfigError{Path: path, Cause: err}
	}

	if err := sch.Validate(doc); err != nil {
		var vErr *jsonschema.ValidationError
		if errors.As(err, &vErr) {
			leaf := vErr
			for len(leaf.Causes) > 0 {
				leaf = leaf.Causes[0]
			}
			return &pigerrors.ConfigError{
				Path:    path,
				Field:   pointerField(leaf.InstanceLocation),
				Message: leaf.Message,
			}
		}
		return &pigerrors.ConfigError{Path: path, Cause: err}
	}
	return nil
}

// pointerField renders a JSON pointer instance location as a config
// field name, e.g. "/0/api" becomes "entries[0].api".
func pointerField(location string) string {
	if location == "" || location == "/" {
		return "entries"
	}
	parts := strings.Split(strings.TrimPrefix(location, "/"), "/")
	field := "entries[" + parts[0] + "]"
	if len(parts) > 1 {
		field += "." + strings.Join(parts[1:], ".")
	}
	return field
}

// resolve makes entry paths absolute and enforces their constraints.
func (c *Config) resolve() error {
	dir := c.Dir()
	for i := range c.Entries {
		e := &c.Entries[i]
		e.API = absolutize(dir, e.API)
		e.In = absolutize(dir, e.In)
		e.Out = absolutize(dir, e.Out)

		info, err := os.Stat(e.API)
		if err != nil || !info.Mode().IsRegular() {
			return &pigerrors.ConfigError{
				Path:    e.API,
				Field:   fmt.Sprintf("entries[%d].api", i),
				Message: "not a file",
				Cause:   err,
			}
		}

		info, err = os.Stat(e.In)
		if err != nil || !info.IsDir() {
			return &pigerrors.ConfigError{
				Path:    e.In,
				Field:   fmt.Sprintf("entries[%d].in", i),
				Message: "not a directory",
				Cause:   err,
			}
		}

		if err := os.MkdirAll(e.Out, 0o755); err != nil {
			return &pigerrors.ConfigError{
				Path:    e.Out,
				Field:   fmt.Sprintf("entries[%d].out", i),
				Message: "cannot create output directory",
				Cause:   err,
			}
		}
	}
	return nil
}

// absolutize resolves path against dir unless already absolute.
func absolutize(dir, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Clean(filepath.Join(dir, path))
}

// configSchema compiles the embedded schema once.
func configSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft7
		if err := compiler.AddResource("pig.schema.json", strings.NewReader(schemaJSON)); err != nil {
			schemaErr = err
			return
		}
		schema, schemaErr = compiler.Compile("pig.schema.json")
	})
	return schema, schemaErr
}
