package resolver

import (
	"os"
	"path/filepath"
	"slices"

	"github.com/oinktools/pig/pigerrors"
)

// Document is a parsed source file. Path is canonical and absolute; Root
// is the decoded tree exactly as it appears on disk, before resolution.
type Document struct {
	Path string
	Root *Node
}

// Registry loads and caches documents for one resolution pass. Each file
// is read and parsed at most once per Registry; the same *Document is
// returned for every reference into it. A Registry must not outlive its
// pass: create a fresh one whenever files may have changed on disk.
type Registry struct {
	// Logger receives debug output for document loads.
	Logger Logger

	documents map[string]*Document
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		Logger:    NopLogger{},
		documents: make(map[string]*Document),
	}
}

// Load returns the document at path, reading and parsing it on first use.
// The path is canonicalized, so spellings that clean to the same absolute
// path share one cache slot.
func (reg *Registry) Load(path string) (*Document, error) {
	abs, err := canonicalPath(path)
	if err != nil {
		return nil, &pigerrors.LoadError{Path: path, Cause: err}
	}

	if doc, ok := reg.documents[abs]; ok {
		return doc, nil
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, &pigerrors.LoadError{Path: abs, Cause: err}
	}

	root, err := DecodeYAML(data)
	if err != nil {
		return nil, &pigerrors.ParseError{Path: abs, Cause: err}
	}

	doc := &Document{Path: abs, Root: root}
	reg.documents[abs] = doc
	reg.Logger.Debug("loaded document", "path", abs, "bytes", len(data))
	return doc, nil
}

// Len returns the number of documents loaded so far.
func (reg *Registry) Len() int {
	return len(reg.documents)
}

// Paths returns the canonical path of every loaded document, sorted.
// This is the file dependency set of the pass, used by watch mode to
// decide which changes require re-resolution.
func (reg *Registry) Paths() []string {
	paths := make([]string, 0, len(reg.documents))
	for p := range reg.documents {
		paths = append(paths, p)
	}
	slices.Sort(paths)
	return paths
}

// canonicalPath converts path to its canonical absolute form.
func canonicalPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.Clean(abs), nil
}
