package resolver

import (
	"path/filepath"
	"strings"

	"github.com/oinktools/pig/pigerrors"
)

// Reference is a decoded $ref value of the form <filePath>#/<key>/<key>.
// An empty file part targets the document the reference appears in.
type Reference struct {
	// Raw is the reference exactly as written in the document.
	Raw string
	// File is the canonical absolute path of the target document.
	File string
	// Keys is the decoded key path from the target document's root.
	Keys []string

	// filePart is the file portion as written, kept for Normalized.
	filePart string
}

// ParseReference decodes a $ref value found in currentFile. The file part
// is resolved against currentFile's directory and canonicalized; key
// segments are trimmed, empty segments dropped, and JSON Pointer escapes
// (~0, ~1) unescaped.
func ParseReference(currentFile, raw string) (Reference, error) {
	sep := strings.Index(raw, "#")
	if sep < 0 {
		return Reference{}, &pigerrors.MalformedReferenceError{
			Ref:     raw,
			File:    currentFile,
			Message: "missing '#' separator",
		}
	}

	filePart := strings.TrimSpace(raw[:sep])
	keyPart := raw[sep+1:]

	var keys []string
	for _, seg := range strings.Split(keyPart, "/") {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		keys = append(keys, unescapeJSONPointer(seg))
	}
	if len(keys) == 0 {
		return Reference{}, &pigerrors.MalformedReferenceError{
			Ref:     raw,
			File:    currentFile,
			Message: "empty key path",
		}
	}

	file := currentFile
	if filePart != "" {
		if filepath.IsAbs(filePart) {
			file = filepath.Clean(filePart)
		} else {
			file = filepath.Clean(filepath.Join(filepath.Dir(currentFile), filePart))
		}
		abs, err := filepath.Abs(file)
		if err != nil {
			return Reference{}, &pigerrors.LoadError{Path: file, Cause: err}
		}
		file = abs
	}

	return Reference{
		Raw:      raw,
		File:     file,
		Keys:     keys,
		filePart: filePart,
	}, nil
}

// Normalized returns the reference spelling re-serialized from its decoded
// parts: the file part as written, '#', and the cleaned key path.
func (r Reference) Normalized() string {
	return r.filePart + "#/" + strings.Join(r.Keys, "/")
}

// Name returns the last key segment, the name a template would use for
// the referenced object.
func (r Reference) Name() string {
	return r.Keys[len(r.Keys)-1]
}

// Identity returns the canonical identity of the reference target.
func (r Reference) Identity() Identity {
	return Identity{File: r.File, Keys: r.Keys}
}

// Identity names a document location: a canonical absolute file path plus
// the ordered key path from that document's root. Two references denote
// the same location exactly when their identities are equal.
type Identity struct {
	// File is the canonical absolute path of the document.
	File string
	// Keys is the key path from the document root.
	Keys []string
}

// String renders the identity as <absolute-file>#/<key>/<key>. The
// rendering is unique per identity and is what cycle diagnostics display.
func (id Identity) String() string {
	return id.File + "#/" + strings.Join(id.Keys, "/")
}

// Prefix renders the identity truncated to its first n key segments.
// Diagnostics use it to name the shortest failing key path.
func (id Identity) Prefix(n int) string {
	if n > len(id.Keys) {
		n = len(id.Keys)
	}
	return id.File + "#/" + strings.Join(id.Keys[:n], "/")
}

// unescapeJSONPointer unescapes RFC 6901 JSON Pointer tokens.
// The order matters: ~1 must be unescaped before ~0.
func unescapeJSONPointer(token string) string {
	token = strings.ReplaceAll(token, "~1", "/")
	token = strings.ReplaceAll(token, "~0", "~")
	return token
}
