package resolver

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v4"

	"github.com/oinktools/pig/internal/fileutil"
	"github.com/oinktools/pig/pigerrors"
)

// Fixed names of the context dump files written next to rendered output.
const (
	// ContextJSONFile is the JSON dump of the resolved tree.
	ContextJSONFile = ".pig.context.json"
	// ContextYAMLFile is the YAML dump of the resolved tree.
	ContextYAMLFile = ".pig.context.yaml"
)

// EncodeJSON marshals a Node tree to indented JSON with mapping keys in
// the same order as the source documents.
func EncodeJSON(n *Node) ([]byte, error) {
	var buf bytes.Buffer
	if err := marshalNodeJSON(&buf, n); err != nil {
		return nil, err
	}

	var indented bytes.Buffer
	if err := json.Indent(&indented, buf.Bytes(), "", "  "); err != nil {
		return nil, err
	}
	return indented.Bytes(), nil
}

// MarshalContextJSON marshals the resolved tree to indented JSON with a
// trailing newline, suitable for writing as a dump file.
func (res *Result) MarshalContextJSON() ([]byte, error) {
	data, err := EncodeJSON(res.Tree)
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// MarshalContextYAML marshals the resolved tree to YAML with mapping keys
// in the same order as the source documents.
func (res *Result) MarshalContextYAML() ([]byte, error) {
	return yaml.Marshal(res.Tree)
}

// WriteContext writes both context dumps into dir: ContextJSONFile and
// ContextYAMLFile. The dumps are the exact template input, written for
// template authors to inspect. dir must already exist.
func (res *Result) WriteContext(dir string) error {
	jsonData, err := res.MarshalContextJSON()
	if err != nil {
		return &pigerrors.WriteError{Path: filepath.Join(dir, ContextJSONFile), Cause: err}
	}
	yamlData, err := res.MarshalContextYAML()
	if err != nil {
		return &pigerrors.WriteError{Path: filepath.Join(dir, ContextYAMLFile), Cause: err}
	}

	jsonPath := filepath.Join(dir, ContextJSONFile)
	if err := os.WriteFile(jsonPath, jsonData, fileutil.OwnerReadWrite); err != nil {
		return &pigerrors.WriteError{Path: jsonPath, Cause: err}
	}
	yamlPath := filepath.Join(dir, ContextYAMLFile)
	if err := os.WriteFile(yamlPath, yamlData, fileutil.OwnerReadWrite); err != nil {
		return &pigerrors.WriteError{Path: yamlPath, Cause: err}
	}
	return nil
}

// marshalNodeJSON writes a Node tree to buf as compact JSON, preserving
// mapping key order.
func marshalNodeJSON(buf *bytes.Buffer, n *Node) error {
	if n == nil {
		buf.WriteString("null")
		return nil
	}

	switch n.Kind {
	case KindMapping:
		buf.WriteByte('{')
		for i, p := range n.Pairs {
			if i > 0 {
				buf.WriteByte(',')
			}
			keyJSON, err := json.Marshal(p.Key)
			if err != nil {
				return err
			}
			buf.Write(keyJSON)
			buf.WriteByte(':')
			if err := marshalNodeJSON(buf, p.Value); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
		return nil

	case KindSequence:
		buf.WriteByte('[')
		for i, item := range n.Items {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := marshalNodeJSON(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil

	default:
		return writeJSON(buf, n.Value)
	}
}

// writeJSON marshals a value to JSON and writes it to the buffer.
func writeJSON(buf *bytes.Buffer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	buf.Write(data)
	return nil
}
