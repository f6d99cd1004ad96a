package resolver

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oinktools/pig/pigerrors"
)

// TestParseReference covers the reference grammar: file part resolution,
// key path decoding, and the malformed spellings.
func TestParseReference(t *testing.T) {
	current := filepath.Join(string(filepath.Separator), "specs", "api", "root.yaml")

	t.Run("same-file reference", func(t *testing.T) {
		ref, err := ParseReference(current, "#/components/schemas/Pet")
		require.NoError(t, err)
		assert.Equal(t, current, ref.File, "an empty file part targets the current document")
		assert.Equal(t, []string{"components", "schemas", "Pet"}, ref.Keys)
		assert.Equal(t, "Pet", ref.Name())
		assert.Equal(t, "#/components/schemas/Pet", ref.Normalized())
	})

	t.Run("relative file resolves against the referring directory", func(t *testing.T) {
		ref, err := ParseReference(current, "models.yaml#/Pet")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(filepath.Dir(current), "models.yaml"), ref.File)
		assert.Equal(t, "models.yaml#/Pet", ref.Normalized())
	})

	t.Run("dotted relative file is cleaned", func(t *testing.T) {
		ref, err := ParseReference(current, "../common/errors.yaml#/NotFound")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(string(filepath.Separator), "specs", "common", "errors.yaml"), ref.File)
	})

	t.Run("absolute file part is used as is", func(t *testing.T) {
		abs := filepath.Join(string(filepath.Separator), "elsewhere", "defs.yaml")
		ref, err := ParseReference(current, abs+"#/X")
		require.NoError(t, err)
		assert.Equal(t, abs, ref.File)
	})

	t.Run("empty segments are dropped and segments trimmed", func(t *testing.T) {
		ref, err := ParseReference(current, "#//a//b/")
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, ref.Keys)
		assert.Equal(t, "#/a/b", ref.Normalized(), "the normalized spelling drops the noise")
	})

	t.Run("JSON pointer escapes are decoded", func(t *testing.T) {
		ref, err := ParseReference(current, "#/paths/~1pets~1{id}/~0meta")
		require.NoError(t, err)
		assert.Equal(t, []string{"paths", "/pets/{id}", "~meta"}, ref.Keys)
	})

	t.Run("missing separator is malformed", func(t *testing.T) {
		_, err := ParseReference(current, "models.yaml")
		require.Error(t, err)
		assert.True(t, errors.Is(err, pigerrors.ErrMalformedReference))
	})

	t.Run("empty key path is malformed", func(t *testing.T) {
		for _, raw := range []string{"#", "#/", "models.yaml#", "models.yaml#///"} {
			_, err := ParseReference(current, raw)
			require.Error(t, err, "reference %q should be malformed", raw)
			assert.True(t, errors.Is(err, pigerrors.ErrMalformedReference), "reference %q", raw)
		}
	})
}

// TestIdentity verifies identity rendering and prefix truncation.
func TestIdentity(t *testing.T) {
	id := Identity{
		File: filepath.Join(string(filepath.Separator), "specs", "api.yaml"),
		Keys: []string{"components", "schemas", "Pet"},
	}

	assert.Equal(t, id.File+"#/components/schemas/Pet", id.String())
	assert.Equal(t, id.File+"#/components", id.Prefix(1))
	assert.Equal(t, id.String(), id.Prefix(99), "an oversized prefix length is clamped")
}

// TestReferenceIdentityEquality verifies that distinct spellings of one
// location share a canonical identity.
func TestReferenceIdentityEquality(t *testing.T) {
	current := filepath.Join(string(filepath.Separator), "specs", "root.yaml")

	plain, err := ParseReference(current, "models.yaml#/Pet")
	require.NoError(t, err)
	dotted, err := ParseReference(current, "./models.yaml#/Pet")
	require.NoError(t, err)
	noisy, err := ParseReference(current, "models.yaml#//Pet/")
	require.NoError(t, err)

	assert.Equal(t, plain.Identity().String(), dotted.Identity().String())
	assert.Equal(t, plain.Identity().String(), noisy.Identity().String())
}
