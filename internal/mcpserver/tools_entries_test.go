package mcpserver

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntriesTool(t *testing.T) {
	cfgPath := newConfigTree(t, "a: 1\n")
	dir := filepath.Dir(cfgPath)

	result, output, err := handleEntries(context.Background(), &mcp.CallToolRequest{}, entriesInput{Config: cfgPath})
	require.NoError(t, err)
	require.Nil(t, result)

	assert.Equal(t, cfgPath, output.Config)
	require.Len(t, output.Entries, 1)
	assert.Equal(t, filepath.Join(dir, "api.yaml"), output.Entries[0].API)
	assert.Equal(t, filepath.Join(dir, "templates"), output.Entries[0].In)
	assert.Equal(t, filepath.Join(dir, "generated"), output.Entries[0].Out)
}

func TestEntriesTool_MissingConfig(t *testing.T) {
	result, _, err := handleEntries(context.Background(), &mcp.CallToolRequest{},
		entriesInput{Config: filepath.Join(t.TempDir(), "pig.yaml")})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.IsError)
}
