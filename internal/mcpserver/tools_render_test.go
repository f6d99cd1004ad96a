package mcpserver

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderTool(t *testing.T) {
	cfgPath := newConfigTree(t, "info:\n  title: Petstore\n")
	dir := filepath.Dir(cfgPath)
	writeFile(t, dir, "templates/title.txt.tmpl", "{{ .info.title }}")

	result, output, err := handleRender(context.Background(), &mcp.CallToolRequest{}, renderInput{Config: cfgPath})
	require.NoError(t, err)
	require.Nil(t, result)

	assert.Equal(t, cfgPath, output.Config)
	assert.Zero(t, output.Failed)
	require.Len(t, output.Entries, 1)
	assert.Empty(t, output.Entries[0].Error)
	require.Len(t, output.Entries[0].Rendered, 1)

	data, err := os.ReadFile(output.Entries[0].Rendered[0])
	require.NoError(t, err)
	assert.Equal(t, "Petstore", string(data))
	assert.Equal(t, filepath.Join(dir, "generated", "title.txt"), output.Entries[0].Rendered[0])
}

func TestRenderTool_EntryFilter(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "alpha.yaml", "name: alpha\n")
	writeFile(t, dir, "beta.yaml", "name: beta\n")
	writeFile(t, dir, "templates/name.txt.tmpl", "{{ .name }}")
	cfgPath := writeFile(t, dir, "pig.yaml",
		"- api: alpha.yaml\n  in: templates\n  out: out-alpha\n"+
			"- api: beta.yaml\n  in: templates\n  out: out-beta\n")

	result, output, err := handleRender(context.Background(), &mcp.CallToolRequest{},
		renderInput{Config: cfgPath, Entry: "beta.yaml"})
	require.NoError(t, err)
	require.Nil(t, result)

	require.Len(t, output.Entries, 1)
	assert.Equal(t, filepath.Join(dir, "beta.yaml"), output.Entries[0].API)
	assert.FileExists(t, filepath.Join(dir, "out-beta", "name.txt"))
	assert.NoFileExists(t, filepath.Join(dir, "out-alpha", "name.txt"))
}

func TestRenderTool_EntryFilter_NoMatch(t *testing.T) {
	cfgPath := newConfigTree(t, "a: 1\n")

	result, _, err := handleRender(context.Background(), &mcp.CallToolRequest{},
		renderInput{Config: cfgPath, Entry: "nope.yaml"})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.IsError)
}

func TestRenderTool_EntryFailure(t *testing.T) {
	cfgPath := newConfigTree(t, "bad:\n  $ref: \"missing.yaml#/x\"\n")

	result, output, err := handleRender(context.Background(), &mcp.CallToolRequest{}, renderInput{Config: cfgPath})
	require.NoError(t, err)
	require.Nil(t, result, "per-entry failures are outcomes, not tool errors")

	assert.Equal(t, 1, output.Failed)
	require.Len(t, output.Entries, 1)
	assert.NotEmpty(t, output.Entries[0].Error)
	assert.NotContains(t, output.Entries[0].Error, os.TempDir(),
		"entry errors are path-sanitized")
}

func TestRenderTool_BadConfig(t *testing.T) {
	result, _, err := handleRender(context.Background(), &mcp.CallToolRequest{},
		renderInput{Config: filepath.Join(t.TempDir(), "pig.yaml")})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.IsError)
}
