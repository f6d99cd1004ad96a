// Package mcpserver implements an MCP (Model Context Protocol) server
// that exposes pig's resolve and render capabilities as MCP tools over
// stdio.
package mcpserver

import (
	"context"
	"os"
	"regexp"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/oinktools/pig"
	"github.com/oinktools/pig/config"
)

const serverInstructions = `pig MCP server: resolves OpenAPI $ref graphs and renders templates.

Tools:
- entries: list the config entries pig would render (api, in, out per entry)
- resolve: resolve one OpenAPI document into its full context tree; returns the tree (yaml or json) plus dependency and reference stats
- render: run the full render pipeline for every config entry, or one entry when entry is set; returns per-entry outcomes

The entries and render tools locate pig.yaml by walking upward from the working directory unless an explicit config path is given. Resolved trees carry the $ref/$file/$keys/$name provenance keys exactly as templates see them; use resolve to inspect what a template receives.`

// Run starts the MCP server over stdio and blocks until the client
// disconnects or the context is cancelled.
func Run(ctx context.Context) error {
	server := mcp.NewServer(
		&mcp.Implementation{Name: "pig", Version: pig.Version()},
		&mcp.ServerOptions{
			Instructions: serverInstructions,
		},
	)
	registerAllTools(server)
	return server.Run(ctx, &mcp.StdioTransport{})
}

func registerAllTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "entries",
		Description: "List the entries of a pig.yaml config: the api document, template directory, and output directory of each. The config is discovered upward from the working directory unless config is set.",
	}, handleEntries)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "resolve",
		Description: "Resolve every $ref in an OpenAPI document into one context tree. Returns the tree in yaml (default) or json, the files the pass read, and reference stats. Resolution fails with the full chain on circular references.",
	}, handleResolve)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "render",
		Description: "Resolve and render config entries: templates under each entry's in directory are rendered into its out directory along with the .pig.context dumps. Set entry to an api path or file name to render just that entry. Entries are isolated; the result reports each entry's rendered files or error.",
	}, handleRender)
}

// locateConfig loads the config at path, or discovers pig.yaml upward from
// the working directory when path is empty.
func locateConfig(path string) (*config.Config, error) {
	if path == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		path, err = config.Discover(cwd)
		if err != nil {
			return nil, err
		}
	}
	return config.Load(path)
}

// sanitizeError strips absolute filesystem paths from error messages
// to prevent leaking internal directory structure to MCP clients.
var pathPattern = regexp.MustCompile(`(?:/(?:home|tmp|var|Users|etc|opt|usr|private|root|mnt|srv|run|snap|nix)[a-zA-Z0-9._/-]*)`)

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return pathPattern.ReplaceAllString(err.Error(), "<path>")
}

// errResult creates an MCP error result from an error.
func errResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: sanitizeError(err)}},
	}
}
