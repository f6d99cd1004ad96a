package mcpserver

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/oinktools/pig/resolver"
)

type resolveInput struct {
	API    string `json:"api"              jsonschema:"Path to the OpenAPI document to resolve"`
	Format string `json:"format,omitempty" jsonschema:"Context tree encoding: yaml (default) or json"`
}

type resolveOutput struct {
	Dependencies       []string `json:"dependencies"`
	DocumentsLoaded    int      `json:"documents_loaded"`
	ReferencesResolved int      `json:"references_resolved"`
	DurationMS         int64    `json:"duration_ms"`
	Context            string   `json:"context"`
}

func handleResolve(ctx context.Context, _ *mcp.CallToolRequest, input resolveInput) (*mcp.CallToolResult, resolveOutput, error) {
	result, err := resolver.ResolveWithOptions(ctx,
		resolver.WithFilePath(input.API),
	)
	if err != nil {
		return errResult(err), resolveOutput{}, nil
	}

	var data []byte
	switch input.Format {
	case "", "yaml":
		data, err = result.MarshalContextYAML()
	case "json":
		data, err = result.MarshalContextJSON()
	default:
		return errResult(fmt.Errorf("unknown format %q: use yaml or json", input.Format)), resolveOutput{}, nil
	}
	if err != nil {
		return errResult(err), resolveOutput{}, nil
	}

	return nil, resolveOutput{
		Dependencies:       result.Dependencies,
		DocumentsLoaded:    result.Stats.DocumentsLoaded,
		ReferencesResolved: result.Stats.ReferencesResolved,
		DurationMS:         result.Duration.Milliseconds(),
		Context:            string(data),
	}, nil
}
