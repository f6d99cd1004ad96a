package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type entriesInput struct {
	Config string `json:"config,omitempty" jsonschema:"Path to pig.yaml; discovered upward from the working directory when omitted"`
}

type configEntryOutput struct {
	API string `json:"api"`
	In  string `json:"in"`
	Out string `json:"out"`
}

type entriesOutput struct {
	Config  string              `json:"config"`
	Entries []configEntryOutput `json:"entries"`
}

func handleEntries(_ context.Context, _ *mcp.CallToolRequest, input entriesInput) (*mcp.CallToolResult, entriesOutput, error) {
	cfg, err := locateConfig(input.Config)
	if err != nil {
		return errResult(err), entriesOutput{}, nil
	}

	output := entriesOutput{Config: cfg.Path}
	for _, e := range cfg.Entries {
		output.Entries = append(output.Entries, configEntryOutput{
			API: e.API,
			In:  e.In,
			Out: e.Out,
		})
	}
	return nil, output, nil
}
