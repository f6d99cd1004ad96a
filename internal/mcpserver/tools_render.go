package mcpserver

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/oinktools/pig/config"
	"github.com/oinktools/pig/pigerrors"
	"github.com/oinktools/pig/render"
)

type renderInput struct {
	Config string `json:"config,omitempty" jsonschema:"Path to pig.yaml; discovered upward from the working directory when omitted"`
	Entry  string `json:"entry,omitempty" jsonschema:"Render only the entry whose api path or file name matches; all entries when omitted"`
}

type renderEntryOutput struct {
	API      string   `json:"api"`
	Out      string   `json:"out"`
	Rendered []string `json:"rendered,omitempty"`
	Error    string   `json:"error,omitempty"`
}

type renderOutput struct {
	Config  string              `json:"config"`
	Entries []renderEntryOutput `json:"entries"`
	Failed  int                 `json:"failed"`
}

func handleRender(ctx context.Context, _ *mcp.CallToolRequest, input renderInput) (*mcp.CallToolResult, renderOutput, error) {
	cfg, err := locateConfig(input.Config)
	if err != nil {
		return errResult(err), renderOutput{}, nil
	}
	if input.Entry != "" {
		cfg, err = selectEntry(cfg, input.Entry)
		if err != nil {
			return errResult(err), renderOutput{}, nil
		}
	}

	outcome := render.NewDriver().Run(ctx, cfg)

	output := renderOutput{Config: cfg.Path, Failed: outcome.Failed()}
	for _, res := range outcome {
		entry := renderEntryOutput{
			API:      res.Entry.API,
			Out:      res.Entry.Out,
			Rendered: res.Rendered,
		}
		if res.Err != nil {
			entry.Error = sanitizeError(res.Err)
		}
		output.Entries = append(output.Entries, entry)
	}
	return nil, output, nil
}

// selectEntry narrows cfg to the single entry named by arg. The arg may
// be the configured api path or just its file name.
func selectEntry(cfg *config.Config, arg string) (*config.Config, error) {
	for _, e := range cfg.Entries {
		if e.API == arg || filepath.Base(e.API) == arg {
			narrowed := *cfg
			narrowed.Entries = []config.Entry{e}
			return &narrowed, nil
		}
	}
	return nil, &pigerrors.ConfigError{
		Path:    cfg.Path,
		Message: fmt.Sprintf("no entry matches %q", arg),
	}
}
