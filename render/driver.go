package render

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/imports"

	"github.com/oinktools/pig/config"
	"github.com/oinktools/pig/internal/fileutil"
	"github.com/oinktools/pig/pigerrors"
	"github.com/oinktools/pig/resolver"
)

// Driver runs the resolve-and-render pipeline for config entries.
type Driver struct {
	// Engine renders individual templates. Defaults to GoTemplateEngine.
	Engine Engine
	// Logger receives progress and diagnostic messages.
	Logger resolver.Logger
	// Parallel renders independent entries concurrently.
	Parallel bool
}

// NewDriver returns a Driver with the bundled template engine, no logging,
// and parallel entry rendering.
func NewDriver() *Driver {
	return &Driver{
		Engine:   GoTemplateEngine{},
		Logger:   resolver.NopLogger{},
		Parallel: true,
	}
}

// EntryResult is the outcome of one config entry's pass.
type EntryResult struct {
	// Entry is the config entry this result belongs to
	Entry config.Entry
	// Tree is the resolved context tree, nil if resolution failed
	Tree *resolver.Node
	// Dependencies lists every file the pass read, in sorted order
	Dependencies []string
	// Rendered lists the absolute path of every output file written,
	// in template order
	Rendered []string
	// Duration is the total time spent on the entry
	Duration time.Duration
	// Err is the first error the pass hit, nil on success
	Err error
}

// Outcome collects the per-entry results of one Run, in config order.
type Outcome []EntryResult

// Failed returns the number of entries that ended in an error.
func (o Outcome) Failed() int {
	n := 0
	for _, r := range o {
		if r.Err != nil {
			n++
		}
	}
	return n
}

// Err joins the errors of all failed entries, or returns nil if every
// entry succeeded.
func (o Outcome) Err() error {
	var errs []error
	for _, r := range o {
		if r.Err != nil {
			errs = append(errs, r.Err)
		}
	}
	return errors.Join(errs...)
}

// Run executes every config entry as an isolated unit of work and returns
// all outcomes. A failing entry never blocks or cancels its siblings; with
// Parallel set, entries run concurrently.
func (d *Driver) Run(ctx context.Context, cfg *config.Config) Outcome {
	results := make(Outcome, len(cfg.Entries))

	if d.Parallel && len(cfg.Entries) > 1 {
		g, gctx := errgroup.WithContext(ctx)
		for i, e := range cfg.Entries {
			g.Go(func() error {
				// Each worker records its own result so one failure
				// never cancels the group.
				results[i] = d.RunEntry(gctx, e)
				return nil
			})
		}
		_ = g.Wait()
		return results
	}

	for i, e := range cfg.Entries {
		results[i] = d.RunEntry(ctx, e)
	}
	return results
}

// RunEntry resolves the entry's api document and renders every template
// under its input directory into its output directory. Each call uses a
// fresh document registry so the pass always reads current disk state.
func (d *Driver) RunEntry(ctx context.Context, e config.Entry) EntryResult {
	start := time.Now()
	res := EntryResult{Entry: e}
	log := d.logger().With("api", e.API)

	result, err := resolver.ResolveWithOptions(ctx,
		resolver.WithFilePath(e.API),
		resolver.WithLogger(d.logger()),
	)
	if err != nil {
		res.Err = err
		res.Duration = time.Since(start)
		return res
	}
	res.Tree = result.Tree
	res.Dependencies = result.Dependencies

	if err := result.WriteContext(e.Out); err != nil {
		res.Err = err
		res.Duration = time.Since(start)
		return res
	}

	templates, err := d.engine().Templates(e.In)
	if err != nil {
		res.Err = &pigerrors.RenderError{Entry: e.API, Cause: err}
		res.Duration = time.Since(start)
		return res
	}

	for _, tmpl := range templates {
		outPath, err := d.renderOne(ctx, e, tmpl, result.Tree)
		if err != nil {
			res.Err = err
			res.Duration = time.Since(start)
			return res
		}
		res.Rendered = append(res.Rendered, outPath)
	}

	res.Duration = time.Since(start)
	log.Info("entry rendered",
		"templates", len(res.Rendered),
		"dependencies", len(res.Dependencies),
		"duration", res.Duration)
	return res
}

// renderOne renders a single template to its mirrored output path and
// returns the path written.
func (d *Driver) renderOne(ctx context.Context, e config.Entry, tmplPath string, tree *resolver.Node) (string, error) {
	var buf bytes.Buffer
	if err := d.engine().Render(ctx, e.In, tmplPath, tree, &buf); err != nil {
		return "", &pigerrors.RenderError{Template: tmplPath, Entry: e.API, Cause: err}
	}

	outPath := filepath.Join(e.Out, strings.TrimSuffix(tmplPath, TemplateSuffix))
	content := buf.Bytes()
	if filepath.Ext(outPath) == ".go" {
		// If goimports fails, the unformatted output is written as-is.
		if formatted, err := imports.Process(outPath, content, nil); err == nil {
			content = formatted
		}
	}

	if dir := filepath.Dir(outPath); dir != e.Out {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", &pigerrors.WriteError{Path: outPath, Cause: err}
		}
	}
	if err := os.WriteFile(outPath, content, fileutil.ReadableByAll); err != nil {
		return "", &pigerrors.WriteError{Path: outPath, Cause: err}
	}

	d.logger().Debug("rendered template", "template", tmplPath, "output", outPath)
	return outPath, nil
}

func (d *Driver) engine() Engine {
	if d.Engine == nil {
		return GoTemplateEngine{}
	}
	return d.Engine
}

func (d *Driver) logger() resolver.Logger {
	if d.Logger == nil {
		return resolver.NopLogger{}
	}
	return d.Logger
}
