// Package pig generates source artifacts from OpenAPI v3.0.x specifications
// by feeding a fully resolved representation of the spec into text templates.
//
// pig reads a pig.yaml config describing one or more entries, resolves every
// $ref in each entry's api document across file boundaries, and renders each
// template under the entry's input directory to the mirrored path under its
// output directory. What the generated files look like is entirely up to the
// template author; pig owns resolution, not code generation.
//
// # Overview
//
// The module consists of four primary packages:
//
//   - resolver: Load OpenAPI documents and resolve $ref references into one
//     context tree with cycle detection and provenance metadata
//   - config: Discover, load, and validate pig.yaml
//   - render: Drive resolution and template rendering per config entry
//   - watch: Re-render entries when their inputs change on disk
//
// # Installation
//
// Install the CLI using go install:
//
//	go install github.com/oinktools/pig/cmd/pig@latest
//
// # Quick Start
//
// Write a pig.yaml next to your spec:
//
//	- api: openapi.yaml
//	  in: templates
//	  out: generated
//
// Put templates under templates/ (the .tmpl suffix is stripped on output):
//
//	// templates/client.go.tmpl
//	package client
//
//	// {{ .info.title }} {{ .info.version }}
//
// Then run pig from the config's directory:
//
//	pig
//
// Or keep it running and re-render on every change:
//
//	pig --watch
//
// # Reference Resolution
//
// References use the form <file>#/<key>/<key>:
//
//	user:
//	  $ref: "models/user.yaml#/User"
//
// The file part is resolved relative to the referring document, so nested
// references keep working across directories. The referenced mapping
// replaces the reference in the resolved tree, enriched with four reserved
// keys that templates can rely on unconditionally:
//
//	$ref   the normalized reference string
//	$file  the absolute path of the document that defines the value
//	$keys  the key path from that document's root
//	$name  the last key-path segment
//
// Circular references fail resolution with the full cycle chain; missing
// targets and malformed references fail with the file and key path needed
// to locate them.
//
// Resolving programmatically:
//
//	import "github.com/oinktools/pig/resolver"
//
//	result, err := resolver.ResolveWithOptions(ctx,
//		resolver.WithFilePath("openapi.yaml"),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Printf("loaded %d documents\n", result.Stats.DocumentsLoaded)
//
// # Rendering
//
// The render package runs one pass per config entry: resolve, dump the
// context, render every template:
//
//	import (
//		"github.com/oinktools/pig/config"
//		"github.com/oinktools/pig/render"
//	)
//
//	cfg, err := config.Load("pig.yaml")
//	if err != nil {
//		log.Fatal(err)
//	}
//	outcome := render.NewDriver().Run(ctx, cfg)
//	for _, r := range outcome {
//		if r.Err != nil {
//			fmt.Printf("%s: %v\n", r.Entry.API, r.Err)
//		}
//	}
//
// Entries are isolated units of work: one entry failing never blocks the
// others, and the Outcome reports every failure.
//
// Each pass also writes two dump files into the entry's output directory,
// .pig.context.json and .pig.context.yaml, holding the exact template
// input for inspection.
//
// # Watch Mode
//
// The watch package observes the config file, the template trees, and every
// file the last resolution pass read, and re-renders affected entries on
// change:
//
//	import "github.com/oinktools/pig/watch"
//
//	w := watch.New(cfg, render.NewDriver())
//	if err := w.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
//		log.Fatal(err)
//	}
//
// Render errors in watch mode are reported and watching continues; a later
// edit can fix them.
//
// # Error Handling
//
// All errors live in the pigerrors package and support errors.Is and
// errors.As. Reference failures match both their specific sentinel and the
// umbrella pigerrors.ErrReference:
//
//	var circErr *pigerrors.CircularReferenceError
//	if errors.As(err, &circErr) {
//		// circErr.Chain names every reference in the cycle, in order
//	}
//
// # MCP Server
//
// pig mcp starts a Model Context Protocol server over stdio exposing
// resolve, render, and entries tools, so coding agents can inspect resolved
// specs and trigger generation. See internal/mcpserver.
package pig
