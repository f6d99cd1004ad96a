// Package render turns resolved OpenAPI documents into generated files.
//
// The Driver runs one pass per config entry: resolve the entry's api
// document, write the context dumps, then render every template under the
// entry's input directory into its output directory. Entries are isolated
// units of work; the Outcome reports every failure instead of stopping at
// the first.
//
// # Quick Start
//
//	cfg, err := config.Load("pig.yaml")
//	if err != nil {
//		log.Fatal(err)
//	}
//	outcome := render.NewDriver().Run(ctx, cfg)
//	if err := outcome.Err(); err != nil {
//		log.Fatal(err)
//	}
//
// # Templates
//
// The bundled GoTemplateEngine renders text/template files. Every *.tmpl
// file under an entry's input directory produces one output file at the
// mirrored relative path with the suffix stripped: in/client/api.go.tmpl
// becomes out/client/api.go. Rendered .go files are run through goimports
// before writing.
//
// The template context is the resolved document as plain maps, slices, and
// scalars, so {{ .info.title }} reads the spec's info.title value. Helper
// functions cover quoting, casing, joining, and re-encoding; see
// template.go for the full set.
//
// Custom engines implement the Engine interface and are assigned to
// Driver.Engine.
package render
