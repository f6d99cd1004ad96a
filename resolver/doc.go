// Package resolver dereferences $ref pointers in OpenAPI documents.
//
// The resolver loads a YAML document, follows every $ref it contains
// across files, and produces a single fully expanded tree in which each
// referenced object is annotated with provenance metadata: the reference
// spelling ($ref), the absolute path of the document it came from ($file),
// its key path within that document ($keys), and its name ($name). The
// expanded tree is the rendering context handed to templates.
//
// # Quick Start
//
// Resolve a file using functional options:
//
//	result, err := resolver.ResolveWithOptions(ctx,
//		resolver.WithFilePath("openapi.yaml"),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	data, _ := result.MarshalContextJSON()
//	os.Stdout.Write(data)
//
// Or create a Resolver instance directly:
//
//	r := resolver.New()
//	r.Logger = resolver.NewSlogAdapter(slog.Default())
//	result, err := r.Resolve(ctx, "openapi.yaml")
//
// # Reference Grammar
//
// A reference is a mapping whose only key is $ref with a string value of
// the form <filePath>#/<key>/<key>. The file part is resolved against the
// directory of the document the reference appears in; an empty file part
// targets the same document. Key segments index mappings by key and
// sequences by integer position, with JSON Pointer escapes (~0, ~1)
// unescaped. A mapping whose $ref value is not a string is left as plain
// data.
//
// # Cycle Detection
//
// The resolver keeps the chain of references currently being expanded and
// fails with a CircularReferenceError the moment a reference leads back
// to a location already on the chain. The error names every location in
// the cycle exactly once, in traversal order, whether the cycle spans one
// file or several.
//
// # Caching and Freshness
//
// Documents load at most once per Registry, so a fan-out of references
// into one file costs a single read. The cache is deliberately scoped to
// a pass: create a new Resolver (or Registry) whenever source files may
// have changed on disk.
package resolver
