package render

import (
	"context"
	"io"

	"github.com/oinktools/pig/resolver"
)

// Engine is the templating boundary. The Driver hands it the resolved
// context tree and a template path and receives rendered bytes; everything
// else about the engine (syntax, helper functions, lookup rules) is its
// own business. Implementations must be safe for concurrent use: the
// Driver may render entries in parallel.
type Engine interface {
	// Templates returns the template files under the entry's input
	// directory, as paths relative to in, in stable order.
	Templates(in string) ([]string, error)

	// Render executes the template at tmplPath (relative to in) against
	// the resolved tree and writes the output to w.
	Render(ctx context.Context, in, tmplPath string, tree *resolver.Node, w io.Writer) error
}
