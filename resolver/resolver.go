package resolver

import (
	"context"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/oinktools/pig/pigerrors"
)

// Reserved keys injected into every resolved reference target. When the
// target already carries one of these keys, the injected value wins and
// the target's pair is dropped.
const (
	// KeyRef holds the reference spelling that produced the object.
	KeyRef = "$ref"
	// KeyFile holds the absolute path of the document the object came from.
	KeyFile = "$file"
	// KeyKeys holds the key path of the object within its document.
	KeyKeys = "$keys"
	// KeyName holds the last key segment, the object's name.
	KeyName = "$name"
)

// isReservedKey reports whether key is one of the injected metadata keys.
func isReservedKey(key string) bool {
	switch key {
	case KeyRef, KeyFile, KeyKeys, KeyName:
		return true
	}
	return false
}

// Resolver dereferences every $ref in a document tree, producing a fully
// expanded copy annotated with provenance metadata. Source trees are never
// mutated; every pass rebuilds fresh nodes.
//
// A Resolver caches the documents it loads in its Registry. Create a new
// Resolver for each resolution pass when files may have changed on disk.
type Resolver struct {
	// Logger receives debug output during resolution.
	Logger Logger

	// Registry caches the documents loaded by this pass.
	Registry *Registry

	stack resolutionStack
	refs  int
}

// New creates a Resolver with a fresh Registry and no logging.
func New() *Resolver {
	reg := NewRegistry()
	return &Resolver{
		Logger:   NopLogger{},
		Registry: reg,
	}
}

// Result is the outcome of one resolution pass.
type Result struct {
	// Tree is the fully resolved document. Mapping order matches the
	// source documents, with reference targets expanded in place.
	Tree *Node

	// RootFile is the canonical absolute path of the resolved document.
	RootFile string

	// Dependencies lists the canonical path of every file the pass
	// loaded, sorted. The root file is always included.
	Dependencies []string

	// Duration is the wall time the pass took.
	Duration time.Duration

	// Stats summarizes the work performed.
	Stats Stats
}

// Stats summarizes the work of a resolution pass.
type Stats struct {
	// DocumentsLoaded is the number of distinct files read and parsed.
	DocumentsLoaded int
	// ReferencesResolved is the number of $ref occurrences expanded.
	ReferencesResolved int
}

// Resolve loads the document at path and resolves every reference in it.
// The returned tree shares no nodes with the loaded documents.
//
// Cancelling ctx aborts the pass at the next reference hop.
func (r *Resolver) Resolve(ctx context.Context, path string) (*Result, error) {
	start := time.Now()

	if r.Logger == nil {
		r.Logger = NopLogger{}
	}
	if r.Registry == nil {
		r.Registry = NewRegistry()
	}
	if _, ok := r.Registry.Logger.(NopLogger); ok {
		r.Registry.Logger = r.Logger
	}
	r.stack.reset()
	r.refs = 0

	doc, err := r.Registry.Load(path)
	if err != nil {
		return nil, err
	}

	tree, err := r.resolveNode(ctx, doc.Root, doc.Path)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Tree:         tree,
		RootFile:     doc.Path,
		Dependencies: r.Registry.Paths(),
		Duration:     time.Since(start),
		Stats: Stats{
			DocumentsLoaded:    r.Registry.Len(),
			ReferencesResolved: r.refs,
		},
	}
	r.Logger.Debug("resolution complete",
		"root", result.RootFile,
		"documents", result.Stats.DocumentsLoaded,
		"references", result.Stats.ReferencesResolved,
		"duration", result.Duration,
	)
	return result, nil
}

// resolveNode rebuilds n with every reference expanded. file is the
// canonical path of the document n belongs to; it anchors relative
// reference file parts.
func (r *Resolver) resolveNode(ctx context.Context, n *Node, file string) (*Node, error) {
	switch n.Kind {
	case KindMapping:
		if raw, ok := refValue(n); ok {
			if len(n.Pairs) > 1 {
				return nil, &pigerrors.MalformedReferenceError{
					Ref:     raw,
					File:    file,
					Message: "unexpected sibling keys alongside $ref: " + siblingKeys(n),
				}
			}
			return r.resolveReference(ctx, raw, file)
		}
		out := &Node{Kind: KindMapping, Pairs: make([]Pair, 0, len(n.Pairs))}
		for _, p := range n.Pairs {
			value, err := r.resolveNode(ctx, p.Value, file)
			if err != nil {
				return nil, err
			}
			out.Pairs = append(out.Pairs, Pair{Key: p.Key, Value: value})
		}
		return out, nil

	case KindSequence:
		out := &Node{Kind: KindSequence, Items: make([]*Node, 0, len(n.Items))}
		for _, item := range n.Items {
			child, err := r.resolveNode(ctx, item, file)
			if err != nil {
				return nil, err
			}
			out.Items = append(out.Items, child)
		}
		return out, nil

	default:
		return ScalarNode(n.Value), nil
	}
}

// resolveReference expands one $ref occurrence: decode, cycle-check,
// load, navigate, recurse into the target, then wrap the result with the
// reserved metadata keys.
func (r *Resolver) resolveReference(ctx context.Context, raw, file string) (*Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ref, err := ParseReference(file, raw)
	if err != nil {
		return nil, err
	}

	id := ref.Identity()
	if r.stack.contains(id) {
		return nil, &pigerrors.CircularReferenceError{Chain: r.stack.chainFrom(id)}
	}
	r.stack.push(id)
	defer r.stack.pop()

	r.Logger.Debug("resolving reference", "ref", raw, "from", file, "target", id.String())

	doc, err := r.Registry.Load(ref.File)
	if err != nil {
		return nil, err
	}

	target := doc.Root
	for i, key := range ref.Keys {
		var next *Node
		switch target.Kind {
		case KindMapping:
			next, _ = target.Get(key)
		case KindSequence:
			// Sequence segments are indices per RFC 6901
			index, convErr := strconv.Atoi(key)
			if convErr != nil {
				return nil, &pigerrors.MalformedReferenceError{
					Ref:     raw,
					File:    file,
					Message: "invalid sequence index " + strconv.Quote(key),
				}
			}
			if index >= 0 && index < len(target.Items) {
				next = target.Items[index]
			}
		}
		if next == nil {
			return nil, &pigerrors.ReferenceNotFoundError{
				Ref:     raw,
				File:    ref.File,
				Keys:    slices.Clone(ref.Keys),
				Missing: slices.Clone(ref.Keys[:i+1]),
			}
		}
		target = next
	}

	resolved, err := r.resolveNode(ctx, target, ref.File)
	if err != nil {
		return nil, err
	}
	if resolved.Kind != KindMapping {
		return nil, &pigerrors.MalformedReferenceError{
			Ref:     raw,
			File:    file,
			Message: "target is not a mapping",
		}
	}

	out := &Node{Kind: KindMapping, Pairs: make([]Pair, 0, len(resolved.Pairs)+4)}
	for _, p := range resolved.Pairs {
		if isReservedKey(p.Key) {
			continue
		}
		out.Pairs = append(out.Pairs, p)
	}
	keyItems := make([]*Node, len(ref.Keys))
	for i, key := range ref.Keys {
		keyItems[i] = ScalarNode(key)
	}
	out.Set(KeyRef, ScalarNode(ref.Normalized()))
	out.Set(KeyFile, ScalarNode(ref.File))
	out.Set(KeyKeys, SequenceNode(keyItems...))
	out.Set(KeyName, ScalarNode(ref.Name()))

	r.refs++
	return out, nil
}

// refValue returns the $ref string of a reference mapping. A mapping is
// a reference only when its $ref value is a string scalar; any other
// shape leaves the mapping as plain data.
func refValue(n *Node) (string, bool) {
	value, ok := n.Get(KeyRef)
	if !ok || value == nil || value.Kind != KindScalar {
		return "", false
	}
	s, ok := value.Value.(string)
	return s, ok
}

// siblingKeys lists the non-$ref keys of a mapping in document order.
func siblingKeys(n *Node) string {
	keys := make([]string, 0, len(n.Pairs)-1)
	for _, p := range n.Pairs {
		if p.Key != KeyRef {
			keys = append(keys, p.Key)
		}
	}
	return strings.Join(keys, ", ")
}

// resolutionStack tracks the chain of references currently being
// resolved. Membership is checked before every descent, so a reference
// already on the stack means the chain loops back on itself.
type resolutionStack struct {
	entries []string
	index   map[string]int
}

func (s *resolutionStack) reset() {
	s.entries = s.entries[:0]
	s.index = make(map[string]int)
}

func (s *resolutionStack) contains(id Identity) bool {
	if s.index == nil {
		return false
	}
	_, ok := s.index[id.String()]
	return ok
}

func (s *resolutionStack) push(id Identity) {
	if s.index == nil {
		s.index = make(map[string]int)
	}
	key := id.String()
	s.index[key] = len(s.entries)
	s.entries = append(s.entries, key)
}

func (s *resolutionStack) pop() {
	last := s.entries[len(s.entries)-1]
	delete(s.index, last)
	s.entries = s.entries[:len(s.entries)-1]
}

// chainFrom returns the stack entries from the first occurrence of id to
// the top, in traversal order. Each entry appears exactly once.
func (s *resolutionStack) chainFrom(id Identity) []string {
	start, ok := s.index[id.String()]
	if !ok {
		return nil
	}
	return slices.Clone(s.entries[start:])
}
