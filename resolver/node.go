package resolver

import (
	"fmt"
	"strconv"

	"go.yaml.in/yaml/v4"
)

// Kind identifies the shape of a Node.
type Kind int

const (
	// KindScalar is a leaf value: null, bool, integer, float, or string.
	KindScalar Kind = iota
	// KindSequence is an ordered list of nodes.
	KindSequence
	// KindMapping is an ordered list of key/value pairs with unique keys.
	KindMapping
)

// String returns the kind name for diagnostics.
func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	default:
		return "unknown"
	}
}

// Pair is a single key/value entry of a mapping node.
type Pair struct {
	Key   string
	Value *Node
}

// Node is one value of a document tree. Exactly one of the payload fields
// is meaningful, selected by Kind. Mapping pairs keep the order they had
// in the source document; that order is preserved through resolution and
// into the exported context.
type Node struct {
	Kind Kind

	// Value is the scalar payload: nil, bool, int, int64, uint64,
	// float64, or string as decoded from the source.
	Value any

	// Items is the sequence payload.
	Items []*Node

	// Pairs is the mapping payload. Keys are unique.
	Pairs []Pair
}

// ScalarNode returns a scalar node holding v.
func ScalarNode(v any) *Node {
	return &Node{Kind: KindScalar, Value: v}
}

// SequenceNode returns a sequence node holding items.
func SequenceNode(items ...*Node) *Node {
	return &Node{Kind: KindSequence, Items: items}
}

// MappingNode returns a mapping node holding pairs.
func MappingNode(pairs ...Pair) *Node {
	return &Node{Kind: KindMapping, Pairs: pairs}
}

// Get returns the value for key in a mapping node.
// The second result is false if the key is absent or the node is not a mapping.
func (n *Node) Get(key string) (*Node, bool) {
	if n == nil || n.Kind != KindMapping {
		return nil, false
	}
	for _, p := range n.Pairs {
		if p.Key == key {
			return p.Value, true
		}
	}
	return nil, false
}

// Set replaces the value for key in a mapping node, or appends a new pair
// when the key is absent. It panics if the node is not a mapping.
func (n *Node) Set(key string, value *Node) {
	if n.Kind != KindMapping {
		panic(fmt.Sprintf("resolver: Set on %s node", n.Kind))
	}
	for i, p := range n.Pairs {
		if p.Key == key {
			n.Pairs[i].Value = value
			return
		}
	}
	n.Pairs = append(n.Pairs, Pair{Key: key, Value: value})
}

// Delete removes the pair for key from a mapping node, preserving the
// order of the remaining pairs. It is a no-op when the key is absent or
// the node is not a mapping.
func (n *Node) Delete(key string) {
	if n == nil || n.Kind != KindMapping {
		return
	}
	for i, p := range n.Pairs {
		if p.Key == key {
			n.Pairs = append(n.Pairs[:i], n.Pairs[i+1:]...)
			return
		}
	}
}

// Len returns the number of items or pairs, and 0 for scalars.
func (n *Node) Len() int {
	if n == nil {
		return 0
	}
	switch n.Kind {
	case KindSequence:
		return len(n.Items)
	case KindMapping:
		return len(n.Pairs)
	default:
		return 0
	}
}

// Clone returns a deep copy of the node.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	out := &Node{Kind: n.Kind, Value: n.Value}
	if n.Items != nil {
		out.Items = make([]*Node, len(n.Items))
		for i, item := range n.Items {
			out.Items[i] = item.Clone()
		}
	}
	if n.Pairs != nil {
		out.Pairs = make([]Pair, len(n.Pairs))
		for i, p := range n.Pairs {
			out.Pairs[i] = Pair{Key: p.Key, Value: p.Value.Clone()}
		}
	}
	return out
}

// Interface converts the tree to plain Go values: map[string]any for
// mappings, []any for sequences, and the scalar payload for scalars.
// Mapping order is lost in the conversion; consumers that need ordered
// iteration should walk the Node directly.
func (n *Node) Interface() any {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case KindSequence:
		items := make([]any, len(n.Items))
		for i, item := range n.Items {
			items[i] = item.Interface()
		}
		return items
	case KindMapping:
		m := make(map[string]any, len(n.Pairs))
		for _, p := range n.Pairs {
			m[p.Key] = p.Value.Interface()
		}
		return m
	default:
		return n.Value
	}
}

// DecodeYAML parses data into a Node tree, resolving YAML aliases and
// rejecting duplicate mapping keys. An empty document decodes to a null
// scalar.
func DecodeYAML(data []byte) (*Node, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	if root.Kind == 0 {
		return ScalarNode(nil), nil
	}
	return fromYAMLNode(&root)
}

// fromYAMLNode converts a yaml.Node subtree into the Node representation.
func fromYAMLNode(n *yaml.Node) (*Node, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return ScalarNode(nil), nil
		}
		return fromYAMLNode(n.Content[0])

	case yaml.AliasNode:
		return fromYAMLNode(n.Alias)

	case yaml.MappingNode:
		out := &Node{Kind: KindMapping, Pairs: make([]Pair, 0, len(n.Content)/2)}
		seen := make(map[string]bool, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			keyNode := n.Content[i]
			if keyNode.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("unsupported mapping key of kind %d at line %d", keyNode.Kind, keyNode.Line)
			}
			key := keyNode.Value
			if seen[key] {
				return nil, fmt.Errorf("duplicate mapping key %q at line %d", key, keyNode.Line)
			}
			seen[key] = true
			value, err := fromYAMLNode(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			out.Pairs = append(out.Pairs, Pair{Key: key, Value: value})
		}
		return out, nil

	case yaml.SequenceNode:
		out := &Node{Kind: KindSequence, Items: make([]*Node, 0, len(n.Content))}
		for _, item := range n.Content {
			child, err := fromYAMLNode(item)
			if err != nil {
				return nil, err
			}
			out.Items = append(out.Items, child)
		}
		return out, nil

	default:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, err
		}
		return ScalarNode(v), nil
	}
}

// MarshalYAML implements yaml.Marshaler, emitting mapping pairs in
// document order rather than the sorted order yaml applies to Go maps.
func (n *Node) MarshalYAML() (any, error) {
	return n.yamlNode()
}

// yamlNode converts the tree to a yaml.Node for ordered marshaling.
func (n *Node) yamlNode() (*yaml.Node, error) {
	if n == nil {
		return scalarYAMLNode("!!null", "null"), nil
	}
	switch n.Kind {
	case KindMapping:
		out := &yaml.Node{
			Kind:    yaml.MappingNode,
			Content: make([]*yaml.Node, 0, len(n.Pairs)*2),
		}
		for _, p := range n.Pairs {
			valNode, err := p.Value.yamlNode()
			if err != nil {
				return nil, err
			}
			out.Content = append(out.Content, scalarYAMLNode("!!str", p.Key), valNode)
		}
		return out, nil

	case KindSequence:
		out := &yaml.Node{
			Kind:    yaml.SequenceNode,
			Content: make([]*yaml.Node, 0, len(n.Items)),
		}
		for _, item := range n.Items {
			child, err := item.yamlNode()
			if err != nil {
				return nil, err
			}
			out.Content = append(out.Content, child)
		}
		return out, nil

	default:
		return scalarValueNode(n.Value)
	}
}

// scalarYAMLNode creates a yaml.Node for a scalar value with an explicit tag.
func scalarYAMLNode(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}

// scalarValueNode converts a scalar payload to a tagged yaml.Node.
func scalarValueNode(v any) (*yaml.Node, error) {
	if v == nil {
		return scalarYAMLNode("!!null", "null"), nil
	}
	switch val := v.(type) {
	case bool:
		return scalarYAMLNode("!!bool", strconv.FormatBool(val)), nil
	case int:
		return scalarYAMLNode("!!int", strconv.Itoa(val)), nil
	case int64:
		return scalarYAMLNode("!!int", strconv.FormatInt(val, 10)), nil
	case uint64:
		return scalarYAMLNode("!!int", strconv.FormatUint(val, 10)), nil
	case float64:
		return scalarYAMLNode("!!float", strconv.FormatFloat(val, 'f', -1, 64)), nil
	case string:
		return scalarYAMLNode("!!str", val), nil
	default:
		return nil, fmt.Errorf("cannot marshal scalar of type %T", v)
	}
}
