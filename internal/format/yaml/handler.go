package yaml

import (
	"fmt"

	"github.com/iancoleman/orderedmap"
	"github.com/thirteen37/keepfmt/internal/format"
	"github.com/thirteen37/keepfmt/internal/path"
	"gopkg.in/yaml.v3"
)

const mergeTag = "!!merge"

// Handler implements format.Handler for YAML files.
//
// Trees are built from the node graph so mapping key order survives.
// Comments, anchors and styles are not carried over.
type Handler struct{}

// New creates a new YAML handler.
func New() *Handler {
	return &Handler{}
}

// Kind returns format.KindYAML.
func (h *Handler) Kind() format.Kind {
	return format.KindYAML
}

// Parse decodes the first YAML document of text into a tree.
func (h *Handler) Parse(text string, opts *format.Options) (format.Formatted[any], error) {
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(text), &doc); err != nil {
		return format.Formatted[any]{}, format.ParseError(format.KindYAML, err)
	}

	w := &walker{active: make(map[*yaml.Node]bool)}
	tree, err := w.tree(&doc)
	if err != nil {
		return format.Formatted[any]{}, format.ParseError(format.KindYAML, err)
	}
	return format.Wrap(text, tree, opts.ForKind(format.KindYAML)), nil
}

// Alias expansion is refused once it yields far more nodes than the
// document itself holds.
const (
	aliasMinimum = 10000
	aliasRatio   = 10
)

// walker builds trees from a node graph.
type walker struct {
	active  map[*yaml.Node]bool // anchored nodes being built
	depth   int                 // nesting of alias expansions
	nodes   int
	aliased int
}

func (w *walker) tree(n *yaml.Node) (any, error) {
	w.nodes++
	if w.depth > 0 {
		w.aliased++
		if w.aliased > aliasMinimum && w.aliased > aliasRatio*(w.nodes-w.aliased) {
			return nil, fmt.Errorf("line %d: document expands too many aliases", n.Line)
		}
	}

	if n.Anchor != "" {
		w.active[n] = true
		defer delete(w.active, n)
	}

	switch n.Kind {
	case 0:
		return nil, nil
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return w.tree(n.Content[0])
	case yaml.AliasNode:
		if n.Alias == nil {
			return nil, fmt.Errorf("line %d: unknown anchor %q", n.Line, n.Value)
		}
		if w.active[n.Alias] {
			return nil, fmt.Errorf("line %d: anchor %q value contains itself", n.Line, n.Value)
		}
		w.depth++
		defer func() { w.depth-- }()
		return w.tree(n.Alias)
	case yaml.MappingNode:
		om := orderedmap.New()
		lines := make(map[string]int, len(n.Content)/2)
		var merges []*yaml.Node
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, v := n.Content[i], n.Content[i+1]
			if k.ShortTag() == mergeTag {
				merges = append(merges, v)
				continue
			}
			if first, dup := lines[k.Value]; dup {
				return nil, fmt.Errorf("line %d: mapping key %q already defined at line %d", k.Line, k.Value, first)
			}
			lines[k.Value] = k.Line

			val, err := w.tree(v)
			if err != nil {
				return nil, err
			}
			om.Set(k.Value, val)
		}
		for _, m := range merges {
			if err := w.mergeInto(om, m); err != nil {
				return nil, err
			}
		}
		return om, nil
	case yaml.SequenceNode:
		arr := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := w.tree(c)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		return arr, nil
	case yaml.ScalarNode:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, err
		}
		return v, nil
	default:
		return nil, fmt.Errorf("line %d: unsupported node kind %d", n.Line, n.Kind)
	}
}

// mergeInto applies a "<<" merge value. Keys already present win.
func (w *walker) mergeInto(om *orderedmap.OrderedMap, n *yaml.Node) error {
	if n.Kind == yaml.SequenceNode {
		for _, c := range n.Content {
			if err := w.mergeInto(om, c); err != nil {
				return err
			}
		}
		return nil
	}

	v, err := w.tree(n)
	if err != nil {
		return err
	}
	src := format.ToOrderedMapPtr(v)
	if src == nil {
		return fmt.Errorf("line %d: merge value must be a mapping", n.Line)
	}
	for _, k := range src.Keys() {
		if _, exists := om.Get(k); exists {
			continue
		}
		val, _ := src.Get(k)
		om.Set(k, val)
	}
	return nil
}

// Stringify writes the tree to YAML in tree order.
// An empty tree writes no body.
func (h *Handler) Stringify(doc format.Formatted[any], opts *format.Options) (string, error) {
	if format.IsNil(doc.Value) {
		return format.Apply("", doc.Format, 0, false), nil
	}

	node, err := toNode(format.CloneTree(doc.Value))
	if err != nil {
		return "", format.StringifyError(format.KindYAML, err)
	}
	return Stringify(format.Rewrap(doc, node), opts)
}

// toNode converts a tree to a node graph, turning encoder panics on values
// YAML cannot represent into errors.
func toNode(v any) (n *yaml.Node, err error) {
	defer func() {
		if r := recover(); r != nil {
			n, err = nil, fmt.Errorf("%v", r)
		}
	}()
	return treeToNode(v)
}

func treeToNode(v any) (*yaml.Node, error) {
	if om := format.ToOrderedMapPtr(v); om != nil {
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, k := range om.Keys() {
			val, _ := om.Get(k)
			child, err := treeToNode(val)
			if err != nil {
				return nil, err
			}
			key := &yaml.Node{}
			if err := key.Encode(k); err != nil {
				return nil, err
			}
			n.Content = append(n.Content, key, child)
		}
		return n, nil
	}

	if arr, ok := v.([]any); ok {
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range arr {
			child, err := treeToNode(item)
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, child)
		}
		return n, nil
	}

	n := &yaml.Node{}
	if err := n.Encode(v); err != nil {
		return nil, err
	}
	return n, nil
}

// GetPath extracts a value at the given path.
func (h *Handler) GetPath(tree any, p path.Path) (any, bool) {
	return format.GetPath(tree, p.Segments())
}

// SetPath sets a value at the given path.
func (h *Handler) SetPath(tree any, p path.Path, value any) error {
	return format.SetPath(tree, p.Segments(), value)
}

// DeletePath removes the value at the given path.
func (h *Handler) DeletePath(tree any, p path.Path) bool {
	return format.DeletePath(tree, p.Segments())
}

var _ format.Handler = (*Handler)(nil)
