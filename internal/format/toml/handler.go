package toml

import (
	"fmt"
	"sort"

	"github.com/BurntSushi/toml"
	"github.com/iancoleman/orderedmap"
	"github.com/thirteen37/keepfmt/internal/format"
	"github.com/thirteen37/keepfmt/internal/path"
)

// Handler implements format.Handler for TOML files.
type Handler struct{}

// New creates a new TOML handler.
func New() *Handler {
	return &Handler{}
}

// Kind returns format.KindTOML.
func (h *Handler) Kind() format.Kind {
	return format.KindTOML
}

// Parse reads TOML text and returns an *orderedmap.OrderedMap tree.
// Key order from the original TOML document is preserved.
func (h *Handler) Parse(text string, opts *format.Options) (format.Formatted[any], error) {
	// Decode into a generic map to get values
	var raw map[string]any
	meta, err := toml.Decode(text, &raw)
	if err != nil {
		return format.Formatted[any]{}, format.ParseError(format.KindTOML, FormatError(text, err))
	}

	// Convert to ordered map using metadata for key order
	tree := convertToOrderedMapWithMeta(raw, &meta, nil)
	return format.Wrap(text, tree, opts.ForKind(format.KindTOML)), nil
}

// convertToOrderedMapWithMeta recursively converts decoded TOML values to
// tree form using the metadata for key order.
func convertToOrderedMapWithMeta(v any, meta *toml.MetaData, prefix []string) any {
	switch val := v.(type) {
	case map[string]any:
		result := orderedmap.New()
		for _, k := range keysInOrder(meta, prefix, val) {
			childPrefix := append(append([]string(nil), prefix...), k)
			result.Set(k, convertToOrderedMapWithMeta(val[k], meta, childPrefix))
		}
		return result
	case []map[string]any:
		// Array of tables: metadata keys carry no index, so items share the prefix
		result := make([]any, len(val))
		for i, item := range val {
			result[i] = convertToOrderedMapWithMeta(item, meta, prefix)
		}
		return result
	case []any:
		result := make([]any, len(val))
		for i, item := range val {
			result[i] = convertToOrderedMapWithMeta(item, meta, prefix)
		}
		return result
	default:
		return val
	}
}

// keysInOrder returns the keys of m in document order. Keys the metadata
// does not know about follow in sorted order.
func keysInOrder(meta *toml.MetaData, prefix []string, m map[string]any) []string {
	ordered := make([]string, 0, len(m))
	seen := make(map[string]bool, len(m))

	for _, key := range meta.Keys() {
		if len(key) != len(prefix)+1 || !hasPrefix(key, prefix) {
			continue
		}
		k := key[len(prefix)]
		if _, ok := m[k]; ok && !seen[k] {
			seen[k] = true
			ordered = append(ordered, k)
		}
	}

	var rest []string
	for k := range m {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)

	return append(ordered, rest...)
}

func hasPrefix(key toml.Key, prefix []string) bool {
	for i, p := range prefix {
		if key[i] != p {
			return false
		}
	}
	return true
}

// Stringify writes the tree to TOML. The encoder sorts keys within each
// table and writes plain keys before sub-tables.
func (h *Handler) Stringify(doc format.Formatted[any], opts *format.Options) (string, error) {
	if format.IsNil(doc.Value) {
		return format.Apply("", doc.Format, 0, false), nil
	}
	if format.ToOrderedMapPtr(doc.Value) == nil {
		if _, ok := doc.Value.(map[string]any); !ok {
			return "", format.StringifyError(format.KindTOML, fmt.Errorf("top-level value must be a table, got %T", doc.Value))
		}
	}
	return Stringify(format.Rewrap(doc, convertToRegularMap(doc.Value)), opts)
}

// convertToRegularMap recursively converts *orderedmap.OrderedMap to map[string]any.
func convertToRegularMap(v any) any {
	if om := format.ToOrderedMapPtr(v); om != nil {
		result := make(map[string]any, len(om.Keys()))
		for _, k := range om.Keys() {
			val, _ := om.Get(k)
			result[k] = convertToRegularMap(val)
		}
		return result
	}
	if arr, ok := v.([]any); ok {
		result := make([]any, len(arr))
		for i, item := range arr {
			result[i] = convertToRegularMap(item)
		}
		return result
	}
	return v
}

// GetPath extracts a value at the given path, supporting wildcards.
func (h *Handler) GetPath(tree any, p path.Path) (any, bool) {
	return format.GetPath(tree, p.Segments())
}

// SetPath sets a value at the given path, supporting wildcards.
// Creates intermediate tables as needed.
func (h *Handler) SetPath(tree any, p path.Path, value any) error {
	return format.SetPath(tree, p.Segments(), value)
}

// DeletePath removes the value at the given path.
func (h *Handler) DeletePath(tree any, p path.Path) bool {
	return format.DeletePath(tree, p.Segments())
}

// Ensure Handler implements format.Handler.
var _ format.Handler = (*Handler)(nil)
