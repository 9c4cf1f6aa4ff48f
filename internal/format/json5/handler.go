package json5

import (
	"github.com/thirteen37/keepfmt/internal/format"
	"github.com/thirteen37/keepfmt/internal/path"
	"github.com/titanous/json5"
)

// Handler implements format.Handler for JSON5 files.
//
// The decoder does not report object key order, so parsed trees hold keys
// in sorted order.
type Handler struct{}

// New creates a new JSON5 handler.
func New() *Handler {
	return &Handler{}
}

// Kind returns format.KindJSON5.
func (h *Handler) Kind() format.Kind {
	return format.KindJSON5
}

// Parse decodes JSON5 text into a tree.
func (h *Handler) Parse(text string, opts *format.Options) (format.Formatted[any], error) {
	var value any
	if err := json5.Unmarshal([]byte(text), &value); err != nil {
		return format.Formatted[any]{}, format.ParseError(format.KindJSON5, err)
	}
	return format.Wrap(text, format.CloneTree(value), opts.ForKind(format.KindJSON5)), nil
}

// Stringify writes the tree as compact JSON.
func (h *Handler) Stringify(doc format.Formatted[any], opts *format.Options) (string, error) {
	return Stringify(doc, opts)
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
