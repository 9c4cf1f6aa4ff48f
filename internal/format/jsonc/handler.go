package jsonc

import (
	"github.com/thirteen37/keepfmt/internal/format"
	"github.com/thirteen37/keepfmt/internal/format/json"
	"github.com/thirteen37/keepfmt/internal/path"
)

// Handler implements format.Handler for JSONC files.
type Handler struct {
	opts Options
}

// New creates a new JSONC handler.
func New(opts Options) *Handler {
	return &Handler{opts: opts}
}

// Kind returns format.KindJSONC.
func (h *Handler) Kind() format.Kind {
	return format.KindJSONC
}

// Parse strips comments and decodes the remaining JSON into a tree.
func (h *Handler) Parse(text string, opts *format.Options) (format.Formatted[any], error) {
	plain, err := Standardize([]byte(text), h.opts)
	if err != nil {
		return format.Formatted[any]{}, format.ParseError(format.KindJSONC, err)
	}

	if isBlank(plain) {
		return format.Wrap(text, any(nil), opts.ForKind(format.KindJSONC)), nil
	}

	tree, err := json.DecodeTree(plain)
	if err != nil {
		return format.Formatted[any]{}, format.ParseError(format.KindJSONC, err)
	}
	return format.Wrap(text, tree, opts.ForKind(format.KindJSONC)), nil
}

// Stringify writes the tree as plain JSON.
func (h *Handler) Stringify(doc format.Formatted[any], opts *format.Options) (string, error) {
	return json.StringifyTree(format.KindJSONC, doc, opts)
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
