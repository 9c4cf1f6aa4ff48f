package json

import (
	"github.com/thirteen37/keepfmt/internal/format"
	"github.com/thirteen37/keepfmt/internal/path"
)

// Handler implements format.Handler for JSON files.
type Handler struct{}

// New creates a new JSON handler.
func New() *Handler {
	return &Handler{}
}

// Kind returns format.KindJSON.
func (h *Handler) Kind() format.Kind {
	return format.KindJSON
}

// Parse reads JSON text and returns a tree with object key order preserved.
func (h *Handler) Parse(text string, opts *format.Options) (format.Formatted[any], error) {
	tree, err := DecodeTree([]byte(text))
	if err != nil {
		return format.Formatted[any]{}, format.ParseError(format.KindJSON, err)
	}
	return format.Wrap(text, tree, opts.ForKind(format.KindJSON)), nil
}

// Stringify writes the tree back to JSON with the captured formatting.
func (h *Handler) Stringify(doc format.Formatted[any], opts *format.Options) (string, error) {
	return StringifyTree(format.KindJSON, doc, opts)
}

// StringifyTree encodes a tree as JSON on behalf of kind.
func StringifyTree(kind format.Kind, doc format.Formatted[any], opts *format.Options) (string, error) {
	body, err := Marshal(doc.Value, format.EncoderIndent)
	if err != nil {
		return "", format.StringifyError(kind, err)
	}
	return Reformat(string(body), doc.Format, opts), nil
}

// GetPath extracts a value at the given path.
func (h *Handler) GetPath(tree any, p path.Path) (any, bool) {
	return format.GetPath(tree, p.Segments())
}

// SetPath sets a value at the given path.
// Creates intermediate maps as needed.
func (h *Handler) SetPath(tree any, p path.Path, value any) error {
	return format.SetPath(tree, p.Segments(), value)
}

// DeletePath removes the value at the given path.
func (h *Handler) DeletePath(tree any, p path.Path) bool {
	return format.DeletePath(tree, p.Segments())
}

// Ensure Handler implements format.Handler.
var _ format.Handler = (*Handler)(nil)
