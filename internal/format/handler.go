package format

import "github.com/thirteen37/keepfmt/internal/path"

// Handler is the tree-level view of a format adapter. Trees are built from
// *orderedmap.OrderedMap, []any and scalars so that key order survives a
// parse/stringify cycle where the codec allows it.
type Handler interface {
	// Kind returns the format handled.
	Kind() Kind

	// Parse decodes text into a tree and captures its formatting.
	Parse(text string, opts *Options) (Formatted[any], error)

	// Stringify encodes a tree and reapplies its formatting.
	Stringify(doc Formatted[any], opts *Options) (string, error)

	// GetPath extracts a value at the given path.
	GetPath(tree any, p path.Path) (any, bool)

	// SetPath sets a value at the given path.
	SetPath(tree any, p path.Path, value any) error

	// DeletePath removes the value at the given path.
	// Returns false if nothing was removed.
	DeletePath(tree any, p path.Path) bool
}
