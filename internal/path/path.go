// Package path provides key selectors into decoded configuration trees.
//
// A selector is a list of segments. Each segment names a map key, an array
// index written in decimal, or "*" to match every child.
package path

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/goccy/go-json"
)

// Wildcard matches every key of a map or every element of an array.
const Wildcard = "*"

// ErrEmpty is returned for a selector without segments.
var ErrEmpty = errors.New("empty path")

// Path selects a location in a configuration tree.
type Path interface {
	// Segments returns the keys from the root down.
	Segments() []string

	// String renders the path in its JSON array form.
	String() string
}

// ArrayPath is a Path held as a list of segments, e.g. ["agent", "default_model"].
type ArrayPath struct {
	segments []string
}

// NewArrayPath wraps segments as a Path. The slice is not copied.
func NewArrayPath(segments []string) *ArrayPath {
	return &ArrayPath{segments: segments}
}

// ParseArrayPath reads the JSON array form, e.g. `["a.b", "c"]`.
// Keys containing dots can only be written this way.
func ParseArrayPath(s string) (*ArrayPath, error) {
	var segments []string
	if err := json.Unmarshal([]byte(s), &segments); err != nil {
		return nil, fmt.Errorf("invalid path array: %w", err)
	}
	if len(segments) == 0 {
		return nil, ErrEmpty
	}
	return &ArrayPath{segments: segments}, nil
}

// Parse reads either the JSON array form or the dotted form (`servers.*.port`).
func Parse(s string) (*ArrayPath, error) {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return nil, ErrEmpty
	case strings.HasPrefix(s, "["):
		return ParseArrayPath(s)
	}

	segments := strings.Split(s, ".")
	if slices.Contains(segments, "") {
		return nil, fmt.Errorf("empty segment in %q", s)
	}
	return &ArrayPath{segments: segments}, nil
}

func (p *ArrayPath) Segments() []string {
	return p.segments
}

func (p *ArrayPath) String() string {
	data, _ := json.Marshal(p.segments)
	return string(data)
}

// HasWildcard reports whether any segment of p is Wildcard.
func HasWildcard(p Path) bool {
	return slices.Contains(p.Segments(), Wildcard)
}
