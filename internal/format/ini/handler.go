package ini

import (
	"fmt"
	"slices"

	"github.com/iancoleman/orderedmap"
	"github.com/thirteen37/keepfmt/internal/format"
	"github.com/thirteen37/keepfmt/internal/path"
)

// Handler implements format.Handler for INI files.
type Handler struct {
	opts Options
}

// New creates a new INI handler using the given parser flags.
func New(opts Options) *Handler {
	return &Handler{opts: opts}
}

// Kind returns format.KindINI.
func (h *Handler) Kind() format.Kind {
	return format.KindINI
}

// Parse reads INI text into a section tree. No formatting is captured.
func (h *Handler) Parse(text string, _ *format.Options) (format.Formatted[any], error) {
	om, err := Parse(text, &h.opts)
	if err != nil {
		return format.Formatted[any]{}, err
	}
	return format.Formatted[any]{Value: om}, nil
}

// Stringify writes the tree as INI text. The descriptor is ignored.
func (h *Handler) Stringify(doc format.Formatted[any], _ *format.Options) (string, error) {
	if format.IsNil(doc.Value) {
		return "", nil
	}
	om := format.ToOrderedMapPtr(doc.Value)
	if om == nil {
		return "", format.StringifyError(format.KindINI, fmt.Errorf("top-level value must be a map of sections, got %T", doc.Value))
	}
	return Stringify(om)
}

// GetPath extracts a value at the given path, supporting wildcards.
// INI paths are limited to ["section", "key"] format (max 2 segments).
// Wildcard "*" can be used for section to match any section.
func (h *Handler) GetPath(tree any, p path.Path) (any, bool) {
	segments := p.Segments()
	if len(segments) == 0 || len(segments) > 2 {
		return nil, false
	}

	om := format.ToOrderedMapPtr(tree)
	if om == nil {
		return nil, false
	}

	for _, name := range sectionNames(om, segments[0]) {
		sectionVal, _ := om.Get(name)
		if len(segments) == 1 {
			return sectionVal, true
		}

		section := format.ToOrderedMapPtr(sectionVal)
		if section == nil {
			continue
		}
		if segments[1] == format.Wildcard {
			for _, key := range section.Keys() {
				val, _ := section.Get(key)
				return val, true
			}
			continue
		}
		if val, exists := section.Get(segments[1]); exists {
			return val, true
		}
	}
	return nil, false
}

// SetPath sets a value at the given path, supporting wildcards.
// A one-segment path replaces a whole section and needs a map value.
// Key values are converted to strings; nil marks a key without a value.
func (h *Handler) SetPath(tree any, p path.Path, value any) error {
	segments := p.Segments()
	if len(segments) == 0 || len(segments) > 2 {
		return fmt.Errorf("INI paths must have 1 or 2 segments, got %d", len(segments))
	}

	om := format.ToOrderedMapPtr(tree)
	if om == nil {
		return fmt.Errorf("tree is not an ordered map")
	}

	if len(segments) == 1 {
		section := format.ToOrderedMapPtr(value)
		if section == nil {
			return fmt.Errorf("section %q must be set to a map, got %T", segments[0], value)
		}
		for _, name := range sectionNames(om, segments[0]) {
			om.Set(name, format.CloneTree(section))
		}
		if segments[0] != format.Wildcard {
			if _, exists := om.Get(segments[0]); !exists {
				om.Set(segments[0], section)
			}
		}
		return nil
	}

	var str any
	if value != nil {
		s, err := toString(value)
		if err != nil {
			return err
		}
		str = s
	}

	if segments[0] != format.Wildcard {
		if _, exists := om.Get(segments[0]); !exists {
			om.Set(segments[0], orderedmap.New())
		}
	}

	for _, name := range sectionNames(om, segments[0]) {
		sectionVal, _ := om.Get(name)
		section := format.ToOrderedMapPtr(sectionVal)
		if section == nil {
			if segments[0] == format.Wildcard {
				continue
			}
			return fmt.Errorf("section %q is not a map", name)
		}

		if segments[1] == format.Wildcard {
			for _, key := range section.Keys() {
				section.Set(key, str)
			}
			continue
		}
		section.Set(segments[1], str)
	}
	return nil
}

// DeletePath removes a section or a key. Wildcards remove every match.
func (h *Handler) DeletePath(tree any, p path.Path) bool {
	segments := p.Segments()
	if len(segments) == 0 || len(segments) > 2 {
		return false
	}

	om := format.ToOrderedMapPtr(tree)
	if om == nil {
		return false
	}

	deleted := false
	for _, name := range sectionNames(om, segments[0]) {
		if len(segments) == 1 {
			om.Delete(name)
			deleted = true
			continue
		}

		sectionVal, _ := om.Get(name)
		section := format.ToOrderedMapPtr(sectionVal)
		if section == nil {
			continue
		}
		for _, key := range slices.Clone(section.Keys()) {
			if segments[1] == format.Wildcard || key == segments[1] {
				section.Delete(key)
				deleted = true
			}
		}
	}
	return deleted
}

// sectionNames lists the sections a segment selects.
func sectionNames(om *orderedmap.OrderedMap, segment string) []string {
	if segment == format.Wildcard {
		return slices.Clone(om.Keys())
	}
	if _, exists := om.Get(segment); exists {
		return []string{segment}
	}
	return nil
}

var _ format.Handler = (*Handler)(nil)
