// Package merge overlays kept values from a current document onto a managed one.
package merge

import (
	"strconv"

	"github.com/thirteen37/keepfmt/internal/format"
	"github.com/thirteen37/keepfmt/internal/path"
)

// Merge combines a managed tree with the current tree, keeping the values
// at the given paths from current.
//
// The result starts as a deep copy of managed. Each kept path that exists in
// current has its value copied over; a path missing from current keeps the
// managed value. Wildcard segments expand against current, so every match is
// kept individually.
func Merge(handler format.Handler, managed, current any, paths []path.Path) any {
	result := format.CloneTree(managed)

	if format.IsNil(current) {
		return result
	}

	for _, p := range paths {
		concrete := []path.Path{p}
		if path.HasWildcard(p) {
			concrete = concrete[:0]
			for _, segments := range expand(current, p.Segments(), nil) {
				concrete = append(concrete, path.NewArrayPath(segments))
			}
		}

		for _, c := range concrete {
			val, ok := handler.GetPath(current, c)
			if !ok {
				continue
			}
			// A value that cannot be placed in the managed tree is dropped.
			_ = handler.SetPath(result, c, format.CloneTree(val))
		}
	}

	return result
}

// Document merges two parsed documents. The result carries the formatting of
// current so that the written output keeps the layout already on disk; when
// current is empty the managed formatting is used.
func Document(handler format.Handler, managed, current format.Formatted[any], paths []path.Path) format.Formatted[any] {
	result := Merge(handler, managed.Value, current.Value, paths)
	if format.IsNil(current.Value) {
		return format.Rewrap(managed, result)
	}
	return format.Rewrap(current, result)
}

// expand resolves wildcard segments against tree into concrete paths.
func expand(tree any, segments, prefix []string) [][]string {
	for i, seg := range segments {
		if seg != format.Wildcard {
			continue
		}

		base := append(append([]string(nil), prefix...), segments[:i]...)
		node, ok := format.GetPath(tree, segments[:i])
		if !ok {
			return nil
		}

		var out [][]string
		for _, child := range children(node) {
			sub, _ := format.GetPath(node, []string{child})
			out = append(out, expand(sub, segments[i+1:], append(append([]string(nil), base...), child))...)
		}
		return out
	}

	return [][]string{append(append([]string(nil), prefix...), segments...)}
}

// children lists the segments addressing the direct children of node.
func children(node any) []string {
	if om := format.ToOrderedMapPtr(node); om != nil {
		return append([]string(nil), om.Keys()...)
	}
	if arr, ok := node.([]any); ok {
		out := make([]string, len(arr))
		for i := range arr {
			out[i] = strconv.Itoa(i)
		}
		return out
	}
	return nil
}
