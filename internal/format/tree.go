package format

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"

	"github.com/iancoleman/orderedmap"
	"github.com/thirteen37/keepfmt/internal/path"
)

// Wildcard matches every key of a map in a path segment.
const Wildcard = path.Wildcard

// ToOrderedMapPtr converts both value and pointer types of OrderedMap to a pointer.
// Returns nil if the value is not an OrderedMap.
func ToOrderedMapPtr(v any) *orderedmap.OrderedMap {
	switch val := v.(type) {
	case *orderedmap.OrderedMap:
		return val
	case orderedmap.OrderedMap:
		return &val
	default:
		return nil
	}
}

// CloneTree deep-copies a decoded value into tree form. Ordered maps keep
// their key order, plain maps are converted with sorted keys, and nested
// maps always come back as *orderedmap.OrderedMap so they can be mutated in
// place.
func CloneTree(v any) any {
	switch val := v.(type) {
	case *orderedmap.OrderedMap:
		if val == nil {
			return nil
		}
		return cloneOrdered(val)
	case orderedmap.OrderedMap:
		return cloneOrdered(&val)
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		result := orderedmap.New()
		for _, k := range keys {
			result.Set(k, CloneTree(val[k]))
		}
		return result
	case []any:
		result := make([]any, len(val))
		for i, v := range val {
			result[i] = CloneTree(v)
		}
		return result
	default:
		// Primitives (string, float64, bool, nil) are immutable
		return val
	}
}

func cloneOrdered(om *orderedmap.OrderedMap) *orderedmap.OrderedMap {
	result := orderedmap.New()
	for _, k := range om.Keys() {
		v, _ := om.Get(k)
		result.Set(k, CloneTree(v))
	}
	return result
}

// IsNil checks if v is nil, including typed nil pointers inside interfaces.
func IsNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

// GetPath navigates the tree, returning the first match when a segment is a wildcard.
// Numeric segments index into arrays.
func GetPath(current any, segments []string) (any, bool) {
	if len(segments) == 0 {
		return current, true
	}

	segment := segments[0]
	if arr, ok := current.([]any); ok {
		i, ok := index(segment, len(arr))
		if !ok {
			return nil, false
		}
		return GetPath(arr[i], segments[1:])
	}

	om := ToOrderedMapPtr(current)
	if om == nil {
		return nil, false
	}

	if segment == Wildcard {
		for _, key := range om.Keys() {
			val, _ := om.Get(key)
			if result, ok := GetPath(val, segments[1:]); ok {
				return result, true
			}
		}
		return nil, false
	}

	val, exists := om.Get(segment)
	if !exists {
		return nil, false
	}
	return GetPath(val, segments[1:])
}

// SetPath sets value at the path, applying it to every key on wildcard
// segments. Intermediate maps are created as needed.
func SetPath(current any, segments []string, value any) error {
	if len(segments) == 0 {
		return fmt.Errorf("empty path")
	}

	segment := segments[0]
	isLast := len(segments) == 1

	if arr, ok := current.([]any); ok {
		i, ok := index(segment, len(arr))
		if !ok {
			return fmt.Errorf("index %q out of range", segment)
		}
		if isLast {
			arr[i] = value
			return nil
		}
		return SetPath(arr[i], segments[1:], value)
	}

	om := ToOrderedMapPtr(current)
	if om == nil {
		return fmt.Errorf("cannot navigate into non-map value")
	}

	if segment == Wildcard {
		for _, key := range om.Keys() {
			if isLast {
				om.Set(key, value)
				continue
			}
			val, _ := om.Get(key)
			// Keys whose value cannot hold the rest of the path are skipped
			_ = SetPath(val, segments[1:], value)
		}
		return nil
	}

	if isLast {
		om.Set(segment, value)
		return nil
	}

	next, exists := om.Get(segment)
	if !exists {
		next = orderedmap.New()
		om.Set(segment, next)
	}
	if _, isArr := next.([]any); isArr {
		return SetPath(next, segments[1:], value)
	}

	nextMap := ToOrderedMapPtr(next)
	if nextMap == nil {
		return fmt.Errorf("path segment %q is not a map", segment)
	}
	if _, isValue := next.(orderedmap.OrderedMap); isValue {
		// Store the pointer so new keys are visible through the parent
		om.Set(segment, nextMap)
	}

	return SetPath(nextMap, segments[1:], value)
}

// DeletePath removes the value at the path, on every key for wildcard segments.
func DeletePath(current any, segments []string) bool {
	if len(segments) == 0 {
		return false
	}

	segment := segments[0]
	isLast := len(segments) == 1

	if arr, ok := current.([]any); ok {
		i, ok := index(segment, len(arr))
		if !ok || isLast {
			// Removing array elements would require rewriting the parent
			return false
		}
		return DeletePath(arr[i], segments[1:])
	}

	om := ToOrderedMapPtr(current)
	if om == nil {
		return false
	}

	if segment == Wildcard {
		removed := false
		// Keys() is the live slice and Delete shifts it
		keys := append([]string(nil), om.Keys()...)
		for _, key := range keys {
			if isLast {
				om.Delete(key)
				removed = true
				continue
			}
			val, _ := om.Get(key)
			if DeletePath(val, segments[1:]) {
				removed = true
			}
		}
		return removed
	}

	val, exists := om.Get(segment)
	if !exists {
		return false
	}
	if isLast {
		om.Delete(segment)
		return true
	}
	return DeletePath(val, segments[1:])
}

func index(segment string, n int) (int, bool) {
	i, err := strconv.Atoi(segment)
	if err != nil || i < 0 || i >= n {
		return 0, false
	}
	return i, true
}
