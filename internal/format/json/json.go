// Package json provides the JSON format adapter.
package json

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/iancoleman/orderedmap"
	"github.com/thirteen37/keepfmt/internal/format"
)

// Parse decodes JSON text into T and captures its formatting.
func Parse[T any](text string, opts *format.Options) (format.Formatted[T], error) {
	var value T
	if err := json.Unmarshal([]byte(text), &value); err != nil {
		return format.Formatted[T]{}, format.ParseError(format.KindJSON, err)
	}
	return format.Wrap(text, value, opts.ForKind(format.KindJSON)), nil
}

// Stringify encodes the value as indented JSON, reindented to the resolved
// width and surrounded by the captured outer whitespace.
func Stringify[T any](f format.Formatted[T], opts *format.Options) (string, error) {
	body, err := Marshal(f.Value, format.EncoderIndent)
	if err != nil {
		return "", format.StringifyError(format.KindJSON, err)
	}
	return Reformat(string(body), f.Format, opts), nil
}

// Reformat applies formatting to a body produced with format.EncoderIndent.
func Reformat(body string, info format.Info, opts *format.Options) string {
	width := format.ResolveIndent(info, opts)
	return format.Apply(body, info, width, format.KindJSON.Reindentable())
}

// Marshal encodes v leaving '<', '>' and '&' in strings as they are.
// An empty indent gives compact output. Ordered maps inside v have their
// HTML escaping switched off.
func Marshal(v any, indent string) ([]byte, error) {
	disableHTMLEscape(v)
	if indent == "" {
		return json.MarshalWithOption(v, json.DisableHTMLEscape())
	}
	return json.MarshalIndentWithOption(v, "", indent, json.DisableHTMLEscape())
}

func disableHTMLEscape(v any) {
	if om, ok := v.(*orderedmap.OrderedMap); ok && om != nil {
		om.SetEscapeHTML(false)
		for _, k := range om.Keys() {
			val, _ := om.Get(k)
			disableHTMLEscape(val)
		}
		return
	}
	if arr, ok := v.([]any); ok {
		for _, item := range arr {
			disableHTMLEscape(item)
		}
	}
}

// DecodeTree decodes standard JSON into tree form.
//
// Objects become *orderedmap.OrderedMap in document order. Integers become
// int64, or uint64 above its range; larger integers stay json.Number so they
// are written back unchanged. Other numbers become float64.
func DecodeTree(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var exact any
	if err := dec.Decode(&exact); err != nil {
		return nil, syntaxError(data, err)
	}

	// The ordered pass only sees objects, so the document is wrapped in one.
	wrapped := make([]byte, 0, len(data)+6)
	wrapped = append(wrapped, `{"v":`...)
	wrapped = append(wrapped, data...)
	wrapped = append(wrapped, '}')

	ordered := orderedmap.New()
	if err := json.Unmarshal(wrapped, ordered); err != nil {
		return nil, syntaxError(data, err)
	}
	v, _ := ordered.Get("v")
	return rebuild(v, exact), nil
}

// syntaxError prefers the error reported by a plain decode of data, whose
// offsets refer to the caller's text.
func syntaxError(data []byte, fallback error) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	return fallback
}

// rebuild takes key order from ordered and values from exact.
func rebuild(ordered, exact any) any {
	switch e := exact.(type) {
	case map[string]any:
		om := format.ToOrderedMapPtr(ordered)
		if om == nil {
			return format.CloneTree(e)
		}
		out := orderedmap.New()
		for _, k := range om.Keys() {
			v, _ := om.Get(k)
			out.Set(k, rebuild(v, e[k]))
		}
		return out
	case []any:
		arr, _ := ordered.([]any)
		out := make([]any, len(e))
		for i := range e {
			var o any
			if i < len(arr) {
				o = arr[i]
			}
			out[i] = rebuild(o, e[i])
		}
		return out
	case json.Number:
		return number(e)
	default:
		return e
	}
}

func number(n json.Number) any {
	s := n.String()
	if !strings.ContainsAny(s, ".eE") {
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return i
		}
		if u, err := strconv.ParseUint(s, 10, 64); err == nil {
			return u
		}
		return n
	}
	if f, err := n.Float64(); err == nil {
		return f
	}
	return n
}
