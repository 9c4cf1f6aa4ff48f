// Package yaml provides the YAML format adapter.
//
// Block structure makes YAML output unsafe to reindent textually, so the
// indent width is handed to the encoder instead and only the outer
// whitespace of the original text is restored around its output.
package yaml

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/thirteen37/keepfmt/internal/format"
	"gopkg.in/yaml.v3"
)

// Parse decodes the first YAML document of text into T and captures its
// outer whitespace.
func Parse[T any](text string, opts *format.Options) (format.Formatted[T], error) {
	var value T
	if err := yaml.Unmarshal([]byte(text), &value); err != nil {
		return format.Formatted[T]{}, format.ParseError(format.KindYAML, err)
	}
	return format.Wrap(text, value, opts.ForKind(format.KindYAML)), nil
}

// Stringify encodes the value as YAML surrounded by the captured whitespace.
func Stringify[T any](f format.Formatted[T], opts *format.Options) (string, error) {
	raw, err := encode(f.Value, format.ResolveIndent(f.Format, opts))
	if err != nil {
		return "", err
	}

	info := f.Format
	body, trailing := fitTrailing(raw, info.Trailing)
	info.Trailing = trailing
	return format.Apply(body, info, 0, format.KindYAML.Reindentable()), nil
}

// encode runs the encoder at the given indent. Widths outside 2 through 9
// are replaced by the encoder's own choice.
func encode(v any, indent int) (out string, err error) {
	// The encoder panics on values it cannot represent.
	defer func() {
		if r := recover(); r != nil {
			err = format.StringifyError(format.KindYAML, fmt.Errorf("%v", r))
		}
	}()

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(max(indent, 0))
	if err := enc.Encode(v); err != nil {
		return "", format.StringifyError(format.KindYAML, err)
	}
	if err := enc.Close(); err != nil {
		return "", format.StringifyError(format.KindYAML, err)
	}
	return buf.String(), nil
}

// fitTrailing joins encoder output with the captured trailing whitespace.
//
// The encoder ends its output with a newline, and a keep-chomped block
// scalar (|+) at the end of the document adds blank lines that belong to its
// value. Those newlines are never dropped; the captured whitespace only
// contributes what goes beyond them. Spaces that ended the last line of the
// original text are not restored.
func fitTrailing(raw, trailing string) (string, string) {
	trailing = strings.TrimLeft(trailing, " \t")
	if trailing == "" {
		return raw, ""
	}

	newlines := raw[len(strings.TrimRight(raw, "\n")):]
	switch {
	case strings.HasPrefix(trailing, newlines):
		return raw, trailing[len(newlines):]
	case strings.HasPrefix(newlines, trailing):
		return raw, ""
	default:
		return raw, trailing
	}
}
