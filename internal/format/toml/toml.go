// Package toml provides the TOML format adapter.
//
// Indentation is never sampled from TOML input. An explicit indent sets the
// encoder's per-table indent; otherwise the encoder default is kept and only
// the outer whitespace of the original text is restored.
package toml

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/thirteen37/keepfmt/internal/format"
)

// Parse decodes TOML text into T and captures its outer whitespace.
func Parse[T any](text string, opts *format.Options) (format.Formatted[T], error) {
	var value T
	if _, err := toml.Decode(text, &value); err != nil {
		return format.Formatted[T]{}, format.ParseError(format.KindTOML, FormatError(text, err))
	}
	return format.Wrap(text, value, opts.ForKind(format.KindTOML)), nil
}

// FormatError appends the offending source line to a TOML syntax error.
// Other errors are returned unchanged.
func FormatError(text string, err error) error {
	var pe toml.ParseError
	if !errors.As(err, &pe) {
		return err
	}

	lines := strings.Split(text, "\n")
	n := pe.Position.Line
	if n < 1 || n > len(lines) {
		return err
	}
	return fmt.Errorf("%w\n%5d | %s", err, n, strings.TrimSuffix(lines[n-1], "\r"))
}

// Stringify encodes the value as TOML surrounded by the captured whitespace.
func Stringify[T any](f format.Formatted[T], opts *format.Options) (string, error) {
	body, err := encode(f.Value, opts)
	if err != nil {
		return "", err
	}
	return format.Apply(body, f.Format, format.ResolveIndent(f.Format, opts), format.KindTOML.Reindentable()), nil
}

// encode runs the encoder and drops its final newline; the captured trailing
// whitespace takes its place.
func encode(v any, opts *format.Options) (string, error) {
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	if opts != nil && opts.Indent != nil {
		enc.Indent = strings.Repeat(" ", max(*opts.Indent, 0))
	}
	if err := enc.Encode(v); err != nil {
		return "", format.StringifyError(format.KindTOML, err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
