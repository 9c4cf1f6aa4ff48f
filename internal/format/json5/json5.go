// Package json5 provides the JSON5 adapter.
//
// Decoding accepts the full JSON5 grammar. Encoding produces compact
// standard JSON, which every JSON5 reader accepts; only the outer whitespace
// of the original text is restored.
package json5

import (
	"github.com/thirteen37/keepfmt/internal/format"
	"github.com/thirteen37/keepfmt/internal/format/json"
	"github.com/titanous/json5"
)

// Parse decodes JSON5 text into T and captures its formatting.
func Parse[T any](text string, opts *format.Options) (format.Formatted[T], error) {
	var value T
	if err := json5.Unmarshal([]byte(text), &value); err != nil {
		return format.Formatted[T]{}, format.ParseError(format.KindJSON5, err)
	}
	return format.Wrap(text, value, opts.ForKind(format.KindJSON5)), nil
}

// Stringify encodes the value and surrounds it with the captured outer
// whitespace. The encoder has no indent setting, so neither a detected nor an
// explicit indent changes the body.
func Stringify[T any](f format.Formatted[T], opts *format.Options) (string, error) {
	body, err := json.Marshal(f.Value, "")
	if err != nil {
		return "", format.StringifyError(format.KindJSON5, err)
	}
	return format.Apply(string(body), f.Format, format.ResolveIndent(f.Format, opts), format.KindJSON5.Reindentable()), nil
}
