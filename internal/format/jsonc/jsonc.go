// Package jsonc provides the JSON with Comments adapter. Comments are
// discarded on parse; output is plain JSON produced by the json adapter.
package jsonc

import (
	"bytes"
	"errors"
	"fmt"

	gojson "github.com/goccy/go-json"
	"github.com/thirteen37/keepfmt/internal/format"
	"github.com/thirteen37/keepfmt/internal/format/json"
	"github.com/tidwall/jsonc"
)

var (
	// ErrComment is returned when comments are disallowed but present.
	ErrComment = errors.New("comments are not allowed")

	// ErrTrailingComma is returned for a comma before a closing bracket
	// unless trailing commas are allowed.
	ErrTrailingComma = errors.New("trailing comma is not allowed")

	// ErrUnterminatedComment is returned for a block comment without "*/".
	ErrUnterminatedComment = errors.New("unterminated block comment")
)

// Options controls the leniency of the JSONC parser.
// The zero value accepts comments and rejects trailing commas.
type Options struct {
	DisallowComments   bool `json:"disallowComments,omitempty"`
	AllowTrailingComma bool `json:"allowTrailingComma,omitempty"`
}

// Standardize validates src against opts and returns the equivalent
// standard JSON. The result has the same length and line breaks as src, so
// decoder offsets still point into the original text.
func Standardize(src []byte, opts Options) ([]byte, error) {
	plain := jsonc.ToJSON(src)
	if len(plain) != len(src) {
		return nil, ErrUnterminatedComment
	}

	// With every comma masked only comments are rewritten, which separates
	// them from trailing commas blanked by the converter.
	marked := bytes.ReplaceAll(src, []byte(","), []byte("0"))
	masked := jsonc.ToJSON(marked)
	if len(masked) != len(marked) {
		return nil, ErrUnterminatedComment
	}

	if opts.DisallowComments {
		for i := range masked {
			if masked[i] != marked[i] {
				return nil, fmt.Errorf("%w at line %d", ErrComment, lineAt(src, i))
			}
		}
	}

	if !opts.AllowTrailingComma {
		for i := range src {
			if src[i] == ',' && plain[i] == ' ' && masked[i] == '0' {
				return nil, fmt.Errorf("%w at line %d", ErrTrailingComma, lineAt(src, i))
			}
		}
	}

	return plain, nil
}

// isBlank reports whether nothing but whitespace remains once comments are
// removed. Such documents decode to the zero value.
func isBlank(plain []byte) bool {
	return len(bytes.TrimSpace(plain)) == 0
}

func lineAt(src []byte, offset int) int {
	return bytes.Count(src[:offset], []byte("\n")) + 1
}

// Parse decodes JSONC text into T and captures its formatting.
func Parse[T any](text string, fmtOpts *format.Options, opts Options) (format.Formatted[T], error) {
	plain, err := Standardize([]byte(text), opts)
	if err != nil {
		return format.Formatted[T]{}, format.ParseError(format.KindJSONC, err)
	}

	var value T
	if isBlank(plain) {
		return format.Wrap(text, value, fmtOpts.ForKind(format.KindJSONC)), nil
	}
	if err := gojson.Unmarshal(plain, &value); err != nil {
		return format.Formatted[T]{}, format.ParseError(format.KindJSONC, err)
	}
	return format.Wrap(text, value, fmtOpts.ForKind(format.KindJSONC)), nil
}

// Stringify encodes the value as plain JSON with the captured formatting.
func Stringify[T any](f format.Formatted[T], opts *format.Options) (string, error) {
	out, err := json.Stringify(f, opts)
	if err != nil {
		var ferr *format.Error
		if errors.As(err, &ferr) {
			return "", format.StringifyError(format.KindJSONC, ferr.Err)
		}
		return "", err
	}
	return out, nil
}
