// Package format captures the outer whitespace and indentation of a
// configuration document so that a decoded, mutated and re-encoded value can
// be written back in a layout that resembles the original text.
//
// The per-format packages (json, jsonc, json5, toml, yaml, ini) delegate the
// grammar to third-party codecs and use this package to detect formatting on
// parse and to reapply it on stringify.
package format

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// DefaultIndent is the indent width used when none is configured or detected.
	DefaultIndent = 2

	// DefaultSampleSize is the number of characters sampled for indent detection.
	DefaultSampleSize = 1024

	// EncoderIndent is the indent unit reindentable encoders must emit for
	// each nesting level. Apply counts these units to recover line depth.
	EncoderIndent = "\t"
)

// Options controls how formatting is detected and reapplied.
//
// Functions taking *Options treat nil as DefaultOptions().
type Options struct {
	// Indent is an explicit indent width in spaces. When set it wins over
	// any detected value and disables sampling.
	Indent *int

	// PreserveIndentation enables indent detection from a sample of the
	// original text.
	PreserveIndentation bool

	// PreserveWhitespace keeps the leading and trailing whitespace of the
	// original text.
	PreserveWhitespace bool

	// SampleSize caps the number of characters sampled for indent
	// detection. Values <= 0 mean DefaultSampleSize.
	SampleSize int
}

// DefaultOptions returns options with detection and whitespace preservation enabled.
func DefaultOptions() Options {
	return Options{
		PreserveIndentation: true,
		PreserveWhitespace:  true,
		SampleSize:          DefaultSampleSize,
	}
}

// IndentWidth returns a pointer suitable for Options.Indent.
func IndentWidth(n int) *int {
	return &n
}

// ForKind returns a copy of the options adjusted to the policy of k.
// Kinds that do not sample indentation get PreserveIndentation cleared.
func (o *Options) ForKind(k Kind) *Options {
	out := o.orDefault()
	if !k.SamplesIndent() {
		out.PreserveIndentation = false
	}
	return &out
}

func (o *Options) orDefault() Options {
	if o == nil {
		return DefaultOptions()
	}
	return *o
}

func (o Options) sampleSize() int {
	if o.SampleSize <= 0 {
		return DefaultSampleSize
	}
	return o.SampleSize
}

// Info is the formatting captured from an original text. It is immutable
// once returned by Detect.
type Info struct {
	// Sample is a bounded prefix of the original text, only meaningful
	// when Sampled is true.
	Sample  string
	Sampled bool

	// Leading and Trailing are the maximal whitespace runs at the start
	// and end of the original text.
	Leading  string
	Trailing string
}

// Detect captures the formatting of text.
//
// A sample is taken only when indentation detection is enabled and no
// explicit indent is configured. Leading and trailing whitespace are scanned
// independently, so a text made only of whitespace yields that text for both.
func Detect(text string, opts *Options) Info {
	o := opts.orDefault()

	var info Info
	if o.Indent == nil && o.PreserveIndentation {
		info.Sample = prefixRunes(text, o.sampleSize())
		info.Sampled = true
	}

	if o.PreserveWhitespace {
		info.Leading = text[:len(text)-len(strings.TrimLeftFunc(text, unicode.IsSpace))]
		info.Trailing = text[len(strings.TrimRightFunc(text, unicode.IsSpace)):]
	}

	return info
}

// prefixRunes returns the first n runes of s.
func prefixRunes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

// ResolveIndent returns the indent width to stringify with.
//
// An explicit Options.Indent wins. Otherwise the first non-blank sample line
// with leading spaces or tabs decides the width, each tab counting as one.
// Only that first line is consulted; documents whose nesting levels use
// different widths will not round-trip their exact layout.
func ResolveIndent(info Info, opts *Options) int {
	o := opts.orDefault()
	if o.Indent != nil {
		return *o.Indent
	}

	if info.Sampled {
		for _, line := range strings.Split(info.Sample, "\n") {
			if strings.TrimLeftFunc(line, unicode.IsSpace) == "" {
				continue
			}
			if n := leadingIndent(line); n > 0 {
				return n
			}
		}
	}

	return DefaultIndent
}

// leadingIndent counts the leading spaces and tabs of line.
func leadingIndent(line string) int {
	n := 0
	for n < len(line) && (line[n] == ' ' || line[n] == '\t') {
		n++
	}
	return n
}

// Apply reindents body to width and surrounds it with the captured outer
// whitespace.
//
// When reindent is true, body must use EncoderIndent for each nesting level:
// every non-empty line has its leading whitespace replaced by width spaces
// per level. Empty lines pass through. When reindent is false body is used
// verbatim.
func Apply(body string, info Info, width int, reindent bool) string {
	if reindent {
		body = reindentLines(body, width)
	}
	return info.Leading + body + info.Trailing
}

func reindentLines(body string, width int) string {
	if width < 0 {
		width = 0
	}
	unit := strings.Repeat(" ", width)

	var b strings.Builder
	b.Grow(len(body))

	rest := body
	for {
		line, next, more := strings.Cut(rest, "\n")
		if line != "" {
			trimmed := strings.TrimLeft(line, " \t")
			depth := utf8.RuneCountInString(line[:len(line)-len(trimmed)]) / utf8.RuneCountInString(EncoderIndent)
			for i := 0; i < depth; i++ {
				b.WriteString(unit)
			}
			b.WriteString(trimmed)
		}
		if !more {
			break
		}
		b.WriteByte('\n')
		rest = next
	}

	return b.String()
}

// Formatted bundles a decoded value with the formatting of the text it came from.
type Formatted[T any] struct {
	Value  T
	Format Info
}

// Wrap detects the formatting of text and pairs it with value.
func Wrap[T any](text string, value T, opts *Options) Formatted[T] {
	return Formatted[T]{
		Value:  value,
		Format: Detect(text, opts),
	}
}

// Rewrap pairs a new value with the formatting already captured in f.
func Rewrap[T, U any](f Formatted[T], value U) Formatted[U] {
	return Formatted[U]{
		Value:  value,
		Format: f.Format,
	}
}
