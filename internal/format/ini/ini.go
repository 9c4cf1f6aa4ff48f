// Package ini provides the INI format adapter.
//
// INI is the one format that records no formatting: parsing yields a plain
// section/key tree and stringify writes the library's own layout.
package ini

import (
	"bytes"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/iancoleman/orderedmap"
	"github.com/thirteen37/keepfmt/internal/format"
	"gopkg.in/ini.v1"
)

// ErrConflictingFlags is returned when parser flags contradict each other.
var ErrConflictingFlags = errors.New("conflicting INI parser flags")

// Options are the INI parser flags.
type Options struct {
	// AllowBooleanKeys accepts keys without a value. They decode as nil and
	// are written back without a value.
	AllowBooleanKeys bool `json:"allowBooleanKeys,omitempty"`

	// IgnoreInlineComment keeps ";" and "#" inside values.
	IgnoreInlineComment bool `json:"ignoreInlineComment,omitempty"`

	// SpaceBeforeInlineComment only starts an inline comment at " ;" or " #".
	SpaceBeforeInlineComment bool `json:"spaceBeforeInlineComment,omitempty"`

	// AllowPythonMultilineValues joins indented continuation lines.
	AllowPythonMultilineValues bool `json:"allowPythonMultilineValues,omitempty"`

	// SkipUnrecognizableLines drops lines that are neither sections nor keys.
	SkipUnrecognizableLines bool `json:"skipUnrecognizableLines,omitempty"`

	// Insensitive lowercases section and key names.
	Insensitive bool `json:"insensitive,omitempty"`
}

// Validate reports flag combinations that cannot be honored together.
func (o *Options) Validate() error {
	if o == nil {
		return nil
	}
	if o.IgnoreInlineComment && o.SpaceBeforeInlineComment {
		return fmt.Errorf("%w: ignore-inline-comment disables inline comments, space-before-inline-comment needs them", ErrConflictingFlags)
	}
	return nil
}

func (o *Options) loadOptions() ini.LoadOptions {
	if o == nil {
		return ini.LoadOptions{}
	}
	return ini.LoadOptions{
		AllowBooleanKeys:           o.AllowBooleanKeys,
		IgnoreInlineComment:        o.IgnoreInlineComment,
		SpaceBeforeInlineComment:   o.SpaceBeforeInlineComment,
		AllowPythonMultilineValues: o.AllowPythonMultilineValues,
		SkipUnrecognizableLines:    o.SkipUnrecognizableLines,
		Insensitive:                o.Insensitive,
	}
}

// Parse reads INI text into {"section": {"key": "value"}}.
// Keys before any section header are stored under the empty section name.
func Parse(text string, opts *Options) (*orderedmap.OrderedMap, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	lo := opts.loadOptions()
	cfg, err := ini.LoadSources(lo, []byte(text))
	if err != nil {
		return nil, format.ParseError(format.KindINI, err)
	}

	var bare map[string]map[string]bool
	if lo.AllowBooleanKeys {
		if bare, err = bareKeys(cfg, lo); err != nil {
			return nil, format.ParseError(format.KindINI, err)
		}
	}

	result := orderedmap.New()
	for _, section := range cfg.Sections() {
		name := section.Name()
		if isDefault(name) {
			name = ""
		}

		keys := orderedmap.New()
		for _, key := range section.Keys() {
			if bare[section.Name()][key.Name()] {
				keys.Set(key.Name(), nil)
				continue
			}
			keys.Set(key.Name(), key.Value())
		}

		// The implicit default section only shows up when it holds keys.
		if len(keys.Keys()) > 0 || name != "" {
			result.Set(name, keys)
		}
	}

	return result, nil
}

// bareKeys finds the keys of cfg that were given without a value, by
// section name. The library writes those keys without a delimiter, so
// reloading its output with such lines skipped leaves only valued keys.
func bareKeys(cfg *ini.File, lo ini.LoadOptions) (map[string]map[string]bool, error) {
	var buf bytes.Buffer
	if _, err := cfg.WriteTo(&buf); err != nil {
		return nil, err
	}

	lo.AllowBooleanKeys = false
	lo.SkipUnrecognizableLines = true
	valued, err := ini.LoadSources(lo, buf.Bytes())
	if err != nil {
		return nil, err
	}

	bare := make(map[string]map[string]bool)
	for _, section := range cfg.Sections() {
		var have []string
		if other, err := valued.GetSection(section.Name()); err == nil {
			have = other.KeyStrings()
		}
		for _, name := range section.KeyStrings() {
			if slices.Contains(have, name) {
				continue
			}
			if bare[section.Name()] == nil {
				bare[section.Name()] = make(map[string]bool)
			}
			bare[section.Name()][name] = true
		}
	}
	return bare, nil
}

// Stringify writes the tree as INI text.
//
// Top-level scalars and the "" section are written without a header. A nil
// value is written as a key without a value.
func Stringify(doc *orderedmap.OrderedMap) (string, error) {
	if doc == nil {
		return "", nil
	}

	cfg := ini.Empty()
	for _, name := range doc.Keys() {
		val, _ := doc.Get(name)

		keys := format.ToOrderedMapPtr(val)
		if keys == nil {
			if err := addKey(cfg.Section(ini.DefaultSection), name, val); err != nil {
				return "", format.StringifyError(format.KindINI, err)
			}
			continue
		}

		section := cfg.Section(ini.DefaultSection)
		if name != "" && !isDefault(name) {
			var err error
			section, err = cfg.NewSection(name)
			if err != nil {
				return "", format.StringifyError(format.KindINI, fmt.Errorf("section %q: %w", name, err))
			}
		}

		for _, key := range keys.Keys() {
			v, _ := keys.Get(key)
			if err := addKey(section, key, v); err != nil {
				return "", format.StringifyError(format.KindINI, fmt.Errorf("section %q: %w", name, err))
			}
		}
	}

	var buf bytes.Buffer
	if _, err := cfg.WriteTo(&buf); err != nil {
		return "", format.StringifyError(format.KindINI, err)
	}
	return buf.String(), nil
}

func addKey(section *ini.Section, name string, value any) error {
	if value == nil {
		_, err := section.NewBooleanKey(name)
		return err
	}

	s, err := toString(value)
	if err != nil {
		return fmt.Errorf("key %q: %w", name, err)
	}
	_, err = section.NewKey(name, s)
	return err
}

// toString converts a scalar to its string representation.
// INI files only support string values.
func toString(v any) (string, error) {
	switch v := v.(type) {
	case string:
		return v, nil
	case *orderedmap.OrderedMap, orderedmap.OrderedMap, map[string]any, []any:
		return "", fmt.Errorf("nested value of type %T cannot be written as INI", v)
	default:
		return fmt.Sprintf("%v", v), nil
	}
}

func isDefault(name string) bool {
	return strings.EqualFold(name, ini.DefaultSection)
}
