// Package registry maps a format kind to its handler.
package registry

import (
	"fmt"

	"github.com/thirteen37/keepfmt/internal/format"
	"github.com/thirteen37/keepfmt/internal/format/ini"
	"github.com/thirteen37/keepfmt/internal/format/json"
	"github.com/thirteen37/keepfmt/internal/format/json5"
	"github.com/thirteen37/keepfmt/internal/format/jsonc"
	"github.com/thirteen37/keepfmt/internal/format/toml"
	"github.com/thirteen37/keepfmt/internal/format/yaml"
)

// Settings holds the per-format options that are not part of format.Options.
type Settings struct {
	JSONC jsonc.Options
	INI   ini.Options
}

// New returns the handler for k.
func New(k format.Kind, s Settings) (format.Handler, error) {
	switch k {
	case format.KindJSON:
		return json.New(), nil
	case format.KindJSON5:
		return json5.New(), nil
	case format.KindJSONC:
		return jsonc.New(s.JSONC), nil
	case format.KindTOML:
		return toml.New(), nil
	case format.KindYAML:
		return yaml.New(), nil
	case format.KindINI:
		if err := s.INI.Validate(); err != nil {
			return nil, err
		}
		return ini.New(s.INI), nil
	default:
		return nil, fmt.Errorf("unsupported format %s", k)
	}
}

// ForFile returns the handler for the format named by the file extension.
func ForFile(name string, s Settings) (format.Handler, error) {
	k, ok := format.KindFromFilename(name)
	if !ok {
		return nil, fmt.Errorf("cannot determine format of %q", name)
	}
	return New(k, s)
}
