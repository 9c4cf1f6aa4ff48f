package format

import (
	"fmt"
	"path/filepath"
	"strings"
)

//go:generate go tool stringer -type=Kind -linecomment -output=kind_string.go

// Kind identifies a configuration format.
type Kind int

const (
	KindJSON  Kind = iota // json
	KindJSON5             // json5
	KindJSONC             // jsonc
	KindTOML              // toml
	KindYAML              // yaml
	KindINI               // ini
)

// Kinds lists every supported format in declaration order.
var Kinds = []Kind{KindJSON, KindJSON5, KindJSONC, KindTOML, KindYAML, KindINI}

// policy is the per-format formatting behavior.
type policy struct {
	reindent bool // encoder output may be reindented line by line
	capture  bool // a descriptor is captured on parse
	sample   bool // indentation is sampled on parse
}

var policies = [...]policy{
	KindJSON:  {reindent: true, capture: true, sample: true},
	KindJSON5: {reindent: false, capture: true, sample: true},
	KindJSONC: {reindent: true, capture: true, sample: true},
	KindTOML:  {reindent: false, capture: true, sample: false},
	KindYAML:  {reindent: false, capture: true, sample: false},
	KindINI:   {},
}

func (k Kind) policy() policy {
	if k < 0 || int(k) >= len(policies) {
		return policy{}
	}
	return policies[k]
}

// Reindentable reports whether the encoder output of k can be rewritten
// line by line to another indent width without changing its meaning.
func (k Kind) Reindentable() bool { return k.policy().reindent }

// CapturesFormatting reports whether k records a formatting descriptor.
func (k Kind) CapturesFormatting() bool { return k.policy().capture }

// SamplesIndent reports whether k detects indentation from the original text.
func (k Kind) SamplesIndent() bool { return k.policy().sample }

// Name returns the display name of k, e.g. "JSON".
func (k Kind) Name() string {
	return strings.ToUpper(k.String())
}

var extensions = map[string]Kind{
	".json":  KindJSON,
	".json5": KindJSON5,
	".jsonc": KindJSONC,
	".toml":  KindTOML,
	".yaml":  KindYAML,
	".yml":   KindYAML,
	".ini":   KindINI,
	".cfg":   KindINI,
	".conf":  KindINI,
}

// ParseKind resolves a format name such as "json" or "YML".
func ParseKind(name string) (Kind, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "yml" {
		return KindYAML, nil
	}
	for _, k := range Kinds {
		if k.String() == n {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown format %q", name)
}

// KindFromFilename guesses the format from a file extension.
func KindFromFilename(name string) (Kind, bool) {
	k, ok := extensions[strings.ToLower(filepath.Ext(name))]
	return k, ok
}
