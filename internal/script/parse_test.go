package script

import (
	"testing"

	"github.com/thirteen37/keepfmt/internal/format"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name        string
		content     string
		wantVersion int
		wantFormat  string
		wantIndent  int
		wantPaths   int
		wantErr     bool
	}{
		{
			name: "basic script",
			content: `#!/usr/bin/env keepfmt
# version 1
# format json
#---
{"key": "value"}
`,
			wantVersion: 1,
			wantFormat:  "json",
			wantIndent:  -1,
		},
		{
			name: "with keep paths",
			content: `#!/usr/bin/env keepfmt
# version 1
# format json
# keep ["agent", "default_model"]
# keep features.enabled
#---
{"key": "value"}
`,
			wantVersion: 1,
			wantFormat:  "json",
			wantIndent:  -1,
			wantPaths:   2,
		},
		{
			name: "with indent",
			content: `# version 1
# format yaml
# indent 4
#---
key: value
`,
			wantVersion: 1,
			wantFormat:  "yaml",
			wantIndent:  4,
		},
		{
			name: "format alias",
			content: `# version 1
# format YML
#---
key: value
`,
			wantVersion: 1,
			wantFormat:  "yaml",
			wantIndent:  -1,
		},
		{
			name: "missing version",
			content: `#!/usr/bin/env keepfmt
# format json
#---
{"key": "value"}
`,
			wantErr: true,
		},
		{
			name: "version not first",
			content: `#!/usr/bin/env keepfmt
# format json
# version 1
#---
{"key": "value"}
`,
			wantErr: true,
		},
		{
			name: "duplicate version",
			content: `# version 1
# version 1
#---
{}
`,
			wantErr: true,
		},
		{
			name: "unsupported version",
			content: `#!/usr/bin/env keepfmt
# version 999
#---
{"key": "value"}
`,
			wantErr: true,
		},
		{
			name: "no template",
			content: `#!/usr/bin/env keepfmt
# version 1
# format json
`,
			wantErr: true,
		},
		{
			name: "invalid keep path",
			content: `#!/usr/bin/env keepfmt
# version 1
# keep ["unterminated"
#---
{"key": "value"}
`,
			wantErr: true,
		},
		{
			name: "negative indent",
			content: `# version 1
# indent -2
#---
{}
`,
			wantErr: true,
		},
		{
			name: "auto format default",
			content: `#!/usr/bin/env keepfmt
# version 1
#---
{"key": "value"}
`,
			wantVersion: 1,
			wantFormat:  FormatAuto,
			wantIndent:  -1,
		},
		{
			name: "empty comment lines in directives",
			content: `#!/usr/bin/env keepfmt
# version 1
#
# format json
#---
{"key": "value"}
`,
			wantVersion: 1,
			wantFormat:  "json",
			wantIndent:  -1,
		},
		{
			name: "missing separator",
			content: `#!/usr/bin/env keepfmt
# version 1
# format json
{"key": "value"}
`,
			wantErr: true,
		},
		{
			name: "invalid line without hash prefix",
			content: `#!/usr/bin/env keepfmt
# version 1
format json
#---
{"key": "value"}
`,
			wantErr: true,
		},
		{
			name: "unknown format",
			content: `#!/usr/bin/env keepfmt
# version 1
# format xml
#---
<key>value</key>
`,
			wantErr: true,
		},
		{
			name: "unknown directive",
			content: `# version 1
# strip-comments true
#---
{}
`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			script, err := Parse(tt.content)
			if (err != nil) != tt.wantErr {
				t.Errorf("Parse() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr {
				return
			}
			if script.Version != tt.wantVersion {
				t.Errorf("Version = %d, want %d", script.Version, tt.wantVersion)
			}
			if script.Format != tt.wantFormat {
				t.Errorf("Format = %q, want %q", script.Format, tt.wantFormat)
			}
			gotIndent := -1
			if script.Indent != nil {
				gotIndent = *script.Indent
			}
			if gotIndent != tt.wantIndent {
				t.Errorf("Indent = %d, want %d", gotIndent, tt.wantIndent)
			}
			if len(script.Keep) != tt.wantPaths {
				t.Errorf("len(Keep) = %d, want %d", len(script.Keep), tt.wantPaths)
			}
		})
	}
}

func TestParse_TemplateContent(t *testing.T) {
	content := `#!/usr/bin/env keepfmt
# version 1
# format json
#---

{
  "key": "value",
  "nested": {
    "inner": true
  }
}
`
	script, err := Parse(content)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	expectedTemplate := `
{
  "key": "value",
  "nested": {
    "inner": true
  }
}`
	if script.Template != expectedTemplate {
		t.Errorf("Template = %q, want %q", script.Template, expectedTemplate)
	}
}

func TestParse_TemplateKeepsCommentLines(t *testing.T) {
	content := `# version 1
# format toml
#---
# managed by keepfmt
[server]
port = 8080`

	script, err := Parse(content)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	expectedTemplate := "# managed by keepfmt\n[server]\nport = 8080"
	if script.Template != expectedTemplate {
		t.Errorf("Template = %q, want %q", script.Template, expectedTemplate)
	}
}

func TestParse_KeepSegments(t *testing.T) {
	content := `# version 1
# keep ["a.b", "c"]
# keep servers.*.port
#---
{}`

	script, err := Parse(content)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if got := script.Keep[0].Segments(); len(got) != 2 || got[0] != "a.b" || got[1] != "c" {
		t.Errorf("Keep[0] = %v, want [a.b c]", got)
	}
	if got := script.Keep[1].Segments(); len(got) != 3 || got[1] != "*" {
		t.Errorf("Keep[1] = %v, want [servers * port]", got)
	}
}

func TestScript_Kind(t *testing.T) {
	tests := []struct {
		name       string
		format     string
		scriptPath string
		want       format.Kind
		wantErr    bool
	}{
		{
			name:       "explicit format wins",
			format:     "toml",
			scriptPath: "modify_settings.json.tmpl",
			want:       format.KindTOML,
		},
		{
			name:       "auto from modify template name",
			format:     FormatAuto,
			scriptPath: "/src/dot_config/app/modify_settings.json.tmpl",
			want:       format.KindJSON,
		},
		{
			name:       "auto from plain name",
			format:     FormatAuto,
			scriptPath: "config.yml",
			want:       format.KindYAML,
		},
		{
			name:       "auto without extension",
			format:     FormatAuto,
			scriptPath: "modify_settings",
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Script{Version: 1, Format: tt.format}
			got, err := s.Kind(tt.scriptPath)
			if (err != nil) != tt.wantErr {
				t.Errorf("Kind() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("Kind() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScript_Options(t *testing.T) {
	s := &Script{Indent: format.IndentWidth(4)}

	opts := s.Options(nil)
	if opts.Indent == nil || *opts.Indent != 4 {
		t.Errorf("Options().Indent = %v, want 4", opts.Indent)
	}
	if !opts.PreserveWhitespace {
		t.Error("Options() should start from the defaults")
	}

	base := &format.Options{Indent: format.IndentWidth(8)}
	if got := (&Script{}).Options(base); *got.Indent != 8 {
		t.Errorf("Options(base).Indent = %d, want 8", *got.Indent)
	}
	if *base.Indent != 8 {
		t.Error("Options() modified its base")
	}
}
