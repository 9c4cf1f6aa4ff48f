// Package script parses keepfmt edit scripts.
//
// A script is a block of comment directives followed by a managed template:
//
//	#!/usr/bin/env keepfmt
//	# version 1
//	# format json
//	# keep ["editor", "theme"]
//	#---
//	{"editor": {"theme": "light"}}
package script

import (
	"bufio"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/thirteen37/keepfmt/internal/format"
	"github.com/thirteen37/keepfmt/internal/path"
)

// CurrentVersion is the latest supported script format version.
const CurrentVersion = 1

// FormatAuto selects the format from the script file name.
const FormatAuto = "auto"

const separator = "#---"

// Script represents a parsed edit script.
type Script struct {
	Version  int
	Format   string
	Indent   *int
	Keep     []path.Path
	Template string
}

// Parse parses an edit script from its content.
func Parse(content string) (*Script, error) {
	script := &Script{
		Format: FormatAuto,
	}

	scanner := bufio.NewScanner(strings.NewReader(content))
	lineNum := 0
	versionSeen := false
	inTemplate := false
	var templateLines []string

	for scanner.Scan() {
		lineNum++
		line := scanner.Text()

		if inTemplate {
			templateLines = append(templateLines, line)
			continue
		}

		// Skip shebang
		if lineNum == 1 && strings.HasPrefix(line, "#!") {
			continue
		}

		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if trimmed == separator {
			inTemplate = true
			continue
		}
		if !strings.HasPrefix(trimmed, "#") {
			return nil, fmt.Errorf("line %d: expected a directive or %q, got %q", lineNum, separator, trimmed)
		}

		body := strings.TrimSpace(strings.TrimPrefix(trimmed, "#"))
		if body == "" {
			continue
		}

		directive, value, _ := strings.Cut(body, " ")
		value = strings.TrimSpace(value)
		if value == "" {
			return nil, fmt.Errorf("line %d: invalid directive %q", lineNum, trimmed)
		}

		if directive != "version" && !versionSeen {
			if !isKnownDirective(directive) {
				return nil, fmt.Errorf("line %d: unknown directive %q", lineNum, directive)
			}
			return nil, fmt.Errorf("line %d: version directive must come first", lineNum)
		}

		switch directive {
		case "version":
			if versionSeen {
				return nil, fmt.Errorf("line %d: duplicate version directive", lineNum)
			}
			v, err := strconv.Atoi(value)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid version %q", lineNum, value)
			}
			if v > CurrentVersion {
				return nil, fmt.Errorf("line %d: unsupported version %d (max supported: %d), please upgrade keepfmt", lineNum, v, CurrentVersion)
			}
			if v < 1 {
				return nil, fmt.Errorf("line %d: invalid version %d", lineNum, v)
			}
			script.Version = v
			versionSeen = true

		case "format":
			if value != FormatAuto {
				k, err := format.ParseKind(value)
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", lineNum, err)
				}
				value = k.String()
			}
			script.Format = value

		case "indent":
			n, err := strconv.Atoi(value)
			if err != nil || n < 0 {
				return nil, fmt.Errorf("line %d: indent must be a non-negative integer, got %q", lineNum, value)
			}
			script.Indent = format.IndentWidth(n)

		case "keep":
			p, err := path.Parse(value)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid keep path %q: %w", lineNum, value, err)
			}
			script.Keep = append(script.Keep, p)

		default:
			return nil, fmt.Errorf("line %d: unknown directive %q", lineNum, directive)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading script: %w", err)
	}

	if !versionSeen {
		return nil, fmt.Errorf("missing required version directive")
	}

	if !inTemplate {
		return nil, fmt.Errorf("missing %q line before the template", separator)
	}

	script.Template = strings.Join(templateLines, "\n")
	return script, nil
}

// Kind resolves the document format. With FormatAuto the format comes from
// the script file name, ignoring a "modify_" prefix and a ".tmpl" suffix.
func (s *Script) Kind(scriptPath string) (format.Kind, error) {
	if s.Format != FormatAuto {
		return format.ParseKind(s.Format)
	}

	name := filepath.Base(scriptPath)
	name = strings.TrimSuffix(name, ".tmpl")
	name = strings.TrimPrefix(name, "modify_")
	k, ok := format.KindFromFilename(name)
	if !ok {
		return 0, fmt.Errorf("cannot determine format from %q, add a format directive", filepath.Base(scriptPath))
	}
	return k, nil
}

// Options returns the formatting options with the script's indent applied.
func (s *Script) Options(base *format.Options) *format.Options {
	opts := format.DefaultOptions()
	if base != nil {
		opts = *base
	}
	if s.Indent != nil {
		opts.Indent = s.Indent
	}
	return &opts
}

// isKnownDirective checks if a word is a known directive.
func isKnownDirective(word string) bool {
	switch word {
	case "version", "format", "indent", "keep":
		return true
	}
	return false
}
