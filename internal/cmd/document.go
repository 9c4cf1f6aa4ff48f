package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/thirteen37/keepfmt/internal/format"
	"github.com/thirteen37/keepfmt/internal/format/json"
	"github.com/thirteen37/keepfmt/internal/format/registry"
)

// document is a parsed input together with where it came from.
type document struct {
	name    string // empty for stdin
	kind    format.Kind
	handler format.Handler
	doc     format.Formatted[any]
}

// readInput reads args[i] or, when absent or "-", the command's stdin.
func readInput(cmd *cobra.Command, args []string, i int) (string, string, error) {
	if len(args) > i && args[i] != "-" {
		data, err := os.ReadFile(args[i])
		if err != nil {
			return "", "", fmt.Errorf("failed to read %s: %w", args[i], err)
		}
		return args[i], string(data), nil
	}

	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return "", string(data), nil
}

// kindFor resolves the format from --format, then from the file names given.
func (a *app) kindFor(names ...string) (format.Kind, error) {
	if a.formatName != "" {
		return format.ParseKind(a.formatName)
	}
	for _, name := range names {
		if name == "" {
			continue
		}
		if k, ok := format.KindFromFilename(name); ok {
			return k, nil
		}
	}
	return 0, fmt.Errorf("cannot determine the format, use --format")
}

func (a *app) handlerFor(k format.Kind) (format.Handler, error) {
	return registry.New(k, a.cfg.Settings())
}

// parse decodes text with h and logs what was detected.
func (a *app) parse(h format.Handler, name, text string) (format.Formatted[any], error) {
	opts := a.cfg.FormatOptions()
	doc, err := h.Parse(text, opts)
	if err != nil {
		if name != "" {
			return doc, fmt.Errorf("%s: %w", name, err)
		}
		return doc, err
	}

	a.logger.Debug("parsed document",
		"file", name,
		"format", h.Kind(),
		"sampled", doc.Format.Sampled,
		"indent", format.ResolveIndent(doc.Format, opts),
		"leading", len(doc.Format.Leading),
		"trailing", len(doc.Format.Trailing))
	return doc, nil
}

// load reads and parses the document named by args[i].
func (a *app) load(cmd *cobra.Command, args []string, i int) (*document, error) {
	name, text, err := readInput(cmd, args, i)
	if err != nil {
		return nil, err
	}

	k, err := a.kindFor(name)
	if err != nil {
		return nil, err
	}
	h, err := a.handlerFor(k)
	if err != nil {
		return nil, err
	}

	doc, err := a.parse(h, name, text)
	if err != nil {
		return nil, err
	}
	return &document{name: name, kind: k, handler: h, doc: doc}, nil
}

// emit stringifies d and writes it back to its file or to stdout.
func (a *app) emit(cmd *cobra.Command, d *document, write bool) error {
	out, err := d.handler.Stringify(d.doc, a.cfg.FormatOptions())
	if err != nil {
		return err
	}
	return writeOutput(cmd, d.name, out, write)
}

func writeOutput(cmd *cobra.Command, name, out string, write bool) error {
	if !write {
		_, err := io.WriteString(cmd.OutOrStdout(), out)
		return err
	}
	if name == "" {
		return fmt.Errorf("--write needs a file argument")
	}

	mode := os.FileMode(0644)
	if info, err := os.Stat(name); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(name, []byte(out), mode); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}

// parseValue reads a command-line value as JSON, falling back to the
// literal string.
func parseValue(s string) any {
	if strings.TrimSpace(s) == "" {
		return s
	}
	v, err := json.DecodeTree([]byte(s))
	if err != nil {
		return s
	}
	return v
}
