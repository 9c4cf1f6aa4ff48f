package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/thirteen37/keepfmt/internal/format"
	"github.com/thirteen37/keepfmt/internal/merge"
	"github.com/thirteen37/keepfmt/internal/path"
	"github.com/thirteen37/keepfmt/internal/script"
)

func newMergeCmd(a *app) *cobra.Command {
	var (
		managedFile string
		keep        []string
		write       bool
	)

	cmd := &cobra.Command{
		Use:   "merge --managed <file> [current]",
		Short: "Merge a managed document into the current one",
		Long: `Write the managed document, keeping the values at the kept paths from the
current document and the current document's layout.

Kept paths come from the configuration file and --keep. The current
document is read from stdin when no file is given; if it is empty or cannot
be parsed the managed document is written unchanged.`,
		Example: `  keepfmt merge --managed settings.managed.json --keep editor.theme settings.json`,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			managedData, err := os.ReadFile(managedFile)
			if err != nil {
				return fmt.Errorf("failed to read managed file: %w", err)
			}

			name, currentText, err := readInput(cmd, args, 0)
			if err != nil {
				return err
			}

			paths := a.cfg.GetPaths()
			for _, k := range keep {
				p, err := path.Parse(k)
				if err != nil {
					return fmt.Errorf("invalid path %q: %w", k, err)
				}
				paths = append(paths, p)
			}

			k, err := a.kindFor(name, managedFile)
			if err != nil {
				return err
			}

			out, err := a.merge(k, string(managedData), currentText, paths, nil)
			if err != nil {
				return err
			}
			return writeOutput(cmd, name, out, write)
		},
	}

	cmd.Flags().StringVarP(&managedFile, "managed", "m", "", "Path to the managed document (required)")
	cmd.Flags().StringArrayVarP(&keep, "keep", "k", nil, "Path to keep from the current document (repeatable)")
	cmd.Flags().BoolVarP(&write, "write", "w", false, "Write the result back to the current file")
	_ = cmd.MarkFlagRequired("managed")
	return cmd
}

func newRunCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "run <script>",
		Short: "Run an edit script against the document on stdin",
		Long: `Run an edit script: merge its managed template with the current document
read from stdin and print the result.

  #!/usr/bin/env keepfmt
  # version 1
  # format json
  # keep ["editor", "theme"]
  #---
  {"editor": {"theme": "light", "tabSize": 2}}`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read script: %w", err)
			}

			scr, err := script.Parse(string(content))
			if err != nil {
				return fmt.Errorf("failed to parse script: %w", err)
			}

			k, err := scr.Kind(args[0])
			if err != nil {
				return err
			}

			current, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("failed to read current from stdin: %w", err)
			}

			paths := append(a.cfg.GetPaths(), scr.Keep...)
			out, err := a.merge(k, scr.Template, string(current), paths, scr.Options(a.cfg.FormatOptions()))
			if err != nil {
				return err
			}
			return writeOutput(cmd, "", out, false)
		},
	}
}

// merge parses both documents as k and overlays the kept paths.
// A nil opts uses the configured options.
func (a *app) merge(k format.Kind, managedText, currentText string, paths []path.Path, opts *format.Options) (string, error) {
	if opts == nil {
		opts = a.cfg.FormatOptions()
	}

	h, err := a.handlerFor(k)
	if err != nil {
		return "", err
	}

	managed, err := h.Parse(managedText, opts)
	if err != nil {
		return "", fmt.Errorf("failed to parse managed document: %w", err)
	}

	var current format.Formatted[any]
	if strings.TrimSpace(currentText) != "" {
		current, err = h.Parse(currentText, opts)
		if err != nil {
			a.logger.Warn("current document could not be parsed, using the managed document", "err", err)
			current = format.Formatted[any]{}
		}
	}

	result := merge.Document(h, managed, current, paths)
	a.logger.Debug("merged documents", "format", k, "keep", len(paths), "currentFormatting", !format.IsNil(current.Value))

	out, err := h.Stringify(result, opts)
	if err != nil {
		return "", fmt.Errorf("failed to stringify result: %w", err)
	}
	return out, nil
}

// IsScript reports whether name is a file starting with "#!", i.e. keepfmt
// was started as its interpreter.
func IsScript(name string) bool {
	f, err := os.Open(name)
	if err != nil {
		return false
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || !info.Mode().IsRegular() {
		return false
	}

	buf := make([]byte, 2)
	if _, err := io.ReadFull(f, buf); err != nil {
		return false
	}
	return string(buf) == "#!"
}
