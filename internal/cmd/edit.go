package cmd

import (
	"fmt"

	"github.com/iancoleman/orderedmap"
	"github.com/spf13/cobra"
	"github.com/thirteen37/keepfmt/internal/format"
	"github.com/thirteen37/keepfmt/internal/format/json"
	"github.com/thirteen37/keepfmt/internal/path"
)

func newFmtCmd(a *app) *cobra.Command {
	var write bool

	cmd := &cobra.Command{
		Use:   "fmt [file]",
		Short: "Re-encode a document, keeping its layout",
		Long: `Parse a document and write it back with its detected indentation and
surrounding whitespace. Reads stdin when no file is given.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.load(cmd, args, 0)
			if err != nil {
				return err
			}
			return a.emit(cmd, d, write)
		},
	}
	cmd.Flags().BoolVarP(&write, "write", "w", false, "Write the result back to the file")
	return cmd
}

func newGetCmd(a *app) *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "get <path> [file]",
		Short: "Print the value at a path as JSON",
		Long: `Print the value at a path as JSON.

A path is a dotted key list (server.port) or a JSON array of keys
('["server", "port"]'). "*" matches any key, numbers index arrays.`,
		Example: `  keepfmt get editor.theme settings.json
  cat config.toml | keepfmt get -f toml '["servers", "*", "port"]'`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := path.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid path %q: %w", args[0], err)
			}
			d, err := a.load(cmd, args, 1)
			if err != nil {
				return err
			}

			val, ok := d.handler.GetPath(d.doc.Value, p)
			if !ok {
				return fmt.Errorf("path %s not found", p)
			}

			if s, isString := val.(string); isString && raw {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), s)
				return err
			}
			data, err := json.Marshal(val, "  ")
			if err != nil {
				return fmt.Errorf("failed to encode value: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return err
		},
	}
	cmd.Flags().BoolVarP(&raw, "raw", "r", false, "Print strings without quotes")
	return cmd
}

func newSetCmd(a *app) *cobra.Command {
	var write bool

	cmd := &cobra.Command{
		Use:   "set <path> <value> [file]",
		Short: "Set the value at a path",
		Long: `Set the value at a path and write the document back with its layout.

The value is read as JSON when it parses, otherwise as a plain string.`,
		Example: `  keepfmt set -w editor.tabSize 4 settings.json
  keepfmt set -w '["server", "host"]' '"0.0.0.0"' config.toml`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := path.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid path %q: %w", args[0], err)
			}
			d, err := a.load(cmd, args, 2)
			if err != nil {
				return err
			}

			if format.IsNil(d.doc.Value) {
				d.doc.Value = orderedmap.New()
			}
			if err := d.handler.SetPath(d.doc.Value, p, parseValue(args[1])); err != nil {
				return fmt.Errorf("failed to set %s: %w", p, err)
			}
			return a.emit(cmd, d, write)
		},
	}
	cmd.Flags().BoolVarP(&write, "write", "w", false, "Write the result back to the file")
	return cmd
}

func newDeleteCmd(a *app) *cobra.Command {
	var write bool

	cmd := &cobra.Command{
		Use:   "delete <path> [file]",
		Short: "Remove the value at a path",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := path.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid path %q: %w", args[0], err)
			}
			d, err := a.load(cmd, args, 1)
			if err != nil {
				return err
			}

			if !d.handler.DeletePath(d.doc.Value, p) {
				return fmt.Errorf("path %s not found", p)
			}
			return a.emit(cmd, d, write)
		},
	}
	cmd.Flags().BoolVarP(&write, "write", "w", false, "Write the result back to the file")
	return cmd
}
