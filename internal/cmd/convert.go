package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/thirteen37/keepfmt/internal/format"
)

func newConvertCmd(a *app) *cobra.Command {
	var to string

	cmd := &cobra.Command{
		Use:   "convert --to <format> [file]",
		Short: "Re-encode a document in another format",
		Long: `Re-encode a document in another format. The indentation and surrounding
whitespace of the input are carried over where the target format allows it.`,
		Example: `  keepfmt convert --to yaml settings.json`,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := format.ParseKind(to)
			if err != nil {
				return err
			}
			d, err := a.load(cmd, args, 0)
			if err != nil {
				return err
			}

			h, err := a.handlerFor(target)
			if err != nil {
				return err
			}
			out, err := h.Stringify(d.doc, a.cfg.FormatOptions())
			if err != nil {
				return fmt.Errorf("failed to convert %s to %s: %w", d.kind.Name(), target.Name(), err)
			}
			return writeOutput(cmd, "", out, false)
		},
	}
	cmd.Flags().StringVarP(&to, "to", "t", "", "Target format (required)")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}
