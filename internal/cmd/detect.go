package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/thirteen37/keepfmt/internal/format"
)

func newDetectCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "detect [file]",
		Short: "Show the formatting detected in a document",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.load(cmd, args, 0)
			if err != nil {
				return err
			}

			info := d.doc.Format
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "format:   %s\n", d.kind)
			fmt.Fprintf(w, "indent:   %d\n", format.ResolveIndent(info, a.cfg.FormatOptions()))
			fmt.Fprintf(w, "sampled:  %t\n", info.Sampled)
			fmt.Fprintf(w, "leading:  %q\n", info.Leading)
			_, err = fmt.Fprintf(w, "trailing: %q\n", info.Trailing)
			return err
		},
	}
}
