package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"
	"github.com/thirteen37/keepfmt/internal/config"
	"github.com/thirteen37/keepfmt/internal/path"
)

func newInitCmd(a *app) *cobra.Command {
	var (
		force bool
		keep  []string
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file",
		Long: `Write a configuration file with every default spelled out.

Example:
  keepfmt init --keep '["agent", "default_model"]' --keep editor.theme`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(a.configPath); err == nil && !force {
				return fmt.Errorf("%s already exists, use --force to overwrite", a.configPath)
			} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return err
			}

			cfg := config.Default()
			for _, k := range keep {
				p, err := path.Parse(k)
				if err != nil {
					return fmt.Errorf("invalid path %q: %w", k, err)
				}
				cfg.AddPath(p.Segments())
			}

			if err := cfg.Save(a.configPath); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created: %s\n", a.configPath)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing configuration file")
	cmd.Flags().StringArrayVar(&keep, "keep", nil, "Path to keep on merge (can specify multiple)")
	return cmd
}
