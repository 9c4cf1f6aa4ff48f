package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/thirteen37/keepfmt/internal/config"
	"github.com/thirteen37/keepfmt/internal/path"
)

func newKeepCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keep",
		Short: "Manage the paths merge keeps from the current document",
	}
	cmd.AddCommand(newKeepAddCmd(a), newKeepRemoveCmd(a), newKeepListCmd(a))
	return cmd
}

func newKeepAddCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add <path>",
		Short: "Add a kept path to the configuration file",
		Example: `  keepfmt keep add '["context_servers", "OpenDia", "enabled"]'
  keepfmt keep add editor.theme`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := path.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid path %q: %w", args[0], err)
			}

			// The file is reloaded so environment and flag overrides are not saved.
			cfg, err := config.LoadOptional(a.configPath)
			if err != nil {
				return err
			}

			if !cfg.AddPath(p.Segments()) {
				fmt.Fprintf(cmd.OutOrStdout(), "Path %s already kept\n", p)
				return nil
			}

			if err := cfg.Save(a.configPath); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Added path %s\n", p)
			return nil
		},
	}
}

func newKeepRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <path>",
		Short: "Remove a kept path from the configuration file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := path.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid path %q: %w", args[0], err)
			}

			cfg, err := config.LoadOptional(a.configPath)
			if err != nil {
				return err
			}

			if !cfg.RemovePath(p.Segments()) {
				fmt.Fprintf(cmd.OutOrStdout(), "Path %s not found\n", p)
				return nil
			}

			if err := cfg.Save(a.configPath); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Removed path %s\n", p)
			return nil
		},
	}
}

func newKeepListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the kept paths",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			paths := a.cfg.GetPaths()
			if len(paths) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No kept paths configured")
				return nil
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Kept paths in %s:\n", a.configPath)
			for _, p := range paths {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", p)
			}
			return nil
		},
	}
}
