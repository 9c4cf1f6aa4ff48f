// Package cmd provides the CLI commands for keepfmt.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/amterp/color"
	"github.com/spf13/cobra"
	"github.com/thirteen37/keepfmt/internal/config"
	"github.com/thirteen37/keepfmt/internal/format"
)

var errorLabel = color.New(color.FgRed, color.Bold)

// app holds the global flags and the settings resolved from them.
type app struct {
	formatName         string
	configPath         string
	indent             int
	sampleSize         int
	noWhitespace       bool
	noDetect           bool
	verbose            bool
	disallowComments   bool
	allowTrailingComma bool
	iniBooleanKeys     bool

	cfg    *config.Config
	logger *slog.Logger
}

// NewRootCmd builds the keepfmt command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "keepfmt",
		Short: "Edit configuration files without losing their layout",
		Long: `keepfmt reads JSON, JSON5, JSONC, TOML, YAML and INI documents, applies
an edit and writes them back with the original indentation and surrounding
whitespace.

Settings are read from .keepfmt.json, then KEEPFMT_* environment variables
(a .env file is loaded first), then command-line flags.

keepfmt is also a script interpreter: a file starting with
"#!/usr/bin/env keepfmt" is run as if passed to "keepfmt run".`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&a.formatName, "format", "f", "", "Document format (json, json5, jsonc, toml, yaml, ini); guessed from the file name if omitted")
	flags.StringVar(&a.configPath, "config", config.DefaultFile, "Path to the configuration file")
	flags.IntVar(&a.indent, "indent", 0, "Indent width in spaces, overriding detection")
	flags.IntVar(&a.sampleSize, "sample-size", format.DefaultSampleSize, "Characters sampled for indent detection")
	flags.BoolVar(&a.noWhitespace, "no-preserve-whitespace", false, "Drop leading and trailing whitespace")
	flags.BoolVar(&a.noDetect, "no-detect-indent", false, "Do not detect indentation from the input")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "Log debug information to stderr")
	flags.BoolVar(&a.disallowComments, "disallow-comments", false, "Reject comments in JSONC input")
	flags.BoolVar(&a.allowTrailingComma, "allow-trailing-comma", false, "Accept trailing commas in JSONC input")
	flags.BoolVar(&a.iniBooleanKeys, "ini-boolean-keys", false, "Accept INI keys without a value")

	rootCmd.AddCommand(
		newFmtCmd(a),
		newGetCmd(a),
		newSetCmd(a),
		newDeleteCmd(a),
		newConvertCmd(a),
		newDetectCmd(a),
		newMergeCmd(a),
		newKeepCmd(a),
		newInitCmd(a),
		newRunCmd(a),
	)

	return rootCmd
}

// Execute runs the root command with args and returns the process exit code.
func Execute(args []string) int {
	rootCmd := NewRootCmd()
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(rootCmd.ErrOrStderr(), "%s %v\n", errorLabel.Sprint("error:"), err)
		return 1
	}
	return 0
}

// setup resolves settings with precedence flags > environment > file > defaults.
func (a *app) setup(cmd *cobra.Command) error {
	level := slog.LevelWarn
	if a.verbose {
		level = slog.LevelDebug
	}
	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	if err := config.LoadDotEnv(".env"); err != nil {
		return err
	}

	cfg, err := config.LoadOptional(a.configPath)
	if err != nil {
		return err
	}
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("indent") {
		cfg.Indent = &a.indent
	}
	if flags.Changed("sample-size") {
		cfg.SampleSize = &a.sampleSize
	}
	if a.noWhitespace {
		off := false
		cfg.PreserveWhitespace = &off
	}
	if a.noDetect {
		off := false
		cfg.PreserveIndentation = &off
	}
	if a.disallowComments {
		cfg.JSONC.DisallowComments = true
	}
	if a.allowTrailingComma {
		cfg.JSONC.AllowTrailingComma = true
	}
	if a.iniBooleanKeys {
		cfg.INI.AllowBooleanKeys = true
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}

	a.cfg = cfg
	opts := cfg.FormatOptions()
	a.logger.Debug("settings resolved",
		"config", a.configPath,
		"explicitIndent", opts.Indent != nil,
		"preserveIndentation", opts.PreserveIndentation,
		"preserveWhitespace", opts.PreserveWhitespace,
		"sampleSize", opts.SampleSize,
		"keep", len(cfg.Keep))
	return nil
}
