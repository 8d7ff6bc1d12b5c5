// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/shroomkit/wzschema/internal/config"

	"github.com/spf13/cobra"
)

// newConfigCommand creates the `wzschema config` command tree.
func newConfigCommand(app *App, opts *rootOptions) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect wzschema configuration",
		Long: `Inspect wzschema configuration.

Configuration is read from the first of:
  - the file given with --config
  - ./wzschema.cue or ./wzschema.toml
  - ~/.config/wzschema/config.cue (or config.toml)

WZSCHEMA_* environment variables override file values.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	var format string
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig(cmd.Context(), opts)
			if err != nil {
				return app.fail(cmd, err, opts.verbose)
			}

			out, err := config.Marshal(cfg, format)
			if err != nil {
				return app.fail(cmd, err, opts.verbose)
			}

			source := SubtitleStyle.Render("(using defaults)")
			if cfg.Source != "" {
				source = cfg.Source
			}
			fmt.Fprintf(app.stderr, "%s: %s\n", CmdStyle.Render("Config file"), source)

			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
	showCmd.Flags().StringVar(&format, "format", "cue", "output format (cue or toml)")
	cfgCmd.AddCommand(showCmd)

	return cfgCmd
}
