// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newListCommand(app *App, opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the item documents that would be validated",
		Long: `List the item documents that would be passed to the validator, one
path per line, in the order they are passed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig(cmd.Context(), opts)
			if err != nil {
				return app.fail(cmd, err, opts.verbose)
			}

			files, err := selectItems(cfg)
			if err != nil {
				return app.fail(cmd, err, opts.verbose)
			}

			out := cmd.OutOrStdout()
			for _, f := range files {
				fmt.Fprintln(out, f)
			}
			app.Logger.Debug("selected item documents", "count", len(files))
			return nil
		},
	}
}
