// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/shroomkit/wzschema/internal/config"
	"github.com/shroomkit/wzschema/internal/invoker"
	"github.com/shroomkit/wzschema/internal/selector"

	"github.com/spf13/cobra"
)

// runValidator selects the item documents and runs the external validator on
// them. A validator that exits non-zero makes wzschema exit with the same code.
func runValidator(cmd *cobra.Command, app *App, opts *rootOptions) error {
	ctx := cmd.Context()

	cfg, err := app.loadConfig(ctx, opts)
	if err != nil {
		return app.fail(cmd, err, opts.verbose)
	}

	files, err := selectItems(cfg)
	if err != nil {
		return app.fail(cmd, err, opts.verbose)
	}
	app.Logger.Debug("selected item documents", "kind", cfg.ItemKind, "root", cfg.ItemsRoot, "count", len(files))

	if len(files) == 0 && cfg.ZeroMatch == config.ZeroMatchSkip {
		app.Logger.Warn("no item documents matched, validator not invoked",
			"pattern", selector.ItemPattern(string(cfg.ItemKind)).String(),
			"root", cfg.ItemsRoot)
		return nil
	}

	inv, err := invoker.New(cfg.Validator, cfg.SchemaFile, files)
	if err != nil {
		return app.fail(cmd, err, opts.verbose)
	}

	if opts.dryRun {
		fmt.Fprintln(cmd.OutOrStdout(), inv.String())
		return nil
	}

	app.Logger.Debug("running validator", "command", inv.String())

	code, err := app.Runner.Run(ctx, inv)
	if err != nil {
		return app.fail(cmd, err, opts.verbose)
	}
	if !code.IsSuccess() {
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return &ExitError{Code: code}
	}
	return nil
}

// selectItems returns the matching documents as paths the validator can open
// from the working directory.
func selectItems(cfg *config.Config) ([]string, error) {
	root := cfg.ItemsRoot
	matches, err := selector.SelectItems(os.DirFS(root), selector.ItemPattern(string(cfg.ItemKind)))
	if err != nil {
		return nil, err
	}
	for i, m := range matches {
		matches[i] = filepath.Join(root, m)
	}
	return matches, nil
}
