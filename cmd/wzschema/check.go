// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"

	"github.com/shroomkit/wzschema/internal/invoker"
	"github.com/shroomkit/wzschema/internal/schemacheck"
	"github.com/shroomkit/wzschema/internal/settings"

	"github.com/spf13/cobra"
)

func newCheckCommand(app *App, opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check [filter]",
		Short: "Validate workspace JSON documents in-process",
		Long: `Validate workspace JSON documents without an external validator.

Schema associations are read from the "json.schemas" section of the
workspace settings file (settings_file, default .vscode/settings.json). For
each association whose url contains [filter], the files matching its first
fileMatch glob are validated against the schema. Every $ref that is not a
workspace file resolves to the shared schema (shared_schema).

Exits 1 when any document fails validation.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := ""
			if len(args) == 1 {
				filter = args[0]
			}
			return runCheck(cmd, app, opts, filter)
		},
	}
}

func runCheck(cmd *cobra.Command, app *App, opts *rootOptions, filter string) error {
	ctx := cmd.Context()

	cfg, err := app.loadConfig(ctx, opts)
	if err != nil {
		return app.fail(cmd, err, opts.verbose)
	}

	assocs, err := settings.Load(cfg.SettingsFile)
	if err != nil {
		return app.fail(cmd, err, opts.verbose)
	}
	assocs = settings.Filter(assocs, filter)
	if len(assocs) == 0 {
		app.Logger.Warn("no schema associations to check", "settings", cfg.SettingsFile, "filter", filter)
		return nil
	}

	checker := &schemacheck.Checker{
		FS:           os.DirFS("."),
		SharedSchema: cfg.SharedSchema,
		Concurrency:  cfg.Concurrency,
	}
	report, err := checker.Check(ctx, assocs)
	if report != nil {
		if _, werr := report.WriteTo(cmd.OutOrStdout()); werr != nil && err == nil {
			err = werr
		}
	}
	if err != nil {
		return app.fail(cmd, err, opts.verbose)
	}

	app.Logger.Debug("check finished", "schemas", len(report.Schemas), "files", report.FileCount(), "findings", report.FindingCount())

	if report.HasFindings() {
		fmt.Fprintf(app.stderr, "%s %d finding(s) in %d file(s) checked\n",
			ErrorStyle.Render("✗"), report.FindingCount(), report.FileCount())
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return &ExitError{Code: invoker.ExitFailure}
	}

	fmt.Fprintf(app.stderr, "%s %d file(s) valid\n", SuccessStyle.Render("✓"), report.FileCount())
	return nil
}
