// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// rootOptions holds the global flags.
type rootOptions struct {
	verbose    bool
	configPath string
	dryRun     bool
}

// newRootCommand builds the command tree around app.
func newRootCommand(app *App) *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "wzschema",
		Short: "Validate WZ item JSON documents against their schemas",
		Long: TitleStyle.Render("wzschema") + SubtitleStyle.Render(" - Validate WZ item JSON documents against their schemas") + `

Without a subcommand, wzschema selects every items/<Kind>/<id>.img/img.json
document below the items root and runs the configured validator as

  <validator> --schemafile <schema_file> <file>...

The validator's output is passed through and its exit status becomes the
exit status of wzschema.

` + SubtitleStyle.Render("Examples:") + `
  wzschema                  Validate Pet items with check-jsonschema
  wzschema --dry-run        Print the validator command line
  wzschema list             List the selected item documents
  wzschema check item       Validate in-process using .vscode/settings.json
  wzschema config show      Show the effective configuration`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidator(cmd, app, opts)
		},
	}

	rootCmd.SetOut(app.stdout)
	rootCmd.SetErr(app.stderr)

	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default is ./wzschema.cue, then $XDG_CONFIG_HOME/wzschema/config.cue)")
	rootCmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "print the validator command line instead of running it")

	rootCmd.AddCommand(newListCommand(app, opts))
	rootCmd.AddCommand(newCheckCommand(app, opts))
	rootCmd.AddCommand(newConfigCommand(app, opts))

	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the CLI and exits the process with the resulting status.
// This is called by main.main().
func Execute() {
	os.Exit(run(context.Background(), NewApp(Dependencies{}), os.Args[1:]))
}

// run executes the command tree and maps the outcome to an exit status.
func run(ctx context.Context, app *App, args []string) int {
	rootCmd := newRootCommand(app)
	if args == nil {
		// cobra falls back to os.Args for a nil slice.
		args = []string{}
	}
	rootCmd.SetArgs(args)

	// Pass version via fang.WithVersion() since fang overrides rootCmd.Version
	err := fang.Execute(
		ctx,
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(errorHandler),
	)
	if err == nil {
		return 0
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return int(exitErr.Code)
	}
	return 1
}

// errorHandler leaves already-reported exits alone and styles everything else
// the way fang does.
func errorHandler(w io.Writer, styles fang.Styles, err error) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Err == nil {
		return
	}
	fang.DefaultErrorHandler(w, styles, err)
}
