// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/shroomkit/wzschema/internal/config"
	"github.com/shroomkit/wzschema/internal/invoker"
	"github.com/shroomkit/wzschema/internal/issue"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

type (
	// App wires CLI services and shared dependencies. It is the composition root
	// for the CLI layer: every command handler receives an App and reaches
	// configuration, the validator runner and the output streams through it.
	App struct {
		Config ConfigProvider
		Runner ValidatorRunner
		Logger *log.Logger
		stdout io.Writer
		stderr io.Writer
	}

	// Dependencies defines the injection points for building an App. Nil fields
	// are replaced with production defaults by NewApp.
	Dependencies struct {
		Config ConfigProvider
		Runner ValidatorRunner
		Stdin  io.Reader
		Stdout io.Writer
		Stderr io.Writer
	}

	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}

	// ValidatorRunner starts the external validator and reports its exit status.
	ValidatorRunner interface {
		Run(ctx context.Context, inv invoker.Invocation) (invoker.ExitCode, error)
	}
)

// NewApp creates the CLI composition root.
func NewApp(deps Dependencies) *App {
	if deps.Stdin == nil {
		deps.Stdin = os.Stdin
	}
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Runner == nil {
		deps.Runner = &invoker.Runner{
			Stdin:  deps.Stdin,
			Stdout: deps.Stdout,
			Stderr: deps.Stderr,
		}
	}

	return &App{
		Config: deps.Config,
		Runner: deps.Runner,
		Logger: newLogger(deps.Stderr),
		stdout: deps.Stdout,
		stderr: deps.Stderr,
	}
}

func newLogger(w io.Writer) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Prefix: config.AppName,
		Level:  log.InfoLevel,
	})
}

// loadConfig loads the effective configuration and raises the log level when
// verbose output is requested by flag or config.
func (a *App) loadConfig(ctx context.Context, opts *rootOptions) (*config.Config, error) {
	cfg, err := a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: opts.configPath})
	if err != nil {
		return nil, err
	}

	if cfg.UI.Verbose {
		opts.verbose = true
	}
	if opts.verbose {
		a.Logger.SetLevel(log.DebugLevel)
	}

	if cfg.Source != "" {
		a.Logger.Debug("loaded configuration", "source", cfg.Source)
	} else {
		a.Logger.Debug("no configuration file found, using defaults")
	}
	return cfg, nil
}

// fail reports err on stderr and returns an ExitError carrying code 1.
// Actionable errors also get their issue catalog entry.
func (a *App) fail(cmd *cobra.Command, err error, verbose bool) error {
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	fmt.Fprintln(a.stderr, ErrorStyle.Render("Error:")+" "+formatErrorForDisplay(err, verbose))

	var ae *issue.ActionableError
	if errors.As(err, &ae) && ae.IssueID != 0 {
		renderIssue(a.stderr, a.Logger, ae.IssueID)
	}

	return &ExitError{Code: invoker.ExitFailure}
}

// renderIssue prints the catalog entry for id.
func renderIssue(w io.Writer, logger *log.Logger, id issue.Id) {
	entry := issue.Get(id)
	if entry == nil {
		return
	}
	rendered, err := entry.Render("dark")
	if err != nil {
		logger.Warn("failed to render issue catalog entry", "issueID", id, "error", err)
		return
	}
	fmt.Fprint(w, rendered)
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
