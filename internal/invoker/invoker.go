// SPDX-License-Identifier: MPL-2.0

package invoker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/exec"
	"slices"

	"github.com/shroomkit/wzschema/internal/issue"
)

// SchemaFileFlag is the validator flag that carries the schema path.
const SchemaFileFlag = "--schemafile"

type (
	// Invocation is one validator run: the command (executable plus any fixed
	// leading arguments), the schema file, and the documents to check.
	Invocation struct {
		Command    []string
		SchemaFile string
		Files      []string
	}

	// Runner starts invocations with the given standard streams.
	Runner struct {
		Stdin  io.Reader
		Stdout io.Writer
		Stderr io.Writer

		// LookPath resolves the executable; exec.LookPath when nil.
		LookPath func(file string) (string, error)
	}
)

// New builds an Invocation from a validator command line.
func New(commandLine, schemaFile string, files []string) (Invocation, error) {
	command, err := ParseCommand(commandLine)
	if err != nil {
		return Invocation{}, err
	}
	return Invocation{
		Command:    command,
		SchemaFile: schemaFile,
		Files:      slices.Clone(files),
	}, nil
}

// Executable returns the program to start.
func (inv Invocation) Executable() string {
	if len(inv.Command) == 0 {
		return ""
	}
	return inv.Command[0]
}

// Args returns the arguments after the executable:
// fixed command arguments, then --schemafile <schema>, then every file.
func (inv Invocation) Args() []string {
	var args []string
	if len(inv.Command) > 1 {
		args = append(args, inv.Command[1:]...)
	}
	args = append(args, SchemaFileFlag, inv.SchemaFile)
	return append(args, inv.Files...)
}

// Argv returns the full argument vector including the executable.
func (inv Invocation) Argv() []string {
	return append([]string{inv.Executable()}, inv.Args()...)
}

// String returns the invocation as a shell-quoted command line.
func (inv Invocation) String() string {
	return quoteArgs(inv.Argv())
}

// NewRunner returns a Runner wired to the process's standard streams.
func NewRunner() *Runner {
	return &Runner{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// Run starts the validator and waits for it. A validator that runs and exits
// non-zero yields its exit code and a nil error. A validator that cannot be
// started yields ExitFailure and an *issue.ActionableError.
func (r *Runner) Run(ctx context.Context, inv Invocation) (ExitCode, error) {
	if len(inv.Command) == 0 {
		return ExitFailure, ErrEmptyCommand
	}

	lookPath := r.LookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}

	path, err := lookPath(inv.Executable())
	if err != nil {
		return ExitFailure, startError(inv.Executable(), err)
	}

	cmd := exec.CommandContext(ctx, path, inv.Args()...)
	cmd.Stdin = r.Stdin
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			if code := exitErr.ExitCode(); code >= 0 {
				return ExitCode(code), nil
			}
			// Killed by a signal: there is no status to pass through.
			return ExitFailure, fmt.Errorf("validator %s: %s", inv.Executable(), exitErr.ProcessState)
		}
		return ExitFailure, startError(inv.Executable(), err)
	}

	return 0, nil
}

func startError(executable string, err error) error {
	ctx := issue.NewErrorContext().
		WithOperation("run validator").
		WithResource(executable).
		Wrap(err)

	if errors.Is(err, fs.ErrPermission) {
		return ctx.
			WithSuggestion("Make the validator executable").
			WithIssue(issue.PermissionDeniedId).
			BuildError()
	}

	return ctx.
		WithSuggestion("Install check-jsonschema or set 'validator' in wzschema.cue").
		WithSuggestion("Run 'wzschema check' to validate without an external tool").
		WithIssue(issue.ValidatorNotFoundId).
		BuildError()
}
