// SPDX-License-Identifier: MPL-2.0

package invoker

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"testing"

	"github.com/shroomkit/wzschema/internal/issue"
	"github.com/shroomkit/wzschema/internal/testutil"
)

// fakeValidator prints one argument per line, writes a marker to stderr and
// exits with the given status.
func fakeValidator(t *testing.T, exitCode string) string {
	t.Helper()
	return testutil.FakeValidator(t, t.TempDir(), "fake-validator",
		"for a in \"$@\"; do echo \"$a\"; done\necho to-stderr >&2\nexit "+exitCode+"\n")
}

func TestInvocation_Args(t *testing.T) {
	t.Parallel()

	inv, err := New("validator", "schemas/pet_item.schema.json", []string{
		"items/Pet/1.img/img.json",
		"items/Pet/2.img/img.json",
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	want := []string{
		"validator",
		"--schemafile", "schemas/pet_item.schema.json",
		"items/Pet/1.img/img.json",
		"items/Pet/2.img/img.json",
	}
	if got := inv.Argv(); !slices.Equal(got, want) {
		t.Errorf("Argv() = %v, want %v", got, want)
	}
}

func TestInvocation_ArgsWithCommandPrefix(t *testing.T) {
	t.Parallel()

	inv, err := New(`uvx check-jsonschema --no-cache`, "s.json", []string{"a.json"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if inv.Executable() != "uvx" {
		t.Errorf("Executable() = %q, want uvx", inv.Executable())
	}
	want := []string{"check-jsonschema", "--no-cache", "--schemafile", "s.json", "a.json"}
	if got := inv.Args(); !slices.Equal(got, want) {
		t.Errorf("Args() = %v, want %v", got, want)
	}
}

func TestInvocation_NoFiles(t *testing.T) {
	t.Parallel()

	inv, err := New("validator", "schema.json", nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	want := []string{"--schemafile", "schema.json"}
	if got := inv.Args(); !slices.Equal(got, want) {
		t.Errorf("Args() = %v, want %v", got, want)
	}
}

func TestInvocation_SchemaFileIsNeverAltered(t *testing.T) {
	t.Parallel()

	files := []string{"--schemafile", "evil.json", "items/Pet/1.img/img.json"}
	inv, err := New("validator", "schemas/pet_item.schema.json", files)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	args := inv.Args()
	if args[0] != SchemaFileFlag || args[1] != "schemas/pet_item.schema.json" {
		t.Errorf("Args() must start with the configured schema, got %v", args)
	}

	// The caller's slice is copied.
	files[2] = "changed"
	if inv.Files[2] != "items/Pet/1.img/img.json" {
		t.Error("New() should copy the file list")
	}
}

func TestInvocation_String(t *testing.T) {
	t.Parallel()

	inv := Invocation{Command: []string{"validator"}, SchemaFile: "my schema.json"}
	if got := inv.String(); !strings.Contains(got, "'my schema.json'") {
		t.Errorf("String() = %q, want the schema path quoted", got)
	}
}

func TestParseCommand(t *testing.T) {
	t.Parallel()

	tests := []struct {
		line    string
		want    []string
		wantErr error
	}{
		{line: "check-jsonschema", want: []string{"check-jsonschema"}},
		{line: `  "/opt/my tools/check"  --verbose `, want: []string{"/opt/my tools/check", "--verbose"}},
		{line: `python -m 'check_jsonschema'`, want: []string{"python", "-m", "check_jsonschema"}},
		{line: "   ", wantErr: ErrEmptyCommand},
		{line: "", wantErr: ErrEmptyCommand},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			t.Parallel()

			got, err := ParseCommand(tt.line)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ParseCommand(%q) error = %v, want %v", tt.line, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseCommand(%q) error = %v", tt.line, err)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("ParseCommand(%q) = %q, want %q", tt.line, got, tt.want)
			}
		})
	}
}

func TestParseCommand_Unterminated(t *testing.T) {
	t.Parallel()

	if _, err := ParseCommand(`check "unterminated`); err == nil {
		t.Error("expected error for unterminated quote")
	}
}

func TestRunner_PropagatesExitCode(t *testing.T) {
	t.Parallel()

	for _, code := range []string{"0", "1", "3", "42"} {
		t.Run(code, func(t *testing.T) {
			t.Parallel()

			validator := fakeValidator(t, code)
			var stdout, stderr bytes.Buffer
			r := &Runner{Stdout: &stdout, Stderr: &stderr}

			got, err := r.Run(context.Background(), Invocation{
				Command:    []string{validator},
				SchemaFile: "schemas/pet_item.schema.json",
				Files:      []string{"items/Pet/1.img/img.json"},
			})
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if got.String() != code {
				t.Errorf("Run() exit code = %s, want %s", got, code)
			}

			wantOut := "--schemafile\nschemas/pet_item.schema.json\nitems/Pet/1.img/img.json\n"
			if stdout.String() != wantOut {
				t.Errorf("stdout = %q, want %q", stdout.String(), wantOut)
			}
			if stderr.String() != "to-stderr\n" {
				t.Errorf("stderr = %q, want passthrough", stderr.String())
			}
		})
	}
}

func TestRunner_MissingValidator(t *testing.T) {
	t.Parallel()

	r := &Runner{Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}}
	code, err := r.Run(context.Background(), Invocation{
		Command:    []string{"wzschema-no-such-validator-" + t.Name()},
		SchemaFile: "schema.json",
	})

	if code != ExitFailure {
		t.Errorf("exit code = %d, want %d", code, ExitFailure)
	}

	var ae *issue.ActionableError
	if !errors.As(err, &ae) {
		t.Fatalf("expected *issue.ActionableError, got %T: %v", err, err)
	}
	if ae.IssueID != issue.ValidatorNotFoundId {
		t.Errorf("IssueID = %d, want ValidatorNotFoundId", ae.IssueID)
	}
	if !strings.Contains(err.Error(), "run validator") {
		t.Errorf("error should say what failed, got: %v", err)
	}
}

func TestRunner_NotExecutable(t *testing.T) {
	t.Parallel()
	if runtime.GOOS == "windows" {
		t.Skip("exec bits are POSIX-only")
	}

	path := filepath.Join(t.TempDir(), "validator")
	if err := os.WriteFile(path, []byte("#!/bin/sh\nexit 0\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	r := &Runner{Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}}
	code, err := r.Run(context.Background(), Invocation{Command: []string{path}, SchemaFile: "s.json"})
	if code != ExitFailure || err == nil {
		t.Fatalf("Run() = %d, %v; want failure", code, err)
	}

	var ae *issue.ActionableError
	if !errors.As(err, &ae) || ae.IssueID != issue.PermissionDeniedId {
		t.Errorf("expected PermissionDenied actionable error, got %v", err)
	}
}

func TestRunner_EmptyCommand(t *testing.T) {
	t.Parallel()

	if _, err := (&Runner{}).Run(context.Background(), Invocation{}); !errors.Is(err, ErrEmptyCommand) {
		t.Errorf("Run() error = %v, want ErrEmptyCommand", err)
	}
}

func TestRunner_LookPathOverride(t *testing.T) {
	t.Parallel()

	validator := fakeValidator(t, "5")
	var looked string
	r := &Runner{
		Stdout: &bytes.Buffer{},
		Stderr: &bytes.Buffer{},
		LookPath: func(file string) (string, error) {
			looked = file
			return validator, nil
		},
	}

	code, err := r.Run(context.Background(), Invocation{Command: []string{"check-jsonschema"}, SchemaFile: "s.json"})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if looked != "check-jsonschema" {
		t.Errorf("LookPath called with %q", looked)
	}
	if code != 5 {
		t.Errorf("exit code = %d, want 5", code)
	}
}
