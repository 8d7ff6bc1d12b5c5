// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/shroomkit/wzschema/internal/config"
	"github.com/shroomkit/wzschema/internal/invoker"
	"github.com/shroomkit/wzschema/internal/issue"
	"github.com/shroomkit/wzschema/internal/testutil"
)

type (
	stubConfig struct {
		cfg *config.Config
		err error
	}

	recordingRunner struct {
		code  invoker.ExitCode
		err   error
		calls []invoker.Invocation
	}

	harness struct {
		app    *App
		runner *recordingRunner
		stdout *bytes.Buffer
		stderr *bytes.Buffer
	}
)

func (s stubConfig) Load(context.Context, config.LoadOptions) (*config.Config, error) {
	if s.err != nil {
		return nil, s.err
	}
	cfg := *s.cfg
	return &cfg, nil
}

func (r *recordingRunner) Run(_ context.Context, inv invoker.Invocation) (invoker.ExitCode, error) {
	r.calls = append(r.calls, inv)
	return r.code, r.err
}

func newHarness(t *testing.T, cfg *config.Config, runner *recordingRunner) *harness {
	t.Helper()

	h := &harness{runner: runner, stdout: &bytes.Buffer{}, stderr: &bytes.Buffer{}}
	h.app = NewApp(Dependencies{
		Config: stubConfig{cfg: cfg},
		Runner: runner,
		Stdout: h.stdout,
		Stderr: h.stderr,
	})
	return h
}

// itemsTree creates a workspace holding empty JSON documents and returns its root.
func itemsTree(t *testing.T, files ...string) string {
	t.Helper()

	tree := make(map[string]string, len(files))
	for _, f := range files {
		tree[f] = `{}`
	}
	return testutil.WriteTree(t, t.TempDir(), tree)
}

func configFor(root string) *config.Config {
	cfg := config.DefaultConfig()
	cfg.ItemsRoot = root
	cfg.Validator = "validator"
	return cfg
}

// The run tests are not parallel: fang and lipgloss share global renderer state.

func TestRun_InvokesValidatorWithSelectedItems(t *testing.T) {
	root := itemsTree(t,
		"items/Pet/1.img/img.json",
		"items/Pet/2.img/img.json",
		"items/Dog/1.img/img.json",
		"items/Pet/notes.txt",
	)
	h := newHarness(t, configFor(root), &recordingRunner{})

	if code := run(context.Background(), h.app, nil); code != 0 {
		t.Fatalf("exit code = %d, want 0; stderr: %s", code, h.stderr.String())
	}
	if len(h.runner.calls) != 1 {
		t.Fatalf("validator ran %d times, want 1", len(h.runner.calls))
	}

	want := []string{
		"validator",
		"--schemafile", "schemas/pet_item.schema.json",
		filepath.Join(root, "items", "Pet", "1.img", "img.json"),
		filepath.Join(root, "items", "Pet", "2.img", "img.json"),
	}
	if got := h.runner.calls[0].Argv(); !slices.Equal(got, want) {
		t.Errorf("argv = %v, want %v", got, want)
	}
}

func TestRun_PropagatesValidatorExitCode(t *testing.T) {
	root := itemsTree(t, "items/Pet/1.img/img.json")
	h := newHarness(t, configFor(root), &recordingRunner{code: 3})

	if code := run(context.Background(), h.app, nil); code != 3 {
		t.Errorf("exit code = %d, want 3", code)
	}
	if strings.Contains(h.stderr.String(), "exit status") {
		t.Errorf("validator failure should not be re-reported, stderr: %s", h.stderr.String())
	}
}

func TestRun_ZeroMatchSkip(t *testing.T) {
	root := itemsTree(t, "items/Dog/1.img/img.json")
	h := newHarness(t, configFor(root), &recordingRunner{code: 9})

	if code := run(context.Background(), h.app, nil); code != 0 {
		t.Errorf("exit code = %d, want 0", code)
	}
	if len(h.runner.calls) != 0 {
		t.Errorf("validator must not run on zero matches, got %v", h.runner.calls)
	}
	if !strings.Contains(h.stderr.String(), "no item documents matched") {
		t.Errorf("expected a warning, stderr: %s", h.stderr.String())
	}
}

func TestRun_ZeroMatchMissingRoot(t *testing.T) {
	h := newHarness(t, configFor(filepath.Join(t.TempDir(), "absent")), &recordingRunner{})

	if code := run(context.Background(), h.app, nil); code != 0 {
		t.Errorf("exit code = %d, want 0", code)
	}
	if len(h.runner.calls) != 0 {
		t.Error("validator must not run when the items root is missing")
	}
}

func TestRun_ZeroMatchInvoke(t *testing.T) {
	cfg := configFor(itemsTree(t))
	cfg.ZeroMatch = config.ZeroMatchInvoke
	h := newHarness(t, cfg, &recordingRunner{code: 2})

	if code := run(context.Background(), h.app, nil); code != 2 {
		t.Errorf("exit code = %d, want 2", code)
	}
	if len(h.runner.calls) != 1 {
		t.Fatalf("validator ran %d times, want 1", len(h.runner.calls))
	}
	want := []string{"validator", "--schemafile", "schemas/pet_item.schema.json"}
	if got := h.runner.calls[0].Argv(); !slices.Equal(got, want) {
		t.Errorf("argv = %v, want %v", got, want)
	}
}

func TestRun_DryRun(t *testing.T) {
	root := itemsTree(t, "items/Pet/1.img/img.json")
	h := newHarness(t, configFor(root), &recordingRunner{})

	if code := run(context.Background(), h.app, []string{"--dry-run"}); code != 0 {
		t.Fatalf("exit code = %d, want 0; stderr: %s", code, h.stderr.String())
	}
	if len(h.runner.calls) != 0 {
		t.Error("dry run must not start the validator")
	}
	out := h.stdout.String()
	for _, want := range []string{"validator", "--schemafile", "schemas/pet_item.schema.json", "img.json"} {
		if !strings.Contains(out, want) {
			t.Errorf("stdout = %q, missing %q", out, want)
		}
	}
}

func TestRun_ValidatorNotFound(t *testing.T) {
	root := itemsTree(t, "items/Pet/1.img/img.json")
	notFound := issue.NewErrorContext().
		WithOperation("run validator").
		WithResource("validator").
		WithSuggestion("Install check-jsonschema").
		WithIssue(issue.ValidatorNotFoundId).
		Wrap(errors.New("executable file not found in $PATH")).
		BuildError()
	h := newHarness(t, configFor(root), &recordingRunner{code: invoker.ExitFailure, err: notFound})

	if code := run(context.Background(), h.app, nil); code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}

	stderr := h.stderr.String()
	for _, want := range []string{"failed to run validator: validator", "Install check-jsonschema"} {
		if !strings.Contains(stderr, want) {
			t.Errorf("stderr missing %q:\n%s", want, stderr)
		}
	}
}

func TestRun_ConfigError(t *testing.T) {
	h := &harness{runner: &recordingRunner{}, stdout: &bytes.Buffer{}, stderr: &bytes.Buffer{}}
	h.app = NewApp(Dependencies{
		Config: stubConfig{err: errors.New("bad config")},
		Runner: h.runner,
		Stdout: h.stdout,
		Stderr: h.stderr,
	})

	if code := run(context.Background(), h.app, nil); code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if !strings.Contains(h.stderr.String(), "bad config") {
		t.Errorf("stderr = %q", h.stderr.String())
	}
	if len(h.runner.calls) != 0 {
		t.Error("validator must not run without configuration")
	}
}

func TestRun_RejectsPositionalArgs(t *testing.T) {
	h := newHarness(t, configFor(itemsTree(t)), &recordingRunner{})

	if code := run(context.Background(), h.app, []string{"items/Pet/1.img/img.json"}); code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
}

func TestList(t *testing.T) {
	root := itemsTree(t,
		"items/Pet/2.img/img.json",
		"items/Pet/10.img/img.json",
		"items/Pet/x.img/img.json",
	)
	h := newHarness(t, configFor(root), &recordingRunner{})

	if code := run(context.Background(), h.app, []string{"list"}); code != 0 {
		t.Fatalf("exit code = %d, stderr: %s", code, h.stderr.String())
	}

	want := filepath.Join(root, "items", "Pet", "10.img", "img.json") + "\n" +
		filepath.Join(root, "items", "Pet", "2.img", "img.json") + "\n"
	if h.stdout.String() != want {
		t.Errorf("stdout = %q, want %q", h.stdout.String(), want)
	}
	if len(h.runner.calls) != 0 {
		t.Error("list must not start the validator")
	}
}

func TestConfigShow(t *testing.T) {
	tests := []struct {
		format string
		want   []string
	}{
		{format: "cue", want: []string{"validator:", `"check-jsonschema"`, "zero_match:"}},
		{format: "toml", want: []string{"validator = ", "check-jsonschema", "[ui]"}},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			h := newHarness(t, config.DefaultConfig(), &recordingRunner{})

			if code := run(context.Background(), h.app, []string{"config", "show", "--format", tt.format}); code != 0 {
				t.Fatalf("exit code = %d, stderr: %s", code, h.stderr.String())
			}
			for _, w := range tt.want {
				if !strings.Contains(h.stdout.String(), w) {
					t.Errorf("stdout missing %q:\n%s", w, h.stdout.String())
				}
			}
			if !strings.Contains(h.stderr.String(), "using defaults") {
				t.Errorf("stderr should name the config source: %s", h.stderr.String())
			}
		})
	}
}

func TestConfigShow_UnknownFormat(t *testing.T) {
	h := newHarness(t, config.DefaultConfig(), &recordingRunner{})

	if code := run(context.Background(), h.app, []string{"config", "show", "--format", "yaml"}); code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
}

func TestFormatErrorForDisplay(t *testing.T) {
	t.Parallel()

	plain := errors.New("plain")
	if got := formatErrorForDisplay(plain, true); got != "plain" {
		t.Errorf("formatErrorForDisplay(plain) = %q", got)
	}

	ae := issue.NewErrorContext().
		WithOperation("load configuration").
		WithSuggestion("Fix it").
		Wrap(plain).
		Build()
	got := formatErrorForDisplay(ae, false)
	if !strings.Contains(got, "failed to load configuration: plain") || !strings.Contains(got, "Fix it") {
		t.Errorf("formatErrorForDisplay(actionable) = %q", got)
	}
	if strings.Contains(got, "Error chain") {
		t.Error("non-verbose output should not include the error chain")
	}
	if !strings.Contains(formatErrorForDisplay(ae, true), "Error chain") {
		t.Error("verbose output should include the error chain")
	}
}

func TestExitError(t *testing.T) {
	t.Parallel()

	if got := (&ExitError{Code: 3}).Error(); got != "exit status 3" {
		t.Errorf("Error() = %q", got)
	}

	cause := errors.New("boom")
	err := &ExitError{Code: 1, Err: cause}
	if !errors.Is(err, cause) || err.Error() != "boom" {
		t.Errorf("ExitError should wrap its cause, got %v", err)
	}
}
