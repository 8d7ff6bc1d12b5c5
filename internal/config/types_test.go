// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"testing"
)

func TestZeroMatchPolicy_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		policy ZeroMatchPolicy
		want   bool
	}{
		{ZeroMatchSkip, true},
		{ZeroMatchInvoke, true},
		{"", false},
		{"SKIP", false},
		{"fail", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.policy), func(t *testing.T) {
			t.Parallel()
			isValid, errs := tt.policy.IsValid()
			if isValid != tt.want {
				t.Errorf("ZeroMatchPolicy(%q).IsValid() = %v, want %v", tt.policy, isValid, tt.want)
			}
			if !tt.want {
				if len(errs) == 0 {
					t.Fatalf("ZeroMatchPolicy(%q).IsValid() returned no errors", tt.policy)
				}
				if !errors.Is(errs[0], ErrInvalidZeroMatchPolicy) {
					t.Errorf("error should wrap ErrInvalidZeroMatchPolicy, got: %v", errs[0])
				}
			}
		})
	}
}

func TestItemKind_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind ItemKind
		want bool
	}{
		{"Pet", true},
		{"Consume", true},
		{"", false},
		{"  ", false},
		{".", false},
		{"..", false},
		{"Pet/Sub", false},
		{`Pet\Sub`, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			t.Parallel()
			isValid, errs := tt.kind.IsValid()
			if isValid != tt.want {
				t.Errorf("ItemKind(%q).IsValid() = %v, want %v", tt.kind, isValid, tt.want)
			}
			if !tt.want && !errors.Is(errs[0], ErrInvalidItemKind) {
				t.Errorf("error should wrap ErrInvalidItemKind, got: %v", errs[0])
			}
		})
	}
}

func TestConfig_IsValid(t *testing.T) {
	t.Parallel()

	if valid, errs := DefaultConfig().IsValid(); !valid {
		t.Fatalf("DefaultConfig() should be valid, got %v", errs)
	}

	cfg := DefaultConfig()
	cfg.Validator = "  "
	cfg.Concurrency = -2
	cfg.ZeroMatch = "never"

	valid, errs := cfg.IsValid()
	if valid {
		t.Fatal("expected invalid config")
	}
	if !errors.Is(errs[0], ErrInvalidConfig) {
		t.Errorf("error should wrap ErrInvalidConfig, got: %v", errs[0])
	}

	var cfgErr *InvalidConfigError
	if !errors.As(errs[0], &cfgErr) {
		t.Fatalf("error should be *InvalidConfigError, got %T", errs[0])
	}
	if len(cfgErr.FieldErrors) != 3 {
		t.Errorf("expected 3 field errors, got %d: %v", len(cfgErr.FieldErrors), cfgErr.FieldErrors)
	}
}
