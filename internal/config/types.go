// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// ZeroMatchSkip exits successfully without invoking the validator when no
	// item file matches.
	ZeroMatchSkip ZeroMatchPolicy = "skip"
	// ZeroMatchInvoke runs the validator with no positional files.
	ZeroMatchInvoke ZeroMatchPolicy = "invoke"
)

var (
	// ErrInvalidZeroMatchPolicy is returned when a ZeroMatchPolicy value is not recognized.
	ErrInvalidZeroMatchPolicy = errors.New("invalid zero-match policy")
	// ErrInvalidItemKind is the sentinel error wrapped by InvalidItemKindError.
	ErrInvalidItemKind = errors.New("invalid item kind")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ZeroMatchPolicy decides what happens when the selector finds nothing.
	ZeroMatchPolicy string

	// InvalidZeroMatchPolicyError is returned when a ZeroMatchPolicy value is not recognized.
	// It wraps ErrInvalidZeroMatchPolicy for errors.Is() compatibility.
	InvalidZeroMatchPolicyError struct {
		Value ZeroMatchPolicy
	}

	// ItemKind is the literal directory under items/ that holds the
	// documents to validate (e.g. "Pet"). It is a single path segment.
	ItemKind string

	// InvalidItemKindError is returned when an ItemKind is empty or spans
	// more than one path segment.
	InvalidItemKindError struct {
		Value ItemKind
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// ItemsRoot is the directory that contains items/.
		ItemsRoot string `json:"items_root" toml:"items_root" mapstructure:"items_root"`
		// ItemKind is the literal items/<kind> directory.
		ItemKind ItemKind `json:"item_kind" toml:"item_kind" mapstructure:"item_kind"`
		// SchemaFile is passed to the validator as --schemafile, unchanged.
		SchemaFile string `json:"schema_file" toml:"schema_file" mapstructure:"schema_file"`
		// Validator is the validator command line, split with shell word rules.
		Validator string `json:"validator" toml:"validator" mapstructure:"validator"`
		// ZeroMatch decides what to do when nothing matches.
		ZeroMatch ZeroMatchPolicy `json:"zero_match" toml:"zero_match" mapstructure:"zero_match"`
		// SettingsFile holds the json.schemas associations used by `check`.
		SettingsFile string `json:"settings_file" toml:"settings_file" mapstructure:"settings_file"`
		// SharedSchema is served for every $ref that is not a local file.
		SharedSchema string `json:"shared_schema" toml:"shared_schema" mapstructure:"shared_schema"`
		// Concurrency bounds parallel validation in `check`; 0 means GOMAXPROCS.
		Concurrency int `json:"concurrency" toml:"concurrency" mapstructure:"concurrency"`
		// UI holds output preferences.
		UI UIConfig `json:"ui" toml:"ui" mapstructure:"ui"`

		// Source is the file the configuration was read from; empty when only
		// defaults and environment applied.
		Source string `json:"-" toml:"-" mapstructure:"-"`
	}

	// UIConfig configures output.
	UIConfig struct {
		// Verbose enables debug logging and full error chains.
		Verbose bool `json:"verbose" toml:"verbose" mapstructure:"verbose"`
	}
)

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		ItemsRoot:    ".",
		ItemKind:     "Pet",
		SchemaFile:   "schemas/pet_item.schema.json",
		Validator:    "check-jsonschema",
		ZeroMatch:    ZeroMatchSkip,
		SettingsFile: ".vscode/settings.json",
		SharedSchema: "schemas/shroom.schema.json",
		Concurrency:  0,
		UI: UIConfig{
			Verbose: false,
		},
	}
}

// String returns the string representation of the ZeroMatchPolicy.
func (p ZeroMatchPolicy) String() string { return string(p) }

// IsValid returns whether the ZeroMatchPolicy is one of the defined values.
func (p ZeroMatchPolicy) IsValid() (bool, []error) {
	switch p {
	case ZeroMatchSkip, ZeroMatchInvoke:
		return true, nil
	default:
		return false, []error{&InvalidZeroMatchPolicyError{Value: p}}
	}
}

// Error implements the error interface.
func (e *InvalidZeroMatchPolicyError) Error() string {
	return fmt.Sprintf("invalid zero-match policy %q (valid: skip, invoke)", e.Value)
}

// Unwrap returns ErrInvalidZeroMatchPolicy for errors.Is() compatibility.
func (e *InvalidZeroMatchPolicyError) Unwrap() error { return ErrInvalidZeroMatchPolicy }

// String returns the string representation of the ItemKind.
func (k ItemKind) String() string { return string(k) }

// IsValid returns whether the ItemKind is a single, non-blank path segment.
func (k ItemKind) IsValid() (bool, []error) {
	s := string(k)
	if strings.TrimSpace(s) == "" || s == "." || s == ".." || strings.ContainsAny(s, `/\`) {
		return false, []error{&InvalidItemKindError{Value: k}}
	}
	return true, nil
}

// Error implements the error interface.
func (e *InvalidItemKindError) Error() string {
	return fmt.Sprintf("invalid item kind %q: must be a single directory name", e.Value)
}

// Unwrap returns ErrInvalidItemKind for errors.Is() compatibility.
func (e *InvalidItemKindError) Unwrap() error { return ErrInvalidItemKind }

// IsValid returns whether all fields of the Config are valid.
// Values coming from the environment bypass the CUE schema, so the checks
// here repeat the important ones.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.ItemKind.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.ZeroMatch.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if strings.TrimSpace(c.SchemaFile) == "" {
		errs = append(errs, errors.New("schema_file must not be empty"))
	}
	if strings.TrimSpace(c.Validator) == "" {
		errs = append(errs, errors.New("validator must not be empty"))
	}
	if c.Concurrency < 0 {
		errs = append(errs, fmt.Errorf("concurrency must be >= 0, got %d", c.Concurrency))
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, 0, len(e.FieldErrors))
	for _, err := range e.FieldErrors {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("invalid config: %s", strings.Join(msgs, "; "))
}

// Unwrap returns ErrInvalidConfig and the field errors for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}
