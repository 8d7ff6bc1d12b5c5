// SPDX-License-Identifier: MPL-2.0

package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/shroomkit/wzschema/internal/issue"
)

// DefaultPath is the settings file location relative to the workspace root.
const DefaultPath = ".vscode/settings.json"

var (
	// ErrNoFileMatch is returned when an association has no fileMatch globs.
	ErrNoFileMatch = errors.New("association has no fileMatch")
	// ErrNoURL is returned when an association has an empty url.
	ErrNoURL = errors.New("association has no url")
)

type (
	// Association maps file globs to a schema.
	Association struct {
		FileMatch []string `json:"fileMatch"`
		URL       string   `json:"url"`
	}

	// AssociationError reports an invalid entry in json.schemas.
	AssociationError struct {
		Index int
		Err   error
	}

	document struct {
		Schemas []Association `json:"json.schemas"`
	}
)

func (e *AssociationError) Error() string {
	return fmt.Sprintf("json.schemas[%d]: %v", e.Index, e.Err)
}

func (e *AssociationError) Unwrap() error { return e.Err }

// Pattern returns the glob used to select files. Only the first fileMatch
// entry is honored.
func (a Association) Pattern() string {
	if len(a.FileMatch) == 0 {
		return ""
	}
	return a.FileMatch[0]
}

// Validate reports whether the association can be checked.
func (a Association) Validate() error {
	if a.Pattern() == "" {
		return ErrNoFileMatch
	}
	if strings.TrimSpace(a.URL) == "" {
		return ErrNoURL
	}
	return nil
}

// Load reads the associations from the settings file at path.
func Load(path string) ([]Association, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		ctx := issue.NewErrorContext().
			WithOperation("read workspace settings").
			WithResource(path).
			Wrap(err)
		if errors.Is(err, fs.ErrNotExist) {
			ctx = ctx.
				WithSuggestion("Run from the workspace root or set 'settings_file' in wzschema.cue").
				WithIssue(issue.SettingsNotFoundId)
		}
		return nil, ctx.BuildError()
	}

	assocs, err := Parse(data)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("parse workspace settings").
			WithResource(path).
			WithSuggestion(`Make sure "json.schemas" is an array of {"fileMatch": [...], "url": "..."}`).
			Wrap(err).
			BuildError()
	}
	return assocs, nil
}

// Parse decodes the json.schemas array from settings file contents.
func Parse(data []byte) ([]Association, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode settings: %w", err)
	}

	var errs []error
	for i, a := range doc.Schemas {
		if err := a.Validate(); err != nil {
			errs = append(errs, &AssociationError{Index: i, Err: err})
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return doc.Schemas, nil
}

// Filter keeps the associations whose URL contains substr, preserving order.
// An empty substr keeps everything.
func Filter(assocs []Association, substr string) []Association {
	if substr == "" {
		return assocs
	}
	var kept []Association
	for _, a := range assocs {
		if strings.Contains(a.URL, substr) {
			kept = append(kept, a)
		}
	}
	return kept
}
