// SPDX-License-Identifier: MPL-2.0

package schemacheck

import (
	"cmp"
	"fmt"
	"io"
	"slices"
)

type (
	// Finding is one validation error for one file. Location is a JSON
	// pointer into the document; it is empty when the file could not be read
	// or decoded.
	Finding struct {
		File     string
		Location string
		Message  string
	}

	// SchemaResult holds the outcome for one association.
	SchemaResult struct {
		URL      string
		Files    int
		Findings []Finding
	}

	// Report is the outcome of a Check, one entry per association in input order.
	Report struct {
		Schemas []SchemaResult
	}
)

// String formats the finding as `"<file>" - <location>: <message>`.
func (f Finding) String() string {
	if f.Location == "" {
		return fmt.Sprintf("%q - %s", f.File, f.Message)
	}
	return fmt.Sprintf("%q - %s: %s", f.File, f.Location, f.Message)
}

// FindingCount returns the number of findings across all schemas.
func (r *Report) FindingCount() int {
	n := 0
	for _, s := range r.Schemas {
		n += len(s.Findings)
	}
	return n
}

// FileCount returns the number of files checked across all schemas.
func (r *Report) FileCount() int {
	n := 0
	for _, s := range r.Schemas {
		n += s.Files
	}
	return n
}

// HasFindings reports whether any file failed validation.
func (r *Report) HasFindings() bool {
	return r.FindingCount() > 0
}

// WriteTo prints "Checking <url>" for each schema followed by its findings.
func (r *Report) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, s := range r.Schemas {
		n, err := fmt.Fprintf(w, "Checking %s\n", s.URL)
		total += int64(n)
		if err != nil {
			return total, err
		}
		for _, f := range s.Findings {
			n, err := fmt.Fprintln(w, f.String())
			total += int64(n)
			if err != nil {
				return total, err
			}
		}
	}
	return total, nil
}

func sortFindings(findings []Finding) {
	slices.SortFunc(findings, func(a, b Finding) int {
		return cmp.Or(
			cmp.Compare(a.File, b.File),
			cmp.Compare(a.Location, b.Location),
			cmp.Compare(a.Message, b.Message),
		)
	})
}
