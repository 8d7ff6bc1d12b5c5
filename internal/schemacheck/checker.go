// SPDX-License-Identifier: MPL-2.0

package schemacheck

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/shroomkit/wzschema/internal/issue"
	"github.com/shroomkit/wzschema/internal/selector"
	"github.com/shroomkit/wzschema/internal/settings"
)

// DefaultSharedSchema is the document non-local $refs resolve to.
const DefaultSharedSchema = "schemas/shroom.schema.json"

// Checker validates the files of each association against its schema.
type Checker struct {
	// FS is the workspace root. Schema URLs, the shared schema and fileMatch
	// globs are all relative to it.
	FS fs.FS
	// SharedSchema is the workspace path of the shared schema. Empty disables
	// shared resolution, so non-local $refs fail to compile.
	SharedSchema string
	// Draft is used for schemas without $schema; Draft7 when nil.
	Draft *jsonschema.Draft
	// Concurrency bounds the files validated at once; GOMAXPROCS when <= 0.
	Concurrency int
}

// Check validates every association in order.
func (c *Checker) Check(ctx context.Context, assocs []settings.Association) (*Report, error) {
	shared, err := c.loadShared()
	if err != nil {
		return nil, err
	}

	report := &Report{}
	for _, a := range assocs {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		result, err := c.checkAssociation(ctx, a, shared)
		if err != nil {
			return report, err
		}
		report.Schemas = append(report.Schemas, result)
	}
	return report, nil
}

func (c *Checker) loadShared() (any, error) {
	if c.SharedSchema == "" {
		return nil, nil
	}
	doc, err := loadJSON(c.FS, workspacePath(c.SharedSchema))
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("load shared schema").
			WithResource(c.SharedSchema).
			WithSuggestion("Set 'shared_schema' in wzschema.cue to the schema non-local $refs point to").
			WithIssue(issue.SchemaCompileFailedId).
			Wrap(err).
			BuildError()
	}
	return doc, nil
}

func (c *Checker) compile(a settings.Association, shared any) (*jsonschema.Schema, error) {
	schema, err := c.compileSchema(a.URL, shared)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("compile schema").
			WithResource(a.URL).
			WithSuggestion("Check that the schema file exists and is valid JSON Schema").
			WithIssue(issue.SchemaCompileFailedId).
			Wrap(err).
			BuildError()
	}
	return schema, nil
}

func (c *Checker) compileSchema(schemaPath string, shared any) (*jsonschema.Schema, error) {
	// The loader falls back to the shared schema, so a missing root schema
	// has to be caught here.
	if _, err := fs.Stat(c.FS, workspacePath(schemaPath)); err != nil {
		return nil, err
	}

	draft := c.Draft
	if draft == nil {
		draft = jsonschema.Draft7
	}

	compiler := jsonschema.NewCompiler()
	compiler.DefaultDraft(draft)
	compiler.UseLoader(&workspaceLoader{fsys: c.FS, shared: shared})
	return compiler.Compile(schemaURL(schemaPath))
}

func (c *Checker) checkAssociation(ctx context.Context, a settings.Association, shared any) (SchemaResult, error) {
	result := SchemaResult{URL: a.URL}

	if err := a.Validate(); err != nil {
		return result, fmt.Errorf("%s: %w", a.URL, err)
	}

	schema, err := c.compile(a, shared)
	if err != nil {
		return result, err
	}

	files, err := selector.Glob(c.FS, a.Pattern())
	if err != nil {
		return result, err
	}
	result.Files = len(files)

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.limit())
	for _, file := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			findings := c.validateFile(schema, file)
			if len(findings) == 0 {
				return nil
			}
			mu.Lock()
			result.Findings = append(result.Findings, findings...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return result, err
	}

	sortFindings(result.Findings)
	return result, nil
}

func (c *Checker) limit() int {
	if c.Concurrency > 0 {
		return c.Concurrency
	}
	return runtime.GOMAXPROCS(0)
}

// validateFile never fails: unreadable or malformed documents become findings.
func (c *Checker) validateFile(schema *jsonschema.Schema, file string) []Finding {
	data, err := fs.ReadFile(c.FS, filepath.ToSlash(file))
	if err != nil {
		return []Finding{{File: file, Message: err.Error()}}
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return []Finding{{File: file, Message: "invalid JSON: " + err.Error()}}
	}

	err = schema.Validate(doc)
	if err == nil {
		return nil
	}

	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return []Finding{{File: file, Message: err.Error()}}
	}

	printer := message.NewPrinter(language.English)
	var findings []Finding
	for _, leaf := range leaves(verr) {
		msg := leaf.Error()
		if leaf.ErrorKind != nil {
			msg = leaf.ErrorKind.LocalizedString(printer)
		}
		findings = append(findings, Finding{
			File:     file,
			Location: pointer(leaf.InstanceLocation),
			Message:  msg,
		})
	}
	return findings
}

// leaves returns the causes that have no causes of their own.
func leaves(e *jsonschema.ValidationError) []*jsonschema.ValidationError {
	if len(e.Causes) == 0 {
		return []*jsonschema.ValidationError{e}
	}
	var out []*jsonschema.ValidationError
	for _, cause := range e.Causes {
		out = append(out, leaves(cause)...)
	}
	return out
}

// pointer renders an instance location as a JSON pointer.
func pointer(tokens []string) string {
	var b strings.Builder
	for _, t := range tokens {
		b.WriteByte('/')
		t = strings.ReplaceAll(t, "~", "~0")
		b.WriteString(strings.ReplaceAll(t, "/", "~1"))
	}
	if b.Len() == 0 {
		return "/"
	}
	return b.String()
}
