// SPDX-License-Identifier: MPL-2.0

package selector

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

const (
	// DefaultItemsDir is the top-level directory of a data dump.
	DefaultItemsDir = "items"
	// DefaultItemFile is the document name inside every <id>.img directory.
	DefaultItemFile = "img.json"
)

var itemDirRe = regexp.MustCompile(`^[0-9]+\.img$`)

// ErrInvalidPattern is returned when a Pattern cannot select anything.
var ErrInvalidPattern = errors.New("invalid pattern")

// Pattern describes which item documents to select:
// <Dir>/<Kind>/<digits>.img/<File>.
type Pattern struct {
	Dir  string
	Kind string
	File string
}

// ItemPattern returns the pattern for items/<kind>/<digits>.img/img.json.
func ItemPattern(kind string) Pattern {
	return Pattern{Dir: DefaultItemsDir, Kind: kind, File: DefaultItemFile}
}

// Validate reports whether every segment is a single literal path element.
func (p Pattern) Validate() error {
	segments := []struct{ name, value string }{
		{"dir", p.Dir},
		{"kind", p.Kind},
		{"file", p.File},
	}
	for _, seg := range segments {
		v := seg.value
		if v == "" || v == "." || v == ".." || strings.ContainsAny(v, `/\`) {
			return fmt.Errorf("%w: %s %q must be a single path element", ErrInvalidPattern, seg.name, v)
		}
	}
	return nil
}

// Glob returns the doublestar pattern that over-approximates p; Match
// narrows its results down to numeric ids.
func (p Pattern) Glob() string {
	return path.Join(escape(p.Dir), escape(p.Kind), "*.img", escape(p.File))
}

// Match reports whether the slash-separated relative path rel is selected by p.
func (p Pattern) Match(rel string) bool {
	parts := strings.Split(rel, "/")
	return len(parts) == 4 &&
		parts[0] == p.Dir &&
		parts[1] == p.Kind &&
		itemDirRe.MatchString(parts[2]) &&
		parts[3] == p.File
}

// String returns a human-readable form of the pattern.
func (p Pattern) String() string {
	return path.Join(p.Dir, p.Kind, "[0-9]+.img", p.File)
}

// SelectItems returns the regular files in fsys matched by p, using the
// host path separator. A missing items directory yields no matches and no
// error.
func SelectItems(fsys fs.FS, p Pattern) ([]string, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	candidates, err := glob(fsys, p.Glob())
	if err != nil {
		return nil, err
	}

	var matches []string
	for _, c := range candidates {
		if p.Match(c) {
			matches = append(matches, filepath.FromSlash(c))
		}
	}
	return matches, nil
}

// Glob returns the regular files in fsys matching a doublestar pattern
// (`**` crosses directories). Leading "./" and "/" are treated as the root of
// fsys, the way editors anchor fileMatch patterns to the workspace.
func Glob(fsys fs.FS, pattern string) ([]string, error) {
	pattern = strings.TrimPrefix(filepath.ToSlash(pattern), "./")
	pattern = strings.TrimLeft(pattern, "/")
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPattern, pattern)
	}

	matches, err := glob(fsys, pattern)
	if err != nil {
		return nil, err
	}
	for i, m := range matches {
		matches[i] = filepath.FromSlash(m)
	}
	return matches, nil
}

func glob(fsys fs.FS, pattern string) ([]string, error) {
	matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("glob %q: %w", pattern, err)
	}
	return matches, nil
}

// escape quotes doublestar meta characters so a literal segment matches itself.
func escape(seg string) string {
	var b strings.Builder
	for _, r := range seg {
		if strings.ContainsRune(`*?[]{}\`, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
