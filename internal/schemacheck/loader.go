// SPDX-License-Identifier: MPL-2.0

package schemacheck

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// workspaceScheme addresses documents inside the workspace fs.FS.
const workspaceScheme = "workspace"

// workspaceLoader serves workspace:///<path> URLs from an fs.FS and answers
// every other URL with the shared schema.
type workspaceLoader struct {
	fsys   fs.FS
	shared any
}

func (l *workspaceLoader) Load(rawURL string) (any, error) {
	u, err := url.Parse(rawURL)
	if err == nil && u.Scheme == workspaceScheme {
		doc, err := loadJSON(l.fsys, strings.TrimPrefix(u.Path, "/"))
		if err == nil {
			return doc, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	if l.shared == nil {
		return nil, fmt.Errorf("no shared schema to resolve %s", rawURL)
	}
	return l.shared, nil
}

// schemaURL turns a workspace-relative schema path such as
// "./schemas/pet_item.schema.json" into a workspace URL.
func schemaURL(p string) string {
	return workspaceScheme + ":///" + workspacePath(p)
}

// workspacePath normalizes a settings path to an fs.FS name.
func workspacePath(p string) string {
	p = path.Clean(filepath.ToSlash(p))
	return strings.TrimLeft(strings.TrimPrefix(p, "./"), "/")
}

func loadJSON(fsys fs.FS, name string) (any, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	doc, err := jsonschema.UnmarshalJSON(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return doc, nil
}
