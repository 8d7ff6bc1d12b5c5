// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"path/filepath"
	"runtime"
	"testing"
)

// SetConfigHome points the platform's user configuration directory at dir
// and returns a cleanup function restoring the previous value. The wzschema
// config directory is then dir/wzschema (Library/Application Support/wzschema
// below dir on macOS).
//
// Platform handling:
//   - Windows: Sets APPDATA
//   - macOS: Sets HOME
//   - Linux/others: Sets XDG_CONFIG_HOME
func SetConfigHome(t testing.TB, dir string) func() {
	t.Helper()

	switch runtime.GOOS {
	case "windows":
		return MustSetenv(t, "APPDATA", dir)
	case "darwin":
		return MustSetenv(t, "HOME", dir)
	default:
		return MustSetenv(t, "XDG_CONFIG_HOME", dir)
	}
}

// UserConfigDir returns the wzschema config directory SetConfigHome(t, dir)
// makes the loader use.
func UserConfigDir(dir string) string {
	if runtime.GOOS == "darwin" {
		return filepath.Join(dir, "Library", "Application Support", "wzschema")
	}
	return filepath.Join(dir, "wzschema")
}
