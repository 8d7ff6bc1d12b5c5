// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// FakeValidator writes an executable POSIX shell script named name into dir
// and returns its path. body is the script after the shebang line.
// Tests calling it are skipped on Windows.
func FakeValidator(t testing.TB, dir, name, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake validators are POSIX shell scripts")
	}

	path := filepath.Join(dir, name)
	MustMkdirAll(t, dir, 0o755)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755); err != nil {
		t.Fatalf("failed to write fake validator %s: %v", path, err)
	}
	return path
}
