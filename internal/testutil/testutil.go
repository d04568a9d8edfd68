// Package testutil provides helpers for tests that run host commands.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// WriteStub writes an executable shell stub that exits successfully.
func WriteStub(t *testing.T, dir string, name string) {
	t.Helper()
	WriteStubWithOutput(t, dir, name, "", 0)
}

// WriteStubWithExit writes an executable shell stub that exits with exitCode.
func WriteStubWithExit(t *testing.T, dir string, name string, exitCode int) {
	t.Helper()
	WriteStubWithOutput(t, dir, name, "", exitCode)
}

// WriteStubWithOutput writes an executable shell stub that prints stdout and
// exits with exitCode. Non-zero exits also print a diagnostic on stderr.
func WriteStubWithOutput(t *testing.T, dir string, name string, stdout string, exitCode int) {
	t.Helper()
	var script strings.Builder
	script.WriteString("#!/bin/sh\n")
	if stdout != "" {
		fmt.Fprintf(&script, "printf '%%s' '%s'\n", strings.ReplaceAll(stdout, "'", `'\''`))
	}
	if exitCode != 0 {
		fmt.Fprintf(&script, "echo '%s: failed' >&2\n", name)
	}
	fmt.Fprintf(&script, "exit %d\n", exitCode)
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(script.String()), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
}

// PrependPath puts dir first on PATH for the duration of the test.
func PrependPath(t *testing.T, dir string) {
	t.Helper()
	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))
}

// BoolPtr returns a pointer to v.
func BoolPtr(v bool) *bool {
	return &v
}
