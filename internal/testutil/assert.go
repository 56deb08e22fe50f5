package testutil

import (
	"os"
	"strings"
	"testing"
)

// AssertErrorContains fails if err is nil or doesn't contain substring.
func AssertErrorContains(t *testing.T, err error, substring string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error containing %q, got nil", substring)
	}
	if !strings.Contains(err.Error(), substring) {
		t.Fatalf("expected error containing %q, got: %v", substring, err)
	}
}

// AssertPathExists fails if path doesn't exist. Works for files and directories.
func AssertPathExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Lstat(path); err != nil {
		if os.IsNotExist(err) {
			t.Fatalf("expected path %s to exist", path)
		}
		t.Fatalf("failed to stat path %s: %v", path, err)
	}
}

// AssertPathMissing fails if path exists.
func AssertPathMissing(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Lstat(path); err == nil {
		t.Fatalf("expected path %s to be absent", path)
	} else if !os.IsNotExist(err) {
		t.Fatalf("failed to stat path %s: %v", path, err)
	}
}

// AssertFileContent fails if file content, with surrounding whitespace
// trimmed, doesn't match expected.
func AssertFileContent(t *testing.T, path, expected string) {
	t.Helper()
	content, err := os.ReadFile(path) // nolint:gosec // Test helper with controlled input
	if err != nil {
		t.Fatalf("failed to read file %s: %v", path, err)
	}
	if got := strings.TrimSpace(string(content)); got != expected {
		t.Fatalf("file %s: expected %q, got %q", path, expected, got)
	}
}
