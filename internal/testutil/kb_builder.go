package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// DirBuilder provides a fluent helper for populating a temporary directory
// with files in tests.
// Example:
//
//	dir := NewDirBuilder(t).File("a.md", "# A\nfoo\n").Build()
type DirBuilder struct {
	t   testing.TB
	dir string
}

// NewDirBuilder creates a builder rooted at a fresh t.TempDir().
func NewDirBuilder(t testing.TB) *DirBuilder {
	t.Helper()
	return &DirBuilder{t: t, dir: t.TempDir()}
}

// File writes name with content below the root (chainable). Parent
// directories are created as needed.
func (b *DirBuilder) File(name, content string) *DirBuilder {
	b.t.Helper()
	path := filepath.Join(b.dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		b.t.Fatalf("mkdir %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		b.t.Fatalf("write %s: %v", path, err)
	}
	return b
}

// Subdir creates an empty directory below the root (chainable).
func (b *DirBuilder) Subdir(name string) *DirBuilder {
	b.t.Helper()
	if err := os.MkdirAll(filepath.Join(b.dir, name), 0o755); err != nil {
		b.t.Fatalf("mkdir %s: %v", name, err)
	}
	return b
}

// Path returns the absolute path of name below the root.
func (b *DirBuilder) Path(name string) string { return filepath.Join(b.dir, name) }

// Build returns the root directory.
func (b *DirBuilder) Build() string { return b.dir }

// FixedClock returns a clock function that always reports t.
func FixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// Epoch is a stable timestamp for envelope assertions.
var Epoch = time.Date(2024, time.January, 2, 3, 4, 5, 0, time.UTC)
