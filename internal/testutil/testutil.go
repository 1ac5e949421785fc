// Package testutil provides helper functions for testing depscope components
package testutil

import (
	"os"
	"path"
	"path/filepath"
	"testing"
	"time"

	"github.com/ludo-technologies/depscope/domain"
)

// FixedTime is the timestamp returned by FixedClock
var FixedTime = time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

// FixedClock returns FixedTime on every call
func FixedClock() time.Time {
	return FixedTime
}

// File builds a project file descriptor with the given local imports
func File(filePath string, kind domain.FileKind, localImports ...string) domain.ProjectFile {
	if localImports == nil {
		localImports = []string{}
	}
	return domain.ProjectFile{
		Name: path.Base(filePath),
		Path: filePath,
		Analysis: domain.FileAnalysis{
			FileName:        path.Base(filePath),
			FullPath:        filePath,
			FileType:        kind,
			LocalImports:    localImports,
			ExternalImports: []string{},
		},
	}
}

// Structure groups descriptors by directory, keeping argument order per directory
func Structure(files ...domain.ProjectFile) domain.FileStructure {
	fs := domain.FileStructure{}
	for _, f := range files {
		dir := path.Dir(f.Path)
		fs[dir] = append(fs[dir], f)
	}
	return fs
}

// Records builds file records in argument order
func Records(files ...domain.ProjectFile) []domain.FileRecord {
	out := make([]domain.FileRecord, len(files))
	for i, f := range files {
		out[i] = f.Record()
	}
	return out
}

// WriteProject writes files (slash-separated relative path -> content) under
// a temporary directory and returns its path
func WriteProject(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		full := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatalf("Failed to create directory for %s: %v", rel, err)
		}
		if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
			t.Fatalf("Failed to write %s: %v", rel, err)
		}
	}
	return root
}

// AssertNoError fails the test if err is not nil
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("Expected error but got nil")
	}
}

// AssertEqual fails the test if expected != actual
func AssertEqual(t *testing.T, expected, actual any) {
	t.Helper()
	if expected != actual {
		t.Errorf("Expected %v, got %v", expected, actual)
	}
}

// AssertTrue fails the test if condition is false
func AssertTrue(t *testing.T, condition bool, msg string) {
	t.Helper()
	if !condition {
		t.Error(msg)
	}
}

// AssertFalse fails the test if condition is true
func AssertFalse(t *testing.T, condition bool, msg string) {
	t.Helper()
	if condition {
		t.Error(msg)
	}
}

// AssertStrings fails the test unless both slices hold the same values in order
func AssertStrings(t *testing.T, expected, actual []string) {
	t.Helper()
	if len(expected) != len(actual) {
		t.Errorf("Expected %v, got %v", expected, actual)
		return
	}
	for i := range expected {
		if expected[i] != actual[i] {
			t.Errorf("Expected %v, got %v", expected, actual)
			return
		}
	}
}
