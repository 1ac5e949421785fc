package app

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// FileHelper provides file operation utilities
type FileHelper struct{}

// NewFileHelper creates a new FileHelper
func NewFileHelper() *FileHelper {
	return &FileHelper{}
}

// IsDirectory reports whether p exists and is a directory
func (h *FileHelper) IsDirectory(p string) (bool, error) {
	info, err := os.Stat(p)
	if err != nil {
		return false, err
	}
	return info.IsDir(), nil
}

// FileExists checks if a regular file exists
func (h *FileHelper) FileExists(p string) (bool, error) {
	info, err := os.Stat(p)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return !info.IsDir(), nil
}

// IsSourceFile reports whether p has one of the given extensions
func (h *FileHelper) IsSourceFile(p string, extensions []string) bool {
	ext := strings.ToLower(filepath.Ext(p))
	for _, e := range extensions {
		if strings.ToLower(e) == ext {
			return true
		}
	}
	return false
}

// WriteOutputFile writes data to p, creating parent directories. The data is
// written to a temporary sibling first and renamed into place.
func (h *FileHelper) WriteOutputFile(p string, data []byte) error {
	if dir := filepath.Dir(p); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	tmp := p + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, p); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

// ResolveTarget converts a file argument into the slash-separated path
// relative to root used as node key. Relative arguments that exist on disk
// relative to the working directory are taken as such; anything else is
// interpreted relative to root.
func (h *FileHelper) ResolveTarget(root, target string) (string, error) {
	if target == "" {
		return "", fmt.Errorf("target file is required")
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", err
	}

	candidate := target
	if !filepath.IsAbs(candidate) {
		if exists, _ := h.FileExists(candidate); exists {
			candidate, err = filepath.Abs(candidate)
			if err != nil {
				return "", err
			}
		} else {
			candidate = filepath.Join(absRoot, candidate)
		}
	}

	rel, err := filepath.Rel(absRoot, candidate)
	if err != nil {
		return "", err
	}
	rel = filepath.ToSlash(rel)
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return "", fmt.Errorf("%s is outside of %s", target, root)
	}
	return path.Clean(rel), nil
}
