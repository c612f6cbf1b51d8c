package domain

import (
	"fmt"
	"path/filepath"
	"strings"
)

// RootedPath is a request-scoped path made of the configured root, a client
// supplied storage path relative to it and an optional leaf name.
type RootedPath struct {
	Root        string
	StoragePath string
	Leaf        string
}

// Abs joins and cleans the parts and checks that the result stays under Root.
func (p RootedPath) Abs() (string, error) {
	root := filepath.Clean(p.Root)
	full := filepath.Join(root, filepath.FromSlash(p.StoragePath), filepath.FromSlash(p.Leaf))
	if !Contains(root, full) {
		return PathEmpty, fmt.Errorf("'%s' escapes the root: %w", filepath.Join(p.StoragePath, p.Leaf), ErrPathTraversal)
	}
	return full, nil
}

func (p RootedPath) IsRoot() bool {
	full, err := p.Abs()
	return err == nil && full == filepath.Clean(p.Root)
}

// Contains reports whether the cleaned path is root or lies below it.
func Contains(root, path string) bool {
	root = filepath.Clean(root)
	path = filepath.Clean(path)
	if path == root {
		return true
	}
	prefix := root
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	return strings.HasPrefix(path, prefix)
}
