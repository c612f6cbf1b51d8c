package usecases

import (
	"fmt"
	"path/filepath"
	"strings"

	"homecloud/internal/domain"
)

// PathResolver turns request level names into absolute paths under root.
// Every path it hands out has passed the traversal guard.
type PathResolver struct {
	root string
}

func NewPathResolver(root string) *PathResolver {
	return &PathResolver{root: filepath.Clean(root)}
}

func (r *PathResolver) Root() string {
	return r.root
}

// ResolveDir returns the directory named by storagePath with a trailing
// separator, ready for a leaf name to be appended.
func (r *PathResolver) ResolveDir(storagePath string) (string, error) {
	abs, err := domain.RootedPath{Root: r.root, StoragePath: storagePath}.Abs()
	if err != nil {
		return domain.PathEmpty, err
	}
	if !strings.HasSuffix(abs, string(filepath.Separator)) {
		abs += string(filepath.Separator)
	}
	return abs, nil
}

func (r *PathResolver) ResolveLeaf(storagePath, leaf string) (string, error) {
	if err := validateLeaf(leaf); err != nil {
		return domain.PathEmpty, err
	}
	return domain.RootedPath{Root: r.root, StoragePath: storagePath, Leaf: leaf}.Abs()
}

func (r *PathResolver) ResolveRelative(relPath string) (string, error) {
	return domain.RootedPath{Root: r.root, StoragePath: relPath}.Abs()
}

func (r *PathResolver) IsRoot(abs string) bool {
	return filepath.Clean(abs) == r.root
}

// Rel для сообщений и имен в архиве.
func (r *PathResolver) Rel(abs string) string {
	rel, err := filepath.Rel(r.root, abs)
	if err != nil {
		return filepath.Base(abs)
	}
	return filepath.ToSlash(rel)
}

func validateLeaf(leaf string) error {
	switch {
	case leaf == domain.PathEmpty:
		return domain.ErrEmptyName
	case strings.ContainsRune(leaf, '/') || strings.ContainsRune(leaf, filepath.Separator):
		return fmt.Errorf("name '%s' contains a path separator: %w", leaf, domain.ErrPathTraversal)
	case leaf == domain.PathCurrent || leaf == domain.PathParent:
		return fmt.Errorf("name '%s': %w", leaf, domain.ErrInvalidName)
	case strings.ContainsRune(leaf, 0):
		return fmt.Errorf("name contains NUL: %w", domain.ErrInvalidName)
	}
	return nil
}
