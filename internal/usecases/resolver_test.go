package usecases

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homecloud/internal/domain"
)

func TestPathResolver_ResolveDir(t *testing.T) {
	root := t.TempDir()
	r := NewPathResolver(root)
	sep := string(filepath.Separator)

	tests := []struct {
		name        string
		storagePath string
		want        string
		wantErr     error
	}{
		{name: "empty is root", storagePath: "", want: root + sep},
		{name: "nested", storagePath: "docs/2024", want: filepath.Join(root, "docs", "2024") + sep},
		{name: "trailing slash", storagePath: "docs/", want: filepath.Join(root, "docs") + sep},
		{name: "absolute is rooted", storagePath: "/docs", want: filepath.Join(root, "docs") + sep},
		{name: "dot dot inside root", storagePath: "docs/../pics", want: filepath.Join(root, "pics") + sep},
		{name: "escape", storagePath: "../etc", wantErr: domain.ErrPathTraversal},
		{name: "deep escape", storagePath: "docs/../../etc", wantErr: domain.ErrPathTraversal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.ResolveDir(tt.storagePath)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPathResolver_ResolveLeaf(t *testing.T) {
	root := t.TempDir()
	r := NewPathResolver(root)

	tests := []struct {
		name        string
		storagePath string
		leaf        string
		want        string
		wantErr     error
	}{
		{name: "plain", storagePath: "docs", leaf: "a.txt", want: filepath.Join(root, "docs", "a.txt")},
		{name: "root", storagePath: "", leaf: "a.txt", want: filepath.Join(root, "a.txt")},
		{name: "empty leaf", storagePath: "docs", leaf: "", wantErr: domain.ErrEmptyName},
		{name: "separator", storagePath: "", leaf: "a/b", wantErr: domain.ErrPathTraversal},
		{name: "parent", storagePath: "docs", leaf: "..", wantErr: domain.ErrInvalidName},
		{name: "current", storagePath: "docs", leaf: ".", wantErr: domain.ErrInvalidName},
		{name: "nul", storagePath: "", leaf: "a\x00b", wantErr: domain.ErrInvalidName},
		{name: "escaping storage path", storagePath: "..", leaf: "passwd", wantErr: domain.ErrPathTraversal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.ResolveLeaf(tt.storagePath, tt.leaf)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPathResolver_RelAndRoot(t *testing.T) {
	root := t.TempDir()
	r := NewPathResolver(root + string(filepath.Separator))

	assert.Equal(t, root, r.Root())
	assert.True(t, r.IsRoot(root))
	assert.True(t, r.IsRoot(root+string(filepath.Separator)))
	assert.False(t, r.IsRoot(filepath.Join(root, "docs")))
	assert.Equal(t, "docs/a.txt", r.Rel(filepath.Join(root, "docs", "a.txt")))

	abs, err := r.ResolveRelative("docs/a.txt")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "docs", "a.txt"), abs)
}
