package domain

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootedPath_Abs(t *testing.T) {
	root := filepath.FromSlash("/srv/home")

	tests := []struct {
		name    string
		path    RootedPath
		want    string
		wantErr error
	}{
		{"empty storage path", RootedPath{Root: root}, root, nil},
		{"leaf only", RootedPath{Root: root, Leaf: "a.txt"}, filepath.Join(root, "a.txt"), nil},
		{"nested", RootedPath{Root: root, StoragePath: "docs/2024", Leaf: "a.txt"}, filepath.Join(root, "docs", "2024", "a.txt"), nil},
		{"trailing and duplicate separators", RootedPath{Root: root, StoragePath: "docs//2024/"}, filepath.Join(root, "docs", "2024"), nil},
		{"absolute storage path stays under root", RootedPath{Root: root, StoragePath: "/etc"}, filepath.Join(root, "etc"), nil},
		{"dot dot inside root", RootedPath{Root: root, StoragePath: "a/../b"}, filepath.Join(root, "b"), nil},
		{"escape", RootedPath{Root: root, StoragePath: "../../etc", Leaf: "passwd"}, "", ErrPathTraversal},
		{"sibling prefix", RootedPath{Root: root, StoragePath: "../home2"}, "", ErrPathTraversal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.path.Abs()
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr))
				assert.Empty(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRootedPath_IsRoot(t *testing.T) {
	assert.True(t, RootedPath{Root: "/srv/home"}.IsRoot())
	assert.True(t, RootedPath{Root: "/srv/home", StoragePath: "a/.."}.IsRoot())
	assert.False(t, RootedPath{Root: "/srv/home", StoragePath: "a"}.IsRoot())
}

func TestContains(t *testing.T) {
	assert.True(t, Contains("/srv/home", "/srv/home"))
	assert.True(t, Contains("/srv/home/", "/srv/home/x"))
	assert.True(t, Contains("/", "/anything"))
	assert.False(t, Contains("/srv/home", "/srv/homework"))
	assert.False(t, Contains("/srv/home", "/srv"))
}
