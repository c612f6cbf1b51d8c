package usecases

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"homecloud/internal/adapters/localstorage"
	"homecloud/internal/domain"
)

// mockFileStorage wraps a real storage and lets a test override single calls.
type mockFileStorage struct {
	domain.FileStorage

	createFileFunc func(path string, body io.Reader) (int64, error)
	copyFileFunc   func(src, dst string, overwrite bool) error
	moveFunc       func(src, dst string) error
	moveFileFunc   func(src, dst string) error
}

func (m *mockFileStorage) CreateFile(path string, body io.Reader) (int64, error) {
	if m.createFileFunc != nil {
		return m.createFileFunc(path, body)
	}
	return m.FileStorage.CreateFile(path, body)
}

func (m *mockFileStorage) CopyFile(src, dst string, overwrite bool) error {
	if m.copyFileFunc != nil {
		return m.copyFileFunc(src, dst, overwrite)
	}
	return m.FileStorage.CopyFile(src, dst, overwrite)
}

func (m *mockFileStorage) Move(src, dst string) error {
	if m.moveFunc != nil {
		return m.moveFunc(src, dst)
	}
	return m.FileStorage.Move(src, dst)
}

func (m *mockFileStorage) MoveFile(src, dst string) error {
	if m.moveFileFunc != nil {
		return m.moveFileFunc(src, dst)
	}
	return m.FileStorage.MoveFile(src, dst)
}

// fakeTrash moves paths into a private directory and remembers what it got.
type fakeTrash struct {
	dir         string
	unavailable bool
	trashed     []string

	moveToTrashFunc func(path string) error
}

func newFakeTrash(t *testing.T) *fakeTrash {
	t.Helper()
	return &fakeTrash{dir: t.TempDir()}
}

func (f *fakeTrash) Available() bool {
	return !f.unavailable
}

func (f *fakeTrash) MoveToTrash(path string) error {
	if f.moveToTrashFunc != nil {
		return f.moveToTrashFunc(path)
	}
	if f.unavailable {
		return domain.ErrTrashUnavailable
	}
	return f.moveIntoBin(path)
}

func (f *fakeTrash) moveIntoBin(path string) error {
	if err := os.Rename(path, filepath.Join(f.dir, filepath.Base(path))); err != nil {
		return err
	}
	f.trashed = append(f.trashed, path)
	return nil
}

var errInjected = errors.New("injected failure")

type testEnv struct {
	root    string
	storage *mockFileStorage
	trash   *fakeTrash
	paths   *PathResolver
	dirs    *DirectoryEngine
	files   *FileEngine
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	root := t.TempDir()
	storage := &mockFileStorage{FileStorage: localstorage.NewLocalStorageService(0o755, 0o644)}
	trash := newFakeTrash(t)
	paths := NewPathResolver(root)
	dirs := NewDirectoryEngine(paths, storage, trash)
	return &testEnv{
		root:    root,
		storage: storage,
		trash:   trash,
		paths:   paths,
		dirs:    dirs,
		files:   NewFileEngine(paths, storage, trash, dirs, false),
	}
}

func (e *testEnv) path(parts ...string) string {
	return filepath.Join(append([]string{e.root}, parts...)...)
}

func (e *testEnv) writeFile(t *testing.T, rel, content string) {
	t.Helper()
	full := e.path(filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}

func (e *testEnv) mkdir(t *testing.T, rel string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(e.path(filepath.FromSlash(rel)), 0o755))
}

func (e *testEnv) readFile(t *testing.T, rel string) string {
	t.Helper()
	data, err := os.ReadFile(e.path(filepath.FromSlash(rel)))
	require.NoError(t, err)
	return string(data)
}
