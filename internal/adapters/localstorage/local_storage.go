package localstorage

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// LocalStorageService implements domain.FileStorage on the host filesystem.
// Callers pass absolute, already guarded paths.
type LocalStorageService struct {
	dirPerm  os.FileMode
	filePerm os.FileMode
}

func NewLocalStorageService(dirPerm, filePerm os.FileMode) *LocalStorageService {
	return &LocalStorageService{
		dirPerm:  dirPerm,
		filePerm: filePerm,
	}
}

func (s *LocalStorageService) Stat(path string) (os.FileInfo, error) {
	return os.Stat(path)
}

func (s *LocalStorageService) Lstat(path string) (os.FileInfo, error) {
	return os.Lstat(path)
}

// ReadDirectory returns one FileInfo per child. Symlinks are followed; a child
// whose target cannot be stat'ed is reported with its own link info.
func (s *LocalStorageService) ReadDirectory(path string) ([]os.FileInfo, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}

	files := make([]os.FileInfo, 0, len(entries))
	for _, e := range entries {
		child := filepath.Join(path, e.Name())
		info, statErr := os.Stat(child)
		if statErr != nil {
			logrus.Warnf("Failed to stat %s, using link info: %v", child, statErr)
			info, statErr = e.Info()
			if statErr != nil {
				logrus.Warnf("Failed to get info for %s: %v", child, statErr)
				continue
			}
		}
		files = append(files, info)
	}

	return files, nil
}

// CreateDirectory обычный mkdir, родитель должен быть.
func (s *LocalStorageService) CreateDirectory(path string) error {
	return os.Mkdir(path, s.dirPerm)
}

func (s *LocalStorageService) CreateDirectories(path string) error {
	return os.MkdirAll(path, s.dirPerm)
}

// CreateFile streams body into a new file. It never overwrites: an existing
// path fails with an error matching fs.ErrExist. A partially written file is removed.
func (s *LocalStorageService) CreateFile(path string, body io.Reader) (int64, error) {
	out, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, s.filePerm)
	if err != nil {
		return 0, err
	}

	n, copyErr := io.Copy(out, body)
	closeErr := out.Close()
	if copyErr == nil {
		copyErr = closeErr
	}
	if copyErr != nil {
		if rmErr := os.Remove(path); rmErr != nil {
			logrus.Warnf("Failed to remove partial file %s: %v", path, rmErr)
		}
		return n, copyErr
	}

	return n, nil
}

func (s *LocalStorageService) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

func (s *LocalStorageService) Open(path string) (*os.File, error) {
	return os.Open(path)
}

// CopyFile copies the body and permission bits of a regular file. With
// overwrite the destination is truncated, otherwise an existing destination fails.
func (s *LocalStorageService) CopyFile(src, dst string, overwrite bool) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := in.Close(); closeErr != nil {
			logrus.Warnf("Failed to close file %s: %v", src, closeErr)
		}
	}()

	info, err := in.Stat()
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("copy %s: %w", src, errIsDirectory)
	}

	flags := os.O_WRONLY | os.O_CREATE
	if overwrite {
		flags |= os.O_TRUNC
	} else {
		flags |= os.O_EXCL
	}
	out, err := os.OpenFile(dst, flags, info.Mode().Perm())
	if err != nil {
		return err
	}

	if _, err = io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	if err = out.Close(); err != nil {
		return err
	}

	if chtErr := os.Chtimes(dst, info.ModTime(), info.ModTime()); chtErr != nil {
		logrus.Debugf("Failed to preserve modification time of %s: %v", dst, chtErr)
	}
	return nil
}

func (s *LocalStorageService) Move(src, dst string) error {
	if dst == "" {
		return os.ErrInvalid
	}
	return renameNoReplace(src, dst)
}

// MoveFile is Move for a single file, falling back to copy and remove when src
// and dst live on different devices.
func (s *LocalStorageService) MoveFile(src, dst string) error {
	err := s.Move(src, dst)
	if err == nil || !isCrossDevice(err) {
		return err
	}

	logrus.WithFields(logrus.Fields{"src": src, "dst": dst}).Debug("cross-device move, copying instead")
	if copyErr := s.CopyFile(src, dst, false); copyErr != nil {
		return copyErr
	}
	return os.Remove(src)
}

// Walk pre-order, по симлинкам на папки не ходим.
func (s *LocalStorageService) Walk(root string, fn fs.WalkDirFunc) error {
	return filepath.WalkDir(root, fn)
}

var errIsDirectory = errors.New("is a directory")
