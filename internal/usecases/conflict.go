package usecases

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strconv"
	"strings"

	"homecloud/internal/domain"
)

// resolveNamingConflict returns target if nothing exists there, otherwise the
// first free sibling of the form base(n)ext, n = 1, 2, ...
// The check is not atomic with the caller's create.
func resolveNamingConflict(storage domain.FileStorage, target string) (string, error) {
	taken, err := isTaken(storage, target)
	if err != nil {
		return domain.PathEmpty, err
	}
	if !taken {
		return target, nil
	}

	dir := filepath.Dir(target)
	base, ext := splitName(filepath.Base(target))
	for n := 1; ; n++ {
		candidate := filepath.Join(dir, conflictName(base, ext, n))
		taken, err = isTaken(storage, candidate)
		if err != nil {
			return domain.PathEmpty, err
		}
		if !taken {
			return candidate, nil
		}
	}
}

// isTaken reports whether something is at path. ENOTDIR or EACCES on the
// parent is returned as is, no name in that directory would ever be free.
func isTaken(storage domain.FileStorage, path string) (bool, error) {
	_, err := storage.Lstat(path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, err
	}
}

// splitName режу по последней точке.
func splitName(name string) (base, ext string) {
	i := strings.LastIndex(name, domain.ExtensionSeparator)
	if i < 0 {
		return name, domain.PathEmpty
	}
	return name[:i], name[i:]
}

func conflictName(base, ext string, n int) string {
	return base + "(" + strconv.Itoa(n) + ")" + ext
}

// exists treats any Lstat answer other than "not exist" as taken.
func exists(storage domain.FileStorage, path string) bool {
	_, err := storage.Lstat(path)
	return !errors.Is(err, fs.ErrNotExist)
}
