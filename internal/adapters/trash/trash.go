// Package trash moves files into a freedesktop.org style trash bin:
// <dir>/files holds the items and <dir>/info one .trashinfo record per item.
// Items on another volume than the home trash go to $topdir/.Trash-$uid.
package trash

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/adrg/xdg"
	"github.com/sirupsen/logrus"

	"homecloud/internal/domain"
)

const (
	filesDir      = "files"
	infoDir       = "info"
	infoExtension = ".trashinfo"
	dateLayout    = "2006-01-02T15:04:05"
	maxNameTries  = 10000
)

type Config struct {
	Enabled bool
	// Dir overrides the home trash location.
	Dir string
}

// Trash is the host trash bin. Availability is decided once, in New.
type Trash struct {
	home      *bin
	available bool
	now       func() time.Time
	device    func(path string) (uint64, bool)

	mu      sync.Mutex
	volumes map[uint64]*bin
}

// bin is one trash directory. top is set for volume bins, their info
// records hold paths relative to it.
type bin struct {
	dir string
	top string
	dev uint64
}

// New discovers the trash capability. It never fails: an unusable trash is
// reported through Available.
func New(cfg Config) *Trash {
	t := &Trash{
		now:     time.Now,
		device:  deviceOf,
		volumes: make(map[uint64]*bin),
	}
	if !cfg.Enabled {
		logrus.Info("Trash disabled by configuration")
		return t
	}

	dir := cfg.Dir
	if dir == domain.PathEmpty {
		if !hasHomeTrash() {
			logrus.Warnf("No trash bin on %s, deletes will fail", runtime.GOOS)
			return t
		}
		dir = filepath.Join(xdg.DataHome, "Trash")
	}

	home, err := newBin(dir, domain.PathEmpty)
	if err != nil {
		logrus.Warnf("Trash at %s is not usable: %v", dir, err)
		return t
	}
	home.dev, _ = t.device(home.dir)
	t.home = home

	t.available = true
	logrus.WithField("dir", home.dir).Info("Trash available")
	return t
}

func newBin(dir, top string) (*bin, error) {
	for _, sub := range []string{filesDir, infoDir} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o700); err != nil {
			return nil, err
		}
	}
	return &bin{dir: dir, top: top}, nil
}

func hasHomeTrash() bool {
	switch runtime.GOOS {
	case "linux", "freebsd", "openbsd", "netbsd", "dragonfly", "solaris", "illumos":
		return true
	default:
		return false
	}
}

func (t *Trash) Available() bool {
	return t.available
}

func (t *Trash) Dir() string {
	if t.home == nil {
		return domain.PathEmpty
	}
	return t.home.dir
}

// MoveToTrash moves path into the trash of its volume and records where it
// came from.
func (t *Trash) MoveToTrash(path string) error {
	if !t.available {
		return domain.ErrTrashUnavailable
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if _, err = os.Lstat(abs); err != nil {
		return err
	}

	b, err := t.binFor(abs)
	if err != nil {
		return err
	}

	name, info, err := b.reserve(filepath.Base(abs))
	if err != nil {
		return err
	}

	if _, err = fmt.Fprintf(info, "[Trash Info]\nPath=%s\nDeletionDate=%s\n",
		b.recordPath(abs), t.now().Format(dateLayout)); err != nil {
		_ = info.Close()
		b.release(name)
		return fmt.Errorf("write trash info for '%s': %w", abs, err)
	}
	if err = info.Close(); err != nil {
		b.release(name)
		return fmt.Errorf("write trash info for '%s': %w", abs, err)
	}

	if err = os.Rename(abs, filepath.Join(b.dir, filesDir, name)); err != nil {
		b.release(name)
		return fmt.Errorf("move '%s' to trash: %w", abs, err)
	}

	logrus.WithFields(logrus.Fields{
		"path":  abs,
		"trash": b.dir,
		"name":  name,
	}).Debug("Moved to trash")
	return nil
}

// binFor picks the home trash when path shares its device, otherwise the
// volume trash under the mount top of path.
func (t *Trash) binFor(abs string) (*bin, error) {
	dev, ok := t.device(abs)
	if !ok || dev == t.home.dev {
		return t.home, nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if b, found := t.volumes[dev]; found {
		return b, nil
	}

	top := t.topdir(abs, dev)
	b, err := newBin(filepath.Join(top, volumeTrashName()), top)
	if err != nil {
		return nil, fmt.Errorf("no trash on the volume of '%s': %w", abs, err)
	}
	b.dev = dev
	t.volumes[dev] = b
	logrus.WithField("dir", b.dir).Info("Volume trash created")
	return b, nil
}

// topdir идем вверх, пока родитель на том же устройстве.
func (t *Trash) topdir(path string, dev uint64) string {
	top := filepath.Dir(path)
	for {
		parent := filepath.Dir(top)
		if parent == top {
			return top
		}
		if d, ok := t.device(parent); !ok || d != dev {
			return top
		}
		top = parent
	}
}

// reserve claims a unique item name by exclusively creating its info file.
func (b *bin) reserve(base string) (string, *os.File, error) {
	name := base
	for n := 2; n < maxNameTries; n++ {
		if _, err := os.Lstat(filepath.Join(b.dir, filesDir, name)); errors.Is(err, fs.ErrNotExist) {
			f, createErr := os.OpenFile(b.infoPath(name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
			if createErr == nil {
				return name, f, nil
			}
			if !errors.Is(createErr, fs.ErrExist) {
				return domain.PathEmpty, nil, createErr
			}
		}
		name = base + "." + strconv.Itoa(n)
	}
	return domain.PathEmpty, nil, fmt.Errorf("no free trash name for '%s'", base)
}

func (b *bin) release(name string) {
	if err := os.Remove(b.infoPath(name)); err != nil {
		logrus.Warnf("Failed to remove trash info %s: %v", name, err)
	}
}

func (b *bin) infoPath(name string) string {
	return filepath.Join(b.dir, infoDir, name+infoExtension)
}

// recordPath is the Path= value: absolute for the home trash, relative to the
// mount top for a volume trash.
func (b *bin) recordPath(abs string) string {
	p := abs
	if b.top != domain.PathEmpty {
		if rel, err := filepath.Rel(b.top, abs); err == nil {
			p = rel
		}
	}
	return (&url.URL{Path: filepath.ToSlash(p)}).EscapedPath()
}
