//go:build unix

package trash

import (
	"strconv"

	"golang.org/x/sys/unix"
)

func deviceOf(path string) (uint64, bool) {
	var st unix.Stat_t
	if err := unix.Lstat(path, &st); err != nil {
		return 0, false
	}
	return uint64(st.Dev), true
}

// volumeTrashName is the per-user trash directory at the top of a mount.
func volumeTrashName() string {
	return ".Trash-" + strconv.Itoa(unix.Getuid())
}
