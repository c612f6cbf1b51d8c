//go:build !linux

package localstorage

import (
	"errors"
	"syscall"
)

func renameNoReplace(src, dst string) error {
	return renameCheckFirst(src, dst)
}

func isCrossDevice(err error) bool {
	return errors.Is(err, syscall.EXDEV)
}
