//go:build linux || darwin

package fsop

import (
	"io/fs"
	"syscall"

	"gitlab.com/tozd/go/errors"
	"golang.org/x/sys/unix"
)

func makeDevice(path string, info fs.FileInfo) error {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return errors.Errorf("mknod %s: %w", path, ErrUnsupportedKind)
	}
	mode := uint32(info.Mode().Perm())
	if info.Mode()&fs.ModeCharDevice != 0 {
		mode |= unix.S_IFCHR
	} else {
		mode |= unix.S_IFBLK
	}
	if err := unix.Mknod(path, mode, int(stat.Rdev)); err != nil {
		return errors.Errorf("mknod %s: %w", path, err)
	}
	return nil
}
