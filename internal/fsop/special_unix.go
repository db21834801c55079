//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly

package fsop

import (
	"io/fs"
	"os"
	"syscall"

	"gitlab.com/tozd/go/errors"
	"golang.org/x/sys/unix"
)

func makeFifo(path string, perm fs.FileMode) error {
	if err := unix.Mkfifo(path, uint32(perm)); err != nil {
		return errors.Errorf("mkfifo %s: %w", path, err)
	}
	return nil
}

func applyMetadata(path string, info fs.FileInfo) error {
	var errs []error
	if stat, ok := info.Sys().(*syscall.Stat_t); ok {
		if err := unix.Lchown(path, int(stat.Uid), int(stat.Gid)); err != nil && !errors.Is(err, unix.EPERM) {
			errs = append(errs, errors.Errorf("lchown: %w", err))
		}
	}
	if info.Mode()&fs.ModeSymlink == 0 {
		if err := os.Chmod(path, info.Mode().Perm()); err != nil {
			errs = append(errs, err)
		}
	}
	mtime := unix.NsecToTimespec(info.ModTime().UnixNano())
	times := []unix.Timespec{mtime, mtime}
	if err := unix.UtimesNanoAt(unix.AT_FDCWD, path, times, unix.AT_SYMLINK_NOFOLLOW); err != nil {
		errs = append(errs, errors.Errorf("utimes: %w", err))
	}
	return errors.Join(errs...)
}
