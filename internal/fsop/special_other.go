//go:build !linux && !darwin && !freebsd && !netbsd && !openbsd && !dragonfly

package fsop

import (
	"io/fs"
	"os"

	"gitlab.com/tozd/go/errors"
)

func makeFifo(path string, _ fs.FileMode) error {
	return errors.Errorf("mkfifo %s: %w", path, ErrUnsupportedKind)
}

func makeDevice(path string, _ fs.FileInfo) error {
	return errors.Errorf("mknod %s: %w", path, ErrUnsupportedKind)
}

func applyMetadata(path string, info fs.FileInfo) error {
	if info.Mode()&fs.ModeSymlink != 0 {
		return nil
	}
	if err := os.Chmod(path, info.Mode().Perm()); err != nil {
		return err
	}
	return os.Chtimes(path, info.ModTime(), info.ModTime())
}
