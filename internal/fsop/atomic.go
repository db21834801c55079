// Package fsop holds the filesystem primitives the transfer engine is built
// on. Writes go through a temporary file in the target directory and are
// published with a single rename, so a reader never sees a partial file.
package fsop

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"unicode/utf8"

	"gitlab.com/tozd/go/errors"
)

var (
	ErrCrossDevice     = errors.Base("cannot move across filesystems")
	ErrUnsupportedKind = errors.Base("unsupported file type")
)

// rename is replaced in tests to simulate a failing or cross-device rename.
var rename = os.Rename

const (
	tempSuffix   = ".panefm-*.tmp"
	tempNameKeep = 100
)

// AtomicWrite replaces target with data. On failure target is left as it was.
func AtomicWrite(target string, data []byte, perm fs.FileMode) error {
	_, err := writeAtomic(target, perm, func(out *os.File) (int64, error) {
		written, err := out.Write(data)
		return int64(written), err
	}, nil)
	return err
}

// AtomicCopyFile copies the regular file src to dst through a temporary file
// beside dst and returns the number of bytes copied.
func AtomicCopyFile(src, dst string) (int64, error) {
	info, err := os.Lstat(src)
	if err != nil {
		return 0, errors.Errorf("stat %s: %w", src, err)
	}
	if !info.Mode().IsRegular() {
		return 0, errors.Errorf("copy %s: %w", src, ErrUnsupportedKind)
	}
	input, err := os.Open(src)
	if err != nil {
		return 0, errors.Errorf("open %s: %w", src, err)
	}
	defer input.Close()

	return writeAtomic(dst, info.Mode().Perm(), func(out *os.File) (int64, error) {
		return io.Copy(out, input)
	}, func(tempPath string) {
		_ = os.Chtimes(tempPath, info.ModTime(), info.ModTime())
	})
}

// RenameOrCopy moves src to dst. When the rename crosses a filesystem
// boundary and src is a regular file, it copies and only then removes src.
func RenameOrCopy(src, dst string) error {
	renameErr := rename(src, dst)
	if renameErr == nil {
		return nil
	}
	if !isCrossDevice(renameErr) {
		return errors.Errorf("rename %s: %w", src, renameErr)
	}
	info, err := os.Lstat(src)
	if err != nil {
		return errors.Errorf("stat %s: %w", src, err)
	}
	if !info.Mode().IsRegular() {
		return errors.Errorf("move %s to %s: %w", src, filepath.Dir(dst), ErrCrossDevice)
	}
	if _, err := AtomicCopyFile(src, dst); err != nil {
		return err
	}
	if err := os.Remove(src); err != nil {
		return errors.Errorf("remove moved source %s: %w", src, err)
	}
	return nil
}

// RemoveTarget deletes path whatever its type, recursing into directories.
// A missing path is not an error.
func RemoveTarget(path string) error {
	info, err := os.Lstat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		err = os.RemoveAll(path)
	} else {
		err = os.Remove(path)
	}
	if err != nil {
		return errors.Errorf("remove %s: %w", path, err)
	}
	return nil
}

func writeAtomic(target string, perm fs.FileMode, fill func(*os.File) (int64, error), finish func(string)) (int64, error) {
	out, err := os.CreateTemp(filepath.Dir(target), tempPattern(target))
	if err != nil {
		return 0, errors.Errorf("create temp file for %s: %w", target, err)
	}
	tempPath := out.Name()
	defer func() {
		if tempPath != "" {
			_ = os.Remove(tempPath)
		}
	}()

	written, err := fill(out)
	if err != nil {
		_ = out.Close()
		return 0, errors.Errorf("write %s: %w", target, err)
	}
	if err := out.Chmod(perm); err != nil {
		_ = out.Close()
		return 0, errors.Errorf("chmod %s: %w", tempPath, err)
	}
	if err := out.Sync(); err != nil {
		_ = out.Close()
		return 0, errors.Errorf("sync %s: %w", tempPath, err)
	}
	if err := out.Close(); err != nil {
		return 0, errors.Errorf("close %s: %w", tempPath, err)
	}
	if finish != nil {
		finish(tempPath)
	}
	if err := rename(tempPath, target); err != nil {
		return 0, errors.Errorf("publish %s: %w", target, err)
	}
	tempPath = ""
	return written, nil
}

// tempPattern keeps the temp name well under NAME_MAX however long the
// target name is.
func tempPattern(target string) string {
	base := filepath.Base(target)
	if len(base) > tempNameKeep {
		cut := tempNameKeep
		for cut > 0 && !utf8.RuneStart(base[cut]) {
			cut--
		}
		base = base[:cut]
	}
	return "." + base + tempSuffix
}

func pathExists(path string) (bool, error) {
	_, err := os.Lstat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, errors.Errorf("stat %s: %w", path, err)
}
