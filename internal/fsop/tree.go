package fsop

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"panefm/internal/domain"
)

type createdEntry struct {
	path string
	info fs.FileInfo
}

// CopyEntry reproduces a single source item of any kind at dst. A regular
// file replaces dst atomically; everything else is created fresh.
func CopyEntry(ctx context.Context, src, dst string) error {
	info, err := os.Lstat(src)
	if err != nil {
		return errors.Errorf("stat %s: %w", src, err)
	}
	switch domain.KindOf(info.Mode()) {
	case domain.KindDirectory:
		return CopyTree(ctx, src, dst)
	case domain.KindRegular:
		_, err := AtomicCopyFile(src, dst)
		return err
	case domain.KindSymlink:
		return copySymlink(src, dst)
	case domain.KindFifo:
		return makeFifo(dst, info.Mode().Perm())
	case domain.KindDevice:
		return makeDevice(dst, info)
	case domain.KindOther:
		zerolog.Ctx(ctx).Debug().Str("path", src).Msg("ignoring unsupported file type")
		return nil
	}
	return nil
}

// CopyTree copies the directory src into dst, merging with whatever already
// exists there. Existing destination entries are never overwritten. The first
// I/O error aborts the copy. Permission bits, times and ownership of created
// entries are restored afterwards on a best-effort basis.
func CopyTree(ctx context.Context, src, dst string) error {
	created := []createdEntry{}
	if err := copyDir(ctx, src, dst, &created); err != nil {
		return err
	}
	preserveMetadata(ctx, created)
	return nil
}

func copyDir(ctx context.Context, src, dst string, created *[]createdEntry) error {
	info, err := os.Lstat(src)
	if err != nil {
		return errors.Errorf("stat %s: %w", src, err)
	}
	fresh, err := ensureDir(dst, info.Mode().Perm())
	if err != nil {
		return err
	}

	entries, err := os.ReadDir(src)
	if err != nil {
		return errors.Errorf("read dir %s: %w", src, err)
	}
	for _, entry := range entries {
		childSrc := filepath.Join(src, entry.Name())
		childDst := filepath.Join(dst, entry.Name())
		childInfo, err := entry.Info()
		if err != nil {
			return errors.Errorf("stat %s: %w", childSrc, err)
		}
		if err := copyChild(ctx, childSrc, childDst, childInfo, created); err != nil {
			return err
		}
	}

	if fresh {
		*created = append(*created, createdEntry{path: dst, info: info})
	}
	return nil
}

func copyChild(ctx context.Context, src, dst string, info fs.FileInfo, created *[]createdEntry) error {
	kind := domain.KindOf(info.Mode())
	if kind == domain.KindDirectory {
		return copyDir(ctx, src, dst, created)
	}
	if kind == domain.KindOther {
		zerolog.Ctx(ctx).Debug().Str("path", src).Msg("ignoring unsupported file type")
		return nil
	}

	exists, err := pathExists(dst)
	if err != nil {
		return err
	}
	if exists {
		zerolog.Ctx(ctx).Debug().Str("path", dst).Stringer("kind", kind).Msg("destination exists, keeping it")
		return nil
	}

	switch kind {
	case domain.KindRegular:
		if _, err := AtomicCopyFile(src, dst); err != nil {
			return err
		}
	case domain.KindSymlink:
		if err := copySymlink(src, dst); err != nil {
			return err
		}
	case domain.KindFifo:
		if err := makeFifo(dst, info.Mode().Perm()); err != nil {
			return err
		}
	case domain.KindDevice:
		if err := makeDevice(dst, info); err != nil {
			return err
		}
	case domain.KindDirectory, domain.KindOther:
		return nil
	}
	*created = append(*created, createdEntry{path: dst, info: info})
	return nil
}

func ensureDir(path string, perm fs.FileMode) (bool, error) {
	info, err := os.Lstat(path)
	if err == nil {
		if !info.IsDir() {
			return false, errors.Errorf("create dir %s: destination exists and is not a directory", path)
		}
		return false, nil
	}
	if !os.IsNotExist(err) {
		return false, errors.Errorf("stat %s: %w", path, err)
	}
	// Owner write is needed to populate the directory; the real bits are
	// restored by the metadata pass.
	if err := os.Mkdir(path, perm|0o700); err != nil {
		return false, errors.Errorf("create dir %s: %w", path, err)
	}
	return true, nil
}

func copySymlink(src, dst string) error {
	target, err := os.Readlink(src)
	if err != nil {
		return errors.Errorf("read link %s: %w", src, err)
	}
	if err := os.Symlink(target, dst); err != nil {
		return errors.Errorf("create link %s: %w", dst, err)
	}
	return nil
}

func preserveMetadata(ctx context.Context, created []createdEntry) {
	logger := zerolog.Ctx(ctx)
	for _, entry := range created {
		if err := applyMetadata(entry.path, entry.info); err != nil {
			logger.Debug().Err(err).Str("path", entry.path).Msg("metadata not preserved")
		}
	}
}
