//go:build freebsd || netbsd || openbsd || dragonfly

package fsop

import (
	"io/fs"

	"gitlab.com/tozd/go/errors"
)

// Device numbers are not portable between the BSDs, so device nodes are not
// recreated there. Fifos, links and metadata still are.
func makeDevice(path string, _ fs.FileInfo) error {
	return errors.Errorf("mknod %s: %w", path, ErrUnsupportedKind)
}
