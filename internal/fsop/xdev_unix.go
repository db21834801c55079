//go:build unix

package fsop

import (
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sys/unix"
)

func isCrossDevice(err error) bool {
	return errors.Is(err, unix.EXDEV)
}
