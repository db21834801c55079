package domain

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		mode fs.FileMode
		want EntryKind
	}{
		{name: "regular", mode: 0o644, want: KindRegular},
		{name: "directory", mode: fs.ModeDir | 0o755, want: KindDirectory},
		{name: "symlink", mode: fs.ModeSymlink | 0o777, want: KindSymlink},
		{name: "fifo", mode: fs.ModeNamedPipe | 0o600, want: KindFifo},
		{name: "block device", mode: fs.ModeDevice | 0o660, want: KindDevice},
		{name: "char device", mode: fs.ModeDevice | fs.ModeCharDevice | 0o660, want: KindDevice},
		{name: "socket", mode: fs.ModeSocket | 0o755, want: KindOther},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.mode))
		})
	}
}
