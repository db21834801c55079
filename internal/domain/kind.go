package domain

import "io/fs"

// EntryKind classifies a directory entry without following symlinks.
// The set is closed: every switch over it must handle all six values.
type EntryKind int

const (
	KindRegular EntryKind = iota
	KindDirectory
	KindSymlink
	KindFifo
	KindDevice
	KindOther
)

func KindOf(mode fs.FileMode) EntryKind {
	switch {
	case mode.IsRegular():
		return KindRegular
	case mode.IsDir():
		return KindDirectory
	case mode&fs.ModeSymlink != 0:
		return KindSymlink
	case mode&fs.ModeNamedPipe != 0:
		return KindFifo
	case mode&fs.ModeDevice != 0:
		return KindDevice
	default:
		return KindOther
	}
}

func (kind EntryKind) String() string {
	switch kind {
	case KindRegular:
		return "file"
	case KindDirectory:
		return "dir"
	case KindSymlink:
		return "symlink"
	case KindFifo:
		return "fifo"
	case KindDevice:
		return "device"
	default:
		return "other"
	}
}
