package domain

import "time"

type Entry struct {
	Name       string
	Path       string
	Kind       EntryKind
	SizeBytes  int64
	ModTime    time.Time
	LinkTarget string
}

func (entry Entry) IsDir() bool {
	return entry.Kind == KindDirectory
}
