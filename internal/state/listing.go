package state

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/maruel/natural"
	"gitlab.com/tozd/go/errors"

	"panefm/internal/domain"
)

// readListing lists path without following symlinks. Entries whose metadata
// cannot be read are still listed, as KindOther with zero size.
func readListing(path string, showHidden bool) ([]domain.Entry, error) {
	dirEntries, err := os.ReadDir(path)
	if err != nil {
		return nil, errors.Errorf("list %s: %w", path, err)
	}
	entries := make([]domain.Entry, 0, len(dirEntries))
	for _, dirEntry := range dirEntries {
		name := dirEntry.Name()
		if !showHidden && isHiddenName(name) {
			continue
		}
		entry := domain.Entry{
			Name: name,
			Path: filepath.Join(path, name),
			Kind: domain.KindOther,
		}
		info, infoErr := dirEntry.Info()
		if infoErr == nil {
			entry.Kind = domain.KindOf(info.Mode())
			entry.ModTime = info.ModTime()
			if entry.Kind == domain.KindRegular {
				entry.SizeBytes = info.Size()
			}
		}
		if entry.Kind == domain.KindSymlink {
			entry.LinkTarget, _ = os.Readlink(entry.Path)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// sortEntries orders directories first, then by mode. Names compare
// naturally so "file10" sorts after "file9".
func sortEntries(entries []domain.Entry, mode domain.SortMode) {
	sort.SliceStable(entries, func(i, j int) bool {
		left, right := entries[i], entries[j]
		if left.IsDir() != right.IsDir() {
			return left.IsDir()
		}
		switch mode {
		case domain.SortBySize:
			if left.SizeBytes != right.SizeBytes {
				return left.SizeBytes > right.SizeBytes
			}
		case domain.SortByMod:
			if !left.ModTime.Equal(right.ModTime) {
				return left.ModTime.After(right.ModTime)
			}
		case domain.SortByName:
		}
		return lessName(left.Name, right.Name)
	})
}

func lessName(left, right string) bool {
	foldedLeft, foldedRight := strings.ToLower(left), strings.ToLower(right)
	if foldedLeft != foldedRight {
		return natural.Less(foldedLeft, foldedRight)
	}
	return left < right
}

func isHiddenName(name string) bool {
	return strings.HasPrefix(name, ".")
}
