package state

import (
	"os"
	"path/filepath"

	mapset "github.com/deckarep/golang-set/v2"
	"gitlab.com/tozd/go/errors"

	"panefm/internal/domain"
)

// Pane is one side of the browser: a directory listing, a cursor and a
// multi-selection keyed by absolute path.
type Pane struct {
	Path       string
	Entries    []domain.Entry
	Cursor     int
	Selected   mapset.Set[string]
	ShowHidden bool
	SortMode   domain.SortMode
}

func NewPane(showHidden bool, sortMode domain.SortMode) *Pane {
	return &Pane{
		Selected:   mapset.NewThreadUnsafeSet[string](),
		ShowHidden: showHidden,
		SortMode:   sortMode,
	}
}

// Load lists path and resets cursor and selection. On failure the pane keeps
// its previous listing.
func (pane *Pane) Load(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return errors.Errorf("resolve %s: %w", path, err)
	}
	entries, err := readListing(abs, pane.ShowHidden)
	if err != nil {
		return err
	}
	sortEntries(entries, pane.SortMode)
	pane.Path = abs
	pane.Entries = entries
	pane.Cursor = 0
	pane.Selected.Clear()
	return nil
}

// Refresh re-lists the current directory, keeping the cursor on the same name
// when it still exists and dropping selections that vanished.
func (pane *Pane) Refresh() error {
	if pane.Path == "" {
		return nil
	}
	currentName := ""
	if entry, ok := pane.Current(); ok {
		currentName = entry.Name
	}
	entries, err := readListing(pane.Path, pane.ShowHidden)
	if err != nil {
		return err
	}
	sortEntries(entries, pane.SortMode)
	pane.Entries = entries

	present := mapset.NewThreadUnsafeSetWithSize[string](len(entries))
	for _, entry := range entries {
		present.Add(entry.Path)
	}
	pane.Selected = pane.Selected.Intersect(present)

	pane.Cursor = pane.indexOf(currentName)
	pane.clampCursor()
	return nil
}

func (pane *Pane) Current() (domain.Entry, bool) {
	if pane.Cursor < 0 || pane.Cursor >= len(pane.Entries) {
		return domain.Entry{}, false
	}
	return pane.Entries[pane.Cursor], true
}

func (pane *Pane) MoveCursor(delta int) {
	pane.Cursor += delta
	pane.clampCursor()
}

func (pane *Pane) ToggleSelection() {
	entry, ok := pane.Current()
	if !ok {
		return
	}
	if pane.Selected.Contains(entry.Path) {
		pane.Selected.Remove(entry.Path)
		return
	}
	pane.Selected.Add(entry.Path)
}

func (pane *Pane) IsSelected(path string) bool {
	return pane.Selected.Contains(path)
}

// SelectedPaths returns the selection in listing order, or the highlighted
// entry when nothing is selected.
func (pane *Pane) SelectedPaths() []string {
	paths := make([]string, 0, pane.Selected.Cardinality())
	for _, entry := range pane.Entries {
		if pane.Selected.Contains(entry.Path) {
			paths = append(paths, entry.Path)
		}
	}
	if len(paths) == 0 {
		if entry, ok := pane.Current(); ok {
			paths = append(paths, entry.Path)
		}
	}
	return paths
}

func (pane *Pane) SelectionSummary() (int, int64) {
	var total int64
	count := 0
	for _, entry := range pane.Entries {
		if pane.Selected.Contains(entry.Path) {
			count++
			total += entry.SizeBytes
		}
	}
	return count, total
}

// EnterDir descends into the highlighted entry if it is a directory or a
// symlink to one.
func (pane *Pane) EnterDir() (bool, error) {
	entry, ok := pane.Current()
	if !ok {
		return false, nil
	}
	switch entry.Kind {
	case domain.KindDirectory:
	case domain.KindSymlink:
		info, err := os.Stat(entry.Path)
		if err != nil || !info.IsDir() {
			return false, nil
		}
	case domain.KindRegular, domain.KindFifo, domain.KindDevice, domain.KindOther:
		return false, nil
	}
	if err := pane.Load(entry.Path); err != nil {
		return false, err
	}
	return true, nil
}

// Parent moves to the parent directory and highlights the directory that was
// left.
func (pane *Pane) Parent() (bool, error) {
	parent := filepath.Dir(pane.Path)
	if parent == pane.Path {
		return false, nil
	}
	left := filepath.Base(pane.Path)
	if err := pane.Load(parent); err != nil {
		return false, err
	}
	pane.Cursor = pane.indexOf(left)
	return true, nil
}

func (pane *Pane) SetShowHidden(show bool) error {
	pane.ShowHidden = show
	return pane.Refresh()
}

func (pane *Pane) SetSortMode(mode domain.SortMode) {
	pane.SortMode = mode
	currentName := ""
	if entry, ok := pane.Current(); ok {
		currentName = entry.Name
	}
	sortEntries(pane.Entries, mode)
	pane.Cursor = pane.indexOf(currentName)
}

func (pane *Pane) indexOf(name string) int {
	if name == "" {
		return 0
	}
	for index, entry := range pane.Entries {
		if entry.Name == name {
			return index
		}
	}
	return 0
}

func (pane *Pane) clampCursor() {
	if pane.Cursor >= len(pane.Entries) {
		pane.Cursor = len(pane.Entries) - 1
	}
	if pane.Cursor < 0 {
		pane.Cursor = 0
	}
}
