package state

import (
	"gitlab.com/tozd/go/errors"

	"panefm/internal/config"
	"panefm/internal/domain"
)

type Preferences struct {
	ShowHidden       bool
	SortMode         domain.SortMode
	Theme            string
	ConfirmTransfers bool
}

const (
	LeftPane = iota
	RightPane
)

type State struct {
	Panes       [2]*Pane
	ActiveIndex int
	Prefs       Preferences
	KeyBindings map[string]string
	LogFile     string
	LogLevel    string
}

func NewState(cfg config.Config) *State {
	prefs := Preferences{
		ShowHidden:       cfg.ShowHidden,
		SortMode:         cfg.SortMode,
		Theme:            cfg.Theme,
		ConfirmTransfers: cfg.ConfirmTransfers,
	}
	return &State{
		Panes: [2]*Pane{
			NewPane(prefs.ShowHidden, prefs.SortMode),
			NewPane(prefs.ShowHidden, prefs.SortMode),
		},
		ActiveIndex: LeftPane,
		Prefs:       prefs,
		KeyBindings: ensureBindings(cfg.KeyBindings),
		LogFile:     cfg.LogFile,
		LogLevel:    cfg.LogLevel,
	}
}

func ensureBindings(bindings map[string]string) map[string]string {
	if bindings == nil {
		return map[string]string{}
	}
	return bindings
}

// LoadListings lists both panes. A pane that fails to load falls back to the
// other pane's directory, or stays empty.
func (appState *State) LoadListings(left, right string) error {
	leftErr := appState.Panes[LeftPane].Load(left)
	rightErr := appState.Panes[RightPane].Load(right)
	if leftErr != nil && rightErr == nil {
		_ = appState.Panes[LeftPane].Load(appState.Panes[RightPane].Path)
	}
	if rightErr != nil && leftErr == nil {
		_ = appState.Panes[RightPane].Load(appState.Panes[LeftPane].Path)
	}
	return errors.Join(leftErr, rightErr)
}

func (appState *State) Active() *Pane {
	return appState.Panes[appState.ActiveIndex]
}

func (appState *State) Other() *Pane {
	return appState.Panes[1-appState.ActiveIndex]
}

func (appState *State) Switch() {
	appState.ActiveIndex = 1 - appState.ActiveIndex
}

// RefreshAll re-lists both panes and reports every failure.
func (appState *State) RefreshAll() error {
	var errs []error
	for _, pane := range appState.Panes {
		if err := pane.Refresh(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (appState *State) ToggleShowHidden() (bool, error) {
	appState.Prefs.ShowHidden = !appState.Prefs.ShowHidden
	var errs []error
	for _, pane := range appState.Panes {
		if err := pane.SetShowHidden(appState.Prefs.ShowHidden); err != nil {
			errs = append(errs, err)
		}
	}
	return appState.Prefs.ShowHidden, errors.Join(errs...)
}

func (appState *State) ToggleSortMode() domain.SortMode {
	appState.Prefs.SortMode = appState.Prefs.SortMode.Next()
	for _, pane := range appState.Panes {
		pane.SetSortMode(appState.Prefs.SortMode)
	}
	return appState.Prefs.SortMode
}

// Snapshot returns the config that reproduces the current session.
func (appState *State) Snapshot() config.Config {
	return config.Config{
		LeftPath:         appState.Panes[LeftPane].Path,
		RightPath:        appState.Panes[RightPane].Path,
		ShowHidden:       appState.Prefs.ShowHidden,
		SortMode:         appState.Prefs.SortMode,
		Theme:            appState.Prefs.Theme,
		KeyBindings:      appState.KeyBindings,
		ConfirmTransfers: appState.Prefs.ConfirmTransfers,
		LogFile:          appState.LogFile,
		LogLevel:         appState.LogLevel,
	}
}
