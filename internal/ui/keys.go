package ui

import (
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

type KeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Enter   key.Binding
	Back    key.Binding
	Switch  key.Binding
	Select  key.Binding
	Copy    key.Binding
	Move    key.Binding
	Refresh key.Binding
	Sort    key.Binding
	Hidden  key.Binding
	Confirm key.Binding
	Cancel  key.Binding
	Abort   key.Binding
	Help    key.Binding
	Quit    key.Binding

	Overwrite      key.Binding
	Skip           key.Binding
	OverwriteAll   key.Binding
	SkipAll        key.Binding
	ConflictCancel key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "move down"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter", "right", "l"),
			key.WithHelp("enter/→", "open dir"),
		),
		Back: key.NewBinding(
			key.WithKeys("backspace", "left", "h"),
			key.WithHelp("←/h", "parent dir"),
		),
		Switch: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "switch pane"),
		),
		Select: key.NewBinding(
			key.WithKeys("space", " ", "insert"),
			key.WithHelp("space", "toggle select"),
		),
		Copy: key.NewBinding(
			key.WithKeys("f5", "c"),
			key.WithHelp("F5/c", "copy"),
		),
		Move: key.NewBinding(
			key.WithKeys("f6", "m"),
			key.WithHelp("F6/m", "move"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r", "ctrl+r"),
			key.WithHelp("r", "refresh"),
		),
		Sort: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "order"),
		),
		Hidden: key.NewBinding(
			key.WithKeys("."),
			key.WithHelp(".", "hidden"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("y", "enter"),
			key.WithHelp("y/enter", "confirm"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("n", "esc"),
			key.WithHelp("n/esc", "cancel"),
		),
		Abort: key.NewBinding(
			key.WithKeys("esc", "x"),
			key.WithHelp("esc/x", "cancel transfer"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Overwrite: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "overwrite"),
		),
		Skip: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "skip"),
		),
		OverwriteAll: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "overwrite all"),
		),
		SkipAll: key.NewBinding(
			key.WithKeys("k"),
			key.WithHelp("k", "skip all"),
		),
		ConflictCancel: key.NewBinding(
			key.WithKeys("esc", "c"),
			key.WithHelp("esc/c", "cancel transfer"),
		),
	}
}

func (keys *KeyMap) byAction() map[string]*key.Binding {
	return map[string]*key.Binding{
		"up":             &keys.Up,
		"down":           &keys.Down,
		"enter":          &keys.Enter,
		"back":           &keys.Back,
		"switch":         &keys.Switch,
		"select":         &keys.Select,
		"copy":           &keys.Copy,
		"move":           &keys.Move,
		"refresh":        &keys.Refresh,
		"sort":           &keys.Sort,
		"hidden":         &keys.Hidden,
		"confirm":        &keys.Confirm,
		"cancel":         &keys.Cancel,
		"abort":          &keys.Abort,
		"help":           &keys.Help,
		"quit":           &keys.Quit,
		"overwrite":      &keys.Overwrite,
		"skip":           &keys.Skip,
		"overwriteall":   &keys.OverwriteAll,
		"skipall":        &keys.SkipAll,
		"conflictcancel": &keys.ConflictCancel,
	}
}

// ApplyBindings replaces the keys of the named actions. Values are comma
// separated key names. Unknown action names are returned sorted.
func ApplyBindings(keys KeyMap, bindings map[string]string) (KeyMap, []string) {
	actions := keys.byAction()
	unknown := []string{}
	for action, value := range bindings {
		binding, ok := actions[strings.ToLower(action)]
		if !ok {
			unknown = append(unknown, action)
			continue
		}
		names := splitKeys(value)
		if len(names) == 0 {
			continue
		}
		binding.SetKeys(names...)
		binding.SetHelp(strings.Join(names, "/"), binding.Help().Desc)
	}
	sort.Strings(unknown)
	return keys, unknown
}

func splitKeys(value string) []string {
	names := []string{}
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			names = append(names, part)
		}
	}
	return names
}
