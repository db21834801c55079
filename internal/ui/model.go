package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"panefm/internal/config"
	"panefm/internal/services"
	"panefm/internal/state"
)

type mode int

const (
	modeBrowse mode = iota
	modeConfirm
	modeProgress
	modeConflict
)

type Model struct {
	ctx       context.Context
	state     *state.State
	actions   services.Transfers
	previewer services.ActionPreviewer
	logger    zerolog.Logger
	keys      KeyMap
	styles    uiStyles
	bar       progress.Model
	showHelp  bool
	status    string
	width     int
	height    int

	mode           mode
	pendingRequest services.BatchRequest
	pendingPreview services.ActionPreview
	previewReady   bool
	operation      *services.Operation
	lastUpdate     services.ProgressUpdate
	conflict       string
	cancelling     bool
}

type ConfigProvider interface {
	ConfigSnapshot() config.Config
}

func NewModel(ctx context.Context, appState *state.State, actions services.Transfers, logger zerolog.Logger) Model {
	keys, unknown := ApplyBindings(DefaultKeyMap(), appState.KeyBindings)
	status := "Ready - F5 copy, F6 move, ? help"
	if len(unknown) > 0 {
		status = "Config warning: unknown key actions " + strings.Join(unknown, ", ")
	}
	return Model{
		ctx:       ctx,
		state:     appState,
		actions:   actions,
		previewer: actionPreviewer(actions),
		logger:    logger,
		keys:      keys,
		styles:    stylesFor(appState.Prefs.Theme),
		bar:       progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		status:    status,
		width:     100,
		height:    30,
	}
}

func (model Model) WithStatus(message string) Model {
	if message != "" {
		model.status = message
	}
	return model
}

func (model Model) ConfigSnapshot() config.Config {
	return model.state.Snapshot()
}

func (model Model) Init() tea.Cmd {
	return nil
}

func (model Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		return model.handleKey(typed)
	case tea.WindowSizeMsg:
		model.width = typed.Width
		model.height = typed.Height
		model.bar.Width = clamp(typed.Width-20, 10, 60)
		return model, nil
	case transferPreviewMsg:
		if model.mode != modeConfirm {
			return model, nil
		}
		if typed.err != nil {
			model.mode = modeBrowse
			model.status = fmt.Sprintf("Preview error: %v", typed.err)
			return model, nil
		}
		model.pendingPreview = typed.preview
		model.previewReady = true
		model.status = previewPrompt(typed.preview)
		return model, nil
	case transferProgressMsg:
		return model.handleTransferProgress(typed)
	default:
		return model, nil
	}
}

func (model Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, model.keys.Quit) {
		model = model.shutdownTransfer()
		return model, tea.Quit
	}
	switch model.mode {
	case modeConflict:
		return model.handleConflictKey(msg)
	case modeProgress:
		if key.Matches(msg, model.keys.Abort) {
			return model.abortTransfer()
		}
		return model, nil
	case modeConfirm:
		return model.handleConfirmKey(msg)
	case modeBrowse:
	}
	return model.handleBrowseKey(msg)
}

func (model Model) handleConflictKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, model.keys.Overwrite):
		return model.decide(services.DecisionOverwrite)
	case key.Matches(msg, model.keys.Skip):
		return model.decide(services.DecisionSkip)
	case key.Matches(msg, model.keys.OverwriteAll):
		return model.decide(services.DecisionOverwriteAll)
	case key.Matches(msg, model.keys.SkipAll):
		return model.decide(services.DecisionSkipAll)
	case key.Matches(msg, model.keys.ConflictCancel):
		return model.decide(services.DecisionCancel)
	default:
		return model, nil
	}
}

func (model Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, model.keys.Confirm):
		if !model.previewReady {
			return model, nil
		}
		model.previewReady = false
		return model.startTransfer(model.pendingRequest)
	case key.Matches(msg, model.keys.Cancel):
		model.mode = modeBrowse
		model.previewReady = false
		model.status = "Transfer cancelled"
		return model, nil
	default:
		return model, nil
	}
}

func (model Model) handleBrowseKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	pane := model.state.Active()
	switch {
	case key.Matches(msg, model.keys.Help):
		model.showHelp = !model.showHelp
	case key.Matches(msg, model.keys.Up):
		pane.MoveCursor(-1)
	case key.Matches(msg, model.keys.Down):
		pane.MoveCursor(1)
	case key.Matches(msg, model.keys.Switch):
		model.state.Switch()
	case key.Matches(msg, model.keys.Select):
		pane.ToggleSelection()
		pane.MoveCursor(1)
	case key.Matches(msg, model.keys.Enter):
		if _, err := pane.EnterDir(); err != nil {
			model.status = fmt.Sprintf("List error: %v", err)
		}
	case key.Matches(msg, model.keys.Back):
		if _, err := pane.Parent(); err != nil {
			model.status = fmt.Sprintf("List error: %v", err)
		}
	case key.Matches(msg, model.keys.Copy):
		return model.beginTransfer(services.OpCopy)
	case key.Matches(msg, model.keys.Move):
		return model.beginTransfer(services.OpMove)
	case key.Matches(msg, model.keys.Refresh):
		if err := model.state.RefreshAll(); err != nil {
			model.status = fmt.Sprintf("Refresh error: %v", err)
		} else {
			model.status = "Refreshed"
		}
	case key.Matches(msg, model.keys.Sort):
		sortMode := model.state.ToggleSortMode()
		model.status = "Sort: " + string(sortMode)
	case key.Matches(msg, model.keys.Hidden):
		shown, err := model.state.ToggleShowHidden()
		model.status = fmt.Sprintf("Hidden files: %s", onOff(shown))
		if err != nil {
			model.status = fmt.Sprintf("List error: %v", err)
		}
	}
	return model, nil
}

func actionPreviewer(actions services.Transfers) services.ActionPreviewer {
	previewer, _ := actions.(services.ActionPreviewer)
	return previewer
}

func previewPrompt(preview services.ActionPreview) string {
	message := fmt.Sprintf("%s %d file(s), %d dir(s) to %s? (y/n)", strings.ToUpper(string(preview.Kind)), preview.TotalFiles, preview.TotalDirs, preview.Destination)
	if len(preview.Conflicts) > 0 {
		message = fmt.Sprintf("%s  %d already exist", message, len(preview.Conflicts))
	}
	return message
}

func onOff(value bool) string {
	if value {
		return "on"
	}
	return "off"
}
