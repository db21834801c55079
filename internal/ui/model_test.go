package ui

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"

	"panefm/internal/config"
	"panefm/internal/services"
	"panefm/internal/state"
)

type fixture struct {
	left    string
	right   string
	actions *services.FSActions
	model   Model
}

func newFixture(t *testing.T, confirm bool) *fixture {
	t.Helper()
	left, right := t.TempDir(), t.TempDir()
	cfg := config.DefaultConfig()
	cfg.ConfirmTransfers = confirm
	appState := state.NewState(cfg)

	logger := zerolog.New(zerolog.NewTestWriter(t))
	actions := services.NewFSActions(logger)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	fx := &fixture{left: left, right: right, actions: actions}
	fx.model = NewModel(ctx, appState, actions, logger)
	return fx
}

func (fx *fixture) load(t *testing.T) {
	t.Helper()
	require.NoError(t, fx.model.state.LoadListings(fx.left, fx.right))
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func runes(value string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(value)}
}

func update(t *testing.T, model Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := model.Update(msg)
	typed, ok := next.(Model)
	require.True(t, ok)
	return typed, cmd
}

// pump runs progress commands until the transfer ends, answering each
// conflict with answer.
func pump(t *testing.T, model Model, cmd tea.Cmd, answer tea.KeyMsg) Model {
	t.Helper()
	for steps := 0; cmd != nil; steps++ {
		require.Less(t, steps, 100, "transfer did not finish")
		if model.mode == modeConflict {
			model, _ = update(t, model, answer)
		}
		model, cmd = update(t, model, cmd())
	}
	return model
}

func TestModel_CopyWithoutConfirmation(t *testing.T) {
	fx := newFixture(t, false)
	writeFile(t, filepath.Join(fx.left, "a.txt"), "alpha")
	writeFile(t, filepath.Join(fx.left, "b.txt"), "beta")
	fx.load(t)

	model, _ := update(t, fx.model, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	model, _ = update(t, model, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	model, cmd := update(t, model, tea.KeyMsg{Type: tea.KeyF5})
	require.NotNil(t, cmd)
	op := model.operation
	require.NotNil(t, op)
	assert.Equal(t, modeProgress, model.mode)
	assert.Equal(t, services.StateRunning, fx.actions.State())
	assert.Contains(t, model.View(), "Copying")

	model = pump(t, model, cmd, runes("s"))
	assert.Equal(t, modeBrowse, model.mode)
	assert.Equal(t, services.StateIdle, fx.actions.State())
	assert.Contains(t, model.status, "copy complete")
	assert.Nil(t, model.operation)
	assert.True(t, errors.Is(op.Decide(services.DecisionSkip), services.ErrReleased), "finished operation is released")

	data, err := os.ReadFile(filepath.Join(fx.right, "b.txt"))
	require.NoError(t, err)
	assert.Equal(t, "beta", string(data))
	assert.Len(t, model.state.Panes[state.RightPane].Entries, 2, "destination pane is re-listed")
}

func TestModel_MoveWithConfirmationAndSkip(t *testing.T) {
	fx := newFixture(t, true)
	writeFile(t, filepath.Join(fx.left, "keep.txt"), "new")
	writeFile(t, filepath.Join(fx.right, "keep.txt"), "old")
	fx.load(t)

	model, cmd := update(t, fx.model, runes("m"))
	require.NotNil(t, cmd)
	assert.Equal(t, modeConfirm, model.mode)

	// Confirming before the preview arrives does nothing.
	model, noop := update(t, model, runes("y"))
	assert.Nil(t, noop)
	assert.Equal(t, modeConfirm, model.mode)

	model, _ = update(t, model, cmd())
	assert.True(t, model.previewReady)
	assert.Contains(t, model.status, "1 already exist")
	assert.Contains(t, model.View(), "Confirm move")

	model, cmd = update(t, model, runes("y"))
	require.NotNil(t, cmd)
	assert.Equal(t, modeProgress, model.mode)

	model, cmd = update(t, model, cmd())
	require.Equal(t, modeConflict, model.mode)
	assert.Equal(t, filepath.Join(fx.right, "keep.txt"), model.conflict)
	assert.Contains(t, model.View(), "Target already exists")

	model = pump(t, model, cmd, runes("s"))
	assert.Equal(t, modeBrowse, model.mode)
	data, err := os.ReadFile(filepath.Join(fx.right, "keep.txt"))
	require.NoError(t, err)
	assert.Equal(t, "old", string(data))
	assert.FileExists(t, filepath.Join(fx.left, "keep.txt"))
}

func TestModel_ConfirmationCancelled(t *testing.T) {
	fx := newFixture(t, true)
	writeFile(t, filepath.Join(fx.left, "a"), "a")
	fx.load(t)

	model, cmd := update(t, fx.model, runes("c"))
	model, _ = update(t, model, cmd())
	model, cmd = update(t, model, runes("n"))
	assert.Nil(t, cmd)
	assert.Equal(t, modeBrowse, model.mode)
	assert.Equal(t, services.StateIdle, fx.actions.State())
	assert.NoFileExists(t, filepath.Join(fx.right, "a"))
}

func TestModel_ConflictCancelEndsBatch(t *testing.T) {
	fx := newFixture(t, false)
	writeFile(t, filepath.Join(fx.left, "a"), "new")
	writeFile(t, filepath.Join(fx.left, "b"), "new")
	writeFile(t, filepath.Join(fx.right, "a"), "old")
	fx.load(t)
	fx.model.state.Active().Selected.Add(filepath.Join(fx.left, "a"))
	fx.model.state.Active().Selected.Add(filepath.Join(fx.left, "b"))

	model, cmd := update(t, fx.model, runes("c"))
	model = pump(t, model, cmd, tea.KeyMsg{Type: tea.KeyEsc})

	assert.Equal(t, modeBrowse, model.mode)
	assert.Contains(t, model.status, "cancelled")
	assert.NoFileExists(t, filepath.Join(fx.right, "b"))
}

func TestModel_OverwriteAllFromDialog(t *testing.T) {
	fx := newFixture(t, false)
	for _, name := range []string{"a", "b"} {
		writeFile(t, filepath.Join(fx.left, name), "new")
		writeFile(t, filepath.Join(fx.right, name), "old")
	}
	fx.load(t)
	fx.model.state.Active().Selected.Add(filepath.Join(fx.left, "a"))
	fx.model.state.Active().Selected.Add(filepath.Join(fx.left, "b"))

	model, cmd := update(t, fx.model, runes("c"))
	conflicts := 0
	for steps := 0; cmd != nil; steps++ {
		require.Less(t, steps, 100)
		if model.mode == modeConflict {
			conflicts++
			model, _ = update(t, model, runes("a"))
		}
		model, cmd = update(t, model, cmd())
	}
	assert.Equal(t, 1, conflicts)
	for _, name := range []string{"a", "b"} {
		data, err := os.ReadFile(filepath.Join(fx.right, name))
		require.NoError(t, err)
		assert.Equal(t, "new", string(data))
	}
}

func TestModel_AbortSetsCancelFlag(t *testing.T) {
	fx := newFixture(t, false)
	writeFile(t, filepath.Join(fx.left, "a"), "a")
	fx.load(t)

	model, cmd := update(t, fx.model, runes("c"))
	op := model.operation
	require.NotNil(t, op)
	model, _ = update(t, model, runes("x"))
	assert.True(t, op.Cancelled())
	assert.True(t, model.cancelling)
	assert.Contains(t, model.View(), "Cancelling...")

	model = pump(t, model, cmd, runes("s"))
	assert.Equal(t, modeBrowse, model.mode)
	assert.Equal(t, services.StateIdle, fx.actions.State())
}

func TestModel_QuitWhileRunningCancelsAndReleases(t *testing.T) {
	fx := newFixture(t, false)
	writeFile(t, filepath.Join(fx.left, "a"), "new")
	writeFile(t, filepath.Join(fx.right, "a"), "old")
	fx.load(t)

	model, cmd := update(t, fx.model, runes("c"))
	op := model.operation
	model, _ = update(t, model, cmd())
	require.Equal(t, modeConflict, model.mode)

	model, cmd = update(t, model, runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.True(t, op.Cancelled())
	assert.Equal(t, services.StateIdle, fx.actions.State())
	assert.True(t, errors.Is(op.Decide(services.DecisionSkip), services.ErrReleased))
	op.Wait()
	assert.Nil(t, model.operation)
}

func TestModel_StaleProgressIgnored(t *testing.T) {
	fx := newFixture(t, false)
	fx.load(t)
	model, cmd := update(t, fx.model, transferProgressMsg{operationID: "other", ok: true, update: services.ProgressUpdate{Done: true}})
	assert.Nil(t, cmd)
	assert.Equal(t, modeBrowse, model.mode)
}

func TestModel_BrowseKeys(t *testing.T) {
	fx := newFixture(t, false)
	writeFile(t, filepath.Join(fx.left, "sub", "inner"), "x")
	writeFile(t, filepath.Join(fx.left, "file"), "x")
	fx.load(t)

	model, _ := update(t, fx.model, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, filepath.Join(fx.left, "sub"), model.state.Active().Path)
	model, _ = update(t, model, tea.KeyMsg{Type: tea.KeyBackspace})
	assert.Equal(t, fx.left, model.state.Active().Path)

	model, _ = update(t, model, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, state.RightPane, model.state.ActiveIndex)

	model, _ = update(t, model, runes("o"))
	assert.Contains(t, model.status, "Sort: size")
	model, _ = update(t, model, runes("?"))
	assert.Contains(t, model.View(), "panefm help")

	model, _ = update(t, model, tea.WindowSizeMsg{Width: 120, Height: 40})
	assert.Equal(t, 120, model.width)
	assert.Equal(t, fx.left, model.ConfigSnapshot().LeftPath)
}

func TestModel_NothingToCopy(t *testing.T) {
	fx := newFixture(t, false)
	fx.load(t)
	model, cmd := update(t, fx.model, runes("c"))
	assert.Nil(t, cmd)
	assert.Equal(t, "Nothing to copy", model.status)
	assert.Equal(t, services.StateIdle, fx.actions.State())
}
