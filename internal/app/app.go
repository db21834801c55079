package app

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"panefm/internal/config"
	"panefm/internal/services"
	"panefm/internal/state"
	"panefm/internal/ui"
)

type Options struct {
	Config     config.Config
	ConfigPath string
	// ConfigWarning is shown in the status line when the config file could
	// not be read.
	ConfigWarning string
	Input         io.Reader
	Output        io.Writer
}

// Run starts the browser and blocks until the user quits. The last pane
// paths are saved back to ConfigPath.
func Run(ctx context.Context, opts Options) error {
	logger := zerolog.Ctx(ctx)
	cfg := opts.Config

	initialState := state.NewState(cfg)
	status := opts.ConfigWarning
	if err := initialState.LoadListings(cfg.LeftPath, cfg.RightPath); err != nil {
		logger.Warn().Err(err).Msg("initial listing")
		status = "Listing warning: " + err.Error()
	}

	actions := services.NewFSActions(*logger)
	model := ui.NewModel(ctx, initialState, actions, *logger).WithStatus(status)

	programOptions := []tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}
	if opts.Input != nil {
		programOptions = append(programOptions, tea.WithInput(opts.Input))
	}
	if opts.Output != nil {
		programOptions = append(programOptions, tea.WithOutput(opts.Output))
	}
	program := tea.NewProgram(model, programOptions...)
	finalModel, err := program.Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return errors.Errorf("run ui: %w", err)
	}

	if active := actions.Active(); active != nil {
		active.Cancel()
		actions.Finish(active)
		active.Wait()
	}

	if opts.ConfigPath == "" {
		return nil
	}
	if provider, ok := finalModel.(ui.ConfigProvider); ok {
		if err := config.Save(opts.ConfigPath, provider.ConfigSnapshot()); err != nil {
			return errors.Errorf("save config: %w", err)
		}
		logger.Debug().Str("path", opts.ConfigPath).Msg("config saved")
	}
	return nil
}
