package ui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"panefm/internal/services"
)

// transferProgressCmd waits for the next update of op off the UI loop. The
// Update handler re-arms it until the terminal update arrives.
func transferProgressCmd(ctx context.Context, op *services.Operation) tea.Cmd {
	return func() tea.Msg {
		update, ok := op.Next(ctx)
		return transferProgressMsg{operationID: op.ID, update: update, ok: ok}
	}
}

func transferPreviewCmd(ctx context.Context, previewer services.ActionPreviewer, request services.BatchRequest) tea.Cmd {
	return func() tea.Msg {
		preview, err := previewer.Preview(ctx, request)
		return transferPreviewMsg{request: request, preview: preview, err: err}
	}
}

func (model Model) beginTransfer(kind services.OpKind) (tea.Model, tea.Cmd) {
	if model.actions.State() == services.StateRunning {
		model.status = "A transfer is already running"
		return model, nil
	}
	sources := model.state.Active().SelectedPaths()
	if len(sources) == 0 {
		model.status = "Nothing to " + string(kind)
		return model, nil
	}
	request := services.BatchRequest{
		Kind:        kind,
		Sources:     sources,
		Destination: model.state.Other().Path,
	}
	if model.state.Prefs.ConfirmTransfers && model.previewer != nil {
		model.mode = modeConfirm
		model.pendingRequest = request
		model.pendingPreview = services.ActionPreview{}
		model.status = fmt.Sprintf("Preparing %s of %d item(s)...", kind, len(sources))
		return model, transferPreviewCmd(model.ctx, model.previewer, request)
	}
	return model.startTransfer(request)
}

func (model Model) startTransfer(request services.BatchRequest) (tea.Model, tea.Cmd) {
	op, err := model.actions.Start(model.ctx, request)
	if err != nil {
		model.mode = modeBrowse
		model.status = fmt.Sprintf("Transfer error: %v", err)
		return model, nil
	}
	model.logger.Info().Str("batch", op.ID).Str("kind", string(request.Kind)).Int("items", len(request.Sources)).Msg("transfer started")
	model.operation = op
	model.mode = modeProgress
	model.conflict = ""
	model.cancelling = false
	model.lastUpdate = services.ProgressUpdate{Total: len(op.Request.Sources)}
	model.status = fmt.Sprintf("%s %d item(s) to %s", titleVerb(request.Kind), len(op.Request.Sources), op.Request.Destination)
	model.state.Active().Selected.Clear()
	return model, transferProgressCmd(model.ctx, op)
}

func (model Model) handleTransferProgress(msg transferProgressMsg) (tea.Model, tea.Cmd) {
	if model.operation == nil || msg.operationID != model.operation.ID {
		return model, nil
	}
	if !msg.ok {
		return model.finishTransfer(services.ProgressUpdate{
			Processed: model.lastUpdate.Processed,
			Total:     model.lastUpdate.Total,
			Done:      true,
			Error:     "progress stream closed",
		})
	}
	update := msg.update
	if update.Done {
		return model.finishTransfer(update)
	}
	model.lastUpdate = update
	if update.Conflict != "" {
		model.mode = modeConflict
		model.conflict = update.Conflict
		model.status = "Target exists: " + update.Conflict
		return model, transferProgressCmd(model.ctx, model.operation)
	}
	if !model.cancelling && update.Message != "" {
		model.status = update.Message
	}
	return model, transferProgressCmd(model.ctx, model.operation)
}

func (model Model) decide(decision services.Decision) (tea.Model, tea.Cmd) {
	if model.operation == nil {
		model.mode = modeBrowse
		return model, nil
	}
	if err := model.operation.Decide(decision); err != nil {
		model.status = fmt.Sprintf("Decision error: %v", err)
		return model, nil
	}
	model.logger.Debug().Str("batch", model.operation.ID).Str("target", model.conflict).Stringer("decision", decision).Msg("conflict resolved")
	model.mode = modeProgress
	model.conflict = ""
	if decision == services.DecisionCancel {
		model.cancelling = true
		model.status = "Cancelling..."
	}
	return model, nil
}

func (model Model) abortTransfer() (tea.Model, tea.Cmd) {
	if model.operation == nil {
		return model, nil
	}
	model.operation.Cancel()
	model.cancelling = true
	model.status = "Cancelling..."
	return model, nil
}

// finishTransfer hands the terminal update back to the dispatcher and
// re-lists both panes whatever the outcome.
func (model Model) finishTransfer(update services.ProgressUpdate) (tea.Model, tea.Cmd) {
	op := model.operation
	model.actions.Finish(op)
	model.operation = nil
	model.mode = modeBrowse
	model.conflict = ""
	model.cancelling = false
	model.lastUpdate = update

	event := model.logger.Info()
	switch {
	case update.Error != "":
		model.status = fmt.Sprintf("Transfer stopped after %d/%d: %s", update.Processed, update.Total, update.Error)
		event = model.logger.Warn().Str("error", update.Error)
	case update.Message != "":
		model.status = fmt.Sprintf("%s (%d/%d)", update.Message, update.Processed, update.Total)
	default:
		model.status = fmt.Sprintf("%s finished", titleVerb(op.Request.Kind))
	}
	event.Str("batch", op.ID).Int("processed", update.Processed).Int("total", update.Total).Msg("transfer finished")

	if err := model.state.RefreshAll(); err != nil {
		model.status = fmt.Sprintf("%s; refresh error: %v", model.status, err)
	}
	return model, nil
}

// shutdownTransfer stops a running batch when the program exits.
func (model Model) shutdownTransfer() Model {
	if model.operation == nil {
		return model
	}
	model.operation.Cancel()
	model.actions.Finish(model.operation)
	model.logger.Info().Str("batch", model.operation.ID).Msg("transfer cancelled on quit")
	model.operation = nil
	return model
}

func titleVerb(kind services.OpKind) string {
	switch kind {
	case services.OpMove:
		return "Moving"
	case services.OpCopy:
		return "Copying"
	default:
		return strings.ToUpper(string(kind))
	}
}
