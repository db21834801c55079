package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"panefm/internal/fsop"
)

const cancelledMessage = "operation cancelled by user"

type itemOutcome int

const (
	outcomeProceed itemOutcome = iota
	outcomeSkip
	outcomeStop
)

// batch is the worker side of one transfer. All of its fields are owned by
// the worker goroutine except cancel, which the consumer may set.
type batch struct {
	id        string
	request   BatchRequest
	cancel    *CancelFlag
	progress  *mailbox[ProgressUpdate]
	decisions *mailbox[Decision]
	logger    zerolog.Logger

	processed    int
	overwriteAll bool
	skipAll      bool
	finished     bool
}

func (job *batch) run(ctx context.Context) {
	defer job.progress.Close()
	defer func() {
		if recovered := recover(); recovered != nil {
			job.logger.Error().Interface("panic", recovered).Msg("batch worker panicked")
			job.finish("", fmt.Sprintf("internal error: %v", recovered))
		}
	}()

	ctx = job.logger.WithContext(ctx)
	job.logger.Info().
		Int("items", len(job.request.Sources)).
		Str("destination", job.request.Destination).
		Msg("batch started")

	for _, source := range job.request.Sources {
		if job.cancel.IsSet() {
			job.cancelled()
			return
		}
		target := filepath.Join(job.request.Destination, filepath.Base(source))
		if err := checkPlacement(source, target); err != nil {
			job.fail(err)
			return
		}

		switch job.resolveConflict(ctx, target) {
		case outcomeStop:
			return
		case outcomeSkip:
			continue
		case outcomeProceed:
		}

		if err := job.perform(ctx, source, target); err != nil {
			job.fail(err)
			return
		}
		job.processed++
		job.logger.Debug().Str("source", source).Str("target", target).Msg("item done")
		job.emit(ProgressUpdate{Message: fmt.Sprintf("%s %s", pastTense(job.request.Kind), filepath.Base(source))})
	}

	job.finish(fmt.Sprintf("%s complete", job.request.Kind), "")
}

// resolveConflict runs the overwrite/skip protocol for an existing target.
func (job *batch) resolveConflict(ctx context.Context, target string) itemOutcome {
	if _, err := os.Lstat(target); err != nil {
		if os.IsNotExist(err) {
			return outcomeProceed
		}
		job.fail(errors.Errorf("stat %s: %w", target, err))
		return outcomeStop
	}
	if job.skipAll {
		job.skip(target)
		return outcomeSkip
	}

	if !job.overwriteAll {
		job.emit(ProgressUpdate{Conflict: target})
		job.logger.Debug().Str("target", target).Msg("waiting for decision")
		decision, err := job.decisions.Recv(ctx)
		if errors.Is(err, errMailboxClosed) {
			job.fail(errors.Errorf("decision channel closed while resolving %s", target))
			return outcomeStop
		}
		if err != nil {
			job.fail(errors.Errorf("waiting for decision on %s: %w", target, err))
			return outcomeStop
		}
		job.logger.Debug().Str("target", target).Stringer("decision", decision).Msg("decision received")
		if job.cancel.IsSet() {
			job.cancelled()
			return outcomeStop
		}

		switch decision {
		case DecisionCancel:
			job.cancel.Set()
			job.cancelled()
			return outcomeStop
		case DecisionSkipAll:
			job.skipAll = true
			job.skip(target)
			return outcomeSkip
		case DecisionSkip:
			job.skip(target)
			return outcomeSkip
		case DecisionOverwriteAll:
			job.overwriteAll = true
		case DecisionOverwrite:
		default:
			job.fail(errors.Errorf("unknown decision %d for %s", int(decision), target))
			return outcomeStop
		}
	}

	if err := fsop.RemoveTarget(target); err != nil {
		job.fail(err)
		return outcomeStop
	}
	return outcomeProceed
}

func (job *batch) perform(ctx context.Context, source, target string) error {
	switch job.request.Kind {
	case OpCopy:
		return fsop.CopyEntry(ctx, source, target)
	case OpMove:
		return fsop.RenameOrCopy(source, target)
	default:
		return errors.Errorf("%w: unknown operation %q", ErrInvalidRequest, job.request.Kind)
	}
}

func (job *batch) skip(target string) {
	job.processed++
	job.logger.Debug().Str("target", target).Msg("item skipped")
	job.emit(ProgressUpdate{Message: fmt.Sprintf("skipped %s", filepath.Base(target))})
}

func (job *batch) cancelled() {
	job.finish("", cancelledMessage)
}

func (job *batch) fail(err error) {
	job.finish("", err.Error())
}

// finish emits the single terminal update of the batch.
func (job *batch) finish(message, errText string) {
	if job.finished {
		return
	}
	job.finished = true
	event := job.logger.Info()
	if errText != "" {
		event = job.logger.Warn().Str("error", errText)
	}
	event.Int("processed", job.processed).Int("total", len(job.request.Sources)).Msg("batch finished")
	job.emit(ProgressUpdate{Message: message, Error: errText, Done: true})
}

func (job *batch) emit(update ProgressUpdate) {
	update.Processed = job.processed
	update.Total = len(job.request.Sources)
	job.progress.Push(update)
}

// checkPlacement rejects targets that would destroy or recurse into their
// own source, including a target directory that holds the source.
func checkPlacement(source, target string) error {
	if filepath.Clean(source) == filepath.Clean(target) {
		return errors.Errorf("%s: source and destination are the same", source)
	}
	if isWithin(source, filepath.Dir(target)) {
		return errors.Errorf("%s: cannot place a directory inside itself", source)
	}
	if isWithin(target, source) {
		return errors.Errorf("%s: destination %s contains the source", source, target)
	}
	return nil
}

func pastTense(kind OpKind) string {
	if kind == OpMove {
		return "moved"
	}
	return "copied"
}
