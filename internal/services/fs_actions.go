package services

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

var (
	ErrBatchRunning   = errors.Base("a transfer is already running")
	ErrInvalidRequest = errors.Base("invalid transfer request")
)

type RunState int

const (
	StateIdle RunState = iota
	StateRunning
)

func (runState RunState) String() string {
	if runState == StateRunning {
		return "running"
	}
	return "idle"
}

// FSActions starts transfers and tracks the one that may be running. It stays
// Running from Start until the consumer calls Finish after the terminal update.
type FSActions struct {
	mu     sync.Mutex
	active *Operation
	logger zerolog.Logger
}

func NewFSActions(logger zerolog.Logger) *FSActions {
	return &FSActions{logger: logger}
}

func (actions *FSActions) State() RunState {
	actions.mu.Lock()
	defer actions.mu.Unlock()
	if actions.active != nil {
		return StateRunning
	}
	return StateIdle
}

func (actions *FSActions) Active() *Operation {
	actions.mu.Lock()
	defer actions.mu.Unlock()
	return actions.active
}

// Start validates req and runs it on a new worker goroutine. Results are
// reported only through the returned Operation.
func (actions *FSActions) Start(ctx context.Context, req BatchRequest) (*Operation, error) {
	normalized, err := normalizeRequest(req)
	if err != nil {
		return nil, err
	}

	actions.mu.Lock()
	defer actions.mu.Unlock()
	if actions.active != nil {
		return nil, ErrBatchRunning
	}

	op := &Operation{
		ID:        uuid.NewString(),
		Request:   normalized,
		cancel:    NewCancelFlag(),
		progress:  newMailbox[ProgressUpdate](),
		decisions: newMailbox[Decision](),
		done:      make(chan struct{}),
	}
	job := &batch{
		id:        op.ID,
		request:   normalized,
		cancel:    op.cancel,
		progress:  op.progress,
		decisions: op.decisions,
		logger: actions.logger.With().
			Str("batch", op.ID).
			Str("kind", string(normalized.Kind)).
			Logger(),
	}
	actions.active = op

	go func() {
		defer close(op.done)
		job.run(ctx)
	}()
	return op, nil
}

// Finish releases op and returns the dispatcher to Idle if op is the active
// batch.
func (actions *FSActions) Finish(op *Operation) {
	if op == nil {
		return
	}
	op.Release()
	actions.mu.Lock()
	defer actions.mu.Unlock()
	if actions.active == op {
		actions.active = nil
	}
}

func (actions *FSActions) Preview(ctx context.Context, req BatchRequest) (ActionPreview, error) {
	normalized, err := normalizeRequest(req)
	if err != nil {
		return ActionPreview{}, err
	}

	preview := ActionPreview{
		Kind:        normalized.Kind,
		Sources:     normalized.Sources,
		Destination: normalized.Destination,
		Samples:     []string{},
	}

	for _, path := range normalized.Sources {
		select {
		case <-ctx.Done():
			return ActionPreview{}, ctx.Err()
		default:
		}
		target := filepath.Join(normalized.Destination, filepath.Base(path))
		if _, err := os.Lstat(target); err == nil {
			preview.Conflicts = append(preview.Conflicts, target)
		}
		info, err := os.Lstat(path)
		if err != nil {
			preview.Warnings = append(preview.Warnings, err.Error())
			continue
		}
		if !info.IsDir() {
			preview.TotalFiles++
			preview.TotalBytes += info.Size()
			if len(preview.Samples) < 5 {
				preview.Samples = append(preview.Samples, path)
			}
			continue
		}
		preview.TotalDirs++
		walkErr := filepath.WalkDir(path, func(child string, entry fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				preview.Warnings = append(preview.Warnings, walkErr.Error())
				return nil
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if entry.IsDir() {
				if child != path {
					preview.TotalDirs++
				}
				return nil
			}
			preview.TotalFiles++
			if len(preview.Samples) < 5 {
				preview.Samples = append(preview.Samples, child)
			}
			if fileInfo, err := entry.Info(); err == nil {
				preview.TotalBytes += fileInfo.Size()
			}
			return nil
		})
		if walkErr != nil {
			return ActionPreview{}, walkErr
		}
	}

	return preview, nil
}

func normalizeRequest(req BatchRequest) (BatchRequest, error) {
	if req.Kind != OpCopy && req.Kind != OpMove {
		return BatchRequest{}, errors.Errorf("%w: unknown operation %q", ErrInvalidRequest, req.Kind)
	}
	sources, err := normalizePaths(req.Sources)
	if err != nil {
		return BatchRequest{}, err
	}
	if len(sources) == 0 {
		return BatchRequest{}, errors.Errorf("%w: no sources provided", ErrInvalidRequest)
	}
	destination, err := resolveDestination(req.Destination)
	if err != nil {
		return BatchRequest{}, err
	}
	return BatchRequest{Kind: req.Kind, Sources: sources, Destination: destination}, nil
}
