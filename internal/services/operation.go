package services

import (
	"context"
	"sync"

	"gitlab.com/tozd/go/errors"
)

var (
	ErrNoConflict = errors.Base("no conflict is waiting for a decision")
	ErrReleased   = errors.Base("operation already released")
)

// Operation is the consumer's handle on a running batch: it reads the
// progress stream, answers conflicts and requests cancellation.
type Operation struct {
	ID      string
	Request BatchRequest

	cancel    *CancelFlag
	progress  *mailbox[ProgressUpdate]
	decisions *mailbox[Decision]
	done      chan struct{}

	mu       sync.Mutex
	pending  int
	last     ProgressUpdate
	released bool
}

// Poll returns the next progress update without blocking.
func (op *Operation) Poll() (ProgressUpdate, bool) {
	update, ok := op.progress.TryRecv()
	if ok {
		op.observe(update)
	}
	return update, ok
}

// Next blocks until the next progress update. It returns false once the
// stream has ended or ctx is done.
func (op *Operation) Next(ctx context.Context) (ProgressUpdate, bool) {
	update, err := op.progress.Recv(ctx)
	if err != nil {
		return ProgressUpdate{}, false
	}
	op.observe(update)
	return update, true
}

// Decide answers the conflict the worker is waiting on.
func (op *Operation) Decide(decision Decision) error {
	op.mu.Lock()
	defer op.mu.Unlock()
	if op.released {
		return ErrReleased
	}
	if op.pending == 0 {
		return ErrNoConflict
	}
	op.pending--
	op.decisions.Push(decision)
	return nil
}

// Cancel asks the worker to stop at its next checkpoint.
func (op *Operation) Cancel() {
	op.cancel.Set()
}

func (op *Operation) Cancelled() bool {
	return op.cancel.IsSet()
}

// Release closes the decision channel. A worker still waiting for a decision
// ends the batch with an error. Safe to call more than once.
func (op *Operation) Release() {
	op.mu.Lock()
	defer op.mu.Unlock()
	if op.released {
		return
	}
	op.released = true
	op.decisions.Close()
}

// Last returns the most recent update the consumer has seen.
func (op *Operation) Last() ProgressUpdate {
	op.mu.Lock()
	defer op.mu.Unlock()
	return op.last
}

func (op *Operation) Done() <-chan struct{} {
	return op.done
}

func (op *Operation) Wait() {
	<-op.done
}

func (op *Operation) observe(update ProgressUpdate) {
	op.mu.Lock()
	defer op.mu.Unlock()
	if update.Conflict != "" {
		op.pending++
	}
	op.last = update
}
