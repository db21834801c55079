package services

import (
	"context"
	"sync"

	"gitlab.com/tozd/go/errors"
)

var errMailboxClosed = errors.Base("channel closed")

// mailbox is an unbounded single-consumer FIFO. Push never blocks, so the
// worker can report progress no matter how slowly the UI drains it.
type mailbox[T any] struct {
	mu       sync.Mutex
	items    []T
	closed   bool
	signal   chan struct{}
	closedCh chan struct{}
}

func newMailbox[T any]() *mailbox[T] {
	return &mailbox[T]{
		signal:   make(chan struct{}, 1),
		closedCh: make(chan struct{}),
	}
}

// Push appends item and reports whether the mailbox was still open.
func (box *mailbox[T]) Push(item T) bool {
	box.mu.Lock()
	if box.closed {
		box.mu.Unlock()
		return false
	}
	box.items = append(box.items, item)
	box.mu.Unlock()

	select {
	case box.signal <- struct{}{}:
	default:
	}
	return true
}

func (box *mailbox[T]) TryRecv() (T, bool) {
	box.mu.Lock()
	defer box.mu.Unlock()
	return box.popLocked()
}

// Recv waits for the next item. Items pushed before Close are still
// delivered; after that it returns errMailboxClosed.
func (box *mailbox[T]) Recv(ctx context.Context) (T, error) {
	for {
		box.mu.Lock()
		item, ok := box.popLocked()
		closed := box.closed
		box.mu.Unlock()
		if ok {
			return item, nil
		}
		if closed {
			var zero T
			return zero, errMailboxClosed
		}

		select {
		case <-box.signal:
		case <-box.closedCh:
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		}
	}
}

func (box *mailbox[T]) Close() {
	box.mu.Lock()
	defer box.mu.Unlock()
	if box.closed {
		return
	}
	box.closed = true
	close(box.closedCh)
}

func (box *mailbox[T]) Len() int {
	box.mu.Lock()
	defer box.mu.Unlock()
	return len(box.items)
}

func (box *mailbox[T]) popLocked() (T, bool) {
	var zero T
	if len(box.items) == 0 {
		return zero, false
	}
	item := box.items[0]
	box.items[0] = zero
	box.items = box.items[1:]
	return item, true
}
