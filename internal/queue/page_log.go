package queue

import (
	"context"
	"sync"

	"github.com/emrgen/page/internal/model"
)

// PageLogTopic is the default topic page log entries are published on.
var PageLogTopic = "page-logs"

type PageLogQueue interface {
	// Publish appends a committed page log entry to the queue.
	Publish(ctx context.Context, log *model.PageLog) error
	Close() error
}

var (
	_ PageLogQueue = NopPageLogQueue{}
	_ PageLogQueue = (*MemoryPageLogQueue)(nil)
)

type NopPageLogQueue struct{}

func (NopPageLogQueue) Publish(ctx context.Context, log *model.PageLog) error { return nil }
func (NopPageLogQueue) Close() error                                          { return nil }

// MemoryPageLogQueue buffers published entries on a channel.
// Close unblocks publishers waiting on a full buffer.
type MemoryPageLogQueue struct {
	mu     sync.RWMutex
	ch     chan *model.PageLog
	done   chan struct{}
	once   sync.Once
	closed bool
}

func NewMemoryPageLogQueue(size int) *MemoryPageLogQueue {
	return &MemoryPageLogQueue{
		ch:   make(chan *model.PageLog, size),
		done: make(chan struct{}),
	}
}

func (q *MemoryPageLogQueue) Publish(ctx context.Context, log *model.PageLog) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return ErrQueueClosed
	}

	select {
	case q.ch <- log:
		return nil
	case <-q.done:
		return ErrQueueClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Subscribe returns the channel entries are delivered on. It is closed by Close.
func (q *MemoryPageLogQueue) Subscribe() <-chan *model.PageLog {
	return q.ch
}

func (q *MemoryPageLogQueue) Close() error {
	q.once.Do(func() {
		// release blocked publishers before taking the write lock
		close(q.done)

		q.mu.Lock()
		defer q.mu.Unlock()
		q.closed = true
		close(q.ch)
	})

	return nil
}
