package queue

import (
	"context"
	"testing"
	"time"

	"github.com/emrgen/page/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryPageLogQueue(t *testing.T) {
	q := NewMemoryPageLogQueue(2)
	ctx := context.Background()

	first := &model.PageLog{PageID: "p1", Transaction: "t1", EntityName: model.EntityIssue}
	second := &model.PageLog{PageID: "p1", Transaction: "t2", EntityName: model.EntityImage}
	require.NoError(t, q.Publish(ctx, first))
	require.NoError(t, q.Publish(ctx, second))

	assert.Same(t, first, <-q.Subscribe())
	assert.Same(t, second, <-q.Subscribe())

	require.NoError(t, q.Close())
	require.NoError(t, q.Close())
	assert.ErrorIs(t, q.Publish(ctx, first), ErrQueueClosed)

	_, open := <-q.Subscribe()
	assert.False(t, open)
}

func TestMemoryPageLogQueueFull(t *testing.T) {
	q := NewMemoryPageLogQueue(1)
	require.NoError(t, q.Publish(context.Background(), &model.PageLog{}))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	assert.ErrorIs(t, q.Publish(ctx, &model.PageLog{}), context.DeadlineExceeded)
}

func TestMemoryPageLogQueueCloseReleasesBlockedPublisher(t *testing.T) {
	q := NewMemoryPageLogQueue(1)
	require.NoError(t, q.Publish(context.Background(), &model.PageLog{}))

	published := make(chan error, 1)
	go func() {
		published <- q.Publish(context.Background(), &model.PageLog{})
	}()

	closed := make(chan struct{})
	go func() {
		_ = q.Close()
		close(closed)
	}()

	select {
	case <-closed:
	case <-time.After(time.Second):
		t.Fatal("close blocked behind a waiting publisher")
	}

	select {
	case err := <-published:
		assert.ErrorIs(t, err, ErrQueueClosed)
	case <-time.After(time.Second):
		t.Fatal("publisher still blocked after close")
	}
}

func TestNopPageLogQueue(t *testing.T) {
	var q PageLogQueue = NopPageLogQueue{}
	assert.NoError(t, q.Publish(context.Background(), &model.PageLog{}))
	assert.NoError(t, q.Close())
}
