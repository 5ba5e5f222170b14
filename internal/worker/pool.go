// Package worker runs short background tasks on a bounded pool.
package worker

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/semaphore"
)

// ErrClosed is returned by tasks submitted after Close.
var ErrClosed = errors.New("worker pool closed")

// Pool bounds the number of tasks running at once.
type Pool struct {
	sem    *semaphore.Weighted
	size   int
	wg     sync.WaitGroup
	mu     sync.RWMutex
	closed bool
}

// NewPool creates a Pool running at most size tasks concurrently.
func NewPool(size int) *Pool {
	if size <= 0 {
		size = 1
	}
	return &Pool{
		sem:  semaphore.NewWeighted(int64(size)),
		size: size,
	}
}

// Size returns the concurrency bound.
func (p *Pool) Size() int { return p.size }

// Task is the pending result of a submitted function.
type Task[T any] struct {
	done   chan struct{}
	cancel context.CancelFunc
	val    T
	err    error
}

// Submit schedules fn on p. fn receives a context that is cancelled when the
// parent ctx is done or the caller gives up on the task via Wait.
func Submit[T any](ctx context.Context, p *Pool, fn func(ctx context.Context) (T, error)) *Task[T] {
	taskCtx, cancel := context.WithCancel(ctx)
	t := &Task[T]{done: make(chan struct{}), cancel: cancel}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		t.err = ErrClosed
		cancel()
		close(t.done)
		return t
	}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer close(t.done)
		defer cancel()

		if err := p.sem.Acquire(taskCtx, 1); err != nil {
			t.err = err
			return
		}
		defer p.sem.Release(1)

		t.val, t.err = fn(taskCtx)
	}()

	return t
}

// Wait blocks until the task finishes or ctx is done. When ctx wins the task
// is cancelled and ctx's error is returned.
func (t *Task[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-t.done:
		return t.val, t.err
	case <-ctx.Done():
		t.cancel()
		var zero T
		return zero, ctx.Err()
	}
}

// Cancel asks the task to stop without waiting for it.
func (t *Task[T]) Cancel() { t.cancel() }

// Close stops accepting tasks and waits for running ones.
func (p *Pool) Close() {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	p.wg.Wait()
}
