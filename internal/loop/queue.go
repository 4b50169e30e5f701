// Package loop provides the single logical thread every session mutation runs
// on. Background work (countdown ticks, ad callbacks, consent forms) never
// touches session state directly; it posts a closure here instead.
package loop

import (
	"context"
	"errors"
	"sync"
)

// PostFunc schedules fn to run on the loop. It returns false when the loop
// has been closed and fn was dropped.
type PostFunc func(fn func()) bool

// ErrClosed is returned by Next and Run once the queue is closed.
var ErrClosed = errors.New("loop: queue closed")

// Queue is a FIFO of closures executed one at a time by its consumer.
type Queue struct {
	ch        chan func()
	done      chan struct{}
	closeOnce sync.Once
}

// NewQueue creates a queue with the given buffer size.
func NewQueue(size int) *Queue {
	if size <= 0 {
		size = 1
	}
	return &Queue{
		ch:   make(chan func(), size),
		done: make(chan struct{}),
	}
}

// Post enqueues fn. It blocks while the buffer is full and returns false
// if the queue is closed first.
func (q *Queue) Post(fn func()) bool {
	if fn == nil {
		return false
	}
	select {
	case <-q.done:
		return false
	default:
	}
	select {
	case q.ch <- fn:
		return true
	case <-q.done:
		return false
	}
}

// Next waits for the next closure without running it.
func (q *Queue) Next(ctx context.Context) (func(), error) {
	select {
	case fn := <-q.ch:
		return fn, nil
	case <-q.done:
		return nil, ErrClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// RunNext waits for one closure and runs it on the calling goroutine.
func (q *Queue) RunNext(ctx context.Context) error {
	fn, err := q.Next(ctx)
	if err != nil {
		return err
	}
	fn()
	return nil
}

// RunPending runs every closure already queued and returns how many ran.
func (q *Queue) RunPending() int {
	n := 0
	for {
		select {
		case fn := <-q.ch:
			fn()
			n++
		default:
			return n
		}
	}
}

// Run executes closures until ctx is cancelled or the queue is closed.
func (q *Queue) Run(ctx context.Context) error {
	for {
		if err := q.RunNext(ctx); err != nil {
			if errors.Is(err, ErrClosed) {
				return nil
			}
			return err
		}
	}
}

// Close stops accepting work. Pending closures are discarded.
func (q *Queue) Close() {
	q.closeOnce.Do(func() { close(q.done) })
}
