package events

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

var (
	ErrQueueFull = errors.New("event queue is full")
	ErrClosed    = errors.New("event publisher is closed")
)

// Async hands events to a background worker so callers never wait on a
// slow downstream. Each delivery gets its own timeout, detached from the
// caller's context.
type Async struct {
	next    Publisher
	timeout time.Duration
	log     *zap.Logger

	mu     sync.RWMutex
	closed bool
	queue  chan Event
	done   chan struct{}
}

func NewAsync(next Publisher, size int, timeout time.Duration, log *zap.Logger) *Async {
	a := &Async{
		next:    next,
		timeout: timeout,
		log:     log,
		queue:   make(chan Event, size),
		done:    make(chan struct{}),
	}
	go a.run()
	return a
}

// Publish enqueues ev and returns immediately. A full queue drops the
// event.
func (a *Async) Publish(_ context.Context, ev Event) error {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.closed {
		return ErrClosed
	}
	select {
	case a.queue <- ev:
		return nil
	default:
		return ErrQueueFull
	}
}

func (a *Async) run() {
	defer close(a.done)
	for ev := range a.queue {
		ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
		if err := a.next.Publish(ctx, ev); err != nil {
			a.log.Warn("deliver event failed",
				zap.String("type", ev.Type),
				zap.String("key", ev.Key),
				zap.Error(err))
		}
		cancel()
	}
}

// Close stops accepting events and waits until the queued ones are
// delivered or ctx ends.
func (a *Async) Close(ctx context.Context) error {
	a.mu.Lock()
	if !a.closed {
		a.closed = true
		close(a.queue)
	}
	a.mu.Unlock()

	select {
	case <-a.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
