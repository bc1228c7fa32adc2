package game

import (
	"context"
	"slices"
	"sync"
	"time"
)

// FrameLoop is a Scheduler driven by a ticker on a single goroutine. Scheduled
// callbacks run on the next tick; posted commands run between ticks on the same
// goroutine, so everything that touches bodies is serialized without locks.
type FrameLoop struct {
	interval time.Duration

	mu      sync.Mutex
	next    Handle
	pending map[Handle]func()

	commands chan func()
	done     chan struct{}
}

// NewFrameLoop creates a loop refreshing rate times per second.
func NewFrameLoop(rate int) *FrameLoop {
	if rate <= 0 {
		rate = 60
	}
	return &FrameLoop{
		interval: time.Second / time.Duration(rate),
		pending:  make(map[Handle]func()),
		commands: make(chan func(), 64),
		done:     make(chan struct{}),
	}
}

// Schedule queues fn for the next refresh.
func (l *FrameLoop) Schedule(fn func()) Handle {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.next++
	l.pending[l.next] = fn
	return l.next
}

// Cancel drops a pending callback. Unknown or already-run handles are ignored.
func (l *FrameLoop) Cancel(h Handle) {
	l.mu.Lock()
	delete(l.pending, h)
	l.mu.Unlock()
}

// Post runs fn on the loop goroutine. It returns false once the loop has stopped.
func (l *FrameLoop) Post(fn func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}
	select {
	case l.commands <- fn:
		return true
	case <-l.done:
		return false
	}
}

// Do runs fn on the loop goroutine and waits for it to finish.
func (l *FrameLoop) Do(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	if !l.Post(func() {
		defer close(finished)
		fn()
	}) {
		return context.Canceled
	}
	select {
	case <-finished:
		return nil
	case <-l.done:
		return context.Canceled
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Done is closed when Run returns.
func (l *FrameLoop) Done() <-chan struct{} {
	return l.done
}

// Run drives the loop until ctx is cancelled. Callbacks still pending at that point
// are discarded without running.
func (l *FrameLoop) Run(ctx context.Context) {
	ticker := time.NewTicker(l.interval)
	defer func() {
		ticker.Stop()
		l.mu.Lock()
		l.pending = make(map[Handle]func())
		l.mu.Unlock()
		close(l.done)
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case fn := <-l.commands:
			fn()
		case <-ticker.C:
			l.refresh(ctx)
		}
	}
}

// refresh runs the callbacks that were pending when the tick fired, in handle order.
// Callbacks scheduled while running wait for the next tick.
func (l *FrameLoop) refresh(ctx context.Context) {
	l.mu.Lock()
	if len(l.pending) == 0 {
		l.mu.Unlock()
		return
	}
	due := l.pending
	l.pending = make(map[Handle]func())
	l.mu.Unlock()

	handles := make([]Handle, 0, len(due))
	for h := range due {
		handles = append(handles, h)
	}
	slices.Sort(handles)
	for _, h := range handles {
		if ctx.Err() != nil {
			return
		}
		due[h]()
	}
}
