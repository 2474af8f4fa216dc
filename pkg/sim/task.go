package sim

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrCancelled is reported by a Task that was cancelled before it ran.
var ErrCancelled = errors.New("simulated task cancelled")

// Task is a cancellable future for one simulated operation.
type Task struct {
	timer Timer
	done  chan struct{}
	once  sync.Once
	err   error
}

// Schedule runs fn on clock after d and returns a handle to it.
func Schedule(clock Clock, d time.Duration, fn func()) *Task {
	t := &Task{done: make(chan struct{})}
	t.timer = clock.AfterFunc(d, func() {
		fn()
		t.finish(nil)
	})
	return t
}

// Cancel stops the task if it has not started. It reports whether the
// call prevented fn from running.
func (t *Task) Cancel() bool {
	if t.timer.Stop() {
		t.finish(ErrCancelled)
		return true
	}
	return false
}

// Done is closed once the task ran or was cancelled.
func (t *Task) Done() <-chan struct{} { return t.done }

// Err is nil after a completed run and ErrCancelled after a cancellation.
// It must only be read after Done is closed.
func (t *Task) Err() error {
	<-t.done
	return t.err
}

func (t *Task) finish(err error) {
	t.once.Do(func() {
		t.err = err
		close(t.done)
	})
}

// Sleep blocks for d on clock, or until ctx is done.
func Sleep(ctx context.Context, clock Clock, d time.Duration) error {
	wake := make(chan struct{})
	timer := clock.AfterFunc(d, func() { close(wake) })
	select {
	case <-wake:
		return nil
	case <-ctx.Done():
		timer.Stop()
		return ctx.Err()
	}
}
