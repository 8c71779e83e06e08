// Package debounce coalesces bursts of calls into a single trailing call.
package debounce

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

type Option func(*options)

type options struct {
	clock clockwork.Clock
}

// WithClock replaces the real clock, mostly for tests.
func WithClock(clock clockwork.Clock) Option {
	return func(o *options) { o.clock = clock }
}

// Debouncer runs fn with the argument of the last Call once delay has passed without
// another Call. Intermediate arguments are dropped.
type Debouncer[T any] struct {
	clock clockwork.Clock
	delay time.Duration
	fn    func(T)

	mu      sync.Mutex
	timer   clockwork.Timer
	gen     uint64 // bumped by every Call/Cancel, a timer only fires for its own gen
	pending bool
	stopped bool
}

func New[T any](delay time.Duration, fn func(T), opts ...Option) *Debouncer[T] {
	o := options{clock: clockwork.NewRealClock()}
	for _, opt := range opts {
		opt(&o)
	}
	return &Debouncer[T]{clock: o.clock, delay: delay, fn: fn}
}

// Call (re)schedules fn(arg). It is a no-op once the debouncer is stopped.
func (d *Debouncer[T]) Call(arg T) {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.gen++
	gen := d.gen
	old := d.timer
	d.timer = nil
	d.pending = true
	d.mu.Unlock()

	// clock methods are never called under d.mu: a fake clock may run callbacks
	// while holding its own lock.
	if old != nil {
		old.Stop()
	}
	t := d.clock.AfterFunc(d.delay, func() { d.fire(gen, arg) })

	d.mu.Lock()
	current := d.gen == gen && !d.stopped
	if current {
		d.timer = t
	}
	d.mu.Unlock()
	if !current {
		t.Stop()
	}
}

func (d *Debouncer[T]) fire(gen uint64, arg T) {
	d.mu.Lock()
	if gen != d.gen || d.stopped {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	d.pending = false
	d.mu.Unlock()

	d.fn(arg)
}

// Cancel drops the pending call, if any. It reports whether something was dropped.
func (d *Debouncer[T]) Cancel() bool {
	d.mu.Lock()
	d.gen++
	t := d.timer
	d.timer = nil
	dropped := d.pending
	d.pending = false
	d.mu.Unlock()

	if t != nil {
		t.Stop()
	}
	return dropped
}

// Stop cancels the pending call and makes further calls no-ops.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	d.stopped = true
	d.mu.Unlock()
	d.Cancel()
}

// Pending reports whether a call is scheduled and has not fired yet.
func (d *Debouncer[T]) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}
