// Package debounce runs a function once a burst of triggers has gone quiet.
//
// A Debouncer owns at most one pending timer. Trigger cancels whatever is
// pending and schedules a fresh run; Stop is the single disposal path and
// leaves the Debouncer inert, so a component can defer it on teardown and
// never see a stray run afterwards:
//
//	d := debounce.New(500*time.Millisecond, sync)
//	defer d.Stop()
//	for key := range keystrokes {
//	    d.Trigger()
//	}
package debounce

import (
	"sync"
	"time"
)

// Timer is the handle returned by a Clock.
type Timer interface {
	// Stop prevents the timer from firing. It reports whether the call
	// stopped the timer before it fired.
	Stop() bool
}

// Clock schedules delayed callbacks.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// SystemClock schedules with time.AfterFunc.
type SystemClock struct{}

// AfterFunc implements Clock.
func (SystemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Option configures a Debouncer.
type Option func(*Debouncer)

// WithClock replaces the system clock, typically with a manual test clock.
func WithClock(c Clock) Option {
	return func(d *Debouncer) {
		if c != nil {
			d.clock = c
		}
	}
}

// Debouncer delays fn until no Trigger has happened for delay.
type Debouncer struct {
	delay time.Duration
	fn    func()
	clock Clock

	mu      sync.Mutex
	timer   Timer
	gen     uint64
	stopped bool
}

// New creates a Debouncer. A non-positive delay runs fn synchronously on
// every Trigger.
func New(delay time.Duration, fn func(), opts ...Option) *Debouncer {
	d := &Debouncer{
		delay: delay,
		fn:    fn,
		clock: SystemClock{},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Delay returns the quiet period.
func (d *Debouncer) Delay() time.Duration {
	return d.delay
}

// Trigger (re)starts the quiet period. Any run scheduled by an earlier
// Trigger is cancelled. After Stop, Trigger does nothing.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.cancelLocked()

	if d.delay <= 0 {
		d.mu.Unlock()
		d.fn()
		return
	}

	gen := d.gen
	d.timer = d.clock.AfterFunc(d.delay, func() { d.fire(gen) })
	d.mu.Unlock()
}

// fire runs fn unless the timer was superseded or cancelled after the
// clock had already committed to calling it.
func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	if d.stopped || gen != d.gen {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	d.gen++
	d.mu.Unlock()

	d.fn()
}

// Flush runs a pending fn now instead of waiting for the quiet period. It
// reports whether fn ran; with nothing pending, or after Stop, it does
// nothing. A timer that fires concurrently does not run fn a second time.
func (d *Debouncer) Flush() bool {
	d.mu.Lock()
	if d.stopped || d.timer == nil {
		d.mu.Unlock()
		return false
	}
	d.cancelLocked()
	d.mu.Unlock()

	d.fn()
	return true
}

// Cancel drops the pending run, if any. The Debouncer stays usable.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	d.cancelLocked()
	d.mu.Unlock()
}

// Stop cancels the pending run and disables the Debouncer. It is safe to
// call more than once.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	d.cancelLocked()
	d.stopped = true
	d.mu.Unlock()
}

// Pending reports whether a run is scheduled.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// Stopped reports whether Stop has been called.
func (d *Debouncer) Stopped() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stopped
}

func (d *Debouncer) cancelLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	// Bumping the generation also invalidates a callback that is already
	// running towards fire.
	d.gen++
}
