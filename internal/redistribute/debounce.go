package redistribute

import (
	"sync"
	"time"

	"github.com/HendryAvila/formweight/internal/form"
)

// Debouncer batches rapid edits to one question. Each Trigger replaces the
// pending option vector and restarts the delay; fn runs once with the
// latest vector when the delay passes without another Trigger.
//
// A Debouncer belongs to exactly one question and is owned by whoever
// edits it. Calls to fn never overlap.
type Debouncer struct {
	delay time.Duration
	fn    func([]form.Option)

	run sync.Mutex // held while fn runs; taken before mu

	mu         sync.Mutex
	timer      *time.Timer
	pending    []form.Option
	hasPending bool
	seq        uint64
	stopped    bool
}

// NewDebouncer returns a Debouncer that calls fn delay after the last
// Trigger.
func NewDebouncer(delay time.Duration, fn func([]form.Option)) *Debouncer {
	return &Debouncer{delay: delay, fn: fn}
}

// Trigger records opts as the latest state and restarts the delay. It is
// a no-op after Stop.
func (d *Debouncer) Trigger(opts []form.Option) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	d.pending = form.CloneOptions(opts)
	d.hasPending = true
	d.seq++
	seq := d.seq
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, func() { d.fire(seq) })
}

// Flush runs fn now with the pending vector, if any, and reports whether
// it did. When a delayed call is already running, Flush waits for it.
func (d *Debouncer) Flush() bool {
	d.run.Lock()
	defer d.run.Unlock()
	d.mu.Lock()
	opts, ok := d.take()
	d.mu.Unlock()
	if ok {
		d.fn(opts)
	}
	return ok
}

// Pending reports whether an edit is waiting for the delay.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.hasPending
}

// Stop drops any pending edit and disables the Debouncer.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	d.take()
}

func (d *Debouncer) fire(seq uint64) {
	d.run.Lock()
	defer d.run.Unlock()
	d.mu.Lock()
	if seq != d.seq {
		d.mu.Unlock()
		return
	}
	opts, ok := d.take()
	d.mu.Unlock()
	if ok {
		d.fn(opts)
	}
}

// take clears the pending state. d.mu must be held.
func (d *Debouncer) take() ([]form.Option, bool) {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	if !d.hasPending {
		return nil, false
	}
	opts := d.pending
	d.pending = nil
	d.hasPending = false
	d.seq++
	return opts, true
}

