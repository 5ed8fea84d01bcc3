// Package debounce provides a cancellable debounce primitive for coalescing
// bursts of side effects (draft autosave, search persistence) into a single
// trailing call.
package debounce

import (
	"sync"
	"time"
)

type pending struct {
	timer *time.Timer
	fn    func()
}

// Debouncer coalesces calls per key: only the last function handed to Call
// within the delay window runs. Close cancels all pending timers so no
// callback fires after teardown.
type Debouncer struct {
	delay   time.Duration
	mu      sync.Mutex
	entries map[string]*pending
	closed  bool
}

// New creates a Debouncer with the given trailing delay.
func New(delay time.Duration) *Debouncer {
	return &Debouncer{
		delay:   delay,
		entries: make(map[string]*pending),
	}
}

// Call schedules fn to run after the delay, replacing any pending call for
// the same key. After Close, Call is a no-op.
func (d *Debouncer) Call(key string, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return
	}

	if entry, ok := d.entries[key]; ok {
		entry.timer.Stop()
	}

	entry := &pending{fn: fn}
	entry.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		if d.closed || d.entries[key] != entry {
			d.mu.Unlock()
			return
		}
		delete(d.entries, key)
		d.mu.Unlock()

		fn()
	})
	d.entries[key] = entry
}

// Flush runs any pending call for the key immediately instead of waiting
// out the delay.
func (d *Debouncer) Flush(key string) {
	d.mu.Lock()
	entry, ok := d.entries[key]
	if ok {
		entry.timer.Stop()
		delete(d.entries, key)
	}
	d.mu.Unlock()

	if ok {
		entry.fn()
	}
}

// Cancel drops any pending call for the key without running it.
func (d *Debouncer) Cancel(key string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if entry, ok := d.entries[key]; ok {
		entry.timer.Stop()
		delete(d.entries, key)
	}
}

// Close cancels every pending call. Subsequent Call invocations are no-ops.
func (d *Debouncer) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.closed = true
	for key, entry := range d.entries {
		entry.timer.Stop()
		delete(d.entries, key)
	}
}
