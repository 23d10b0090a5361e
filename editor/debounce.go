// Package editor drives live re-analysis of an article being edited.
package editor

import (
	"sync"
	"time"
)

// Debouncer coalesces rapid edits into a single recompute.
//
// Every Trigger starts a new round. A timer that already fired when it was
// replaced or stopped still checks its round before running, so a superseded
// round never reaches the callback.
type Debouncer struct {
	window   time.Duration
	mu       sync.Mutex
	timer    *time.Timer
	round    uint64
	callback func()
}

// NewDebouncer creates a debouncer with the given quiet window.
func NewDebouncer(window time.Duration, callback func()) *Debouncer {
	return &Debouncer{
		window:   window,
		callback: callback,
	}
}

// Trigger restarts the quiet window. The callback fires once the window
// elapses with no further triggers.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.round++
	round := d.round
	d.timer = time.AfterFunc(d.window, func() { d.fire(round) })
}

// Stop cancels the pending round and reports whether one was waiting.
func (d *Debouncer) Stop() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	pending := d.timer != nil
	if pending {
		d.timer.Stop()
		d.timer = nil
	}
	d.round++
	return pending
}

func (d *Debouncer) fire(round uint64) {
	d.mu.Lock()
	if round != d.round {
		d.mu.Unlock()
		return
	}
	d.timer = nil
	d.mu.Unlock()

	d.callback()
}
