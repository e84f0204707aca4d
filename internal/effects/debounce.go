package effects

import (
	"sync"
	"time"
)

// DefaultDebounce is the quiet period before a search query is sent
const DefaultDebounce = 300 * time.Millisecond

// Debouncer coalesces rapid values: fn receives the last pushed value once
// no new value has arrived for delay.
type Debouncer struct {
	delay time.Duration
	fn    func(string)

	mu      sync.Mutex
	timer   *time.Timer
	seq     uint64
	stopped bool
}

// NewDebouncer creates a debouncer calling fn after delay of quiet
func NewDebouncer(delay time.Duration, fn func(string)) *Debouncer {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Debouncer{delay: delay, fn: fn}
}

// Push records v and restarts the quiet period
func (d *Debouncer) Push(v string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.seq++
	seq := d.seq
	d.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		current := seq == d.seq && !d.stopped
		if current {
			d.timer = nil
		}
		d.mu.Unlock()
		if current {
			d.fn(v)
		}
	})
}

// Cancel drops the pending value, if any
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seq++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// Stop cancels the pending value and ignores later pushes
func (d *Debouncer) Stop() {
	d.Cancel()
	d.mu.Lock()
	d.stopped = true
	d.mu.Unlock()
}
