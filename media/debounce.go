package media

import (
	"sync"
	"time"
)

// DefaultDebounce is the quiet period a Watcher waits for before reporting.
const DefaultDebounce = 250 * time.Millisecond

// debouncer runs only the last of a burst of triggers, once the burst has
// been quiet for the configured duration.
type debouncer struct {
	wait time.Duration

	mu    sync.Mutex
	timer *time.Timer
	seq   uint64
}

func newDebouncer(wait time.Duration) *debouncer {
	if wait <= 0 {
		wait = DefaultDebounce
	}
	return &debouncer{wait: wait}
}

func (d *debouncer) trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seq++
	seq := d.seq
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.wait, func() {
		d.mu.Lock()
		// A timer that fired while being replaced must not run.
		current := seq == d.seq
		if current {
			d.timer = nil
		}
		d.mu.Unlock()
		if current {
			fn()
		}
	})
}

func (d *debouncer) cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seq++
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
