package session

import (
	"sync"
	"time"
)

// Debouncer runs fire once delay has passed without another Trigger.
// fire runs on the timer's goroutine.
type Debouncer struct {
	mu    sync.Mutex
	delay time.Duration
	fire  func()
	t     *time.Timer
}

func NewDebouncer(delay time.Duration, fire func()) *Debouncer {
	return &Debouncer{delay: delay, fire: fire}
}

// Trigger (re)starts the countdown.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.t != nil {
		d.t.Stop()
	}
	d.t = time.AfterFunc(d.delay, d.fire)
}

// Stop cancels a pending countdown and reports whether one was pending.
func (d *Debouncer) Stop() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.t == nil {
		return false
	}
	pending := d.t.Stop()
	d.t = nil
	return pending
}
