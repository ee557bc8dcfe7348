package filtersync

import (
	"sync"
	"time"
)

const DefaultDelay = 300 * time.Millisecond

type Timer interface {
	Stop() bool
}

// Scheduler runs f once after d. Tests substitute a manual clock.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realScheduler struct{}

func (realScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// RealScheduler is backed by time.AfterFunc.
var RealScheduler Scheduler = realScheduler{}

type pending struct {
	timer Timer
	gen   uint64
}

// Debouncer keeps at most one pending call per key. Triggering a key again
// before its delay elapses replaces the pending call, so only the last one
// runs.
type Debouncer struct {
	sched Scheduler
	delay time.Duration

	mu      sync.Mutex
	gen     uint64
	pending map[string]pending
}

func NewDebouncer(sched Scheduler, delay time.Duration) *Debouncer {
	if sched == nil {
		sched = RealScheduler
	}
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Debouncer{
		sched:   sched,
		delay:   delay,
		pending: make(map[string]pending),
	}
}

func (d *Debouncer) Trigger(key string, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if p, ok := d.pending[key]; ok {
		p.timer.Stop()
	}
	d.gen++
	gen := d.gen
	t := d.sched.AfterFunc(d.delay, func() { d.fire(key, gen, fn) })
	d.pending[key] = pending{timer: t, gen: gen}
}

// fire runs fn only if no newer trigger superseded it; a Stop that lost the
// race with the timer is caught here.
func (d *Debouncer) fire(key string, gen uint64, fn func()) {
	d.mu.Lock()
	p, ok := d.pending[key]
	if !ok || p.gen != gen {
		d.mu.Unlock()
		return
	}
	delete(d.pending, key)
	d.mu.Unlock()

	fn()
}

func (d *Debouncer) Cancel(key string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if p, ok := d.pending[key]; ok {
		p.timer.Stop()
		delete(d.pending, key)
	}
}

// Stop cancels every pending call.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for key, p := range d.pending {
		p.timer.Stop()
		delete(d.pending, key)
	}
}

func (d *Debouncer) Pending(key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.pending[key]
	return ok
}
