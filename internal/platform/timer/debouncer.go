package timer

import (
	"sync"
	"time"
)

// Debouncer runs a callback for a key once the key has been quiet for the
// configured delay. Every Touch re-arms the key's timer.
type Debouncer[K comparable] struct {
	mu      sync.Mutex
	delay   time.Duration
	fire    func(K)
	pending map[K]*time.Timer
	stopped bool
}

func NewDebouncer[K comparable](delay time.Duration, fire func(K)) *Debouncer[K] {
	return &Debouncer[K]{
		delay:   delay,
		fire:    fire,
		pending: make(map[K]*time.Timer),
	}
}

// Touch (re)starts the quiet period for key. It reports whether key was new.
func (d *Debouncer[K]) Touch(key K) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return false
	}
	if t, ok := d.pending[key]; ok {
		t.Stop()
		d.pending[key] = d.arm(key)
		return false
	}
	d.pending[key] = d.arm(key)
	return true
}

// Cancel forgets key without firing.
func (d *Debouncer[K]) Cancel(key K) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if t, ok := d.pending[key]; ok {
		t.Stop()
		delete(d.pending, key)
	}
}

// Pending reports whether key has an armed timer.
func (d *Debouncer[K]) Pending(key K) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.pending[key]
	return ok
}

func (d *Debouncer[K]) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}

// Stop cancels every pending key. Later Touch calls are ignored.
func (d *Debouncer[K]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	for key, t := range d.pending {
		t.Stop()
		delete(d.pending, key)
	}
}

func (d *Debouncer[K]) arm(key K) *time.Timer {
	var t *time.Timer
	t = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		current, ok := d.pending[key]
		if !ok || current != t {
			d.mu.Unlock()
			return
		}
		delete(d.pending, key)
		d.mu.Unlock()

		if d.fire != nil {
			d.fire(key)
		}
	})
	return t
}
