// Package timer provides a registry of keyed single-shot countdown timers.
//
// Each combat room owns one timer id; arming an id that is already live
// cancels the previous timer first, so no two expiry callbacks can ever be
// in flight for the same id.
package timer

import (
	"sync"
	"time"
)

// entry is the bookkeeping record for one timer id.
type entry struct {
	timer    *time.Timer
	duration time.Duration
	start    time.Time
	stopped  bool
}

// Registry manages keyed countdown timers. All methods are safe for
// concurrent use. Expiry callbacks run on their own goroutine; callers are
// responsible for their own serialization.
type Registry struct {
	mu     sync.Mutex
	timers map[string]*entry
}

// NewRegistry creates an empty timer Registry.
func NewRegistry() *Registry {
	return &Registry{timers: make(map[string]*entry)}
}

// Start arms a single-shot countdown under id. Any existing timer under id
// is canceled first.
//
// Precondition: duration > 0; onExpire must be non-nil.
// Postcondition: onExpire fires once after duration unless Stop, Clear,
// Delete, or a subsequent Start intervenes.
func (r *Registry) Start(id string, duration time.Duration, onExpire func()) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.cancelLocked(id)

	e := &entry{
		duration: duration,
		start:    time.Now(),
	}
	e.timer = time.AfterFunc(duration, func() {
		r.mu.Lock()
		stopped := e.stopped
		r.mu.Unlock()
		if !stopped {
			onExpire()
		}
	})
	r.timers[id] = e
}

// Stop cancels the pending expiry for id without removing the bookkeeping
// entry. No-op if id is unknown.
func (r *Registry) Stop(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cancelLocked(id)
}

// Clear stops the timer and resets its entry's fields to zero values.
// Idempotent; no-op if id is unknown.
func (r *Registry) Clear(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.timers[id]; !ok {
		return
	}
	r.cancelLocked(id)
	r.timers[id] = &entry{stopped: true}
}

// Remaining returns max(0, duration-elapsed) for id. The second return is
// false when id is not present.
func (r *Registry) Remaining(id string) (time.Duration, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.timers[id]
	if !ok {
		return 0, false
	}
	left := e.duration - time.Since(e.start)
	if left < 0 {
		left = 0
	}
	return left, true
}

// Delete stops the timer and removes its entry entirely. No-op if id is
// unknown.
func (r *Registry) Delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cancelLocked(id)
	delete(r.timers, id)
}

// cancelLocked marks the current entry stopped and halts its underlying
// timer. Callers must hold r.mu.
func (r *Registry) cancelLocked(id string) {
	if e, ok := r.timers[id]; ok {
		e.stopped = true
		if e.timer != nil {
			e.timer.Stop()
		}
	}
}
