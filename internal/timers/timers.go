// Package timers provides named, cancellable timers.
//
// Every timer is keyed by its purpose ("poll:weather", "gate:nest",
// "reconnect"). Scheduling a name that is already pending replaces the old
// timer, so a purpose can never have two live timers at once.
package timers

import (
	"sort"
	"sync"
	"time"
)

// Scheduler owns a set of named timers. The zero value is not usable; use
// New.
type Scheduler struct {
	mu      sync.Mutex
	entries map[string]*entry
	nextID  uint64
	stopped bool
}

type entry struct {
	id       uint64
	timer    *time.Timer
	interval time.Duration // zero for one-shot timers
	fn       func()
}

// New returns an empty Scheduler.
func New() *Scheduler {
	return &Scheduler{entries: make(map[string]*entry)}
}

// After runs fn once after d, replacing any timer named name.
func (s *Scheduler) After(name string, d time.Duration, fn func()) {
	s.schedule(name, d, 0, fn, true)
}

// Every runs fn every d, replacing any timer named name. The first run is
// after one full interval.
func (s *Scheduler) Every(name string, d time.Duration, fn func()) {
	if d <= 0 {
		return
	}
	s.schedule(name, d, d, fn, true)
}

// Ensure runs fn once after d unless a timer named name is already
// pending. It reports whether a new timer was scheduled.
func (s *Scheduler) Ensure(name string, d time.Duration, fn func()) bool {
	return s.schedule(name, d, 0, fn, false)
}

// Cancel stops the timer named name. It reports whether one was pending.
func (s *Scheduler) Cancel(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[name]
	if !ok {
		return false
	}
	e.timer.Stop()
	delete(s.entries, name)
	return true
}

// Active reports whether a timer named name is pending.
func (s *Scheduler) Active(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.entries[name]
	return ok
}

// Names returns the pending timer names in sorted order.
func (s *Scheduler) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.entries))
	for name := range s.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Stop cancels every timer. Later scheduling calls are ignored.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for name, e := range s.entries {
		e.timer.Stop()
		delete(s.entries, name)
	}
	s.stopped = true
}

func (s *Scheduler) schedule(name string, d, interval time.Duration, fn func(), replace bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped || fn == nil {
		return false
	}
	if old, ok := s.entries[name]; ok {
		if !replace {
			return false
		}
		old.timer.Stop()
	}
	s.nextID++
	e := &entry{id: s.nextID, interval: interval, fn: fn}
	e.timer = time.AfterFunc(d, func() { s.fire(name, e.id) })
	s.entries[name] = e
	return true
}

// fire runs a timer callback outside the lock. A callback whose entry was
// cancelled or replaced after the runtime timer fired is dropped.
func (s *Scheduler) fire(name string, id uint64) {
	s.mu.Lock()
	e, ok := s.entries[name]
	if !ok || e.id != id {
		s.mu.Unlock()
		return
	}
	if e.interval > 0 {
		e.timer.Reset(e.interval)
	} else {
		delete(s.entries, name)
	}
	fn := e.fn
	s.mu.Unlock()

	fn()
}
