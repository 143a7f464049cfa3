// Package listingtest provides a hand-driven scheduler for tests of code
// built on listing.LoadingGate.
package listingtest

import (
	"sync"
	"time"

	"bitbucket.org/mmdatafocus/dashboard_backend/listing"
)

// ManualScheduler runs scheduled callbacks only when the test advances its
// clock.
type ManualScheduler struct {
	mu    sync.Mutex
	now   time.Duration
	tasks []*task
}

type task struct {
	due      time.Duration
	fn       func()
	disposed bool
	fired    bool
}

type handle struct {
	s *ManualScheduler
	t *task
}

func (h handle) Dispose() bool {
	h.s.mu.Lock()
	defer h.s.mu.Unlock()
	if h.t.disposed || h.t.fired {
		return false
	}
	h.t.disposed = true
	return true
}

// NewManualScheduler returns a scheduler at time zero.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

var _ listing.Scheduler = (*ManualScheduler)(nil)

func (s *ManualScheduler) AfterFunc(d time.Duration, f func()) listing.Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &task{due: s.now + d, fn: f}
	s.tasks = append(s.tasks, t)
	return handle{s: s, t: t}
}

// Advance moves the clock forward and runs every live task that became due.
func (s *ManualScheduler) Advance(d time.Duration) {
	s.mu.Lock()
	s.now += d
	var due []*task
	for _, t := range s.tasks {
		if !t.disposed && !t.fired && t.due <= s.now {
			t.fired = true
			due = append(due, t)
		}
	}
	s.mu.Unlock()

	for _, t := range due {
		t.fn()
	}
}

// FireDisposed runs callbacks that were disposed before they fired, as a
// runtime timer racing with Stop would.
func (s *ManualScheduler) FireDisposed() {
	s.mu.Lock()
	var stale []*task
	for _, t := range s.tasks {
		if t.disposed && !t.fired {
			t.fired = true
			stale = append(stale, t)
		}
	}
	s.mu.Unlock()

	for _, t := range stale {
		t.fn()
	}
}

// Pending returns the number of tasks that are neither fired nor disposed.
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.tasks {
		if !t.disposed && !t.fired {
			n++
		}
	}
	return n
}
