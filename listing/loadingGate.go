package listing

import (
	"sync"
	"time"
)

// GateState is the rendering state of a screen.
type GateState int

const (
	GateInit GateState = iota
	GateLoading
	GateReady
)

func (s GateState) String() string {
	switch s {
	case GateLoading:
		return "loading"
	case GateReady:
		return "ready"
	default:
		return "init"
	}
}

func (s GateState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Handle is a scheduled task that has not necessarily run yet. Dispose
// cancels it and reports whether it was still pending.
type Handle interface {
	Dispose() bool
}

// Scheduler runs f once after d.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Handle
}

type timerScheduler struct{}

type timerHandle struct {
	t *time.Timer
}

func (h timerHandle) Dispose() bool { return h.t.Stop() }

func (timerScheduler) AfterFunc(d time.Duration, f func()) Handle {
	return timerHandle{t: time.AfterFunc(d, f)}
}

// SystemScheduler schedules on runtime timers.
func SystemScheduler() Scheduler { return timerScheduler{} }

// LoadingGate delays exposure of a screen's lists until a fixed time after it
// was armed. A transition scheduled by an earlier arming, or one that fires
// after Teardown, is discarded.
type LoadingGate struct {
	mu         sync.Mutex
	delay      time.Duration
	scheduler  Scheduler
	state      GateState
	generation uint64
	closed     bool
	pending    Handle
	onReady    func()
}

// NewLoadingGate returns a gate in GateInit. A nil scheduler uses runtime
// timers.
func NewLoadingGate(delay time.Duration, scheduler Scheduler) *LoadingGate {
	if scheduler == nil {
		scheduler = SystemScheduler()
	}
	return &LoadingGate{delay: delay, scheduler: scheduler}
}

// OnReady registers a callback run after each Loading -> Ready transition,
// outside the gate's lock.
func (g *LoadingGate) OnReady(fn func()) {
	g.mu.Lock()
	g.onReady = fn
	g.mu.Unlock()
}

// State returns the current state.
func (g *LoadingGate) State() GateState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Ready reports whether lists may be rendered.
func (g *LoadingGate) Ready() bool {
	return g.State() == GateReady
}

// Arm enters Loading and schedules the Ready transition, cancelling any
// transition still pending from an earlier arming. Arming a torn down gate
// reopens it.
func (g *LoadingGate) Arm() {
	g.mu.Lock()
	g.cancelLocked()
	g.closed = false
	g.state = GateLoading
	gen := g.generation

	if g.delay <= 0 {
		g.mu.Unlock()
		g.fire(gen)
		return
	}
	g.pending = g.scheduler.AfterFunc(g.delay, func() { g.fire(gen) })
	g.mu.Unlock()
}

// Teardown cancels the pending transition. The state is left as it was and no
// callback scheduled before Teardown can change it.
func (g *LoadingGate) Teardown() {
	g.mu.Lock()
	g.cancelLocked()
	g.closed = true
	g.mu.Unlock()
}

func (g *LoadingGate) cancelLocked() {
	if g.pending != nil {
		g.pending.Dispose()
		g.pending = nil
	}
	g.generation++
}

func (g *LoadingGate) fire(gen uint64) {
	g.mu.Lock()
	if g.closed || gen != g.generation || g.state != GateLoading {
		g.mu.Unlock()
		return
	}
	g.state = GateReady
	g.pending = nil
	cb := g.onReady
	g.mu.Unlock()

	if cb != nil {
		cb()
	}
}
