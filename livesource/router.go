package livesource

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"bitbucket.org/mmdatafocus/dashboard_backend/utils"
)

var ErrUnknownOp = errors.New("unknown live update op")

// Sink is a typed store that can apply a raw update.
type Sink interface {
	Apply(u Update) error
}

// Router dispatches updates to the sink registered for their screen.
type Router struct {
	mu    sync.RWMutex
	sinks map[string]Sink
}

func NewRouter() *Router {
	return &Router{sinks: make(map[string]Sink)}
}

func (r *Router) Register(screen string, sink Sink) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sinks[screen] = sink
}

func (r *Router) Screens() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.sinks))
	for k := range r.sinks {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Apply routes u. Unknown screens wrap utils.ErrorUnknownScreen.
func (r *Router) Apply(u Update) error {
	r.mu.RLock()
	sink, ok := r.sinks[u.Screen]
	r.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", utils.ErrorUnknownScreen, u.Screen)
	}
	return sink.Apply(u)
}
