package dashboard

import (
	"context"
	"io"
	"sync"
	"time"

	"bitbucket.org/mmdatafocus/dashboard_backend/config"
	"bitbucket.org/mmdatafocus/dashboard_backend/listing"
	"bitbucket.org/mmdatafocus/dashboard_backend/observability"
	"bitbucket.org/mmdatafocus/dashboard_backend/utils"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("dashboard")

type SessionOptions struct {
	LoadingDelay time.Duration
	Scheduler    listing.Scheduler
	Metrics      *observability.Metrics
	Logger       *logrus.Logger
	Now          func() time.Time
}

func (o SessionOptions) withDefaults() SessionOptions {
	if o.Scheduler == nil {
		o.Scheduler = listing.SystemScheduler()
	}
	if o.Logger == nil {
		o.Logger = config.GetLogger()
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// Session is one open screen. It is safe for concurrent use.
type Session interface {
	Id() string
	ScreenKey() string
	View(ctx context.Context) View
	Dispatch(ctx context.Context, req ActionRequest) (View, error)
	// Refresh pulls the live source again and recomputes the collection from
	// the baseline and the new snapshot.
	Refresh(ctx context.Context) View
	// Export writes the currently visible records as an xlsx workbook.
	Export(ctx context.Context, w io.Writer) error
	LastSeen() time.Time
	Close()
}

// TabBadge is one tab of the screen. Count and Total are only set once the
// gate is ready.
type TabBadge struct {
	Id    string `json:"id"`
	Label string `json:"label"`
	Count *int   `json:"count,omitempty"`
	Total string `json:"total,omitempty"`
}

// View is the rendered snapshot of a session. While the gate is not ready
// Placeholder is set, Records is empty and the tabs carry no counts.
type View struct {
	SessionId   string              `json:"session_id"`
	Screen      string              `json:"screen"`
	Gate        listing.GateState   `json:"gate"`
	Placeholder bool                `json:"placeholder"`
	Filter      listing.FilterState `json:"filter"`
	Tabs        []TabBadge          `json:"tabs"`
	Categories  []string            `json:"categories"`
	Records     []Row               `json:"records"`
	Revision    int                 `json:"revision"`
}

type screenSession[R listing.MutableRecord[R]] struct {
	mu       sync.Mutex
	id       string
	screen   *screen[R]
	opts     SessionOptions
	gate     *listing.LoadingGate
	state    listing.State[R]
	lastSeen time.Time
}

// Open starts a session on the current live snapshot and arms its gate.
func (s *screen[R]) Open(ctx context.Context, id string, opts SessionOptions) Session {
	opts = opts.withDefaults()
	sess := &screenSession[R]{
		id:     id,
		screen: s,
		opts:   opts,
		gate:   listing.NewLoadingGate(opts.LoadingDelay, opts.Scheduler),
	}
	sess.state = listing.NewState(s.baseline, s.snapshot(ctx), s.spec.Tabs)
	sess.lastSeen = opts.Now()
	sess.gate.OnReady(sess.gateReady)

	sess.mu.Lock()
	sess.warnDriftLocked(ctx)
	sess.mu.Unlock()

	sess.gate.Arm()
	return sess
}

func (s *screenSession[R]) Id() string { return s.id }

func (s *screenSession[R]) ScreenKey() string { return s.screen.spec.Key() }

func (s *screenSession[R]) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

func (s *screenSession[R]) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	attrs = append(attrs,
		attribute.String("screen", s.ScreenKey()),
		attribute.String("session_id", s.id),
	)
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func (s *screenSession[R]) View(ctx context.Context) View {
	_, span := s.startSpan(ctx, "dashboard.View")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.touchLocked()
	return s.viewLocked()
}

func (s *screenSession[R]) Dispatch(ctx context.Context, req ActionRequest) (View, error) {
	_, span := s.startSpan(ctx, "dashboard.Dispatch", attribute.String("action", req.Type))
	defer span.End()
	start := time.Now()

	action, err := req.Action()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return View{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	activeTab := s.state.Filter.ActiveTab
	s.state = listing.Reduce(s.state, action)
	if s.state.Filter.ActiveTab != activeTab {
		s.gate.Arm()
	}
	s.touchLocked()

	view := s.viewLocked()
	s.opts.Metrics.ActionDispatched(s.ScreenKey(), listing.ActionName(action), time.Since(start))
	return view, nil
}

func (s *screenSession[R]) Refresh(ctx context.Context) View {
	ctx, span := s.startSpan(ctx, "dashboard.Refresh")
	defer span.End()
	start := time.Now()

	live := s.screen.snapshot(ctx)
	action := listing.LiveRefreshed[R]{Records: live}
	span.SetAttributes(attribute.Int("live_records", len(live)))

	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = listing.Reduce(s.state, action)
	s.touchLocked()
	s.warnDriftLocked(ctx)

	view := s.viewLocked()
	s.opts.Metrics.ActionDispatched(s.ScreenKey(), listing.ActionName(action), time.Since(start))
	return view
}

func (s *screenSession[R]) Export(ctx context.Context, w io.Writer) error {
	_, span := s.startSpan(ctx, "dashboard.Export")
	defer span.End()

	s.mu.Lock()
	visible := s.screen.pipeline.Visible(s.state.Merged, s.state.Filter)
	s.touchLocked()
	s.mu.Unlock()

	rows := make([][]any, 0, len(visible))
	for _, r := range visible {
		rows = append(rows, s.screen.exportRow(r))
	}
	if err := utils.WriteXlsx(w, s.screen.spec.Name, s.screen.exportHeaders(), rows); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

// Close tears the gate down. A closed session keeps answering reads with
// its last state.
func (s *screenSession[R]) Close() {
	s.gate.Teardown()
}

// gateReady runs on the gate's timer goroutine and must not take s.mu: Arm
// fires synchronously for a zero delay while Dispatch holds the lock.
func (s *screenSession[R]) gateReady() {
	s.opts.Metrics.GateReady(s.ScreenKey())
	s.opts.Logger.WithFields(logrus.Fields{
		"screen":     s.ScreenKey(),
		"session_id": s.id,
	}).Debug("screen lists ready")
}

func (s *screenSession[R]) touchLocked() {
	s.lastSeen = s.opts.Now()
}

func (s *screenSession[R]) viewLocked() View {
	p := s.screen.pipeline
	merged := s.state.Merged

	tabs := make([]TabBadge, 0, len(p.Tabs.Tabs))
	for _, t := range p.Tabs.Tabs {
		tabs = append(tabs, TabBadge{Id: t.Id, Label: t.Label})
	}

	gate := s.gate.State()
	view := View{
		SessionId:  s.id,
		Screen:     s.ScreenKey(),
		Gate:       gate,
		Filter:     s.state.Filter,
		Tabs:       tabs,
		Categories: s.screen.categories(merged),
		Revision:   s.state.Revision,
	}
	if gate != listing.GateReady {
		view.Placeholder = true
		return view
	}

	counts := p.Counts(merged)
	var sums map[string]decimal.Decimal
	if s.screen.spec.AmountField != "" {
		sums = p.Totals(merged, s.screen.spec.AmountField)
	}
	for i := range view.Tabs {
		id := view.Tabs[i].Id
		count := counts[id]
		view.Tabs[i].Count = &count
		if sums != nil {
			view.Tabs[i].Total = sums[id].StringFixed(2)
		}
	}

	view.Records = []Row{}
	for r := range p.Filter(merged, s.state.Filter) {
		view.Records = append(view.Records, s.screen.row(r))
	}
	return view
}

// warnDriftLocked flags tabs whose badge would differ if it were counted
// over the baseline alone.
func (s *screenSession[R]) warnDriftLocked(ctx context.Context) {
	if !config.BadgeDriftWarnings() || s.screen.spec.Tabs.Empty() {
		return
	}
	p := s.screen.pipeline
	drift := listing.CountDrift(p.Counts(s.state.Baseline), p.Counts(s.state.Merged))
	if len(drift) == 0 {
		return
	}
	cid, _ := utils.GetCorrelationIdFromContext(ctx)
	config.LogWarning(s.opts.Logger, "dashboard", "warnDriftLocked", "badge counts differ between baseline and merged collection", logrus.Fields{
		"screen":         s.ScreenKey(),
		"session_id":     s.id,
		"tabs":           drift,
		"correlation_id": cid,
	})
	s.opts.Metrics.BadgeDrift(s.ScreenKey())
}
