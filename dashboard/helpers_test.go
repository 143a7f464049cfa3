package dashboard

import (
	"bytes"
	"context"
	"testing"
	"time"

	"bitbucket.org/mmdatafocus/dashboard_backend/config"
	"bitbucket.org/mmdatafocus/dashboard_backend/listing/listingtest"
	"bitbucket.org/mmdatafocus/dashboard_backend/livesource"
	"bitbucket.org/mmdatafocus/dashboard_backend/models"
	"bitbucket.org/mmdatafocus/dashboard_backend/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const testDelay = 800 * time.Millisecond

type harness struct {
	mgr    *Manager
	router *livesource.Router
	sched  *listingtest.ManualScheduler
	reg    *prometheus.Registry
	logs   *bytes.Buffer
	now    time.Time
}

func newHarness(t *testing.T, delay time.Duration) *harness {
	t.Helper()
	t.Setenv("LIVE_SCREENS", "")

	h := &harness{
		router: livesource.NewRouter(),
		sched:  listingtest.NewManualScheduler(),
		reg:    prometheus.NewRegistry(),
		logs:   &bytes.Buffer{},
		now:    time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
	logger := logrus.New()
	logger.SetOutput(h.logs)
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetLevel(logrus.WarnLevel)

	cat, err := NewCatalogue(LiveOptions{Mode: config.LiveSourceMemory, Router: h.router, Logger: logger})
	if err != nil {
		t.Fatalf("NewCatalogue: %v", err)
	}
	h.mgr = NewManager(cat, ManagerOptions{
		IdleTTL: 30 * time.Minute,
		Session: SessionOptions{
			LoadingDelay: delay,
			Scheduler:    h.sched,
			Metrics:      observability.NewMetrics(h.reg),
			Logger:       logger,
			Now:          func() time.Time { return h.now },
		},
	})
	return h
}

func (h *harness) open(t *testing.T, role Role, name string) Session {
	t.Helper()
	sess, err := h.mgr.Open(context.Background(), role, name)
	if err != nil {
		t.Fatalf("Open(%s, %s): %v", role, name, err)
	}
	return sess
}

func (h *harness) pushOrders(t *testing.T, key string, orders ...*models.Order) {
	t.Helper()
	u, err := livesource.NewUpdate(key, livesource.OpUpsert, orders)
	if err != nil {
		t.Fatalf("NewUpdate: %v", err)
	}
	if err := h.router.Apply(u); err != nil {
		t.Fatalf("router.Apply: %v", err)
	}
}

func (h *harness) counter(t *testing.T, name string) float64 {
	t.Helper()
	families, err := h.reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	var sum float64
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
		for _, m := range f.GetMetric() {
			switch {
			case m.GetCounter() != nil:
				sum += m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				sum += m.GetGauge().GetValue()
			}
		}
	}
	return sum
}

func (h *harness) removeRecords(t *testing.T, key string, ids ...string) {
	t.Helper()
	if err := h.router.Apply(livesource.RemoveUpdate(key, ids...)); err != nil {
		t.Fatalf("router.Apply: %v", err)
	}
}

func liveOrder(id, status string) *models.Order {
	return &models.Order{
		ID:        id,
		HotelName: "Lake View Hotel",
		Category:  "breakfast",
		Status:    models.OrderStatus(status),
		Total:     decimal.RequireFromString("42.50"),
	}
}

func rowIds(v View) []string {
	out := make([]string, 0, len(v.Records))
	for _, r := range v.Records {
		out = append(out, r.Id)
	}
	return out
}

// badgeCounts returns the counted tabs only; tabs without a count are
// left out.
func badgeCounts(v View) map[string]int {
	out := make(map[string]int, len(v.Tabs))
	for _, b := range v.Tabs {
		if b.Count != nil {
			out[b.Id] = *b.Count
		}
	}
	return out
}
