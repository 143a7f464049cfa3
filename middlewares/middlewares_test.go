package middlewares

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"bitbucket.org/mmdatafocus/dashboard_backend/observability"
	"bitbucket.org/mmdatafocus/dashboard_backend/utils"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestCorrelationMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(CorrelationMiddleware())
	var seen string
	r.GET("/x", func(c *gin.Context) {
		seen, _ = utils.GetCorrelationIdFromContext(c.Request.Context())
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(CorrelationHeader, "given-id")
	r.ServeHTTP(w, req)
	if seen != "given-id" || w.Header().Get(CorrelationHeader) != "given-id" {
		t.Fatalf("expected propagated id, got ctx=%q header=%q", seen, w.Header().Get(CorrelationHeader))
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	if seen == "" || seen == "given-id" || w.Header().Get(CorrelationHeader) != seen {
		t.Fatalf("expected generated id, got %q", seen)
	}
}

func TestLoggerMiddleware_LogsErrors(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetLevel(logrus.ErrorLevel)

	r := gin.New()
	r.Use(CorrelationMiddleware(), LoggerMiddleware(logger))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/fail", func(c *gin.Context) {
		_ = c.Error(utils.ErrorSessionNotFound)
		c.Status(http.StatusNotFound)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ok", nil))
	if buf.Len() != 0 {
		t.Fatalf("successful request logged at error level: %s", buf.String())
	}
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/fail", nil))
	if !strings.Contains(buf.String(), "session not found") || !strings.Contains(buf.String(), `"correlation_id"`) {
		t.Fatalf("expected error log with correlation id, got %s", buf.String())
	}
}

func TestMetricsMiddleware(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := observability.NewMetrics(reg)

	r := gin.New()
	r.Use(MetricsMiddleware(m))
	r.GET("/api/sessions/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/sessions/abc", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	routes := map[string]bool{}
	for _, f := range families {
		if f.GetName() != "http_requests_total" {
			continue
		}
		for _, metric := range f.GetMetric() {
			for _, l := range metric.GetLabel() {
				if l.GetName() == "route" {
					routes[l.GetValue()] = true
				}
			}
		}
	}
	if !routes["/api/sessions/:id"] || !routes["unmatched"] {
		t.Fatalf("expected templated and unmatched routes, got %v", routes)
	}
}

func TestReadinessMiddleware(t *testing.T) {
	ready := false
	r := gin.New()
	r.Use(ReadinessMiddleware(func() bool { return ready }))
	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/api/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	cases := []struct {
		ready bool
		path  string
		want  int
	}{
		{false, "/healthz", http.StatusNoContent},
		{false, "/api/x", http.StatusServiceUnavailable},
		{true, "/api/x", http.StatusOK},
	}
	for _, tc := range cases {
		ready = tc.ready
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tc.path, nil))
		if w.Code != tc.want {
			t.Fatalf("ready=%v %s: expected %d, got %d", tc.ready, tc.path, tc.want, w.Code)
		}
	}
}
