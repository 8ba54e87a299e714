package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

// TestNewTimer tests timer creation
func TestNewTimer(t *testing.T) {
	timer := NewTimer()

	if timer == nil {
		t.Fatal("NewTimer() returned nil")
	}
	if timer.start.IsZero() {
		t.Error("NewTimer() start time is zero")
	}
	if time.Since(timer.start) > time.Second {
		t.Error("NewTimer() start time is not recent")
	}
}

// TestTimerObserveDuration tests histogram observation
func TestTimerObserveDuration(t *testing.T) {
	histogram := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "test_duration_seconds",
		Help:    "Test duration histogram",
		Buckets: prometheus.DefBuckets,
	})

	timer := NewTimer()
	time.Sleep(10 * time.Millisecond)
	timer.ObserveDuration(histogram)

	if got := testutil.CollectAndCount(histogram); got != 1 {
		t.Errorf("expected 1 histogram series, got %d", got)
	}
}

// TestCounters tests that labelled counters accumulate
func TestCounters(t *testing.T) {
	before := testutil.ToFloat64(ToolCallsTotal.WithLabelValues("test_tool", ResultOK))
	ToolCallsTotal.WithLabelValues("test_tool", ResultOK).Inc()
	after := testutil.ToFloat64(ToolCallsTotal.WithLabelValues("test_tool", ResultOK))

	if after-before != 1 {
		t.Errorf("expected counter to grow by 1, got %v", after-before)
	}
}

// TestHandler tests that registered metrics are exposed
func TestHandler(t *testing.T) {
	BackendRequestsTotal.WithLabelValues("GET", "/v1/test", "200").Inc()

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "megacloud_backend_requests_total") {
		t.Error("expected megacloud_backend_requests_total in exposition")
	}
}
