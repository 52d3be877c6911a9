package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// TestMetricsRegistered verifies that all metrics are registered in the
// default registry and appear after being observed once.
func TestMetricsRegistered(t *testing.T) {
	RequestsTotal.WithLabelValues("GET", "/systems/", "2xx").Inc()
	RequestDuration.WithLabelValues("GET", "/systems/").Observe(0.01)
	AuthFailuresTotal.WithLabelValues("expired").Inc()
	LoginsTotal.WithLabelValues("success").Inc()
	MeasurementsRecordedTotal.Inc()

	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("unexpected gather error: %v", err)
	}

	expected := map[string]bool{
		"hydrolog_requests_total":              false,
		"hydrolog_request_duration_seconds":    false,
		"hydrolog_auth_failures_total":         false,
		"hydrolog_logins_total":                false,
		"hydrolog_measurements_recorded_total": false,
	}

	for _, mf := range families {
		if _, ok := expected[mf.GetName()]; ok {
			expected[mf.GetName()] = true
		}
	}

	for name, seen := range expected {
		if !seen {
			t.Errorf("metric %s not found in default registry", name)
		}
	}
}

func TestMetricsMiddlewareRecordsStatus(t *testing.T) {
	handler := MetricsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	req := httptest.NewRequest(http.MethodGet, "/systems/42/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}

	// The id segment must be collapsed in the route label.
	counter, err := RequestsTotal.GetMetricWithLabelValues("GET", "/systems/{id}/", "4xx")
	if err != nil {
		t.Fatalf("fetching counter: %v", err)
	}

	var m dto.Metric
	if err := counter.Write(&m); err != nil {
		t.Fatalf("reading counter: %v", err)
	}
	if m.GetCounter().GetValue() < 1 {
		t.Errorf("counter = %v, want >= 1", m.GetCounter().GetValue())
	}
}

func TestNormalizeRoute(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"/systems/", "/systems/"},
		{"/systems/17/", "/systems/{id}/"},
		{"/systems/17/measurements/", "/systems/{id}/measurements/"},
		{"/register/", "/register/"},
	}
	for _, tt := range tests {
		if got := normalizeRoute(tt.in); got != tt.want {
			t.Errorf("normalizeRoute(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
