package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestHandler_nilMetrics(t *testing.T) {
	var m *Metrics
	m.ObserveTrace("success", time.Second)
	m.IncStaleResult()

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)

	m.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rr.Code)
	}
	if got := rr.Body.String(); !strings.Contains(got, "metrics unavailable") {
		t.Fatalf("expected body to mention metrics unavailable, got %q", got)
	}
}

func TestHandler_exposesRegisteredMetrics(t *testing.T) {
	m := New()
	m.ObserveHTTPRequest(http.MethodPost, "/api/v1/trace", http.StatusAccepted, 12*time.Millisecond)
	m.ObserveTrace("success", 3*time.Second)
	m.ObserveTrace("success", 4*time.Second)
	m.ObserveTrace("transport_failure", 90*time.Second)
	m.IncStaleResult()

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)

	m.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	body := rr.Body.String()
	for _, want := range []string{
		`tracemap_http_requests_total{method="POST",path="/api/v1/trace",status="202"} 1`,
		`tracemap_traces_total{outcome="success"} 2`,
		`tracemap_traces_total{outcome="transport_failure"} 1`,
		`tracemap_trace_duration_seconds_count{outcome="success"} 2`,
		"tracemap_stale_results_total 1",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in body=%s", want, body)
		}
	}
}
