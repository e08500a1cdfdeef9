package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestHandler_ExposesObservations(t *testing.T) {
	m := New()
	m.ObserveRequest("POST", "/graphql", 200, 15*time.Millisecond)
	m.ObserveUpstream("petfinder", "GET", 401, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	out := string(body)

	for _, want := range []string{
		`newleash_http_requests_total{method="POST",route="/graphql",status="200"} 1`,
		`newleash_upstream_request_duration_seconds_count{method="GET",service="petfinder",status="401"} 1`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveRequest("GET", "/health", 200, time.Millisecond)
	m.ObserveUpstream("geocoding", "GET", 200, time.Millisecond)
}
