package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestHandlerExposesCollectors(t *testing.T) {
	m := New("pest")
	m.ObserveInference("armyworm", 20*time.Millisecond)
	m.CacheHit()
	m.ObserveRequest(httptest.NewRequest(http.MethodPost, "/predict", nil), http.StatusOK, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	for _, want := range []string{
		`inference_total{label="armyworm",service="pest"} 1`,
		`result_cache_hits_total{service="pest"} 1`,
		`http_requests_total{method="POST",path="unmatched",service="pest",status="200"} 1`,
		`inference_duration_seconds_count{service="pest"} 1`,
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestNewIsIndependentPerService(t *testing.T) {
	// Separate registries: building twice must not panic.
	_ = New("yield")
	_ = New("yield")
}
