package httpapi

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsMiddleware_EmitsRequestCounters(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	rr := httptest.NewRecorder()
	MetricsMiddleware(next).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/test", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	mrr := httptest.NewRecorder()
	promhttp.Handler().ServeHTTP(mrr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if mrr.Code != http.StatusOK {
		t.Fatalf("/metrics status=%d", mrr.Code)
	}
	if !bytes.Contains(mrr.Body.Bytes(), []byte("llamapanama_http_requests_total")) {
		t.Fatalf("expected llamapanama_http_requests_total in metrics")
	}
}

func TestMetricsMiddleware_UsesRoutePattern(t *testing.T) {
	h := NewMux(&mockService{})
	counter := httpRequestsTotal.WithLabelValues("/v1/tokenize", http.MethodPost, "200")
	before := testutil.ToFloat64(counter)
	w := postJSON(h, "/v1/tokenize", `{"text":"hi"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	if got := testutil.ToFloat64(counter); got != before+1 {
		t.Fatalf("expected route-pattern label /v1/tokenize to count once, %v -> %v", before, got)
	}
}

func TestStatusRecorder_Flushes(t *testing.T) {
	rec := httptest.NewRecorder()
	sr := &statusRecorder{ResponseWriter: rec, status: http.StatusOK}
	sr.Flush()
	if !rec.Flushed {
		t.Fatalf("flush not forwarded")
	}
	if sr.Unwrap() != rec {
		t.Fatalf("unwrap mismatch")
	}
}

func TestIncrementBackpressure_IncrementsCounter(t *testing.T) {
	before := testutil.ToFloat64(backpressureTotal.WithLabelValues("unspecified"))
	IncrementBackpressure("")
	after := testutil.ToFloat64(backpressureTotal.WithLabelValues("unspecified"))
	if after != before+1 {
		t.Fatalf("expected +1, got %v -> %v", before, after)
	}
}
