package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"llamapanama/internal/engine"
	"llamapanama/internal/session"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"model not found", session.ErrModelNotFound("x"), http.StatusNotFound},
		{"too busy", session.ErrTooBusy("x"), http.StatusTooManyRequests},
		{"dependency", session.ErrDependencyUnavailable("llama support not built"), http.StatusServiceUnavailable},
		{"invalid argument", &engine.Error{Kind: engine.KindInvalidArgument, Msg: "model is null"}, http.StatusBadRequest},
		{"buffer too small", &engine.Error{Kind: engine.KindBufferTooSmall, Msg: "buffer too small"}, http.StatusRequestEntityTooLarge},
		{"out of memory", &engine.Error{Kind: engine.KindOutOfMemory, Msg: "out of memory"}, http.StatusServiceUnavailable},
		{"wrapped engine error", fmt.Errorf("tokenize: %w", &engine.Error{Kind: engine.KindInvalidArgument, Msg: "invalid buffer"}), http.StatusBadRequest},
		{"closed session", session.ErrClosed, http.StatusServiceUnavailable},
		{"http error", mockHTTPError{msg: "nope", code: http.StatusConflict}, http.StatusConflict},
		{"deadline", context.DeadlineExceeded, http.StatusInternalServerError},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := statusFor(tc.err); got != tc.want {
				t.Fatalf("statusFor(%v)=%d want %d", tc.err, got, tc.want)
			}
		})
	}
}

func TestGenerate_ModelNotFoundMaps404(t *testing.T) {
	svc := &mockService{genErr: session.ErrModelNotFound("nope")}
	w := postJSON(NewMux(svc), "/v1/generate", `{"model":"nope","prompt":"x"}`)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestGenerate_TooBusyMaps429AndCounts(t *testing.T) {
	before := testutil.ToFloat64(backpressureTotal.WithLabelValues("queue_timeout"))
	svc := &mockService{genErr: session.ErrTooBusy("m")}
	w := postJSON(NewMux(svc), "/v1/generate", `{"prompt":"x"}`)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("status=%d", w.Code)
	}
	after := testutil.ToFloat64(backpressureTotal.WithLabelValues("queue_timeout"))
	if after != before+1 {
		t.Fatalf("backpressure counter %v -> %v", before, after)
	}
}

func TestTokenize_BufferTooSmallMaps413(t *testing.T) {
	svc := &mockService{callErr: &engine.Error{Kind: engine.KindBufferTooSmall, Msg: "buffer too small"}}
	w := postJSON(NewMux(svc), "/v1/tokenize", `{"text":"Hello world","max_tokens":1}`)
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestEmbeddings_DependencyUnavailableMaps503(t *testing.T) {
	svc := &mockService{callErr: session.ErrDependencyUnavailable("llama support not built")}
	w := postJSON(NewMux(svc), "/v1/embeddings", `{"input":"x"}`)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status=%d", w.Code)
	}
}
