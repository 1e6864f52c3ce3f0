package httpapi

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"llamapanama/pkg/types"
)

// Service is the session layer behind the HTTP API.
type Service interface {
	ListModels() []types.Model
	Ready() types.ReadyResponse
	Generate(ctx context.Context, req types.GenerateRequest, w io.Writer, flush func()) error
	Tokenize(ctx context.Context, req types.TokenizeRequest) (types.TokenizeResponse, error)
	Embeddings(ctx context.Context, req types.EmbeddingsRequest) (types.EmbeddingsResponse, error)
}

// NewMux builds the HTTP router for svc.
func NewMux(svc Service) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(MetricsMiddleware)
	r.Use(middleware.Compress(5))
	if corsEnabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: corsDefaults(corsAllowedOrigins, []string{"*"}),
			AllowedMethods: corsDefaults(corsAllowedMethods, []string{http.MethodGet, http.MethodPost, http.MethodOptions}),
			AllowedHeaders: corsDefaults(corsAllowedHeaders, []string{"Content-Type", "X-Log-Level"}),
			MaxAge:         300,
		}))
	}
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})

	r.Get("/models", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, types.ModelsResponse{Models: svc.ListModels()})
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		rr := svc.Ready()
		status := http.StatusOK
		if rr.State != "ready" {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, rr)
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Use(requireJSON)
		r.Post("/generate", generateHandler(svc))
		r.Post("/tokenize", tokenizeHandler(svc))
		r.Post("/embeddings", embeddingsHandler(svc))
	})

	MountSwagger(r)
	return r
}

// requireJSON rejects request bodies that are not application/json.
func requireJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ct := strings.ToLower(r.Header.Get("Content-Type"))
		if !strings.HasPrefix(ct, "application/json") {
			writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// decodeJSON reads a size-limited JSON body into v and writes the error
// response itself on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			writeJSONError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		writeJSONError(w, http.StatusBadRequest, "failed to read body")
		return false
	}
	if err := json.Unmarshal(body, v); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// ndjsonWriter commits the 200 status and content type on the first write,
// so failures before any output can still be reported as JSON errors.
type ndjsonWriter struct {
	w     http.ResponseWriter
	wrote bool
}

func (nw *ndjsonWriter) Write(p []byte) (int, error) {
	if !nw.wrote {
		nw.wrote = true
		nw.w.Header().Set("Content-Type", "application/x-ndjson")
		nw.w.Header().Set("Cache-Control", "no-cache")
		nw.w.WriteHeader(http.StatusOK)
	}
	return nw.w.Write(p)
}

func generateHandler(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		level := requestLogLevel(r)
		reqID := middleware.GetReqID(r.Context())
		start := time.Now()

		var req types.GenerateRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if strings.TrimSpace(req.Prompt) == "" {
			writeJSONError(w, http.StatusBadRequest, "prompt is required")
			return
		}

		ctx, cancel := joinContexts(serverBaseCtx, r.Context())
		defer cancel()
		if generateTimeout > 0 {
			var cancelTimeout context.CancelFunc
			ctx, cancelTimeout = context.WithTimeout(ctx, generateTimeout)
			defer cancelTimeout()
		}

		if enabled(level, zerolog.InfoLevel) {
			zlog.Info().Str("request_id", reqID).Str("model", req.Model).Int("prompt_chars", len(req.Prompt)).Msg("generate start")
		}

		nw := &ndjsonWriter{w: w}
		var out io.Writer = nw
		if enabled(level, zerolog.DebugLevel) {
			out = io.MultiWriter(nw, &loggingLineWriter{reqID: reqID})
		}
		flush := func() {
			if f, ok := w.(http.Flusher); ok {
				f.Flush()
			}
		}

		err := svc.Generate(ctx, req, out, flush)
		if err != nil {
			if enabled(level, zerolog.ErrorLevel) {
				zlog.Error().Err(err).Str("request_id", reqID).Str("model", req.Model).Msg("generate failed")
			}
			if !nw.wrote {
				writeServiceError(w, err)
			}
			return
		}
		if enabled(level, zerolog.InfoLevel) {
			zlog.Info().Str("request_id", reqID).Dur("duration", time.Since(start)).Msg("generate end")
		}
	}
}

func tokenizeHandler(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.TokenizeRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		resp, err := svc.Tokenize(r.Context(), req)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func embeddingsHandler(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req types.EmbeddingsRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		if req.Input == "" {
			writeJSONError(w, http.StatusBadRequest, "input is required")
			return
		}
		ctx, cancel := joinContexts(serverBaseCtx, r.Context())
		defer cancel()
		resp, err := svc.Embeddings(ctx, req)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}
