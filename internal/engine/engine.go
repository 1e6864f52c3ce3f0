package engine

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
	"go.uber.org/multierr"
)

// Engine owns the model and context tables and the pluggable strategies.
// The tables are synchronized; the records they hold are not.
type Engine struct {
	cfg      Config
	backend  Backend
	strategy SamplingStrategy
	models   *handleTable[*Model]
	contexts *handleTable[*Context]
	now      func() time.Time
	log      zerolog.Logger
	metrics  *Metrics
	events   EventPublisher

	initOnce sync.Once
	initErr  error
}

// New constructs an Engine with package defaults.
func New() *Engine { return NewWithConfig(Config{}) }

// BackendInit initializes the backend once. Repeated calls return the first
// result without side effects.
func (e *Engine) BackendInit() error {
	e.initOnce.Do(func() {
		e.initErr = e.backend.Init()
		if e.initErr != nil {
			e.log.Warn().Err(e.initErr).Msg("backend init failed")
			return
		}
		e.log.Debug().Str("backend", e.backend.Name()).Msg("backend initialized")
	})
	return e.initErr
}

// Metrics exposes the engine collectors.
func (e *Engine) Metrics() *Metrics { return e.metrics }

// Counts reports live models and contexts.
func (e *Engine) Counts() (models, contexts int) {
	return e.models.len(), e.contexts.len()
}

// Close releases every live context and model. Outstanding handles become
// stale. Runtime close errors are aggregated.
func (e *Engine) Close() error {
	for range e.contexts.drain() {
		e.metrics.contextsActive.Dec()
	}
	var err error
	for _, m := range e.models.drain() {
		e.metrics.modelsLoaded.Dec()
		err = multierr.Append(err, m.rt.Close())
	}
	return err
}

// fail records a failed operation and returns err unchanged.
func (e *Engine) fail(err error) error {
	kind := "unknown"
	op := ""
	if ee, ok := err.(*Error); ok {
		kind = ee.Kind.String()
		op = ee.Op
	}
	e.metrics.errors.WithLabelValues(op, kind).Inc()
	e.log.Debug().Str("op", op).Str("kind", kind).Err(err).Msg("operation failed")
	return err
}
