package engine

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

// Defaults applied when corresponding Config fields are unset.
const (
	defaultMaxModels   = 64
	defaultMaxContexts = 1024
)

// Config encapsulates all tunables for Engine construction.
type Config struct {
	// MaxModels bounds the model table; loading past it fails with OutOfMemory.
	MaxModels int
	// MaxContexts bounds the context table; creating past it fails with OutOfMemory.
	MaxContexts int
	// MaxScratchBytes bounds the tokenizer scratch copy (text plus terminator).
	// Zero means unlimited.
	MaxScratchBytes int

	// Backend opens per-model runtimes. Nil selects the placeholder backend.
	Backend Backend
	// Strategy picks sampled tokens. Nil selects the fixed [2, 5, 0] cycle.
	Strategy SamplingStrategy

	Logger *zerolog.Logger
	// Registerer receives the engine collectors. Nil leaves them unregistered.
	Registerer prometheus.Registerer
	Events     EventPublisher
	// Clock overrides time.Now, mostly for tests.
	Clock func() time.Time
}

// NewWithConfig constructs an Engine from Config.
func NewWithConfig(cfg Config) *Engine {
	if cfg.MaxModels <= 0 {
		cfg.MaxModels = defaultMaxModels
	}
	if cfg.MaxContexts <= 0 {
		cfg.MaxContexts = defaultMaxContexts
	}
	if cfg.MaxScratchBytes < 0 {
		cfg.MaxScratchBytes = 0
	}
	e := &Engine{
		cfg:      cfg,
		backend:  cfg.Backend,
		strategy: cfg.Strategy,
		models:   newHandleTable[*Model](cfg.MaxModels),
		contexts: newHandleTable[*Context](cfg.MaxContexts),
		now:      cfg.Clock,
		events:   cfg.Events,
		metrics:  NewMetrics(cfg.Registerer),
	}
	if e.backend == nil {
		e.backend = StaticBackend{}
	}
	if e.strategy == nil {
		e.strategy = DefaultCycle()
	}
	if e.now == nil {
		e.now = time.Now
	}
	if e.events == nil {
		e.events = noopPublisher{}
	}
	if cfg.Logger != nil {
		e.log = *cfg.Logger
	} else {
		e.log = zerolog.Nop()
	}
	return e
}
