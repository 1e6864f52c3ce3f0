package engine

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the engine collectors.
type Metrics struct {
	modelsLoaded   prometheus.Gauge
	contextsActive prometheus.Gauge
	tokensSampled  prometheus.Counter
	tokensEmitted  prometheus.Counter
	errors         *prometheus.CounterVec
	firstToken     prometheus.Histogram
}

// NewMetrics builds the engine collectors and registers them with reg when
// it is non-nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		modelsLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "llamapanama",
			Subsystem: "engine",
			Name:      "models_loaded",
			Help:      "Models currently loaded",
		}),
		contextsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "llamapanama",
			Subsystem: "engine",
			Name:      "contexts_active",
			Help:      "Inference contexts currently alive",
		}),
		tokensSampled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "llamapanama",
			Subsystem: "engine",
			Name:      "tokens_sampled_total",
			Help:      "Sampler steps taken, including end-of-sequence",
		}),
		tokensEmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "llamapanama",
			Subsystem: "engine",
			Name:      "tokens_emitted_total",
			Help:      "Non end-of-sequence tokens sampled",
		}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "llamapanama",
			Subsystem: "engine",
			Name:      "errors_total",
			Help:      "Failed engine operations",
		}, []string{"op", "kind"}),
		firstToken: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "llamapanama",
			Subsystem: "engine",
			Name:      "first_token_seconds",
			Help:      "Latency from evaluation to the first emitted token",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 10),
		}),
	}
	if reg != nil {
		reg.MustRegister(m.modelsLoaded, m.contextsActive, m.tokensSampled, m.tokensEmitted, m.errors, m.firstToken)
	}
	return m
}
