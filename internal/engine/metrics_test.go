package engine

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsTrackEngine(t *testing.T) {
	reg := prometheus.NewRegistry()
	e := NewWithConfig(Config{Registerer: reg})
	m, _ := e.LoadModel("m", 0)
	c, _ := e.NewContext(m, 8, 1)
	_ = e.Evaluate(c, nil)
	for i := 0; i < 3; i++ {
		_, _ = e.Sample(c, SamplerParams{Seed: 0})
	}
	_, _ = e.Sample(0, SamplerParams{})

	mt := e.Metrics()
	if got := testutil.ToFloat64(mt.modelsLoaded); got != 1 {
		t.Fatalf("models_loaded=%v", got)
	}
	if got := testutil.ToFloat64(mt.contextsActive); got != 1 {
		t.Fatalf("contexts_active=%v", got)
	}
	if got := testutil.ToFloat64(mt.tokensSampled); got != 3 {
		t.Fatalf("tokens_sampled=%v", got)
	}
	if got := testutil.ToFloat64(mt.tokensEmitted); got != 2 {
		t.Fatalf("tokens_emitted=%v", got)
	}
	if got := testutil.ToFloat64(mt.errors.WithLabelValues("sample", "invalid_argument")); got != 1 {
		t.Fatalf("errors{sample,invalid_argument}=%v", got)
	}
	if n := testutil.CollectAndCount(mt.firstToken); n != 1 {
		t.Fatalf("expected first_token histogram, got %d series", n)
	}

	_ = e.ReleaseContext(c)
	_ = e.ReleaseModel(m)
	if got := testutil.ToFloat64(mt.modelsLoaded); got != 0 {
		t.Fatalf("models_loaded after release=%v", got)
	}
	if got := testutil.ToFloat64(mt.contextsActive); got != 0 {
		t.Fatalf("contexts_active after release=%v", got)
	}
}

func TestNewMetricsNilRegisterer(t *testing.T) {
	// Two engines without a registry must not collide.
	_ = NewWithConfig(Config{})
	_ = NewWithConfig(Config{})
}
