package engine

import "time"

// InferenceStats is a point-in-time view of a context's timing counters.
type InferenceStats struct {
	FirstTokenMs    float64
	TokensPerSecond float64
	TotalMs         float64
	TokensEmitted   int32
}

func durationMs(d time.Duration) float64 { return float64(d) / float64(time.Millisecond) }

// LastStats derives latency and throughput for the current round. It only
// reads the context.
func (e *Engine) LastStats(h ContextHandle) (InferenceStats, error) {
	c, err := e.lookupContext("get_last_stats", h)
	if err != nil {
		return InferenceStats{}, e.fail(err)
	}
	total := durationMs(e.sinceEval(c))
	st := InferenceStats{
		FirstTokenMs:  durationMs(c.firstTokenLatency),
		TotalMs:       total,
		TokensEmitted: c.tokensEmitted,
	}
	if total > 0 && c.tokensEmitted > 0 {
		st.TokensPerSecond = float64(c.tokensEmitted) / (total / 1000.0)
	}
	return st, nil
}
