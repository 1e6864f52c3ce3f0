package engine

import "strings"

// SamplerParams are the sampling hyperparameters. Temperature, TopP, TopK,
// RepeatPenalty and Grammar are accepted for backend substitution and do not
// influence the placeholder cycle.
type SamplerParams struct {
	Temperature   float32
	TopP          float32
	TopK          int32
	RepeatPenalty float32
	Seed          int32
	MaxTokens     int
	Grammar       string
}

// DefaultSamplerParams returns the stock sampling settings.
func DefaultSamplerParams() SamplerParams {
	return SamplerParams{
		Temperature:   0.8,
		TopP:          0.95,
		TopK:          40,
		RepeatPenalty: 1.1,
		Seed:          42,
		MaxTokens:     128,
	}
}

// Normalized returns p with a blank grammar cleared.
func (p SamplerParams) Normalized() SamplerParams {
	if strings.TrimSpace(p.Grammar) == "" {
		p.Grammar = ""
	}
	return p
}

// WithSeed returns a copy of p using seed.
func (p SamplerParams) WithSeed(seed int32) SamplerParams {
	p.Seed = seed
	return p
}

// WithGrammar returns a copy of p using grammar.
func (p SamplerParams) WithGrammar(grammar string) SamplerParams {
	p.Grammar = grammar
	return p.Normalized()
}

// SamplerState is a caller-owned sampler position. Passing its Cell to
// SampleEx lets callers snapshot, restore or fork sampling outside a Context.
// It is not synchronized.
type SamplerState struct {
	pos  int32
	seed int32
}

// NewSamplerState returns a state at position zero for seed.
func NewSamplerState(seed int32) *SamplerState { return &SamplerState{seed: seed} }

func (s *SamplerState) Seed() int32 { return s.seed }

func (s *SamplerState) Position() int32 { return s.pos }

func (s *SamplerState) SetPosition(pos int32) { s.pos = pos }

func (s *SamplerState) Reset() { s.pos = 0 }

// Cell returns the external state cell read and written by SampleEx.
func (s *SamplerState) Cell() *int32 { return &s.pos }

// CycleStrategy walks a fixed candidate sequence indexed by seed+state.
type CycleStrategy struct {
	Sequence []int32
}

// DefaultCycle is the placeholder sequence [2, 5, 0].
func DefaultCycle() CycleStrategy {
	return CycleStrategy{Sequence: []int32{2, 5, 0}}
}

func (s CycleStrategy) Pick(seed, state int32, _ SamplerParams) int32 {
	n := int64(len(s.Sequence))
	if n == 0 {
		return TokenEOS
	}
	idx := (int64(seed) + int64(state)) % n
	if idx < 0 {
		idx = 0
	}
	return s.Sequence[idx]
}

// Sample draws one token using the state persisted on the context.
func (e *Engine) Sample(h ContextHandle, p SamplerParams) (int32, error) {
	return e.SampleEx(h, p, "", nil)
}

// SampleEx draws one token. When state is non-nil it seeds the step and
// receives the advanced position. grammar is accepted and inert. Token 0 is
// end-of-sequence and does not count toward emitted tokens. On error the
// returned token is 0 and nothing is mutated.
func (e *Engine) SampleEx(h ContextHandle, p SamplerParams, grammar string, state *int32) (int32, error) {
	const op = "sample"
	c, err := e.lookupContext(op, h)
	if err != nil {
		return 0, e.fail(err)
	}
	_ = grammar
	if state != nil {
		c.samplerState = *state
	}
	c.seed = p.Seed
	token := e.strategy.Pick(c.seed, c.samplerState, p)
	c.step++
	c.samplerState++
	if state != nil {
		*state = c.samplerState
	}
	first := c.tokensEmitted == 0
	if first {
		c.firstTokenLatency = e.sinceEval(c)
	}
	e.metrics.tokensSampled.Inc()
	if token != TokenEOS {
		c.tokensEmitted++
		e.metrics.tokensEmitted.Inc()
		if first {
			e.metrics.firstToken.Observe(c.firstTokenLatency.Seconds())
		}
	}
	return token, nil
}
