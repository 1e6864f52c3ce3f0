package engine

import "time"

// ContextHandle identifies an inference context. The zero value is the null handle.
type ContextHandle uint64

// Context is a stateful inference session bound to one Model.
type Context struct {
	model   *Model
	modelH  ModelHandle
	size    int
	threads int

	step              int32
	seed              int32
	samplerState      int32
	evalStart         time.Time
	firstTokenLatency time.Duration
	tokensEmitted     int32
}

// Size returns the configured context window.
func (c *Context) Size() int { return c.size }

// Threads returns the configured thread count.
func (c *Context) Threads() int { return c.threads }

// Model returns the handle the context was created from.
func (c *Context) Model() ModelHandle { return c.modelH }

// Step returns the number of samples since the last evaluation.
func (c *Context) Step() int32 { return c.step }

// Seed returns the seed of the last sample.
func (c *Context) Seed() int32 { return c.seed }

// SamplerState returns the persisted sampler counter.
func (c *Context) SamplerState() int32 { return c.samplerState }

// TokensEmitted returns the non-EOS tokens sampled since the last evaluation.
func (c *Context) TokensEmitted() int32 { return c.tokensEmitted }

// NewContext creates a context bound to model. All counters start at zero.
func (e *Engine) NewContext(model ModelHandle, size, threads int) (ContextHandle, error) {
	const op = "context_create"
	if model == 0 {
		return 0, e.fail(invalidArgument(op, "model is null"))
	}
	m, ok := e.models.get(uint64(model))
	if !ok {
		return 0, e.fail(invalidArgument(op, "stale model handle"))
	}
	c := &Context{model: m, modelH: model, size: size, threads: threads}
	h, ok := e.contexts.insert(c)
	if !ok {
		return 0, e.fail(outOfMemory(op))
	}
	e.metrics.contextsActive.Inc()
	e.events.Publish(Event{Name: EventContextCreated, Handle: h, Fields: map[string]any{"model": uint64(model)}})
	e.log.Debug().Uint64("handle", h).Int("ctx", size).Int("threads", threads).Msg("context created")
	return ContextHandle(h), nil
}

// ReleaseContext frees the context. The null handle is a no-op. The bound
// model is left untouched.
func (e *Engine) ReleaseContext(h ContextHandle) error {
	if h == 0 {
		return nil
	}
	if _, ok := e.contexts.remove(uint64(h)); !ok {
		return e.fail(invalidArgument("context_free", "stale context handle"))
	}
	e.metrics.contextsActive.Dec()
	e.events.Publish(Event{Name: EventContextReleased, Handle: uint64(h)})
	return nil
}

// Context resolves h. The null or a stale handle yields false.
func (e *Engine) Context(h ContextHandle) (*Context, bool) {
	return e.contexts.get(uint64(h))
}

func (e *Engine) lookupContext(op string, h ContextHandle) (*Context, error) {
	if h == 0 {
		return nil, invalidArgument(op, "context is null")
	}
	c, ok := e.contexts.get(uint64(h))
	if !ok {
		return nil, invalidArgument(op, "stale context handle")
	}
	return c, nil
}

// sinceEval is the time elapsed since the last evaluation, or zero if the
// context was never evaluated.
func (e *Engine) sinceEval(c *Context) time.Duration {
	if c.evalStart.IsZero() {
		return 0
	}
	return e.now().Sub(c.evalStart)
}
