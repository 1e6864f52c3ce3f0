package engine

// Evaluate starts a generation round: it hands tokens to the runtime prefill
// hook, resets the per-round counters and records the reference instant for
// first-token latency.
func (e *Engine) Evaluate(h ContextHandle, tokens []int32) error {
	const op = "eval"
	c, err := e.lookupContext(op, h)
	if err != nil {
		return e.fail(err)
	}
	if err := c.model.rt.Prefill(tokens); err != nil {
		return e.fail(&Error{Kind: KindInvalidArgument, Op: op, Msg: err.Error()})
	}
	c.step = 0
	c.samplerState = 0
	c.firstTokenLatency = 0
	c.tokensEmitted = 0
	c.evalStart = e.now()
	e.log.Debug().Uint64("context", uint64(h)).Int("tokens", len(tokens)).Msg("evaluate")
	return nil
}
