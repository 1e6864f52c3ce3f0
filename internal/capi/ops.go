package capi

import "llamapanama/internal/engine"

var (
	errInvalidArguments = &engine.Error{Kind: engine.KindInvalidArgument, Op: "tokenize", Msg: "invalid arguments"}
	errStatsArguments   = &engine.Error{Kind: engine.KindInvalidArgument, Op: "get_last_stats", Msg: "invalid arguments"}
)

// Stats mirrors lp_inference_stats.
type Stats struct {
	FirstTokenMs    float64
	TokensPerSecond float64
	TotalMs         float64
	TokensEmitted   int32
}

// BackendInit initializes the backend. It always reports success unless the
// configured backend fails to initialize.
func (a *API) BackendInit() int32 {
	tid := a.enter(nil)
	return a.report(tid, nil, a.eng.BackendInit())
}

// ModelLoad loads path (nil is treated as empty) and returns its handle, or
// 0 on failure.
func (a *API) ModelLoad(path *string, gpuLayers int32, errCell *int32) engine.ModelHandle {
	tid := a.enter(errCell)
	h, err := a.eng.LoadModel(deref(path), int(gpuLayers))
	if err != nil {
		a.report(tid, errCell, err)
		return 0
	}
	return h
}

// ContextCreate binds a new context to model and returns its handle, or 0.
func (a *API) ContextCreate(model engine.ModelHandle, ctxSize, threads int32, errCell *int32) engine.ContextHandle {
	tid := a.enter(errCell)
	h, err := a.eng.NewContext(model, int(ctxSize), int(threads))
	if err != nil {
		a.report(tid, errCell, err)
		return 0
	}
	return h
}

// Tokenize writes at most maxTokens ids into out and returns the count. A nil
// text or out, or a non-positive maxTokens, is an invalid argument.
func (a *API) Tokenize(model engine.ModelHandle, text *string, addBOS bool, out []int32, maxTokens int32, errCell *int32) int32 {
	tid := a.enter(errCell)
	if text == nil || out == nil || maxTokens <= 0 {
		a.report(tid, errCell, errInvalidArguments)
		return 0
	}
	if int(maxTokens) < len(out) {
		out = out[:maxTokens]
	}
	n, err := a.eng.Tokenize(model, *text, addBOS, out)
	if err != nil {
		a.report(tid, errCell, err)
		return 0
	}
	return int32(n)
}

// Eval starts a generation round and returns the error code.
func (a *API) Eval(ctx engine.ContextHandle, tokens []int32, errCell *int32) int32 {
	tid := a.enter(errCell)
	return a.report(tid, errCell, a.eng.Evaluate(ctx, tokens))
}

// Sample draws the next token from the context-persisted sampler state. It
// returns 0 on failure.
func (a *API) Sample(ctx engine.ContextHandle, temp, topP float32, topK int32, repeatPenalty float32, seed int32, errCell *int32) int32 {
	return a.SampleEx(ctx, temp, topP, topK, repeatPenalty, seed, nil, nil, errCell)
}

// SampleEx is Sample with an optional grammar and an optional external state
// cell that is read before and written after the step.
func (a *API) SampleEx(ctx engine.ContextHandle, temp, topP float32, topK int32, repeatPenalty float32, seed int32, grammar *string, statePos *int32, errCell *int32) int32 {
	tid := a.enter(errCell)
	p := engine.SamplerParams{
		Temperature:   temp,
		TopP:          topP,
		TopK:          topK,
		RepeatPenalty: repeatPenalty,
		Seed:          seed,
	}
	tok, err := a.eng.SampleEx(ctx, p, deref(grammar), statePos)
	if err != nil {
		a.report(tid, errCell, err)
		return 0
	}
	return tok
}

// TokenToPiece writes the NUL-terminated fragment for token into out and
// returns the error code.
func (a *API) TokenToPiece(model engine.ModelHandle, token int32, out []byte, outLen int32, errCell *int32) int32 {
	tid := a.enter(errCell)
	if out == nil || outLen <= 0 {
		out = nil
	} else if int(outLen) < len(out) {
		out = out[:outLen]
	}
	_, err := a.eng.TokenToPiece(model, token, out)
	return a.report(tid, errCell, err)
}

// EmbeddingsDim returns the embedding width of model, or 0 on failure.
func (a *API) EmbeddingsDim(model engine.ModelHandle, errCell *int32) int32 {
	tid := a.enter(errCell)
	dim, err := a.eng.EmbeddingDim(model)
	if err != nil {
		a.report(tid, errCell, err)
		return 0
	}
	return int32(dim)
}

// GetEmbeddings writes the embedding of text (nil means empty) into out and
// returns the dimension, or 0 on failure.
func (a *API) GetEmbeddings(ctx engine.ContextHandle, text *string, out []float32, maxLen int32, errCell *int32) int32 {
	tid := a.enter(errCell)
	if out == nil || maxLen <= 0 {
		out = nil
	} else if int(maxLen) < len(out) {
		out = out[:maxLen]
	}
	n, err := a.eng.Embeddings(ctx, deref(text), out)
	if err != nil {
		a.report(tid, errCell, err)
		return 0
	}
	return int32(n)
}

// FreeModel releases model. The null handle is a no-op; a stale one leaves a
// message for the calling thread.
func (a *API) FreeModel(model engine.ModelHandle) {
	tid := a.enter(nil)
	a.report(tid, nil, a.eng.ReleaseModel(model))
}

// FreeContext releases ctx without touching its model.
func (a *API) FreeContext(ctx engine.ContextHandle) {
	tid := a.enter(nil)
	a.report(tid, nil, a.eng.ReleaseContext(ctx))
}

// GetLastStats fills out with the context's statistics and returns the error
// code. ctx and out must be non-nil.
func (a *API) GetLastStats(ctx engine.ContextHandle, out *Stats, errCell *int32) int32 {
	tid := a.enter(errCell)
	if ctx == 0 || out == nil {
		return a.report(tid, errCell, errStatsArguments)
	}
	st, err := a.eng.LastStats(ctx)
	if err != nil {
		return a.report(tid, errCell, err)
	}
	*out = Stats{
		FirstTokenMs:    st.FirstTokenMs,
		TokensPerSecond: st.TokensPerSecond,
		TotalMs:         st.TotalMs,
		TokensEmitted:   st.TokensEmitted,
	}
	return 0
}
