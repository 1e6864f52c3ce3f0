package engine

// EmbeddingDim returns the embedding width of model. The null handle reports
// the placeholder width.
func (e *Engine) EmbeddingDim(model ModelHandle) (int, error) {
	rt, err := e.runtimeFor("embeddings_dim", model)
	if err != nil {
		return 0, e.fail(err)
	}
	return rt.EmbeddingDim(), nil
}

// Embeddings writes the embedding of text into dst and returns the number of
// values written. When dst is shorter than the dimension nothing is written.
func (e *Engine) Embeddings(h ContextHandle, text string, dst []float32) (int, error) {
	const op = "get_embeddings"
	if h == 0 || len(dst) == 0 {
		return 0, e.fail(invalidArgument(op, "invalid buffer"))
	}
	c, err := e.lookupContext(op, h)
	if err != nil {
		return 0, e.fail(err)
	}
	dim := c.model.rt.EmbeddingDim()
	if dim > len(dst) {
		return 0, e.fail(bufferTooSmall(op, "buffer too small for embeddings"))
	}
	if err := c.model.rt.Embed(text, dst[:dim]); err != nil {
		return 0, e.fail(&Error{Kind: KindInvalidArgument, Op: op, Msg: err.Error()})
	}
	return dim, nil
}
