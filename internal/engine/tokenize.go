package engine

// Tokenize writes the token ids of text into dst and returns how many were
// written. With addBOS the reserved BOS id comes first. Words past len(dst)
// are dropped without error. The model is only a capability marker: the null
// handle selects the placeholder vocabulary.
func (e *Engine) Tokenize(model ModelHandle, text string, addBOS bool, dst []int32) (int, error) {
	const op = "tokenize"
	if len(dst) == 0 {
		return 0, e.fail(invalidArgument(op, "invalid arguments"))
	}
	rt, err := e.runtimeFor(op, model)
	if err != nil {
		return 0, e.fail(err)
	}
	// The scratch copy holds the text plus a terminator.
	if limit := e.cfg.MaxScratchBytes; limit > 0 && len(text)+1 > limit {
		return 0, e.fail(outOfMemory(op))
	}
	n, err := rt.Tokenize(text, addBOS, dst)
	if err != nil {
		return 0, e.fail(&Error{Kind: KindInvalidArgument, Op: op, Msg: err.Error()})
	}
	return n, nil
}

// fitBOS copies ids into dst so that the sequence starts with bos exactly
// when addBOS is set. autoBOS reports that the backend tokenizer already
// prepended bos to ids. The result is truncated to len(dst).
func fitBOS(ids []int32, bos int32, autoBOS, addBOS bool, dst []int32) int {
	if autoBOS && len(ids) > 0 && ids[0] == bos {
		ids = ids[1:]
	}
	n := 0
	if addBOS && len(dst) > 0 {
		dst[0] = bos
		n = 1
	}
	return n + copy(dst[n:], ids)
}
