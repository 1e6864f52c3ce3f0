package engine

// TokenToPiece writes the NUL-terminated fragment for token into dst and
// returns the fragment length. If the fragment and terminator do not fit,
// dst is left untouched and a BufferTooSmall error is returned.
func (e *Engine) TokenToPiece(model ModelHandle, token int32, dst []byte) (int, error) {
	const op = "token_to_piece"
	if len(dst) == 0 {
		return 0, e.fail(invalidArgument(op, "invalid buffer"))
	}
	rt, err := e.runtimeFor(op, model)
	if err != nil {
		return 0, e.fail(err)
	}
	piece := rt.Piece(token)
	if len(piece) >= len(dst) {
		return 0, e.fail(bufferTooSmall(op, "buffer too small"))
	}
	n := copy(dst, piece)
	dst[n] = 0
	return n, nil
}

// Piece returns the fragment for token without a caller buffer.
func (e *Engine) Piece(model ModelHandle, token int32) (string, error) {
	rt, err := e.runtimeFor("token_to_piece", model)
	if err != nil {
		return "", e.fail(err)
	}
	return rt.Piece(token), nil
}
