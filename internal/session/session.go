package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"llamapanama/internal/engine"
)

const (
	// streamBatchChars is the batch size, in runes, that forces a flush.
	streamBatchChars = 32
	// tokenPieceBytes bounds one detokenized piece.
	tokenPieceBytes = 512
	utf8BufferBytes = 4096
)

// ErrClosed is returned by operations on a closed session.
var ErrClosed = errors.New("session closed")

// Options configures a Session. Zero values select defaults.
type Options struct {
	Params      engine.SamplerParams
	ContextSize int
	Threads     int
	Logger      *zerolog.Logger
}

// Session is a single conversation over one context. Calls are serialized.
type Session struct {
	id      string
	eng     *engine.Engine
	model   engine.ModelHandle
	ctx     engine.ContextHandle
	params  engine.SamplerParams
	ctxSize int
	state   *engine.SamplerState
	log     zerolog.Logger

	mu     sync.Mutex
	last   engine.InferenceStats
	closed bool
}

// New creates a context on model and returns a session owning it.
func New(eng *engine.Engine, model engine.ModelHandle, opts Options) (*Session, error) {
	if opts.Params == (engine.SamplerParams{}) {
		opts.Params = engine.DefaultSamplerParams()
	}
	if opts.Params.MaxTokens <= 0 {
		opts.Params.MaxTokens = engine.DefaultSamplerParams().MaxTokens
	}
	if opts.ContextSize <= 0 {
		opts.ContextSize = 512
	}
	if opts.Threads <= 0 {
		opts.Threads = 1
	}
	h, err := eng.NewContext(model, opts.ContextSize, opts.Threads)
	if err != nil {
		return nil, err
	}
	s := &Session{
		id:      uuid.NewString(),
		eng:     eng,
		model:   model,
		ctx:     h,
		params:  opts.Params.Normalized(),
		ctxSize: opts.ContextSize,
		state:   engine.NewSamplerState(opts.Params.Seed),
	}
	if opts.Logger != nil {
		s.log = opts.Logger.With().Str("session", s.id).Logger()
	} else {
		s.log = zerolog.Nop()
	}
	return s, nil
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Params returns the sampling parameters used by Stream.
func (s *Session) Params() engine.SamplerParams { return s.params }

// Stream runs one generation round for prompt and hands decoded text to
// onChunk in batches. It stops at end-of-sequence, after MaxTokens tokens,
// when ctx is done or when onChunk fails. Pending text is flushed before
// returning ctx.Err().
func (s *Session) Stream(ctx context.Context, prompt string, onChunk func(string) error) (engine.InferenceStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return engine.InferenceStats{}, ErrClosed
	}
	start := time.Now()

	s.state.Reset()
	tokens := make([]int32, s.ctxSize)
	n, err := s.eng.Tokenize(s.model, prompt, true, tokens)
	if err != nil {
		return engine.InferenceStats{}, err
	}
	if err := s.eng.Evaluate(s.ctx, tokens[:n]); err != nil {
		return engine.InferenceStats{}, err
	}

	var (
		produced int
		batch    strings.Builder
		batchLen int
		piece    = make([]byte, tokenPieceBytes)
		dec      = newUTF8Assembler()
		loopErr  error
	)
	emit := func() error {
		if batch.Len() == 0 {
			return nil
		}
		out := batch.String()
		batch.Reset()
		batchLen = 0
		return onChunk(out)
	}

	for produced < s.params.MaxTokens {
		if err := ctx.Err(); err != nil {
			loopErr = err
			break
		}
		tok, err := s.eng.SampleEx(s.ctx, s.params, s.params.Grammar, s.state.Cell())
		if err != nil {
			loopErr = err
			break
		}
		if tok == engine.TokenEOS {
			break
		}
		pn, err := s.eng.TokenToPiece(s.model, tok, piece)
		if err != nil {
			loopErr = err
			break
		}
		if pn > 0 {
			if text := dec.Write(piece[:pn]); text != "" {
				batch.WriteString(text)
				batchLen += utf8.RuneCountInString(text)
				if shouldFlush(batchLen, text, produced) {
					if err := emit(); err != nil {
						loopErr = err
						break
					}
				}
			}
		}
		produced++
	}

	if tail := dec.Flush(); tail != "" {
		batch.WriteString(tail)
	}
	if err := emit(); err != nil && loopErr == nil {
		loopErr = err
	}

	st, err := s.eng.LastStats(s.ctx)
	if err == nil {
		s.last = st
	}
	s.log.Info().
		Float64("first_token_ms", st.FirstTokenMs).
		Float64("tokens_per_sec", st.TokensPerSecond).
		Float64("total_ms", st.TotalMs).
		Int32("emitted", st.TokensEmitted).
		Float64("wall_ms", float64(time.Since(start))/float64(time.Millisecond)).
		Msg("stream finished")
	return st, loopErr
}

// shouldFlush decides whether the batch goes out after text was appended.
// Sentence-ending punctuation flushes, except on the first produced token.
func shouldFlush(batchLen int, text string, produced int) bool {
	if batchLen >= streamBatchChars {
		return true
	}
	if produced == 0 || text == "" {
		return false
	}
	switch text[len(text)-1] {
	case '.', '!', '?', '\n':
		return true
	}
	return false
}

// Generate runs Stream and returns the concatenated text.
func (s *Session) Generate(ctx context.Context, prompt string) (string, error) {
	var sb strings.Builder
	_, err := s.Stream(ctx, prompt, func(chunk string) error {
		sb.WriteString(chunk)
		return nil
	})
	return sb.String(), err
}

// LastStats returns the statistics of the most recent Stream.
func (s *Session) LastStats() engine.InferenceStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// Embed returns the embedding of text, sized to the model dimension.
func (s *Session) Embed(text string) ([]float32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}
	dim, err := s.eng.EmbeddingDim(s.model)
	if err != nil {
		return nil, err
	}
	out := make([]float32, dim)
	n, err := s.eng.Embeddings(s.ctx, text, out)
	if err != nil {
		return nil, err
	}
	return out[:n], nil
}

// Close releases the context. The model stays loaded.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.eng.ReleaseContext(s.ctx)
}
