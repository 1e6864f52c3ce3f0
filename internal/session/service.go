package session

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"go.uber.org/multierr"

	"llamapanama/internal/engine"
	"llamapanama/internal/registry"
	"llamapanama/pkg/types"
)

// Defaults applied when corresponding ServiceConfig fields are unset.
const (
	defaultMaxQueueDepth = 32
	defaultMaxInflight   = 1
	defaultMaxWait       = 30 * time.Second
	defaultContextSize   = 512
)

// PlaceholderModelID names the pathless model served when the registry is
// empty. Only the placeholder backend can open it.
const PlaceholderModelID = "placeholder"

// ServiceConfig encapsulates all tunables for Service construction.
type ServiceConfig struct {
	Engine       *engine.Engine
	Models       []types.Model
	DefaultModel string
	// Defaults are the sampling parameters requests start from.
	Defaults    engine.SamplerParams
	ContextSize int
	Threads     int
	GPULayers   int

	MaxQueueDepth int
	MaxInflight   int
	MaxWait       time.Duration

	Logger *zerolog.Logger
}

// Service serves generation, tokenization and embeddings over registry
// models. Models load lazily on first use and stay loaded until Close.
type Service struct {
	cfg ServiceConfig
	eng *engine.Engine
	log zerolog.Logger

	mu     sync.Mutex
	loaded map[string]engine.ModelHandle
	slots  map[string]*slots
}

// NewService constructs a Service from ServiceConfig.
func NewService(cfg ServiceConfig) *Service {
	if cfg.Engine == nil {
		cfg.Engine = engine.New()
	}
	if cfg.Defaults == (engine.SamplerParams{}) {
		cfg.Defaults = engine.DefaultSamplerParams()
	}
	if cfg.ContextSize <= 0 {
		cfg.ContextSize = defaultContextSize
	}
	if cfg.Threads <= 0 {
		cfg.Threads = 1
	}
	if cfg.MaxQueueDepth <= 0 {
		cfg.MaxQueueDepth = defaultMaxQueueDepth
	}
	if cfg.MaxInflight <= 0 {
		cfg.MaxInflight = defaultMaxInflight
	}
	if cfg.MaxWait <= 0 {
		cfg.MaxWait = defaultMaxWait
	}
	s := &Service{
		cfg:    cfg,
		eng:    cfg.Engine,
		loaded: make(map[string]engine.ModelHandle),
		slots:  make(map[string]*slots),
	}
	if cfg.Logger != nil {
		s.log = *cfg.Logger
	} else {
		s.log = zerolog.Nop()
	}
	return s
}

// ListModels returns a copy of the registry.
func (s *Service) ListModels() []types.Model {
	out := make([]types.Model, len(s.cfg.Models))
	copy(out, s.cfg.Models)
	return out
}

// Ready reports engine occupancy and whether the backend initialized.
func (s *Service) Ready() types.ReadyResponse {
	models, contexts := s.eng.Counts()
	state := "ready"
	if err := s.eng.BackendInit(); err != nil {
		state = "unavailable"
	}
	return types.ReadyResponse{
		State:           state,
		ModelsLoaded:    models,
		ContextsActive:  contexts,
		ModelsAvailable: len(s.cfg.Models),
	}
}

// resolve maps a request model id onto a registry entry.
func (s *Service) resolve(id string) (types.Model, error) {
	if id == "" {
		id = s.cfg.DefaultModel
	}
	if len(s.cfg.Models) == 0 && (id == "" || id == PlaceholderModelID) {
		return types.Model{ID: PlaceholderModelID, Name: PlaceholderModelID}, nil
	}
	m, ok := registry.Find(s.cfg.Models, id)
	if !ok {
		if id == "" {
			id = "(unspecified)"
		}
		return types.Model{}, ErrModelNotFound(id)
	}
	return m, nil
}

// ensureModel loads m once and returns its handle.
func (s *Service) ensureModel(m types.Model) (engine.ModelHandle, error) {
	if err := s.eng.BackendInit(); err != nil {
		return 0, ErrDependencyUnavailable(err.Error())
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if h, ok := s.loaded[m.ID]; ok {
		return h, nil
	}
	h, err := s.eng.LoadModel(m.Path, s.cfg.GPULayers)
	if err != nil {
		return 0, err
	}
	s.loaded[m.ID] = h
	s.log.Info().Str("model", m.ID).Str("path", m.Path).Msg("model loaded")
	return h, nil
}

// params overlays request overrides on the configured defaults.
func (s *Service) params(req types.GenerateRequest) engine.SamplerParams {
	p := s.cfg.Defaults
	if req.MaxTokens > 0 {
		p.MaxTokens = req.MaxTokens
	}
	if req.Temperature != nil {
		p.Temperature = *req.Temperature
	}
	if req.TopP != nil {
		p.TopP = *req.TopP
	}
	if req.TopK != nil {
		p.TopK = *req.TopK
	}
	if req.RepeatPenalty != nil {
		p.RepeatPenalty = *req.RepeatPenalty
	}
	if req.Seed != nil {
		p.Seed = *req.Seed
	}
	if req.Grammar != "" {
		p = p.WithGrammar(req.Grammar)
	}
	return p
}

// Open creates a session on the model named id.
func (s *Service) Open(id string, p engine.SamplerParams) (*Session, error) {
	m, err := s.resolve(id)
	if err != nil {
		return nil, err
	}
	h, err := s.ensureModel(m)
	if err != nil {
		return nil, err
	}
	return New(s.eng, h, Options{
		Params:      p,
		ContextSize: s.cfg.ContextSize,
		Threads:     s.cfg.Threads,
		Logger:      &s.log,
	})
}

// Generate streams NDJSON token lines for req to w, followed by a final done
// line carrying the full text and statistics. Errors before the first line
// are returned; engine failures after it are reported on the done line.
func (s *Service) Generate(ctx context.Context, req types.GenerateRequest, w io.Writer, flush func()) error {
	m, err := s.resolve(req.Model)
	if err != nil {
		return err
	}
	release, err := s.admit(ctx, m.ID)
	if err != nil {
		return err
	}
	defer release()

	sess, err := s.Open(m.ID, s.params(req))
	if err != nil {
		return err
	}
	defer sess.Close()

	enc := json.NewEncoder(w)
	var content []byte
	wrote := false
	st, err := sess.Stream(ctx, req.Prompt, func(chunk string) error {
		wrote = true
		content = append(content, chunk...)
		if err := enc.Encode(types.TokenChunk{Token: chunk}); err != nil {
			return err
		}
		if flush != nil {
			flush()
		}
		return nil
	})
	if ctx.Err() != nil {
		return ctx.Err()
	}
	done := types.GenerateDone{
		Done:      true,
		Content:   string(content),
		SessionID: sess.ID(),
		Stats:     toStats(st),
	}
	if err != nil {
		if _, ok := engine.KindOf(err); !ok || !wrote {
			return err
		}
		done.Error = err.Error()
	}
	if err := enc.Encode(done); err != nil {
		return err
	}
	if flush != nil {
		flush()
	}
	return nil
}

// Tokenize returns the ids and display pieces of req.Text.
// MaxTokens is capped at the configured context size.
func (s *Service) Tokenize(ctx context.Context, req types.TokenizeRequest) (types.TokenizeResponse, error) {
	if req.MaxTokens > s.cfg.ContextSize {
		return types.TokenizeResponse{}, &engine.Error{
			Kind: engine.KindInvalidArgument,
			Op:   "tokenize",
			Msg:  fmt.Sprintf("max_tokens %d exceeds context size %d", req.MaxTokens, s.cfg.ContextSize),
		}
	}
	m, err := s.resolve(req.Model)
	if err != nil {
		return types.TokenizeResponse{}, err
	}
	h, err := s.ensureModel(m)
	if err != nil {
		return types.TokenizeResponse{}, err
	}
	capacity := req.MaxTokens
	if capacity <= 0 {
		capacity = s.cfg.ContextSize
	}
	buf := make([]int32, capacity)
	n, err := s.eng.Tokenize(h, req.Text, req.AddBOS, buf)
	if err != nil {
		return types.TokenizeResponse{}, err
	}
	resp := types.TokenizeResponse{Tokens: buf[:n], Pieces: make([]string, 0, n)}
	for _, id := range buf[:n] {
		p, err := s.eng.Piece(h, id)
		if err != nil {
			return types.TokenizeResponse{}, err
		}
		resp.Pieces = append(resp.Pieces, p)
	}
	return resp, nil
}

// Embeddings computes the embedding of req.Input on a short-lived context.
func (s *Service) Embeddings(ctx context.Context, req types.EmbeddingsRequest) (types.EmbeddingsResponse, error) {
	m, err := s.resolve(req.Model)
	if err != nil {
		return types.EmbeddingsResponse{}, err
	}
	release, err := s.admit(ctx, m.ID)
	if err != nil {
		return types.EmbeddingsResponse{}, err
	}
	defer release()
	sess, err := s.Open(m.ID, s.cfg.Defaults)
	if err != nil {
		return types.EmbeddingsResponse{}, err
	}
	defer sess.Close()
	vec, err := sess.Embed(req.Input)
	if err != nil {
		return types.EmbeddingsResponse{}, err
	}
	return types.EmbeddingsResponse{Model: m.ID, Dim: len(vec), Embedding: vec}, nil
}

// Close releases every model loaded by the service.
func (s *Service) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var err error
	for id, h := range s.loaded {
		err = multierr.Append(err, s.eng.ReleaseModel(h))
		delete(s.loaded, id)
	}
	return err
}

func toStats(st engine.InferenceStats) types.Stats {
	return types.Stats{
		FirstTokenMs:    st.FirstTokenMs,
		TokensPerSecond: st.TokensPerSecond,
		TotalMs:         st.TotalMs,
		TokensEmitted:   st.TokensEmitted,
	}
}
