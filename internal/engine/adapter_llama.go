//go:build llama

package engine

import (
	"errors"
	"strings"
	"sync"

	llama "github.com/go-skynet/go-llama.cpp"
)

// llamaBuilt indicates this binary was compiled with real llama support.
var llamaBuilt = true

// LlamaBackend opens models in-process through go-llama.cpp.
type LlamaBackend struct {
	ContextSize int
	Threads     int
}

// NewLlamaBackend returns a backend that loads GGUF files with llama.cpp.
func NewLlamaBackend(ctxSize, threads int) Backend {
	return LlamaBackend{ContextSize: ctxSize, Threads: threads}
}

func (LlamaBackend) Name() string { return "llama" }

func (LlamaBackend) Init() error { return nil }

func (b LlamaBackend) Open(path string, gpuLayers int) (Runtime, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("model path is empty")
	}
	mo := []llama.ModelOption{
		llama.SetContext(zn(b.ContextSize, 512)),
		llama.EnableEmbeddings,
	}
	if gpuLayers > 0 {
		mo = append(mo, llama.SetGPULayers(gpuLayers))
	}
	m, err := llama.New(path, mo...)
	if err != nil {
		return nil, err
	}
	rt := &llamaRuntime{model: m, threads: zn(b.Threads, 1), bos: TokenBOS}
	// An empty string tokenizes to just the BOS id when the model's
	// tokenizer inserts it on its own.
	if _, ids, err := m.TokenizeString("", llama.SetThreads(rt.threads)); err == nil && len(ids) == 1 {
		rt.bos, rt.autoBOS = ids[0], true
	}
	// Measure the embedding width once; llama.cpp has no direct accessor here.
	if vec, err := m.Embeddings(" ", llama.SetThreads(rt.threads)); err == nil {
		rt.dim = len(vec)
	}
	return rt, nil
}

// llamaRuntime owns the loaded model. go-llama.cpp serializes calls into a
// single llama context, so every call takes mu.
type llamaRuntime struct {
	mu      sync.Mutex
	model   *llama.LLama
	threads int
	dim     int
	bos     int32
	autoBOS bool
}

func (r *llamaRuntime) Tokenize(text string, addBOS bool, dst []int32) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.model == nil {
		return 0, errors.New("llama model not initialized")
	}
	_, ids, err := r.model.TokenizeString(text, llama.SetThreads(r.threads))
	if err != nil {
		return 0, err
	}
	return fitBOS(ids, r.bos, r.autoBOS, addBOS, dst), nil
}

// Piece falls back to the placeholder table: go-llama.cpp exposes no
// detokenizer for single ids.
func (r *llamaRuntime) Piece(token int32) string { return staticRuntime{}.Piece(token) }

func (r *llamaRuntime) EmbeddingDim() int {
	if r.dim > 0 {
		return r.dim
	}
	return StaticEmbeddingDim
}

func (r *llamaRuntime) Embed(text string, dst []float32) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.model == nil {
		return errors.New("llama model not initialized")
	}
	vec, err := r.model.Embeddings(text, llama.SetThreads(r.threads))
	if err != nil {
		return err
	}
	copy(dst, vec)
	return nil
}

// Prefill is a no-op: go-llama.cpp evaluates the prompt inside Predict.
func (r *llamaRuntime) Prefill(tokens []int32) error { return nil }

func (r *llamaRuntime) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.model != nil {
		r.model.Free()
		r.model = nil
	}
	return nil
}

func zn(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}
