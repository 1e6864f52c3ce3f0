package engine

// Backend opens model runtimes. Concrete implementations (the placeholder, or
// llama.cpp under the `llama` tag) satisfy this interface.
type Backend interface {
	Name() string
	// Init prepares process-wide backend state. It is called at most once.
	Init() error
	// Open loads the model at path. gpuLayers is a placement hint.
	Open(path string, gpuLayers int) (Runtime, error)
}

// Runtime is the per-model half of a backend. Implementations must be safe
// for concurrent reads because contexts over one model may run in parallel.
type Runtime interface {
	// Tokenize writes at most len(dst) ids into dst and returns the count.
	Tokenize(text string, addBOS bool, dst []int32) (int, error)
	// Piece returns the display fragment for token.
	Piece(token int32) string
	EmbeddingDim() int
	// Embed fills dst, which has exactly EmbeddingDim elements.
	Embed(text string, dst []float32) error
	// Prefill receives the evaluated prompt tokens.
	Prefill(tokens []int32) error
	Close() error
}

// SamplingStrategy selects the next token from the sampler inputs. Params
// are passed through so a real backend can honor them.
type SamplingStrategy interface {
	Pick(seed, state int32, params SamplerParams) int32
}
