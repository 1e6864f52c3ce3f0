package types

// GenerateRequest represents a generation request payload.
type GenerateRequest struct {
	// Optional model identifier. If empty, the server default is used.
	// example: tinyllama.Q4_K_M.gguf
	Model string `json:"model,omitempty" example:"tinyllama.Q4_K_M.gguf"`
	// Required prompt text to generate a completion for.
	// example: Hello world
	Prompt string `json:"prompt" example:"Hello world"`
	// Maximum number of new tokens to generate.
	// example: 32
	MaxTokens int `json:"max_tokens,omitempty" example:"32"`
	// Sampling temperature (higher = more random).
	// example: 0.8
	Temperature *float32 `json:"temperature,omitempty" example:"0.8"`
	// Nucleus sampling probability.
	// example: 0.95
	TopP *float32 `json:"top_p,omitempty" example:"0.95"`
	// Top-K sampling: limit candidates to top K tokens.
	// example: 40
	TopK *int32 `json:"top_k,omitempty" example:"40"`
	// Repeat penalty.
	// example: 1.1
	RepeatPenalty *float32 `json:"repeat_penalty,omitempty" example:"1.1"`
	// Random seed for reproducibility; omitted uses the server default.
	// example: 42
	Seed *int32 `json:"seed,omitempty" example:"42"`
	// Optional GBNF grammar constraint.
	Grammar string `json:"grammar,omitempty"`
}

// TokenChunk is one streamed NDJSON line of generated text.
type TokenChunk struct {
	// example: Hello world
	Token string `json:"token" example:"Hello world"`
}

// GenerateDone is the final NDJSON line of a generation stream.
type GenerateDone struct {
	// Always true.
	Done bool `json:"done" example:"true"`
	// Full generated text.
	Content string `json:"content"`
	// Identifier of the session that served the request.
	// example: 6f1c2a7e-5b0e-4c4b-9a55-1c2d3e4f5a6b
	SessionID string `json:"session_id" example:"6f1c2a7e-5b0e-4c4b-9a55-1c2d3e4f5a6b"`
	// Statistics for the round.
	Stats Stats `json:"stats"`
	// Set when the stream ended early.
	Error string `json:"error,omitempty"`
}

// TokenizeRequest is the payload of POST /v1/tokenize.
type TokenizeRequest struct {
	Model string `json:"model,omitempty"`
	// example: Hello world
	Text string `json:"text" example:"Hello world"`
	// Prepend the beginning-of-sequence token.
	AddBOS bool `json:"add_bos,omitempty"`
	// Maximum number of ids to return; defaults to the context size.
	MaxTokens int `json:"max_tokens,omitempty"`
}

// TokenizeResponse lists token ids and their display pieces.
type TokenizeResponse struct {
	Tokens []int32  `json:"tokens"`
	Pieces []string `json:"pieces"`
}

// EmbeddingsRequest is the payload of POST /v1/embeddings.
type EmbeddingsRequest struct {
	Model string `json:"model,omitempty"`
	// example: Hello world
	Input string `json:"input" example:"Hello world"`
}

// EmbeddingsResponse carries one embedding vector.
type EmbeddingsResponse struct {
	Model     string    `json:"model"`
	Dim       int       `json:"dim"`
	Embedding []float32 `json:"embedding"`
}

// ModelsResponse wraps the list of models returned by GET /models.
type ModelsResponse struct {
	// List of available models.
	Models []Model `json:"models"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: invalid JSON body
	Error string `json:"error" example:"invalid JSON body"`
	// HTTP status code.
	// example: 400
	Code int `json:"code" example:"400"`
}

// ReadyResponse is returned by GET /readyz.
type ReadyResponse struct {
	// example: ready
	State string `json:"state" example:"ready"`
	// Live models and contexts in the engine.
	ModelsLoaded   int `json:"models_loaded"`
	ContextsActive int `json:"contexts_active"`
	// Models discovered on disk.
	ModelsAvailable int `json:"models_available"`
}
