package types

// Model represents a discoverable or loadable LLM model on disk.
type Model struct {
	// Stable identifier for the model (the file name).
	// example: tinyllama.Q4_K_M.gguf
	ID string `json:"id" example:"tinyllama.Q4_K_M.gguf"`
	// Human-friendly name.
	// example: tinyllama
	Name string `json:"name" example:"tinyllama"`
	// Absolute path to the model file on disk.
	// example: /home/user/models/tinyllama.Q4_K_M.gguf
	Path string `json:"path" example:"/home/user/models/tinyllama.Q4_K_M.gguf"`
	// Quantization level or variant string, when the file name carries one.
	// example: Q4_K_M
	Quant string `json:"quant,omitempty" example:"Q4_K_M"`
	// File size in bytes.
	// example: 668788096
	SizeBytes int64 `json:"size_bytes" example:"668788096"`
}

// Stats mirrors the per-context inference statistics.
type Stats struct {
	// Latency from evaluation to the first emitted token.
	// example: 12.5
	FirstTokenMs float64 `json:"first_token_ms" example:"12.5"`
	// Emitted tokens per second over the whole round.
	// example: 42.1
	TokensPerSecond float64 `json:"tokens_per_sec" example:"42.1"`
	// Time since evaluation.
	// example: 310.2
	TotalMs float64 `json:"total_ms" example:"310.2"`
	// Non end-of-sequence tokens sampled.
	// example: 13
	TokensEmitted int32 `json:"tokens_emitted" example:"13"`
}
