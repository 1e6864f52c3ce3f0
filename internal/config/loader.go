package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Config holds runtime parameters for the library, the CLI and the HTTP
// service. Zero values mean "unspecified" and are replaced by ApplyDefaults.
type Config struct {
	LogLevel string `json:"log_level" yaml:"log_level" toml:"log_level"`
	// Backend selects the runtime: "static" (placeholder) or "llama".
	Backend string `json:"backend" yaml:"backend" toml:"backend"`

	MaxModels         int `json:"max_models" yaml:"max_models" toml:"max_models"`
	MaxContexts       int `json:"max_contexts" yaml:"max_contexts" toml:"max_contexts"`
	MaxScratchBytes   int `json:"max_scratch_bytes" yaml:"max_scratch_bytes" toml:"max_scratch_bytes"`
	ErrorMessageLimit int `json:"error_message_limit" yaml:"error_message_limit" toml:"error_message_limit"`

	ContextSize int `json:"context_size" yaml:"context_size" toml:"context_size"`
	Threads     int `json:"threads" yaml:"threads" toml:"threads"`
	GPULayers   int `json:"gpu_layers" yaml:"gpu_layers" toml:"gpu_layers"`

	Sampler SamplerConfig `json:"sampler" yaml:"sampler" toml:"sampler"`

	Addr         string     `json:"addr" yaml:"addr" toml:"addr"`
	ModelsDir    string     `json:"models_dir" yaml:"models_dir" toml:"models_dir"`
	DefaultModel string     `json:"default_model" yaml:"default_model" toml:"default_model"`
	MaxBodyBytes int64      `json:"max_body_bytes" yaml:"max_body_bytes" toml:"max_body_bytes"`
	CORS         CORSConfig `json:"cors" yaml:"cors" toml:"cors"`

	// Admission control per model for the HTTP service.
	MaxQueueDepth int `json:"max_queue_depth" yaml:"max_queue_depth" toml:"max_queue_depth"`
	MaxInflight   int `json:"max_inflight" yaml:"max_inflight" toml:"max_inflight"`
	MaxWaitMs     int `json:"max_wait_ms" yaml:"max_wait_ms" toml:"max_wait_ms"`
	// GenerateTimeoutSeconds bounds one /v1/generate request; 0 disables.
	GenerateTimeoutSeconds int64 `json:"generate_timeout_seconds" yaml:"generate_timeout_seconds" toml:"generate_timeout_seconds"`
}

// SamplerConfig carries default sampling parameters. Seed is a pointer
// because zero is a valid seed.
type SamplerConfig struct {
	Temperature   float32 `json:"temperature" yaml:"temperature" toml:"temperature"`
	TopP          float32 `json:"top_p" yaml:"top_p" toml:"top_p"`
	TopK          int32   `json:"top_k" yaml:"top_k" toml:"top_k"`
	RepeatPenalty float32 `json:"repeat_penalty" yaml:"repeat_penalty" toml:"repeat_penalty"`
	Seed          *int32  `json:"seed" yaml:"seed" toml:"seed"`
	MaxTokens     int     `json:"max_tokens" yaml:"max_tokens" toml:"max_tokens"`
	Grammar       string  `json:"grammar" yaml:"grammar" toml:"grammar"`
}

// CORSConfig enables cross-origin access to the HTTP API.
type CORSConfig struct {
	Enabled        bool     `json:"enabled" yaml:"enabled" toml:"enabled"`
	AllowedOrigins []string `json:"allowed_origins" yaml:"allowed_origins" toml:"allowed_origins"`
	AllowedMethods []string `json:"allowed_methods" yaml:"allowed_methods" toml:"allowed_methods"`
	AllowedHeaders []string `json:"allowed_headers" yaml:"allowed_headers" toml:"allowed_headers"`
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}

// LoadEnv loads the file named by the environment variable key, if set,
// then applies environment overrides and defaults. An unset key yields the
// defaults.
func LoadEnv(key string) (Config, error) {
	var cfg Config
	if p := os.Getenv(key); p != "" {
		c, err := Load(p)
		if err != nil {
			return cfg, err
		}
		cfg = c
	}
	cfg.ApplyEnv()
	cfg.ApplyDefaults()
	return cfg, cfg.Validate()
}
