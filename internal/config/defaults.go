package config

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"llamapanama/internal/engine"
)

// Defaults applied when corresponding fields are unset.
const (
	DefaultLogLevel          = "info"
	DefaultBackend           = "static"
	DefaultContextSize       = 512
	DefaultAddr              = ":8080"
	DefaultModelsDir         = "~/models/llm"
	DefaultErrorMessageLimit = 255
	DefaultMaxBodyBytes      = 1 << 20
)

// Environment variables consulted by ApplyEnv.
const (
	EnvConfig    = "LLAMAPANAMA_CONFIG"
	EnvLogLevel  = "LLAMAPANAMA_LOG_LEVEL"
	EnvBackend   = "LLAMAPANAMA_BACKEND"
	EnvAddr      = "LLAMAPANAMA_ADDR"
	EnvModelsDir = "LLAMAPANAMA_MODELS_DIR"
	EnvThreads   = "LLAMAPANAMA_THREADS"
)

// ApplyEnv overrides fields from the environment when the variables are set.
func (c *Config) ApplyEnv() {
	c.LogLevel = envStr(EnvLogLevel, c.LogLevel)
	c.Backend = envStr(EnvBackend, c.Backend)
	c.Addr = envStr(EnvAddr, c.Addr)
	c.ModelsDir = envStr(EnvModelsDir, c.ModelsDir)
	c.Threads = envInt(EnvThreads, c.Threads)
}

// ApplyDefaults replaces zero values with package defaults.
func (c *Config) ApplyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.Backend == "" {
		c.Backend = DefaultBackend
	}
	if c.ContextSize <= 0 {
		c.ContextSize = DefaultContextSize
	}
	if c.Threads <= 0 {
		c.Threads = runtime.NumCPU()
	}
	if c.ErrorMessageLimit <= 0 {
		c.ErrorMessageLimit = DefaultErrorMessageLimit
	}
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.ModelsDir == "" {
		c.ModelsDir = DefaultModelsDir
	}
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = DefaultMaxBodyBytes
	}
	d := engine.DefaultSamplerParams()
	s := &c.Sampler
	if s.Temperature <= 0 {
		s.Temperature = d.Temperature
	}
	if s.TopP <= 0 {
		s.TopP = d.TopP
	}
	if s.TopK <= 0 {
		s.TopK = d.TopK
	}
	if s.RepeatPenalty <= 0 {
		s.RepeatPenalty = d.RepeatPenalty
	}
	if s.Seed == nil {
		seed := d.Seed
		s.Seed = &seed
	}
	if s.MaxTokens <= 0 {
		s.MaxTokens = d.MaxTokens
	}
}

// Validate reports settings that cannot be honored.
func (c Config) Validate() error {
	switch strings.ToLower(c.Backend) {
	case "", "static", "llama":
	default:
		return fmt.Errorf("unknown backend %q (want static or llama)", c.Backend)
	}
	if c.MaxModels < 0 || c.MaxContexts < 0 || c.MaxScratchBytes < 0 {
		return fmt.Errorf("limits must not be negative")
	}
	if c.MaxQueueDepth < 0 || c.MaxInflight < 0 || c.MaxWaitMs < 0 || c.GenerateTimeoutSeconds < 0 {
		return fmt.Errorf("admission settings must not be negative")
	}
	if c.MaxQueueDepth > 0 && c.MaxInflight > c.MaxQueueDepth {
		return fmt.Errorf("max_inflight (%d) exceeds max_queue_depth (%d)", c.MaxInflight, c.MaxQueueDepth)
	}
	return nil
}

// SamplerDefaults projects the sampler block onto engine parameters.
func (c Config) SamplerDefaults() engine.SamplerParams {
	p := engine.DefaultSamplerParams()
	s := c.Sampler
	if s.Temperature > 0 {
		p.Temperature = s.Temperature
	}
	if s.TopP > 0 {
		p.TopP = s.TopP
	}
	if s.TopK > 0 {
		p.TopK = s.TopK
	}
	if s.RepeatPenalty > 0 {
		p.RepeatPenalty = s.RepeatPenalty
	}
	if s.Seed != nil {
		p.Seed = *s.Seed
	}
	if s.MaxTokens > 0 {
		p.MaxTokens = s.MaxTokens
	}
	return p.WithGrammar(s.Grammar)
}

// EngineBackend returns the backend named by c.Backend.
func (c Config) EngineBackend() engine.Backend {
	if strings.EqualFold(c.Backend, "llama") {
		return engine.NewLlamaBackend(c.ContextSize, c.Threads)
	}
	return engine.StaticBackend{}
}

// EngineConfig projects the limits and backend onto an engine.Config. The
// caller supplies logger, registerer and event sink.
func (c Config) EngineConfig() engine.Config {
	return engine.Config{
		MaxModels:       c.MaxModels,
		MaxContexts:     c.MaxContexts,
		MaxScratchBytes: c.MaxScratchBytes,
		Backend:         c.EngineBackend(),
	}
}

// MaxWait returns MaxWaitMs as a duration; zero leaves the service default.
func (c Config) MaxWait() time.Duration {
	return time.Duration(c.MaxWaitMs) * time.Millisecond
}

// Env helpers
func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		var n int
		_, err := fmt.Sscanf(v, "%d", &n)
		if err == nil {
			return n
		}
	}
	return def
}
