package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func TestLoadYAML(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.yaml", `addr: ":9999"
models_dir: /tmp
log_level: debug
max_models: 3
max_contexts: 9
context_size: 2048
sampler:
  temperature: 0.5
  seed: 0
  max_tokens: 16
cors:
  enabled: true
  allowed_origins: ["http://localhost:5173"]
`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":9999" || cfg.ModelsDir != "/tmp" || cfg.LogLevel != "debug" || cfg.MaxModels != 3 || cfg.MaxContexts != 9 || cfg.ContextSize != 2048 {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
	if cfg.Sampler.Temperature != 0.5 || cfg.Sampler.Seed == nil || *cfg.Sampler.Seed != 0 || cfg.Sampler.MaxTokens != 16 {
		t.Fatalf("unexpected sampler: %+v", cfg.Sampler)
	}
	if !cfg.CORS.Enabled || len(cfg.CORS.AllowedOrigins) != 1 {
		t.Fatalf("unexpected cors: %+v", cfg.CORS)
	}
}

func TestLoadJSON(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.json", `{"addr":":7070","models_dir":"/m","backend":"llama","threads":2,"max_scratch_bytes":64,"sampler":{"top_k":5,"grammar":"root ::= x"}}`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":7070" || cfg.ModelsDir != "/m" || cfg.Backend != "llama" || cfg.Threads != 2 || cfg.MaxScratchBytes != 64 {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
	if cfg.Sampler.TopK != 5 || cfg.Sampler.Grammar != "root ::= x" || cfg.Sampler.Seed != nil {
		t.Fatalf("unexpected sampler: %+v", cfg.Sampler)
	}
}

func TestLoadTOML(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.toml", "addr=\":8081\"\nmodels_dir=\"/x\"\nerror_message_limit=64\n[sampler]\nseed=7\nrepeat_penalty=1.3\n")
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":8081" || cfg.ModelsDir != "/x" || cfg.ErrorMessageLimit != 64 {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
	if cfg.Sampler.Seed == nil || *cfg.Sampler.Seed != 7 || cfg.Sampler.RepeatPenalty != 1.3 {
		t.Fatalf("unexpected sampler: %+v", cfg.Sampler)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(""); err == nil {
		t.Fatalf("expected error on empty path")
	}
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.txt", "not supported")
	if _, err := Load(p); err == nil {
		t.Fatalf("expected unsupported extension error")
	}
}

func TestLoadEnv(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.yaml", "addr: \":1234\"\nthreads: 3\n")
	t.Setenv(EnvConfig, p)
	t.Setenv(EnvAddr, ":4321")
	cfg, err := LoadEnv(EnvConfig)
	if err != nil {
		t.Fatalf("load env: %v", err)
	}
	if cfg.Addr != ":4321" {
		t.Fatalf("env should override file addr, got %q", cfg.Addr)
	}
	if cfg.Threads != 3 || cfg.ContextSize != DefaultContextSize || cfg.Backend != DefaultBackend {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
}

func TestLoadEnvUnset(t *testing.T) {
	t.Setenv(EnvConfig, "")
	cfg, err := LoadEnv(EnvConfig)
	if err != nil {
		t.Fatalf("load env: %v", err)
	}
	if cfg.LogLevel != DefaultLogLevel || cfg.ErrorMessageLimit != DefaultErrorMessageLimit {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestLoadEnvBadFile(t *testing.T) {
	t.Setenv(EnvConfig, filepath.Join(t.TempDir(), "missing.yaml"))
	if _, err := LoadEnv(EnvConfig); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
