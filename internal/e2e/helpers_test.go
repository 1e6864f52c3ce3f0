package e2e

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"llamapanama/internal/engine"
	"llamapanama/internal/httpapi"
	"llamapanama/internal/registry"
	"llamapanama/internal/session"
)

// createTempModelsDir creates a temporary directory populated with empty .gguf files
// and returns the directory path and the list of model IDs (filenames).
func createTempModelsDir(t *testing.T, names ...string) (string, []string) {
	t.Helper()
	dir := t.TempDir()
	for _, n := range names {
		p := filepath.Join(dir, n)
		if err := os.WriteFile(p, []byte(""), 0o644); err != nil {
			t.Fatalf("write temp model %s: %v", p, err)
		}
	}
	return dir, names
}

// newServerForDir wires registry, engine, session service and router over
// modelsDir. cfg.Models and cfg.Engine are filled in when unset.
func newServerForDir(t *testing.T, modelsDir string, cfg session.ServiceConfig) (*httptest.Server, *session.Service) {
	t.Helper()
	if modelsDir != "" {
		models, err := registry.LoadDir(modelsDir)
		if err != nil {
			t.Fatalf("scan models: %v", err)
		}
		cfg.Models = models
	}
	if cfg.Engine == nil {
		cfg.Engine = engine.New()
	}
	svc := session.NewService(cfg)
	srv := httptest.NewServer(httpapi.NewMux(svc))
	t.Cleanup(func() {
		srv.Close()
		_ = svc.Close()
		_ = cfg.Engine.Close()
	})
	return srv, svc
}

func httpGet(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, url, nil)
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do req: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, body
}

func httpPostJSON(t *testing.T, url string, payload []byte) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("new req: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do req: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, body
}

// gateBackend wraps the placeholder backend so that evaluation blocks until
// release is closed. entered receives one value per blocked evaluation.
type gateBackend struct {
	engine.StaticBackend
	entered chan struct{}
	release chan struct{}
}

func (b gateBackend) Open(path string, gpuLayers int) (engine.Runtime, error) {
	rt, err := b.StaticBackend.Open(path, gpuLayers)
	if err != nil {
		return nil, err
	}
	return gateRuntime{Runtime: rt, entered: b.entered, release: b.release}, nil
}

type gateRuntime struct {
	engine.Runtime
	entered chan struct{}
	release chan struct{}
}

func (r gateRuntime) Prefill(tokens []int32) error {
	select {
	case r.entered <- struct{}{}:
	default:
	}
	<-r.release
	return r.Runtime.Prefill(tokens)
}
