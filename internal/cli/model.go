package cli

import (
	"fmt"

	"llamapanama/internal/common/fsutil"
	"llamapanama/internal/engine"
	"llamapanama/internal/registry"
)

// resolveModelPath accepts a file path or a registry id under the configured
// models dir. With the placeholder backend any value, including empty, is
// passed through.
func (g *globals) resolveModelPath(model string) (string, error) {
	if model != "" {
		if p, err := fsutil.Resolve(model); err == nil && fsutil.IsFile(p) {
			return p, nil
		}
		if models, err := registry.LoadDir(g.cfg.ModelsDir); err == nil {
			if m, ok := registry.Find(models, model); ok {
				return m.Path, nil
			}
		}
	}
	if g.cfg.Backend == "llama" {
		if model == "" {
			return "", fmt.Errorf("--model is required with the llama backend")
		}
		return "", fmt.Errorf("model not found: %s", model)
	}
	return model, nil
}

// openModel builds an engine, initializes the backend and loads model. The
// returned cleanup releases both.
func (g *globals) openModel(model string) (*engine.Engine, engine.ModelHandle, func(), error) {
	path, err := g.resolveModelPath(model)
	if err != nil {
		return nil, 0, nil, err
	}
	eng := g.newEngine(nil)
	if err := eng.BackendInit(); err != nil {
		return nil, 0, nil, fmt.Errorf("backend init: %w", err)
	}
	h, err := eng.LoadModel(path, g.cfg.GPULayers)
	if err != nil {
		_ = eng.Close()
		return nil, 0, nil, fmt.Errorf("load model %q: %w", path, err)
	}
	g.log.Debug().Str("path", path).Msg("model loaded")
	cleanup := func() {
		_ = eng.ReleaseModel(h)
		if err := eng.Close(); err != nil {
			g.log.Warn().Err(err).Msg("engine close")
		}
	}
	return eng, h, cleanup, nil
}
