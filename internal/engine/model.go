package engine

import "time"

// ModelHandle identifies a loaded model. The zero value is the null handle.
type ModelHandle uint64

// Model is an immutable loaded model. Contexts hold it by reference only.
type Model struct {
	path      string
	gpuLayers int
	loadedAt  time.Time
	rt        Runtime
}

// Path returns the source identifier the model was loaded from.
func (m *Model) Path() string { return m.path }

// GPULayers returns the placement hint given at load time.
func (m *Model) GPULayers() int { return m.gpuLayers }

// LoadModel opens path through the backend. path may be empty.
func (e *Engine) LoadModel(path string, gpuLayers int) (ModelHandle, error) {
	const op = "model_load"
	rt, err := e.backend.Open(path, gpuLayers)
	if err != nil {
		e.log.Debug().Str("path", path).Err(err).Msg("backend open failed")
		return 0, e.fail(outOfMemoryCause(op, err))
	}
	m := &Model{path: path, gpuLayers: gpuLayers, loadedAt: e.now(), rt: rt}
	h, ok := e.models.insert(m)
	if !ok {
		_ = rt.Close()
		return 0, e.fail(outOfMemory(op))
	}
	e.metrics.modelsLoaded.Inc()
	e.events.Publish(Event{Name: EventModelLoaded, Handle: h, Fields: map[string]any{"path": path}})
	e.log.Debug().Str("path", path).Int("gpu_layers", gpuLayers).Uint64("handle", h).Msg("model loaded")
	return ModelHandle(h), nil
}

// ReleaseModel frees the model. The null handle is a no-op. Contexts still
// bound to the model keep working against the released record; releasing
// them first is the caller's job.
func (e *Engine) ReleaseModel(h ModelHandle) error {
	if h == 0 {
		return nil
	}
	m, ok := e.models.remove(uint64(h))
	if !ok {
		return e.fail(invalidArgument("model_free", "stale model handle"))
	}
	e.metrics.modelsLoaded.Dec()
	e.events.Publish(Event{Name: EventModelReleased, Handle: uint64(h)})
	e.log.Debug().Str("path", m.path).Uint64("handle", uint64(h)).Msg("model released")
	return m.rt.Close()
}

// Model resolves h. The null or a stale handle yields false.
func (e *Engine) Model(h ModelHandle) (*Model, bool) {
	return e.models.get(uint64(h))
}

// runtimeFor resolves the runtime used by model-scoped pure operations. The
// null handle maps to the placeholder vocabulary; a stale one is an error.
func (e *Engine) runtimeFor(op string, h ModelHandle) (Runtime, error) {
	if h == 0 {
		return staticRuntime{}, nil
	}
	m, ok := e.models.get(uint64(h))
	if !ok {
		return nil, invalidArgument(op, "stale model handle")
	}
	return m.rt, nil
}
