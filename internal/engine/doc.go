// Package engine implements the inference-session core: model and context
// lifecycle, tokenization, evaluation, sampling, detokenization, embeddings
// and per-context statistics. It is structured into small files by concern:
//
//   - engine.go: Engine type, constructor, backend init and shutdown.
//   - config.go: Config and package defaults; NewWithConfig applies defaults.
//   - handles.go: generation-checked handle tables for models and contexts.
//   - errors.go: error kinds and helpers (IsInvalidArgument, CodeOf, ...).
//   - model.go, context.go: lifecycle of the two ownership entities.
//   - tokenize.go, evaluate.go, sampler.go, detokenize.go, embeddings.go, stats.go:
//     the per-operation logic.
//   - adapter_iface.go: Backend/Runtime/SamplingStrategy seams.
//   - adapter_static.go: deterministic placeholder backend (default).
//   - metrics.go, events.go: prometheus collectors and lifecycle events.
//
// Build tags and runtimes:
//
//   - Placeholder (default): fixed vocabulary, fixed sampling cycle and
//     synthetic embeddings. No CGO required.
//   - In-process llama: go-llama.cpp runtime enabled with `-tags=llama`.
//     Files: adapter_llama.go, llama_cgo.go (linker rpath hints).
//
// Context records are not synchronized. Callers must serialize access to a
// given context; different contexts over one model may be used concurrently.
package engine
