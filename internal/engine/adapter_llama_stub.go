//go:build !llama

package engine

import "errors"

// llamaBuilt indicates this binary was compiled without llama support.
var llamaBuilt = false

// errLlamaNotBuilt is returned when the llama backend is requested in a
// binary built without the 'llama' tag.
var errLlamaNotBuilt = errors.New("llama support not built (missing 'llama' build tag)")

// NewLlamaBackend returns a backend whose Init fails fast: llama runtime not
// available in this build.
func NewLlamaBackend(ctxSize, threads int) Backend { return llamaStub{} }

type llamaStub struct{}

func (llamaStub) Name() string { return "llama" }

func (llamaStub) Init() error { return errLlamaNotBuilt }

func (llamaStub) Open(path string, gpuLayers int) (Runtime, error) { return nil, errLlamaNotBuilt }

// LlamaBuilt reports whether the binary carries the llama backend.
func LlamaBuilt() bool { return llamaBuilt }
