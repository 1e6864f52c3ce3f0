package main

/*
#include <stdint.h>
#include <stdlib.h>

typedef uintptr_t lp_model_t;
typedef uintptr_t lp_context_t;

typedef struct lp_inference_stats {
    double first_token_ms;
    double tokens_per_sec;
    double total_ms;
    int tokens_emitted;
} lp_inference_stats;
*/
import "C"

import (
	"sync"
	"unsafe"

	"llamapanama/internal/capi"
	"llamapanama/internal/engine"
	"llamapanama/internal/threaderr"
)

// lastErrors caches the C copy of each thread's message. The pointer handed
// out by lp_last_error stays valid until the next lp_last_error call on the
// same thread.
var (
	lastErrMu sync.Mutex
	lastErrs  = map[int64]*C.char{}
	emptyErr  = C.CString("")
)

func goStringPtr(s *C.char) *string {
	if s == nil {
		return nil
	}
	v := C.GoString(s)
	return &v
}

func setErr(cell *C.int, code int32) {
	if cell != nil {
		*cell = C.int(code)
	}
}

//export lp_backend_init
func lp_backend_init() C.int {
	return C.int(api().BackendInit())
}

//export lp_model_load
func lp_model_load(path *C.char, nGPULayers C.int, err *C.int) C.lp_model_t {
	var code int32
	h := api().ModelLoad(goStringPtr(path), int32(nGPULayers), &code)
	setErr(err, code)
	return C.lp_model_t(h)
}

//export lp_context_create
func lp_context_create(model C.lp_model_t, ctx C.int, threads C.int, err *C.int) C.lp_context_t {
	var code int32
	h := api().ContextCreate(engine.ModelHandle(model), int32(ctx), int32(threads), &code)
	setErr(err, code)
	return C.lp_context_t(h)
}

//export lp_tokenize
func lp_tokenize(model C.lp_model_t, text *C.char, addBOS C.int, outTokens *C.int, maxTokens C.int, err *C.int) C.int {
	var out []int32
	if outTokens != nil && maxTokens > 0 {
		out = unsafe.Slice((*int32)(unsafe.Pointer(outTokens)), int(maxTokens))
	}
	var code int32
	n := api().Tokenize(engine.ModelHandle(model), goStringPtr(text), addBOS != 0, out, int32(maxTokens), &code)
	setErr(err, code)
	return C.int(n)
}

//export lp_eval
func lp_eval(ctx C.lp_context_t, tokens *C.int, nTokens C.int, err *C.int) C.int {
	var in []int32
	if tokens != nil && nTokens > 0 {
		in = unsafe.Slice((*int32)(unsafe.Pointer(tokens)), int(nTokens))
	}
	var code int32
	rc := api().Eval(engine.ContextHandle(ctx), in, &code)
	setErr(err, code)
	return C.int(rc)
}

//export lp_sample
func lp_sample(ctx C.lp_context_t, temp C.float, topP C.float, topK C.int, repeatPenalty C.float, seed C.int, err *C.int) C.int {
	var code int32
	tok := api().Sample(engine.ContextHandle(ctx), float32(temp), float32(topP), int32(topK), float32(repeatPenalty), int32(seed), &code)
	setErr(err, code)
	return C.int(tok)
}

//export lp_sample_ex
func lp_sample_ex(ctx C.lp_context_t, temp C.float, topP C.float, topK C.int, repeatPenalty C.float, seed C.int, grammar *C.char, statePos *C.int, err *C.int) C.int {
	var code int32
	tok := api().SampleEx(engine.ContextHandle(ctx), float32(temp), float32(topP), int32(topK), float32(repeatPenalty), int32(seed),
		goStringPtr(grammar), (*int32)(unsafe.Pointer(statePos)), &code)
	setErr(err, code)
	return C.int(tok)
}

//export lp_token_to_piece
func lp_token_to_piece(model C.lp_model_t, token C.int, out *C.char, outLen C.int, err *C.int) C.int {
	var dst []byte
	if out != nil && outLen > 0 {
		dst = unsafe.Slice((*byte)(unsafe.Pointer(out)), int(outLen))
	}
	var code int32
	rc := api().TokenToPiece(engine.ModelHandle(model), int32(token), dst, int32(outLen), &code)
	setErr(err, code)
	return C.int(rc)
}

//export lp_embeddings_dim
func lp_embeddings_dim(model C.lp_model_t, err *C.int) C.int {
	var code int32
	dim := api().EmbeddingsDim(engine.ModelHandle(model), &code)
	setErr(err, code)
	return C.int(dim)
}

//export lp_get_embeddings
func lp_get_embeddings(ctx C.lp_context_t, text *C.char, out *C.float, maxLen C.int, err *C.int) C.int {
	var dst []float32
	if out != nil && maxLen > 0 {
		dst = unsafe.Slice((*float32)(unsafe.Pointer(out)), int(maxLen))
	}
	var code int32
	n := api().GetEmbeddings(engine.ContextHandle(ctx), goStringPtr(text), dst, int32(maxLen), &code)
	setErr(err, code)
	return C.int(n)
}

//export lp_free_model
func lp_free_model(model C.lp_model_t) {
	api().FreeModel(engine.ModelHandle(model))
}

//export lp_free_context
func lp_free_context(ctx C.lp_context_t) {
	api().FreeContext(engine.ContextHandle(ctx))
}

//export lp_last_error
func lp_last_error() *C.char {
	msg := api().LastError()
	tid := threaderr.CurrentThreadID()

	lastErrMu.Lock()
	defer lastErrMu.Unlock()
	if old, ok := lastErrs[tid]; ok {
		C.free(unsafe.Pointer(old))
		delete(lastErrs, tid)
	}
	if msg == "" {
		return emptyErr
	}
	cs := C.CString(msg)
	lastErrs[tid] = cs
	return cs
}

//export lp_get_last_stats
func lp_get_last_stats(ctx C.lp_context_t, out *C.lp_inference_stats, err *C.int) C.int {
	var st capi.Stats
	var dst *capi.Stats
	if out != nil {
		dst = &st
	}
	var code int32
	rc := api().GetLastStats(engine.ContextHandle(ctx), dst, &code)
	setErr(err, code)
	if rc == 0 && out != nil {
		out.first_token_ms = C.double(st.FirstTokenMs)
		out.tokens_per_sec = C.double(st.TokensPerSecond)
		out.total_ms = C.double(st.TotalMs)
		out.tokens_emitted = C.int(st.TokensEmitted)
	}
	return C.int(rc)
}
