// Package capi adapts the engine to the flat lp_* calling convention: every
// call clears the calling thread's error on entry, reports failures through an
// optional error-code cell plus a thread-scoped message, and never panics on
// absent arguments. It has no cgo dependency so the convention can be tested
// directly; cmd/liblp only converts C types.
package capi

import (
	"llamapanama/internal/engine"
	"llamapanama/internal/threaderr"
)

// API binds an engine to a thread-scoped error store.
type API struct {
	eng  *engine.Engine
	errs *threaderr.Store
	tid  func() int64
}

// New returns an API over eng reporting errors into errs for the calling OS
// thread.
func New(eng *engine.Engine, errs *threaderr.Store) *API {
	return NewWithThreadID(eng, errs, threaderr.CurrentThreadID)
}

// NewWithThreadID is New with an explicit thread identity source.
func NewWithThreadID(eng *engine.Engine, errs *threaderr.Store, tid func() int64) *API {
	if errs == nil {
		errs = threaderr.New(0)
	}
	if tid == nil {
		tid = threaderr.CurrentThreadID
	}
	return &API{eng: eng, errs: errs, tid: tid}
}

// Engine exposes the underlying engine.
func (a *API) Engine() *engine.Engine { return a.eng }

// enter clears the calling thread's error state and the caller's code cell.
func (a *API) enter(errCell *int32) int64 {
	tid := a.tid()
	a.errs.Clear(tid)
	if errCell != nil {
		*errCell = 0
	}
	return tid
}

// report stores err for tid and writes its code. It returns the code.
func (a *API) report(tid int64, errCell *int32, err error) int32 {
	if err == nil {
		return 0
	}
	code := engine.CodeOf(err)
	if errCell != nil {
		*errCell = code
	}
	a.errs.Set(tid, err.Error())
	return code
}

// LastError returns the most recent message recorded for the calling thread,
// or "" when the last operation succeeded.
func (a *API) LastError() string { return a.errs.Get(a.tid()) }

// Forget drops the calling thread's error slot.
func (a *API) Forget() { a.errs.Forget(a.tid()) }

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
