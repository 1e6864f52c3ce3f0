package session

import (
	"context"
	"time"
)

// slots bounds the work admitted for one model: queueCh counts waiting plus
// running requests, genCh the running ones.
type slots struct {
	queueCh chan struct{}
	genCh   chan struct{}
}

func newSlots(queueDepth, inflight int) *slots {
	return &slots{
		queueCh: make(chan struct{}, queueDepth),
		genCh:   make(chan struct{}, inflight),
	}
}

// admit reserves a queue slot and then an in-flight slot. It returns a
// release func to be deferred.
func (s *Service) admit(ctx context.Context, modelID string) (func(), error) {
	s.mu.Lock()
	sl := s.slots[modelID]
	if sl == nil {
		sl = newSlots(s.cfg.MaxQueueDepth, s.cfg.MaxInflight)
		s.slots[modelID] = sl
	}
	s.mu.Unlock()

	// Fast path: respect an already-canceled context
	if err := ctx.Err(); err != nil {
		return func() {}, err
	}

	timer := time.NewTimer(s.cfg.MaxWait)
	defer timer.Stop()
	select {
	case sl.queueCh <- struct{}{}:
		// reserved queue slot
	case <-ctx.Done():
		return func() {}, ctx.Err()
	case <-timer.C:
		return func() {}, ErrTooBusy(modelID)
	}

	acquired := false
	defer func() {
		if !acquired {
			<-sl.queueCh
		}
	}()
	select {
	case sl.genCh <- struct{}{}:
		acquired = true
		return func() { <-sl.genCh; <-sl.queueCh }, nil
	case <-ctx.Done():
		return func() {}, ctx.Err()
	case <-timer.C:
		return func() {}, ErrTooBusy(modelID)
	}
}
