package engine

import "sync"

// handleTable hands out stable identifiers for records. A handle packs the
// slot index (plus one, so zero stays the null handle) in the low 32 bits and
// the slot generation in the high 32 bits. Removing a record bumps the
// generation, which turns use-after-release into a lookup miss.
type handleTable[T any] struct {
	mu    sync.RWMutex
	slots []slot[T]
	free  []uint32
	live  int
	limit int
}

type slot[T any] struct {
	gen  uint32
	used bool
	val  T
}

func newHandleTable[T any](limit int) *handleTable[T] {
	return &handleTable[T]{limit: limit}
}

func packHandle(idx, gen uint32) uint64 { return uint64(gen)<<32 | uint64(idx+1) }

func unpackHandle(h uint64) (idx, gen uint32, ok bool) {
	lo := uint32(h)
	if lo == 0 {
		return 0, 0, false
	}
	return lo - 1, uint32(h >> 32), true
}

// insert stores v and returns its handle. It fails when the table is full.
func (t *handleTable[T]) insert(v T) (uint64, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.limit > 0 && t.live >= t.limit {
		return 0, false
	}
	var idx uint32
	if n := len(t.free); n > 0 {
		idx = t.free[n-1]
		t.free = t.free[:n-1]
	} else {
		idx = uint32(len(t.slots))
		t.slots = append(t.slots, slot[T]{gen: 1})
	}
	s := &t.slots[idx]
	s.used = true
	s.val = v
	t.live++
	return packHandle(idx, s.gen), true
}

func (t *handleTable[T]) get(h uint64) (T, bool) {
	var zero T
	idx, gen, ok := unpackHandle(h)
	if !ok {
		return zero, false
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	if int(idx) >= len(t.slots) {
		return zero, false
	}
	s := t.slots[idx]
	if !s.used || s.gen != gen {
		return zero, false
	}
	return s.val, true
}

func (t *handleTable[T]) remove(h uint64) (T, bool) {
	var zero T
	idx, gen, ok := unpackHandle(h)
	if !ok {
		return zero, false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if int(idx) >= len(t.slots) {
		return zero, false
	}
	s := &t.slots[idx]
	if !s.used || s.gen != gen {
		return zero, false
	}
	v := s.val
	s.val = zero
	s.used = false
	s.gen++
	if s.gen == 0 {
		s.gen = 1
	}
	t.free = append(t.free, idx)
	t.live--
	return v, true
}

func (t *handleTable[T]) len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.live
}

// drain removes every live record and returns them in slot order.
func (t *handleTable[T]) drain() []T {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]T, 0, t.live)
	var zero T
	for i := range t.slots {
		s := &t.slots[i]
		if !s.used {
			continue
		}
		out = append(out, s.val)
		s.val = zero
		s.used = false
		s.gen++
		if s.gen == 0 {
			s.gen = 1
		}
		t.free = append(t.free, uint32(i))
	}
	t.live = 0
	return out
}
