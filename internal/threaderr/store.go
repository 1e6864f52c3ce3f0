// Package threaderr keeps the last error message per calling OS thread.
//
// The store is keyed by an explicit thread identifier rather than goroutine
// state so that foreign callers crossing a C boundary observe their own
// messages only. Entries are created lazily by Set and survive until Clear
// or Forget.
package threaderr

import (
	"sync"
	"unicode/utf8"
)

// DefaultLimit bounds stored messages, in bytes.
const DefaultLimit = 255

// Store maps thread identifiers to their current error message.
type Store struct {
	mu    sync.RWMutex
	msgs  map[int64]string
	limit int
}

// New returns a store that truncates messages to limit bytes. A non-positive
// limit selects DefaultLimit.
func New(limit int) *Store {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Store{msgs: make(map[int64]string), limit: limit}
}

// Limit returns the message bound in bytes.
func (s *Store) Limit() int { return s.limit }

// Clear resets the message of tid to empty.
func (s *Store) Clear(tid int64) {
	s.mu.Lock()
	delete(s.msgs, tid)
	s.mu.Unlock()
}

// Set records msg for tid, truncated on a rune boundary to the store limit.
func (s *Store) Set(tid int64, msg string) {
	msg = truncate(msg, s.limit)
	s.mu.Lock()
	if msg == "" {
		delete(s.msgs, tid)
	} else {
		s.msgs[tid] = msg
	}
	s.mu.Unlock()
}

// Get returns the message of tid, or "" when none is set.
func (s *Store) Get(tid int64) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.msgs[tid]
}

// Forget drops any state held for tid.
func (s *Store) Forget(tid int64) { s.Clear(tid) }

// Len reports how many threads currently hold a message.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.msgs)
}

func truncate(msg string, limit int) string {
	if len(msg) <= limit {
		return msg
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(msg[cut]) {
		cut--
	}
	return msg[:cut]
}
