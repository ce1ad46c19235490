// Package keyonlylocks provides non-blocking locks identified by a key only.
package keyonlylocks

import "sync"

// Set holds the keys currently locked. The zero value is ready to use.
type Set struct {
	m sync.Map // key -> struct{}
}

// TryAcquire locks every key or none of them.
func (s *Set) TryAcquire(keys ...string) bool {
	acquired := make([]string, 0, len(keys))
	for _, key := range keys {
		if _, loaded := s.m.LoadOrStore(key, struct{}{}); loaded {
			// rollback previously acquired locks
			s.Release(acquired...)
			return false
		}
		acquired = append(acquired, key)
	}
	return true
}

// Release unlocks keys.
// Wrap this in deferred calls to guarantee to be called even if panic occurs.
func (s *Set) Release(keys ...string) {
	for _, key := range keys {
		s.m.Delete(key)
	}
}

// Held reports whether key is locked
func (s *Set) Held(key string) bool {
	_, ok := s.m.Load(key)
	return ok
}
