//go:build !debug

package throttle

import (
	"time"
)

// Cleanup drops buckets idle for longer than the store's cleanupOlderThan
func (s *BucketStore[K]) Cleanup(now time.Time) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, g := range s.groups {
		g.buckets.Range(func(id, value any) bool {
			b := value.(*Bucket[K])
			if now.Sub(b.lastChecked()) > s.cleanupOlderThan {
				g.buckets.Delete(id)
			}
			return true // continue iteration
		})
	}
}
