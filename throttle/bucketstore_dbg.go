//go:build debug

package throttle

import (
	"log"
	"time"
)

// Cleanup drops buckets idle for longer than the store's cleanupOlderThan
func (s *BucketStore[K]) Cleanup(now time.Time) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	log.Printf("[DEBUG][Throttle] cleaning expired buckets older than %v at %v", s.cleanupOlderThan, now)
	cleanCnt := 0
	for gid, g := range s.groups {
		g.buckets.Range(func(id, value any) bool {
			b := value.(*Bucket[K])
			last := b.lastChecked()
			if now.Sub(last) > s.cleanupOlderThan {
				g.buckets.Delete(id)
				cleanCnt++
				log.Printf("[DEBUG][Throttle] %s: expired bucket '%v' removed (last %v)", gid, id, last)
			}
			return true // continue iteration
		})
	}
	log.Printf("[DEBUG][Throttle] %d buckets cleaned up", cleanCnt)
}
