package keyonlylocks

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestTryAcquireAllOrNothing(t *testing.T) {
	var s Set
	if !s.TryAcquire("b") {
		t.Fatal("b not acquired")
	}
	if s.TryAcquire("a", "b", "c") {
		t.Fatal("acquired over a held key")
	}
	if s.Held("a") || s.Held("c") {
		t.Error("partial acquisition not rolled back")
	}
	s.Release("b")
	if !s.TryAcquire("a", "b", "c") {
		t.Error("keys not acquired after release")
	}
}

func TestTryAcquireExclusive(t *testing.T) {
	var s Set
	var wins atomic.Int32
	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if s.TryAcquire("k") {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()
	if wins.Load() != 1 {
		t.Errorf("%d goroutines acquired the key, want 1", wins.Load())
	}
}
