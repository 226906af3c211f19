package allocator

import (
	"sync"
	"testing"
)

func TestSlabAllocation(t *testing.T) {
	arena := New(4)
	scope := arena.AcquireScope()
	defer scope.Release()

	slab := NewSlab[int](scope)
	var ptrs []*int
	for i := 0; i < 10; i++ {
		ptrs = append(ptrs, slab.NewFrom(i))
	}

	if slab.Len() != 10 {
		t.Errorf("Len = %d, want 10", slab.Len())
	}
	// Chunked backing must never move values already handed out.
	for i, p := range ptrs {
		if *p != i {
			t.Errorf("ptrs[%d] = %d, want %d", i, *p, i)
		}
	}
}

func TestSlabZeroValue(t *testing.T) {
	arena := New(0)
	scope := arena.AcquireScope()
	defer scope.Release()

	type record struct {
		name string
		n    int
	}
	slab := NewSlab[record](scope)
	r := slab.New()
	if r.name != "" || r.n != 0 {
		t.Errorf("New() = %+v, want zero value", *r)
	}
}

func TestScopeRelease(t *testing.T) {
	arena := New(0)
	scope := arena.AcquireScope()
	slab := NewSlab[int](scope)
	slab.NewFrom(1)

	if arena.LiveScopes() != 1 {
		t.Errorf("LiveScopes = %d, want 1", arena.LiveScopes())
	}

	scope.Release()
	if !scope.Released() {
		t.Error("scope should report released")
	}
	if arena.LiveScopes() != 0 {
		t.Errorf("LiveScopes = %d, want 0", arena.LiveScopes())
	}

	// Releasing twice is a no-op.
	scope.Release()
	if got := arena.Stats().ScopesReleased; got != 1 {
		t.Errorf("ScopesReleased = %d, want 1", got)
	}
}

func TestUseAfterReleasePanics(t *testing.T) {
	arena := New(0)
	scope := arena.AcquireScope()
	slab := NewSlab[int](scope)
	scope.Release()

	defer func() {
		if recover() == nil {
			t.Error("allocation through a released scope should panic")
		}
	}()
	slab.NewFrom(1)
}

func TestNewSlabOnReleasedScopePanics(t *testing.T) {
	arena := New(0)
	scope := arena.AcquireScope()
	scope.Release()

	defer func() {
		if recover() == nil {
			t.Error("NewSlab on a released scope should panic")
		}
	}()
	NewSlab[int](scope)
}

func TestStatsCounters(t *testing.T) {
	arena := New(2)

	scope := arena.AcquireScope()
	slab := NewSlab[string](scope)
	for i := 0; i < 5; i++ {
		slab.NewFrom("v")
	}
	scope.Release()

	stats := arena.Stats()
	if stats.ScopesAcquired != 1 {
		t.Errorf("ScopesAcquired = %d, want 1", stats.ScopesAcquired)
	}
	if stats.ScopesReleased != 1 {
		t.Errorf("ScopesReleased = %d, want 1", stats.ScopesReleased)
	}
	if stats.Allocations != 5 {
		t.Errorf("Allocations = %d, want 5", stats.Allocations)
	}
}

func TestConcurrentScopes(t *testing.T) {
	// Scopes are single-threaded; the arena itself is shared.
	arena := New(8)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			scope := arena.AcquireScope()
			defer scope.Release()
			slab := NewSlab[int](scope)
			for j := 0; j < 100; j++ {
				slab.NewFrom(j)
			}
		}()
	}
	wg.Wait()

	stats := arena.Stats()
	if stats.ScopesAcquired != 8 || stats.ScopesReleased != 8 {
		t.Errorf("scopes acquired/released = %d/%d, want 8/8",
			stats.ScopesAcquired, stats.ScopesReleased)
	}
	if stats.Allocations != 800 {
		t.Errorf("Allocations = %d, want 800", stats.Allocations)
	}
	if arena.LiveScopes() != 0 {
		t.Errorf("LiveScopes = %d, want 0", arena.LiveScopes())
	}
}
