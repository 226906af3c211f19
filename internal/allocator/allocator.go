// Package allocator provides scoped bulk allocation for compiler passes.
// A pass acquires a Scope at startup, routes all pass-local scratch
// allocations through it, and releases everything in one step at pass
// exit; there is no per-object deallocation. Slabs hand out values from
// chunked backing arrays so that pass-internal side tables do not churn
// the garbage collector one node at a time.
package allocator

import (
	"sync"
)

// DefaultChunkSize is the number of values per slab chunk.
const DefaultChunkSize = 256

// Stats reports allocator usage counters.
type Stats struct {
	ScopesAcquired uint64
	ScopesReleased uint64
	Allocations    uint64
}

// Arena is the shared factory for pass scopes. It only tracks usage; the
// backing memory of each scope is dropped wholesale when the scope is
// released.
type Arena struct {
	mu        sync.Mutex
	chunkSize int
	stats     Stats
	live      int
}

// New creates an arena with the given slab chunk size. A chunk size of 0
// selects DefaultChunkSize.
func New(chunkSize int) *Arena {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &Arena{chunkSize: chunkSize}
}

// AcquireScope starts a new allocation scope. The caller must release it
// when the pass completes.
func (a *Arena) AcquireScope() *Scope {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.stats.ScopesAcquired++
	a.live++
	return &Scope{arena: a}
}

// Stats returns a snapshot of the usage counters.
func (a *Arena) Stats() Stats {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stats
}

// LiveScopes returns the number of acquired but not yet released scopes.
func (a *Arena) LiveScopes() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.live
}

func (a *Arena) countAlloc() {
	a.mu.Lock()
	a.stats.Allocations++
	a.mu.Unlock()
}

func (a *Arena) countRelease() {
	a.mu.Lock()
	a.stats.ScopesReleased++
	a.live--
	a.mu.Unlock()
}

// Scope is the scratch allocation context for one pass execution. It is
// not safe for concurrent use; passes run single-threaded.
type Scope struct {
	arena    *Arena
	resets   []func()
	released bool
}

// Release drops every allocation made through the scope in bulk. Further
// allocation through the scope panics; releasing twice is a no-op.
func (s *Scope) Release() {
	if s.released {
		return
	}
	s.released = true
	for _, reset := range s.resets {
		reset()
	}
	s.resets = nil
	s.arena.countRelease()
}

// Released reports whether the scope has been released.
func (s *Scope) Released() bool { return s.released }

func (s *Scope) register(reset func()) {
	s.resets = append(s.resets, reset)
}

func (s *Scope) checkLive() {
	if s.released {
		panic("allocator: use of released scope")
	}
}

// Slab bump-allocates values of one type within a scope. All values it
// hands out become unreachable together when the scope is released.
type Slab[T any] struct {
	scope  *Scope
	chunks [][]T
	count  int
}

// NewSlab creates a slab bound to the scope's lifetime.
func NewSlab[T any](s *Scope) *Slab[T] {
	s.checkLive()
	slab := &Slab[T]{scope: s}
	s.register(func() {
		slab.chunks = nil
	})
	return slab
}

// New allocates a zero value from the slab.
func (sl *Slab[T]) New() *T {
	var zero T
	return sl.NewFrom(zero)
}

// NewFrom allocates a value from the slab initialized to v.
func (sl *Slab[T]) NewFrom(v T) *T {
	sl.scope.checkLive()

	chunkSize := sl.scope.arena.chunkSize
	if n := len(sl.chunks); n == 0 || len(sl.chunks[n-1]) == cap(sl.chunks[n-1]) {
		sl.chunks = append(sl.chunks, make([]T, 0, chunkSize))
	}

	last := len(sl.chunks) - 1
	sl.chunks[last] = append(sl.chunks[last], v)
	sl.count++
	sl.scope.arena.countAlloc()
	return &sl.chunks[last][len(sl.chunks[last])-1]
}

// Len returns the number of live values allocated from the slab.
func (sl *Slab[T]) Len() int { return sl.count }
