package search

import (
	"sort"
	"sync"
	"sync/atomic"
)

// Progress is a snapshot pushed to observers while a search runs.
type Progress struct {
	Fraction float64 // explored share of the search space, 0..1
	Tested   uint64  // full candidates evaluated so far
}

// ProgressFunc receives progress snapshots. It is called from a single
// goroutine and must not block for long.
type ProgressFunc func(Progress)

// State is the record shared by the workers of one search. The counters are
// atomics and the result list is guarded by mu; everything else a worker
// touches is goroutine-local.
type State struct {
	tested   atomic.Uint64
	explored atomic.Uint64
	total    atomic.Uint64

	mu      sync.Mutex
	results []string
}

// Reset clears the state before a new search.
func (s *State) Reset() {
	s.tested.Store(0)
	s.explored.Store(0)
	s.total.Store(0)
	s.mu.Lock()
	s.results = nil
	s.mu.Unlock()
}

// Tested returns the number of full candidates evaluated.
func (s *State) Tested() uint64 {
	return s.tested.Load()
}

// Progress returns the current snapshot.
func (s *State) Progress() Progress {
	p := Progress{Tested: s.tested.Load()}
	if total := s.total.Load(); total > 0 {
		p.Fraction = float64(s.explored.Load()) / float64(total)
		if p.Fraction > 1 {
			p.Fraction = 1
		}
	}
	return p
}

// Results returns a sorted copy of the valid candidates found so far.
func (s *State) Results() []string {
	s.mu.Lock()
	out := make([]string, len(s.results))
	copy(out, s.results)
	s.mu.Unlock()
	sort.Strings(out)
	return out
}

func (s *State) addResult(candidate string) {
	s.mu.Lock()
	s.results = append(s.results, candidate)
	s.mu.Unlock()
}

func (s *State) flush(tested, explored uint64) {
	if tested > 0 {
		s.tested.Add(tested)
	}
	if explored > 0 {
		s.explored.Add(explored)
	}
}
