// Package lookup holds the set of addresses a recovered private key is
// expected to control.
package lookup

import (
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
)

// DefaultFalsePositiveRate is the bloom filter target when none is given.
const DefaultFalsePositiveRate = 0.0001

// AddressSet answers membership for addresses. A bloom filter rejects most
// misses before the exact map is consulted.
type AddressSet struct {
	mu     sync.RWMutex
	filter *bloom.BloomFilter
	exact  map[string]struct{}
}

// NewAddressSet creates a set sized for capacity addresses.
func NewAddressSet(capacity int, falsePositiveRate float64) *AddressSet {
	if capacity < 1 {
		capacity = 1
	}
	if falsePositiveRate <= 0 || falsePositiveRate >= 1 {
		falsePositiveRate = DefaultFalsePositiveRate
	}
	return &AddressSet{
		filter: bloom.NewWithEstimates(uint(capacity), falsePositiveRate),
		exact:  make(map[string]struct{}, capacity),
	}
}

// Add inserts an address.
func (s *AddressSet) Add(addr string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter.AddString(addr)
	s.exact[addr] = struct{}{}
}

// Contains reports whether addr was added.
func (s *AddressSet) Contains(addr string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.filter.TestString(addr) {
		return false
	}
	_, ok := s.exact[addr]
	return ok
}

// Len returns the number of distinct addresses.
func (s *AddressSet) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.exact)
}
