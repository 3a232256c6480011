package service

import "sync"

// IDAllocator hands out identifiers for new groups and words. Observe tells
// the allocator about ids that already exist so it never returns them.
type IDAllocator interface {
	Next() int64
	Observe(id int64)
}

// Sequence is a monotonic IDAllocator. One Sequence serves both groups and
// words, which keeps the two id spaces disjoint as well as unique.
type Sequence struct {
	mu   sync.Mutex
	last int64
}

var _ IDAllocator = (*Sequence)(nil)

// NewSequence returns a Sequence whose first id is floor+1.
func NewSequence(floor int64) *Sequence {
	return &Sequence{last: floor}
}

// Next implements IDAllocator.
func (s *Sequence) Next() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last++
	return s.last
}

// Observe implements IDAllocator.
func (s *Sequence) Observe(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id > s.last {
		s.last = id
	}
}

// Mark returns the current position so a failed change can Rewind to it.
func (s *Sequence) Mark() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// Rewind returns the sequence to an earlier Mark. The caller must ensure no id
// handed out since the mark was kept.
func (s *Sequence) Rewind(mark int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if mark < s.last {
		s.last = mark
	}
}
