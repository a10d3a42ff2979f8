package pool

// Slab hands out fixed-length blocks of T for the lifetime of one event.
//
// Requests up to the block length are served from reusable blocks. Larger
// requests are served from the heap and tracked so Release drops them at the
// end of the event. Slices returned by Alloc are invalid after Release.
type Slab[T any] struct {
	blockLen int
	blocks   [][]T
	next     int
	overflow [][]T
}

// NewSlab creates a slab whose blocks hold blockLen elements.
func NewSlab[T any](blockLen int) *Slab[T] {
	if blockLen <= 0 {
		panic("pool: slab block length must be positive")
	}

	return &Slab[T]{blockLen: blockLen}
}

// BlockLen returns the number of elements per pooled block.
func (s *Slab[T]) BlockLen() int {
	return s.blockLen
}

// Alloc returns a zeroed slice of length n.
func (s *Slab[T]) Alloc(n int) []T {
	if n > s.blockLen {
		buf := make([]T, n)
		s.overflow = append(s.overflow, buf)

		return buf
	}

	if s.next == len(s.blocks) {
		s.blocks = append(s.blocks, make([]T, s.blockLen))
	}
	block := s.blocks[s.next][:n]
	s.next++
	clear(block)

	return block
}

// InUse returns the number of pooled blocks handed out since the last Release.
func (s *Slab[T]) InUse() int {
	return s.next
}

// Overflows returns the number of heap allocations since the last Release.
func (s *Slab[T]) Overflows() int {
	return len(s.overflow)
}

// Release makes every pooled block available again and drops heap overflow.
func (s *Slab[T]) Release() {
	s.next = 0
	clear(s.overflow)
	s.overflow = s.overflow[:0]
}
