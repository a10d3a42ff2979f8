package collision

// NumBuckets is the number of fixed buckets entries are spread over.
const NumBuckets = 32

// Equaler is implemented by values that can be compared for full equality.
type Equaler[E any] interface {
	Equal(other E) bool
}

// Tracker assigns dense indices to distinct values.
//
// Hashes are only a pre-filter: values sharing a hash are compared with Equal
// before an index is reused, so hash collisions never merge distinct values.
// Lookup cost is bounded by spreading hashes over NumBuckets maps.
type Tracker[E Equaler[E]] struct {
	buckets    [NumBuckets]map[uint64][]uint32 // hash → indices sharing it
	entries    []E                             // index → value, in insertion order
	collisions int                             // distinct values stored under an existing hash
}

// NewTracker creates an empty tracker.
func NewTracker[E Equaler[E]]() *Tracker[E] {
	t := &Tracker[E]{}
	for i := range t.buckets {
		t.buckets[i] = make(map[uint64][]uint32)
	}

	return t
}

// Track returns the index of a value equal to e, inserting e when none exists.
//
// Parameters:
//   - e: value to look up
//   - hash: content hash of e; equal values must have equal hashes
//
// Returns:
//   - uint32: stable index of the value
//   - bool: true if e was inserted
func (t *Tracker[E]) Track(e E, hash uint64) (uint32, bool) {
	bucket := t.buckets[hash%NumBuckets]
	candidates := bucket[hash]
	for _, idx := range candidates {
		if t.entries[idx].Equal(e) {
			return idx, false
		}
	}
	if len(candidates) > 0 {
		t.collisions++
	}

	idx := uint32(len(t.entries)) //nolint:gosec
	t.entries = append(t.entries, e)
	bucket[hash] = append(candidates, idx)

	return idx, true
}

// Entry returns the value stored at index i.
func (t *Tracker[E]) Entry(i uint32) E {
	return t.entries[i]
}

// Entries returns all values in index order. The slice must not be modified.
func (t *Tracker[E]) Entries() []E {
	return t.entries
}

// Count returns the number of distinct values.
func (t *Tracker[E]) Count() int {
	return len(t.entries)
}

// Collisions returns how many distinct values were stored under a hash that
// was already in use.
func (t *Tracker[E]) Collisions() int {
	return t.collisions
}

// HasCollision returns true if a collision has been detected.
func (t *Tracker[E]) HasCollision() bool {
	return t.collisions > 0
}

// Reset clears all tracked values while keeping allocated maps.
func (t *Tracker[E]) Reset() {
	for i := range t.buckets {
		clear(t.buckets[i])
	}
	clear(t.entries)
	t.entries = t.entries[:0]
	t.collisions = 0
}
