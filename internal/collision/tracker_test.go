package collision

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type name struct {
	first, last string
}

func (n name) Equal(o name) bool { return n == o }

func TestTracker_AssignsDenseIndices(t *testing.T) {
	tracker := NewTracker[name]()

	idx, added := tracker.Track(name{"Joe", "Smith"}, 1)
	require.True(t, added)
	require.Equal(t, uint32(0), idx)

	idx, added = tracker.Track(name{"William", "Jones"}, 2)
	require.True(t, added)
	require.Equal(t, uint32(1), idx)

	idx, added = tracker.Track(name{"Joe", "Smith"}, 1)
	require.False(t, added)
	require.Equal(t, uint32(0), idx)

	require.Equal(t, 2, tracker.Count())
	require.False(t, tracker.HasCollision())
	require.Equal(t, name{"William", "Jones"}, tracker.Entry(1))
}

func TestTracker_CollisionsKeepValuesApart(t *testing.T) {
	tracker := NewTracker[name]()

	// Same hash for every value forces the equality scan.
	values := []name{{"Joe", "A"}, {"Jack", "B"}, {"Averell", "C"}, {"William", "D"}}
	for i, v := range values {
		idx, added := tracker.Track(v, 7)
		require.True(t, added)
		require.Equal(t, uint32(i), idx)
	}
	for i, v := range values {
		idx, added := tracker.Track(v, 7)
		require.False(t, added)
		require.Equal(t, uint32(i), idx)
	}

	require.True(t, tracker.HasCollision())
	require.Equal(t, 3, tracker.Collisions())
	require.Equal(t, values, tracker.Entries())
}

func TestTracker_SameBucketDifferentHash(t *testing.T) {
	tracker := NewTracker[name]()

	a, _ := tracker.Track(name{"a", ""}, 5)
	b, _ := tracker.Track(name{"b", ""}, 5+NumBuckets)
	require.NotEqual(t, a, b)
	require.False(t, tracker.HasCollision(), "bucket sharing is not a hash collision")
}

func TestTracker_Reset(t *testing.T) {
	tracker := NewTracker[name]()
	tracker.Track(name{"x", "y"}, 1)
	tracker.Track(name{"x", "z"}, 1)

	tracker.Reset()
	require.Equal(t, 0, tracker.Count())
	require.False(t, tracker.HasCollision())

	idx, added := tracker.Track(name{"x", "z"}, 1)
	require.True(t, added)
	require.Equal(t, uint32(0), idx)
}
