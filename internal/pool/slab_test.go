package pool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type point struct {
	x, y float64
}

func TestSlab_AllocWithinBlock(t *testing.T) {
	s := NewSlab[point](10)
	require.Equal(t, 10, s.BlockLen())

	a := s.Alloc(3)
	b := s.Alloc(10)
	require.Len(t, a, 3)
	require.Len(t, b, 10)
	require.Equal(t, 2, s.InUse())
	require.Equal(t, 0, s.Overflows())

	a[0].x = 1
	b[0].x = 2
	require.Equal(t, 1.0, a[0].x, "blocks must not alias")
}

func TestSlab_Overflow(t *testing.T) {
	s := NewSlab[point](10)

	big := s.Alloc(11)
	require.Len(t, big, 11)
	require.Equal(t, 1, s.Overflows())
	require.Equal(t, 0, s.InUse())

	s.Release()
	require.Equal(t, 0, s.Overflows())
}

func TestSlab_ReleaseReusesAndZeroes(t *testing.T) {
	s := NewSlab[point](4)

	first := s.Alloc(4)
	first[2] = point{x: 5, y: 6}
	s.Release()
	require.Equal(t, 0, s.InUse())

	second := s.Alloc(4)
	require.Same(t, &first[0], &second[0], "released block should be reused")
	require.Equal(t, point{}, second[2])
}

func TestSlab_InvalidBlockLen(t *testing.T) {
	require.Panics(t, func() { NewSlab[int](0) })
}
