package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContent_KnownValues(t *testing.T) {
	assert.Equal(t, uint64(0xef46db3751d8e999), Content(nil))
	assert.Equal(t, uint64(0xef46db3751d8e999), Content([]byte{}))
	assert.Equal(t, uint64(0x4fdcca5ddb678139), Content([]byte("test")))
}

func TestContent_DistinguishesEntries(t *testing.T) {
	seen := make(map[uint64]string)
	for _, s := range []string{"G4_WATER", "G4_AIR", "World", "Detector", "e-", "gamma"} {
		h := Content([]byte(s))
		prev, dup := seen[h]
		require.False(t, dup, "%q collides with %q", s, prev)
		seen[h] = s
	}
}

func BenchmarkContent(b *testing.B) {
	data := make([]byte, 84)
	for i := range data {
		data[i] = byte(i)
	}
	for b.Loop() {
		Content(data)
	}
}
