package hash

import (
	"encoding/binary"
	"hash"

	"github.com/spaolacci/murmur3"
)

// Progressive is an incrementally updatable 32-bit MurmurHash3 (x86_32) with
// seed 0. Feeding the same bytes in any chunking yields the same Sum32.
//
// It guards event integrity only and is not of cryptographic quality.
type Progressive struct {
	h   hash.Hash32
	buf [4]byte
}

// NewProgressive returns an empty progressive hash.
func NewProgressive() *Progressive {
	return &Progressive{h: murmur3.New32()}
}

// Add feeds data into the hash.
func (p *Progressive) Add(data []byte) {
	_, _ = p.h.Write(data)
}

// AddUint32 feeds v as four little-endian bytes.
func (p *Progressive) AddUint32(v uint32) {
	binary.LittleEndian.PutUint32(p.buf[:], v)
	_, _ = p.h.Write(p.buf[:])
}

// Sum32 returns the hash of all data added so far. It does not change state.
func (p *Progressive) Sum32() uint32 {
	return p.h.Sum32()
}

// Reset forgets all added data.
func (p *Progressive) Reset() {
	p.h.Reset()
}

// EventChecksum computes the checksum stored in an event header: the five
// header words (run, event and the three section sizes) followed by the DB,
// Brief and uncompressed Full bytes.
func EventChecksum(words [5]uint32, db, brief, full []byte) uint32 {
	p := NewProgressive()
	for _, w := range words {
		p.AddUint32(w)
	}
	p.Add(db)
	p.Add(brief)
	p.Add(full)

	return p.Sum32()
}
