package compress

import (
	"fmt"

	"github.com/klauspost/compress/s2"
)

// S2Codec writes S2 blocks. A block records its decoded length, which
// DecompressSized checks against the container's length before decoding.
type S2Codec struct{}

var (
	_ Codec             = S2Codec{}
	_ SizedDecompressor = S2Codec{}
)

func NewS2Codec() S2Codec { return S2Codec{} }

func (S2Codec) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return s2.EncodeBetter(make([]byte, s2.MaxEncodedLen(len(data))), data), nil
}

func (S2Codec) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	out, err := s2.Decode(nil, data)
	if err != nil {
		return nil, fmt.Errorf("s2 decompression failed: %w", err)
	}

	return out, nil
}

func (c S2Codec) DecompressSized(data []byte, size int) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	n, err := s2.DecodedLen(data)
	if err != nil {
		return nil, fmt.Errorf("s2 decompression failed: %w", err)
	}
	if n != size {
		return nil, fmt.Errorf("s2 decompression failed: block holds %d bytes, expected %d", n, size)
	}
	out, err := s2.Decode(make([]byte, size), data)
	if err != nil {
		return nil, fmt.Errorf("s2 decompression failed: %w", err)
	}

	return out, nil
}
