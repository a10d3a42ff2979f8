//go:build gozstd && cgo

package compress

import (
	"fmt"

	"github.com/valyala/gozstd"
)

const gozstdLevel = 3

func (ZstdCodec) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	return gozstd.CompressLevel(nil, data, gozstdLevel), nil
}

func (c ZstdCodec) Decompress(data []byte) ([]byte, error) {
	return c.decode(data, nil)
}

func (c ZstdCodec) DecompressSized(data []byte, size int) ([]byte, error) {
	return c.decode(data, make([]byte, 0, size))
}

func (ZstdCodec) decode(data, dst []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	out, err := gozstd.Decompress(dst, data)
	if err != nil {
		return nil, fmt.Errorf("zstd decompression failed: %w", err)
	}

	return out, nil
}
