package compress

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/klauspost/compress/zlib"
)

// zlibWriterPool pools zlib writers, which carry large deflate state.
var zlibWriterPool = sync.Pool{
	New: func() any {
		w, err := zlib.NewWriterLevel(nil, zlib.DefaultCompression)
		if err != nil {
			panic(fmt.Sprintf("failed to create zlib writer for pool: %v", err))
		}
		return w
	},
}

// ZlibCodec produces standard zlib streams (RFC 1950). It is the codec
// of the Griff format and stays readable by any zlib implementation.
type ZlibCodec struct{}

var (
	_ Codec             = (*ZlibCodec)(nil)
	_ SizedDecompressor = (*ZlibCodec)(nil)
)

// NewZlibCodec creates a zlib codec with the default compression level.
func NewZlibCodec() ZlibCodec {
	return ZlibCodec{}
}

// Compress compresses data into a complete zlib stream. Empty input yields an
// empty result.
func (c ZlibCodec) Compress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var out bytes.Buffer
	out.Grow(len(data)/2 + 64)

	w, _ := zlibWriterPool.Get().(*zlib.Writer)
	defer zlibWriterPool.Put(w)
	w.Reset(&out)

	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("zlib compression failed: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("zlib compression failed: %w", err)
	}

	return out.Bytes(), nil
}

// Decompress decodes a zlib stream of unknown expanded size.
func (c ZlibCodec) Decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}

	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("zlib decompression failed: %w", err)
	}
	defer r.Close()

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("zlib decompression failed: %w", err)
	}

	return out, nil
}

// DecompressSized decodes a zlib stream into a buffer of exactly size bytes.
// Streams that expand to a different length are rejected.
func (c ZlibCodec) DecompressSized(data []byte, size int) ([]byte, error) {
	if len(data) == 0 {
		if size == 0 {
			return nil, nil
		}
		return nil, fmt.Errorf("zlib decompression failed: empty stream for %d bytes", size)
	}

	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("zlib decompression failed: %w", err)
	}
	defer r.Close()

	out := make([]byte, size)
	if _, err := io.ReadFull(r, out); err != nil {
		return nil, fmt.Errorf("zlib decompression failed: %w", err)
	}
	var probe [1]byte
	if n, _ := r.Read(probe[:]); n != 0 {
		return nil, fmt.Errorf("zlib decompression failed: stream longer than %d bytes", size)
	}

	return out, nil
}
