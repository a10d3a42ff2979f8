package encoding

import (
	"math"

	"github.com/arloliu/griff/endian"
	"github.com/arloliu/griff/errs"
)

// MaxStringLength is the largest string that survives a u16 length prefix.
const MaxStringLength = math.MaxUint16

// Reader decodes little-endian values from a byte slice.
//
// Returned byte slices and strings alias or copy data as documented per
// method. After the first short read every subsequent read returns zero.
type Reader struct {
	data   []byte
	pos    int
	engine endian.EndianEngine
	err    error
}

// NewReader creates a Reader positioned at the start of data.
func NewReader(data []byte) *Reader {
	return &Reader{data: data, engine: endian.FileEngine()}
}

// Err returns errs.ErrUnexpectedEOF if any read ran past the end.
func (r *Reader) Err() error { return r.err }

// Offset returns the cursor position.
func (r *Reader) Offset() int { return r.pos }

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int { return len(r.data) - r.pos }

// Len returns the total length of the underlying data.
func (r *Reader) Len() int { return len(r.data) }

// Seek moves the cursor to an absolute offset.
func (r *Reader) Seek(off int) {
	if off < 0 || off > len(r.data) {
		r.fail()
		return
	}
	r.pos = off
}

// Skip advances the cursor by n bytes.
func (r *Reader) Skip(n int) {
	r.take(n)
}

func (r *Reader) fail() {
	if r.err == nil {
		r.err = errs.ErrUnexpectedEOF
	}
	r.pos = len(r.data)
}

func (r *Reader) take(n int) []byte {
	if r.err != nil || n < 0 || n > len(r.data)-r.pos {
		r.fail()
		return nil
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n

	return b
}

func (r *Reader) ReadUint8() uint8 {
	b := r.take(1)
	if b == nil {
		return 0
	}

	return b[0]
}

func (r *Reader) ReadInt8() int8 { return int8(r.ReadUint8()) } //nolint:gosec

func (r *Reader) ReadBool() bool { return r.ReadUint8() != 0 }

func (r *Reader) ReadUint16() uint16 {
	b := r.take(2)
	if b == nil {
		return 0
	}

	return r.engine.Uint16(b)
}

func (r *Reader) ReadInt16() int16 { return int16(r.ReadUint16()) } //nolint:gosec

func (r *Reader) ReadUint32() uint32 {
	b := r.take(4)
	if b == nil {
		return 0
	}

	return r.engine.Uint32(b)
}

func (r *Reader) ReadInt32() int32 { return int32(r.ReadUint32()) } //nolint:gosec

func (r *Reader) ReadUint64() uint64 {
	b := r.take(8)
	if b == nil {
		return 0
	}

	return r.engine.Uint64(b)
}

func (r *Reader) ReadInt64() int64 { return int64(r.ReadUint64()) } //nolint:gosec

func (r *Reader) ReadFloat32() float32 { return math.Float32frombits(r.ReadUint32()) }

func (r *Reader) ReadFloat64() float64 { return math.Float64frombits(r.ReadUint64()) }

// ReadBytes returns the next n bytes. The result aliases the underlying data.
func (r *Reader) ReadBytes(n int) []byte {
	return r.take(n)
}

// ReadString reads a u16 length-prefixed string. The result is a copy.
func (r *Reader) ReadString() string {
	n := int(r.ReadUint16())
	b := r.take(n)
	if b == nil {
		return ""
	}

	return string(b)
}

// ReadStrings reads a u16 count followed by that many strings.
func (r *Reader) ReadStrings() []string {
	n := int(r.ReadUint16())
	if r.err != nil {
		return nil
	}
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		s := r.ReadString()
		if r.err != nil {
			return nil
		}
		out = append(out, s)
	}

	return out
}

// Fixed-offset accessors used by views that address records in place.

// Uint32At decodes a u32 at offset off of b.
func Uint32At(b []byte, off int) uint32 {
	return endian.FileEngine().Uint32(b[off : off+4])
}

// Int32At decodes an i32 at offset off of b.
func Int32At(b []byte, off int) int32 {
	return int32(Uint32At(b, off)) //nolint:gosec
}

// Float32At decodes an f32 at offset off of b.
func Float32At(b []byte, off int) float32 {
	return math.Float32frombits(Uint32At(b, off))
}

// Float64At decodes an f64 at offset off of b.
func Float64At(b []byte, off int) float64 {
	return math.Float64frombits(endian.FileEngine().Uint64(b[off : off+8]))
}
