package encoding

import (
	"math"

	"github.com/arloliu/griff/endian"
	"github.com/arloliu/griff/internal/pool"
)

// Writer appends little-endian values to a ByteBuffer.
//
// The Writer does not own the buffer; several writers may wrap the same one.
type Writer struct {
	buf    *pool.ByteBuffer
	engine endian.EndianEngine
}

// NewWriter creates a Writer appending to buf.
func NewWriter(buf *pool.ByteBuffer) *Writer {
	return &Writer{buf: buf, engine: endian.FileEngine()}
}

// Buffer returns the underlying buffer.
func (w *Writer) Buffer() *pool.ByteBuffer { return w.buf }

// Len returns the number of bytes in the underlying buffer.
func (w *Writer) Len() int { return w.buf.Len() }

// Bytes returns the underlying bytes. The slice is invalidated by later writes.
func (w *Writer) Bytes() []byte { return w.buf.B }

func (w *Writer) WriteUint8(v uint8) { w.buf.B = append(w.buf.B, v) }

func (w *Writer) WriteInt8(v int8) { w.buf.B = append(w.buf.B, byte(v)) }

func (w *Writer) WriteBool(v bool) {
	if v {
		w.WriteUint8(1)
		return
	}
	w.WriteUint8(0)
}

func (w *Writer) WriteUint16(v uint16) { w.buf.B = w.engine.AppendUint16(w.buf.B, v) }

func (w *Writer) WriteInt16(v int16) { w.WriteUint16(uint16(v)) } //nolint:gosec

func (w *Writer) WriteUint32(v uint32) { w.buf.B = w.engine.AppendUint32(w.buf.B, v) }

func (w *Writer) WriteInt32(v int32) { w.WriteUint32(uint32(v)) } //nolint:gosec

func (w *Writer) WriteUint64(v uint64) { w.buf.B = w.engine.AppendUint64(w.buf.B, v) }

func (w *Writer) WriteInt64(v int64) { w.WriteUint64(uint64(v)) } //nolint:gosec

func (w *Writer) WriteFloat32(v float32) { w.WriteUint32(math.Float32bits(v)) }

func (w *Writer) WriteFloat64(v float64) { w.WriteUint64(math.Float64bits(v)) }

// WriteBytes appends raw bytes.
func (w *Writer) WriteBytes(p []byte) { w.buf.MustWrite(p) }

// WriteString appends s with a u16 length prefix.
//
// Strings longer than MaxStringLength are silently truncated; the format has
// no way to signal the loss.
func (w *Writer) WriteString(s string) {
	if len(s) > MaxStringLength {
		s = s[:MaxStringLength]
	}
	w.buf.Grow(2 + len(s))
	w.WriteUint16(uint16(len(s))) //nolint:gosec
	w.buf.B = append(w.buf.B, s...)
}

// WriteStrings appends a u16 element count followed by each string. Vectors
// longer than MaxStringLength elements are truncated.
func (w *Writer) WriteStrings(ss []string) {
	if len(ss) > MaxStringLength {
		ss = ss[:MaxStringLength]
	}
	w.WriteUint16(uint16(len(ss))) //nolint:gosec
	for _, s := range ss {
		w.WriteString(s)
	}
}

// PutUint32At overwrites four bytes at offset off, which must already exist.
func (w *Writer) PutUint32At(off int, v uint32) {
	w.engine.PutUint32(w.buf.B[off:off+4], v)
}

// PutInt32At overwrites four bytes at offset off with a signed value.
func (w *Writer) PutInt32At(off int, v int32) {
	w.PutUint32At(off, uint32(v)) //nolint:gosec
}
