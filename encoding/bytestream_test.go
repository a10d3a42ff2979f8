package encoding

import (
	"math"
	"strings"
	"testing"

	"github.com/arloliu/griff/errs"
	"github.com/arloliu/griff/internal/pool"
	"github.com/stretchr/testify/require"
)

func TestWriterReader_PlainValues(t *testing.T) {
	w := NewWriter(pool.NewByteBuffer(64))
	w.WriteUint8(0xab)
	w.WriteInt8(-3)
	w.WriteBool(true)
	w.WriteUint16(0x9999)
	w.WriteInt16(-2)
	w.WriteUint32(0xe5506ea4)
	w.WriteInt32(-7)
	w.WriteUint64(1 << 40)
	w.WriteInt64(-1)
	w.WriteFloat32(1.5)
	w.WriteFloat64(math.Copysign(0, -1))

	require.Equal(t, 1+1+1+2+2+4+4+8+8+4+8, w.Len())

	r := NewReader(w.Bytes())
	require.Equal(t, uint8(0xab), r.ReadUint8())
	require.Equal(t, int8(-3), r.ReadInt8())
	require.True(t, r.ReadBool())
	require.Equal(t, uint16(0x9999), r.ReadUint16())
	require.Equal(t, int16(-2), r.ReadInt16())
	require.Equal(t, uint32(0xe5506ea4), r.ReadUint32())
	require.Equal(t, int32(-7), r.ReadInt32())
	require.Equal(t, uint64(1<<40), r.ReadUint64())
	require.Equal(t, int64(-1), r.ReadInt64())
	require.Equal(t, float32(1.5), r.ReadFloat32())
	negZero := r.ReadFloat64()
	require.True(t, math.Signbit(negZero), "sign of -0.0 must survive")
	require.Equal(t, 0, r.Remaining())
	require.NoError(t, r.Err())
}

func TestWriter_LittleEndianLayout(t *testing.T) {
	w := NewWriter(pool.NewByteBuffer(8))
	w.WriteUint32(0x01020304)
	w.WriteUint16(0x0506)

	require.Equal(t, []byte{0x04, 0x03, 0x02, 0x01, 0x06, 0x05}, w.Bytes())
}

func TestStrings_RoundTrip(t *testing.T) {
	w := NewWriter(pool.NewByteBuffer(64))
	w.WriteString("")
	w.WriteString("World")
	w.WriteString("Gdétecteur")
	w.WriteStrings([]string{"/run/initialize", "/tracking/verbose 1"})

	r := NewReader(w.Bytes())
	require.Equal(t, "", r.ReadString())
	require.Equal(t, "World", r.ReadString())
	require.Equal(t, "Gdétecteur", r.ReadString())
	require.Equal(t, []string{"/run/initialize", "/tracking/verbose 1"}, r.ReadStrings())
	require.NoError(t, r.Err())
}

func TestWriteString_TruncatesAtU16(t *testing.T) {
	long := strings.Repeat("x", MaxStringLength+10)

	w := NewWriter(pool.NewByteBuffer(16))
	w.WriteString(long)
	require.Equal(t, 2+MaxStringLength, w.Len())

	r := NewReader(w.Bytes())
	got := r.ReadString()
	require.Len(t, got, MaxStringLength)
	require.Equal(t, long[:MaxStringLength], got)
}

func TestReader_ShortReadIsSticky(t *testing.T) {
	r := NewReader([]byte{1, 2, 3})

	require.Equal(t, uint16(0x0201), r.ReadUint16())
	require.Equal(t, uint32(0), r.ReadUint32())
	require.ErrorIs(t, r.Err(), errs.ErrUnexpectedEOF)
	require.Equal(t, uint8(0), r.ReadUint8(), "reads after a failure return zero")
	require.Equal(t, 0, r.Remaining())
}

func TestReader_StringLengthBeyondData(t *testing.T) {
	r := NewReader([]byte{10, 0, 'a', 'b'})

	require.Equal(t, "", r.ReadString())
	require.ErrorIs(t, r.Err(), errs.ErrUnexpectedEOF)
}

func TestReader_SeekSkipBytes(t *testing.T) {
	data := []byte{0, 1, 2, 3, 4, 5, 6, 7}
	r := NewReader(data)

	r.Skip(2)
	require.Equal(t, 2, r.Offset())
	require.Equal(t, []byte{2, 3}, r.ReadBytes(2))
	r.Seek(7)
	require.Equal(t, uint8(7), r.ReadUint8())
	require.NoError(t, r.Err())

	r.Seek(9)
	require.Error(t, r.Err())
}

func TestFixedOffsetAccessors(t *testing.T) {
	w := NewWriter(pool.NewByteBuffer(32))
	w.WriteFloat64(2.25)
	w.WriteFloat32(-0.5)
	w.WriteInt32(-42)
	w.WriteUint32(0x80000003)
	w.PutInt32At(12, -43)

	b := w.Bytes()
	require.Equal(t, 2.25, Float64At(b, 0))
	require.Equal(t, float32(-0.5), Float32At(b, 8))
	require.Equal(t, int32(-43), Int32At(b, 12))
	require.Equal(t, uint32(0x80000003), Uint32At(b, 16))
}
