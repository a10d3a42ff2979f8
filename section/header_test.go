package section

import (
	"testing"

	"github.com/arloliu/griff/errs"
	"github.com/stretchr/testify/require"
)

func TestFileHeader_ParseBytes(t *testing.T) {
	h := NewFileHeader(0xe5506ea4)
	b := h.Bytes()
	require.Len(t, b, FileHeaderSize)
	require.Equal(t, []byte{0xa4, 0x6e, 0x50, 0xe5, 3, 0, 0, 0}, b)

	var parsed FileHeader
	require.NoError(t, parsed.Parse(b))
	require.Equal(t, h, parsed)

	require.ErrorIs(t, parsed.Parse(b[:7]), errs.ErrInvalidHeaderSize)
}

func TestFileHeader_Validate(t *testing.T) {
	const magic = 0x12345678

	tests := []struct {
		name   string
		header FileHeader
		err    error
	}{
		{"current", FileHeader{Magic: magic, Version: CurrentVersion}, nil},
		{"oldest supported", FileHeader{Magic: magic, Version: OldestSupportedVersion}, nil},
		{"wrong magic", FileHeader{Magic: magic + 1, Version: CurrentVersion}, errs.ErrBadFormat},
		{"too old", FileHeader{Magic: magic, Version: 1}, errs.ErrVersionTooOld},
		{"too new", FileHeader{Magic: magic, Version: CurrentVersion + 1}, errs.ErrVersionTooNew},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.header.Validate(magic)
			if tt.err == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.err)
		})
	}
}

func TestEventHeader_ParseBytes(t *testing.T) {
	h := EventHeader{
		Checksum:    0xdeadbeef,
		RunNumber:   1000,
		EventNumber: 2,
		SizeDB:      14,
		SizeBrief:   24,
		SizeFull:    30,
	}

	b := h.Bytes()
	require.Len(t, b, EventHeaderSize)

	var parsed EventHeader
	require.NoError(t, parsed.Parse(b))
	require.Equal(t, h, parsed)
	require.Equal(t, [5]uint32{1000, 2, 14, 24, 30}, parsed.HashWords())
	require.Equal(t, int64(68), parsed.BodySize())
	require.Equal(t, int64(92), parsed.TotalSize())

	require.ErrorIs(t, parsed.Parse(b[:EventHeaderSize-1]), errs.ErrInvalidHeaderSize)
}
