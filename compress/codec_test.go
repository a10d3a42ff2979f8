package compress

import (
	"bytes"
	"errors"
	"sync"
	"testing"

	"github.com/arloliu/griff/format"
	"github.com/stretchr/testify/require"
)

func getAllCodecs() map[string]Codec {
	return map[string]Codec{
		"None": NewNoneCodec(),
		"Zlib": NewZlibCodec(),
		"LZ4":  NewLZ4Codec(),
		"S2":   NewS2Codec(),
		"Zstd": NewZstdCodec(),
	}
}

// stepPayload mimics Full-section data: fixed-size float records.
func stepPayload(nRecords int) []byte {
	buf := make([]byte, 0, nRecords*84)
	for i := 0; i < nRecords; i++ {
		rec := make([]byte, 84)
		rec[0] = byte(i)
		rec[8] = byte(i * 3)
		rec[40] = 0x3f
		buf = append(buf, rec...)
	}

	return buf
}

func TestCompressionType_String(t *testing.T) {
	tests := []struct {
		cType    format.CompressionType
		expected string
	}{
		{format.CompressionNone, "None"},
		{format.CompressionZstd, "Zstd"},
		{format.CompressionS2, "S2"},
		{format.CompressionLZ4, "LZ4"},
		{format.CompressionZlib, "Zlib"},
		{format.CompressionType(0xFF), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			require.Equal(t, tt.expected, tt.cType.String())
		})
	}

	require.False(t, format.CompressionNone.Enabled())
	require.True(t, format.CompressionZlib.Enabled())
}

func TestCreateCodec(t *testing.T) {
	for _, ct := range []format.CompressionType{
		format.CompressionNone, format.CompressionZlib, format.CompressionZstd,
		format.CompressionS2, format.CompressionLZ4,
	} {
		codec, err := CreateCodec(ct, "full data")
		require.NoError(t, err)
		require.NotNil(t, codec)

		shared, err := GetCodec(ct)
		require.NoError(t, err)
		require.NotNil(t, shared)
	}

	_, err := CreateCodec(format.CompressionType(0x42), "full data")
	require.ErrorContains(t, err, "invalid full data compression")

	_, err = GetCodec(format.CompressionType(0x42))
	require.Error(t, err)
}

func TestAllCodecs_EmptyData(t *testing.T) {
	for name, codec := range getAllCodecs() {
		t.Run(name, func(t *testing.T) {
			compressed, err := codec.Compress(nil)
			require.NoError(t, err)
			require.Empty(t, compressed)

			decompressed, err := codec.Decompress(compressed)
			require.NoError(t, err)
			require.Empty(t, decompressed)

			sized, err := DecompressSized(codec, compressed, 0)
			require.NoError(t, err)
			require.Empty(t, sized)
		})
	}
}

func TestAllCodecs_RoundTrip(t *testing.T) {
	testCases := []struct {
		name string
		data []byte
	}{
		{"single_byte", []byte{0x42}},
		{"small_text", []byte("step data for one segment")},
		{"repeated_pattern", bytes.Repeat([]byte("ABCD"), 100)},
		{"step_records", stepPayload(500)},
		{"zeros", make([]byte, 256*1024)},
	}

	for codecName, codec := range getAllCodecs() {
		t.Run(codecName, func(t *testing.T) {
			for _, tc := range testCases {
				t.Run(tc.name, func(t *testing.T) {
					compressed, err := codec.Compress(tc.data)
					require.NoError(t, err)
					require.NotEmpty(t, compressed)

					sized, err := DecompressSized(codec, compressed, len(tc.data))
					require.NoError(t, err)
					require.Equal(t, tc.data, sized)

					plain, err := codec.Decompress(compressed)
					require.NoError(t, err)
					require.Equal(t, tc.data, plain)
				})
			}
		})
	}
}

func TestDecompressSized_LengthMismatch(t *testing.T) {
	data := bytes.Repeat([]byte("mismatch"), 64)

	for _, name := range []string{"Zlib", "S2", "Zstd", "None"} {
		codec := getAllCodecs()[name]
		t.Run(name, func(t *testing.T) {
			compressed, err := codec.Compress(data)
			require.NoError(t, err)

			_, err = DecompressSized(codec, compressed, len(data)+1)
			require.Error(t, err)
		})
	}
}

func TestAllCodecs_InvalidData(t *testing.T) {
	invalidInputs := [][]byte{
		{0xFF, 0xFF, 0xFF, 0xFF},
		[]byte("this is not compressed data"),
	}

	for codecName, codec := range getAllCodecs() {
		if codecName == "None" {
			continue
		}
		t.Run(codecName, func(t *testing.T) {
			for _, input := range invalidInputs {
				_, err := codec.Decompress(input)
				require.Error(t, err)
			}
		})
	}
}

func TestAllCodecs_ConcurrentUsage(t *testing.T) {
	data := stepPayload(64)

	for name, codec := range getAllCodecs() {
		t.Run(name, func(t *testing.T) {
			var wg sync.WaitGroup
			errCh := make(chan error, 16)
			for i := 0; i < 16; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					compressed, err := codec.Compress(data)
					if err != nil {
						errCh <- err
						return
					}
					out, err := DecompressSized(codec, compressed, len(data))
					if err != nil {
						errCh <- err
						return
					}
					if !bytes.Equal(out, data) {
						errCh <- errors.New("round trip mismatch")
					}
				}()
			}
			wg.Wait()
			close(errCh)
			for err := range errCh {
				require.NoError(t, err)
			}
		})
	}
}

func BenchmarkCodecs_StepPayload(b *testing.B) {
	data := stepPayload(2000)

	for name, codec := range getAllCodecs() {
		b.Run(name, func(b *testing.B) {
			b.SetBytes(int64(len(data)))
			for b.Loop() {
				compressed, _ := codec.Compress(data)
				_, _ = DecompressSized(codec, compressed, len(data))
			}
		})
	}
}
