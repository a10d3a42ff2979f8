package evtfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/griff/encoding"
	"github.com/arloliu/griff/format"
	"github.com/arloliu/griff/internal/pool"
)

var (
	plainFormat = SimpleFormat{Magic: 0x1234abcd, Extension: ".evttest", BriefName: "brief", FullName: "full"}
	zlibFormat  = SimpleFormat{
		Magic:       0x1234abcd,
		Extension:   ".evttest",
		BriefName:   "brief",
		FullName:    "full",
		Compression: format.CompressionZlib,
	}
)

func newTestWriter() *encoding.Writer {
	return encoding.NewWriter(pool.NewByteBuffer(64))
}

func int64s(vals ...int64) []byte {
	w := newTestWriter()
	for _, v := range vals {
		w.WriteInt64(v)
	}

	return w.Bytes()
}

func scenarioDB1() []byte {
	w := newTestWriter()
	w.WriteInt32(1)
	w.WriteInt32(2)
	w.WriteInt32(3)
	w.WriteUint16(0x9999)

	return w.Bytes()
}

func scenarioDB2() []byte {
	w := newTestWriter()
	w.WriteUint16(0x8888)

	return w.Bytes()
}

// writeScenario writes two events of run 1000 and returns the file name.
func writeScenario(t *testing.T, f Format, opts ...WriterOption) string {
	t.Helper()

	fw, err := NewFileWriter(f, filepath.Join(t.TempDir(), "scenario"), opts...)
	require.NoError(t, err)

	db := fw.DBSection()
	db.WriteInt32(1)
	db.WriteInt32(2)
	db.WriteInt32(3)
	db.WriteUint16(0x9999)
	for _, v := range []int64{0x111, 0x222, 0x333} {
		fw.FullSection().WriteInt64(v)
	}
	fw.WriteDataBriefSection(int64s(0x11, 0x22, 0x33))
	require.Equal(t, 14, fw.SizeDBSection())
	require.Equal(t, 24, fw.SizeBriefSection())
	require.Equal(t, 24, fw.SizeFullSection())
	require.NoError(t, fw.FlushEventToDisk(1000, 1))
	require.Zero(t, fw.SizeDBSection())

	fw.BriefSection().WriteInt64(0x44)
	fw.WriteDataFullSection(int64s(0x444, 0x555, 0x666))
	fw.DBSection().WriteUint16(0x8888)
	require.NoError(t, fw.FlushEventToDisk(1000, 2))

	require.Equal(t, 2, fw.EventsWritten())
	require.NoError(t, fw.Close())

	return fw.Filename()
}

func openReader(t *testing.T, f Format, name string, opts ...ReaderOption) *FileReader {
	t.Helper()

	fr := NewFileReader(f, name, opts...)
	require.True(t, fr.Init(), fr.BadReason())
	t.Cleanup(func() { _ = fr.Close() })

	return fr
}

func truncateFile(t *testing.T, name string, size int64) {
	t.Helper()
	require.NoError(t, os.Truncate(name, size))
}
