package evtfile

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/griff/errs"
	"github.com/arloliu/griff/section"
)

func TestNewFileWriter_Extension(t *testing.T) {
	dir := t.TempDir()

	fw, err := NewFileWriter(plainFormat, filepath.Join(dir, "a"))
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "a.evttest"), fw.Filename())
	require.NoError(t, fw.Close())

	fw, err = NewFileWriter(plainFormat, filepath.Join(dir, "b.evttest"))
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "b.evttest"), fw.Filename())
	require.NoError(t, fw.Close())

	data, err := os.ReadFile(fw.Filename())
	require.NoError(t, err)
	require.Equal(t, section.NewFileHeader(plainFormat.Magic).Bytes(), data)
}

func TestNewFileWriter_Errors(t *testing.T) {
	_, err := NewFileWriter(plainFormat, filepath.Join(t.TempDir(), "missing", "dir", "x"))
	require.ErrorIs(t, err, errs.ErrOpenFailed)

	_, err = NewFileWriter(plainFormat, filepath.Join(t.TempDir(), "x"), WithWriterBufferSize(0))
	require.Error(t, err)
}

func TestFileWriter_Layout(t *testing.T) {
	name := writeScenario(t, plainFormat)

	data, err := os.ReadFile(name)
	require.NoError(t, err)

	ev1 := section.EventHeaderSize + 14 + 24 + 24
	ev2 := section.EventHeaderSize + 2 + 8 + 24
	require.Len(t, data, section.FileHeaderSize+ev1+ev2)

	var hdr section.EventHeader
	require.NoError(t, hdr.Parse(data[section.FileHeaderSize : section.FileHeaderSize+section.EventHeaderSize]))
	require.Equal(t, uint32(1000), hdr.RunNumber)
	require.Equal(t, uint32(1), hdr.EventNumber)
	require.Equal(t, uint32(14), hdr.SizeDB)
	require.Equal(t, uint32(24), hdr.SizeBrief)
	require.Equal(t, uint32(24), hdr.SizeFull)

	body := data[section.FileHeaderSize+section.EventHeaderSize:]
	require.Equal(t, scenarioDB1(), body[:14])
	require.Equal(t, int64s(0x11, 0x22, 0x33), body[14:38])
	require.Equal(t, int64s(0x111, 0x222, 0x333), body[38:62])
}

func TestFileWriter_PreFlushCallbacks(t *testing.T) {
	fw, err := NewFileWriter(plainFormat, filepath.Join(t.TempDir(), "hooks"))
	require.NoError(t, err)

	var order []string
	fw.RegisterPreFlushFunc(func(w *FileWriter) error {
		order = append(order, "first")
		w.DBSection().WriteUint8(1)
		return nil
	})
	fw.RegisterPreFlushFunc(func(w *FileWriter) error {
		order = append(order, "second")
		w.DBSection().WriteUint8(2)
		return nil
	})
	require.NoError(t, fw.FlushEventToDisk(1, 1))
	require.Equal(t, []string{"first", "second"}, order)
	require.NoError(t, fw.Close())

	fr := openReader(t, plainFormat, fw.Filename())
	db, err := fr.SharedDataInEvent()
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2}, db)
}

func TestFileWriter_PreFlushError(t *testing.T) {
	fw, err := NewFileWriter(plainFormat, filepath.Join(t.TempDir(), "hookerr"))
	require.NoError(t, err)
	defer fw.Close()

	boom := errors.New("boom")
	fail := true
	fw.RegisterPreFlushFunc(func(w *FileWriter) error {
		w.DBSection().WriteUint8(0xaa)
		if fail {
			return boom
		}
		return nil
	})
	fw.WriteDataBriefSection([]byte("dropped"))
	fw.FullSection().WriteInt64(1)
	require.ErrorIs(t, fw.FlushEventToDisk(1, 1), boom)
	require.Zero(t, fw.EventsWritten())
	require.Zero(t, fw.SizeDBSection())
	require.Zero(t, fw.SizeBriefSection())
	require.Zero(t, fw.SizeFullSection())

	fail = false
	fw.WriteDataBriefSection([]byte("kept"))
	require.NoError(t, fw.FlushEventToDisk(1, 2))
	require.NoError(t, fw.Close())

	fr := openReader(t, plainFormat, fw.Filename())
	require.Equal(t, uint32(2), fr.EventNumber())
	db, err := fr.SharedDataInEvent()
	require.NoError(t, err)
	require.Equal(t, []byte{0xaa}, db)
	brief, err := fr.BriefData()
	require.NoError(t, err)
	require.Equal(t, []byte("kept"), brief)
	require.Zero(t, fr.NBytesFullData())
}

func TestFileWriter_Closed(t *testing.T) {
	fw, err := NewFileWriter(plainFormat, filepath.Join(t.TempDir(), "closed"))
	require.NoError(t, err)
	require.NoError(t, fw.Close())
	require.NoError(t, fw.Close())
	require.ErrorIs(t, fw.FlushEventToDisk(1, 1), errs.ErrWriterClosed)
}

func TestFileWriter_CompressedFullSection(t *testing.T) {
	name := writeScenario(t, zlibFormat)

	data, err := os.ReadFile(name)
	require.NoError(t, err)

	var hdr section.EventHeader
	require.NoError(t, hdr.Parse(data[section.FileHeaderSize : section.FileHeaderSize+section.EventHeaderSize]))
	full := data[section.FileHeaderSize+section.EventHeaderSize+14+24:][:hdr.SizeFull]
	require.Equal(t, []byte{24, 0, 0, 0}, full[:4])
	require.Equal(t, byte(0x78), full[4], "zlib stream header")
}

func TestFileWriter_EmptyCompressedFullSection(t *testing.T) {
	fw, err := NewFileWriter(zlibFormat, filepath.Join(t.TempDir(), "empty"))
	require.NoError(t, err)
	fw.WriteDataBriefSection([]byte("brief only"))
	require.NoError(t, fw.FlushEventToDisk(7, 8))
	require.NoError(t, fw.Close())

	fr := openReader(t, zlibFormat, fw.Filename())
	require.Zero(t, fr.NBytesFullDataOnDisk())
	require.Zero(t, fr.NBytesFullData())
	full, err := fr.FullData()
	require.NoError(t, err)
	require.Empty(t, full)
	require.True(t, fr.VerifyEventDataIntegrity())
	require.True(t, strings.HasSuffix(fr.Filename(), ".evttest"))
}
