package evtfile

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDumpFileInfo(t *testing.T) {
	name := writeScenario(t, zlibFormat)

	var out bytes.Buffer
	require.True(t, DumpFileInfo(&out, zlibFormat, name, false, true))

	text := out.String()
	require.Contains(t, text, "Dumping "+name+":")
	require.Contains(t, text, "File format version: 3")
	require.Contains(t, text, "Position RunNbr EvtNbr EvtHdr[B] DBData[B] BriefData[B] FullData[B] Total[B] Integrity")
	require.Contains(t, text, "Total [nevts=2]:")
	require.Equal(t, 3, strings.Count(text, "[success]"))
	require.Contains(t, text, "         0   1000      1        24        14           24          24       86 [success]")

	out.Reset()
	require.True(t, DumpFileInfo(&out, zlibFormat, name, true, false))
	require.Equal(t, 1, strings.Count(out.String(), "[success]"))
}

func TestDumpFileInfo_Corrupted(t *testing.T) {
	name := writeScenario(t, plainFormat)
	data, err := os.ReadFile(name)
	require.NoError(t, err)
	data[len(data)-1] ^= 0x01
	require.NoError(t, os.WriteFile(name, data, 0o600))

	var out bytes.Buffer
	require.False(t, DumpFileInfo(&out, plainFormat, name, true, false))
	require.Contains(t, out.String(), "[failure]")
	require.Contains(t, out.String(), "File appears to be corrupted!")
}

func TestDumpFileInfo_NoEventsAndBadFile(t *testing.T) {
	fw, err := NewFileWriter(plainFormat, filepath.Join(t.TempDir(), "empty"))
	require.NoError(t, err)
	require.NoError(t, fw.Close())

	var out bytes.Buffer
	require.True(t, DumpFileInfo(&out, plainFormat, fw.Filename(), false, false))
	require.Contains(t, out.String(), "No events in file.")

	out.Reset()
	require.False(t, DumpFileInfo(&out, zlibFormat, filepath.Join(t.TempDir(), "missing"), false, false))
	require.Contains(t, out.String(), "Error: "+ReasonOpenFailed)
}

func TestDumpFileEventSections(t *testing.T) {
	name := writeScenario(t, zlibFormat)

	var out, errOut bytes.Buffer
	require.True(t, DumpFileEventDBSection(&out, &errOut, zlibFormat, name, 0))
	require.Equal(t, scenarioDB1(), out.Bytes())

	out.Reset()
	require.True(t, DumpFileEventDBSection(&out, &errOut, zlibFormat, name, 1))
	require.Equal(t, scenarioDB2(), out.Bytes())

	out.Reset()
	require.True(t, DumpFileEventBriefDataSection(&out, &errOut, zlibFormat, name, 1))
	require.Equal(t, int64s(0x44), out.Bytes())

	out.Reset()
	require.True(t, DumpFileEventFullDataSection(&out, &errOut, zlibFormat, name, 0))
	require.Equal(t, int64s(0x111, 0x222, 0x333), out.Bytes())
	require.Empty(t, errOut.String())

	require.False(t, DumpFileEventBriefDataSection(&out, &errOut, zlibFormat, name, 5))
	require.Contains(t, errOut.String(), "Could not find event at index 5")

	errOut.Reset()
	require.False(t, DumpFileEventDBSection(&out, &errOut, zlibFormat, name, 2))
	require.Contains(t, errOut.String(), "Could not find event at index 2")
}
