package evtfile

import (
	"fmt"
	"io"
	"strconv"

	"github.com/arloliu/griff/section"
)

// DumpFileInfo prints the file version and one line per event with section
// sizes and the result of the integrity check, followed by a total line.
//
// Parameters:
//   - w: destination of the listing
//   - f: format of the file
//   - filename: file to dump
//   - brief: only print events failing the integrity check
//   - uncompressedSizes: report Full sizes after decompression
//
// Returns:
//   - bool: false if the file is unreadable or any event fails the check
func DumpFileInfo(w io.Writer, f Format, filename string, brief, uncompressedSizes bool) bool {
	fmt.Fprintf(w, "Dumping %s:\n", filename)

	fr := NewFileReader(f, filename)
	defer fr.Close()
	if !fr.Init() {
		fmt.Fprintf(w, "  Error: %s\n", fr.BadReason())
		return false
	}
	fmt.Fprintf(w, "  File format version: %d\n", fr.Version())
	if !fr.EventActive() {
		fmt.Fprintln(w, "  No events in file.")
		return true
	}

	fmt.Fprintln(w, "  Position RunNbr EvtNbr EvtHdr[B] DBData[B] BriefData[B] FullData[B] Total[B] Integrity")

	var nevts, totDB, totBrief, totFull uint64
	badEvents := false
	for fr.EventActive() {
		nevts++
		integrity := fr.VerifyEventDataIntegrity()
		fullSize := fr.NBytesFullDataOnDisk()
		if uncompressedSizes {
			fullSize = fr.NBytesFullData()
		}
		if !fr.OK() {
			fmt.Fprintf(w, "  Error: %s\n", fr.BadReason())
			return false
		}
		dbSize, briefSize := fr.NBytesDBData(), fr.NBytesBriefData()

		if !brief || !integrity {
			total := section.EventHeaderSize + dbSize + briefSize + fullSize
			fmt.Fprintf(w, "  %8d %6d %6d %9d %9d %12d %11d %8d %s\n",
				fr.EventIndex(), fr.RunNumber(), fr.EventNumber(),
				section.EventHeaderSize, dbSize, briefSize, fullSize, total, integrityLabel(integrity))
		}
		if !integrity {
			badEvents = true
		}
		totDB += uint64(dbSize)       //nolint:gosec
		totBrief += uint64(briefSize) //nolint:gosec
		totFull += uint64(fullSize)   //nolint:gosec
		fr.GoToNextEvent()
	}
	if fr.Bad() {
		fmt.Fprintf(w, "  Error: %s\n", fr.BadReason())
		return false
	}

	totHdr := nevts * section.EventHeaderSize
	fmt.Fprintf(w, "  %-22s %9d %9d %12d %11d %8d %s\n",
		"Total [nevts="+strconv.FormatUint(nevts, 10)+"]:",
		totHdr, totDB, totBrief, totFull, totHdr+totDB+totBrief+totFull, integrityLabel(!badEvents))

	if badEvents {
		fmt.Fprintln(w, "  ERROR: Not all events passed a data integrity check. File appears to be corrupted!")
		return false
	}

	return true
}

func integrityLabel(ok bool) string {
	if ok {
		return "[success]"
	}

	return "[failure]"
}

// rawDBListener copies the DB bytes it receives to out while enabled.
type rawDBListener struct {
	out     io.Writer
	enabled bool
	err     error
}

func (l *rawDBListener) NewInfoAvailable(data []byte) error {
	if l.enabled && len(data) > 0 {
		_, l.err = l.out.Write(data)
	}

	return l.err
}

func (l *rawDBListener) ClearInfo() {}

// DumpFileEventDBSection writes the raw DB bytes of the event at evtIndex to
// out. Diagnostics go to errOut.
//
// DB bytes are only delivered when an event is parsed for the first time, so
// the reader is positioned on the preceding event before the dumping listener
// is enabled.
func DumpFileEventDBSection(out, errOut io.Writer, f Format, filename string, evtIndex int) bool {
	db := &rawDBListener{out: out, enabled: evtIndex == 0}
	fr := NewFileReader(f, filename, WithDBListener(db))
	defer fr.Close()

	if !openForDump(fr, errOut) {
		return false
	}
	if evtIndex > 0 {
		if !fr.SeekEventByIndex(evtIndex - 1) {
			fmt.Fprintf(errOut, "  Error: Could not find event at index %d\n", evtIndex)
			return false
		}
		db.enabled = true
		if !fr.SeekEventByIndex(evtIndex) {
			fmt.Fprintf(errOut, "  Error: Could not find event at index %d\n", evtIndex)
			return false
		}
	}

	return db.err == nil
}

// DumpFileEventBriefDataSection writes the Brief bytes of the event at
// evtIndex to out.
func DumpFileEventBriefDataSection(out, errOut io.Writer, f Format, filename string, evtIndex int) bool {
	return dumpEventSection(out, errOut, f, filename, evtIndex, (*FileReader).BriefData)
}

// DumpFileEventFullDataSection writes the uncompressed Full bytes of the
// event at evtIndex to out.
func DumpFileEventFullDataSection(out, errOut io.Writer, f Format, filename string, evtIndex int) bool {
	return dumpEventSection(out, errOut, f, filename, evtIndex, (*FileReader).FullData)
}

func dumpEventSection(out, errOut io.Writer, f Format, filename string, evtIndex int,
	get func(*FileReader) ([]byte, error),
) bool {
	fr := NewFileReader(f, filename)
	defer fr.Close()

	if !openForDump(fr, errOut) {
		return false
	}
	if !fr.SeekEventByIndex(evtIndex) {
		fmt.Fprintf(errOut, "  Error: Could not find event at index %d\n", evtIndex)
		return false
	}

	data, err := get(fr)
	if err != nil {
		fmt.Fprintf(errOut, "  Error: %v\n", err)
		return false
	}
	if _, err := out.Write(data); err != nil {
		fmt.Fprintf(errOut, "  Error: %v\n", err)
		return false
	}

	return true
}

func openForDump(fr *FileReader, errOut io.Writer) bool {
	if !fr.Init() {
		fmt.Fprintf(errOut, "Error: %s\n", fr.BadReason())
		return false
	}
	if !fr.EventActive() {
		fmt.Fprintln(errOut, "  Error: No events in file")
		return false
	}

	return true
}
