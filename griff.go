// Package griff reads and writes Griff files: Geant4 simulation output stored
// in the EvtFile append-only event container.
//
// A file holds a sequence of events. Every event carries three sections:
//
//   - DB: reference data (volume and material tables, particle properties,
//     metadata) written once per file and shared by later events
//   - Brief: the tracks and their segments
//   - Full: the steps of every segment, zlib compressed
//
// Events are protected by a murmur3 checksum over all three sections.
//
// # Basic Usage
//
// Writing events:
//
//	w, _ := griff.NewWriter("run42")
//	w.AddParticle(gr.Particle{PDGCode: 2112, Name: "neutron", Mass: 939.565})
//	w.AddTrack(gr.TrackRecord{ID: 1, PDGCode: 2112, Segments: segments})
//	_ = w.WriteEvent(42, 1)
//	_ = w.Close()
//
// Reading events:
//
//	dr, _ := griff.Open("run42.griff", "more/*.griff")
//	defer dr.Close()
//	for dr.LoopEvents() {
//	    for _, trk := range dr.Tracks() {
//	        fmt.Println(trk.PDGName(), trk.StartEKin())
//	    }
//	}
//
// # Package Structure
//
// This package provides convenient top-level wrappers. Use the subpackages
// directly for fine-grained control:
//
//   - griff/griff: the Griff writer, DataReader and the track, segment and
//     step handles
//   - griff/anautils: filters and filtered iterators for analysis loops
//   - evtfile: the format-independent event container
//   - compress, encoding, section: codecs, byte streams and fixed headers
package griff

import (
	"fmt"
	"io"

	gr "github.com/arloliu/griff/griff"

	"github.com/arloliu/griff/errs"
	"github.com/arloliu/griff/evtfile"
)

// NewWriter creates a Griff writer storing every step.
//
// Parameters:
//   - filename: output file; ".griff" is appended when missing
//   - opts: writer options (see gr.WriterOption)
//
// Returns:
//   - *gr.Writer: the writer, to be closed by the caller
//   - error: if the options are invalid or the file cannot be created
func NewWriter(filename string, opts ...gr.WriterOption) (*gr.Writer, error) {
	return gr.NewWriter(filename, opts...)
}

// NewReducedWriter creates a Griff writer merging the steps of every segment
// into one. Files are much smaller while track and segment data stay exact.
func NewReducedWriter(filename string, opts ...gr.WriterOption) (*gr.Writer, error) {
	return gr.NewWriter(filename, append([]gr.WriterOption{gr.WithMode(gr.ModeReduced)}, opts...)...)
}

// NewMinimalWriter creates a Griff writer storing no steps at all.
func NewMinimalWriter(filename string, opts ...gr.WriterOption) (*gr.Writer, error) {
	return gr.NewWriter(filename, append([]gr.WriterOption{gr.WithMode(gr.ModeMinimal)}, opts...)...)
}

// Open creates a DataReader over inputs, positioned at the first event.
// Inputs may be glob patterns.
func Open(inputs ...string) (*gr.DataReader, error) {
	return gr.NewDataReader(inputs)
}

// OpenWithOptions is Open with reader options.
func OpenWithOptions(inputs []string, opts ...gr.ReaderOption) (*gr.DataReader, error) {
	return gr.NewDataReader(inputs, opts...)
}

// Verify checks the integrity of every event in filename.
//
// Returns:
//   - int: number of events read
//   - error: errs.ErrIntegrity naming the first corrupted event, or the
//     reason the file could not be read
func Verify(filename string) (int, error) {
	fr := evtfile.NewFileReader(gr.Format, filename)
	defer fr.Close()

	if !fr.Init() {
		return 0, fmt.Errorf("verify %s: %s: %w", filename, fr.BadReason(), fr.Err())
	}
	n := 0
	for fr.EventActive() {
		if !fr.VerifyEventDataIntegrity() {
			return n, fmt.Errorf("%w: event %d (run %d, event %d) of %s",
				errs.ErrIntegrity, fr.EventIndex(), fr.RunNumber(), fr.EventNumber(), filename)
		}
		n++
		fr.GoToNextEvent()
	}
	if fr.Bad() {
		return n, fmt.Errorf("verify %s: %s: %w", filename, fr.BadReason(), fr.Err())
	}

	return n, nil
}

// DumpInfo prints the event table of filename to w, see evtfile.DumpFileInfo.
func DumpInfo(w io.Writer, filename string) bool {
	return evtfile.DumpFileInfo(w, gr.Format, filename, false, false)
}
