package evtfile

import (
	"fmt"
	"math"

	"github.com/arloliu/griff/encoding"
	"github.com/arloliu/griff/errs"
)

// stringBuckets is the number of maps strings are spread over by length.
const stringBuckets = 32

// subSectionVersion is the payload version written by the dedup writers.
const subSectionVersion = 0

// DBStringsWriter interns strings into dense indices and appends strings not
// yet written to the DB section of the next flushed event.
//
// Strings longer than encoding.MaxStringLength are truncated on disk but keep
// their own index.
type DBStringsWriter struct {
	id      uint16
	buckets [stringBuckets]map[string]uint32
	all     []string
	pending int
}

var _ PreFlushCallback = (*DBStringsWriter)(nil)

// NewDBStringsWriter creates a table writing subsection id and registers it
// as a pre-flush callback of fw. fw may be nil for a detached table whose
// owner calls Write itself.
func NewDBStringsWriter(fw *FileWriter, id uint16) *DBStringsWriter {
	w := &DBStringsWriter{id: id}
	for i := range w.buckets {
		w.buckets[i] = make(map[string]uint32)
	}
	if fw != nil {
		fw.RegisterPreFlushCallback(w)
	}

	return w
}

// ID returns the subsection id.
func (w *DBStringsWriter) ID() uint16 { return w.id }

// GetIndex returns the index of s, assigning the next free index on first use.
func (w *DBStringsWriter) GetIndex(s string) uint32 {
	bucket := w.buckets[len(s)%stringBuckets]
	if idx, ok := bucket[s]; ok {
		return idx
	}
	idx := uint32(len(w.all)) //nolint:gosec
	bucket[s] = idx
	w.all = append(w.all, s)

	return idx
}

// Len returns the number of interned strings.
func (w *DBStringsWriter) Len() int { return len(w.all) }

// Lookup returns the string with index i.
func (w *DBStringsWriter) Lookup(i uint32) (string, bool) {
	if int(i) >= len(w.all) {
		return "", false
	}

	return w.all[i], true
}

// NeedsWrite reports whether strings were added since the last write.
func (w *DBStringsWriter) NeedsWrite() bool { return w.pending < len(w.all) }

// Write appends one payload with at most math.MaxUint16 pending strings.
//
// Returns:
//   - bool: true while pending strings remain after this payload
func (w *DBStringsWriter) Write(out *encoding.Writer) bool {
	batch := w.all[w.pending:]
	if len(batch) > math.MaxUint16 {
		batch = batch[:math.MaxUint16]
	}
	out.WriteUint16(subSectionVersion)
	out.WriteStrings(batch)
	w.pending += len(batch)

	return w.NeedsWrite()
}

// PreFlush writes the subsection id and the pending strings, if any.
func (w *DBStringsWriter) PreFlush(fw *FileWriter) error {
	db := fw.DBSection()
	for w.NeedsWrite() {
		db.WriteUint16(w.id)
		w.Write(db)
	}

	return nil
}

// DBStringsReader rebuilds a string table from DB subsections.
type DBStringsReader struct {
	strings []string
}

var _ SubSectionReader = (*DBStringsReader)(nil)

func NewDBStringsReader() *DBStringsReader {
	return &DBStringsReader{}
}

// Load appends the strings of one payload.
func (r *DBStringsReader) Load(in *encoding.Reader) error {
	if v := in.ReadUint16(); v != subSectionVersion && in.Err() == nil {
		return fmt.Errorf("%w: strings payload version %d", errs.ErrInvalidSubSection, v)
	}
	r.strings = append(r.strings, in.ReadStrings()...)

	return in.Err()
}

// String returns the string with index i.
func (r *DBStringsReader) String(i uint32) (string, bool) {
	if int(i) >= len(r.strings) {
		return "", false
	}

	return r.strings[i], true
}

// StringOr returns the string with index i, or fallback when unknown.
func (r *DBStringsReader) StringOr(i uint32, fallback string) string {
	if s, ok := r.String(i); ok {
		return s
	}

	return fallback
}

// Strings returns all strings in index order. The slice must not be modified.
func (r *DBStringsReader) Strings() []string { return r.strings }

func (r *DBStringsReader) Len() int { return len(r.strings) }

// ClearInfo forgets all strings.
func (r *DBStringsReader) ClearInfo() {
	clear(r.strings)
	r.strings = r.strings[:0]
}
