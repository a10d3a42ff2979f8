package evtfile

import (
	"fmt"

	"github.com/arloliu/griff/encoding"
	"github.com/arloliu/griff/errs"
	"github.com/arloliu/griff/internal/collision"
	"github.com/arloliu/griff/internal/hash"
	"github.com/arloliu/griff/internal/pool"
)

// Entry is a value stored in a content-addressed DB table.
//
// Equal values must have equal hashes and identical encodings.
type Entry[E any] interface {
	collision.Equaler[E]
	Hash() uint64
	Encode(w *encoding.Writer)
}

// EncodedHash hashes the encoding of e. It is a convenient Hash
// implementation for entries without a cheaper natural key.
func EncodedHash(e interface{ Encode(w *encoding.Writer) }) uint64 {
	buf := pool.GetScratchBuffer()
	defer pool.PutScratchBuffer(buf)
	e.Encode(encoding.NewWriter(buf))

	return hash.Content(buf.Bytes())
}

// DBEntryWriter assigns stable indices to distinct entries and appends
// entries not yet written to the DB section of the next flushed event.
type DBEntryWriter[E Entry[E]] struct {
	id      uint16
	tracker *collision.Tracker[E]
	written int
}

// NewDBEntryWriter creates a table writing subsection id and registers it as
// a pre-flush callback of fw when fw is not nil.
func NewDBEntryWriter[E Entry[E]](fw *FileWriter, id uint16) *DBEntryWriter[E] {
	w := &DBEntryWriter[E]{id: id, tracker: collision.NewTracker[E]()}
	if fw != nil {
		fw.RegisterPreFlushCallback(w)
	}

	return w
}

// ID returns the subsection id.
func (w *DBEntryWriter[E]) ID() uint16 { return w.id }

// GetIndex returns the index of the entry equal to e, adding e on first use.
func (w *DBEntryWriter[E]) GetIndex(e E) uint32 {
	idx, _ := w.tracker.Track(e, e.Hash())
	return idx
}

func (w *DBEntryWriter[E]) Len() int { return w.tracker.Count() }

// Entry returns the entry with index i.
func (w *DBEntryWriter[E]) Entry(i uint32) E { return w.tracker.Entry(i) }

// Collisions returns how many distinct entries shared a hash with an earlier one.
func (w *DBEntryWriter[E]) Collisions() int { return w.tracker.Collisions() }

// NeedsWrite reports whether entries were added since the last write.
func (w *DBEntryWriter[E]) NeedsWrite() bool { return w.written < w.tracker.Count() }

// Write appends a payload with all pending entries.
func (w *DBEntryWriter[E]) Write(out *encoding.Writer) {
	pending := w.tracker.Entries()[w.written:]
	out.WriteUint16(subSectionVersion)
	out.WriteUint32(uint32(len(pending))) //nolint:gosec
	for _, e := range pending {
		e.Encode(out)
	}
	w.written += len(pending)
}

// PreFlush writes the subsection id and the pending entries, if any.
func (w *DBEntryWriter[E]) PreFlush(fw *FileWriter) error {
	if !w.NeedsWrite() {
		return nil
	}
	db := fw.DBSection()
	db.WriteUint16(w.id)
	w.Write(db)

	return nil
}

// DecodeFunc decodes one entry. Decoders may rely on the sticky error of r.
type DecodeFunc[E any] func(r *encoding.Reader) (E, error)

// DBEntryReader rebuilds an entry table from DB subsections.
type DBEntryReader[E any] struct {
	decode  DecodeFunc[E]
	entries []E
}

// NewDBEntryReader creates a table decoding entries with decode.
func NewDBEntryReader[E any](decode func(r *encoding.Reader) (E, error)) *DBEntryReader[E] {
	return &DBEntryReader[E]{decode: decode}
}

// Load appends the entries of one payload.
func (r *DBEntryReader[E]) Load(in *encoding.Reader) error {
	if v := in.ReadUint16(); v != subSectionVersion && in.Err() == nil {
		return fmt.Errorf("%w: entries payload version %d", errs.ErrInvalidSubSection, v)
	}
	n := in.ReadUint32()
	if err := in.Err(); err != nil {
		return err
	}
	for i := uint32(0); i < n; i++ {
		e, err := r.decode(in)
		if err == nil {
			err = in.Err()
		}
		if err != nil {
			return fmt.Errorf("entry %d of %d: %w", i, n, err)
		}
		r.entries = append(r.entries, e)
	}

	return nil
}

// Entry returns the entry with index i.
func (r *DBEntryReader[E]) Entry(i uint32) (E, bool) {
	if int(i) >= len(r.entries) {
		var zero E
		return zero, false
	}

	return r.entries[i], true
}

// Entries returns all entries in index order. The slice must not be modified.
func (r *DBEntryReader[E]) Entries() []E { return r.entries }

func (r *DBEntryReader[E]) Len() int { return len(r.entries) }

// ClearInfo forgets all entries.
func (r *DBEntryReader[E]) ClearInfo() {
	clear(r.entries)
	r.entries = r.entries[:0]
}
