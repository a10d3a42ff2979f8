package evtfile

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/arloliu/griff/compress"
	"github.com/arloliu/griff/endian"
	"github.com/arloliu/griff/errs"
	"github.com/arloliu/griff/internal/hash"
	"github.com/arloliu/griff/internal/options"
	"github.com/arloliu/griff/internal/pool"
	"github.com/arloliu/griff/section"
)

// Reasons reported by BadReason.
const (
	ReasonOpenFailed    = "Could not open file"
	ReasonBadFormat     = "File not in right format"
	ReasonTooOld        = "Version of file is too old and no longer supported"
	ReasonTooNew        = "File format version is too new"
	ReasonSeekFailed    = "Error while seeking to next event"
	ReasonHeaderFailed  = "Errors encountered while reading event header"
	ReasonDBReadFailed  = "Errors encountered while reading database section of event"
	ReasonDBDecode      = "Errors encountered while decoding database section of event"
	ReasonSectionFailed = "Errors encountered while reading event data"
)

// DBListener consumes the DB section of every event when the event is first
// parsed. ClearInfo drops everything learned so far and is called when the
// reader closes.
type DBListener interface {
	NewInfoAvailable(data []byte) error
	ClearInfo()
}

// EventInfo is the cached description of a visited event.
type EventInfo struct {
	section.EventHeader

	// Offset is the file position of the event header.
	Offset int64
	// Index is the position of the event in the file, starting at 0.
	Index int
}

func (e *EventInfo) dbOffset() int64    { return e.Offset + section.EventHeaderSize }
func (e *EventInfo) briefOffset() int64 { return e.dbOffset() + int64(e.SizeDB) }
func (e *EventInfo) fullOffset() int64  { return e.briefOffset() + int64(e.SizeBrief) }
func (e *EventInfo) endOffset() int64   { return e.Offset + e.TotalSize() }

type runEvent struct {
	run, evt uint32
}

// FileReader reads a container sequentially, with random access to events it
// has already visited.
//
// The reader never knows the size of an event before parsing its header, so
// unread events can only be reached by parsing forward. Visited events are
// cached, so returning to them is cheap. Brief and Full bytes are read on
// demand and cached for the current event only.
//
// Malformed input never panics: the reader becomes bad and BadReason
// describes why. Calling Init twice is a programming error and panics.
type FileReader struct {
	format   Format
	filename string
	file     *os.File
	codec    compress.Codec
	logger   *logrus.Entry
	listener DBListener
	optErr   error

	initialized bool
	bad         bool
	reason      string
	err         error
	version     int32

	events  []EventInfo
	current int
	evtMap  map[runEvent]int

	brief, full, fullRaw *pool.ByteBuffer
	briefLoaded          bool
	fullLoaded           bool
}

// NewFileReader creates a reader for filename. No I/O happens until Init.
func NewFileReader(f Format, filename string, opts ...ReaderOption) *FileReader {
	fr := &FileReader{
		format:   f,
		filename: filename,
		logger:   defaultLogger(),
		current:  -1,
		version:  -1,
	}
	fr.optErr = options.Apply(fr, opts...)

	return fr
}

// SetDBListener replaces the DB listener. Only events parsed afterwards are
// delivered to it.
func (fr *FileReader) SetDBListener(listener DBListener) {
	fr.listener = listener
}

// Init opens the file, validates the header and positions the reader at the
// first event, if any. A file without events is valid.
//
// Returns:
//   - bool: OK() after initialization
func (fr *FileReader) Init() bool {
	if fr.initialized {
		panic("evtfile: FileReader.Init called twice")
	}
	fr.initialized = true

	if fr.optErr != nil {
		fr.markBad(fr.optErr.Error(), fr.optErr)
		return false
	}

	codec, err := fullDataCodec(fr.format)
	if err != nil {
		fr.markBad(ReasonBadFormat, err)
		return false
	}
	fr.codec = codec

	file, err := os.Open(fr.filename)
	if err != nil {
		fr.markBad(ReasonOpenFailed, fmt.Errorf("%w: %w", errs.ErrOpenFailed, err))
		return false
	}
	fr.file = file

	var raw [section.FileHeaderSize]byte
	if _, err := io.ReadFull(file, raw[:]); err != nil {
		fr.closeBad(ReasonBadFormat, fmt.Errorf("%w: %w", errs.ErrBadFormat, err))
		return false
	}
	var hdr section.FileHeader
	_ = hdr.Parse(raw[:])
	if err := hdr.Validate(fr.format.MagicWord()); err != nil {
		reason := ReasonBadFormat
		switch {
		case errors.Is(err, errs.ErrVersionTooOld):
			reason = ReasonTooOld
		case errors.Is(err, errs.ErrVersionTooNew):
			reason = ReasonTooNew
		}
		fr.closeBad(reason, err)

		return false
	}
	fr.version = hdr.Version

	fr.brief, fr.full, fr.fullRaw = pool.GetSectionBuffer(), pool.GetSectionBuffer(), pool.GetSectionBuffer()
	fr.events = make([]EventInfo, 0, 1000)
	fr.initEventAtIndex(0)

	return fr.OK()
}

func (fr *FileReader) markBad(reason string, err error) {
	fr.bad = true
	fr.reason = reason
	fr.err = err
	fr.current = -1
	fr.logger.WithFields(logrus.Fields{"file": fr.filename, "reason": reason}).WithError(err).Warn("file reader failure")
}

func (fr *FileReader) closeBad(reason string, err error) {
	fr.markBad(reason, err)
	if fr.file != nil {
		_ = fr.file.Close()
		fr.file = nil
	}
}

// IsInit reports whether Init has been called.
func (fr *FileReader) IsInit() bool { return fr.initialized }

// OK reports whether the file is open and no failure occurred.
func (fr *FileReader) OK() bool { return fr.file != nil && !fr.bad }

// Bad reports whether a failure occurred.
func (fr *FileReader) Bad() bool { return fr.bad }

// BadReason describes the failure, or is empty.
func (fr *FileReader) BadReason() string { return fr.reason }

// Err returns the error behind the failure, wrapping an errs sentinel.
func (fr *FileReader) Err() error { return fr.err }

// Version returns the format version of the file, or -1 before a successful Init.
func (fr *FileReader) Version() int32 { return fr.version }

// Filename returns the file name given at construction.
func (fr *FileReader) Filename() string { return fr.filename }

// Format returns the format descriptor.
func (fr *FileReader) Format() Format { return fr.format }

// NEventsSeen returns the number of events parsed so far.
func (fr *FileReader) NEventsSeen() int { return len(fr.events) }

// Close closes the file and tells the DB listener to forget its data.
func (fr *FileReader) Close() error {
	if fr.listener != nil {
		fr.listener.ClearInfo()
	}
	pool.PutSectionBuffer(fr.brief)
	pool.PutSectionBuffer(fr.full)
	pool.PutSectionBuffer(fr.fullRaw)
	fr.brief, fr.full, fr.fullRaw = nil, nil, nil
	fr.current = -1
	if fr.file == nil {
		return nil
	}
	err := fr.file.Close()
	fr.file = nil

	return err
}

func (fr *FileReader) resetLoaded() {
	fr.briefLoaded = false
	fr.fullLoaded = false
}

// initEventAtIndex positions at a cached event, or parses the first unread
// event when idx equals the number of cached events. Reaching the end of the
// file leaves no event active and is not an error.
func (fr *FileReader) initEventAtIndex(idx int) {
	if fr.current >= 0 && fr.current == idx {
		return
	}
	fr.current = -1
	fr.resetLoaded()

	if idx < len(fr.events) {
		fr.current = idx
		return
	}

	pos := int64(section.FileHeaderSize)
	if n := len(fr.events); n > 0 {
		pos = fr.events[n-1].endOffset()
	}

	var raw [section.EventHeaderSize]byte
	n, err := fr.file.ReadAt(raw[:], pos)
	if n == 0 && errors.Is(err, io.EOF) {
		return
	}
	if n != len(raw) {
		if err == nil || errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		fr.markBad(ReasonHeaderFailed, fmt.Errorf("%w: event header at offset %d: %w", errs.ErrStreamFailure, pos, err))
		return
	}

	info := EventInfo{Offset: pos, Index: len(fr.events)}
	_ = info.Parse(raw[:])

	if fr.listener != nil && info.SizeDB > 0 {
		db := make([]byte, info.SizeDB)
		if _, err := fr.file.ReadAt(db, info.dbOffset()); err != nil {
			fr.markBad(ReasonDBReadFailed, fmt.Errorf("%w: %w", errs.ErrStreamFailure, err))
			return
		}
		if err := fr.listener.NewInfoAvailable(db); err != nil {
			fr.markBad(ReasonDBDecode, err)
			return
		}
	}

	fr.events = append(fr.events, info)
	fr.current = info.Index
}

// GoToNextEvent advances one event.
func (fr *FileReader) GoToNextEvent() bool { return fr.SkipEvents(1) }

// GoToPreviousEvent goes back one event.
func (fr *FileReader) GoToPreviousEvent() bool { return fr.SkipEvents(-1) }

// GoToFirstEvent positions at the first event.
func (fr *FileReader) GoToFirstEvent() bool { return fr.SeekEventByIndex(0) }

// SkipEvents moves n events forward, or backwards when n is negative.
//
// Returns:
//   - bool: false when no event is active, when the move would go before the
//     first event, or when the file ends first (no event is active then)
func (fr *FileReader) SkipEvents(n int) bool {
	if fr.bad || fr.current < 0 {
		return false
	}
	if n == 0 {
		return true
	}
	if n < 0 && -n > fr.current {
		return false
	}

	target := fr.current + n
	if target < len(fr.events) {
		fr.initEventAtIndex(target)
		return fr.current >= 0
	}

	fr.initEventAtIndex(len(fr.events))
	for fr.current >= 0 && target > fr.current {
		fr.initEventAtIndex(len(fr.events))
	}

	return fr.current >= 0
}

// SeekEventByIndex positions at the event with the given index in the file,
// parsing forward when it lies beyond the visited events.
func (fr *FileReader) SeekEventByIndex(idx int) bool {
	if fr.bad || len(fr.events) == 0 || idx < 0 {
		return false
	}
	if fr.current == idx {
		return true
	}
	if idx < len(fr.events) {
		fr.current = idx
		fr.resetLoaded()

		return true
	}

	if !fr.SeekEventByIndex(len(fr.events) - 1) {
		return false
	}
	for fr.GoToNextEvent() {
		if fr.current == idx {
			return true
		}
	}

	return false
}

// GoToEvent positions at the event with the given run and event numbers.
//
// Only events visited so far are searched; an event in the unexplored tail
// of the file is not found even if it exists. No event is active after a
// failed lookup.
func (fr *FileReader) GoToEvent(run, evt uint32) bool {
	if cur := fr.currentInfo(); cur != nil && cur.RunNumber == run && cur.EventNumber == evt {
		return true
	}
	fr.current = -1
	fr.resetLoaded()

	if fr.evtMap == nil {
		fr.evtMap = make(map[runEvent]int, len(fr.events))
	}
	if len(fr.evtMap) < len(fr.events) {
		for i := range fr.events {
			key := runEvent{fr.events[i].RunNumber, fr.events[i].EventNumber}
			if _, seen := fr.evtMap[key]; !seen {
				fr.evtMap[key] = i
			}
		}
	}

	if idx, ok := fr.evtMap[runEvent{run, evt}]; ok {
		fr.current = idx
		return true
	}

	return false
}

func (fr *FileReader) currentInfo() *EventInfo {
	if fr.current < 0 {
		return nil
	}

	return &fr.events[fr.current]
}

// EventActive reports whether an event is positioned.
func (fr *FileReader) EventActive() bool { return fr.current >= 0 }

// CurrentEvent returns the cached info of the current event, or nil.
func (fr *FileReader) CurrentEvent() *EventInfo { return fr.currentInfo() }

// The per-event accessors below return zero values when no event is active.

func (fr *FileReader) RunNumber() uint32 {
	if e := fr.currentInfo(); e != nil {
		return e.RunNumber
	}

	return 0
}

func (fr *FileReader) EventNumber() uint32 {
	if e := fr.currentInfo(); e != nil {
		return e.EventNumber
	}

	return 0
}

// EventIndex returns the index of the current event in the file, or -1.
func (fr *FileReader) EventIndex() int { return fr.current }

// EventCheckSum returns the checksum stored in the file.
func (fr *FileReader) EventCheckSum() uint32 {
	if e := fr.currentInfo(); e != nil {
		return e.Checksum
	}

	return 0
}

func (fr *FileReader) NBytesDBData() int {
	if e := fr.currentInfo(); e != nil {
		return int(e.SizeDB)
	}

	return 0
}

func (fr *FileReader) NBytesBriefData() int {
	if e := fr.currentInfo(); e != nil {
		return int(e.SizeBrief)
	}

	return 0
}

// NBytesFullDataOnDisk returns the stored, possibly compressed, Full size.
func (fr *FileReader) NBytesFullDataOnDisk() int {
	if e := fr.currentInfo(); e != nil {
		return int(e.SizeFull)
	}

	return 0
}

// NBytesFullData returns the uncompressed Full size. For compressed formats
// only the length prefix is read unless the data is already loaded.
func (fr *FileReader) NBytesFullData() int {
	e := fr.currentInfo()
	if e == nil {
		return 0
	}
	if fr.fullLoaded || !CompressFullData(fr.format) {
		if fr.fullLoaded {
			return fr.full.Len()
		}
		return int(e.SizeFull)
	}
	if e.SizeFull < section.CompressedLengthSize {
		return 0
	}

	var raw [section.CompressedLengthSize]byte
	if _, err := fr.file.ReadAt(raw[:], e.fullOffset()); err != nil {
		fr.markBad(ReasonSectionFailed, fmt.Errorf("%w: %w", errs.ErrStreamFailure, err))
		return 0
	}

	return int(endian.FileEngine().Uint32(raw[:]))
}

func (fr *FileReader) readSection(buf *pool.ByteBuffer, n int, off int64) error {
	buf.Resize(n)
	if n == 0 {
		return nil
	}
	if _, err := fr.file.ReadAt(buf.B, off); err != nil {
		buf.Reset()
		fr.markBad(ReasonSectionFailed, fmt.Errorf("%w: %w", errs.ErrStreamFailure, err))

		return fr.err
	}

	return nil
}

// BriefData returns the Brief section of the current event. The slice is
// valid until the reader navigates to another event.
func (fr *FileReader) BriefData() ([]byte, error) {
	if fr.briefLoaded {
		return fr.brief.Bytes(), nil
	}
	e := fr.currentInfo()
	if e == nil {
		return nil, errs.ErrNoActiveEvent
	}
	if err := fr.readSection(fr.brief, int(e.SizeBrief), e.briefOffset()); err != nil {
		return nil, err
	}
	fr.briefLoaded = true

	return fr.brief.Bytes(), nil
}

// FullData returns the uncompressed Full section of the current event. The
// slice is valid until the reader navigates to another event.
func (fr *FileReader) FullData() ([]byte, error) {
	if fr.fullLoaded {
		return fr.full.Bytes(), nil
	}
	e := fr.currentInfo()
	if e == nil {
		return nil, errs.ErrNoActiveEvent
	}

	n := int(e.SizeFull)
	if !CompressFullData(fr.format) {
		if err := fr.readSection(fr.full, n, e.fullOffset()); err != nil {
			return nil, err
		}
		fr.fullLoaded = true

		return fr.full.Bytes(), nil
	}

	if n == 0 {
		fr.full.Reset()
		fr.fullLoaded = true

		return fr.full.Bytes(), nil
	}
	if n < section.CompressedLengthSize {
		return nil, fmt.Errorf("%w: %s section of %d bytes lacks length prefix", errs.ErrDecompression, fr.format.FullDataName(), n)
	}
	if err := fr.readSection(fr.fullRaw, n, e.fullOffset()); err != nil {
		return nil, err
	}

	size := int(endian.FileEngine().Uint32(fr.fullRaw.B[:section.CompressedLengthSize]))
	if limit := maxFullDataSize(n - section.CompressedLengthSize); size > limit {
		fr.markBad(ReasonSectionFailed, fmt.Errorf("%w: %s length prefix %d exceeds limit %d for %d stored bytes",
			errs.ErrDecompression, fr.format.FullDataName(), size, limit, n))

		return nil, fr.err
	}
	out, err := compress.DecompressSized(fr.codec, fr.fullRaw.B[section.CompressedLengthSize:], size)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrDecompression, err)
	}
	fr.full.Reset()
	fr.full.MustWrite(out)
	fr.fullLoaded = true

	return fr.full.Bytes(), nil
}

const (
	// maxFullExpansion bounds the ratio between the declared uncompressed size
	// of a Full section and its compressed payload.
	maxFullExpansion = 1 << 16
	// maxFullSlack is allowed on top of the ratio for tiny payloads.
	maxFullSlack = 1 << 20
)

// maxFullDataSize is the largest uncompressed size a compressed payload of
// stored bytes may declare.
func maxFullDataSize(stored int) int {
	return stored*maxFullExpansion + maxFullSlack
}

// SharedDataInEvent re-reads the DB section of the current event.
func (fr *FileReader) SharedDataInEvent() ([]byte, error) {
	e := fr.currentInfo()
	if e == nil {
		return nil, errs.ErrNoActiveEvent
	}
	db := make([]byte, e.SizeDB)
	if len(db) == 0 {
		return db, nil
	}
	if _, err := fr.file.ReadAt(db, e.dbOffset()); err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrStreamFailure, err)
	}

	return db, nil
}

// VerifyEventDataIntegrity recomputes the checksum of the current event and
// compares it with the stored one. Read and decompression failures count as
// a mismatch.
func (fr *FileReader) VerifyEventDataIntegrity() bool {
	if !fr.OK() {
		return false
	}
	e := fr.currentInfo()
	if e == nil {
		return false
	}

	db, err := fr.SharedDataInEvent()
	if err != nil {
		return false
	}
	brief, err := fr.BriefData()
	if err != nil {
		return false
	}
	full, err := fr.FullData()
	if err != nil {
		return false
	}

	return e.Checksum == hash.EventChecksum(e.HashWords(), db, brief, full)
}
