package evtfile

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/arloliu/griff/compress"
	"github.com/arloliu/griff/encoding"
	"github.com/arloliu/griff/endian"
	"github.com/arloliu/griff/errs"
	"github.com/arloliu/griff/internal/hash"
	"github.com/arloliu/griff/internal/options"
	"github.com/arloliu/griff/internal/pool"
	"github.com/arloliu/griff/section"
)

// PreFlushCallback is invoked right before every event is flushed, in
// registration order. Implementations typically append newly added reference
// data to the DB section.
type PreFlushCallback interface {
	PreFlush(fw *FileWriter) error
}

// PreFlushFunc adapts a function to PreFlushCallback.
type PreFlushFunc func(fw *FileWriter) error

func (f PreFlushFunc) PreFlush(fw *FileWriter) error { return f(fw) }

// FileWriter writes events sequentially into a new container file.
//
// Each event is assembled in three in-memory section buffers and written by
// FlushEventToDisk. A failed write leaves the file with a possibly truncated
// last event; the writer refuses further events after a failure.
type FileWriter struct {
	format     Format
	filename   string
	file       *os.File
	out        *bufio.Writer
	codec      compress.Codec
	bufferSize int
	logger     *logrus.Entry

	db, brief, full    *pool.ByteBuffer
	dbW, briefW, fullW *encoding.Writer
	hooks              []PreFlushCallback
	header             []byte
	events             int
	failed             error
	closed             bool
}

// NewFileWriter creates the file and writes the container header.
//
// The format's extension is appended to filename unless already present.
//
// Returns:
//   - *FileWriter: writer positioned before the first event
//   - error: errs.ErrOpenFailed or errs.ErrWriteFailed wrapping the cause
func NewFileWriter(f Format, filename string, opts ...WriterOption) (*FileWriter, error) {
	fw := &FileWriter{
		format:     f,
		filename:   filename,
		bufferSize: DefaultBufferSize,
		logger:     defaultLogger(),
	}
	if err := options.Apply(fw, opts...); err != nil {
		return nil, err
	}

	codec, err := fullDataCodec(f)
	if err != nil {
		return nil, err
	}
	fw.codec = codec

	if ext := f.FileExtension(); ext != "" && !strings.HasSuffix(fw.filename, ext) {
		fw.filename += ext
	}

	file, err := os.Create(fw.filename)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", errs.ErrOpenFailed, fw.filename, err)
	}
	fw.file = file
	fw.out = bufio.NewWriterSize(file, fw.bufferSize)

	fw.db, fw.brief, fw.full = pool.GetSectionBuffer(), pool.GetSectionBuffer(), pool.GetSectionBuffer()
	fw.dbW, fw.briefW, fw.fullW = encoding.NewWriter(fw.db), encoding.NewWriter(fw.brief), encoding.NewWriter(fw.full)
	fw.header = make([]byte, 0, section.EventHeaderSize)

	if err := fw.write(section.NewFileHeader(f.MagicWord()).Bytes()); err != nil {
		_ = fw.file.Close()
		return nil, err
	}
	if err := fw.out.Flush(); err != nil {
		_ = fw.file.Close()
		return nil, fw.fail(err)
	}

	fw.logger.WithField("file", fw.filename).Debug("opened output file")

	return fw, nil
}

// Filename returns the actual file name, including the extension.
func (fw *FileWriter) Filename() string { return fw.filename }

// Format returns the format the writer was created with.
func (fw *FileWriter) Format() Format { return fw.format }

// EventsWritten returns the number of events flushed so far.
func (fw *FileWriter) EventsWritten() int { return fw.events }

// WriteDataDBSection appends p to the DB section of the current event.
func (fw *FileWriter) WriteDataDBSection(p []byte) { fw.db.MustWrite(p) }

// WriteDataBriefSection appends p to the Brief section of the current event.
func (fw *FileWriter) WriteDataBriefSection(p []byte) { fw.brief.MustWrite(p) }

// WriteDataFullSection appends p to the Full section of the current event.
func (fw *FileWriter) WriteDataFullSection(p []byte) { fw.full.MustWrite(p) }

// DBSection returns a typed writer appending to the DB section.
func (fw *FileWriter) DBSection() *encoding.Writer { return fw.dbW }

// BriefSection returns a typed writer appending to the Brief section.
func (fw *FileWriter) BriefSection() *encoding.Writer { return fw.briefW }

// FullSection returns a typed writer appending to the Full section.
func (fw *FileWriter) FullSection() *encoding.Writer { return fw.fullW }

func (fw *FileWriter) SizeDBSection() int    { return fw.db.Len() }
func (fw *FileWriter) SizeBriefSection() int { return fw.brief.Len() }
func (fw *FileWriter) SizeFullSection() int  { return fw.full.Len() }

// RegisterPreFlushCallback subscribes cb to run before every flush.
func (fw *FileWriter) RegisterPreFlushCallback(cb PreFlushCallback) {
	fw.hooks = append(fw.hooks, cb)
}

// RegisterPreFlushFunc subscribes fn to run before every flush.
func (fw *FileWriter) RegisterPreFlushFunc(fn func(fw *FileWriter) error) {
	fw.RegisterPreFlushCallback(PreFlushFunc(fn))
}

// FlushEventToDisk finishes the current event.
//
// Steps, in order: run pre-flush hooks, compress the Full section if the
// format asks for it, compute the checksum over the header words and the
// uncompressed sections, write header and sections, clear the buffers.
//
// Returns:
//   - error: hook error, compression error or errs.ErrWriteFailed
func (fw *FileWriter) FlushEventToDisk(run, evt uint32) error {
	if fw.closed {
		return errs.ErrWriterClosed
	}
	if fw.failed != nil {
		return fw.failed
	}

	for _, hook := range fw.hooks {
		if err := hook.PreFlush(fw); err != nil {
			fw.resetSections()
			return fmt.Errorf("pre-flush callback failed: %w", err)
		}
	}

	full := fw.full.Bytes()
	onDisk := full
	var scratch *pool.ByteBuffer
	if CompressFullData(fw.format) && len(full) > 0 {
		payload, err := fw.codec.Compress(full)
		if err != nil {
			return fmt.Errorf("compressing %s data: %w", fw.format.FullDataName(), err)
		}
		scratch = pool.GetScratchBuffer()
		defer pool.PutScratchBuffer(scratch)
		scratch.B = endian.FileEngine().AppendUint32(scratch.B, uint32(len(full))) //nolint:gosec
		scratch.MustWrite(payload)
		onDisk = scratch.Bytes()
	}

	hdr := section.EventHeader{
		RunNumber:   run,
		EventNumber: evt,
		SizeDB:      uint32(fw.db.Len()),    //nolint:gosec
		SizeBrief:   uint32(fw.brief.Len()), //nolint:gosec
		SizeFull:    uint32(len(onDisk)),    //nolint:gosec
	}
	hdr.Checksum = hash.EventChecksum(hdr.HashWords(), fw.db.Bytes(), fw.brief.Bytes(), full)

	fw.header = hdr.AppendTo(fw.header[:0])
	for _, chunk := range [][]byte{fw.header, fw.db.Bytes(), fw.brief.Bytes(), onDisk} {
		if err := fw.write(chunk); err != nil {
			return err
		}
	}
	if err := fw.out.Flush(); err != nil {
		return fw.fail(err)
	}

	fw.logger.WithFields(logrus.Fields{
		"run":   run,
		"event": evt,
		"db":    hdr.SizeDB,
		"brief": hdr.SizeBrief,
		"full":  hdr.SizeFull,
	}).Debug("flushed event")

	fw.resetSections()
	fw.events++

	return nil
}

// resetSections drops the pending event, so a failed flush leaves no partial
// state behind for the next event.
func (fw *FileWriter) resetSections() {
	fw.db.Reset()
	fw.brief.Reset()
	fw.full.Reset()
}

func (fw *FileWriter) write(p []byte) error {
	if len(p) == 0 {
		return nil
	}
	if _, err := fw.out.Write(p); err != nil {
		return fw.fail(err)
	}

	return nil
}

func (fw *FileWriter) fail(err error) error {
	fw.failed = fmt.Errorf("%w: %s: %w", errs.ErrWriteFailed, fw.filename, err)
	fw.logger.WithError(err).WithField("file", fw.filename).Error("problems writing to file")

	return fw.failed
}

// Close flushes buffered output and closes the file. Unflushed section data
// is discarded.
func (fw *FileWriter) Close() error {
	if fw.closed {
		return nil
	}
	fw.closed = true

	var errList []error
	if err := fw.out.Flush(); err != nil && fw.failed == nil {
		errList = append(errList, fmt.Errorf("%w: %w", errs.ErrWriteFailed, err))
	}
	if err := fw.file.Close(); err != nil {
		errList = append(errList, err)
	}

	pool.PutSectionBuffer(fw.db)
	pool.PutSectionBuffer(fw.brief)
	pool.PutSectionBuffer(fw.full)
	fw.db, fw.brief, fw.full = nil, nil, nil

	fw.logger.WithFields(logrus.Fields{"file": fw.filename, "events": fw.events}).Debug("closed output file")

	return errors.Join(errList...)
}
