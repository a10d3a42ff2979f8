// Package errs defines the sentinel errors shared by the griff packages.
//
// Callers compare with errors.Is; functions wrap these sentinels with context
// using fmt.Errorf and the %w verb.
package errs

import "errors"

// Container errors.
var (
	ErrOpenFailed        = errors.New("could not open file")
	ErrBadFormat         = errors.New("file not in right format")
	ErrVersionTooOld     = errors.New("version of file is too old and no longer supported")
	ErrVersionTooNew     = errors.New("file format version is too new")
	ErrStreamFailure     = errors.New("stream failure while reading event")
	ErrUnexpectedEOF     = errors.New("unexpected end of data")
	ErrWriteFailed       = errors.New("write failure")
	ErrInvalidHeaderSize = errors.New("invalid header size")
	ErrNoActiveEvent     = errors.New("no active event")
	ErrDecompression     = errors.New("full data decompression failed")
	ErrWriterClosed      = errors.New("writer already closed")
	ErrIntegrity         = errors.New("event data integrity check failed")
)

// Reference data errors.
var (
	ErrInvalidSubSection = errors.New("invalid subsection data")
	ErrUnsupportedTable  = errors.New("unsupported table version")
	ErrInvalidIndex      = errors.New("index out of range")
)

// Griff errors.
var (
	ErrNoInputFiles   = errors.New("no input files")
	ErrSetupChanged   = errors.New("setup changed between events")
	ErrInvalidTrackID = errors.New("invalid track id")
	ErrInvalidMode    = errors.New("invalid storage mode")
	ErrInvalidRecord  = errors.New("invalid record")
)
