package section

import (
	"github.com/arloliu/griff/endian"
	"github.com/arloliu/griff/errs"
)

// FileHeader is the identity of a container, written once at open.
type FileHeader struct {
	Magic   uint32
	Version int32
}

// NewFileHeader returns the header a writer of the given format emits.
func NewFileHeader(magic uint32) FileHeader {
	return FileHeader{Magic: magic, Version: CurrentVersion}
}

// Parse parses the header from exactly FileHeaderSize bytes.
func (h *FileHeader) Parse(data []byte) error {
	if len(data) != FileHeaderSize {
		return errs.ErrInvalidHeaderSize
	}

	engine := endian.FileEngine()
	h.Magic = engine.Uint32(data[0:4])
	h.Version = int32(engine.Uint32(data[4:8])) //nolint:gosec

	return nil
}

// Bytes serializes the header.
func (h FileHeader) Bytes() []byte {
	engine := endian.FileEngine()
	b := make([]byte, 0, FileHeaderSize)
	b = engine.AppendUint32(b, h.Magic)
	b = engine.AppendUint32(b, uint32(h.Version)) //nolint:gosec

	return b
}

// Validate checks the magic word and version against what a reader for the
// given format understands.
//
// Returns:
//   - errs.ErrBadFormat: magic word mismatch
//   - errs.ErrVersionTooOld: version below OldestSupportedVersion
//   - errs.ErrVersionTooNew: version above CurrentVersion
func (h FileHeader) Validate(magic uint32) error {
	if h.Magic != magic {
		return errs.ErrBadFormat
	}
	if h.Version < OldestSupportedVersion {
		return errs.ErrVersionTooOld
	}
	if h.Version > CurrentVersion {
		return errs.ErrVersionTooNew
	}

	return nil
}
