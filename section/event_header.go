package section

import (
	"github.com/arloliu/griff/endian"
	"github.com/arloliu/griff/errs"
)

// EventHeader frames one event on disk.
type EventHeader struct {
	// Checksum is the progressive hash of the other five words and the
	// uncompressed section bytes.
	Checksum uint32 // byte offset 0-3
	// RunNumber and EventNumber identify the event; uniqueness is not enforced.
	RunNumber   uint32 // byte offset 4-7
	EventNumber uint32 // byte offset 8-11
	SizeDB      uint32 // byte offset 12-15
	SizeBrief   uint32 // byte offset 16-19
	// SizeFull is the on-disk size, including the length prefix when the
	// format compresses the Full section.
	SizeFull uint32 // byte offset 20-23
}

// Parse parses the header from exactly EventHeaderSize bytes.
func (h *EventHeader) Parse(data []byte) error {
	if len(data) != EventHeaderSize {
		return errs.ErrInvalidHeaderSize
	}

	engine := endian.FileEngine()
	h.Checksum = engine.Uint32(data[0:4])
	h.RunNumber = engine.Uint32(data[4:8])
	h.EventNumber = engine.Uint32(data[8:12])
	h.SizeDB = engine.Uint32(data[12:16])
	h.SizeBrief = engine.Uint32(data[16:20])
	h.SizeFull = engine.Uint32(data[20:24])

	return nil
}

// AppendTo appends the serialized header to b.
func (h EventHeader) AppendTo(b []byte) []byte {
	engine := endian.FileEngine()
	b = engine.AppendUint32(b, h.Checksum)
	b = engine.AppendUint32(b, h.RunNumber)
	b = engine.AppendUint32(b, h.EventNumber)
	b = engine.AppendUint32(b, h.SizeDB)
	b = engine.AppendUint32(b, h.SizeBrief)
	b = engine.AppendUint32(b, h.SizeFull)

	return b
}

// Bytes serializes the header.
func (h EventHeader) Bytes() []byte {
	return h.AppendTo(make([]byte, 0, EventHeaderSize))
}

// HashWords returns the five words covered by the checksum, in the order
// they are hashed.
func (h EventHeader) HashWords() [5]uint32 {
	return [5]uint32{h.RunNumber, h.EventNumber, h.SizeDB, h.SizeBrief, h.SizeFull}
}

// BodySize returns the number of bytes following the header.
func (h EventHeader) BodySize() int64 {
	return int64(h.SizeDB) + int64(h.SizeBrief) + int64(h.SizeFull)
}

// TotalSize returns header plus body size.
func (h EventHeader) TotalSize() int64 {
	return EventHeaderSize + h.BodySize()
}
