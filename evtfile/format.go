package evtfile

import (
	"github.com/arloliu/griff/compress"
	"github.com/arloliu/griff/format"
)

// Format describes a concrete data format stored in an EvtFile container.
type Format interface {
	// MagicWord identifies files of the format.
	MagicWord() uint32
	// FileExtension is appended to written file names, including the dot.
	FileExtension() string
	// BriefDataName and FullDataName name the payload sections in dumps.
	BriefDataName() string
	FullDataName() string
	// FullDataCompression selects the codec of the Full section.
	FullDataCompression() format.CompressionType
}

// CompressFullData reports whether f stores the Full section compressed.
func CompressFullData(f Format) bool {
	return f.FullDataCompression().Enabled()
}

// SimpleFormat is a Format built from plain values, convenient for tools and
// tests that define ad hoc formats.
type SimpleFormat struct {
	Magic       uint32
	Extension   string
	BriefName   string
	FullName    string
	Compression format.CompressionType
}

var _ Format = SimpleFormat{}

func (f SimpleFormat) MagicWord() uint32     { return f.Magic }
func (f SimpleFormat) FileExtension() string { return f.Extension }
func (f SimpleFormat) BriefDataName() string { return f.BriefName }
func (f SimpleFormat) FullDataName() string  { return f.FullName }

func (f SimpleFormat) FullDataCompression() format.CompressionType {
	if f.Compression == 0 {
		return format.CompressionNone
	}

	return f.Compression
}

func fullDataCodec(f Format) (compress.Codec, error) {
	return compress.GetCodec(f.FullDataCompression())
}
