package section

const (
	FileHeaderSize  = 8  // u32 magic + i32 version
	EventHeaderSize = 24 // six u32 words

	// CurrentVersion is the format version written by this module.
	CurrentVersion int32 = 3
	// OldestSupportedVersion is the oldest format version readers accept.
	OldestSupportedVersion int32 = 2

	// CompressedLengthSize is the size of the uncompressed-length prefix in
	// front of a compressed Full section.
	CompressedLengthSize = 4
)
