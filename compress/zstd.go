package compress

// ZstdCodec writes Zstandard frames. The pure Go encoder of klauspost/compress
// is the default; the gozstd build tag (with cgo) switches to libzstd. Both
// backends read each other's frames.
type ZstdCodec struct{}

var (
	_ Codec             = ZstdCodec{}
	_ SizedDecompressor = ZstdCodec{}
)

func NewZstdCodec() ZstdCodec { return ZstdCodec{} }
