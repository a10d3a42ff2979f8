package compress

// NoneCodec stores payloads unchanged. Results share memory with the input.
type NoneCodec struct{}

var (
	_ Codec             = NoneCodec{}
	_ SizedDecompressor = NoneCodec{}
)

func NewNoneCodec() NoneCodec { return NoneCodec{} }

func (NoneCodec) Compress(data []byte) ([]byte, error) { return data, nil }

func (NoneCodec) Decompress(data []byte) ([]byte, error) { return data, nil }

func (NoneCodec) DecompressSized(data []byte, _ int) ([]byte, error) { return data, nil }
