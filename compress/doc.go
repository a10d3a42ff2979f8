// Package compress provides the codecs used for the Full section of EvtFile
// events.
//
// A container format names one codec through format.CompressionType. The
// writer stores every compressed payload as
//
//	[u32 uncompressed length][codec payload]
//
// and the reader passes the stored length to DecompressSized, so codecs that
// keep no length of their own (raw LZ4 blocks) still decode in one pass.
//
// Supported algorithms:
//   - None: payload stored as-is
//   - Zlib: standard zlib streams, the Griff default
//   - Zstd: klauspost/compress/zstd, or libzstd with the gozstd build tag
//   - S2: klauspost/compress/s2 block format
//   - LZ4: pierrec/lz4 raw blocks
//
// All codecs are stateless values and safe for concurrent use; encoders and
// decoders with heavy state are pooled internally.
//
//	codec, err := compress.GetCodec(format.CompressionZlib)
//	if err != nil {
//	    return err
//	}
//	payload, err := codec.Compress(full)
package compress
