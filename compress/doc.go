// Package compress provides codecs for archiving encoded symbol streams.
//
// The symbol stream itself is consumed raw by the matching engine; these codecs are
// only used to store or ship it (see encoding.Pack). Symbol streams are highly
// repetitive, one byte per feature with a small alphabet, so general-purpose
// compressors shrink them well.
//
// Supported algorithms:
//   - None (format.CompressionNone): passes data through untouched
//   - Zstd (format.CompressionZstd): best ratio; klauspost/compress by default, or the
//     cgo binding valyala/gozstd when built with the gozstd tag
//   - S2 (format.CompressionS2): fast with a good ratio
//   - LZ4 (format.CompressionLZ4): fastest decompression
//
// All codecs are safe for concurrent use.
//
//	codec, err := compress.GetCodec(format.CompressionZstd)
//	packed, err := codec.Compress(stream)
//	stream, err = codec.Decompress(packed)
package compress
