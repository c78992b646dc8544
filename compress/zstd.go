package compress

// ZstdCompressor compresses with Zstandard. The implementation is chosen at build
// time: pure Go by default, cgo with the gozstd build tag.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a new Zstd compressor with default settings.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
