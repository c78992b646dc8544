package encoding

import (
	"fmt"

	"github.com/arloliu/featab/compress"
	"github.com/arloliu/featab/endian"
	"github.com/arloliu/featab/errs"
	"github.com/arloliu/featab/format"
	"github.com/arloliu/featab/internal/hash"
)

// ArchiveHeaderSize is the fixed archive header: one compression type byte followed by
// the little-endian xxHash64 of the uncompressed stream.
const ArchiveHeaderSize = 1 + 8

// Pack wraps an encoded stream for storage, compressing it with ct.
func Pack(stream []byte, ct format.CompressionType) ([]byte, error) {
	out, _, err := PackWithStats(stream, ct)
	return out, err
}

// PackWithStats is Pack, also reporting the size change.
func PackWithStats(stream []byte, ct format.CompressionType) ([]byte, compress.CompressionStats, error) {
	stats := compress.CompressionStats{Algorithm: ct, OriginalSize: int64(len(stream))}

	codec, err := compress.CreateCodec(ct, "archive")
	if err != nil {
		return nil, stats, err
	}

	payload, err := codec.Compress(stream)
	if err != nil {
		return nil, stats, fmt.Errorf("compress stream: %w", err)
	}

	engine := endian.GetLittleEndianEngine()
	out := make([]byte, 0, ArchiveHeaderSize+len(payload))
	out = append(out, byte(ct))
	out = engine.AppendUint64(out, hash.Sum64(stream))
	out = append(out, payload...)
	stats.CompressedSize = int64(len(out))

	return out, stats, nil
}

// Unpack reverses Pack and verifies the stream checksum.
func Unpack(data []byte) ([]byte, error) {
	if len(data) < ArchiveHeaderSize {
		return nil, fmt.Errorf("%w: %d bytes is shorter than the header", errs.ErrInvalidArchive, len(data))
	}

	ct := format.CompressionType(data[0])
	codec, err := compress.GetCodec(ct)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrInvalidArchive, err)
	}

	want := endian.GetLittleEndianEngine().Uint64(data[1:ArchiveHeaderSize])

	stream, err := codec.Decompress(data[ArchiveHeaderSize:])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrInvalidArchive, err)
	}

	if got := hash.Sum64(stream); got != want {
		return nil, fmt.Errorf("%w: got %016x, want %016x", errs.ErrChecksumMismatch, got, want)
	}

	return stream, nil
}
