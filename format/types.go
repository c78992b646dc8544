package format

import "math"

type CompressionType uint8

const (
	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.
)

// Symbol stream wire constants.
const (
	SegmentCapacity = 254                               // usable slots per segment, symbol bytes 0..253
	FrameByte       = byte(math.MaxUint8)               // 0xFF, starts the stream and ends every row
	MaxFeatureSlots = SegmentCapacity * SegmentCapacity // hard ceiling on one feature's slot need
)

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

// ParseCompressionType maps a compression name (String form or lower case) back to its type.
func ParseCompressionType(name string) (CompressionType, bool) {
	switch name {
	case "None", "none", "":
		return CompressionNone, true
	case "Zstd", "zstd":
		return CompressionZstd, true
	case "S2", "s2":
		return CompressionS2, true
	case "LZ4", "lz4":
		return CompressionLZ4, true
	default:
		return 0, false
	}
}
