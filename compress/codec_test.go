package compress

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/featab/format"
)

var allTypes = []format.CompressionType{
	format.CompressionNone,
	format.CompressionZstd,
	format.CompressionS2,
	format.CompressionLZ4,
}

// symbolStream builds a framed stream of small symbol bytes, the shape archives carry.
func symbolStream(rows, width int) []byte {
	rng := rand.New(rand.NewSource(7))
	out := []byte{format.FrameByte}
	for r := 0; r < rows; r++ {
		for f := 0; f < width; f++ {
			out = append(out, byte(rng.Intn(16)))
		}
		out = append(out, format.FrameByte)
	}

	return out
}

func TestCodecs_RoundTrip(t *testing.T) {
	inputs := map[string][]byte{
		"single frame": {format.FrameByte},
		"small stream": symbolStream(10, 8),
		"large stream": symbolStream(5000, 136),
		"repetitive":   bytes.Repeat([]byte{1, 2, 3, format.FrameByte}, 10000),
	}

	for _, ct := range allTypes {
		codec, err := GetCodec(ct)
		require.NoError(t, err)

		for name, data := range inputs {
			t.Run(ct.String()+"/"+name, func(t *testing.T) {
				orig := bytes.Clone(data)

				compressed, err := codec.Compress(data)
				require.NoError(t, err)
				require.Equal(t, orig, data, "input must not be modified")

				restored, err := codec.Decompress(compressed)
				require.NoError(t, err)
				require.Equal(t, orig, restored)
			})
		}
	}
}

func TestCodecs_EmptyInput(t *testing.T) {
	for _, ct := range allTypes {
		codec, err := GetCodec(ct)
		require.NoError(t, err)

		compressed, err := codec.Compress(nil)
		require.NoError(t, err)

		restored, err := codec.Decompress(compressed)
		require.NoError(t, err)
		require.Empty(t, restored, ct.String())
	}
}

func TestCodecs_ShrinkSymbolStreams(t *testing.T) {
	data := symbolStream(5000, 136)

	for _, ct := range []format.CompressionType{format.CompressionZstd, format.CompressionS2, format.CompressionLZ4} {
		codec, err := GetCodec(ct)
		require.NoError(t, err)

		compressed, err := codec.Compress(data)
		require.NoError(t, err)
		require.Less(t, len(compressed), len(data), ct.String())
	}
}

func TestCodecs_CorruptedInput(t *testing.T) {
	garbage := []byte{0x13, 0x37, 0xde, 0xad, 0xbe, 0xef, 0x00, 0x01}

	for _, ct := range []format.CompressionType{format.CompressionZstd, format.CompressionS2} {
		codec, err := GetCodec(ct)
		require.NoError(t, err)

		_, err = codec.Decompress(garbage)
		require.Error(t, err, ct.String())
	}
}

func TestCreateCodec(t *testing.T) {
	for _, ct := range allTypes {
		codec, err := CreateCodec(ct, "stream")
		require.NoError(t, err)
		require.NotNil(t, codec)
	}

	_, err := CreateCodec(format.CompressionType(0x7f), "stream")
	require.ErrorContains(t, err, "invalid stream compression")
}

func TestGetCodec_Unsupported(t *testing.T) {
	_, err := GetCodec(format.CompressionType(0))
	require.ErrorContains(t, err, "unsupported compression type")
}

func TestNoOpCompressor_SharesInput(t *testing.T) {
	data := []byte{1, 2, 3}
	out, err := NewNoOpCompressor().Compress(data)
	require.NoError(t, err)
	require.Same(t, &data[0], &out[0])
}

func TestCompressionStats(t *testing.T) {
	stats := CompressionStats{Algorithm: format.CompressionZstd, OriginalSize: 1000, CompressedSize: 250}
	require.InDelta(t, 0.25, stats.CompressionRatio(), 1e-9)
	require.InDelta(t, 75.0, stats.SpaceSavings(), 1e-9)

	empty := CompressionStats{}
	require.Zero(t, empty.CompressionRatio())
	require.InDelta(t, 100.0, empty.SpaceSavings(), 1e-9)
}
