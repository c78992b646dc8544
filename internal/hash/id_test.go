package hash

import (
	"testing"

	"github.com/cespare/xxhash/v2"
	"github.com/stretchr/testify/assert"
)

func TestSum64(t *testing.T) {
	tests := []struct {
		name string
		data string
		id   uint64
	}{
		{"empty string", "", 0xef46db3751d8e999},
		{"short string", "test", 0x4fdcca5ddb678139},
		{"long string", "this is a longer test string to hash", 0x69275f7f7ee59dbd},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.id, Sum64([]byte(tt.data)))
		})
	}
}

func TestDigest(t *testing.T) {
	t.Run("matches little endian bytes", func(t *testing.T) {
		d := New()
		d.Uint64(0x0102030405060708)
		want := xxhash.Sum64([]byte{8, 7, 6, 5, 4, 3, 2, 1})
		assert.Equal(t, want, d.Sum64())
	})

	t.Run("order sensitive", func(t *testing.T) {
		a, b := New(), New()
		a.Int(1)
		a.Float64(2.5)
		b.Float64(2.5)
		b.Int(1)
		assert.NotEqual(t, a.Sum64(), b.Sum64())
	})

	t.Run("deterministic", func(t *testing.T) {
		a, b := New(), New()
		a.Float64(-0.5)
		b.Float64(-0.5)
		assert.Equal(t, a.Sum64(), b.Sum64())
	})
}
