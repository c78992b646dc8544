package pool

import (
	"bytes"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("write failed") }

func TestByteBuffer(t *testing.T) {
	bb := NewByteBuffer(8)
	require.Equal(t, 0, bb.Len())
	require.Equal(t, 8, cap(bb.Bytes()))

	n, err := bb.Write([]byte{1, 2, 3})
	require.NoError(t, err)
	require.Equal(t, 3, n)
	require.NoError(t, bb.WriteByte(0xFF))
	require.Equal(t, []byte{1, 2, 3, 0xFF}, bb.Bytes())

	var out bytes.Buffer
	written, err := bb.WriteTo(&out)
	require.NoError(t, err)
	require.Equal(t, int64(4), written)
	require.Equal(t, []byte{1, 2, 3, 0xFF}, out.Bytes())

	_, err = bb.WriteTo(failingWriter{})
	require.Error(t, err)

	bb.Reset()
	require.Equal(t, 0, bb.Len())
	require.GreaterOrEqual(t, cap(bb.B), 8)
}

func TestByteBufferPool(t *testing.T) {
	t.Run("reset on put", func(t *testing.T) {
		p := NewByteBufferPool(16, 0)
		bb := p.Get()
		_, _ = bb.Write([]byte("data"))
		p.Put(bb)

		again := p.Get()
		require.Equal(t, 0, again.Len())
	})

	t.Run("nil put", func(t *testing.T) {
		p := NewByteBufferPool(16, 0)
		require.NotPanics(t, func() { p.Put(nil) })
	})

	t.Run("oversized buffers dropped", func(t *testing.T) {
		p := NewByteBufferPool(16, 32)
		bb := p.Get()
		_, _ = bb.Write(make([]byte, 64))
		p.Put(bb)

		again := p.Get()
		require.LessOrEqual(t, cap(again.B), 32)
	})

	t.Run("default pools", func(t *testing.T) {
		shard := GetShardBuffer()
		require.GreaterOrEqual(t, cap(shard.B), ShardBufferDefaultSize)
		PutShardBuffer(shard)

		stream := GetStreamBuffer()
		require.GreaterOrEqual(t, cap(stream.B), StreamBufferDefaultSize)
		PutStreamBuffer(stream)
	})

	t.Run("concurrent access", func(t *testing.T) {
		p := NewByteBufferPool(16, 0)
		var wg sync.WaitGroup
		for g := 0; g < 8; g++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := 0; i < 100; i++ {
					bb := p.Get()
					_ = bb.WriteByte(byte(i))
					p.Put(bb)
				}
			}()
		}
		wg.Wait()
	})
}
