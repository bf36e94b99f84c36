package snapshot

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZstdCompression_Roundtrip(t *testing.T) {
	c, err := NewZstdCompressor()
	require.NoError(t, err)
	defer c.Close()

	original := []byte(`{"devices":{"dev1":{"name":"Kitchen"}}}`)
	compressed, err := c.Compress(original)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(compressed, zstdMagic))

	decompressed, err := c.Decompress(compressed)
	require.NoError(t, err)
	assert.Equal(t, original, decompressed)
}

func TestZstdCompression_PlainPassthrough(t *testing.T) {
	c, err := NewZstdCompressor()
	require.NoError(t, err)
	defer c.Close()

	plain := []byte(`{"users":{}}`)
	out, err := c.Decompress(plain)
	require.NoError(t, err)
	assert.Equal(t, plain, out)
}

func TestZstdCompression_LargeData(t *testing.T) {
	c, err := NewZstdCompressor()
	require.NoError(t, err)
	defer c.Close()

	original := bytes.Repeat([]byte("abcdefghij"), 100_000) // 1MB
	compressed, err := c.Compress(original)
	require.NoError(t, err)
	assert.Less(t, len(compressed), len(original)/2)

	decompressed, err := c.Decompress(compressed)
	require.NoError(t, err)
	assert.Equal(t, original, decompressed)
}

func TestZstdCompression_CorruptFrame(t *testing.T) {
	c, err := NewZstdCompressor()
	require.NoError(t, err)
	defer c.Close()

	corrupt := append(append([]byte{}, zstdMagic...), 0xff, 0xff, 0xff)
	_, err = c.Decompress(corrupt)
	assert.Error(t, err)
}
