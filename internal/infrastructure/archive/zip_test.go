package archive

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"image-optimizer/internal/domain/entities"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResults() []entities.TransformResult {
	return []entities.TransformResult{
		{Identifier: "b.png", Filename: "b.webp", EncodedBytes: bytes.Repeat([]byte("bbbb"), 256)},
		{Identifier: "a.jpg", Filename: "a.webp", EncodedBytes: []byte("RIFF....WEBPVP8 a")},
	}
}

func TestPackEntriesInInputOrder(t *testing.T) {
	data, err := NewZipPackager().Pack(sampleResults())
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	require.Len(t, zr.File, 2)

	assert.Equal(t, "b.webp", zr.File[0].Name)
	assert.Equal(t, "a.webp", zr.File[1].Name)
	assert.Equal(t, zip.Deflate, zr.File[0].Method)

	for i, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		content, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		assert.Equal(t, sampleResults()[i].EncodedBytes, content)
	}
}

func TestPackIsReproducible(t *testing.T) {
	p := NewZipPackager()

	first, err := p.Pack(sampleResults())
	require.NoError(t, err)
	second, err := p.Pack(sampleResults())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestPackCompresses(t *testing.T) {
	data, err := NewZipPackager().Pack(sampleResults()[:1])
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	assert.Less(t, zr.File[0].CompressedSize64, zr.File[0].UncompressedSize64)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("sink closed")
}

func TestWritePropagatesSinkErrors(t *testing.T) {
	err := NewZipPackager().Write(failingWriter{}, sampleResults())
	assert.Error(t, err)
}
