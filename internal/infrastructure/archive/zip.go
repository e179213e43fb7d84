package archive

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"image-optimizer/internal/domain/entities"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zip"
)

// entryTime is stamped on every entry so identical inputs give identical archives.
var entryTime = time.Date(1980, time.January, 1, 0, 0, 0, 0, time.UTC)

// ZipPackager bundles transform results into a maximally compressed zip archive.
type ZipPackager struct{}

func NewZipPackager() *ZipPackager {
	return &ZipPackager{}
}

// Pack buffers the whole archive in memory.
func (p *ZipPackager) Pack(results []entities.TransformResult) ([]byte, error) {
	var buf bytes.Buffer
	if err := p.Write(&buf, results); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write streams the archive to w, one entry per result in input order.
func (p *ZipPackager) Write(w io.Writer, results []entities.TransformResult) error {
	zw := zip.NewWriter(w)
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, flate.BestCompression)
	})

	for _, res := range results {
		header := &zip.FileHeader{
			Name:     res.Filename,
			Method:   zip.Deflate,
			Modified: entryTime,
		}
		entry, err := zw.CreateHeader(header)
		if err != nil {
			return fmt.Errorf("create zip entry %s: %w", res.Filename, err)
		}
		if _, err := entry.Write(res.EncodedBytes); err != nil {
			return fmt.Errorf("write zip entry %s: %w", res.Filename, err)
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("finalize zip: %w", err)
	}
	return nil
}
