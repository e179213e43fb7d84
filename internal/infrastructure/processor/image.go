package processor

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"math"

	"image-optimizer/internal/domain/entities"
	consts "image-optimizer/pkg/constants"
	apperr "image-optimizer/pkg/errors"

	"github.com/disintegration/imaging"
	"github.com/kolesa-team/go-webp/encoder"
	"github.com/kolesa-team/go-webp/webp"
	xwebp "golang.org/x/image/webp" // also registers webp input decoding
)

// MaxDimension is the largest side a lossy WebP frame can have.
const MaxDimension = 16383

// MaxSourcePixels caps the declared size of an input before its bitmap is allocated.
const MaxSourcePixels = 100_000_000

type ImageProcessor struct {
	quality float32
}

func NewImageProcessor(quality int) (*ImageProcessor, error) {
	if quality < 0 || quality > 100 {
		return nil, fmt.Errorf("webp quality must be in [0,100], got %d", quality)
	}
	return &ImageProcessor{quality: float32(quality)}, nil
}

// Transform decodes data, resizes it according to t and re-encodes it as lossy WebP.
// Width and height of the result are read back from the encoded bytes.
func (p *ImageProcessor) Transform(ctx context.Context, data []byte, t entities.EffectiveTransform) (*entities.TransformResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperr.ErrCancelled(err)
	}

	header, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, apperr.ErrDecode(err)
	}
	if int64(header.Width)*int64(header.Height) > MaxSourcePixels {
		return nil, apperr.ErrDecode(fmt.Errorf("source size %dx%d exceeds %d pixels", header.Width, header.Height, MaxSourcePixels))
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, apperr.ErrDecode(err)
	}

	if err := ctx.Err(); err != nil {
		return nil, apperr.ErrCancelled(err)
	}

	bounds := img.Bounds()
	width, height := FitDimensions(bounds.Dx(), bounds.Dy(), t.TargetWidth, t.TargetHeight, t.AllowUpscale)
	if width > MaxDimension || height > MaxDimension {
		return nil, apperr.ErrEncode(fmt.Errorf("target size %dx%d exceeds webp limit %d", width, height, MaxDimension))
	}

	var resized *image.NRGBA
	if width != bounds.Dx() || height != bounds.Dy() {
		resized = imaging.Resize(img, width, height, imaging.Lanczos)
	} else {
		resized = imaging.Clone(img)
	}

	if err := ctx.Err(); err != nil {
		return nil, apperr.ErrCancelled(err)
	}

	options, err := encoder.NewLossyEncoderOptions(encoder.PresetDefault, p.quality)
	if err != nil {
		return nil, apperr.ErrEncode(err)
	}

	var buf bytes.Buffer
	if err := webp.Encode(&buf, resized, options); err != nil {
		return nil, apperr.ErrEncode(err)
	}

	encoded := buf.Bytes()
	cfg, err := xwebp.DecodeConfig(bytes.NewReader(encoded))
	if err != nil {
		return nil, apperr.ErrEncode(fmt.Errorf("re-measure encoded image: %w", err))
	}

	return &entities.TransformResult{
		DirectiveID:  -1,
		EncodedBytes: encoded,
		Width:        cfg.Width,
		Height:       cfg.Height,
		ByteSize:     len(encoded),
		Format:       consts.OutputFormat,
		MimeType:     consts.OutputMimeType,
	}, nil
}

// FitDimensions returns the output size for a srcW x srcH image.
// One target keeps the aspect ratio, two targets fit inside the box.
// Without allowUpscale the source size is never exceeded.
func FitDimensions(srcW, srcH, targetW, targetH int, allowUpscale bool) (int, int) {
	if srcW <= 0 || srcH <= 0 {
		return srcW, srcH
	}

	var scale float64
	switch {
	case targetW > 0 && targetH > 0:
		scale = math.Min(float64(targetW)/float64(srcW), float64(targetH)/float64(srcH))
	case targetW > 0:
		scale = float64(targetW) / float64(srcW)
	case targetH > 0:
		scale = float64(targetH) / float64(srcH)
	default:
		return srcW, srcH
	}

	if scale >= 1 && !allowUpscale {
		return srcW, srcH
	}

	width := scaleSide(srcW, scale, targetW)
	height := scaleSide(srcH, scale, targetH)
	return width, height
}

func scaleSide(src int, scale float64, target int) int {
	v := int(math.Round(float64(src) * scale))
	if target > 0 && v > target {
		v = target
	}
	if v < 1 {
		v = 1
	}
	return v
}
