package presenter

import (
	"bytes"
	"fmt"
	"strconv"

	"image-optimizer/internal/domain/entities"
	"image-optimizer/internal/domain/mapper"
	consts "image-optimizer/pkg/constants"

	"github.com/gofiber/fiber/v2"
)

// HeaderFailedImages carries the number of dropped items in binary mode.
const HeaderFailedImages = "X-Failed-Images"

// Encoder writes a batch outcome to the response. One mode is active per deployment.
type Encoder interface {
	Mode() string
	Encode(c *fiber.Ctx, outcome *entities.BatchOutcome) error
}

func NewEncoder(mode, archiveName string) (Encoder, error) {
	if archiveName == "" {
		archiveName = consts.ArchiveName
	}
	switch mode {
	case consts.ResponseModeJSON:
		return &JSONEncoder{archiveName: archiveName}, nil
	case consts.ResponseModeBinary:
		return &BinaryEncoder{archiveName: archiveName}, nil
	default:
		return nil, fmt.Errorf("unknown response mode %q", mode)
	}
}

// BinaryEncoder sends the artifact itself: the WebP image or the zip archive.
type BinaryEncoder struct {
	archiveName string
}

func (e *BinaryEncoder) Mode() string { return consts.ResponseModeBinary }

func (e *BinaryEncoder) Encode(c *fiber.Ctx, outcome *entities.BatchOutcome) error {
	c.Set(HeaderFailedImages, strconv.Itoa(len(outcome.Failures)))

	if single, ok := outcome.Single(); ok {
		c.Set(fiber.HeaderContentType, single.MimeType)
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("inline; filename=%q", single.Filename))
		return c.Status(fiber.StatusOK).Send(single.EncodedBytes)
	}

	c.Set(fiber.HeaderContentType, consts.ArchiveMimeType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", e.archiveName))
	return c.Status(fiber.StatusOK).SendStream(bytes.NewReader(outcome.Archive), len(outcome.Archive))
}

// JSONEncoder embeds every payload as a base64 data URI.
type JSONEncoder struct {
	archiveName string
}

func (e *JSONEncoder) Mode() string { return consts.ResponseModeJSON }

func (e *JSONEncoder) Encode(c *fiber.Ctx, outcome *entities.BatchOutcome) error {
	return c.Status(fiber.StatusOK).JSON(mapper.OutcomeToResponse(outcome, e.archiveName))
}
