package handlers

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"time"

	"image-optimizer/internal/delivery/http/presenter"
	"image-optimizer/internal/domain/entities"
	"image-optimizer/internal/domain/mapper"
	"image-optimizer/internal/usecases"
	apperr "image-optimizer/pkg/errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	FieldFiles    = "files"
	FieldMetadata = "metadata"
)

type OptimizeHandler struct {
	service usecases.OptimizeService
	encoder presenter.Encoder
	timeout time.Duration
	log     *zap.Logger
}

func NewOptimizeHandler(service usecases.OptimizeService, encoder presenter.Encoder, timeout time.Duration, log *zap.Logger) *OptimizeHandler {
	return &OptimizeHandler{
		service: service,
		encoder: encoder,
		timeout: timeout,
		log:     log,
	}
}

// Optimize
//
// @Summary      Optimize Images
// @Description  Resizes every uploaded image, converts it to WebP (quality 80) and returns the result.
// @Description  Depending on the deployment the body is either JSON with base64 data URIs or the
// @Description  WebP image / zip archive itself.
// @Tags         Optimize
// @Accept       multipart/form-data
// @Produce      json
// @Produce      image/webp
// @Produce      application/zip
// @Param        files     formData  file   true  "Images to optimize (repeatable)"
// @Param        metadata  formData  string false "JSON array of resize directives"
// @Success      200       {object}  dto.OptimizeResponse
// @Failure      400       {object}  errors.ErrorResponse "No files or invalid request"
// @Failure      500       {object}  errors.ErrorResponse "Every image failed or archive failed"
// @Router       /api/optimize [post]
func (h *OptimizeHandler) Optimize(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return apperr.HandleError(c, h.log, apperr.ErrInvalidRequest(err))
	}

	items, err := readItems(form.File[FieldFiles])
	if err != nil {
		return apperr.HandleError(c, h.log, apperr.ErrInvalidRequest(err))
	}

	directives := h.readDirectives(form)

	ctx := c.UserContext()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	outcome, err := h.service.Optimize(ctx, items, directives)
	if err != nil {
		return apperr.HandleError(c, h.log, err)
	}

	return h.encoder.Encode(c, outcome)
}

// readDirectives accepts the metadata as a plain field or as a JSON file part.
// Missing or malformed metadata degrades to an empty list so every image gets
// the default transform.
func (h *OptimizeHandler) readDirectives(form *multipart.Form) []entities.ResizeDirective {
	raw, err := metadataBytes(form)
	if err != nil {
		h.log.Warn("metadata unreadable, using default transform", zap.Error(err))
		return nil
	}
	if raw == nil {
		return nil
	}

	directives, err := mapper.ParseDirectives(raw)
	if err != nil {
		h.log.Warn("metadata malformed, using default transform", zap.Error(err))
		return nil
	}
	return directives
}

func metadataBytes(form *multipart.Form) ([]byte, error) {
	if values := form.Value[FieldMetadata]; len(values) > 0 {
		return []byte(values[0]), nil
	}
	if parts := form.File[FieldMetadata]; len(parts) > 0 {
		return readPart(parts[0])
	}
	return nil, nil
}

func readItems(headers []*multipart.FileHeader) ([]entities.UploadedItem, error) {
	items := make([]entities.UploadedItem, 0, len(headers))
	for _, fh := range headers {
		data, err := readPart(fh)
		if err != nil {
			return nil, err
		}
		items = append(items, entities.UploadedItem{
			Identifier:   fh.Filename,
			Bytes:        data,
			DeclaredName: fh.Filename,
		})
	}
	return items, nil
}

func readPart(fh *multipart.FileHeader) ([]byte, error) {
	file, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open part %s: %w", fh.Filename, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read part %s: %w", fh.Filename, err)
	}
	return data, nil
}
