package errors

import (
	stderrors "errors"

	"image-optimizer/pkg/errors/i18n"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type ErrorResponse struct {
	Error    string        `json:"error"`
	Message  string        `json:"message"`
	Failures []ItemFailure `json:"failures,omitempty"`
}

// StatusFor maps an error code to the HTTP status returned to the client.
func StatusFor(code string) int {
	switch code {
	case CodeNoItems, CodeTooManyItems, CodeInvalidRequest:
		return fiber.StatusBadRequest
	case CodeCancelled:
		return fiber.StatusRequestTimeout
	default:
		return fiber.StatusInternalServerError
	}
}

func HandleError(c *fiber.Ctx, log *zap.Logger, err error) error {
	if err == nil {
		return nil
	}

	var ae *AppError
	if stderrors.As(err, &ae) {
		status := StatusFor(ae.Code)
		if status >= fiber.StatusInternalServerError {
			log.Error("request failed", zap.String("code", ae.Code), zap.Error(err), zap.Int("failures", len(ae.Failures)))
		} else {
			log.Warn("request rejected", zap.String("code", ae.Code), zap.Error(err))
		}

		// Client gets code, localized message and per-item causes only
		return c.Status(status).JSON(ErrorResponse{
			Error:    ae.Code,
			Message:  i18n.T(ae.Code, ae.Message),
			Failures: ae.Failures,
		})
	}

	log.Error("unexpected error", zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
		Error:   CodeInternal,
		Message: i18n.T(CodeInternal, "internal server error"),
	})
}
