package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/hospedagem-api/internal/application/dto"
	"github.com/jhoicas/hospedagem-api/internal/domain"
)

// statusFor traduce la clase de error de dominio a código HTTP.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrInvariant):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrIllegalTransition),
		errors.Is(err, domain.ErrIllegalEdit),
		errors.Is(err, domain.ErrConflict):
		return fiber.StatusConflict
	case errors.Is(err, domain.ErrTimeout):
		return fiber.StatusGatewayTimeout
	case errors.Is(err, domain.ErrUnavailable):
		return fiber.StatusNotImplemented
	default:
		return fiber.StatusInternalServerError
	}
}

// writeError responde {code, message, details}. Las fallas internas se registran y no exponen el detalle.
func writeError(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	if de, ok := domain.AsError(err); ok && status != fiber.StatusInternalServerError {
		return c.Status(status).JSON(dto.ErrorResponse{Code: de.Code, Message: de.Message, Details: de.Details})
	}
	log.Error().Err(err).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Msg("error interno procesando la petición")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Code:    domain.CodeStoreFailure,
		Message: "error interno",
	})
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}
