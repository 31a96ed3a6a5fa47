package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/compras-api/internal/application/dto"
	"github.com/jhoicas/compras-api/internal/domain"
	"github.com/jhoicas/compras-api/pkg/logger"
)

// Códigos de error HTTP que no vienen de un ValidationError.
const (
	CodeUnauthenticated   = "UNAUTHENTICATED"
	CodeMissingToken      = "MISSING_TOKEN"
	CodeInvalidToken      = "INVALID_TOKEN"
	CodeForbidden         = "FORBIDDEN"
	CodeNotFound          = "NOT_FOUND"
	CodeConflict          = "CONFLICT"
	CodeNothingRecognized = "NOTHING_RECOGNIZED"
	CodeExternalService   = "EXTERNAL_SERVICE"
	CodeInternal          = "INTERNAL"
	CodeInvalidBody       = "INVALID_BODY"
)

// errorResponse traduce un error de dominio a status y cuerpo.
// Los errores no reconocidos son 500 con mensaje genérico.
func errorResponse(err error) (int, dto.ErrorResponse) {
	if ve, ok := domain.AsValidation(err); ok {
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: ve.Code, Message: ve.Message, Field: ve.Field}
	}
	var ext *domain.ExternalServiceError
	if errors.As(err, &ext) {
		if ext.Timeout() {
			return fiber.StatusGatewayTimeout, dto.ErrorResponse{Code: CodeExternalService, Message: "el servicio " + ext.Service + " no respondió a tiempo"}
		}
		return fiber.StatusBadGateway, dto.ErrorResponse{Code: CodeExternalService, Message: "el servicio " + ext.Service + " falló"}
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code, dto.ErrorResponse{Code: fiberCode(fe.Code), Message: fe.Message}
	}
	switch {
	case errors.Is(err, domain.ErrUnauthenticated):
		return fiber.StatusUnauthorized, dto.ErrorResponse{Code: CodeUnauthenticated, Message: "autenticación requerida"}
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, dto.ErrorResponse{Code: CodeForbidden, Message: "acceso denegado"}
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, dto.ErrorResponse{Code: CodeNotFound, Message: "recurso no encontrado"}
	case errors.Is(err, domain.ErrConflict):
		return fiber.StatusConflict, dto.ErrorResponse{Code: CodeConflict, Message: err.Error()}
	case errors.Is(err, domain.ErrNothingRecognized):
		return fiber.StatusUnprocessableEntity, dto.ErrorResponse{Code: CodeNothingRecognized, Message: err.Error()}
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: domain.CodeValidation, Message: err.Error()}
	}
	return fiber.StatusInternalServerError, dto.ErrorResponse{Code: CodeInternal, Message: "error interno"}
}

func fiberCode(status int) string {
	switch status {
	case fiber.StatusNotFound:
		return CodeNotFound
	case fiber.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case fiber.StatusRequestEntityTooLarge:
		return "PAYLOAD_TOO_LARGE"
	case fiber.StatusUnauthorized:
		return CodeUnauthenticated
	case fiber.StatusForbidden:
		return CodeForbidden
	}
	if status >= fiber.StatusInternalServerError {
		return CodeInternal
	}
	return "HTTP_ERROR"
}

// ErrorHandler es el fiber.ErrorHandler de la API: los handlers devuelven errores de dominio
// y aquí se traducen. Los 500 se registran con el error original.
func ErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	if log == nil {
		log = logger.Nop()
	}
	return func(c *fiber.Ctx, err error) error {
		status, body := errorResponse(err)
		if status >= fiber.StatusInternalServerError {
			log.Error().Err(err).
				Str("method", c.Method()).
				Str("path", c.Path()).
				Int("status", status).
				Msg("error no controlado")
		}
		return c.Status(status).JSON(body)
	}
}
