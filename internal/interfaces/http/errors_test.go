package http

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/compras-api/internal/domain"
)

func TestErrorResponse_Mapeo(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"no autenticado", domain.ErrUnauthenticated, fiber.StatusUnauthorized, CodeUnauthenticated},
		{"prohibido envuelto", fmt.Errorf("depósito: %w", domain.ErrForbidden), fiber.StatusForbidden, CodeForbidden},
		{"no encontrado", domain.ErrNotFound, fiber.StatusNotFound, CodeNotFound},
		{"conflicto", domain.ErrConflict, fiber.StatusConflict, CodeConflict},
		{"nada reconocido", domain.ErrNothingRecognized, fiber.StatusUnprocessableEntity, CodeNothingRecognized},
		{"validación", domain.NewValidationError("name", "vacío"), fiber.StatusBadRequest, domain.CodeValidation},
		{"borrado bloqueado", &domain.ValidationError{Code: domain.CodeDeleteBlocked, Message: "x"}, fiber.StatusBadRequest, domain.CodeDeleteBlocked},
		{"externo", &domain.ExternalServiceError{Service: "gemini", Err: errors.New("500")}, fiber.StatusBadGateway, CodeExternalService},
		{"externo timeout", &domain.ExternalServiceError{Service: "gemini", Err: context.DeadlineExceeded}, fiber.StatusGatewayTimeout, CodeExternalService},
		{"fiber 404", fiber.ErrNotFound, fiber.StatusNotFound, CodeNotFound},
		{"fiber 413", fiber.ErrRequestEntityTooLarge, fiber.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE"},
		{"desconocido", errors.New("boom"), fiber.StatusInternalServerError, CodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := errorResponse(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, body.Code)
		})
	}
}

func TestErrorResponse_CampoDeValidacion(t *testing.T) {
	_, body := errorResponse(fmt.Errorf("crear: %w", domain.NewValidationError("depot_id", "ajeno")))
	assert.Equal(t, "depot_id", body.Field)
	assert.Equal(t, "ajeno", body.Message)
}

func TestErrorResponse_InternoNoFiltraDetalle(t *testing.T) {
	_, body := errorResponse(errors.New("pq: password authentication failed"))
	assert.NotContains(t, body.Message, "password")
}

func TestImageType(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n")
	assert.Equal(t, "image/jpeg", imageType("image/jpeg; charset=binary", nil))
	assert.Equal(t, "image/png", imageType("", png))
	assert.Equal(t, "image/png", imageType("application/octet-stream", png))
	assert.Equal(t, "text/plain; charset=utf-8", imageType("", []byte("hola")))
}
