package domain

import (
	"context"
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrUnauthenticated   = errors.New("no autenticado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrNothingRecognized = errors.New("no se reconoció ninguna línea en la imagen")
)

// Códigos de ValidationError expuestos al cliente.
const (
	CodeValidation           = "VALIDATION"
	CodeInvalidCompanyLink   = "INVALID_COMPANY_LINK"
	CodeInvalidCredentials   = "INVALID_CREDENTIALS"
	CodeEmailNotVerified     = "EMAIL_NOT_VERIFIED"
	CodeUserInactive         = "USER_INACTIVE"
	CodeUsernameTaken        = "USERNAME_TAKEN"
	CodeCrossTenantReference = "CROSS_TENANT_REFERENCE"
	CodeDeleteBlocked        = "DELETE_BLOCKED"
	CodeInvalidToken         = "INVALID_VERIFICATION_TOKEN"
)

// ValidationError entrada rechazada con detalle por campo.
// errors.Is(err, ErrInvalidInput) es verdadero para cualquier ValidationError.
type ValidationError struct {
	Field   string
	Code    string
	Message string
}

// NewValidationError construye un ValidationError con el código genérico.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Code: CodeValidation, Message: message}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Is permite errors.Is(err, ErrInvalidInput).
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// ExternalServiceError falla de un colaborador externo (IA, correo), distinta de un error interno.
type ExternalServiceError struct {
	Service string
	Err     error
}

func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("servicio externo %s: %v", e.Service, e.Err)
}

func (e *ExternalServiceError) Unwrap() error { return e.Err }

// Timeout informa si la falla se debe a un deadline vencido.
func (e *ExternalServiceError) Timeout() bool {
	return errors.Is(e.Err, context.DeadlineExceeded)
}

// AsValidation extrae el ValidationError de la cadena, si existe.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
