package entity

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/compras-api/internal/domain"
)

// MaxPasswordBytes límite de bcrypt: lo que exceda no entra en el hash.
const MaxPasswordBytes = 72

// HashPassword genera el hash bcrypt de plain. Una contraseña demasiado larga se informa
// como ValidationError sobre field.
func HashPassword(field, plain string, cost int) (string, error) {
	if len(plain) > MaxPasswordBytes {
		return "", passwordTooLong(field)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", passwordTooLong(field)
	}
	if err != nil {
		return "", fmt.Errorf("hash de contraseña: %w", err)
	}
	return string(hash), nil
}

func passwordTooLong(field string) error {
	return domain.NewValidationError(field, fmt.Sprintf("la contraseña no puede superar %d bytes", MaxPasswordBytes))
}
