package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Company representa una organización/tenant del sistema. Es el límite de aislamiento:
// usuarios, catálogo, depósitos y líneas de compra pertenecen siempre a una Company.
type Company struct {
	ID        string
	Token     string // token externo opaco para el enlace de login; inmutable
	Name      string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewCompanyToken genera un token opaco aleatorio para el enlace de login de la empresa.
func NewCompanyToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
