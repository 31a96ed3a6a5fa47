package repository

import (
	"context"

	"github.com/jhoicas/compras-api/internal/domain/entity"
	"github.com/jhoicas/compras-api/internal/domain/policy"
)

// UserRepository define el puerto de persistencia para User (DIP).
// Create y Update devuelven domain.ErrConflict si (empresa, username) ya existe.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	// GetByUsername busca dentro de una empresa; companyID "" busca cuentas sin empresa.
	GetByUsername(ctx context.Context, companyID, username string) (*entity.User, error)
	// GetByEmail devuelve la cuenta más antigua con ese email (seed del superadmin).
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByVerificationToken(ctx context.Context, token string) (*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
	List(ctx context.Context, scope policy.Scope, limit, offset int) ([]*entity.User, error)
	// UsernameTaken ignora el usuario excludeID (el que se está editando).
	UsernameTaken(ctx context.Context, companyID, username, excludeID string) (bool, error)
}
