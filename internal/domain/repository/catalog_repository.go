package repository

import (
	"context"

	"github.com/jhoicas/compras-api/internal/domain/entity"
	"github.com/jhoicas/compras-api/internal/domain/policy"
)

// CatalogRepository persistencia de artículos, unidades y tipos de moneda.
// Cada kind vive en su propia tabla.
type CatalogRepository interface {
	Create(ctx context.Context, entry *entity.CatalogEntry) error
	GetByID(ctx context.Context, kind entity.CatalogKind, id string) (*entity.CatalogEntry, error)
	// FindByName compara sin distinguir mayúsculas dentro de una empresa.
	FindByName(ctx context.Context, kind entity.CatalogKind, companyID, name string) (*entity.CatalogEntry, error)
	Update(ctx context.Context, entry *entity.CatalogEntry) error
	List(ctx context.Context, kind entity.CatalogKind, scope policy.Scope, limit, offset int) ([]*entity.CatalogEntry, error)
}
