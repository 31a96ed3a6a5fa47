package repository

import (
	"context"

	"github.com/jhoicas/compras-api/internal/domain/entity"
	"github.com/jhoicas/compras-api/internal/domain/ledger"
	"github.com/jhoicas/compras-api/internal/domain/policy"
)

// PurchaseLineFilter filtros opcionales del listado.
type PurchaseLineFilter struct {
	DepotID string
}

// PurchaseLineRepository define el puerto de persistencia para el libro de compras.
type PurchaseLineRepository interface {
	Create(ctx context.Context, line *entity.PurchaseLine) error
	GetByID(ctx context.Context, id string) (*entity.PurchaseLineView, error)
	Update(ctx context.Context, line *entity.PurchaseLine) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, scope policy.Scope, f PurchaseLineFilter, limit, offset int) ([]*entity.PurchaseLineView, error)
	// ListAll sin paginar, para exportación.
	ListAll(ctx context.Context, scope policy.Scope, f PurchaseLineFilter) ([]*entity.PurchaseLineView, error)
	// Sums agrega cantidad × precio por (depósito, moneda) dentro del alcance.
	Sums(ctx context.Context, scope policy.Scope, f PurchaseLineFilter) ([]ledger.Sum, error)
}
