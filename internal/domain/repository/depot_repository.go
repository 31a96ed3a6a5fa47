package repository

import (
	"context"

	"github.com/jhoicas/compras-api/internal/domain/entity"
	"github.com/jhoicas/compras-api/internal/domain/policy"
)

// DepotRepository define el puerto de persistencia para Depot (DIP).
type DepotRepository interface {
	Create(ctx context.Context, depot *entity.Depot) error
	GetByID(ctx context.Context, id string) (*entity.Depot, error)
	Update(ctx context.Context, depot *entity.Depot) error
	List(ctx context.Context, scope policy.Scope, limit, offset int) ([]*entity.Depot, error)
}
