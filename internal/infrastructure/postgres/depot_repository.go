package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/compras-api/internal/domain"
	"github.com/jhoicas/compras-api/internal/domain/entity"
	"github.com/jhoicas/compras-api/internal/domain/policy"
	"github.com/jhoicas/compras-api/internal/domain/repository"
)

var _ repository.DepotRepository = (*DepotRepo)(nil)

// DepotRepo implementación del puerto DepotRepository sobre PostgreSQL.
type DepotRepo struct {
	db Querier
}

// NewDepotRepository construye el adaptador de persistencia para depósitos.
func NewDepotRepository(db Querier) *DepotRepo {
	return &DepotRepo{db: db}
}

// Create persiste un nuevo depósito.
func (r *DepotRepo) Create(ctx context.Context, depot *entity.Depot) error {
	query := `
		INSERT INTO depots (id, company_id, name, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.Exec(ctx, query,
		depot.ID, depot.CompanyID, depot.Name, depot.CreatedBy,
		depot.CreatedAt, depot.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert depot: %w", err)
	}
	return nil
}

// GetByID obtiene un depósito por ID.
func (r *DepotRepo) GetByID(ctx context.Context, id string) (*entity.Depot, error) {
	query := `
		SELECT id, company_id, name, created_by, created_at, updated_at
		FROM depots WHERE id = $1`
	var d entity.Depot
	err := r.db.QueryRow(ctx, query, id).Scan(
		&d.ID, &d.CompanyID, &d.Name, &d.CreatedBy, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get depot: %w", err)
	}
	return &d, nil
}

// Update actualiza el nombre. created_by es inmutable.
func (r *DepotRepo) Update(ctx context.Context, depot *entity.Depot) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE depots SET name = $2, updated_at = $3 WHERE id = $1`,
		depot.ID, depot.Name, depot.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update depot: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista los depósitos del alcance.
func (r *DepotRepo) List(ctx context.Context, scope policy.Scope, limit, offset int) ([]*entity.Depot, error) {
	query, args, err := psql.Select("id", "company_id", "name", "created_by", "created_at", "updated_at").
		From("depots").
		Where(scopeWhere(scope, "company_id", "")).
		OrderBy("lower(name)", "id").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list depots: %w", err)
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list depots: %w", err)
	}
	defer rows.Close()
	var list []*entity.Depot
	for rows.Next() {
		var d entity.Depot
		if err := rows.Scan(&d.ID, &d.CompanyID, &d.Name, &d.CreatedBy, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan depot: %w", err)
		}
		list = append(list, &d)
	}
	return list, rows.Err()
}
