package postgres

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jhoicas/compras-api/internal/domain/entity"
	"github.com/jhoicas/compras-api/internal/domain/policy"
	"github.com/jhoicas/compras-api/internal/domain/repository"
)

var _ repository.CatalogRepository = (*CatalogRepo)(nil)

// catalogTables tabla de cada tipo de catálogo.
var catalogTables = map[entity.CatalogKind]string{
	entity.KindItem:      "items",
	entity.KindUnit:      "units",
	entity.KindMoneyType: "money_types",
}

func catalogTable(kind entity.CatalogKind) (string, error) {
	t, ok := catalogTables[kind]
	if !ok {
		return "", fmt.Errorf("catalog kind desconocido: %q", kind)
	}
	return t, nil
}

// CatalogRepo artículos, unidades y monedas sobre PostgreSQL.
type CatalogRepo struct {
	db Querier
}

// NewCatalogRepository construye el adaptador de persistencia del catálogo.
func NewCatalogRepository(db Querier) *CatalogRepo {
	return &CatalogRepo{db: db}
}

// Create persiste una entrada en la tabla de su tipo.
func (r *CatalogRepo) Create(ctx context.Context, e *entity.CatalogEntry) error {
	table, err := catalogTable(e.Kind)
	if err != nil {
		return err
	}
	query := `INSERT INTO ` + table + ` (id, company_id, name, created_at, updated_at) VALUES ($1, $2, $3, $4, $5)`
	if _, err := r.db.Exec(ctx, query, e.ID, e.CompanyID, e.Name, e.CreatedAt, e.UpdatedAt); err != nil {
		return fmt.Errorf("insert %s: %w", table, err)
	}
	return nil
}

// GetByID obtiene una entrada por ID.
func (r *CatalogRepo) GetByID(ctx context.Context, kind entity.CatalogKind, id string) (*entity.CatalogEntry, error) {
	return r.getOne(ctx, kind, sq.Eq{"id": id})
}

// FindByName busca por nombre sin distinguir mayúsculas. Con duplicados devuelve el más antiguo.
func (r *CatalogRepo) FindByName(ctx context.Context, kind entity.CatalogKind, companyID, name string) (*entity.CatalogEntry, error) {
	return r.getOne(ctx, kind, sq.And{
		sq.Eq{"company_id": companyID},
		sq.Expr("lower(name) = lower(?)", name),
	})
}

func (r *CatalogRepo) getOne(ctx context.Context, kind entity.CatalogKind, where sq.Sqlizer) (*entity.CatalogEntry, error) {
	table, err := catalogTable(kind)
	if err != nil {
		return nil, err
	}
	query, args, err := psql.Select("id", "company_id", "name", "created_at", "updated_at").
		From(table).
		Where(where).
		OrderBy("created_at", "id").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get %s: %w", table, err)
	}
	e := entity.CatalogEntry{Kind: kind}
	err = r.db.QueryRow(ctx, query, args...).Scan(&e.ID, &e.CompanyID, &e.Name, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get %s: %w", table, err)
	}
	return &e, nil
}

// Update renombra una entrada. La empresa nunca cambia.
func (r *CatalogRepo) Update(ctx context.Context, e *entity.CatalogEntry) error {
	table, err := catalogTable(e.Kind)
	if err != nil {
		return err
	}
	query := `UPDATE ` + table + ` SET name = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.Exec(ctx, query, e.ID, e.Name, e.UpdatedAt); err != nil {
		return fmt.Errorf("update %s: %w", table, err)
	}
	return nil
}

// List lista las entradas del alcance ordenadas por nombre.
func (r *CatalogRepo) List(ctx context.Context, kind entity.CatalogKind, scope policy.Scope, limit, offset int) ([]*entity.CatalogEntry, error) {
	table, err := catalogTable(kind)
	if err != nil {
		return nil, err
	}
	query, args, err := psql.Select("id", "company_id", "name", "created_at", "updated_at").
		From(table).
		Where(scopeWhere(scope, "company_id", "")).
		OrderBy("lower(name)", "id").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list %s: %w", table, err)
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", table, err)
	}
	defer rows.Close()
	var list []*entity.CatalogEntry
	for rows.Next() {
		e := entity.CatalogEntry{Kind: kind}
		if err := rows.Scan(&e.ID, &e.CompanyID, &e.Name, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}
