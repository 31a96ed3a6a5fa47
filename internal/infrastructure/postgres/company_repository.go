package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/compras-api/internal/domain"
	"github.com/jhoicas/compras-api/internal/domain/entity"
	"github.com/jhoicas/compras-api/internal/domain/policy"
	"github.com/jhoicas/compras-api/internal/domain/repository"
)

// Asegura que CompanyRepo implementa repository.CompanyRepository.
var _ repository.CompanyRepository = (*CompanyRepo)(nil)

const companyColumns = "id, token, name, is_active, created_at, updated_at"

// CompanyRepo implementación del puerto CompanyRepository sobre PostgreSQL.
type CompanyRepo struct {
	db Querier
}

// NewCompanyRepository construye el adaptador de persistencia para empresas.
func NewCompanyRepository(db Querier) *CompanyRepo {
	return &CompanyRepo{db: db}
}

// Create persiste una nueva empresa.
func (r *CompanyRepo) Create(ctx context.Context, company *entity.Company) error {
	query := `
		INSERT INTO companies (id, token, name, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.Exec(ctx, query,
		company.ID, company.Token, company.Name, company.IsActive,
		company.CreatedAt, company.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("insert company: %w", err)
	}
	return nil
}

// GetByID obtiene una empresa por ID.
func (r *CompanyRepo) GetByID(ctx context.Context, id string) (*entity.Company, error) {
	return r.getOne(ctx, "id", id)
}

// GetByToken obtiene una empresa por el token de su enlace de login.
func (r *CompanyRepo) GetByToken(ctx context.Context, token string) (*entity.Company, error) {
	return r.getOne(ctx, "token", token)
}

func (r *CompanyRepo) getOne(ctx context.Context, column, value string) (*entity.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE ` + column + ` = $1`
	var c entity.Company
	err := r.db.QueryRow(ctx, query, value).Scan(
		&c.ID, &c.Token, &c.Name, &c.IsActive, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get company by %s: %w", column, err)
	}
	return &c, nil
}

// Update actualiza nombre y estado. El token es inmutable.
func (r *CompanyRepo) Update(ctx context.Context, company *entity.Company) error {
	query := `UPDATE companies SET name = $2, is_active = $3, updated_at = $4 WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, company.ID, company.Name, company.IsActive, company.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update company: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista empresas del alcance con paginación.
func (r *CompanyRepo) List(ctx context.Context, scope policy.Scope, limit, offset int) ([]*entity.Company, error) {
	query, args, err := psql.Select(companyColumns).
		From("companies").
		Where(scopeWhere(scope, "id", "")).
		OrderBy("name", "id").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list companies: %w", err)
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	defer rows.Close()
	var list []*entity.Company
	for rows.Next() {
		var c entity.Company
		if err := rows.Scan(&c.ID, &c.Token, &c.Name, &c.IsActive, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan company: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}
