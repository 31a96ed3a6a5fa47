package postgres

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/compras-api/internal/domain"
	"github.com/jhoicas/compras-api/internal/domain/entity"
	"github.com/jhoicas/compras-api/internal/domain/ledger"
	"github.com/jhoicas/compras-api/internal/domain/policy"
	"github.com/jhoicas/compras-api/internal/domain/repository"
)

var _ repository.PurchaseLineRepository = (*PurchaseLineRepo)(nil)

// PurchaseLineRepo libro de compras sobre PostgreSQL.
type PurchaseLineRepo struct {
	db Querier
}

// NewPurchaseLineRepository construye el adaptador de persistencia del libro de compras.
func NewPurchaseLineRepository(db Querier) *PurchaseLineRepo {
	return &PurchaseLineRepo{db: db}
}

// viewSelect línea unida con los nombres de sus referencias.
func viewSelect() sq.SelectBuilder {
	return psql.Select(
		"pl.id", "pl.company_id", "pl.item_id", "pl.quantity", "pl.unit_id", "pl.unit_price",
		"pl.currency_id", "pl.depot_id", "pl.created_at", "pl.updated_at",
		"i.name", "u.name", "m.name", "d.name",
	).
		From("purchase_lines pl").
		Join("items i ON i.id = pl.item_id").
		Join("units u ON u.id = pl.unit_id").
		Join("money_types m ON m.id = pl.currency_id").
		Join("depots d ON d.id = pl.depot_id")
}

func scanView(row pgx.Row) (*entity.PurchaseLineView, error) {
	var v entity.PurchaseLineView
	err := row.Scan(
		&v.ID, &v.CompanyID, &v.ItemID, &v.Quantity, &v.UnitID, &v.UnitPrice,
		&v.CurrencyID, &v.DepotID, &v.CreatedAt, &v.UpdatedAt,
		&v.ItemName, &v.UnitName, &v.CurrencyName, &v.DepotName,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// filtered aplica alcance y filtros a un select sobre purchase_lines pl.
func filtered(b sq.SelectBuilder, scope policy.Scope, f repository.PurchaseLineFilter) sq.SelectBuilder {
	b = b.Where(scopeWhere(scope, "pl.company_id", ""))
	if f.DepotID != "" {
		b = b.Where(sq.Eq{"pl.depot_id": f.DepotID})
	}
	return b
}

// Create persiste una línea. Una referencia de otra empresa viola una FK compuesta.
func (r *PurchaseLineRepo) Create(ctx context.Context, l *entity.PurchaseLine) error {
	query := `
		INSERT INTO purchase_lines (id, company_id, item_id, quantity, unit_id, unit_price,
			currency_id, depot_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.db.Exec(ctx, query,
		l.ID, l.CompanyID, l.ItemID, l.Quantity, l.UnitID, l.UnitPrice,
		l.CurrencyID, l.DepotID, l.CreatedAt, l.UpdatedAt,
	)
	if err != nil {
		if ve, ok := domain.AsValidation(translateLineWriteError(err)); ok {
			return ve
		}
		return fmt.Errorf("insert purchase line: %w", err)
	}
	return nil
}

// GetByID obtiene una línea con sus nombres.
func (r *PurchaseLineRepo) GetByID(ctx context.Context, id string) (*entity.PurchaseLineView, error) {
	query, args, err := viewSelect().Where(sq.Eq{"pl.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get purchase line: %w", err)
	}
	v, err := scanView(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase line: %w", err)
	}
	return v, nil
}

// Update reemplaza los campos editables de una línea.
func (r *PurchaseLineRepo) Update(ctx context.Context, l *entity.PurchaseLine) error {
	query := `
		UPDATE purchase_lines SET item_id = $2, quantity = $3, unit_id = $4, unit_price = $5,
			currency_id = $6, depot_id = $7, updated_at = $8
		WHERE id = $1`
	tag, err := r.db.Exec(ctx, query,
		l.ID, l.ItemID, l.Quantity, l.UnitID, l.UnitPrice, l.CurrencyID, l.DepotID, l.UpdatedAt,
	)
	if err != nil {
		if ve, ok := domain.AsValidation(translateLineWriteError(err)); ok {
			return ve
		}
		return fmt.Errorf("update purchase line: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina una línea. Borrar una línea inexistente no es error.
func (r *PurchaseLineRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM purchase_lines WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete purchase line: %w", err)
	}
	return nil
}

// List lista las líneas del alcance, más recientes primero.
func (r *PurchaseLineRepo) List(ctx context.Context, scope policy.Scope, f repository.PurchaseLineFilter, limit, offset int) ([]*entity.PurchaseLineView, error) {
	b := filtered(viewSelect(), scope, f).
		OrderBy("pl.created_at DESC", "pl.id").
		Limit(uint64(limit)).
		Offset(uint64(offset))
	return r.queryViews(ctx, b)
}

// ListAll igual que List pero sin paginar.
func (r *PurchaseLineRepo) ListAll(ctx context.Context, scope policy.Scope, f repository.PurchaseLineFilter) ([]*entity.PurchaseLineView, error) {
	return r.queryViews(ctx, filtered(viewSelect(), scope, f).OrderBy("pl.created_at DESC", "pl.id"))
}

func (r *PurchaseLineRepo) queryViews(ctx context.Context, b sq.SelectBuilder) ([]*entity.PurchaseLineView, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list purchase lines: %w", err)
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list purchase lines: %w", err)
	}
	defer rows.Close()
	var list []*entity.PurchaseLineView
	for rows.Next() {
		v, err := scanView(rows)
		if err != nil {
			return nil, fmt.Errorf("scan purchase line: %w", err)
		}
		list = append(list, v)
	}
	return list, rows.Err()
}

// Sums agrega en la base: una fila por (depósito, moneda).
func (r *PurchaseLineRepo) Sums(ctx context.Context, scope policy.Scope, f repository.PurchaseLineFilter) ([]ledger.Sum, error) {
	b := psql.Select("pl.depot_id", "pl.currency_id", "SUM(pl.quantity * pl.unit_price)").
		From("purchase_lines pl").
		GroupBy("pl.depot_id", "pl.currency_id")
	query, args, err := filtered(b, scope, f).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build purchase sums: %w", err)
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("purchase sums: %w", err)
	}
	defer rows.Close()
	var sums []ledger.Sum
	for rows.Next() {
		var s ledger.Sum
		if err := rows.Scan(&s.DepotID, &s.CurrencyID, &s.Amount); err != nil {
			return nil, fmt.Errorf("scan purchase sum: %w", err)
		}
		sums = append(sums, s)
	}
	return sums, rows.Err()
}
