package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/compras-api/internal/domain"
	"github.com/jhoicas/compras-api/internal/domain/repository"
)

var _ repository.CascadeRepository = (*TxRunner)(nil)

// TxRunner ejecuta los borrados en cascada dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// lineColumn columna de purchase_lines que apunta a cada raíz.
var lineColumn = map[repository.CascadeTarget]string{
	repository.CascadeItem:      "item_id",
	repository.CascadeUnit:      "unit_id",
	repository.CascadeMoneyType: "currency_id",
	repository.CascadeDepot:     "depot_id",
	repository.CascadeCompany:   "company_id",
}

// companyChildren orden de borrado de las tablas de una empresa.
var companyChildren = []string{"purchase_lines", "depots", "items", "units", "money_types", "users"}

// DeleteCascade cuenta las líneas dependientes y, salvo dryRun, las borra junto con la raíz.
func (r *TxRunner) DeleteCascade(ctx context.Context, target repository.CascadeTarget, id string, dryRun bool) (int64, error) {
	column, ok := lineColumn[target]
	if !ok {
		return 0, fmt.Errorf("cascade target desconocido: %q", target)
	}
	var count int64
	err := r.Run(ctx, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx,
			`SELECT count(*) FROM purchase_lines WHERE `+column+` = $1`, id,
		).Scan(&count); err != nil {
			return fmt.Errorf("count dependent lines: %w", err)
		}
		if dryRun {
			return nil
		}
		if target == repository.CascadeCompany {
			for _, table := range companyChildren {
				if _, err := tx.Exec(ctx, `DELETE FROM `+table+` WHERE company_id = $1`, id); err != nil {
					return deleteError(table, err)
				}
			}
		} else if _, err := tx.Exec(ctx, `DELETE FROM purchase_lines WHERE `+column+` = $1`, id); err != nil {
			return fmt.Errorf("delete dependent lines: %w", err)
		}
		tag, err := tx.Exec(ctx, `DELETE FROM `+string(target)+` WHERE id = $1`, id)
		if err != nil {
			return deleteError(string(target), err)
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

var errUserReferenced = errors.New("user referenced")

// DeleteUser borra el usuario; si una FK lo impide (depósitos creados por él) lo desactiva.
func (r *TxRunner) DeleteUser(ctx context.Context, id string) (bool, error) {
	err := r.Run(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
		if err != nil {
			if _, fk := foreignKeyViolation(err); fk {
				return errUserReferenced
			}
			return fmt.Errorf("delete user: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
	if !errors.Is(err, errUserReferenced) {
		return false, err
	}
	// La transacción abortada ya hizo rollback; la desactivación va aparte.
	tag, err := r.pool.Exec(ctx, `UPDATE users SET is_active = FALSE, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("deactivate user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return false, domain.ErrNotFound
	}
	return true, nil
}

func deleteError(table string, err error) error {
	if _, fk := foreignKeyViolation(err); fk {
		return &domain.ValidationError{
			Code:    domain.CodeDeleteBlocked,
			Message: fmt.Sprintf("otras filas dependen de %s", table),
		}
	}
	return fmt.Errorf("delete %s: %w", table, err)
}
