package postgres

import (
	"context"
	"errors"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jhoicas/compras-api/internal/domain"
	"github.com/jhoicas/compras-api/internal/domain/policy"
)

// Querier lo cumplen *pgxpool.Pool y pgx.Tx: los repositorios funcionan igual dentro o fuera de una transacción.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// psql constructor de sentencias con placeholders $n.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// scopeWhere traduce un policy.Scope al predicado SQL que usan todos los listados.
// companyCol es la columna de empresa; userCol la de usuario (solo para ScopeSelf).
func scopeWhere(scope policy.Scope, companyCol, userCol string) sq.Sqlizer {
	switch scope.Kind {
	case policy.ScopeAll:
		return sq.Expr("TRUE")
	case policy.ScopeCompany:
		return sq.Eq{companyCol: scope.CompanyID}
	case policy.ScopeSelf:
		if userCol == "" {
			return sq.Expr("FALSE")
		}
		return sq.Eq{userCol: scope.UserID}
	default:
		return sq.Expr("FALSE")
	}
}

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// foreignKeyViolation devuelve el constraint violado si err es un 23503.
func foreignKeyViolation(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23503" {
		return pgErr.ConstraintName, true
	}
	return "", false
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// lineConstraintFields campo del request asociado a cada FK compuesta de purchase_lines.
var lineConstraintFields = map[string]string{
	"purchase_lines_item_fk":     "item_id",
	"purchase_lines_unit_fk":     "unit_id",
	"purchase_lines_currency_fk": "currency_id",
	"purchase_lines_depot_fk":    "depot_id",
}

// translateLineWriteError convierte la violación de una FK compuesta en un error de validación por campo.
func translateLineWriteError(err error) error {
	constraint, ok := foreignKeyViolation(err)
	if !ok {
		return err
	}
	field, known := lineConstraintFields[constraint]
	if !known {
		field = "company_id"
	}
	return &domain.ValidationError{
		Field:   field,
		Code:    domain.CodeCrossTenantReference,
		Message: "la referencia no existe en tu empresa",
	}
}
