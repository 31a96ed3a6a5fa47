package repository

import (
	"context"

	"github.com/jhoicas/compras-api/internal/domain/entity"
)

// CascadeTarget tabla raíz de un borrado en cascada.
type CascadeTarget string

const (
	CascadeItem      CascadeTarget = "items"
	CascadeUnit      CascadeTarget = "units"
	CascadeMoneyType CascadeTarget = "money_types"
	CascadeDepot     CascadeTarget = "depots"
	CascadeCompany   CascadeTarget = "companies"
)

// CascadeRepository borra una fila junto con las líneas de compra que dependen de ella, en una sola transacción.
type CascadeRepository interface {
	// DeleteCascade devuelve cuántas líneas de compra se borraron (o se borrarían si dryRun).
	DeleteCascade(ctx context.Context, target CascadeTarget, id string, dryRun bool) (int64, error)
	// DeleteUser borra el usuario; si tiene depósitos creados lo desactiva y devuelve deactivated=true.
	DeleteUser(ctx context.Context, id string) (deactivated bool, err error)
}

// CascadeTargetForKind tabla de un tipo de catálogo.
func CascadeTargetForKind(kind entity.CatalogKind) CascadeTarget {
	switch kind {
	case entity.KindItem:
		return CascadeItem
	case entity.KindUnit:
		return CascadeUnit
	default:
		return CascadeMoneyType
	}
}
