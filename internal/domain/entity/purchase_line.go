package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseLine es una línea del libro de compras: artículo × cantidad × precio en una moneda y un depósito.
// Las cuatro referencias deben pertenecer a la misma empresa que la línea.
type PurchaseLine struct {
	ID         string
	CompanyID  string
	ItemID     string
	Quantity   decimal.Decimal
	UnitID     string
	UnitPrice  decimal.Decimal
	CurrencyID string
	DepotID    string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Total devuelve cantidad × precio unitario.
func (l *PurchaseLine) Total() decimal.Decimal {
	return l.Quantity.Mul(l.UnitPrice)
}

// PurchaseLineView línea unida con los nombres de sus referencias (listados y exportación).
type PurchaseLineView struct {
	PurchaseLine
	ItemName     string
	UnitName     string
	CurrencyName string
	DepotName    string
}
