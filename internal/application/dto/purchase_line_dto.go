package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreatePurchaseLineRequest entrada para registrar una compra.
// Las cuatro referencias deben pertenecer a la empresa del usuario.
type CreatePurchaseLineRequest struct {
	ItemID     string          `json:"item_id" validate:"required,uuid"`
	Quantity   decimal.Decimal `json:"quantity"`
	UnitID     string          `json:"unit_id" validate:"required,uuid"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	CurrencyID string          `json:"currency_id" validate:"required,uuid"`
	DepotID    string          `json:"depot_id" validate:"required,uuid"`
}

// UpdatePurchaseLineRequest campos opcionales de una línea.
type UpdatePurchaseLineRequest struct {
	ItemID     *string          `json:"item_id" validate:"omitempty,uuid"`
	Quantity   *decimal.Decimal `json:"quantity"`
	UnitID     *string          `json:"unit_id" validate:"omitempty,uuid"`
	UnitPrice  *decimal.Decimal `json:"unit_price"`
	CurrencyID *string          `json:"currency_id" validate:"omitempty,uuid"`
	DepotID    *string          `json:"depot_id" validate:"omitempty,uuid"`
}

// PurchaseLineFilter filtros de query del listado.
type PurchaseLineFilter struct {
	DepotID string `query:"depot_id" validate:"omitempty,uuid"`
}

// PurchaseLineResponse salida de una línea con los nombres de sus referencias.
type PurchaseLineResponse struct {
	ID         string          `json:"id"`
	CompanyID  string          `json:"company_id"`
	ItemID     string          `json:"item_id"`
	Item       string          `json:"item"`
	Quantity   decimal.Decimal `json:"quantity"`
	UnitID     string          `json:"unit_id"`
	Unit       string          `json:"unit"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	CurrencyID string          `json:"currency_id"`
	Currency   string          `json:"currency"`
	DepotID    string          `json:"depot_id"`
	Depot      string          `json:"depot"`
	Total      decimal.Decimal `json:"total"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// PurchaseLineListResponse lista paginada del libro de compras.
type PurchaseLineListResponse struct {
	Items []PurchaseLineResponse `json:"items"`
	Page  PageResponse           `json:"page"`
}
