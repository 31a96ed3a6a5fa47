package dto

import "github.com/shopspring/decimal"

// CurrencyAmount total de una moneda.
type CurrencyAmount struct {
	CurrencyID string          `json:"currency_id"`
	Currency   string          `json:"currency"`
	Amount     decimal.Decimal `json:"amount"`
}

// LedgerTotalResponse total del libro visible para el usuario.
// Total suma todas las monedas sin conversión; ByCurrency es el desglose útil.
type LedgerTotalResponse struct {
	Total      decimal.Decimal  `json:"total"`
	ByCurrency []CurrencyAmount `json:"by_currency"`
}

// DepotTotal total de un depósito.
type DepotTotal struct {
	DepotID    string           `json:"depot_id"`
	Depot      string           `json:"depot"`
	Total      decimal.Decimal  `json:"total"`
	ByCurrency []CurrencyAmount `json:"by_currency"`
}

// LedgerByDepotResponse totales por depósito.
type LedgerByDepotResponse struct {
	Total  decimal.Decimal `json:"total"`
	Depots []DepotTotal    `json:"depots"`
}

// LedgerTotalQuery filtro opcional por depósito.
type LedgerTotalQuery struct {
	DepotID string `query:"depot_id" validate:"omitempty,uuid"`
}

// ExportQuery parámetros de exportación.
type ExportQuery struct {
	DepotID string `query:"depot_id" validate:"omitempty,uuid"`
	Format  string `query:"format" validate:"omitempty,oneof=xlsx pdf"`
}
