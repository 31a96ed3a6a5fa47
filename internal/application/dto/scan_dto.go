package dto

import "github.com/shopspring/decimal"

// ScannedLine línea propuesta a partir de una factura. El cliente la revisa antes de guardarla.
type ScannedLine struct {
	Item        string          `json:"item"`
	Quantity    decimal.Decimal `json:"quantity"`
	Unit        string          `json:"unit"`
	UnitID      string          `json:"unit_id,omitempty"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Currency    string          `json:"currency"`
	CurrencyID  string          `json:"currency_id,omitempty"`
	ItemID      string          `json:"item_id,omitempty"`
	NeedsReview bool            `json:"needs_review"`
}

// ScanResponse resultado del escaneo.
type ScanResponse struct {
	Lines []ScannedLine `json:"lines"`
}
