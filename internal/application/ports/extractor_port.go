package ports

import (
	"context"

	"github.com/shopspring/decimal"
)

// ExtractedLine línea leída de una factura. Los campos nil no se pudieron leer.
type ExtractedLine struct {
	Item      string
	Quantity  *decimal.Decimal
	Unit      *string
	UnitPrice *decimal.Decimal
	Currency  *string
}

// InvoiceExtractor define el puerto de salida hacia el servicio de visión que lee facturas.
// Cualquier adaptador (Anthropic, Gemini, mock) debe implementar esta interfaz.
// El contexto debe llevar un timeout para evitar bloqueos en llamadas externas.
type InvoiceExtractor interface {
	Extract(ctx context.Context, image []byte, mimeType string) ([]ExtractedLine, error)
}
