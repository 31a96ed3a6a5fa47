package export

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/compras-api/internal/application/ports"
	"github.com/jhoicas/compras-api/internal/domain/entity"
)

var _ ports.LedgerExporter = (*XLSXExporter)(nil)

const sheetName = "Compras"

var xlsxHeaders = []any{"ID", "Artículo", "Cantidad", "Unidad", "Precio unitario", "Total línea", "Moneda", "Depósito", "Creado"}

// XLSXExporter hoja de cálculo con una fila por línea y los totales por moneda al pie.
type XLSXExporter struct{}

// NewXLSXExporter construye el exportador.
func NewXLSXExporter() *XLSXExporter { return &XLSXExporter{} }

// ContentType tipo MIME del documento.
func (XLSXExporter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Extension extensión y nombre del formato.
func (XLSXExporter) Extension() string { return "xlsx" }

// Export escribe el libro y devuelve sus bytes.
func (XLSXExporter) Export(_ context.Context, title string, rows []*entity.PurchaseLineView) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("xlsx: hoja: %w", err)
	}
	_ = f.SetDocProps(&excelize.DocProperties{Title: title, Creator: "compras-api"})

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("xlsx: estilo: %w", err)
	}
	money, err := f.NewStyle(&excelize.Style{CustomNumFmt: strPtr("#,##0.00")})
	if err != nil {
		return nil, fmt.Errorf("xlsx: estilo: %w", err)
	}

	if err := f.SetSheetRow(sheetName, "A1", &xlsxHeaders); err != nil {
		return nil, fmt.Errorf("xlsx: cabecera: %w", err)
	}
	_ = f.SetCellStyle(sheetName, "A1", "I1", bold)

	for i, r := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		values := []any{
			r.ID,
			r.ItemName,
			r.Quantity.InexactFloat64(),
			r.UnitName,
			r.UnitPrice.InexactFloat64(),
			r.Total().InexactFloat64(),
			r.CurrencyName,
			r.DepotName,
			r.CreatedAt.Format("2006-01-02 15:04"),
		}
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return nil, fmt.Errorf("xlsx: fila %d: %w", i+1, err)
		}
	}
	if len(rows) > 0 {
		_ = f.SetCellStyle(sheetName, "E2", fmt.Sprintf("F%d", len(rows)+1), money)
	}

	// Totales por moneda, separados por una fila en blanco.
	next := len(rows) + 3
	for _, t := range totalsByCurrency(rows) {
		label, _ := excelize.CoordinatesToCellName(5, next)
		values := []any{"Total " + t.Currency, t.Amount.InexactFloat64(), t.Currency}
		if err := f.SetSheetRow(sheetName, label, &values); err != nil {
			return nil, fmt.Errorf("xlsx: totales: %w", err)
		}
		_ = f.SetCellStyle(sheetName, label, label, bold)
		amountCell, _ := excelize.CoordinatesToCellName(6, next)
		_ = f.SetCellStyle(sheetName, amountCell, amountCell, money)
		next++
	}
	_ = f.SetColWidth(sheetName, "A", "A", 38)
	_ = f.SetColWidth(sheetName, "B", "B", 30)
	_ = f.SetColWidth(sheetName, "C", "I", 14)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx: escribir: %w", err)
	}
	return buf.Bytes(), nil
}

func strPtr(s string) *string { return &s }
