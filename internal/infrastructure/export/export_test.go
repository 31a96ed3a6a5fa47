package export

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/compras-api/internal/domain/entity"
)

func view(item, currencyID, currency, qty, price string) *entity.PurchaseLineView {
	return &entity.PurchaseLineView{
		PurchaseLine: entity.PurchaseLine{
			ID:         item + "-id",
			ItemID:     item,
			Quantity:   decimal.RequireFromString(qty),
			UnitPrice:  decimal.RequireFromString(price),
			CurrencyID: currencyID,
			DepotID:    "d1",
			CreatedAt:  time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		},
		ItemName:     item,
		UnitName:     "pcs",
		CurrencyName: currency,
		DepotName:    "Central",
	}
}

func sampleRows() []*entity.PurchaseLineView {
	return []*entity.PurchaseLineView{
		view("Widget", "c-usd", "USD", "3", "1500.50"),
		view("Gadget", "c-usd", "USD", "2", "999.99"),
		view("Non", "c-uzs", "UZS", "10", "4000"),
	}
}

func TestTotalsByCurrency(t *testing.T) {
	totals := totalsByCurrency(sampleRows())
	require.Len(t, totals, 2)
	assert.Equal(t, "USD", totals[0].Currency)
	assert.Equal(t, "6501.48", totals[0].Amount.StringFixed(2))
	assert.Equal(t, "UZS", totals[1].Currency)
	assert.Equal(t, "40000.00", totals[1].Amount.StringFixed(2))
	assert.Empty(t, totalsByCurrency(nil))
}

func TestXLSXExporter(t *testing.T) {
	data, err := NewXLSXExporter().Export(context.Background(), "Compras - Central", sampleRows())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(rows), 6)
	assert.Equal(t, "ID", rows[0][0])
	assert.Equal(t, "Widget", rows[1][1])
	assert.Equal(t, "Central", rows[1][7])

	total, err := f.GetCellValue(sheetName, "E6")
	require.NoError(t, err)
	assert.Equal(t, "Total USD", total)
}

func TestXLSXExporter_SinFilas(t *testing.T) {
	data, err := NewXLSXExporter().Export(context.Background(), "vacío", nil)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}

func TestPDFExporter(t *testing.T) {
	e := NewPDFExporter()
	e.now = func() time.Time { return time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC) }
	data, err := e.Export(context.Background(), "Compras - Central", sampleRows())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
	assert.Equal(t, "application/pdf", e.ContentType())
}

func TestAll(t *testing.T) {
	all := All()
	assert.Contains(t, all, "xlsx")
	assert.Contains(t, all, "pdf")
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "1,234,567.50", formatMoney("1234567.50"))
	assert.Equal(t, "-1,000.00", formatMoney("-1000.00"))
	assert.Equal(t, "999", formatMoney("999"))
	assert.Equal(t, "2.5", trimZeros("2.500000"))
	assert.Equal(t, "3", trimZeros("3.000000"))
}
