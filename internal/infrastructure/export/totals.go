// Package export genera los documentos descargables del libro de compras (xlsx y pdf).
// Los exportadores reciben filas ya filtradas por alcance y no aplican reglas de acceso.
package export

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/compras-api/internal/application/ports"
	"github.com/jhoicas/compras-api/internal/domain/entity"
	"github.com/jhoicas/compras-api/internal/domain/ledger"
)

// currencyTotal total de una moneda con su nombre visible.
type currencyTotal struct {
	Currency string
	Amount   decimal.Decimal
}

// totalsByCurrency suma las filas por moneda, ordenado por nombre.
func totalsByCurrency(rows []*entity.PurchaseLineView) []currencyTotal {
	names := make(map[string]string, len(rows))
	amounts := make([]ledger.LineAmount, 0, len(rows))
	for _, r := range rows {
		names[r.CurrencyID] = r.CurrencyName
		amounts = append(amounts, ledger.LineAmount{
			DepotID: r.DepotID, CurrencyID: r.CurrencyID, Quantity: r.Quantity, UnitPrice: r.UnitPrice,
		})
	}
	var out []currencyTotal
	for id, amount := range ledger.ByCurrency(ledger.FromLines(amounts)) {
		out = append(out, currencyTotal{Currency: names[id], Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Currency < out[j].Currency })
	return out
}

// All exportadores disponibles indexados por formato.
func All() map[string]ports.LedgerExporter {
	out := make(map[string]ports.LedgerExporter)
	for _, e := range []ports.LedgerExporter{NewXLSXExporter(), NewPDFExporter()} {
		out[e.Extension()] = e
	}
	return out
}
