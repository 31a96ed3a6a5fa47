// Package ledger agrega montos del libro de compras por moneda y depósito.
//
// Las funciones son puras: reciben las sumas parciales ya filtradas por alcance
// (PurchaseLineRepository.Sums) y nunca fallan. Un alcance vacío produce total 0 y mapas vacíos.
package ledger

import "github.com/shopspring/decimal"

// Sum suma parcial de cantidad × precio para un par (depósito, moneda).
type Sum struct {
	DepotID    string
	CurrencyID string
	Amount     decimal.Decimal
}

// LineTotal cantidad × precio unitario.
func LineTotal(quantity, unitPrice decimal.Decimal) decimal.Decimal {
	return quantity.Mul(unitPrice)
}

// Total suma todas las filas sin distinguir moneda.
func Total(sums []Sum) decimal.Decimal {
	total := decimal.Zero
	for _, s := range sums {
		total = total.Add(s.Amount)
	}
	return total
}

// ByCurrency total por moneda. Las monedas sin líneas no aparecen.
func ByCurrency(sums []Sum) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal)
	for _, s := range sums {
		out[s.CurrencyID] = out[s.CurrencyID].Add(s.Amount)
	}
	return out
}

// ByDepotAndCurrency total por depósito y moneda.
func ByDepotAndCurrency(sums []Sum) map[string]map[string]decimal.Decimal {
	out := make(map[string]map[string]decimal.Decimal)
	for _, s := range sums {
		m, ok := out[s.DepotID]
		if !ok {
			m = make(map[string]decimal.Decimal)
			out[s.DepotID] = m
		}
		m[s.CurrencyID] = m[s.CurrencyID].Add(s.Amount)
	}
	return out
}

// FromLines calcula las sumas en memoria a partir de líneas sueltas (tests y exportación).
func FromLines(lines []LineAmount) []Sum {
	idx := make(map[[2]string]int)
	var out []Sum
	for _, l := range lines {
		key := [2]string{l.DepotID, l.CurrencyID}
		amount := LineTotal(l.Quantity, l.UnitPrice)
		if i, ok := idx[key]; ok {
			out[i].Amount = out[i].Amount.Add(amount)
			continue
		}
		idx[key] = len(out)
		out = append(out, Sum{DepotID: l.DepotID, CurrencyID: l.CurrencyID, Amount: amount})
	}
	return out
}

// LineAmount datos mínimos de una línea para agregarla.
type LineAmount struct {
	DepotID    string
	CurrencyID string
	Quantity   decimal.Decimal
	UnitPrice  decimal.Decimal
}
