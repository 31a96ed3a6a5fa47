package entity

import (
	"strings"
	"time"

	"golang.org/x/text/currency"
)

// CatalogKind identifica el tipo de dato de referencia de una empresa.
type CatalogKind string

const (
	KindItem      CatalogKind = "item"
	KindUnit      CatalogKind = "unit"
	KindMoneyType CatalogKind = "money_type"
)

// Valid informa si el tipo es conocido.
func (k CatalogKind) Valid() bool {
	switch k {
	case KindItem, KindUnit, KindMoneyType:
		return true
	}
	return false
}

// CatalogEntry es un artículo, una unidad de medida o un tipo de moneda.
// Los tres comparten forma: nombre + empresa dueña.
type CatalogEntry struct {
	ID        string
	CompanyID string
	Kind      CatalogKind
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NormalizeCatalogName limpia el nombre; para monedas con código ISO 4217 devuelve el código canónico.
func NormalizeCatalogName(kind CatalogKind, name string) string {
	name = strings.TrimSpace(name)
	if kind != KindMoneyType || len(name) != 3 {
		return name
	}
	if unit, err := currency.ParseISO(name); err == nil {
		return unit.String()
	}
	return name
}
