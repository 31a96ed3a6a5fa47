package export

import (
	"context"
	"fmt"
	"strings"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/compras-api/internal/application/ports"
	"github.com/jhoicas/compras-api/internal/domain/entity"
)

var _ ports.LedgerExporter = (*PDFExporter)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorHeader  = &props.Color{Red: 225, Green: 233, Blue: 242}
)

// PDFExporter listado del libro de compras en A4 apaisado.
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  TÍTULO (depósito)                      Fecha de emisión    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Artículo | Cant | Unidad | P.Unit | Total | Moneda  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES por moneda                                         │
//	└─────────────────────────────────────────────────────────────┘
type PDFExporter struct {
	now func() time.Time
}

// NewPDFExporter construye el exportador.
func NewPDFExporter() *PDFExporter { return &PDFExporter{now: time.Now} }

// ContentType tipo MIME del documento.
func (*PDFExporter) ContentType() string { return "application/pdf" }

// Extension extensión y nombre del formato.
func (*PDFExporter) Extension() string { return "pdf" }

// Export genera el PDF y devuelve sus bytes.
func (e *PDFExporter) Export(_ context.Context, title string, rows []*entity.PurchaseLineView) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithOrientation(orientation.Horizontal).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(title, true).
		Build()

	m := maroto.New(cfg)
	m.AddRows(headerRow(title, e.now()))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(tableHeaderRow())
	m.AddRows(tableRows(rows)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalRows(rows)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(title string, at time.Time) core.Row {
	return row.New(14).Add(
		col.New(8).Add(text.New(title, props.Text{
			Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 2,
		})),
		col.New(4).Add(text.New("Emitido: "+at.Format("02/01/2006 15:04"), props.Text{
			Size: 8, Align: align.Right, Color: colorGray, Top: 4,
		})),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).WithStyle(&props.Cell{BackgroundColor: colorHeader}).Add(
		h("Artículo", 4, align.Left),
		h("Cant.", 1, align.Right),
		h("Unidad", 1, align.Center),
		h("Precio unit.", 2, align.Right),
		h("Total", 2, align.Right),
		h("Moneda", 1, align.Center),
		h("Depósito", 1, align.Left),
	)
}

func tableRows(rows []*entity.PurchaseLineView) []core.Row {
	cell := func(s string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(s, props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1}))
	}
	out := make([]core.Row, 0, len(rows))
	for _, r := range rows {
		out = append(out, row.New(7).Add(
			cell(r.ItemName, 4, align.Left),
			cell(trimZeros(r.Quantity.String()), 1, align.Right),
			cell(r.UnitName, 1, align.Center),
			cell(formatMoney(r.UnitPrice.StringFixed(2)), 2, align.Right),
			cell(formatMoney(r.Total().StringFixed(2)), 2, align.Right),
			cell(r.CurrencyName, 1, align.Center),
			cell(r.DepotName, 1, align.Left),
		))
	}
	return out
}

func totalRows(rows []*entity.PurchaseLineView) []core.Row {
	totals := totalsByCurrency(rows)
	if len(totals) == 0 {
		return []core.Row{row.New(8).Add(col.New(12).Add(text.New("Sin compras registradas", props.Text{
			Size: 9, Align: align.Center, Color: colorGray, Top: 2,
		})))}
	}
	out := make([]core.Row, 0, len(totals))
	for _, t := range totals {
		out = append(out, row.New(7).Add(
			col.New(6),
			col.New(2).Add(text.New("Total "+t.Currency+":", props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: 1,
			})),
			col.New(2).Add(text.New(formatMoney(t.Amount.StringFixed(2)), props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Color: colorPrimary, Right: 1, Top: 1,
			})),
			col.New(2),
		))
	}
	return out
}

// ── helpers ───────────────────────────────────────────────────────────────────

// formatMoney agrega separadores de miles a un decimal ya formateado ("1234567.50" → "1,234,567.50").
func formatMoney(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}
	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return sign + b.String() + frac
}

func trimZeros(s string) string {
	if !strings.Contains(s, ".") {
		return s
	}
	return strings.TrimRight(strings.TrimRight(s, "0"), ".")
}
