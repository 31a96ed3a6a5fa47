package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/compras-api/internal/application/dto"
	"github.com/jhoicas/compras-api/internal/application/ports"
	"github.com/jhoicas/compras-api/internal/application/usecase"
	"github.com/jhoicas/compras-api/internal/domain"
	"github.com/jhoicas/compras-api/internal/domain/entity"
)

type stubExporter struct {
	title string
	rows  int
}

func (s *stubExporter) Export(_ context.Context, title string, rows []*entity.PurchaseLineView) ([]byte, error) {
	s.title = title
	s.rows = len(rows)
	return []byte("ok"), nil
}
func (s *stubExporter) ContentType() string { return "text/plain" }
func (s *stubExporter) Extension() string   { return "txt" }

func newLedgerUC(f *fixture, exp ports.LedgerExporter) *usecase.LedgerUseCase {
	exporters := map[string]ports.LedgerExporter{}
	if exp != nil {
		exporters["xlsx"] = exp
	}
	return usecase.NewLedgerUseCase(f.store.PurchaseLines(), f.store.Depots(), f.store.Catalog(), exporters)
}

// 3 × 1500.50 + 2 × 999.99 = 6501.48 en USD; otra empresa no suma nada.
func TestLedger_TotalPorMoneda(t *testing.T) {
	f := newFixture(t)
	r := f.addRefs(t, f.adminA)
	f.addLine(t, r, "3", "1500.50")
	f.addLine(t, r, "2", "999.99")
	f.addLine(t, f.addRefs(t, f.adminB), "100", "100")

	got, err := newLedgerUC(f, nil).Total(context.Background(), f.userA, "")
	require.NoError(t, err)
	assert.Equal(t, "6501.48", got.Total.StringFixed(2))
	require.Len(t, got.ByCurrency, 1)
	assert.Equal(t, "USD", got.ByCurrency[0].Currency)
	assert.Equal(t, "6501.48", got.ByCurrency[0].Amount.StringFixed(2))
}

func TestLedger_AlcanceVacio(t *testing.T) {
	f := newFixture(t)
	got, err := newLedgerUC(f, nil).Total(context.Background(), f.root, "")
	require.NoError(t, err)
	assert.True(t, got.Total.IsZero())
	assert.Empty(t, got.ByCurrency)
}

func TestLedger_DepositoAjenoEsForbidden(t *testing.T) {
	f := newFixture(t)
	rb := f.addRefs(t, f.adminB)
	f.addLine(t, rb, "1", "1")
	uc := newLedgerUC(f, nil)

	_, err := uc.Total(context.Background(), f.userA, rb.depot.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = uc.TotalByDepot(context.Background(), f.userA, "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLedger_TotalByDepot(t *testing.T) {
	f := newFixture(t)
	r := f.addRefs(t, f.adminA)
	sur := r
	sur.depot = f.addDepot(t, f.adminA, "Sur")
	f.addLine(t, r, "2", "10")
	f.addLine(t, sur, "1", "5")

	got, err := newLedgerUC(f, nil).TotalByDepot(context.Background(), f.adminA, "")
	require.NoError(t, err)
	assert.Equal(t, "25", got.Total.String())
	require.Len(t, got.Depots, 2)
	assert.Equal(t, "Central", got.Depots[0].Depot)
	assert.Equal(t, "20", got.Depots[0].Total.String())
	assert.Equal(t, "Sur", got.Depots[1].Depot)
}

func TestLedger_Export(t *testing.T) {
	f := newFixture(t)
	r := f.addRefs(t, f.adminA)
	f.addLine(t, r, "1", "1")
	f.addLine(t, f.addRefs(t, f.adminB), "1", "1")
	exp := &stubExporter{}
	uc := newLedgerUC(f, exp)

	res, err := uc.Export(context.Background(), f.userA, dto.ExportQuery{DepotID: r.depot.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, exp.rows)
	assert.Equal(t, "Compras - Central", exp.title)
	assert.Contains(t, res.Filename, ".txt")

	_, err = uc.Export(context.Background(), f.userA, dto.ExportQuery{Format: "pdf"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
