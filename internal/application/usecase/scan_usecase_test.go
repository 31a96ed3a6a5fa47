package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/compras-api/internal/application/ports"
	"github.com/jhoicas/compras-api/internal/application/usecase"
	"github.com/jhoicas/compras-api/internal/domain"
	"github.com/jhoicas/compras-api/internal/domain/entity"
)

type extractorFunc func(ctx context.Context, image []byte, mime string) ([]ports.ExtractedLine, error)

func (f extractorFunc) Extract(ctx context.Context, image []byte, mime string) ([]ports.ExtractedLine, error) {
	return f(ctx, image, mime)
}

func ptr[T any](v T) *T { return &v }

func TestScan_ValoresPorDefecto(t *testing.T) {
	f := newFixture(t)
	kg := f.addEntry(t, entity.KindUnit, f.companyA.ID, "kg")
	usd := f.addEntry(t, entity.KindMoneyType, f.companyA.ID, "USD")

	ext := extractorFunc(func(context.Context, []byte, string) ([]ports.ExtractedLine, error) {
		return []ports.ExtractedLine{
			{Item: "Arroz", Quantity: ptr(decimal.NewFromInt(5)), Unit: ptr("KG"), UnitPrice: ptr(decimal.RequireFromString("2.5")), Currency: ptr("usd")},
			{Item: "Sal", Quantity: ptr(decimal.Zero)},
			{Item: "   "},
		}, nil
	})
	uc := usecase.NewScanUseCase(ext, f.store.Catalog(), "UZS")

	got, err := uc.Scan(context.Background(), f.userA, []byte("img"), "image/png")
	require.NoError(t, err)
	require.Len(t, got.Lines, 2)

	arroz := got.Lines[0]
	assert.Equal(t, kg.ID, arroz.UnitID)
	assert.Equal(t, usd.ID, arroz.CurrencyID)
	assert.False(t, arroz.NeedsReview)

	sal := got.Lines[1]
	assert.True(t, sal.Quantity.Equal(decimal.NewFromInt(1)))
	assert.Equal(t, "pcs", sal.Unit)
	assert.True(t, sal.UnitPrice.IsZero())
	assert.True(t, sal.NeedsReview)
	assert.Equal(t, "UZS", sal.Currency)
	assert.Empty(t, sal.CurrencyID)
}

func TestScan_NadaReconocido(t *testing.T) {
	f := newFixture(t)
	ext := extractorFunc(func(context.Context, []byte, string) ([]ports.ExtractedLine, error) {
		return nil, nil
	})
	_, err := usecase.NewScanUseCase(ext, f.store.Catalog(), "").Scan(context.Background(), f.userA, []byte("img"), "image/png")
	assert.ErrorIs(t, err, domain.ErrNothingRecognized)
}

func TestScan_FallaExterna(t *testing.T) {
	f := newFixture(t)
	ext := extractorFunc(func(context.Context, []byte, string) ([]ports.ExtractedLine, error) {
		return nil, errors.New("500 del proveedor")
	})
	_, err := usecase.NewScanUseCase(ext, f.store.Catalog(), "").Scan(context.Background(), f.userA, []byte("img"), "image/png")
	var ext2 *domain.ExternalServiceError
	require.ErrorAs(t, err, &ext2)
	assert.False(t, ext2.Timeout())
}

func TestScan_Timeout(t *testing.T) {
	f := newFixture(t)
	ext := extractorFunc(func(ctx context.Context, _ []byte, _ string) ([]ports.ExtractedLine, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	uc := usecase.NewScanUseCase(ext, f.store.Catalog(), "").WithTimeout(10 * time.Millisecond)
	_, err := uc.Scan(context.Background(), f.userA, []byte("img"), "image/png")
	var extErr *domain.ExternalServiceError
	require.ErrorAs(t, err, &extErr)
	assert.True(t, extErr.Timeout())
}
