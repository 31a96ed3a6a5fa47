package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/compras-api/internal/application/dto"
	"github.com/jhoicas/compras-api/internal/application/ports"
	"github.com/jhoicas/compras-api/internal/domain"
	"github.com/jhoicas/compras-api/internal/domain/entity"
	"github.com/jhoicas/compras-api/internal/domain/ledger"
	"github.com/jhoicas/compras-api/internal/domain/policy"
	"github.com/jhoicas/compras-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// LedgerUseCase totales y exportación del libro de compras.
// Los montos se suman solo dentro del alcance del llamador; nunca se convierten entre monedas.
type LedgerUseCase struct {
	lines     repository.PurchaseLineRepository
	depots    repository.DepotRepository
	catalog   repository.CatalogRepository
	exporters map[string]ports.LedgerExporter
}

// NewLedgerUseCase construye el caso de uso. exporters se indexa por formato (xlsx, pdf).
func NewLedgerUseCase(
	lines repository.PurchaseLineRepository,
	depots repository.DepotRepository,
	catalog repository.CatalogRepository,
	exporters map[string]ports.LedgerExporter,
) *LedgerUseCase {
	return &LedgerUseCase{lines: lines, depots: depots, catalog: catalog, exporters: exporters}
}

// Total suma cantidad × precio del alcance, opcionalmente de un depósito.
func (uc *LedgerUseCase) Total(ctx context.Context, caller policy.Caller, depotID string) (*dto.LedgerTotalResponse, error) {
	if depotID != "" {
		if _, err := uc.authorizeDepot(ctx, caller, depotID); err != nil {
			return nil, err
		}
	}
	sums, err := uc.lines.Sums(ctx, policy.ScopeFor(caller, policy.ResourcePurchaseLine),
		repository.PurchaseLineFilter{DepotID: depotID})
	if err != nil {
		return nil, err
	}
	byCur, err := uc.currencyAmounts(ctx, ledger.ByCurrency(sums))
	if err != nil {
		return nil, err
	}
	return &dto.LedgerTotalResponse{Total: ledger.Total(sums), ByCurrency: byCur}, nil
}

// TotalByDepot desglosa los totales por depósito y moneda.
func (uc *LedgerUseCase) TotalByDepot(ctx context.Context, caller policy.Caller, depotID string) (*dto.LedgerByDepotResponse, error) {
	if depotID != "" {
		if _, err := uc.authorizeDepot(ctx, caller, depotID); err != nil {
			return nil, err
		}
	}
	sums, err := uc.lines.Sums(ctx, policy.ScopeFor(caller, policy.ResourcePurchaseLine),
		repository.PurchaseLineFilter{DepotID: depotID})
	if err != nil {
		return nil, err
	}
	grouped := ledger.ByDepotAndCurrency(sums)
	depots := make([]dto.DepotTotal, 0, len(grouped))
	for id, byCur := range grouped {
		name := id
		if d, err := uc.depots.GetByID(ctx, id); err != nil {
			return nil, err
		} else if d != nil {
			name = d.Name
		}
		amounts, err := uc.currencyAmounts(ctx, byCur)
		if err != nil {
			return nil, err
		}
		total := decimal.Zero
		for _, a := range byCur {
			total = total.Add(a)
		}
		depots = append(depots, dto.DepotTotal{DepotID: id, Depot: name, Total: total, ByCurrency: amounts})
	}
	sort.Slice(depots, func(i, j int) bool { return depots[i].Depot < depots[j].Depot })
	return &dto.LedgerByDepotResponse{Total: ledger.Total(sums), Depots: depots}, nil
}

// ExportResult documento generado.
type ExportResult struct {
	Data        []byte
	ContentType string
	Filename    string
}

// Export genera el libro visible (o el de un depósito) en el formato pedido.
func (uc *LedgerUseCase) Export(ctx context.Context, caller policy.Caller, q dto.ExportQuery) (*ExportResult, error) {
	format := q.Format
	if format == "" {
		format = "xlsx"
	}
	exporter, ok := uc.exporters[format]
	if !ok {
		return nil, domain.NewValidationError("format", "formato no soportado: "+format)
	}
	title := "Compras"
	if q.DepotID != "" {
		depot, err := uc.authorizeDepot(ctx, caller, q.DepotID)
		if err != nil {
			return nil, err
		}
		title = "Compras - " + depot.Name
	}
	rows, err := uc.lines.ListAll(ctx, policy.ScopeFor(caller, policy.ResourcePurchaseLine),
		repository.PurchaseLineFilter{DepotID: q.DepotID})
	if err != nil {
		return nil, err
	}
	data, err := exporter.Export(ctx, title, rows)
	if err != nil {
		return nil, fmt.Errorf("exportar %s: %w", format, err)
	}
	return &ExportResult{
		Data:        data,
		ContentType: exporter.ContentType(),
		Filename:    fmt.Sprintf("compras_%s.%s", time.Now().Format("20060102_150405"), exporter.Extension()),
	}, nil
}

// authorizeDepot: el depósito debe existir (404) y ser de la empresa del llamador (403).
func (uc *LedgerUseCase) authorizeDepot(ctx context.Context, caller policy.Caller, depotID string) (*entity.Depot, error) {
	depot, err := uc.depots.GetByID(ctx, depotID)
	if err != nil {
		return nil, err
	}
	if depot == nil {
		return nil, domain.ErrNotFound
	}
	if err := policy.AuthorizeDepotAggregate(caller, depot.CompanyID); err != nil {
		return nil, err
	}
	return depot, nil
}

func (uc *LedgerUseCase) currencyAmounts(ctx context.Context, byCur map[string]decimal.Decimal) ([]dto.CurrencyAmount, error) {
	out := make([]dto.CurrencyAmount, 0, len(byCur))
	for id, amount := range byCur {
		name := id
		entry, err := uc.catalog.GetByID(ctx, entity.KindMoneyType, id)
		if err != nil {
			return nil, err
		}
		if entry != nil {
			name = entry.Name
		}
		out = append(out, dto.CurrencyAmount{CurrencyID: id, Currency: name, Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Currency < out[j].Currency })
	return out, nil
}
