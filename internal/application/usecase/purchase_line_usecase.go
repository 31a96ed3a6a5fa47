package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/compras-api/internal/application/dto"
	"github.com/jhoicas/compras-api/internal/domain"
	"github.com/jhoicas/compras-api/internal/domain/entity"
	"github.com/jhoicas/compras-api/internal/domain/policy"
	"github.com/jhoicas/compras-api/internal/domain/repository"
)

// PurchaseLineUseCase casos de uso del libro de compras.
// Cada escritura vuelve a validar que artículo, unidad, moneda y depósito sean de la empresa de la línea.
type PurchaseLineUseCase struct {
	lines   repository.PurchaseLineRepository
	catalog repository.CatalogRepository
	depots  repository.DepotRepository
}

// NewPurchaseLineUseCase construye el caso de uso.
func NewPurchaseLineUseCase(
	lines repository.PurchaseLineRepository,
	catalog repository.CatalogRepository,
	depots repository.DepotRepository,
) *PurchaseLineUseCase {
	return &PurchaseLineUseCase{lines: lines, catalog: catalog, depots: depots}
}

// Create registra una línea en la empresa del llamador.
func (uc *PurchaseLineUseCase) Create(ctx context.Context, caller policy.Caller, in dto.CreatePurchaseLineRequest) (*dto.PurchaseLineResponse, error) {
	companyID, err := policy.AuthorizeCreate(caller, policy.ResourcePurchaseLine)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	line := &entity.PurchaseLine{
		ID:         uuid.New().String(),
		CompanyID:  companyID,
		ItemID:     in.ItemID,
		Quantity:   in.Quantity,
		UnitID:     in.UnitID,
		UnitPrice:  in.UnitPrice,
		CurrencyID: in.CurrencyID,
		DepotID:    in.DepotID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := uc.validate(ctx, line); err != nil {
		return nil, err
	}
	if err := uc.lines.Create(ctx, line); err != nil {
		return nil, err
	}
	return uc.GetByID(ctx, caller, line.ID)
}

// GetByID obtiene una línea visible para el llamador.
func (uc *PurchaseLineUseCase) GetByID(ctx context.Context, caller policy.Caller, id string) (*dto.PurchaseLineResponse, error) {
	view, err := uc.load(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	return toPurchaseLineResponse(view), nil
}

// Update modifica campos de una línea y revalida sus referencias.
func (uc *PurchaseLineUseCase) Update(ctx context.Context, caller policy.Caller, id string, in dto.UpdatePurchaseLineRequest) (*dto.PurchaseLineResponse, error) {
	view, err := uc.load(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	line := view.PurchaseLine
	if in.ItemID != nil {
		line.ItemID = *in.ItemID
	}
	if in.Quantity != nil {
		line.Quantity = *in.Quantity
	}
	if in.UnitID != nil {
		line.UnitID = *in.UnitID
	}
	if in.UnitPrice != nil {
		line.UnitPrice = *in.UnitPrice
	}
	if in.CurrencyID != nil {
		line.CurrencyID = *in.CurrencyID
	}
	if in.DepotID != nil {
		line.DepotID = *in.DepotID
	}
	if err := uc.validate(ctx, &line); err != nil {
		return nil, err
	}
	line.UpdatedAt = time.Now()
	if err := uc.lines.Update(ctx, &line); err != nil {
		return nil, err
	}
	return uc.GetByID(ctx, caller, id)
}

// List lista líneas del alcance, opcionalmente de un depósito.
func (uc *PurchaseLineUseCase) List(ctx context.Context, caller policy.Caller, f dto.PurchaseLineFilter, limit, offset int) (*dto.PurchaseLineListResponse, error) {
	scope := policy.ScopeFor(caller, policy.ResourcePurchaseLine)
	list, err := uc.lines.List(ctx, scope, repository.PurchaseLineFilter{DepotID: f.DepotID}, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.PurchaseLineResponse, 0, len(list))
	for _, v := range list {
		items = append(items, *toPurchaseLineResponse(v))
	}
	return &dto.PurchaseLineListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// Delete elimina una línea.
func (uc *PurchaseLineUseCase) Delete(ctx context.Context, caller policy.Caller, id string) error {
	if _, err := uc.load(ctx, caller, id); err != nil {
		return err
	}
	return uc.lines.Delete(ctx, id)
}

func (uc *PurchaseLineUseCase) load(ctx context.Context, caller policy.Caller, id string) (*entity.PurchaseLineView, error) {
	view, err := uc.lines.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if view == nil {
		return nil, domain.ErrNotFound
	}
	if err := policy.AuthorizeOwned(caller, policy.ResourcePurchaseLine, view.CompanyID); err != nil {
		return nil, err
	}
	return view, nil
}

// validate comprueba montos y que las cuatro referencias existan en la empresa de la línea.
// Una referencia ajena se informa igual que una inexistente.
func (uc *PurchaseLineUseCase) validate(ctx context.Context, line *entity.PurchaseLine) error {
	if line.Quantity.IsNegative() {
		return domain.NewValidationError("quantity", "la cantidad no puede ser negativa")
	}
	if line.UnitPrice.IsNegative() {
		return domain.NewValidationError("unit_price", "el precio no puede ser negativo")
	}
	refs := []struct {
		field string
		kind  entity.CatalogKind
		id    string
	}{
		{"item_id", entity.KindItem, line.ItemID},
		{"unit_id", entity.KindUnit, line.UnitID},
		{"currency_id", entity.KindMoneyType, line.CurrencyID},
	}
	for _, ref := range refs {
		entry, err := uc.catalog.GetByID(ctx, ref.kind, ref.id)
		if err != nil {
			return err
		}
		if entry == nil || entry.CompanyID != line.CompanyID {
			return crossTenant(ref.field)
		}
	}
	depot, err := uc.depots.GetByID(ctx, line.DepotID)
	if err != nil {
		return err
	}
	if depot == nil || depot.CompanyID != line.CompanyID {
		return crossTenant("depot_id")
	}
	return nil
}

func crossTenant(field string) error {
	return &domain.ValidationError{
		Field:   field,
		Code:    domain.CodeCrossTenantReference,
		Message: "la referencia no existe en tu empresa",
	}
}

func toPurchaseLineResponse(v *entity.PurchaseLineView) *dto.PurchaseLineResponse {
	if v == nil {
		return nil
	}
	return &dto.PurchaseLineResponse{
		ID:         v.ID,
		CompanyID:  v.CompanyID,
		ItemID:     v.ItemID,
		Item:       v.ItemName,
		Quantity:   v.Quantity,
		UnitID:     v.UnitID,
		Unit:       v.UnitName,
		UnitPrice:  v.UnitPrice,
		CurrencyID: v.CurrencyID,
		Currency:   v.CurrencyName,
		DepotID:    v.DepotID,
		Depot:      v.DepotName,
		Total:      v.Total(),
		CreatedAt:  v.CreatedAt,
		UpdatedAt:  v.UpdatedAt,
	}
}
