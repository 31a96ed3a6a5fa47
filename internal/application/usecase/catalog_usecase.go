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

// CatalogUseCase CRUD compartido por artículos, unidades y tipos de moneda.
// Cada instancia atiende un solo kind.
type CatalogUseCase struct {
	kind    entity.CatalogKind
	repo    repository.CatalogRepository
	cascade repository.CascadeRepository
}

// NewCatalogUseCase construye el caso de uso para un kind.
func NewCatalogUseCase(kind entity.CatalogKind, repo repository.CatalogRepository, cascade repository.CascadeRepository) *CatalogUseCase {
	return &CatalogUseCase{kind: kind, repo: repo, cascade: cascade}
}

// Kind tipo de catálogo atendido.
func (uc *CatalogUseCase) Kind() entity.CatalogKind { return uc.kind }

func (uc *CatalogUseCase) resource() policy.Resource { return policy.CatalogResource(uc.kind) }

// Create crea una entrada en la empresa del llamador.
func (uc *CatalogUseCase) Create(ctx context.Context, caller policy.Caller, in dto.CatalogRequest) (*dto.CatalogResponse, error) {
	companyID, err := policy.AuthorizeCreate(caller, uc.resource())
	if err != nil {
		return nil, err
	}
	name := entity.NormalizeCatalogName(uc.kind, in.Name)
	if name == "" {
		return nil, domain.NewValidationError("name", "el nombre es obligatorio")
	}
	now := time.Now()
	entry := &entity.CatalogEntry{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		Kind:      uc.kind,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, entry); err != nil {
		return nil, err
	}
	return toCatalogResponse(entry), nil
}

// GetByID obtiene una entrada visible para el llamador.
func (uc *CatalogUseCase) GetByID(ctx context.Context, caller policy.Caller, id string) (*dto.CatalogResponse, error) {
	entry, err := uc.load(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	return toCatalogResponse(entry), nil
}

// Update renombra una entrada.
func (uc *CatalogUseCase) Update(ctx context.Context, caller policy.Caller, id string, in dto.CatalogRequest) (*dto.CatalogResponse, error) {
	entry, err := uc.load(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	name := entity.NormalizeCatalogName(uc.kind, in.Name)
	if name == "" {
		return nil, domain.NewValidationError("name", "el nombre es obligatorio")
	}
	entry.Name = name
	entry.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, entry); err != nil {
		return nil, err
	}
	return toCatalogResponse(entry), nil
}

// List lista las entradas del alcance.
func (uc *CatalogUseCase) List(ctx context.Context, caller policy.Caller, limit, offset int) (*dto.CatalogListResponse, error) {
	list, err := uc.repo.List(ctx, uc.kind, policy.ScopeFor(caller, uc.resource()), limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CatalogResponse, 0, len(list))
	for _, e := range list {
		items = append(items, *toCatalogResponse(e))
	}
	return &dto.CatalogListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// Delete elimina la entrada y las líneas de compra que la referencian.
func (uc *CatalogUseCase) Delete(ctx context.Context, caller policy.Caller, id string, dryRun bool) (*dto.DeleteResponse, error) {
	if _, err := uc.load(ctx, caller, id); err != nil {
		return nil, err
	}
	n, err := uc.cascade.DeleteCascade(ctx, repository.CascadeTargetForKind(uc.kind), id, dryRun)
	if err != nil {
		return nil, err
	}
	return &dto.DeleteResponse{Deleted: !dryRun, DryRun: dryRun, CascadedPurchaseLines: n}, nil
}

func (uc *CatalogUseCase) load(ctx context.Context, caller policy.Caller, id string) (*entity.CatalogEntry, error) {
	entry, err := uc.repo.GetByID(ctx, uc.kind, id)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, domain.ErrNotFound
	}
	if err := policy.AuthorizeOwned(caller, uc.resource(), entry.CompanyID); err != nil {
		return nil, err
	}
	return entry, nil
}

func toCatalogResponse(e *entity.CatalogEntry) *dto.CatalogResponse {
	if e == nil {
		return nil
	}
	return &dto.CatalogResponse{
		ID:        e.ID,
		CompanyID: e.CompanyID,
		Name:      e.Name,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}
