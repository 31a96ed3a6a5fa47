package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/compras-api/internal/application/dto"
	"github.com/jhoicas/compras-api/internal/domain"
	"github.com/jhoicas/compras-api/internal/domain/entity"
	"github.com/jhoicas/compras-api/internal/domain/policy"
	"github.com/jhoicas/compras-api/internal/domain/repository"
)

// DepotUseCase casos de uso CRUD para depósitos.
type DepotUseCase struct {
	repo    repository.DepotRepository
	cascade repository.CascadeRepository
}

// NewDepotUseCase construye el caso de uso.
func NewDepotUseCase(repo repository.DepotRepository, cascade repository.CascadeRepository) *DepotUseCase {
	return &DepotUseCase{repo: repo, cascade: cascade}
}

// Create crea un depósito en la empresa del llamador; CreatedBy queda fijo.
func (uc *DepotUseCase) Create(ctx context.Context, caller policy.Caller, in dto.CreateDepotRequest) (*dto.DepotResponse, error) {
	companyID, err := policy.AuthorizeCreate(caller, policy.ResourceDepot)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.NewValidationError("name", "el nombre es obligatorio")
	}
	now := time.Now()
	depot := &entity.Depot{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		Name:      name,
		CreatedBy: caller.UserID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, depot); err != nil {
		return nil, err
	}
	return toDepotResponse(depot), nil
}

// GetByID obtiene un depósito visible para el llamador.
func (uc *DepotUseCase) GetByID(ctx context.Context, caller policy.Caller, id string) (*dto.DepotResponse, error) {
	depot, err := uc.load(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	return toDepotResponse(depot), nil
}

// Update renombra un depósito.
func (uc *DepotUseCase) Update(ctx context.Context, caller policy.Caller, id string, in dto.UpdateDepotRequest) (*dto.DepotResponse, error) {
	depot, err := uc.load(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.NewValidationError("name", "el nombre es obligatorio")
		}
		depot.Name = name
	}
	depot.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, depot); err != nil {
		return nil, err
	}
	return toDepotResponse(depot), nil
}

// List lista los depósitos del alcance con paginación.
func (uc *DepotUseCase) List(ctx context.Context, caller policy.Caller, limit, offset int) (*dto.DepotListResponse, error) {
	list, err := uc.repo.List(ctx, policy.ScopeFor(caller, policy.ResourceDepot), limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.DepotResponse, 0, len(list))
	for _, d := range list {
		items = append(items, *toDepotResponse(d))
	}
	return &dto.DepotListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// Delete elimina el depósito y todas sus líneas de compra. Con dryRun solo las cuenta.
func (uc *DepotUseCase) Delete(ctx context.Context, caller policy.Caller, id string, dryRun bool) (*dto.DeleteResponse, error) {
	if _, err := uc.load(ctx, caller, id); err != nil {
		return nil, err
	}
	n, err := uc.cascade.DeleteCascade(ctx, repository.CascadeDepot, id, dryRun)
	if err != nil {
		return nil, err
	}
	return &dto.DeleteResponse{Deleted: !dryRun, DryRun: dryRun, CascadedPurchaseLines: n}, nil
}

func (uc *DepotUseCase) load(ctx context.Context, caller policy.Caller, id string) (*entity.Depot, error) {
	depot, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if depot == nil {
		return nil, domain.ErrNotFound
	}
	if err := policy.AuthorizeOwned(caller, policy.ResourceDepot, depot.CompanyID); err != nil {
		return nil, err
	}
	return depot, nil
}

func toDepotResponse(d *entity.Depot) *dto.DepotResponse {
	if d == nil {
		return nil
	}
	return &dto.DepotResponse{
		ID:        d.ID,
		CompanyID: d.CompanyID,
		Name:      d.Name,
		CreatedBy: d.CreatedBy,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}
