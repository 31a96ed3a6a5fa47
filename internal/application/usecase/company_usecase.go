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

// CompanyUseCase aplica reglas de negocio para empresas (casos de uso).
type CompanyUseCase struct {
	repo    repository.CompanyRepository
	cascade repository.CascadeRepository
}

// NewCompanyUseCase construye el caso de uso con el puerto de persistencia.
func NewCompanyUseCase(repo repository.CompanyRepository, cascade repository.CascadeRepository) *CompanyUseCase {
	return &CompanyUseCase{repo: repo, cascade: cascade}
}

// Create crea una nueva empresa con su token de login. Solo superadmin.
func (uc *CompanyUseCase) Create(ctx context.Context, caller policy.Caller, in dto.CreateCompanyRequest) (*dto.CompanyResponse, error) {
	if _, err := policy.AuthorizeCreate(caller, policy.ResourceCompany); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.NewValidationError("name", "el nombre es obligatorio")
	}
	now := time.Now()
	company := &entity.Company{
		ID:        uuid.New().String(),
		Token:     entity.NewCompanyToken(),
		Name:      name,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, company); err != nil {
		return nil, err
	}
	return entityToCompanyResponse(company), nil
}

// GetByID obtiene una empresa visible para el llamador.
func (uc *CompanyUseCase) GetByID(ctx context.Context, caller policy.Caller, id string) (*dto.CompanyResponse, error) {
	company, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if company == nil || !policy.ScopeFor(caller, policy.ResourceCompany).Permits(company.ID) {
		return nil, domain.ErrNotFound
	}
	return entityToCompanyResponse(company), nil
}

// Update renombra o activa/desactiva una empresa. El token no cambia.
func (uc *CompanyUseCase) Update(ctx context.Context, caller policy.Caller, id string, in dto.UpdateCompanyRequest) (*dto.CompanyResponse, error) {
	company, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	if err := policy.AuthorizeCompanyMutation(caller, company.ID); err != nil {
		return nil, err
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, domain.NewValidationError("name", "el nombre es obligatorio")
		}
		company.Name = name
	}
	if in.IsActive != nil {
		company.IsActive = *in.IsActive
	}
	company.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, company); err != nil {
		return nil, err
	}
	return entityToCompanyResponse(company), nil
}

// List lista empresas con paginación.
func (uc *CompanyUseCase) List(ctx context.Context, caller policy.Caller, limit, offset int) (*dto.CompanyListResponse, error) {
	list, err := uc.repo.List(ctx, policy.ScopeFor(caller, policy.ResourceCompany), limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CompanyResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *entityToCompanyResponse(c))
	}
	return &dto.CompanyListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// Delete elimina la empresa con todo su contenido (usuarios, catálogo, depósitos, libro).
func (uc *CompanyUseCase) Delete(ctx context.Context, caller policy.Caller, id string, dryRun bool) (*dto.DeleteResponse, error) {
	company, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	if err := policy.AuthorizeCompanyMutation(caller, company.ID); err != nil {
		return nil, err
	}
	n, err := uc.cascade.DeleteCascade(ctx, repository.CascadeCompany, id, dryRun)
	if err != nil {
		return nil, err
	}
	return &dto.DeleteResponse{Deleted: !dryRun, DryRun: dryRun, CascadedPurchaseLines: n}, nil
}

// LoginPath ruta de login de una empresa.
func LoginPath(token string) string {
	return "/api/auth/" + token + "/login"
}

func entityToCompanyResponse(c *entity.Company) *dto.CompanyResponse {
	if c == nil {
		return nil
	}
	return &dto.CompanyResponse{
		ID:        c.ID,
		Name:      c.Name,
		Token:     c.Token,
		LoginPath: LoginPath(c.Token),
		IsActive:  c.IsActive,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
