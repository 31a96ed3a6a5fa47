package dto

import "time"

// CreateCompanyRequest entrada para crear una empresa (solo superadmin).
type CreateCompanyRequest struct {
	Name string `json:"name" validate:"required,min=1,max=200"`
}

// UpdateCompanyRequest entrada para actualizar una empresa.
type UpdateCompanyRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=200"`
	IsActive *bool   `json:"is_active"`
}

// CompanyResponse salida de una empresa. LoginPath es el enlace que se comparte con sus usuarios.
type CompanyResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Token     string    `json:"token"`
	LoginPath string    `json:"login_path"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CompanyListResponse lista paginada de empresas.
type CompanyListResponse struct {
	Items []CompanyResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
