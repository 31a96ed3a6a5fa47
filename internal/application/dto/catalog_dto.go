package dto

import "time"

// CatalogRequest entrada para crear o renombrar un artículo, unidad o tipo de moneda.
// La empresa nunca viene del cliente.
type CatalogRequest struct {
	Name string `json:"name" validate:"required,min=1,max=200"`
}

// CatalogResponse salida de una entrada de catálogo.
type CatalogResponse struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"company_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CatalogListResponse lista paginada de catálogo.
type CatalogListResponse struct {
	Items []CatalogResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
