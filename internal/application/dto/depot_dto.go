package dto

import "time"

// CreateDepotRequest entrada para crear un depósito.
type CreateDepotRequest struct {
	Name string `json:"name" validate:"required,min=1,max=200"`
}

// UpdateDepotRequest entrada para actualizar un depósito.
type UpdateDepotRequest struct {
	Name *string `json:"name" validate:"omitempty,min=1,max=200"`
}

// DepotResponse salida de un depósito.
type DepotResponse struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"company_id"`
	Name      string    `json:"name"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DepotListResponse lista paginada de depósitos.
type DepotListResponse struct {
	Items []DepotResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}
