package dto

import "time"

// CreateUserRequest entrada para crear un usuario (password en texto, se hashea en use case).
// CompanyID solo lo respeta el superadmin; para un admin se usa siempre su empresa.
type CreateUserRequest struct {
	Username  string `json:"username" validate:"required,min=1,max=150"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8,max=72"`
	Role      string `json:"role" validate:"omitempty,oneof=user admin superadmin"`
	CompanyID string `json:"company_id" validate:"omitempty,uuid"`
}

// UpdateUserRequest campos opcionales; Role y CompanyID pasan por el guard de escalada.
type UpdateUserRequest struct {
	Username  *string `json:"username" validate:"omitempty,min=1,max=150"`
	Email     *string `json:"email" validate:"omitempty,email"`
	Password  *string `json:"password" validate:"omitempty,min=8,max=72"`
	Role      *string `json:"role" validate:"omitempty,oneof=user admin superadmin"`
	CompanyID *string `json:"company_id" validate:"omitempty,uuid"`
	IsActive  *bool   `json:"is_active"`
}

// UserResponse salida de un usuario (sin password ni token de verificación).
type UserResponse struct {
	ID              string    `json:"id"`
	CompanyID       string    `json:"company_id,omitempty"`
	Username        string    `json:"username"`
	Email           string    `json:"email"`
	Role            string    `json:"role"`
	IsStaff         bool      `json:"is_staff"`
	IsSuperuser     bool      `json:"is_superuser"`
	IsActive        bool      `json:"is_active"`
	IsEmailVerified bool      `json:"is_email_verified"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// UserListResponse lista paginada de usuarios.
type UserListResponse struct {
	Items []UserResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// DeleteUserResponse resultado de borrar un usuario: si tiene depósitos creados se desactiva.
type DeleteUserResponse struct {
	Deleted     bool `json:"deleted"`
	Deactivated bool `json:"deactivated"`
}
