package dto

// LoginRequest entrada para login dentro del enlace de una empresa.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse salida con token JWT.
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresIn int          `json:"expires_in"` // segundos
	User      UserResponse `json:"user"`
}

// ChangePasswordRequest cambio de contraseña del propio usuario.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=72"`
}

// VerifyEmailResponse resultado de consumir un token de verificación.
type VerifyEmailResponse struct {
	Verified bool   `json:"verified"`
	Username string `json:"username"`
}
