package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/compras-api/internal/application/auth"
	"github.com/jhoicas/compras-api/internal/application/dto"
	"github.com/jhoicas/compras-api/internal/domain"
)

// AuthHandler maneja login, logout, cambio de contraseña y verificación de email.
type AuthHandler struct {
	uc *auth.AuthUseCase
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

// Login godoc
// @Summary      Iniciar sesión en una empresa
// @Description  El token de empresa forma parte del enlace que comparte el administrador.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        company_token  path  string            true  "Token de la empresa"
// @Param        body           body  dto.LoginRequest  true  "username, password"
// @Success      200   {object}  dto.LoginResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/auth/{company_token}/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Login(c.UserContext(), c.Params("company_token"), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// LoginWithoutCompany godoc
// @Summary      Iniciar sesión sin empresa (superadmin)
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "username, password"
// @Success      200   {object}  dto.LoginResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) LoginWithoutCompany(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.LoginWithoutCompany(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Logout godoc
// @Summary      Cerrar sesión
// @Tags         auth
// @Security     Bearer
// @Success      204
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	p := GetPrincipal(c)
	if p == nil {
		return domain.ErrUnauthenticated
	}
	if err := h.uc.Logout(c.UserContext(), p); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ChangePassword godoc
// @Summary      Cambiar la contraseña propia
// @Description  Revoca todas las sesiones del usuario y devuelve un token nuevo.
// @Tags         auth
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ChangePasswordRequest  true  "current_password, new_password"
// @Success      200   {object}  dto.LoginResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/auth/change-password [post]
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	p := GetPrincipal(c)
	if p == nil {
		return domain.ErrUnauthenticated
	}
	var in dto.ChangePasswordRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.ChangePassword(c.UserContext(), p, in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// VerifyEmail godoc
// @Summary      Verificar email
// @Tags         auth
// @Produce      json
// @Param        token  path  string  true  "Token de verificación"
// @Success      200   {object}  dto.VerifyEmailResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/auth/verify-email/{token} [get]
func (h *AuthHandler) VerifyEmail(c *fiber.Ctx) error {
	out, err := h.uc.VerifyEmail(c.UserContext(), c.Params("token"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}
