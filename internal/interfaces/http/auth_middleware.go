package http

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/compras-api/internal/application/auth"
	"github.com/jhoicas/compras-api/internal/application/dto"
	"github.com/jhoicas/compras-api/internal/domain/entity"
	"github.com/jhoicas/compras-api/internal/domain/policy"
)

// Locals keys para la identidad autenticada en Fiber.
const (
	LocalPrincipal = "principal"
	LocalUserID    = "user_id"
	LocalCompanyID = "company_id"
	LocalRole      = "role"
)

// Authenticator valida un token y recarga el usuario. Lo implementa *auth.AuthUseCase.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*auth.Principal, error)
}

// AuthMiddleware valida el Bearer Token y carga el usuario persistido en c.Locals.
// Rol y empresa salen de la base, no de los claims, para que un cambio surta efecto de inmediato.
func AuthMiddleware(a Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: CodeMissingToken, Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: CodeInvalidToken, Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: CodeMissingToken, Message: "token vacío"})
		}
		principal, err := a.Authenticate(c.UserContext(), tokenString)
		if err != nil {
			status, body := errorResponse(err)
			if status == fiber.StatusUnauthorized {
				body = dto.ErrorResponse{Code: CodeInvalidToken, Message: "token inválido, expirado o revocado"}
			}
			return c.Status(status).JSON(body)
		}
		c.Locals(LocalPrincipal, principal)
		c.Locals(LocalUserID, principal.Caller.UserID)
		c.Locals(LocalCompanyID, principal.Caller.CompanyID)
		c.Locals(LocalRole, string(principal.Caller.Role))
		return c.Next()
	}
}

// RequireRole deja pasar solo a los roles indicados. Debe ir después de AuthMiddleware.
func RequireRole(roles ...entity.Role) fiber.Handler {
	allowed := make(map[entity.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		if role == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: CodeUnauthenticated, Message: "autenticación requerida"})
		}
		if _, ok := allowed[entity.Role(role)]; !ok {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: CodeForbidden, Message: "el rol " + role + " no tiene acceso a este recurso"})
		}
		return c.Next()
	}
}

// GetPrincipal devuelve el usuario autenticado (nil si la ruta es pública).
func GetPrincipal(c *fiber.Ctx) *auth.Principal {
	p, _ := c.Locals(LocalPrincipal).(*auth.Principal)
	return p
}

// GetCaller devuelve la identidad que consumen las reglas de policy.
// Sin principal devuelve un Caller vacío, que no ve ninguna fila.
func GetCaller(c *fiber.Ctx) policy.Caller {
	if p := GetPrincipal(c); p != nil {
		return p.Caller
	}
	return policy.Caller{}
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalUserID).(string)
	return s
}

// GetCompanyID devuelve el CompanyID del contexto; "" para cuentas sin empresa.
func GetCompanyID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalCompanyID).(string)
	return s
}

// GetRole devuelve el rol del contexto.
func GetRole(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalRole).(string)
	return s
}
