package entity

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

// Role rol de un usuario.
type Role string

// Roles válidos para User.
const (
	RoleUser       Role = "user"
	RoleAdmin      Role = "admin"
	RoleSuperadmin Role = "superadmin"
)

// ParseRole valida un rol recibido como texto. Vacío = RoleUser.
func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case "":
		return RoleUser, nil
	case RoleUser, RoleAdmin, RoleSuperadmin:
		return r, nil
	default:
		return "", fmt.Errorf("rol desconocido %q", s)
	}
}

// IsAdminOrAbove informa si el rol puede administrar usuarios.
func (r Role) IsAdminOrAbove() bool {
	return r == RoleAdmin || r == RoleSuperadmin
}

// PrivilegeFlags banderas de privilegio elevado derivadas del rol.
type PrivilegeFlags struct {
	IsStaff     bool
	IsSuperuser bool
}

// DeriveFlags: superadmin ⇔ ambas banderas activas; cualquier otro rol las limpia.
func DeriveFlags(role Role) PrivilegeFlags {
	if role == RoleSuperadmin {
		return PrivilegeFlags{IsStaff: true, IsSuperuser: true}
	}
	return PrivilegeFlags{}
}

// User representa un usuario del sistema. CompanyID es nil solo para cuentas sin empresa
// (el superadmin sembrado al instalar).
type User struct {
	ID                     string
	CompanyID              *string
	Username               string
	Email                  string
	PasswordHash           string // bcrypt hash, nunca plano
	Role                   Role
	IsStaff                bool
	IsSuperuser            bool
	IsActive               bool
	IsEmailVerified        bool
	EmailVerificationToken *string // de un solo uso
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// SetRole asigna el rol y recalcula las banderas de privilegio. Debe llamarse antes de persistir.
func (u *User) SetRole(role Role) {
	u.Role = role
	flags := DeriveFlags(role)
	u.IsStaff = flags.IsStaff
	u.IsSuperuser = flags.IsSuperuser
}

// Company devuelve el ID de empresa o "" si no tiene.
func (u *User) Company() string {
	if u.CompanyID == nil {
		return ""
	}
	return *u.CompanyID
}

// NormalizeUsername recorta y normaliza a NFC para que la unicidad (username, company) sea estable.
func NormalizeUsername(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// StringPtr devuelve nil para "" y un puntero al valor en otro caso.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
