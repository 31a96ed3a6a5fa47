// Package policy concentra las reglas de aislamiento por empresa y de autorización.
//
// Todas las operaciones sobre catálogo, depósitos, libro de compras, usuarios y empresas
// pasan por aquí: ScopeFor decide qué filas ve el llamador y las funciones Authorize*
// deciden si puede mutarlas. Las lecturas se degradan a un alcance vacío; las mutaciones
// fallan con domain.ErrForbidden o domain.ErrNotFound (nunca se filtran en silencio).
package policy

import (
	"github.com/jhoicas/compras-api/internal/domain"
	"github.com/jhoicas/compras-api/internal/domain/entity"
)

// Resource tipo de recurso protegido.
type Resource string

const (
	ResourceCompany      Resource = "company"
	ResourceUser         Resource = "user"
	ResourceItem         Resource = "item"
	ResourceUnit         Resource = "unit"
	ResourceMoneyType    Resource = "money_type"
	ResourceDepot        Resource = "depot"
	ResourcePurchaseLine Resource = "purchase_line"
)

// CatalogResource traduce un tipo de catálogo a su recurso.
func CatalogResource(kind entity.CatalogKind) Resource {
	switch kind {
	case entity.KindItem:
		return ResourceItem
	case entity.KindUnit:
		return ResourceUnit
	default:
		return ResourceMoneyType
	}
}

// Caller identidad del que hace la petición, cargada desde el usuario persistido.
type Caller struct {
	UserID    string
	CompanyID string // "" = sin empresa
	Role      entity.Role
}

// CallerFromUser construye el Caller a partir del usuario persistido.
func CallerFromUser(u *entity.User) Caller {
	return Caller{UserID: u.ID, CompanyID: u.Company(), Role: u.Role}
}

// HasCompany informa si el llamador pertenece a una empresa.
func (c Caller) HasCompany() bool { return c.CompanyID != "" }

// IsSuperadmin informa si el llamador tiene capacidad de superusuario.
func (c Caller) IsSuperadmin() bool { return c.Role == entity.RoleSuperadmin }

// ScopeKind forma del filtro de lectura.
type ScopeKind int

const (
	ScopeNone    ScopeKind = iota // ninguna fila
	ScopeAll                      // todas las filas
	ScopeCompany                  // filas de una empresa
	ScopeSelf                     // solo el propio usuario
)

// Scope subconjunto de filas visible para un llamador.
type Scope struct {
	Kind      ScopeKind
	CompanyID string
	UserID    string
}

// None alcance vacío.
func None() Scope { return Scope{Kind: ScopeNone} }

// All alcance global.
func All() Scope { return Scope{Kind: ScopeAll} }

// Company alcance de una empresa.
func Company(id string) Scope { return Scope{Kind: ScopeCompany, CompanyID: id} }

// Self alcance del propio usuario.
func Self(userID string) Scope { return Scope{Kind: ScopeSelf, UserID: userID} }

// Permits informa si una fila perteneciente a companyID está dentro del alcance.
func (s Scope) Permits(companyID string) bool {
	switch s.Kind {
	case ScopeAll:
		return true
	case ScopeCompany:
		return companyID != "" && companyID == s.CompanyID
	default:
		return false
	}
}

// PermitsUser informa si el usuario está dentro del alcance.
func (s Scope) PermitsUser(u *entity.User) bool {
	if u == nil {
		return false
	}
	switch s.Kind {
	case ScopeAll:
		return true
	case ScopeCompany:
		return u.Company() != "" && u.Company() == s.CompanyID
	case ScopeSelf:
		return u.ID == s.UserID
	default:
		return false
	}
}

// globalForSuperadmin recursos que el superadmin lista sin filtro de empresa.
var globalForSuperadmin = map[Resource]bool{
	ResourceCompany: true,
	ResourceUser:    true,
	ResourceItem:    true,
}

// ScopeFor calcula el alcance de lectura de un llamador sobre un tipo de recurso.
func ScopeFor(c Caller, r Resource) Scope {
	if c.IsSuperadmin() && globalForSuperadmin[r] {
		return All()
	}
	if r == ResourceUser {
		if c.Role.IsAdminOrAbove() && c.HasCompany() {
			return Company(c.CompanyID)
		}
		// Un usuario común (o sin empresa) siempre puede verse a sí mismo.
		return Self(c.UserID)
	}
	if !c.HasCompany() {
		return None()
	}
	return Company(c.CompanyID)
}

// AuthorizeCreate devuelve la empresa que se estampa en la fila nueva.
// La empresa enviada por el cliente nunca se usa.
func AuthorizeCreate(c Caller, r Resource) (string, error) {
	switch r {
	case ResourceCompany:
		if !c.IsSuperadmin() {
			return "", domain.ErrForbidden
		}
		return "", nil
	case ResourceUser:
		if !c.Role.IsAdminOrAbove() {
			return "", domain.ErrForbidden
		}
		return c.CompanyID, nil
	}
	if !c.HasCompany() {
		return "", domain.ErrForbidden
	}
	return c.CompanyID, nil
}

// AuthorizeOwned verifica que una fila existente de r con empresa rowCompany esté en el alcance del llamador.
// Fuera de alcance se informa como ErrNotFound para no revelar filas de otras empresas.
func AuthorizeOwned(c Caller, r Resource, rowCompany string) error {
	if !ScopeFor(c, r).Permits(rowCompany) {
		return domain.ErrNotFound
	}
	return nil
}

// AuthorizeCompanyMutation solo el superadmin crea, edita o elimina empresas.
func AuthorizeCompanyMutation(c Caller, companyID string) error {
	if !ScopeFor(c, ResourceCompany).Permits(companyID) {
		return domain.ErrNotFound
	}
	if !c.IsSuperadmin() {
		return domain.ErrForbidden
	}
	return nil
}

// AuthorizeDepotAggregate: el total por depósito exige que el depósito sea de la empresa del llamador.
// A diferencia de AuthorizeOwned, responde con permiso denegado y no con "no encontrado".
func AuthorizeDepotAggregate(c Caller, depotCompany string) error {
	if !c.HasCompany() || depotCompany != c.CompanyID {
		return domain.ErrForbidden
	}
	return nil
}

// UserAction acción sobre un usuario existente.
type UserAction string

const (
	ActionRead   UserAction = "read"
	ActionUpdate UserAction = "update"
	ActionDelete UserAction = "delete"
)

// AuthorizeUserMutation decide si el llamador puede ejecutar action sobre target.
// Un objetivo fuera del alcance de lectura es ErrNotFound; dentro del alcance pero sin permiso, ErrForbidden.
func AuthorizeUserMutation(c Caller, action UserAction, target *entity.User) error {
	if !ScopeFor(c, ResourceUser).PermitsUser(target) {
		return domain.ErrNotFound
	}
	if action == ActionRead {
		return nil
	}
	self := target.ID == c.UserID
	switch c.Role {
	case entity.RoleSuperadmin:
		if target.Role == entity.RoleSuperadmin && !self {
			return domain.ErrForbidden
		}
	case entity.RoleAdmin:
		if target.Role == entity.RoleSuperadmin {
			return domain.ErrForbidden
		}
	default:
		if !self || action == ActionDelete {
			return domain.ErrForbidden
		}
	}
	return nil
}

// UserChange campos sensibles pedidos en una actualización; nil = sin cambio.
type UserChange struct {
	Role      *entity.Role
	CompanyID *string
}

// GuardUserChange impide la escalada de privilegios: solo administradores cambian roles,
// nadie salvo el superadmin otorga superadmin y solo el superadmin reasigna empresa.
func GuardUserChange(c Caller, target *entity.User, ch UserChange) error {
	roleChanged := ch.Role != nil && *ch.Role != target.Role
	companyChanged := ch.CompanyID != nil && *ch.CompanyID != target.Company()
	if !roleChanged && !companyChanged {
		return nil
	}
	if !c.Role.IsAdminOrAbove() {
		return domain.ErrForbidden
	}
	if roleChanged && *ch.Role == entity.RoleSuperadmin && !c.IsSuperadmin() {
		return domain.ErrForbidden
	}
	if companyChanged && !c.IsSuperadmin() {
		return domain.ErrForbidden
	}
	return nil
}

// AuthorizeUserCreate devuelve la empresa del usuario nuevo.
// El admin siempre crea en su empresa (la empresa pedida se ignora); el superadmin puede nombrar una.
func AuthorizeUserCreate(c Caller, role entity.Role, requestedCompany string) (string, error) {
	companyID, err := AuthorizeCreate(c, ResourceUser)
	if err != nil {
		return "", err
	}
	if role == entity.RoleSuperadmin && !c.IsSuperadmin() {
		return "", domain.ErrForbidden
	}
	if c.IsSuperadmin() && requestedCompany != "" {
		companyID = requestedCompany
	}
	if companyID == "" && role != entity.RoleSuperadmin {
		return "", domain.NewValidationError("company_id", "el usuario debe pertenecer a una empresa")
	}
	return companyID, nil
}
