package policy_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/compras-api/internal/domain"
	"github.com/jhoicas/compras-api/internal/domain/entity"
	"github.com/jhoicas/compras-api/internal/domain/policy"
)

const (
	companyA = "00000000-0000-0000-0000-00000000000a"
	companyB = "00000000-0000-0000-0000-00000000000b"
)

func caller(id, company string, role entity.Role) policy.Caller {
	return policy.Caller{UserID: id, CompanyID: company, Role: role}
}

func user(id, company string, role entity.Role) *entity.User {
	u := &entity.User{ID: id, CompanyID: entity.StringPtr(company), Username: id, IsActive: true}
	u.SetRole(role)
	return u
}

// ──────────────────────────────────────────────────────────────────────────────
// ScopeFor
// ──────────────────────────────────────────────────────────────────────────────

func TestScopeFor_UsuarioConEmpresaVeSoloSuEmpresa(t *testing.T) {
	c := caller("u1", companyA, entity.RoleUser)
	for _, r := range []policy.Resource{
		policy.ResourceItem, policy.ResourceUnit, policy.ResourceMoneyType,
		policy.ResourceDepot, policy.ResourcePurchaseLine,
	} {
		s := policy.ScopeFor(c, r)
		assert.Equal(t, policy.ScopeCompany, s.Kind, "recurso %s", r)
		assert.True(t, s.Permits(companyA))
		assert.False(t, s.Permits(companyB))
	}
}

func TestScopeFor_SinEmpresaNoVeNada(t *testing.T) {
	c := caller("u1", "", entity.RoleAdmin)
	s := policy.ScopeFor(c, policy.ResourceDepot)
	assert.Equal(t, policy.ScopeNone, s.Kind)
	assert.False(t, s.Permits(companyA))
	assert.False(t, s.Permits(""))

	// Pero siempre puede verse a sí mismo.
	us := policy.ScopeFor(c, policy.ResourceUser)
	assert.Equal(t, policy.ScopeSelf, us.Kind)
	assert.True(t, us.PermitsUser(user("u1", "", entity.RoleAdmin)))
}

func TestScopeFor_Superadmin(t *testing.T) {
	c := caller("root", "", entity.RoleSuperadmin)
	assert.Equal(t, policy.ScopeAll, policy.ScopeFor(c, policy.ResourceUser).Kind)
	assert.Equal(t, policy.ScopeAll, policy.ScopeFor(c, policy.ResourceCompany).Kind)
	assert.Equal(t, policy.ScopeAll, policy.ScopeFor(c, policy.ResourceItem).Kind)
	// El libro de compras sigue aislado por empresa.
	assert.Equal(t, policy.ScopeNone, policy.ScopeFor(c, policy.ResourcePurchaseLine).Kind)
}

func TestScopeFor_UsuariosPorRol(t *testing.T) {
	admin := caller("a", companyA, entity.RoleAdmin)
	s := policy.ScopeFor(admin, policy.ResourceUser)
	assert.True(t, s.PermitsUser(user("x", companyA, entity.RoleUser)))
	assert.False(t, s.PermitsUser(user("y", companyB, entity.RoleUser)))

	plain := caller("u", companyA, entity.RoleUser)
	s = policy.ScopeFor(plain, policy.ResourceUser)
	assert.True(t, s.PermitsUser(user("u", companyA, entity.RoleUser)))
	assert.False(t, s.PermitsUser(user("x", companyA, entity.RoleUser)))
}

// ──────────────────────────────────────────────────────────────────────────────
// AuthorizeCreate / AuthorizeOwned
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthorizeCreate_EstampaEmpresaDelLlamador(t *testing.T) {
	id, err := policy.AuthorizeCreate(caller("u", companyA, entity.RoleUser), policy.ResourceItem)
	require.NoError(t, err)
	assert.Equal(t, companyA, id)

	_, err = policy.AuthorizeCreate(caller("u", "", entity.RoleUser), policy.ResourceItem)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = policy.AuthorizeCreate(caller("a", companyA, entity.RoleAdmin), policy.ResourceCompany)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestAuthorizeOwned_OtraEmpresaEsNotFound(t *testing.T) {
	c := caller("u", companyA, entity.RoleAdmin)
	assert.NoError(t, policy.AuthorizeOwned(c, policy.ResourceDepot, companyA))
	assert.ErrorIs(t, policy.AuthorizeOwned(c, policy.ResourceDepot, companyB), domain.ErrNotFound)
}

func TestAuthorizeDepotAggregate_OtraEmpresaEsForbidden(t *testing.T) {
	c := caller("u", companyA, entity.RoleUser)
	assert.NoError(t, policy.AuthorizeDepotAggregate(c, companyA))
	assert.ErrorIs(t, policy.AuthorizeDepotAggregate(c, companyB), domain.ErrForbidden)
	assert.ErrorIs(t, policy.AuthorizeDepotAggregate(caller("r", "", entity.RoleSuperadmin), companyA), domain.ErrForbidden)
}

// ──────────────────────────────────────────────────────────────────────────────
// Usuarios
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthorizeUserMutation_Matriz(t *testing.T) {
	root := caller("root", "", entity.RoleSuperadmin)
	admin := caller("admin", companyA, entity.RoleAdmin)
	plain := caller("plain", companyA, entity.RoleUser)

	otherRoot := user("root2", "", entity.RoleSuperadmin)
	selfPlain := user("plain", companyA, entity.RoleUser)
	mate := user("mate", companyA, entity.RoleUser)
	foreign := user("foreign", companyB, entity.RoleAdmin)

	tests := []struct {
		name   string
		c      policy.Caller
		action policy.UserAction
		target *entity.User
		want   error
	}{
		{"superadmin edita cualquiera", root, policy.ActionUpdate, foreign, nil},
		{"superadmin no edita otro superadmin", root, policy.ActionDelete, otherRoot, domain.ErrForbidden},
		{"admin edita compañero", admin, policy.ActionUpdate, mate, nil},
		{"admin borra compañero", admin, policy.ActionDelete, mate, nil},
		{"admin no ve otra empresa", admin, policy.ActionUpdate, foreign, domain.ErrNotFound},
		{"usuario lee a sí mismo", plain, policy.ActionRead, selfPlain, nil},
		{"usuario edita a sí mismo", plain, policy.ActionUpdate, selfPlain, nil},
		{"usuario no se borra", plain, policy.ActionDelete, selfPlain, domain.ErrForbidden},
		{"usuario no ve compañero", plain, policy.ActionRead, mate, domain.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := policy.AuthorizeUserMutation(tt.c, tt.action, tt.target)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestGuardUserChange_AutoEscaladaRechazada(t *testing.T) {
	plain := caller("plain", companyA, entity.RoleUser)
	target := user("plain", companyA, entity.RoleUser)

	admin := entity.RoleAdmin
	err := policy.GuardUserChange(plain, target, policy.UserChange{Role: &admin})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	other := companyB
	err = policy.GuardUserChange(plain, target, policy.UserChange{CompanyID: &other})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	// Mismo valor = sin cambio.
	same := entity.RoleUser
	assert.NoError(t, policy.GuardUserChange(plain, target, policy.UserChange{Role: &same}))
}

func TestGuardUserChange_AdminNoOtorgaSuperadmin(t *testing.T) {
	admin := caller("admin", companyA, entity.RoleAdmin)
	target := user("mate", companyA, entity.RoleUser)

	promote := entity.RoleAdmin
	assert.NoError(t, policy.GuardUserChange(admin, target, policy.UserChange{Role: &promote}))

	super := entity.RoleSuperadmin
	assert.ErrorIs(t, policy.GuardUserChange(admin, target, policy.UserChange{Role: &super}), domain.ErrForbidden)

	move := companyB
	assert.ErrorIs(t, policy.GuardUserChange(admin, target, policy.UserChange{CompanyID: &move}), domain.ErrForbidden)

	root := caller("root", "", entity.RoleSuperadmin)
	assert.NoError(t, policy.GuardUserChange(root, target, policy.UserChange{CompanyID: &move, Role: &super}))
}

func TestAuthorizeUserCreate(t *testing.T) {
	admin := caller("admin", companyA, entity.RoleAdmin)
	id, err := policy.AuthorizeUserCreate(admin, entity.RoleUser, companyB)
	require.NoError(t, err)
	assert.Equal(t, companyA, id, "la empresa pedida por un admin se ignora")

	_, err = policy.AuthorizeUserCreate(admin, entity.RoleSuperadmin, "")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = policy.AuthorizeUserCreate(caller("p", companyA, entity.RoleUser), entity.RoleUser, "")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	root := caller("root", "", entity.RoleSuperadmin)
	id, err = policy.AuthorizeUserCreate(root, entity.RoleAdmin, companyB)
	require.NoError(t, err)
	assert.Equal(t, companyB, id)

	_, err = policy.AuthorizeUserCreate(root, entity.RoleAdmin, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
