package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/compras-api/internal/domain/entity"
	"github.com/jhoicas/compras-api/internal/domain/policy"
	"github.com/jhoicas/compras-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fixture: dos empresas con un admin y un usuario cada una sobre el store en memoria
// ──────────────────────────────────────────────────────────────────────────────

type fixture struct {
	store    *memory.Store
	companyA *entity.Company
	companyB *entity.Company
	adminA   policy.Caller
	userA    policy.Caller
	adminB   policy.Caller
	root     policy.Caller
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{store: memory.NewStore()}
	f.companyA = f.addCompany(t, "Acme")
	f.companyB = f.addCompany(t, "Globex")
	f.adminA = f.addUser(t, "ana", f.companyA.ID, entity.RoleAdmin)
	f.userA = f.addUser(t, "pepe", f.companyA.ID, entity.RoleUser)
	f.adminB = f.addUser(t, "bruno", f.companyB.ID, entity.RoleAdmin)
	f.root = f.addUser(t, "root", "", entity.RoleSuperadmin)
	return f
}

func (f *fixture) addCompany(t *testing.T, name string) *entity.Company {
	t.Helper()
	c := &entity.Company{ID: uuid.NewString(), Token: entity.NewCompanyToken(), Name: name, IsActive: true}
	require.NoError(t, f.store.Companies().Create(context.Background(), c))
	return c
}

func (f *fixture) addUser(t *testing.T, username, companyID string, role entity.Role) policy.Caller {
	t.Helper()
	u := &entity.User{
		ID:              uuid.NewString(),
		CompanyID:       entity.StringPtr(companyID),
		Username:        username,
		Email:           username + "@example.com",
		IsActive:        true,
		IsEmailVerified: true,
	}
	u.SetRole(role)
	require.NoError(t, f.store.Users().Create(context.Background(), u))
	return policy.CallerFromUser(u)
}

func (f *fixture) addEntry(t *testing.T, kind entity.CatalogKind, companyID, name string) *entity.CatalogEntry {
	t.Helper()
	e := &entity.CatalogEntry{ID: uuid.NewString(), CompanyID: companyID, Kind: kind, Name: name}
	require.NoError(t, f.store.Catalog().Create(context.Background(), e))
	return e
}

func (f *fixture) addDepot(t *testing.T, owner policy.Caller, name string) *entity.Depot {
	t.Helper()
	d := &entity.Depot{ID: uuid.NewString(), CompanyID: owner.CompanyID, Name: name, CreatedBy: owner.UserID}
	require.NoError(t, f.store.Depots().Create(context.Background(), d))
	return d
}

// refs catálogo mínimo de una empresa para registrar compras.
type refs struct {
	item, unit, currency *entity.CatalogEntry
	depot                *entity.Depot
}

func (f *fixture) addRefs(t *testing.T, owner policy.Caller) refs {
	t.Helper()
	return refs{
		item:     f.addEntry(t, entity.KindItem, owner.CompanyID, "Widget"),
		unit:     f.addEntry(t, entity.KindUnit, owner.CompanyID, "pcs"),
		currency: f.addEntry(t, entity.KindMoneyType, owner.CompanyID, "USD"),
		depot:    f.addDepot(t, owner, "Central"),
	}
}

func (f *fixture) addLine(t *testing.T, r refs, qty, price string) *entity.PurchaseLine {
	t.Helper()
	l := &entity.PurchaseLine{
		ID:         uuid.NewString(),
		CompanyID:  r.depot.CompanyID,
		ItemID:     r.item.ID,
		Quantity:   decimal.RequireFromString(qty),
		UnitID:     r.unit.ID,
		UnitPrice:  decimal.RequireFromString(price),
		CurrencyID: r.currency.ID,
		DepotID:    r.depot.ID,
		CreatedAt:  time.Now(),
	}
	require.NoError(t, f.store.PurchaseLines().Create(context.Background(), l))
	return l
}

func scopeOf(c policy.Caller) policy.Scope {
	return policy.ScopeFor(c, policy.ResourcePurchaseLine)
}
