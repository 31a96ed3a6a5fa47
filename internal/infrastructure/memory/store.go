// Package memory implementa los puertos de persistencia en memoria.
// Lo usan los tests de casos de uso y de HTTP; respeta las mismas reglas que el esquema SQL:
// unicidad (empresa, username), referencias de la misma empresa y borrado en cascada.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/jhoicas/compras-api/internal/domain"
	"github.com/jhoicas/compras-api/internal/domain/entity"
	"github.com/jhoicas/compras-api/internal/domain/ledger"
	"github.com/jhoicas/compras-api/internal/domain/policy"
	"github.com/jhoicas/compras-api/internal/domain/repository"
)

// Store estado compartido por todos los repositorios en memoria.
type Store struct {
	mu        sync.Mutex
	companies map[string]entity.Company
	users     map[string]entity.User
	catalog   map[entity.CatalogKind]map[string]entity.CatalogEntry
	depots    map[string]entity.Depot
	lines     map[string]entity.PurchaseLine
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		companies: make(map[string]entity.Company),
		users:     make(map[string]entity.User),
		catalog: map[entity.CatalogKind]map[string]entity.CatalogEntry{
			entity.KindItem:      {},
			entity.KindUnit:      {},
			entity.KindMoneyType: {},
		},
		depots: make(map[string]entity.Depot),
		lines:  make(map[string]entity.PurchaseLine),
	}
}

// Companies repositorio de empresas.
func (s *Store) Companies() repository.CompanyRepository { return companyRepo{s} }

// Users repositorio de usuarios.
func (s *Store) Users() repository.UserRepository { return userRepo{s} }

// Catalog repositorio de catálogo.
func (s *Store) Catalog() repository.CatalogRepository { return catalogRepo{s} }

// Depots repositorio de depósitos.
func (s *Store) Depots() repository.DepotRepository { return depotRepo{s} }

// PurchaseLines repositorio del libro de compras.
func (s *Store) PurchaseLines() repository.PurchaseLineRepository { return lineRepo{s} }

// Cascade borrados en cascada.
func (s *Store) Cascade() repository.CascadeRepository { return cascadeRepo{s} }

func page[T any](rows []T, limit, offset int) []T {
	if offset >= len(rows) {
		return []T{}
	}
	rows = rows[offset:]
	if limit > 0 && limit < len(rows) {
		rows = rows[:limit]
	}
	return rows
}

// ──────────────────────────────────────────────────────────────────────────────
// Companies
// ──────────────────────────────────────────────────────────────────────────────

type companyRepo struct{ s *Store }

func (r companyRepo) Create(_ context.Context, c *entity.Company) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.companies {
		if existing.Token == c.Token {
			return domain.ErrConflict
		}
	}
	r.s.companies[c.ID] = *c
	return nil
}

func (r companyRepo) GetByID(_ context.Context, id string) (*entity.Company, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.companies[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r companyRepo) GetByToken(_ context.Context, token string) (*entity.Company, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, c := range r.s.companies {
		if c.Token == token {
			return &c, nil
		}
	}
	return nil, nil
}

func (r companyRepo) Update(_ context.Context, c *entity.Company) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.companies[c.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.companies[c.ID] = *c
	return nil
}

func (r companyRepo) List(_ context.Context, scope policy.Scope, limit, offset int) ([]*entity.Company, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Company
	for _, c := range r.s.companies {
		if scope.Permits(c.ID) {
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return page(out, limit, offset), nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Users
// ──────────────────────────────────────────────────────────────────────────────

type userRepo struct{ s *Store }

// taken emula el índice único (COALESCE(company_id,''), username). Requiere el lock.
func (r userRepo) taken(companyID, username, excludeID string) bool {
	for _, u := range r.s.users {
		if u.ID != excludeID && u.Company() == companyID && u.Username == username {
			return true
		}
	}
	return false
}

func (r userRepo) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.taken(u.Company(), u.Username, "") {
		return domain.ErrConflict
	}
	r.s.users[u.ID] = *u
	return nil
}

func (r userRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r userRepo) GetByUsername(_ context.Context, companyID, username string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Company() == companyID && u.Username == username {
			return &u, nil
		}
	}
	return nil, nil
}

func (r userRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var found *entity.User
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) && (found == nil || u.CreatedAt.Before(found.CreatedAt)) {
			found = &u
		}
	}
	return found, nil
}

func (r userRepo) GetByVerificationToken(_ context.Context, token string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.EmailVerificationToken != nil && *u.EmailVerificationToken == token {
			return &u, nil
		}
	}
	return nil, nil
}

func (r userRepo) Update(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[u.ID]; !ok {
		return domain.ErrNotFound
	}
	if r.taken(u.Company(), u.Username, u.ID) {
		return domain.ErrConflict
	}
	r.s.users[u.ID] = *u
	return nil
}

func (r userRepo) List(_ context.Context, scope policy.Scope, limit, offset int) ([]*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.User
	for _, u := range r.s.users {
		if scope.PermitsUser(&u) {
			out = append(out, &u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return page(out, limit, offset), nil
}

func (r userRepo) UsernameTaken(_ context.Context, companyID, username, excludeID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.taken(companyID, username, excludeID), nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Catalog
// ──────────────────────────────────────────────────────────────────────────────

type catalogRepo struct{ s *Store }

func (r catalogRepo) Create(_ context.Context, e *entity.CatalogEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.catalog[e.Kind][e.ID] = *e
	return nil
}

func (r catalogRepo) GetByID(_ context.Context, kind entity.CatalogKind, id string) (*entity.CatalogEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.catalog[kind][id]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (r catalogRepo) FindByName(_ context.Context, kind entity.CatalogKind, companyID, name string) (*entity.CatalogEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, e := range r.s.catalog[kind] {
		if e.CompanyID == companyID && strings.EqualFold(e.Name, name) {
			return &e, nil
		}
	}
	return nil, nil
}

func (r catalogRepo) Update(_ context.Context, e *entity.CatalogEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.catalog[e.Kind][e.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.catalog[e.Kind][e.ID] = *e
	return nil
}

func (r catalogRepo) List(_ context.Context, kind entity.CatalogKind, scope policy.Scope, limit, offset int) ([]*entity.CatalogEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.CatalogEntry
	for _, e := range r.s.catalog[kind] {
		if scope.Permits(e.CompanyID) {
			out = append(out, &e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return page(out, limit, offset), nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Depots
// ──────────────────────────────────────────────────────────────────────────────

type depotRepo struct{ s *Store }

func (r depotRepo) Create(_ context.Context, d *entity.Depot) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.depots[d.ID] = *d
	return nil
}

func (r depotRepo) GetByID(_ context.Context, id string) (*entity.Depot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d, ok := r.s.depots[id]
	if !ok {
		return nil, nil
	}
	return &d, nil
}

func (r depotRepo) Update(_ context.Context, d *entity.Depot) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.depots[d.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.depots[d.ID] = *d
	return nil
}

func (r depotRepo) List(_ context.Context, scope policy.Scope, limit, offset int) ([]*entity.Depot, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Depot
	for _, d := range r.s.depots {
		if scope.Permits(d.CompanyID) {
			out = append(out, &d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return page(out, limit, offset), nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Purchase lines
// ──────────────────────────────────────────────────────────────────────────────

type lineRepo struct{ s *Store }

// checkRefs emula las FK compuestas (ref_id, company_id). Requiere el lock.
func (r lineRepo) checkRefs(l *entity.PurchaseLine) error {
	refs := []struct {
		field string
		kind  entity.CatalogKind
		id    string
	}{
		{"item_id", entity.KindItem, l.ItemID},
		{"unit_id", entity.KindUnit, l.UnitID},
		{"currency_id", entity.KindMoneyType, l.CurrencyID},
	}
	for _, ref := range refs {
		if e, ok := r.s.catalog[ref.kind][ref.id]; !ok || e.CompanyID != l.CompanyID {
			return &domain.ValidationError{Field: ref.field, Code: domain.CodeCrossTenantReference, Message: "referencia inválida"}
		}
	}
	if d, ok := r.s.depots[l.DepotID]; !ok || d.CompanyID != l.CompanyID {
		return &domain.ValidationError{Field: "depot_id", Code: domain.CodeCrossTenantReference, Message: "referencia inválida"}
	}
	return nil
}

func (r lineRepo) view(l entity.PurchaseLine) *entity.PurchaseLineView {
	return &entity.PurchaseLineView{
		PurchaseLine: l,
		ItemName:     r.s.catalog[entity.KindItem][l.ItemID].Name,
		UnitName:     r.s.catalog[entity.KindUnit][l.UnitID].Name,
		CurrencyName: r.s.catalog[entity.KindMoneyType][l.CurrencyID].Name,
		DepotName:    r.s.depots[l.DepotID].Name,
	}
}

func (r lineRepo) Create(_ context.Context, l *entity.PurchaseLine) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.checkRefs(l); err != nil {
		return err
	}
	r.s.lines[l.ID] = *l
	return nil
}

func (r lineRepo) GetByID(_ context.Context, id string) (*entity.PurchaseLineView, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l, ok := r.s.lines[id]
	if !ok {
		return nil, nil
	}
	return r.view(l), nil
}

func (r lineRepo) Update(_ context.Context, l *entity.PurchaseLine) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.lines[l.ID]; !ok {
		return domain.ErrNotFound
	}
	if err := r.checkRefs(l); err != nil {
		return err
	}
	r.s.lines[l.ID] = *l
	return nil
}

func (r lineRepo) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.lines, id)
	return nil
}

func (r lineRepo) matching(scope policy.Scope, f repository.PurchaseLineFilter) []entity.PurchaseLine {
	var out []entity.PurchaseLine
	for _, l := range r.s.lines {
		if !scope.Permits(l.CompanyID) {
			continue
		}
		if f.DepotID != "" && l.DepotID != f.DepotID {
			continue
		}
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r lineRepo) List(_ context.Context, scope policy.Scope, f repository.PurchaseLineFilter, limit, offset int) ([]*entity.PurchaseLineView, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rows := page(r.matching(scope, f), limit, offset)
	out := make([]*entity.PurchaseLineView, 0, len(rows))
	for _, l := range rows {
		out = append(out, r.view(l))
	}
	return out, nil
}

func (r lineRepo) ListAll(ctx context.Context, scope policy.Scope, f repository.PurchaseLineFilter) ([]*entity.PurchaseLineView, error) {
	return r.List(ctx, scope, f, 0, 0)
}

func (r lineRepo) Sums(_ context.Context, scope policy.Scope, f repository.PurchaseLineFilter) ([]ledger.Sum, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var amounts []ledger.LineAmount
	for _, l := range r.matching(scope, f) {
		amounts = append(amounts, ledger.LineAmount{
			DepotID: l.DepotID, CurrencyID: l.CurrencyID, Quantity: l.Quantity, UnitPrice: l.UnitPrice,
		})
	}
	return ledger.FromLines(amounts), nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Cascade
// ──────────────────────────────────────────────────────────────────────────────

type cascadeRepo struct{ s *Store }

func (r cascadeRepo) DeleteCascade(_ context.Context, target repository.CascadeTarget, id string, dryRun bool) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	match := func(l entity.PurchaseLine) bool {
		switch target {
		case repository.CascadeItem:
			return l.ItemID == id
		case repository.CascadeUnit:
			return l.UnitID == id
		case repository.CascadeMoneyType:
			return l.CurrencyID == id
		case repository.CascadeDepot:
			return l.DepotID == id
		default:
			return l.CompanyID == id
		}
	}
	var n int64
	for lid, l := range r.s.lines {
		if match(l) {
			n++
			if !dryRun {
				delete(r.s.lines, lid)
			}
		}
	}
	if dryRun {
		return n, nil
	}
	switch target {
	case repository.CascadeItem:
		delete(r.s.catalog[entity.KindItem], id)
	case repository.CascadeUnit:
		delete(r.s.catalog[entity.KindUnit], id)
	case repository.CascadeMoneyType:
		delete(r.s.catalog[entity.KindMoneyType], id)
	case repository.CascadeDepot:
		delete(r.s.depots, id)
	case repository.CascadeCompany:
		for _, kind := range []entity.CatalogKind{entity.KindItem, entity.KindUnit, entity.KindMoneyType} {
			for eid, e := range r.s.catalog[kind] {
				if e.CompanyID == id {
					delete(r.s.catalog[kind], eid)
				}
			}
		}
		for did, d := range r.s.depots {
			if d.CompanyID == id {
				delete(r.s.depots, did)
			}
		}
		for uid, u := range r.s.users {
			if u.Company() == id {
				delete(r.s.users, uid)
			}
		}
		delete(r.s.companies, id)
	}
	return n, nil
}

func (r cascadeRepo) DeleteUser(_ context.Context, id string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return false, domain.ErrNotFound
	}
	for _, d := range r.s.depots {
		if d.CreatedBy == id {
			u.IsActive = false
			r.s.users[id] = u
			return true, nil
		}
	}
	delete(r.s.users, id)
	return false, nil
}
