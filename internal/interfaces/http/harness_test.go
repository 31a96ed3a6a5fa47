package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/compras-api/internal/application/auth"
	"github.com/jhoicas/compras-api/internal/application/ports"
	"github.com/jhoicas/compras-api/internal/application/usecase"
	"github.com/jhoicas/compras-api/internal/domain/entity"
	"github.com/jhoicas/compras-api/internal/infrastructure/cache"
	"github.com/jhoicas/compras-api/internal/infrastructure/export"
	"github.com/jhoicas/compras-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/compras-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/compras-api/pkg/jwt"
	"github.com/jhoicas/compras-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Harness: API completa sobre el store en memoria
// ──────────────────────────────────────────────────────────────────────────────

const (
	testPassword = "secreto123"
	testIssuer   = "compras-api-test"
)

var testJWT = auth.JWTConfig{Secret: "test-secret-key-for-unit-tests", ExpMinutes: 60, Issuer: testIssuer}

// stubExtractor devuelve líneas o error fijos.
type stubExtractor struct {
	mu    sync.Mutex
	lines []ports.ExtractedLine
	err   error
	mime  string
}

func (s *stubExtractor) Extract(_ context.Context, _ []byte, mimeType string) ([]ports.ExtractedLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mime = mimeType
	return s.lines, s.err
}

type harness struct {
	app       *fiber.App
	store     *memory.Store
	extractor *stubExtractor
	companyA  *entity.Company
	companyB  *entity.Company
	adminA    *entity.User
	userA     *entity.User
	adminB    *entity.User
	root      *entity.User
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{store: memory.NewStore(), extractor: &stubExtractor{}}
	h.companyA = h.addCompany(t, "Acme")
	h.companyB = h.addCompany(t, "Globex")
	h.adminA = h.addUser(t, "ana", h.companyA.ID, entity.RoleAdmin)
	h.userA = h.addUser(t, "pepe", h.companyA.ID, entity.RoleUser)
	h.adminB = h.addUser(t, "bruno", h.companyB.ID, entity.RoleAdmin)
	h.root = h.addUser(t, "root", "", entity.RoleSuperadmin)

	s := h.store
	revocations := cache.NewMemoryRevocationStore()
	deps := apphttp.RouterDeps{
		AuthUC:    auth.NewAuthUseCase(s.Users(), s.Companies(), revocations, testJWT, true),
		CompanyUC: usecase.NewCompanyUseCase(s.Companies(), s.Cascade()),
		UserUC: usecase.NewUserUseCase(usecase.UserUseCaseConfig{
			Users:       s.Users(),
			Companies:   s.Companies(),
			Cascade:     s.Cascade(),
			Revocations: revocations,
			SessionTTL:  testJWT.TTL(),
		}),
		ItemUC:         usecase.NewCatalogUseCase(entity.KindItem, s.Catalog(), s.Cascade()),
		UnitUC:         usecase.NewCatalogUseCase(entity.KindUnit, s.Catalog(), s.Cascade()),
		MoneyTypeUC:    usecase.NewCatalogUseCase(entity.KindMoneyType, s.Catalog(), s.Cascade()),
		DepotUC:        usecase.NewDepotUseCase(s.Depots(), s.Cascade()),
		PurchaseLineUC: usecase.NewPurchaseLineUseCase(s.PurchaseLines(), s.Catalog(), s.Depots()),
		LedgerUC:       usecase.NewLedgerUseCase(s.PurchaseLines(), s.Depots(), s.Catalog(), export.All()),
		ScanUC:         usecase.NewScanUseCase(h.extractor, s.Catalog(), "UZS"),
		MaxImageBytes:  1 << 20,
	}

	h.app = fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler(logger.Nop())})
	h.app.Use(recover.New())
	h.app.Use(apphttp.RequestLogger(logger.Nop()))
	apphttp.Router(h.app, deps)
	return h
}

func (h *harness) addCompany(t *testing.T, name string) *entity.Company {
	t.Helper()
	c := &entity.Company{ID: uuid.NewString(), Token: entity.NewCompanyToken(), Name: name, IsActive: true}
	require.NoError(t, h.store.Companies().Create(context.Background(), c))
	return c
}

func (h *harness) addUser(t *testing.T, username, companyID string, role entity.Role) *entity.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)
	u := &entity.User{
		ID:              uuid.NewString(),
		CompanyID:       entity.StringPtr(companyID),
		Username:        username,
		Email:           username + "@example.com",
		PasswordHash:    string(hash),
		IsActive:        true,
		IsEmailVerified: true,
	}
	u.SetRole(role)
	require.NoError(t, h.store.Users().Create(context.Background(), u))
	return u
}

func (h *harness) addEntry(t *testing.T, kind entity.CatalogKind, companyID, name string) *entity.CatalogEntry {
	t.Helper()
	e := &entity.CatalogEntry{ID: uuid.NewString(), CompanyID: companyID, Kind: kind, Name: name}
	require.NoError(t, h.store.Catalog().Create(context.Background(), e))
	return e
}

func (h *harness) addDepot(t *testing.T, owner *entity.User, name string) *entity.Depot {
	t.Helper()
	d := &entity.Depot{ID: uuid.NewString(), CompanyID: owner.Company(), Name: name, CreatedBy: owner.ID}
	require.NoError(t, h.store.Depots().Create(context.Background(), d))
	return d
}

// refs catálogo mínimo de una empresa.
type refs struct {
	item, unit, currency *entity.CatalogEntry
	depot                *entity.Depot
}

func (h *harness) addRefs(t *testing.T, owner *entity.User) refs {
	t.Helper()
	return refs{
		item:     h.addEntry(t, entity.KindItem, owner.Company(), "Widget"),
		unit:     h.addEntry(t, entity.KindUnit, owner.Company(), "pcs"),
		currency: h.addEntry(t, entity.KindMoneyType, owner.Company(), "USD"),
		depot:    h.addDepot(t, owner, "Central"),
	}
}

func (r refs) line(qty, price any) map[string]any {
	return map[string]any{
		"item_id":     r.item.ID,
		"quantity":    qty,
		"unit_id":     r.unit.ID,
		"unit_price":  price,
		"currency_id": r.currency.ID,
		"depot_id":    r.depot.ID,
	}
}

// token emite un JWT válido para el usuario.
func token(t *testing.T, u *entity.User) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWT.Secret, u.ID, u.Company(), string(u.Role), testIssuer, testJWT.ExpMinutes)
	require.NoError(t, err)
	return tok
}

// call hace una petición JSON; as == nil la envía sin Authorization.
func (h *harness) call(t *testing.T, method, path string, body any, as *entity.User) *http.Response {
	t.Helper()
	bearer := ""
	if as != nil {
		bearer = token(t, as)
	}
	return h.callWithToken(t, method, path, body, bearer)
}

func (h *harness) callWithToken(t *testing.T, method, path string, body any, bearer string) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if bearer != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+bearer)
	}
	resp, err := h.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// decode lee el cuerpo JSON como mapa genérico.
func decode(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}
