package http_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ──────────────────────────────────────────────────────────────────────────────
// Catálogo
// ──────────────────────────────────────────────────────────────────────────────

func TestCatalog_EmpresaSaleDelLlamador(t *testing.T) {
	h := newHarness(t)
	resp := h.call(t, http.MethodPost, "/api/items", map[string]any{"name": "Cemento", "company_id": h.companyB.ID}, h.userA)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode(t, resp)
	assert.Equal(t, h.companyA.ID, created["company_id"], "la empresa del cuerpo se ignora")

	resp = h.call(t, http.MethodGet, "/api/items/"+created["id"].(string), nil, h.adminB)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = h.call(t, http.MethodGet, "/api/items", nil, h.adminB)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decode(t, resp)["items"])
}

func TestCatalog_MonedaSeNormaliza(t *testing.T) {
	h := newHarness(t)
	resp := h.call(t, http.MethodPost, "/api/money-types", map[string]any{"name": " eur "}, h.userA)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "EUR", decode(t, resp)["name"])
}

func TestCatalog_NombreObligatorio(t *testing.T) {
	h := newHarness(t)
	resp := h.call(t, http.MethodPost, "/api/units", map[string]any{}, h.userA)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "name", decode(t, resp)["field"])
}

func TestCatalog_SuperadminSinEmpresaNoCrea(t *testing.T) {
	h := newHarness(t)
	resp := h.call(t, http.MethodPost, "/api/units", map[string]any{"name": "kg"}, h.root)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestCatalog_BorrarArticuloArrastraCompras(t *testing.T) {
	h := newHarness(t)
	r := h.addRefs(t, h.userA)
	h.call(t, http.MethodPost, "/api/purchase-lines", r.line("1", "1"), h.userA)
	h.call(t, http.MethodPost, "/api/purchase-lines", r.line("2", "2"), h.userA)

	path := "/api/items/" + r.item.ID
	resp := h.call(t, http.MethodDelete, path+"?dry_run=true", nil, h.userA)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode(t, resp)
	assert.Equal(t, true, body["dry_run"])
	assert.Equal(t, float64(2), body["cascaded_purchase_lines"])

	resp = h.call(t, http.MethodDelete, path, nil, h.userA)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, decode(t, resp)["deleted"])

	resp = h.call(t, http.MethodGet, "/api/purchase-lines/total", nil, h.userA)
	assert.Equal(t, "0", decode(t, resp)["total"])
}
