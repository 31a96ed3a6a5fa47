package http_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ──────────────────────────────────────────────────────────────────────────────
// Depósitos
// ──────────────────────────────────────────────────────────────────────────────

func TestDepot_CrudYAislamiento(t *testing.T) {
	h := newHarness(t)
	resp := h.call(t, http.MethodPost, "/api/depots", map[string]any{"name": "Central"}, h.userA)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode(t, resp)
	assert.Equal(t, h.userA.ID, created["created_by"])
	path := "/api/depots/" + created["id"].(string)

	resp = h.call(t, http.MethodPut, path, map[string]any{"name": "Norte"}, h.adminA)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Norte", decode(t, resp)["name"])

	resp = h.call(t, http.MethodPut, path, map[string]any{"name": "Robado"}, h.adminB)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = h.call(t, http.MethodDelete, path, nil, h.adminB)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = h.call(t, http.MethodDelete, path, nil, h.userA)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = h.call(t, http.MethodGet, path, nil, h.userA)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
