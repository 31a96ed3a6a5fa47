package http_test

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/compras-api/internal/domain/entity"
)

func login(t *testing.T, h *harness, path, username string) string {
	t.Helper()
	resp := h.call(t, http.MethodPost, path, map[string]any{"username": username, "password": testPassword}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode(t, resp)
	tok, _ := body["token"].(string)
	require.NotEmpty(t, tok)
	return tok
}

func TestLogin_PorEnlaceDeEmpresa(t *testing.T) {
	h := newHarness(t)
	tok := login(t, h, "/api/auth/"+h.companyA.Token+"/login", "ana")

	resp := h.callWithToken(t, http.MethodGet, "/api/users/me", nil, tok)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ana", decode(t, resp)["username"])
}

func TestLogin_UsuarioDeOtraEmpresa_CredencialesInvalidas(t *testing.T) {
	h := newHarness(t)
	resp := h.call(t, http.MethodPost, "/api/auth/"+h.companyB.Token+"/login",
		map[string]any{"username": "ana", "password": testPassword}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_CREDENTIALS", decode(t, resp)["code"])
}

func TestLogin_EnlaceDesconocido(t *testing.T) {
	h := newHarness(t)
	resp := h.call(t, http.MethodPost, "/api/auth/no-existe/login",
		map[string]any{"username": "ana", "password": testPassword}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_COMPANY_LINK", decode(t, resp)["code"])
}

func TestLogin_CuerpoIncompleto(t *testing.T) {
	h := newHarness(t)
	resp := h.call(t, http.MethodPost, "/api/auth/"+h.companyA.Token+"/login", map[string]any{"username": "ana"}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decode(t, resp)
	assert.Equal(t, "VALIDATION", body["code"])
	assert.Equal(t, "password", body["field"])
}

func TestLogin_SuperadminSinEmpresa(t *testing.T) {
	h := newHarness(t)
	tok := login(t, h, "/api/auth/login", "root")

	resp := h.callWithToken(t, http.MethodGet, "/api/companies", nil, tok)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	items, _ := decode(t, resp)["items"].([]any)
	assert.Len(t, items, 2)
}

func TestLogout_RevocaElToken(t *testing.T) {
	h := newHarness(t)
	tok := login(t, h, "/api/auth/"+h.companyA.Token+"/login", "pepe")

	resp := h.callWithToken(t, http.MethodPost, "/api/auth/logout", nil, tok)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = h.callWithToken(t, http.MethodGet, "/api/users/me", nil, tok)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestChangePassword_EmiteTokenNuevoYRevocaElAnterior(t *testing.T) {
	h := newHarness(t)
	old := login(t, h, "/api/auth/"+h.companyA.Token+"/login", "pepe")

	resp := h.callWithToken(t, http.MethodPost, "/api/auth/change-password", map[string]any{
		"current_password": testPassword, "new_password": "otra-clave-456",
	}, old)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	fresh, _ := decode(t, resp)["token"].(string)
	require.NotEmpty(t, fresh)

	resp = h.callWithToken(t, http.MethodGet, "/api/users/me", nil, old)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = h.callWithToken(t, http.MethodGet, "/api/users/me", nil, fresh)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestChangePassword_ActualIncorrecta(t *testing.T) {
	h := newHarness(t)
	resp := h.call(t, http.MethodPost, "/api/auth/change-password", map[string]any{
		"current_password": "no-es-esta", "new_password": "otra-clave-456",
	}, h.userA)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decode(t, resp)
	assert.Equal(t, "INVALID_CREDENTIALS", body["code"])
	assert.Equal(t, "current_password", body["field"])
}

func TestChangePassword_NuevaDemasiadoLarga(t *testing.T) {
	h := newHarness(t)
	resp := h.call(t, http.MethodPost, "/api/auth/change-password", map[string]any{
		"current_password": testPassword, "new_password": strings.Repeat("x", 73),
	}, h.userA)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "new_password", decode(t, resp)["field"])
}

func TestVerifyEmail_TokenDeUnSoloUso(t *testing.T) {
	h := newHarness(t)
	u := h.addUser(t, "nuevo", h.companyA.ID, entity.RoleUser)
	u.IsEmailVerified = false
	u.EmailVerificationToken = entity.StringPtr("verif-123")
	require.NoError(t, h.store.Users().Update(context.Background(), u))

	resp := h.call(t, http.MethodGet, "/api/auth/verify-email/verif-123", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode(t, resp)
	assert.Equal(t, true, body["verified"])
	assert.Equal(t, "nuevo", body["username"])

	resp = h.call(t, http.MethodGet, "/api/auth/verify-email/verif-123", nil, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_VERIFICATION_TOKEN", decode(t, resp)["code"])
}

func TestLogin_EmailSinVerificar(t *testing.T) {
	h := newHarness(t)
	u := h.addUser(t, "pendiente", h.companyA.ID, entity.RoleUser)
	u.IsEmailVerified = false
	require.NoError(t, h.store.Users().Update(context.Background(), u))

	resp := h.call(t, http.MethodPost, "/api/auth/"+h.companyA.Token+"/login",
		map[string]any{"username": "pendiente", "password": testPassword}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "EMAIL_NOT_VERIFIED", decode(t, resp)["code"])
}
