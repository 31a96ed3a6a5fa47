package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "secreto-de-prueba"

func TestGenerateParse_ConEmpresa(t *testing.T) {
	tok, err := Generate(secret, "u-1", "c-1", "admin", "compras-api", 60)
	require.NoError(t, err)

	s, err := Parse(secret, tok)
	require.NoError(t, err)
	assert.Equal(t, "u-1", s.UserID)
	assert.Equal(t, "c-1", s.CompanyID)
	assert.Equal(t, "admin", s.Role)
	assert.NotEmpty(t, s.TokenID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), s.ExpiresAt, 5*time.Second)
}

func TestGenerateParse_SinEmpresa(t *testing.T) {
	tok, err := Generate(secret, "root", "", "superadmin", "compras-api", 5)
	require.NoError(t, err)

	s, err := Parse(secret, tok)
	require.NoError(t, err)
	assert.Empty(t, s.CompanyID)
	assert.Equal(t, "superadmin", s.Role)
}

func TestGenerate_CadaSesionTieneSuJTI(t *testing.T) {
	a, err := Generate(secret, "u-1", "c-1", "user", "", 5)
	require.NoError(t, err)
	b, err := Generate(secret, "u-1", "c-1", "user", "", 5)
	require.NoError(t, err)

	sa, err := Parse(secret, a)
	require.NoError(t, err)
	sb, err := Parse(secret, b)
	require.NoError(t, err)
	assert.NotEqual(t, sa.TokenID, sb.TokenID)
}

func TestParse_SecretIncorrecto(t *testing.T) {
	tok, err := Generate(secret, "u-1", "c-1", "user", "", 5)
	require.NoError(t, err)

	_, err = Parse("otro-secreto", tok)
	assert.Error(t, err)
}

func TestParse_Expirado(t *testing.T) {
	tok, err := Generate(secret, "u-1", "c-1", "user", "", -1)
	require.NoError(t, err)

	_, err = Parse(secret, tok)
	assert.Error(t, err)
}

func TestSecretVacio(t *testing.T) {
	_, err := Generate("", "u-1", "c-1", "user", "", 5)
	assert.Error(t, err)

	_, err = Parse("", "a.b.c")
	assert.Error(t, err)
}

func TestParse_TokenBasura(t *testing.T) {
	_, err := Parse(secret, "no-es-un-token")
	assert.Error(t, err)
}
