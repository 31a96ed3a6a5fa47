package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/compras-api/internal/domain/entity"
)

func TestSetRole_BanderasSiguenAlRol(t *testing.T) {
	u := &entity.User{}

	u.SetRole(entity.RoleSuperadmin)
	assert.True(t, u.IsStaff)
	assert.True(t, u.IsSuperuser)

	// Degradar limpia ambas banderas.
	u.SetRole(entity.RoleAdmin)
	assert.False(t, u.IsStaff)
	assert.False(t, u.IsSuperuser)

	u.SetRole(entity.RoleUser)
	assert.Equal(t, entity.PrivilegeFlags{}, entity.DeriveFlags(u.Role))
}

func TestParseRole(t *testing.T) {
	r, err := entity.ParseRole("")
	require.NoError(t, err)
	assert.Equal(t, entity.RoleUser, r)

	r, err = entity.ParseRole(" Admin ")
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, r)

	_, err = entity.ParseRole("owner")
	assert.Error(t, err)
}

func TestNormalizeUsername_NFC(t *testing.T) {
	// "é" compuesto vs. "e" + acento combinante
	assert.Equal(t, "jos\u00e9", entity.NormalizeUsername(" jose\u0301 "))
}

func TestNormalizeCatalogName_MonedaISO(t *testing.T) {
	assert.Equal(t, "USD", entity.NormalizeCatalogName(entity.KindMoneyType, " usd "))
	assert.Equal(t, "so'm", entity.NormalizeCatalogName(entity.KindMoneyType, "so'm"))
	assert.Equal(t, "Widget", entity.NormalizeCatalogName(entity.KindItem, " Widget "))
}
