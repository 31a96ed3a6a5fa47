package auth_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/compras-api/internal/application/auth"
	"github.com/jhoicas/compras-api/internal/application/dto"
	"github.com/jhoicas/compras-api/internal/domain"
	"github.com/jhoicas/compras-api/internal/domain/entity"
	"github.com/jhoicas/compras-api/internal/infrastructure/cache"
	"github.com/jhoicas/compras-api/internal/infrastructure/memory"
)

const testPassword = "secreto123"

var testJWT = auth.JWTConfig{Secret: "test-secret-key-for-unit-tests", ExpMinutes: 60, Issuer: "compras-api-test"}

type authFixture struct {
	store   *memory.Store
	uc      *auth.AuthUseCase
	company *entity.Company
	user    *entity.User
}

func newAuthFixture(t *testing.T, requireVerification bool) *authFixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	company := &entity.Company{ID: uuid.NewString(), Token: entity.NewCompanyToken(), Name: "Acme", IsActive: true}
	require.NoError(t, store.Companies().Create(ctx, company))

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)
	user := &entity.User{
		ID:              uuid.NewString(),
		CompanyID:       entity.StringPtr(company.ID),
		Username:        "ana",
		Email:           "ana@example.com",
		PasswordHash:    string(hash),
		IsActive:        true,
		IsEmailVerified: true,
	}
	user.SetRole(entity.RoleAdmin)
	require.NoError(t, store.Users().Create(ctx, user))

	uc := auth.NewAuthUseCase(store.Users(), store.Companies(), cache.NewMemoryRevocationStore(), testJWT, requireVerification)
	return &authFixture{store: store, uc: uc, company: company, user: user}
}

func codeOf(t *testing.T, err error) string {
	t.Helper()
	ve, ok := domain.AsValidation(err)
	require.True(t, ok, "se esperaba ValidationError, llegó %v", err)
	return ve.Code
}

// ──────────────────────────────────────────────────────────────────────────────
// Login
// ──────────────────────────────────────────────────────────────────────────────

func TestLogin_Exitoso(t *testing.T) {
	f := newAuthFixture(t, true)
	res, err := f.uc.Login(context.Background(), f.company.Token, dto.LoginRequest{Username: "ana", Password: testPassword})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, f.user.ID, res.User.ID)
	assert.Equal(t, 3600, res.ExpiresIn)
}

// Un enlace desconocido se distingue de una contraseña incorrecta.
func TestLogin_EnlaceDesconocidoVsPasswordIncorrecta(t *testing.T) {
	f := newAuthFixture(t, true)
	ctx := context.Background()

	_, err := f.uc.Login(ctx, "no-existe", dto.LoginRequest{Username: "ana", Password: testPassword})
	assert.Equal(t, domain.CodeInvalidCompanyLink, codeOf(t, err))

	_, err = f.uc.Login(ctx, f.company.Token, dto.LoginRequest{Username: "ana", Password: "otra"})
	assert.Equal(t, domain.CodeInvalidCredentials, codeOf(t, err))

	_, err = f.uc.Login(ctx, f.company.Token, dto.LoginRequest{Username: "nadie", Password: testPassword})
	assert.Equal(t, domain.CodeInvalidCredentials, codeOf(t, err))
}

func TestLogin_EmpresaInactiva(t *testing.T) {
	f := newAuthFixture(t, true)
	f.company.IsActive = false
	require.NoError(t, f.store.Companies().Update(context.Background(), f.company))

	_, err := f.uc.Login(context.Background(), f.company.Token, dto.LoginRequest{Username: "ana", Password: testPassword})
	assert.Equal(t, domain.CodeInvalidCompanyLink, codeOf(t, err))
}

func TestLogin_EmailSinVerificar(t *testing.T) {
	f := newAuthFixture(t, true)
	f.user.IsEmailVerified = false
	require.NoError(t, f.store.Users().Update(context.Background(), f.user))

	_, err := f.uc.Login(context.Background(), f.company.Token, dto.LoginRequest{Username: "ana", Password: testPassword})
	assert.Equal(t, domain.CodeEmailNotVerified, codeOf(t, err))

	// Con la verificación desactivada entra igual.
	relaxed := auth.NewAuthUseCase(f.store.Users(), f.store.Companies(), nil, testJWT, false)
	_, err = relaxed.Login(context.Background(), f.company.Token, dto.LoginRequest{Username: "ana", Password: testPassword})
	assert.NoError(t, err)
}

func TestLogin_UsuarioInactivo(t *testing.T) {
	f := newAuthFixture(t, true)
	f.user.IsActive = false
	require.NoError(t, f.store.Users().Update(context.Background(), f.user))

	_, err := f.uc.Login(context.Background(), f.company.Token, dto.LoginRequest{Username: "ana", Password: testPassword})
	assert.Equal(t, domain.CodeUserInactive, codeOf(t, err))
}

// ──────────────────────────────────────────────────────────────────────────────
// Sesiones
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthenticate_LogoutRevocaToken(t *testing.T) {
	f := newAuthFixture(t, true)
	ctx := context.Background()
	res, err := f.uc.Login(ctx, f.company.Token, dto.LoginRequest{Username: "ana", Password: testPassword})
	require.NoError(t, err)

	p, err := f.uc.Authenticate(ctx, res.Token)
	require.NoError(t, err)
	assert.Equal(t, f.company.ID, p.Caller.CompanyID)
	assert.Equal(t, entity.RoleAdmin, p.Caller.Role)

	require.NoError(t, f.uc.Logout(ctx, p))
	_, err = f.uc.Authenticate(ctx, res.Token)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestAuthenticate_RolRecargadoDesdeLaBase(t *testing.T) {
	f := newAuthFixture(t, true)
	ctx := context.Background()
	res, err := f.uc.Login(ctx, f.company.Token, dto.LoginRequest{Username: "ana", Password: testPassword})
	require.NoError(t, err)

	f.user.SetRole(entity.RoleUser)
	require.NoError(t, f.store.Users().Update(ctx, f.user))

	p, err := f.uc.Authenticate(ctx, res.Token)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleUser, p.Caller.Role, "la degradación aplica sin esperar un token nuevo")

	f.company.IsActive = false
	require.NoError(t, f.store.Companies().Update(ctx, f.company))
	_, err = f.uc.Authenticate(ctx, res.Token)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestAuthenticate_TokenInvalido(t *testing.T) {
	f := newAuthFixture(t, true)
	_, err := f.uc.Authenticate(context.Background(), "basura")
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestChangePassword(t *testing.T) {
	f := newAuthFixture(t, true)
	ctx := context.Background()
	res, err := f.uc.Login(ctx, f.company.Token, dto.LoginRequest{Username: "ana", Password: testPassword})
	require.NoError(t, err)
	p, err := f.uc.Authenticate(ctx, res.Token)
	require.NoError(t, err)

	_, err = f.uc.ChangePassword(ctx, p, dto.ChangePasswordRequest{CurrentPassword: "mala", NewPassword: "nueva-clave-1"})
	assert.Equal(t, domain.CodeInvalidCredentials, codeOf(t, err))

	fresh, err := f.uc.ChangePassword(ctx, p, dto.ChangePasswordRequest{CurrentPassword: testPassword, NewPassword: "nueva-clave-1"})
	require.NoError(t, err)

	_, err = f.uc.Authenticate(ctx, res.Token)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated, "el token anterior queda revocado")
	_, err = f.uc.Authenticate(ctx, fresh.Token)
	assert.NoError(t, err)

	_, err = f.uc.Login(ctx, f.company.Token, dto.LoginRequest{Username: "ana", Password: "nueva-clave-1"})
	assert.NoError(t, err)
}

func TestChangePassword_NuevaDemasiadoLarga(t *testing.T) {
	f := newAuthFixture(t, true)
	ctx := context.Background()
	res, err := f.uc.Login(ctx, f.company.Token, dto.LoginRequest{Username: "ana", Password: testPassword})
	require.NoError(t, err)
	p, err := f.uc.Authenticate(ctx, res.Token)
	require.NoError(t, err)

	_, err = f.uc.ChangePassword(ctx, p, dto.ChangePasswordRequest{
		CurrentPassword: testPassword,
		NewPassword:     strings.Repeat("ñ", 40), // 80 bytes
	})
	ve, ok := domain.AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, "new_password", ve.Field)

	// La sesión sigue viva: no se guardó nada.
	_, err = f.uc.Authenticate(ctx, res.Token)
	assert.NoError(t, err)
}

// ──────────────────────────────────────────────────────────────────────────────
// Verificación de email
// ──────────────────────────────────────────────────────────────────────────────

func TestVerifyEmail_UnSoloUso(t *testing.T) {
	f := newAuthFixture(t, true)
	ctx := context.Background()
	token := uuid.NewString()
	f.user.IsEmailVerified = false
	f.user.EmailVerificationToken = &token
	require.NoError(t, f.store.Users().Update(ctx, f.user))

	res, err := f.uc.VerifyEmail(ctx, token)
	require.NoError(t, err)
	assert.True(t, res.Verified)
	assert.Equal(t, "ana", res.Username)

	stored, err := f.store.Users().GetByID(ctx, f.user.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsEmailVerified)
	assert.Nil(t, stored.EmailVerificationToken)

	_, err = f.uc.VerifyEmail(ctx, token)
	assert.Equal(t, domain.CodeInvalidToken, codeOf(t, err))
}

func TestLoginWithoutCompany_Superadmin(t *testing.T) {
	f := newAuthFixture(t, true)
	ctx := context.Background()
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)
	root := &entity.User{ID: uuid.NewString(), Username: "root", PasswordHash: string(hash), IsActive: true, IsEmailVerified: true}
	root.SetRole(entity.RoleSuperadmin)
	require.NoError(t, f.store.Users().Create(ctx, root))

	res, err := f.uc.LoginWithoutCompany(ctx, dto.LoginRequest{Username: "root", Password: testPassword})
	require.NoError(t, err)
	assert.Empty(t, res.User.CompanyID)

	// Un usuario de empresa no entra por el login sin empresa.
	_, err = f.uc.LoginWithoutCompany(ctx, dto.LoginRequest{Username: "ana", Password: testPassword})
	assert.Equal(t, domain.CodeInvalidCredentials, codeOf(t, err))
}
