package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jhoicas/compras-api/internal/application/dto"
	"github.com/jhoicas/compras-api/internal/application/ports"
	"github.com/jhoicas/compras-api/internal/application/usecase"
	"github.com/jhoicas/compras-api/internal/domain"
	"github.com/jhoicas/compras-api/internal/domain/entity"
	"github.com/jhoicas/compras-api/internal/domain/policy"
	"github.com/jhoicas/compras-api/internal/domain/repository"
	"github.com/jhoicas/compras-api/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// TTL vida de un token.
func (c JWTConfig) TTL() time.Duration {
	return time.Duration(c.ExpMinutes) * time.Minute
}

// Principal usuario autenticado de una petición, recargado desde la base en cada request.
type Principal struct {
	User    *entity.User
	Session *jwt.Session
	Caller  policy.Caller
}

// AuthUseCase casos de uso de autenticación: login por enlace de empresa, logout,
// cambio de contraseña y verificación de email.
type AuthUseCase struct {
	userRepo                 repository.UserRepository
	companyRepo              repository.CompanyRepository
	revocations              ports.TokenRevocationStore
	jwtCfg                   JWTConfig
	requireEmailVerification bool
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(
	userRepo repository.UserRepository,
	companyRepo repository.CompanyRepository,
	revocations ports.TokenRevocationStore,
	jwtCfg JWTConfig,
	requireEmailVerification bool,
) *AuthUseCase {
	return &AuthUseCase{
		userRepo:                 userRepo,
		companyRepo:              companyRepo,
		revocations:              revocations,
		jwtCfg:                   jwtCfg,
		requireEmailVerification: requireEmailVerification,
	}
}

// Login autentica dentro del enlace de una empresa. Un enlace desconocido o de una empresa
// inactiva falla con INVALID_COMPANY_LINK, distinto de credenciales inválidas.
func (uc *AuthUseCase) Login(ctx context.Context, companyToken string, in dto.LoginRequest) (*dto.LoginResponse, error) {
	company, err := uc.companyRepo.GetByToken(ctx, strings.TrimSpace(companyToken))
	if err != nil {
		return nil, err
	}
	if company == nil || !company.IsActive {
		return nil, &domain.ValidationError{
			Field:   "company_token",
			Code:    domain.CodeInvalidCompanyLink,
			Message: "el enlace de la empresa no es válido",
		}
	}
	return uc.login(ctx, company.ID, in)
}

// LoginWithoutCompany autentica cuentas sin empresa (el superadmin sembrado).
func (uc *AuthUseCase) LoginWithoutCompany(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	return uc.login(ctx, "", in)
}

func (uc *AuthUseCase) login(ctx context.Context, companyID string, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.GetByUsername(ctx, companyID, entity.NormalizeUsername(in.Username))
	if err != nil {
		return nil, err
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)) != nil {
		return nil, invalidCredentials("password")
	}
	if !user.IsActive {
		return nil, &domain.ValidationError{Code: domain.CodeUserInactive, Message: "el usuario está desactivado"}
	}
	if uc.requireEmailVerification && !user.IsEmailVerified {
		return nil, &domain.ValidationError{Field: "email", Code: domain.CodeEmailNotVerified, Message: "el email aún no fue verificado"}
	}
	return uc.issue(user)
}

func (uc *AuthUseCase) issue(user *entity.User) (*dto.LoginResponse, error) {
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Company(), string(user.Role), uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token:     token,
		ExpiresIn: uc.jwtCfg.ExpMinutes * 60,
		User:      *usecase.ToUserResponse(user),
	}, nil
}

// Authenticate valida el token, descarta sesiones revocadas y recarga el usuario.
// El usuario debe estar activo, verificado (si se exige) y con su empresa activa.
func (uc *AuthUseCase) Authenticate(ctx context.Context, token string) (*Principal, error) {
	session, err := jwt.Parse(uc.jwtCfg.Secret, token)
	if err != nil {
		return nil, domain.ErrUnauthenticated
	}
	if uc.revocations != nil {
		revoked, err := uc.revocations.IsRevoked(ctx, session.TokenID)
		if err != nil {
			return nil, err
		}
		if !revoked {
			revoked, err = uc.revocations.IsUserRevoked(ctx, session.UserID, session.IssuedAt)
			if err != nil {
				return nil, err
			}
		}
		if revoked {
			return nil, domain.ErrUnauthenticated
		}
	}
	user, err := uc.userRepo.GetByID(ctx, session.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, domain.ErrUnauthenticated
	}
	if uc.requireEmailVerification && !user.IsEmailVerified {
		return nil, domain.ErrUnauthenticated
	}
	if cid := user.Company(); cid != "" {
		company, err := uc.companyRepo.GetByID(ctx, cid)
		if err != nil {
			return nil, err
		}
		if company == nil || !company.IsActive {
			return nil, domain.ErrUnauthenticated
		}
	}
	return &Principal{User: user, Session: session, Caller: policy.CallerFromUser(user)}, nil
}

// Logout revoca el token actual hasta su expiración.
func (uc *AuthUseCase) Logout(ctx context.Context, p *Principal) error {
	if uc.revocations == nil {
		return nil
	}
	return uc.revocations.Revoke(ctx, p.Session.TokenID, remaining(p.Session.ExpiresAt))
}

// ChangePassword verifica la contraseña actual, guarda la nueva, cierra todas las sesiones
// del usuario y devuelve un token nuevo.
func (uc *AuthUseCase) ChangePassword(ctx context.Context, p *Principal, in dto.ChangePasswordRequest) (*dto.LoginResponse, error) {
	user := p.User
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.CurrentPassword)) != nil {
		return nil, invalidCredentials("current_password")
	}
	if in.CurrentPassword == in.NewPassword {
		return nil, domain.NewValidationError("new_password", "la nueva contraseña debe ser distinta")
	}
	hash, err := entity.HashPassword("new_password", in.NewPassword, bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = hash
	user.UpdatedAt = time.Now()
	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	if uc.revocations != nil {
		if err := uc.revocations.RevokeUser(ctx, user.ID, uc.jwtCfg.TTL()); err != nil {
			return nil, err
		}
		// RevokeUser no alcanza a los tokens del segundo en curso: el del llamador se revoca aparte.
		if err := uc.revocations.Revoke(ctx, p.Session.TokenID, remaining(p.Session.ExpiresAt)); err != nil {
			return nil, err
		}
	}
	return uc.issue(user)
}

// VerifyEmail consume un token de verificación. Cada token sirve una sola vez.
func (uc *AuthUseCase) VerifyEmail(ctx context.Context, token string) (*dto.VerifyEmailResponse, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, invalidVerificationToken()
	}
	user, err := uc.userRepo.GetByVerificationToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, invalidVerificationToken()
	}
	user.IsEmailVerified = true
	user.EmailVerificationToken = nil
	user.UpdatedAt = time.Now()
	if err := uc.userRepo.Update(ctx, user); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, invalidVerificationToken()
		}
		return nil, err
	}
	return &dto.VerifyEmailResponse{Verified: true, Username: user.Username}, nil
}

func invalidCredentials(field string) error {
	return &domain.ValidationError{Field: field, Code: domain.CodeInvalidCredentials, Message: "usuario o contraseña incorrectos"}
}

func invalidVerificationToken() error {
	return &domain.ValidationError{Field: "token", Code: domain.CodeInvalidToken, Message: "el enlace de verificación no es válido o ya fue usado"}
}

func remaining(exp time.Time) time.Duration {
	if exp.IsZero() {
		return time.Hour
	}
	if d := time.Until(exp); d > 0 {
		return d
	}
	return time.Second
}
