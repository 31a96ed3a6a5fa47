package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/compras-api/internal/application/dto"
	"github.com/jhoicas/compras-api/internal/application/ports"
	"github.com/jhoicas/compras-api/internal/domain"
	"github.com/jhoicas/compras-api/internal/domain/entity"
	"github.com/jhoicas/compras-api/internal/domain/policy"
	"github.com/jhoicas/compras-api/internal/domain/repository"
	"github.com/jhoicas/compras-api/pkg/logger"
	"golang.org/x/crypto/bcrypt"
)

// mailTimeout plazo del envío del correo de verificación en segundo plano.
const mailTimeout = 30 * time.Second

// UserUseCaseConfig dependencias y políticas del caso de uso de usuarios.
type UserUseCaseConfig struct {
	Users     repository.UserRepository
	Companies repository.CompanyRepository
	Cascade   repository.CascadeRepository
	Mailer    ports.Mailer
	// Revocations opcional: si está, un cambio de contraseña cierra las sesiones del usuario.
	Revocations              ports.TokenRevocationStore
	SessionTTL               time.Duration
	RequireEmailVerification bool
	Logger                   *logger.Logger
}

// UserUseCase aplica reglas de negocio para usuarios.
type UserUseCase struct {
	cfg UserUseCaseConfig
	log *logger.Logger
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia.
func NewUserUseCase(cfg UserUseCaseConfig) *UserUseCase {
	log := cfg.Logger
	if log == nil {
		log = logger.Nop()
	}
	return &UserUseCase{cfg: cfg, log: log}
}

// Create da de alta un usuario. La empresa sale del llamador (el superadmin puede nombrar otra),
// la contraseña se guarda con bcrypt y el correo de verificación se envía sin bloquear la respuesta.
func (uc *UserUseCase) Create(ctx context.Context, caller policy.Caller, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	role, err := entity.ParseRole(in.Role)
	if err != nil {
		return nil, domain.NewValidationError("role", err.Error())
	}
	companyID, err := policy.AuthorizeUserCreate(caller, role, in.CompanyID)
	if err != nil {
		return nil, err
	}
	if companyID != "" && companyID != caller.CompanyID {
		if err := uc.ensureCompany(ctx, companyID); err != nil {
			return nil, err
		}
	}
	username := entity.NormalizeUsername(in.Username)
	if username == "" {
		return nil, domain.NewValidationError("username", "el nombre de usuario es obligatorio")
	}
	if err := uc.checkUsername(ctx, companyID, username, ""); err != nil {
		return nil, err
	}
	hash, err := entity.HashPassword("password", in.Password, bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &entity.User{
		ID:              uuid.New().String(),
		CompanyID:       entity.StringPtr(companyID),
		Username:        username,
		Email:           strings.TrimSpace(in.Email),
		PasswordHash:    hash,
		IsActive:        true,
		IsEmailVerified: !uc.cfg.RequireEmailVerification,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	user.SetRole(role)
	if uc.cfg.RequireEmailVerification {
		user.EmailVerificationToken = entity.StringPtr(uuid.NewString())
	}
	if err := uc.cfg.Users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, usernameTaken(username)
		}
		return nil, err
	}
	if user.EmailVerificationToken != nil {
		uc.sendVerification(ctx, user.Email, user.Username, *user.EmailVerificationToken)
	}
	return entityToUserResponse(user), nil
}

// sendVerification dispara el correo en una goroutine; los fallos solo se registran.
func (uc *UserUseCase) sendVerification(ctx context.Context, email, username, token string) {
	if uc.cfg.Mailer == nil {
		return
	}
	mailCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), mailTimeout)
	go func() {
		defer cancel()
		if err := uc.cfg.Mailer.SendVerification(mailCtx, email, username, token); err != nil {
			uc.log.Warn().Err(err).Str("username", username).Msg("no se pudo enviar el correo de verificación")
		}
	}()
}

// GetByID obtiene un usuario visible para el llamador.
func (uc *UserUseCase) GetByID(ctx context.Context, caller policy.Caller, id string) (*dto.UserResponse, error) {
	user, err := uc.load(ctx, caller, policy.ActionRead, id)
	if err != nil {
		return nil, err
	}
	return entityToUserResponse(user), nil
}

// Me devuelve el propio usuario.
func (uc *UserUseCase) Me(ctx context.Context, caller policy.Caller) (*dto.UserResponse, error) {
	return uc.GetByID(ctx, caller, caller.UserID)
}

// List lista usuarios del alcance: todos para superadmin, la empresa para admin, uno mismo para user.
func (uc *UserUseCase) List(ctx context.Context, caller policy.Caller, limit, offset int) (*dto.UserListResponse, error) {
	list, err := uc.cfg.Users.List(ctx, policy.ScopeFor(caller, policy.ResourceUser), limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		items = append(items, *entityToUserResponse(u))
	}
	return &dto.UserListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

// Update modifica un usuario. Rol, empresa y estado pasan por el guard de escalada.
func (uc *UserUseCase) Update(ctx context.Context, caller policy.Caller, id string, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := uc.load(ctx, caller, policy.ActionUpdate, id)
	if err != nil {
		return nil, err
	}

	change := policy.UserChange{CompanyID: in.CompanyID}
	if in.Role != nil {
		role, err := entity.ParseRole(*in.Role)
		if err != nil {
			return nil, domain.NewValidationError("role", err.Error())
		}
		change.Role = &role
	}
	if err := policy.GuardUserChange(caller, user, change); err != nil {
		return nil, err
	}
	if in.IsActive != nil && *in.IsActive != user.IsActive && !caller.Role.IsAdminOrAbove() {
		return nil, domain.ErrForbidden
	}

	if change.CompanyID != nil && *change.CompanyID != user.Company() {
		if err := uc.ensureCompany(ctx, *change.CompanyID); err != nil {
			return nil, err
		}
		user.CompanyID = entity.StringPtr(*change.CompanyID)
	}
	if in.Username != nil {
		username := entity.NormalizeUsername(*in.Username)
		if username == "" {
			return nil, domain.NewValidationError("username", "el nombre de usuario es obligatorio")
		}
		user.Username = username
	}
	if in.Username != nil || in.CompanyID != nil {
		if err := uc.checkUsername(ctx, user.Company(), user.Username, user.ID); err != nil {
			return nil, err
		}
	}
	if in.Email != nil {
		user.Email = strings.TrimSpace(*in.Email)
	}
	passwordChanged := false
	if in.Password != nil {
		hash, err := entity.HashPassword("password", *in.Password, bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
		passwordChanged = true
	}
	if in.IsActive != nil {
		user.IsActive = *in.IsActive
	}
	role := user.Role
	if change.Role != nil {
		role = *change.Role
	}
	user.SetRole(role)
	user.UpdatedAt = time.Now()

	if err := uc.cfg.Users.Update(ctx, user); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, usernameTaken(user.Username)
		}
		return nil, err
	}
	if passwordChanged && uc.cfg.Revocations != nil {
		if err := uc.cfg.Revocations.RevokeUser(ctx, user.ID, uc.cfg.SessionTTL); err != nil {
			uc.log.Error().Err(err).Str("user_id", user.ID).Msg("no se pudieron revocar las sesiones")
		}
	}
	return entityToUserResponse(user), nil
}

// Delete elimina un usuario. Si creó depósitos no se puede borrar: queda desactivado.
func (uc *UserUseCase) Delete(ctx context.Context, caller policy.Caller, id string) (*dto.DeleteUserResponse, error) {
	if _, err := uc.load(ctx, caller, policy.ActionDelete, id); err != nil {
		return nil, err
	}
	deactivated, err := uc.cfg.Cascade.DeleteUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if deactivated {
		uc.log.Info().Str("user_id", id).Str("by", caller.UserID).Msg("usuario con depósitos: desactivado en lugar de eliminado")
	}
	return &dto.DeleteUserResponse{Deleted: !deactivated, Deactivated: deactivated}, nil
}

// EnsureSuperadmin crea el superadmin o promueve la cuenta existente con ese email.
// En ambos casos queda verificada, activa y con la contraseña indicada. Devuelve created=true si la creó.
func (uc *UserUseCase) EnsureSuperadmin(ctx context.Context, username, email, password string) (bool, error) {
	if strings.TrimSpace(password) == "" {
		return false, domain.NewValidationError("password", "la contraseña es obligatoria")
	}
	hash, err := entity.HashPassword("password", password, bcrypt.DefaultCost)
	if err != nil {
		return false, err
	}
	email = strings.TrimSpace(email)
	user, err := uc.cfg.Users.GetByEmail(ctx, email)
	if err != nil {
		return false, err
	}
	now := time.Now()
	if user != nil {
		user.SetRole(entity.RoleSuperadmin)
		user.PasswordHash = hash
		user.IsActive = true
		user.IsEmailVerified = true
		user.EmailVerificationToken = nil
		user.UpdatedAt = now
		return false, uc.cfg.Users.Update(ctx, user)
	}

	username = entity.NormalizeUsername(username)
	if username == "" {
		return false, domain.NewValidationError("username", "el nombre de usuario es obligatorio")
	}
	user = &entity.User{
		ID:              uuid.NewString(),
		Username:        username,
		Email:           email,
		PasswordHash:    hash,
		IsActive:        true,
		IsEmailVerified: true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	user.SetRole(entity.RoleSuperadmin)
	if err := uc.cfg.Users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return false, usernameTaken(username)
		}
		return false, err
	}
	return true, nil
}

func (uc *UserUseCase) load(ctx context.Context, caller policy.Caller, action policy.UserAction, id string) (*entity.User, error) {
	user, err := uc.cfg.Users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrNotFound
	}
	if err := policy.AuthorizeUserMutation(caller, action, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (uc *UserUseCase) ensureCompany(ctx context.Context, companyID string) error {
	company, err := uc.cfg.Companies.GetByID(ctx, companyID)
	if err != nil {
		return err
	}
	if company == nil {
		return domain.NewValidationError("company_id", "la empresa no existe")
	}
	return nil
}

func (uc *UserUseCase) checkUsername(ctx context.Context, companyID, username, excludeID string) error {
	taken, err := uc.cfg.Users.UsernameTaken(ctx, companyID, username, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return usernameTaken(username)
	}
	return nil
}

func usernameTaken(username string) error {
	return &domain.ValidationError{
		Field:   "username",
		Code:    domain.CodeUsernameTaken,
		Message: fmt.Sprintf("el usuario %q ya existe en esta empresa", username),
	}
}

func entityToUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:              u.ID,
		CompanyID:       u.Company(),
		Username:        u.Username,
		Email:           u.Email,
		Role:            string(u.Role),
		IsStaff:         u.IsStaff,
		IsSuperuser:     u.IsSuperuser,
		IsActive:        u.IsActive,
		IsEmailVerified: u.IsEmailVerified,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}

// ToUserResponse expone el mapeo para auth.
func ToUserResponse(u *entity.User) *dto.UserResponse { return entityToUserResponse(u) }
