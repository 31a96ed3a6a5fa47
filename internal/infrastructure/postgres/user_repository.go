package postgres

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/compras-api/internal/domain"
	"github.com/jhoicas/compras-api/internal/domain/entity"
	"github.com/jhoicas/compras-api/internal/domain/policy"
	"github.com/jhoicas/compras-api/internal/domain/repository"
)

// Asegura que UserRepo implementa repository.UserRepository.
var _ repository.UserRepository = (*UserRepo)(nil)

const userColumns = `id, company_id, username, email, password_hash, role, is_staff, is_superuser,
	is_active, is_email_verified, email_verification_token, created_at, updated_at`

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
type UserRepo struct {
	db Querier
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(db Querier) *UserRepo {
	return &UserRepo{db: db}
}

func scanUser(row pgx.Row) (*entity.User, error) {
	var u entity.User
	var role string
	err := row.Scan(
		&u.ID, &u.CompanyID, &u.Username, &u.Email, &u.PasswordHash, &role, &u.IsStaff, &u.IsSuperuser,
		&u.IsActive, &u.IsEmailVerified, &u.EmailVerificationToken, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	u.Role = entity.Role(role)
	return &u, nil
}

// Create persiste un nuevo usuario. El índice único (empresa, username) resuelve las carreras.
func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (id, company_id, username, email, password_hash, role, is_staff, is_superuser,
			is_active, is_email_verified, email_verification_token, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.db.Exec(ctx, query,
		user.ID, user.CompanyID, user.Username, user.Email, user.PasswordHash, string(user.Role),
		user.IsStaff, user.IsSuperuser, user.IsActive, user.IsEmailVerified, user.EmailVerificationToken,
		user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByID obtiene un usuario por ID.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	return u, nil
}

// GetByUsername busca por username dentro de la empresa (o entre cuentas sin empresa).
func (r *UserRepo) GetByUsername(ctx context.Context, companyID, username string) (*entity.User, error) {
	query, args, err := psql.Select(userColumns).
		From("users").
		Where(companyPredicate(companyID)).
		Where(sq.Eq{"username": username}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get user by username: %w", err)
	}
	u, err := scanUser(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by username: %w", err)
	}
	return u, nil
}

// GetByEmail devuelve la cuenta más antigua con ese email, sin distinguir mayúsculas.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1) ORDER BY created_at LIMIT 1`, email))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

// GetByVerificationToken obtiene el usuario dueño de un token de verificación pendiente.
func (r *UserRepo) GetByVerificationToken(ctx context.Context, token string) (*entity.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email_verification_token = $1`, token))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by verification token: %w", err)
	}
	return u, nil
}

// Update actualiza un usuario.
func (r *UserRepo) Update(ctx context.Context, user *entity.User) error {
	query := `
		UPDATE users SET company_id = $2, username = $3, email = $4, password_hash = $5, role = $6,
			is_staff = $7, is_superuser = $8, is_active = $9, is_email_verified = $10,
			email_verification_token = $11, updated_at = $12
		WHERE id = $1`
	tag, err := r.db.Exec(ctx, query,
		user.ID, user.CompanyID, user.Username, user.Email, user.PasswordHash, string(user.Role),
		user.IsStaff, user.IsSuperuser, user.IsActive, user.IsEmailVerified,
		user.EmailVerificationToken, user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista usuarios del alcance con paginación.
func (r *UserRepo) List(ctx context.Context, scope policy.Scope, limit, offset int) ([]*entity.User, error) {
	query, args, err := psql.Select(userColumns).
		From("users").
		Where(scopeWhere(scope, "company_id", "id")).
		OrderBy("username", "id").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list users: %w", err)
	}
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()
	var list []*entity.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		list = append(list, u)
	}
	return list, rows.Err()
}

// UsernameTaken informa si el username ya existe en la empresa, sin contar excludeID.
func (r *UserRepo) UsernameTaken(ctx context.Context, companyID, username, excludeID string) (bool, error) {
	b := psql.Select("1").
		From("users").
		Where(companyPredicate(companyID)).
		Where(sq.Eq{"username": username})
	if excludeID != "" {
		b = b.Where(sq.NotEq{"id": excludeID})
	}
	sub, args, err := b.ToSql()
	if err != nil {
		return false, fmt.Errorf("build username taken: %w", err)
	}
	var exists bool
	if err := r.db.QueryRow(ctx, "SELECT EXISTS ("+sub+")", args...).Scan(&exists); err != nil {
		return false, fmt.Errorf("username taken: %w", err)
	}
	return exists, nil
}

// companyPredicate filtra por empresa; "" selecciona las cuentas sin empresa.
func companyPredicate(companyID string) sq.Sqlizer {
	if companyID == "" {
		return sq.Eq{"company_id": nil}
	}
	return sq.Eq{"company_id": companyID}
}
