package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/eraam/booksaloon-api/internal/domain"
	"github.com/eraam/booksaloon-api/internal/domain/entity"
	"github.com/eraam/booksaloon-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

const userColumns = `id, username, email, photo, role, password_hash,
	password_changed_at, reset_token_digest, reset_token_expires_at,
	active, created_at, updated_at`

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
// Los lookups de identidad filtran active = TRUE: una cuenta desactivada
// no existe para el resto del sistema.
type UserRepo struct {
	db DB
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(db DB) *UserRepo {
	return &UserRepo{db: db}
}

// Create persiste un nuevo usuario.
func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (id, username, email, photo, role, password_hash,
			password_changed_at, reset_token_digest, reset_token_expires_at,
			active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.db.Exec(ctx, query,
		user.ID, user.Username, user.Email, user.Photo, user.Role, user.PasswordHash,
		user.PasswordChangedAt, user.ResetTokenDigest, user.ResetTokenExpiresAt,
		user.Active, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// FindByEmail obtiene un usuario activo por email.
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM users WHERE email = $1 AND active = TRUE LIMIT 1`, userColumns)
	return r.scanOne(r.db.QueryRow(ctx, query, email), "get user by email")
}

// FindByID obtiene un usuario activo por id.
func (r *UserRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM users WHERE id = $1 AND active = TRUE`, userColumns)
	return r.scanOne(r.db.QueryRow(ctx, query, id), "get user by id")
}

// FindByResetDigest obtiene el usuario activo con ese reset pendiente y no
// expirado. La condición de expiración va en el WHERE: un digest vencido es
// indistinguible de uno inexistente.
func (r *UserRepo) FindByResetDigest(ctx context.Context, digest string, now time.Time) (*entity.User, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM users
		WHERE reset_token_digest = $1 AND reset_token_digest <> ''
		  AND reset_token_expires_at > $2 AND active = TRUE`, userColumns)
	return r.scanOne(r.db.QueryRow(ctx, query, digest, now), "get user by reset digest")
}

// Update persiste los campos mutables del usuario. Contraseña, sello de
// cambio y campos de reset van en la misma escritura.
func (r *UserRepo) Update(ctx context.Context, user *entity.User) error {
	query := `
		UPDATE users SET username = $2, email = $3, photo = $4, role = $5,
			password_hash = $6, password_changed_at = $7,
			reset_token_digest = $8, reset_token_expires_at = $9,
			active = $10, updated_at = $11
		WHERE id = $1`
	tag, err := r.db.Exec(ctx, query,
		user.ID, user.Username, user.Email, user.Photo, user.Role,
		user.PasswordHash, user.PasswordChangedAt,
		user.ResetTokenDigest, user.ResetTokenExpiresAt,
		user.Active, user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista usuarios activos con paginación.
func (r *UserRepo) List(ctx context.Context, limit, offset int) ([]entity.User, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE active = TRUE`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM users WHERE active = TRUE
		ORDER BY created_at DESC LIMIT $1 OFFSET $2`, userColumns)
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var list []entity.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan user: %w", err)
		}
		list = append(list, *u)
	}
	return list, total, rows.Err()
}

// Deactivate marca la cuenta como inactiva (borrado suave).
func (r *UserRepo) Deactivate(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE users SET active = FALSE, updated_at = NOW() WHERE id = $1 AND active = TRUE`, id)
	if err != nil {
		return fmt.Errorf("deactivate user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *UserRepo) scanOne(row pgx.Row, op string) (*entity.User, error) {
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

func scanUser(row pgx.Row) (*entity.User, error) {
	var u entity.User
	err := row.Scan(
		&u.ID, &u.Username, &u.Email, &u.Photo, &u.Role, &u.PasswordHash,
		&u.PasswordChangedAt, &u.ResetTokenDigest, &u.ResetTokenExpiresAt,
		&u.Active, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
