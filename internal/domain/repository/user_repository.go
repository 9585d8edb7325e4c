package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/eraam/booksaloon-api/internal/domain/entity"
)

// UserRepository puerto de persistencia de usuarios.
//
// FindByEmail y FindByID excluyen cuentas desactivadas (active=false): para el
// resto del sistema un usuario inactivo no existe. Ambos retornan
// domain.ErrNotFound cuando no hay fila visible.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)

	// FindByResetDigest busca el usuario activo con ese digest de reset
	// pendiente y no expirado respecto a now.
	FindByResetDigest(ctx context.Context, digest string, now time.Time) (*entity.User, error)

	// Update persiste todos los campos mutables del usuario, incluidos los de
	// credenciales y reset. La actualización de contraseña + limpieza del reset
	// ocurre en una sola escritura.
	Update(ctx context.Context, user *entity.User) error

	List(ctx context.Context, limit, offset int) ([]entity.User, int64, error)

	// Deactivate marca la cuenta como inactiva (borrado suave).
	Deactivate(ctx context.Context, id uuid.UUID) error
}
