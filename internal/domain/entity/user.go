package entity

import (
	"time"

	"github.com/google/uuid"
)

// Roles soportados. El rol nunca viaja en el token: se lee del usuario
// resuelto en DB en cada petición.
const (
	RoleUser      = "user"
	RoleLibrarian = "librarian"
	RoleAdmin     = "admin"
)

// ValidRole indica si el rol es uno de los soportados.
func ValidRole(r string) bool {
	return r == RoleUser || r == RoleLibrarian || r == RoleAdmin
}

// User representa una cuenta de la aplicación.
//
// PasswordHash nunca sale del proceso: los DTOs de respuesta lo excluyen.
// ResetTokenDigest guarda el sha256 (hex) del secreto de reset, nunca el
// secreto en claro; como máximo hay un reset pendiente por usuario.
type User struct {
	ID                  uuid.UUID
	Username            string
	Email               string
	Photo               string
	Role                string
	PasswordHash        string
	PasswordChangedAt   *time.Time
	ResetTokenDigest    string
	ResetTokenExpiresAt *time.Time
	Active              bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// ChangedPasswordAfter indica si la contraseña cambió después del instante de
// emisión del token. La comparación es a granularidad de segundo: un token
// emitido en el mismo segundo del cambio sigue siendo válido.
func (u *User) ChangedPasswordAfter(issuedAt time.Time) bool {
	if u.PasswordChangedAt == nil {
		return false
	}
	return u.PasswordChangedAt.Unix() > issuedAt.Unix()
}

// ClearResetToken borra el reset pendiente (uso único o rollback de envío).
func (u *User) ClearResetToken() {
	u.ResetTokenDigest = ""
	u.ResetTokenExpiresAt = nil
}
