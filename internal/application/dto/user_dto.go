package dto

import (
	"time"

	"github.com/eraam/booksaloon-api/internal/domain/entity"
)

// SignupRequest entrada de registro. El rol se ignora: toda cuenta nueva nace
// con rol "user" (la elevación la hace un admin después).
type SignupRequest struct {
	Username        string `json:"username" validate:"required,min=1,max=100"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"passwordConfirm" validate:"required,eqfield=Password"`
}

// LoginRequest entrada de login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ForgotPasswordRequest entrada de solicitud de reset de contraseña.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest entrada de reset (el token viaja en la URL).
type ResetPasswordRequest struct {
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"passwordConfirm" validate:"required,eqfield=Password"`
}

// UpdatePasswordRequest cambio de contraseña autenticado.
type UpdatePasswordRequest struct {
	PasswordCurrent string `json:"passwordCurrent" validate:"required"`
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"passwordConfirm" validate:"required,eqfield=Password"`
}

// UpdateMeRequest actualización del propio perfil. No admite contraseña:
// esa ruta es /updateMyPassword.
type UpdateMeRequest struct {
	Username string `json:"username" validate:"omitempty,min=1,max=100"`
	Email    string `json:"email" validate:"omitempty,email"`
}

// UpdateUserRequest actualización administrativa de un usuario.
type UpdateUserRequest struct {
	Username string `json:"username" validate:"omitempty,min=1,max=100"`
	Email    string `json:"email" validate:"omitempty,email"`
	Role     string `json:"role" validate:"omitempty,oneof=user librarian admin"`
	Photo    string `json:"photo" validate:"omitempty,max=500"`
}

// UserResponse salida de un usuario. El hash de contraseña y los campos de
// reset nunca se serializan.
type UserResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Photo     string    `json:"photo,omitempty"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AuthResponse salida de signup/login: token + usuario.
type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// TokenResponse salida de operaciones que solo rotan el token.
type TokenResponse struct {
	Token string `json:"token"`
}

// UserListResponse listado paginado de usuarios.
type UserListResponse struct {
	Users []UserResponse `json:"users"`
	Page  PageResponse   `json:"page"`
}

// ToUserResponse mapea la entidad a su DTO de salida.
func ToUserResponse(u *entity.User) UserResponse {
	return UserResponse{
		ID:        u.ID.String(),
		Username:  u.Username,
		Email:     u.Email,
		Photo:     u.Photo,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
