package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/eraam/booksaloon-api/internal/application/dto"
	"github.com/eraam/booksaloon-api/internal/domain"
	"github.com/eraam/booksaloon-api/internal/domain/entity"
	"github.com/eraam/booksaloon-api/internal/domain/repository"
)

// UserUseCase gestión de perfiles propios y administración de cuentas.
type UserUseCase struct {
	userRepo repository.UserRepository
}

// NewUserUseCase construye el caso de uso de usuarios.
func NewUserUseCase(userRepo repository.UserRepository) *UserUseCase {
	return &UserUseCase{userRepo: userRepo}
}

// UpdateMe actualiza el propio perfil (username y email). La contraseña se
// cambia exclusivamente por /updateMyPassword.
func (uc *UserUseCase) UpdateMe(ctx context.Context, user *entity.User, in dto.UpdateMeRequest) (*dto.UserResponse, error) {
	if in.Username == "" && in.Email == "" {
		return nil, domain.ErrValidation
	}
	if in.Username != "" {
		user.Username = in.Username
	}
	if in.Email != "" {
		user.Email = strings.ToLower(strings.TrimSpace(in.Email))
	}
	user.UpdatedAt = time.Now()

	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	resp := dto.ToUserResponse(user)
	return &resp, nil
}

// DeleteMe desactiva la propia cuenta (borrado suave). La cuenta deja de ser
// visible para login y resolución de tokens.
func (uc *UserUseCase) DeleteMe(ctx context.Context, user *entity.User) error {
	return uc.userRepo.Deactivate(ctx, user.ID)
}

// List lista cuentas activas (solo admin).
func (uc *UserUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.UserListResponse, error) {
	page.DefaultPage()
	users, total, err := uc.userRepo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		items = append(items, dto.ToUserResponse(&users[i]))
	}
	return &dto.UserListResponse{
		Users: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

// GetByID retorna una cuenta activa por id (solo admin).
func (uc *UserUseCase) GetByID(ctx context.Context, id uuid.UUID) (*dto.UserResponse, error) {
	user, err := uc.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.ToUserResponse(user)
	return &resp, nil
}

// Update actualización administrativa: perfil y rol, nunca credenciales.
func (uc *UserUseCase) Update(ctx context.Context, id uuid.UUID, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := uc.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Role != "" && !entity.ValidRole(in.Role) {
		return nil, domain.ErrValidation
	}

	if in.Username != "" {
		user.Username = in.Username
	}
	if in.Email != "" {
		user.Email = strings.ToLower(strings.TrimSpace(in.Email))
	}
	if in.Role != "" {
		user.Role = in.Role
	}
	if in.Photo != "" {
		user.Photo = in.Photo
	}
	user.UpdatedAt = time.Now()

	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	resp := dto.ToUserResponse(user)
	return &resp, nil
}

// Delete desactiva una cuenta (solo admin, borrado suave).
func (uc *UserUseCase) Delete(ctx context.Context, id uuid.UUID) error {
	return uc.userRepo.Deactivate(ctx, id)
}
