package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/eraam/booksaloon-api/internal/application/dto"
	"github.com/eraam/booksaloon-api/internal/domain"
	"github.com/eraam/booksaloon-api/internal/domain/entity"
	"github.com/eraam/booksaloon-api/internal/domain/repository"
	"github.com/eraam/booksaloon-api/pkg/jwt"
	"github.com/eraam/booksaloon-api/pkg/logger"
	"github.com/eraam/booksaloon-api/pkg/password"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// Config configuración del caso de uso de auth.
type Config struct {
	JWT      JWTConfig
	HashCost int
	BaseURL  string // base de los links de reset, ej. https://booksaloon.io
}

// UseCase casos de uso de autenticación: registro, login, reset y cambio de
// contraseña. Toda la lógica de credenciales vive aquí; los handlers solo
// traducen HTTP.
type UseCase struct {
	userRepo repository.UserRepository
	notifier Notifier
	cfg      Config
	log      *logger.Logger
}

// NewUseCase construye el caso de uso de auth.
func NewUseCase(userRepo repository.UserRepository, notifier Notifier, cfg Config, log *logger.Logger) *UseCase {
	return &UseCase{userRepo: userRepo, notifier: notifier, cfg: cfg, log: log}
}

// Signup crea una cuenta nueva. El rol siempre es "user" sin importar lo que
// venga en la petición. El email de bienvenida se envía en background: su
// fallo no afecta el registro.
func (uc *UseCase) Signup(ctx context.Context, in dto.SignupRequest) (*dto.AuthResponse, error) {
	if in.Username == "" || in.Email == "" || in.Password == "" || in.PasswordConfirm == "" {
		return nil, domain.ErrValidation
	}
	if err := validateNewPassword(in.Password, in.PasswordConfirm); err != nil {
		return nil, err
	}

	hash, err := password.Hash(in.Password, uc.cfg.HashCost)
	if err != nil {
		return nil, fmt.Errorf("hasheando contraseña: %w", err)
	}

	now := time.Now()
	user := &entity.User{
		ID:           uuid.New(),
		Username:     in.Username,
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		Role:         entity.RoleUser,
		PasswordHash: hash,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	// Bienvenida best-effort: no bloquea ni revierte el registro
	go func(u entity.User) {
		sendCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := uc.notifier.SendWelcome(sendCtx, &u); err != nil {
			uc.log.Warn().Err(err).Str("email", u.Email).Msg("no se pudo enviar email de bienvenida")
		}
	}(*user)

	return uc.authResponse(user)
}

// Login verifica credenciales y emite un token. Campos faltantes son error de
// validación; email desconocido y contraseña incorrecta producen exactamente
// el mismo error para no revelar qué cuentas existen.
func (uc *UseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.AuthResponse, error) {
	if in.Email == "" || in.Password == "" {
		return nil, domain.ErrValidation
	}

	user, err := uc.userRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Email)))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if !password.Verify(in.Password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	return uc.authResponse(user)
}

// ForgotPassword inicia el flujo de reset. La respuesta es la misma exista o
// no la cuenta. Si el envío del email falla, el reset pendiente se revierte y
// se retorna ErrDeliveryFailure: el estado queda como si nunca se hubiera
// solicitado.
func (uc *UseCase) ForgotPassword(ctx context.Context, in dto.ForgotPasswordRequest) error {
	if in.Email == "" {
		return domain.ErrValidation
	}

	user, err := uc.userRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(in.Email)))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil // respuesta genérica: no revelar inexistencia
		}
		return err
	}

	secret, digest, err := newResetToken()
	if err != nil {
		return err
	}

	// Un solo reset pendiente por usuario: esta escritura pisa el anterior
	expires := time.Now().Add(resetTokenTTL)
	user.ResetTokenDigest = digest
	user.ResetTokenExpiresAt = &expires
	if err := uc.userRepo.Update(ctx, user); err != nil {
		return err
	}

	resetURL := fmt.Sprintf("%s/api/users/resetPassword/%s", strings.TrimRight(uc.cfg.BaseURL, "/"), secret)
	if err := uc.notifier.SendPasswordReset(ctx, user, resetURL); err != nil {
		uc.log.Error().Err(err).Str("email", user.Email).Msg("fallo enviando email de reset")
		// Rollback: el secreto enviado en un email que nunca llegó no debe quedar vivo
		user.ClearResetToken()
		if rbErr := uc.userRepo.Update(ctx, user); rbErr != nil {
			uc.log.Error().Err(rbErr).Str("user_id", user.ID.String()).Msg("fallo revirtiendo token de reset")
		}
		return domain.ErrDeliveryFailure
	}

	return nil
}

// ResetPassword consume un token de reset: fija la contraseña nueva, limpia el
// reset pendiente en la misma escritura (uso único) y emite un token fresco.
// PasswordChangedAt se estampa 1 segundo en el pasado para que el token recién
// emitido no caiga en la comparación por segundos.
func (uc *UseCase) ResetPassword(ctx context.Context, secret string, in dto.ResetPasswordRequest) (*dto.TokenResponse, error) {
	if err := validateNewPassword(in.Password, in.PasswordConfirm); err != nil {
		return nil, err
	}

	user, err := uc.userRepo.FindByResetDigest(ctx, hashResetToken(secret), time.Now())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidResetToken
		}
		return nil, err
	}

	hash, err := password.Hash(in.Password, uc.cfg.HashCost)
	if err != nil {
		return nil, fmt.Errorf("hasheando contraseña: %w", err)
	}

	changedAt := time.Now().Add(-time.Second)
	user.PasswordHash = hash
	user.PasswordChangedAt = &changedAt
	user.ClearResetToken()
	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	token, err := jwt.Generate(uc.cfg.JWT.Secret, user.ID.String(), uc.cfg.JWT.Issuer, uc.cfg.JWT.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.TokenResponse{Token: token}, nil
}

// UpdatePassword cambia la contraseña de un usuario autenticado. Exige la
// contraseña actual aunque haya sesión válida. Invalida los tokens anteriores
// (vía PasswordChangedAt) y devuelve uno fresco para no cortar la sesión.
func (uc *UseCase) UpdatePassword(ctx context.Context, user *entity.User, in dto.UpdatePasswordRequest) (*dto.TokenResponse, error) {
	if in.PasswordCurrent == "" {
		return nil, domain.ErrValidation
	}
	if err := validateNewPassword(in.Password, in.PasswordConfirm); err != nil {
		return nil, err
	}
	if !password.Verify(in.PasswordCurrent, user.PasswordHash) {
		return nil, domain.ErrWrongPassword
	}

	hash, err := password.Hash(in.Password, uc.cfg.HashCost)
	if err != nil {
		return nil, fmt.Errorf("hasheando contraseña: %w", err)
	}

	changedAt := time.Now().Add(-time.Second)
	user.PasswordHash = hash
	user.PasswordChangedAt = &changedAt
	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	token, err := jwt.Generate(uc.cfg.JWT.Secret, user.ID.String(), uc.cfg.JWT.Issuer, uc.cfg.JWT.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.TokenResponse{Token: token}, nil
}

func (uc *UseCase) authResponse(user *entity.User) (*dto.AuthResponse, error) {
	token, err := jwt.Generate(uc.cfg.JWT.Secret, user.ID.String(), uc.cfg.JWT.Issuer, uc.cfg.JWT.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.AuthResponse{Token: token, User: dto.ToUserResponse(user)}, nil
}

func validateNewPassword(plain, confirm string) error {
	if len(plain) < 8 {
		return domain.ErrPasswordTooShort
	}
	if plain != confirm {
		return domain.ErrPasswordMismatch
	}
	return nil
}
