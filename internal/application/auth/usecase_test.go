package auth_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eraam/booksaloon-api/internal/application/auth"
	"github.com/eraam/booksaloon-api/internal/application/dto"
	"github.com/eraam/booksaloon-api/internal/domain"
	"github.com/eraam/booksaloon-api/internal/domain/entity"
	"github.com/eraam/booksaloon-api/pkg/logger"
	"github.com/eraam/booksaloon-api/pkg/password"
)

// ---- fakes ----

// fakeUserRepo repositorio de usuarios en memoria para tests.
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*entity.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return domain.ErrEmailAlreadyExists
		}
	}
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email && u.Active {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok && u.Active {
		cp := *u
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (r *fakeUserRepo) FindByResetDigest(_ context.Context, digest string, now time.Time) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Active && u.ResetTokenDigest == digest && digest != "" &&
			u.ResetTokenExpiresAt != nil && u.ResetTokenExpiresAt.After(now) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeUserRepo) Update(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) List(_ context.Context, _, _ int) ([]entity.User, int64, error) {
	return nil, 0, nil
}

func (r *fakeUserRepo) Deactivate(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		u.Active = false
		return nil
	}
	return domain.ErrNotFound
}

// get lee el estado persistido tal cual (para aserciones).
func (r *fakeUserRepo) get(id uuid.UUID) *entity.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *r.users[id]
	return &cp
}

// recordingNotifier registra los envíos y permite simular fallos.
type recordingNotifier struct {
	mu         sync.Mutex
	welcomes   []string
	resetURLs  []string
	failResets bool
}

func (n *recordingNotifier) SendWelcome(_ context.Context, u *entity.User) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.welcomes = append(n.welcomes, u.Email)
	return nil
}

func (n *recordingNotifier) SendPasswordReset(_ context.Context, u *entity.User, resetURL string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.failResets {
		return errors.New("smtp: connection refused")
	}
	n.resetURLs = append(n.resetURLs, resetURL)
	return nil
}

func (n *recordingNotifier) lastResetSecret(t *testing.T) string {
	t.Helper()
	n.mu.Lock()
	defer n.mu.Unlock()
	require.NotEmpty(t, n.resetURLs, "se esperaba al menos un email de reset")
	url := n.resetURLs[len(n.resetURLs)-1]
	return url[strings.LastIndex(url, "/")+1:]
}

// ---- helpers ----

const testHashCost = 4

func newTestUseCase(t *testing.T) (*auth.UseCase, *fakeUserRepo, *recordingNotifier) {
	t.Helper()
	repo := newFakeUserRepo()
	notifier := &recordingNotifier{}
	uc := auth.NewUseCase(repo, notifier, auth.Config{
		JWT:      auth.JWTConfig{Secret: "test-secret", ExpMinutes: 60, Issuer: "booksaloon-test"},
		HashCost: testHashCost,
		BaseURL:  "http://localhost:8080",
	}, logger.New(logger.Config{Env: "development", Level: "error"}))
	return uc, repo, notifier
}

func seedUser(t *testing.T, repo *fakeUserRepo, email, plain string) *entity.User {
	t.Helper()
	hash, err := password.Hash(plain, testHashCost)
	require.NoError(t, err)
	u := &entity.User{
		ID:           uuid.New(),
		Username:     "lector",
		Email:        email,
		Role:         entity.RoleUser,
		PasswordHash: hash,
		Active:       true,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	require.NoError(t, repo.Create(context.Background(), u))
	return u
}

// ---- signup ----

func TestSignup_CreaUsuarioConRolUser(t *testing.T) {
	uc, repo, _ := newTestUseCase(t)

	resp, err := uc.Signup(context.Background(), dto.SignupRequest{
		Username:        "ana",
		Email:           "Ana@Example.com",
		Password:        "contraseña-larga",
		PasswordConfirm: "contraseña-larga",
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)

	// El rol es siempre "user" y el email se normaliza
	assert.Equal(t, entity.RoleUser, resp.User.Role)
	assert.Equal(t, "ana@example.com", resp.User.Email)

	id := uuid.MustParse(resp.User.ID)
	stored := repo.get(id)
	assert.True(t, stored.Active)
	assert.NotEqual(t, "contraseña-larga", stored.PasswordHash, "la contraseña nunca se guarda en claro")
	assert.True(t, password.Verify("contraseña-larga", stored.PasswordHash))
}

func TestSignup_PasswordCorta_Rechaza(t *testing.T) {
	uc, _, _ := newTestUseCase(t)

	_, err := uc.Signup(context.Background(), dto.SignupRequest{
		Username: "ana", Email: "ana@example.com",
		Password: "corta", PasswordConfirm: "corta",
	})
	assert.ErrorIs(t, err, domain.ErrPasswordTooShort)
}

func TestSignup_ConfirmacionNoCoincide_Rechaza(t *testing.T) {
	uc, _, _ := newTestUseCase(t)

	_, err := uc.Signup(context.Background(), dto.SignupRequest{
		Username: "ana", Email: "ana@example.com",
		Password: "contraseña-larga", PasswordConfirm: "otra-distinta",
	})
	assert.ErrorIs(t, err, domain.ErrPasswordMismatch)
}

// ---- login ----

func TestLogin_CredencialesValidas_EmiteToken(t *testing.T) {
	uc, repo, _ := newTestUseCase(t)
	seedUser(t, repo, "ana@example.com", "contraseña-larga")

	resp, err := uc.Login(context.Background(), dto.LoginRequest{
		Email: "ana@example.com", Password: "contraseña-larga",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "ana@example.com", resp.User.Email)
}

func TestLogin_ErrorIdenticoParaEmailYPasswordIncorrectos(t *testing.T) {
	uc, repo, _ := newTestUseCase(t)
	seedUser(t, repo, "ana@example.com", "contraseña-larga")

	_, errNoExiste := uc.Login(context.Background(), dto.LoginRequest{
		Email: "nadie@example.com", Password: "contraseña-larga",
	})
	_, errMalPass := uc.Login(context.Background(), dto.LoginRequest{
		Email: "ana@example.com", Password: "incorrecta-123",
	})

	// Mismo error exacto: no se revela si la cuenta existe
	assert.ErrorIs(t, errNoExiste, domain.ErrInvalidCredentials)
	assert.ErrorIs(t, errMalPass, domain.ErrInvalidCredentials)
	assert.Equal(t, errNoExiste.Error(), errMalPass.Error())
}

func TestLogin_CamposFaltantes_ErrorDeValidacion(t *testing.T) {
	uc, _, _ := newTestUseCase(t)

	_, err := uc.Login(context.Background(), dto.LoginRequest{Email: "ana@example.com"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = uc.Login(context.Background(), dto.LoginRequest{Password: "algo"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestLogin_UsuarioDesactivado_CredencialesInvalidas(t *testing.T) {
	uc, repo, _ := newTestUseCase(t)
	u := seedUser(t, repo, "ana@example.com", "contraseña-larga")
	require.NoError(t, repo.Deactivate(context.Background(), u.ID))

	_, err := uc.Login(context.Background(), dto.LoginRequest{
		Email: "ana@example.com", Password: "contraseña-larga",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials,
		"una cuenta desactivada es indistinguible de una inexistente")
}

// ---- forgot password ----

func TestForgotPassword_GuardaDigestNoElSecreto(t *testing.T) {
	uc, repo, notifier := newTestUseCase(t)
	u := seedUser(t, repo, "ana@example.com", "contraseña-larga")

	require.NoError(t, uc.ForgotPassword(context.Background(), dto.ForgotPasswordRequest{Email: "ana@example.com"}))

	secret := notifier.lastResetSecret(t)
	stored := repo.get(u.ID)
	require.NotEmpty(t, stored.ResetTokenDigest)
	assert.NotEqual(t, secret, stored.ResetTokenDigest, "en DB va el digest, nunca el secreto")
	require.NotNil(t, stored.ResetTokenExpiresAt)
	assert.WithinDuration(t, time.Now().Add(10*time.Minute), *stored.ResetTokenExpiresAt, 5*time.Second)
}

func TestForgotPassword_EmailDesconocido_NoFallaNiEnvia(t *testing.T) {
	uc, _, notifier := newTestUseCase(t)

	err := uc.ForgotPassword(context.Background(), dto.ForgotPasswordRequest{Email: "nadie@example.com"})
	assert.NoError(t, err)
	assert.Empty(t, notifier.resetURLs)
}

func TestForgotPassword_NuevaSolicitudPisaLaAnterior(t *testing.T) {
	uc, repo, notifier := newTestUseCase(t)
	u := seedUser(t, repo, "ana@example.com", "contraseña-larga")

	require.NoError(t, uc.ForgotPassword(context.Background(), dto.ForgotPasswordRequest{Email: "ana@example.com"}))
	firstSecret := notifier.lastResetSecret(t)
	firstDigest := repo.get(u.ID).ResetTokenDigest

	require.NoError(t, uc.ForgotPassword(context.Background(), dto.ForgotPasswordRequest{Email: "ana@example.com"}))
	secondSecret := notifier.lastResetSecret(t)

	require.NotEqual(t, firstSecret, secondSecret)
	assert.NotEqual(t, firstDigest, repo.get(u.ID).ResetTokenDigest)

	// El secreto viejo quedó invalidado por la segunda solicitud
	_, err := uc.ResetPassword(context.Background(), firstSecret, dto.ResetPasswordRequest{
		Password: "nueva-contraseña", PasswordConfirm: "nueva-contraseña",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidResetToken)

	// El nuevo sigue funcionando
	_, err = uc.ResetPassword(context.Background(), secondSecret, dto.ResetPasswordRequest{
		Password: "nueva-contraseña", PasswordConfirm: "nueva-contraseña",
	})
	assert.NoError(t, err)
}

func TestForgotPassword_FalloDeEnvio_RevierteElReset(t *testing.T) {
	uc, repo, notifier := newTestUseCase(t)
	u := seedUser(t, repo, "ana@example.com", "contraseña-larga")
	notifier.failResets = true

	err := uc.ForgotPassword(context.Background(), dto.ForgotPasswordRequest{Email: "ana@example.com"})
	assert.ErrorIs(t, err, domain.ErrDeliveryFailure)

	// El estado queda como si nunca se hubiera solicitado
	stored := repo.get(u.ID)
	assert.Empty(t, stored.ResetTokenDigest)
	assert.Nil(t, stored.ResetTokenExpiresAt)
}

// ---- reset password ----

func TestResetPassword_Valido_CambiaPasswordYConsumeElToken(t *testing.T) {
	uc, repo, notifier := newTestUseCase(t)
	u := seedUser(t, repo, "ana@example.com", "contraseña-larga")

	require.NoError(t, uc.ForgotPassword(context.Background(), dto.ForgotPasswordRequest{Email: "ana@example.com"}))
	secret := notifier.lastResetSecret(t)

	resp, err := uc.ResetPassword(context.Background(), secret, dto.ResetPasswordRequest{
		Password: "nueva-contraseña", PasswordConfirm: "nueva-contraseña",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)

	stored := repo.get(u.ID)
	assert.True(t, password.Verify("nueva-contraseña", stored.PasswordHash))
	assert.Empty(t, stored.ResetTokenDigest, "el token de reset es de un solo uso")
	assert.Nil(t, stored.ResetTokenExpiresAt)
	require.NotNil(t, stored.PasswordChangedAt)
	assert.True(t, stored.PasswordChangedAt.Before(time.Now()),
		"el sello va al pasado para no invalidar el token recién emitido")

	// Segundo uso del mismo secreto: rechazado
	_, err = uc.ResetPassword(context.Background(), secret, dto.ResetPasswordRequest{
		Password: "otra-contraseña1", PasswordConfirm: "otra-contraseña1",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidResetToken)
}

func TestResetPassword_TokenExpirado_Rechaza(t *testing.T) {
	uc, repo, notifier := newTestUseCase(t)
	u := seedUser(t, repo, "ana@example.com", "contraseña-larga")

	require.NoError(t, uc.ForgotPassword(context.Background(), dto.ForgotPasswordRequest{Email: "ana@example.com"}))
	secret := notifier.lastResetSecret(t)

	// Forzar la expiración hacia el pasado
	stored := repo.get(u.ID)
	past := time.Now().Add(-time.Minute)
	stored.ResetTokenExpiresAt = &past
	require.NoError(t, repo.Update(context.Background(), stored))

	_, err := uc.ResetPassword(context.Background(), secret, dto.ResetPasswordRequest{
		Password: "nueva-contraseña", PasswordConfirm: "nueva-contraseña",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidResetToken)

	// La contraseña original sigue vigente
	assert.True(t, password.Verify("contraseña-larga", repo.get(u.ID).PasswordHash))
}

func TestResetPassword_TokenInventado_Rechaza(t *testing.T) {
	uc, _, _ := newTestUseCase(t)

	_, err := uc.ResetPassword(context.Background(), "deadbeef", dto.ResetPasswordRequest{
		Password: "nueva-contraseña", PasswordConfirm: "nueva-contraseña",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidResetToken)
}

// ---- update password ----

func TestUpdatePassword_ReVerificaLaActual(t *testing.T) {
	uc, repo, _ := newTestUseCase(t)
	u := seedUser(t, repo, "ana@example.com", "contraseña-larga")

	_, err := uc.UpdatePassword(context.Background(), u, dto.UpdatePasswordRequest{
		PasswordCurrent: "no-es-la-actual",
		Password:        "nueva-contraseña",
		PasswordConfirm: "nueva-contraseña",
	})
	assert.ErrorIs(t, err, domain.ErrWrongPassword)
}

func TestUpdatePassword_EstampaCambioYEmiteTokenFresco(t *testing.T) {
	uc, repo, _ := newTestUseCase(t)
	u := seedUser(t, repo, "ana@example.com", "contraseña-larga")

	resp, err := uc.UpdatePassword(context.Background(), u, dto.UpdatePasswordRequest{
		PasswordCurrent: "contraseña-larga",
		Password:        "nueva-contraseña",
		PasswordConfirm: "nueva-contraseña",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)

	stored := repo.get(u.ID)
	assert.True(t, password.Verify("nueva-contraseña", stored.PasswordHash))
	require.NotNil(t, stored.PasswordChangedAt)

	// Un token emitido 5 segundos antes del cambio queda invalidado
	assert.True(t, stored.ChangedPasswordAfter(time.Now().Add(-5*time.Second)))
	// El token fresco (emitido ahora) sigue siendo válido
	assert.False(t, stored.ChangedPasswordAfter(time.Now()))
}
