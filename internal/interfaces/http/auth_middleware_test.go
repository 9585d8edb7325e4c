package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eraam/booksaloon-api/internal/domain"
	"github.com/eraam/booksaloon-api/internal/domain/entity"
	apphttp "github.com/eraam/booksaloon-api/internal/interfaces/http"
	pkgjwt "github.com/eraam/booksaloon-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testIssuer    = "booksaloon-test"
	testExpMin    = 60
)

// stubResolver resuelve identidades desde un mapa en memoria.
type stubResolver struct {
	users map[uuid.UUID]*entity.User
}

func newStubResolver(users ...*entity.User) *stubResolver {
	r := &stubResolver{users: make(map[uuid.UUID]*entity.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *stubResolver) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	if u, ok := r.users[id]; ok && u.Active {
		return u, nil
	}
	return nil, domain.ErrNotFound
}

func testUser(role string) *entity.User {
	return &entity.User{
		ID:       uuid.New(),
		Username: "lector",
		Email:    "lector@example.com",
		Role:     role,
		Active:   true,
	}
}

// buildTestApp construye una aplicación Fiber mínima con:
//   - Protect para verificar el token y resolver el usuario
//   - RequireRole para autorizar el acceso
//   - Un handler dummy que devuelve 200 si pasa los middlewares
func buildTestApp(resolver apphttp.UserResolver, allowedRoles ...string) *fiber.App {
	app := fiber.New()
	handlers := []fiber.Handler{apphttp.Protect(testJWTSecret, resolver)}
	if len(allowedRoles) > 0 {
		handlers = append(handlers, apphttp.RequireRole(allowedRoles...))
	}
	handlers = append(handlers, func(c *fiber.Ctx) error {
		u := apphttp.CurrentUser(c)
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"ok":   true,
			"role": u.Role,
			"id":   u.ID.String(),
		})
	})
	app.Get("/protected", handlers...)
	return app
}

// tokenFor genera un JWT para el usuario dado.
func tokenFor(t *testing.T, u *entity.User) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, u.ID.String(), testIssuer, testExpMin)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return tok
}

// doRequest lanza una petición GET /protected y devuelve la respuesta.
func doRequest(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests Protect — transporte y resolución del token
// ──────────────────────────────────────────────────────────────────────────────

func TestProtect_TokenValidoEnHeader_Resuelve(t *testing.T) {
	u := testUser(entity.RoleUser)
	app := buildTestApp(newStubResolver(u))

	resp := doRequest(t, app, "Bearer "+tokenFor(t, u))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, u.ID.String(), body["id"], "el usuario resuelto debe ser el del token")
}

func TestProtect_TokenValidoEnCookie_Resuelve(t *testing.T) {
	u := testUser(entity.RoleUser)
	app := buildTestApp(newStubResolver(u))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: apphttp.CookieName, Value: tokenFor(t, u)})
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode,
		"la cookie jwt es un transporte válido cuando falta el header")
}

func TestProtect_SinToken_Retorna401(t *testing.T) {
	app := buildTestApp(newStubResolver())
	resp := doRequest(t, app, "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestProtect_TokenMalformado_Retorna401(t *testing.T) {
	app := buildTestApp(newStubResolver())
	resp := doRequest(t, app, "Bearer token.invalido.aqui")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestProtect_TokenExpirado_Retorna401(t *testing.T) {
	u := testUser(entity.RoleUser)
	app := buildTestApp(newStubResolver(u))

	tok, err := pkgjwt.Generate(testJWTSecret, u.ID.String(), testIssuer, -1)
	require.NoError(t, err)

	resp := doRequest(t, app, "Bearer "+tok)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "TOKEN_EXPIRED")
}

func TestProtect_UsuarioYaNoExiste_Retorna401(t *testing.T) {
	u := testUser(entity.RoleUser)
	// El resolver no conoce al usuario: cuenta borrada después de emitir el token
	app := buildTestApp(newStubResolver())

	resp := doRequest(t, app, "Bearer "+tokenFor(t, u))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "does no longer exist")
}

func TestProtect_UsuarioDesactivado_Retorna401(t *testing.T) {
	u := testUser(entity.RoleUser)
	u.Active = false
	app := buildTestApp(newStubResolver(u))

	resp := doRequest(t, app, "Bearer "+tokenFor(t, u))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode,
		"una cuenta desactivada no resuelve aunque el token sea válido")
}

func TestProtect_PasswordCambiadaDespuesDelToken_Retorna401(t *testing.T) {
	u := testUser(entity.RoleUser)
	app := buildTestApp(newStubResolver(u))
	tok := tokenFor(t, u)

	// La contraseña cambia después de emitido el token
	changed := time.Now().Add(5 * time.Second)
	u.PasswordChangedAt = &changed

	resp := doRequest(t, app, "Bearer "+tok)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "recently changed password")
}

// failingResolver simula un store caído.
type failingResolver struct{}

func (failingResolver) FindByID(context.Context, uuid.UUID) (*entity.User, error) {
	return nil, errors.New("pool: conexión rechazada")
}

// Store caído no es un problema de credenciales: 500 INTERNAL, nunca 401.
func TestProtect_FalloDelStore_Retorna500(t *testing.T) {
	u := testUser(entity.RoleUser)
	app := buildTestApp(failingResolver{})

	resp := doRequest(t, app, "Bearer "+tokenFor(t, u))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "INTERNAL")
	assert.NotContains(t, string(body), "not logged in")
}

func TestProtect_PasswordCambiadaAntesDelToken_Pasa(t *testing.T) {
	u := testUser(entity.RoleUser)
	changed := time.Now().Add(-time.Hour)
	u.PasswordChangedAt = &changed
	app := buildTestApp(newStubResolver(u))

	resp := doRequest(t, app, "Bearer "+tokenFor(t, u))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode,
		"un cambio de contraseña anterior al token no lo invalida")
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests RequireRole
// ──────────────────────────────────────────────────────────────────────────────

func TestRequireRole_AdminAccedeRutaAdmin(t *testing.T) {
	u := testUser(entity.RoleAdmin)
	app := buildTestApp(newStubResolver(u), entity.RoleAdmin)

	resp := doRequest(t, app, "Bearer "+tokenFor(t, u))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode,
		"admin debe poder acceder a ruta restringida a admin")
}

func TestRequireRole_LibrarianAccedeRutaAdminOLibrarian(t *testing.T) {
	u := testUser(entity.RoleLibrarian)
	app := buildTestApp(newStubResolver(u), entity.RoleAdmin, entity.RoleLibrarian)

	resp := doRequest(t, app, "Bearer "+tokenFor(t, u))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode,
		"librarian debe poder acceder a ruta que permite admin o librarian")
}

func TestRequireRole_UserBloqueadoEnRutaAdmin(t *testing.T) {
	u := testUser(entity.RoleUser)
	app := buildTestApp(newStubResolver(u), entity.RoleAdmin)

	resp := doRequest(t, app, "Bearer "+tokenFor(t, u))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode,
		"user no debe poder acceder a ruta restringida a admin")

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "FORBIDDEN",
		"la respuesta de error debe incluir el código FORBIDDEN")
}

// El rol se lee del usuario resuelto, no del token: un cambio de rol en DB
// aplica en la siguiente petición con el mismo token.
func TestRequireRole_CambioDeRolEnDB_AplicaConMismoToken(t *testing.T) {
	u := testUser(entity.RoleUser)
	app := buildTestApp(newStubResolver(u), entity.RoleAdmin)
	tok := tokenFor(t, u)

	resp := doRequest(t, app, "Bearer "+tok)
	resp.Body.Close()
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	u.Role = entity.RoleAdmin

	resp = doRequest(t, app, "Bearer "+tok)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

// RequireRole sin Protect delante es un error de cableado: 500, nunca 403.
func TestRequireRole_SinProtect_Retorna500(t *testing.T) {
	app := fiber.New()
	app.Get("/mal-cableado", apphttp.RequireRole(entity.RoleAdmin), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/mal-cableado", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests IsLoggedIn
// ──────────────────────────────────────────────────────────────────────────────

func TestIsLoggedIn_SinToken_SigueAnonimo(t *testing.T) {
	app := fiber.New()
	app.Get("/page", apphttp.IsLoggedIn(testJWTSecret, newStubResolver()), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"anonymous": apphttp.CurrentUser(c) == nil})
	})

	req := httptest.NewRequest(http.MethodGet, "/page", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]bool
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.True(t, body["anonymous"])
}

func TestIsLoggedIn_ConToken_ResuelveUsuario(t *testing.T) {
	u := testUser(entity.RoleUser)
	app := fiber.New()
	app.Get("/page", apphttp.IsLoggedIn(testJWTSecret, newStubResolver(u)), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"anonymous": apphttp.CurrentUser(c) == nil})
	})

	req := httptest.NewRequest(http.MethodGet, "/page", nil)
	req.AddCookie(&http.Cookie{Name: apphttp.CookieName, Value: tokenFor(t, u)})
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]bool
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.False(t, body["anonymous"])
}

func TestIsLoggedIn_TokenInvalido_SigueAnonimoSinError(t *testing.T) {
	app := fiber.New()
	app.Get("/page", apphttp.IsLoggedIn(testJWTSecret, newStubResolver()), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"anonymous": apphttp.CurrentUser(c) == nil})
	})

	req := httptest.NewRequest(http.MethodGet, "/page", nil)
	req.Header.Set("Authorization", "Bearer token.invalido.aqui")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode,
		"IsLoggedIn nunca rechaza: token inválido equivale a anónimo")
}
