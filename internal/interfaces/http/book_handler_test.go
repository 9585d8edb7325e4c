package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eraam/booksaloon-api/internal/application/usecase"
	"github.com/eraam/booksaloon-api/internal/domain"
	"github.com/eraam/booksaloon-api/internal/domain/entity"
	"github.com/eraam/booksaloon-api/internal/domain/repository"
	apphttp "github.com/eraam/booksaloon-api/internal/interfaces/http"
)

// memBooks fake mínimo que registra los parámetros del último listado.
type memBooks struct {
	lastParams repository.BookListParams
}

func (r *memBooks) Create(context.Context, *entity.Book) error { return nil }

func (r *memBooks) FindByID(context.Context, uuid.UUID) (*entity.Book, error) {
	return nil, domain.ErrNotFound
}

func (r *memBooks) List(_ context.Context, params repository.BookListParams) ([]entity.Book, int64, error) {
	r.lastParams = params
	return nil, 0, nil
}

func (r *memBooks) Update(context.Context, *entity.Book) error { return nil }
func (r *memBooks) Delete(context.Context, uuid.UUID) error    { return nil }

func (r *memBooks) UpdateRatings(context.Context, uuid.UUID, decimal.Decimal, int) error {
	return nil
}

func (r *memBooks) StatsByFormat(context.Context) ([]repository.FormatStats, error) {
	return nil, nil
}

func (r *memBooks) CountByMonth(context.Context, int) ([]repository.MonthCount, error) {
	return nil, nil
}

// buildBooksApp monta el listado público como lo hace el router: IsLoggedIn
// delante para que staff pueda pedir ?hidden=true.
func buildBooksApp(repo *memBooks, resolver apphttp.UserResolver) *fiber.App {
	app := fiber.New()
	h := apphttp.NewBookHandler(usecase.NewBookUseCase(repo))
	app.Get("/api/books", apphttp.IsLoggedIn(testJWTSecret, resolver), h.List)
	return app
}

func listBooks(t *testing.T, app *fiber.App, path, token string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestBookList_HiddenIgnoradoParaAnonimos(t *testing.T) {
	repo := &memBooks{}
	app := buildBooksApp(repo, newStubResolver())

	resp := listBooks(t, app, "/api/books?hidden=true", "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.False(t, repo.lastParams.ShowHidden,
		"un anónimo nunca ve libros ocultos aunque pida hidden=true")
}

func TestBookList_HiddenIgnoradoParaRolUser(t *testing.T) {
	repo := &memBooks{}
	u := testUser(entity.RoleUser)
	app := buildBooksApp(repo, newStubResolver(u))

	resp := listBooks(t, app, "/api/books?hidden=true", tokenFor(t, u))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.False(t, repo.lastParams.ShowHidden)
}

func TestBookList_HiddenHonradoParaStaff(t *testing.T) {
	for _, role := range []string{entity.RoleAdmin, entity.RoleLibrarian} {
		repo := &memBooks{}
		u := testUser(role)
		app := buildBooksApp(repo, newStubResolver(u))

		resp := listBooks(t, app, "/api/books?hidden=true", tokenFor(t, u))
		resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.True(t, repo.lastParams.ShowHidden, "rol %s debe poder listar ocultos", role)
	}
}

func TestBookList_SinFlag_NoIncluyeOcultosNiParaStaff(t *testing.T) {
	repo := &memBooks{}
	u := testUser(entity.RoleAdmin)
	app := buildBooksApp(repo, newStubResolver(u))

	resp := listBooks(t, app, "/api/books", tokenFor(t, u))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.False(t, repo.lastParams.ShowHidden)
}
