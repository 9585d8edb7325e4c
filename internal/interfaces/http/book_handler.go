package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/eraam/booksaloon-api/internal/application/dto"
	"github.com/eraam/booksaloon-api/internal/application/usecase"
	"github.com/eraam/booksaloon-api/internal/domain/entity"
)

// BookHandler catálogo de libros.
type BookHandler struct {
	uc *usecase.BookUseCase
}

// NewBookHandler construye el handler de libros.
func NewBookHandler(uc *usecase.BookUseCase) *BookHandler {
	return &BookHandler{uc: uc}
}

// viewerIsStaff indica si el viewer (resuelto por IsLoggedIn) es admin o librarian.
func viewerIsStaff(c *fiber.Ctx) bool {
	u := CurrentUser(c)
	return u != nil && (u.Role == entity.RoleAdmin || u.Role == entity.RoleLibrarian)
}

// List godoc
// @Summary      Listar libros
// @Tags         books
// @Produce      json
// @Param        limit   query  int     false  "máximo de resultados"
// @Param        offset  query  int     false  "desplazamiento"
// @Param        sort    query  string  false  "campo de orden, prefijo - para descendente"
// @Param        hidden  query  bool    false  "incluir libros ocultos (solo admin/librarian)"
// @Success      200  {object}  dto.BookListResponse
// @Router       /api/books [get]
func (h *BookHandler) List(c *fiber.Ctx) error {
	var in dto.ListBooksRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "parámetros inválidos"})
	}
	// Los ocultos solo son visibles para staff; para el resto el flag se ignora
	if in.Hidden && !viewerIsStaff(c) {
		in.Hidden = false
	}
	out, err := h.uc.List(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// TopRated godoc
// @Summary      Top 10 libros por rating
// @Tags         books
// @Produce      json
// @Success      200  {object}  dto.BookListResponse
// @Router       /api/books/top-10-books [get]
func (h *BookHandler) TopRated(c *fiber.Ctx) error {
	out, err := h.uc.TopRated(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Stats godoc
// @Summary      Agregados por editorial y formato
// @Tags         books
// @Produce      json
// @Success      200  {array}  dto.BookStatsResponse
// @Router       /api/books/book-stats [get]
func (h *BookHandler) Stats(c *fiber.Ctx) error {
	out, err := h.uc.Stats(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ByMonth godoc
// @Summary      Libros publicados por mes de un año
// @Tags         books
// @Produce      json
// @Param        year  path  int  true  "año"
// @Success      200   {array}  dto.MonthCountResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/books/books-by-month/{year} [get]
func (h *BookHandler) ByMonth(c *fiber.Ctx) error {
	year, err := strconv.Atoi(c.Params("year"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "año inválido"})
	}
	out, err := h.uc.ByMonth(c.Context(), year)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Obtener un libro
// @Tags         books
// @Produce      json
// @Param        id  path  string  true  "book id"
// @Success      200  {object}  dto.BookResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/books/{id} [get]
func (h *BookHandler) Get(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id inválido"})
	}
	out, err := h.uc.GetByID(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear un libro (admin/librarian)
// @Tags         books
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.CreateBookRequest  true  "datos del libro"
// @Success      201   {object}  dto.BookResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/books [post]
func (h *BookHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateBookRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Actualizar un libro (admin/librarian)
// @Tags         books
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string  true  "book id"
// @Param        body  body  dto.UpdateBookRequest  true  "campos a actualizar"
// @Success      200   {object}  dto.BookResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/books/{id} [patch]
func (h *BookHandler) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id inválido"})
	}
	var in dto.UpdateBookRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Update(c.Context(), id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar un libro (admin/librarian)
// @Tags         books
// @Security     BearerAuth
// @Param        id  path  string  true  "book id"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/books/{id} [delete]
func (h *BookHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id inválido"})
	}
	if err := h.uc.Delete(c.Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
