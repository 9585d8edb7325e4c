package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/eraam/booksaloon-api/internal/application/dto"
	"github.com/eraam/booksaloon-api/internal/application/usecase"
)

// ReviewHandler reseñas anidadas bajo libros.
type ReviewHandler struct {
	uc *usecase.ReviewUseCase
}

// NewReviewHandler construye el handler de reseñas.
func NewReviewHandler(uc *usecase.ReviewUseCase) *ReviewHandler {
	return &ReviewHandler{uc: uc}
}

// ListByBook godoc
// @Summary      Listar reseñas de un libro
// @Tags         reviews
// @Produce      json
// @Param        bookId  path   string  true   "book id"
// @Param        limit   query  int     false  "máximo de resultados"
// @Param        offset  query  int     false  "desplazamiento"
// @Success      200  {object}  dto.ReviewListResponse
// @Router       /api/books/{bookId}/reviews [get]
func (h *ReviewHandler) ListByBook(c *fiber.Ctx) error {
	bookID, err := uuid.Parse(c.Params("bookId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id de libro inválido"})
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "parámetros de paginación inválidos"})
	}
	out, err := h.uc.ListByBook(c.Context(), bookID, page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Reseñar un libro (rol user)
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        bookId  path  string  true  "book id"
// @Param        body    body  dto.CreateReviewRequest  true  "review, rating"
// @Success      201  {object}  dto.ReviewResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/books/{bookId}/reviews [post]
func (h *ReviewHandler) Create(c *fiber.Ctx) error {
	bookID, err := uuid.Parse(c.Params("bookId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id de libro inválido"})
	}
	var in dto.CreateReviewRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	// El autor sale de la sesión, nunca del cuerpo
	out, err := h.uc.Create(c.Context(), bookID, CurrentUser(c).ID, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Get godoc
// @Summary      Obtener una reseña
// @Tags         reviews
// @Produce      json
// @Param        bookId  path  string  true  "book id"
// @Param        id      path  string  true  "review id"
// @Success      200  {object}  dto.ReviewResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/books/{bookId}/reviews/{id} [get]
func (h *ReviewHandler) Get(c *fiber.Ctx) error {
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

// Update godoc
// @Summary      Actualizar una reseña (autor o admin)
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        bookId  path  string  true  "book id"
// @Param        id      path  string  true  "review id"
// @Param        body    body  dto.UpdateReviewRequest  true  "review, rating"
// @Success      200  {object}  dto.ReviewResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/books/{bookId}/reviews/{id} [patch]
func (h *ReviewHandler) Update(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id inválido"})
	}
	var in dto.UpdateReviewRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Update(c.Context(), id, CurrentUser(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar una reseña (autor o admin)
// @Tags         reviews
// @Security     BearerAuth
// @Param        bookId  path  string  true  "book id"
// @Param        id      path  string  true  "review id"
// @Success      204
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/books/{bookId}/reviews/{id} [delete]
func (h *ReviewHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id inválido"})
	}
	if err := h.uc.Delete(c.Context(), id, CurrentUser(c)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
