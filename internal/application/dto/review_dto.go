package dto

import (
	"time"

	"github.com/eraam/booksaloon-api/internal/domain/entity"
)

// CreateReviewRequest entrada para crear una reseña. El libro viene de la URL
// anidada y el usuario de la sesión; no se aceptan del cuerpo.
type CreateReviewRequest struct {
	Review string `json:"review" validate:"required,max=2000"`
	Rating int    `json:"rating" validate:"required,min=1,max=5"`
}

// UpdateReviewRequest actualización parcial de una reseña.
type UpdateReviewRequest struct {
	Review *string `json:"review" validate:"omitempty,max=2000"`
	Rating *int    `json:"rating" validate:"omitempty,min=1,max=5"`
}

// ReviewResponse salida de una reseña.
type ReviewResponse struct {
	ID        string    `json:"id"`
	Review    string    `json:"review"`
	Rating    int       `json:"rating"`
	BookID    string    `json:"book_id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ReviewListResponse listado paginado de reseñas.
type ReviewListResponse struct {
	Reviews []ReviewResponse `json:"reviews"`
	Page    PageResponse     `json:"page"`
}

// ToReviewResponse mapea la entidad a su DTO de salida.
func ToReviewResponse(r *entity.Review) ReviewResponse {
	return ReviewResponse{
		ID:        r.ID.String(),
		Review:    r.Review,
		Rating:    r.Rating,
		BookID:    r.BookID.String(),
		UserID:    r.UserID.String(),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}
