package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/eraam/booksaloon-api/internal/domain/entity"
)

// RatingSummary agregado de reseñas de un libro.
type RatingSummary struct {
	Average  decimal.Decimal
	Quantity int
}

// ReviewRepository puerto de persistencia de reseñas.
type ReviewRepository interface {
	Create(ctx context.Context, review *entity.Review) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Review, error)
	ListByBook(ctx context.Context, bookID uuid.UUID, limit, offset int) ([]entity.Review, int64, error)
	Update(ctx context.Context, review *entity.Review) error
	Delete(ctx context.Context, id uuid.UUID) error

	// Summarize calcula promedio y cantidad de reseñas del libro.
	Summarize(ctx context.Context, bookID uuid.UUID) (RatingSummary, error)
}
