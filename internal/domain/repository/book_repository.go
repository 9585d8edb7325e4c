package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/eraam/booksaloon-api/internal/domain/entity"
)

// BookListParams parámetros de listado de libros.
type BookListParams struct {
	Limit      int
	Offset     int
	SortBy     string // title, year, ratings_average, created_at
	SortDesc   bool
	ShowHidden bool // solo listados administrativos
}

// FormatStats agregado de libros por formato (agrupado por editorial en mayúsculas).
type FormatStats struct {
	Publisher string
	Format    string
	Count     int64
	AvgPages  decimal.Decimal
	AvgRating decimal.Decimal
}

// MonthCount libros publicados por mes de un año dado.
type MonthCount struct {
	Month int
	Count int64
}

// BookRepository puerto de persistencia del catálogo.
type BookRepository interface {
	Create(ctx context.Context, book *entity.Book) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Book, error)
	List(ctx context.Context, params BookListParams) ([]entity.Book, int64, error)
	Update(ctx context.Context, book *entity.Book) error
	Delete(ctx context.Context, id uuid.UUID) error

	// UpdateRatings fija los derivados de reseñas del libro.
	UpdateRatings(ctx context.Context, bookID uuid.UUID, avg decimal.Decimal, quantity int) error

	StatsByFormat(ctx context.Context) ([]FormatStats, error)
	CountByMonth(ctx context.Context, year int) ([]MonthCount, error)
}
