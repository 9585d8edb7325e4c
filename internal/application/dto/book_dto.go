package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/eraam/booksaloon-api/internal/domain/entity"
)

// CreateBookRequest entrada para crear un libro. El slug, los derivados de
// rating y los timestamps los fija el servidor.
type CreateBookRequest struct {
	FirstName string `json:"firstName" validate:"required,max=100"`
	LastName  string `json:"lastName" validate:"required,max=100"`
	Title     string `json:"title" validate:"required,max=300"`
	Year      int    `json:"year" validate:"required,min=1,max=2100"`
	Publisher string `json:"publisher" validate:"required,max=200"`
	Published string `json:"published" validate:"omitempty,max=50"`
	Pages     int    `json:"pages" validate:"required,min=1"`
	Language  string `json:"language" validate:"required,oneof=Lithuanian English Other"`
	Format    string `json:"format" validate:"required,oneof=Hardcover Paperback"`
	ISBN      string `json:"isbn" validate:"required,max=20"`
	Cover     string `json:"cover" validate:"omitempty,max=500"`
	Hidden    bool   `json:"hidden"`
}

// UpdateBookRequest entrada de actualización parcial. Los punteros distinguen
// "no enviado" de "valor cero".
type UpdateBookRequest struct {
	FirstName *string `json:"firstName" validate:"omitempty,max=100"`
	LastName  *string `json:"lastName" validate:"omitempty,max=100"`
	Title     *string `json:"title" validate:"omitempty,max=300"`
	Year      *int    `json:"year" validate:"omitempty,min=1,max=2100"`
	Publisher *string `json:"publisher" validate:"omitempty,max=200"`
	Published *string `json:"published" validate:"omitempty,max=50"`
	Pages     *int    `json:"pages" validate:"omitempty,min=1"`
	Language  *string `json:"language" validate:"omitempty,oneof=Lithuanian English Other"`
	Format    *string `json:"format" validate:"omitempty,oneof=Hardcover Paperback"`
	ISBN      *string `json:"isbn" validate:"omitempty,max=20"`
	Cover     *string `json:"cover" validate:"omitempty,max=500"`
	Hidden    *bool   `json:"hidden"`
}

// ListBooksRequest parámetros de listado.
type ListBooksRequest struct {
	PageRequest
	Sort   string `query:"sort"`   // campo, prefijo "-" para descendente
	Hidden bool   `query:"hidden"` // incluir ocultos; el handler lo limita a staff
}

// BookResponse salida de un libro.
type BookResponse struct {
	ID              string          `json:"id"`
	FirstName       string          `json:"firstName"`
	LastName        string          `json:"lastName"`
	Title           string          `json:"title"`
	Year            int             `json:"year"`
	Publisher       string          `json:"publisher"`
	Published       string          `json:"published,omitempty"`
	Pages           int             `json:"pages"`
	Language        string          `json:"language"`
	Format          string          `json:"format"`
	ISBN            string          `json:"isbn"`
	Cover           string          `json:"cover,omitempty"`
	RatingsAverage  decimal.Decimal `json:"ratingsAverage"`
	RatingsQuantity int             `json:"ratingsQuantity"`
	Slug            string          `json:"slug"`
	Hidden          bool            `json:"hidden"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// BookListResponse listado paginado de libros.
type BookListResponse struct {
	Books []BookResponse `json:"books"`
	Page  PageResponse   `json:"page"`
}

// BookStatsResponse fila del agregado por editorial/formato.
type BookStatsResponse struct {
	Publisher string          `json:"publisher"`
	Format    string          `json:"format"`
	Count     int64           `json:"count"`
	AvgPages  decimal.Decimal `json:"avgPages"`
	AvgRating decimal.Decimal `json:"avgRating"`
}

// MonthCountResponse libros publicados en un mes.
type MonthCountResponse struct {
	Month int   `json:"month"`
	Count int64 `json:"count"`
}

// ToBookResponse mapea la entidad a su DTO de salida.
func ToBookResponse(b *entity.Book) BookResponse {
	return BookResponse{
		ID:              b.ID.String(),
		FirstName:       b.FirstName,
		LastName:        b.LastName,
		Title:           b.Title,
		Year:            b.Year,
		Publisher:       b.Publisher,
		Published:       b.Published,
		Pages:           b.Pages,
		Language:        b.Language,
		Format:          b.Format,
		ISBN:            b.ISBN,
		Cover:           b.Cover,
		RatingsAverage:  b.RatingsAverage,
		RatingsQuantity: b.RatingsQuantity,
		Slug:            b.Slug,
		Hidden:          b.Hidden,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}
