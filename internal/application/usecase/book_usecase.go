package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/eraam/booksaloon-api/internal/application/dto"
	"github.com/eraam/booksaloon-api/internal/domain"
	"github.com/eraam/booksaloon-api/internal/domain/entity"
	"github.com/eraam/booksaloon-api/internal/domain/repository"
	"github.com/eraam/booksaloon-api/pkg/slug"
)

// BookUseCase casos de uso del catálogo de libros.
type BookUseCase struct {
	bookRepo repository.BookRepository
}

// NewBookUseCase construye el caso de uso de libros.
func NewBookUseCase(bookRepo repository.BookRepository) *BookUseCase {
	return &BookUseCase{bookRepo: bookRepo}
}

// Create da de alta un libro. El slug se deriva del título más un sufijo de
// timestamp para garantizar unicidad sin round-trip extra.
func (uc *BookUseCase) Create(ctx context.Context, in dto.CreateBookRequest) (*dto.BookResponse, error) {
	if in.Title == "" || in.FirstName == "" || in.LastName == "" {
		return nil, domain.ErrValidation
	}
	if !entity.ValidFormat(in.Format) || !entity.ValidLanguage(in.Language) {
		return nil, domain.ErrValidation
	}
	if in.Year <= 0 || in.Pages <= 0 {
		return nil, domain.ErrValidation
	}
	if err := validatePublished(in.Published); err != nil {
		return nil, err
	}

	now := time.Now()
	book := &entity.Book{
		ID:        uuid.New(),
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Title:     in.Title,
		Year:      in.Year,
		Publisher: in.Publisher,
		Published: in.Published,
		Pages:     in.Pages,
		Language:  in.Language,
		Format:    in.Format,
		ISBN:      in.ISBN,
		Cover:     in.Cover,
		Slug:      fmt.Sprintf("%s-%d", slug.Make(in.Title), now.UnixMilli()),
		Hidden:    in.Hidden,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.bookRepo.Create(ctx, book); err != nil {
		return nil, err
	}

	resp := dto.ToBookResponse(book)
	return &resp, nil
}

// GetByID retorna un libro por id.
func (uc *BookUseCase) GetByID(ctx context.Context, id uuid.UUID) (*dto.BookResponse, error) {
	book, err := uc.bookRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.ToBookResponse(book)
	return &resp, nil
}

// List lista libros visibles con paginación y orden opcional
// (campo, prefijo "-" para descendente).
func (uc *BookUseCase) List(ctx context.Context, in dto.ListBooksRequest) (*dto.BookListResponse, error) {
	in.DefaultPage()

	params := repository.BookListParams{Limit: in.Limit, Offset: in.Offset, ShowHidden: in.Hidden}
	if in.Sort != "" {
		field := in.Sort
		if strings.HasPrefix(field, "-") {
			params.SortDesc = true
			field = field[1:]
		}
		switch field {
		case "title", "year", "ratings_average", "created_at":
			params.SortBy = field
		default:
			return nil, domain.ErrValidation
		}
	}

	books, total, err := uc.bookRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}
	return toBookList(books, in.Limit, in.Offset, total), nil
}

// TopRated retorna los 10 libros mejor calificados.
func (uc *BookUseCase) TopRated(ctx context.Context) (*dto.BookListResponse, error) {
	books, total, err := uc.bookRepo.List(ctx, repository.BookListParams{
		Limit:    10,
		SortBy:   "ratings_average",
		SortDesc: true,
	})
	if err != nil {
		return nil, err
	}
	return toBookList(books, 10, 0, total), nil
}

// Update aplica una actualización parcial. Los derivados de rating y el slug
// no se tocan desde aquí.
func (uc *BookUseCase) Update(ctx context.Context, id uuid.UUID, in dto.UpdateBookRequest) (*dto.BookResponse, error) {
	book, err := uc.bookRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.FirstName != nil {
		book.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		book.LastName = *in.LastName
	}
	if in.Title != nil {
		if *in.Title == "" {
			return nil, domain.ErrValidation
		}
		book.Title = *in.Title
	}
	if in.Year != nil {
		book.Year = *in.Year
	}
	if in.Publisher != nil {
		book.Publisher = *in.Publisher
	}
	if in.Published != nil {
		if err := validatePublished(*in.Published); err != nil {
			return nil, err
		}
		book.Published = *in.Published
	}
	if in.Pages != nil {
		book.Pages = *in.Pages
	}
	if in.Language != nil {
		if !entity.ValidLanguage(*in.Language) {
			return nil, domain.ErrValidation
		}
		book.Language = *in.Language
	}
	if in.Format != nil {
		if !entity.ValidFormat(*in.Format) {
			return nil, domain.ErrValidation
		}
		book.Format = *in.Format
	}
	if in.ISBN != nil {
		book.ISBN = *in.ISBN
	}
	if in.Cover != nil {
		book.Cover = *in.Cover
	}
	if in.Hidden != nil {
		book.Hidden = *in.Hidden
	}
	book.UpdatedAt = time.Now()

	if err := uc.bookRepo.Update(ctx, book); err != nil {
		return nil, err
	}
	resp := dto.ToBookResponse(book)
	return &resp, nil
}

// Delete elimina un libro del catálogo.
func (uc *BookUseCase) Delete(ctx context.Context, id uuid.UUID) error {
	return uc.bookRepo.Delete(ctx, id)
}

// Stats agregados por editorial/formato.
func (uc *BookUseCase) Stats(ctx context.Context) ([]dto.BookStatsResponse, error) {
	stats, err := uc.bookRepo.StatsByFormat(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.BookStatsResponse, 0, len(stats))
	for _, s := range stats {
		out = append(out, dto.BookStatsResponse{
			Publisher: s.Publisher,
			Format:    s.Format,
			Count:     s.Count,
			AvgPages:  s.AvgPages,
			AvgRating: s.AvgRating,
		})
	}
	return out, nil
}

// ByMonth libros publicados por mes de un año.
func (uc *BookUseCase) ByMonth(ctx context.Context, year int) ([]dto.MonthCountResponse, error) {
	if year < 1 || year > 2100 {
		return nil, domain.ErrValidation
	}
	counts, err := uc.bookRepo.CountByMonth(ctx, year)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MonthCountResponse, 0, len(counts))
	for _, c := range counts {
		out = append(out, dto.MonthCountResponse{Month: c.Month, Count: c.Count})
	}
	return out, nil
}

// validatePublished exige fecha YYYY-MM-DD: books-by-month castea la columna a
// DATE y un valor libre rompería ese agregado para siempre.
func validatePublished(s string) error {
	if s == "" {
		return nil
	}
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return domain.ErrValidation
	}
	return nil
}

func toBookList(books []entity.Book, limit, offset int, total int64) *dto.BookListResponse {
	items := make([]dto.BookResponse, 0, len(books))
	for i := range books {
		items = append(items, dto.ToBookResponse(&books[i]))
	}
	return &dto.BookListResponse{
		Books: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset, Total: total},
	}
}
