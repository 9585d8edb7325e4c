package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/eraam/booksaloon-api/internal/domain"
	"github.com/eraam/booksaloon-api/internal/domain/entity"
	"github.com/eraam/booksaloon-api/internal/domain/repository"
)

var _ repository.BookRepository = (*BookRepo)(nil)

const bookColumns = `id, first_name, last_name, title, year, publisher, published,
	pages, language, format, isbn, cover, ratings_average, ratings_quantity,
	slug, hidden, created_at, updated_at`

// BookRepo implementación del puerto BookRepository sobre PostgreSQL.
type BookRepo struct {
	db DB
}

// NewBookRepository construye el adaptador de persistencia para libros.
func NewBookRepository(db DB) *BookRepo {
	return &BookRepo{db: db}
}

// Create persiste un libro nuevo.
func (r *BookRepo) Create(ctx context.Context, book *entity.Book) error {
	query := `
		INSERT INTO books (id, first_name, last_name, title, year, publisher, published,
			pages, language, format, isbn, cover, ratings_average, ratings_quantity,
			slug, hidden, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`
	_, err := r.db.Exec(ctx, query,
		book.ID, book.FirstName, book.LastName, book.Title, book.Year, book.Publisher,
		book.Published, book.Pages, book.Language, book.Format, book.ISBN, book.Cover,
		book.RatingsAverage, book.RatingsQuantity, book.Slug, book.Hidden,
		book.CreatedAt, book.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrValidation
		}
		return fmt.Errorf("insert book: %w", err)
	}
	return nil
}

// FindByID obtiene un libro por id.
func (r *BookRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Book, error) {
	query := fmt.Sprintf(`SELECT %s FROM books WHERE id = $1`, bookColumns)
	b, err := scanBook(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get book by id: %w", err)
	}
	return b, nil
}

// List lista libros con paginación y orden. Los ocultos quedan fuera salvo
// que el listado sea administrativo.
func (r *BookRepo) List(ctx context.Context, params repository.BookListParams) ([]entity.Book, int64, error) {
	where := "WHERE hidden = FALSE"
	if params.ShowHidden {
		where = ""
	}

	var total int64
	if err := r.db.QueryRow(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM books %s`, where)).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count books: %w", err)
	}

	// Orden solo con columnas de la whitelist del use case
	orderBy := "created_at DESC"
	if params.SortBy != "" {
		dir := "ASC"
		if params.SortDesc {
			dir = "DESC"
		}
		orderBy = fmt.Sprintf("%s %s", params.SortBy, dir)
	}

	query := fmt.Sprintf(`SELECT %s FROM books %s ORDER BY %s LIMIT $1 OFFSET $2`,
		bookColumns, where, orderBy)
	rows, err := r.db.Query(ctx, query, params.Limit, params.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list books: %w", err)
	}
	defer rows.Close()

	var list []entity.Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan book: %w", err)
		}
		list = append(list, *b)
	}
	return list, total, rows.Err()
}

// Update persiste los campos mutables del libro (sin los derivados de rating).
func (r *BookRepo) Update(ctx context.Context, book *entity.Book) error {
	query := `
		UPDATE books SET first_name = $2, last_name = $3, title = $4, year = $5,
			publisher = $6, published = $7, pages = $8, language = $9, format = $10,
			isbn = $11, cover = $12, hidden = $13, updated_at = $14
		WHERE id = $1`
	tag, err := r.db.Exec(ctx, query,
		book.ID, book.FirstName, book.LastName, book.Title, book.Year,
		book.Publisher, book.Published, book.Pages, book.Language, book.Format,
		book.ISBN, book.Cover, book.Hidden, book.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update book: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un libro. Las reseñas caen por ON DELETE CASCADE.
func (r *BookRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateRatings fija los derivados de reseñas del libro.
func (r *BookRepo) UpdateRatings(ctx context.Context, bookID uuid.UUID, avg decimal.Decimal, quantity int) error {
	_, err := r.db.Exec(ctx,
		`UPDATE books SET ratings_average = $2, ratings_quantity = $3, updated_at = NOW() WHERE id = $1`,
		bookID, avg, quantity)
	if err != nil {
		return fmt.Errorf("update book ratings: %w", err)
	}
	return nil
}

// StatsByFormat agrega libros visibles por editorial (en mayúsculas) y formato.
func (r *BookRepo) StatsByFormat(ctx context.Context) ([]repository.FormatStats, error) {
	query := `
		SELECT UPPER(publisher) AS publisher, format, COUNT(*) AS count,
			ROUND(AVG(pages), 1) AS avg_pages,
			ROUND(AVG(ratings_average), 2) AS avg_rating
		FROM books WHERE hidden = FALSE
		GROUP BY UPPER(publisher), format
		ORDER BY count DESC`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("book stats: %w", err)
	}
	defer rows.Close()

	var stats []repository.FormatStats
	for rows.Next() {
		var s repository.FormatStats
		if err := rows.Scan(&s.Publisher, &s.Format, &s.Count, &s.AvgPages, &s.AvgRating); err != nil {
			return nil, fmt.Errorf("scan stats: %w", err)
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

// CountByMonth cuenta libros visibles por mes de publicación en un año.
func (r *BookRepo) CountByMonth(ctx context.Context, year int) ([]repository.MonthCount, error) {
	// El guard de regex protege el cast a DATE de filas viejas con valores
	// libres; el use case ya valida el formato en escrituras nuevas
	query := `
		SELECT EXTRACT(MONTH FROM published::date)::int AS month, COUNT(*) AS count
		FROM books
		WHERE hidden = FALSE AND published ~ '^\d{4}-\d{2}-\d{2}$'
		  AND EXTRACT(YEAR FROM published::date)::int = $1
		GROUP BY month ORDER BY month`
	rows, err := r.db.Query(ctx, query, year)
	if err != nil {
		return nil, fmt.Errorf("books by month: %w", err)
	}
	defer rows.Close()

	var counts []repository.MonthCount
	for rows.Next() {
		var c repository.MonthCount
		if err := rows.Scan(&c.Month, &c.Count); err != nil {
			return nil, fmt.Errorf("scan month count: %w", err)
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

func scanBook(row pgx.Row) (*entity.Book, error) {
	var b entity.Book
	err := row.Scan(
		&b.ID, &b.FirstName, &b.LastName, &b.Title, &b.Year, &b.Publisher, &b.Published,
		&b.Pages, &b.Language, &b.Format, &b.ISBN, &b.Cover,
		&b.RatingsAverage, &b.RatingsQuantity, &b.Slug, &b.Hidden,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}
