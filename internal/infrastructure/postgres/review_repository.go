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

var _ repository.ReviewRepository = (*ReviewRepo)(nil)

const reviewColumns = `id, review, rating, book_id, user_id, created_at, updated_at`

// ReviewRepo implementación del puerto ReviewRepository sobre PostgreSQL.
type ReviewRepo struct {
	db DB
}

// NewReviewRepository construye el adaptador de persistencia para reseñas.
func NewReviewRepository(db DB) *ReviewRepo {
	return &ReviewRepo{db: db}
}

// Create persiste una reseña. La unicidad (book_id, user_id) la garantiza la
// constraint reviews_book_user_key.
func (r *ReviewRepo) Create(ctx context.Context, review *entity.Review) error {
	query := `
		INSERT INTO reviews (id, review, rating, book_id, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.Exec(ctx, query,
		review.ID, review.Review, review.Rating, review.BookID, review.UserID,
		review.CreatedAt, review.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateReview
		}
		return fmt.Errorf("insert review: %w", err)
	}
	return nil
}

// FindByID obtiene una reseña por id.
func (r *ReviewRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Review, error) {
	query := fmt.Sprintf(`SELECT %s FROM reviews WHERE id = $1`, reviewColumns)
	var rev entity.Review
	err := r.db.QueryRow(ctx, query, id).Scan(
		&rev.ID, &rev.Review, &rev.Rating, &rev.BookID, &rev.UserID,
		&rev.CreatedAt, &rev.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get review by id: %w", err)
	}
	return &rev, nil
}

// ListByBook lista las reseñas de un libro con paginación.
func (r *ReviewRepo) ListByBook(ctx context.Context, bookID uuid.UUID, limit, offset int) ([]entity.Review, int64, error) {
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM reviews WHERE book_id = $1`, bookID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count reviews: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM reviews WHERE book_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`, reviewColumns)
	rows, err := r.db.Query(ctx, query, bookID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	var list []entity.Review
	for rows.Next() {
		var rev entity.Review
		if err := rows.Scan(&rev.ID, &rev.Review, &rev.Rating, &rev.BookID, &rev.UserID,
			&rev.CreatedAt, &rev.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan review: %w", err)
		}
		list = append(list, rev)
	}
	return list, total, rows.Err()
}

// Update persiste texto y rating de la reseña.
func (r *ReviewRepo) Update(ctx context.Context, review *entity.Review) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE reviews SET review = $2, rating = $3, updated_at = $4 WHERE id = $1`,
		review.ID, review.Review, review.Rating, review.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update review: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina una reseña.
func (r *ReviewRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Summarize calcula promedio y cantidad de reseñas del libro. Sin reseñas
// retorna promedio 0 y cantidad 0.
func (r *ReviewRepo) Summarize(ctx context.Context, bookID uuid.UUID) (repository.RatingSummary, error) {
	var summary repository.RatingSummary
	err := r.db.QueryRow(ctx, `
		SELECT COALESCE(ROUND(AVG(rating), 1), 0), COUNT(*)
		FROM reviews WHERE book_id = $1`, bookID).
		Scan(&summary.Average, &summary.Quantity)
	if err != nil {
		return repository.RatingSummary{Average: decimal.Zero}, fmt.Errorf("summarize reviews: %w", err)
	}
	return summary, nil
}
