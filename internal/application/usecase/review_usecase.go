package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/eraam/booksaloon-api/internal/application/dto"
	"github.com/eraam/booksaloon-api/internal/domain"
	"github.com/eraam/booksaloon-api/internal/domain/entity"
	"github.com/eraam/booksaloon-api/internal/domain/repository"
)

// ReviewUseCase casos de uso de reseñas. Cada escritura corre en transacción
// junto con el recálculo de los derivados de rating del libro.
type ReviewUseCase struct {
	reviewRepo repository.ReviewRepository
	bookRepo   repository.BookRepository
	txRunner   TxRunner
}

// NewReviewUseCase construye el caso de uso de reseñas.
func NewReviewUseCase(reviewRepo repository.ReviewRepository, bookRepo repository.BookRepository, txRunner TxRunner) *ReviewUseCase {
	return &ReviewUseCase{reviewRepo: reviewRepo, bookRepo: bookRepo, txRunner: txRunner}
}

// Create crea la reseña del usuario para un libro. Hay como máximo una por
// par (libro, usuario); el duplicado lo detecta la constraint de unicidad.
func (uc *ReviewUseCase) Create(ctx context.Context, bookID, userID uuid.UUID, in dto.CreateReviewRequest) (*dto.ReviewResponse, error) {
	if in.Review == "" || in.Rating < 1 || in.Rating > 5 {
		return nil, domain.ErrValidation
	}

	now := time.Now()
	review := &entity.Review{
		ID:        uuid.New(),
		Review:    in.Review,
		Rating:    in.Rating,
		BookID:    bookID,
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := uc.txRunner.Run(ctx, func(reviews repository.ReviewRepository, books repository.BookRepository) error {
		// El libro debe existir antes de aceptar la reseña
		if _, err := books.FindByID(ctx, bookID); err != nil {
			return err
		}
		if err := reviews.Create(ctx, review); err != nil {
			return err
		}
		return recomputeRatings(ctx, reviews, books, bookID)
	})
	if err != nil {
		return nil, err
	}

	resp := dto.ToReviewResponse(review)
	return &resp, nil
}

// ListByBook lista las reseñas de un libro.
func (uc *ReviewUseCase) ListByBook(ctx context.Context, bookID uuid.UUID, page dto.PageRequest) (*dto.ReviewListResponse, error) {
	page.DefaultPage()
	reviews, total, err := uc.reviewRepo.ListByBook(ctx, bookID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ReviewResponse, 0, len(reviews))
	for i := range reviews {
		items = append(items, dto.ToReviewResponse(&reviews[i]))
	}
	return &dto.ReviewListResponse{
		Reviews: items,
		Page:    dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

// GetByID retorna una reseña por id.
func (uc *ReviewUseCase) GetByID(ctx context.Context, id uuid.UUID) (*dto.ReviewResponse, error) {
	review, err := uc.reviewRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.ToReviewResponse(review)
	return &resp, nil
}

// Update actualiza una reseña. Solo el autor o un admin pueden hacerlo.
func (uc *ReviewUseCase) Update(ctx context.Context, id uuid.UUID, actor *entity.User, in dto.UpdateReviewRequest) (*dto.ReviewResponse, error) {
	review, err := uc.reviewRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canTouchReview(actor, review) {
		return nil, domain.ErrForbidden
	}

	if in.Review != nil {
		if *in.Review == "" {
			return nil, domain.ErrValidation
		}
		review.Review = *in.Review
	}
	if in.Rating != nil {
		if *in.Rating < 1 || *in.Rating > 5 {
			return nil, domain.ErrValidation
		}
		review.Rating = *in.Rating
	}
	review.UpdatedAt = time.Now()

	err = uc.txRunner.Run(ctx, func(reviews repository.ReviewRepository, books repository.BookRepository) error {
		if err := reviews.Update(ctx, review); err != nil {
			return err
		}
		return recomputeRatings(ctx, reviews, books, review.BookID)
	})
	if err != nil {
		return nil, err
	}

	resp := dto.ToReviewResponse(review)
	return &resp, nil
}

// Delete borra una reseña. Solo el autor o un admin pueden hacerlo.
func (uc *ReviewUseCase) Delete(ctx context.Context, id uuid.UUID, actor *entity.User) error {
	review, err := uc.reviewRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !canTouchReview(actor, review) {
		return domain.ErrForbidden
	}
	return uc.txRunner.Run(ctx, func(reviews repository.ReviewRepository, books repository.BookRepository) error {
		if err := reviews.Delete(ctx, id); err != nil {
			return err
		}
		return recomputeRatings(ctx, reviews, books, review.BookID)
	})
}

func recomputeRatings(ctx context.Context, reviews repository.ReviewRepository, books repository.BookRepository, bookID uuid.UUID) error {
	summary, err := reviews.Summarize(ctx, bookID)
	if err != nil {
		return err
	}
	return books.UpdateRatings(ctx, bookID, summary.Average, summary.Quantity)
}

func canTouchReview(actor *entity.User, review *entity.Review) bool {
	return actor.Role == entity.RoleAdmin || actor.ID == review.UserID
}
