package usecase

import (
	"context"

	"github.com/eraam/booksaloon-api/internal/domain/repository"
)

// TxRunner ejecuta un callback con repositorios atados a una misma
// transacción. Las escrituras de reseñas lo usan para que la reseña y los
// derivados de rating del libro cambien de forma atómica.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		reviewRepo repository.ReviewRepository,
		bookRepo repository.BookRepository,
	) error) error
}
