package entity

import (
	"time"

	"github.com/google/uuid"
)

// Review es la reseña de un usuario sobre un libro.
// Hay como máximo una reseña por par (libro, usuario).
type Review struct {
	ID        uuid.UUID
	Review    string
	Rating    int // 1..5
	BookID    uuid.UUID
	UserID    uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}
