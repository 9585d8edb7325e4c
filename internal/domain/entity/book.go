package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Formatos y lenguajes aceptados para un libro.
const (
	FormatHardcover = "Hardcover"
	FormatPaperback = "Paperback"

	LanguageLithuanian = "Lithuanian"
	LanguageEnglish    = "English"
	LanguageOther      = "Other"
)

// ValidFormat indica si el formato es uno de los aceptados.
func ValidFormat(f string) bool {
	return f == FormatHardcover || f == FormatPaperback
}

// ValidLanguage indica si el idioma es uno de los aceptados.
func ValidLanguage(l string) bool {
	return l == LanguageLithuanian || l == LanguageEnglish || l == LanguageOther
}

// Book representa un libro del catálogo.
//
// RatingsAverage y RatingsQuantity son derivados de las reseñas y se
// recomputan en cada escritura de reseña; nunca se aceptan del cliente.
// Hidden excluye el libro del listado público sin borrarlo.
type Book struct {
	ID              uuid.UUID
	FirstName       string // nombre del autor
	LastName        string // apellido del autor
	Title           string
	Year            int
	Publisher       string
	Published       string
	Pages           int
	Language        string
	Format          string
	ISBN            string
	Cover           string
	RatingsAverage  decimal.Decimal
	RatingsQuantity int
	Slug            string
	Hidden          bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
