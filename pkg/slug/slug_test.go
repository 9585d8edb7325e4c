package slug_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/eraam/booksaloon-api/pkg/slug"
)

func TestSlug_Make(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"The Master and Margarita", "the-master-and-margarita"},
		{"Cien Años de Soledad", "cien-anos-de-soledad"},
		{"  espacios   múltiples  ", "espacios-multiples"},
		{"C++ para Todos!", "c-para-todos"},
		{"1984", "1984"},
		{"", ""},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, slug.Make(c.in), "input: %q", c.in)
	}
}
