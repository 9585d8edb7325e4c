// Package slug genera identificadores URL-safe a partir de títulos.
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Make normaliza el texto a un slug: sin acentos, minúsculas, y cualquier
// secuencia no alfanumérica colapsada a un solo guion.
func Make(s string) string {
	// Descomponer y eliminar marcas diacríticas (á -> a)
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	clean, _, err := transform.String(t, s)
	if err != nil {
		clean = s
	}

	var b strings.Builder
	prevDash := true // evita guion inicial
	for _, r := range strings.ToLower(clean) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prevDash = false
		default:
			if !prevDash {
				b.WriteByte('-')
				prevDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
