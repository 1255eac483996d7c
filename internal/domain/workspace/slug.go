// Package workspace contiene las reglas de un workspace: slug, catálogo de
// monedas y mensajes/caducidad del plan contratado.
package workspace

import (
	"strings"

	"github.com/gosimple/slug"
)

// NormalizeSlug recorta, pasa a minúsculas y cambia espacios por guiones. Devuelve
// false si queda vacío o contiene algo distinto de [a-z0-9-].
func NormalizeSlug(input string) (string, bool) {
	s := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(input)), " ", "-")
	if s == "" {
		return "", false
	}
	for _, r := range s {
		if !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '-') {
			return "", false
		}
	}
	return s, true
}

// SuggestSlug propone un slug válido a partir de un nombre libre ("Acme Façades" -> "acme-facades").
func SuggestSlug(name string) string {
	return slug.Make(name)
}
