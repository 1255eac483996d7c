// Package crew reúne las reglas de equipos: normalización de tags, gear score,
// puntuación de preparación (readiness) y recomendación para una asignación.
package crew

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var lower = cases.Lower(language.Und)

// NormalizeTags separa por comas, recorta, pasa a minúsculas, descarta vacíos y
// duplicados (conservando el primer orden de aparición) y une con ", ".
func NormalizeTags(input string) string {
	return strings.Join(ParseTags(input), ", ")
}

// ParseTags igual que NormalizeTags pero devuelve la lista.
func ParseTags(input string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, raw := range strings.Split(input, ",") {
		tag := strings.TrimSpace(raw)
		if tag == "" {
			continue
		}
		tag = lower.String(tag)
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

// TagSet conjunto de tags normalizados.
type TagSet map[string]struct{}

// NewTagSet construye el conjunto a partir de una cadena de tags.
func NewTagSet(input string) TagSet {
	set := make(TagSet)
	for _, t := range ParseTags(input) {
		set[t] = struct{}{}
	}
	return set
}

// Intersect cardinalidad de la intersección.
func (s TagSet) Intersect(other TagSet) int {
	small, big := s, other
	if len(big) < len(small) {
		small, big = big, small
	}
	n := 0
	for t := range small {
		if _, ok := big[t]; ok {
			n++
		}
	}
	return n
}

// ClampGear limita el gear score a [0,100].
func ClampGear(score int) int {
	return clamp(score, 0, 100)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
