package entity

import "strings"

// NormalizeOption devuelve la opción canónica que coincide con value sin distinguir
// mayúsculas, o def si ninguna coincide.
func NormalizeOption(value string, options []string, def string) string {
	v := strings.TrimSpace(value)
	for _, opt := range options {
		if strings.EqualFold(opt, v) {
			return opt
		}
	}
	return def
}

// BoolInt convierte a la representación 0/1 que usa el esquema.
func BoolInt(b bool) int16 {
	if b {
		return 1
	}
	return 0
}
