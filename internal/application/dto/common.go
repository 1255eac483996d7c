package dto

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// PageSize tamaño fijo de página de los listados.
const PageSize = 10

// Pagination metadatos de página. Page siempre queda en [1, TotalPages].
type Pagination struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	PrevPage   int   `json:"prev_page"`
	NextPage   int   `json:"next_page"`
}

// NewPagination ajusta page al rango válido; prev/next caen en la página límite.
func NewPagination(page int, total int64) Pagination {
	if total < 0 {
		total = 0
	}
	totalPages := int((total + PageSize - 1) / PageSize)
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}
	p := Pagination{Page: page, PerPage: PageSize, Total: total, TotalPages: totalPages, PrevPage: page, NextPage: page}
	if page > 1 {
		p.PrevPage = page - 1
	}
	if page < totalPages {
		p.NextPage = page + 1
	}
	return p
}

// Offset desplazamiento SQL de la página.
func (p Pagination) Offset() int { return (p.Page - 1) * PageSize }

// Limit filas por página.
func (p Pagination) Limit() int { return PageSize }

// PageResult lista paginada.
type PageResult[T any] struct {
	Items []T        `json:"items"`
	Page  Pagination `json:"page"`
}

// ErrorResponse cuerpo de error HTTP. Form devuelve lo recibido para re-renderizar.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Form    any    `json:"form,omitempty"`
}

var validate = validator.New()

// ValidEmail dirección de correo sintácticamente válida.
func ValidEmail(s string) bool {
	return validate.Var(strings.TrimSpace(s), "required,email") == nil
}

// NormalizeEmail recorta y pasa a minúsculas.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// SplitList separa por comas descartando vacíos.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if v := strings.TrimSpace(part); v != "" {
			out = append(out, v)
		}
	}
	return out
}
