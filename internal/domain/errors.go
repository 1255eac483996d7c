package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound      = errors.New("recurso no encontrado")
	ErrInvalidInput  = errors.New("entrada inválida")
	ErrDuplicate     = errors.New("recurso duplicado")
	ErrUnauthorized  = errors.New("no autorizado")
	ErrForbidden     = errors.New("acceso denegado")
	ErrConflict      = errors.New("conflicto con el estado actual")
	ErrQuotaExceeded = errors.New("límite del plan alcanzado")
	ErrStorage       = errors.New("fallo de almacenamiento")
	ErrTransport     = errors.New("fallo de transporte de email")
)

// ValidationError error visible para el usuario: mensaje legible más el formulario
// recibido para que la capa HTTP lo devuelva prellenado. Kind clasifica el error
// (ErrInvalidInput, ErrQuotaExceeded, ErrConflict, ErrNotFound, ErrStorage, ErrTransport).
type ValidationError struct {
	Message string
	Form    any
	Kind    error
	cause   error
}

func (e *ValidationError) Error() string { return e.Message }

// Unwrap permite errors.Is contra el Kind y contra la causa original.
func (e *ValidationError) Unwrap() []error {
	out := []error{e.Kind}
	if e.cause != nil {
		out = append(out, e.cause)
	}
	return out
}

// NewValidation campo faltante o inválido.
func NewValidation(message string, form any) *ValidationError {
	return &ValidationError{Message: message, Form: form, Kind: ErrInvalidInput}
}

// NewQuota límite del plan alcanzado.
func NewQuota(message string, form any) *ValidationError {
	return &ValidationError{Message: message, Form: form, Kind: ErrQuotaExceeded}
}

// NewConflict violación de unicidad o carrera perdida.
func NewConflict(message string, form any) *ValidationError {
	return &ValidationError{Message: message, Form: form, Kind: ErrConflict}
}

// NewNotFound entidad inexistente dentro del workspace.
func NewNotFound(message string, form any) *ValidationError {
	return &ValidationError{Message: message, Form: form, Kind: ErrNotFound}
}

// NewUnauthorized credenciales incorrectas.
func NewUnauthorized(message string, form any) *ValidationError {
	return &ValidationError{Message: message, Form: form, Kind: ErrUnauthorized}
}

// NewStorage fallo de base de datos: "<prefix>: <causa>".
func NewStorage(prefix string, err error, form any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf("%s: %v", prefix, err), Form: form, Kind: ErrStorage, cause: err}
}

// NewTransport fallo al entregar un email.
func NewTransport(prefix string, err error, form any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf("%s: %v", prefix, err), Form: form, Kind: ErrTransport, cause: err}
}

// AsValidation extrae el ValidationError si existe.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
