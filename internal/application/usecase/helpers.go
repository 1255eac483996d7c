package usecase

import (
	"errors"

	"github.com/jhoicas/kinetic/internal/domain"
)

// mutationError traduce el error de un Update/Delete acotado por workspace: 0 filas
// es not-found con mensaje propio, cualquier otro fallo es de almacenamiento.
func mutationError(err error, prefix, notFound string, form any) error {
	if errors.Is(err, domain.ErrNotFound) {
		return domain.NewNotFound(notFound, form)
	}
	return domain.NewStorage(prefix, err, form)
}
