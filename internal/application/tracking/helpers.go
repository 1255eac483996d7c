package tracking

import (
	"errors"

	"github.com/jhoicas/kinetic/internal/domain"
)

func mutationError(err error, prefix, notFound string, form any) error {
	if errors.Is(err, domain.ErrNotFound) {
		return domain.NewNotFound(notFound, form)
	}
	return domain.NewStorage(prefix, err, form)
}
