package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/kinetic/internal/domain/repository"
)

var _ repository.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	db Beginner
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(db Beginner) *TxRunner {
	return &TxRunner{db: db}
}

// RunInTx inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) RunInTx(ctx context.Context, fn func(repos repository.TxRepos) error) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	repos := repository.TxRepos{
		Users:       NewUserRepository(tx),
		Permissions: NewPermissionRepository(tx),
		Clients:     NewClientRepository(tx),
		Contacts:    NewContactRepository(tx),
		Crews:       NewCrewRepository(tx),
		Members:     NewCrewMemberRepository(tx),
		Updates:     NewDeploymentUpdateRepository(tx),
		Timers:      NewWorkTimerRepository(tx),
	}
	if err := fn(repos); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
