package postgres

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/kinetic/internal/domain/repository"
)

// NewRegistry arma todos los repositorios sobre el pool.
func NewRegistry(pool *pgxpool.Pool) repository.Registry {
	return repository.Registry{
		Tenants:      NewTenantRepository(pool),
		Plans:        NewPlanRepository(pool),
		Users:        NewUserRepository(pool),
		Admins:       NewAdminRepository(pool),
		Permissions:  NewPermissionRepository(pool),
		Clients:      NewClientRepository(pool),
		Contacts:     NewContactRepository(pool),
		Appointments: NewAppointmentRepository(pool),
		Crews:        NewCrewRepository(pool),
		Members:      NewCrewMemberRepository(pool),
		Deployments:  NewDeploymentRepository(pool),
		Updates:      NewDeploymentUpdateRepository(pool),
		Timers:       NewWorkTimerRepository(pool),
		Invoices:     NewInvoiceRepository(pool),
		Emails:       NewEmailRepository(pool),
		Tx:           NewTxRunner(pool),
	}
}
