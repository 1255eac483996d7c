package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/kinetic/internal/domain/entity"
)

// DeploymentRepository despliegues con nombre de cliente y equipo.
type DeploymentRepository interface {
	Create(ctx context.Context, d *entity.Deployment) error
	GetByID(ctx context.Context, tenantID, id int64) (*entity.Deployment, error)
	List(ctx context.Context, tenantID int64) ([]*entity.Deployment, error)
	Update(ctx context.Context, d *entity.Deployment) error
	Delete(ctx context.Context, tenantID, id int64) error
	CountByClient(ctx context.Context, tenantID, clientID int64) (int64, error)
	// RecentStatuses estados de los últimos despliegues del equipo, más reciente primero.
	RecentStatuses(ctx context.Context, tenantID, crewID int64, limit int) ([]string, error)
}

// DeploymentUpdateRepository jornadas registradas contra un despliegue.
type DeploymentUpdateRepository interface {
	// Create devuelve domain.ErrDuplicate si ya hay una jornada para esa fecha.
	Create(ctx context.Context, u *entity.DeploymentUpdate) error
	GetByID(ctx context.Context, tenantID, id int64) (*entity.DeploymentUpdate, error)
	GetByDate(ctx context.Context, tenantID, deploymentID int64, workDate string) (*entity.DeploymentUpdate, error)
	ListByDeployment(ctx context.Context, tenantID, deploymentID int64) ([]*entity.DeploymentUpdate, error)
	Update(ctx context.Context, u *entity.DeploymentUpdate) error
	Delete(ctx context.Context, tenantID, id int64) error
	TotalHours(ctx context.Context, tenantID, deploymentID int64) (decimal.Decimal, error)
}

// WorkTimerRepository temporizadores de trabajo.
type WorkTimerRepository interface {
	FindActive(ctx context.Context, tenantID, userID int64) (*entity.WorkTimer, error)
	// Create devuelve domain.ErrDuplicate si el usuario ya tiene uno abierto.
	Create(ctx context.Context, t *entity.WorkTimer) error
	// Stop cierra solo si sigue abierto; domain.ErrConflict si otra petición lo cerró antes.
	Stop(ctx context.Context, tenantID, id int64, endAt string) error
	ListStale(ctx context.Context, cutoff string) ([]*entity.WorkTimer, error)
}
