package repository

import (
	"context"

	"github.com/jhoicas/kinetic/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para usuarios de un workspace.
// GetByID y GetByEmail completan TenantSlug y PlanKey con un JOIN al workspace.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, tenantID, id int64) (*entity.User, error)
	GetByEmail(ctx context.Context, tenantID int64, email string) (*entity.User, error)
	ListByTenant(ctx context.Context, tenantID int64) ([]*entity.User, error)
	CountByTenant(ctx context.Context, tenantID int64) (int64, error)
	UpdateRole(ctx context.Context, tenantID, id int64, role string) error
	Delete(ctx context.Context, tenantID, id int64) error
}

// AdminRepository superusuarios del panel de administración.
type AdminRepository interface {
	Count(ctx context.Context) (int64, error)
	Create(ctx context.Context, a *entity.Admin) error
	GetByID(ctx context.Context, id int64) (*entity.Admin, error)
	GetByEmail(ctx context.Context, email string) (*entity.Admin, error)
}

// PermissionRepository filas de permisos por usuario.
type PermissionRepository interface {
	ListByUser(ctx context.Context, tenantID, userID int64) ([]entity.UserPermission, error)
	DeleteByUser(ctx context.Context, tenantID, userID int64) error
	// Insert devuelve domain.ErrDuplicate si ya existe la fila (tenant, user, resource).
	Insert(ctx context.Context, p entity.UserPermission) error
}
