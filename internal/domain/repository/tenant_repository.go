package repository

import (
	"context"

	"github.com/jhoicas/kinetic/internal/domain/entity"
)

// TenantRepository define el puerto de persistencia para workspaces.
// La implementación vive en infrastructure.
type TenantRepository interface {
	Create(ctx context.Context, t *entity.Tenant) error
	GetByID(ctx context.Context, id int64) (*entity.Tenant, error)
	GetBySlug(ctx context.Context, slug string) (*entity.Tenant, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Tenant, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, t *entity.Tenant) error
	UpdateEmailSettings(ctx context.Context, id int64, s entity.EmailSettings) error
	Delete(ctx context.Context, id int64) error
}

// PlanRepository catálogo de planes y sus límites.
type PlanRepository interface {
	Get(ctx context.Context, key string) (*entity.PlanLimits, error)
	Upsert(ctx context.Context, p *entity.PlanLimits) error
}
