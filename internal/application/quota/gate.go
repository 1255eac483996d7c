// Package quota aplica los topes del plan antes de cada alta.
package quota

import (
	"context"
	"time"

	"github.com/jhoicas/kinetic/internal/domain"
	"github.com/jhoicas/kinetic/internal/domain/entity"
	"github.com/jhoicas/kinetic/internal/domain/repository"
	"github.com/jhoicas/kinetic/internal/domain/workspace"
)

// Gate resuelve el plan del workspace y compara con el conteo actual. Las
// ediciones nunca pasan por aquí, solo las altas.
type Gate struct {
	tenants repository.TenantRepository
	plans   repository.PlanRepository
	now     func() time.Time
}

// NewGate construye el gate.
func NewGate(tenants repository.TenantRepository, plans repository.PlanRepository) *Gate {
	return &Gate{tenants: tenants, plans: plans, now: time.Now}
}

// WithClock reemplaza el reloj (tests).
func (g *Gate) WithClock(now func() time.Time) *Gate {
	g.now = now
	return g
}

// Limits plan vigente del workspace. Un plan desconocido no tiene topes.
func (g *Gate) Limits(ctx context.Context, tenantID int64) (*entity.Tenant, entity.PlanLimits, error) {
	tenant, err := g.tenants.GetByID(ctx, tenantID)
	if err != nil {
		return nil, entity.PlanLimits{}, err
	}
	if tenant == nil {
		return nil, entity.PlanLimits{}, domain.ErrNotFound
	}
	plan, err := g.plans.Get(ctx, tenant.PlanKey)
	if err != nil {
		return nil, entity.PlanLimits{}, err
	}
	if plan == nil {
		return tenant, entity.PlanLimits{Key: tenant.PlanKey}, nil
	}
	return tenant, *plan, nil
}

// Check rechaza con un error de cuota si current ya alcanzó el tope del scope.
// count se invoca solo cuando el plan tiene tope.
func (g *Gate) Check(ctx context.Context, tenantID int64, scope workspace.Scope, count func(context.Context) (int64, error), form any) error {
	_, plan, err := g.Limits(ctx, tenantID)
	if err != nil {
		return domain.NewStorage("Unable to load plan", err, form)
	}
	limit := workspace.Limit(plan, scope)
	if limit == nil {
		return nil
	}
	current, err := count(ctx)
	if err != nil {
		return domain.NewStorage("Unable to check plan limits", err, form)
	}
	if current >= int64(*limit) {
		return domain.NewQuota(workspace.LimitMessage(plan, scope, *limit), form)
	}
	return nil
}

// Expired indica si el plan del workspace venció.
func (g *Gate) Expired(ctx context.Context, tenantID int64) (bool, error) {
	tenant, plan, err := g.Limits(ctx, tenantID)
	if err != nil {
		return false, err
	}
	return workspace.Expired(tenant.PlanStartedAt, plan.ExpiresDays, g.now()), nil
}
