package quota_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kinetic/internal/application/quota"
	"github.com/jhoicas/kinetic/internal/domain"
	"github.com/jhoicas/kinetic/internal/domain/entity"
	"github.com/jhoicas/kinetic/internal/domain/workspace"
	"github.com/jhoicas/kinetic/internal/infrastructure/memory"
)

func counter(n int64) func(context.Context) (int64, error) {
	return func(context.Context) (int64, error) { return n, nil }
}

func TestGate_Check(t *testing.T) {
	ctx := context.Background()
	reg := memory.New().Registry()
	three := 3
	require.NoError(t, reg.Plans.Upsert(ctx, &entity.PlanLimits{Key: "starter", Name: "Starter", Clients: &three}))
	tenant := &entity.Tenant{Slug: "acme", Name: "Acme", PlanKey: "starter"}
	require.NoError(t, reg.Tenants.Create(ctx, tenant))
	gate := quota.NewGate(reg.Tenants, reg.Plans)

	assert.NoError(t, gate.Check(ctx, tenant.ID, workspace.ScopeClients, counter(2), nil))

	err := gate.Check(ctx, tenant.ID, workspace.ScopeClients, counter(3), "form")
	require.ErrorIs(t, err, domain.ErrQuotaExceeded)
	ve, ok := domain.AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, "Starter plan workspaces can have up to 3 clients. Upgrade to add more.", ve.Message)
	assert.Equal(t, "form", ve.Form)

	called := false
	err = gate.Check(ctx, tenant.ID, workspace.ScopeCrews, func(context.Context) (int64, error) {
		called = true
		return 100, nil
	}, nil)
	assert.NoError(t, err)
	assert.False(t, called, "sin tope no se cuenta")

	err = gate.Check(ctx, tenant.ID, workspace.ScopeClients, func(context.Context) (int64, error) {
		return 0, errors.New("db down")
	}, nil)
	assert.ErrorIs(t, err, domain.ErrStorage)
}

func TestGate_Expired(t *testing.T) {
	ctx := context.Background()
	reg := memory.New().Registry()
	require.NoError(t, reg.Plans.Upsert(ctx, &entity.PlanLimits{Key: "free", ExpiresDays: 30}))
	tenant := &entity.Tenant{Slug: "acme", Name: "Acme", PlanKey: "free", PlanStartedAt: "2024-01-01 00:00"}
	require.NoError(t, reg.Tenants.Create(ctx, tenant))

	gate := quota.NewGate(reg.Tenants, reg.Plans).WithClock(func() time.Time {
		return time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	})
	expired, err := gate.Expired(ctx, tenant.ID)
	require.NoError(t, err)
	assert.True(t, expired)

	_, err = gate.Expired(ctx, 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
