package access_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kinetic/internal/domain/access"
	"github.com/jhoicas/kinetic/internal/domain/entity"
)

func TestNormalizeRole(t *testing.T) {
	cases := map[string]string{
		"":            entity.RoleOwner,
		"   ":         entity.RoleOwner,
		"sales":       entity.RoleSales,
		"OPERATIONS":  entity.RoleOperations,
		" accounting": entity.RoleAccounting,
		"Contractor":  "Contractor",
	}
	for in, want := range cases {
		assert.Equal(t, want, access.NormalizeRole(in), in)
	}
}

func TestShortcut(t *testing.T) {
	ok, decided := access.Shortcut("owner", access.ActionDelete)
	assert.True(t, decided)
	assert.True(t, ok)

	ok, decided = access.Shortcut("Admin", access.ActionEdit)
	assert.True(t, decided)
	assert.True(t, ok)

	ok, decided = access.Shortcut("Admin", access.ActionDelete)
	assert.True(t, decided)
	assert.False(t, ok)

	_, decided = access.Shortcut("Sales", access.ActionView)
	assert.False(t, decided)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tabla de permisos por defecto
// ──────────────────────────────────────────────────────────────────────────────

func TestDefaultPermissions_Table(t *testing.T) {
	type vd struct{ v, e, d bool }
	want := map[string]map[string]vd{
		entity.RoleSales: {
			"dashboard": {true, false, false}, "clients": {true, true, false}, "crew": {},
			"deployments": {true, true, false}, "tracking": {true, true, false}, "invoices": {}, "settings": {},
		},
		entity.RoleOperations: {
			"dashboard": {true, false, false}, "clients": {}, "crew": {true, true, false},
			"deployments": {true, true, false}, "tracking": {true, true, false}, "invoices": {}, "settings": {},
		},
		entity.RoleAccounting: {
			"dashboard": {true, false, false}, "clients": {}, "crew": {}, "deployments": {},
			"tracking": {}, "invoices": {true, false, false}, "settings": {},
		},
		entity.RoleEmployee: {
			"dashboard": {true, false, false}, "clients": {}, "crew": {}, "deployments": {true, false, false},
			"tracking": {true, true, false}, "invoices": {}, "settings": {},
		},
	}
	for role, resources := range want {
		perms := access.DefaultPermissions(5, 9, role)
		require.Len(t, perms, 7, role)
		for _, p := range perms {
			exp := resources[p.Resource]
			assert.Equal(t, exp, vd{p.CanView, p.CanEdit, p.CanDelete}, "%s/%s", role, p.Resource)
			assert.Equal(t, int64(5), p.TenantID)
			assert.Equal(t, int64(9), p.UserID)
		}
	}
}

func TestDefaultPermissions_UnknownRoleDeniesAll(t *testing.T) {
	for _, p := range access.DefaultPermissions(1, 1, "Contractor") {
		assert.False(t, p.CanView || p.CanEdit || p.CanDelete, p.Resource)
	}
}

func TestDecide(t *testing.T) {
	perms := access.DefaultPermissions(1, 1, entity.RoleSales)
	assert.True(t, access.Decide(perms, access.ResourceClients, access.ActionView))
	assert.True(t, access.Decide(perms, access.ResourceClients, access.ActionEdit))
	assert.False(t, access.Decide(perms, access.ResourceClients, access.ActionDelete))
	assert.False(t, access.Decide(perms, access.ResourceInvoices, access.ActionView))
	assert.False(t, access.Decide(perms, "reports", access.ActionView), "recurso sin fila: denegado")
	assert.False(t, access.Decide(nil, access.ResourceDashboard, access.ActionView))
}

func TestComplete_FillsMissingAndDropsUnknown(t *testing.T) {
	in := []entity.UserPermission{
		{Resource: "clients", CanView: true},
		{Resource: "bogus", CanView: true},
	}
	out := access.Complete(2, 3, in)
	require.Len(t, out, 7)
	for _, p := range out {
		assert.Equal(t, int64(2), p.TenantID)
		assert.Equal(t, p.Resource == "clients", p.CanView, p.Resource)
	}
}

func TestParseAction(t *testing.T) {
	a, ok := access.ParseAction(" Delete ")
	assert.True(t, ok)
	assert.Equal(t, access.ActionDelete, a)
	_, ok = access.ParseAction("approve")
	assert.False(t, ok)
}
