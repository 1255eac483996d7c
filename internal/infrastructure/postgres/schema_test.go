package postgres

import (
	"io/fs"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tableDefs separa el esquema embebido en CREATE TABLE por nombre.
func tableDefs(t *testing.T) map[string]string {
	t.Helper()
	b, err := fs.ReadFile(migrationFS, "migrations/0001_init.sql")
	require.NoError(t, err)
	re := regexp.MustCompile(`(?s)CREATE TABLE IF NOT EXISTS (\w+) \((.*?)\n\);`)
	defs := map[string]string{}
	for _, m := range re.FindAllStringSubmatch(string(b), -1) {
		defs[m[1]] = strings.Join(strings.Fields(m[2]), " ")
	}
	return defs
}

// Borrar un workspace no puede tropezar con filas hijas: toda tabla con
// tenant_id cae en cascada desde tenants.
func TestSchema_TenantDeleteCascades(t *testing.T) {
	defs := tableDefs(t)
	for _, table := range []string{
		"users", "user_permissions", "clients", "client_contacts", "appointments", "crews", "crew_members",
		"deployments", "deployment_updates", "invoices", "outbound_emails", "work_timers",
	} {
		def, ok := defs[table]
		require.True(t, ok, table)
		assert.Contains(t, def, "tenant_id BIGINT NOT NULL REFERENCES tenants(id) ON DELETE CASCADE", table)
	}
}

// Las referencias entre tablas de un workspace llevan tenant_id en la clave.
func TestSchema_CompositeTenantKeys(t *testing.T) {
	defs := tableDefs(t)
	cases := []struct {
		table, want string
	}{
		{"users", "UNIQUE (tenant_id, id)"},
		{"user_permissions", "FOREIGN KEY (tenant_id, user_id) REFERENCES users (tenant_id, id) ON DELETE CASCADE"},
		{"client_contacts", "FOREIGN KEY (tenant_id, client_id) REFERENCES clients (tenant_id, id) ON DELETE CASCADE"},
		{"appointments", "FOREIGN KEY (tenant_id, client_id, contact_id) REFERENCES client_contacts (tenant_id, client_id, id) ON DELETE CASCADE"},
		{"crew_members", "FOREIGN KEY (tenant_id, user_id) REFERENCES users (tenant_id, id) ON DELETE CASCADE"},
		{"work_timers", "FOREIGN KEY (tenant_id, user_id) REFERENCES users (tenant_id, id) ON DELETE CASCADE"},
		{"outbound_emails", "FOREIGN KEY (tenant_id, client_id) REFERENCES clients (tenant_id, id)"},
		{"outbound_emails", "FOREIGN KEY (tenant_id, client_id, contact_id) REFERENCES client_contacts (tenant_id, client_id, id)"},
	}
	for _, tc := range cases {
		assert.Contains(t, defs[tc.table], tc.want, tc.table)
	}
	for _, table := range []string{"crew_members", "outbound_emails", "work_timers", "user_permissions"} {
		assert.NotContains(t, defs[table], "REFERENCES users(id)", table)
		assert.NotContains(t, defs[table], "REFERENCES clients(id)", table)
	}
}
