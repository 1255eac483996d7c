package entity

// Roles de usuario dentro de un workspace.
const (
	RoleOwner      = "Owner"
	RoleAdmin      = "Admin"
	RoleSales      = "Sales"
	RoleOperations = "Operations"
	RoleAccounting = "Accounting"
	RoleEmployee   = "Employee"
)

// Roles conjunto canónico.
var Roles = []string{RoleOwner, RoleAdmin, RoleSales, RoleOperations, RoleAccounting, RoleEmployee}

// User representa un usuario de un workspace. TenantSlug, PlanKey y PlanExpired
// se completan al resolver la sesión.
type User struct {
	ID           int64
	TenantID     int64
	Email        string
	PasswordHash string
	Role         string
	CreatedAt    string

	TenantSlug  string
	PlanKey     string
	PlanExpired bool
}

// Admin superusuario fuera del grafo de workspaces.
type Admin struct {
	ID           int64
	Email        string
	PasswordHash string
	CreatedAt    string
}
