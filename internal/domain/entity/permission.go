package entity

// UserPermission fila de permisos por (workspace, usuario, recurso).
type UserPermission struct {
	TenantID  int64
	UserID    int64
	Resource  string
	CanView   bool
	CanEdit   bool
	CanDelete bool
}
