// Package access contiene las reglas puras de autorización: normalización de
// roles, permisos por defecto de cada rol y la decisión ver/editar/borrar.
package access

import (
	"strings"

	"github.com/jhoicas/kinetic/internal/domain/entity"
)

// Action acción sobre un recurso.
type Action string

const (
	ActionView   Action = "view"
	ActionEdit   Action = "edit"
	ActionDelete Action = "delete"
)

// ParseAction acepta "view", "edit" o "delete" sin distinguir mayúsculas.
func ParseAction(s string) (Action, bool) {
	switch Action(strings.ToLower(strings.TrimSpace(s))) {
	case ActionView:
		return ActionView, true
	case ActionEdit:
		return ActionEdit, true
	case ActionDelete:
		return ActionDelete, true
	}
	return "", false
}

// Recursos (áreas de la aplicación) sujetos a permisos.
const (
	ResourceDashboard   = "dashboard"
	ResourceClients     = "clients"
	ResourceCrew        = "crew"
	ResourceDeployments = "deployments"
	ResourceTracking    = "tracking"
	ResourceInvoices    = "invoices"
	ResourceSettings    = "settings"
)

// Resources los siete recursos en orden de presentación.
var Resources = []string{
	ResourceDashboard, ResourceClients, ResourceCrew, ResourceDeployments,
	ResourceTracking, ResourceInvoices, ResourceSettings,
}

// IsResource indica si name es uno de los siete recursos.
func IsResource(name string) bool {
	for _, r := range Resources {
		if r == name {
			return true
		}
	}
	return false
}

// NormalizeRole devuelve el rol canónico. Vacío equivale a Owner; un valor
// desconocido se devuelve recortado y no recibe permisos por defecto.
func NormalizeRole(role string) string {
	trimmed := strings.TrimSpace(role)
	if trimmed == "" {
		return entity.RoleOwner
	}
	for _, opt := range entity.Roles {
		if strings.EqualFold(opt, trimmed) {
			return opt
		}
	}
	return trimmed
}

// IsOwner / IsAdmin atajos sobre el rol normalizado.
func IsOwner(role string) bool { return NormalizeRole(role) == entity.RoleOwner }
func IsAdmin(role string) bool { return NormalizeRole(role) == entity.RoleAdmin }

type grant struct{ view, edit, del bool }

var (
	v  = grant{view: true}
	ve = grant{view: true, edit: true}
)

var roleDefaults = map[string]map[string]grant{
	entity.RoleSales: {
		ResourceDashboard: v, ResourceClients: ve, ResourceDeployments: ve, ResourceTracking: ve,
	},
	entity.RoleOperations: {
		ResourceDashboard: v, ResourceCrew: ve, ResourceDeployments: ve, ResourceTracking: ve,
	},
	entity.RoleAccounting: {
		ResourceDashboard: v, ResourceInvoices: v,
	},
	entity.RoleEmployee: {
		ResourceDashboard: v, ResourceDeployments: v, ResourceTracking: ve,
	},
}

// DefaultPermissions las siete filas que corresponden al rol. Owner y Admin
// también tienen filas (todo / todo menos borrar) aunque la decisión no las consulte.
func DefaultPermissions(tenantID, userID int64, role string) []entity.UserPermission {
	normalized := NormalizeRole(role)
	out := make([]entity.UserPermission, 0, len(Resources))
	for _, res := range Resources {
		var g grant
		switch normalized {
		case entity.RoleOwner:
			g = grant{true, true, true}
		case entity.RoleAdmin:
			g = grant{true, true, false}
		default:
			g = roleDefaults[normalized][res]
		}
		out = append(out, entity.UserPermission{
			TenantID: tenantID, UserID: userID, Resource: res,
			CanView: g.view, CanEdit: g.edit, CanDelete: g.del,
		})
	}
	return out
}

// Shortcut decide sin consultar permisos cuando el rol lo permite.
// decided=false obliga a mirar las filas del usuario.
func Shortcut(role string, action Action) (allowed, decided bool) {
	switch NormalizeRole(role) {
	case entity.RoleOwner:
		return true, true
	case entity.RoleAdmin:
		return action != ActionDelete, true
	}
	return false, false
}

// Decide evalúa la acción contra las filas del usuario. Sin fila para el recurso: denegado.
func Decide(perms []entity.UserPermission, resource string, action Action) bool {
	for _, p := range perms {
		if p.Resource != resource {
			continue
		}
		switch action {
		case ActionView:
			return p.CanView
		case ActionEdit:
			return p.CanEdit
		case ActionDelete:
			return p.CanDelete
		}
		return false
	}
	return false
}

// Complete devuelve exactamente una fila por recurso: las recibidas tienen prioridad
// y los recursos ausentes quedan sin permisos. Filas de recursos desconocidos se descartan.
func Complete(tenantID, userID int64, perms []entity.UserPermission) []entity.UserPermission {
	byRes := make(map[string]entity.UserPermission, len(perms))
	for _, p := range perms {
		if IsResource(p.Resource) {
			byRes[p.Resource] = p
		}
	}
	out := make([]entity.UserPermission, 0, len(Resources))
	for _, res := range Resources {
		p := byRes[res]
		p.TenantID, p.UserID, p.Resource = tenantID, userID, res
		out = append(out, p)
	}
	return out
}
