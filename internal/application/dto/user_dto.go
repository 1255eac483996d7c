package dto

import (
	"time"

	"github.com/jhoicas/kinetic/internal/domain/entity"
)

// RegisterRequest alta de un workspace nuevo con su Owner.
type RegisterRequest struct {
	TenantName string `json:"tenant_name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
}

// JoinRequest alta de un Employee en un workspace existente.
type JoinRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest credenciales dentro de un workspace.
type LoginRequest struct {
	Slug     string `json:"tenant_slug"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AdminLoginRequest credenciales del panel de administración.
type AdminLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse token de sesión firmado.
type LoginResponse struct {
	Token     string        `json:"token"`
	ExpiresAt time.Time     `json:"expires_at"`
	User      *UserResponse `json:"user,omitempty"`
}

// CreateUserRequest alta de usuario por Owner/Admin.
type CreateUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// UpdateRoleRequest cambio de rol.
type UpdateRoleRequest struct {
	Role string `json:"role"`
}

// UserResponse usuario sin hash.
type UserResponse struct {
	ID          int64  `json:"id"`
	TenantID    int64  `json:"tenant_id"`
	TenantSlug  string `json:"tenant_slug"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	PlanKey     string `json:"plan_key"`
	PlanExpired bool   `json:"plan_expired"`
	CreatedAt   string `json:"created_at"`
}

// NewUserResponse mapea la entidad.
func NewUserResponse(u *entity.User) *UserResponse {
	if u == nil {
		return nil
	}
	return &UserResponse{
		ID:          u.ID,
		TenantID:    u.TenantID,
		TenantSlug:  u.TenantSlug,
		Email:       u.Email,
		Role:        u.Role,
		PlanKey:     u.PlanKey,
		PlanExpired: u.PlanExpired,
		CreatedAt:   u.CreatedAt,
	}
}

// PermissionRequest permisos de un recurso.
type PermissionRequest struct {
	Resource  string `json:"resource"`
	CanView   bool   `json:"can_view"`
	CanEdit   bool   `json:"can_edit"`
	CanDelete bool   `json:"can_delete"`
}

// PermissionsRequest reemplazo completo de permisos de un usuario.
type PermissionsRequest struct {
	Permissions []PermissionRequest `json:"permissions"`
}

// PermissionResponse fila de permisos.
type PermissionResponse = PermissionRequest

// NewPermissionResponses mapea las filas.
func NewPermissionResponses(perms []entity.UserPermission) []PermissionResponse {
	out := make([]PermissionResponse, 0, len(perms))
	for _, p := range perms {
		out = append(out, PermissionResponse{Resource: p.Resource, CanView: p.CanView, CanEdit: p.CanEdit, CanDelete: p.CanDelete})
	}
	return out
}
