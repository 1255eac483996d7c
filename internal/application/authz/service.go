// Package authz decide si un usuario puede ver, editar o borrar un recurso. Las
// filas de permisos se materializan con los valores del rol la primera vez.
package authz

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jhoicas/kinetic/internal/application/dto"
	"github.com/jhoicas/kinetic/internal/application/ports"
	"github.com/jhoicas/kinetic/internal/domain"
	"github.com/jhoicas/kinetic/internal/domain/access"
	"github.com/jhoicas/kinetic/internal/domain/entity"
	"github.com/jhoicas/kinetic/internal/domain/repository"
)

// Service motor de decisiones de acceso. No cachea entre peticiones.
type Service struct {
	perms   repository.PermissionRepository
	users   repository.UserRepository
	tx      repository.TxRunner
	metrics ports.Metrics
}

// NewService construye el motor.
func NewService(perms repository.PermissionRepository, users repository.UserRepository, tx repository.TxRunner, metrics ports.Metrics) *Service {
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	return &Service{perms: perms, users: users, tx: tx, metrics: metrics}
}

// Can evalúa la acción. Owner siempre puede; Admin todo menos borrar; el resto según sus filas.
func (s *Service) Can(ctx context.Context, user *entity.User, resource string, action access.Action) (bool, error) {
	if user == nil {
		return false, nil
	}
	if allowed, decided := access.Shortcut(user.Role, action); decided {
		return allowed, nil
	}
	perms, err := s.Permissions(ctx, user)
	if err != nil {
		return false, err
	}
	return access.Decide(perms, resource, action), nil
}

// Permissions filas del usuario; si no tiene, persiste las del rol en una transacción.
// Ante una materialización concurrente (duplicado) se relee.
func (s *Service) Permissions(ctx context.Context, user *entity.User) ([]entity.UserPermission, error) {
	perms, err := s.perms.ListByUser(ctx, user.TenantID, user.ID)
	if err != nil {
		return nil, fmt.Errorf("authz: listar permisos: %w", err)
	}
	if len(perms) > 0 {
		return perms, nil
	}
	defaults := access.DefaultPermissions(user.TenantID, user.ID, user.Role)
	err = s.replace(ctx, user.TenantID, user.ID, defaults)
	if errors.Is(err, domain.ErrDuplicate) {
		perms, err = s.perms.ListByUser(ctx, user.TenantID, user.ID)
		if err != nil {
			return nil, fmt.Errorf("authz: releer permisos: %w", err)
		}
		return perms, nil
	}
	if err != nil {
		return nil, fmt.Errorf("authz: materializar permisos: %w", err)
	}
	s.metrics.PermissionsMaterialized(access.NormalizeRole(user.Role))
	return defaults, nil
}

// ReplacePermissions reemplaza las siete filas del usuario; los recursos no enviados quedan sin permisos.
func (s *Service) ReplacePermissions(ctx context.Context, tenantID, userID int64, in dto.PermissionsRequest) ([]entity.UserPermission, error) {
	target, err := s.users.GetByID(ctx, tenantID, userID)
	if err != nil {
		return nil, domain.NewStorage("Unable to load user", err, in)
	}
	if target == nil {
		return nil, domain.NewNotFound("Selected user was not found.", in)
	}
	rows := make([]entity.UserPermission, 0, len(in.Permissions))
	for _, p := range in.Permissions {
		rows = append(rows, entity.UserPermission{
			Resource: strings.ToLower(strings.TrimSpace(p.Resource)),
			CanView:  p.CanView, CanEdit: p.CanEdit, CanDelete: p.CanDelete,
		})
	}
	complete := access.Complete(tenantID, userID, rows)
	if err := s.replace(ctx, tenantID, userID, complete); err != nil {
		return nil, domain.NewStorage("Unable to save permissions", err, in)
	}
	return complete, nil
}

// RefreshUserRole guarda el nuevo rol y reescribe sus permisos con los valores del rol.
func (s *Service) RefreshUserRole(ctx context.Context, tenantID, userID int64, role string) error {
	normalized := access.NormalizeRole(role)
	if entity.NormalizeOption(normalized, entity.Roles, "") == "" {
		return domain.NewValidation("Role is not supported.", dto.UpdateRoleRequest{Role: role})
	}
	if err := s.users.UpdateRole(ctx, tenantID, userID, normalized); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NewNotFound("Selected user was not found.", dto.UpdateRoleRequest{Role: role})
		}
		return domain.NewStorage("Unable to update role", err, dto.UpdateRoleRequest{Role: role})
	}
	if err := s.replace(ctx, tenantID, userID, access.DefaultPermissions(tenantID, userID, normalized)); err != nil {
		return domain.NewStorage("Unable to update role", err, dto.UpdateRoleRequest{Role: role})
	}
	return nil
}

func (s *Service) replace(ctx context.Context, tenantID, userID int64, rows []entity.UserPermission) error {
	return s.tx.RunInTx(ctx, func(r repository.TxRepos) error {
		if err := r.Permissions.DeleteByUser(ctx, tenantID, userID); err != nil {
			return err
		}
		for _, p := range rows {
			if err := r.Permissions.Insert(ctx, p); err != nil {
				return err
			}
		}
		return nil
	})
}
