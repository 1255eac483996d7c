package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/kinetic/internal/domain"
	"github.com/jhoicas/kinetic/internal/domain/entity"
	"github.com/jhoicas/kinetic/internal/domain/repository"
)

var _ repository.PermissionRepository = (*PermissionRepo)(nil)

// PermissionRepo filas de user_permissions. Los booleanos viajan como SMALLINT 0/1.
type PermissionRepo struct {
	q Querier
}

// NewPermissionRepository construye el adaptador de permisos.
func NewPermissionRepository(q Querier) *PermissionRepo {
	return &PermissionRepo{q: q}
}

// ListByUser filas del usuario ordenadas por recurso.
func (r *PermissionRepo) ListByUser(ctx context.Context, tenantID, userID int64) ([]entity.UserPermission, error) {
	rows, err := r.q.Query(ctx, `
		SELECT resource, can_view, can_edit, can_delete
		FROM user_permissions WHERE tenant_id = $1 AND user_id = $2 ORDER BY resource`, tenantID, userID)
	if err != nil {
		return nil, fmt.Errorf("list permissions: %w", err)
	}
	defer rows.Close()
	var list []entity.UserPermission
	for rows.Next() {
		var view, edit, del int16
		p := entity.UserPermission{TenantID: tenantID, UserID: userID}
		if err := rows.Scan(&p.Resource, &view, &edit, &del); err != nil {
			return nil, fmt.Errorf("scan permission: %w", err)
		}
		p.CanView, p.CanEdit, p.CanDelete = boolFromInt(view), boolFromInt(edit), boolFromInt(del)
		list = append(list, p)
	}
	return list, rows.Err()
}

// DeleteByUser borra todas las filas del usuario.
func (r *PermissionRepo) DeleteByUser(ctx context.Context, tenantID, userID int64) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM user_permissions WHERE tenant_id = $1 AND user_id = $2`, tenantID, userID); err != nil {
		return fmt.Errorf("delete permissions: %w", err)
	}
	return nil
}

// Insert agrega una fila.
func (r *PermissionRepo) Insert(ctx context.Context, p entity.UserPermission) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO user_permissions (tenant_id, user_id, resource, can_view, can_edit, can_delete)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		p.TenantID, p.UserID, p.Resource, entity.BoolInt(p.CanView), entity.BoolInt(p.CanEdit), entity.BoolInt(p.CanDelete),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert permission: %w", err)
	}
	return nil
}
