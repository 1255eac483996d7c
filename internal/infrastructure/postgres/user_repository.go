package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/kinetic/internal/domain"
	"github.com/jhoicas/kinetic/internal/domain/entity"
	"github.com/jhoicas/kinetic/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

const userSelect = `
	SELECT u.id, u.tenant_id, u.email, u.password_hash, u.role, u.created_at, t.slug, t.plan_key
	FROM users u JOIN tenants t ON t.id = u.tenant_id`

func scanUser(row pgx.Row) (*entity.User, error) {
	var u entity.User
	if err := row.Scan(&u.ID, &u.TenantID, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.TenantSlug, &u.PlanKey); err != nil {
		return nil, err
	}
	return &u, nil
}

// Create persiste un nuevo usuario. Email duplicado en el workspace -> domain.ErrDuplicate.
func (r *UserRepo) Create(ctx context.Context, u *entity.User) error {
	query := `
		INSERT INTO users (tenant_id, email, password_hash, role)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`
	err := r.q.QueryRow(ctx, query, u.TenantID, u.Email, u.PasswordHash, u.Role).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByID obtiene un usuario del workspace. Un id de otro workspace devuelve nil.
func (r *UserRepo) GetByID(ctx context.Context, tenantID, id int64) (*entity.User, error) {
	u, err := scanUser(r.q.QueryRow(ctx, userSelect+` WHERE u.tenant_id = $1 AND u.id = $2`, tenantID, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// GetByEmail obtiene un usuario por email dentro del workspace.
func (r *UserRepo) GetByEmail(ctx context.Context, tenantID int64, email string) (*entity.User, error) {
	u, err := scanUser(r.q.QueryRow(ctx, userSelect+` WHERE u.tenant_id = $1 AND u.email = $2`, tenantID, email))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

// ListByTenant lista los usuarios del workspace por email.
func (r *UserRepo) ListByTenant(ctx context.Context, tenantID int64) ([]*entity.User, error) {
	rows, err := r.q.Query(ctx, userSelect+` WHERE u.tenant_id = $1 ORDER BY u.email`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()
	var list []*entity.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		list = append(list, u)
	}
	return list, rows.Err()
}

// CountByTenant cantidad de usuarios del workspace.
func (r *UserRepo) CountByTenant(ctx context.Context, tenantID int64) (int64, error) {
	var n int64
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE tenant_id = $1`, tenantID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

// UpdateRole cambia el rol del usuario.
func (r *UserRepo) UpdateRole(ctx context.Context, tenantID, id int64, role string) error {
	tag, err := r.q.Exec(ctx, `UPDATE users SET role = $3 WHERE tenant_id = $1 AND id = $2`, tenantID, id, role)
	if err != nil {
		return fmt.Errorf("update user role: %w", err)
	}
	return mustAffect(tag, "update user role")
}

// Delete elimina el usuario; sus permisos caen por cascada.
func (r *UserRepo) Delete(ctx context.Context, tenantID, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM users WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return mustAffect(tag, "delete user")
}

var _ repository.AdminRepository = (*AdminRepo)(nil)

// AdminRepo superusuarios.
type AdminRepo struct {
	q Querier
}

// NewAdminRepository construye el adaptador de administradores.
func NewAdminRepository(q Querier) *AdminRepo {
	return &AdminRepo{q: q}
}

// Count cantidad de administradores.
func (r *AdminRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM admins`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count admins: %w", err)
	}
	return n, nil
}

// Create persiste un administrador.
func (r *AdminRepo) Create(ctx context.Context, a *entity.Admin) error {
	err := r.q.QueryRow(ctx,
		`INSERT INTO admins (email, password_hash) VALUES ($1, $2) RETURNING id, created_at`,
		a.Email, a.PasswordHash,
	).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert admin: %w", err)
	}
	return nil
}

// GetByID obtiene un administrador por ID.
func (r *AdminRepo) GetByID(ctx context.Context, id int64) (*entity.Admin, error) {
	return r.get(ctx, `SELECT id, email, password_hash, created_at FROM admins WHERE id = $1`, id)
}

// GetByEmail obtiene un administrador por email.
func (r *AdminRepo) GetByEmail(ctx context.Context, email string) (*entity.Admin, error) {
	return r.get(ctx, `SELECT id, email, password_hash, created_at FROM admins WHERE email = $1`, email)
}

func (r *AdminRepo) get(ctx context.Context, query string, arg any) (*entity.Admin, error) {
	var a entity.Admin
	if err := r.q.QueryRow(ctx, query, arg).Scan(&a.ID, &a.Email, &a.PasswordHash, &a.CreatedAt); err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get admin: %w", err)
	}
	return &a, nil
}
