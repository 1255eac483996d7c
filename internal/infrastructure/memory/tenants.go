package memory

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/kinetic/internal/domain"
	"github.com/jhoicas/kinetic/internal/domain/entity"
	"github.com/jhoicas/kinetic/internal/domain/repository"
)

var (
	_ repository.TenantRepository = (*TenantRepo)(nil)
	_ repository.PlanRepository   = (*PlanRepo)(nil)
	_ repository.UserRepository   = (*UserRepo)(nil)
	_ repository.AdminRepository  = (*AdminRepo)(nil)
)

// TenantRepo workspaces en memoria.
type TenantRepo struct{ s *Store }

func (r *TenantRepo) Create(_ context.Context, t *entity.Tenant) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.t.tenants {
		if existing.Slug == t.Slug {
			return domain.ErrDuplicate
		}
	}
	if t.EmailProvider == "" {
		t.EmailProvider = entity.EmailProviderMailtrap
	}
	if t.BrandName == "" {
		t.BrandName = "Kinetic"
	}
	if t.PlanStartedAt == "" {
		t.PlanStartedAt = r.s.now().Format("2006-01-02 15:04")
	}
	t.ID = r.s.nextID("tenants")
	t.CreatedAt = r.s.stamp()
	r.s.t.tenants[t.ID] = *t
	return nil
}

func (r *TenantRepo) GetByID(_ context.Context, id int64) (*entity.Tenant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.t.tenants[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (r *TenantRepo) GetBySlug(_ context.Context, slug string) (*entity.Tenant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, t := range r.s.t.tenants {
		if t.Slug == slug {
			t := t
			return &t, nil
		}
	}
	return nil, nil
}

func (r *TenantRepo) List(_ context.Context, limit, offset int) ([]*entity.Tenant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	list := collect(r.s.t.tenants, func(entity.Tenant) bool { return true }, func(a, b entity.Tenant) bool {
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.ID < b.ID
	})
	return page(list, limit, offset), nil
}

func (r *TenantRepo) Count(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.t.tenants)), nil
}

func (r *TenantRepo) Update(_ context.Context, t *entity.Tenant) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.t.tenants[t.ID]
	if !ok {
		return fmt.Errorf("update tenant: %w", domain.ErrNotFound)
	}
	for _, other := range r.s.t.tenants {
		if other.ID != t.ID && other.Slug == t.Slug {
			return domain.ErrDuplicate
		}
	}
	if cur.PlanKey != t.PlanKey {
		cur.PlanStartedAt = r.s.now().Format("2006-01-02 15:04")
	}
	cur.Slug, cur.Name, cur.PlanKey = t.Slug, t.Name, t.PlanKey
	cur.BrandName, cur.BrandColor, cur.LogoURL = t.BrandName, t.BrandColor, t.LogoURL
	r.s.t.tenants[t.ID] = cur
	return nil
}

func (r *TenantRepo) UpdateEmailSettings(_ context.Context, id int64, es entity.EmailSettings) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.t.tenants[id]
	if !ok {
		return fmt.Errorf("update email settings: %w", domain.ErrNotFound)
	}
	cur.EmailSettings = es
	r.s.t.tenants[id] = cur
	return nil
}

// Delete elimina el workspace y todas sus filas.
func (r *TenantRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.t.tenants[id]; !ok {
		return fmt.Errorf("delete tenant: %w", domain.ErrNotFound)
	}
	delete(r.s.t.tenants, id)
	t := r.s.t
	deleteWhere(t.users, func(v entity.User) bool { return v.TenantID == id })
	deleteWhere(t.clients, func(v entity.Client) bool { return v.TenantID == id })
	deleteWhere(t.contacts, func(v entity.ClientContact) bool { return v.TenantID == id })
	deleteWhere(t.appointments, func(v entity.Appointment) bool { return v.TenantID == id })
	deleteWhere(t.crews, func(v entity.Crew) bool { return v.TenantID == id })
	deleteWhere(t.members, func(v entity.CrewMember) bool { return v.TenantID == id })
	deleteWhere(t.deployments, func(v entity.Deployment) bool { return v.TenantID == id })
	deleteWhere(t.updates, func(v entity.DeploymentUpdate) bool { return v.TenantID == id })
	deleteWhere(t.timers, func(v entity.WorkTimer) bool { return v.TenantID == id })
	deleteWhere(t.invoices, func(v entity.Invoice) bool { return v.TenantID == id })
	deleteWhere(t.emails, func(v entity.OutboundEmail) bool { return v.TenantID == id })
	for k := range t.perms {
		if k.tenantID == id {
			delete(t.perms, k)
		}
	}
	return nil
}

func deleteWhere[V any](m map[int64]V, match func(V) bool) {
	for k, v := range m {
		if match(v) {
			delete(m, k)
		}
	}
}

// PlanRepo catálogo de planes en memoria.
type PlanRepo struct{ s *Store }

func (r *PlanRepo) Get(_ context.Context, key string) (*entity.PlanLimits, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.t.plans[key]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *PlanRepo) Upsert(_ context.Context, p *entity.PlanLimits) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.t.plans[p.Key] = *p
	return nil
}

// UserRepo usuarios en memoria; completa TenantSlug y PlanKey como el JOIN de PostgreSQL.
type UserRepo struct{ s *Store }

func (r *UserRepo) withTenant(u entity.User) *entity.User {
	if t, ok := r.s.t.tenants[u.TenantID]; ok {
		u.TenantSlug, u.PlanKey = t.Slug, t.PlanKey
	}
	return &u
}

func (r *UserRepo) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.t.users {
		if existing.TenantID == u.TenantID && existing.Email == u.Email {
			return domain.ErrDuplicate
		}
	}
	u.ID = r.s.nextID("users")
	u.CreatedAt = r.s.stamp()
	r.s.t.users[u.ID] = *u
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, tenantID, id int64) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.t.users[id]
	if !ok || u.TenantID != tenantID {
		return nil, nil
	}
	return r.withTenant(u), nil
}

func (r *UserRepo) GetByEmail(_ context.Context, tenantID int64, email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.t.users {
		if u.TenantID == tenantID && u.Email == email {
			return r.withTenant(u), nil
		}
	}
	return nil, nil
}

func (r *UserRepo) ListByTenant(_ context.Context, tenantID int64) ([]*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	list := collect(r.s.t.users, func(u entity.User) bool { return u.TenantID == tenantID },
		func(a, b entity.User) bool { return a.Email < b.Email })
	for i, u := range list {
		list[i] = r.withTenant(*u)
	}
	return list, nil
}

func (r *UserRepo) CountByTenant(_ context.Context, tenantID int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return count(r.s.t.users, func(u entity.User) bool { return u.TenantID == tenantID }), nil
}

func (r *UserRepo) UpdateRole(_ context.Context, tenantID, id int64, role string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.t.users[id]
	if !ok || u.TenantID != tenantID {
		return fmt.Errorf("update user role: %w", domain.ErrNotFound)
	}
	u.Role = role
	r.s.t.users[id] = u
	return nil
}

func (r *UserRepo) Delete(_ context.Context, tenantID, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.t.users[id]
	if !ok || u.TenantID != tenantID {
		return fmt.Errorf("delete user: %w", domain.ErrNotFound)
	}
	delete(r.s.t.users, id)
	for k := range r.s.t.perms {
		if k.userID == id {
			delete(r.s.t.perms, k)
		}
	}
	deleteWhere(r.s.t.members, func(m entity.CrewMember) bool { return m.TenantID == tenantID && m.UserID == id })
	deleteWhere(r.s.t.timers, func(t entity.WorkTimer) bool { return t.TenantID == tenantID && t.UserID == id })
	for k, up := range r.s.t.updates {
		if up.UserID != nil && *up.UserID == id {
			up.UserID = nil
			r.s.t.updates[k] = up
		}
	}
	return nil
}

// AdminRepo administradores en memoria.
type AdminRepo struct{ s *Store }

func (r *AdminRepo) Count(_ context.Context) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(r.s.t.admins)), nil
}

func (r *AdminRepo) Create(_ context.Context, a *entity.Admin) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.t.admins {
		if strings.EqualFold(existing.Email, a.Email) {
			return domain.ErrDuplicate
		}
	}
	a.ID = r.s.nextID("admins")
	a.CreatedAt = r.s.stamp()
	r.s.t.admins[a.ID] = *a
	return nil
}

func (r *AdminRepo) GetByID(_ context.Context, id int64) (*entity.Admin, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.t.admins[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

func (r *AdminRepo) GetByEmail(_ context.Context, email string) (*entity.Admin, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.t.admins {
		if a.Email == email {
			a := a
			return &a, nil
		}
	}
	return nil, nil
}
