package memory

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/kinetic/internal/domain"
	"github.com/jhoicas/kinetic/internal/domain/entity"
	"github.com/jhoicas/kinetic/internal/domain/repository"
)

var (
	_ repository.DeploymentRepository       = (*DeploymentRepo)(nil)
	_ repository.DeploymentUpdateRepository = (*DeploymentUpdateRepo)(nil)
	_ repository.WorkTimerRepository        = (*WorkTimerRepo)(nil)
)

// DeploymentRepo despliegues en memoria.
type DeploymentRepo struct{ s *Store }

func (s *Store) withNames(d entity.Deployment) *entity.Deployment {
	if c, ok := s.t.clients[d.ClientID]; ok && c.TenantID == d.TenantID {
		d.ClientName = c.CompanyName
	}
	if c, ok := s.t.crews[d.CrewID]; ok && c.TenantID == d.TenantID {
		d.CrewName = c.Name
	}
	return &d
}

func deploymentNewestFirst(a, b entity.Deployment) bool {
	if a.StartAt != b.StartAt {
		return a.StartAt > b.StartAt
	}
	return a.ID > b.ID
}

func (r *DeploymentRepo) checkRefs(d *entity.Deployment) error {
	if c, ok := r.s.t.clients[d.ClientID]; !ok || c.TenantID != d.TenantID {
		return fmt.Errorf("deployment client %d: %w", d.ClientID, domain.ErrNotFound)
	}
	if c, ok := r.s.t.crews[d.CrewID]; !ok || c.TenantID != d.TenantID {
		return fmt.Errorf("deployment crew %d: %w", d.CrewID, domain.ErrNotFound)
	}
	return nil
}

func (r *DeploymentRepo) Create(_ context.Context, d *entity.Deployment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.checkRefs(d); err != nil {
		return err
	}
	d.ID = r.s.nextID("deployments")
	d.CreatedAt = r.s.stamp()
	r.s.t.deployments[d.ID] = *d
	return nil
}

func (r *DeploymentRepo) GetByID(_ context.Context, tenantID, id int64) (*entity.Deployment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d, ok := r.s.t.deployments[id]
	if !ok || d.TenantID != tenantID {
		return nil, nil
	}
	return r.s.withNames(d), nil
}

func (r *DeploymentRepo) List(_ context.Context, tenantID int64) ([]*entity.Deployment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	list := collect(r.s.t.deployments, func(d entity.Deployment) bool { return d.TenantID == tenantID }, deploymentNewestFirst)
	for i, d := range list {
		list[i] = r.s.withNames(*d)
	}
	return list, nil
}

func (r *DeploymentRepo) Update(_ context.Context, d *entity.Deployment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.t.deployments[d.ID]
	if !ok || cur.TenantID != d.TenantID {
		return fmt.Errorf("update deployment: %w", domain.ErrNotFound)
	}
	if err := r.checkRefs(d); err != nil {
		return err
	}
	d.CreatedAt = cur.CreatedAt
	r.s.t.deployments[d.ID] = *d
	return nil
}

func (r *DeploymentRepo) Delete(_ context.Context, tenantID, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.t.deployments[id]
	if !ok || cur.TenantID != tenantID {
		return fmt.Errorf("delete deployment: %w", domain.ErrNotFound)
	}
	delete(r.s.t.deployments, id)
	deleteWhere(r.s.t.updates, func(u entity.DeploymentUpdate) bool { return u.TenantID == tenantID && u.DeploymentID == id })
	deleteWhere(r.s.t.invoices, func(i entity.Invoice) bool { return i.TenantID == tenantID && i.DeploymentID == id })
	deleteWhere(r.s.t.timers, func(t entity.WorkTimer) bool { return t.TenantID == tenantID && t.DeploymentID == id })
	return nil
}

func (r *DeploymentRepo) CountByClient(_ context.Context, tenantID, clientID int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return count(r.s.t.deployments, func(d entity.Deployment) bool {
		return d.TenantID == tenantID && d.ClientID == clientID
	}), nil
}

func (r *DeploymentRepo) RecentStatuses(_ context.Context, tenantID, crewID int64, limit int) ([]string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	list := collect(r.s.t.deployments, func(d entity.Deployment) bool {
		return d.TenantID == tenantID && d.CrewID == crewID
	}, deploymentNewestFirst)
	list = page(list, limit, 0)
	out := make([]string, 0, len(list))
	for _, d := range list {
		out = append(out, d.Status)
	}
	return out, nil
}

// DeploymentUpdateRepo jornadas en memoria; (tenant, deployment, work_date) es única.
type DeploymentUpdateRepo struct{ s *Store }

func (r *DeploymentUpdateRepo) dateTaken(u *entity.DeploymentUpdate) bool {
	for id, other := range r.s.t.updates {
		if id != u.ID && other.TenantID == u.TenantID && other.DeploymentID == u.DeploymentID && other.WorkDate == u.WorkDate {
			return true
		}
	}
	return false
}

func (r *DeploymentUpdateRepo) Create(_ context.Context, u *entity.DeploymentUpdate) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if d, ok := r.s.t.deployments[u.DeploymentID]; !ok || d.TenantID != u.TenantID {
		return fmt.Errorf("insert deployment update: %w", domain.ErrNotFound)
	}
	u.ID = 0
	if r.dateTaken(u) {
		return domain.ErrDuplicate
	}
	u.ID = r.s.nextID("updates")
	u.CreatedAt = r.s.stamp()
	r.s.t.updates[u.ID] = *u
	return nil
}

func (r *DeploymentUpdateRepo) GetByID(_ context.Context, tenantID, id int64) (*entity.DeploymentUpdate, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.t.updates[id]
	if !ok || u.TenantID != tenantID {
		return nil, nil
	}
	return &u, nil
}

func (r *DeploymentUpdateRepo) GetByDate(_ context.Context, tenantID, deploymentID int64, workDate string) (*entity.DeploymentUpdate, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.t.updates {
		if u.TenantID == tenantID && u.DeploymentID == deploymentID && u.WorkDate == workDate {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (r *DeploymentUpdateRepo) ListByDeployment(_ context.Context, tenantID, deploymentID int64) ([]*entity.DeploymentUpdate, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return collect(r.s.t.updates,
		func(u entity.DeploymentUpdate) bool { return u.TenantID == tenantID && u.DeploymentID == deploymentID },
		func(a, b entity.DeploymentUpdate) bool {
			if a.WorkDate != b.WorkDate {
				return a.WorkDate < b.WorkDate
			}
			return a.ID < b.ID
		}), nil
}

func (r *DeploymentUpdateRepo) Update(_ context.Context, u *entity.DeploymentUpdate) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.t.updates[u.ID]
	if !ok || cur.TenantID != u.TenantID {
		return fmt.Errorf("update deployment update: %w", domain.ErrNotFound)
	}
	u.DeploymentID = cur.DeploymentID
	if r.dateTaken(u) {
		return domain.ErrDuplicate
	}
	u.CreatedAt = cur.CreatedAt
	r.s.t.updates[u.ID] = *u
	return nil
}

func (r *DeploymentUpdateRepo) Delete(_ context.Context, tenantID, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.t.updates[id]
	if !ok || cur.TenantID != tenantID {
		return fmt.Errorf("delete deployment update: %w", domain.ErrNotFound)
	}
	delete(r.s.t.updates, id)
	return nil
}

func (r *DeploymentUpdateRepo) TotalHours(_ context.Context, tenantID, deploymentID int64) (decimal.Decimal, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.totalHours(tenantID, deploymentID), nil
}

func (s *Store) totalHours(tenantID, deploymentID int64) decimal.Decimal {
	total := decimal.Zero
	for _, u := range s.t.updates {
		if u.TenantID == tenantID && u.DeploymentID == deploymentID {
			total = total.Add(u.HoursWorked)
		}
	}
	return total
}

// WorkTimerRepo temporizadores en memoria; un solo abierto por (tenant, user).
type WorkTimerRepo struct{ s *Store }

func (r *WorkTimerRepo) FindActive(_ context.Context, tenantID, userID int64) (*entity.WorkTimer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, t := range r.s.t.timers {
		if t.TenantID == tenantID && t.UserID == userID && t.EndAt == nil {
			t := t
			return &t, nil
		}
	}
	return nil, nil
}

func (r *WorkTimerRepo) Create(_ context.Context, t *entity.WorkTimer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, other := range r.s.t.timers {
		if other.TenantID == t.TenantID && other.UserID == t.UserID && other.EndAt == nil {
			return domain.ErrDuplicate
		}
	}
	t.ID = r.s.nextID("timers")
	t.EndAt = nil
	r.s.t.timers[t.ID] = *t
	return nil
}

func (r *WorkTimerRepo) Stop(_ context.Context, tenantID, id int64, endAt string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.t.timers[id]
	if !ok || cur.TenantID != tenantID || cur.EndAt != nil {
		return fmt.Errorf("stop work timer: %w", domain.ErrConflict)
	}
	end := endAt
	cur.EndAt = &end
	r.s.t.timers[id] = cur
	return nil
}

func (r *WorkTimerRepo) ListStale(_ context.Context, cutoff string) ([]*entity.WorkTimer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return collect(r.s.t.timers,
		func(t entity.WorkTimer) bool { return t.EndAt == nil && strings.Compare(t.StartAt, cutoff) <= 0 },
		func(a, b entity.WorkTimer) bool { return a.ID < b.ID }), nil
}
