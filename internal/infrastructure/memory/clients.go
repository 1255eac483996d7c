package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/kinetic/internal/domain"
	"github.com/jhoicas/kinetic/internal/domain/entity"
	"github.com/jhoicas/kinetic/internal/domain/repository"
)

var (
	_ repository.PermissionRepository  = (*PermissionRepo)(nil)
	_ repository.ClientRepository      = (*ClientRepo)(nil)
	_ repository.ContactRepository     = (*ContactRepo)(nil)
	_ repository.AppointmentRepository = (*AppointmentRepo)(nil)
)

// PermissionRepo filas de permisos; la clave (tenant, user, resource) es única.
type PermissionRepo struct{ s *Store }

func (r *PermissionRepo) ListByUser(_ context.Context, tenantID, userID int64) ([]entity.UserPermission, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entity.UserPermission
	for k, p := range r.s.t.perms {
		if k.tenantID == tenantID && k.userID == userID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Resource < out[j].Resource })
	return out, nil
}

func (r *PermissionRepo) DeleteByUser(_ context.Context, tenantID, userID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for k := range r.s.t.perms {
		if k.tenantID == tenantID && k.userID == userID {
			delete(r.s.t.perms, k)
		}
	}
	return nil
}

func (r *PermissionRepo) Insert(_ context.Context, p entity.UserPermission) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	k := permKey{tenantID: p.TenantID, userID: p.UserID, resource: p.Resource}
	if _, dup := r.s.t.perms[k]; dup {
		return domain.ErrDuplicate
	}
	r.s.t.perms[k] = p
	return nil
}

// ClientRepo clientes en memoria; is_deleted los oculta.
type ClientRepo struct{ s *Store }

func (r *ClientRepo) visible(tenantID int64) func(entity.Client) bool {
	return func(c entity.Client) bool { return c.TenantID == tenantID && !c.IsDeleted }
}

func (r *ClientRepo) Create(_ context.Context, c *entity.Client) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c.ID = r.s.nextID("clients")
	c.CreatedAt = r.s.stamp()
	c.IsDeleted = false
	r.s.t.clients[c.ID] = *c
	return nil
}

func (r *ClientRepo) GetByID(_ context.Context, tenantID, id int64) (*entity.Client, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.t.clients[id]
	if !ok || !r.visible(tenantID)(c) {
		return nil, nil
	}
	return &c, nil
}

func (r *ClientRepo) ListPaged(_ context.Context, tenantID int64, limit, offset int) ([]*entity.Client, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	list := collect(r.s.t.clients, r.visible(tenantID), func(a, b entity.Client) bool { return a.ID > b.ID })
	return page(list, limit, offset), nil
}

func (r *ClientRepo) ListAll(_ context.Context, tenantID int64) ([]*entity.Client, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return collect(r.s.t.clients, r.visible(tenantID), func(a, b entity.Client) bool {
		if a.CompanyName != b.CompanyName {
			return a.CompanyName < b.CompanyName
		}
		return a.ID < b.ID
	}), nil
}

func (r *ClientRepo) Count(_ context.Context, tenantID int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return count(r.s.t.clients, r.visible(tenantID)), nil
}

func (r *ClientRepo) Update(_ context.Context, c *entity.Client) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.t.clients[c.ID]
	if !ok || !r.visible(c.TenantID)(cur) {
		return fmt.Errorf("update client: %w", domain.ErrNotFound)
	}
	cur.CompanyName, cur.Address, cur.Phone, cur.Email = c.CompanyName, c.Address, c.Phone, c.Email
	cur.Latitude, cur.Longitude, cur.Stage, cur.Currency = c.Latitude, c.Longitude, c.Stage, c.Currency
	r.s.t.clients[c.ID] = cur
	return nil
}

func (r *ClientRepo) SoftDelete(_ context.Context, tenantID, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.t.clients[id]
	if !ok || !r.visible(tenantID)(cur) {
		return fmt.Errorf("soft delete client: %w", domain.ErrNotFound)
	}
	cur.IsDeleted = true
	r.s.t.clients[id] = cur
	return nil
}

// ContactRepo contactos en memoria; is_rogue los oculta.
type ContactRepo struct{ s *Store }

func visibleContact(tenantID, clientID int64) func(entity.ClientContact) bool {
	return func(c entity.ClientContact) bool {
		return c.TenantID == tenantID && c.ClientID == clientID && !c.IsRogue
	}
}

func (r *ContactRepo) Create(_ context.Context, c *entity.ClientContact) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	owner, ok := r.s.t.clients[c.ClientID]
	if !ok || owner.TenantID != c.TenantID {
		return fmt.Errorf("insert contact: client %d: %w", c.ClientID, domain.ErrNotFound)
	}
	c.ID = r.s.nextID("contacts")
	c.CreatedAt = r.s.stamp()
	c.IsRogue = false
	r.s.t.contacts[c.ID] = *c
	return nil
}

func (r *ContactRepo) GetByID(_ context.Context, tenantID, clientID, id int64) (*entity.ClientContact, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.t.contacts[id]
	if !ok || !visibleContact(tenantID, clientID)(c) {
		return nil, nil
	}
	return &c, nil
}

func (r *ContactRepo) ListPaged(_ context.Context, tenantID, clientID int64, limit, offset int) ([]*entity.ClientContact, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	list := collect(r.s.t.contacts, visibleContact(tenantID, clientID),
		func(a, b entity.ClientContact) bool { return a.ID > b.ID })
	return page(list, limit, offset), nil
}

func (r *ContactRepo) Count(_ context.Context, tenantID, clientID int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return count(r.s.t.contacts, visibleContact(tenantID, clientID)), nil
}

func (r *ContactRepo) Update(_ context.Context, c *entity.ClientContact) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.t.contacts[c.ID]
	if !ok || !visibleContact(c.TenantID, c.ClientID)(cur) {
		return fmt.Errorf("update contact: %w", domain.ErrNotFound)
	}
	cur.Name, cur.Address, cur.Email, cur.Phone = c.Name, c.Address, c.Email, c.Phone
	cur.Department, cur.Position = c.Department, c.Position
	r.s.t.contacts[c.ID] = cur
	return nil
}

func (r *ContactRepo) Delete(_ context.Context, tenantID, clientID, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.t.contacts[id]
	if !ok || !visibleContact(tenantID, clientID)(cur) {
		return fmt.Errorf("delete contact: %w", domain.ErrNotFound)
	}
	for _, e := range r.s.t.emails {
		if e.TenantID == tenantID && e.ContactID != nil && *e.ContactID == id {
			return fmt.Errorf("delete contact: contact has emails: %w", domain.ErrConflict)
		}
	}
	deleteWhere(r.s.t.appointments, func(a entity.Appointment) bool {
		return a.TenantID == tenantID && a.ContactID == id
	})
	delete(r.s.t.contacts, id)
	return nil
}

func (r *ContactRepo) MarkRogueByClient(_ context.Context, tenantID, clientID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, c := range r.s.t.contacts {
		if c.TenantID == tenantID && c.ClientID == clientID {
			c.IsRogue = true
			r.s.t.contacts[id] = c
		}
	}
	return nil
}

// AppointmentRepo citas en memoria.
type AppointmentRepo struct{ s *Store }

func (r *AppointmentRepo) withContact(a entity.Appointment) *entity.Appointment {
	if c, ok := r.s.t.contacts[a.ContactID]; ok && c.TenantID == a.TenantID {
		a.ContactName = c.Name
	}
	return &a
}

func (r *AppointmentRepo) Create(_ context.Context, a *entity.Appointment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.t.contacts[a.ContactID]
	if !ok || c.TenantID != a.TenantID || c.ClientID != a.ClientID {
		return fmt.Errorf("insert appointment: contact %d: %w", a.ContactID, domain.ErrNotFound)
	}
	a.ID = r.s.nextID("appointments")
	a.CreatedAt = r.s.stamp()
	a.ContactName = c.Name
	r.s.t.appointments[a.ID] = *a
	return nil
}

func (r *AppointmentRepo) GetByID(_ context.Context, tenantID, clientID, id int64) (*entity.Appointment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.t.appointments[id]
	if !ok || a.TenantID != tenantID || a.ClientID != clientID {
		return nil, nil
	}
	return r.withContact(a), nil
}

func (r *AppointmentRepo) ListPaged(_ context.Context, tenantID, clientID int64, limit, offset int) ([]*entity.Appointment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	list := collect(r.s.t.appointments,
		func(a entity.Appointment) bool { return a.TenantID == tenantID && a.ClientID == clientID },
		func(a, b entity.Appointment) bool {
			if a.ScheduledFor != b.ScheduledFor {
				return a.ScheduledFor > b.ScheduledFor
			}
			return a.ID > b.ID
		})
	list = page(list, limit, offset)
	for i, a := range list {
		list[i] = r.withContact(*a)
	}
	return list, nil
}

func (r *AppointmentRepo) Count(_ context.Context, tenantID, clientID int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return count(r.s.t.appointments, func(a entity.Appointment) bool {
		return a.TenantID == tenantID && a.ClientID == clientID
	}), nil
}

func (r *AppointmentRepo) Update(_ context.Context, a *entity.Appointment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.t.appointments[a.ID]
	if !ok || cur.TenantID != a.TenantID || cur.ClientID != a.ClientID {
		return fmt.Errorf("update appointment: %w", domain.ErrNotFound)
	}
	cur.ContactID, cur.Title, cur.ScheduledFor, cur.Status, cur.Notes = a.ContactID, a.Title, a.ScheduledFor, a.Status, a.Notes
	r.s.t.appointments[a.ID] = cur
	return nil
}

func (r *AppointmentRepo) Delete(_ context.Context, tenantID, clientID, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.t.appointments[id]
	if !ok || cur.TenantID != tenantID || cur.ClientID != clientID {
		return fmt.Errorf("delete appointment: %w", domain.ErrNotFound)
	}
	delete(r.s.t.appointments, id)
	return nil
}
