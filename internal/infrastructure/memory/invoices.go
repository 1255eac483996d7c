package memory

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/kinetic/internal/domain"
	"github.com/jhoicas/kinetic/internal/domain/entity"
	"github.com/jhoicas/kinetic/internal/domain/repository"
	"github.com/jhoicas/kinetic/internal/domain/worktime"
)

var (
	_ repository.InvoiceRepository = (*InvoiceRepo)(nil)
	_ repository.EmailRepository   = (*EmailRepo)(nil)
)

// InvoiceRepo facturas en memoria; una por despliegue.
type InvoiceRepo struct{ s *Store }

func (r *InvoiceRepo) Create(_ context.Context, inv *entity.Invoice) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if d, ok := r.s.t.deployments[inv.DeploymentID]; !ok || d.TenantID != inv.TenantID {
		return fmt.Errorf("insert invoice: deployment %d: %w", inv.DeploymentID, domain.ErrNotFound)
	}
	for _, other := range r.s.t.invoices {
		if other.TenantID == inv.TenantID && other.DeploymentID == inv.DeploymentID {
			return domain.ErrDuplicate
		}
	}
	inv.ID = r.s.nextID("invoices")
	inv.CreatedAt = r.s.stamp()
	r.s.t.invoices[inv.ID] = *inv
	return nil
}

func (r *InvoiceRepo) GetByID(_ context.Context, tenantID, id int64) (*entity.Invoice, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	inv, ok := r.s.t.invoices[id]
	if !ok || inv.TenantID != tenantID {
		return nil, nil
	}
	return &inv, nil
}

func (r *InvoiceRepo) GetByDeployment(_ context.Context, tenantID, deploymentID int64) (*entity.Invoice, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, inv := range r.s.t.invoices {
		if inv.TenantID == tenantID && inv.DeploymentID == deploymentID {
			inv := inv
			return &inv, nil
		}
	}
	return nil, nil
}

func (r *InvoiceRepo) Update(_ context.Context, inv *entity.Invoice) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.t.invoices[inv.ID]
	if !ok || cur.TenantID != inv.TenantID {
		return fmt.Errorf("update invoice: %w", domain.ErrNotFound)
	}
	cur.Status, cur.Notes = inv.Status, inv.Notes
	r.s.t.invoices[inv.ID] = cur
	return nil
}

func (r *InvoiceRepo) Delete(_ context.Context, tenantID, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.t.invoices[id]
	if !ok || cur.TenantID != tenantID {
		return fmt.Errorf("delete invoice: %w", domain.ErrNotFound)
	}
	delete(r.s.t.invoices, id)
	return nil
}

func (s *Store) invoiceDetails(inv entity.Invoice) *entity.InvoiceDetails {
	d := &entity.InvoiceDetails{Invoice: inv, ClientCurrency: "USD"}
	dep, ok := s.t.deployments[inv.DeploymentID]
	if !ok {
		return d
	}
	d.ClientID, d.CrewID = dep.ClientID, dep.CrewID
	d.StartAt, d.EndAt = dep.StartAt, dep.EndAt
	d.DeploymentStatus, d.DeploymentInfo = dep.Status, dep.Info
	d.FeePerHour = dep.FeePerHour
	if c, ok := s.t.clients[dep.ClientID]; ok && c.TenantID == inv.TenantID {
		d.ClientName, d.ClientEmail, d.ClientCurrency = c.CompanyName, c.Email, c.Currency
	}
	if c, ok := s.t.crews[dep.CrewID]; ok && c.TenantID == inv.TenantID {
		d.CrewName = c.Name
	}
	d.TotalHours = s.totalHours(inv.TenantID, inv.DeploymentID)
	d.TotalAmount = worktime.Amount(d.TotalHours, d.FeePerHour)
	return d
}

func (r *InvoiceRepo) ListDetails(_ context.Context, tenantID int64) ([]*entity.InvoiceDetails, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	list := collect(r.s.t.invoices, func(i entity.Invoice) bool { return i.TenantID == tenantID },
		func(a, b entity.Invoice) bool { return a.ID > b.ID })
	out := make([]*entity.InvoiceDetails, 0, len(list))
	for _, inv := range list {
		out = append(out, r.s.invoiceDetails(*inv))
	}
	return out, nil
}

func (r *InvoiceRepo) GetDetails(_ context.Context, tenantID, id int64) (*entity.InvoiceDetails, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	inv, ok := r.s.t.invoices[id]
	if !ok || inv.TenantID != tenantID {
		return nil, nil
	}
	return r.s.invoiceDetails(inv), nil
}

func (r *InvoiceRepo) ListCandidates(_ context.Context, tenantID int64) ([]*entity.Deployment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	invoiced := make(map[int64]bool)
	for _, inv := range r.s.t.invoices {
		if inv.TenantID == tenantID {
			invoiced[inv.DeploymentID] = true
		}
	}
	list := collect(r.s.t.deployments, func(d entity.Deployment) bool {
		return d.TenantID == tenantID && strings.EqualFold(d.Status, entity.DeploymentCompleted) && !invoiced[d.ID]
	}, deploymentNewestFirst)
	for i, d := range list {
		list[i] = r.s.withNames(*d)
	}
	return list, nil
}

// EmailRepo registros de emails salientes en memoria.
type EmailRepo struct{ s *Store }

func (r *EmailRepo) Create(_ context.Context, e *entity.OutboundEmail) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e.ID = r.s.nextID("emails")
	e.CreatedAt = r.s.stamp()
	r.s.t.emails[e.ID] = *e
	return nil
}

func (r *EmailRepo) UpdateStatus(_ context.Context, id int64, status, errorMessage string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.t.emails[id]
	if !ok {
		return fmt.Errorf("update email status: %w", domain.ErrNotFound)
	}
	cur.Status, cur.ErrorMessage = status, errorMessage
	r.s.t.emails[id] = cur
	return nil
}

func (r *EmailRepo) GetByID(_ context.Context, tenantID, id int64) (*entity.OutboundEmail, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.t.emails[id]
	if !ok || e.TenantID != tenantID {
		return nil, nil
	}
	return &e, nil
}

func (r *EmailRepo) ListByTenant(_ context.Context, tenantID int64, limit, offset int) ([]*entity.OutboundEmail, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	list := collect(r.s.t.emails, func(e entity.OutboundEmail) bool { return e.TenantID == tenantID },
		func(a, b entity.OutboundEmail) bool { return a.ID > b.ID })
	return page(list, limit, offset), nil
}

func (r *EmailRepo) CountByStatus(_ context.Context, tenantID int64, status string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return count(r.s.t.emails, func(e entity.OutboundEmail) bool {
		return e.TenantID == tenantID && e.Status == status
	}), nil
}

func (r *EmailRepo) ListQueued(_ context.Context, providers []string, limit int) ([]*entity.OutboundEmail, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	drainable := make(map[string]bool, len(providers))
	for _, p := range providers {
		drainable[p] = true
	}
	list := collect(r.s.t.emails, func(e entity.OutboundEmail) bool {
		return e.Status == entity.EmailQueued && drainable[e.Provider]
	}, func(a, b entity.OutboundEmail) bool { return a.ID < b.ID })
	return page(list, limit, 0), nil
}
