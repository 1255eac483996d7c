package usecase

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/kinetic/internal/application/dto"
	"github.com/jhoicas/kinetic/internal/application/quota"
	"github.com/jhoicas/kinetic/internal/domain"
	"github.com/jhoicas/kinetic/internal/domain/entity"
	"github.com/jhoicas/kinetic/internal/domain/repository"
)

// DashboardUseCase resumen del workspace para la portada.
type DashboardUseCase struct {
	clients     repository.ClientRepository
	crews       repository.CrewRepository
	deployments repository.DeploymentRepository
	invoices    repository.InvoiceRepository
	emails      repository.EmailRepository
	gate        *quota.Gate
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(reg repository.Registry, gate *quota.Gate) *DashboardUseCase {
	return &DashboardUseCase{
		clients:     reg.Clients,
		crews:       reg.Crews,
		deployments: reg.Deployments,
		invoices:    reg.Invoices,
		emails:      reg.Emails,
		gate:        gate,
	}
}

// Summary cuenta clientes, equipos, despliegues y facturas por estado. El saldo
// pendiente suma las facturas no pagadas.
func (uc *DashboardUseCase) Summary(ctx context.Context, tenantID int64) (*dto.DashboardSummary, error) {
	out := &dto.DashboardSummary{
		DeploymentsByStatus: make(map[string]int64, len(entity.DeploymentStatuses)),
		InvoicesByStatus:    make(map[string]int64, len(entity.InvoiceStatuses)),
		EmailsByStatus:      make(map[string]int64, 3),
		OutstandingAmount:   decimal.Zero,
	}
	var err error
	if out.Clients, err = uc.clients.Count(ctx, tenantID); err != nil {
		return nil, domain.NewStorage("Unable to load dashboard clients", err, nil)
	}
	if out.Crews, err = uc.crews.Count(ctx, tenantID); err != nil {
		return nil, domain.NewStorage("Unable to load dashboard crews", err, nil)
	}

	deployments, err := uc.deployments.List(ctx, tenantID)
	if err != nil {
		return nil, domain.NewStorage("Unable to load dashboard deployments", err, nil)
	}
	for _, s := range entity.DeploymentStatuses {
		out.DeploymentsByStatus[s] = 0
	}
	for _, d := range deployments {
		out.DeploymentsByStatus[entity.NormalizeOption(d.Status, entity.DeploymentStatuses, d.Status)]++
	}

	invoices, err := uc.invoices.ListDetails(ctx, tenantID)
	if err != nil {
		return nil, domain.NewStorage("Unable to load dashboard invoices", err, nil)
	}
	for _, s := range entity.InvoiceStatuses {
		out.InvoicesByStatus[s] = 0
	}
	for _, inv := range invoices {
		status := entity.NormalizeOption(inv.Status, entity.InvoiceStatuses, entity.InvoiceDraft)
		out.InvoicesByStatus[status]++
		if status != entity.InvoicePaid {
			out.OutstandingAmount = out.OutstandingAmount.Add(inv.TotalAmount)
		}
	}
	candidates, err := uc.invoices.ListCandidates(ctx, tenantID)
	if err != nil {
		return nil, domain.NewStorage("Unable to load dashboard candidates", err, nil)
	}
	out.InvoiceCandidates = len(candidates)

	for _, s := range []string{entity.EmailQueued, entity.EmailSent, entity.EmailFailed} {
		n, err := uc.emails.CountByStatus(ctx, tenantID, s)
		if err != nil {
			return nil, domain.NewStorage("Unable to load dashboard emails", err, nil)
		}
		out.EmailsByStatus[s] = n
	}

	tenant, _, err := uc.gate.Limits(ctx, tenantID)
	if err != nil {
		return nil, domain.NewStorage("Unable to load workspace plan", err, nil)
	}
	out.PlanKey = tenant.PlanKey
	if out.PlanExpired, err = uc.gate.Expired(ctx, tenantID); err != nil {
		return nil, domain.NewStorage("Unable to load workspace plan", err, nil)
	}
	return out, nil
}
