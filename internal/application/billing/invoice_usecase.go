// Package billing facturas de despliegues completados: alta, totales derivados,
// PDF y envío por email.
package billing

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jhoicas/kinetic/internal/application/dto"
	"github.com/jhoicas/kinetic/internal/application/ports"
	"github.com/jhoicas/kinetic/internal/domain"
	"github.com/jhoicas/kinetic/internal/domain/entity"
	"github.com/jhoicas/kinetic/internal/domain/repository"
)

const (
	msgInvoiceNotFound = "Invoice not found."
	msgInvoiceExists   = "An invoice already exists for this deployment."
)

// InvoiceUseCase facturación. Los totales nunca se guardan: se derivan de las
// jornadas al leer.
type InvoiceUseCase struct {
	invoices    repository.InvoiceRepository
	deployments repository.DeploymentRepository
	updates     repository.DeploymentUpdateRepository
	tenants     repository.TenantRepository
	pdf         ports.InvoicePDFGenerator
	queue       EmailQueue
	metrics     ports.Metrics
}

// NewInvoiceUseCase construye el caso de uso.
func NewInvoiceUseCase(
	invoices repository.InvoiceRepository,
	deployments repository.DeploymentRepository,
	updates repository.DeploymentUpdateRepository,
	tenants repository.TenantRepository,
	pdf ports.InvoicePDFGenerator,
	queue EmailQueue,
	metrics ports.Metrics,
) *InvoiceUseCase {
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	return &InvoiceUseCase{
		invoices: invoices, deployments: deployments, updates: updates, tenants: tenants,
		pdf: pdf, queue: queue, metrics: metrics,
	}
}

// ─── CRUD ────────────────────────────────────────────────────────────────────

// Create factura un despliegue Completed que aún no tenga factura.
func (uc *InvoiceUseCase) Create(ctx context.Context, tenantID int64, in dto.InvoiceRequest) (*dto.InvoiceResponse, error) {
	in.Status = entity.NormalizeOption(in.Status, entity.InvoiceStatuses, entity.InvoiceDraft)
	in.Notes = strings.TrimSpace(in.Notes)
	if in.DeploymentID <= 0 {
		return nil, domain.NewValidation("Deployment is required.", in)
	}
	d, err := uc.deployments.GetByID(ctx, tenantID, in.DeploymentID)
	if err != nil {
		return nil, domain.NewStorage("Unable to load deployment", err, in)
	}
	if d == nil {
		return nil, domain.NewNotFound("Deployment not found.", in)
	}
	if !strings.EqualFold(d.Status, entity.DeploymentCompleted) {
		return nil, domain.NewValidation("Only completed deployments can be invoiced.", in)
	}
	existing, err := uc.invoices.GetByDeployment(ctx, tenantID, in.DeploymentID)
	if err != nil {
		return nil, domain.NewStorage("Unable to load invoice", err, in)
	}
	if existing != nil {
		return nil, domain.NewConflict(msgInvoiceExists, in)
	}

	inv := &entity.Invoice{TenantID: tenantID, DeploymentID: in.DeploymentID, Status: in.Status, Notes: in.Notes}
	if err := uc.invoices.Create(ctx, inv); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.NewConflict(msgInvoiceExists, in)
		}
		return nil, domain.NewStorage("Unable to create invoice", err, in)
	}
	uc.metrics.InvoiceCreated()
	return uc.Get(ctx, tenantID, inv.ID)
}

// Update solo cambia estado y notas; el despliegue es fijo.
func (uc *InvoiceUseCase) Update(ctx context.Context, tenantID, id int64, in dto.InvoiceRequest) (*dto.InvoiceResponse, error) {
	in.Status = entity.NormalizeOption(in.Status, entity.InvoiceStatuses, entity.InvoiceDraft)
	in.Notes = strings.TrimSpace(in.Notes)
	inv, err := uc.invoices.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, domain.NewStorage("Unable to load invoice", err, in)
	}
	if inv == nil {
		return nil, domain.NewNotFound(msgInvoiceNotFound, in)
	}
	if in.DeploymentID != inv.DeploymentID {
		in.DeploymentID = inv.DeploymentID
		return nil, domain.NewValidation("Deployment cannot be changed for an invoice.", in)
	}
	inv.Status, inv.Notes = in.Status, in.Notes
	if err := uc.invoices.Update(ctx, inv); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewNotFound(msgInvoiceNotFound, in)
		}
		return nil, domain.NewStorage("Unable to update invoice", err, in)
	}
	return uc.Get(ctx, tenantID, id)
}

// Delete borra la factura; el despliegue vuelve a ser candidato.
func (uc *InvoiceUseCase) Delete(ctx context.Context, tenantID, id int64) error {
	if err := uc.invoices.Delete(ctx, tenantID, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NewNotFound(msgInvoiceNotFound, nil)
		}
		return domain.NewStorage("Unable to delete invoice", err, nil)
	}
	return nil
}

// Get factura con totales derivados.
func (uc *InvoiceUseCase) Get(ctx context.Context, tenantID, id int64) (*dto.InvoiceResponse, error) {
	d, err := uc.details(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := dto.NewInvoiceResponse(d)
	return &resp, nil
}

func (uc *InvoiceUseCase) details(ctx context.Context, tenantID, id int64) (*entity.InvoiceDetails, error) {
	d, err := uc.invoices.GetDetails(ctx, tenantID, id)
	if err != nil {
		return nil, domain.NewStorage("Unable to load invoice", err, nil)
	}
	if d == nil {
		return nil, domain.NewNotFound(msgInvoiceNotFound, nil)
	}
	return d, nil
}

// List facturas del workspace con nombres de cliente y equipo.
func (uc *InvoiceUseCase) List(ctx context.Context, tenantID int64) ([]dto.InvoiceResponse, error) {
	list, err := uc.invoices.ListDetails(ctx, tenantID)
	if err != nil {
		return nil, domain.NewStorage("Unable to load invoices", err, nil)
	}
	out := make([]dto.InvoiceResponse, 0, len(list))
	for _, d := range list {
		out = append(out, dto.NewInvoiceResponse(d))
	}
	return out, nil
}

// Candidates despliegues Completed sin factura, con la etiqueta del selector.
func (uc *InvoiceUseCase) Candidates(ctx context.Context, tenantID int64) ([]dto.InvoiceCandidate, error) {
	list, err := uc.invoices.ListCandidates(ctx, tenantID)
	if err != nil {
		return nil, domain.NewStorage("Unable to load invoice candidates", err, nil)
	}
	out := make([]dto.InvoiceCandidate, 0, len(list))
	for _, d := range list {
		out = append(out, dto.InvoiceCandidate{
			DeploymentID: d.ID,
			Label:        fmt.Sprintf("%s - %s (%s to %s)", d.ClientName, d.CrewName, d.StartAt, d.EndAt),
			ClientName:   d.ClientName,
			CrewName:     d.CrewName,
			StartAt:      d.StartAt,
			EndAt:        d.EndAt,
		})
	}
	return out, nil
}

// Detail factura con las jornadas del despliegue.
func (uc *InvoiceUseCase) Detail(ctx context.Context, tenantID, id int64) (*dto.InvoiceDetail, error) {
	d, updates, err := uc.detailsWithUpdates(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	return &dto.InvoiceDetail{
		Invoice: dto.NewInvoiceResponse(d),
		Updates: dto.NewWorkUpdateResponses(updates),
	}, nil
}

func (uc *InvoiceUseCase) detailsWithUpdates(ctx context.Context, tenantID, id int64) (*entity.InvoiceDetails, []*entity.DeploymentUpdate, error) {
	d, err := uc.details(ctx, tenantID, id)
	if err != nil {
		return nil, nil, err
	}
	updates, err := uc.updates.ListByDeployment(ctx, tenantID, d.DeploymentID)
	if err != nil {
		return nil, nil, domain.NewStorage("Unable to load updates", err, nil)
	}
	return d, updates, nil
}
