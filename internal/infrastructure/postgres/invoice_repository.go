package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/kinetic/internal/domain"
	"github.com/jhoicas/kinetic/internal/domain/entity"
	"github.com/jhoicas/kinetic/internal/domain/repository"
	"github.com/jhoicas/kinetic/internal/domain/worktime"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo facturas sobre PostgreSQL. UNIQUE (tenant_id, deployment_id) impide dos
// facturas por despliegue aun con creadores concurrentes.
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador de facturas.
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const invoiceDetailsSelect = `
	SELECT i.id, i.tenant_id, i.deployment_id, i.status, i.notes, i.created_at,
		d.client_id, COALESCE(c.company_name, ''), COALESCE(c.email, ''), COALESCE(c.currency, 'USD'),
		d.crew_id, COALESCE(cr.name, ''), d.start_at, d.end_at, d.status, d.info, d.fee_per_hour,
		COALESCE((SELECT SUM(u.hours_worked) FROM deployment_updates u
			WHERE u.tenant_id = i.tenant_id AND u.deployment_id = i.deployment_id), 0)
	FROM invoices i
	JOIN deployments d ON d.id = i.deployment_id AND d.tenant_id = i.tenant_id
	LEFT JOIN clients c ON c.id = d.client_id AND c.tenant_id = d.tenant_id
	LEFT JOIN crews cr ON cr.id = d.crew_id AND cr.tenant_id = d.tenant_id`

func scanInvoiceDetails(row pgx.Row) (*entity.InvoiceDetails, error) {
	var d entity.InvoiceDetails
	err := row.Scan(&d.ID, &d.TenantID, &d.DeploymentID, &d.Status, &d.Notes, &d.CreatedAt,
		&d.ClientID, &d.ClientName, &d.ClientEmail, &d.ClientCurrency,
		&d.CrewID, &d.CrewName, &d.StartAt, &d.EndAt, &d.DeploymentStatus, &d.DeploymentInfo, &d.FeePerHour,
		&d.TotalHours)
	if err != nil {
		return nil, err
	}
	d.TotalAmount = worktime.Amount(d.TotalHours, d.FeePerHour)
	return &d, nil
}

// Create persiste una factura.
func (r *InvoiceRepo) Create(ctx context.Context, inv *entity.Invoice) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO invoices (tenant_id, deployment_id, status, notes)
		VALUES ($1, $2, $3, $4) RETURNING id, created_at`,
		inv.TenantID, inv.DeploymentID, inv.Status, inv.Notes,
	).Scan(&inv.ID, &inv.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

func (r *InvoiceRepo) getOne(ctx context.Context, where string, args ...any) (*entity.Invoice, error) {
	var inv entity.Invoice
	err := r.q.QueryRow(ctx, `SELECT id, tenant_id, deployment_id, status, notes, created_at FROM invoices WHERE `+where, args...).
		Scan(&inv.ID, &inv.TenantID, &inv.DeploymentID, &inv.Status, &inv.Notes, &inv.CreatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return &inv, nil
}

// GetByID obtiene una factura del workspace.
func (r *InvoiceRepo) GetByID(ctx context.Context, tenantID, id int64) (*entity.Invoice, error) {
	return r.getOne(ctx, `tenant_id = $1 AND id = $2`, tenantID, id)
}

// GetByDeployment factura del despliegue, si existe.
func (r *InvoiceRepo) GetByDeployment(ctx context.Context, tenantID, deploymentID int64) (*entity.Invoice, error) {
	return r.getOne(ctx, `tenant_id = $1 AND deployment_id = $2`, tenantID, deploymentID)
}

// Update cambia estado y notas.
func (r *InvoiceRepo) Update(ctx context.Context, inv *entity.Invoice) error {
	tag, err := r.q.Exec(ctx, `UPDATE invoices SET status = $3, notes = $4 WHERE tenant_id = $1 AND id = $2`,
		inv.TenantID, inv.ID, inv.Status, inv.Notes)
	if err != nil {
		return fmt.Errorf("update invoice: %w", err)
	}
	return mustAffect(tag, "update invoice")
}

// Delete borra una factura.
func (r *InvoiceRepo) Delete(ctx context.Context, tenantID, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM invoices WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	if err != nil {
		return fmt.Errorf("delete invoice: %w", err)
	}
	return mustAffect(tag, "delete invoice")
}

// ListDetails facturas con totales derivados, más recientes primero.
func (r *InvoiceRepo) ListDetails(ctx context.Context, tenantID int64) ([]*entity.InvoiceDetails, error) {
	rows, err := r.q.Query(ctx, invoiceDetailsSelect+` WHERE i.tenant_id = $1 ORDER BY i.id DESC`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()
	var list []*entity.InvoiceDetails
	for rows.Next() {
		d, err := scanInvoiceDetails(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, d)
	}
	return list, rows.Err()
}

// GetDetails factura con totales derivados.
func (r *InvoiceRepo) GetDetails(ctx context.Context, tenantID, id int64) (*entity.InvoiceDetails, error) {
	d, err := scanInvoiceDetails(r.q.QueryRow(ctx, invoiceDetailsSelect+` WHERE i.tenant_id = $1 AND i.id = $2`, tenantID, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice details: %w", err)
	}
	return d, nil
}

// ListCandidates despliegues completados sin factura.
func (r *InvoiceRepo) ListCandidates(ctx context.Context, tenantID int64) ([]*entity.Deployment, error) {
	rows, err := r.q.Query(ctx, deploymentSelect+`
		WHERE d.tenant_id = $1 AND LOWER(d.status) = 'completed'
		AND NOT EXISTS (SELECT 1 FROM invoices i WHERE i.tenant_id = d.tenant_id AND i.deployment_id = d.id)
		ORDER BY d.start_at DESC, d.id DESC`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list invoice candidates: %w", err)
	}
	return collectDeployments(rows)
}
