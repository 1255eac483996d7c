package repository

import (
	"context"

	"github.com/jhoicas/kinetic/internal/domain/entity"
)

// InvoiceRepository facturas. Los totales de InvoiceDetails se calculan en la consulta.
type InvoiceRepository interface {
	// Create devuelve domain.ErrDuplicate si el despliegue ya tiene factura.
	Create(ctx context.Context, inv *entity.Invoice) error
	GetByID(ctx context.Context, tenantID, id int64) (*entity.Invoice, error)
	GetByDeployment(ctx context.Context, tenantID, deploymentID int64) (*entity.Invoice, error)
	Update(ctx context.Context, inv *entity.Invoice) error
	Delete(ctx context.Context, tenantID, id int64) error
	ListDetails(ctx context.Context, tenantID int64) ([]*entity.InvoiceDetails, error)
	GetDetails(ctx context.Context, tenantID, id int64) (*entity.InvoiceDetails, error)
	// ListCandidates despliegues Completed sin factura.
	ListCandidates(ctx context.Context, tenantID int64) ([]*entity.Deployment, error)
}

// EmailRepository registros de emails salientes.
type EmailRepository interface {
	Create(ctx context.Context, e *entity.OutboundEmail) error
	UpdateStatus(ctx context.Context, id int64, status, errorMessage string) error
	GetByID(ctx context.Context, tenantID, id int64) (*entity.OutboundEmail, error)
	ListByTenant(ctx context.Context, tenantID int64, limit, offset int) ([]*entity.OutboundEmail, error)
	CountByStatus(ctx context.Context, tenantID int64, status string) (int64, error)
	// ListQueued emails en cola de cualquier workspace cuyo proveedor esté en providers.
	ListQueued(ctx context.Context, providers []string, limit int) ([]*entity.OutboundEmail, error)
}
