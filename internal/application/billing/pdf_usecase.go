package billing

import (
	"context"
	"fmt"

	"github.com/jhoicas/kinetic/internal/application/dto"
	"github.com/jhoicas/kinetic/internal/domain"
)

// DownloadPDF genera el PDF de la factura con la marca del workspace.
//
// Retorna:
//   - (pdfBytes, filename, nil) si todo sale bien.
//   - domain.ErrNotFound        si la factura no existe en el workspace.
//   - domain.ErrStorage         si falla la lectura o la generación.
func (uc *InvoiceUseCase) DownloadPDF(ctx context.Context, tenantID, id int64) (pdfBytes []byte, filename string, err error) {
	// ── 1. Factura y jornadas ─────────────────────────────────────────────────
	d, updates, err := uc.detailsWithUpdates(ctx, tenantID, id)
	if err != nil {
		return nil, "", err
	}

	// ── 2. Marca del workspace ────────────────────────────────────────────────
	tenant, err := uc.tenants.GetByID(ctx, tenantID)
	if err != nil {
		return nil, "", domain.NewStorage("Unable to load workspace", err, nil)
	}
	doc := dto.InvoiceDocument{Invoice: *d, Updates: updates}
	if tenant != nil {
		doc.BrandName, doc.BrandColor = tenant.BrandName, tenant.BrandColor
	}

	// ── 3. Generar PDF ────────────────────────────────────────────────────────
	pdfBytes, err = uc.pdf.Generate(ctx, doc)
	if err != nil {
		return nil, "", domain.NewStorage("Unable to render invoice PDF", err, nil)
	}
	filename = fmt.Sprintf("%s.pdf", d.Number())
	return pdfBytes, filename, nil
}
