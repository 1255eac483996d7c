package billing

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/kinetic/internal/application/dto"
	"github.com/jhoicas/kinetic/internal/domain"
	"github.com/jhoicas/kinetic/internal/domain/entity"
)

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

func esc(s string) string { return htmlEscaper.Replace(s) }

func fixed(d decimal.Decimal) string { return d.StringFixed(2) }

// EmailSubject asunto por defecto: "Invoice INV-00042 for Globex".
func EmailSubject(d *entity.InvoiceDetails) string {
	return fmt.Sprintf("Invoice %s for %s", d.Number(), d.ClientName)
}

// BuildEmailBody cuerpo HTML de la factura: cabecera, totales y tabla de jornadas.
// Todo texto interpolado se escapa.
func BuildEmailBody(d *entity.InvoiceDetails, updates []*entity.DeploymentUpdate) string {
	currency := esc(d.ClientCurrency)

	var b strings.Builder
	fmt.Fprintf(&b, "<h2>Invoice %s</h2>", esc(d.Number()))
	fmt.Fprintf(&b, "<p><strong>Client:</strong> %s<br><strong>Crew:</strong> %s<br><strong>Deployment:</strong> %s to %s</p>",
		esc(d.ClientName), esc(d.CrewName), esc(d.StartAt), esc(d.EndAt))
	fmt.Fprintf(&b, "<p><strong>Total hours:</strong> %s<br><strong>Rate:</strong> %s %s<br><strong>Total:</strong> %s %s</p>",
		fixed(d.TotalHours), fixed(d.FeePerHour), currency, fixed(d.TotalAmount), currency)
	if strings.TrimSpace(d.Notes) != "" {
		fmt.Fprintf(&b, "<p><strong>Notes:</strong> %s</p>", esc(d.Notes))
	}
	b.WriteString("<h3>Deployment reports</h3>")
	if len(updates) == 0 {
		b.WriteString("<p>No deployment updates were recorded.</p>")
		return b.String()
	}
	b.WriteString(`<table cellpadding="6" cellspacing="0" border="1" style="border-collapse: collapse;">`)
	b.WriteString("<thead><tr><th>Date</th><th>Start</th><th>Finish</th><th>Hours</th><th>Notes</th></tr></thead><tbody>")
	for _, u := range updates {
		fmt.Fprintf(&b, "<tr><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td></tr>",
			esc(u.WorkDate), esc(u.StartTime), esc(u.EndTime), fixed(u.HoursWorked), esc(u.Notes))
	}
	b.WriteString("</tbody></table>")
	return b.String()
}

// EmailDraft formulario de envío prellenado con el email del cliente, asunto y cuerpo.
func (uc *InvoiceUseCase) EmailDraft(ctx context.Context, tenantID, id int64) (*dto.SendInvoiceRequest, error) {
	d, updates, err := uc.detailsWithUpdates(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	return &dto.SendInvoiceRequest{
		To:      strings.TrimSpace(d.ClientEmail),
		Subject: EmailSubject(d),
		Body:    BuildEmailBody(d, updates),
	}, nil
}

// SendEmail encola la factura por email. Destinatario, asunto y cuerpo vacíos
// toman los valores generados.
func (uc *InvoiceUseCase) SendEmail(ctx context.Context, tenantID, id int64, in dto.SendInvoiceRequest) (*dto.EmailResponse, error) {
	d, updates, err := uc.detailsWithUpdates(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	to := strings.TrimSpace(in.To)
	if to == "" {
		to = strings.TrimSpace(d.ClientEmail)
	}
	if to == "" {
		return nil, domain.NewValidation("Client email is required to send invoices.", in)
	}
	subject := in.Subject
	if strings.TrimSpace(subject) == "" {
		subject = EmailSubject(d)
	}
	body := in.Body
	if strings.TrimSpace(body) == "" {
		body = BuildEmailBody(d, updates)
	}
	clientID := d.ClientID
	return uc.queue.QueueEmail(ctx, tenantID, dto.EmailRequest{
		ClientID: &clientID,
		To:       to,
		CC:       dto.SplitList(in.CC),
		Subject:  subject,
		HTMLBody: body,
	})
}
