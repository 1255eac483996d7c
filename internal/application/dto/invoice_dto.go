package dto

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/kinetic/internal/domain/entity"
)

// InvoiceRequest alta/edición de factura.
type InvoiceRequest struct {
	DeploymentID int64  `json:"deployment_id"`
	Status       string `json:"status"`
	Notes        string `json:"notes"`
}

// InvoiceResponse factura con totales derivados.
type InvoiceResponse struct {
	ID               int64           `json:"id"`
	Number           string          `json:"invoice_number"`
	DeploymentID     int64           `json:"deployment_id"`
	Status           string          `json:"status"`
	Notes            string          `json:"notes"`
	ClientID         int64           `json:"client_id"`
	ClientName       string          `json:"client_name"`
	ClientEmail      string          `json:"client_email"`
	Currency         string          `json:"currency"`
	CrewName         string          `json:"crew_name"`
	StartAt          string          `json:"start_at"`
	EndAt            string          `json:"end_at"`
	DeploymentStatus string          `json:"deployment_status"`
	FeePerHour       decimal.Decimal `json:"fee_per_hour"`
	TotalHours       decimal.Decimal `json:"total_hours"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
	CreatedAt        string          `json:"created_at"`
}

// NewInvoiceResponse mapea el detalle.
func NewInvoiceResponse(d *entity.InvoiceDetails) InvoiceResponse {
	return InvoiceResponse{
		ID: d.ID, Number: d.Number(), DeploymentID: d.DeploymentID, Status: d.Status, Notes: d.Notes,
		ClientID: d.ClientID, ClientName: d.ClientName, ClientEmail: d.ClientEmail, Currency: d.ClientCurrency,
		CrewName: d.CrewName, StartAt: d.StartAt, EndAt: d.EndAt, DeploymentStatus: d.DeploymentStatus,
		FeePerHour: d.FeePerHour, TotalHours: d.TotalHours, TotalAmount: d.TotalAmount, CreatedAt: d.CreatedAt,
	}
}

// InvoiceDetail factura con las jornadas del despliegue.
type InvoiceDetail struct {
	Invoice InvoiceResponse      `json:"invoice"`
	Updates []WorkUpdateResponse `json:"updates"`
}

// InvoiceDocument datos para el PDF.
type InvoiceDocument struct {
	BrandName  string
	BrandColor string
	Invoice    entity.InvoiceDetails
	Updates    []*entity.DeploymentUpdate
}

// SendInvoiceRequest envío de la factura por email. Subject/Body vacíos usan el texto generado.
type SendInvoiceRequest struct {
	To      string `json:"to"`
	CC      string `json:"cc"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// InvoiceCandidate despliegue facturable.
type InvoiceCandidate struct {
	DeploymentID int64  `json:"deployment_id"`
	Label        string `json:"label"`
	ClientName   string `json:"client_name"`
	CrewName     string `json:"crew_name"`
	StartAt      string `json:"start_at"`
	EndAt        string `json:"end_at"`
}
