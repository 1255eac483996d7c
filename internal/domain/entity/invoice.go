package entity

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Estados de factura.
const (
	InvoiceDraft = "Draft"
	InvoiceSent  = "Sent"
	InvoicePaid  = "Paid"
)

// InvoiceStatuses opciones válidas.
var InvoiceStatuses = []string{InvoiceDraft, InvoiceSent, InvoicePaid}

// Invoice factura de un despliegue completado. Los totales no se almacenan.
type Invoice struct {
	ID           int64
	TenantID     int64
	DeploymentID int64
	Status       string
	Notes        string
	CreatedAt    string
}

// Number número visible: INV-00042.
func (i Invoice) Number() string {
	return InvoiceNumber(i.ID)
}

// InvoiceNumber formatea el número visible de una factura.
func InvoiceNumber(id int64) string {
	return fmt.Sprintf("INV-%05d", id)
}

// InvoiceDetails factura con los datos del despliegue, cliente y equipo.
// TotalHours y TotalAmount se derivan de las actualizaciones al leer.
type InvoiceDetails struct {
	Invoice
	ClientID         int64
	ClientName       string
	ClientEmail      string
	ClientCurrency   string
	CrewID           int64
	CrewName         string
	StartAt          string
	EndAt            string
	DeploymentStatus string
	DeploymentInfo   string
	FeePerHour       decimal.Decimal
	TotalHours       decimal.Decimal
	TotalAmount      decimal.Decimal
}
