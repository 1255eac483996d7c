package dto

import "github.com/shopspring/decimal"

// DashboardSummary contadores del workspace para la página de inicio.
type DashboardSummary struct {
	Clients             int64            `json:"clients"`
	Crews               int64            `json:"crews"`
	DeploymentsByStatus map[string]int64 `json:"deployments_by_status"`
	InvoicesByStatus    map[string]int64 `json:"invoices_by_status"`
	InvoiceCandidates   int              `json:"invoice_candidates"`
	OutstandingAmount   decimal.Decimal  `json:"outstanding_amount"`
	EmailsByStatus      map[string]int64 `json:"emails_by_status"`
	PlanKey             string           `json:"plan_key"`
	PlanExpired         bool             `json:"plan_expired"`
}
