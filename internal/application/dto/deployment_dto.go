package dto

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/kinetic/internal/domain/entity"
)

// DeploymentRequest alta/edición de despliegue. Las fechas aceptan "YYYY-MM-DDTHH:MM".
type DeploymentRequest struct {
	ClientID          int64           `json:"client_id"`
	CrewID            int64           `json:"crew_id"`
	StartAt           string          `json:"start_at"`
	EndAt             string          `json:"end_at"`
	FeePerHour        decimal.Decimal `json:"fee_per_hour"`
	Info              string          `json:"info"`
	Status            string          `json:"status"`
	DeploymentType    string          `json:"deployment_type"`
	RequiredSkills    string          `json:"required_skills"`
	CompatibilityPref string          `json:"compatibility_pref"`
}

// DeploymentResponse despliegue con nombres de cliente y equipo.
type DeploymentResponse struct {
	ID                int64           `json:"id"`
	ClientID          int64           `json:"client_id"`
	ClientName        string          `json:"client_name"`
	CrewID            int64           `json:"crew_id"`
	CrewName          string          `json:"crew_name"`
	StartAt           string          `json:"start_at"`
	EndAt             string          `json:"end_at"`
	FeePerHour        decimal.Decimal `json:"fee_per_hour"`
	Info              string          `json:"info"`
	Status            string          `json:"status"`
	DeploymentType    string          `json:"deployment_type"`
	RequiredSkills    string          `json:"required_skills"`
	CompatibilityPref string          `json:"compatibility_pref"`
	EstimatedFee      decimal.Decimal `json:"estimated_fee"`
}

// NewDeploymentResponse mapea la entidad con la tarifa estimada.
func NewDeploymentResponse(d *entity.Deployment, estimate decimal.Decimal) DeploymentResponse {
	return DeploymentResponse{
		ID: d.ID, ClientID: d.ClientID, ClientName: d.ClientName, CrewID: d.CrewID, CrewName: d.CrewName,
		StartAt: d.StartAt, EndAt: d.EndAt, FeePerHour: d.FeePerHour, Info: d.Info, Status: d.Status,
		DeploymentType: d.DeploymentType, RequiredSkills: d.RequiredSkills, CompatibilityPref: d.CompatibilityPref,
		EstimatedFee: estimate,
	}
}

// FeeEstimateRequest cálculo de tarifa sin persistir.
type FeeEstimateRequest struct {
	StartAt    string          `json:"start_at"`
	EndAt      string          `json:"end_at"`
	FeePerHour decimal.Decimal `json:"fee_per_hour"`
}

// FeeEstimateResponse tarifa con tope diario de 8h.
type FeeEstimateResponse struct {
	BillableHours decimal.Decimal `json:"billable_hours"`
	Fee           decimal.Decimal `json:"fee"`
}

// WorkUpdateRequest jornada de trabajo.
type WorkUpdateRequest struct {
	DeploymentID int64  `json:"deployment_id"`
	WorkDate     string `json:"work_date"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
	Notes        string `json:"notes"`
}

// WorkUpdateResponse jornada registrada.
type WorkUpdateResponse struct {
	ID            int64           `json:"id"`
	DeploymentID  int64           `json:"deployment_id"`
	UserID        *int64          `json:"user_id"`
	WorkDate      string          `json:"work_date"`
	StartTime     string          `json:"start_time"`
	EndTime       string          `json:"end_time"`
	HoursWorked   decimal.Decimal `json:"hours_worked"`
	Notes         string          `json:"notes"`
	IsPlaceholder bool            `json:"is_placeholder"`
}

// NewWorkUpdateResponses mapea las jornadas.
func NewWorkUpdateResponses(list []*entity.DeploymentUpdate) []WorkUpdateResponse {
	out := make([]WorkUpdateResponse, 0, len(list))
	for _, u := range list {
		out = append(out, WorkUpdateResponse{
			ID: u.ID, DeploymentID: u.DeploymentID, UserID: u.UserID, WorkDate: u.WorkDate,
			StartTime: u.StartTime, EndTime: u.EndTime, HoursWorked: u.HoursWorked,
			Notes: u.Notes, IsPlaceholder: u.IsPlaceholder,
		})
	}
	return out
}

// DeploymentDetail despliegue con jornadas, horas acumuladas y recomendación de equipos.
type DeploymentDetail struct {
	Deployment      DeploymentResponse       `json:"deployment"`
	Updates         []WorkUpdateResponse     `json:"updates"`
	TotalHours      decimal.Decimal          `json:"total_hours"`
	ActiveTimer     *TimerResponse           `json:"active_timer,omitempty"`
	Recommendations []RecommendationResponse `json:"recommendations"`
}

// TimerResponse temporizador.
type TimerResponse struct {
	ID           int64   `json:"id"`
	DeploymentID int64   `json:"deployment_id"`
	StartAt      string  `json:"start_at"`
	EndAt        *string `json:"end_at"`
}

// NewTimerResponse mapea la entidad.
func NewTimerResponse(t *entity.WorkTimer) *TimerResponse {
	if t == nil {
		return nil
	}
	return &TimerResponse{ID: t.ID, DeploymentID: t.DeploymentID, StartAt: t.StartAt, EndAt: t.EndAt}
}

// DeploymentGroup despliegues de un cliente, para el listado agrupado.
type DeploymentGroup struct {
	ClientID       int64                `json:"client_id"`
	ClientName     string               `json:"client_name"`
	ClientCurrency string               `json:"client_currency"`
	Deployments    []DeploymentResponse `json:"deployments"`
}
