package entity

import "github.com/shopspring/decimal"

// Estados de un despliegue.
const (
	DeploymentScheduled = "Scheduled"
	DeploymentActive    = "Active"
	DeploymentCompleted = "Completed"
	DeploymentCancelled = "Cancelled"
)

// DeploymentStatuses opciones válidas.
var DeploymentStatuses = []string{DeploymentScheduled, DeploymentActive, DeploymentCompleted, DeploymentCancelled}

// Tipos de despliegue.
const (
	DeploymentOnsite = "Onsite"
	DeploymentRemote = "Remote"
	DeploymentHybrid = "Hybrid"
)

// DeploymentTypes opciones válidas.
var DeploymentTypes = []string{DeploymentOnsite, DeploymentRemote, DeploymentHybrid}

// Deployment asignación de un equipo a un cliente en una ventana de tiempo.
type Deployment struct {
	ID                int64
	TenantID          int64
	ClientID          int64
	CrewID            int64
	StartAt           string // YYYY-MM-DD HH:MM
	EndAt             string
	FeePerHour        decimal.Decimal
	Info              string
	Status            string
	DeploymentType    string
	RequiredSkills    string
	CompatibilityPref string
	CreatedAt         string

	ClientName string // solo lectura (JOIN)
	CrewName   string
}

// PlaceholderNotes notas de la actualización generada al cerrar un temporizador sin reporte.
const PlaceholderNotes = "NO REPORT SUBMITTED"

// DeploymentUpdate jornada de trabajo registrada contra un despliegue.
type DeploymentUpdate struct {
	ID            int64
	TenantID      int64
	DeploymentID  int64
	UserID        *int64
	WorkDate      string // YYYY-MM-DD
	StartTime     string // HH:MM
	EndTime       string
	HoursWorked   decimal.Decimal
	Notes         string
	IsPlaceholder bool
	CreatedAt     string
}

// WorkTimer temporizador de trabajo. EndAt nil = abierto.
type WorkTimer struct {
	ID           int64
	TenantID     int64
	DeploymentID int64
	UserID       int64
	StartAt      string
	EndAt        *string
}
