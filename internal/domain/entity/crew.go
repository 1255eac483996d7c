package entity

// Estados de un equipo.
const (
	CrewActive  = "Active"
	CrewIdle    = "Idle"
	CrewOnLeave = "On Leave"
)

// CrewStatuses opciones válidas.
var CrewStatuses = []string{CrewActive, CrewIdle, CrewOnLeave}

// Disponibilidad de un miembro.
const (
	AvailabilityAvailable   = "Available"
	AvailabilityAway        = "Away"
	AvailabilityUnavailable = "Unavailable"
)

// Availabilities opciones válidas.
var Availabilities = []string{AvailabilityAvailable, AvailabilityAway, AvailabilityUnavailable}

// Crew equipo de campo. MembersCount está desnormalizado y se recalcula en cada
// cambio de miembros. Los tags se guardan normalizados ("a, b, c").
type Crew struct {
	ID                int64
	TenantID          int64
	Name              string
	MembersCount      int
	Status            string
	GearScore         int
	SkillTags         string
	CompatibilityTags string
	CreatedAt         string
}

// CrewMember miembro de un equipo ligado a un usuario del mismo workspace.
type CrewMember struct {
	ID                 int64
	CrewID             int64
	TenantID           int64
	UserID             int64
	Name               string
	Phone              string
	Email              string // copiado del usuario al escribir
	Position           string
	AvailabilityStatus string
	CreatedAt          string
}

// AvailabilityCounts miembros por disponibilidad.
type AvailabilityCounts struct {
	Available   int
	Away        int
	Unavailable int
}

// Total suma de miembros.
func (a AvailabilityCounts) Total() int { return a.Available + a.Away + a.Unavailable }
