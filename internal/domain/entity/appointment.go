package entity

// Estados de una cita.
const (
	AppointmentScheduled = "Scheduled"
	AppointmentConfirmed = "Confirmed"
	AppointmentAttended  = "Attended"
	AppointmentCancelled = "Cancelled"
	AppointmentNoShow    = "No-Show"
)

// AppointmentStatuses opciones válidas.
var AppointmentStatuses = []string{
	AppointmentScheduled, AppointmentConfirmed, AppointmentAttended, AppointmentCancelled, AppointmentNoShow,
}

// Appointment cita con un contacto de un cliente.
type Appointment struct {
	ID           int64
	TenantID     int64
	ClientID     int64
	ContactID    int64
	Title        string
	ScheduledFor string // YYYY-MM-DD HH:MM
	Status       string
	Notes        string
	ContactName  string // solo lectura (JOIN)
	CreatedAt    string
}
