package entity

// Estados de un email saliente.
const (
	EmailQueued = "Queued"
	EmailSent   = "Sent"
	EmailFailed = "Failed"
)

// OutboundEmail registro de un email saliente.
type OutboundEmail struct {
	ID           int64
	TenantID     int64
	ClientID     *int64
	ContactID    *int64
	ToEmail      string
	CCEmails     string // separados por coma
	Subject      string
	HTMLBody     string
	Provider     string
	Status       string
	ErrorMessage string
	CreatedAt    string
}
