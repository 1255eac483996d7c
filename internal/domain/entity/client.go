package entity

// Etapas comerciales del cliente.
const (
	StageProposal    = "Proposal"
	StageNegotiation = "Negotiation"
	StageClosed      = "Closed"
)

// ClientStages opciones válidas.
var ClientStages = []string{StageProposal, StageNegotiation, StageClosed}

// Client empresa cliente dentro de un workspace. Con IsDeleted queda invisible.
type Client struct {
	ID          int64
	TenantID    int64
	CompanyName string
	Address     string
	Phone       string
	Email       string
	Latitude    *float64
	Longitude   *float64
	Stage       string
	Currency    string
	IsDeleted   bool
	CreatedAt   string
}

// ClientContact persona de contacto de un cliente. IsRogue se activa al borrar el cliente.
type ClientContact struct {
	ID         int64
	ClientID   int64
	TenantID   int64
	Name       string
	Address    string
	Email      string
	Phone      string
	Department string
	Position   string
	IsRogue    bool
	CreatedAt  string
}
