package dto

import "github.com/jhoicas/kinetic/internal/domain/entity"

// ClientRequest alta/edición de cliente.
type ClientRequest struct {
	CompanyName string   `json:"company_name"`
	Address     string   `json:"address"`
	Phone       string   `json:"phone"`
	Email       string   `json:"email"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	Stage       string   `json:"stage"`
	Currency    string   `json:"currency"`
}

// ClientResponse cliente visible.
type ClientResponse struct {
	ID          int64    `json:"id"`
	CompanyName string   `json:"company_name"`
	Address     string   `json:"address"`
	Phone       string   `json:"phone"`
	Email       string   `json:"email"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	Stage       string   `json:"stage"`
	Currency    string   `json:"currency"`
	CreatedAt   string   `json:"created_at"`
}

// NewClientResponse mapea la entidad.
func NewClientResponse(c *entity.Client) ClientResponse {
	return ClientResponse{
		ID: c.ID, CompanyName: c.CompanyName, Address: c.Address, Phone: c.Phone, Email: c.Email,
		Latitude: c.Latitude, Longitude: c.Longitude, Stage: c.Stage, Currency: c.Currency, CreatedAt: c.CreatedAt,
	}
}

// ContactRequest alta/edición de contacto.
type ContactRequest struct {
	Name       string `json:"name"`
	Address    string `json:"address"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Department string `json:"department"`
	Position   string `json:"position"`
}

// ContactResponse contacto visible.
type ContactResponse struct {
	ID         int64  `json:"id"`
	ClientID   int64  `json:"client_id"`
	Name       string `json:"name"`
	Address    string `json:"address"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Department string `json:"department"`
	Position   string `json:"position"`
}

// NewContactResponse mapea la entidad.
func NewContactResponse(c *entity.ClientContact) ContactResponse {
	return ContactResponse{
		ID: c.ID, ClientID: c.ClientID, Name: c.Name, Address: c.Address, Email: c.Email,
		Phone: c.Phone, Department: c.Department, Position: c.Position,
	}
}

// AppointmentRequest alta/edición de cita.
type AppointmentRequest struct {
	ContactID    int64  `json:"contact_id"`
	Title        string `json:"title"`
	ScheduledFor string `json:"scheduled_for"`
	Status       string `json:"status"`
	Notes        string `json:"notes"`
}

// AppointmentResponse cita con el nombre del contacto.
type AppointmentResponse struct {
	ID           int64  `json:"id"`
	ClientID     int64  `json:"client_id"`
	ContactID    int64  `json:"contact_id"`
	ContactName  string `json:"contact_name"`
	Title        string `json:"title"`
	ScheduledFor string `json:"scheduled_for"`
	Status       string `json:"status"`
	Notes        string `json:"notes"`
}

// NewAppointmentResponse mapea la entidad.
func NewAppointmentResponse(a *entity.Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID: a.ID, ClientID: a.ClientID, ContactID: a.ContactID, ContactName: a.ContactName,
		Title: a.Title, ScheduledFor: a.ScheduledFor, Status: a.Status, Notes: a.Notes,
	}
}

// ClientDetail ficha del cliente con contactos y citas paginados por separado.
type ClientDetail struct {
	Client       ClientResponse                  `json:"client"`
	Contacts     PageResult[ContactResponse]     `json:"contacts"`
	Appointments PageResult[AppointmentResponse] `json:"appointments"`
}
