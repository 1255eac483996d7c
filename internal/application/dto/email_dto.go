package dto

import "github.com/jhoicas/kinetic/internal/domain/entity"

// EmailRequest email a encolar.
type EmailRequest struct {
	ClientID  *int64   `json:"client_id"`
	ContactID *int64   `json:"contact_id"`
	To        string   `json:"to"`
	CC        []string `json:"cc"`
	Subject   string   `json:"subject"`
	HTMLBody  string   `json:"html_body"`
}

// EmailForm lo que se devuelve para re-renderizar el formulario.
type EmailForm struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// EmailResponse registro de email saliente.
type EmailResponse struct {
	ID           int64  `json:"id"`
	ToEmail      string `json:"to_email"`
	CCEmails     string `json:"cc_emails"`
	Subject      string `json:"subject"`
	Provider     string `json:"provider"`
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message,omitempty"`
	CreatedAt    string `json:"created_at"`
}

// NewEmailResponse mapea la entidad.
func NewEmailResponse(e *entity.OutboundEmail) EmailResponse {
	return EmailResponse{
		ID: e.ID, ToEmail: e.ToEmail, CCEmails: e.CCEmails, Subject: e.Subject, Provider: e.Provider,
		Status: e.Status, ErrorMessage: e.ErrorMessage, CreatedAt: e.CreatedAt,
	}
}
