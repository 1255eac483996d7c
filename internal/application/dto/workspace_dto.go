package dto

import "github.com/jhoicas/kinetic/internal/domain/entity"

// WorkspaceRequest alta/edición de workspace desde el panel de administración.
type WorkspaceRequest struct {
	Slug       string `json:"slug"`
	Name       string `json:"name"`
	PlanKey    string `json:"plan_key"`
	BrandName  string `json:"brand_name"`
	BrandColor string `json:"brand_color"`
	LogoURL    string `json:"logo_url"`
}

// EmailSettingsRequest configuración de correo del workspace.
type EmailSettingsRequest struct {
	EmailProvider       string `json:"email_provider"`
	FromName            string `json:"from_name"`
	FromAddress         string `json:"from_address"`
	SMTPHost            string `json:"smtp_host"`
	SMTPPort            string `json:"smtp_port"`
	SMTPUsername        string `json:"smtp_username"`
	SMTPPassword        string `json:"smtp_password"`
	SMTPEncryption      string `json:"smtp_encryption"`
	MailgunDomain       string `json:"mailgun_domain"`
	MailgunAPIKey       string `json:"mailgun_api_key"`
	PostmarkServerToken string `json:"postmark_server_token"`
	ResendAPIKey        string `json:"resend_api_key"`
	SESAccessKey        string `json:"ses_access_key"`
	SESSecretKey        string `json:"ses_secret_key"`
	SESRegion           string `json:"ses_region"`
	SendmailPath        string `json:"sendmail_path"`
}

// Settings convierte el formulario a la entidad.
func (r EmailSettingsRequest) Settings() entity.EmailSettings {
	return entity.EmailSettings{
		EmailProvider: r.EmailProvider, FromName: r.FromName, FromAddress: r.FromAddress,
		SMTPHost: r.SMTPHost, SMTPPort: r.SMTPPort, SMTPUsername: r.SMTPUsername,
		SMTPPassword: r.SMTPPassword, SMTPEncryption: r.SMTPEncryption,
		MailgunDomain: r.MailgunDomain, MailgunAPIKey: r.MailgunAPIKey,
		PostmarkServerToken: r.PostmarkServerToken, ResendAPIKey: r.ResendAPIKey,
		SESAccessKey: r.SESAccessKey, SESSecretKey: r.SESSecretKey, SESRegion: r.SESRegion,
		SendmailPath: r.SendmailPath,
	}
}

// WorkspaceResponse workspace sin secretos de correo.
type WorkspaceResponse struct {
	ID            int64  `json:"id"`
	Slug          string `json:"slug"`
	Name          string `json:"name"`
	PlanKey       string `json:"plan_key"`
	PlanStartedAt string `json:"plan_started_at"`
	EmailProvider string `json:"email_provider"`
	FromName      string `json:"from_name"`
	FromAddress   string `json:"from_address"`
	BrandName     string `json:"brand_name"`
	BrandColor    string `json:"brand_color"`
	LogoURL       string `json:"logo_url"`
	CreatedAt     string `json:"created_at"`
}

// NewWorkspaceResponse mapea la entidad.
func NewWorkspaceResponse(t *entity.Tenant) WorkspaceResponse {
	return WorkspaceResponse{
		ID: t.ID, Slug: t.Slug, Name: t.Name, PlanKey: t.PlanKey, PlanStartedAt: t.PlanStartedAt,
		EmailProvider: t.EmailProvider, FromName: t.FromName, FromAddress: t.FromAddress,
		BrandName: t.BrandName, BrandColor: t.BrandColor, LogoURL: t.LogoURL, CreatedAt: t.CreatedAt,
	}
}
