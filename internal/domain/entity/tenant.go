package entity

// Proveedores de email configurables por workspace.
const (
	EmailProviderMailtrap = "Mailtrap"
	EmailProviderSES      = "Amazon SES (Simple Email Service)"
	EmailProviderMailgun  = "Mailgun"
	EmailProviderPostmark = "Postmark"
	EmailProviderResend   = "Resend"
	EmailProviderSendmail = "Sendmail"
	EmailProviderSMTP     = "SMTP"
)

// EmailProviders orden en que se ofrecen en la configuración.
var EmailProviders = []string{
	EmailProviderMailtrap, EmailProviderSES, EmailProviderMailgun, EmailProviderPostmark,
	EmailProviderResend, EmailProviderSendmail, EmailProviderSMTP,
}

// Modos de cifrado SMTP.
const (
	SMTPEncryptionSSL      = "SSL/TLS"
	SMTPEncryptionSTARTTLS = "STARTTLS"
	SMTPEncryptionNone     = ""
)

// Tenant representa un workspace: ámbito aislado de datos identificado por slug.
type Tenant struct {
	ID            int64
	Slug          string
	Name          string
	PlanKey       string
	PlanStartedAt string // YYYY-MM-DD HH:MM

	EmailSettings

	BrandName  string
	BrandColor string
	LogoURL    string
	CreatedAt  string
}

// EmailSettings credenciales de salida de correo del workspace.
type EmailSettings struct {
	EmailProvider       string
	FromName            string
	FromAddress         string
	SMTPHost            string
	SMTPPort            string
	SMTPUsername        string
	SMTPPassword        string
	SMTPEncryption      string
	MailgunDomain       string
	MailgunAPIKey       string
	PostmarkServerToken string
	ResendAPIKey        string
	SESAccessKey        string
	SESSecretKey        string
	SESRegion           string
	SendmailPath        string
}
