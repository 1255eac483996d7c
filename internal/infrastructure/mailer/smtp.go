// Package mailer adaptadores de entrega de email: SMTP (Mailtrap y SMTP genérico)
// con go-mail y Amazon SES con aws-sdk-go-v2. Las credenciales vienen de la
// configuración de cada workspace, no del entorno.
package mailer

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	gomail "github.com/wneessen/go-mail"

	"github.com/jhoicas/kinetic/internal/application/ports"
	"github.com/jhoicas/kinetic/internal/domain/entity"
)

var _ ports.Mailer = (*SMTP)(nil)

var (
	ErrInvalidPort = errors.New("Invalid SMTP port.")
	ErrMissingHost = errors.New("SMTP host is required.")
	ErrMissingFrom = errors.New("A from address is required.")
)

// SMTP entrega por SMTP con el modo de cifrado del workspace:
// "SSL/TLS" conexión TLS implícita, "STARTTLS" upgrade obligatorio, "" sin cifrado.
type SMTP struct {
	timeout time.Duration
}

// NewSMTP crea el adaptador. timeout acota conexión y envío.
func NewSMTP(timeout time.Duration) *SMTP {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &SMTP{timeout: timeout}
}

// ClientOptions traduce la configuración del workspace a opciones de go-mail.
func (s *SMTP) ClientOptions(settings entity.EmailSettings) (string, []gomail.Option, error) {
	host := strings.TrimSpace(settings.SMTPHost)
	if host == "" {
		return "", nil, ErrMissingHost
	}
	port, err := strconv.Atoi(strings.TrimSpace(settings.SMTPPort))
	if err != nil || port <= 0 || port > 65535 {
		return "", nil, ErrInvalidPort
	}

	opts := []gomail.Option{gomail.WithPort(port), gomail.WithTimeout(s.timeout)}
	encrypted := true
	switch strings.TrimSpace(settings.SMTPEncryption) {
	case entity.SMTPEncryptionSSL:
		opts = append(opts, gomail.WithSSL())
	case entity.SMTPEncryptionNone:
		opts = append(opts, gomail.WithTLSPolicy(gomail.NoTLS))
		encrypted = false
	default:
		opts = append(opts, gomail.WithTLSPolicy(gomail.TLSMandatory))
	}

	if user := strings.TrimSpace(settings.SMTPUsername); user != "" {
		auth := gomail.SMTPAuthPlain
		if !encrypted {
			auth = gomail.SMTPAuthPlainNoEnc
		}
		opts = append(opts,
			gomail.WithSMTPAuth(auth),
			gomail.WithUsername(user),
			gomail.WithPassword(strings.TrimSpace(settings.SMTPPassword)),
		)
	}
	return host, opts, nil
}

// BuildMsg arma el mensaje HTML con remitente, destinatario y copias.
func BuildMsg(msg ports.Message) (*gomail.Msg, error) {
	if msg.From == "" {
		return nil, ErrMissingFrom
	}
	m := gomail.NewMsg()
	if msg.FromName != "" {
		if err := m.FromFormat(msg.FromName, msg.From); err != nil {
			return nil, fmt.Errorf("Invalid from address: %w", err)
		}
	} else if err := m.From(msg.From); err != nil {
		return nil, fmt.Errorf("Invalid from address: %w", err)
	}
	if err := m.To(msg.To); err != nil {
		return nil, fmt.Errorf("Invalid to address: %w", err)
	}
	if len(msg.CC) > 0 {
		if err := m.Cc(msg.CC...); err != nil {
			return nil, fmt.Errorf("Invalid CC address: %w", err)
		}
	}
	m.Subject(msg.Subject)
	m.SetBodyString(gomail.TypeTextHTML, msg.HTML)
	return m, nil
}

// Send abre una conexión por envío; los workspaces no comparten servidor.
func (s *SMTP) Send(ctx context.Context, settings entity.EmailSettings, msg ports.Message) error {
	host, opts, err := s.ClientOptions(settings)
	if err != nil {
		return err
	}
	m, err := BuildMsg(msg)
	if err != nil {
		return err
	}
	client, err := gomail.NewClient(host, opts...)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("SMTP send failed: %w", err)
	}
	return nil
}
