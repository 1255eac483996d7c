// Package ports define los puertos de salida de la capa de aplicación. Los
// adaptadores de infraestructura (SMTP, SES, Redis, PDF, Prometheus) los implementan.
package ports

import (
	"context"
	"time"

	"github.com/jhoicas/kinetic/internal/application/dto"
	"github.com/jhoicas/kinetic/internal/domain/entity"
)

// Message email listo para entregar.
type Message struct {
	FromName string
	From     string
	To       string
	CC       []string
	Subject  string
	HTML     string
}

// Mailer entrega un mensaje con la configuración de correo del workspace.
// Un error de entrega marca el registro como Failed.
type Mailer interface {
	Send(ctx context.Context, settings entity.EmailSettings, msg Message) error
}

// SessionRevoker lista de tokens revocados (logout) indexada por jti.
type SessionRevoker interface {
	Revoke(ctx context.Context, jti string, until time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// InvoicePDFGenerator genera la representación PDF de una factura.
type InvoicePDFGenerator interface {
	Generate(ctx context.Context, doc dto.InvoiceDocument) ([]byte, error)
}

// Metrics contadores de negocio.
type Metrics interface {
	InvoiceCreated()
	EmailDispatched(provider, status string)
	TimersClosed(reason string, n int)
	PermissionsMaterialized(role string)
}

// NopMetrics descarta todas las mediciones.
type NopMetrics struct{}

func (NopMetrics) InvoiceCreated()                  {}
func (NopMetrics) EmailDispatched(_, _ string)      {}
func (NopMetrics) TimersClosed(_ string, _ int)     {}
func (NopMetrics) PermissionsMaterialized(_ string) {}
