package billing

import (
	"context"

	"github.com/jhoicas/kinetic/internal/application/dto"
)

// EmailQueue encola el email de la factura. Lo implementa mail.MailUseCase.
type EmailQueue interface {
	QueueEmail(ctx context.Context, tenantID int64, in dto.EmailRequest) (*dto.EmailResponse, error)
}
