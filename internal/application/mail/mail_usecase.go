// Package mail encola emails salientes y los despacha: Mailtrap en el momento,
// SMTP y SES desde el worker de drenado. El resto de proveedores queda en cola.
package mail

import (
	"context"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/jhoicas/kinetic/internal/application/dto"
	"github.com/jhoicas/kinetic/internal/application/ports"
	"github.com/jhoicas/kinetic/internal/domain"
	"github.com/jhoicas/kinetic/internal/domain/entity"
	"github.com/jhoicas/kinetic/internal/domain/repository"
)

// Mailers adaptadores de entrega por proveedor (entity.EmailProvider*).
type Mailers map[string]ports.Mailer

// MailUseCase cola de emails salientes.
type MailUseCase struct {
	emails   repository.EmailRepository
	tenants  repository.TenantRepository
	clients  repository.ClientRepository
	contacts repository.ContactRepository
	mailers  Mailers
	metrics  ports.Metrics
}

// NewMailUseCase construye el caso de uso. Un proveedor sin adaptador en mailers
// nunca sale de la cola.
func NewMailUseCase(
	emails repository.EmailRepository,
	tenants repository.TenantRepository,
	clients repository.ClientRepository,
	contacts repository.ContactRepository,
	mailers Mailers,
	metrics ports.Metrics,
) *MailUseCase {
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	if mailers == nil {
		mailers = Mailers{}
	}
	return &MailUseCase{emails: emails, tenants: tenants, clients: clients, contacts: contacts, mailers: mailers, metrics: metrics}
}

// DrainProviders proveedores que despacha el worker: todos los que tienen
// adaptador salvo Mailtrap, que se envía al encolar.
func (uc *MailUseCase) DrainProviders() []string {
	out := make([]string, 0, len(uc.mailers))
	for provider := range uc.mailers {
		if provider != entity.EmailProviderMailtrap {
			out = append(out, provider)
		}
	}
	sort.Strings(out)
	return out
}

// QueueEmail registra el email en cola. Con Mailtrap lo envía en la misma petición
// y deja el registro en Sent o Failed.
func (uc *MailUseCase) QueueEmail(ctx context.Context, tenantID int64, in dto.EmailRequest) (*dto.EmailResponse, error) {
	subject := strings.TrimSpace(in.Subject)
	body := strings.TrimSpace(in.HTMLBody)
	form := dto.EmailForm{Subject: subject, Body: body}
	if subject == "" {
		return nil, domain.NewValidation("Email subject is required.", dto.EmailForm{Body: in.HTMLBody})
	}
	if body == "" {
		return nil, domain.NewValidation("Email body is required.", dto.EmailForm{Subject: subject})
	}
	to := strings.TrimSpace(in.To)
	if to == "" {
		return nil, domain.NewValidation("Recipient email is required.", form)
	}
	if !dto.ValidEmail(to) {
		return nil, domain.NewValidation("Recipient email must be a valid address.", form)
	}

	tenant, err := uc.tenants.GetByID(ctx, tenantID)
	if err != nil || tenant == nil {
		return nil, domain.NewNotFound("Workspace not found.", form)
	}

	if err := uc.checkRecipients(ctx, tenantID, in, form); err != nil {
		return nil, err
	}

	cc := make([]string, 0, len(in.CC))
	for _, addr := range in.CC {
		if addr = strings.TrimSpace(addr); addr != "" {
			cc = append(cc, addr)
		}
	}

	rec := &entity.OutboundEmail{
		TenantID:  tenantID,
		ClientID:  in.ClientID,
		ContactID: in.ContactID,
		ToEmail:   to,
		CCEmails:  strings.Join(cc, ", "),
		Subject:   subject,
		HTMLBody:  body,
		Provider:  tenant.EmailProvider,
		Status:    entity.EmailQueued,
	}
	if err := uc.emails.Create(ctx, rec); err != nil {
		return nil, domain.NewStorage("Unable to queue email", err, form)
	}

	if rec.Provider == entity.EmailProviderMailtrap {
		if mailer, ok := uc.mailers[rec.Provider]; ok {
			if err := uc.dispatch(ctx, mailer, tenant, rec); err != nil {
				return nil, domain.NewTransport("Unable to send email via Mailtrap", err, form)
			}
		}
	}
	resp := dto.NewEmailResponse(rec)
	return &resp, nil
}

// checkRecipients exige que el cliente y el contacto referenciados sean visibles
// en el workspace. Un contacto sin cliente no se acepta.
func (uc *MailUseCase) checkRecipients(ctx context.Context, tenantID int64, in dto.EmailRequest, form dto.EmailForm) error {
	if in.ClientID != nil {
		c, err := uc.clients.GetByID(ctx, tenantID, *in.ClientID)
		if err != nil {
			return domain.NewStorage("Unable to load client", err, form)
		}
		if c == nil {
			return domain.NewValidation("Selected client was not found.", form)
		}
	}
	if in.ContactID != nil {
		if in.ClientID == nil {
			return domain.NewValidation("Selected contact was not found.", form)
		}
		c, err := uc.contacts.GetByID(ctx, tenantID, *in.ClientID, *in.ContactID)
		if err != nil {
			return domain.NewStorage("Unable to load contact", err, form)
		}
		if c == nil {
			return domain.NewValidation("Selected contact was not found.", form)
		}
	}
	return nil
}

// dispatch entrega el registro y persiste el resultado. Un fallo al guardar el
// estado solo se registra: el email ya salió o ya falló.
func (uc *MailUseCase) dispatch(ctx context.Context, mailer ports.Mailer, tenant *entity.Tenant, rec *entity.OutboundEmail) error {
	sendErr := mailer.Send(ctx, tenant.EmailSettings, MessageFor(tenant.EmailSettings, rec))
	status, errMsg := entity.EmailSent, ""
	if sendErr != nil {
		status, errMsg = entity.EmailFailed, sendErr.Error()
	}
	if err := uc.emails.UpdateStatus(ctx, rec.ID, status, errMsg); err != nil {
		log.Error().Err(err).Int64("tenant_id", rec.TenantID).Int64("email_id", rec.ID).
			Str("status", status).Msg("[MAIL] no se pudo guardar el estado del email")
	}
	rec.Status, rec.ErrorMessage = status, errMsg
	uc.metrics.EmailDispatched(rec.Provider, status)
	return sendErr
}

// MessageFor arma el mensaje a partir del registro y la configuración del workspace.
func MessageFor(settings entity.EmailSettings, rec *entity.OutboundEmail) ports.Message {
	return ports.Message{
		FromName: strings.TrimSpace(settings.FromName),
		From:     strings.TrimSpace(settings.FromAddress),
		To:       rec.ToEmail,
		CC:       dto.SplitList(rec.CCEmails),
		Subject:  rec.Subject,
		HTML:     rec.HTMLBody,
	}
}

// DrainQueued envía hasta limit emails en cola de los proveedores con adaptador.
// Devuelve cuántos quedaron en Sent; los fallos quedan en Failed con su mensaje.
func (uc *MailUseCase) DrainQueued(ctx context.Context, limit int) (int, error) {
	providers := uc.DrainProviders()
	if len(providers) == 0 {
		return 0, nil
	}
	queued, err := uc.emails.ListQueued(ctx, providers, limit)
	if err != nil {
		return 0, domain.NewStorage("Unable to load queued emails", err, nil)
	}

	tenants := make(map[int64]*entity.Tenant)
	sent := 0
	for _, rec := range queued {
		if ctx.Err() != nil {
			return sent, ctx.Err()
		}
		tenant, ok := tenants[rec.TenantID]
		if !ok {
			tenant, err = uc.tenants.GetByID(ctx, rec.TenantID)
			if err != nil {
				return sent, domain.NewStorage("Unable to load workspace", err, nil)
			}
			tenants[rec.TenantID] = tenant
		}
		if tenant == nil {
			_ = uc.emails.UpdateStatus(ctx, rec.ID, entity.EmailFailed, "Workspace not found.")
			continue
		}
		if err := uc.dispatch(ctx, uc.mailers[rec.Provider], tenant, rec); err != nil {
			log.Warn().Err(err).Int64("tenant_id", rec.TenantID).Int64("email_id", rec.ID).
				Str("provider", rec.Provider).Msg("[MAIL] envío fallido")
			continue
		}
		sent++
	}
	return sent, nil
}

// ListEmails historial de emails del workspace, más recientes primero.
func (uc *MailUseCase) ListEmails(ctx context.Context, tenantID int64, page int) (*dto.PageResult[dto.EmailResponse], error) {
	var total int64
	for _, status := range []string{entity.EmailQueued, entity.EmailSent, entity.EmailFailed} {
		n, err := uc.emails.CountByStatus(ctx, tenantID, status)
		if err != nil {
			return nil, domain.NewStorage("Unable to count emails", err, nil)
		}
		total += n
	}
	p := dto.NewPagination(page, total)
	list, err := uc.emails.ListByTenant(ctx, tenantID, p.Limit(), p.Offset())
	if err != nil {
		return nil, domain.NewStorage("Unable to load emails", err, nil)
	}
	items := make([]dto.EmailResponse, 0, len(list))
	for _, e := range list {
		items = append(items, dto.NewEmailResponse(e))
	}
	return &dto.PageResult[dto.EmailResponse]{Items: items, Page: p}, nil
}

// GetEmail registro individual.
func (uc *MailUseCase) GetEmail(ctx context.Context, tenantID, id int64) (*dto.EmailResponse, error) {
	e, err := uc.emails.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, domain.NewStorage("Unable to load email", err, nil)
	}
	if e == nil {
		return nil, domain.NewNotFound("Email not found.", nil)
	}
	resp := dto.NewEmailResponse(e)
	return &resp, nil
}
