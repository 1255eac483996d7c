package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jhoicas/kinetic/internal/application/dto"
	"github.com/jhoicas/kinetic/internal/domain"
	"github.com/jhoicas/kinetic/internal/domain/entity"
	"github.com/jhoicas/kinetic/internal/domain/repository"
	"github.com/jhoicas/kinetic/internal/domain/workspace"
)

const msgWorkspaceNotFound = "Workspace not found."

// WorkspaceUseCase administración de workspaces (panel de admin) y su configuración de correo.
type WorkspaceUseCase struct {
	tenants repository.TenantRepository
	plans   repository.PlanRepository
}

// NewWorkspaceUseCase construye el caso de uso.
func NewWorkspaceUseCase(tenants repository.TenantRepository, plans repository.PlanRepository) *WorkspaceUseCase {
	return &WorkspaceUseCase{tenants: tenants, plans: plans}
}

func (uc *WorkspaceUseCase) validate(ctx context.Context, in dto.WorkspaceRequest) (*entity.Tenant, error) {
	form := in
	slug, ok := workspace.NormalizeSlug(in.Slug)
	if !ok {
		return nil, domain.NewValidation("Slug must be lowercase letters, numbers, or dashes.", form)
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.NewValidation("Workspace name is required.", form)
	}
	planKey := strings.ToLower(strings.TrimSpace(in.PlanKey))
	if planKey == "" {
		planKey = workspace.PlanFree
	}
	plan, err := uc.plans.Get(ctx, planKey)
	if err != nil {
		return nil, domain.NewStorage("Unable to load plan", err, form)
	}
	if plan == nil {
		return nil, domain.NewValidation("Plan is not supported.", form)
	}
	return &entity.Tenant{
		Slug: slug, Name: name, PlanKey: planKey,
		BrandName:  strings.TrimSpace(in.BrandName),
		BrandColor: strings.TrimSpace(in.BrandColor),
		LogoURL:    strings.TrimSpace(in.LogoURL),
	}, nil
}

// Create alta de workspace. Slug duplicado es conflicto.
func (uc *WorkspaceUseCase) Create(ctx context.Context, in dto.WorkspaceRequest) (*dto.WorkspaceResponse, error) {
	t, err := uc.validate(ctx, in)
	if err != nil {
		return nil, err
	}
	if err := uc.tenants.Create(ctx, t); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.NewConflict("Workspace already exists.", in)
		}
		return nil, domain.NewStorage("Unable to create workspace", err, in)
	}
	res := dto.NewWorkspaceResponse(t)
	return &res, nil
}

// Update edita slug, nombre, plan y marca. Cambiar de plan reinicia su vigencia.
func (uc *WorkspaceUseCase) Update(ctx context.Context, id int64, in dto.WorkspaceRequest) (*dto.WorkspaceResponse, error) {
	t, err := uc.validate(ctx, in)
	if err != nil {
		return nil, err
	}
	t.ID = id
	if err := uc.tenants.Update(ctx, t); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.NewConflict("Workspace already exists.", in)
		}
		return nil, mutationError(err, "Unable to update workspace", msgWorkspaceNotFound, in)
	}
	return uc.Get(ctx, id)
}

// Get un workspace por id.
func (uc *WorkspaceUseCase) Get(ctx context.Context, id int64) (*dto.WorkspaceResponse, error) {
	t, err := uc.tenants.GetByID(ctx, id)
	if err != nil {
		return nil, domain.NewStorage("Unable to load workspace", err, nil)
	}
	if t == nil {
		return nil, domain.NewNotFound(msgWorkspaceNotFound, nil)
	}
	res := dto.NewWorkspaceResponse(t)
	return &res, nil
}

// Delete elimina el workspace con todos sus datos.
func (uc *WorkspaceUseCase) Delete(ctx context.Context, id int64) error {
	if err := uc.tenants.Delete(ctx, id); err != nil {
		return mutationError(err, "Unable to delete workspace", msgWorkspaceNotFound, nil)
	}
	return nil
}

// List workspaces paginados por nombre.
func (uc *WorkspaceUseCase) List(ctx context.Context, page int) (*dto.PageResult[dto.WorkspaceResponse], error) {
	total, err := uc.tenants.Count(ctx)
	if err != nil {
		return nil, domain.NewStorage("Unable to count workspaces", err, nil)
	}
	p := dto.NewPagination(page, total)
	list, err := uc.tenants.List(ctx, p.Limit(), p.Offset())
	if err != nil {
		return nil, domain.NewStorage("Unable to load workspaces", err, nil)
	}
	items := make([]dto.WorkspaceResponse, 0, len(list))
	for _, t := range list {
		items = append(items, dto.NewWorkspaceResponse(t))
	}
	return &dto.PageResult[dto.WorkspaceResponse]{Items: items, Page: p}, nil
}

// EmailSettings formulario de correo con secretos, solo para la pantalla de configuración.
func (uc *WorkspaceUseCase) EmailSettings(ctx context.Context, tenantID int64) (*dto.EmailSettingsRequest, error) {
	t, err := uc.tenants.GetByID(ctx, tenantID)
	if err != nil {
		return nil, domain.NewStorage("Unable to load workspace", err, nil)
	}
	if t == nil {
		return nil, domain.NewNotFound(msgWorkspaceNotFound, nil)
	}
	s := t.EmailSettings
	return &dto.EmailSettingsRequest{
		EmailProvider: s.EmailProvider, FromName: s.FromName, FromAddress: s.FromAddress,
		SMTPHost: s.SMTPHost, SMTPPort: s.SMTPPort, SMTPUsername: s.SMTPUsername,
		SMTPPassword: s.SMTPPassword, SMTPEncryption: s.SMTPEncryption,
		MailgunDomain: s.MailgunDomain, MailgunAPIKey: s.MailgunAPIKey,
		PostmarkServerToken: s.PostmarkServerToken, ResendAPIKey: s.ResendAPIKey,
		SESAccessKey: s.SESAccessKey, SESSecretKey: s.SESSecretKey, SESRegion: s.SESRegion,
		SendmailPath: s.SendmailPath,
	}, nil
}

// UpdateEmailSettings valida los campos que exige cada proveedor y guarda.
func (uc *WorkspaceUseCase) UpdateEmailSettings(ctx context.Context, tenantID int64, in dto.EmailSettingsRequest) error {
	form := in
	if strings.TrimSpace(in.EmailProvider) == "" {
		return domain.NewValidation("Email provider is required.", form)
	}
	provider := entity.NormalizeOption(in.EmailProvider, entity.EmailProviders, "")
	if provider == "" {
		return domain.NewValidation("Email provider is not supported.", form)
	}
	from := strings.TrimSpace(in.FromAddress)
	if from == "" {
		return domain.NewValidation("From address is required.", form)
	}
	if !dto.ValidEmail(from) {
		return domain.NewValidation("From address must be a valid email.", form)
	}
	if msg := missingProviderFields(provider, in); msg != "" {
		return domain.NewValidation(msg, form)
	}

	s := in.Settings()
	s.EmailProvider, s.FromAddress = provider, from
	s.FromName = strings.TrimSpace(in.FromName)
	s.SMTPEncryption = entity.NormalizeOption(in.SMTPEncryption,
		[]string{entity.SMTPEncryptionSSL, entity.SMTPEncryptionSTARTTLS}, entity.SMTPEncryptionNone)
	if err := uc.tenants.UpdateEmailSettings(ctx, tenantID, s); err != nil {
		return mutationError(err, "Unable to update email settings", msgWorkspaceNotFound, form)
	}
	return nil
}

func missingProviderFields(provider string, in dto.EmailSettingsRequest) string {
	blank := func(s string) bool { return strings.TrimSpace(s) == "" }
	switch provider {
	case entity.EmailProviderMailtrap, entity.EmailProviderSMTP:
		var missing []string
		if blank(in.SMTPHost) {
			missing = append(missing, "SMTP host")
		}
		if blank(in.SMTPPort) {
			missing = append(missing, "SMTP port")
		}
		if blank(in.SMTPUsername) {
			missing = append(missing, "SMTP username")
		}
		if blank(in.SMTPPassword) {
			missing = append(missing, "SMTP password")
		}
		if len(missing) > 0 {
			return fmt.Sprintf("Missing required fields: %s.", strings.Join(missing, ", "))
		}
	case entity.EmailProviderSES:
		if blank(in.SESAccessKey) || blank(in.SESSecretKey) || blank(in.SESRegion) {
			return "SES access key, secret key, and region are required."
		}
	case entity.EmailProviderMailgun:
		if blank(in.MailgunDomain) || blank(in.MailgunAPIKey) {
			return "Mailgun domain and API key are required."
		}
	case entity.EmailProviderPostmark:
		if blank(in.PostmarkServerToken) {
			return "Postmark server token is required."
		}
	case entity.EmailProviderResend:
		if blank(in.ResendAPIKey) {
			return "Resend API key is required."
		}
	case entity.EmailProviderSendmail:
		if blank(in.SendmailPath) {
			return "Sendmail path is required."
		}
	}
	return ""
}
