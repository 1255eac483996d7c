package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/kinetic/internal/domain"
	"github.com/jhoicas/kinetic/internal/domain/entity"
	"github.com/jhoicas/kinetic/internal/domain/repository"
)

var _ repository.TenantRepository = (*TenantRepo)(nil)

// TenantRepo implementación del puerto TenantRepository sobre PostgreSQL.
type TenantRepo struct {
	q Querier
}

// NewTenantRepository construye el adaptador de persistencia para workspaces.
func NewTenantRepository(q Querier) *TenantRepo {
	return &TenantRepo{q: q}
}

const tenantColumns = `id, slug, name, plan_key, plan_started_at,
	email_provider, email_from_name, email_from_address,
	smtp_host, smtp_port, smtp_username, smtp_password, smtp_encryption,
	mailgun_domain, mailgun_api_key, postmark_server_token, resend_api_key,
	ses_access_key, ses_secret_key, ses_region, sendmail_path,
	brand_name, brand_color, logo_url, created_at`

func scanTenant(row pgx.Row) (*entity.Tenant, error) {
	var t entity.Tenant
	s := &t.EmailSettings
	err := row.Scan(
		&t.ID, &t.Slug, &t.Name, &t.PlanKey, &t.PlanStartedAt,
		&s.EmailProvider, &s.FromName, &s.FromAddress,
		&s.SMTPHost, &s.SMTPPort, &s.SMTPUsername, &s.SMTPPassword, &s.SMTPEncryption,
		&s.MailgunDomain, &s.MailgunAPIKey, &s.PostmarkServerToken, &s.ResendAPIKey,
		&s.SESAccessKey, &s.SESSecretKey, &s.SESRegion, &s.SendmailPath,
		&t.BrandName, &t.BrandColor, &t.LogoURL, &t.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Create persiste un nuevo workspace. El proveedor de email arranca en Mailtrap si viene vacío.
func (r *TenantRepo) Create(ctx context.Context, t *entity.Tenant) error {
	if t.EmailProvider == "" {
		t.EmailProvider = entity.EmailProviderMailtrap
	}
	query := `
		INSERT INTO tenants (slug, name, plan_key, plan_started_at, email_provider, brand_name)
		VALUES ($1, $2, $3, COALESCE(NULLIF($4, ''), to_char(now(), 'YYYY-MM-DD HH24:MI')), $5, COALESCE(NULLIF($6, ''), 'Kinetic'))
		RETURNING id, plan_started_at, brand_name, created_at`
	err := r.q.QueryRow(ctx, query, t.Slug, t.Name, t.PlanKey, t.PlanStartedAt, t.EmailProvider, t.BrandName).
		Scan(&t.ID, &t.PlanStartedAt, &t.BrandName, &t.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert tenant: %w", err)
	}
	return nil
}

// GetByID obtiene un workspace por ID.
func (r *TenantRepo) GetByID(ctx context.Context, id int64) (*entity.Tenant, error) {
	t, err := scanTenant(r.q.QueryRow(ctx, `SELECT `+tenantColumns+` FROM tenants WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get tenant: %w", err)
	}
	return t, nil
}

// GetBySlug obtiene un workspace por slug.
func (r *TenantRepo) GetBySlug(ctx context.Context, slug string) (*entity.Tenant, error) {
	t, err := scanTenant(r.q.QueryRow(ctx, `SELECT `+tenantColumns+` FROM tenants WHERE slug = $1`, slug))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get tenant by slug: %w", err)
	}
	return t, nil
}

// List lista workspaces por nombre.
func (r *TenantRepo) List(ctx context.Context, limit, offset int) ([]*entity.Tenant, error) {
	rows, err := r.q.Query(ctx, `SELECT `+tenantColumns+` FROM tenants ORDER BY name, id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list tenants: %w", err)
	}
	defer rows.Close()
	var list []*entity.Tenant
	for rows.Next() {
		t, err := scanTenant(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tenant: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

// Count total de workspaces.
func (r *TenantRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM tenants`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count tenants: %w", err)
	}
	return n, nil
}

// Update actualiza slug, nombre, plan y marca. Cambiar de plan reinicia plan_started_at.
func (r *TenantRepo) Update(ctx context.Context, t *entity.Tenant) error {
	query := `
		UPDATE tenants SET slug = $2, name = $3,
			plan_started_at = CASE WHEN plan_key <> $4 THEN to_char(now(), 'YYYY-MM-DD HH24:MI') ELSE plan_started_at END,
			plan_key = $4, brand_name = $5, brand_color = $6, logo_url = $7
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, t.ID, t.Slug, t.Name, t.PlanKey, t.BrandName, t.BrandColor, t.LogoURL)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update tenant: %w", err)
	}
	return mustAffect(tag, "update tenant")
}

// UpdateEmailSettings reemplaza la configuración de salida de correo.
func (r *TenantRepo) UpdateEmailSettings(ctx context.Context, id int64, s entity.EmailSettings) error {
	query := `
		UPDATE tenants SET email_provider = $2, email_from_name = $3, email_from_address = $4,
			smtp_host = $5, smtp_port = $6, smtp_username = $7, smtp_password = $8, smtp_encryption = $9,
			mailgun_domain = $10, mailgun_api_key = $11, postmark_server_token = $12, resend_api_key = $13,
			ses_access_key = $14, ses_secret_key = $15, ses_region = $16, sendmail_path = $17
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, id,
		s.EmailProvider, s.FromName, s.FromAddress,
		s.SMTPHost, s.SMTPPort, s.SMTPUsername, s.SMTPPassword, s.SMTPEncryption,
		s.MailgunDomain, s.MailgunAPIKey, s.PostmarkServerToken, s.ResendAPIKey,
		s.SESAccessKey, s.SESSecretKey, s.SESRegion, s.SendmailPath,
	)
	if err != nil {
		return fmt.Errorf("update email settings: %w", err)
	}
	return mustAffect(tag, "update email settings")
}

// Delete elimina el workspace; las filas dependientes caen por cascada.
func (r *TenantRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM tenants WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete tenant: %w", err)
	}
	return mustAffect(tag, "delete tenant")
}
