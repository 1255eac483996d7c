package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/kinetic/internal/domain/entity"
	"github.com/jhoicas/kinetic/internal/domain/repository"
)

var _ repository.EmailRepository = (*EmailRepo)(nil)

// EmailRepo registros de outbound_emails.
type EmailRepo struct {
	q Querier
}

// NewEmailRepository construye el adaptador de emails salientes.
func NewEmailRepository(q Querier) *EmailRepo {
	return &EmailRepo{q: q}
}

const emailColumns = `id, tenant_id, client_id, contact_id, to_email, cc_emails, subject, html_body, provider, status, error_message, created_at`

func scanEmail(row pgx.Row) (*entity.OutboundEmail, error) {
	var e entity.OutboundEmail
	err := row.Scan(&e.ID, &e.TenantID, &e.ClientID, &e.ContactID, &e.ToEmail, &e.CCEmails, &e.Subject,
		&e.HTMLBody, &e.Provider, &e.Status, &e.ErrorMessage, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func collectEmails(rows pgx.Rows) ([]*entity.OutboundEmail, error) {
	defer rows.Close()
	var list []*entity.OutboundEmail
	for rows.Next() {
		e, err := scanEmail(rows)
		if err != nil {
			return nil, fmt.Errorf("scan email: %w", err)
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

// Create persiste el registro.
func (r *EmailRepo) Create(ctx context.Context, e *entity.OutboundEmail) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO outbound_emails (tenant_id, client_id, contact_id, to_email, cc_emails, subject, html_body,
			provider, status, error_message)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at`,
		e.TenantID, e.ClientID, e.ContactID, e.ToEmail, e.CCEmails, e.Subject, e.HTMLBody,
		e.Provider, e.Status, e.ErrorMessage,
	).Scan(&e.ID, &e.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert email: %w", err)
	}
	return nil
}

// UpdateStatus marca el resultado del envío.
func (r *EmailRepo) UpdateStatus(ctx context.Context, id int64, status, errorMessage string) error {
	tag, err := r.q.Exec(ctx, `UPDATE outbound_emails SET status = $2, error_message = $3 WHERE id = $1`,
		id, status, errorMessage)
	if err != nil {
		return fmt.Errorf("update email status: %w", err)
	}
	return mustAffect(tag, "update email status")
}

// GetByID obtiene un email del workspace.
func (r *EmailRepo) GetByID(ctx context.Context, tenantID, id int64) (*entity.OutboundEmail, error) {
	e, err := scanEmail(r.q.QueryRow(ctx, `SELECT `+emailColumns+` FROM outbound_emails
		WHERE tenant_id = $1 AND id = $2`, tenantID, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get email: %w", err)
	}
	return e, nil
}

// ListByTenant historial de emails, más recientes primero.
func (r *EmailRepo) ListByTenant(ctx context.Context, tenantID int64, limit, offset int) ([]*entity.OutboundEmail, error) {
	rows, err := r.q.Query(ctx, `SELECT `+emailColumns+` FROM outbound_emails
		WHERE tenant_id = $1 ORDER BY id DESC LIMIT $2 OFFSET $3`, tenantID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list emails: %w", err)
	}
	return collectEmails(rows)
}

// CountByStatus emails del workspace en un estado.
func (r *EmailRepo) CountByStatus(ctx context.Context, tenantID int64, status string) (int64, error) {
	var n int64
	err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM outbound_emails WHERE tenant_id = $1 AND status = $2`,
		tenantID, status).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count emails: %w", err)
	}
	return n, nil
}

// ListQueued emails en cola, más antiguos primero, de proveedores drenables.
func (r *EmailRepo) ListQueued(ctx context.Context, providers []string, limit int) ([]*entity.OutboundEmail, error) {
	rows, err := r.q.Query(ctx, `SELECT `+emailColumns+` FROM outbound_emails
		WHERE status = 'Queued' AND provider = ANY($1) ORDER BY id LIMIT $2`, providers, limit)
	if err != nil {
		return nil, fmt.Errorf("list queued emails: %w", err)
	}
	return collectEmails(rows)
}
