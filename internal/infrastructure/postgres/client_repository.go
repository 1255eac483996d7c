package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/kinetic/internal/domain"
	"github.com/jhoicas/kinetic/internal/domain/entity"
	"github.com/jhoicas/kinetic/internal/domain/repository"
)

var _ repository.ClientRepository = (*ClientRepo)(nil)

// ClientRepo clientes sobre PostgreSQL. Toda lectura filtra is_deleted = 0.
type ClientRepo struct {
	q Querier
}

// NewClientRepository construye el adaptador. Pasar pool o tx (Querier).
func NewClientRepository(q Querier) *ClientRepo {
	return &ClientRepo{q: q}
}

const clientColumns = `id, tenant_id, company_name, address, phone, email, latitude, longitude, stage, currency, is_deleted, created_at`

func scanClient(row pgx.Row) (*entity.Client, error) {
	var (
		c       entity.Client
		deleted int16
	)
	err := row.Scan(&c.ID, &c.TenantID, &c.CompanyName, &c.Address, &c.Phone, &c.Email,
		&c.Latitude, &c.Longitude, &c.Stage, &c.Currency, &deleted, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	c.IsDeleted = boolFromInt(deleted)
	return &c, nil
}

func collectClients(rows pgx.Rows) ([]*entity.Client, error) {
	defer rows.Close()
	var list []*entity.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// Create persiste un nuevo cliente.
func (r *ClientRepo) Create(ctx context.Context, c *entity.Client) error {
	query := `
		INSERT INTO clients (tenant_id, company_name, address, phone, email, latitude, longitude, stage, currency)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`
	err := r.q.QueryRow(ctx, query, c.TenantID, c.CompanyName, c.Address, c.Phone, c.Email,
		c.Latitude, c.Longitude, c.Stage, c.Currency).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert client: %w", err)
	}
	return nil
}

// GetByID obtiene un cliente visible del workspace.
func (r *ClientRepo) GetByID(ctx context.Context, tenantID, id int64) (*entity.Client, error) {
	c, err := scanClient(r.q.QueryRow(ctx,
		`SELECT `+clientColumns+` FROM clients WHERE tenant_id = $1 AND id = $2 AND is_deleted = 0`, tenantID, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get client: %w", err)
	}
	return c, nil
}

// ListPaged lista clientes visibles, más recientes primero.
func (r *ClientRepo) ListPaged(ctx context.Context, tenantID int64, limit, offset int) ([]*entity.Client, error) {
	rows, err := r.q.Query(ctx, `SELECT `+clientColumns+` FROM clients
		WHERE tenant_id = $1 AND is_deleted = 0 ORDER BY id DESC LIMIT $2 OFFSET $3`, tenantID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	return collectClients(rows)
}

// ListAll todos los clientes visibles por nombre (selectores de formularios).
func (r *ClientRepo) ListAll(ctx context.Context, tenantID int64) ([]*entity.Client, error) {
	rows, err := r.q.Query(ctx, `SELECT `+clientColumns+` FROM clients
		WHERE tenant_id = $1 AND is_deleted = 0 ORDER BY company_name, id`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	return collectClients(rows)
}

// Count clientes visibles.
func (r *ClientRepo) Count(ctx context.Context, tenantID int64) (int64, error) {
	var n int64
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM clients WHERE tenant_id = $1 AND is_deleted = 0`, tenantID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count clients: %w", err)
	}
	return n, nil
}

// Update actualiza un cliente visible.
func (r *ClientRepo) Update(ctx context.Context, c *entity.Client) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE clients SET company_name = $3, address = $4, phone = $5, email = $6,
			latitude = $7, longitude = $8, stage = $9, currency = $10
		WHERE tenant_id = $1 AND id = $2 AND is_deleted = 0`,
		c.TenantID, c.ID, c.CompanyName, c.Address, c.Phone, c.Email, c.Latitude, c.Longitude, c.Stage, c.Currency)
	if err != nil {
		return fmt.Errorf("update client: %w", err)
	}
	return mustAffect(tag, "update client")
}

// SoftDelete marca is_deleted. Los contactos se marcan aparte, en la misma tx.
func (r *ClientRepo) SoftDelete(ctx context.Context, tenantID, id int64) error {
	tag, err := r.q.Exec(ctx, `UPDATE clients SET is_deleted = 1 WHERE tenant_id = $1 AND id = $2 AND is_deleted = 0`, tenantID, id)
	if err != nil {
		return fmt.Errorf("soft delete client: %w", err)
	}
	return mustAffect(tag, "soft delete client")
}

var _ repository.ContactRepository = (*ContactRepo)(nil)

// ContactRepo contactos de clientes. Toda lectura filtra is_rogue = 0.
type ContactRepo struct {
	q Querier
}

// NewContactRepository construye el adaptador de contactos.
func NewContactRepository(q Querier) *ContactRepo {
	return &ContactRepo{q: q}
}

const contactColumns = `id, client_id, tenant_id, name, address, email, phone, department, position, is_rogue, created_at`

func scanContact(row pgx.Row) (*entity.ClientContact, error) {
	var (
		c     entity.ClientContact
		rogue int16
	)
	err := row.Scan(&c.ID, &c.ClientID, &c.TenantID, &c.Name, &c.Address, &c.Email, &c.Phone,
		&c.Department, &c.Position, &rogue, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	c.IsRogue = boolFromInt(rogue)
	return &c, nil
}

// Create persiste un contacto.
func (r *ContactRepo) Create(ctx context.Context, c *entity.ClientContact) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO client_contacts (client_id, tenant_id, name, address, email, phone, department, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`,
		c.ClientID, c.TenantID, c.Name, c.Address, c.Email, c.Phone, c.Department, c.Position,
	).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert contact: %w", err)
	}
	return nil
}

// GetByID obtiene un contacto visible del cliente.
func (r *ContactRepo) GetByID(ctx context.Context, tenantID, clientID, id int64) (*entity.ClientContact, error) {
	c, err := scanContact(r.q.QueryRow(ctx, `SELECT `+contactColumns+` FROM client_contacts
		WHERE tenant_id = $1 AND client_id = $2 AND id = $3 AND is_rogue = 0`, tenantID, clientID, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get contact: %w", err)
	}
	return c, nil
}

// ListPaged contactos visibles del cliente.
func (r *ContactRepo) ListPaged(ctx context.Context, tenantID, clientID int64, limit, offset int) ([]*entity.ClientContact, error) {
	rows, err := r.q.Query(ctx, `SELECT `+contactColumns+` FROM client_contacts
		WHERE tenant_id = $1 AND client_id = $2 AND is_rogue = 0
		ORDER BY id DESC LIMIT $3 OFFSET $4`, tenantID, clientID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()
	var list []*entity.ClientContact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// Count contactos visibles del cliente.
func (r *ContactRepo) Count(ctx context.Context, tenantID, clientID int64) (int64, error) {
	var n int64
	err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM client_contacts
		WHERE tenant_id = $1 AND client_id = $2 AND is_rogue = 0`, tenantID, clientID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count contacts: %w", err)
	}
	return n, nil
}

// Update actualiza un contacto visible.
func (r *ContactRepo) Update(ctx context.Context, c *entity.ClientContact) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE client_contacts SET name = $4, address = $5, email = $6, phone = $7, department = $8, position = $9
		WHERE tenant_id = $1 AND client_id = $2 AND id = $3 AND is_rogue = 0`,
		c.TenantID, c.ClientID, c.ID, c.Name, c.Address, c.Email, c.Phone, c.Department, c.Position)
	if err != nil {
		return fmt.Errorf("update contact: %w", err)
	}
	return mustAffect(tag, "update contact")
}

// Delete borra un contacto visible; sus citas caen por cascada.
// Un contacto oculto no se toca y devuelve ErrNotFound.
func (r *ContactRepo) Delete(ctx context.Context, tenantID, clientID, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM client_contacts WHERE tenant_id = $1 AND client_id = $2 AND id = $3 AND is_rogue = 0`,
		tenantID, clientID, id)
	if isForeignKeyViolation(err) {
		return fmt.Errorf("delete contact: contact has emails: %w", domain.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}
	return mustAffect(tag, "delete contact")
}

// MarkRogueByClient oculta todos los contactos del cliente.
func (r *ContactRepo) MarkRogueByClient(ctx context.Context, tenantID, clientID int64) error {
	if _, err := r.q.Exec(ctx, `UPDATE client_contacts SET is_rogue = 1 WHERE tenant_id = $1 AND client_id = $2`,
		tenantID, clientID); err != nil {
		return fmt.Errorf("mark contacts rogue: %w", err)
	}
	return nil
}
