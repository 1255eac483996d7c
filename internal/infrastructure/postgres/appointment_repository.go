package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/kinetic/internal/domain/entity"
	"github.com/jhoicas/kinetic/internal/domain/repository"
)

var _ repository.AppointmentRepository = (*AppointmentRepo)(nil)

// AppointmentRepo citas sobre PostgreSQL, con el nombre del contacto por JOIN.
type AppointmentRepo struct {
	q Querier
}

// NewAppointmentRepository construye el adaptador de citas.
func NewAppointmentRepository(q Querier) *AppointmentRepo {
	return &AppointmentRepo{q: q}
}

const appointmentSelect = `
	SELECT a.id, a.tenant_id, a.client_id, a.contact_id, a.title, a.scheduled_for, a.status, a.notes,
		COALESCE(cc.name, ''), a.created_at
	FROM appointments a
	LEFT JOIN client_contacts cc ON cc.id = a.contact_id AND cc.tenant_id = a.tenant_id`

func scanAppointment(row pgx.Row) (*entity.Appointment, error) {
	var a entity.Appointment
	err := row.Scan(&a.ID, &a.TenantID, &a.ClientID, &a.ContactID, &a.Title, &a.ScheduledFor,
		&a.Status, &a.Notes, &a.ContactName, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Create persiste una cita.
func (r *AppointmentRepo) Create(ctx context.Context, a *entity.Appointment) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO appointments (tenant_id, client_id, contact_id, title, scheduled_for, status, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`,
		a.TenantID, a.ClientID, a.ContactID, a.Title, a.ScheduledFor, a.Status, a.Notes,
	).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert appointment: %w", err)
	}
	return nil
}

// GetByID obtiene una cita del cliente.
func (r *AppointmentRepo) GetByID(ctx context.Context, tenantID, clientID, id int64) (*entity.Appointment, error) {
	a, err := scanAppointment(r.q.QueryRow(ctx, appointmentSelect+`
		WHERE a.tenant_id = $1 AND a.client_id = $2 AND a.id = $3`, tenantID, clientID, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get appointment: %w", err)
	}
	return a, nil
}

// ListPaged citas del cliente, próximas primero.
func (r *AppointmentRepo) ListPaged(ctx context.Context, tenantID, clientID int64, limit, offset int) ([]*entity.Appointment, error) {
	rows, err := r.q.Query(ctx, appointmentSelect+`
		WHERE a.tenant_id = $1 AND a.client_id = $2
		ORDER BY a.scheduled_for DESC, a.id DESC LIMIT $3 OFFSET $4`, tenantID, clientID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	defer rows.Close()
	var list []*entity.Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan appointment: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

// Count citas del cliente.
func (r *AppointmentRepo) Count(ctx context.Context, tenantID, clientID int64) (int64, error) {
	var n int64
	err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM appointments WHERE tenant_id = $1 AND client_id = $2`,
		tenantID, clientID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count appointments: %w", err)
	}
	return n, nil
}

// Update actualiza una cita.
func (r *AppointmentRepo) Update(ctx context.Context, a *entity.Appointment) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE appointments SET contact_id = $4, title = $5, scheduled_for = $6, status = $7, notes = $8
		WHERE tenant_id = $1 AND client_id = $2 AND id = $3`,
		a.TenantID, a.ClientID, a.ID, a.ContactID, a.Title, a.ScheduledFor, a.Status, a.Notes)
	if err != nil {
		return fmt.Errorf("update appointment: %w", err)
	}
	return mustAffect(tag, "update appointment")
}

// Delete borra una cita.
func (r *AppointmentRepo) Delete(ctx context.Context, tenantID, clientID, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM appointments WHERE tenant_id = $1 AND client_id = $2 AND id = $3`,
		tenantID, clientID, id)
	if err != nil {
		return fmt.Errorf("delete appointment: %w", err)
	}
	return mustAffect(tag, "delete appointment")
}
