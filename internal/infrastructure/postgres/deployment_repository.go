package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/kinetic/internal/domain"
	"github.com/jhoicas/kinetic/internal/domain/entity"
	"github.com/jhoicas/kinetic/internal/domain/repository"
)

var _ repository.DeploymentRepository = (*DeploymentRepo)(nil)

// DeploymentRepo despliegues sobre PostgreSQL.
type DeploymentRepo struct {
	q Querier
}

// NewDeploymentRepository construye el adaptador de despliegues.
func NewDeploymentRepository(q Querier) *DeploymentRepo {
	return &DeploymentRepo{q: q}
}

const deploymentSelect = `
	SELECT d.id, d.tenant_id, d.client_id, d.crew_id, d.start_at, d.end_at, d.fee_per_hour, d.info, d.status,
		d.deployment_type, d.required_skills, d.compatibility_pref, d.created_at,
		COALESCE(c.company_name, ''), COALESCE(cr.name, '')
	FROM deployments d
	LEFT JOIN clients c ON c.id = d.client_id AND c.tenant_id = d.tenant_id
	LEFT JOIN crews cr ON cr.id = d.crew_id AND cr.tenant_id = d.tenant_id`

func scanDeployment(row pgx.Row) (*entity.Deployment, error) {
	var d entity.Deployment
	err := row.Scan(&d.ID, &d.TenantID, &d.ClientID, &d.CrewID, &d.StartAt, &d.EndAt, &d.FeePerHour, &d.Info,
		&d.Status, &d.DeploymentType, &d.RequiredSkills, &d.CompatibilityPref, &d.CreatedAt,
		&d.ClientName, &d.CrewName)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func collectDeployments(rows pgx.Rows) ([]*entity.Deployment, error) {
	defer rows.Close()
	var list []*entity.Deployment
	for rows.Next() {
		d, err := scanDeployment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan deployment: %w", err)
		}
		list = append(list, d)
	}
	return list, rows.Err()
}

// Create persiste un despliegue.
func (r *DeploymentRepo) Create(ctx context.Context, d *entity.Deployment) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO deployments (tenant_id, client_id, crew_id, start_at, end_at, fee_per_hour, info, status,
			deployment_type, required_skills, compatibility_pref)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at`,
		d.TenantID, d.ClientID, d.CrewID, d.StartAt, d.EndAt, d.FeePerHour, d.Info, d.Status,
		d.DeploymentType, d.RequiredSkills, d.CompatibilityPref,
	).Scan(&d.ID, &d.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert deployment: %w", err)
	}
	return nil
}

// GetByID obtiene un despliegue con nombres de cliente y equipo.
func (r *DeploymentRepo) GetByID(ctx context.Context, tenantID, id int64) (*entity.Deployment, error) {
	d, err := scanDeployment(r.q.QueryRow(ctx, deploymentSelect+` WHERE d.tenant_id = $1 AND d.id = $2`, tenantID, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get deployment: %w", err)
	}
	return d, nil
}

// List despliegues del workspace, los más próximos primero.
func (r *DeploymentRepo) List(ctx context.Context, tenantID int64) ([]*entity.Deployment, error) {
	rows, err := r.q.Query(ctx, deploymentSelect+` WHERE d.tenant_id = $1 ORDER BY d.start_at DESC, d.id DESC`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list deployments: %w", err)
	}
	return collectDeployments(rows)
}

// Update actualiza un despliegue.
func (r *DeploymentRepo) Update(ctx context.Context, d *entity.Deployment) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE deployments SET client_id = $3, crew_id = $4, start_at = $5, end_at = $6, fee_per_hour = $7,
			info = $8, status = $9, deployment_type = $10, required_skills = $11, compatibility_pref = $12
		WHERE tenant_id = $1 AND id = $2`,
		d.TenantID, d.ID, d.ClientID, d.CrewID, d.StartAt, d.EndAt, d.FeePerHour, d.Info, d.Status,
		d.DeploymentType, d.RequiredSkills, d.CompatibilityPref)
	if err != nil {
		return fmt.Errorf("update deployment: %w", err)
	}
	return mustAffect(tag, "update deployment")
}

// Delete borra el despliegue; jornadas, facturas y temporizadores caen por cascada.
func (r *DeploymentRepo) Delete(ctx context.Context, tenantID, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM deployments WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	if err != nil {
		return fmt.Errorf("delete deployment: %w", err)
	}
	return mustAffect(tag, "delete deployment")
}

// CountByClient despliegues del cliente.
func (r *DeploymentRepo) CountByClient(ctx context.Context, tenantID, clientID int64) (int64, error) {
	var n int64
	err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM deployments WHERE tenant_id = $1 AND client_id = $2`,
		tenantID, clientID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count deployments: %w", err)
	}
	return n, nil
}

// RecentStatuses estados de los últimos despliegues del equipo por fecha de inicio.
func (r *DeploymentRepo) RecentStatuses(ctx context.Context, tenantID, crewID int64, limit int) ([]string, error) {
	rows, err := r.q.Query(ctx, `
		SELECT status FROM deployments WHERE tenant_id = $1 AND crew_id = $2
		ORDER BY start_at DESC, id DESC LIMIT $3`, tenantID, crewID, limit)
	if err != nil {
		return nil, fmt.Errorf("recent statuses: %w", err)
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("scan status: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

var _ repository.DeploymentUpdateRepository = (*DeploymentUpdateRepo)(nil)

// DeploymentUpdateRepo jornadas de trabajo.
type DeploymentUpdateRepo struct {
	q Querier
}

// NewDeploymentUpdateRepository construye el adaptador de jornadas.
func NewDeploymentUpdateRepository(q Querier) *DeploymentUpdateRepo {
	return &DeploymentUpdateRepo{q: q}
}

const updateColumns = `id, tenant_id, deployment_id, user_id, work_date, start_time, end_time, hours_worked, notes, is_placeholder, created_at`

func scanUpdate(row pgx.Row) (*entity.DeploymentUpdate, error) {
	var (
		u           entity.DeploymentUpdate
		placeholder int16
	)
	err := row.Scan(&u.ID, &u.TenantID, &u.DeploymentID, &u.UserID, &u.WorkDate, &u.StartTime, &u.EndTime,
		&u.HoursWorked, &u.Notes, &placeholder, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	u.IsPlaceholder = boolFromInt(placeholder)
	return &u, nil
}

// Create persiste una jornada.
func (r *DeploymentUpdateRepo) Create(ctx context.Context, u *entity.DeploymentUpdate) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO deployment_updates (tenant_id, deployment_id, user_id, work_date, start_time, end_time,
			hours_worked, notes, is_placeholder)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`,
		u.TenantID, u.DeploymentID, u.UserID, u.WorkDate, u.StartTime, u.EndTime,
		u.HoursWorked, u.Notes, entity.BoolInt(u.IsPlaceholder),
	).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert deployment update: %w", err)
	}
	return nil
}

// GetByID obtiene una jornada del workspace.
func (r *DeploymentUpdateRepo) GetByID(ctx context.Context, tenantID, id int64) (*entity.DeploymentUpdate, error) {
	u, err := scanUpdate(r.q.QueryRow(ctx, `SELECT `+updateColumns+` FROM deployment_updates
		WHERE tenant_id = $1 AND id = $2`, tenantID, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get deployment update: %w", err)
	}
	return u, nil
}

// GetByDate jornada del despliegue para la fecha.
func (r *DeploymentUpdateRepo) GetByDate(ctx context.Context, tenantID, deploymentID int64, workDate string) (*entity.DeploymentUpdate, error) {
	u, err := scanUpdate(r.q.QueryRow(ctx, `SELECT `+updateColumns+` FROM deployment_updates
		WHERE tenant_id = $1 AND deployment_id = $2 AND work_date = $3`, tenantID, deploymentID, workDate))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get deployment update by date: %w", err)
	}
	return u, nil
}

// ListByDeployment jornadas ordenadas por fecha.
func (r *DeploymentUpdateRepo) ListByDeployment(ctx context.Context, tenantID, deploymentID int64) ([]*entity.DeploymentUpdate, error) {
	rows, err := r.q.Query(ctx, `SELECT `+updateColumns+` FROM deployment_updates
		WHERE tenant_id = $1 AND deployment_id = $2 ORDER BY work_date, id`, tenantID, deploymentID)
	if err != nil {
		return nil, fmt.Errorf("list deployment updates: %w", err)
	}
	defer rows.Close()
	var list []*entity.DeploymentUpdate
	for rows.Next() {
		u, err := scanUpdate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan deployment update: %w", err)
		}
		list = append(list, u)
	}
	return list, rows.Err()
}

// Update reescribe una jornada.
func (r *DeploymentUpdateRepo) Update(ctx context.Context, u *entity.DeploymentUpdate) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE deployment_updates SET user_id = $3, work_date = $4, start_time = $5, end_time = $6,
			hours_worked = $7, notes = $8, is_placeholder = $9
		WHERE tenant_id = $1 AND id = $2`,
		u.TenantID, u.ID, u.UserID, u.WorkDate, u.StartTime, u.EndTime, u.HoursWorked, u.Notes,
		entity.BoolInt(u.IsPlaceholder))
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update deployment update: %w", err)
	}
	return mustAffect(tag, "update deployment update")
}

// Delete borra una jornada.
func (r *DeploymentUpdateRepo) Delete(ctx context.Context, tenantID, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM deployment_updates WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	if err != nil {
		return fmt.Errorf("delete deployment update: %w", err)
	}
	return mustAffect(tag, "delete deployment update")
}

// TotalHours suma de horas del despliegue.
func (r *DeploymentUpdateRepo) TotalHours(ctx context.Context, tenantID, deploymentID int64) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.q.QueryRow(ctx, `SELECT COALESCE(SUM(hours_worked), 0) FROM deployment_updates
		WHERE tenant_id = $1 AND deployment_id = $2`, tenantID, deploymentID).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("total hours: %w", err)
	}
	return total, nil
}

var _ repository.WorkTimerRepository = (*WorkTimerRepo)(nil)

// WorkTimerRepo temporizadores de trabajo. El índice parcial ux_work_timers_open
// garantiza un solo temporizador abierto por usuario.
type WorkTimerRepo struct {
	q Querier
}

// NewWorkTimerRepository construye el adaptador de temporizadores.
func NewWorkTimerRepository(q Querier) *WorkTimerRepo {
	return &WorkTimerRepo{q: q}
}

// FindActive temporizador abierto del usuario.
func (r *WorkTimerRepo) FindActive(ctx context.Context, tenantID, userID int64) (*entity.WorkTimer, error) {
	var t entity.WorkTimer
	err := r.q.QueryRow(ctx, `
		SELECT id, tenant_id, deployment_id, user_id, start_at, end_at
		FROM work_timers WHERE tenant_id = $1 AND user_id = $2 AND end_at IS NULL
		ORDER BY id DESC LIMIT 1`, tenantID, userID,
	).Scan(&t.ID, &t.TenantID, &t.DeploymentID, &t.UserID, &t.StartAt, &t.EndAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("find active timer: %w", err)
	}
	return &t, nil
}

// Create abre un temporizador.
func (r *WorkTimerRepo) Create(ctx context.Context, t *entity.WorkTimer) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO work_timers (tenant_id, deployment_id, user_id, start_at)
		VALUES ($1, $2, $3, $4) RETURNING id`,
		t.TenantID, t.DeploymentID, t.UserID, t.StartAt,
	).Scan(&t.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert work timer: %w", err)
	}
	return nil
}

// Stop cierra el temporizador solo si sigue abierto.
func (r *WorkTimerRepo) Stop(ctx context.Context, tenantID, id int64, endAt string) error {
	tag, err := r.q.Exec(ctx, `UPDATE work_timers SET end_at = $3
		WHERE tenant_id = $1 AND id = $2 AND end_at IS NULL`, tenantID, id, endAt)
	if err != nil {
		return fmt.Errorf("stop work timer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("stop work timer: %w", domain.ErrConflict)
	}
	return nil
}

// ListStale temporizadores abiertos de cualquier workspace iniciados antes de cutoff.
func (r *WorkTimerRepo) ListStale(ctx context.Context, cutoff string) ([]*entity.WorkTimer, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, tenant_id, deployment_id, user_id, start_at, end_at
		FROM work_timers WHERE end_at IS NULL AND start_at <= $1 ORDER BY id`, cutoff)
	if err != nil {
		return nil, fmt.Errorf("list stale timers: %w", err)
	}
	defer rows.Close()
	var list []*entity.WorkTimer
	for rows.Next() {
		var t entity.WorkTimer
		if err := rows.Scan(&t.ID, &t.TenantID, &t.DeploymentID, &t.UserID, &t.StartAt, &t.EndAt); err != nil {
			return nil, fmt.Errorf("scan work timer: %w", err)
		}
		list = append(list, &t)
	}
	return list, rows.Err()
}
