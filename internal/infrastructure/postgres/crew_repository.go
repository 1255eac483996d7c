package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/kinetic/internal/domain"
	"github.com/jhoicas/kinetic/internal/domain/entity"
	"github.com/jhoicas/kinetic/internal/domain/repository"
)

var _ repository.CrewRepository = (*CrewRepo)(nil)

// CrewRepo equipos sobre PostgreSQL.
type CrewRepo struct {
	q Querier
}

// NewCrewRepository construye el adaptador de equipos.
func NewCrewRepository(q Querier) *CrewRepo {
	return &CrewRepo{q: q}
}

const crewColumns = `id, tenant_id, name, members_count, status, gear_score, skill_tags, compatibility_tags, created_at`

func scanCrew(row pgx.Row) (*entity.Crew, error) {
	var c entity.Crew
	err := row.Scan(&c.ID, &c.TenantID, &c.Name, &c.MembersCount, &c.Status, &c.GearScore,
		&c.SkillTags, &c.CompatibilityTags, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func collectCrews(rows pgx.Rows) ([]*entity.Crew, error) {
	defer rows.Close()
	var list []*entity.Crew
	for rows.Next() {
		c, err := scanCrew(rows)
		if err != nil {
			return nil, fmt.Errorf("scan crew: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// Create persiste un equipo sin miembros.
func (r *CrewRepo) Create(ctx context.Context, c *entity.Crew) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO crews (tenant_id, name, members_count, status, gear_score, skill_tags, compatibility_tags)
		VALUES ($1, $2, 0, $3, $4, $5, $6)
		RETURNING id, created_at`,
		c.TenantID, c.Name, c.Status, c.GearScore, c.SkillTags, c.CompatibilityTags,
	).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert crew: %w", err)
	}
	c.MembersCount = 0
	return nil
}

// GetByID obtiene un equipo del workspace.
func (r *CrewRepo) GetByID(ctx context.Context, tenantID, id int64) (*entity.Crew, error) {
	c, err := scanCrew(r.q.QueryRow(ctx, `SELECT `+crewColumns+` FROM crews WHERE tenant_id = $1 AND id = $2`, tenantID, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get crew: %w", err)
	}
	return c, nil
}

// List todos los equipos por nombre.
func (r *CrewRepo) List(ctx context.Context, tenantID int64) ([]*entity.Crew, error) {
	rows, err := r.q.Query(ctx, `SELECT `+crewColumns+` FROM crews WHERE tenant_id = $1 ORDER BY name, id`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list crews: %w", err)
	}
	return collectCrews(rows)
}

// ListPaged equipos más recientes primero.
func (r *CrewRepo) ListPaged(ctx context.Context, tenantID int64, limit, offset int) ([]*entity.Crew, error) {
	rows, err := r.q.Query(ctx, `SELECT `+crewColumns+` FROM crews WHERE tenant_id = $1
		ORDER BY id DESC LIMIT $2 OFFSET $3`, tenantID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list crews: %w", err)
	}
	return collectCrews(rows)
}

// Count equipos del workspace.
func (r *CrewRepo) Count(ctx context.Context, tenantID int64) (int64, error) {
	var n int64
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM crews WHERE tenant_id = $1`, tenantID).Scan(&n); err != nil {
		return 0, fmt.Errorf("count crews: %w", err)
	}
	return n, nil
}

// Update actualiza datos del equipo. members_count no se toca aquí.
func (r *CrewRepo) Update(ctx context.Context, c *entity.Crew) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE crews SET name = $3, status = $4, gear_score = $5, skill_tags = $6, compatibility_tags = $7
		WHERE tenant_id = $1 AND id = $2`,
		c.TenantID, c.ID, c.Name, c.Status, c.GearScore, c.SkillTags, c.CompatibilityTags)
	if err != nil {
		return fmt.Errorf("update crew: %w", err)
	}
	return mustAffect(tag, "update crew")
}

// Delete borra el equipo; sus miembros caen por cascada.
func (r *CrewRepo) Delete(ctx context.Context, tenantID, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM crews WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	if isForeignKeyViolation(err) {
		return fmt.Errorf("delete crew: crew has deployments: %w", domain.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("delete crew: %w", err)
	}
	return mustAffect(tag, "delete crew")
}

// RefreshMembersCount reescribe members_count desde crew_members.
func (r *CrewRepo) RefreshMembersCount(ctx context.Context, tenantID, crewID int64) error {
	_, err := r.q.Exec(ctx, `
		UPDATE crews SET members_count = (
			SELECT COUNT(*) FROM crew_members WHERE tenant_id = $1 AND crew_id = $2
		) WHERE tenant_id = $1 AND id = $2`, tenantID, crewID)
	if err != nil {
		return fmt.Errorf("refresh members count: %w", err)
	}
	return nil
}

// AvailabilityCounts miembros por disponibilidad agrupados por equipo.
func (r *CrewRepo) AvailabilityCounts(ctx context.Context, tenantID int64) (map[int64]entity.AvailabilityCounts, error) {
	rows, err := r.q.Query(ctx, `
		SELECT crew_id, availability_status, COUNT(*)
		FROM crew_members WHERE tenant_id = $1
		GROUP BY crew_id, availability_status`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("availability counts: %w", err)
	}
	defer rows.Close()
	out := make(map[int64]entity.AvailabilityCounts)
	for rows.Next() {
		var (
			crewID int64
			status string
			n      int
		)
		if err := rows.Scan(&crewID, &status, &n); err != nil {
			return nil, fmt.Errorf("scan availability: %w", err)
		}
		c := out[crewID]
		switch entity.NormalizeOption(status, entity.Availabilities, entity.AvailabilityUnavailable) {
		case entity.AvailabilityAvailable:
			c.Available += n
		case entity.AvailabilityAway:
			c.Away += n
		default:
			c.Unavailable += n
		}
		out[crewID] = c
	}
	return out, rows.Err()
}

var _ repository.CrewMemberRepository = (*CrewMemberRepo)(nil)

// CrewMemberRepo miembros de equipos.
type CrewMemberRepo struct {
	q Querier
}

// NewCrewMemberRepository construye el adaptador de miembros.
func NewCrewMemberRepository(q Querier) *CrewMemberRepo {
	return &CrewMemberRepo{q: q}
}

const memberColumns = `id, crew_id, tenant_id, user_id, name, phone, email, position, availability_status, created_at`

func scanMember(row pgx.Row) (*entity.CrewMember, error) {
	var m entity.CrewMember
	err := row.Scan(&m.ID, &m.CrewID, &m.TenantID, &m.UserID, &m.Name, &m.Phone, &m.Email,
		&m.Position, &m.AvailabilityStatus, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Create persiste un miembro.
func (r *CrewMemberRepo) Create(ctx context.Context, m *entity.CrewMember) error {
	err := r.q.QueryRow(ctx, `
		INSERT INTO crew_members (crew_id, tenant_id, user_id, name, phone, email, position, availability_status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`,
		m.CrewID, m.TenantID, m.UserID, m.Name, m.Phone, m.Email, m.Position, m.AvailabilityStatus,
	).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert crew member: %w", err)
	}
	return nil
}

// GetByID obtiene un miembro del equipo.
func (r *CrewMemberRepo) GetByID(ctx context.Context, tenantID, crewID, id int64) (*entity.CrewMember, error) {
	m, err := scanMember(r.q.QueryRow(ctx, `SELECT `+memberColumns+` FROM crew_members
		WHERE tenant_id = $1 AND crew_id = $2 AND id = $3`, tenantID, crewID, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get crew member: %w", err)
	}
	return m, nil
}

// ListPaged miembros del equipo por nombre.
func (r *CrewMemberRepo) ListPaged(ctx context.Context, tenantID, crewID int64, limit, offset int) ([]*entity.CrewMember, error) {
	rows, err := r.q.Query(ctx, `SELECT `+memberColumns+` FROM crew_members
		WHERE tenant_id = $1 AND crew_id = $2 ORDER BY name, id LIMIT $3 OFFSET $4`, tenantID, crewID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list crew members: %w", err)
	}
	defer rows.Close()
	var list []*entity.CrewMember
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("scan crew member: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// Count miembros del equipo.
func (r *CrewMemberRepo) Count(ctx context.Context, tenantID, crewID int64) (int64, error) {
	var n int64
	err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM crew_members WHERE tenant_id = $1 AND crew_id = $2`,
		tenantID, crewID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count crew members: %w", err)
	}
	return n, nil
}

// Update actualiza un miembro.
func (r *CrewMemberRepo) Update(ctx context.Context, m *entity.CrewMember) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE crew_members SET user_id = $4, name = $5, phone = $6, email = $7, position = $8, availability_status = $9
		WHERE tenant_id = $1 AND crew_id = $2 AND id = $3`,
		m.TenantID, m.CrewID, m.ID, m.UserID, m.Name, m.Phone, m.Email, m.Position, m.AvailabilityStatus)
	if err != nil {
		return fmt.Errorf("update crew member: %w", err)
	}
	return mustAffect(tag, "update crew member")
}

// Delete borra un miembro.
func (r *CrewMemberRepo) Delete(ctx context.Context, tenantID, crewID, id int64) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM crew_members WHERE tenant_id = $1 AND crew_id = $2 AND id = $3`,
		tenantID, crewID, id)
	if err != nil {
		return fmt.Errorf("delete crew member: %w", err)
	}
	return mustAffect(tag, "delete crew member")
}

// CrewIDsByUser equipos donde el usuario figura como miembro.
func (r *CrewMemberRepo) CrewIDsByUser(ctx context.Context, tenantID, userID int64) ([]int64, error) {
	rows, err := r.q.Query(ctx, `
		SELECT DISTINCT crew_id FROM crew_members WHERE tenant_id = $1 AND user_id = $2 ORDER BY crew_id`,
		tenantID, userID)
	if err != nil {
		return nil, fmt.Errorf("crews by user: %w", err)
	}
	defer rows.Close()
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan crew id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
