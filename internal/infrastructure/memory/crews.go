package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/kinetic/internal/domain"
	"github.com/jhoicas/kinetic/internal/domain/entity"
	"github.com/jhoicas/kinetic/internal/domain/repository"
)

var (
	_ repository.CrewRepository       = (*CrewRepo)(nil)
	_ repository.CrewMemberRepository = (*CrewMemberRepo)(nil)
)

// CrewRepo equipos en memoria.
type CrewRepo struct{ s *Store }

func (r *CrewRepo) Create(_ context.Context, c *entity.Crew) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c.ID = r.s.nextID("crews")
	c.CreatedAt = r.s.stamp()
	c.MembersCount = 0
	r.s.t.crews[c.ID] = *c
	return nil
}

func (r *CrewRepo) GetByID(_ context.Context, tenantID, id int64) (*entity.Crew, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.t.crews[id]
	if !ok || c.TenantID != tenantID {
		return nil, nil
	}
	return &c, nil
}

func (r *CrewRepo) List(_ context.Context, tenantID int64) ([]*entity.Crew, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return collect(r.s.t.crews, func(c entity.Crew) bool { return c.TenantID == tenantID },
		func(a, b entity.Crew) bool {
			if a.Name != b.Name {
				return a.Name < b.Name
			}
			return a.ID < b.ID
		}), nil
}

func (r *CrewRepo) ListPaged(_ context.Context, tenantID int64, limit, offset int) ([]*entity.Crew, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	list := collect(r.s.t.crews, func(c entity.Crew) bool { return c.TenantID == tenantID },
		func(a, b entity.Crew) bool { return a.ID > b.ID })
	return page(list, limit, offset), nil
}

func (r *CrewRepo) Count(_ context.Context, tenantID int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return count(r.s.t.crews, func(c entity.Crew) bool { return c.TenantID == tenantID }), nil
}

func (r *CrewRepo) Update(_ context.Context, c *entity.Crew) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.t.crews[c.ID]
	if !ok || cur.TenantID != c.TenantID {
		return fmt.Errorf("update crew: %w", domain.ErrNotFound)
	}
	cur.Name, cur.Status, cur.GearScore = c.Name, c.Status, c.GearScore
	cur.SkillTags, cur.CompatibilityTags = c.SkillTags, c.CompatibilityTags
	r.s.t.crews[c.ID] = cur
	return nil
}

func (r *CrewRepo) Delete(_ context.Context, tenantID, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.t.crews[id]
	if !ok || cur.TenantID != tenantID {
		return fmt.Errorf("delete crew: %w", domain.ErrNotFound)
	}
	for _, d := range r.s.t.deployments {
		if d.TenantID == tenantID && d.CrewID == id {
			return fmt.Errorf("delete crew: crew has deployments: %w", domain.ErrConflict)
		}
	}
	deleteWhere(r.s.t.members, func(m entity.CrewMember) bool { return m.TenantID == tenantID && m.CrewID == id })
	delete(r.s.t.crews, id)
	return nil
}

func (r *CrewRepo) RefreshMembersCount(_ context.Context, tenantID, crewID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.t.crews[crewID]
	if !ok || cur.TenantID != tenantID {
		return nil
	}
	cur.MembersCount = int(count(r.s.t.members, func(m entity.CrewMember) bool {
		return m.TenantID == tenantID && m.CrewID == crewID
	}))
	r.s.t.crews[crewID] = cur
	return nil
}

func (r *CrewRepo) AvailabilityCounts(_ context.Context, tenantID int64) (map[int64]entity.AvailabilityCounts, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make(map[int64]entity.AvailabilityCounts)
	for _, m := range r.s.t.members {
		if m.TenantID != tenantID {
			continue
		}
		c := out[m.CrewID]
		switch entity.NormalizeOption(m.AvailabilityStatus, entity.Availabilities, entity.AvailabilityUnavailable) {
		case entity.AvailabilityAvailable:
			c.Available++
		case entity.AvailabilityAway:
			c.Away++
		default:
			c.Unavailable++
		}
		out[m.CrewID] = c
	}
	return out, nil
}

// CrewMemberRepo miembros en memoria.
type CrewMemberRepo struct{ s *Store }

func (r *CrewMemberRepo) Create(_ context.Context, m *entity.CrewMember) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	crew, ok := r.s.t.crews[m.CrewID]
	if !ok || crew.TenantID != m.TenantID {
		return fmt.Errorf("insert crew member: crew %d: %w", m.CrewID, domain.ErrNotFound)
	}
	m.ID = r.s.nextID("members")
	m.CreatedAt = r.s.stamp()
	r.s.t.members[m.ID] = *m
	return nil
}

func (r *CrewMemberRepo) GetByID(_ context.Context, tenantID, crewID, id int64) (*entity.CrewMember, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.t.members[id]
	if !ok || m.TenantID != tenantID || m.CrewID != crewID {
		return nil, nil
	}
	return &m, nil
}

func (r *CrewMemberRepo) ListPaged(_ context.Context, tenantID, crewID int64, limit, offset int) ([]*entity.CrewMember, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	list := collect(r.s.t.members,
		func(m entity.CrewMember) bool { return m.TenantID == tenantID && m.CrewID == crewID },
		func(a, b entity.CrewMember) bool {
			if a.Name != b.Name {
				return a.Name < b.Name
			}
			return a.ID < b.ID
		})
	return page(list, limit, offset), nil
}

func (r *CrewMemberRepo) Count(_ context.Context, tenantID, crewID int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return count(r.s.t.members, func(m entity.CrewMember) bool {
		return m.TenantID == tenantID && m.CrewID == crewID
	}), nil
}

func (r *CrewMemberRepo) Update(_ context.Context, m *entity.CrewMember) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.t.members[m.ID]
	if !ok || cur.TenantID != m.TenantID || cur.CrewID != m.CrewID {
		return fmt.Errorf("update crew member: %w", domain.ErrNotFound)
	}
	cur.UserID, cur.Name, cur.Phone, cur.Email = m.UserID, m.Name, m.Phone, m.Email
	cur.Position, cur.AvailabilityStatus = m.Position, m.AvailabilityStatus
	r.s.t.members[m.ID] = cur
	return nil
}

func (r *CrewMemberRepo) Delete(_ context.Context, tenantID, crewID, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.t.members[id]
	if !ok || cur.TenantID != tenantID || cur.CrewID != crewID {
		return fmt.Errorf("delete crew member: %w", domain.ErrNotFound)
	}
	delete(r.s.t.members, id)
	return nil
}

func (r *CrewMemberRepo) CrewIDsByUser(_ context.Context, tenantID, userID int64) ([]int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	seen := map[int64]bool{}
	var ids []int64
	for _, m := range r.s.t.members {
		if m.TenantID == tenantID && m.UserID == userID && !seen[m.CrewID] {
			seen[m.CrewID] = true
			ids = append(ids, m.CrewID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}
