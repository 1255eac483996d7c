package repository

import (
	"context"

	"github.com/jhoicas/kinetic/internal/domain/entity"
)

// CrewRepository equipos del workspace.
type CrewRepository interface {
	Create(ctx context.Context, c *entity.Crew) error
	GetByID(ctx context.Context, tenantID, id int64) (*entity.Crew, error)
	List(ctx context.Context, tenantID int64) ([]*entity.Crew, error)
	ListPaged(ctx context.Context, tenantID int64, limit, offset int) ([]*entity.Crew, error)
	Count(ctx context.Context, tenantID int64) (int64, error)
	Update(ctx context.Context, c *entity.Crew) error
	Delete(ctx context.Context, tenantID, id int64) error
	// RefreshMembersCount reescribe members_count con el COUNT real.
	RefreshMembersCount(ctx context.Context, tenantID, crewID int64) error
	AvailabilityCounts(ctx context.Context, tenantID int64) (map[int64]entity.AvailabilityCounts, error)
}

// CrewMemberRepository miembros de un equipo.
type CrewMemberRepository interface {
	Create(ctx context.Context, m *entity.CrewMember) error
	GetByID(ctx context.Context, tenantID, crewID, id int64) (*entity.CrewMember, error)
	ListPaged(ctx context.Context, tenantID, crewID int64, limit, offset int) ([]*entity.CrewMember, error)
	Count(ctx context.Context, tenantID, crewID int64) (int64, error)
	Update(ctx context.Context, m *entity.CrewMember) error
	Delete(ctx context.Context, tenantID, crewID, id int64) error
	// CrewIDsByUser equipos donde el usuario figura como miembro.
	CrewIDsByUser(ctx context.Context, tenantID, userID int64) ([]int64, error)
}
