package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/jhoicas/kinetic/internal/application/dto"
	"github.com/jhoicas/kinetic/internal/application/quota"
	"github.com/jhoicas/kinetic/internal/domain"
	"github.com/jhoicas/kinetic/internal/domain/crew"
	"github.com/jhoicas/kinetic/internal/domain/entity"
	"github.com/jhoicas/kinetic/internal/domain/repository"
	"github.com/jhoicas/kinetic/internal/domain/workspace"
)

const (
	msgCrewNotFound   = "Crew not found."
	msgMemberNotFound = "Crew member not found."
)

// CrewUseCase equipos, miembros, readiness y recomendación.
type CrewUseCase struct {
	crews       repository.CrewRepository
	members     repository.CrewMemberRepository
	users       repository.UserRepository
	deployments repository.DeploymentRepository
	tx          repository.TxRunner
	gate        *quota.Gate
}

// NewCrewUseCase construye el caso de uso.
func NewCrewUseCase(
	crews repository.CrewRepository,
	members repository.CrewMemberRepository,
	users repository.UserRepository,
	deployments repository.DeploymentRepository,
	tx repository.TxRunner,
	gate *quota.Gate,
) *CrewUseCase {
	return &CrewUseCase{crews: crews, members: members, users: users, deployments: deployments, tx: tx, gate: gate}
}

func validateCrew(in dto.CrewRequest) (*entity.Crew, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.NewValidation("Crew name is required.", in)
	}
	return &entity.Crew{
		Name:              name,
		Status:            entity.NormalizeOption(in.Status, entity.CrewStatuses, entity.CrewActive),
		GearScore:         crew.ClampGear(in.GearScore),
		SkillTags:         crew.NormalizeTags(in.SkillTags),
		CompatibilityTags: crew.NormalizeTags(in.CompatibilityTags),
	}, nil
}

// CreateCrew alta de equipo con tags normalizados y gear acotado.
func (uc *CrewUseCase) CreateCrew(ctx context.Context, tenantID int64, in dto.CrewRequest) (*dto.CrewResponse, error) {
	err := uc.gate.Check(ctx, tenantID, workspace.ScopeCrews, func(ctx context.Context) (int64, error) {
		return uc.crews.Count(ctx, tenantID)
	}, in)
	if err != nil {
		return nil, err
	}
	c, err := validateCrew(in)
	if err != nil {
		return nil, err
	}
	c.TenantID = tenantID
	if err := uc.crews.Create(ctx, c); err != nil {
		return nil, domain.NewStorage("Unable to create crew", err, in)
	}
	return uc.GetCrew(ctx, tenantID, c.ID)
}

// UpdateCrew edición del equipo; members_count no se toca.
func (uc *CrewUseCase) UpdateCrew(ctx context.Context, tenantID, id int64, in dto.CrewRequest) (*dto.CrewResponse, error) {
	c, err := validateCrew(in)
	if err != nil {
		return nil, err
	}
	c.ID, c.TenantID = id, tenantID
	if err := uc.crews.Update(ctx, c); err != nil {
		return nil, mutationError(err, "Unable to update crew", msgCrewNotFound, in)
	}
	return uc.GetCrew(ctx, tenantID, id)
}

// DeleteCrew elimina el equipo y sus miembros. Con despliegues asignados es conflicto.
func (uc *CrewUseCase) DeleteCrew(ctx context.Context, tenantID, id int64) error {
	if err := uc.crews.Delete(ctx, tenantID, id); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return domain.NewConflict("Crew has deployments and cannot be deleted.", nil)
		}
		return mutationError(err, "Unable to delete crew", msgCrewNotFound, nil)
	}
	return nil
}

func (uc *CrewUseCase) crew(ctx context.Context, tenantID, id int64) (*entity.Crew, error) {
	c, err := uc.crews.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, domain.NewStorage("Unable to load crew", err, nil)
	}
	if c == nil {
		return nil, domain.NewNotFound(msgCrewNotFound, nil)
	}
	return c, nil
}

func (uc *CrewUseCase) withReadiness(ctx context.Context, c *entity.Crew, counts map[int64]entity.AvailabilityCounts) (dto.CrewResponse, error) {
	recent, err := uc.deployments.RecentStatuses(ctx, c.TenantID, c.ID, crew.RecentOutcomesWindow)
	if err != nil {
		return dto.CrewResponse{}, domain.NewStorage("Unable to load crew outcomes", err, nil)
	}
	avail := counts[c.ID]
	return dto.NewCrewResponse(c, avail, crew.Readiness(avail, c.GearScore, recent)), nil
}

// GetCrew equipo con disponibilidad y readiness.
func (uc *CrewUseCase) GetCrew(ctx context.Context, tenantID, id int64) (*dto.CrewResponse, error) {
	c, err := uc.crew(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	counts, err := uc.crews.AvailabilityCounts(ctx, tenantID)
	if err != nil {
		return nil, domain.NewStorage("Unable to load crew availability", err, nil)
	}
	res, err := uc.withReadiness(ctx, c, counts)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// ListCrews página de equipos con readiness.
func (uc *CrewUseCase) ListCrews(ctx context.Context, tenantID int64, page int) (*dto.PageResult[dto.CrewResponse], error) {
	total, err := uc.crews.Count(ctx, tenantID)
	if err != nil {
		return nil, domain.NewStorage("Unable to count crews", err, nil)
	}
	p := dto.NewPagination(page, total)
	list, err := uc.crews.ListPaged(ctx, tenantID, p.Limit(), p.Offset())
	if err != nil {
		return nil, domain.NewStorage("Unable to load crews", err, nil)
	}
	counts, err := uc.crews.AvailabilityCounts(ctx, tenantID)
	if err != nil {
		return nil, domain.NewStorage("Unable to load crew availability", err, nil)
	}
	items := make([]dto.CrewResponse, 0, len(list))
	for _, c := range list {
		res, err := uc.withReadiness(ctx, c, counts)
		if err != nil {
			return nil, err
		}
		items = append(items, res)
	}
	return &dto.PageResult[dto.CrewResponse]{Items: items, Page: p}, nil
}

// Detail ficha del equipo con miembros paginados.
func (uc *CrewUseCase) Detail(ctx context.Context, tenantID, id int64, membersPage int) (*dto.CrewDetail, error) {
	c, err := uc.GetCrew(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	members, err := uc.ListMembers(ctx, tenantID, id, membersPage)
	if err != nil {
		return nil, err
	}
	return &dto.CrewDetail{Crew: *c, Members: *members}, nil
}

// Recommend puntúa todos los equipos del workspace para los requisitos dados.
func (uc *CrewUseCase) Recommend(ctx context.Context, tenantID int64, in dto.RecommendRequest) ([]dto.RecommendationResponse, error) {
	recs, err := uc.recommend(ctx, tenantID, in.RequiredSkills, in.CompatibilityPref)
	if err != nil {
		return nil, err
	}
	return dto.NewRecommendationResponses(recs), nil
}

func (uc *CrewUseCase) recommend(ctx context.Context, tenantID int64, skills, compat string) ([]crew.Recommendation, error) {
	list, err := uc.crews.List(ctx, tenantID)
	if err != nil {
		return nil, domain.NewStorage("Unable to load crews", err, nil)
	}
	crews := make([]entity.Crew, 0, len(list))
	for _, c := range list {
		crews = append(crews, *c)
	}
	return crew.Recommend(crews, skills, compat), nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Miembros
// ──────────────────────────────────────────────────────────────────────────────

func (uc *CrewUseCase) validateMember(ctx context.Context, tenantID int64, in dto.MemberRequest) (*entity.CrewMember, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.NewValidation("Member name is required.", in)
	}
	phone := strings.TrimSpace(in.Phone)
	if phone == "" {
		return nil, domain.NewValidation("Member phone is required.", in)
	}
	if in.UserID <= 0 {
		return nil, domain.NewValidation("User account is required.", in)
	}
	user, err := uc.users.GetByID(ctx, tenantID, in.UserID)
	if err != nil {
		return nil, domain.NewStorage("Unable to load user", err, in)
	}
	if user == nil {
		return nil, domain.NewValidation(msgUserNotFound, in)
	}
	return &entity.CrewMember{
		TenantID:           tenantID,
		UserID:             user.ID,
		Name:               name,
		Phone:              phone,
		Email:              user.Email,
		Position:           strings.TrimSpace(in.Position),
		AvailabilityStatus: entity.NormalizeOption(in.AvailabilityStatus, entity.Availabilities, entity.AvailabilityAvailable),
	}, nil
}

// CreateMember alta de miembro y recálculo de members_count en la misma transacción.
func (uc *CrewUseCase) CreateMember(ctx context.Context, tenantID, crewID int64, in dto.MemberRequest) (*dto.MemberResponse, error) {
	if _, err := uc.crew(ctx, tenantID, crewID); err != nil {
		return nil, err
	}
	err := uc.gate.Check(ctx, tenantID, workspace.ScopeMembersPerCrew, func(ctx context.Context) (int64, error) {
		return uc.members.Count(ctx, tenantID, crewID)
	}, in)
	if err != nil {
		return nil, err
	}
	m, err := uc.validateMember(ctx, tenantID, in)
	if err != nil {
		return nil, err
	}
	m.CrewID = crewID
	err = uc.tx.RunInTx(ctx, func(r repository.TxRepos) error {
		if err := r.Members.Create(ctx, m); err != nil {
			return err
		}
		return r.Crews.RefreshMembersCount(ctx, tenantID, crewID)
	})
	if err != nil {
		return nil, mutationError(err, "Unable to create crew member", msgCrewNotFound, in)
	}
	res := dto.NewMemberResponse(m)
	return &res, nil
}

// UpdateMember edición; el email se vuelve a copiar del usuario.
func (uc *CrewUseCase) UpdateMember(ctx context.Context, tenantID, crewID, id int64, in dto.MemberRequest) (*dto.MemberResponse, error) {
	m, err := uc.validateMember(ctx, tenantID, in)
	if err != nil {
		return nil, err
	}
	m.ID, m.CrewID = id, crewID
	err = uc.tx.RunInTx(ctx, func(r repository.TxRepos) error {
		if err := r.Members.Update(ctx, m); err != nil {
			return err
		}
		return r.Crews.RefreshMembersCount(ctx, tenantID, crewID)
	})
	if err != nil {
		return nil, mutationError(err, "Unable to update crew member", msgMemberNotFound, in)
	}
	return uc.GetMember(ctx, tenantID, crewID, id)
}

// DeleteMember baja de miembro y recálculo de members_count.
func (uc *CrewUseCase) DeleteMember(ctx context.Context, tenantID, crewID, id int64) error {
	err := uc.tx.RunInTx(ctx, func(r repository.TxRepos) error {
		if err := r.Members.Delete(ctx, tenantID, crewID, id); err != nil {
			return err
		}
		return r.Crews.RefreshMembersCount(ctx, tenantID, crewID)
	})
	if err != nil {
		return mutationError(err, "Unable to delete crew member", msgMemberNotFound, nil)
	}
	return nil
}

// GetMember un miembro del equipo.
func (uc *CrewUseCase) GetMember(ctx context.Context, tenantID, crewID, id int64) (*dto.MemberResponse, error) {
	m, err := uc.members.GetByID(ctx, tenantID, crewID, id)
	if err != nil {
		return nil, domain.NewStorage("Unable to load crew member", err, nil)
	}
	if m == nil {
		return nil, domain.NewNotFound(msgMemberNotFound, nil)
	}
	res := dto.NewMemberResponse(m)
	return &res, nil
}

// ListMembers página de miembros del equipo.
func (uc *CrewUseCase) ListMembers(ctx context.Context, tenantID, crewID int64, page int) (*dto.PageResult[dto.MemberResponse], error) {
	total, err := uc.members.Count(ctx, tenantID, crewID)
	if err != nil {
		return nil, domain.NewStorage("Unable to count crew members", err, nil)
	}
	p := dto.NewPagination(page, total)
	list, err := uc.members.ListPaged(ctx, tenantID, crewID, p.Limit(), p.Offset())
	if err != nil {
		return nil, domain.NewStorage("Unable to load crew members", err, nil)
	}
	items := make([]dto.MemberResponse, 0, len(list))
	for _, m := range list {
		items = append(items, dto.NewMemberResponse(m))
	}
	return &dto.PageResult[dto.MemberResponse]{Items: items, Page: p}, nil
}
