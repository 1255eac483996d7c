package dto

import (
	"github.com/jhoicas/kinetic/internal/domain/crew"
	"github.com/jhoicas/kinetic/internal/domain/entity"
)

// CrewRequest alta/edición de equipo.
type CrewRequest struct {
	Name              string `json:"name"`
	Status            string `json:"status"`
	GearScore         int    `json:"gear_score"`
	SkillTags         string `json:"skill_tags"`
	CompatibilityTags string `json:"compatibility_tags"`
}

// CrewResponse equipo con su readiness.
type CrewResponse struct {
	ID                int64                     `json:"id"`
	Name              string                    `json:"name"`
	MembersCount      int                       `json:"members_count"`
	Status            string                    `json:"status"`
	GearScore         int                       `json:"gear_score"`
	SkillTags         string                    `json:"skill_tags"`
	CompatibilityTags string                    `json:"compatibility_tags"`
	Availability      entity.AvailabilityCounts `json:"availability"`
	Readiness         int                       `json:"readiness"`
}

// NewCrewResponse mapea la entidad; readiness la calcula el caso de uso.
func NewCrewResponse(c *entity.Crew, counts entity.AvailabilityCounts, readiness int) CrewResponse {
	return CrewResponse{
		ID: c.ID, Name: c.Name, MembersCount: c.MembersCount, Status: c.Status, GearScore: c.GearScore,
		SkillTags: c.SkillTags, CompatibilityTags: c.CompatibilityTags,
		Availability: counts, Readiness: readiness,
	}
}

// MemberRequest alta/edición de miembro; el email se copia del usuario.
type MemberRequest struct {
	UserID             int64  `json:"user_id"`
	Name               string `json:"name"`
	Phone              string `json:"phone"`
	Position           string `json:"position"`
	AvailabilityStatus string `json:"availability_status"`
}

// MemberResponse miembro de un equipo.
type MemberResponse struct {
	ID                 int64  `json:"id"`
	CrewID             int64  `json:"crew_id"`
	UserID             int64  `json:"user_id"`
	Name               string `json:"name"`
	Phone              string `json:"phone"`
	Email              string `json:"email"`
	Position           string `json:"position"`
	AvailabilityStatus string `json:"availability_status"`
}

// NewMemberResponse mapea la entidad.
func NewMemberResponse(m *entity.CrewMember) MemberResponse {
	return MemberResponse{
		ID: m.ID, CrewID: m.CrewID, UserID: m.UserID, Name: m.Name, Phone: m.Phone,
		Email: m.Email, Position: m.Position, AvailabilityStatus: m.AvailabilityStatus,
	}
}

// RecommendRequest requisitos de una asignación.
type RecommendRequest struct {
	RequiredSkills    string `json:"required_skills"`
	CompatibilityPref string `json:"compatibility_pref"`
}

// RecommendationResponse puntuación de un equipo.
type RecommendationResponse struct {
	CrewID               int64  `json:"crew_id"`
	Name                 string `json:"name"`
	Status               string `json:"status"`
	Score                int    `json:"score"`
	SkillMatches         int    `json:"skill_matches"`
	CompatibilityMatches int    `json:"compatibility_matches"`
}

// NewRecommendationResponses mapea las recomendaciones.
func NewRecommendationResponses(recs []crew.Recommendation) []RecommendationResponse {
	out := make([]RecommendationResponse, 0, len(recs))
	for _, r := range recs {
		out = append(out, RecommendationResponse(r))
	}
	return out
}

// CrewDetail ficha del equipo con sus miembros paginados.
type CrewDetail struct {
	Crew    CrewResponse               `json:"crew"`
	Members PageResult[MemberResponse] `json:"members"`
}
