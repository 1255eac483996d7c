package crew

import (
	"sort"
	"strings"

	"github.com/jhoicas/kinetic/internal/domain/entity"
)

// RecentOutcomesWindow cantidad de despliegues recientes que pesan en el readiness.
const RecentOutcomesWindow = 5

const emptyOutcomeScore = 70

var outcomeWeights = map[string]int{
	strings.ToLower(entity.DeploymentCompleted): 100,
	strings.ToLower(entity.DeploymentActive):    70,
	strings.ToLower(entity.DeploymentScheduled): 60,
	strings.ToLower(entity.DeploymentCancelled): 0,
}

// AvailabilityScore (disponibles*100 + ausentes*50) / total, 0 sin miembros.
func AvailabilityScore(c entity.AvailabilityCounts) int {
	total := c.Total()
	if total == 0 {
		return 0
	}
	return clamp((c.Available*100+c.Away*50)/total, 0, 100)
}

// OutcomeScore promedio de pesos por estado de los despliegues recientes; 70 si no hay historial.
func OutcomeScore(statuses []string) int {
	if len(statuses) == 0 {
		return emptyOutcomeScore
	}
	sum := 0
	for _, s := range statuses {
		w, ok := outcomeWeights[strings.ToLower(strings.TrimSpace(s))]
		if !ok {
			w = 50
		}
		sum += w
	}
	return sum / len(statuses)
}

// Readiness combina disponibilidad (45%), gear (25%) y resultados recientes (30%).
func Readiness(counts entity.AvailabilityCounts, gearScore int, recentStatuses []string) int {
	if len(recentStatuses) > RecentOutcomesWindow {
		recentStatuses = recentStatuses[:RecentOutcomesWindow]
	}
	availability := AvailabilityScore(counts)
	outcome := OutcomeScore(recentStatuses)
	gear := ClampGear(gearScore)
	return clamp((availability*45+gear*25+outcome*30)/100, 0, 100)
}

// Recommendation puntuación de un equipo para una asignación.
type Recommendation struct {
	CrewID               int64
	Name                 string
	Status               string
	Score                int
	SkillMatches         int
	CompatibilityMatches int
}

func statusBonus(status string) int {
	switch entity.NormalizeOption(status, entity.CrewStatuses, "") {
	case entity.CrewActive:
		return 2
	case entity.CrewIdle:
		return 1
	case entity.CrewOnLeave:
		return -1
	}
	return 0
}

// Recommend puntúa todos los equipos: 4·skills + 2·compatibilidad + bonus de estado +
// bonus de gear (gear/20 en [0,5]). Orden: score desc, nombre asc.
func Recommend(crews []entity.Crew, requiredSkills, compatibilityPref string) []Recommendation {
	required := NewTagSet(requiredSkills)
	preferred := NewTagSet(compatibilityPref)

	out := make([]Recommendation, 0, len(crews))
	for _, c := range crews {
		skills := NewTagSet(c.SkillTags).Intersect(required)
		compat := NewTagSet(c.CompatibilityTags).Intersect(preferred)
		gearBonus := clamp(c.GearScore/20, 0, 5)
		out = append(out, Recommendation{
			CrewID:               c.ID,
			Name:                 c.Name,
			Status:               c.Status,
			Score:                4*skills + 2*compat + statusBonus(c.Status) + gearBonus,
			SkillMatches:         skills,
			CompatibilityMatches: compat,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// TopPositive las primeras n recomendaciones con score > 0. Sin requisitos no se recomienda nada.
func TopPositive(recs []Recommendation, requiredSkills, compatibilityPref string, n int) []Recommendation {
	if strings.TrimSpace(requiredSkills) == "" && strings.TrimSpace(compatibilityPref) == "" {
		return nil
	}
	out := make([]Recommendation, 0, n)
	for _, r := range recs {
		if len(out) == n {
			break
		}
		if r.Score > 0 {
			out = append(out, r)
		}
	}
	return out
}
