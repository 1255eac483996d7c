package crew_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kinetic/internal/domain/crew"
	"github.com/jhoicas/kinetic/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Tags
// ──────────────────────────────────────────────────────────────────────────────

func TestNormalizeTags(t *testing.T) {
	cases := map[string]string{
		"":                           "",
		" , ,":                       "",
		"Rigging, sound":             "rigging, sound",
		"rigging,RIGGING , Sound,,":  "rigging, sound",
		"  Night Shift ,night shift": "night shift",
	}
	for in, want := range cases {
		assert.Equal(t, want, crew.NormalizeTags(in), in)
	}
}

func TestNormalizeTags_Idempotent(t *testing.T) {
	for _, in := range []string{"A,b,a, C ,", "rigging,sound", "Ünïcode, ÜNÏCODE"} {
		once := crew.NormalizeTags(in)
		assert.Equal(t, once, crew.NormalizeTags(once), in)
	}
}

func TestClampGear(t *testing.T) {
	assert.Equal(t, 0, crew.ClampGear(-10))
	assert.Equal(t, 55, crew.ClampGear(55))
	assert.Equal(t, 100, crew.ClampGear(140))
}

// ──────────────────────────────────────────────────────────────────────────────
// Readiness
// ──────────────────────────────────────────────────────────────────────────────

func TestAvailabilityScore(t *testing.T) {
	assert.Equal(t, 0, crew.AvailabilityScore(entity.AvailabilityCounts{}))
	assert.Equal(t, 100, crew.AvailabilityScore(entity.AvailabilityCounts{Available: 3}))
	assert.Equal(t, 50, crew.AvailabilityScore(entity.AvailabilityCounts{Away: 2}))
	assert.Equal(t, 50, crew.AvailabilityScore(entity.AvailabilityCounts{Available: 1, Away: 1, Unavailable: 1}))
}

func TestOutcomeScore(t *testing.T) {
	assert.Equal(t, 70, crew.OutcomeScore(nil))
	assert.Equal(t, 100, crew.OutcomeScore([]string{"Completed", "completed"}))
	assert.Equal(t, 50, crew.OutcomeScore([]string{"Completed", "Cancelled"}))
	assert.Equal(t, 50, crew.OutcomeScore([]string{"Archived"}), "estado desconocido pesa 50")
	assert.Equal(t, 65, crew.OutcomeScore([]string{"Active", "Scheduled"}))
}

func TestReadiness(t *testing.T) {
	counts := entity.AvailabilityCounts{Available: 2, Away: 1, Unavailable: 1} // (200+50)/4 = 62
	got := crew.Readiness(counts, 80, []string{"Completed", "Active"})         // outcome 85
	// (62*45 + 80*25 + 85*30) / 100 = (2790 + 2000 + 2550) / 100 = 73
	assert.Equal(t, 73, got)

	assert.Equal(t, 46, crew.Readiness(entity.AvailabilityCounts{}, 100, nil)) // (0 + 2500 + 2100)/100
	assert.LessOrEqual(t, crew.Readiness(entity.AvailabilityCounts{Available: 9}, 500, nil), 100)
}

func TestReadiness_UsesLastFiveOutcomes(t *testing.T) {
	recent := []string{"Completed", "Completed", "Completed", "Completed", "Completed", "Cancelled", "Cancelled"}
	counts := entity.AvailabilityCounts{Available: 1}
	assert.Equal(t, crew.Readiness(counts, 0, recent[:5]), crew.Readiness(counts, 0, recent))
}

// ──────────────────────────────────────────────────────────────────────────────
// Recomendación
// ──────────────────────────────────────────────────────────────────────────────

func TestRecommend_Scenario(t *testing.T) {
	crews := []entity.Crew{
		{ID: 2, Name: "B", SkillTags: "rigging", CompatibilityTags: "", Status: entity.CrewIdle, GearScore: 40},
		{ID: 1, Name: "A", SkillTags: "rigging,sound", CompatibilityTags: "night", Status: entity.CrewActive, GearScore: 80},
	}
	recs := crew.Recommend(crews, "rigging,sound", "night")
	require.Len(t, recs, 2)

	assert.Equal(t, "A", recs[0].Name)
	assert.Equal(t, 16, recs[0].Score)
	assert.Equal(t, 2, recs[0].SkillMatches)
	assert.Equal(t, 1, recs[0].CompatibilityMatches)

	assert.Equal(t, "B", recs[1].Name)
	assert.Equal(t, 7, recs[1].Score)
}

func TestRecommend_TieBreakByName(t *testing.T) {
	crews := []entity.Crew{
		{ID: 1, Name: "Zulu", Status: entity.CrewOnLeave, GearScore: 20},
		{ID: 2, Name: "Alpha", Status: entity.CrewOnLeave, GearScore: 20},
		{ID: 3, Name: "Mike", Status: entity.CrewActive, GearScore: 999},
	}
	recs := crew.Recommend(crews, "x", "")
	require.Len(t, recs, 3)
	assert.Equal(t, []string{"Mike", "Alpha", "Zulu"}, []string{recs[0].Name, recs[1].Name, recs[2].Name})
	assert.Equal(t, 7, recs[0].Score, "gear bonus topa en 5")
	assert.Equal(t, 0, recs[1].Score)
}

func TestTopPositive(t *testing.T) {
	crews := []entity.Crew{
		{ID: 1, Name: "A", SkillTags: "a", Status: entity.CrewActive},
		{ID: 2, Name: "B", Status: entity.CrewOnLeave},
		{ID: 3, Name: "C", SkillTags: "a", Status: entity.CrewIdle},
		{ID: 4, Name: "D", SkillTags: "a", Status: entity.CrewIdle},
		{ID: 5, Name: "E", SkillTags: "a", Status: entity.CrewIdle},
	}
	recs := crew.Recommend(crews, "a", "")
	top := crew.TopPositive(recs, "a", "", 3)
	require.Len(t, top, 3)
	assert.Equal(t, "A", top[0].Name)

	assert.Empty(t, crew.TopPositive(recs, " ", "", 3), "sin requisitos no hay recomendación")
}
