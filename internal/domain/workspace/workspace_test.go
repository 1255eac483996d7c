package workspace_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/kinetic/internal/domain/entity"
	"github.com/jhoicas/kinetic/internal/domain/workspace"
)

func TestNormalizeSlug(t *testing.T) {
	ok := map[string]string{
		"acme":          "acme",
		" Acme Events ": "acme-events",
		"crew-42":       "crew-42",
	}
	for in, want := range ok {
		got, valid := workspace.NormalizeSlug(in)
		assert.True(t, valid, in)
		assert.Equal(t, want, got)
	}
	for _, bad := range []string{"", "   ", "acme_events", "acmé", "a/b"} {
		_, valid := workspace.NormalizeSlug(bad)
		assert.False(t, valid, bad)
	}
}

func TestSuggestSlug(t *testing.T) {
	s := workspace.SuggestSlug("Acme Events & Co")
	_, valid := workspace.NormalizeSlug(s)
	assert.True(t, valid, s)
}

func TestNormalizeCurrency(t *testing.T) {
	assert.Len(t, workspace.Currencies, 55)

	got, ok := workspace.NormalizeCurrency(" usd ")
	assert.True(t, ok)
	assert.Equal(t, "USD", got)

	_, ok = workspace.NormalizeCurrency("XAU")
	assert.False(t, ok, "código ISO válido pero fuera del catálogo")
	_, ok = workspace.NormalizeCurrency("DOGE")
	assert.False(t, ok)
	_, ok = workspace.NormalizeCurrency("")
	assert.False(t, ok)
}

func TestLimitMessage(t *testing.T) {
	three := 3
	p := entity.PlanLimits{Key: "free", Clients: &three}
	assert.Equal(t, &three, workspace.Limit(p, workspace.ScopeClients))
	assert.Nil(t, workspace.Limit(p, workspace.ScopeCrews))
	assert.Equal(t,
		"Free plan workspaces can have up to 3 clients. Upgrade to add more.",
		workspace.LimitMessage(p, workspace.ScopeClients, 3))
	assert.Equal(t,
		"Pro plan workspaces can have up to 5 contacts per client. Upgrade to add more.",
		workspace.LimitMessage(entity.PlanLimits{Key: "pro"}, workspace.ScopeContactsPerClient, 5))
}

func TestExpired(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	assert.True(t, workspace.Expired("2024-04-01 00:00", 30, now))
	assert.False(t, workspace.Expired("2024-05-15 00:00", 30, now))
	assert.False(t, workspace.Expired("2020-01-01 00:00", 0, now))
	assert.False(t, workspace.Expired("", 30, now))
}
