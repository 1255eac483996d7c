package session_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kinetic/pkg/session"
)

const testSecret = "test-secret-key-for-unit-tests"

func newIssuer(t *testing.T) *session.Issuer {
	t.Helper()
	iss, err := session.NewIssuer(testSecret, "kinetic-test", time.Hour)
	require.NoError(t, err)
	return iss
}

func TestIssueParse_RoundTrip(t *testing.T) {
	iss := newIssuer(t)
	tok, claims, err := iss.Issue(session.Identity{UserID: 12, TenantID: 3})
	require.NoError(t, err)
	require.NotEmpty(t, claims.ID, "cada token debe llevar jti")

	parsed, err := iss.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, session.Identity{UserID: 12, TenantID: 3}, parsed.Identity())
	assert.False(t, parsed.Identity().IsAdmin())
	assert.Equal(t, claims.ID, parsed.ID)
}

func TestIssue_UniqueJTI(t *testing.T) {
	iss := newIssuer(t)
	_, a, err := iss.Issue(session.Identity{AdminID: 1})
	require.NoError(t, err)
	_, b, err := iss.Issue(session.Identity{AdminID: 1})
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, "admin:1", a.Subject)
}

func TestParse_WrongSecret(t *testing.T) {
	tok, _, err := newIssuer(t).Issue(session.Identity{UserID: 1, TenantID: 1})
	require.NoError(t, err)

	other, err := session.NewIssuer("otro-secreto", "kinetic-test", time.Hour)
	require.NoError(t, err)
	_, err = other.Parse(tok)
	assert.ErrorIs(t, err, session.ErrInvalid)
}

func TestParse_Expired(t *testing.T) {
	iss := newIssuer(t)
	past := time.Now().Add(-3 * time.Hour)
	tok, _, err := iss.WithClock(func() time.Time { return past }).Issue(session.Identity{UserID: 1, TenantID: 1})
	require.NoError(t, err)

	_, err = iss.Parse(tok)
	assert.ErrorIs(t, err, session.ErrInvalid)
}

func TestNewIssuer_EmptySecret(t *testing.T) {
	_, err := session.NewIssuer("", "x", time.Hour)
	assert.Error(t, err)
}
