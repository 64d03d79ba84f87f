package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/arashkm/vidhub/internal/model"
)

func testIssuer() Issuer {
	return Issuer{
		AccessSecret:  []byte("access-secret"),
		RefreshSecret: []byte("refresh-secret"),
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    10 * 24 * time.Hour,
	}
}

func testUser() model.User {
	return model.User{
		ID:       "11111111-2222-3333-4444-555555555555",
		Username: "alice",
		Email:    "alice@x.com",
		FullName: "Alice Doe",
	}
}

func TestIssueAndParseAccess(t *testing.T) {
	t.Parallel()

	iss := testIssuer()
	tok, err := iss.IssueAccess(testUser())
	require.NoError(t, err)

	claims, err := iss.ParseAccess(tok)
	require.NoError(t, err)
	require.Equal(t, testUser().ID, claims.Subject)
	require.Equal(t, "alice", claims.Username)
	require.Equal(t, "alice@x.com", claims.Email)
	require.Equal(t, "Alice Doe", claims.FullName)
}

func TestIssueAndParseRefresh(t *testing.T) {
	t.Parallel()

	iss := testIssuer()
	tok, err := iss.IssueRefresh(testUser().ID)
	require.NoError(t, err)

	claims, err := iss.ParseRefresh(tok)
	require.NoError(t, err)
	require.Equal(t, testUser().ID, claims.Subject)
}

func TestParse_WrongSecret(t *testing.T) {
	t.Parallel()

	iss := testIssuer()
	tok, err := iss.IssueAccess(testUser())
	require.NoError(t, err)

	other := testIssuer()
	other.AccessSecret = []byte("not-the-secret")
	_, err = other.ParseAccess(tok)
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestParse_Expired(t *testing.T) {
	t.Parallel()

	iss := testIssuer()
	iss.AccessTTL = -time.Minute
	tok, err := iss.IssueAccess(testUser())
	require.NoError(t, err)

	_, err = iss.ParseAccess(tok)
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestParse_SecretsNotInterchangeable(t *testing.T) {
	t.Parallel()

	iss := testIssuer()
	refresh, err := iss.IssueRefresh(testUser().ID)
	require.NoError(t, err)

	// A refresh token must not pass as an access token and vice versa.
	_, err = iss.ParseAccess(refresh)
	require.ErrorIs(t, err, ErrUnauthorized)

	access, err := iss.IssueAccess(testUser())
	require.NoError(t, err)
	_, err = iss.ParseRefresh(access)
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestParse_Garbage(t *testing.T) {
	t.Parallel()

	iss := testIssuer()
	_, err := iss.ParseAccess("not.a.token")
	require.ErrorIs(t, err, ErrUnauthorized)
}
