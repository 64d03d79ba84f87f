package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/arashkm/vidhub/internal/auth"
	"github.com/arashkm/vidhub/internal/model"
	"github.com/arashkm/vidhub/internal/repository"
)

type fakeLookup struct {
	users map[string]model.User
}

func (f *fakeLookup) FindByID(_ context.Context, id string) (model.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return model.User{}, repository.ErrNotFound
}

func gateIssuer() auth.Issuer {
	return auth.Issuer{
		AccessSecret:  []byte("access-secret"),
		RefreshSecret: []byte("refresh-secret"),
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    24 * time.Hour,
	}
}

func gateServer(t *testing.T) (*echo.Echo, auth.Issuer, model.User) {
	t.Helper()
	u := model.User{
		ID:           "u-1",
		Username:     "alice",
		Email:        "alice@x.com",
		FullName:     "Alice Doe",
		PasswordHash: "secret-hash",
		RefreshToken: "secret-token",
	}
	issuer := gateIssuer()
	lookup := &fakeLookup{users: map[string]model.User{u.ID: u}}

	e := echo.New()
	e.GET("/me", func(c echo.Context) error {
		return c.JSON(http.StatusOK, c.Get(ContextUserKey))
	}, RequireAuth(issuer, lookup))
	return e, issuer, u
}

func TestRequireAuth_MissingToken(t *testing.T) {
	t.Parallel()

	e, _, _ := gateServer(t)
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuth_BearerHeader(t *testing.T) {
	t.Parallel()

	e, issuer, u := gateServer(t)
	tok, err := issuer.IssueAccess(u)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	// Sanitized identity only: no hash, no refresh token.
	require.Contains(t, rec.Body.String(), `"username":"alice"`)
	require.NotContains(t, rec.Body.String(), "secret-hash")
	require.NotContains(t, rec.Body.String(), "secret-token")
}

func TestRequireAuth_Cookie(t *testing.T) {
	t.Parallel()

	e, issuer, u := gateServer(t)
	tok, err := issuer.IssueAccess(u)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.AddCookie(&http.Cookie{Name: AccessCookie, Value: tok})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAuth_HeaderTakesPrecedence(t *testing.T) {
	t.Parallel()

	e, issuer, u := gateServer(t)
	tok, err := issuer.IssueAccess(u)
	require.NoError(t, err)

	// A bad header is not rescued by a good cookie.
	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	req.AddCookie(&http.Cookie{Name: AccessCookie, Value: tok})
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuth_WrongSecret(t *testing.T) {
	t.Parallel()

	e, _, u := gateServer(t)
	forged := gateIssuer()
	forged.AccessSecret = []byte("not-the-secret")
	tok, err := forged.IssueAccess(u)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuth_Expired(t *testing.T) {
	t.Parallel()

	e, issuer, u := gateServer(t)
	issuer.AccessTTL = -time.Minute
	tok, err := issuer.IssueAccess(u)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuth_DeletedAccount(t *testing.T) {
	t.Parallel()

	e, issuer, _ := gateServer(t)
	ghost := model.User{ID: "gone", Username: "ghost"}
	tok, err := issuer.IssueAccess(ghost)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
