package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/arashkm/vidhub/internal/auth"
)

func deliveryContext(header string) echo.Context {
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/login", nil)
	if header != "" {
		req.Header.Set("X-Client-Type", header)
	}
	return echo.New().NewContext(req, httptest.NewRecorder())
}

func TestClassifyClient(t *testing.T) {
	t.Parallel()

	for _, trusted := range []string{"desktop", "Desktop", "mobile", "native", "NATIVE"} {
		require.True(t, classifyClient(deliveryContext(trusted)), trusted)
	}
	for _, generic := range []string{"", "browser", "curl", "spa"} {
		require.False(t, classifyClient(deliveryContext(generic)), generic)
	}
}

func TestSetAndClearAuthCookies(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)

	pair := auth.TokenPair{Access: "acc-token", Refresh: "ref-token"}
	setAuthCookies(c, pair, 15*time.Minute, 240*time.Hour, true)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 2)
	byName := map[string]*http.Cookie{}
	for _, ck := range cookies {
		byName[ck.Name] = ck
	}

	access := byName[accessCookie]
	require.NotNil(t, access)
	require.Equal(t, "acc-token", access.Value)
	require.True(t, access.HttpOnly)
	require.True(t, access.Secure)
	require.Equal(t, "/", access.Path)
	require.Equal(t, int(15*time.Minute/time.Second), access.MaxAge)

	refresh := byName[refreshCookie]
	require.NotNil(t, refresh)
	require.Equal(t, "ref-token", refresh.Value)
	require.Equal(t, int(240*time.Hour/time.Second), refresh.MaxAge)

	// Clearing writes expired cookies.
	rec = httptest.NewRecorder()
	c = echo.New().NewContext(req, rec)
	clearAuthCookies(c, false)
	for _, ck := range rec.Result().Cookies() {
		require.Empty(t, ck.Value)
		require.Negative(t, ck.MaxAge)
	}
}
