package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/arashkm/vidhub/internal/auth"
)

// Cookie names for trusted-client token delivery. The access cookie
// name is shared with the auth gate's cookie fallback.
const (
	accessCookie  = "accessToken"
	refreshCookie = "refreshToken"
)

// classifyClient decides how tokens are delivered. First-party desktop
// and mobile apps declare themselves with the X-Client-Type header and
// get cookies; everyone else gets tokens in the JSON body. This is a
// presentation heuristic with no cryptographic backing: it never grants
// or denies anything, it only picks where the same tokens are written.
func classifyClient(c echo.Context) bool {
	switch strings.ToLower(c.Request().Header.Get("X-Client-Type")) {
	case "desktop", "mobile", "native":
		return true
	}
	return false
}

// setAuthCookies writes the token pair as scoped cookies: HttpOnly so
// scripts cannot read them, SameSite=Strict, and Secure outside dev.
func setAuthCookies(c echo.Context, pair auth.TokenPair, accessTTL, refreshTTL time.Duration, secure bool) {
	c.SetCookie(authCookie(accessCookie, pair.Access, accessTTL, secure))
	c.SetCookie(authCookie(refreshCookie, pair.Refresh, refreshTTL, secure))
}

// clearAuthCookies instructs the client to drop both token cookies.
func clearAuthCookies(c echo.Context, secure bool) {
	c.SetCookie(authCookie(accessCookie, "", -time.Hour, secure))
	c.SetCookie(authCookie(refreshCookie, "", -time.Hour, secure))
}

func authCookie(name, value string, ttl time.Duration, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(ttl / time.Second),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteStrictMode,
	}
}
