package middleware // middleware provides reusable HTTP middleware for the API

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/arashkm/vidhub/internal/auth"
	"github.com/arashkm/vidhub/internal/model"
)

// UserLookup is the single read the auth gate needs from the store.
type UserLookup interface {
	FindByID(ctx context.Context, id string) (model.User, error)
}

// Context keys set by RequireAuth for downstream handlers.
const (
	ContextUserKey   = "user"    // model.Profile of the caller
	ContextUserIDKey = "user_id" // string ID of the caller
)

// AccessCookie is the cookie checked when no Authorization header is
// present. Its name matches what the delivery layer writes for trusted
// clients.
const AccessCookie = "accessToken"

// RequireAuth returns an Echo middleware that authenticates requests
// with an access token. The token is taken from the Authorization
// header ("Bearer <token>") first, then from the accessToken cookie;
// when a header is present the cookie is ignored, even if the header is
// garbage. The token is verified against the access secret, the
// subject is looked up (a deleted account holding a still-valid token
// gets 401), and the sanitized identity is attached to the context.
func RequireAuth(issuer auth.Issuer, users UserLookup) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := extractToken(c)
			if token == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
			}

			claims, err := issuer.ParseAccess(token)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
			}

			ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
			defer cancel()

			u, err := users.FindByID(ctx, claims.Subject)
			if err != nil {
				// Covers both a deleted account and a store failure;
				// neither caller deserves more detail than a 401.
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
			}

			c.Set(ContextUserKey, u.Profile())
			c.Set(ContextUserIDKey, u.ID)
			return next(c)
		}
	}
}

// extractToken returns the access token from the Authorization header
// or, failing that, from the access cookie.
func extractToken(c echo.Context) string {
	if h := c.Request().Header.Get("Authorization"); h != "" {
		if strings.HasPrefix(h, "Bearer ") {
			return strings.TrimPrefix(h, "Bearer ")
		}
		return ""
	}
	if ck, err := c.Cookie(AccessCookie); err == nil && ck.Value != "" {
		return ck.Value
	}
	return ""
}
