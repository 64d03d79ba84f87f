package handler

import (
	"context"
	"errors"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/arashkm/vidhub/internal/auth"
	"github.com/arashkm/vidhub/internal/config"
	"github.com/arashkm/vidhub/internal/middleware"
	"github.com/arashkm/vidhub/internal/model"
	"github.com/arashkm/vidhub/internal/queue"
	"github.com/arashkm/vidhub/internal/repository"
	"github.com/arashkm/vidhub/internal/storage"
)

// MediaStore uploads one object and returns its durable URL.
// storage.Uploader implements it; tests substitute a fake.
type MediaStore interface {
	Upload(ctx context.Context, kind, filename, contentType string, r io.Reader) (string, error)
}

// AccountStore is the slice of the user repository the auth endpoints
// need beyond what the session manager already covers.
type AccountStore interface {
	Create(ctx context.Context, u model.User, password string, cost int) (model.User, error)
}

// EventPublisher emits domain events to the message broker. Publishing
// is best-effort: failures are logged, never surfaced to the client.
type EventPublisher interface {
	PublishUserRegistered(ctx context.Context, ev queue.UserRegisteredEvent) error
	PublishVideoPublished(ctx context.Context, ev queue.VideoPublishedEvent) error
}

// AuthHandler bundles dependencies for the auth endpoints.
type AuthHandler struct {
	Cfg      config.Config
	Sessions *auth.SessionManager
	Users    AccountStore
	Media    MediaStore
	Events   EventPublisher // may be nil when no broker is configured
}

func NewAuthHandler(cfg config.Config, s *auth.SessionManager, users AccountStore, media MediaStore, events EventPublisher) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Sessions: s, Users: users, Media: media, Events: events}
}

// ----- DTOs -----

type loginReq struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}
type refreshReq struct {
	RefreshToken string `json:"refreshToken"`
}

type loginResp struct {
	User         model.Profile `json:"user"`
	AccessToken  string        `json:"accessToken,omitempty"`
	RefreshToken string        `json:"refreshToken,omitempty"`
}

// mapAuthErr translates the auth failure taxonomy to HTTP. Messages
// are generic on purpose: the kind is the only information a client
// gets.
func mapAuthErr(c echo.Context, err error) error {
	switch {
	case errors.Is(err, auth.ErrValidation):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "username or email and password required"})
	case errors.Is(err, auth.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	case errors.Is(err, auth.ErrBadCredentials):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	case errors.Is(err, auth.ErrUnauthorized):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	default:
		log.Printf("auth: internal error: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}

// Register creates an account from a multipart form: username, email,
// fullName, password fields plus a required avatar file and an optional
// coverImage. Media goes to object storage first; only durable URLs are
// persisted. Registration does not log the user in.
func (h *AuthHandler) Register(c echo.Context) error {
	username := strings.TrimSpace(c.FormValue("username"))
	email := strings.TrimSpace(c.FormValue("email"))
	fullName := strings.TrimSpace(c.FormValue("fullName"))
	password := c.FormValue("password")

	if username == "" || email == "" || fullName == "" || password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "all fields are required"})
	}
	if len(password) < 8 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "password must be at least 8 characters"})
	}

	avatarFile, err := c.FormFile("avatar")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "avatar file is required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	if h.Media == nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "media storage unavailable"})
	}
	avatarURL, err := h.uploadFile(ctx, storage.KindAvatar, avatarFile)
	if err != nil {
		log.Printf("auth: avatar upload failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to upload avatar"})
	}

	coverURL := ""
	if coverFile, err := c.FormFile("coverImage"); err == nil {
		coverURL, err = h.uploadFile(ctx, storage.KindCover, coverFile)
		if err != nil {
			log.Printf("auth: cover upload failed: %v", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to upload cover image"})
		}
	}

	u, err := h.Users.Create(ctx, model.User{
		Username:  username,
		Email:     email,
		FullName:  fullName,
		AvatarURL: avatarURL,
		CoverURL:  coverURL,
	}, password, h.Cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "user already exists"})
		}
		log.Printf("auth: create user failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create user"})
	}

	if h.Events != nil {
		_ = h.Events.PublishUserRegistered(ctx, queue.UserRegisteredEvent{
			UserID:       u.ID,
			Username:     u.Username,
			Email:        u.Email,
			RegisteredAt: time.Now().UTC().Format(time.RFC3339),
		})
	}

	return c.JSON(http.StatusCreated, u.Profile())
}

// Login verifies credentials and opens a session. Token delivery
// depends on the client class: trusted clients get HttpOnly cookies
// and a body without token material, API clients get both tokens in
// the body.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	pair, profile, err := h.Sessions.Login(ctx, req.Username, req.Email, req.Password)
	if err != nil {
		return mapAuthErr(c, err)
	}

	if classifyClient(c) {
		setAuthCookies(c, pair, h.Cfg.AccessTTL(), h.Cfg.RefreshTTL(), h.secureCookies())
		return c.JSON(http.StatusOK, loginResp{User: profile})
	}
	return c.JSON(http.StatusOK, loginResp{
		User:         profile,
		AccessToken:  pair.Access,
		RefreshToken: pair.Refresh,
	})
}

// Refresh rotates the session. The refresh token is read from the
// refreshToken cookie first, then from the JSON body. Every failure is
// a plain 401.
func (h *AuthHandler) Refresh(c echo.Context) error {
	presented := ""
	if ck, err := c.Cookie(refreshCookie); err == nil {
		presented = ck.Value
	}
	if presented == "" {
		var req refreshReq
		_ = c.Bind(&req)
		presented = strings.TrimSpace(req.RefreshToken)
	}
	if presented == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	pair, profile, err := h.Sessions.Refresh(ctx, presented)
	if err != nil {
		return mapAuthErr(c, err)
	}

	if classifyClient(c) {
		setAuthCookies(c, pair, h.Cfg.AccessTTL(), h.Cfg.RefreshTTL(), h.secureCookies())
		return c.JSON(http.StatusOK, loginResp{User: profile})
	}
	return c.JSON(http.StatusOK, loginResp{
		User:         profile,
		AccessToken:  pair.Access,
		RefreshToken: pair.Refresh,
	})
}

// Logout terminates the caller's session (protected route). The stored
// refresh token is cleared, which invalidates any future refresh; on
// cookie sessions both cookies are expired as well. The current access
// token stays valid until it expires on its own.
func (h *AuthHandler) Logout(c echo.Context) error {
	userID, _ := c.Get(middleware.ContextUserIDKey).(string)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Sessions.Logout(ctx, userID); err != nil {
		return mapAuthErr(c, err)
	}
	clearAuthCookies(c, h.secureCookies())
	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}

// Me returns the authenticated caller's sanitized profile.
func (h *AuthHandler) Me(c echo.Context) error {
	return c.JSON(http.StatusOK, c.Get(middleware.ContextUserKey))
}

func (h *AuthHandler) secureCookies() bool {
	return h.Cfg.Env == "prod"
}

func (h *AuthHandler) uploadFile(ctx context.Context, kind string, fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()
	return h.Media.Upload(ctx, kind, fh.Filename, fh.Header.Get("Content-Type"), f)
}
