package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/arashkm/vidhub/internal/auth"
	"github.com/arashkm/vidhub/internal/config"
	"github.com/arashkm/vidhub/internal/middleware"
	"github.com/arashkm/vidhub/internal/model"
	"github.com/arashkm/vidhub/internal/repository"
	"github.com/arashkm/vidhub/internal/storage"
)

// ProfileStore is what the profile endpoints need from the user repo.
type ProfileStore interface {
	FindByID(ctx context.Context, id string) (model.User, error)
	FindByUsername(ctx context.Context, username string) (model.User, error)
	UpdatePassword(ctx context.Context, id, password string, cost int) error
	UpdateAvatar(ctx context.Context, id, url string) error
	UpdateCover(ctx context.Context, id, url string) error
}

// SubscriptionCounter provides the counts shown on a channel profile.
type SubscriptionCounter interface {
	CountSubscribers(ctx context.Context, channelID string) (uint64, error)
	CountSubscribedTo(ctx context.Context, subscriberID string) (uint64, error)
}

// HistoryStore lists a user's recorded views.
type HistoryStore interface {
	ListWatchHistory(ctx context.Context, userID string) ([]model.WatchHistoryEntry, error)
}

// UserHandler serves channel profiles and account self-management.
type UserHandler struct {
	Cfg     config.Config
	Users   ProfileStore
	Subs    SubscriptionCounter
	History HistoryStore
	Media   MediaStore
}

func NewUserHandler(cfg config.Config, users ProfileStore, subs SubscriptionCounter, history HistoryStore, media MediaStore) *UserHandler {
	return &UserHandler{Cfg: cfg, Users: users, Subs: subs, History: history, Media: media}
}

type channelProfileResp struct {
	model.Profile
	Subscribers  uint64 `json:"subscribers"`
	SubscribedTo uint64 `json:"subscribedTo"`
}

type changePasswordReq struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

// ChannelProfile returns the public view of a channel: sanitized
// profile plus subscriber counts. No authentication required.
func (h *UserHandler) ChannelProfile(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.FindByUsername(ctx, c.Param("username"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "channel not found"})
		}
		log.Printf("user: profile lookup failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	subs, err := h.Subs.CountSubscribers(ctx, u.ID)
	if err != nil {
		log.Printf("user: subscriber count failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	following, err := h.Subs.CountSubscribedTo(ctx, u.ID)
	if err != nil {
		log.Printf("user: following count failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	return c.JSON(http.StatusOK, channelProfileResp{
		Profile:      u.Profile(),
		Subscribers:  subs,
		SubscribedTo: following,
	})
}

// ChangePassword verifies the old password and stores a new hash.
// This is the only mutation besides registration that re-hashes.
func (h *UserHandler) ChangePassword(c echo.Context) error {
	userID, _ := c.Get(middleware.ContextUserIDKey).(string)

	var req changePasswordReq
	if err := c.Bind(&req); err != nil || req.OldPassword == "" || req.NewPassword == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "oldPassword and newPassword required"})
	}
	if len(req.NewPassword) < 8 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "password must be at least 8 characters"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.FindByID(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	if !auth.VerifyPassword(u.PasswordHash, req.OldPassword) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}
	if err := h.Users.UpdatePassword(ctx, userID, req.NewPassword, h.Cfg.BcryptCost); err != nil {
		log.Printf("user: password update failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "password changed"})
}

// UpdateAvatar replaces the caller's avatar image.
func (h *UserHandler) UpdateAvatar(c echo.Context) error {
	return h.updateImage(c, storage.KindAvatar, "avatar", h.Users.UpdateAvatar)
}

// UpdateCover replaces the caller's cover image.
func (h *UserHandler) UpdateCover(c echo.Context) error {
	return h.updateImage(c, storage.KindCover, "coverImage", h.Users.UpdateCover)
}

func (h *UserHandler) updateImage(c echo.Context, kind, field string, save func(context.Context, string, string) error) error {
	userID, _ := c.Get(middleware.ContextUserIDKey).(string)

	fh, err := c.FormFile(field)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": field + " file is required"})
	}
	if h.Media == nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "media storage unavailable"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	f, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid upload"})
	}
	defer f.Close()

	url, err := h.Media.Upload(ctx, kind, fh.Filename, fh.Header.Get("Content-Type"), f)
	if err != nil {
		log.Printf("user: %s upload failed: %v", field, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "upload failed"})
	}
	if err := save(ctx, userID, url); err != nil {
		log.Printf("user: %s save failed: %v", field, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{field: url})
}

// WatchHistory returns the caller's recorded views, newest first.
func (h *UserHandler) WatchHistory(c echo.Context) error {
	userID, _ := c.Get(middleware.ContextUserIDKey).(string)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	entries, err := h.History.ListWatchHistory(ctx, userID)
	if err != nil {
		log.Printf("user: watch history failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	if entries == nil {
		entries = []model.WatchHistoryEntry{}
	}
	return c.JSON(http.StatusOK, entries)
}
