package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/arashkm/vidhub/internal/middleware"
	"github.com/arashkm/vidhub/internal/repository"
)

// SubscriptionStore mutates channel subscriptions.
type SubscriptionStore interface {
	Subscribe(ctx context.Context, subscriberID, channelID string) error
	Unsubscribe(ctx context.Context, subscriberID, channelID string) error
}

// SubscriptionHandler lets an authenticated user follow and unfollow
// channels addressed by username.
type SubscriptionHandler struct {
	Subs  SubscriptionStore
	Users ChannelResolver
}

func NewSubscriptionHandler(subs SubscriptionStore, users ChannelResolver) *SubscriptionHandler {
	return &SubscriptionHandler{Subs: subs, Users: users}
}

// Subscribe follows the channel in :username.
func (h *SubscriptionHandler) Subscribe(c echo.Context) error {
	userID, _ := c.Get(middleware.ContextUserIDKey).(string)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	channel, err := h.Users.FindByUsername(ctx, c.Param("username"))
	if err != nil {
		return channelLookupErr(c, err)
	}
	if userID == channel.ID {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cannot subscribe to yourself"})
	}

	if err := h.Subs.Subscribe(ctx, userID, channel.ID); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "already subscribed"})
		}
		log.Printf("subscription: subscribe failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "subscribed"})
}

// Unsubscribe unfollows the channel in :username.
func (h *SubscriptionHandler) Unsubscribe(c echo.Context) error {
	userID, _ := c.Get(middleware.ContextUserIDKey).(string)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	channel, err := h.Users.FindByUsername(ctx, c.Param("username"))
	if err != nil {
		return channelLookupErr(c, err)
	}

	if err := h.Subs.Unsubscribe(ctx, userID, channel.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "not subscribed"})
		}
		log.Printf("subscription: unsubscribe failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "unsubscribed"})
}

func channelLookupErr(c echo.Context, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "channel not found"})
	}
	log.Printf("subscription: channel lookup failed: %v", err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}
