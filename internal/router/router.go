package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/arashkm/vidhub/internal/handler"
)

// Handlers bundles everything the router wires up.
type Handlers struct {
	Auth          *handler.AuthHandler
	Users         *handler.UserHandler
	Videos        *handler.VideoHandler
	Subscriptions *handler.SubscriptionHandler
}

// Register attaches all routes. gate is the auth-gate middleware for
// protected endpoints; limiter and cache are optional (pass nil to
// skip): limiter brakes the anonymous auth endpoints, cache fronts the
// public read endpoints.
func Register(e *echo.Echo, h Handlers, gate, limiter, cache echo.MiddlewareFunc) {
	e.GET("/healthz", handler.Health)

	// Anonymous session operations live under /v1/auth.
	authGroup := e.Group("/v1/auth")
	if limiter != nil {
		authGroup.Use(limiter)
	}
	authGroup.POST("/register", h.Auth.Register)
	authGroup.POST("/login", h.Auth.Login)
	authGroup.POST("/refresh", h.Auth.Refresh)

	// Public reads: channel profiles, channel videos, video metadata.
	public := e.Group("/v1")
	if cache != nil {
		public.Use(cache)
	}
	public.GET("/channels/:username", h.Users.ChannelProfile)
	public.GET("/channels/:username/videos", h.Videos.ChannelVideos)
	public.GET("/videos/:id", h.Videos.Get)

	// Everything below requires a valid access token.
	protected := e.Group("/v1")
	protected.Use(gate)
	protected.POST("/auth/logout", h.Auth.Logout)
	protected.GET("/me", h.Auth.Me)
	protected.POST("/me/password", h.Users.ChangePassword)
	protected.PATCH("/me/avatar", h.Users.UpdateAvatar)
	protected.PATCH("/me/cover", h.Users.UpdateCover)
	protected.GET("/me/history", h.Users.WatchHistory)
	protected.POST("/videos", h.Videos.Publish)
	protected.POST("/videos/:id/watch", h.Videos.Watch)
	protected.POST("/channels/:username/subscribe", h.Subscriptions.Subscribe)
	protected.DELETE("/channels/:username/subscribe", h.Subscriptions.Unsubscribe)
}
