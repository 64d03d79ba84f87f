package handler

import (
	"context"
	"errors"
	"log"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/arashkm/vidhub/internal/middleware"
	"github.com/arashkm/vidhub/internal/model"
	"github.com/arashkm/vidhub/internal/queue"
	"github.com/arashkm/vidhub/internal/repository"
	"github.com/arashkm/vidhub/internal/storage"
)

// VideoStore is the persistence surface for video endpoints.
type VideoStore interface {
	Create(ctx context.Context, v model.Video) (model.Video, error)
	GetByID(ctx context.Context, id string) (model.Video, error)
	ListByOwner(ctx context.Context, ownerID string) ([]model.Video, error)
	IncrementViews(ctx context.Context, id string) error
	AddWatchHistory(ctx context.Context, userID, videoID string) error
}

// ChannelResolver maps a channel username to its account.
type ChannelResolver interface {
	FindByUsername(ctx context.Context, username string) (model.User, error)
}

// VideoHandler serves video publishing and playback metadata.
type VideoHandler struct {
	Videos VideoStore
	Users  ChannelResolver
	Media  MediaStore
	Events EventPublisher // may be nil
}

func NewVideoHandler(videos VideoStore, users ChannelResolver, media MediaStore, events EventPublisher) *VideoHandler {
	return &VideoHandler{Videos: videos, Users: users, Media: media, Events: events}
}

// Publish uploads a video and its thumbnail, then persists the
// metadata row. Multipart fields: title, description, duration
// (seconds); files: video, thumbnail.
func (h *VideoHandler) Publish(c echo.Context) error {
	ownerID, _ := c.Get(middleware.ContextUserIDKey).(string)

	title := c.FormValue("title")
	description := c.FormValue("description")
	if title == "" || description == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title and description required"})
	}
	duration, err := strconv.ParseUint(c.FormValue("duration"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "duration (seconds) required"})
	}

	videoFile, err := c.FormFile("video")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "video file is required"})
	}
	thumbFile, err := c.FormFile("thumbnail")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "thumbnail file is required"})
	}
	if h.Media == nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "media storage unavailable"})
	}

	// Media uploads can be large; give them a generous deadline.
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Minute)
	defer cancel()

	videoURL, err := h.upload(ctx, storage.KindVideo, videoFile)
	if err != nil {
		log.Printf("video: upload failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to upload video"})
	}
	thumbURL, err := h.upload(ctx, storage.KindThumbnail, thumbFile)
	if err != nil {
		log.Printf("video: thumbnail upload failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to upload thumbnail"})
	}

	v, err := h.Videos.Create(ctx, model.Video{
		OwnerID:      ownerID,
		Title:        title,
		Description:  description,
		VideoURL:     videoURL,
		ThumbnailURL: thumbURL,
		Duration:     uint32(duration),
		IsPublished:  true,
	})
	if err != nil {
		log.Printf("video: create failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to save video"})
	}

	if h.Events != nil {
		_ = h.Events.PublishVideoPublished(ctx, queue.VideoPublishedEvent{
			VideoID:     v.ID,
			OwnerID:     ownerID,
			Title:       v.Title,
			PublishedAt: time.Now().UTC().Format(time.RFC3339),
		})
	}
	return c.JSON(http.StatusCreated, v)
}

// Get returns one video's metadata and bumps its view counter.
// Public; watch history is recorded separately by Watch.
func (h *VideoHandler) Get(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	v, err := h.Videos.GetByID(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "video not found"})
		}
		log.Printf("video: lookup failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	if err := h.Videos.IncrementViews(ctx, v.ID); err == nil {
		v.Views++
	}
	return c.JSON(http.StatusOK, v)
}

// Watch records a view in the caller's watch history (protected).
func (h *VideoHandler) Watch(c echo.Context) error {
	userID, _ := c.Get(middleware.ContextUserIDKey).(string)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	videoID := c.Param("id")
	if _, err := h.Videos.GetByID(ctx, videoID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "video not found"})
		}
		log.Printf("video: lookup failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	if err := h.Videos.AddWatchHistory(ctx, userID, videoID); err != nil {
		log.Printf("video: watch history failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "recorded"})
}

// ChannelVideos lists a channel's published videos (public).
func (h *VideoHandler) ChannelVideos(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.FindByUsername(ctx, c.Param("username"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "channel not found"})
		}
		log.Printf("video: channel lookup failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}

	videos, err := h.Videos.ListByOwner(ctx, u.ID)
	if err != nil {
		log.Printf("video: list failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	if videos == nil {
		videos = []model.Video{}
	}
	return c.JSON(http.StatusOK, videos)
}

func (h *VideoHandler) upload(ctx context.Context, kind string, fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()
	return h.Media.Upload(ctx, kind, fh.Filename, fh.Header.Get("Content-Type"), f)
}
