package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/arashkm/vidhub/internal/model"
)

// VideoRepo persists video metadata and watch history.
type VideoRepo struct{ DB *sql.DB }

func NewVideoRepo(db *sql.DB) *VideoRepo { return &VideoRepo{DB: db} }

const videoColumns = "id,owner_id,title,description,video_url,thumbnail_url,duration,views,is_published,created_at,updated_at"

// Create inserts a video row and returns it with its generated ID.
func (r *VideoRepo) Create(ctx context.Context, v model.Video) (model.Video, error) {
	v.ID = uuid.NewString()
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO videos (id, owner_id, title, description, video_url, thumbnail_url, duration, is_published) VALUES (?,?,?,?,?,?,?,?)",
		v.ID, v.OwnerID, v.Title, v.Description, v.VideoURL, v.ThumbnailURL, v.Duration, v.IsPublished)
	if err != nil {
		return model.Video{}, err
	}
	v.CreatedAt = time.Now().UTC()
	v.UpdatedAt = v.CreatedAt
	return v, nil
}

// GetByID fetches a single published video.
func (r *VideoRepo) GetByID(ctx context.Context, id string) (model.Video, error) {
	var v model.Video
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+videoColumns+" FROM videos WHERE id=? LIMIT 1", id).
		Scan(&v.ID, &v.OwnerID, &v.Title, &v.Description, &v.VideoURL, &v.ThumbnailURL,
			&v.Duration, &v.Views, &v.IsPublished, &v.CreatedAt, &v.UpdatedAt)
	if err == sql.ErrNoRows {
		return model.Video{}, ErrNotFound
	}
	return v, err
}

// ListByOwner returns the published videos of one channel, newest first.
func (r *VideoRepo) ListByOwner(ctx context.Context, ownerID string) ([]model.Video, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+videoColumns+" FROM videos WHERE owner_id=? AND is_published=1 ORDER BY created_at DESC", ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Video
	for rows.Next() {
		var v model.Video
		if err := rows.Scan(&v.ID, &v.OwnerID, &v.Title, &v.Description, &v.VideoURL, &v.ThumbnailURL,
			&v.Duration, &v.Views, &v.IsPublished, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// IncrementViews bumps the view counter. The UPDATE is atomic per row,
// so concurrent views never lose counts.
func (r *VideoRepo) IncrementViews(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE videos SET views=views+1 WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// AddWatchHistory records that a user watched a video.
func (r *VideoRepo) AddWatchHistory(ctx context.Context, userID, videoID string) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO watch_history (user_id, video_id) VALUES (?,?)", userID, videoID)
	return err
}

// ListWatchHistory returns a user's watch history, newest first.
func (r *VideoRepo) ListWatchHistory(ctx context.Context, userID string) ([]model.WatchHistoryEntry, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT h.video_id, v.title, v.thumbnail_url, h.watched_at
		 FROM watch_history h JOIN videos v ON v.id = h.video_id
		 WHERE h.user_id=? ORDER BY h.watched_at DESC LIMIT 100`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.WatchHistoryEntry
	for rows.Next() {
		var e model.WatchHistoryEntry
		if err := rows.Scan(&e.VideoID, &e.Title, &e.Thumbnail, &e.WatchedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
