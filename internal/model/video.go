package model

import "time"

// Video mirrors the `videos` table. Media files live in object storage;
// the table only keeps their durable URLs.
type Video struct {
	ID           string    `json:"id"`
	OwnerID      string    `json:"ownerId"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	VideoURL     string    `json:"videoFile"`
	ThumbnailURL string    `json:"thumbnail"`
	Duration     uint32    `json:"duration"` // seconds
	Views        uint64    `json:"views"`
	IsPublished  bool      `json:"isPublished"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Subscription mirrors the `subscriptions` table. A row means
// SubscriberID follows the channel of ChannelID. The pair is unique.
type Subscription struct {
	SubscriberID string    `json:"subscriberId"`
	ChannelID    string    `json:"channelId"`
	CreatedAt    time.Time `json:"createdAt"`
}

// WatchHistoryEntry mirrors the `watch_history` table; one row per
// recorded view by an authenticated user.
type WatchHistoryEntry struct {
	VideoID   string    `json:"videoId"`
	Title     string    `json:"title"`
	Thumbnail string    `json:"thumbnail"`
	WatchedAt time.Time `json:"watchedAt"`
}
