// Package queue defines message payloads exchanged over the message
// broker and the background consumer that records them.
package queue

// Queue names. Both queues are durable.
const (
	UserRegisteredQueue = "user.registered"
	VideoPublishedQueue = "video.published"
)

// UserRegisteredEvent is published when an account is created. It
// carries enough for downstream consumers (welcome mail, analytics)
// without querying the primary database. No secret fields, ever.
type UserRegisteredEvent struct {
	UserID       string `json:"user_id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	RegisteredAt string `json:"registered_at"`
}

// VideoPublishedEvent is published when a video upload completes.
type VideoPublishedEvent struct {
	VideoID     string `json:"video_id"`
	OwnerID     string `json:"owner_id"`
	Title       string `json:"title"`
	PublishedAt string `json:"published_at"`
}
