package repository

import (
	"context"
	"database/sql"
)

// SubscriptionRepo persists channel subscriptions. The
// (subscriber_id, channel_id) pair is unique, so subscribing twice is
// reported as ErrDuplicate by the index rather than checked up front.
type SubscriptionRepo struct{ DB *sql.DB }

func NewSubscriptionRepo(db *sql.DB) *SubscriptionRepo { return &SubscriptionRepo{DB: db} }

// Subscribe adds subscriberID as a follower of channelID.
func (r *SubscriptionRepo) Subscribe(ctx context.Context, subscriberID, channelID string) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO subscriptions (subscriber_id, channel_id) VALUES (?,?)",
		subscriberID, channelID)
	if isDuplicate(err) {
		return ErrDuplicate
	}
	return err
}

// Unsubscribe removes the subscription; ErrNotFound if none existed.
func (r *SubscriptionRepo) Unsubscribe(ctx context.Context, subscriberID, channelID string) error {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM subscriptions WHERE subscriber_id=? AND channel_id=?",
		subscriberID, channelID)
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

// CountSubscribers returns how many users follow the channel.
func (r *SubscriptionRepo) CountSubscribers(ctx context.Context, channelID string) (uint64, error) {
	var n uint64
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM subscriptions WHERE channel_id=?", channelID).Scan(&n)
	return n, err
}

// CountSubscribedTo returns how many channels the user follows.
func (r *SubscriptionRepo) CountSubscribedTo(ctx context.Context, subscriberID string) (uint64, error) {
	var n uint64
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM subscriptions WHERE subscriber_id=?", subscriberID).Scan(&n)
	return n, err
}
