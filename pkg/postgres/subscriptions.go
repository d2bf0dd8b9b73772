package postgres

import (
	"context"
	"fmt"

	"github.com/aulastudio-aps/gestionale/pkg/db"
)

// SubscriberChatIDs resolves the Telegram chat ids of every user
// subscribed to a category. Users without a chat id are skipped.
func (d *DB) SubscriberChatIDs(ctx context.Context, category string) ([]int64, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT u.chat_id
		FROM notifiche n
		JOIN users u ON u.id = n.user_id
		WHERE n.categoria = $1 AND u.chat_id IS NOT NULL
		ORDER BY u.id
	`, category)
	if err != nil {
		return nil, fmt.Errorf("failed to query subscribers: %w", err)
	}
	defer rows.Close()

	var chatIDs []int64
	for rows.Next() {
		var chatID int64
		if err := rows.Scan(&chatID); err != nil {
			return nil, fmt.Errorf("failed to scan chat id: %w", err)
		}
		chatIDs = append(chatIDs, chatID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating subscribers: %w", err)
	}
	return chatIDs, nil
}

// ListSubscriptions returns a user's subscription categories.
func (d *DB) ListSubscriptions(ctx context.Context, userID int64) ([]db.Subscription, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT user_id, categoria FROM notifiche WHERE user_id = $1 ORDER BY categoria
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query subscriptions: %w", err)
	}
	defer rows.Close()

	var subs []db.Subscription
	for rows.Next() {
		var sub db.Subscription
		if err := rows.Scan(&sub.UserID, &sub.Category); err != nil {
			return nil, fmt.Errorf("failed to scan subscription: %w", err)
		}
		subs = append(subs, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating subscriptions: %w", err)
	}
	return subs, nil
}

// UpsertSubscription inserts the (user, category) link if missing.
// Duplicate subscriptions are silently ignored.
func (d *DB) UpsertSubscription(ctx context.Context, sub *db.Subscription) error {
	_, err := d.pool.Exec(ctx, `
		INSERT INTO notifiche (user_id, categoria)
		VALUES ($1, $2)
		ON CONFLICT (user_id, categoria) DO NOTHING
	`, sub.UserID, sub.Category)
	if err != nil {
		return fmt.Errorf("failed to upsert subscription: %w", err)
	}
	return nil
}

// DeleteSubscription removes one (user, category) link.
func (d *DB) DeleteSubscription(ctx context.Context, sub *db.Subscription) error {
	_, err := d.pool.Exec(ctx, `
		DELETE FROM notifiche WHERE user_id = $1 AND categoria = $2
	`, sub.UserID, sub.Category)
	if err != nil {
		return fmt.Errorf("failed to delete subscription: %w", err)
	}
	return nil
}
