package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/aulastudio-aps/gestionale/pkg/db"
)

// SubscriptionWriteStore manages rows of the notification opt-in table.
type SubscriptionWriteStore interface {
	ListSubscriptions(ctx context.Context, userID int64) ([]db.Subscription, error)
	UpsertSubscription(ctx context.Context, sub *db.Subscription) error
	DeleteSubscription(ctx context.Context, sub *db.Subscription) error
}

// Subscribe opts a user into one notification category. Subscribing
// twice is a no-op.
func Subscribe(ctx context.Context, store SubscriptionWriteStore, logger *zap.Logger, userID int64, category string) error {
	if !validCategory(category) {
		return fmt.Errorf("invalid notification category %q", category)
	}
	logger.Info("Subscribing user", zap.Int64("user_id", userID), zap.String("category", category))
	if err := store.UpsertSubscription(ctx, &db.Subscription{UserID: userID, Category: category}); err != nil {
		return fmt.Errorf("failed to subscribe: %w", err)
	}
	return nil
}

// Unsubscribe opts a user out of one notification category.
func Unsubscribe(ctx context.Context, store SubscriptionWriteStore, logger *zap.Logger, userID int64, category string) error {
	if !validCategory(category) {
		return fmt.Errorf("invalid notification category %q", category)
	}
	logger.Info("Unsubscribing user", zap.Int64("user_id", userID), zap.String("category", category))
	if err := store.DeleteSubscription(ctx, &db.Subscription{UserID: userID, Category: category}); err != nil {
		return fmt.Errorf("failed to unsubscribe: %w", err)
	}
	return nil
}

// ListSubscriptions returns a user's active categories.
func ListSubscriptions(ctx context.Context, store SubscriptionWriteStore, logger *zap.Logger, userID int64) ([]db.Subscription, error) {
	subs, err := store.ListSubscriptions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscriptions: %w", err)
	}
	return subs, nil
}

func validCategory(category string) bool {
	return category == db.CategoryShiftManagers || category == db.CategoryDevelopers
}
