package notify

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Sender delivers one message to one chat. Implemented by the Telegram
// client in production and by fakes in tests.
type Sender interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
}

// RatePolicy is the pacing applied between consecutive sends of a
// batch, kept explicit so the sink's rate limits are a configuration
// concern rather than an inline sleep.
type RatePolicy struct {
	Interval time.Duration
}

// DefaultRatePolicy spaces sends far enough apart for the Telegram Bot
// API limits.
var DefaultRatePolicy = RatePolicy{Interval: 500 * time.Millisecond}

// Result summarizes a fan-out batch.
type Result struct {
	Sent   int
	Failed int
}

// Fanout sends text to every chat id in order. Per-recipient failures
// are logged and counted, never propagated: one bad recipient must not
// block the rest of the batch. There are no retries; the context only
// stops the batch between sends.
func Fanout(ctx context.Context, sender Sender, logger *zap.Logger, chatIDs []int64, text string, policy RatePolicy) Result {
	var res Result
	for i, chatID := range chatIDs {
		if i > 0 && policy.Interval > 0 {
			select {
			case <-ctx.Done():
				logger.Warn("Notification batch interrupted",
					zap.Int("sent", res.Sent),
					zap.Int("remaining", len(chatIDs)-i))
				return res
			case <-time.After(policy.Interval):
			}
		}

		if err := sender.SendMessage(ctx, chatID, text); err != nil {
			res.Failed++
			logger.Error("Failed to send notification",
				zap.Int64("chat_id", chatID),
				zap.Error(err))
			continue
		}
		res.Sent++
	}

	logger.Debug("Notification batch completed",
		zap.Int("sent", res.Sent),
		zap.Int("failed", res.Failed))
	return res
}
