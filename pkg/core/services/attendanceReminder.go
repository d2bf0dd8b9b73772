package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/aulastudio-aps/gestionale/pkg/core/notify"
	"github.com/aulastudio-aps/gestionale/pkg/core/shifts"
	"github.com/aulastudio-aps/gestionale/pkg/db"
)

// SubscriberStore resolves a category into deliverable chat ids.
type SubscriberStore interface {
	SubscriberChatIDs(ctx context.Context, category string) ([]int64, error)
}

// SendAttendanceReminder asks the shift managers to record the head
// count for the band that just ended.
func SendAttendanceReminder(ctx context.Context, store SubscriberStore, sender notify.Sender, logger *zap.Logger, band int, rate notify.RatePolicy) error {
	if band < 0 || band >= len(shifts.Bands) {
		return fmt.Errorf("invalid attendance band index %d", band)
	}

	chatIDs, err := store.SubscriberChatIDs(ctx, db.CategoryShiftManagers)
	if err != nil {
		return fmt.Errorf("failed to list shift manager subscribers: %w", err)
	}
	if len(chatIDs) == 0 {
		logger.Info("No shift manager subscribers, skipping attendance reminder")
		return nil
	}

	message := fmt.Sprintf(
		"Ricordati di registrare le presenze per la fascia %s.",
		shifts.Bands[band])
	res := notify.Fanout(ctx, sender, logger, chatIDs, message, rate)
	logger.Info("Sent attendance reminder",
		zap.String("band", shifts.Bands[band]),
		zap.Int("sent", res.Sent),
		zap.Int("failed", res.Failed))
	return nil
}
