package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/aulastudio-aps/gestionale/pkg/core/notify"
	"github.com/aulastudio-aps/gestionale/pkg/core/rollover"
	"github.com/aulastudio-aps/gestionale/pkg/db"
)

// RolloverStore combines the transactional store with the subscriber
// lookup the post-commit notification needs.
type RolloverStore interface {
	rollover.Store
	SubscriberChatIDs(ctx context.Context, category string) ([]int64, error)
}

// RunWeeklyRollover executes the week rotation and then notifies the
// developer subscribers of the outcome. Notification is best-effort:
// delivery failures never undo or mask the rotation result. When the
// rotation itself fails and even the subscriber lookup fails, a single
// message goes to the operator chat so somebody always hears about it.
func RunWeeklyRollover(ctx context.Context, store RolloverStore, sender notify.Sender, logger *zap.Logger, now time.Time, opts rollover.Options, rate notify.RatePolicy, operatorChatID int64) (*rollover.Result, error) {
	result, runErr := rollover.Run(ctx, store, logger, now, opts)
	if runErr != nil {
		notifyRolloverFailure(ctx, store, sender, logger, rate, operatorChatID, runErr)
		return nil, runErr
	}

	message := fmt.Sprintf(
		"Cambio settimana completato.\nTurni ricreati per la settimana corrente: %d\nTurni ricreati per la prossima settimana: %d\nPresenze archiviate: %d",
		result.CurrentShifts, result.NextShifts, result.ArchivedAttendance)

	chatIDs, err := store.SubscriberChatIDs(ctx, db.CategoryDevelopers)
	if err != nil {
		logger.Error("Failed to list developer subscribers after rollover", zap.Error(err))
		return result, nil
	}
	notify.Fanout(ctx, sender, logger, chatIDs, message, rate)
	return result, nil
}

func notifyRolloverFailure(ctx context.Context, store RolloverStore, sender notify.Sender, logger *zap.Logger, rate notify.RatePolicy, operatorChatID int64, runErr error) {
	message := fmt.Sprintf("Cambio settimana fallito: %v", runErr)

	chatIDs, err := store.SubscriberChatIDs(ctx, db.CategoryDevelopers)
	if err != nil {
		logger.Error("Failed to list developer subscribers, falling back to operator chat", zap.Error(err))
		if sendErr := sender.SendMessage(ctx, operatorChatID, message); sendErr != nil {
			logger.Error("Failed to notify operator chat", zap.Error(sendErr))
		}
		return
	}
	notify.Fanout(ctx, sender, logger, chatIDs, message, rate)
}
