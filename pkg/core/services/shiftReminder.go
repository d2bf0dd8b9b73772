package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/aulastudio-aps/gestionale/pkg/core/notify"
	"github.com/aulastudio-aps/gestionale/pkg/core/shifts"
	"github.com/aulastudio-aps/gestionale/pkg/db"
)

// ReminderStore resolves today's assignment and its owner.
type ReminderStore interface {
	ListShiftsBetween(ctx context.Context, first, last string) ([]db.Shift, error)
	GetUser(ctx context.Context, id int64) (*db.User, error)
}

// SendShiftReminder messages the volunteer assigned to today's given
// window, shortly before it starts. A window with no assignment is
// not an error: there is simply nobody to remind.
func SendShiftReminder(ctx context.Context, store ReminderStore, sender notify.Sender, logger *zap.Logger, now time.Time, window int) error {
	if window < 0 || window >= len(shifts.Windows) {
		return fmt.Errorf("invalid shift window index %d", window)
	}
	w := shifts.Windows[window]
	today := now.Format("2006-01-02")

	rows, err := store.ListShiftsBetween(ctx, today, today)
	if err != nil {
		return fmt.Errorf("failed to list today's shifts: %w", err)
	}

	var assigned *db.Shift
	for i := range rows {
		if rows[i].Start == w.Start && rows[i].UserID != nil {
			assigned = &rows[i]
			break
		}
	}
	if assigned == nil {
		logger.Info("No assignment for window, skipping reminder",
			zap.String("date", today),
			zap.String("window", w.Start+"-"+w.End))
		return nil
	}

	user, err := store.GetUser(ctx, *assigned.UserID)
	if err != nil {
		return fmt.Errorf("failed to load assigned user: %w", err)
	}
	if user.ChatID == nil {
		logger.Warn("Assigned user has no chat id, skipping reminder",
			zap.Int64("user_id", user.ID))
		return nil
	}

	message := fmt.Sprintf(
		"Promemoria: oggi hai il turno dalle %s alle %s in aula studio.",
		assigned.Start, assigned.End)
	if err := sender.SendMessage(ctx, *user.ChatID, message); err != nil {
		return fmt.Errorf("failed to send shift reminder: %w", err)
	}

	logger.Info("Sent shift reminder",
		zap.Int64("user_id", user.ID),
		zap.String("window", w.Start+"-"+w.End))
	return nil
}
