package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/aulastudio-aps/gestionale/pkg/core/notify"
	"github.com/aulastudio-aps/gestionale/pkg/core/shifts"
	"github.com/aulastudio-aps/gestionale/pkg/db"
)

// ReportStore reads next week's slots and resolves report recipients.
type ReportStore interface {
	GridStore
	SubscriberChatIDs(ctx context.Context, category string) ([]int64, error)
}

// SendEmptyShiftsReport tells the shift managers which of next week's
// open slots still have nobody assigned, skipping dates matched by a
// configured closure rule. With full coverage no message is sent.
func SendEmptyShiftsReport(ctx context.Context, store ReportStore, sender notify.Sender, logger *zap.Logger, now time.Time, closureRules []string, rate notify.RatePolicy) error {
	dates := weekDatesForOffset(now, 1)
	open, err := openSlotsForWeek(ctx, store, dates, 1)
	if err != nil {
		return err
	}

	assigned, err := store.ListShiftsBetween(ctx, dates[0], dates[6])
	if err != nil {
		return fmt.Errorf("failed to list next week's shifts: %w", err)
	}
	taken := make(map[string]bool, len(assigned))
	for _, s := range assigned {
		if s.UserID != nil {
			taken[s.Date+" "+s.Start] = true
		}
	}

	closed, err := closedDates(closureRules, dates)
	if err != nil {
		return err
	}

	var lines []string
	for _, slot := range open {
		if closed[slot.Date] || taken[slot.Date+" "+slot.Window.Start] {
			continue
		}
		weekday, err := shifts.WeekdayName(slot.Date)
		if err != nil {
			return err
		}
		lines = append(lines, fmt.Sprintf("%s %s: %s-%s", weekday, slot.Date, slot.Window.Start, slot.Window.End))
	}
	if len(lines) == 0 {
		logger.Info("Next week is fully covered, skipping empty shifts report")
		return nil
	}

	chatIDs, err := store.SubscriberChatIDs(ctx, db.CategoryShiftManagers)
	if err != nil {
		return fmt.Errorf("failed to list shift manager subscribers: %w", err)
	}

	message := "Turni scoperti della prossima settimana:\n" + strings.Join(lines, "\n")
	res := notify.Fanout(ctx, sender, logger, chatIDs, message, rate)
	logger.Info("Sent empty shifts report",
		zap.Int("uncovered", len(lines)),
		zap.Int("sent", res.Sent),
		zap.Int("failed", res.Failed))
	return nil
}
