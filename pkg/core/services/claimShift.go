package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/aulastudio-aps/gestionale/pkg/db"
)

// ClaimStore is the slice of the store the assignment writers need.
type ClaimStore interface {
	GridStore
	UpsertShift(ctx context.Context, shift *db.Shift) error
	DeleteShift(ctx context.Context, date, start, end string) error
}

// ClaimShift assigns a user to one fixed window of one date. Claims
// are restricted to the current and next weeks; the rollover is the
// only writer beyond that horizon. A claim on a window outside the
// configured open template is allowed and marked as an extraordinary
// opening (closed override); a claim on an open slot is linked to the
// template row that justified it.
func ClaimShift(ctx context.Context, store ClaimStore, logger *zap.Logger, now time.Time, userID int64, date, start, end, note string) error {
	window, err := windowFor(start, end)
	if err != nil {
		return err
	}
	offset, err := editableWeekOffset(now, date)
	if err != nil {
		return err
	}

	dates := weekDatesForOffset(now, offset)
	open, err := openSlotsForWeek(ctx, store, dates, offset)
	if err != nil {
		return err
	}

	shift := &db.Shift{
		Date:           date,
		Start:          window.Start,
		End:            window.End,
		UserID:         &userID,
		Note:           note,
		ClosedOverride: true,
	}
	for _, slot := range open {
		if slot.Date == date && slot.Window.Start == window.Start {
			shift.ClosedOverride = false
			shift.TemplateID = slot.TemplateID
			break
		}
	}

	logger.Info("Claiming shift",
		zap.Int64("user_id", userID),
		zap.String("date", date),
		zap.String("window", start+"-"+end),
		zap.Bool("extraordinary", shift.ClosedOverride))

	if err := store.UpsertShift(ctx, shift); err != nil {
		return fmt.Errorf("failed to claim shift: %w", err)
	}
	return nil
}

// ReleaseShift removes an assignment within the editable horizon.
func ReleaseShift(ctx context.Context, store ClaimStore, logger *zap.Logger, now time.Time, date, start, end string) error {
	window, err := windowFor(start, end)
	if err != nil {
		return err
	}
	if _, err := editableWeekOffset(now, date); err != nil {
		return err
	}

	logger.Info("Releasing shift", zap.String("date", date), zap.String("window", start+"-"+end))
	if err := store.DeleteShift(ctx, date, window.Start, window.End); err != nil {
		return fmt.Errorf("failed to release shift: %w", err)
	}
	return nil
}

// editableWeekOffset returns 0 or 1 when date falls in the current or
// next week, and an error otherwise.
func editableWeekOffset(now time.Time, date string) (int, error) {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return 0, fmt.Errorf("invalid date %q: %w", date, err)
	}
	for offset := 0; offset <= 1; offset++ {
		dates := weekDatesForOffset(now, offset)
		if date >= dates[0] && date <= dates[6] {
			return offset, nil
		}
	}
	return 0, fmt.Errorf("date %s is outside the editable weeks", date)
}
