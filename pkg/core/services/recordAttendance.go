package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/aulastudio-aps/gestionale/pkg/core/shifts"
	"github.com/aulastudio-aps/gestionale/pkg/db"
)

// AttendanceReadStore reads the attendance table.
type AttendanceReadStore interface {
	ListAttendance(ctx context.Context) ([]db.Attendance, error)
}

// AttendanceWriteStore upserts one attendance row.
type AttendanceWriteStore interface {
	UpsertAttendance(ctx context.Context, row *db.Attendance) error
}

// RecordAttendance stores a head count for one band of one date of the
// current week. Recording twice for the same date and band overwrites.
func RecordAttendance(ctx context.Context, store AttendanceWriteStore, logger *zap.Logger, now time.Time, date, band string, count int, note string) error {
	if !validBand(band) {
		return fmt.Errorf("invalid attendance band %q", band)
	}
	if count < 0 {
		return fmt.Errorf("attendance count must not be negative, got %d", count)
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return fmt.Errorf("invalid date %q: %w", date, err)
	}
	dates := weekDatesForOffset(now, 0)
	if date < dates[0] || date > dates[6] {
		return fmt.Errorf("date %s is outside the current week", date)
	}

	logger.Info("Recording attendance",
		zap.String("date", date),
		zap.String("band", band),
		zap.Int("count", count))

	row := &db.Attendance{Date: date, Band: band, Count: count, Note: note}
	if err := store.UpsertAttendance(ctx, row); err != nil {
		return fmt.Errorf("failed to record attendance: %w", err)
	}
	return nil
}

// ListWeekAttendance returns every attendance row of the current week.
// The table only ever holds the current week, so this is a full read.
func ListWeekAttendance(ctx context.Context, store AttendanceReadStore, logger *zap.Logger) ([]db.Attendance, error) {
	rows, err := store.ListAttendance(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	logger.Info("Listed attendance", zap.Int("rows", len(rows)))
	return rows, nil
}

func validBand(band string) bool {
	for _, b := range shifts.Bands {
		if b == band {
			return true
		}
	}
	return false
}
