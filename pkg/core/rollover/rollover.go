// Package rollover implements the weekly rotation of the shift
// schedule: attendance is archived, the three tracked weeks slide back
// by one, and a fresh default template is generated for the new
// look-ahead week. Everything between the snapshot reads and the final
// row-count verification runs inside a single database transaction.
package rollover

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/aulastudio-aps/gestionale/pkg/core/shifts"
	"github.com/aulastudio-aps/gestionale/pkg/db"
)

// Store starts the rollover transaction.
type Store interface {
	BeginRollover(ctx context.Context) (db.RolloverTx, error)
}

// Options tune the two behaviours left open by the original system.
type Options struct {
	// StrictVerify turns the post-rotation row-count check into a
	// pre-commit gate: a mismatch rolls the whole transaction back.
	// When false the mismatch is only logged.
	StrictVerify bool
	// ArchiveExpiringShifts copies the expiring week's assignment rows
	// into turni_storico before they are dropped. Off by default: the
	// expiring week's assignments are deliberately discarded, unlike
	// attendance which is always archived.
	ArchiveExpiringShifts bool
}

// Result reports what a successful rotation wrote.
type Result struct {
	Weeks              Weeks
	CurrentTemplates   int
	NextTemplates      int
	CurrentShifts      int
	NextShifts         int
	ArchivedAttendance int
	ArchivedShifts     int
}

// Run executes one weekly rotation at the given instant (Rome local
// time). On any step failure the transaction is rolled back and the
// error returned; the caller must not assume partial effects. Run
// itself never notifies anyone; the service layer wraps it.
func Run(ctx context.Context, store Store, logger *zap.Logger, now time.Time, opts Options) (*Result, error) {
	weeks := ComputeWeeks(now)
	logger.Info("Starting weekly rollover",
		zap.String("current_week", weeks.Current.First()),
		zap.String("next_week", weeks.Next.First()),
		zap.Bool("strict_verify", opts.StrictVerify))

	tx, err := store.BeginRollover(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin rollover transaction: %w", err)
	}

	result, err := rotate(ctx, tx, logger, weeks, opts)
	if err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			logger.Error("Rollback after failed rollover also failed", zap.Error(rbErr))
		}
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit rollover: %w", err)
	}

	logger.Info("Weekly rollover committed",
		zap.Int("current_shifts", result.CurrentShifts),
		zap.Int("next_shifts", result.NextShifts),
		zap.Int("archived_attendance", result.ArchivedAttendance))
	return result, nil
}

func rotate(ctx context.Context, tx db.RolloverTx, logger *zap.Logger, weeks Weeks, opts Options) (*Result, error) {
	// Snapshot next-week templates and the two future weeks' shifts
	// before anything is deleted.
	nextTemplates, err := tx.ListSlotTemplates(ctx, db.TemplateNext)
	if err != nil {
		return nil, fmt.Errorf("failed to read next-week templates: %w", err)
	}
	for i := range nextTemplates {
		nextTemplates[i].Weekday = strings.ToLower(nextTemplates[i].Weekday)
	}

	nextShifts, err := tx.ListShiftsBetween(ctx, weeks.Next.First(), weeks.Next.Last())
	if err != nil {
		return nil, fmt.Errorf("failed to read next-week shifts: %w", err)
	}
	nextNextShifts, err := tx.ListShiftsBetween(ctx, weeks.NextNext.First(), weeks.NextNext.Last())
	if err != nil {
		return nil, fmt.Errorf("failed to read next-next-week shifts: %w", err)
	}
	logger.Debug("Rollover snapshot taken",
		zap.Int("next_templates", len(nextTemplates)),
		zap.Int("next_shifts", len(nextShifts)),
		zap.Int("next_next_shifts", len(nextNextShifts)))

	// Detach every assignment from its template row before the
	// template tables are emptied.
	if err := tx.UnlinkShiftTemplates(ctx); err != nil {
		return nil, fmt.Errorf("failed to unlink shift templates: %w", err)
	}

	archivedAttendance, err := archiveAttendance(ctx, tx)
	if err != nil {
		return nil, err
	}

	archivedShifts := 0
	if opts.ArchiveExpiringShifts {
		archivedShifts, err = archiveExpiringShifts(ctx, tx, weeks.Current)
		if err != nil {
			return nil, err
		}
	}

	for _, week := range []WeekRange{weeks.Current, weeks.Next, weeks.NextNext} {
		if err := tx.DeleteShiftsBetween(ctx, week.First(), week.Last()); err != nil {
			return nil, fmt.Errorf("failed to delete shifts for week of %s: %w", week.First(), err)
		}
	}
	if err := tx.DeleteAllSlotTemplates(ctx, db.TemplateCurrent); err != nil {
		return nil, fmt.Errorf("failed to clear current-week templates: %w", err)
	}
	if err := tx.DeleteAllSlotTemplates(ctx, db.TemplateNext); err != nil {
		return nil, fmt.Errorf("failed to clear next-week templates: %w", err)
	}

	// Rotate the template tables: the configured next-week openings
	// become the current-week ones. Assignment rows keep their dates --
	// the week labels move with the calendar, not the data -- and are
	// reinserted with the template reference nulled, to be re-derived
	// on the next read by the reconciler.
	if err := tx.InsertSlotTemplates(ctx, db.TemplateCurrent, nextTemplates); err != nil {
		return nil, fmt.Errorf("failed to recreate current-week templates: %w", err)
	}
	if err := tx.InsertShifts(ctx, detachTemplates(nextShifts)); err != nil {
		return nil, fmt.Errorf("failed to recreate shifts for week of %s: %w", weeks.Next.First(), err)
	}

	// The new look-ahead week gets the fixed default opening.
	if err := tx.InsertSlotTemplates(ctx, db.TemplateNext, shifts.DefaultTemplates()); err != nil {
		return nil, fmt.Errorf("failed to create default next-week templates: %w", err)
	}
	if err := tx.InsertShifts(ctx, detachTemplates(nextNextShifts)); err != nil {
		return nil, fmt.Errorf("failed to recreate shifts for week of %s: %w", weeks.NextNext.First(), err)
	}

	result := &Result{
		Weeks:              weeks,
		CurrentTemplates:   len(nextTemplates),
		NextTemplates:      len(shifts.DefaultTemplates()),
		CurrentShifts:      len(nextShifts),
		NextShifts:         len(nextNextShifts),
		ArchivedAttendance: archivedAttendance,
		ArchivedShifts:     archivedShifts,
	}
	if err := verify(ctx, tx, logger, weeks, result, opts.StrictVerify); err != nil {
		return nil, err
	}
	return result, nil
}

// archiveAttendance copies every presenze row into the history table,
// deriving the Italian weekday name, then truncates the operational
// table. The copy always happens before the delete so attendance data
// for the rolled-off week is never lost.
func archiveAttendance(ctx context.Context, tx db.RolloverTx) (int, error) {
	records, err := tx.ListAttendance(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to read attendance: %w", err)
	}

	archive := make([]db.AttendanceArchive, 0, len(records))
	for _, rec := range records {
		weekday, err := shifts.WeekdayName(rec.Date)
		if err != nil {
			return 0, fmt.Errorf("failed to derive weekday for attendance on %s: %w", rec.Date, err)
		}
		archive = append(archive, db.AttendanceArchive{
			Date:    rec.Date,
			Weekday: weekday,
			Band:    rec.Band,
			Count:   rec.Count,
			Note:    rec.Note,
		})
	}

	if err := tx.InsertAttendanceArchive(ctx, archive); err != nil {
		return 0, fmt.Errorf("failed to archive attendance: %w", err)
	}
	if err := tx.DeleteAllAttendance(ctx); err != nil {
		return 0, fmt.Errorf("failed to clear attendance: %w", err)
	}
	return len(archive), nil
}

func archiveExpiringShifts(ctx context.Context, tx db.RolloverTx, current WeekRange) (int, error) {
	expiring, err := tx.ListShiftsBetween(ctx, current.First(), current.Last())
	if err != nil {
		return 0, fmt.Errorf("failed to read expiring shifts: %w", err)
	}
	if err := tx.InsertShiftArchive(ctx, expiring); err != nil {
		return 0, fmt.Errorf("failed to archive expiring shifts: %w", err)
	}
	return len(expiring), nil
}

// detachTemplates copies a snapshot for reinsertion, preserving user,
// note and closed-override but with the template reference nulled.
func detachTemplates(snapshot []db.Shift) []db.Shift {
	rows := make([]db.Shift, 0, len(snapshot))
	for _, shift := range snapshot {
		rows = append(rows, db.Shift{
			Date:           shift.Date,
			Start:          shift.Start,
			End:            shift.End,
			UserID:         shift.UserID,
			Note:           shift.Note,
			ClosedOverride: shift.ClosedOverride,
		})
	}
	return rows
}

// verify recounts what was just written. With StrictVerify a mismatch
// aborts the transaction, otherwise it is only logged.
func verify(ctx context.Context, tx db.RolloverTx, logger *zap.Logger, weeks Weeks, result *Result, strict bool) error {
	checks := []struct {
		name string
		got  func() (int, error)
		want int
	}{
		{"current_templates", func() (int, error) { return tx.CountSlotTemplates(ctx, db.TemplateCurrent) }, result.CurrentTemplates},
		{"next_templates", func() (int, error) { return tx.CountSlotTemplates(ctx, db.TemplateNext) }, result.NextTemplates},
		// After rotation the new current week is the old next week's
		// date range, and the new next week the old next-next one.
		{"current_shifts", func() (int, error) {
			return tx.CountShiftsBetween(ctx, weeks.Next.First(), weeks.Next.Last())
		}, result.CurrentShifts},
		{"next_shifts", func() (int, error) {
			return tx.CountShiftsBetween(ctx, weeks.NextNext.First(), weeks.NextNext.Last())
		}, result.NextShifts},
	}

	for _, check := range checks {
		got, err := check.got()
		if err != nil {
			return fmt.Errorf("failed to verify %s count: %w", check.name, err)
		}
		if got == check.want {
			continue
		}
		if strict {
			return fmt.Errorf("rollover verification failed: %s count is %d, expected %d", check.name, got, check.want)
		}
		logger.Warn("Rollover verification mismatch",
			zap.String("check", check.name),
			zap.Int("got", got),
			zap.Int("want", check.want))
	}
	return nil
}
