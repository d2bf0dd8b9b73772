package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/aulastudio-aps/gestionale/pkg/core/shifts"
	"github.com/aulastudio-aps/gestionale/pkg/db"
)

// SlotView is one cell of the weekly shift grid the frontend renders:
// the fixed window plus the reconciled opening and the assignment, if
// any.
type SlotView struct {
	Date          string `json:"date"`
	Weekday       string `json:"weekday"`
	WindowStart   string `json:"windowStart"`
	WindowEnd     string `json:"windowEnd"`
	Open          bool   `json:"open"`
	Start         string `json:"start,omitempty"`
	End           string `json:"end,omitempty"`
	Note          string `json:"note,omitempty"`
	TemplateID    *int64 `json:"templateId,omitempty"`
	UserID        *int64 `json:"userId,omitempty"`
	UserNote      string `json:"userNote,omitempty"`
	Extraordinary bool   `json:"extraordinary,omitempty"`
}

// GridStore is the slice of the store the shift read path needs.
type GridStore interface {
	ListSlotTemplates(ctx context.Context, table db.TemplateTable) ([]db.SlotTemplate, error)
	ListShiftsBetween(ctx context.Context, from, to string) ([]db.Shift, error)
}

// ListWeekShifts builds the 7x4 grid for the week `offset` weeks from
// now (0 = current, 1 = next, 2 = next-next). Openings come from the
// corresponding template table, or from the fixed default for the
// look-ahead week that has none. Assignments claimed outside the open
// template show up as extraordinary slots on a closed window.
func ListWeekShifts(ctx context.Context, store GridStore, logger *zap.Logger, now time.Time, offset int) ([]SlotView, error) {
	if offset < 0 || offset > 2 {
		return nil, fmt.Errorf("week offset must be 0, 1 or 2, got %d", offset)
	}

	dates := weekDatesForOffset(now, offset)
	logger.Debug("Listing week shifts", zap.String("monday", dates[0]), zap.Int("offset", offset))

	open, err := openSlotsForWeek(ctx, store, dates, offset)
	if err != nil {
		return nil, err
	}
	openByKey := make(map[string]shifts.Slot, len(open))
	for _, slot := range open {
		openByKey[slot.Date+" "+slot.Window.Start] = slot
	}

	assignments, err := store.ListShiftsBetween(ctx, dates[0], dates[6])
	if err != nil {
		return nil, fmt.Errorf("failed to list shifts: %w", err)
	}
	assignedByKey := make(map[string]db.Shift, len(assignments))
	for _, shift := range assignments {
		assignedByKey[shift.Date+" "+shift.Start] = shift
	}

	var grid []SlotView
	for _, date := range dates {
		weekday, err := shifts.WeekdayName(date)
		if err != nil {
			return nil, err
		}
		for _, window := range shifts.Windows {
			view := SlotView{
				Date:        date,
				Weekday:     weekday,
				WindowStart: window.Start,
				WindowEnd:   window.End,
			}
			if slot, ok := openByKey[date+" "+window.Start]; ok {
				view.Open = true
				view.Start = slot.Start
				view.End = slot.End
				view.Note = slot.Note
				view.TemplateID = slot.TemplateID
			}
			if shift, ok := assignedByKey[date+" "+window.Start]; ok {
				view.UserID = shift.UserID
				view.UserNote = shift.Note
				view.Extraordinary = shift.ClosedOverride
			}
			grid = append(grid, view)
		}
	}
	return grid, nil
}

// openSlotsForWeek reconciles the configured template for the week, or
// falls back to the fixed default when the week has no template table
// (offset 2) or an empty one.
func openSlotsForWeek(ctx context.Context, store GridStore, dates []string, offset int) ([]shifts.Slot, error) {
	var table db.TemplateTable
	switch offset {
	case 0:
		table = db.TemplateCurrent
	case 1:
		table = db.TemplateNext
	default:
		return shifts.DefaultWeekSlots(dates)
	}

	templates, err := store.ListSlotTemplates(ctx, table)
	if err != nil {
		return nil, fmt.Errorf("failed to list slot templates: %w", err)
	}
	if len(templates) == 0 {
		return shifts.DefaultWeekSlots(dates)
	}
	return shifts.ReconcileWeek(templates, dates)
}
