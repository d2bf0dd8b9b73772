package schedule

import (
	"fmt"
	"time"
)

// TaskKind is the closed set of scheduled task types.
type TaskKind int

const (
	// TaskGeneral is the no-op heartbeat fired for any minute with no
	// dedicated rule.
	TaskGeneral TaskKind = iota
	TaskShiftReminder
	TaskAttendanceReminder
	TaskEmptyShiftsReport
	TaskWeeklyRollover
)

// String returns the task-type label recorded in cron_logs and trigger
// responses.
func (k TaskKind) String() string {
	switch k {
	case TaskGeneral:
		return "general"
	case TaskShiftReminder:
		return "promemoria_turno"
	case TaskAttendanceReminder:
		return "promemoria_presenze"
	case TaskEmptyShiftsReport:
		return "report_turni_scoperti"
	case TaskWeeklyRollover:
		return "cambio_settimana"
	}
	return fmt.Sprintf("unknown(%d)", int(k))
}

// ParseKind maps a task-type label back to its kind, for running a
// task by name.
func ParseKind(s string) (TaskKind, error) {
	for _, kind := range []TaskKind{TaskGeneral, TaskShiftReminder, TaskAttendanceReminder, TaskEmptyShiftsReport, TaskWeeklyRollover} {
		if kind.String() == s {
			return kind, nil
		}
	}
	return TaskGeneral, fmt.Errorf("unknown task type %q", s)
}

// Task is one dispatchable unit: a kind plus its typed parameter.
// Window is the daily window (and attendance band) index for the two
// reminder kinds and is zero otherwise.
type Task struct {
	Kind   TaskKind
	Window int
}

// Clock yields the current Italian wall-clock time. Injected so the
// dispatch table is testable against arbitrary instants.
type Clock interface {
	Now() time.Time
}

// RomeClock is the production Clock, pinned to Europe/Rome.
type RomeClock struct {
	loc *time.Location
}

// NewRomeClock loads the Europe/Rome timezone.
func NewRomeClock() (*RomeClock, error) {
	loc, err := time.LoadLocation("Europe/Rome")
	if err != nil {
		return nil, fmt.Errorf("failed to load Europe/Rome timezone: %w", err)
	}
	return &RomeClock{loc: loc}, nil
}

// Now returns the current instant in Rome local time.
func (c *RomeClock) Now() time.Time {
	return time.Now().In(c.loc)
}

// Location exposes the clock's timezone for date computations.
func (c *RomeClock) Location() *time.Location {
	return c.loc
}

// Minute-of-day rules for the two reminder families, index = window.
var (
	shiftReminderTimes      = [4][2]int{{8, 30}, {12, 30}, {15, 30}, {20, 30}}
	attendanceReminderTimes = [4][2]int{{12, 0}, {15, 0}, {19, 0}, {23, 30}}
)

// Resolve maps an Italian-local instant to exactly one task. Weekday
// rules beat the daily reminder rules on the minute they share (the
// Saturday noon report wins over the noon attendance reminder), and a
// minute with no rule falls back to the general heartbeat.
func Resolve(now time.Time) Task {
	hour, minute := now.Hour(), now.Minute()

	if now.Weekday() == time.Sunday && hour == 23 && minute == 59 {
		return Task{Kind: TaskWeeklyRollover}
	}
	if now.Weekday() == time.Saturday && hour == 12 && minute == 0 {
		return Task{Kind: TaskEmptyShiftsReport}
	}
	for window, at := range shiftReminderTimes {
		if hour == at[0] && minute == at[1] {
			return Task{Kind: TaskShiftReminder, Window: window}
		}
	}
	for band, at := range attendanceReminderTimes {
		if hour == at[0] && minute == at[1] {
			return Task{Kind: TaskAttendanceReminder, Window: band}
		}
	}
	return Task{Kind: TaskGeneral}
}
