package schedule

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"
)

// Entry pairs a task with the recurrence rule describing when the
// trigger fires it. The rules mirror the Resolve dispatch table.
type Entry struct {
	Task  Task
	RRule string
}

// Entries returns the full trigger timetable, most specific rules
// first.
func Entries() []Entry {
	entries := []Entry{
		{Task: Task{Kind: TaskWeeklyRollover}, RRule: "FREQ=WEEKLY;BYDAY=SU;BYHOUR=23;BYMINUTE=59;BYSECOND=0"},
		{Task: Task{Kind: TaskEmptyShiftsReport}, RRule: "FREQ=WEEKLY;BYDAY=SA;BYHOUR=12;BYMINUTE=0;BYSECOND=0"},
	}
	for window, at := range shiftReminderTimes {
		entries = append(entries, Entry{
			Task:  Task{Kind: TaskShiftReminder, Window: window},
			RRule: fmt.Sprintf("FREQ=DAILY;BYHOUR=%d;BYMINUTE=%d;BYSECOND=0", at[0], at[1]),
		})
	}
	for band, at := range attendanceReminderTimes {
		entries = append(entries, Entry{
			Task:  Task{Kind: TaskAttendanceReminder, Window: band},
			RRule: fmt.Sprintf("FREQ=DAILY;BYHOUR=%d;BYMINUTE=%d;BYSECOND=0", at[0], at[1]),
		})
	}
	return entries
}

// Upcoming is one future firing of a scheduled task.
type Upcoming struct {
	Task Task
	At   time.Time
}

// NextRuns computes the next firing of every timetable entry after the
// given instant.
func NextRuns(from time.Time) ([]Upcoming, error) {
	entries := Entries()
	runs := make([]Upcoming, 0, len(entries))
	for _, entry := range entries {
		rule, err := rrule.StrToRRule(entry.RRule)
		if err != nil {
			return nil, fmt.Errorf("failed to parse rrule %q: %w", entry.RRule, err)
		}
		rule.DTStart(from)
		next := rule.After(from, false)
		if next.IsZero() {
			return nil, fmt.Errorf("rrule %q has no occurrence after %s", entry.RRule, from)
		}
		runs = append(runs, Upcoming{Task: entry.Task, At: next})
	}
	return runs, nil
}
