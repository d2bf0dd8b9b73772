package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(t *testing.T, weekday time.Weekday, hour, minute int) time.Time {
	t.Helper()
	// Week of Monday 2026-01-05 in Rome local time.
	rome, err := time.LoadLocation("Europe/Rome")
	require.NoError(t, err)
	base := time.Date(2026, 1, 5, hour, minute, 0, 0, rome)
	offset := (int(weekday) + 6) % 7 // Monday = 0
	return base.AddDate(0, 0, offset)
}

func TestResolve_WeeklyRollover(t *testing.T) {
	task := Resolve(at(t, time.Sunday, 23, 59))
	assert.Equal(t, TaskWeeklyRollover, task.Kind)

	// Same minute on any other day is not a rollover.
	task = Resolve(at(t, time.Monday, 23, 59))
	assert.Equal(t, TaskGeneral, task.Kind)
}

func TestResolve_SaturdayReportBeatsNoonReminder(t *testing.T) {
	task := Resolve(at(t, time.Saturday, 12, 0))
	assert.Equal(t, TaskEmptyShiftsReport, task.Kind)

	// Any other day at noon gets the attendance reminder.
	task = Resolve(at(t, time.Wednesday, 12, 0))
	assert.Equal(t, TaskAttendanceReminder, task.Kind)
	assert.Equal(t, 0, task.Window)
}

func TestResolve_ShiftReminders(t *testing.T) {
	tests := []struct {
		hour, minute, window int
	}{
		{8, 30, 0},
		{12, 30, 1},
		{15, 30, 2},
		{20, 30, 3},
	}
	for _, tt := range tests {
		task := Resolve(at(t, time.Tuesday, tt.hour, tt.minute))
		assert.Equal(t, TaskShiftReminder, task.Kind)
		assert.Equal(t, tt.window, task.Window)
	}
}

func TestResolve_AttendanceReminders(t *testing.T) {
	tests := []struct {
		hour, minute, band int
	}{
		{12, 0, 0},
		{15, 0, 1},
		{19, 0, 2},
		{23, 30, 3},
	}
	for _, tt := range tests {
		task := Resolve(at(t, time.Thursday, tt.hour, tt.minute))
		assert.Equal(t, TaskAttendanceReminder, task.Kind)
		assert.Equal(t, tt.band, task.Window)
	}
}

func TestResolve_FallbackNeverErrors(t *testing.T) {
	// Sweep a whole week minute by minute: every instant resolves to
	// exactly one task, unknown minutes to the heartbeat.
	start := at(t, time.Monday, 0, 0)
	known := 0
	for m := 0; m < 7*24*60; m++ {
		now := start.Add(time.Duration(m) * time.Minute)
		task := Resolve(now)
		if task.Kind != TaskGeneral {
			known++
		}
	}
	// 8 daily reminders x 7 days, minus the Saturday noon reminder
	// shadowed by the report, plus the report and the rollover.
	assert.Equal(t, 8*7+1, known)
}

func TestTaskKindString(t *testing.T) {
	assert.Equal(t, "cambio_settimana", TaskWeeklyRollover.String())
	assert.Equal(t, "general", TaskGeneral.String())
	assert.Equal(t, "promemoria_turno", TaskShiftReminder.String())
}

func TestNextRuns(t *testing.T) {
	from := at(t, time.Monday, 9, 0)
	runs, err := NextRuns(from)
	require.NoError(t, err)
	require.Len(t, runs, len(Entries()))

	for _, run := range runs {
		assert.True(t, run.At.After(from), "occurrence %s not after %s", run.At, from)
		// The resolver must agree with the timetable.
		resolved := Resolve(run.At)
		assert.Equal(t, run.Task.Kind, resolved.Kind)
		assert.Equal(t, run.Task.Window, resolved.Window)
	}
}
