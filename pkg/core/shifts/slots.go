package shifts

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Window is one of the four fixed daily openings of the study room.
// Times are "HH:MM" strings; "24:00" marks the end of the day.
type Window struct {
	Start string
	End   string
}

// Windows are the four fixed daily slots, in chronological order:
// morning, early afternoon, late afternoon, evening.
var Windows = [4]Window{
	{Start: "09:00", End: "13:00"},
	{Start: "13:00", End: "16:00"},
	{Start: "16:00", End: "19:30"},
	{Start: "21:00", End: "24:00"},
}

// Bands are the attendance time-band labels, one per fixed window.
var Bands = [4]string{"9-13", "13-16", "16-19.30", "21-24"}

// BandForWindow returns the attendance band label for a fixed window,
// or "" if the (start, end) pair is not one of the four windows.
func BandForWindow(start, end string) string {
	for i, w := range Windows {
		if w.Start == start && w.End == end {
			return Bands[i]
		}
	}
	return ""
}

// weekdayNames maps time.Weekday to lower-case accented Italian day
// names, the canonical form used throughout the fasce orarie tables.
var weekdayNames = [7]string{
	time.Sunday:    "domenica",
	time.Monday:    "lunedì",
	time.Tuesday:   "martedì",
	time.Wednesday: "mercoledì",
	time.Thursday:  "giovedì",
	time.Friday:    "venerdì",
	time.Saturday:  "sabato",
}

// WeekdayName derives the Italian weekday name from an ISO date.
func WeekdayName(date string) (string, error) {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return "", fmt.Errorf("failed to parse date %q: %w", date, err)
	}
	return weekdayNames[t.Weekday()], nil
}

// ToMinutes converts an "HH:MM" time to minutes since midnight.
// "24:00" is 1440, never 0, so end-of-day comparisons stay ordered.
func ToMinutes(hhmm string) (int, error) {
	parts := strings.SplitN(hhmm, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time %q", hhmm)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", hhmm, err)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", hhmm, err)
	}
	if h < 0 || h > 24 || m < 0 || m > 59 || (h == 24 && m != 0) {
		return 0, fmt.Errorf("time %q out of range", hhmm)
	}
	return h*60 + m, nil
}

// FormatMinutes renders minutes since midnight back to "HH:MM".
func FormatMinutes(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// MondayOf returns the Monday (at midnight, same location) of the week
// containing t.
func MondayOf(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	// time.Weekday puts Sunday at 0; shift so Monday is 0
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// WeekDates returns the 7 consecutive ISO dates of the week starting at
// monday.
func WeekDates(monday time.Time) []string {
	dates := make([]string, 7)
	for i := 0; i < 7; i++ {
		dates[i] = monday.AddDate(0, 0, i).Format("2006-01-02")
	}
	return dates
}
