package services

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/aulastudio-aps/gestionale/pkg/core/shifts"
)

// weekDatesForOffset returns the 7 dates of the week `offset` weeks
// after the one containing now (0 = current, 1 = next, 2 = next-next).
func weekDatesForOffset(now time.Time, offset int) []string {
	monday := shifts.MondayOf(now).AddDate(0, 0, 7*offset)
	return shifts.WeekDates(monday)
}

// windowFor validates that (start, end) is one of the four fixed daily
// windows.
func windowFor(start, end string) (shifts.Window, error) {
	for _, window := range shifts.Windows {
		if window.Start == start && window.End == end {
			return window, nil
		}
	}
	return shifts.Window{}, fmt.Errorf("invalid shift window %s-%s", start, end)
}

// closedDates evaluates the configured closure rules (rrule strings,
// validated at config load) against a set of dates and returns the
// ones falling on a closure occurrence.
func closedDates(rules []string, dates []string) (map[string]bool, error) {
	closed := make(map[string]bool)
	if len(rules) == 0 || len(dates) == 0 {
		return closed, nil
	}

	first, err := time.Parse("2006-01-02", dates[0])
	if err != nil {
		return nil, fmt.Errorf("failed to parse date %q: %w", dates[0], err)
	}
	last, err := time.Parse("2006-01-02", dates[len(dates)-1])
	if err != nil {
		return nil, fmt.Errorf("failed to parse date %q: %w", dates[len(dates)-1], err)
	}

	for _, rule := range rules {
		parsed, err := rrule.StrToRRule(rule)
		if err != nil {
			return nil, fmt.Errorf("failed to parse closure rule %q: %w", rule, err)
		}
		parsed.DTStart(first.AddDate(0, 0, -7))
		for _, occurrence := range parsed.Between(first.AddDate(0, 0, -1), last.AddDate(0, 0, 1), true) {
			closed[occurrence.Format("2006-01-02")] = true
		}
	}
	return closed, nil
}
