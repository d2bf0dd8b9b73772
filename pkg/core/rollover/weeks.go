package rollover

import (
	"time"

	"github.com/aulastudio-aps/gestionale/pkg/core/shifts"
)

// WeekRange is one week as 7 consecutive ISO dates starting Monday.
type WeekRange struct {
	Dates []string
}

// First returns the week's Monday.
func (w WeekRange) First() string {
	return w.Dates[0]
}

// Last returns the week's Sunday.
func (w WeekRange) Last() string {
	return w.Dates[6]
}

// Weeks holds the three week ranges involved in one rotation: the week
// ending at the rollover instant and the two look-ahead weeks.
type Weeks struct {
	Current  WeekRange
	Next     WeekRange
	NextNext WeekRange
}

// ComputeWeeks derives the three ranges from the rollover instant,
// which sits inside the expiring week (normally its Sunday 23:59).
func ComputeWeeks(now time.Time) Weeks {
	monday := shifts.MondayOf(now)
	return Weeks{
		Current:  WeekRange{Dates: shifts.WeekDates(monday)},
		Next:     WeekRange{Dates: shifts.WeekDates(monday.AddDate(0, 0, 7))},
		NextNext: WeekRange{Dates: shifts.WeekDates(monday.AddDate(0, 0, 14))},
	}
}
