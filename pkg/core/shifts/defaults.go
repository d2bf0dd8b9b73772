package shifts

import "github.com/aulastudio-aps/gestionale/pkg/db"

// defaultWeekdays are the days covered by the default opening template.
var defaultWeekdays = [5]string{"lunedì", "martedì", "mercoledì", "giovedì", "venerdì"}

// DefaultTemplates returns the fixed default opening as literal slot
// template rows: Monday through Friday, 09:00-19:30, empty note. The
// weekly rollover writes exactly these rows into the next-week table.
func DefaultTemplates() []db.SlotTemplate {
	rows := make([]db.SlotTemplate, 0, len(defaultWeekdays))
	for _, weekday := range defaultWeekdays {
		rows = append(rows, db.SlotTemplate{
			Weekday: weekday,
			Start:   "09:00",
			End:     "19:30",
		})
	}
	return rows
}

// DefaultWeekSlots returns the open slots of a week with no configured
// template: Monday through Friday, the first three daily windows open,
// the evening window and the whole weekend closed. No notes, no
// template linkage. Used for the look-ahead weeks and equivalent to
// reconciling DefaultTemplates against the same dates.
func DefaultWeekSlots(dates []string) ([]Slot, error) {
	var slots []Slot
	for _, date := range dates {
		weekday, err := WeekdayName(date)
		if err != nil {
			return nil, err
		}
		if weekday == "sabato" || weekday == "domenica" {
			continue
		}
		for _, window := range Windows[:3] {
			slots = append(slots, Slot{
				Date:   date,
				Start:  window.Start,
				End:    window.End,
				Window: window,
			})
		}
	}
	return slots, nil
}
