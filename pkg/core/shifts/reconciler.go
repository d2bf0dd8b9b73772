package shifts

import (
	"fmt"
	"strings"

	"github.com/aulastudio-aps/gestionale/pkg/db"
)

// Slot is a candidate open shift slot for one date and one fixed
// window. Start/End may be narrower than the window when the configured
// template only partially covers it, in which case Note describes the
// adjusted edge.
type Slot struct {
	Date       string
	Start      string
	End        string
	Window     Window
	Note       string
	TemplateID *int64
}

// ReconcileWeek maps one week's configured slot templates onto the
// fixed daily windows of the given 7 dates (Monday..Sunday) and returns
// the open slots. For each (date, window) pair: a template fully
// covering the window wins outright and the slot is emitted unmodified;
// otherwise the first partially overlapping template clips the slot to
// the intersection and an auto note records which edge moved
// ("apertura posticipata alle HH:MM" / "chiusura anticipata alle
// HH:MM"). Windows with no overlapping template produce nothing.
func ReconcileWeek(templates []db.SlotTemplate, dates []string) ([]Slot, error) {
	var slots []Slot
	for _, date := range dates {
		weekday, err := WeekdayName(date)
		if err != nil {
			return nil, err
		}
		for _, window := range Windows {
			slot, ok, err := reconcileWindow(templates, date, weekday, window)
			if err != nil {
				return nil, err
			}
			if ok {
				slots = append(slots, slot)
			}
		}
	}
	return slots, nil
}

func reconcileWindow(templates []db.SlotTemplate, date, weekday string, window Window) (Slot, bool, error) {
	winStart, err := ToMinutes(window.Start)
	if err != nil {
		return Slot{}, false, fmt.Errorf("failed to parse window start: %w", err)
	}
	winEnd, err := ToMinutes(window.End)
	if err != nil {
		return Slot{}, false, fmt.Errorf("failed to parse window end: %w", err)
	}

	// Full-cover matches beat partial overlaps regardless of order.
	var partial *db.SlotTemplate
	var partialStart, partialEnd int
	for i := range templates {
		tpl := &templates[i]
		if strings.ToLower(tpl.Weekday) != weekday {
			continue
		}
		tplStart, err := ToMinutes(tpl.Start)
		if err != nil {
			return Slot{}, false, fmt.Errorf("failed to parse template start for %s: %w", tpl.Weekday, err)
		}
		tplEnd, err := ToMinutes(tpl.End)
		if err != nil {
			return Slot{}, false, fmt.Errorf("failed to parse template end for %s: %w", tpl.Weekday, err)
		}

		if tplStart <= winStart && tplEnd >= winEnd {
			id := tpl.ID
			return Slot{
				Date:       date,
				Start:      window.Start,
				End:        window.End,
				Window:     window,
				TemplateID: &id,
			}, true, nil
		}

		if partial == nil && tplStart < winEnd && tplEnd > winStart {
			partial = tpl
			partialStart = max(winStart, tplStart)
			partialEnd = min(winEnd, tplEnd)
		}
	}

	if partial == nil {
		return Slot{}, false, nil
	}

	var notes []string
	if partialStart > winStart {
		notes = append(notes, "apertura posticipata alle "+FormatMinutes(partialStart))
	}
	if partialEnd < winEnd {
		notes = append(notes, "chiusura anticipata alle "+FormatMinutes(partialEnd))
	}
	id := partial.ID
	return Slot{
		Date:       date,
		Start:      FormatMinutes(partialStart),
		End:        FormatMinutes(partialEnd),
		Window:     window,
		Note:       strings.Join(notes, ", "),
		TemplateID: &id,
	}, true, nil
}
