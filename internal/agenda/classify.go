package agenda

import (
	"time"

	"agendawire/internal/model"
)

// minutesPerDay is the duration threshold separating all-day from
// multi-day items.
const minutesPerDay = 24 * 60

// Classify determines the schedule kind of an interval. The rules are
// evaluated in order; an end before start is not an error and falls
// through to KindRegular, which callers must treat as a consumer-visible
// edge case rather than a defect.
func Classify(start, end time.Time, allDay, noEndTime bool) model.ScheduleKind {
	minutes := int(end.Sub(start).Minutes())
	sameDay := DateOf(start).Equal(DateOf(end))

	switch {
	case allDay && minutes > 0:
		return model.KindMultiDay
	case allDay:
		return model.KindAllDay
	case noEndTime && !sameDay:
		return model.KindMultiDay
	case noEndTime:
		return model.KindNoDuration
	case minutes > minutesPerDay || !sameDay:
		return model.KindMultiDay
	case minutes == minutesPerDay && sameDay:
		return model.KindAllDay
	case minutes == 0:
		return model.KindNoDuration
	default:
		return model.KindRegular
	}
}

// ClassifyItem classifies an item using its effective interval. Exposed
// so callers can branch styling on kind without re-deriving it.
func ClassifyItem(it model.Item) model.ScheduleKind {
	start, end := EffectiveInterval(it)
	return Classify(start, end, it.AllDay, it.NoEndTime)
}

// EffectiveInterval resolves the start and end instants used for
// grouping. All-day items are normalized to UTC midnight of their civil
// date, discarding time-of-day and offset; timed items are converted
// into the item's zone when one is named. A missing end falls back to
// the effective start. Pure: the item is never modified.
func EffectiveInterval(it model.Item) (start, end time.Time) {
	loc := locationOf(it.Timezone)

	start = effectiveInstant(it.Start, it.AllDay, loc)
	if it.End.IsZero() {
		return start, start
	}
	return start, effectiveInstant(it.End, it.AllDay, loc)
}

func effectiveInstant(t time.Time, allDay bool, loc *time.Location) time.Time {
	if allDay {
		u := t.UTC()
		return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
	}
	if loc != nil {
		return t.In(loc)
	}
	return t
}

// locationOf resolves an IANA zone name, returning nil when the name is
// empty or unknown so the instants' own locations stay authoritative.
func locationOf(name string) *time.Location {
	if name == "" {
		return nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil
	}
	return loc
}
