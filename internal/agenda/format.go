package agenda

import (
	"strings"
	"time"

	appLog "agendawire/internal/log"
	"agendawire/internal/model"
)

// FormatterConfig is injected at construction time; the formatter reads
// no process-wide locale or timezone state.
type FormatterConfig struct {
	// DateLayout / TimeLayout are Go reference layouts for the date and
	// time tokens of the rendered string.
	DateLayout string
	TimeLayout string
	// Local is the viewer's timezone, used when FormatOptions.LocalTimeZone
	// is set. Defaults to time.Local.
	Local *time.Location
}

// FormatOptions select per-call rendering behavior.
type FormatOptions struct {
	// LocalTimeZone renders instants in the viewer's zone and omits the
	// zone suffix.
	LocalTimeZone bool
	// OnlyDates suppresses time-of-day tokens.
	OnlyDates bool
}

// Formatter renders human-readable agenda date strings.
type Formatter struct {
	dateLayout string
	timeLayout string
	local      *time.Location
}

func NewFormatter(cfg FormatterConfig) *Formatter {
	f := &Formatter{
		dateLayout: cfg.DateLayout,
		timeLayout: cfg.TimeLayout,
		local:      cfg.Local,
	}
	if f.dateLayout == "" {
		f.dateLayout = "02/01/2006"
	}
	if f.timeLayout == "" {
		f.timeLayout = "15:04"
	}
	if f.local == nil {
		f.local = time.Local
	}
	return f
}

// AgendaDate renders the date/time line for an item. Branches are
// evaluated top to bottom, first match wins; the final branch is an
// escape hatch for a classifier/formatter mismatch and logs a warning
// before returning a best-effort string.
func (f *Formatter) AgendaDate(it model.Item, opts FormatOptions) string {
	start, end := EffectiveInterval(it)
	if opts.LocalTimeZone {
		start = start.In(f.local)
		end = end.In(f.local)
	}

	kind := Classify(start, end, it.AllDay, it.NoEndTime)
	sameDay := DateOf(start).Equal(DateOf(end))

	tz := ""
	if !opts.LocalTimeZone {
		tz = zoneLabel(start)
	}

	startDate := start.Format(f.dateLayout)
	endDate := end.Format(f.dateLayout)
	startTime := start.Format(f.timeLayout)
	endTime := end.Format(f.timeLayout)

	fullDaySpan := start.Hour() == 0 && start.Minute() == 0 &&
		end.Hour() == 23 && end.Minute() == 59

	switch {
	case it.TimeToBeConfirmed && !sameDay:
		return startDate + " to " + endDate + " (Time to be confirmed)"
	case it.TimeToBeConfirmed:
		return startDate + " (Time to be confirmed)"
	case !sameDay && (it.AllDay || opts.OnlyDates || fullDaySpan):
		return startDate + " to " + endDate
	case sameDay && (it.AllDay || opts.OnlyDates || kind == model.KindAllDay):
		return startDate
	case it.NoEndTime && !sameDay:
		return joined(startTime+" "+startDate+" - "+endDate, tz)
	case it.NoEndTime || kind == model.KindNoDuration:
		return joined(startTime+" "+startDate, tz)
	case kind == model.KindRegular:
		return joined(startTime+" - "+endTime+" "+startDate, tz)
	case kind == model.KindMultiDay:
		return joined(startTime+" "+startDate+" to "+endTime+" "+endDate, tz)
	default:
		appLog.Warn("agenda date fell through all formatter branches",
			"item", it.ID, "kind", kind.String())
		return joined(startTime+" "+startDate+" to "+endTime+" "+endDate, tz)
	}
}

func joined(s, tz string) string {
	if tz == "" {
		return s
	}
	return s + " " + tz
}

// zoneLabel returns a short zone label for an instant. Zones without a
// letter abbreviation format as a bare numeric offset like "+05", which
// is rewritten to the friendlier "GMT+5" form.
func zoneLabel(t time.Time) string {
	abbrev := t.Format("MST")
	if abbrev == "" || (abbrev[0] != '+' && abbrev[0] != '-') {
		return abbrev
	}

	sign := string(abbrev[0])
	digits := abbrev[1:]

	hours := digits
	minutes := ""
	if i := strings.IndexByte(digits, ':'); i >= 0 {
		hours, minutes = digits[:i], digits[i+1:]
	} else if len(digits) == 4 {
		hours, minutes = digits[:2], digits[2:]
	}

	hours = strings.TrimLeft(hours, "0")
	if hours == "" {
		hours = "0"
	}

	out := "GMT" + sign + hours
	if minutes != "" && minutes != "00" {
		out += ":" + minutes
	}
	return out
}
