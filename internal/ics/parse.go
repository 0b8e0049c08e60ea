package ics

import (
	"bytes"
	"errors"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	appLog "agendawire/internal/log"
	"agendawire/internal/model"
)

// ParseICS parses a single ICS payload into agenda items.
//
//   - It relies on the underlying library's VTIMEZONE/TZID handling to
//     construct proper time.Time values (with Location set).
//   - It detects all-day events by inspecting the DTSTART value format.
//   - A VEVENT without DTEND becomes a NoEndTime item.
//   - STATUS:CANCELLED records an actioned date so the item stops being
//     displayed past its cancellation.
func ParseICS(src Source, body []byte) ([]model.Item, error) {
	if len(body) == 0 {
		return nil, errors.New("empty ICS body")
	}

	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		appLog.Error("ics parse failed", err, "id", src.ID, "url", redactURL(src.URL))
		return nil, err
	}

	items := make([]model.Item, 0)

	for _, comp := range cal.Events() {
		it, perr := parseVEvent(src, comp)
		if perr != nil {
			// Log and skip this event, but keep parsing others.
			appLog.Error("ics vevent parse failed", perr, "id", src.ID, "url", redactURL(src.URL))
			continue
		}
		items = append(items, it)
	}

	appLog.Info("ics parse completed", "id", src.ID, "url", redactURL(src.URL), "item_count", len(items))
	return items, nil
}

func parseVEvent(src Source, ve *ical.VEvent) (model.Item, error) {
	var out model.Item
	out.Source = src.ID

	// UID; the grouping engine requires a stable non-empty id, so fall
	// back to a generated one for feeds that omit it.
	if uidProp := ve.GetProperty(ical.ComponentPropertyUniqueId); uidProp != nil && uidProp.Value != "" {
		out.ID = uidProp.Value
	} else {
		out.ID = uuid.NewString()
	}

	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
		out.Summary = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertyDescription); p != nil {
		out.Description = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertyLocation); p != nil {
		out.Location = p.Value
	}

	// DTSTART / DTEND. The library's helpers handle timezone logic.
	start, err := ve.GetStartAt()
	if err != nil {
		return out, errors.New("missing or invalid DTSTART")
	}
	out.Start = start

	end, endErr := ve.GetEndAt()
	if endErr != nil {
		// No usable DTEND: end mirrors start and must not count as a
		// real duration boundary.
		out.End = start
		out.NoEndTime = true
	} else {
		out.End = end
	}

	// All-day detection: VALUE=DATE or a date-only DTSTART value.
	if dtStartProp := ve.GetProperty(ical.ComponentPropertyDtStart); dtStartProp != nil {
		if params := dtStartProp.ICalParameters; params != nil {
			if vs, ok := params["VALUE"]; ok && len(vs) > 0 && strings.EqualFold(vs[0], "DATE") {
				out.AllDay = true
			}
			if tzs, ok := params["TZID"]; ok && len(tzs) > 0 {
				out.Timezone = tzs[0]
			}
		}
		if !strings.Contains(dtStartProp.Value, "T") {
			out.AllDay = true
		}
	}

	// STATUS drives display semantics: tentative events have no fixed
	// time yet; cancelled events get an authoritative cutoff.
	if p := ve.GetProperty("STATUS"); p != nil {
		switch strings.ToUpper(strings.TrimSpace(p.Value)) {
		case "TENTATIVE":
			out.TimeToBeConfirmed = true
		case "CANCELLED":
			out.ActionedDate = actionedDate(ve, out.Start)
		}
	}

	return out, nil
}

// actionedDate derives the cutoff instant for a cancelled event:
// LAST-MODIFIED when present, then DTSTAMP, then the event start.
func actionedDate(ve *ical.VEvent, fallback time.Time) time.Time {
	// Use raw property names to avoid constant-name drift in the library.
	for _, name := range []ical.ComponentProperty{"LAST-MODIFIED", "DTSTAMP"} {
		if p := ve.GetProperty(name); p != nil {
			if t, err := parseICSTime(p.Value); err == nil {
				return t
			}
		}
	}
	return fallback
}

// parseICSTime parses a basic ICS date/date-time string into time.Time.
// This is a simplified helper for properties where full parameter
// context is not needed.
func parseICSTime(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, errors.New("empty time value")
	}

	// UTC form, e.g., 20250101T090000Z
	if strings.HasSuffix(v, "Z") {
		const layout = "20060102T150405Z"
		return time.Parse(layout, v)
	}

	// Local date-time, e.g., 20250101T090000
	if strings.Contains(v, "T") {
		const layout = "20060102T150405"
		return time.ParseInLocation(layout, v, time.Local)
	}

	// Date-only (all-day), e.g., 20250101
	const layoutDate = "20060102"
	return time.ParseInLocation(layoutDate, v, time.Local)
}
