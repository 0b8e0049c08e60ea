package model

import (
	"fmt"
	"strings"
	"time"
)

// ScheduleKind classifies how an item occupies time for display purposes.
type ScheduleKind int

const (
	// KindRegular is a timed event contained within a single day.
	KindRegular ScheduleKind = iota
	// KindAllDay covers exactly one civil day with no meaningful time of day.
	KindAllDay
	// KindMultiDay spans more than one civil day.
	KindMultiDay
	// KindNoDuration has a start but no usable duration.
	KindNoDuration
)

func (k ScheduleKind) String() string {
	switch k {
	case KindRegular:
		return "regular"
	case KindAllDay:
		return "all-day"
	case KindMultiDay:
		return "multi-day"
	case KindNoDuration:
		return "no-duration"
	default:
		return fmt.Sprintf("schedule-kind(%d)", int(k))
	}
}

// Granularity selects how calendar days are folded into group buckets.
type Granularity int

const (
	GranularityDay Granularity = iota
	GranularityWeek
	GranularityMonth
)

func (g Granularity) String() string {
	switch g {
	case GranularityWeek:
		return "week"
	case GranularityMonth:
		return "month"
	default:
		return "day"
	}
}

// ParseGranularity parses a user-supplied granularity name.
func ParseGranularity(s string) (Granularity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "day":
		return GranularityDay, nil
	case "week":
		return GranularityWeek, nil
	case "month":
		return GranularityMonth, nil
	default:
		return GranularityDay, fmt.Errorf("unknown granularity %q", s)
	}
}

// Coverage is a scheduled piece of work attached to a planning entry.
type Coverage struct {
	ID string
	// PlanningID references the owning planning entry.
	PlanningID string
	// Scheduled is the coverage's own schedule; zero when unscheduled.
	Scheduled time.Time
}

// Planning is a nested planning entry carried by an item. Its civil
// scheduled date can pull the parent item onto days outside the item's
// own start/end interval.
type Planning struct {
	ID            string
	ScheduledDate time.Time
	Coverages     []Coverage
}

// SearchMatch names which nested entities matched an external search
// filter. When present it restricts extra-date computation to the days
// that explain the match.
type SearchMatch struct {
	// PlanningIDs lists matched planning entry ids.
	PlanningIDs []string
	// CoverageIDs lists matched coverage ids; nil means every coverage
	// of a matched planning entry participates.
	CoverageIDs []string
}

// Item is a calendar-bound event or planning entry as supplied to the
// grouping engine. Items are treated as immutable snapshots; the engine
// never mutates them.
type Item struct {
	ID     string
	Source string

	Summary     string
	Description string
	Location    string

	Start time.Time
	End   time.Time
	// Timezone is the IANA zone name attached to the instants; empty
	// means the instants' own locations are authoritative.
	Timezone string

	// AllDay marks date-only semantics: instants are compared as UTC
	// civil dates, ignoring time of day and local offset.
	AllDay bool
	// NoEndTime marks an end instant that must not be treated as a real
	// duration boundary.
	NoEndTime bool
	// TimeToBeConfirmed marks an item whose time component is not fixed.
	TimeToBeConfirmed bool

	// ActionedDate, when non-zero, is the authoritative display cutoff
	// (e.g. a cancellation or postponement date).
	ActionedDate time.Time

	// DisplayFrom / DisplayTo bypass the natural interval for windowing
	// when non-zero.
	DisplayFrom time.Time
	DisplayTo   time.Time

	// ExtraDisplayDates are explicit additional civil days the item must
	// be shown on.
	ExtraDisplayDates []time.Time

	Plans       []Planning
	SearchMatch *SearchMatch
}

// Group is one day/week/month bucket of the agenda list.
//
// PrimaryIDs and HiddenIDs are disjoint for a given group: primary means
// the bucket is the item's owning day, hidden means the item merely spans
// through it as part of a multi-day run.
type Group struct {
	// Key is the canonical bucket day in DD-MM-YYYY form. For week and
	// month granularity it is the week-start / month-start day.
	Key        string
	PrimaryIDs []string
	HiddenIDs  []string
}

// ListRow is one rendered row of the expanded agenda list. Ephemeral:
// recomputed on every render pass.
type ListRow struct {
	ItemID   string
	GroupKey string
	// PlanID is the matched planning entry for the row's day; empty when
	// the item has no planning entry scheduled on that day.
	PlanID string
}
