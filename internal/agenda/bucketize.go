package agenda

import (
	"sort"
	"time"

	appLog "agendawire/internal/log"
	"agendawire/internal/model"
)

// maxWindowDays caps an item's walked window when the caller supplies no
// upper bound, so a single runaway item cannot blow up the list size.
const maxWindowDays = 10

// GrouperConfig carries the explicit configuration the bucketizer needs;
// nothing is read from process-wide state.
type GrouperConfig struct {
	// WeekStart is the weekday that begins a week bucket.
	WeekStart time.Weekday
}

// Grouper buckets items into day/week/month groups. It is stateless
// between calls and safe for concurrent use.
type Grouper struct {
	weekStart time.Weekday
}

func NewGrouper(cfg GrouperConfig) *Grouper {
	return &Grouper{weekStart: cfg.WeekStart}
}

// BucketizeOptions are the per-invocation knobs of Bucketize.
type BucketizeOptions struct {
	// MinDate / MaxDate clamp every item's window when non-nil. They are
	// independent clamps applied in a fixed order, so MaxDate before
	// MinDate yields an empty window rather than an error.
	MinDate *Date
	MaxDate *Date

	Granularity model.Granularity

	// Featured records every touched bucket as primary with no hidden
	// bookkeeping ("featured only" mode).
	Featured bool
}

// groupAccum accumulates one bucket while walking items. Primary order:
// to-be-confirmed items first, then timed items, each in insertion order.
type groupAccum struct {
	key     string
	untimed []string
	timed   []string
	hidden  []string
}

// Bucketize walks every item across its display window and assigns it to
// granularity buckets as primary or hidden. Items with a zero start are
// skipped rather than failing the pass; the input collection and its
// nested entries are never modified. The result depends only on the
// arguments, so identical invocations produce identical output.
func (g *Grouper) Bucketize(items []model.Item, opts BucketizeOptions) []model.Group {
	accums := make(map[string]*groupAccum)
	var order []string

	for _, it := range items {
		if it.Start.IsZero() {
			appLog.Debug("bucketize: skipping item without start", "id", it.ID)
			continue
		}

		effStart, effEnd := EffectiveInterval(it)
		kind := Classify(effStart, effEnd, it.AllDay, it.NoEndTime)
		extras := ExtraDates(it)

		startDay := DateOf(effStart)
		endDay := DateOf(effEnd)

		windowStart, windowEnd := itemWindow(it, startDay, endDay, extras, opts)

		startKey := g.keyFor(startDay, opts.Granularity)
		seen := make(map[string]bool)

		for day := windowStart; !day.After(windowEnd); day = day.AddDays(1) {
			key := g.keyFor(day, opts.Granularity)
			if seen[key] {
				continue
			}
			if !withinInterval(day, startDay, endDay) && !containsDate(extras, day) {
				continue
			}
			seen[key] = true

			acc := accums[key]
			if acc == nil {
				acc = &groupAccum{key: key}
				accums[key] = acc
				order = append(order, key)
			}

			switch {
			case opts.Featured:
				acc.timed = append(acc.timed, it.ID)
			case key != startKey && kind == model.KindMultiDay:
				acc.hidden = append(acc.hidden, it.ID)
			case it.TimeToBeConfirmed:
				acc.untimed = append(acc.untimed, it.ID)
			default:
				acc.timed = append(acc.timed, it.ID)
			}
		}
	}

	groups := make([]model.Group, 0, len(order))
	for _, key := range order {
		acc := accums[key]
		primary := make([]string, 0, len(acc.untimed)+len(acc.timed))
		primary = append(primary, acc.untimed...)
		primary = append(primary, acc.timed...)
		groups = append(groups, model.Group{
			Key:        key,
			PrimaryIDs: primary,
			HiddenIDs:  acc.hidden,
		})
	}
	return groups
}

// itemWindow computes the inclusive civil-day range an item is walked
// over: explicit display overrides win, otherwise the natural interval
// extended by extra dates, with the end padded by one day to keep
// all-day items visible for their full span. An actioned date replaces
// the natural end as the authoritative cutoff.
func itemWindow(it model.Item, startDay, endDay Date, extras []Date, opts BucketizeOptions) (Date, Date) {
	var windowStart Date
	if !it.DisplayFrom.IsZero() {
		windowStart = DateOf(it.DisplayFrom)
	} else {
		windowStart = startDay
		for _, d := range extras {
			if d.Before(windowStart) {
				windowStart = d
			}
		}
	}
	if opts.MinDate != nil && windowStart.Before(*opts.MinDate) {
		windowStart = *opts.MinDate
	}

	var windowEnd Date
	if !it.DisplayTo.IsZero() {
		windowEnd = DateOf(it.DisplayTo)
	} else {
		if !it.ActionedDate.IsZero() {
			windowEnd = DateOf(it.ActionedDate)
		} else {
			windowEnd = endDay.AddDays(1)
		}
		for _, d := range extras {
			if d.After(windowEnd) {
				windowEnd = d
			}
		}
	}
	if opts.MaxDate != nil {
		if windowEnd.After(*opts.MaxDate) {
			windowEnd = *opts.MaxDate
		}
	} else if ceiling := windowStart.AddDays(maxWindowDays); windowEnd.After(ceiling) {
		windowEnd = ceiling
	}

	return windowStart, windowEnd
}

// withinInterval reports whether a walked day falls inside the item's
// effective interval at day resolution. The interval endpoints already
// carry the right civil-date space: UTC for all-day items, the item's
// own zone otherwise.
func withinInterval(day, startDay, endDay Date) bool {
	return !day.Before(startDay) && !day.After(endDay)
}

func containsDate(dates []Date, day Date) bool {
	for _, d := range dates {
		if d.Equal(day) {
			return true
		}
	}
	return false
}

func (g *Grouper) keyFor(day Date, gran model.Granularity) string {
	switch gran {
	case model.GranularityWeek:
		return day.StartOfWeek(g.weekStart).Key()
	case model.GranularityMonth:
		return day.StartOfMonth().Key()
	default:
		return day.Key()
	}
}

// SortGroups stable-sorts groups ascending by the civil date their key
// encodes. Keys are unique per invocation, so ties cannot occur; a key
// that fails to parse sorts last.
func SortGroups(groups []model.Group) {
	sort.SliceStable(groups, func(i, j int) bool {
		a, errA := ParseDateKey(groups[i].Key)
		b, errB := ParseDateKey(groups[j].Key)
		if errA != nil || errB != nil {
			return errB != nil && errA == nil
		}
		return a.Before(b)
	})
}
