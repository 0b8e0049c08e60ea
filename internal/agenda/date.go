package agenda

import (
	"fmt"
	"time"
)

// dateKeyLayout is the canonical, format-stable group key layout.
const dateKeyLayout = "02-01-2006"

// Date is an immutable civil date: a calendar day independent of
// time-of-day and timezone offset. Every transformation returns a new
// value; a Date handed to a function can never be mutated by it.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf extracts the civil date of an instant in the instant's own
// location. Callers choose the location by converting t first.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDateKey parses a DD-MM-YYYY group key back into a Date.
func ParseDateKey(key string) (Date, error) {
	t, err := time.Parse(dateKeyLayout, key)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date key %q: %w", key, err)
	}
	return DateOf(t), nil
}

// Time returns the date's midnight in UTC.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// AddDays returns the date n civil days later (earlier for negative n).
func (d Date) AddDays(n int) Date {
	return DateOf(d.Time().AddDate(0, 0, n))
}

func (d Date) Before(o Date) bool {
	if d.Year != o.Year {
		return d.Year < o.Year
	}
	if d.Month != o.Month {
		return d.Month < o.Month
	}
	return d.Day < o.Day
}

func (d Date) After(o Date) bool {
	return o.Before(d)
}

func (d Date) Equal(o Date) bool {
	return d == o
}

// Key renders the date as a DD-MM-YYYY group key.
func (d Date) Key() string {
	return d.Time().Format(dateKeyLayout)
}

func (d Date) String() string {
	return d.Key()
}

func (d Date) Weekday() time.Weekday {
	return d.Time().Weekday()
}

// StartOfWeek returns the most recent day (possibly d itself) that falls
// on the given week-start weekday.
func (d Date) StartOfWeek(weekStart time.Weekday) Date {
	diff := int(d.Weekday()) - int(weekStart)
	if diff < 0 {
		diff += 7
	}
	return d.AddDays(-diff)
}

// StartOfMonth returns the first day of the date's month.
func (d Date) StartOfMonth() Date {
	return Date{Year: d.Year, Month: d.Month, Day: 1}
}
