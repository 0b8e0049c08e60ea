package agenda

import (
	"testing"
	"time"
)

func TestDateKey(t *testing.T) {
	tests := []struct {
		date Date
		want string
	}{
		{Date{2018, time.October, 15}, "15-10-2018"},
		{Date{2018, time.January, 1}, "01-01-2018"},
		{Date{2024, time.December, 31}, "31-12-2024"},
	}
	for _, tt := range tests {
		if got := tt.date.Key(); got != tt.want {
			t.Errorf("Key(%v) = %q, want %q", tt.date, got, tt.want)
		}
	}
}

func TestParseDateKeyRoundTrip(t *testing.T) {
	d := Date{Year: 2018, Month: time.October, Day: 15}
	parsed, err := ParseDateKey(d.Key())
	if err != nil {
		t.Fatalf("ParseDateKey: %v", err)
	}
	if parsed != d {
		t.Errorf("round trip = %v, want %v", parsed, d)
	}
}

func TestParseDateKeyRejectsGarbage(t *testing.T) {
	if _, err := ParseDateKey("2018-10-15"); err == nil {
		t.Error("expected error for ISO-ordered key")
	}
	if _, err := ParseDateKey("nonsense"); err == nil {
		t.Error("expected error for non-date key")
	}
}

func TestDateAddDays(t *testing.T) {
	tests := []struct {
		date Date
		n    int
		want Date
	}{
		{Date{2018, time.October, 15}, 1, Date{2018, time.October, 16}},
		{Date{2018, time.October, 31}, 1, Date{2018, time.November, 1}},
		{Date{2018, time.December, 31}, 1, Date{2019, time.January, 1}},
		{Date{2020, time.February, 28}, 1, Date{2020, time.February, 29}},
		{Date{2018, time.October, 15}, -15, Date{2018, time.September, 30}},
	}
	for _, tt := range tests {
		if got := tt.date.AddDays(tt.n); got != tt.want {
			t.Errorf("AddDays(%v, %d) = %v, want %v", tt.date, tt.n, got, tt.want)
		}
	}
}

func TestDateOrdering(t *testing.T) {
	a := Date{2018, time.October, 15}
	b := Date{2018, time.October, 16}
	c := Date{2018, time.November, 1}

	if !a.Before(b) || !b.Before(c) {
		t.Error("expected a < b < c")
	}
	if b.Before(a) || a.After(b) {
		t.Error("ordering is not antisymmetric")
	}
	if !a.Equal(a) || a.Equal(b) {
		t.Error("Equal misbehaves")
	}
}

func TestStartOfWeek(t *testing.T) {
	tests := []struct {
		date      Date
		weekStart time.Weekday
		want      Date
	}{
		// 2018-10-15 is a Monday.
		{Date{2018, time.October, 15}, time.Monday, Date{2018, time.October, 15}},
		{Date{2018, time.October, 18}, time.Monday, Date{2018, time.October, 15}},
		// A Sunday belongs to the week that started the previous Monday.
		{Date{2018, time.October, 21}, time.Monday, Date{2018, time.October, 15}},
		{Date{2018, time.October, 21}, time.Sunday, Date{2018, time.October, 21}},
		{Date{2018, time.October, 20}, time.Sunday, Date{2018, time.October, 14}},
	}
	for _, tt := range tests {
		if got := tt.date.StartOfWeek(tt.weekStart); got != tt.want {
			t.Errorf("StartOfWeek(%v, %v) = %v, want %v", tt.date, tt.weekStart, got, tt.want)
		}
	}
}

func TestStartOfMonth(t *testing.T) {
	got := Date{2018, time.October, 15}.StartOfMonth()
	want := Date{2018, time.October, 1}
	if got != want {
		t.Errorf("StartOfMonth = %v, want %v", got, want)
	}
}

func TestDateOfUsesInstantLocation(t *testing.T) {
	eastern, err := time.LoadLocation("US/Eastern")
	if err != nil {
		t.Fatal(err)
	}
	// 01:00 UTC on the 24th is still the 23rd in New York.
	instant := time.Date(2024, 5, 24, 1, 0, 0, 0, time.UTC)

	if got := DateOf(instant); got != (Date{2024, time.May, 24}) {
		t.Errorf("DateOf(UTC) = %v, want 24-05-2024", got)
	}
	if got := DateOf(instant.In(eastern)); got != (Date{2024, time.May, 23}) {
		t.Errorf("DateOf(Eastern) = %v, want 23-05-2024", got)
	}
}
