package generic_test

import (
	"errors"
	"testing"
	"time"

	"github.com/warp/team-calendar/generic"
)

func date(year int, month time.Month, day int) generic.TimePoint {
	return generic.NewTimePoint(year, month, day)
}

// =============================================================================
// PERIOD CALCULATION
// =============================================================================

func TestPeriodFor(t *testing.T) {
	tests := []struct {
		name      string
		date      generic.TimePoint
		pt        generic.PeriodType
		wantStart generic.TimePoint
		wantEnd   generic.TimePoint
		wantDays  int
	}{
		{"month", date(2024, time.January, 15), generic.PeriodCalendarMonth, date(2024, time.January, 1), date(2024, time.January, 31), 31},
		{"leap february", date(2024, time.February, 29), generic.PeriodCalendarMonth, date(2024, time.February, 1), date(2024, time.February, 29), 29},
		{"year", date(2024, time.June, 3), generic.PeriodCalendarYear, date(2024, time.January, 1), date(2024, time.December, 31), 366},
		{"iso week from wednesday", date(2024, time.January, 10), generic.PeriodISOWeek, date(2024, time.January, 8), date(2024, time.January, 14), 7},
		{"iso week from sunday", date(2024, time.January, 14), generic.PeriodISOWeek, date(2024, time.January, 8), date(2024, time.January, 14), 7},
		{"iso week from monday", date(2024, time.January, 1), generic.PeriodISOWeek, date(2024, time.January, 1), date(2024, time.January, 7), 7},
		{"unknown falls back to month", date(2024, time.March, 5), generic.PeriodType("decade"), date(2024, time.March, 1), date(2024, time.March, 31), 31},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := generic.PeriodFor(tt.date, tt.pt)
			if !p.Start.Equal(tt.wantStart) || !p.End.Equal(tt.wantEnd) {
				t.Errorf("PeriodFor(%s, %s) = %s, want [%s, %s]", tt.date, tt.pt, p, tt.wantStart, tt.wantEnd)
			}
			if got := len(p.Days()); got != tt.wantDays {
				t.Errorf("len(Days()) = %d, want %d", got, tt.wantDays)
			}
			if p.Len() != tt.wantDays {
				t.Errorf("Len() = %d, want %d", p.Len(), tt.wantDays)
			}
			if !p.Contains(tt.date) {
				t.Errorf("period %s should contain its base date %s", p, tt.date)
			}
		})
	}
}

func TestPeriod_DaysAreConsecutive(t *testing.T) {
	p := generic.PeriodFor(date(2024, time.March, 10), generic.PeriodCalendarMonth)

	days := p.Days()
	for i := 1; i < len(days); i++ {
		if generic.DaysBetween(days[i-1], days[i]) != 1 {
			t.Fatalf("days %s and %s are not consecutive", days[i-1], days[i])
		}
	}
	if !days[0].Equal(p.Start) || !days[len(days)-1].Equal(p.End) {
		t.Errorf("Days() should start at Start and end at End")
	}
}

func TestPeriod_Overlaps(t *testing.T) {
	jan := generic.PeriodFor(date(2024, time.January, 1), generic.PeriodCalendarMonth)

	tests := []struct {
		name     string
		from, to generic.TimePoint
		want     bool
	}{
		{"inside", date(2024, time.January, 10), date(2024, time.January, 12), true},
		{"straddles start", date(2023, time.December, 30), date(2024, time.January, 2), true},
		{"straddles end", date(2024, time.January, 31), date(2024, time.February, 2), true},
		{"covers", date(2023, time.December, 1), date(2024, time.February, 28), true},
		{"before", date(2023, time.December, 1), date(2023, time.December, 31), false},
		{"after", date(2024, time.February, 1), date(2024, time.February, 2), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := jan.Overlaps(tt.from, tt.to); got != tt.want {
				t.Errorf("Overlaps(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestPeriod_Validate(t *testing.T) {
	bad := generic.Period{Start: date(2024, time.January, 2), End: date(2024, time.January, 1)}

	err := bad.Validate()
	if !errors.Is(err, generic.ErrInvalidPeriod) {
		t.Fatalf("Validate() = %v, want ErrInvalidPeriod", err)
	}
	if !generic.IsClientError(err) {
		t.Errorf("invalid period should be a client error")
	}
	if bad.Days() != nil || bad.Len() != 0 {
		t.Errorf("an inverted period has no days")
	}
}

func TestPeriod_NextAndPrevious(t *testing.T) {
	week := generic.PeriodFor(date(2024, time.January, 10), generic.PeriodISOWeek)

	next := week.NextPeriod()
	if !next.Start.Equal(date(2024, time.January, 15)) || !next.End.Equal(date(2024, time.January, 21)) {
		t.Errorf("NextPeriod() = %s", next)
	}
	prev := week.PreviousPeriod()
	if !prev.Start.Equal(date(2024, time.January, 1)) || !prev.End.Equal(date(2024, time.January, 7)) {
		t.Errorf("PreviousPeriod() = %s", prev)
	}
}

func TestParsePeriodType(t *testing.T) {
	for _, s := range []string{"", "calendar_month", "calendar_year", "iso_week"} {
		if _, err := generic.ParsePeriodType(s); err != nil {
			t.Errorf("ParsePeriodType(%q) unexpected error: %v", s, err)
		}
	}

	pt, _ := generic.ParsePeriodType("")
	if pt != generic.PeriodCalendarMonth {
		t.Errorf("empty period type = %q, want calendar_month", pt)
	}

	_, err := generic.ParsePeriodType("fortnight")
	if !errors.Is(err, generic.ErrUnknownPeriodType) {
		t.Errorf("ParsePeriodType(fortnight) = %v, want ErrUnknownPeriodType", err)
	}
}
