package generic

import "fmt"

// =============================================================================
// PERIOD - The window a team view covers
// =============================================================================

// Period is an inclusive date range [Start, End].
//
// Examples:
//   - Calendar month January 2024: Jan 1 - Jan 31
//   - Calendar year 2024: Jan 1 - Dec 31
//   - ISO week: Monday - Sunday
type Period struct {
	Start TimePoint
	End   TimePoint
}

// Contains returns true if the time point is within the period [Start, End]
func (p Period) Contains(t TimePoint) bool {
	return t.AfterOrEqual(p.Start) && t.BeforeOrEqual(p.End)
}

// Overlaps reports whether [from, to] shares at least one day with p.
func (p Period) Overlaps(from, to TimePoint) bool {
	return from.BeforeOrEqual(p.End) && to.AfterOrEqual(p.Start)
}

// Days returns all days in the period as a slice of TimePoints.
func (p Period) Days() []TimePoint {
	if p.End.Before(p.Start) {
		return nil
	}
	days := make([]TimePoint, 0, p.Len())
	current := p.Start
	for current.BeforeOrEqual(p.End) {
		days = append(days, current)
		current = current.AddDays(1)
	}
	return days
}

// Len is the number of days in the period.
func (p Period) Len() int {
	if p.End.Before(p.Start) {
		return 0
	}
	return DaysBetween(p.Start, p.End) + 1
}

// Validate rejects periods whose end is before their start.
func (p Period) Validate() error {
	if p.End.Before(p.Start) {
		return fmt.Errorf("%w: %s", ErrInvalidPeriod, p)
	}
	return nil
}

// String returns a string representation of the period.
func (p Period) String() string {
	return "[" + p.Start.String() + ", " + p.End.String() + "]"
}

// PeriodType defines how the period around a base date is calculated
type PeriodType string

const (
	PeriodCalendarMonth PeriodType = "calendar_month" // 1st - last day of month
	PeriodCalendarYear  PeriodType = "calendar_year"  // Jan 1 - Dec 31
	PeriodISOWeek       PeriodType = "iso_week"       // Monday - Sunday
)

// ParsePeriodType accepts the string forms above; empty means calendar month.
func ParsePeriodType(s string) (PeriodType, error) {
	switch PeriodType(s) {
	case "":
		return PeriodCalendarMonth, nil
	case PeriodCalendarMonth, PeriodCalendarYear, PeriodISOWeek:
		return PeriodType(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownPeriodType, s)
	}
}

// =============================================================================
// PERIOD CALCULATOR - Determines which period a date falls into
// =============================================================================

// PeriodFor returns the period of the given type that contains date.
// Unknown types fall back to the calendar month.
func PeriodFor(date TimePoint, pt PeriodType) Period {
	switch pt {
	case PeriodCalendarYear:
		return Period{
			Start: StartOfYear(date.Year()),
			End:   EndOfYear(date.Year()),
		}

	case PeriodISOWeek:
		start := StartOfISOWeek(date)
		return Period{Start: start, End: start.AddDays(6)}

	default:
		return Period{
			Start: StartOfMonth(date.Year(), date.Month()),
			End:   EndOfMonth(date.Year(), date.Month()),
		}
	}
}

// NextPeriod returns the period following this one
func (p Period) NextPeriod() Period {
	newStart := p.End.AddDays(1)
	duration := DaysBetween(p.Start, p.End)
	newEnd := newStart.AddDays(duration)
	return Period{Start: newStart, End: newEnd}
}

// PreviousPeriod returns the period before this one
func (p Period) PreviousPeriod() Period {
	duration := DaysBetween(p.Start, p.End)
	newEnd := p.Start.AddDays(-1)
	newStart := newEnd.AddDays(-duration)
	return Period{Start: newStart, End: newEnd}
}
