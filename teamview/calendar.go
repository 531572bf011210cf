/*
calendar.go - Per-member day classification

PURPOSE:
  BuildCalendar turns one member's inputs into one classified day per date
  of the period. It is pure: no I/O, no clock, same input same output.

PRECEDENCE (first match wins):
  ┌───┬──────────────────────────────┬─────────────────────────────┐
  │ 1 │ date is a public holiday     │ public_holiday              │
  │ 2 │ date has leave entries       │ leave / partial_leave       │
  │ 3 │ schedule says non-working    │ non_working                 │
  │ 4 │ otherwise                    │ working                     │
  └───┴──────────────────────────────┴─────────────────────────────┘

  The leave annotation is attached whenever a date has leave entries, even
  when rule 1 decides the status or the date is a scheduled day off.

COMBINING OVERLAPPING LEAVES:
  Coverage is summed over the distinct day parts and capped at one day, so
  morning + afternoon is a full day while two mornings stay a half day. A
  full-day entry always makes the day full.

SEE ALSO:
  - service.go: Calls BuildCalendar once per member
  - leave.go: LeaveDayEntry
  - schedule.go: Schedule (nil means every day is a working day)
*/
package teamview

import (
	"github.com/warp/team-calendar/generic"
)

// BuildCalendar classifies every date of period for one member.
func BuildCalendar(
	period generic.Period,
	holidays HolidaySet,
	leaveDays []LeaveDayEntry,
	schedule *Schedule,
) []DayClassification {
	leaves := annotateLeaves(leaveDays)

	dates := period.Days()
	days := make([]DayClassification, 0, len(dates))
	for _, date := range dates {
		part := schedule.WorkPartOn(date)
		day := DayClassification{
			Date:                date,
			IsWeekend:           date.IsWeekend(),
			ScheduledNonWorking: !part.IsWorking(),
			WorkPart:            part,
			Leave:               leaves[date.Key()],
		}

		if h, ok := holidays.Lookup(date); ok {
			holiday := h
			day.Holiday = &holiday
		}

		day.Status = classify(day)
		days = append(days, day)
	}
	return days
}

func classify(day DayClassification) DayStatus {
	switch {
	case day.Holiday != nil:
		return StatusPublicHoliday
	case day.Leave != nil && day.Leave.IsFull():
		return StatusLeave
	case day.Leave != nil:
		return StatusPartialLeave
	case day.ScheduledNonWorking:
		return StatusNonWorking
	default:
		return StatusWorking
	}
}

// annotateLeaves groups entries by date, in input order.
func annotateLeaves(entries []LeaveDayEntry) map[string]*LeaveAnnotation {
	byDate := make(map[string]*LeaveAnnotation)
	for _, e := range entries {
		key := e.Date.Key()
		a, ok := byDate[key]
		if !ok {
			a = &LeaveAnnotation{Coverage: generic.NoDay()}
			byDate[key] = a
		}
		if !containsPart(a.Parts, e.Part) {
			a.Parts = append(a.Parts, e.Part)
			a.Coverage = a.Coverage.Add(e.Coverage)
		}
		if e.Leave != nil && !containsRecord(a.Records, e.Leave) {
			a.Records = append(a.Records, e.Leave)
		}
	}
	return byDate
}

func containsPart(parts []DayPart, p DayPart) bool {
	for _, existing := range parts {
		if existing == p {
			return true
		}
	}
	return false
}

func containsRecord(records []*LeaveRecord, r *LeaveRecord) bool {
	for _, existing := range records {
		if existing == r || (existing.ID != "" && existing.ID == r.ID) {
			return true
		}
	}
	return false
}
