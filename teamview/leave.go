package teamview

import (
	"context"
	"fmt"
	"sort"

	"github.com/warp/team-calendar/generic"
)

// =============================================================================
// LEAVE RECORD
// =============================================================================

type LeaveID string

type LeaveStatus string

const (
	LeavePending  LeaveStatus = "pending"
	LeaveApproved LeaveStatus = "approved"
	LeaveRejected LeaveStatus = "rejected"
	LeaveCanceled LeaveStatus = "canceled"
)

// ShownOnCalendar reports whether leaves in this status appear in the team
// view. Pending requests are shown so managers see them before approval.
func (s LeaveStatus) ShownOnCalendar() bool {
	return s == LeavePending || s == LeaveApproved
}

// DayPart is the part of a day a leave covers.
type DayPart string

const (
	DayPartAll       DayPart = "all"
	DayPartMorning   DayPart = "morning"
	DayPartAfternoon DayPart = "afternoon"
)

// Coverage is the share of the day taken by this part.
func (p DayPart) Coverage() generic.Fraction {
	switch p {
	case DayPartMorning, DayPartAfternoon:
		return generic.HalfDay()
	default:
		return generic.FullDay()
	}
}

// LeaveType is the kind of absence (holiday, sick leave, ...).
type LeaveType struct {
	ID    string
	Name  string
	Color string
}

// LeaveRecord is a stored leave spanning one or more days.
type LeaveRecord struct {
	ID           LeaveID
	MemberID     MemberID
	Type         LeaveType
	Status       LeaveStatus
	DateStart    generic.TimePoint
	DayPartStart DayPart
	DateEnd      generic.TimePoint
	DayPartEnd   DayPart
	Comment      string
}

// Days expands the record into one entry per calendar day it covers.
// The first day takes DayPartStart and the last day DayPartEnd; days in
// between are whole days. A single-day leave uses DayPartStart.
func (l *LeaveRecord) Days() []LeaveDayEntry {
	if l.DateEnd.Before(l.DateStart) {
		return nil
	}

	span := generic.Period{Start: l.DateStart, End: l.DateEnd}
	days := span.Days()
	entries := make([]LeaveDayEntry, 0, len(days))
	for i, d := range days {
		part := DayPartAll
		switch {
		case i == 0:
			part = partOrAll(l.DayPartStart)
		case i == len(days)-1:
			part = partOrAll(l.DayPartEnd)
		}
		entries = append(entries, LeaveDayEntry{
			Date:     d,
			Part:     part,
			Coverage: part.Coverage(),
			Leave:    l,
		})
	}
	return entries
}

func partOrAll(p DayPart) DayPart {
	if p == "" {
		return DayPartAll
	}
	return p
}

// LeaveDayEntry is one day of a leave. Entries are built per request and
// thrown away with the team view.
type LeaveDayEntry struct {
	Date     generic.TimePoint
	Part     DayPart
	Coverage generic.Fraction
	Leave    *LeaveRecord
}

// =============================================================================
// LEAVE DAY EXPANDER
// =============================================================================

// LeaveDayExpander turns a member's leave records into day entries.
type LeaveDayExpander struct {
	Leaves LeaveStore
}

// Expand returns the member's leave days inside period, ordered by date.
// Records not shown on calendars (rejected, canceled) are skipped.
// Overlapping records produce several entries for the same date.
func (e *LeaveDayExpander) Expand(ctx context.Context, memberID MemberID, period generic.Period) ([]LeaveDayEntry, error) {
	records, err := e.Leaves.GetLeaves(ctx, memberID, period)
	if err != nil {
		return nil, fmt.Errorf("load leaves of member %s: %w", memberID, err)
	}

	var entries []LeaveDayEntry
	for i := range records {
		record := &records[i]
		if !record.Status.ShownOnCalendar() {
			continue
		}
		for _, day := range record.Days() {
			if period.Contains(day.Date) {
				entries = append(entries, day)
			}
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date.Before(entries[j].Date)
	})
	return entries, nil
}

// OverlappingDates lists the dates carried by more than one entry, in
// order. Used to report data-quality problems.
func OverlappingDates(entries []LeaveDayEntry) []generic.TimePoint {
	seen := make(map[string]int, len(entries))
	var dup []generic.TimePoint
	for _, e := range entries {
		seen[e.Date.Key()]++
		if seen[e.Date.Key()] == 2 {
			dup = append(dup, e.Date)
		}
	}
	return dup
}
