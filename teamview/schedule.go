package teamview

import (
	"context"
	"fmt"
	"time"

	"github.com/warp/team-calendar/generic"
)

// WorkPart says how much of a weekday a schedule expects the member to work.
type WorkPart string

const (
	WorkFull      WorkPart = "full"
	WorkNone      WorkPart = "none"
	WorkMorning   WorkPart = "morning"
	WorkAfternoon WorkPart = "afternoon"
)

// IsWorking is true for any part other than none.
func (p WorkPart) IsWorking() bool { return p != WorkNone }

// Schedule decides which dates are working days. A schedule with a nil
// MemberID is the organization default.
type Schedule struct {
	ID             string
	OrganizationID generic.OrganizationID
	MemberID       *MemberID
	Days           map[time.Weekday]WorkPart
}

// StandardWeek is Monday to Friday full days, weekends off.
func StandardWeek() map[time.Weekday]WorkPart {
	return map[time.Weekday]WorkPart{
		time.Monday:    WorkFull,
		time.Tuesday:   WorkFull,
		time.Wednesday: WorkFull,
		time.Thursday:  WorkFull,
		time.Friday:    WorkFull,
		time.Saturday:  WorkNone,
		time.Sunday:    WorkNone,
	}
}

// WorkPartOn returns the part of date the member works. Weekdays missing
// from the schedule, and every day of a nil schedule, are full days.
func (s *Schedule) WorkPartOn(date generic.TimePoint) WorkPart {
	return s.WorkPartFor(date.Weekday())
}

func (s *Schedule) WorkPartFor(wd time.Weekday) WorkPart {
	if s == nil {
		return WorkFull
	}
	if part, ok := s.Days[wd]; ok && part != "" {
		return part
	}
	return WorkFull
}

func (s *Schedule) IsWorkingDay(date generic.TimePoint) bool {
	return s.WorkPartOn(date).IsWorking()
}

// IsMemberSpecific is false for the organization default.
func (s *Schedule) IsMemberSpecific() bool {
	return s != nil && s.MemberID != nil
}

// ScheduleResolver finds the schedule a member obeys.
type ScheduleResolver struct {
	Schedules ScheduleStore
}

// Resolve returns the member's own schedule, falling back to the
// organization default. Returns (nil, nil) when neither exists.
func (r *ScheduleResolver) Resolve(ctx context.Context, member Member) (*Schedule, error) {
	own, err := r.Schedules.GetSchedule(ctx, member.ID)
	if err != nil {
		return nil, fmt.Errorf("load schedule of member %s: %w", member.ID, err)
	}
	if own != nil {
		return own, nil
	}

	if member.OrganizationID == "" {
		return nil, nil
	}
	def, err := r.Schedules.GetDefaultSchedule(ctx, member.OrganizationID)
	if err != nil {
		return nil, fmt.Errorf("load default schedule of organization %s: %w", member.OrganizationID, err)
	}
	return def, nil
}
