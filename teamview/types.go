// Package teamview builds the team calendar: for every active member of a
// group, one classified day per date of the requested period, combining
// leave records, work schedules and the organization's public holidays.
package teamview

import (
	"fmt"
	"strings"

	"github.com/warp/team-calendar/generic"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type GroupID string
type MemberID string

// =============================================================================
// ORGANIZATION & GROUP
// =============================================================================

// Organization owns groups, holidays and the default schedule.
type Organization struct {
	ID       generic.OrganizationID
	Name     string
	Country  string
	Timezone string
}

// DefaultAllowance is the base yearly leave entitlement of a new group.
const DefaultAllowance = 20

// Group is an organizational unit (a department).
//
// HeadID is a plain back-reference: the head does not have to be a member
// of the group and nothing checks that it still exists.
type Group struct {
	ID                    GroupID
	OrganizationID        generic.OrganizationID
	Name                  string
	Allowance             int
	IncludePublicHolidays bool
	HeadID                *MemberID
	SupervisorIDs         []MemberID
}

// NewGroup returns a group with the default allowance and public holidays on.
func NewGroup(id GroupID, orgID generic.OrganizationID, name string) Group {
	return Group{
		ID:                    id,
		OrganizationID:        orgID,
		Name:                  name,
		Allowance:             DefaultAllowance,
		IncludePublicHolidays: true,
	}
}

// Validate checks the attribute constraints. The head is intentionally not
// looked at.
func (g Group) Validate() error {
	if strings.TrimSpace(g.Name) == "" {
		return fmt.Errorf("%w: name is required", generic.ErrInvalidGroup)
	}
	if g.Allowance < 0 {
		return fmt.Errorf("%w: allowance must be non-negative, got %d", generic.ErrInvalidGroup, g.Allowance)
	}
	return nil
}

func (g Group) IsHead(id MemberID) bool {
	return g.HeadID != nil && *g.HeadID == id
}

func (g Group) HasSupervisor(id MemberID) bool {
	for _, s := range g.SupervisorIDs {
		if s == id {
			return true
		}
	}
	return false
}

// =============================================================================
// MEMBER
// =============================================================================

// Member is a person whose calendar is aggregated.
type Member struct {
	ID             MemberID
	OrganizationID generic.OrganizationID
	GroupID        GroupID
	Name           string
	Lastname       string
	Email          string
	Activated      bool
	StartDate      generic.TimePoint
	EndDate        *generic.TimePoint
}

// FullName is "Name Lastname", trimmed.
func (m Member) FullName() string {
	return strings.TrimSpace(m.Name + " " + m.Lastname)
}

// IsActive reports whether the member is activated and has not left as of
// the given date.
func (m Member) IsActive(asOf generic.TimePoint) bool {
	if !m.Activated {
		return false
	}
	return m.EndDate == nil || m.EndDate.AfterOrEqual(asOf)
}

// =============================================================================
// DAY STATUS - Output of the calendar builder
// =============================================================================

type DayStatus string

const (
	StatusWorking       DayStatus = "working"
	StatusNonWorking    DayStatus = "non_working"
	StatusPublicHoliday DayStatus = "public_holiday"
	StatusLeave         DayStatus = "leave"
	StatusPartialLeave  DayStatus = "partial_leave"
)

// LeaveAnnotation describes the leave covering one date.
type LeaveAnnotation struct {
	Coverage generic.Fraction
	Parts    []DayPart
	Records  []*LeaveRecord
}

// IsFull reports whether the combined leave covers the whole day.
func (a *LeaveAnnotation) IsFull() bool {
	return a != nil && a.Coverage.IsFull()
}

// DayClassification is one (member, date) cell of the team view.
type DayClassification struct {
	Date                generic.TimePoint
	Status              DayStatus
	IsWeekend           bool
	ScheduledNonWorking bool
	WorkPart            WorkPart
	Holiday             *generic.Holiday
	Leave               *LeaveAnnotation
}

// TeamViewEntry is the result for one member.
type TeamViewEntry struct {
	Member   Member
	Schedule *Schedule
	Days     []DayClassification
}

// TeamView is the full result for a group and period.
type TeamView struct {
	Group        Group
	Organization Organization
	Period       generic.Period
	Entries      []TeamViewEntry
}
