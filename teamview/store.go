/*
store.go - Collaborator interfaces consumed by the team view

PURPOSE:
  Defines what the aggregation engine needs from persistence. The engine
  only reads; how people, groups, leaves, schedules and holidays are stored
  is up to the implementation.

KEY INTERFACES:
  GroupStore:    Groups, their members and their organization
  LeaveStore:    Leave records overlapping a period
  ScheduleStore: Member-specific and organization default schedules
  OrgStore:      Public holidays of an organization

CONTRACTS:
  - Lookups of a missing group/organization return an error wrapping the
    matching generic sentinel (ErrGroupNotFound, ErrOrganizationNotFound).
  - A missing schedule is NOT an error: GetSchedule returns (nil, nil).
  - ListMembers returns members in the group's display order; the team
    view preserves it.

IMPLEMENTATIONS:
  - store/sqlite/sqlite.go: SQLite
  - teamview/store/memory.go: In-memory for testing

SEE ALSO:
  - service.go: The orchestrator consuming these
*/
package teamview

import (
	"context"

	"github.com/warp/team-calendar/generic"
)

// GroupStore resolves groups and their members.
type GroupStore interface {
	GetGroup(ctx context.Context, id GroupID) (*Group, error)

	// ListMembers returns every member of the group, active or not.
	ListMembers(ctx context.Context, id GroupID) ([]Member, error)

	GetOrganization(ctx context.Context, id GroupID) (*Organization, error)
}

// LeaveStore loads leave records.
type LeaveStore interface {
	// GetLeaves returns the member's leave records that share at least one
	// day with period, in any status.
	GetLeaves(ctx context.Context, memberID MemberID, period generic.Period) ([]LeaveRecord, error)
}

// ScheduleStore loads work schedules.
type ScheduleStore interface {
	// GetSchedule returns the member-specific schedule, or nil when the
	// member has none.
	GetSchedule(ctx context.Context, memberID MemberID) (*Schedule, error)

	// GetDefaultSchedule returns the organization-wide schedule, or nil.
	GetDefaultSchedule(ctx context.Context, orgID generic.OrganizationID) (*Schedule, error)
}

// OrgStore loads organization-wide calendar data.
type OrgStore interface {
	GetHolidays(ctx context.Context, orgID generic.OrganizationID) ([]generic.Holiday, error)
}
