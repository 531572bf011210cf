package teamview

import (
	"fmt"
)

// Stage names the fetch that failed while building a team view.
type Stage string

const (
	StageGroup        Stage = "group"
	StageMembers      Stage = "members"
	StageLeaves       Stage = "leaves"
	StageSchedule     Stage = "schedule"
	StageOrganization Stage = "organization"
	StageHolidays     Stage = "holidays"
)

// FetchError reports which collaborator call aborted a team view request.
// MemberID is empty for group-level stages.
type FetchError struct {
	Stage    Stage
	GroupID  GroupID
	MemberID MemberID
	Err      error
}

func (e *FetchError) Error() string {
	if e.MemberID != "" {
		return fmt.Sprintf("team view for group %s: %s of member %s: %v", e.GroupID, e.Stage, e.MemberID, e.Err)
	}
	return fmt.Sprintf("team view for group %s: %s: %v", e.GroupID, e.Stage, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
