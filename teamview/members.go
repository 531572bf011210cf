package teamview

import (
	"context"
	"fmt"
	"time"

	"github.com/warp/team-calendar/generic"
)

// ActiveMemberFilter selects the members of a group that take part in the
// team view.
type ActiveMemberFilter struct {
	Groups GroupStore
	Clock  func() time.Time
}

// Active returns the group's active members, keeping the store's order.
func (f *ActiveMemberFilter) Active(ctx context.Context, groupID GroupID) ([]Member, error) {
	members, err := f.Groups.ListMembers(ctx, groupID)
	if err != nil {
		return nil, fmt.Errorf("list members of group %s: %w", groupID, err)
	}

	today := generic.DateOf(f.now())
	active := make([]Member, 0, len(members))
	for _, m := range members {
		if m.IsActive(today) {
			active = append(active, m)
		}
	}
	return active, nil
}

func (f *ActiveMemberFilter) now() time.Time {
	if f.Clock != nil {
		return f.Clock()
	}
	return time.Now()
}
