package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/team-calendar/generic"
	"github.com/warp/team-calendar/teamview"
)

func TestMemory_ListGroupsByName(t *testing.T) {
	m := NewMemory()
	for _, name := range []string{"Support", "Engineering"} {
		require.NoError(t, m.AddGroup(teamview.NewGroup(teamview.GroupID(name), "org", name)))
	}

	groups, err := m.ListGroups(context.Background())

	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Equal(t, "Engineering", groups[0].Name)
}

func TestMemory_AddGroupValidates(t *testing.T) {
	err := NewMemory().AddGroup(teamview.Group{ID: "g"})

	assert.ErrorIs(t, err, generic.ErrInvalidGroup)
}

func TestMemory_HolidaysIncludeGlobal(t *testing.T) {
	m := NewMemory()
	m.AddHoliday(generic.Holiday{ID: "org", CompanyID: "org", Date: generic.NewTimePoint(2024, time.March, 1), Name: "Company Day"})
	m.AddHoliday(generic.Holiday{ID: "global", Date: generic.NewTimePoint(2024, time.January, 1), Name: "New Year's Day"})
	m.AddHoliday(generic.Holiday{ID: "other", CompanyID: "other", Date: generic.NewTimePoint(2024, time.February, 1), Name: "Not Ours"})

	got, err := m.GetHolidays(context.Background(), "org")

	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "global", got[0].ID)
	assert.Equal(t, "org", got[1].ID)
}

func TestMemory_GetGroupReturnsCopy(t *testing.T) {
	m := NewMemory()
	g := teamview.NewGroup("g", "org", "Team")
	g.SupervisorIDs = []teamview.MemberID{"a"}
	require.NoError(t, m.AddGroup(g))

	got, err := m.GetGroup(context.Background(), "g")
	require.NoError(t, err)
	got.SupervisorIDs[0] = "mutated"

	again, err := m.GetGroup(context.Background(), "g")
	require.NoError(t, err)
	assert.Equal(t, teamview.MemberID("a"), again.SupervisorIDs[0])
}
