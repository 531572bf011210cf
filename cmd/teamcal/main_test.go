package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/team-calendar/generic"
	"github.com/warp/team-calendar/teamview"
)

func TestPrintTeamView(t *testing.T) {
	head := teamview.MemberID("m1")
	group := teamview.NewGroup("g1", "org", "Engineering")
	group.HeadID = &head

	week := generic.PeriodFor(generic.NewTimePoint(2024, time.January, 1), generic.PeriodISOWeek)
	member := teamview.Member{ID: head, Name: "Ada", Lastname: "Lovelace", Activated: true}
	holidays := teamview.NewHolidaySet([]generic.Holiday{{Date: week.Start, Name: "New Year's Day"}})

	tv := &teamview.TeamView{
		Group:        group,
		Organization: teamview.Organization{ID: "org", Name: "Acme"},
		Period:       week,
		Entries: []teamview.TeamViewEntry{{
			Member: member,
			Days:   teamview.BuildCalendar(week, holidays, nil, &teamview.Schedule{Days: teamview.StandardWeek()}),
		}},
	}

	var buf bytes.Buffer
	printTeamView(&buf, tv)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Engineering (Acme) [2024-01-01, 2024-01-07]", lines[0])
	assert.True(t, strings.HasSuffix(lines[2], "HWWWW--"), lines[2])
	assert.True(t, strings.HasPrefix(lines[2], "Ada Lovelace*"), lines[2])
}

func TestPrintTeamView_HeadMarkerKeepsColumnsAligned(t *testing.T) {
	// GIVEN: The head has the longest name once the marker is added
	head := teamview.MemberID("m1")
	group := teamview.NewGroup("g1", "org", "Engineering")
	group.HeadID = &head

	week := generic.PeriodFor(generic.NewTimePoint(2024, time.January, 8), generic.PeriodISOWeek)
	schedule := &teamview.Schedule{Days: teamview.StandardWeek()}
	days := teamview.BuildCalendar(week, teamview.EmptyHolidaySet(), nil, schedule)

	tv := &teamview.TeamView{
		Group:        group,
		Organization: teamview.Organization{ID: "org", Name: "Acme"},
		Period:       week,
		Entries: []teamview.TeamViewEntry{
			{Member: teamview.Member{ID: head, Name: "Ada", Lastname: "Lovelace"}, Days: days},
			{Member: teamview.Member{ID: "m2", Name: "Bob", Lastname: "Jones"}, Days: days},
		},
	}

	// WHEN
	var buf bytes.Buffer
	printTeamView(&buf, tv)

	// THEN: Header and both rows start the grid at the same column
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "Member         8901234", lines[1])
	assert.Equal(t, "Ada Lovelace*  WWWWW--", lines[2])
	assert.Equal(t, "Bob Jones      WWWWW--", lines[3])
}
