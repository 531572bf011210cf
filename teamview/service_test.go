package teamview_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/team-calendar/generic"
	"github.com/warp/team-calendar/teamview"
	"github.com/warp/team-calendar/teamview/store"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

// newTestStore returns an organization with New Year's Day, a Monday to
// Friday default schedule and two groups: "eng" (holidays on) and "ops"
// (holidays off).
func newTestStore(t *testing.T) *store.Memory {
	t.Helper()
	mem := store.NewMemory()
	mem.AddOrganization(teamview.Organization{ID: "org", Name: "Acme"})
	mem.AddHoliday(generic.Holiday{ID: "h1", CompanyID: "org", Date: day(1), Name: "New Year's Day"})
	mem.SetSchedule(teamview.Schedule{ID: "default", OrganizationID: "org", Days: teamview.StandardWeek()})

	require.NoError(t, mem.AddGroup(teamview.NewGroup("eng", "org", "Engineering")))
	ops := teamview.NewGroup("ops", "org", "Operations")
	ops.IncludePublicHolidays = false
	require.NoError(t, mem.AddGroup(ops))
	return mem
}

func addMember(mem *store.Memory, group teamview.GroupID, id teamview.MemberID) {
	mem.AddMember(teamview.Member{ID: id, OrganizationID: "org", GroupID: group, Name: string(id), Activated: true})
}

func newTestService(s interface {
	teamview.GroupStore
	teamview.LeaveStore
	teamview.ScheduleStore
	teamview.OrgStore
}) *teamview.Service {
	svc := teamview.NewService(s, nil)
	svc.Clock = func() time.Time { return time.Date(2024, time.January, 15, 8, 0, 0, 0, time.UTC) }
	return svc
}

func requestFor(group teamview.GroupID, base generic.TimePoint) teamview.TeamViewRequest {
	return teamview.TeamViewRequest{GroupID: group, BaseDate: &base}
}

// =============================================================================
// HAPPY PATH
// =============================================================================

func TestTeamView_EntriesFollowMemberOrder(t *testing.T) {
	// GIVEN: Members added in a non-alphabetical order
	mem := newTestStore(t)
	for _, id := range []teamview.MemberID{"carol", "alice", "bob"} {
		addMember(mem, "eng", id)
	}

	// WHEN
	tv, err := newTestService(mem).TeamView(context.Background(), requestFor("eng", day(20)))

	// THEN: Same order, one entry per member, full month each
	require.NoError(t, err)
	require.Len(t, tv.Entries, 3)
	assert.Equal(t, teamview.MemberID("carol"), tv.Entries[0].Member.ID)
	assert.Equal(t, teamview.MemberID("alice"), tv.Entries[1].Member.ID)
	assert.Equal(t, teamview.MemberID("bob"), tv.Entries[2].Member.ID)
	for _, e := range tv.Entries {
		assert.Len(t, e.Days, 31)
		require.NotNil(t, e.Schedule)
		assert.Equal(t, "default", e.Schedule.ID)
	}
	assert.Equal(t, "Acme", tv.Organization.Name)
	assert.Equal(t, "Engineering", tv.Group.Name)
}

func TestTeamView_NoMembers(t *testing.T) {
	mem := newTestStore(t)

	tv, err := newTestService(mem).TeamView(context.Background(), requestFor("eng", day(1)))

	require.NoError(t, err)
	assert.Empty(t, tv.Entries)
}

func TestTeamView_DefaultsToClockAndServicePeriod(t *testing.T) {
	mem := newTestStore(t)
	addMember(mem, "eng", "alice")
	svc := newTestService(mem)
	svc.PeriodType = generic.PeriodISOWeek

	tv, err := svc.TeamView(context.Background(), teamview.TeamViewRequest{GroupID: "eng"})

	require.NoError(t, err)
	assert.Equal(t, "2024-01-15", tv.Period.Start.String())
	assert.Equal(t, "2024-01-21", tv.Period.End.String())

	// A request period overrides the service default.
	tv, err = svc.TeamView(context.Background(), teamview.TeamViewRequest{GroupID: "eng", PeriodType: generic.PeriodCalendarYear})
	require.NoError(t, err)
	assert.Len(t, tv.Entries[0].Days, 366)
}

func TestTeamView_UnknownPeriodType(t *testing.T) {
	mem := newTestStore(t)

	_, err := newTestService(mem).TeamView(context.Background(), teamview.TeamViewRequest{GroupID: "eng", PeriodType: "fortnight"})

	assert.ErrorIs(t, err, generic.ErrUnknownPeriodType)
	assert.True(t, generic.IsClientError(err))
}

// =============================================================================
// HOLIDAY FLAG
// =============================================================================

func TestTeamView_FlagSuppressesHolidays(t *testing.T) {
	// GIVEN: The same organization holiday seen by both groups
	mem := newTestStore(t)
	addMember(mem, "eng", "alice")
	addMember(mem, "ops", "olivia")
	svc := newTestService(mem)
	ctx := context.Background()

	eng, err := svc.TeamView(ctx, requestFor("eng", day(1)))
	require.NoError(t, err)
	ops, err := svc.TeamView(ctx, requestFor("ops", day(1)))
	require.NoError(t, err)

	// THEN: Engineering sees it, Operations never does
	assert.Equal(t, teamview.StatusPublicHoliday, eng.Entries[0].Days[0].Status)
	assert.Equal(t, teamview.StatusWorking, ops.Entries[0].Days[0].Status)
	for _, d := range ops.Entries[0].Days {
		assert.NotEqual(t, teamview.StatusPublicHoliday, d.Status)
		assert.Nil(t, d.Holiday)
	}
}

func TestTeamView_FlagDoesNotPoisonCache(t *testing.T) {
	// GIVEN: A cached provider shared by both groups
	mem := newTestStore(t)
	addMember(mem, "eng", "alice")
	addMember(mem, "ops", "olivia")
	svc := newTestService(mem)
	svc.Holidays = teamview.NewCachingHolidayProvider(svc.Holidays, time.Hour)
	ctx := context.Background()

	// WHEN: The group ignoring holidays is served first
	_, err := svc.TeamView(ctx, requestFor("ops", day(1)))
	require.NoError(t, err)
	eng, err := svc.TeamView(ctx, requestFor("eng", day(1)))
	require.NoError(t, err)

	// THEN: The other group still gets its holiday
	assert.Equal(t, teamview.StatusPublicHoliday, eng.Entries[0].Days[0].Status)
}

// =============================================================================
// CONCURRENCY
// =============================================================================

func TestTeamView_BoundedConcurrencySameResult(t *testing.T) {
	mem := newTestStore(t)
	for i := 0; i < 25; i++ {
		id := teamview.MemberID(fmt.Sprintf("m%02d", i))
		addMember(mem, "eng", id)
		mem.AddLeave(teamview.LeaveRecord{
			ID: teamview.LeaveID("l" + string(id)), MemberID: id, Status: teamview.LeaveApproved,
			DateStart: day(1 + i), DayPartStart: teamview.DayPartAll, DateEnd: day(1 + i), DayPartEnd: teamview.DayPartAll,
		})
	}
	ctx := context.Background()

	unbounded := newTestService(mem)
	bounded := newTestService(mem)
	bounded.MaxConcurrency = 1

	a, err := unbounded.TeamView(ctx, requestFor("eng", day(1)))
	require.NoError(t, err)
	b, err := bounded.TeamView(ctx, requestFor("eng", day(1)))
	require.NoError(t, err)

	assert.Equal(t, a, b)
	for i, e := range a.Entries {
		assert.Equal(t, teamview.MemberID(fmt.Sprintf("m%02d", i)), e.Member.ID)
		assert.NotNil(t, e.Days[i].Leave, "member %d should be away on day %d", i, i+1)
	}
}

// barrierStore holds every leave lookup until `parties` lookups are in
// flight at once.
type barrierStore struct {
	*store.Memory
	arrived sync.WaitGroup
	timeout time.Duration
}

var errBarrierTimeout = errors.New("leave lookups did not overlap")

func newBarrierStore(mem *store.Memory, parties int) *barrierStore {
	s := &barrierStore{Memory: mem, timeout: 2 * time.Second}
	s.arrived.Add(parties)
	return s
}

func (s *barrierStore) GetLeaves(ctx context.Context, id teamview.MemberID, p generic.Period) ([]teamview.LeaveRecord, error) {
	s.arrived.Done()
	released := make(chan struct{})
	go func() {
		s.arrived.Wait()
		close(released)
	}()
	select {
	case <-released:
		return s.Memory.GetLeaves(ctx, id, p)
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(s.timeout):
		return nil, errBarrierTimeout
	}
}

func TestTeamView_MembersFetchedConcurrently(t *testing.T) {
	// GIVEN: Leave lookups that only return once all three are in flight
	mem := newTestStore(t)
	for _, id := range []teamview.MemberID{"alice", "bob", "carol"} {
		addMember(mem, "eng", id)
	}
	bs := newBarrierStore(mem, 3)

	// WHEN
	tv, err := newTestService(bs).TeamView(context.Background(), requestFor("eng", day(1)))

	// THEN: One lookup per member ran at the same time
	require.NoError(t, err)
	assert.Len(t, tv.Entries, 3)
}

func TestTeamView_ConcurrencyLimitSerializesFetches(t *testing.T) {
	// GIVEN: The same barrier, but only one fetch allowed at a time
	mem := newTestStore(t)
	for _, id := range []teamview.MemberID{"alice", "bob"} {
		addMember(mem, "eng", id)
	}
	bs := newBarrierStore(mem, 2)
	bs.timeout = 50 * time.Millisecond
	svc := newTestService(bs)
	svc.MaxConcurrency = 1

	// WHEN
	_, err := svc.TeamView(context.Background(), requestFor("eng", day(1)))

	// THEN: The lookups never overlap
	assert.ErrorIs(t, err, errBarrierTimeout)
}

// =============================================================================
// FAILURES
// =============================================================================

// failingStore fails selected calls on top of a memory store.
type failingStore struct {
	*store.Memory
	failLeavesFor teamview.MemberID
	failHolidays  bool
	leaveCalls    atomic.Int32
}

var errStoreDown = errors.New("store down")

func (s *failingStore) GetLeaves(ctx context.Context, id teamview.MemberID, p generic.Period) ([]teamview.LeaveRecord, error) {
	s.leaveCalls.Add(1)
	if id == s.failLeavesFor {
		return nil, errStoreDown
	}
	return s.Memory.GetLeaves(ctx, id, p)
}

func (s *failingStore) GetHolidays(ctx context.Context, orgID generic.OrganizationID) ([]generic.Holiday, error) {
	if s.failHolidays {
		return nil, errStoreDown
	}
	return s.Memory.GetHolidays(ctx, orgID)
}

func TestTeamView_MemberFailureAbortsWholeRequest(t *testing.T) {
	// GIVEN: Leave lookups fail for one of three members
	mem := newTestStore(t)
	for _, id := range []teamview.MemberID{"alice", "bob", "carol"} {
		addMember(mem, "eng", id)
	}
	fs := &failingStore{Memory: mem, failLeavesFor: "bob"}

	// WHEN
	tv, err := newTestService(fs).TeamView(context.Background(), requestFor("eng", day(1)))

	// THEN: No partial result, the failure names the stage and member
	require.Error(t, err)
	assert.Nil(t, tv)
	assert.ErrorIs(t, err, errStoreDown)

	var fetchErr *teamview.FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, teamview.StageLeaves, fetchErr.Stage)
	assert.Equal(t, teamview.MemberID("bob"), fetchErr.MemberID)
	assert.Equal(t, teamview.GroupID("eng"), fetchErr.GroupID)
	assert.LessOrEqual(t, fs.leaveCalls.Load(), int32(3), "no retries")
}

func TestTeamView_HolidayFailureAborts(t *testing.T) {
	mem := newTestStore(t)
	addMember(mem, "ops", "olivia")
	fs := &failingStore{Memory: mem, failHolidays: true}

	// Even a group that ignores holidays needs the fetch to succeed.
	_, err := newTestService(fs).TeamView(context.Background(), requestFor("ops", day(1)))

	var fetchErr *teamview.FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, teamview.StageHolidays, fetchErr.Stage)
	assert.Empty(t, fetchErr.MemberID)
}

func TestTeamView_UnknownGroup(t *testing.T) {
	mem := newTestStore(t)

	_, err := newTestService(mem).TeamView(context.Background(), requestFor("nope", day(1)))

	var fetchErr *teamview.FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, teamview.StageGroup, fetchErr.Stage)
	assert.True(t, generic.IsNotFound(err))
}

func TestTeamView_MissingOrganization(t *testing.T) {
	mem := store.NewMemory()
	require.NoError(t, mem.AddGroup(teamview.NewGroup("lost", "ghost-org", "Lost")))

	_, err := newTestService(mem).TeamView(context.Background(), requestFor("lost", day(1)))

	var fetchErr *teamview.FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, teamview.StageOrganization, fetchErr.Stage)
	assert.ErrorIs(t, err, generic.ErrOrganizationNotFound)
}

func TestTeamView_CanceledContext(t *testing.T) {
	mem := newTestStore(t)
	addMember(mem, "eng", "alice")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fs := &ctxStore{Memory: mem}
	_, err := newTestService(fs).TeamView(ctx, requestFor("eng", day(1)))

	assert.ErrorIs(t, err, context.Canceled)
}

// ctxStore honors cancellation on leave lookups.
type ctxStore struct {
	*store.Memory
}

func (s *ctxStore) GetLeaves(ctx context.Context, id teamview.MemberID, p generic.Period) ([]teamview.LeaveRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.Memory.GetLeaves(ctx, id, p)
}
