/*
service.go - Team view orchestration

PURPOSE:
  Service.TeamView coordinates the collaborators into a team calendar for
  one group and one period.

REQUEST FLOW:
  ┌─────────────────────────────────────────────────────────────────┐
  │                                                                 │
  │  group ──▶ active members ──┬──▶ member 1: leaves, schedule     │
  │                             ├──▶ member 2: leaves, schedule     │
  │                             ├──▶ ...                            │
  │                             └──▶ organization + holidays        │
  │                                         │                       │
  │                                     g.Wait()                    │
  │                                         │                       │
  │                                         ▼                       │
  │                         BuildCalendar once per member           │
  │                                                                 │
  └─────────────────────────────────────────────────────────────────┘

FAILURE:
  Any failed fetch aborts the whole request and cancels the fetches still
  in flight. A team view never silently misses a member.

CONCURRENCY:
  Each member task writes only its own slot of a pre-sized slice; nothing
  is shared until Wait returns. MaxConcurrency bounds the number of
  concurrent fetches (0 = unbounded).

SEE ALSO:
  - calendar.go: BuildCalendar
  - store.go: Collaborator interfaces
*/
package teamview

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/warp/team-calendar/generic"
)

// Service builds team views.
type Service struct {
	Groups    GroupStore
	Leaves    LeaveStore
	Schedules ScheduleStore
	Holidays  HolidayProvider

	Logger         *zap.Logger
	Clock          func() time.Time
	MaxConcurrency int
	PeriodType     generic.PeriodType
}

// NewService wires a service where one store serves every collaborator
// role, which is how both shipped stores are built.
func NewService(store interface {
	GroupStore
	LeaveStore
	ScheduleStore
	OrgStore
}, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		Groups:     store,
		Leaves:     store,
		Schedules:  store,
		Holidays:   &StoreHolidayProvider{Orgs: store},
		Logger:     logger,
		PeriodType: generic.PeriodCalendarMonth,
	}
}

// TeamViewRequest selects the group and period. A nil BaseDate means today;
// an empty PeriodType means the service default.
type TeamViewRequest struct {
	GroupID    GroupID
	BaseDate   *generic.TimePoint
	PeriodType generic.PeriodType
}

// memberData is the result of one member task.
type memberData struct {
	member    Member
	leaveDays []LeaveDayEntry
	schedule  *Schedule
}

// TeamView builds the team calendar for the active members of a group.
func (s *Service) TeamView(ctx context.Context, req TeamViewRequest) (*TeamView, error) {
	log := s.logger().With(zap.String("group_id", string(req.GroupID)))

	period, err := s.period(req)
	if err != nil {
		return nil, err
	}

	group, err := s.Groups.GetGroup(ctx, req.GroupID)
	if err != nil {
		return nil, &FetchError{Stage: StageGroup, GroupID: req.GroupID, Err: err}
	}

	filter := ActiveMemberFilter{Groups: s.Groups, Clock: s.Clock}
	members, err := filter.Active(ctx, req.GroupID)
	if err != nil {
		return nil, &FetchError{Stage: StageMembers, GroupID: req.GroupID, Err: err}
	}

	log.Debug("Building team view",
		zap.Stringer("period", period),
		zap.Int("members", len(members)))

	expander := LeaveDayExpander{Leaves: s.Leaves}
	resolver := ScheduleResolver{Schedules: s.Schedules}

	g, gctx := errgroup.WithContext(ctx)
	if s.MaxConcurrency > 0 {
		g.SetLimit(s.MaxConcurrency)
	}

	results := make([]memberData, len(members))
	for i, m := range members {
		i, m := i, m
		g.Go(func() error {
			leaveDays, err := expander.Expand(gctx, m.ID, period)
			if err != nil {
				return &FetchError{Stage: StageLeaves, GroupID: req.GroupID, MemberID: m.ID, Err: err}
			}
			schedule, err := resolver.Resolve(gctx, m)
			if err != nil {
				return &FetchError{Stage: StageSchedule, GroupID: req.GroupID, MemberID: m.ID, Err: err}
			}
			results[i] = memberData{member: m, leaveDays: leaveDays, schedule: schedule}
			return nil
		})
	}

	var (
		org      *Organization
		holidays HolidaySet
	)
	g.Go(func() error {
		o, err := s.Groups.GetOrganization(gctx, req.GroupID)
		if err != nil {
			return &FetchError{Stage: StageOrganization, GroupID: req.GroupID, Err: err}
		}
		set, err := s.Holidays.Holidays(gctx, o.ID)
		if err != nil {
			return &FetchError{Stage: StageHolidays, GroupID: req.GroupID, Err: err}
		}
		org, holidays = o, set
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Warn("Team view aborted", zap.Error(err))
		return nil, err
	}

	if !group.IncludePublicHolidays {
		holidays = EmptyHolidaySet()
	}

	entries := make([]TeamViewEntry, len(results))
	for i, data := range results {
		if dup := OverlappingDates(data.leaveDays); len(dup) > 0 {
			log.Warn("Overlapping leave records",
				zap.String("member_id", string(data.member.ID)),
				zap.Stringers("dates", dup))
		}
		entries[i] = TeamViewEntry{
			Member:   data.member,
			Schedule: data.schedule,
			Days:     BuildCalendar(period, holidays, data.leaveDays, data.schedule),
		}
	}

	return &TeamView{
		Group:        *group,
		Organization: *org,
		Period:       period,
		Entries:      entries,
	}, nil
}

func (s *Service) period(req TeamViewRequest) (generic.Period, error) {
	pt := req.PeriodType
	if pt == "" {
		pt = s.PeriodType
	}
	pt, err := generic.ParsePeriodType(string(pt))
	if err != nil {
		return generic.Period{}, err
	}

	base := generic.DateOf(s.now())
	if req.BaseDate != nil {
		base = *req.BaseDate
	}

	period := generic.PeriodFor(base, pt)
	return period, period.Validate()
}

func (s *Service) now() time.Time {
	if s.Clock != nil {
		return s.Clock()
	}
	return time.Now()
}

func (s *Service) logger() *zap.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return zap.NewNop()
}
