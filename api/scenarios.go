/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built scenarios that populate the database with realistic
	data for testing and demos. Each scenario creates an organization, its
	holidays and default schedule, groups, members and leaves.

AVAILABLE SCENARIOS:

	january-2024: Two groups (one ignoring public holidays), full and half
	              day leaves, a part-timer, archived members
	empty-group:  A group without members

HOW SCENARIOS WORK:
 1. Reset database (clear all data)
 2. Create organization, holidays, default schedule
 3. Create groups
 4. Create members and their own schedules
 5. Add leaves

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "january-2024"}

USAGE VIA CLI:

	teamcal seed --scenario january-2024

NOTE:

	Scenarios reset the database. Only use in development/demo environments.

SEE ALSO:
  - handlers.go: Other handlers
  - cmd/teamcal/main.go: seed command
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/warp/team-calendar/generic"
	"github.com/warp/team-calendar/teamview"
)

var errUnknownScenario = errors.New("unknown scenario")

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "january-2024",
		Name:        "January 2024",
		Description: "Engineering and Operations teams with holidays, full and half day leaves",
	},
	{
		ID:          "empty-group",
		Name:        "Empty Group",
		Description: "A single group with no members",
	},
}

// Demo identifiers, stable so that URLs can be bookmarked.
const (
	DemoOrganizationID = "org-acme"
	DemoEngineeringID  = "grp-engineering"
	DemoOperationsID   = "grp-operations"
	DemoEmptyGroupID   = "grp-empty"
)

// ScenarioStore is what a scenario needs to write. *sqlite.Store satisfies it.
type ScenarioStore interface {
	Reset(ctx context.Context) error
	SaveOrganization(ctx context.Context, org teamview.Organization) error
	SaveGroup(ctx context.Context, g teamview.Group) error
	SaveMember(ctx context.Context, m teamview.Member) error
	SaveLeaveType(ctx context.Context, orgID generic.OrganizationID, lt teamview.LeaveType) error
	SaveLeave(ctx context.Context, l teamview.LeaveRecord) error
	SaveSchedule(ctx context.Context, s teamview.Schedule) error
	SaveHoliday(ctx context.Context, h generic.Holiday) (generic.Holiday, error)
}

// Scenarios lists the available scenario definitions.
func Scenarios() []ScenarioDTO {
	out := make([]ScenarioDTO, len(scenarios))
	copy(out, scenarios)
	return out
}

// SeedScenario resets the store and loads the named scenario.
func SeedScenario(ctx context.Context, store ScenarioStore, id string) error {
	var load func(context.Context, ScenarioStore) error
	switch id {
	case "january-2024":
		load = loadJanuary2024Scenario
	case "empty-group":
		load = loadEmptyGroupScenario
	default:
		return fmt.Errorf("%w: %q", errUnknownScenario, id)
	}

	if err := store.Reset(ctx); err != nil {
		return fmt.Errorf("reset database: %w", err)
	}
	return load(ctx, store)
}

// =============================================================================
// HANDLERS
// =============================================================================

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// CurrentScenario returns the ID of the last scenario loaded, or "".
func (h *Handler) CurrentScenario() string {
	h.scenarioMu.Lock()
	defer h.scenarioMu.Unlock()
	return h.currentScenario
}

// GetCurrentScenario returns the currently loaded scenario, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	current := h.CurrentScenario()
	if current == "" {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	for _, s := range scenarios {
		if s.ID == current {
			writeJSON(w, http.StatusOK, s)
			return
		}
	}
	writeJSON(w, http.StatusOK, ScenarioDTO{ID: current, Name: current})
}

// LoadScenario loads a predefined scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	h.scenarioMu.Lock()
	defer h.scenarioMu.Unlock()

	h.currentScenario = ""
	if err := SeedScenario(r.Context(), h.Store, req.ScenarioID); err != nil {
		writeDomainError(w, "Failed to load scenario", err)
		return
	}
	if h.HolidayCache != nil {
		h.HolidayCache.InvalidateAll()
	}
	h.currentScenario = req.ScenarioID

	h.Logger.Info("Scenario loaded", zap.String("scenario", req.ScenarioID))
	writeJSON(w, http.StatusOK, map[string]string{"status": "loaded", "scenario": req.ScenarioID})
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

var (
	leaveTypeHoliday = teamview.LeaveType{ID: "lt-holiday", Name: "Holiday", Color: "#22AA66"}
	leaveTypeSick    = teamview.LeaveType{ID: "lt-sick", Name: "Sick Leave", Color: "#CC3344"}
)

func saveDemoOrganization(ctx context.Context, store ScenarioStore) error {
	orgID := generic.OrganizationID(DemoOrganizationID)

	if err := store.SaveOrganization(ctx, teamview.Organization{
		ID:       orgID,
		Name:     "Acme Ltd",
		Country:  "GB",
		Timezone: "Europe/London",
	}); err != nil {
		return err
	}

	for _, lt := range []teamview.LeaveType{leaveTypeHoliday, leaveTypeSick} {
		if err := store.SaveLeaveType(ctx, orgID, lt); err != nil {
			return fmt.Errorf("save leave type %s: %w", lt.ID, err)
		}
	}

	// Organization default: Monday to Friday.
	return store.SaveSchedule(ctx, teamview.Schedule{
		ID:             "sch-default",
		OrganizationID: orgID,
		Days:           teamview.StandardWeek(),
	})
}

func loadJanuary2024Scenario(ctx context.Context, store ScenarioStore) error {
	orgID := generic.OrganizationID(DemoOrganizationID)
	if err := saveDemoOrganization(ctx, store); err != nil {
		return err
	}

	holidays := []generic.Holiday{
		{ID: "hol-new-year", CompanyID: orgID, Date: generic.NewTimePoint(2024, time.January, 1), Name: "New Year's Day", Recurring: true},
		{ID: "hol-christmas", CompanyID: orgID, Date: generic.NewTimePoint(2024, time.December, 25), Name: "Christmas Day", Recurring: true},
	}
	for _, hol := range holidays {
		if _, err := store.SaveHoliday(ctx, hol); err != nil {
			return fmt.Errorf("save holiday %s: %w", hol.Name, err)
		}
	}

	olivia := teamview.MemberID("mem-olivia")
	alice := teamview.MemberID("mem-alice")

	// Engineering is headed by Olivia, who sits in Operations.
	engineering := teamview.NewGroup(DemoEngineeringID, orgID, "Engineering")
	engineering.HeadID = &olivia
	engineering.SupervisorIDs = []teamview.MemberID{alice}

	operations := teamview.NewGroup(DemoOperationsID, orgID, "Operations")
	operations.IncludePublicHolidays = false
	operations.Allowance = 25
	operations.HeadID = &olivia

	for _, g := range []teamview.Group{engineering, operations} {
		if err := store.SaveGroup(ctx, g); err != nil {
			return fmt.Errorf("save group %s: %w", g.Name, err)
		}
	}

	joined := generic.NewTimePoint(2022, time.March, 1)
	left := generic.NewTimePoint(2023, time.December, 31)
	members := []teamview.Member{
		{ID: alice, GroupID: DemoEngineeringID, Name: "Alice", Lastname: "Archer", Email: "alice@acme.test", Activated: true, StartDate: joined},
		{ID: "mem-bob", GroupID: DemoEngineeringID, Name: "Bob", Lastname: "Baker", Email: "bob@acme.test", Activated: true, StartDate: joined},
		{ID: "mem-carol", GroupID: DemoEngineeringID, Name: "Carol", Lastname: "Cooper", Email: "carol@acme.test", Activated: true, StartDate: joined},
		{ID: "mem-dan", GroupID: DemoEngineeringID, Name: "Dan", Lastname: "Dawson", Email: "dan@acme.test", Activated: true, StartDate: joined, EndDate: &left},
		{ID: "mem-eve", GroupID: DemoEngineeringID, Name: "Eve", Lastname: "Evans", Email: "eve@acme.test", Activated: false, StartDate: joined},
		{ID: olivia, GroupID: DemoOperationsID, Name: "Olivia", Lastname: "Owens", Email: "olivia@acme.test", Activated: true, StartDate: joined},
		{ID: "mem-peter", GroupID: DemoOperationsID, Name: "Peter", Lastname: "Price", Email: "peter@acme.test", Activated: true, StartDate: joined},
	}
	for _, m := range members {
		m.OrganizationID = orgID
		if err := store.SaveMember(ctx, m); err != nil {
			return fmt.Errorf("save member %s: %w", m.ID, err)
		}
	}

	// Bob works every day of the week.
	bob := teamview.MemberID("mem-bob")
	everyDay := make(map[time.Weekday]teamview.WorkPart, 7)
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		everyDay[wd] = teamview.WorkFull
	}
	// Carol is off on Fridays and works Wednesday mornings only.
	carol := teamview.MemberID("mem-carol")
	partTime := teamview.StandardWeek()
	partTime[time.Wednesday] = teamview.WorkMorning
	partTime[time.Friday] = teamview.WorkNone

	for _, sch := range []teamview.Schedule{
		{ID: "sch-bob", OrganizationID: orgID, MemberID: &bob, Days: everyDay},
		{ID: "sch-carol", OrganizationID: orgID, MemberID: &carol, Days: partTime},
	} {
		if err := store.SaveSchedule(ctx, sch); err != nil {
			return fmt.Errorf("save schedule %s: %w", sch.ID, err)
		}
	}

	date := func(day int) generic.TimePoint { return generic.NewTimePoint(2024, time.January, day) }
	leaves := []teamview.LeaveRecord{
		// Bob: 10 to 12 January, full days.
		{MemberID: bob, Type: leaveTypeHoliday, Status: teamview.LeaveApproved,
			DateStart: date(10), DayPartStart: teamview.DayPartAll, DateEnd: date(12), DayPartEnd: teamview.DayPartAll},
		// Carol: two halves on the 15th, pending morning plus approved sick afternoon.
		{MemberID: carol, Type: leaveTypeHoliday, Status: teamview.LeavePending,
			DateStart: date(15), DayPartStart: teamview.DayPartMorning, DateEnd: date(15), DayPartEnd: teamview.DayPartMorning},
		{MemberID: carol, Type: leaveTypeSick, Status: teamview.LeaveApproved,
			DateStart: date(15), DayPartStart: teamview.DayPartAfternoon, DateEnd: date(15), DayPartEnd: teamview.DayPartAfternoon},
		// Carol: afternoon of the 22nd.
		{MemberID: carol, Type: leaveTypeHoliday, Status: teamview.LeaveApproved,
			DateStart: date(22), DayPartStart: teamview.DayPartAfternoon, DateEnd: date(22), DayPartEnd: teamview.DayPartAfternoon},
		// Alice: rejected, never shown.
		{MemberID: alice, Type: leaveTypeHoliday, Status: teamview.LeaveRejected,
			DateStart: date(17), DayPartStart: teamview.DayPartAll, DateEnd: date(19), DayPartEnd: teamview.DayPartAll},
		// Peter: afternoon of the 2nd through the 3rd.
		{MemberID: "mem-peter", Type: leaveTypeHoliday, Status: teamview.LeaveApproved,
			DateStart: date(2), DayPartStart: teamview.DayPartAfternoon, DateEnd: date(3), DayPartEnd: teamview.DayPartAll},
	}
	for _, l := range leaves {
		l.ID = teamview.LeaveID(uuid.NewString())
		if err := store.SaveLeave(ctx, l); err != nil {
			return fmt.Errorf("save leave of %s: %w", l.MemberID, err)
		}
	}

	return nil
}

func loadEmptyGroupScenario(ctx context.Context, store ScenarioStore) error {
	if err := saveDemoOrganization(ctx, store); err != nil {
		return err
	}
	return store.SaveGroup(ctx, teamview.NewGroup(DemoEmptyGroupID, DemoOrganizationID, "Empty"))
}
