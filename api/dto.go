/*
dto.go - Data Transfer Objects for API responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the teamview model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

TYPES:
  Groups:    GroupDTO
  Team view: TeamViewDTO, TeamViewEntryDTO, DayDTO, LeaveDTO
  Holidays:  HolidayDTO, CreateHolidayRequest
  Scenarios: ScenarioDTO, LoadScenarioRequest

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"sort"
	"strings"
	"time"

	"github.com/warp/team-calendar/generic"
	"github.com/warp/team-calendar/teamview"
)

// =============================================================================
// GROUPS
// =============================================================================

// GroupDTO represents a group in API responses.
type GroupDTO struct {
	ID                    string   `json:"id"`
	OrganizationID        string   `json:"organization_id"`
	Name                  string   `json:"name"`
	Allowance             int      `json:"allowance"`
	IncludePublicHolidays bool     `json:"include_public_holidays"`
	HeadID                *string  `json:"head_id,omitempty"`
	SupervisorIDs         []string `json:"supervisor_ids"`
}

// OrganizationDTO represents an organization in API responses.
type OrganizationDTO struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Country  string `json:"country,omitempty"`
	Timezone string `json:"timezone,omitempty"`
}

// MemberDTO represents a member in API responses.
type MemberDTO struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Lastname     string `json:"lastname"`
	FullName     string `json:"full_name"`
	Email        string `json:"email,omitempty"`
	IsHead       bool   `json:"is_head"`
	IsSupervisor bool   `json:"is_supervisor"`
}

// =============================================================================
// TEAM VIEW
// =============================================================================

// TeamViewDTO is the response of GET /api/groups/{id}/team-view.
type TeamViewDTO struct {
	Group        GroupDTO           `json:"group"`
	Organization OrganizationDTO    `json:"organization"`
	Period       PeriodDTO          `json:"period"`
	Entries      []TeamViewEntryDTO `json:"entries"`
}

type PeriodDTO struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type TeamViewEntryDTO struct {
	Member   MemberDTO    `json:"member"`
	Schedule *ScheduleDTO `json:"schedule"`
	Days     []DayDTO     `json:"days"`
}

// ScheduleDTO maps lowercase weekday names to work parts.
type ScheduleDTO struct {
	ID             string            `json:"id"`
	MemberSpecific bool              `json:"member_specific"`
	Days           map[string]string `json:"days"`
}

type DayDTO struct {
	Date                string      `json:"date"`
	Status              string      `json:"status"`
	IsWeekend           bool        `json:"is_weekend"`
	ScheduledNonWorking bool        `json:"scheduled_non_working"`
	WorkPart            string      `json:"work_part"`
	Holiday             *HolidayDTO `json:"holiday,omitempty"`
	Leave               *LeaveDTO   `json:"leave,omitempty"`
}

type LeaveDTO struct {
	Coverage float64          `json:"coverage"`
	Parts    []string         `json:"parts"`
	Records  []LeaveRecordDTO `json:"records"`
}

type LeaveRecordDTO struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Color     string `json:"color,omitempty"`
	Status    string `json:"status"`
	DateStart string `json:"date_start"`
	DateEnd   string `json:"date_end"`
}

// =============================================================================
// HOLIDAYS
// =============================================================================

// HolidayDTO represents a holiday in API responses.
type HolidayDTO struct {
	ID        string `json:"id"`
	CompanyID string `json:"company_id"`
	Date      string `json:"date"`
	Name      string `json:"name"`
	Recurring bool   `json:"recurring"`
}

// CreateHolidayRequest is the body of POST /api/organizations/{id}/holidays.
type CreateHolidayRequest struct {
	Date      string `json:"date"`
	Name      string `json:"name"`
	Recurring bool   `json:"recurring"`
}

// =============================================================================
// SCENARIOS
// =============================================================================

type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

// ErrorResponse is returned on errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func toGroupDTO(g teamview.Group) GroupDTO {
	dto := GroupDTO{
		ID:                    string(g.ID),
		OrganizationID:        string(g.OrganizationID),
		Name:                  g.Name,
		Allowance:             g.Allowance,
		IncludePublicHolidays: g.IncludePublicHolidays,
		SupervisorIDs:         make([]string, 0, len(g.SupervisorIDs)),
	}
	if g.HeadID != nil {
		head := string(*g.HeadID)
		dto.HeadID = &head
	}
	for _, s := range g.SupervisorIDs {
		dto.SupervisorIDs = append(dto.SupervisorIDs, string(s))
	}
	return dto
}

func toHolidayDTO(h generic.Holiday) HolidayDTO {
	return HolidayDTO{
		ID:        h.ID,
		CompanyID: string(h.CompanyID),
		Date:      h.Date.String(),
		Name:      h.Name,
		Recurring: h.Recurring,
	}
}

func toTeamViewDTO(tv *teamview.TeamView) TeamViewDTO {
	dto := TeamViewDTO{
		Group: toGroupDTO(tv.Group),
		Organization: OrganizationDTO{
			ID:       string(tv.Organization.ID),
			Name:     tv.Organization.Name,
			Country:  tv.Organization.Country,
			Timezone: tv.Organization.Timezone,
		},
		Period:  PeriodDTO{Start: tv.Period.Start.String(), End: tv.Period.End.String()},
		Entries: make([]TeamViewEntryDTO, 0, len(tv.Entries)),
	}

	for _, e := range tv.Entries {
		entry := TeamViewEntryDTO{
			Member: MemberDTO{
				ID:           string(e.Member.ID),
				Name:         e.Member.Name,
				Lastname:     e.Member.Lastname,
				FullName:     e.Member.FullName(),
				Email:        e.Member.Email,
				IsHead:       tv.Group.IsHead(e.Member.ID),
				IsSupervisor: tv.Group.HasSupervisor(e.Member.ID),
			},
			Schedule: toScheduleDTO(e.Schedule),
			Days:     make([]DayDTO, 0, len(e.Days)),
		}
		for _, d := range e.Days {
			entry.Days = append(entry.Days, toDayDTO(d))
		}
		dto.Entries = append(dto.Entries, entry)
	}
	return dto
}

func toScheduleDTO(s *teamview.Schedule) *ScheduleDTO {
	if s == nil {
		return nil
	}
	days := make(map[string]string, 7)
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		days[strings.ToLower(wd.String())] = string(s.WorkPartFor(wd))
	}
	return &ScheduleDTO{
		ID:             s.ID,
		MemberSpecific: s.IsMemberSpecific(),
		Days:           days,
	}
}

func toDayDTO(d teamview.DayClassification) DayDTO {
	dto := DayDTO{
		Date:                d.Date.String(),
		Status:              string(d.Status),
		IsWeekend:           d.IsWeekend,
		ScheduledNonWorking: d.ScheduledNonWorking,
		WorkPart:            string(d.WorkPart),
	}
	if d.Holiday != nil {
		h := toHolidayDTO(*d.Holiday)
		dto.Holiday = &h
	}
	if d.Leave != nil {
		leave := &LeaveDTO{
			Coverage: d.Leave.Coverage.Float64(),
			Parts:    make([]string, 0, len(d.Leave.Parts)),
			Records:  make([]LeaveRecordDTO, 0, len(d.Leave.Records)),
		}
		for _, p := range d.Leave.Parts {
			leave.Parts = append(leave.Parts, string(p))
		}
		sort.Strings(leave.Parts)
		for _, r := range d.Leave.Records {
			leave.Records = append(leave.Records, LeaveRecordDTO{
				ID:        string(r.ID),
				Type:      r.Type.Name,
				Color:     r.Type.Color,
				Status:    string(r.Status),
				DateStart: r.DateStart.String(),
				DateEnd:   r.DateEnd.String(),
			})
		}
		dto.Leave = leave
	}
	return dto
}
