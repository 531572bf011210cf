// Package store provides in-memory implementations of the teamview
// collaborator interfaces.
package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/warp/team-calendar/generic"
	"github.com/warp/team-calendar/teamview"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

// Memory implements GroupStore, LeaveStore, ScheduleStore and OrgStore.
// Members are listed in insertion order.
type Memory struct {
	mu               sync.RWMutex
	organizations    map[generic.OrganizationID]teamview.Organization
	groups           map[teamview.GroupID]teamview.Group
	members          map[teamview.GroupID][]teamview.Member
	leaves           map[teamview.MemberID][]teamview.LeaveRecord
	schedules        map[teamview.MemberID]teamview.Schedule
	defaultSchedules map[generic.OrganizationID]teamview.Schedule
	holidays         map[generic.OrganizationID][]generic.Holiday
}

var (
	_ teamview.GroupStore    = (*Memory)(nil)
	_ teamview.LeaveStore    = (*Memory)(nil)
	_ teamview.ScheduleStore = (*Memory)(nil)
	_ teamview.OrgStore      = (*Memory)(nil)
)

func NewMemory() *Memory {
	return &Memory{
		organizations:    make(map[generic.OrganizationID]teamview.Organization),
		groups:           make(map[teamview.GroupID]teamview.Group),
		members:          make(map[teamview.GroupID][]teamview.Member),
		leaves:           make(map[teamview.MemberID][]teamview.LeaveRecord),
		schedules:        make(map[teamview.MemberID]teamview.Schedule),
		defaultSchedules: make(map[generic.OrganizationID]teamview.Schedule),
		holidays:         make(map[generic.OrganizationID][]generic.Holiday),
	}
}

// =============================================================================
// WRITES
// =============================================================================

func (m *Memory) AddOrganization(org teamview.Organization) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.organizations[org.ID] = org
}

func (m *Memory) AddGroup(g teamview.Group) error {
	if err := g.Validate(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.groups[g.ID] = g
	return nil
}

func (m *Memory) AddMember(member teamview.Member) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.members[member.GroupID] = append(m.members[member.GroupID], member)
}

func (m *Memory) AddLeave(l teamview.LeaveRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.leaves[l.MemberID] = append(m.leaves[l.MemberID], l)
}

// SetSchedule stores a member-specific schedule, or the organization
// default when MemberID is nil.
func (m *Memory) SetSchedule(s teamview.Schedule) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s.MemberID == nil {
		m.defaultSchedules[s.OrganizationID] = s
		return
	}
	m.schedules[*s.MemberID] = s
}

func (m *Memory) AddHoliday(h generic.Holiday) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.holidays[h.CompanyID] = append(m.holidays[h.CompanyID], h)
}

// =============================================================================
// READS
// =============================================================================

func (m *Memory) GetGroup(_ context.Context, id teamview.GroupID) (*teamview.Group, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	g, ok := m.groups[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", generic.ErrGroupNotFound, id)
	}
	g.SupervisorIDs = append([]teamview.MemberID(nil), g.SupervisorIDs...)
	return &g, nil
}

func (m *Memory) ListGroups(_ context.Context) ([]teamview.Group, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	groups := make([]teamview.Group, 0, len(m.groups))
	for _, g := range m.groups {
		groups = append(groups, g)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Name < groups[j].Name })
	return groups, nil
}

func (m *Memory) ListMembers(_ context.Context, id teamview.GroupID) ([]teamview.Member, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, ok := m.groups[id]; !ok {
		return nil, fmt.Errorf("%w: %s", generic.ErrGroupNotFound, id)
	}
	result := make([]teamview.Member, len(m.members[id]))
	copy(result, m.members[id])
	return result, nil
}

func (m *Memory) GetOrganization(_ context.Context, id teamview.GroupID) (*teamview.Organization, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	g, ok := m.groups[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", generic.ErrGroupNotFound, id)
	}
	org, ok := m.organizations[g.OrganizationID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", generic.ErrOrganizationNotFound, g.OrganizationID)
	}
	return &org, nil
}

func (m *Memory) GetLeaves(_ context.Context, memberID teamview.MemberID, period generic.Period) ([]teamview.LeaveRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []teamview.LeaveRecord
	for _, l := range m.leaves[memberID] {
		if period.Overlaps(l.DateStart, l.DateEnd) {
			result = append(result, l)
		}
	}
	return result, nil
}

func (m *Memory) GetSchedule(_ context.Context, memberID teamview.MemberID) (*teamview.Schedule, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.schedules[memberID]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (m *Memory) GetDefaultSchedule(_ context.Context, orgID generic.OrganizationID) (*teamview.Schedule, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.defaultSchedules[orgID]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

// GetHolidays returns the organization's holidays plus global ones
// (stored with an empty CompanyID), ordered by date.
func (m *Memory) GetHolidays(_ context.Context, orgID generic.OrganizationID) ([]generic.Holiday, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []generic.Holiday
	result = append(result, m.holidays[orgID]...)
	if orgID != "" {
		result = append(result, m.holidays[""]...)
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].Date.Before(result[j].Date) })
	return result, nil
}
