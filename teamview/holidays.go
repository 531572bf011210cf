package teamview

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/warp/team-calendar/generic"
)

// =============================================================================
// HOLIDAY SET
// =============================================================================

// HolidaySet is a read-only lookup of public holidays. It is safe to share
// between goroutines once built.
type HolidaySet struct {
	byDate    map[string]generic.Holiday
	recurring []generic.Holiday
}

// NewHolidaySet indexes holidays. When two holidays share a date the first
// one wins.
func NewHolidaySet(holidays []generic.Holiday) HolidaySet {
	set := HolidaySet{byDate: make(map[string]generic.Holiday, len(holidays))}
	for _, h := range holidays {
		if h.Recurring {
			set.recurring = append(set.recurring, h)
			continue
		}
		if _, ok := set.byDate[h.Date.Key()]; !ok {
			set.byDate[h.Date.Key()] = h
		}
	}
	return set
}

// EmptyHolidaySet is what members of groups that ignore public holidays get.
func EmptyHolidaySet() HolidaySet {
	return HolidaySet{}
}

// Lookup returns the holiday on date, if any.
func (s HolidaySet) Lookup(date generic.TimePoint) (generic.Holiday, bool) {
	if h, ok := s.byDate[date.Key()]; ok {
		return h, true
	}
	for _, h := range s.recurring {
		if h.OccursOn(date) {
			return h, true
		}
	}
	return generic.Holiday{}, false
}

func (s HolidaySet) Contains(date generic.TimePoint) bool {
	_, ok := s.Lookup(date)
	return ok
}

func (s HolidaySet) Len() int {
	return len(s.byDate) + len(s.recurring)
}

// =============================================================================
// HOLIDAY PROVIDER
// =============================================================================

// HolidayProvider returns the public holidays of an organization. It knows
// nothing about groups; the include_public_holidays flag is applied by the
// caller.
type HolidayProvider interface {
	Holidays(ctx context.Context, orgID generic.OrganizationID) (HolidaySet, error)
}

// StoreHolidayProvider reads holidays straight from an OrgStore.
type StoreHolidayProvider struct {
	Orgs OrgStore
}

func (p *StoreHolidayProvider) Holidays(ctx context.Context, orgID generic.OrganizationID) (HolidaySet, error) {
	holidays, err := p.Orgs.GetHolidays(ctx, orgID)
	if err != nil {
		return HolidaySet{}, fmt.Errorf("load holidays of organization %s: %w", orgID, err)
	}
	return NewHolidaySet(holidays), nil
}

// CachingHolidayProvider keeps each organization's holiday set for TTL.
// Failed lookups are not cached.
type CachingHolidayProvider struct {
	Next  HolidayProvider
	TTL   time.Duration
	Clock func() time.Time

	mu      sync.Mutex
	entries map[generic.OrganizationID]cachedHolidays
}

type cachedHolidays struct {
	set       HolidaySet
	expiresAt time.Time
}

func NewCachingHolidayProvider(next HolidayProvider, ttl time.Duration) *CachingHolidayProvider {
	return &CachingHolidayProvider{
		Next:    next,
		TTL:     ttl,
		entries: make(map[generic.OrganizationID]cachedHolidays),
	}
}

func (c *CachingHolidayProvider) Holidays(ctx context.Context, orgID generic.OrganizationID) (HolidaySet, error) {
	now := c.now()

	c.mu.Lock()
	if e, ok := c.entries[orgID]; ok && now.Before(e.expiresAt) {
		c.mu.Unlock()
		return e.set, nil
	}
	c.mu.Unlock()

	set, err := c.Next.Holidays(ctx, orgID)
	if err != nil {
		return HolidaySet{}, err
	}

	c.mu.Lock()
	if c.entries == nil {
		c.entries = make(map[generic.OrganizationID]cachedHolidays)
	}
	c.entries[orgID] = cachedHolidays{set: set, expiresAt: now.Add(c.TTL)}
	c.mu.Unlock()
	return set, nil
}

// Invalidate drops the cached set of one organization.
func (c *CachingHolidayProvider) Invalidate(orgID generic.OrganizationID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, orgID)
}

func (c *CachingHolidayProvider) now() time.Time {
	if c.Clock != nil {
		return c.Clock()
	}
	return time.Now()
}

// InvalidateAll empties the cache.
func (c *CachingHolidayProvider) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[generic.OrganizationID]cachedHolidays)
}
