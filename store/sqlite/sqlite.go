/*
Package sqlite provides a SQLite-backed implementation of the team view
collaborator interfaces.

PURPOSE:
  Implements teamview.GroupStore, LeaveStore, ScheduleStore and OrgStore
  using SQLite, plus the write methods the demo scenarios and the API need.
  The team view itself only reads.

KEY TABLES:
  organizations:      Companies
  departments:        Groups (allowance, include_public_holidays, head)
  group_supervisors:  Group <-> member supervisor links
  members:            People, with activation and end date
  leave_types:        Kinds of absence
  leaves:             Leave records (start/end date and day part)
  schedules:          Weekly schedules; member_id NULL = organization default
  holidays:           Public holidays (company-specific and global)

INDEXES:
  - idx_members_group:          Active member lookup (hot path)
  - idx_leaves_member_dates:    Period overlap queries (hot path)
  - idx_schedules_member:       One member-specific schedule per member
  - idx_holidays_company_date:  Holiday lookup

REFERENTIAL INTEGRITY:
  departments.head_id has no foreign key: a group's head may belong to
  another group or be gone.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. In-memory databases are limited to
  one connection because every connection to ":memory:" is a separate
  database.

USAGE:
  store, err := sqlite.New("./data/teamcal.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  svc := teamview.NewService(store, logger)

SEE ALSO:
  - teamview/store.go: Interface definitions
  - teamview/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/warp/team-calendar/generic"
	"github.com/warp/team-calendar/teamview"
)

// Store implements all storage interfaces using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var (
	_ teamview.GroupStore    = (*Store)(nil)
	_ teamview.LeaveStore    = (*Store)(nil)
	_ teamview.ScheduleStore = (*Store)(nil)
	_ teamview.OrgStore      = (*Store)(nil)
)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS organizations (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		country TEXT NOT NULL DEFAULT '',
		timezone TEXT NOT NULL DEFAULT 'UTC',
		created_at TEXT NOT NULL
	);

	-- Groups. head_id carries no foreign key on purpose.
	CREATE TABLE IF NOT EXISTS departments (
		id TEXT PRIMARY KEY,
		organization_id TEXT NOT NULL REFERENCES organizations(id),
		name TEXT NOT NULL,
		allowance INTEGER NOT NULL DEFAULT 20 CHECK (allowance >= 0),
		include_public_holidays BOOLEAN NOT NULL DEFAULT TRUE,
		head_id TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_departments_organization
		ON departments(organization_id);

	CREATE TABLE IF NOT EXISTS group_supervisors (
		group_id TEXT NOT NULL REFERENCES departments(id) ON DELETE CASCADE,
		member_id TEXT NOT NULL,
		PRIMARY KEY (group_id, member_id)
	);

	CREATE TABLE IF NOT EXISTS members (
		id TEXT PRIMARY KEY,
		organization_id TEXT NOT NULL,
		group_id TEXT,
		name TEXT NOT NULL,
		lastname TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL DEFAULT '',
		activated BOOLEAN NOT NULL DEFAULT TRUE,
		start_date TEXT NOT NULL,
		end_date TEXT,
		position INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_members_group
		ON members(group_id, position);

	CREATE TABLE IF NOT EXISTS leave_types (
		id TEXT PRIMARY KEY,
		organization_id TEXT NOT NULL,
		name TEXT NOT NULL,
		color TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS leaves (
		id TEXT PRIMARY KEY,
		member_id TEXT NOT NULL,
		leave_type_id TEXT,
		status TEXT NOT NULL DEFAULT 'pending',
		date_start TEXT NOT NULL,
		day_part_start TEXT NOT NULL DEFAULT 'all',
		date_end TEXT NOT NULL,
		day_part_end TEXT NOT NULL DEFAULT 'all',
		comment TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_leaves_member_dates
		ON leaves(member_id, date_start, date_end);

	CREATE TABLE IF NOT EXISTS schedules (
		id TEXT PRIMARY KEY,
		organization_id TEXT NOT NULL,
		member_id TEXT,
		monday TEXT NOT NULL DEFAULT 'full',
		tuesday TEXT NOT NULL DEFAULT 'full',
		wednesday TEXT NOT NULL DEFAULT 'full',
		thursday TEXT NOT NULL DEFAULT 'full',
		friday TEXT NOT NULL DEFAULT 'full',
		saturday TEXT NOT NULL DEFAULT 'none',
		sunday TEXT NOT NULL DEFAULT 'none',
		created_at TEXT NOT NULL
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_schedules_member
		ON schedules(member_id) WHERE member_id IS NOT NULL;
	CREATE UNIQUE INDEX IF NOT EXISTS idx_schedules_default
		ON schedules(organization_id) WHERE member_id IS NULL;

	-- Holidays (company-specific and global)
	CREATE TABLE IF NOT EXISTS holidays (
		id TEXT PRIMARY KEY,
		company_id TEXT NOT NULL DEFAULT '',
		date TEXT NOT NULL,
		name TEXT NOT NULL,
		recurring BOOLEAN DEFAULT FALSE,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_holidays_company_date
		ON holidays(company_id, date);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_holidays_unique
		ON holidays(company_id, date, name);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Reset removes all data (scenario loading).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tables := []string{
		"holidays", "schedules", "leaves", "leave_types",
		"members", "group_supervisors", "departments", "organizations",
	}
	for _, t := range tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+t); err != nil {
			return fmt.Errorf("reset %s: %w", t, err)
		}
	}
	return nil
}

func nowString() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func parseDate(column, s string) (generic.TimePoint, error) {
	tp, err := generic.ParseDate(s)
	if err != nil {
		return generic.TimePoint{}, fmt.Errorf("invalid %s %q: %w", column, s, err)
	}
	return tp, nil
}

// =============================================================================
// ORGANIZATION STORE
// =============================================================================

// SaveOrganization upserts an organization.
func (s *Store) SaveOrganization(ctx context.Context, org teamview.Organization) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO organizations (id, name, country, timezone, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			country = excluded.country,
			timezone = excluded.timezone
	`
	tz := org.Timezone
	if tz == "" {
		tz = "UTC"
	}
	_, err := s.db.ExecContext(ctx, query, string(org.ID), org.Name, org.Country, tz, nowString())
	return err
}

// GetOrganization returns the organization owning a group.
func (s *Store) GetOrganization(ctx context.Context, groupID teamview.GroupID) (*teamview.Organization, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var orgID string
	err := s.db.QueryRowContext(ctx,
		"SELECT organization_id FROM departments WHERE id = ?", string(groupID),
	).Scan(&orgID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", generic.ErrGroupNotFound, groupID)
	}
	if err != nil {
		return nil, err
	}

	var org teamview.Organization
	var id string
	err = s.db.QueryRowContext(ctx,
		"SELECT id, name, country, timezone FROM organizations WHERE id = ?", orgID,
	).Scan(&id, &org.Name, &org.Country, &org.Timezone)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", generic.ErrOrganizationNotFound, orgID)
	}
	if err != nil {
		return nil, err
	}
	org.ID = generic.OrganizationID(id)
	return &org, nil
}

// =============================================================================
// GROUP STORE
// =============================================================================

// SaveGroup upserts a group and replaces its supervisor links.
func (s *Store) SaveGroup(ctx context.Context, g teamview.Group) error {
	if err := g.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var head sql.NullString
	if g.HeadID != nil {
		head = sql.NullString{String: string(*g.HeadID), Valid: true}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO departments (id, organization_id, name, allowance, include_public_holidays, head_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			organization_id = excluded.organization_id,
			name = excluded.name,
			allowance = excluded.allowance,
			include_public_holidays = excluded.include_public_holidays,
			head_id = excluded.head_id
	`, string(g.ID), string(g.OrganizationID), g.Name, g.Allowance, g.IncludePublicHolidays, head, nowString())
	if err != nil {
		return fmt.Errorf("save group: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM group_supervisors WHERE group_id = ?", string(g.ID)); err != nil {
		return fmt.Errorf("clear supervisors: %w", err)
	}
	for _, sup := range g.SupervisorIDs {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO group_supervisors (group_id, member_id) VALUES (?, ?)",
			string(g.ID), string(sup),
		); err != nil {
			return fmt.Errorf("save supervisor %s: %w", sup, err)
		}
	}

	return tx.Commit()
}

// GetGroup retrieves a group with its supervisors.
func (s *Store) GetGroup(ctx context.Context, id teamview.GroupID) (*teamview.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, organization_id, name, allowance, include_public_holidays, head_id
		FROM departments WHERE id = ?
	`, string(id))
	g, err := scanGroup(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", generic.ErrGroupNotFound, id)
	}
	if err != nil {
		return nil, err
	}

	sups, err := s.supervisors(ctx, g.ID)
	if err != nil {
		return nil, err
	}
	g.SupervisorIDs = sups
	return g, nil
}

// ListGroups returns all groups ordered by name.
func (s *Store) ListGroups(ctx context.Context) ([]teamview.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, organization_id, name, allowance, include_public_holidays, head_id
		FROM departments ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var groups []teamview.Group
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return nil, err
		}
		groups = append(groups, *g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range groups {
		sups, err := s.supervisors(ctx, groups[i].ID)
		if err != nil {
			return nil, err
		}
		groups[i].SupervisorIDs = sups
	}
	return groups, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGroup(row rowScanner) (*teamview.Group, error) {
	var g teamview.Group
	var id, orgID string
	var head sql.NullString
	if err := row.Scan(&id, &orgID, &g.Name, &g.Allowance, &g.IncludePublicHolidays, &head); err != nil {
		return nil, err
	}
	g.ID = teamview.GroupID(id)
	g.OrganizationID = generic.OrganizationID(orgID)
	if head.Valid {
		h := teamview.MemberID(head.String)
		g.HeadID = &h
	}
	return &g, nil
}

func (s *Store) supervisors(ctx context.Context, groupID teamview.GroupID) ([]teamview.MemberID, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT member_id FROM group_supervisors WHERE group_id = ? ORDER BY member_id",
		string(groupID),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []teamview.MemberID
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, teamview.MemberID(id))
	}
	return ids, rows.Err()
}

// =============================================================================
// MEMBER STORE
// =============================================================================

// SaveMember upserts a member. Members are listed in save order.
func (s *Store) SaveMember(ctx context.Context, m teamview.Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var endDate sql.NullString
	if m.EndDate != nil {
		endDate = sql.NullString{String: m.EndDate.String(), Valid: true}
	}
	startDate := m.StartDate
	if startDate.IsZero() {
		startDate = generic.Today()
	}

	query := `
		INSERT INTO members (id, organization_id, group_id, name, lastname, email, activated, start_date, end_date, position, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, (SELECT COALESCE(MAX(position), 0) + 1 FROM members), ?)
		ON CONFLICT(id) DO UPDATE SET
			organization_id = excluded.organization_id,
			group_id = excluded.group_id,
			name = excluded.name,
			lastname = excluded.lastname,
			email = excluded.email,
			activated = excluded.activated,
			start_date = excluded.start_date,
			end_date = excluded.end_date
	`
	_, err := s.db.ExecContext(ctx, query,
		string(m.ID), string(m.OrganizationID), string(m.GroupID),
		m.Name, m.Lastname, m.Email, m.Activated,
		startDate.String(), endDate, nowString(),
	)
	return err
}

// ListMembers returns every member of the group in display order.
func (s *Store) ListMembers(ctx context.Context, groupID teamview.GroupID) ([]teamview.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var exists int
	if err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM departments WHERE id = ?", string(groupID),
	).Scan(&exists); err != nil {
		return nil, err
	}
	if exists == 0 {
		return nil, fmt.Errorf("%w: %s", generic.ErrGroupNotFound, groupID)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, organization_id, group_id, name, lastname, email, activated, start_date, end_date
		FROM members WHERE group_id = ?
		ORDER BY position, id
	`, string(groupID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []teamview.Member
	for rows.Next() {
		var m teamview.Member
		var id, orgID, gID, startDate string
		var endDate sql.NullString
		if err := rows.Scan(&id, &orgID, &gID, &m.Name, &m.Lastname, &m.Email, &m.Activated, &startDate, &endDate); err != nil {
			return nil, err
		}
		m.ID = teamview.MemberID(id)
		m.OrganizationID = generic.OrganizationID(orgID)
		m.GroupID = teamview.GroupID(gID)
		if m.StartDate, err = parseDate("members.start_date", startDate); err != nil {
			return nil, err
		}
		if endDate.Valid {
			end, err := parseDate("members.end_date", endDate.String)
			if err != nil {
				return nil, err
			}
			m.EndDate = &end
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// =============================================================================
// LEAVE STORE
// =============================================================================

// SaveLeaveType upserts a leave type for an organization.
func (s *Store) SaveLeaveType(ctx context.Context, orgID generic.OrganizationID, lt teamview.LeaveType) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO leave_types (id, organization_id, name, color)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			color = excluded.color
	`, lt.ID, string(orgID), lt.Name, lt.Color)
	return err
}

// SaveLeave upserts a leave record. The leave type must be saved first for
// its name and color to come back on reads.
func (s *Store) SaveLeave(ctx context.Context, l teamview.LeaveRecord) error {
	if l.DateEnd.Before(l.DateStart) {
		return fmt.Errorf("%w: leave %s ends before it starts", generic.ErrInvalidPeriod, l.ID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	status := l.Status
	if status == "" {
		status = teamview.LeavePending
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO leaves (id, member_id, leave_type_id, status, date_start, day_part_start, date_end, day_part_end, comment, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			leave_type_id = excluded.leave_type_id,
			status = excluded.status,
			date_start = excluded.date_start,
			day_part_start = excluded.day_part_start,
			date_end = excluded.date_end,
			day_part_end = excluded.day_part_end,
			comment = excluded.comment
	`,
		string(l.ID), string(l.MemberID), l.Type.ID, string(status),
		l.DateStart.String(), string(dayPart(l.DayPartStart)),
		l.DateEnd.String(), string(dayPart(l.DayPartEnd)),
		l.Comment, nowString(),
	)
	return err
}

func dayPart(p teamview.DayPart) teamview.DayPart {
	if p == "" {
		return teamview.DayPartAll
	}
	return p
}

// GetLeaves returns the member's leaves sharing a day with period.
func (s *Store) GetLeaves(ctx context.Context, memberID teamview.MemberID, period generic.Period) ([]teamview.LeaveRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT l.id, l.member_id, l.status, l.date_start, l.day_part_start, l.date_end, l.day_part_end, l.comment,
		       COALESCE(t.id, ''), COALESCE(t.name, ''), COALESCE(t.color, '')
		FROM leaves l
		LEFT JOIN leave_types t ON t.id = l.leave_type_id
		WHERE l.member_id = ?
		  AND l.date_start <= ?
		  AND l.date_end >= ?
		ORDER BY l.date_start, l.id
	`, string(memberID), period.End.String(), period.Start.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var leaves []teamview.LeaveRecord
	for rows.Next() {
		var l teamview.LeaveRecord
		var id, member, status, start, partStart, end, partEnd string
		if err := rows.Scan(&id, &member, &status, &start, &partStart, &end, &partEnd, &l.Comment,
			&l.Type.ID, &l.Type.Name, &l.Type.Color); err != nil {
			return nil, err
		}
		l.ID = teamview.LeaveID(id)
		l.MemberID = teamview.MemberID(member)
		l.Status = teamview.LeaveStatus(status)
		if l.DateStart, err = parseDate("leaves.date_start", start); err != nil {
			return nil, err
		}
		l.DayPartStart = teamview.DayPart(partStart)
		if l.DateEnd, err = parseDate("leaves.date_end", end); err != nil {
			return nil, err
		}
		l.DayPartEnd = teamview.DayPart(partEnd)
		leaves = append(leaves, l)
	}
	return leaves, rows.Err()
}

// =============================================================================
// SCHEDULE STORE
// =============================================================================

var weekdayColumns = []struct {
	column  string
	weekday time.Weekday
}{
	{"monday", time.Monday},
	{"tuesday", time.Tuesday},
	{"wednesday", time.Wednesday},
	{"thursday", time.Thursday},
	{"friday", time.Friday},
	{"saturday", time.Saturday},
	{"sunday", time.Sunday},
}

// SaveSchedule upserts a schedule. A nil MemberID makes it the
// organization default.
func (s *Store) SaveSchedule(ctx context.Context, sch teamview.Schedule) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var member sql.NullString
	if sch.MemberID != nil {
		member = sql.NullString{String: string(*sch.MemberID), Valid: true}
	}

	cols := make([]string, 0, len(weekdayColumns))
	updates := make([]string, 0, len(weekdayColumns))
	args := []any{sch.ID, string(sch.OrganizationID), member}
	for _, wc := range weekdayColumns {
		cols = append(cols, wc.column)
		updates = append(updates, fmt.Sprintf("%s = excluded.%s", wc.column, wc.column))
		args = append(args, string(workPart(sch.Days[wc.weekday])))
	}
	args = append(args, nowString())

	query := fmt.Sprintf(`
		INSERT INTO schedules (id, organization_id, member_id, %s, created_at)
		VALUES (?, ?, ?, %s, ?)
		ON CONFLICT(id) DO UPDATE SET
			organization_id = excluded.organization_id,
			member_id = excluded.member_id,
			%s
	`, strings.Join(cols, ", "), strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", "), strings.Join(updates, ",\n\t\t\t"))

	_, err := s.db.ExecContext(ctx, query, args...)
	return err
}

func workPart(p teamview.WorkPart) teamview.WorkPart {
	if p == "" {
		return teamview.WorkFull
	}
	return p
}

// GetSchedule returns the member-specific schedule, or nil.
func (s *Store) GetSchedule(ctx context.Context, memberID teamview.MemberID) (*teamview.Schedule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.querySchedule(ctx, "member_id = ?", string(memberID))
}

// GetDefaultSchedule returns the organization default schedule, or nil.
func (s *Store) GetDefaultSchedule(ctx context.Context, orgID generic.OrganizationID) (*teamview.Schedule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.querySchedule(ctx, "organization_id = ? AND member_id IS NULL", string(orgID))
}

func (s *Store) querySchedule(ctx context.Context, where string, args ...any) (*teamview.Schedule, error) {
	query := `
		SELECT id, organization_id, member_id, monday, tuesday, wednesday, thursday, friday, saturday, sunday
		FROM schedules WHERE ` + where + ` LIMIT 1`

	var sch teamview.Schedule
	var orgID string
	var member sql.NullString
	parts := make([]string, len(weekdayColumns))
	dest := []any{&sch.ID, &orgID, &member}
	for i := range parts {
		dest = append(dest, &parts[i])
	}

	err := s.db.QueryRowContext(ctx, query, args...).Scan(dest...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	sch.OrganizationID = generic.OrganizationID(orgID)
	if member.Valid {
		id := teamview.MemberID(member.String)
		sch.MemberID = &id
	}
	sch.Days = make(map[time.Weekday]teamview.WorkPart, len(weekdayColumns))
	for i, wc := range weekdayColumns {
		sch.Days[wc.weekday] = teamview.WorkPart(parts[i])
	}
	return &sch, nil
}

// =============================================================================
// HOLIDAY STORE
// =============================================================================

// SaveHoliday upserts a holiday on (company, date, name) and returns the
// stored row. On conflict the existing ID is kept.
func (s *Store) SaveHoliday(ctx context.Context, h generic.Holiday) (generic.Holiday, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO holidays (id, company_id, date, name, recurring, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(company_id, date, name) DO UPDATE SET
			recurring = excluded.recurring
		RETURNING id, recurring
	`

	stored := h
	err := s.db.QueryRowContext(ctx, query,
		h.ID,
		string(h.CompanyID),
		h.Date.String(),
		h.Name,
		h.Recurring,
		nowString(),
	).Scan(&stored.ID, &stored.Recurring)
	if err != nil {
		return generic.Holiday{}, err
	}
	return stored, nil
}

// DeleteHoliday deletes a holiday by ID.
func (s *Store) DeleteHoliday(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, "DELETE FROM holidays WHERE id = ?", id)
	return err
}

// GetHolidays returns the organization's holidays plus global ones, by date.
func (s *Store) GetHolidays(ctx context.Context, orgID generic.OrganizationID) ([]generic.Holiday, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, company_id, date, name, recurring
		FROM holidays
		WHERE company_id = ? OR company_id = ''
		ORDER BY date ASC, name ASC
	`, string(orgID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var holidays []generic.Holiday
	for rows.Next() {
		var h generic.Holiday
		var companyID, dateStr string
		if err := rows.Scan(&h.ID, &companyID, &dateStr, &h.Name, &h.Recurring); err != nil {
			return nil, err
		}
		h.CompanyID = generic.OrganizationID(companyID)
		if h.Date, err = parseDate("holidays.date", dateStr); err != nil {
			return nil, err
		}
		holidays = append(holidays, h)
	}

	return holidays, rows.Err()
}
