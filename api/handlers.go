/*
handlers.go - HTTP API handlers for the team calendar

PURPOSE:
  Exposes the team view engine via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to teamview.Service.

ENDPOINTS:
  Groups:
    GET    /api/groups                       List groups (by name)
    GET    /api/groups/{id}                  Group with head and supervisors
    GET    /api/groups/{id}/team-view        Team calendar (?date=&period=)

  Holidays:
    GET    /api/organizations/{id}/holidays  List holidays
    POST   /api/organizations/{id}/holidays  Add a holiday

  Scenarios:
    GET    /api/scenarios                    List demo scenarios
    POST   /api/scenarios/load               Load a demo scenario

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Invalid date, period or body
  - 404: Group or organization not found
  - 500: Store failures

SECURITY NOTE:
  No authentication or authorization. Who may see a team view is decided
  in front of this service.

SEE ALSO:
  - dto.go: Response data structures
  - scenarios.go: Demo scenario loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/warp/team-calendar/generic"
	"github.com/warp/team-calendar/store/sqlite"
	"github.com/warp/team-calendar/teamview"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store   *sqlite.Store
	Service *teamview.Service
	Logger  *zap.Logger

	// HolidayCache is invalidated when holidays change; may be nil.
	HolidayCache *teamview.CachingHolidayProvider

	// scenarioMu serializes scenario loads and guards currentScenario.
	scenarioMu      sync.Mutex
	currentScenario string
}

// NewHandler creates a new handler with the given store and service.
func NewHandler(store *sqlite.Store, svc *teamview.Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Handler{
		Store:   store,
		Service: svc,
		Logger:  logger,
	}
	if cache, ok := svc.Holidays.(*teamview.CachingHolidayProvider); ok {
		h.HolidayCache = cache
	}
	return h
}

// =============================================================================
// GROUP HANDLERS
// =============================================================================

// ListGroups returns all groups ordered by name.
func (h *Handler) ListGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := h.Store.ListGroups(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list groups", err)
		return
	}

	dtos := make([]GroupDTO, 0, len(groups))
	for _, g := range groups {
		dtos = append(dtos, toGroupDTO(g))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetGroup returns a single group.
func (h *Handler) GetGroup(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	g, err := h.Store.GetGroup(r.Context(), teamview.GroupID(id))
	if err != nil {
		writeDomainError(w, "Failed to get group", err)
		return
	}
	writeJSON(w, http.StatusOK, toGroupDTO(*g))
}

// GetTeamView returns the team calendar of a group.
// GET /api/groups/{id}/team-view?date=2024-01-15&period=calendar_month
func (h *Handler) GetTeamView(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	q := r.URL.Query()

	req := teamview.TeamViewRequest{GroupID: teamview.GroupID(id)}

	if raw := q.Get("date"); raw != "" {
		date, err := generic.ParseDate(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
			return
		}
		req.BaseDate = &date
	}

	if raw := q.Get("period"); raw != "" {
		pt, err := generic.ParsePeriodType(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid period", err)
			return
		}
		req.PeriodType = pt
	}

	tv, err := h.Service.TeamView(r.Context(), req)
	if err != nil {
		h.Logger.Error("Team view failed",
			zap.String("group_id", id),
			zap.Error(err))
		writeDomainError(w, "Failed to build team view", err)
		return
	}

	writeJSON(w, http.StatusOK, toTeamViewDTO(tv))
}

// =============================================================================
// HOLIDAY HANDLERS
// =============================================================================

// ListHolidays returns the holidays of an organization (global ones included).
// GET /api/organizations/{id}/holidays
func (h *Handler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	orgID := generic.OrganizationID(chi.URLParam(r, "id"))

	holidays, err := h.Store.GetHolidays(r.Context(), orgID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list holidays", err)
		return
	}

	dtos := make([]HolidayDTO, 0, len(holidays))
	for _, hol := range holidays {
		dtos = append(dtos, toHolidayDTO(hol))
	}
	writeJSON(w, http.StatusOK, map[string]any{"holidays": dtos})
}

// CreateHoliday adds a holiday to an organization. Posting an existing
// date and name again updates that holiday and answers 200.
// POST /api/organizations/{id}/holidays
func (h *Handler) CreateHoliday(w http.ResponseWriter, r *http.Request) {
	orgID := generic.OrganizationID(chi.URLParam(r, "id"))

	var req CreateHolidayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "Holiday name is required", nil)
		return
	}
	date, err := generic.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return
	}

	holiday := generic.Holiday{
		ID:        uuid.NewString(),
		CompanyID: orgID,
		Date:      date,
		Name:      req.Name,
		Recurring: req.Recurring,
	}
	stored, err := h.Store.SaveHoliday(r.Context(), holiday)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create holiday", err)
		return
	}
	if h.HolidayCache != nil {
		h.HolidayCache.Invalidate(orgID)
	}

	// Same organization, date and name: the existing row was updated.
	status := http.StatusCreated
	if stored.ID != holiday.ID {
		status = http.StatusOK
	}
	writeJSON(w, status, toHolidayDTO(stored))
}

// Health reports whether the database answers.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Ping(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, "Database unavailable", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeDomainError picks the status from the error kind.
func writeDomainError(w http.ResponseWriter, message string, err error) {
	switch {
	case generic.IsNotFound(err):
		writeError(w, http.StatusNotFound, message, err)
	case generic.IsClientError(err):
		writeError(w, http.StatusBadRequest, message, err)
	case errors.Is(err, errUnknownScenario):
		writeError(w, http.StatusBadRequest, message, err)
	default:
		writeError(w, http.StatusInternalServerError, message, err)
	}
}
