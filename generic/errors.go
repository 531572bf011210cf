/*
errors.go - Centralized error types for the calendar engine

PURPOSE:
  All sentinel errors in one place for consistency and discoverability.
  The teamview package wraps these with the failing stage and member.

ERROR CATEGORIES:
  1. Resolution errors - group or organization cannot be found
  2. Validation errors - malformed input (periods, groups)

USAGE:
  if errors.Is(err, generic.ErrGroupNotFound) {
      // 404
  }

SEE ALSO:
  - teamview/errors.go: FetchError carrying the failing stage
  - api/handlers.go: Maps these to HTTP status codes
*/
package generic

import (
	"errors"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrGroupNotFound is returned when a referenced group doesn't exist.
	ErrGroupNotFound = errors.New("group not found")

	// ErrOrganizationNotFound is returned when a group's organization doesn't resolve.
	ErrOrganizationNotFound = errors.New("organization not found")

	// ErrInvalidPeriod is returned when a period is malformed (end before start).
	ErrInvalidPeriod = errors.New("invalid period: end before start")

	// ErrUnknownPeriodType is returned for period kinds PeriodFor does not know.
	ErrUnknownPeriodType = errors.New("unknown period type")

	// ErrInvalidGroup is returned when group attributes break their constraints.
	ErrInvalidGroup = errors.New("invalid group")
)

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidPeriod) ||
		errors.Is(err, ErrUnknownPeriodType) ||
		errors.Is(err, ErrInvalidGroup)
}

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrGroupNotFound) ||
		errors.Is(err, ErrOrganizationNotFound)
}
