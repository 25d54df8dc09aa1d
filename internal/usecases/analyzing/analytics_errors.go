package analyzing

import (
	"errors"
	"fmt"
)

// Errors of the analytics context.
var (
	// Validation errors; surfaced to callers as client errors, not retried.
	ErrInvalidDateRange = errors.New("invalid date range")
	ErrSeasonNotFound   = errors.New("season not found")
	ErrUnknownScope     = errors.New("unknown cache scope")

	// The transactional store is unreachable or the aggregate query timed
	// out. Surfaced as a server error, safe to retry with backoff. Never
	// answered with a partial or zero-filled document.
	ErrAggregationUnavailable = errors.New("aggregation query unavailable")
)

// AnalyticsError carries request context alongside the base error.
type AnalyticsError struct {
	Err      error
	SchoolID int64
	Details  string
}

func (e *AnalyticsError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

func (e *AnalyticsError) Unwrap() error {
	return e.Err
}

func NewAnalyticsError(baseErr error, schoolID int64, details string) *AnalyticsError {
	return &AnalyticsError{
		Err:      baseErr,
		SchoolID: schoolID,
		Details:  details,
	}
}

// IsClientError reports whether the error should map to a 4xx response.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidDateRange) ||
		errors.Is(err, ErrSeasonNotFound) ||
		errors.Is(err, ErrUnknownScope)
}
