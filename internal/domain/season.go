package domain

import "time"

// Season is a tenant's configured season record. Boundaries change rarely, so
// the active-season lookup is cached with a long TTL.
type Season struct {
	ID        int64     `json:"id"`
	SchoolID  int64     `json:"school_id"`
	Name      string    `json:"name"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}
