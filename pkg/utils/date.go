package utils

import "time"

// ParseOptionalDate parses a YYYY-MM-DD query parameter, returning nil when
// the parameter is absent.
func ParseOptionalDate(dateStr string) (*time.Time, error) {
	if dateStr == "" {
		return nil, nil
	}

	date, err := time.Parse(time.DateOnly, dateStr)
	if err != nil {
		return nil, err
	}

	return &date, nil
}
