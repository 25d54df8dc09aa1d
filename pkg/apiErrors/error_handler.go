package apiErrors

import (
	"encoding/json"
	"net/http"
)

// API error codes.
const (
	// Authentication (AUTH_*)
	ErrInvalidToken          = "AUTH_001" // missing or invalid bearer token
	ErrExpiredToken          = "AUTH_002" // token past its expiry
	ErrInsufficientPrivilege = "AUTH_003" // role not allowed on this route
	ErrInvalidServiceKey     = "AUTH_004" // bad service key on machine-to-machine call
	ErrSchoolAccessDenied    = "AUTH_005" // token does not grant this school

	// Validation (VAL_*)
	ErrInvalidRequest      = "VAL_001" // malformed request
	ErrMissingRequiredData = "VAL_002" // required parameter absent
	ErrInvalidDateRange    = "VAL_003" // inverted or malformed date range
	ErrInvalidScope        = "VAL_004" // unknown cache invalidation scope

	// Server (SRV_*)
	ErrInternalServer         = "SRV_001" // unexpected failure
	ErrAggregationUnavailable = "SRV_002" // store unreachable or query timed out
)

var httpStatusMap = map[string]int{
	ErrInvalidToken:           http.StatusUnauthorized,
	ErrExpiredToken:           http.StatusUnauthorized,
	ErrInsufficientPrivilege:  http.StatusForbidden,
	ErrInvalidServiceKey:      http.StatusUnauthorized,
	ErrSchoolAccessDenied:     http.StatusForbidden,
	ErrInvalidRequest:         http.StatusBadRequest,
	ErrMissingRequiredData:    http.StatusBadRequest,
	ErrInvalidDateRange:       http.StatusBadRequest,
	ErrInvalidScope:           http.StatusBadRequest,
	ErrInternalServer:         http.StatusInternalServerError,
	ErrAggregationUnavailable: http.StatusServiceUnavailable,
}

// APIError is the standard error payload.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
	Details any    `json:"details,omitempty"`
}

// WriteError writes the standardized error to the HTTP response.
func WriteError(w http.ResponseWriter, code string, message string, details any) {
	status, exists := httpStatusMap[code]
	if !exists {
		status = http.StatusInternalServerError
	}

	apiErr := APIError{
		Code:    code,
		Message: message,
		Details: details,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(apiErr)
}
