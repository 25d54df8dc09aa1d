package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/sysantonio/api-boukii-sub001/internal/domain"
	"github.com/sysantonio/api-boukii-sub001/internal/usecases/analyzing"
	"github.com/sysantonio/api-boukii-sub001/pkg/apiErrors"
	"github.com/sysantonio/api-boukii-sub001/pkg/log"
	"github.com/sysantonio/api-boukii-sub001/pkg/middleware"
	"github.com/sysantonio/api-boukii-sub001/pkg/utils"
)

// GetSeasonDashboard serves the season financial dashboard.
func GetSeasonDashboard(service analyzing.Analyzer) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		req, ok := parseAnalyticsRequest(w, r)
		if !ok {
			return
		}

		logger.WithFields(log.Fields{
			"school_id":          req.SchoolID,
			"optimization_level": req.Level.String(),
		}).Debug("analytics: fetching season dashboard")

		document, err := service.SeasonDashboard(r.Context(), req)
		if err != nil {
			writeAnalyticsError(w, logger, err)
			return
		}

		writeDocument(w, logger, document)
	})
}

// GetRevenueSummary serves the revenue-focused summary of the same window.
func GetRevenueSummary(service analyzing.Analyzer) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		req, ok := parseAnalyticsRequest(w, r)
		if !ok {
			return
		}

		document, err := service.RevenueSummary(r.Context(), req)
		if err != nil {
			writeAnalyticsError(w, logger, err)
			return
		}

		writeDocument(w, logger, document)
	})
}

// parseAnalyticsRequest validates the loose query parameters into the typed
// request the core works with. On failure it writes the error response and
// returns false.
func parseAnalyticsRequest(w http.ResponseWriter, r *http.Request) (domain.AnalyticsRequest, bool) {
	logger := log.ForContext(r.Context())
	query := r.URL.Query()

	schoolID, err := strconv.ParseInt(query.Get("school_id"), 10, 64)
	if err != nil || schoolID <= 0 {
		apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "school_id is required", nil)
		return domain.AnalyticsRequest{}, false
	}

	if claims, ok := r.Context().Value(middleware.ContextKeyUser).(*domain.Claims); ok {
		if !claims.CanAccessSchool(schoolID) {
			logger.WithFields(log.Fields{
				"school_id": schoolID,
				"user_id":   claims.UserID,
			}).Warn("analytics: school access denied")
			apiErrors.WriteError(w, apiErrors.ErrSchoolAccessDenied, "Token does not grant access to this school", nil)
			return domain.AnalyticsRequest{}, false
		}
	}

	startDate, err := utils.ParseOptionalDate(query.Get("start_date"))
	if err != nil {
		apiErrors.WriteError(w, apiErrors.ErrInvalidDateRange, "start_date must be YYYY-MM-DD", nil)
		return domain.AnalyticsRequest{}, false
	}

	endDate, err := utils.ParseOptionalDate(query.Get("end_date"))
	if err != nil {
		apiErrors.WriteError(w, apiErrors.ErrInvalidDateRange, "end_date must be YYYY-MM-DD", nil)
		return domain.AnalyticsRequest{}, false
	}

	var seasonID *int64
	if raw := query.Get("season_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "season_id must be numeric", nil)
			return domain.AnalyticsRequest{}, false
		}
		seasonID = &id
	}

	level, err := domain.ParseOptimizationLevel(query.Get("optimization_level"))
	if err != nil {
		apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, err.Error(), nil)
		return domain.AnalyticsRequest{}, false
	}

	return domain.AnalyticsRequest{
		SchoolID:  schoolID,
		StartDate: startDate,
		EndDate:   endDate,
		SeasonID:  seasonID,
		Level:     level,
	}, true
}

// writeAnalyticsError maps usecase errors to API error codes. Aggregation
// failures never degrade to a partial document; they surface as 503.
func writeAnalyticsError(w http.ResponseWriter, logger log.Logger, err error) {
	switch {
	case errors.Is(err, analyzing.ErrInvalidDateRange):
		apiErrors.WriteError(w, apiErrors.ErrInvalidDateRange, err.Error(), nil)
	case errors.Is(err, analyzing.ErrSeasonNotFound):
		apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, err.Error(), nil)
	case errors.Is(err, analyzing.ErrUnknownScope):
		apiErrors.WriteError(w, apiErrors.ErrInvalidScope, err.Error(), nil)
	case errors.Is(err, analyzing.ErrAggregationUnavailable):
		logger.WithError(err).Error("analytics: aggregation unavailable")
		apiErrors.WriteError(w, apiErrors.ErrAggregationUnavailable, "Analytics temporarily unavailable", nil)
	default:
		logger.WithError(err).Error("analytics: unexpected failure")
		apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Unexpected error", nil)
	}
}

func writeDocument(w http.ResponseWriter, logger log.Logger, document []byte) {
	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(document); err != nil {
		logger.WithError(err).Error("analytics: failed to write response")
	}
}
