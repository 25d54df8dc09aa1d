package handler

import (
	"net/http"
	"strconv"

	jsoniter "github.com/json-iterator/go"
	"github.com/sysantonio/api-boukii-sub001/internal/usecases/analyzing"
	"github.com/sysantonio/api-boukii-sub001/pkg/apiErrors"
	"github.com/sysantonio/api-boukii-sub001/pkg/log"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type invalidateCacheRequest struct {
	SchoolID int64  `json:"school_id"`
	Scope    string `json:"scope"`
}

// InvalidateCache expires a tenant's cached analytics for one scope. Called
// by admins and by the booking backends when transactional data changes.
func InvalidateCache(service analyzing.Analyzer) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		var req invalidateCacheRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "invalid request body", nil)
			return
		}
		if req.SchoolID <= 0 {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "school_id is required", nil)
			return
		}
		if req.Scope == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "scope is required", nil)
			return
		}

		ack, err := service.InvalidateCache(r.Context(), req.SchoolID, req.Scope)
		if err != nil {
			writeAnalyticsError(w, logger, err)
			return
		}

		logger.WithFields(log.Fields{
			"school_id":    req.SchoolID,
			"scope":        ack.Scope,
			"cleared_keys": ack.ClearedKeys,
		}).Info("analytics: cache invalidated")

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(ack); err != nil {
			logger.WithError(err).Error("analytics: failed to encode invalidation ack")
		}
	})
}

// GetCacheStatus reports per-scope cache population for a tenant.
func GetCacheStatus(service analyzing.Analyzer) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		schoolID, err := strconv.ParseInt(r.URL.Query().Get("school_id"), 10, 64)
		if err != nil || schoolID <= 0 {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "school_id is required", nil)
			return
		}

		report, err := service.CacheStatus(r.Context(), schoolID)
		if err != nil {
			writeAnalyticsError(w, logger, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(report); err != nil {
			logger.WithError(err).Error("analytics: failed to encode cache status")
		}
	})
}
