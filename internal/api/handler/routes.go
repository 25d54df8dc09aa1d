package handler

import (
	"net/http"

	"github.com/sysantonio/api-boukii-sub001/internal/api/handler/router"
	"github.com/sysantonio/api-boukii-sub001/internal/config"
	"github.com/sysantonio/api-boukii-sub001/internal/usecases/analyzing"
	"github.com/sysantonio/api-boukii-sub001/pkg/middleware"
)

func Healthcheck() []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(),
		},
	}
}

func Analytics(service analyzing.Analyzer) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/analytics/season-dashboard",
			Method:      http.MethodGet,
			Handler:     GetSeasonDashboard(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/analytics/revenue-summary",
			Method:      http.MethodGet,
			Handler:     GetRevenueSummary(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOrSupervisor()},
		},
	}
}

func AnalyticsCache(service analyzing.Analyzer, cfg *config.Config) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/analytics/cache/invalidate",
			Method:      http.MethodPost,
			Handler:     InvalidateCache(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.ServiceKeyOrAdmin(cfg.Auth.ServiceKeyHash)},
		},
		{
			Path:        "/v1/analytics/cache/status",
			Method:      http.MethodGet,
			Handler:     GetCacheStatus(service),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
	}
}
