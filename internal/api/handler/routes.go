package handler

import (
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/vfg2006/ads-metrics-refresh/internal/api/handler/router"
	"github.com/vfg2006/ads-metrics-refresh/pkg/middleware"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.WithError(err).Warn("Erro ao codificar resposta")
	}
}

func Healthcheck() []router.Route {
	return []router.Route{
		{
			Path:    "/healthcheck",
			Method:  http.MethodGet,
			Handler: HealthcheckHandler(),
		},
	}
}

func Metrics() []router.Route {
	return []router.Route{
		{
			Path:    "/metrics",
			Method:  http.MethodGet,
			Handler: promhttp.Handler(),
		},
	}
}

func Refresh(services RefreshServices) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/refresh/jobs",
			Method:      http.MethodPost,
			Handler:     EnqueueRefreshJob(services),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOrOperator()},
		},
		{
			Path:        "/v1/refresh/jobs",
			Method:      http.MethodGet,
			Handler:     ListJobOutcomes(services),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/refresh/queue",
			Method:      http.MethodGet,
			Handler:     GetQueueStatus(services),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/refresh/workers",
			Method:      http.MethodGet,
			Handler:     ListWorkers(services),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
	}
}

func Hierarchy(services HierarchyServices) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/hierarchy/mismatches",
			Method:      http.MethodGet,
			Handler:     ListMismatches(services),
			Middlewares: []func(http.Handler) http.Handler{middleware.AllRoles()},
		},
		{
			Path:        "/v1/hierarchy/mismatches/:id/acknowledge",
			Method:      http.MethodPost,
			Handler:     AcknowledgeMismatch(services),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOrOperator()},
		},
		{
			Path:        "/v1/hierarchy/validate",
			Method:      http.MethodPost,
			Handler:     ValidateHierarchy(services),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOrOperator()},
		},
	}
}

func CronJobs(services CronJobServices) []router.Route {
	return []router.Route{
		{
			Path:        "/v1/cron/:type/run",
			Method:      http.MethodPost,
			Handler:     RunCronJob(services),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
		{
			Path:        "/v1/cron/status",
			Method:      http.MethodGet,
			Handler:     GetCronStatus(services),
			Middlewares: []func(http.Handler) http.Handler{middleware.AdminOnly()},
		},
	}
}
