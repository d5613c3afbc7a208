package handler

import (
	"context"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"

	"github.com/vfg2006/ads-metrics-refresh/pkg/apiErrors"
)

// CronJobType define o tipo de cron job que será executada
const (
	CronJobTypeRefresh     = "refresh"
	CronJobTypeValidation  = "validation"
	CronJobTypeMaintenance = "maintenance"
	CronJobTypeAll         = "all"
)

// ManualTrigger é um agendador que pode ser disparado fora do cron
type ManualTrigger interface {
	TriggerManualSync(ctx context.Context)
	GetStatus() map[string]any
}

// CronJobServices contém os serviços de cron necessários para executar manualmente
type CronJobServices struct {
	RefreshSyncService    ManualTrigger
	ValidationSyncService ManualTrigger
	MaintenanceService    ManualTrigger
}

func (s CronJobServices) byType() map[string]ManualTrigger {
	services := make(map[string]ManualTrigger, 3)
	if s.RefreshSyncService != nil {
		services[CronJobTypeRefresh] = s.RefreshSyncService
	}
	if s.ValidationSyncService != nil {
		services[CronJobTypeValidation] = s.ValidationSyncService
	}
	if s.MaintenanceService != nil {
		services[CronJobTypeMaintenance] = s.MaintenanceService
	}
	return services
}

// RunCronJob executa manualmente uma cron job específica
func RunCronJob(services CronJobServices) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - RunCronJob")

		cronType := httprouter.ParamsFromContext(r.Context()).ByName("type")
		if cronType == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Tipo de cron job não especificado", nil)
			return
		}

		available := services.byType()

		switch cronType {
		case CronJobTypeAll:
			for _, service := range available {
				service.TriggerManualSync(r.Context())
			}

		case CronJobTypeRefresh, CronJobTypeValidation, CronJobTypeMaintenance:
			service, ok := available[cronType]
			if !ok {
				apiErrors.WriteError(w, apiErrors.ErrServiceDisabled, "Serviço de "+cronType+" não disponível", nil)
				return
			}
			service.TriggerManualSync(r.Context())

		default:
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Tipo de cron job inválido. Valores aceitos: refresh, validation, maintenance, all", nil)
			return
		}

		writeJSON(w, http.StatusAccepted, map[string]any{
			"message": "Cron job iniciada com sucesso",
			"type":    cronType,
		})
	})
}

// GetCronStatus retorna o status das cron jobs
func GetCronStatus(services CronJobServices) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		status := make(map[string]any)
		for cronType, service := range services.byType() {
			status[cronType] = service.GetStatus()
		}

		writeJSON(w, http.StatusOK, status)
	})
}
