package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vfg2006/ads-metrics-refresh/infrastructure/repository"
	"github.com/vfg2006/ads-metrics-refresh/internal/domain"
	"github.com/vfg2006/ads-metrics-refresh/internal/queue"
	"github.com/vfg2006/ads-metrics-refresh/pkg/apiErrors"
	"github.com/vfg2006/ads-metrics-refresh/pkg/log"
)

const (
	defaultListLimit = 50
	maxListLimit     = 500
)

// RefreshServices agrupa as dependências dos endpoints da fila de atualização
type RefreshServices struct {
	Transport         queue.Transport
	Outcomes          repository.JobOutcomeRepository
	Heartbeats        repository.WorkerHeartbeatRepository
	HeartbeatInterval time.Duration
	Now               func() time.Time
}

func (s RefreshServices) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

type enqueueResponse struct {
	JobID    string `json:"job_id"`
	Enqueued bool   `json:"enqueued"`
}

// EnqueueRefreshJob publica um job de atualização. Um job idêntico já pendente
// não é duplicado e a resposta traz enqueued=false.
func EnqueueRefreshJob(services RefreshServices) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		var job domain.RefreshJob
		if err := json.NewDecoder(r.Body).Decode(&job); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Corpo da requisição inválido", nil)
			return
		}
		job.EnqueuedAt = time.Time{}

		id, enqueued, err := queue.Enqueue(r.Context(), services.Transport, job)
		if err != nil {
			if errors.Is(err, queue.ErrInvalidJob) {
				apiErrors.WriteError(w, apiErrors.ErrInvalidJob, err.Error(), nil)
				return
			}

			logger.WithError(err).Error("Erro ao enfileirar job de atualização")
			apiErrors.WriteError(w, apiErrors.ErrQueueOperation, "Erro ao enfileirar job", nil)
			return
		}

		logger.WithFields(log.Fields{
			"job_id":   id,
			"enqueued": enqueued,
		}).Info("Job de atualização recebido pela API")

		status := http.StatusAccepted
		if !enqueued {
			status = http.StatusOK
		}
		writeJSON(w, status, enqueueResponse{JobID: id, Enqueued: enqueued})
	})
}

type queueStatusResponse struct {
	Queue    *queue.Stats             `json:"queue"`
	Backlog  int                      `json:"backlog"`
	Outcomes map[domain.JobStatus]int `json:"outcomes"`
}

// GetQueueStatus retorna a contagem da fila e do log de resultados
func GetQueueStatus(services RefreshServices) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		stats, err := services.Transport.Stats(r.Context())
		if err != nil {
			logrus.WithError(err).Error("Erro ao consultar estatísticas da fila")
			apiErrors.WriteError(w, apiErrors.ErrQueueOperation, "Erro ao consultar a fila", nil)
			return
		}

		counts, err := services.Outcomes.CountByStatus(r.Context())
		if err != nil {
			logrus.WithError(err).Error("Erro ao contar resultados de jobs")
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao consultar resultados de jobs", nil)
			return
		}

		writeJSON(w, http.StatusOK, queueStatusResponse{
			Queue:    stats,
			Backlog:  stats.Backlog(),
			Outcomes: counts,
		})
	})
}

// ListJobOutcomes lista o log de resultados, filtrável por status e conta
func ListJobOutcomes(services RefreshServices) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()

		limit, err := parseLimit(query.Get("limit"))
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "Parâmetro limit inválido", nil)
			return
		}

		status := domain.JobStatus(query.Get("status"))
		switch status {
		case "", domain.JobStatusProcessing, domain.JobStatusCompleted, domain.JobStatusFailed, domain.JobStatusRetrying:
		default:
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Status inválido", map[string]any{
				"accepted": []domain.JobStatus{
					domain.JobStatusProcessing,
					domain.JobStatusCompleted,
					domain.JobStatusFailed,
					domain.JobStatusRetrying,
				},
			})
			return
		}

		outcomes, err := services.Outcomes.List(r.Context(), domain.JobOutcomeFilter{
			Status:     status,
			CustomerID: query.Get("customer_id"),
			Limit:      limit,
		})
		if err != nil {
			logrus.WithError(err).Error("Erro ao listar resultados de jobs")
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao listar resultados de jobs", nil)
			return
		}

		if outcomes == nil {
			outcomes = []*domain.JobOutcome{}
		}
		writeJSON(w, http.StatusOK, outcomes)
	})
}

type workerStatus struct {
	*domain.WorkerHeartbeat
	State domain.WorkerState `json:"state"`
}

// ListWorkers lista os workers conhecidos classificados pelo último heartbeat
func ListWorkers(services RefreshServices) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		heartbeats, err := services.Heartbeats.List(r.Context())
		if err != nil {
			logrus.WithError(err).Error("Erro ao listar heartbeats")
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao listar workers", nil)
			return
		}

		interval := services.HeartbeatInterval
		if interval <= 0 {
			interval = 15 * time.Second
		}

		now := services.now()
		workers := make([]workerStatus, 0, len(heartbeats))
		for _, hb := range heartbeats {
			workers = append(workers, workerStatus{
				WorkerHeartbeat: hb,
				State:           hb.State(now, interval),
			})
		}

		writeJSON(w, http.StatusOK, workers)
	})
}

func parseLimit(raw string) (int, error) {
	if raw == "" {
		return defaultListLimit, nil
	}

	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 {
		return 0, errors.New("limit inválido")
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	return limit, nil
}
