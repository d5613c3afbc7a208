package refresh

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vfg2006/ads-metrics-refresh/infrastructure/repository"
	"github.com/vfg2006/ads-metrics-refresh/internal/domain"
	"github.com/vfg2006/ads-metrics-refresh/internal/metrics"
	"github.com/vfg2006/ads-metrics-refresh/pkg/utils"
)

const defaultHeartbeatInterval = 15 * time.Second

// NewWorkerID retorna <hostname>-<nanoid(6)>
func NewWorkerID() (string, error) {
	hostname, err := os.Hostname()
	if err != nil || hostname == "" {
		hostname = "worker"
	}

	suffix, err := utils.ShortID(6)
	if err != nil {
		return "", fmt.Errorf("erro ao gerar id do worker: %w", err)
	}

	return fmt.Sprintf("%s-%s", hostname, suffix), nil
}

// Heartbeat grava periodicamente o registro de vida do worker
type Heartbeat struct {
	repo      repository.WorkerHeartbeatRepository
	worker    *Worker
	hostname  string
	interval  time.Duration
	startedAt time.Time
	now       func() time.Time
}

func NewHeartbeat(repo repository.WorkerHeartbeatRepository, worker *Worker, interval time.Duration) *Heartbeat {
	if interval <= 0 {
		interval = defaultHeartbeatInterval
	}

	hostname, _ := os.Hostname()

	return &Heartbeat{
		repo:      repo,
		worker:    worker,
		hostname:  hostname,
		interval:  interval,
		startedAt: worker.now().UTC(),
		now:       worker.now,
	}
}

// Start grava um heartbeat imediatamente e depois a cada intervalo, até ctx ser cancelado
func (h *Heartbeat) Start(ctx context.Context) {
	h.Beat(ctx)

	go func() {
		ticker := time.NewTicker(h.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				h.Beat(ctx)
			}
		}
	}()
}

// Beat grava um heartbeat. Falhas são apenas registradas.
func (h *Heartbeat) Beat(ctx context.Context) {
	now := h.now().UTC()

	err := h.repo.Save(ctx, &domain.WorkerHeartbeat{
		WorkerID:      h.worker.ID(),
		Hostname:      h.hostname,
		StartedAt:     h.startedAt,
		LastSeenAt:    now,
		JobsProcessed: h.worker.Processed(),
	})
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"worker_id": h.worker.ID(),
			"error":     err.Error(),
		}).Warn("refresh: erro ao gravar heartbeat")
		return
	}

	metrics.WorkerLastHeartbeat.Set(float64(now.Unix()))
}
