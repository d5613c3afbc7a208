package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"

	"github.com/vfg2006/ads-metrics-refresh/infrastructure/repository"
	"github.com/vfg2006/ads-metrics-refresh/internal/config"
	"github.com/vfg2006/ads-metrics-refresh/internal/metrics"
	"github.com/vfg2006/ads-metrics-refresh/internal/queue"
)

// jobs finalizados ficam na fila por este período antes de serem removidos
const finishedJobRetention = 7 * 24 * time.Hour

type MaintenanceConfig struct {
	RetentionCron         string
	MismatchRetentionDays int
	StaleJobCheckSeconds  int
	VisibilityTimeout     time.Duration
	Enabled               bool
}

// MaintenanceService cuida da retenção de divergências e da recuperação de jobs presos
type MaintenanceService struct {
	scheduler    *gocron.Scheduler
	config       MaintenanceConfig
	mismatchRepo repository.MismatchEventRepository
	transport    queue.Transport
	now          func() time.Time
}

func NewMaintenanceService(
	mismatchRepo repository.MismatchEventRepository,
	transport queue.Transport,
	appConfig *config.Config,
) *MaintenanceService {
	maintenanceConfig := MaintenanceConfig{
		RetentionCron:         appConfig.Maintenance.RetentionCron,
		MismatchRetentionDays: appConfig.Maintenance.MismatchRetentionDays,
		StaleJobCheckSeconds:  appConfig.Maintenance.StaleJobCheckSeconds,
		VisibilityTimeout:     appConfig.Queue.VisibilityTimeout,
		Enabled:               appConfig.Maintenance.Enabled,
	}
	if maintenanceConfig.MismatchRetentionDays < 1 {
		maintenanceConfig.MismatchRetentionDays = 30
	}
	if maintenanceConfig.StaleJobCheckSeconds < 1 {
		maintenanceConfig.StaleJobCheckSeconds = 60
	}
	if maintenanceConfig.VisibilityTimeout <= 0 {
		maintenanceConfig.VisibilityTimeout = 15 * time.Minute
	}

	logrus.WithFields(logrus.Fields{
		"retention_cron":          maintenanceConfig.RetentionCron,
		"mismatch_retention_days": maintenanceConfig.MismatchRetentionDays,
		"stale_job_check_seconds": maintenanceConfig.StaleJobCheckSeconds,
		"visibility_timeout":      maintenanceConfig.VisibilityTimeout.String(),
		"enabled":                 maintenanceConfig.Enabled,
	}).Info("Configuração de manutenção carregada")

	return &MaintenanceService{
		scheduler:    gocron.NewScheduler(time.Local),
		config:       maintenanceConfig,
		mismatchRepo: mismatchRepo,
		transport:    transport,
		now:          time.Now,
	}
}

// Start agenda a limpeza diária e a verificação periódica da fila
func (s *MaintenanceService) Start(ctx context.Context) error {
	if !s.config.Enabled {
		logrus.Info("Manutenção desabilitada por configuração")
		return nil
	}

	s.scheduler.SingletonModeAll()

	_, err := s.scheduler.Cron(s.config.RetentionCron).Do(func() {
		if _, err := s.PurgeAcknowledgedMismatches(ctx); err != nil {
			logrus.WithError(err).Error("Erro na limpeza de divergências reconhecidas")
		}
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar limpeza de divergências: %w", err)
	}

	_, err = s.scheduler.Every(s.config.StaleJobCheckSeconds).Seconds().Do(func() {
		s.RecoverQueue(ctx)
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar verificação da fila: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Parando agendador de manutenção")
		s.scheduler.Stop()
	}()

	return nil
}

// PurgeAcknowledgedMismatches remove divergências reconhecidas mais antigas que a retenção
func (s *MaintenanceService) PurgeAcknowledgedMismatches(ctx context.Context) (int64, error) {
	cutoff := s.now().UTC().AddDate(0, 0, -s.config.MismatchRetentionDays)

	deleted, err := s.mismatchRepo.DeleteAcknowledgedOlderThan(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	logrus.WithFields(logrus.Fields{
		"deleted": deleted,
		"cutoff":  cutoff.Format(time.RFC3339),
	}).Info("Limpeza de divergências reconhecidas concluída")

	return deleted, nil
}

// RecoverQueue devolve à fila jobs presos além do visibility timeout, remove
// jobs finalizados antigos e atualiza os gauges da fila
func (s *MaintenanceService) RecoverQueue(ctx context.Context) {
	if maintainer, ok := s.transport.(queue.Maintainer); ok {
		requeued, err := maintainer.RequeueStale(ctx, s.config.VisibilityTimeout)
		if err != nil {
			logrus.WithError(err).Error("Erro ao recuperar jobs presos")
		} else if requeued > 0 {
			logrus.WithField("requeued", requeued).Warn("Jobs presos devolvidos à fila")
		}

		purged, err := maintainer.PurgeFinished(ctx, s.now().Add(-finishedJobRetention))
		if err != nil {
			logrus.WithError(err).Error("Erro ao remover jobs finalizados")
		} else if purged > 0 {
			logrus.WithField("purged", purged).Debug("Jobs finalizados removidos da fila")
		}
	}

	UpdateQueueGauges(ctx, s.transport)
}

// UpdateQueueGauges publica a contagem da fila por estado
func UpdateQueueGauges(ctx context.Context, transport queue.Transport) {
	stats, err := transport.Stats(ctx)
	if err != nil {
		logrus.WithError(err).Warn("Erro ao consultar estatísticas da fila")
		return
	}

	metrics.QueueJobs.WithLabelValues(queue.StatusPending).Set(float64(stats.Pending))
	metrics.QueueJobs.WithLabelValues("delayed").Set(float64(stats.Delayed))
	metrics.QueueJobs.WithLabelValues(queue.StatusActive).Set(float64(stats.Active))
	metrics.QueueJobs.WithLabelValues(queue.StatusCompleted).Set(float64(stats.Completed))
	metrics.QueueJobs.WithLabelValues(queue.StatusFailed).Set(float64(stats.Failed))
}

// TriggerManualSync executa a manutenção fora do agendamento
func (s *MaintenanceService) TriggerManualSync(ctx context.Context) {
	logrus.Info("Iniciando manutenção manual")

	go func(ctx context.Context) {
		if _, err := s.PurgeAcknowledgedMismatches(ctx); err != nil {
			logrus.WithError(err).Error("Erro na limpeza de divergências reconhecidas")
		}
		s.RecoverQueue(ctx)
	}(context.WithoutCancel(ctx))
}

// GetStatus retorna o status atual do agendador
func (s *MaintenanceService) GetStatus() map[string]any {
	return map[string]any{
		"enabled":                 s.config.Enabled,
		"retention_cron":          s.config.RetentionCron,
		"mismatch_retention_days": s.config.MismatchRetentionDays,
		"stale_job_check_seconds": s.config.StaleJobCheckSeconds,
		"visibility_timeout":      s.config.VisibilityTimeout.String(),
	}
}
