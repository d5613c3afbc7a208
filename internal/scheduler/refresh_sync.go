package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"

	"github.com/vfg2006/ads-metrics-refresh/infrastructure/repository"
	"github.com/vfg2006/ads-metrics-refresh/internal/config"
	"github.com/vfg2006/ads-metrics-refresh/internal/domain"
	"github.com/vfg2006/ads-metrics-refresh/internal/queue"
	"github.com/vfg2006/ads-metrics-refresh/pkg/utils"
)

// RefreshSyncConfig representa a configuração do agendador de atualização de métricas
type RefreshSyncConfig struct {
	CronSchedule string
	LookbackDays int
	Timezone     string
	SyncEnabled  bool
}

// RefreshSyncService enfileira periodicamente os jobs de campanhas e relatórios de cada conta
type RefreshSyncService struct {
	scheduler           *gocron.Scheduler
	config              RefreshSyncConfig
	customers           []domain.CustomerRef
	hierarchyRepo       repository.HierarchyRepository
	transport           queue.Transport
	now                 func() time.Time
	syncRunning         bool
	syncMutex           sync.Mutex
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
	lastSyncEnqueued    int
}

func NewRefreshSyncService(
	hierarchyRepo repository.HierarchyRepository,
	transport queue.Transport,
	appConfig *config.Config,
) *RefreshSyncService {
	syncConfig := RefreshSyncConfig{
		CronSchedule: appConfig.RefreshSync.CronSchedule,
		LookbackDays: appConfig.RefreshSync.LookbackDays,
		Timezone:     appConfig.RefreshSync.Timezone,
		SyncEnabled:  appConfig.RefreshSync.Enabled,
	}
	if syncConfig.LookbackDays < 1 {
		syncConfig.LookbackDays = 1
	}
	if syncConfig.Timezone == "" {
		syncConfig.Timezone = domain.DefaultTimezone
	}

	customers := appConfig.SyncCustomers()

	logrus.WithFields(logrus.Fields{
		"cron_schedule": syncConfig.CronSchedule,
		"lookback_days": syncConfig.LookbackDays,
		"timezone":      syncConfig.Timezone,
		"customers":     len(customers),
		"sync_enabled":  syncConfig.SyncEnabled,
	}).Info("Configuração do agendador de atualização de métricas carregada")

	return &RefreshSyncService{
		scheduler:     gocron.NewScheduler(time.Local),
		config:        syncConfig,
		customers:     customers,
		hierarchyRepo: hierarchyRepo,
		transport:     transport,
		now:           time.Now,
	}
}

// Start inicia o agendador
func (s *RefreshSyncService) Start(ctx context.Context) error {
	if !s.config.SyncEnabled {
		logrus.Info("Atualização agendada de métricas desabilitada por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando agendador de atualização de métricas")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		s.syncAll(ctx)
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar atualização de métricas: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Parando agendador de atualização de métricas")
		s.scheduler.Stop()
	}()

	return nil
}

func (s *RefreshSyncService) syncAll(ctx context.Context) {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Atualização de métricas já em andamento, ignorando")
		return
	}
	s.syncRunning = true
	s.lastSyncStartedAt = s.now()
	s.syncMutex.Unlock()

	defer func() {
		s.syncMutex.Lock()
		s.syncRunning = false
		s.syncMutex.Unlock()
	}()

	enqueued, err := s.Sync(ctx)
	if err != nil {
		logrus.WithError(err).Error("Erro na atualização agendada de métricas")
		return
	}

	s.syncMutex.Lock()
	s.lastSyncCompletedAt = s.now()
	s.lastSyncEnqueued = enqueued
	s.syncMutex.Unlock()
}

// Sync enfileira refresh-campaigns (em cascata) e refresh-reports para cada conta
// conhecida na janela dos últimos LookbackDays dias. Retorna quantos jobs entraram na fila.
func (s *RefreshSyncService) Sync(ctx context.Context) (int, error) {
	customers, err := s.knownCustomers(ctx)
	if err != nil {
		return 0, err
	}

	if len(customers) == 0 {
		logrus.Info("Nenhuma conta encontrada para atualização de métricas")
		return 0, nil
	}

	startDate, endDate := s.window()
	logrus.WithFields(logrus.Fields{
		"customers":  len(customers),
		"start_date": startDate,
		"end_date":   endDate,
	}).Info("Enfileirando atualização de métricas")

	enqueued := 0
	for _, customer := range customers {
		jobs := []domain.RefreshJob{
			{
				Type:       domain.JobTypeRefreshCampaigns,
				CustomerID: customer.CustomerID,
				AccountID:  customer.AccountID,
				StartDate:  startDate,
				EndDate:    endDate,
				Priority:   domain.DefaultJobPriority,
				Timezone:   s.config.Timezone,
				Cascade:    true,
			},
			{
				Type:       domain.JobTypeRefreshReports,
				CustomerID: customer.CustomerID,
				AccountID:  customer.AccountID,
				StartDate:  startDate,
				EndDate:    endDate,
				Priority:   domain.DefaultJobPriority,
				Timezone:   s.config.Timezone,
			},
		}

		for _, job := range jobs {
			id, ok, err := queue.Enqueue(ctx, s.transport, job)
			if err != nil {
				logrus.WithFields(logrus.Fields{
					"customer_id": customer.CustomerID,
					"job_type":    job.Type,
					"error":       err.Error(),
				}).Error("Erro ao enfileirar job de atualização")
				continue
			}

			if ok {
				enqueued++
			} else {
				logrus.WithField("job_id", id).Debug("Job já está na fila, ignorando")
			}
		}
	}

	logrus.WithFields(logrus.Fields{
		"customers": len(customers),
		"enqueued":  enqueued,
	}).Info("Atualização de métricas enfileirada")

	return enqueued, nil
}

// knownCustomers junta as contas configuradas com as já vistas na hierarquia.
// A configuração tem precedência sobre o accountId gravado.
func (s *RefreshSyncService) knownCustomers(ctx context.Context) ([]domain.CustomerRef, error) {
	return mergeCustomers(ctx, s.customers, s.hierarchyRepo)
}

func (s *RefreshSyncService) window() (string, string) {
	loc, err := time.LoadLocation(s.config.Timezone)
	if err != nil {
		loc = time.UTC
	}

	today := s.now().In(loc)
	return utils.DaysBack(today, s.config.LookbackDays), today.Format(time.DateOnly)
}

// TriggerManualSync inicia manualmente uma atualização de métricas
func (s *RefreshSyncService) TriggerManualSync(ctx context.Context) {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Atualização de métricas já em andamento, ignorando solicitação manual")
		return
	}
	s.syncMutex.Unlock()

	logrus.Info("Iniciando atualização manual de métricas")
	go s.syncAll(context.WithoutCancel(ctx))
}

// GetStatus retorna o status atual do agendador
func (s *RefreshSyncService) GetStatus() map[string]any {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	return map[string]any{
		"sync_enabled":           s.config.SyncEnabled,
		"sync_cron":              s.config.CronSchedule,
		"sync_lookback_days":     s.config.LookbackDays,
		"sync_timezone":          s.config.Timezone,
		"sync_running":           s.syncRunning,
		"last_sync_started_at":   s.lastSyncStartedAt,
		"last_sync_completed_at": s.lastSyncCompletedAt,
		"last_sync_enqueued":     s.lastSyncEnqueued,
	}
}

func mergeCustomers(ctx context.Context, configured []domain.CustomerRef, hierarchyRepo repository.HierarchyRepository) ([]domain.CustomerRef, error) {
	seen := make(map[string]struct{}, len(configured))
	customers := make([]domain.CustomerRef, 0, len(configured))

	for _, c := range configured {
		if _, ok := seen[c.CustomerID]; ok {
			continue
		}
		seen[c.CustomerID] = struct{}{}
		customers = append(customers, c)
	}

	if hierarchyRepo == nil {
		return customers, nil
	}

	stored, err := hierarchyRepo.ListCustomers(ctx)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar contas: %w", err)
	}

	for _, c := range stored {
		if _, ok := seen[c.CustomerID]; ok {
			continue
		}
		if c.AccountID == "" {
			c.AccountID = c.CustomerID
		}
		seen[c.CustomerID] = struct{}{}
		customers = append(customers, c)
	}

	return customers, nil
}
