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
	"github.com/vfg2006/ads-metrics-refresh/internal/validation"
	"github.com/vfg2006/ads-metrics-refresh/pkg/utils"
)

// HierarchyValidator é a parte do validador usada pelo agendador
type HierarchyValidator interface {
	Validate(ctx context.Context, req validation.Request) *domain.ValidationResult
}

type ValidationSyncConfig struct {
	CronSchedule string
	WindowDays   int
	Tolerance    float64
	Timezone     string
	SyncEnabled  bool
}

// ValidationSyncService roda a validação de hierarquia para todas as contas conhecidas
type ValidationSyncService struct {
	scheduler           *gocron.Scheduler
	config              ValidationSyncConfig
	customers           []domain.CustomerRef
	hierarchyRepo       repository.HierarchyRepository
	validator           HierarchyValidator
	now                 func() time.Time
	syncRunning         bool
	syncMutex           sync.Mutex
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
	lastMismatches      int
}

func NewValidationSyncService(
	hierarchyRepo repository.HierarchyRepository,
	validator HierarchyValidator,
	appConfig *config.Config,
) *ValidationSyncService {
	syncConfig := ValidationSyncConfig{
		CronSchedule: appConfig.Validation.Cron,
		WindowDays:   appConfig.Validation.WindowDays,
		Tolerance:    appConfig.Validation.Tolerance,
		Timezone:     appConfig.RefreshSync.Timezone,
		SyncEnabled:  appConfig.Validation.Enabled,
	}
	if syncConfig.WindowDays < 1 {
		syncConfig.WindowDays = 7
	}
	if syncConfig.Tolerance <= 0 {
		syncConfig.Tolerance = validation.DefaultTolerance
	}
	if syncConfig.Timezone == "" {
		syncConfig.Timezone = domain.DefaultTimezone
	}

	logrus.WithFields(logrus.Fields{
		"cron_schedule": syncConfig.CronSchedule,
		"window_days":   syncConfig.WindowDays,
		"tolerance":     syncConfig.Tolerance,
		"sync_enabled":  syncConfig.SyncEnabled,
	}).Info("Configuração do agendador de validação de hierarquia carregada")

	return &ValidationSyncService{
		scheduler:     gocron.NewScheduler(time.Local),
		config:        syncConfig,
		customers:     appConfig.SyncCustomers(),
		hierarchyRepo: hierarchyRepo,
		validator:     validator,
		now:           time.Now,
	}
}

// Start inicia o agendador
func (s *ValidationSyncService) Start(ctx context.Context) error {
	if !s.config.SyncEnabled {
		logrus.Info("Validação agendada de hierarquia desabilitada por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando agendador de validação de hierarquia")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		s.validateAll(ctx)
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar validação de hierarquia: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Parando agendador de validação de hierarquia")
		s.scheduler.Stop()
	}()

	return nil
}

func (s *ValidationSyncService) validateAll(ctx context.Context) {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Validação de hierarquia já em andamento, ignorando")
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

	mismatches, err := s.ValidateAll(ctx)
	if err != nil {
		logrus.WithError(err).Error("Erro na validação agendada de hierarquia")
		return
	}

	s.syncMutex.Lock()
	s.lastSyncCompletedAt = s.now()
	s.lastMismatches = mismatches
	s.syncMutex.Unlock()
}

// ValidateAll valida cada conta nos últimos WindowDays dias e retorna o total de divergências
func (s *ValidationSyncService) ValidateAll(ctx context.Context) (int, error) {
	customers, err := mergeCustomers(ctx, s.customers, s.hierarchyRepo)
	if err != nil {
		return 0, err
	}

	loc, err := time.LoadLocation(s.config.Timezone)
	if err != nil {
		loc = time.UTC
	}
	today := s.now().In(loc)
	startDate := utils.DaysBack(today, s.config.WindowDays)
	endDate := today.Format(time.DateOnly)

	total := 0
	for _, customer := range customers {
		result := s.validator.Validate(ctx, validation.Request{
			CustomerID: customer.CustomerID,
			StartDate:  startDate,
			EndDate:    endDate,
			Tolerance:  s.config.Tolerance,
			Trigger:    domain.MismatchTriggerScheduled,
			Timezone:   s.config.Timezone,
		})
		if result == nil {
			continue
		}

		total += len(result.Mismatches)

		logrus.WithFields(logrus.Fields{
			"customer_id":       customer.CustomerID,
			"validated":         result.Validated,
			"sample_error":      result.SampleError,
			"campaigns_checked": result.CampaignsChecked,
			"with_issues":       result.CampaignsWithIssues,
			"mismatches":        len(result.Mismatches),
		}).Info("Validação de hierarquia concluída para conta")
	}

	return total, nil
}

// TriggerManualSync inicia manualmente a validação de todas as contas
func (s *ValidationSyncService) TriggerManualSync(ctx context.Context) {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Validação de hierarquia já em andamento, ignorando solicitação manual")
		return
	}
	s.syncMutex.Unlock()

	logrus.Info("Iniciando validação manual de hierarquia")
	go s.validateAll(context.WithoutCancel(ctx))
}

// GetStatus retorna o status atual do agendador
func (s *ValidationSyncService) GetStatus() map[string]any {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	return map[string]any{
		"sync_enabled":           s.config.SyncEnabled,
		"sync_cron":              s.config.CronSchedule,
		"window_days":            s.config.WindowDays,
		"tolerance":              s.config.Tolerance,
		"sync_running":           s.syncRunning,
		"last_sync_started_at":   s.lastSyncStartedAt,
		"last_sync_completed_at": s.lastSyncCompletedAt,
		"last_mismatches":        s.lastMismatches,
	}
}
