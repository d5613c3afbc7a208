package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/vfg2006/ads-metrics-refresh/infrastructure/database/postgres"
	"github.com/vfg2006/ads-metrics-refresh/infrastructure/integrator/ads"
	"github.com/vfg2006/ads-metrics-refresh/infrastructure/migration"
	"github.com/vfg2006/ads-metrics-refresh/infrastructure/queue/pgqueue"
	"github.com/vfg2006/ads-metrics-refresh/infrastructure/repository"
	"github.com/vfg2006/ads-metrics-refresh/internal/api"
	"github.com/vfg2006/ads-metrics-refresh/internal/api/handler"
	"github.com/vfg2006/ads-metrics-refresh/internal/config"
	"github.com/vfg2006/ads-metrics-refresh/internal/refresh"
	"github.com/vfg2006/ads-metrics-refresh/internal/scheduler"
	"github.com/vfg2006/ads-metrics-refresh/internal/usecases/authenticating"
	"github.com/vfg2006/ads-metrics-refresh/internal/validation"
	"github.com/vfg2006/ads-metrics-refresh/pkg/log"
)

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	log.Setup(cfg.App.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pgConn := pgconn(ctx, cfg.Database)
	defer pgConn.Close()

	metricsRepo := repository.NewMetricsRepository(pgConn)
	hierarchyRepo := repository.NewHierarchyRepository(pgConn)
	outcomeRepo := repository.NewJobOutcomeRepository(pgConn)
	mismatchRepo := repository.NewMismatchEventRepository(pgConn)
	heartbeatRepo := repository.NewWorkerHeartbeatRepository(pgConn)
	prewarmRepo := repository.NewPrewarmStatusRepository(pgConn)

	workerID, err := refresh.NewWorkerID()
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao gerar id do worker")
	}

	transport := pgqueue.NewTransport(pgConn, workerID)

	adsIntegrator := ads.New(ads.NewClient(cfg.Ads))

	validator := validation.New(
		hierarchyRepo,
		metricsRepo,
		mismatchRepo,
		validation.WithSampleRate(cfg.Validation.SampleRate),
		validation.WithSampleSize(cfg.Validation.SampleSize),
	)

	worker := refresh.NewWorker(
		adsIntegrator,
		metricsRepo,
		outcomeRepo,
		transport,
		cfg,
		refresh.WithID(workerID),
		refresh.WithPrewarmObserver(refresh.NewStatusPrewarmObserver(prewarmRepo)),
		refresh.WithValidator(validator),
	)

	refreshSyncService := scheduler.NewRefreshSyncService(hierarchyRepo, transport, cfg)
	validationSyncService := scheduler.NewValidationSyncService(hierarchyRepo, validator, cfg)
	maintenanceService := scheduler.NewMaintenanceService(mismatchRepo, transport, cfg)

	if err := refreshSyncService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de atualização de métricas")
	}

	if err := validationSyncService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de validação de hierarquia")
	}

	if err := maintenanceService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de manutenção")
	}

	g, gctx := errgroup.WithContext(ctx)

	if cfg.RefreshWorker.Enabled {
		refresh.NewHeartbeat(heartbeatRepo, worker, cfg.RefreshWorker.HeartbeatInterval).Start(gctx)

		g.Go(func() error {
			return worker.Run(gctx)
		})
	} else {
		logrus.Info("Worker de atualização desabilitado por configuração")
	}

	if cfg.Server.Enabled {
		server := api.New(
			cfg,
			authenticating.NewService(cfg),
			handler.RefreshServices{
				Transport:         transport,
				Outcomes:          outcomeRepo,
				Heartbeats:        heartbeatRepo,
				HeartbeatInterval: cfg.RefreshWorker.HeartbeatInterval,
			},
			handler.HierarchyServices{
				Mismatches: mismatchRepo,
				Validator:  validator,
				Tolerance:  cfg.Validation.Tolerance,
				Timezone:   cfg.RefreshSync.Timezone,
			},
			handler.CronJobServices{
				RefreshSyncService:    refreshSyncService,
				ValidationSyncService: validationSyncService,
				MaintenanceService:    maintenanceService,
			},
		)

		g.Go(func() error {
			return server.Run(gctx)
		})
	}

	<-gctx.Done()
	logrus.Info("Sinal de término recebido, aguardando job em andamento")

	if err := g.Wait(); err != nil {
		logrus.WithError(err).Error("Worker finalizado com erro")
		return
	}
	logrus.Info("Worker desligado com sucesso")
}

// pgconn conecta ao PostgreSQL com retentativas e aplica as migrações
func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.ConnectWithRetry(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}

	if dbConfig.AutoMigrate {
		if err := migration.Up(conn.DB); err != nil {
			logrus.WithError(err).Fatal("Erro ao aplicar migrações")
		}
	}

	logrus.Info("Conexão com PostgreSQL estabelecida com sucesso")
	return conn
}
