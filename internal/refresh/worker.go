// Package refresh consome os jobs da fila de atualização, busca as métricas no
// gateway de anúncios e grava fatos, hierarquia e o log de resultados
package refresh

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/vfg2006/ads-metrics-refresh/infrastructure/repository"
	"github.com/vfg2006/ads-metrics-refresh/internal/config"
	"github.com/vfg2006/ads-metrics-refresh/internal/domain"
	"github.com/vfg2006/ads-metrics-refresh/internal/metrics"
	"github.com/vfg2006/ads-metrics-refresh/internal/queue"
	"github.com/vfg2006/ads-metrics-refresh/internal/validation"
	"github.com/vfg2006/ads-metrics-refresh/pkg/log"
)

const (
	defaultDispatchInterval = 2 * time.Second
	defaultPollInterval     = time.Second
	defaultMaxAttempts      = 6
)

// Validator é a parte do validador de hierarquia usada pelo worker
type Validator interface {
	Validate(ctx context.Context, req validation.Request) *domain.ValidationResult
}

type Worker struct {
	id          string
	gateway     Gateway
	metricsRepo repository.MetricsRepository
	outcomes    repository.JobOutcomeRepository
	transport   queue.Transport
	validator   Validator
	prewarm     PrewarmObserver
	limiter     *rate.Limiter

	authToken    string
	managerID    string
	sampleRate   float64
	tolerance    float64
	maxAttempts  int
	pollInterval time.Duration

	now       func() time.Time
	random    func() float64
	processed atomic.Int64
}

type Option func(*Worker)

func WithID(id string) Option {
	return func(w *Worker) {
		w.id = id
	}
}

func WithClock(now func() time.Time) Option {
	return func(w *Worker) {
		w.now = now
	}
}

// WithRandom substitui a fonte de números em [0, 1) usada no jitter e na amostragem
func WithRandom(random func() float64) Option {
	return func(w *Worker) {
		w.random = random
	}
}

func WithPrewarmObserver(observer PrewarmObserver) Option {
	return func(w *Worker) {
		if observer != nil {
			w.prewarm = observer
		}
	}
}

func WithValidator(v Validator) Option {
	return func(w *Worker) {
		w.validator = v
	}
}

func NewWorker(
	gateway Gateway,
	metricsRepo repository.MetricsRepository,
	outcomes repository.JobOutcomeRepository,
	transport queue.Transport,
	appConfig *config.Config,
	opts ...Option,
) *Worker {
	dispatch := appConfig.RefreshWorker.DispatchInterval
	if dispatch <= 0 {
		dispatch = defaultDispatchInterval
	}

	pollInterval := appConfig.RefreshWorker.PollInterval
	if pollInterval <= 0 {
		pollInterval = defaultPollInterval
	}

	maxAttempts := appConfig.RefreshWorker.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = defaultMaxAttempts
	}

	tolerance := appConfig.Validation.Tolerance
	if tolerance <= 0 {
		tolerance = validation.DefaultTolerance
	}

	w := &Worker{
		gateway:      gateway,
		metricsRepo:  metricsRepo,
		outcomes:     outcomes,
		transport:    transport,
		prewarm:      nopPrewarmObserver{},
		limiter:      rate.NewLimiter(rate.Every(dispatch), 1),
		authToken:    appConfig.Ads.AccessToken,
		managerID:    appConfig.Ads.ManagerID,
		sampleRate:   appConfig.Validation.SampleRate,
		tolerance:    tolerance,
		maxAttempts:  maxAttempts,
		pollInterval: pollInterval,
		now:          time.Now,
		random:       rand.Float64,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// ID identifica o worker nos heartbeats e nos locks da fila
func (w *Worker) ID() string {
	return w.id
}

// Processed é o total de jobs concluídos por este worker, com qualquer resultado
func (w *Worker) Processed() int64 {
	return w.processed.Load()
}

// ProcessJob executa um job. Falhas transitórias (rate limit e cota) retornam
// *RetryError com o atraso calculado; qualquer outra falha é terminal e retorna
// Success=false sem erro, para que o transporte não tente de novo.
func (w *Worker) ProcessJob(ctx context.Context, job domain.RefreshJob) (*domain.JobResult, error) {
	jobID := job.JobID()
	startedAt := w.now().UTC()

	ctx = log.WithFields(ctx, log.Fields{
		"job_id":      jobID,
		"job_type":    job.Type,
		"customer_id": job.CustomerID,
		"worker_id":   w.id,
	})
	logger := log.ForContext(ctx)

	attempt, err := w.outcomes.Start(ctx, &domain.JobOutcome{
		JobID:      jobID,
		JobType:    job.Type,
		CustomerID: job.CustomerID,
		EnqueuedAt: job.EnqueuedAt,
		StartedAt:  startedAt,
	})
	if err != nil {
		logger.WithError(err).Warn("refresh: erro ao registrar início do job")
		attempt = 1
	}

	logger = logger.WithField("attempt", attempt)
	logger.Info("refresh: processando job")

	var res *handlerResult
	handler, ok := w.handlers()[job.Type]
	if !ok {
		err = fmt.Errorf("%w: %q", domain.ErrUnknownJobType, job.Type)
	} else {
		res, err = handler(ctx, job)
	}

	finishedAt := w.now().UTC()
	duration := finishedAt.Sub(startedAt)
	metrics.JobDuration.WithLabelValues(string(job.Type)).Observe(duration.Seconds())

	outcome := &domain.JobOutcome{
		JobID:         jobID,
		JobType:       job.Type,
		CustomerID:    job.CustomerID,
		AttemptNumber: attempt,
		EnqueuedAt:    job.EnqueuedAt,
		StartedAt:     startedAt,
		DurationMs:    duration.Milliseconds(),
		UpdatedAt:     finishedAt,
	}

	if err == nil {
		outcome.Status = domain.JobStatusCompleted
		outcome.CompletedAt = &finishedAt
		outcome.EntityCount = res.entityCount
		outcome.APICalls = res.apiCalls
		w.finish(ctx, outcome, logger)

		metrics.JobsProcessed.WithLabelValues(string(job.Type), string(domain.JobStatusCompleted)).Inc()
		metrics.GatewayCalls.WithLabelValues(string(job.Type)).Add(float64(res.apiCalls))

		logger.WithFields(logrus.Fields{
			"entity_count": res.entityCount,
			"api_calls":    res.apiCalls,
			"duration_ms":  outcome.DurationMs,
		}).Info("refresh: job concluído")

		return &domain.JobResult{
			Success:     true,
			EntityCount: res.entityCount,
			APICalls:    res.apiCalls,
			DurationMs:  outcome.DurationMs,
		}, nil
	}

	outcome.ErrorMessage = err.Error()

	classification := Classify(err)
	if classification.Class == ErrorClassOther {
		outcome.Status = domain.JobStatusFailed
		w.finish(ctx, outcome, logger)

		metrics.JobsProcessed.WithLabelValues(string(job.Type), string(domain.JobStatusFailed)).Inc()
		logger.WithError(err).Error("refresh: job falhou")

		return &domain.JobResult{
			Success:    false,
			DurationMs: outcome.DurationMs,
			Error:      err.Error(),
		}, nil
	}

	base := classification.RetryAfter
	if classification.Class == ErrorClassQuotaExhausted {
		base = QuotaBaseDelay
	}

	delay := Jitter(ComputeBackoff(base, attempt), w.random())
	nextRetryAt := finishedAt.Add(delay)

	outcome.Status = domain.JobStatusRetrying
	outcome.NextRetryAt = &nextRetryAt
	w.finish(ctx, outcome, logger)

	metrics.JobsProcessed.WithLabelValues(string(job.Type), string(domain.JobStatusRetrying)).Inc()
	metrics.RetriesScheduled.WithLabelValues(string(classification.Class)).Inc()

	logger.WithFields(logrus.Fields{
		"error_class":   classification.Class,
		"delay":         delay.String(),
		"next_retry_at": nextRetryAt.Format(time.RFC3339),
	}).Warn("refresh: job será reenviado")

	return nil, &RetryError{
		JobID:   jobID,
		Class:   classification.Class,
		Attempt: attempt,
		Delay:   delay,
		Err:     err,
	}
}

func (w *Worker) finish(ctx context.Context, outcome *domain.JobOutcome, logger *logrus.Entry) {
	if err := w.outcomes.Finish(ctx, outcome); err != nil {
		logger.WithError(err).Warn("refresh: erro ao gravar resultado do job")
	}
}

// Run consome a fila até o contexto ser cancelado, um job por vez e no máximo
// um dispatch por intervalo. O job em andamento é concluído antes de retornar.
func (w *Worker) Run(ctx context.Context) error {
	logrus.WithField("worker_id", w.id).Info("refresh: worker iniciado")
	defer logrus.WithField("worker_id", w.id).Info("refresh: worker finalizado")

	for {
		if ctx.Err() != nil {
			return nil
		}

		d, err := w.transport.Receive(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			if !errors.Is(err, queue.ErrQueueEmpty) {
				logrus.WithError(err).Error("refresh: erro ao receber job da fila")
			}
			w.sleep(ctx, w.pollInterval)
			continue
		}

		if err := w.limiter.Wait(ctx); err != nil {
			// cancelado antes de começar: o job volta para a fila
			if rerr := w.transport.Retry(context.WithoutCancel(ctx), d, 0, err); rerr != nil {
				logrus.WithError(rerr).WithField("job_id", d.ID).Warn("refresh: erro ao devolver job para a fila")
			}
			return nil
		}

		w.handleDelivery(context.WithoutCancel(ctx), d)
	}
}

func (w *Worker) handleDelivery(ctx context.Context, d *queue.Delivery) {
	defer w.processed.Add(1)

	ctx = log.WithFields(ctx, log.Fields{"delivery": d.Attempt})
	logger := log.ForContext(ctx).WithFields(log.Fields{
		"job_id":   d.ID,
		"job_type": d.Job.Type,
	})

	_, err := w.ProcessJob(ctx, d.Job)

	var retryErr *RetryError
	switch {
	case err == nil:
		if ackErr := w.transport.Ack(ctx, d); ackErr != nil {
			logger.WithError(ackErr).Error("refresh: erro ao confirmar job")
		}

	case errors.As(err, &retryErr) && d.Attempt < w.maxAttempts:
		if rerr := w.transport.Retry(ctx, d, retryErr.Delay, err); rerr != nil {
			logger.WithError(rerr).Error("refresh: erro ao reagendar job")
		}

	default:
		w.deadLetter(ctx, d, err, logger)
	}
}

// deadLetter encerra um job que esgotou as entregas
func (w *Worker) deadLetter(ctx context.Context, d *queue.Delivery, cause error, logger *logrus.Entry) {
	logger.WithError(cause).Error("refresh: tentativas esgotadas, job descartado")

	if err := w.transport.Fail(ctx, d, cause); err != nil {
		logger.WithError(err).Error("refresh: erro ao descartar job")
	}

	outcome, err := w.outcomes.Get(ctx, d.ID)
	if err != nil {
		logger.WithError(err).Warn("refresh: resultado do job não encontrado")
		return
	}

	outcome.Status = domain.JobStatusFailed
	outcome.NextRetryAt = nil
	outcome.ErrorMessage = fmt.Sprintf("tentativas esgotadas: %v", cause)
	outcome.UpdatedAt = w.now().UTC()
	w.finish(ctx, outcome, logger)

	metrics.JobsProcessed.WithLabelValues(string(d.Job.Type), string(domain.JobStatusFailed)).Inc()
}

func (w *Worker) sleep(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
