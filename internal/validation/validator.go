// Package validation verifica se as métricas de cada campanha batem com a soma
// dos seus ad groups na mesma janela de datas
package validation

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/vfg2006/ads-metrics-refresh/infrastructure/repository"
	"github.com/vfg2006/ads-metrics-refresh/internal/domain"
	"github.com/vfg2006/ads-metrics-refresh/internal/metrics"
	"github.com/vfg2006/ads-metrics-refresh/pkg/utils"
)

const (
	DefaultTolerance  = 0.05
	DefaultSampleSize = 10
	DefaultSampleRate = 0.10

	// acima desta variância a divergência é classificada como erro
	errorVariance = 0.20
	epsilon       = 0.001
)

// Request são os parâmetros de uma validação
type Request struct {
	CustomerID string
	StartDate  string
	EndDate    string
	// Tolerance é a fração de variância aceita (0.05 = 5%). Valores <= 0 viram DefaultTolerance.
	Tolerance float64
	Trigger   domain.MismatchTrigger
	// Timezone vazio vira domain.DefaultTimezone
	Timezone string
}

// metricRule combina o valor mínimo do pai e a diferença absoluta mínima de cada métrica
type metricRule struct {
	metric   string
	minValue float64
	minDiff  float64
	value    func(t *domain.MetricTotals) float64
}

var metricRules = []metricRule{
	{metric: domain.MetricSpend, minValue: 1.0, minDiff: 0.50, value: func(t *domain.MetricTotals) float64 { return t.Spend }},
	{metric: domain.MetricClicks, minValue: 10, minDiff: 2, value: func(t *domain.MetricTotals) float64 { return float64(t.Clicks) }},
	{metric: domain.MetricImpressions, minValue: 100, minDiff: 10, value: func(t *domain.MetricTotals) float64 { return float64(t.Impressions) }},
	{metric: domain.MetricConversions, minValue: 0.5, minDiff: 0.1, value: func(t *domain.MetricTotals) float64 { return t.Conversions }},
}

type Validator struct {
	hierarchy  repository.HierarchyRepository
	metrics    repository.MetricsRepository
	events     repository.MismatchEventRepository
	sampleSize int
	sampleRate float64
	now        func() time.Time
}

type Option func(*Validator)

// WithSampleSize define quantas campanhas são amostradas por validação
func WithSampleSize(n int) Option {
	return func(v *Validator) {
		if n > 0 {
			v.sampleSize = n
		}
	}
}

// WithSampleRate define o valor de sampleRate gravado junto com cada divergência
func WithSampleRate(rate float64) Option {
	return func(v *Validator) {
		v.sampleRate = rate
	}
}

func WithClock(now func() time.Time) Option {
	return func(v *Validator) {
		v.now = now
	}
}

func New(
	hierarchy repository.HierarchyRepository,
	metricsRepo repository.MetricsRepository,
	events repository.MismatchEventRepository,
	opts ...Option,
) *Validator {
	v := &Validator{
		hierarchy:  hierarchy,
		metrics:    metricsRepo,
		events:     events,
		sampleSize: DefaultSampleSize,
		sampleRate: DefaultSampleRate,
		now:        time.Now,
	}

	for _, opt := range opts {
		opt(v)
	}

	return v
}

// Validate nunca retorna erro: falhas de leitura ou de gravação são registradas
// em log e a validação segue com o que foi possível verificar
func (v *Validator) Validate(ctx context.Context, req Request) *domain.ValidationResult {
	if req.Tolerance <= 0 {
		req.Tolerance = DefaultTolerance
	}
	if req.Timezone == "" {
		req.Timezone = domain.DefaultTimezone
	}

	logger := logrus.WithFields(logrus.Fields{
		"customer_id": req.CustomerID,
		"start_date":  req.StartDate,
		"end_date":    req.EndDate,
		"trigger":     req.Trigger,
	})

	metrics.ValidationRuns.WithLabelValues(string(req.Trigger)).Inc()

	result := &domain.ValidationResult{Mismatches: make([]domain.Mismatch, 0)}

	campaigns, err := v.hierarchy.ListRecentlyUpdated(ctx, req.CustomerID, domain.EntityTypeCampaign, domain.EntityStatusEnabled, v.sampleSize)
	if err != nil {
		logger.WithError(err).Warn("validation: erro ao amostrar campanhas")
		metrics.ValidationSampleFailures.WithLabelValues(string(req.Trigger)).Inc()
		result.SampleError = err.Error()
		return result
	}

	if len(campaigns) == 0 {
		logger.Debug("validation: nenhuma campanha ativa para validar")
		return result
	}

	result.Validated = true
	result.SampledEntities = len(campaigns)

	for _, campaign := range campaigns {
		mismatches, checked := v.checkCampaign(ctx, req, campaign, logger)
		if !checked {
			continue
		}

		result.CampaignsChecked++
		if len(mismatches) == 0 {
			continue
		}

		worst := 0.0
		for _, m := range mismatches {
			worst = math.Max(worst, m.VariancePercent/100)
		}

		result.CampaignsWithIssues++
		result.TotalVariance += worst
		result.Mismatches = append(result.Mismatches, mismatches...)
	}

	if result.CampaignsWithIssues > 0 {
		result.AvgVariance = result.TotalVariance / float64(result.CampaignsWithIssues)
	}

	v.persist(ctx, req, result, logger)

	logger.WithFields(logrus.Fields{
		"sampled":    result.SampledEntities,
		"checked":    result.CampaignsChecked,
		"with_issue": result.CampaignsWithIssues,
		"mismatches": len(result.Mismatches),
	}).Info("validation: validação de hierarquia concluída")

	return result
}

// checkCampaign retorna false quando a campanha não pôde ser verificada
// (erro de leitura ou nenhum ad group sincronizado na janela)
func (v *Validator) checkCampaign(ctx context.Context, req Request, campaign *domain.EntityHierarchy, logger *logrus.Entry) ([]domain.Mismatch, bool) {
	logger = logger.WithField("campaign_id", campaign.EntityID)

	parent, err := v.metrics.SumEntityMetrics(ctx, req.CustomerID, domain.EntityTypeCampaign, campaign.EntityID, req.StartDate, req.EndDate)
	if err != nil {
		logger.WithError(err).Warn("validation: erro ao somar métricas da campanha")
		return nil, false
	}

	children, err := v.metrics.SumChildMetrics(ctx, req.CustomerID, domain.EntityTypeAdGroup, campaign.EntityID, req.StartDate, req.EndDate)
	if err != nil {
		logger.WithError(err).Warn("validation: erro ao somar métricas dos ad groups")
		return nil, false
	}

	if children.Rows == 0 {
		return nil, false
	}

	mismatches := make([]domain.Mismatch, 0)
	for _, rule := range metricRules {
		parentValue := rule.value(parent)
		childSum := rule.value(children)

		m, ok := compare(rule, parentValue, childSum, req.Tolerance)
		if !ok {
			continue
		}

		m.EntityType = domain.EntityTypeCampaign
		m.EntityID = campaign.EntityID
		m.EntityName = campaign.EntityName
		mismatches = append(mismatches, *m)
	}

	return mismatches, true
}

// compare aplica as três camadas: valor mínimo do pai, diferença absoluta mínima
// e variância relativa acima da tolerância
func compare(rule metricRule, parentValue, childSum, tolerance float64) (*domain.Mismatch, bool) {
	if parentValue < rule.minValue {
		return nil, false
	}

	absoluteDiff := math.Abs(parentValue - childSum)
	if absoluteDiff < rule.minDiff {
		return nil, false
	}

	variance := absoluteDiff / math.Max(math.Max(parentValue, childSum), epsilon)
	if variance <= tolerance {
		return nil, false
	}

	severity := domain.SeverityWarning
	if variance > errorVariance {
		severity = domain.SeverityError
	}

	return &domain.Mismatch{
		Metric:          rule.metric,
		ParentValue:     parentValue,
		ChildSum:        childSum,
		AbsoluteDiff:    absoluteDiff,
		VariancePercent: variance * 100,
		Severity:        severity,
	}, true
}

func (v *Validator) persist(ctx context.Context, req Request, result *domain.ValidationResult, logger *logrus.Entry) {
	if len(result.Mismatches) == 0 {
		return
	}

	now := v.now().UTC()
	events := make([]*domain.HierarchyMismatchEvent, 0, len(result.Mismatches))
	for _, m := range result.Mismatches {
		metrics.HierarchyMismatches.WithLabelValues(m.Metric, string(m.Severity)).Inc()

		events = append(events, &domain.HierarchyMismatchEvent{
			ID:              uuid.NewString(),
			CustomerID:      req.CustomerID,
			Trigger:         req.Trigger,
			StartDate:       req.StartDate,
			EndDate:         req.EndDate,
			Timezone:        req.Timezone,
			EntityType:      m.EntityType,
			EntityID:        m.EntityID,
			EntityName:      m.EntityName,
			Metric:          m.Metric,
			ParentValue:     m.ParentValue,
			ChildSum:        m.ChildSum,
			AbsoluteDiff:    m.AbsoluteDiff,
			VariancePercent: utils.RoundPercent(m.VariancePercent, 2),
			Severity:        m.Severity,
			SampledEntities: result.SampledEntities,
			SampleRate:      v.sampleRate,
			CreatedAt:       now,
		})
	}

	if err := v.events.InsertBatch(ctx, events); err != nil {
		logger.WithError(err).WithField("mismatches", len(events)).
			Error("validation: erro ao gravar divergências, seguindo sem auditoria")
	}
}
