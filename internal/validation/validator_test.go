package validation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/vfg2006/ads-metrics-refresh/infrastructure/repository/memory"
	"github.com/vfg2006/ads-metrics-refresh/infrastructure/repository/mocks"
	"github.com/vfg2006/ads-metrics-refresh/internal/domain"
)

const (
	customerID = "C1"
	windowDate = "2025-01-01"
)

type fixture struct {
	store  *memory.MetricsStore
	events *memory.MismatchEventStore
}

func newFixture() *fixture {
	return &fixture{
		store:  memory.NewMetricsStore(),
		events: memory.NewMismatchEventStore(),
	}
}

func (f *fixture) validator(opts ...Option) *Validator {
	return New(f.store, f.store, f.events, opts...)
}

// campaign grava a campanha e o total do pai; children grava um ad group por total
func (f *fixture) campaign(t *testing.T, id string, parent domain.MetricTotals, children ...domain.MetricTotals) {
	t.Helper()
	ctx := context.Background()

	facts := []*domain.MetricsFact{totalsFact(id, domain.EntityTypeCampaign, "", parent)}
	for i, child := range children {
		facts = append(facts, totalsFact(id+"-ag"+string(rune('a'+i)), domain.EntityTypeAdGroup, id, child))
	}

	entities := []*domain.EntityHierarchy{{
		CustomerID:  customerID,
		EntityType:  domain.EntityTypeCampaign,
		EntityID:    id,
		EntityName:  "Campanha " + id,
		Status:      domain.EntityStatusEnabled,
		LastUpdated: time.Now(),
	}}

	require.NoError(t, f.store.SaveBatch(ctx, facts, entities))
}

func totalsFact(id string, entityType domain.EntityType, parentID string, totals domain.MetricTotals) *domain.MetricsFact {
	return &domain.MetricsFact{
		CustomerID:       customerID,
		EntityType:       entityType,
		EntityID:         id,
		Date:             windowDate,
		CostMicros:       domain.UnitsToMicros(decimal.NewFromFloat(totals.Spend)),
		Clicks:           totals.Clicks,
		Impressions:      totals.Impressions,
		Conversions:      totals.Conversions,
		ParentEntityID:   parentID,
		ConversionsValue: decimal.Zero,
	}
}

func request() Request {
	return Request{
		CustomerID: customerID,
		StartDate:  windowDate,
		EndDate:    windowDate,
		Trigger:    domain.MismatchTriggerManual,
	}
}

func TestValidate_SemCampanhas(t *testing.T) {
	f := newFixture()

	result := f.validator().Validate(context.Background(), request())

	assert.False(t, result.Validated)
	assert.Empty(t, result.SampleError)
	assert.Zero(t, result.SampledEntities)
	assert.Empty(t, result.Mismatches)
}

func TestValidate_AbaixoDoMinimoEIgnorado(t *testing.T) {
	f := newFixture()
	f.campaign(t, "camp1", domain.MetricTotals{Spend: 0.80}, domain.MetricTotals{Spend: 0.80}, domain.MetricTotals{Spend: 0.30})

	result := f.validator().Validate(context.Background(), request())

	assert.True(t, result.Validated)
	assert.Equal(t, 1, result.CampaignsChecked)
	assert.Empty(t, result.Mismatches)
}

func TestValidate_AbaixoDaDiferencaAbsolutaEIgnorado(t *testing.T) {
	f := newFixture()
	f.campaign(t, "camp1", domain.MetricTotals{Clicks: 10_000}, domain.MetricTotals{Clicks: 10_001})

	result := f.validator().Validate(context.Background(), request())

	assert.Equal(t, 1, result.CampaignsChecked)
	assert.Empty(t, result.Mismatches)
	assert.Zero(t, result.CampaignsWithIssues)
}

func TestValidate_SeveridadeDaDivergenciaDeGasto(t *testing.T) {
	tests := []struct {
		name         string
		parentSpend  float64
		childSpend   float64
		wantSeverity domain.Severity
	}{
		{name: "exatamente 20% é aviso", parentSpend: 500, childSpend: 400, wantSeverity: domain.SeverityWarning},
		{name: "acima de 20% é erro", parentSpend: 500, childSpend: 390, wantSeverity: domain.SeverityError},
		{name: "entre tolerância e 20% é aviso", parentSpend: 500, childSpend: 450, wantSeverity: domain.SeverityWarning},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.campaign(t, "camp1", domain.MetricTotals{Spend: tt.parentSpend}, domain.MetricTotals{Spend: tt.childSpend})

			result := f.validator().Validate(context.Background(), request())

			require.Len(t, result.Mismatches, 1)
			m := result.Mismatches[0]
			assert.Equal(t, domain.MetricSpend, m.Metric)
			assert.Equal(t, tt.wantSeverity, m.Severity)
			assert.Equal(t, "camp1", m.EntityID)
			assert.InDelta(t, tt.parentSpend-tt.childSpend, m.AbsoluteDiff, 1e-9)
			assert.Equal(t, 1, result.CampaignsWithIssues)

			events, err := f.events.List(context.Background(), domain.MismatchEventFilter{CustomerID: customerID})
			require.NoError(t, err)
			require.Len(t, events, 1)
			assert.Equal(t, domain.MismatchTriggerManual, events[0].Trigger)
			assert.Equal(t, 1, events[0].SampledEntities)
			assert.Equal(t, DefaultSampleRate, events[0].SampleRate)
			assert.Equal(t, "UTC", events[0].Timezone)
			assert.NotEmpty(t, events[0].ID)
		})
	}
}

func TestValidate_DentroDaToleranciaEIgnorado(t *testing.T) {
	f := newFixture()
	f.campaign(t, "camp1", domain.MetricTotals{Spend: 100, Impressions: 1000}, domain.MetricTotals{Spend: 97, Impressions: 990})

	result := f.validator().Validate(context.Background(), request())

	assert.Empty(t, result.Mismatches)
}

func TestValidate_ToleranciaZeroUsaPadrao(t *testing.T) {
	f := newFixture()
	f.campaign(t, "camp1", domain.MetricTotals{Spend: 100}, domain.MetricTotals{Spend: 97})

	req := request()
	req.Tolerance = 0
	assert.Empty(t, f.validator().Validate(context.Background(), req).Mismatches)

	req.Tolerance = 0.01
	assert.NotEmpty(t, f.validator().Validate(context.Background(), req).Mismatches)
}

func TestValidate_IgnoraCampanhaSemFilhos(t *testing.T) {
	f := newFixture()
	f.campaign(t, "orphan", domain.MetricTotals{Spend: 500})
	f.campaign(t, "camp1", domain.MetricTotals{Spend: 500}, domain.MetricTotals{Spend: 100})

	result := f.validator().Validate(context.Background(), request())

	assert.Equal(t, 2, result.SampledEntities)
	assert.Equal(t, 1, result.CampaignsChecked)
	require.Len(t, result.Mismatches, 1)
	assert.Equal(t, "camp1", result.Mismatches[0].EntityID)
}

func TestValidate_ResumoUsaPiorVarianciaPorCampanha(t *testing.T) {
	f := newFixture()
	f.campaign(t, "camp1",
		domain.MetricTotals{Spend: 100, Clicks: 100},
		domain.MetricTotals{Spend: 50, Clicks: 90},
	)
	f.campaign(t, "camp2",
		domain.MetricTotals{Spend: 100},
		domain.MetricTotals{Spend: 90},
	)

	result := f.validator().Validate(context.Background(), request())

	assert.Equal(t, 2, result.CampaignsWithIssues)
	assert.Len(t, result.Mismatches, 3)
	assert.InDelta(t, 0.6, result.TotalVariance, 1e-9)
	assert.InDelta(t, 0.3, result.AvgVariance, 1e-9)
}

func TestValidate_TamanhoDaAmostraLimitaCampanhas(t *testing.T) {
	f := newFixture()
	for _, id := range []string{"a", "b", "c"} {
		f.campaign(t, id, domain.MetricTotals{Spend: 10}, domain.MetricTotals{Spend: 10})
	}

	result := f.validator(WithSampleSize(2)).Validate(context.Background(), request())

	assert.Equal(t, 2, result.SampledEntities)
}

func TestValidate_FalhaAoGravarEventosNaoInterrompe(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newFixture()
	f.campaign(t, "camp1", domain.MetricTotals{Spend: 500}, domain.MetricTotals{Spend: 100})

	events := mocks.NewMockMismatchEventRepository(ctrl)
	events.EXPECT().
		InsertBatch(gomock.Any(), gomock.Len(1)).
		Return(errors.New("connection refused"))

	result := New(f.store, f.store, events).Validate(context.Background(), request())

	assert.True(t, result.Validated)
	assert.Len(t, result.Mismatches, 1)
}

func TestValidate_FalhaAoLerAmostraFicaNoResultado(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	hierarchy := mocks.NewMockHierarchyRepository(ctrl)
	hierarchy.EXPECT().
		ListRecentlyUpdated(gomock.Any(), customerID, domain.EntityTypeCampaign, domain.EntityStatusEnabled, DefaultSampleSize).
		Return(nil, errors.New("timeout"))

	f := newFixture()
	result := New(hierarchy, f.store, f.events).Validate(context.Background(), request())

	assert.False(t, result.Validated)
	assert.Equal(t, "timeout", result.SampleError)
	assert.Empty(t, result.Mismatches)
}
