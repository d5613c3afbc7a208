package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validJob() RefreshJob {
	return RefreshJob{
		Type:       JobTypeRefreshCampaigns,
		CustomerID: "C1",
		AccountID:  "A1",
		StartDate:  "2025-01-01",
		EndDate:    "2025-01-07",
		Priority:   DefaultJobPriority,
	}
}

func TestRefreshJob_JobIDDeterministico(t *testing.T) {
	a := validJob()
	b := validJob()

	// prioridade, conta, horário e cascata não participam do id
	b.Priority = 1
	b.AccountID = "OUTRA"
	b.EnqueuedAt = time.Now()
	b.Cascade = true

	assert.Equal(t, a.JobID(), b.JobID())
	assert.Len(t, a.JobID(), len("refresh-campaigns:")+32)

	c := validJob()
	c.EndDate = "2025-01-08"
	assert.NotEqual(t, a.JobID(), c.JobID())

	d := validJob()
	d.ParentEntityID = "camp1"
	assert.NotEqual(t, a.JobID(), d.JobID())
}

func TestRefreshJob_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(j *RefreshJob)
		wantErr error
	}{
		{name: "válido", mutate: func(j *RefreshJob) {}},
		{name: "tipo desconhecido", mutate: func(j *RefreshJob) { j.Type = "refresh-all" }, wantErr: ErrUnknownJobType},
		{name: "sem customer", mutate: func(j *RefreshJob) { j.CustomerID = "" }, wantErr: ErrCustomerIDRequired},
		{name: "ad groups sem pai", mutate: func(j *RefreshJob) { j.Type = JobTypeRefreshAdGroups }, wantErr: ErrParentIDRequired},
		{name: "data inválida", mutate: func(j *RefreshJob) { j.StartDate = "2025-13-01" }, wantErr: ErrInvalidDateRange},
		{name: "intervalo invertido", mutate: func(j *RefreshJob) { j.StartDate = "2025-02-01" }, wantErr: ErrInvalidDateRange},
		{
			name: "ads com pai",
			mutate: func(j *RefreshJob) {
				j.Type = JobTypeRefreshAds
				j.ParentEntityID = "ag1"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job := validJob()
			tt.mutate(&job)

			err := job.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestRefreshJob_ValidateTimezone(t *testing.T) {
	job := validJob()
	job.Timezone = "Marte/Olympus"

	assert.Error(t, job.Validate())
}

func TestRefreshJob_Today(t *testing.T) {
	now := time.Date(2025, 1, 2, 1, 30, 0, 0, time.UTC)

	job := validJob()
	assert.Equal(t, "2025-01-02", job.Today(now))

	job.Timezone = "America/Sao_Paulo"
	assert.Equal(t, "2025-01-01", job.Today(now))
}

func TestUnitsToMicros(t *testing.T) {
	assert.Equal(t, int64(100000000), UnitsToMicros(decimal.NewFromFloat(100.0)))
	assert.Equal(t, int64(1230000), UnitsToMicros(decimal.RequireFromString("1.23")))
	assert.Equal(t, int64(1), UnitsToMicros(decimal.RequireFromString("0.0000005")))
	assert.InDelta(t, 1.23, MicrosToUnits(1230000), 1e-9)
}

func TestMetricsFact_ComputeDerived(t *testing.T) {
	fact := &MetricsFact{CostMicros: 100000000, Clicks: 50, Impressions: 1000}
	fact.ComputeDerived()

	assert.InDelta(t, 0.05, fact.CTR, 1e-9)
	assert.Equal(t, int64(2000000), fact.AverageCPC)

	empty := &MetricsFact{CostMicros: 10}
	empty.ComputeDerived()
	assert.Zero(t, empty.CTR)
	assert.Zero(t, empty.AverageCPC)
}

func TestMetricTotals_Add(t *testing.T) {
	var totals MetricTotals
	totals.Add(&MetricsFact{CostMicros: 1500000, Clicks: 3, Impressions: 10, Conversions: 0.5})
	totals.Add(&MetricsFact{CostMicros: 500000, Clicks: 1, Impressions: 5, Conversions: 1})

	assert.InDelta(t, 2.0, totals.Spend, 1e-9)
	assert.Equal(t, int64(4), totals.Clicks)
	assert.Equal(t, int64(15), totals.Impressions)
	assert.InDelta(t, 1.5, totals.Conversions, 1e-9)
	assert.Equal(t, 2, totals.Rows)
}

func TestWorkerHeartbeat_State(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	interval := 15 * time.Second

	hb := &WorkerHeartbeat{LastSeenAt: now.Add(-29 * time.Second)}
	assert.Equal(t, WorkerStateActive, hb.State(now, interval))

	hb.LastSeenAt = now.Add(-30 * time.Second)
	assert.Equal(t, WorkerStateStale, hb.State(now, interval))

	hb.LastSeenAt = now.Add(-150 * time.Second)
	assert.Equal(t, WorkerStateDead, hb.State(now, interval))
}

func TestMismatchTrigger_IsValid(t *testing.T) {
	require.True(t, MismatchTriggerScheduled.IsValid())
	assert.False(t, MismatchTrigger("cron").IsValid())
}
