package scheduler

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/vfg2006/ads-metrics-refresh/infrastructure/repository/memory"
	"github.com/vfg2006/ads-metrics-refresh/infrastructure/repository/mocks"
	"github.com/vfg2006/ads-metrics-refresh/internal/config"
	"github.com/vfg2006/ads-metrics-refresh/internal/domain"
	"github.com/vfg2006/ads-metrics-refresh/internal/queue"
	"github.com/vfg2006/ads-metrics-refresh/internal/validation"
)

var referenceNow = time.Date(2025, 1, 16, 10, 0, 0, 0, time.UTC)

func testConfig() *config.Config {
	return &config.Config{
		RefreshSync: config.RefreshSync{
			CronSchedule: "0 */4 * * *",
			LookbackDays: 3,
			Customers:    []string{"C1:A1"},
			Timezone:     "UTC",
			Enabled:      true,
		},
		Validation: config.Validation{
			Cron:       "30 6 * * *",
			WindowDays: 7,
			Tolerance:  0.05,
			Enabled:    true,
		},
		Maintenance: config.Maintenance{
			RetentionCron:         "0 3 * * *",
			MismatchRetentionDays: 30,
			StaleJobCheckSeconds:  60,
			Enabled:               true,
		},
		Queue: config.Queue{VisibilityTimeout: 15 * time.Minute},
	}
}

func drain(t *testing.T, transport *queue.MemoryTransport) []domain.RefreshJob {
	t.Helper()

	var jobs []domain.RefreshJob
	for {
		d, err := transport.Receive(context.Background())
		if errors.Is(err, queue.ErrQueueEmpty) {
			break
		}
		require.NoError(t, err)
		jobs = append(jobs, d.Job)
	}

	sort.Slice(jobs, func(i, j int) bool {
		if jobs[i].CustomerID != jobs[j].CustomerID {
			return jobs[i].CustomerID < jobs[j].CustomerID
		}
		return jobs[i].Type < jobs[j].Type
	})
	return jobs
}

func TestRefreshSyncService_Sync(t *testing.T) {
	store := memory.NewMetricsStore()
	require.NoError(t, store.SaveBatch(context.Background(), nil, []*domain.EntityHierarchy{
		{CustomerID: "C2", EntityType: domain.EntityTypeAccount, EntityID: "A2", Status: domain.EntityStatusEnabled},
		{CustomerID: "C1", EntityType: domain.EntityTypeAccount, EntityID: "OUTRA", Status: domain.EntityStatusEnabled},
	}))

	transport := queue.NewMemoryTransport()
	service := NewRefreshSyncService(store, transport, testConfig())
	service.now = func() time.Time { return referenceNow }

	enqueued, err := service.Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, enqueued)

	jobs := drain(t, transport)
	require.Len(t, jobs, 4)

	assert.Equal(t, domain.JobTypeRefreshCampaigns, jobs[0].Type)
	assert.Equal(t, "C1", jobs[0].CustomerID)
	assert.Equal(t, "A1", jobs[0].AccountID)
	assert.Equal(t, "2025-01-14", jobs[0].StartDate)
	assert.Equal(t, "2025-01-16", jobs[0].EndDate)
	assert.True(t, jobs[0].Cascade)

	assert.Equal(t, domain.JobTypeRefreshReports, jobs[1].Type)
	assert.False(t, jobs[1].Cascade)

	assert.Equal(t, "C2", jobs[2].CustomerID)
	assert.Equal(t, "A2", jobs[2].AccountID)
}

func TestRefreshSyncService_SyncNaoDuplicaJobsPendentes(t *testing.T) {
	transport := queue.NewMemoryTransport()
	service := NewRefreshSyncService(memory.NewMetricsStore(), transport, testConfig())
	service.now = func() time.Time { return referenceNow }

	first, err := service.Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, first)

	second, err := service.Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, second)

	stats, err := transport.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Pending)
}

func TestRefreshSyncService_ErroAoListarContas(t *testing.T) {
	ctrl := gomock.NewController(t)
	hierarchyRepo := mocks.NewMockHierarchyRepository(ctrl)

	hierarchyRepo.EXPECT().
		ListCustomers(gomock.Any()).
		Return(nil, errors.New("conexão recusada"))

	service := NewRefreshSyncService(hierarchyRepo, queue.NewMemoryTransport(), testConfig())

	enqueued, err := service.Sync(context.Background())
	assert.Error(t, err)
	assert.Zero(t, enqueued)
}

func TestRefreshSyncService_GetStatus(t *testing.T) {
	service := NewRefreshSyncService(memory.NewMetricsStore(), queue.NewMemoryTransport(), testConfig())

	status := service.GetStatus()
	assert.Equal(t, true, status["sync_enabled"])
	assert.Equal(t, 3, status["sync_lookback_days"])
	assert.Equal(t, false, status["sync_running"])
}

type stubValidator struct {
	requests []validation.Request
	result   *domain.ValidationResult
}

func (v *stubValidator) Validate(_ context.Context, req validation.Request) *domain.ValidationResult {
	v.requests = append(v.requests, req)
	return v.result
}

func TestValidationSyncService_ValidateAll(t *testing.T) {
	store := memory.NewMetricsStore()
	require.NoError(t, store.SaveBatch(context.Background(), nil, []*domain.EntityHierarchy{
		{CustomerID: "C2", EntityType: domain.EntityTypeAccount, EntityID: "C2", Status: domain.EntityStatusEnabled},
	}))

	v := &stubValidator{result: &domain.ValidationResult{
		Validated:  true,
		Mismatches: []domain.Mismatch{{Metric: domain.MetricSpend}},
	}}

	service := NewValidationSyncService(store, v, testConfig())
	service.now = func() time.Time { return referenceNow }

	total, err := service.ValidateAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, total)

	require.Len(t, v.requests, 2)
	for _, req := range v.requests {
		assert.Equal(t, domain.MismatchTriggerScheduled, req.Trigger)
		assert.Equal(t, "2025-01-10", req.StartDate)
		assert.Equal(t, "2025-01-16", req.EndDate)
		assert.Equal(t, 0.05, req.Tolerance)
	}
	assert.Equal(t, "C1", v.requests[0].CustomerID)
	assert.Equal(t, "C2", v.requests[1].CustomerID)
}

func TestMaintenanceService_PurgeAcknowledgedMismatches(t *testing.T) {
	ctrl := gomock.NewController(t)
	mismatchRepo := mocks.NewMockMismatchEventRepository(ctrl)

	service := NewMaintenanceService(mismatchRepo, queue.NewMemoryTransport(), testConfig())
	service.now = func() time.Time { return referenceNow }

	mismatchRepo.EXPECT().
		DeleteAcknowledgedOlderThan(gomock.Any(), referenceNow.AddDate(0, 0, -30)).
		Return(int64(4), nil)

	deleted, err := service.PurgeAcknowledgedMismatches(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(4), deleted)
}

func TestMaintenanceService_PurgeAcknowledgedMismatchesErro(t *testing.T) {
	ctrl := gomock.NewController(t)
	mismatchRepo := mocks.NewMockMismatchEventRepository(ctrl)

	service := NewMaintenanceService(mismatchRepo, queue.NewMemoryTransport(), testConfig())

	mismatchRepo.EXPECT().
		DeleteAcknowledgedOlderThan(gomock.Any(), gomock.Any()).
		Return(int64(0), errors.New("timeout"))

	_, err := service.PurgeAcknowledgedMismatches(context.Background())
	assert.Error(t, err)
}

func TestMaintenanceService_RecoverQueue(t *testing.T) {
	clock := referenceNow
	transport := queue.NewMemoryTransport().WithClock(func() time.Time { return clock })

	job := domain.RefreshJob{
		Type:       domain.JobTypeRefreshReports,
		CustomerID: "C1",
		StartDate:  "2025-01-15",
		EndDate:    "2025-01-15",
	}
	_, _, err := queue.Enqueue(context.Background(), transport, job)
	require.NoError(t, err)

	_, err = transport.Receive(context.Background())
	require.NoError(t, err)

	// o worker morreu com o job em andamento
	clock = referenceNow.Add(20 * time.Minute)

	service := NewMaintenanceService(memory.NewMismatchEventStore(), transport, testConfig())
	service.now = func() time.Time { return clock }
	service.RecoverQueue(context.Background())

	stats, err := transport.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Pending)
	assert.Equal(t, 0, stats.Active)

	d, err := transport.Receive(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, d.Attempt)
}
