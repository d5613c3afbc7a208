package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/vfg2006/ads-metrics-refresh/infrastructure/repository/memory"
	"github.com/vfg2006/ads-metrics-refresh/infrastructure/repository/mocks"
	"github.com/vfg2006/ads-metrics-refresh/internal/domain"
	"github.com/vfg2006/ads-metrics-refresh/internal/queue"
	"github.com/vfg2006/ads-metrics-refresh/internal/validation"
	"github.com/vfg2006/ads-metrics-refresh/pkg/apiErrors"
)

var fixedNow = time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)

func newRefreshServices() RefreshServices {
	return RefreshServices{
		Transport:         queue.NewMemoryTransport(),
		Outcomes:          memory.NewJobOutcomeStore(),
		Heartbeats:        memory.NewWorkerHeartbeatStore(),
		HeartbeatInterval: 15 * time.Second,
		Now:               func() time.Time { return fixedNow },
	}
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) apiErrors.APIError {
	t.Helper()

	var apiErr apiErrors.APIError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
	return apiErr
}

func withParam(r *http.Request, key, value string) *http.Request {
	ctx := context.WithValue(r.Context(), httprouter.ParamsKey, httprouter.Params{{Key: key, Value: value}})
	return r.WithContext(ctx)
}

func TestEnqueueRefreshJob(t *testing.T) {
	services := newRefreshServices()
	h := EnqueueRefreshJob(services)

	body := `{"type":"refresh-campaigns","customer_id":"C1","start_date":"2025-03-01","end_date":"2025-03-07"}`

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/refresh/jobs", strings.NewReader(body)))
	require.Equal(t, http.StatusAccepted, rec.Code)

	var first enqueueResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &first))
	assert.True(t, first.Enqueued)
	assert.True(t, strings.HasPrefix(first.JobID, "refresh-campaigns:"))

	// mesmo job ainda pendente não é duplicado
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/refresh/jobs", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code)

	var second enqueueResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &second))
	assert.False(t, second.Enqueued)
	assert.Equal(t, first.JobID, second.JobID)

	stats, err := services.Transport.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Pending)
}

func TestEnqueueRefreshJob_Rejeitado(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantCode   string
	}{
		{
			name:       "corpo malformado",
			body:       `{"type":`,
			wantStatus: http.StatusBadRequest,
			wantCode:   apiErrors.ErrInvalidFormat,
		},
		{
			name:       "tipo desconhecido",
			body:       `{"type":"refresh-everything","customer_id":"C1","start_date":"2025-03-01","end_date":"2025-03-01"}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   apiErrors.ErrInvalidJob,
		},
		{
			name:       "sem customer",
			body:       `{"type":"refresh-campaigns","start_date":"2025-03-01","end_date":"2025-03-01"}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   apiErrors.ErrInvalidJob,
		},
		{
			name:       "drill-down sem pai",
			body:       `{"type":"refresh-keywords","customer_id":"C1","start_date":"2025-03-01","end_date":"2025-03-01"}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   apiErrors.ErrInvalidJob,
		},
		{
			name:       "intervalo invertido",
			body:       `{"type":"refresh-reports","customer_id":"C1","start_date":"2025-03-05","end_date":"2025-03-01"}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   apiErrors.ErrInvalidJob,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			services := newRefreshServices()

			rec := httptest.NewRecorder()
			EnqueueRefreshJob(services).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/refresh/jobs", strings.NewReader(tt.body)))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantCode, decodeError(t, rec).Code)

			stats, err := services.Transport.Stats(context.Background())
			require.NoError(t, err)
			assert.Zero(t, stats.Backlog())
		})
	}
}

func TestGetQueueStatus(t *testing.T) {
	services := newRefreshServices()
	ctx := context.Background()

	_, _, err := queue.Enqueue(ctx, services.Transport, domain.RefreshJob{
		Type:       domain.JobTypeRefreshReports,
		CustomerID: "C1",
		StartDate:  "2025-03-01",
		EndDate:    "2025-03-01",
	})
	require.NoError(t, err)

	require.NoError(t, services.Outcomes.Finish(ctx, &domain.JobOutcome{JobID: "j1", Status: domain.JobStatusCompleted}))
	require.NoError(t, services.Outcomes.Finish(ctx, &domain.JobOutcome{JobID: "j2", Status: domain.JobStatusFailed}))

	rec := httptest.NewRecorder()
	GetQueueStatus(services).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/refresh/queue", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp queueStatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Queue.Pending)
	assert.Equal(t, 1, resp.Backlog)
	assert.Equal(t, 1, resp.Outcomes[domain.JobStatusCompleted])
	assert.Equal(t, 1, resp.Outcomes[domain.JobStatusFailed])
}

func TestGetQueueStatus_ErroNoBanco(t *testing.T) {
	ctrl := gomock.NewController(t)
	outcomes := mocks.NewMockJobOutcomeRepository(ctrl)
	outcomes.EXPECT().CountByStatus(gomock.Any()).Return(nil, errors.New("conexão recusada"))

	services := newRefreshServices()
	services.Outcomes = outcomes

	rec := httptest.NewRecorder()
	GetQueueStatus(services).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/refresh/queue", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, apiErrors.ErrDatabaseOperation, decodeError(t, rec).Code)
}

func TestListJobOutcomes(t *testing.T) {
	ctrl := gomock.NewController(t)
	outcomes := mocks.NewMockJobOutcomeRepository(ctrl)

	outcomes.EXPECT().
		List(gomock.Any(), domain.JobOutcomeFilter{Status: domain.JobStatusFailed, CustomerID: "C1", Limit: 10}).
		Return([]*domain.JobOutcome{{JobID: "j1", Status: domain.JobStatusFailed, ErrorMessage: "boom"}}, nil)

	services := newRefreshServices()
	services.Outcomes = outcomes

	rec := httptest.NewRecorder()
	ListJobOutcomes(services).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/refresh/jobs?status=failed&customer_id=C1&limit=10", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp []domain.JobOutcome
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, "boom", resp[0].ErrorMessage)
}

func TestListJobOutcomes_ParametrosInvalidos(t *testing.T) {
	services := newRefreshServices()

	for _, target := range []string{
		"/v1/refresh/jobs?status=desconhecido",
		"/v1/refresh/jobs?limit=abc",
		"/v1/refresh/jobs?limit=0",
	} {
		rec := httptest.NewRecorder()
		ListJobOutcomes(services).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
}

func TestListJobOutcomes_ListaVazia(t *testing.T) {
	rec := httptest.NewRecorder()
	ListJobOutcomes(newRefreshServices()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/refresh/jobs", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestParseLimit(t *testing.T) {
	limit, err := parseLimit("")
	require.NoError(t, err)
	assert.Equal(t, defaultListLimit, limit)

	limit, err = parseLimit("10000")
	require.NoError(t, err)
	assert.Equal(t, maxListLimit, limit)

	_, err = parseLimit("-1")
	assert.Error(t, err)
}

func TestListWorkers(t *testing.T) {
	services := newRefreshServices()
	ctx := context.Background()

	require.NoError(t, services.Heartbeats.Save(ctx, &domain.WorkerHeartbeat{WorkerID: "w-ativo", LastSeenAt: fixedNow.Add(-10 * time.Second)}))
	require.NoError(t, services.Heartbeats.Save(ctx, &domain.WorkerHeartbeat{WorkerID: "w-lento", LastSeenAt: fixedNow.Add(-time.Minute)}))
	require.NoError(t, services.Heartbeats.Save(ctx, &domain.WorkerHeartbeat{WorkerID: "w-morto", LastSeenAt: fixedNow.Add(-time.Hour)}))

	rec := httptest.NewRecorder()
	ListWorkers(services).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/refresh/workers", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp []struct {
		WorkerID string             `json:"worker_id"`
		State    domain.WorkerState `json:"state"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 3)

	states := make(map[string]domain.WorkerState)
	for _, w := range resp {
		states[w.WorkerID] = w.State
	}
	assert.Equal(t, domain.WorkerStateActive, states["w-ativo"])
	assert.Equal(t, domain.WorkerStateStale, states["w-lento"])
	assert.Equal(t, domain.WorkerStateDead, states["w-morto"])
}

type recordingValidator struct {
	mu       sync.Mutex
	requests []validation.Request
}

func (v *recordingValidator) Validate(_ context.Context, req validation.Request) *domain.ValidationResult {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.requests = append(v.requests, req)
	return &domain.ValidationResult{Validated: true, CampaignsChecked: 2, Mismatches: []domain.Mismatch{}}
}

func newHierarchyServices(v HierarchyValidator) HierarchyServices {
	return HierarchyServices{
		Mismatches: memory.NewMismatchEventStore(),
		Validator:  v,
		Tolerance:  0.05,
		Timezone:   "UTC",
		Now:        func() time.Time { return fixedNow },
	}
}

func TestListMismatches(t *testing.T) {
	ctrl := gomock.NewController(t)
	events := mocks.NewMockMismatchEventRepository(ctrl)

	events.EXPECT().
		List(gomock.Any(), domain.MismatchEventFilter{CustomerID: "C1", Days: 3, Limit: 20}).
		Return([]*domain.HierarchyMismatchEvent{{ID: "ev1", CustomerID: "C1", Severity: domain.SeverityError}}, nil)

	services := newHierarchyServices(&recordingValidator{})
	services.Mismatches = events

	rec := httptest.NewRecorder()
	ListMismatches(services).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/hierarchy/mismatches?customer_id=C1&days=3&limit=20", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp []domain.HierarchyMismatchEvent
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, domain.SeverityError, resp[0].Severity)
}

func TestListMismatches_PadraoSeteDias(t *testing.T) {
	ctrl := gomock.NewController(t)
	events := mocks.NewMockMismatchEventRepository(ctrl)

	events.EXPECT().
		List(gomock.Any(), domain.MismatchEventFilter{Days: defaultMismatchDays, Limit: defaultListLimit}).
		Return(nil, nil)

	services := newHierarchyServices(&recordingValidator{})
	services.Mismatches = events

	rec := httptest.NewRecorder()
	ListMismatches(services).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/hierarchy/mismatches", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestListMismatches_DiasInvalido(t *testing.T) {
	rec := httptest.NewRecorder()
	ListMismatches(newHierarchyServices(&recordingValidator{})).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/hierarchy/mismatches?days=-2", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAcknowledgeMismatch(t *testing.T) {
	services := newHierarchyServices(&recordingValidator{})
	require.NoError(t, services.Mismatches.InsertBatch(context.Background(), []*domain.HierarchyMismatchEvent{
		{ID: "ev1", CustomerID: "C1", CreatedAt: fixedNow},
	}))

	rec := httptest.NewRecorder()
	req := withParam(httptest.NewRequest(http.MethodPost, "/v1/hierarchy/mismatches/ev1/acknowledge", nil), "id", "ev1")
	AcknowledgeMismatch(services).ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	events, err := services.Mismatches.List(context.Background(), domain.MismatchEventFilter{})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.True(t, events[0].Acknowledged)

	rec = httptest.NewRecorder()
	req = withParam(httptest.NewRequest(http.MethodPost, "/v1/hierarchy/mismatches/nada/acknowledge", nil), "id", "nada")
	AcknowledgeMismatch(services).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, apiErrors.ErrNotFound, decodeError(t, rec).Code)
}

func TestValidateHierarchy(t *testing.T) {
	v := &recordingValidator{}
	services := newHierarchyServices(v)

	rec := httptest.NewRecorder()
	ValidateHierarchy(services).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/hierarchy/validate", strings.NewReader(`{"customer_id":"C1"}`)))
	require.Equal(t, http.StatusOK, rec.Code)

	var result domain.ValidationResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.True(t, result.Validated)
	assert.Equal(t, 2, result.CampaignsChecked)

	require.Len(t, v.requests, 1)
	got := v.requests[0]
	assert.Equal(t, "C1", got.CustomerID)
	assert.Equal(t, "2025-03-04", got.StartDate)
	assert.Equal(t, "2025-03-10", got.EndDate)
	assert.Equal(t, 0.05, got.Tolerance)
	assert.Equal(t, domain.MismatchTriggerManual, got.Trigger)
}

func TestValidateHierarchy_DatasEToleranciaInformadas(t *testing.T) {
	v := &recordingValidator{}

	body := `{"customer_id":"C1","start_date":"2025-02-01","end_date":"2025-02-28","tolerance":0.1}`
	rec := httptest.NewRecorder()
	ValidateHierarchy(newHierarchyServices(v)).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/hierarchy/validate", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code)

	require.Len(t, v.requests, 1)
	assert.Equal(t, "2025-02-01", v.requests[0].StartDate)
	assert.Equal(t, "2025-02-28", v.requests[0].EndDate)
	assert.Equal(t, 0.1, v.requests[0].Tolerance)
}

func TestValidateHierarchy_Rejeitado(t *testing.T) {
	for _, body := range []string{
		`{}`,
		`{"customer_id":"C1","start_date":"01/02/2025"}`,
		`{"customer_id":"C1","start_date":"2025-03-09","end_date":"2025-03-01"}`,
		`nao é json`,
	} {
		v := &recordingValidator{}

		rec := httptest.NewRecorder()
		ValidateHierarchy(newHierarchyServices(v)).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/hierarchy/validate", strings.NewReader(body)))

		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
		assert.Empty(t, v.requests, body)
	}
}

type fakeTrigger struct {
	mu        sync.Mutex
	triggered int
	status    map[string]any
}

func (f *fakeTrigger) TriggerManualSync(context.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.triggered++
}

func (f *fakeTrigger) GetStatus() map[string]any {
	return f.status
}

func TestRunCronJob(t *testing.T) {
	refresh := &fakeTrigger{}
	maintenance := &fakeTrigger{}
	services := CronJobServices{RefreshSyncService: refresh, MaintenanceService: maintenance}

	run := func(cronType string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		req := withParam(httptest.NewRequest(http.MethodPost, "/v1/cron/"+cronType+"/run", nil), "type", cronType)
		RunCronJob(services).ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusAccepted, run(CronJobTypeRefresh).Code)
	assert.Equal(t, 1, refresh.triggered)

	rec := run(CronJobTypeValidation)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, apiErrors.ErrServiceDisabled, decodeError(t, rec).Code)

	assert.Equal(t, http.StatusBadRequest, run("desconhecido").Code)

	assert.Equal(t, http.StatusAccepted, run(CronJobTypeAll).Code)
	assert.Equal(t, 2, refresh.triggered)
	assert.Equal(t, 1, maintenance.triggered)
}

func TestGetCronStatus(t *testing.T) {
	services := CronJobServices{
		RefreshSyncService:    &fakeTrigger{status: map[string]any{"sync_running": false}},
		ValidationSyncService: &fakeTrigger{status: map[string]any{"sync_running": true}},
	}

	rec := httptest.NewRecorder()
	GetCronStatus(services).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/cron/status", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp, 2)
	assert.Equal(t, true, resp[CronJobTypeValidation]["sync_running"])
}

func TestHealthcheckHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	HealthcheckHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthcheck", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}
