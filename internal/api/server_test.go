package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vfg2006/ads-metrics-refresh/infrastructure/repository/memory"
	"github.com/vfg2006/ads-metrics-refresh/internal/api/handler"
	"github.com/vfg2006/ads-metrics-refresh/internal/config"
	"github.com/vfg2006/ads-metrics-refresh/internal/domain"
	"github.com/vfg2006/ads-metrics-refresh/internal/queue"
	"github.com/vfg2006/ads-metrics-refresh/pkg/middleware"
)

// tokens aceitos: o próprio nome do perfil
type roleAuthenticator struct{}

func (roleAuthenticator) ValidateToken(token string) (*domain.Claims, error) {
	roles := map[string]int{
		"admin":    middleware.RoleAdmin,
		"operator": middleware.RoleOperator,
		"viewer":   middleware.RoleViewer,
	}

	role, ok := roles[token]
	if !ok {
		return nil, errors.New("token desconhecido")
	}
	return &domain.Claims{UserID: role, UserRoleID: role}, nil
}

func (roleAuthenticator) GenerateToken(domain.Claims) (string, error) {
	return "", nil
}

func newTestHandler() http.Handler {
	cfg := &config.Config{Server: config.Server{AllowedOrigins: []string{"https://ops.example.com"}}}

	refresh := handler.RefreshServices{
		Transport:         queue.NewMemoryTransport(),
		Outcomes:          memory.NewJobOutcomeStore(),
		Heartbeats:        memory.NewWorkerHeartbeatStore(),
		HeartbeatInterval: 15 * time.Second,
	}
	hierarchy := handler.HierarchyServices{Mismatches: memory.NewMismatchEventStore()}

	return NewHandler(cfg, roleAuthenticator{}, refresh, hierarchy, handler.CronJobServices{})
}

func TestNewHandler_Rotas(t *testing.T) {
	h := newTestHandler()
	jobBody := `{"type":"refresh-reports","customer_id":"C1","start_date":"2025-03-01","end_date":"2025-03-01"}`

	tests := []struct {
		name       string
		method     string
		path       string
		token      string
		body       string
		wantStatus int
	}{
		{name: "healthcheck público", method: http.MethodGet, path: "/healthcheck", wantStatus: http.StatusOK},
		{name: "métricas públicas", method: http.MethodGet, path: "/metrics", wantStatus: http.StatusOK},
		{name: "fila sem token", method: http.MethodGet, path: "/v1/refresh/queue", wantStatus: http.StatusUnauthorized},
		{name: "token desconhecido", method: http.MethodGet, path: "/v1/refresh/queue", token: "root", wantStatus: http.StatusUnauthorized},
		{name: "viewer consulta a fila", method: http.MethodGet, path: "/v1/refresh/queue", token: "viewer", wantStatus: http.StatusOK},
		{name: "viewer lista workers", method: http.MethodGet, path: "/v1/refresh/workers", token: "viewer", wantStatus: http.StatusOK},
		{name: "viewer não enfileira", method: http.MethodPost, path: "/v1/refresh/jobs", token: "viewer", body: jobBody, wantStatus: http.StatusForbidden},
		{name: "operator enfileira", method: http.MethodPost, path: "/v1/refresh/jobs", token: "operator", body: jobBody, wantStatus: http.StatusAccepted},
		{name: "viewer lista divergências", method: http.MethodGet, path: "/v1/hierarchy/mismatches", token: "viewer", wantStatus: http.StatusOK},
		{name: "operator reconhece inexistente", method: http.MethodPost, path: "/v1/hierarchy/mismatches/x/acknowledge", token: "operator", wantStatus: http.StatusNotFound},
		{name: "operator não vê crons", method: http.MethodGet, path: "/v1/cron/status", token: "operator", wantStatus: http.StatusForbidden},
		{name: "admin vê crons", method: http.MethodGet, path: "/v1/cron/status", token: "admin", wantStatus: http.StatusOK},
		{name: "rota inexistente", method: http.MethodGet, path: "/v1/nada", token: "admin", wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestNewHandler_Cors(t *testing.T) {
	h := newTestHandler()

	req := httptest.NewRequest(http.MethodOptions, "/v1/refresh/queue", nil)
	req.Header.Set("Origin", "https://ops.example.com")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://ops.example.com", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/v1/refresh/queue", nil)
	req.Header.Set("Origin", "https://evil.example.com")

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
