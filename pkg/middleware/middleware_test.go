package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vfg2006/ads-metrics-refresh/internal/domain"
)

type fakeAuthenticator struct {
	claims *domain.Claims
	err    error
}

func (f fakeAuthenticator) ValidateToken(string) (*domain.Claims, error) {
	return f.claims, f.err
}

func (f fakeAuthenticator) GenerateToken(domain.Claims) (string, error) {
	return "", nil
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestAuthMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		header     string
		auth       fakeAuthenticator
		wantStatus int
	}{
		{name: "rota pública sem token", path: "/healthcheck", wantStatus: http.StatusNoContent},
		{name: "métricas sem token", path: "/metrics", wantStatus: http.StatusNoContent},
		{name: "sem cabeçalho", path: "/v1/refresh/queue", wantStatus: http.StatusUnauthorized},
		{name: "sem Bearer", path: "/v1/refresh/queue", header: "abc", wantStatus: http.StatusUnauthorized},
		{
			name:       "token inválido",
			path:       "/v1/refresh/queue",
			header:     "Bearer abc",
			auth:       fakeAuthenticator{err: errors.New("invalid")},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "token válido",
			path:       "/v1/refresh/queue",
			header:     "Bearer abc",
			auth:       fakeAuthenticator{claims: &domain.Claims{UserID: 1, UserRoleID: RoleAdmin}},
			wantStatus: http.StatusNoContent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			AuthMiddleware(tt.auth)(okHandler()).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestRoleMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		claims     *domain.Claims
		wantStatus int
	}{
		{name: "sem autenticação", wantStatus: http.StatusUnauthorized},
		{name: "administrador", claims: &domain.Claims{UserRoleID: RoleAdmin}, wantStatus: http.StatusNoContent},
		{name: "operador", claims: &domain.Claims{UserRoleID: RoleOperator}, wantStatus: http.StatusNoContent},
		{name: "leitura", claims: &domain.Claims{UserRoleID: RoleViewer}, wantStatus: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/v1/refresh/jobs", nil)
			if tt.claims != nil {
				req = req.WithContext(context.WithValue(req.Context(), ContextKeyUser, tt.claims))
			}
			rec := httptest.NewRecorder()

			AdminOrOperator()(okHandler()).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestCors(t *testing.T) {
	handler := Cors("https://ops.example.com")(okHandler())

	req := httptest.NewRequest(http.MethodOptions, "/v1/refresh/queue", nil)
	req.Header.Set("Origin", "https://ops.example.com")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://ops.example.com", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/v1/refresh/queue", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestLogPanicMiddleware(t *testing.T) {
	panicking := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	rec := httptest.NewRecorder()
	LogPanicMiddleware()(panicking).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), `"SRV_001"`)
}
