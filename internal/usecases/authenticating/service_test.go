package authenticating

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vfg2006/ads-metrics-refresh/internal/config"
	"github.com/vfg2006/ads-metrics-refresh/internal/domain"
)

func newService(secret string) Authenticator {
	return NewService(&config.Config{Auth: config.Auth{Secret: secret}})
}

func TestService_GenerateAndValidate(t *testing.T) {
	service := newService("segredo")

	token, err := service.GenerateToken(domain.Claims{UserID: 7, UserEmail: "ops@example.com", UserRoleID: 1})
	require.NoError(t, err)

	claims, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, 7, claims.UserID)
	assert.Equal(t, 1, claims.UserRoleID)
	assert.NotNil(t, claims.ExpiresAt)
}

func TestService_ValidateToken(t *testing.T) {
	issuer := newService("segredo")

	valid, err := issuer.GenerateToken(domain.Claims{UserID: 1, UserRoleID: 2})
	require.NoError(t, err)

	expired, err := issuer.GenerateToken(domain.Claims{
		UserID:     1,
		UserRoleID: 2,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})
	require.NoError(t, err)

	tests := []struct {
		name    string
		secret  string
		token   string
		wantErr error
	}{
		{name: "token válido", secret: "segredo", token: valid},
		{name: "segredo diferente", secret: "outro", token: valid, wantErr: ErrInvalidToken},
		{name: "token expirado", secret: "segredo", token: expired, wantErr: ErrInvalidToken},
		{name: "token malformado", secret: "segredo", token: "abc.def", wantErr: ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newService(tt.secret).ValidateToken(tt.token)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestService_GenerateTokenSemPerfil(t *testing.T) {
	_, err := newService("segredo").GenerateToken(domain.Claims{UserID: 1})
	assert.ErrorIs(t, err, ErrMissingRole)
}
