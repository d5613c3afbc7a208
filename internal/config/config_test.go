package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vfg2006/ads-metrics-refresh/internal/domain"
)

func validConfig() *Config {
	return &Config{
		RefreshWorker: RefreshWorker{DispatchInterval: 2 * time.Second, MaxAttempts: 6},
		Validation:    Validation{SampleRate: 0.1, Tolerance: 0.05},
		RefreshSync:   RefreshSync{Timezone: "UTC"},
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "configuração padrão válida", mutate: func(c *Config) {}},
		{name: "intervalo de dispatch zerado", mutate: func(c *Config) { c.RefreshWorker.DispatchInterval = 0 }, wantErr: true},
		{name: "sem tentativas", mutate: func(c *Config) { c.RefreshWorker.MaxAttempts = 0 }, wantErr: true},
		{name: "taxa de amostragem acima de 1", mutate: func(c *Config) { c.Validation.SampleRate = 1.5 }, wantErr: true},
		{name: "tolerância negativa", mutate: func(c *Config) { c.Validation.Tolerance = -1 }, wantErr: true},
		{name: "fuso inválido", mutate: func(c *Config) { c.RefreshSync.Timezone = "Mars/Olympus" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)

			err := c.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestConfig_SyncCustomers(t *testing.T) {
	c := validConfig()
	c.RefreshSync.Customers = []string{"C1:A1", " C2 ", "", "C3 : A3"}

	refs := c.SyncCustomers()

	require.Len(t, refs, 3)
	assert.Equal(t, domain.CustomerRef{CustomerID: "C1", AccountID: "A1"}, refs[0])
	assert.Equal(t, domain.CustomerRef{CustomerID: "C2", AccountID: "C2"}, refs[1])
	assert.Equal(t, domain.CustomerRef{CustomerID: "C3", AccountID: "A3"}, refs[2])
}
