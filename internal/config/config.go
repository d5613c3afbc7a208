package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/vfg2006/ads-metrics-refresh/internal/domain"
)

type Config struct {
	App           App           `mapstructure:",squash"`
	Server        Server        `mapstructure:",squash"`
	Database      Database      `mapstructure:",squash"`
	Ads           Ads           `mapstructure:",squash"`
	RefreshWorker RefreshWorker `mapstructure:",squash"`
	Queue         Queue         `mapstructure:",squash"`
	Validation    Validation    `mapstructure:",squash"`
	RefreshSync   RefreshSync   `mapstructure:",squash"`
	Maintenance   Maintenance   `mapstructure:",squash"`
	Auth          Auth          `mapstructure:",squash"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
}

type Server struct {
	Host    string `mapstructure:"host"`
	Port    string `mapstructure:"port"`
	Enabled bool   `mapstructure:"ops_api_enabled"`

	AllowedOrigins []string `mapstructure:"ops_api_allowed_origins"`
}

type Database struct {
	DSN              string        `mapstructure:"-"`
	Driver           string        `mapstructure:"database_driver"`
	Password         string        `mapstructure:"database_password"`
	URL              string        `mapstructure:"database_url"`
	User             string        `mapstructure:"database_user"`
	AutoMigrate      bool          `mapstructure:"database_auto_migrate"`
	ConnectTimeout   time.Duration `mapstructure:"database_connect_timeout"`
	MaxOpenConns     int           `mapstructure:"database_max_open_conns"`
	MaxIdleConns     int           `mapstructure:"database_max_idle_conns"`
	ConnMaxLifetime  time.Duration `mapstructure:"database_conn_max_lifetime"`
	ConnectRetryTime time.Duration `mapstructure:"database_connect_retry_time"`
}

type Ads struct {
	BaseURL     string        `mapstructure:"ads_api_base_url"`
	Version     string        `mapstructure:"ads_api_version"`
	AccessToken string        `mapstructure:"ads_api_access_token"`
	ManagerID   string        `mapstructure:"ads_api_manager_id"`
	Timeout     time.Duration `mapstructure:"ads_api_timeout"`
	PageSize    int           `mapstructure:"ads_api_page_size"`
	URL         string        `mapstructure:"-"`
}

type RefreshWorker struct {
	Enabled           bool          `mapstructure:"refresh_worker_enabled"`
	DispatchInterval  time.Duration `mapstructure:"refresh_worker_dispatch_interval"`
	PollInterval      time.Duration `mapstructure:"refresh_worker_poll_interval"`
	HeartbeatInterval time.Duration `mapstructure:"refresh_worker_heartbeat_interval"`
	MaxAttempts       int           `mapstructure:"refresh_worker_max_attempts"`
}

type Queue struct {
	VisibilityTimeout time.Duration `mapstructure:"queue_visibility_timeout"`
}

type Validation struct {
	SampleRate float64 `mapstructure:"validation_sample_rate"`
	Tolerance  float64 `mapstructure:"validation_tolerance"`
	SampleSize int     `mapstructure:"validation_sample_size"`
	Cron       string  `mapstructure:"validation_cron"`
	WindowDays int     `mapstructure:"validation_window_days"`
	Enabled    bool    `mapstructure:"validation_sync_enabled"`
}

type RefreshSync struct {
	CronSchedule string   `mapstructure:"refresh_sync_cron"`
	LookbackDays int      `mapstructure:"refresh_sync_lookback_days"`
	Customers    []string `mapstructure:"refresh_sync_customers"`
	Timezone     string   `mapstructure:"refresh_sync_timezone"`
	Enabled      bool     `mapstructure:"refresh_sync_enabled"`
}

type Maintenance struct {
	RetentionCron         string `mapstructure:"mismatch_retention_cron"`
	MismatchRetentionDays int    `mapstructure:"mismatch_retention_days"`
	StaleJobCheckSeconds  int    `mapstructure:"stale_job_check_seconds"`
	Enabled               bool   `mapstructure:"maintenance_enabled"`
}

type Auth struct {
	Secret string `mapstructure:"auth_secret"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)
	viper.SetDefault("OPS_API_ENABLED", true)
	viper.SetDefault("OPS_API_ALLOWED_ORIGINS", "*")

	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/ads_metrics?sslmode=disable")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")
	viper.SetDefault("DATABASE_AUTO_MIGRATE", true)
	viper.SetDefault("DATABASE_CONNECT_TIMEOUT", "10s")
	viper.SetDefault("DATABASE_MAX_OPEN_CONNS", 10)
	viper.SetDefault("DATABASE_MAX_IDLE_CONNS", 5)
	viper.SetDefault("DATABASE_CONN_MAX_LIFETIME", "30m")
	viper.SetDefault("DATABASE_CONNECT_RETRY_TIME", "2m")

	viper.SetDefault("ADS_API_BASE_URL", "https://ads.example.com/api")
	viper.SetDefault("ADS_API_VERSION", "v17")
	viper.SetDefault("ADS_API_ACCESS_TOKEN", "your_access_token") // ONLY LOCAL
	viper.SetDefault("ADS_API_MANAGER_ID", "")
	viper.SetDefault("ADS_API_TIMEOUT", "30s")
	viper.SetDefault("ADS_API_PAGE_SIZE", 1000)

	// Worker: um job por vez, um dispatch a cada 2 segundos
	viper.SetDefault("REFRESH_WORKER_ENABLED", true)
	viper.SetDefault("REFRESH_WORKER_DISPATCH_INTERVAL", "2s")
	viper.SetDefault("REFRESH_WORKER_POLL_INTERVAL", "1s")
	viper.SetDefault("REFRESH_WORKER_HEARTBEAT_INTERVAL", "15s")
	viper.SetDefault("REFRESH_WORKER_MAX_ATTEMPTS", 6)

	viper.SetDefault("QUEUE_VISIBILITY_TIMEOUT", "15m")

	viper.SetDefault("VALIDATION_SAMPLE_RATE", 0.10)
	viper.SetDefault("VALIDATION_TOLERANCE", 0.05)
	viper.SetDefault("VALIDATION_SAMPLE_SIZE", 10)
	viper.SetDefault("VALIDATION_CRON", "30 6 * * *") // Todos os dias às 6h30
	viper.SetDefault("VALIDATION_WINDOW_DAYS", 7)
	viper.SetDefault("VALIDATION_SYNC_ENABLED", false)

	viper.SetDefault("REFRESH_SYNC_CRON", "0 */4 * * *") // A cada 4 horas
	viper.SetDefault("REFRESH_SYNC_LOOKBACK_DAYS", 3)
	viper.SetDefault("REFRESH_SYNC_CUSTOMERS", "")
	viper.SetDefault("REFRESH_SYNC_TIMEZONE", domain.DefaultTimezone)
	viper.SetDefault("REFRESH_SYNC_ENABLED", false)

	viper.SetDefault("MISMATCH_RETENTION_CRON", "0 3 * * *") // Todos os dias às 3h da manhã
	viper.SetDefault("MISMATCH_RETENTION_DAYS", 30)
	viper.SetDefault("STALE_JOB_CHECK_SECONDS", 60)
	viper.SetDefault("MAINTENANCE_ENABLED", true)

	viper.SetDefault("AUTH_SECRET", "your_secret_key")

	viper.SetDefault("LOG_LEVEL", "debug")
}

func NewConfig() (*Config, error) {
	loadEnvFile() // ONLY LOCAL

	config := &Config{}

	SetDefaults()

	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logrus.Info("Usando variáveis carregadas pelo godotenv (viper não conseguiu ler .env):", err)
	} else {
		logrus.Info("Arquivo .env lido pelo Viper com sucesso")
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	config.Ads.URL = fmt.Sprintf("%s/%s", strings.TrimRight(config.Ads.BaseURL, "/"), config.Ads.Version)

	config.Database.DSN = fmt.Sprintf(
		"%s://%s:%s@%s",
		config.Database.Driver,
		config.Database.User,
		config.Database.Password,
		config.Database.URL,
	)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate verifica combinações inválidas de configuração
func (c *Config) Validate() error {
	if c.RefreshWorker.DispatchInterval <= 0 {
		return fmt.Errorf("REFRESH_WORKER_DISPATCH_INTERVAL deve ser positivo")
	}
	if c.RefreshWorker.MaxAttempts < 1 {
		return fmt.Errorf("REFRESH_WORKER_MAX_ATTEMPTS deve ser no mínimo 1")
	}
	if c.Validation.SampleRate < 0 || c.Validation.SampleRate > 1 {
		return fmt.Errorf("VALIDATION_SAMPLE_RATE deve estar entre 0 e 1")
	}
	if c.Validation.Tolerance <= 0 {
		return fmt.Errorf("VALIDATION_TOLERANCE deve ser positivo")
	}
	if _, err := time.LoadLocation(c.RefreshSync.Timezone); err != nil {
		return fmt.Errorf("REFRESH_SYNC_TIMEZONE inválido: %w", err)
	}
	return nil
}

// SyncCustomers interpreta REFRESH_SYNC_CUSTOMERS no formato customerId:accountId
func (c *Config) SyncCustomers() []domain.CustomerRef {
	refs := make([]domain.CustomerRef, 0, len(c.RefreshSync.Customers))
	for _, raw := range c.RefreshSync.Customers {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}

		customerID, accountID, found := strings.Cut(raw, ":")
		if !found {
			accountID = customerID
		}

		refs = append(refs, domain.CustomerRef{
			CustomerID: strings.TrimSpace(customerID),
			AccountID:  strings.TrimSpace(accountID),
		})
	}
	return refs
}

// Função auxiliar para carregar o arquivo .env usando godotenv
func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

	locations := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(filepath.Dir(cwd), ".env"),
		filepath.Join(cwd, "../../.env"),
	}

	for _, location := range locations {
		logrus.Debug("Tentando carregar .env de:", location)
		if err := godotenv.Load(location); err == nil {
			logrus.Info("Arquivo .env carregado com sucesso de:", location)
			return
		}
	}

	logrus.Warn("Não foi possível carregar o arquivo .env de nenhuma localização conhecida")
}
