package app

import (
	"errors"
	"log/slog"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Storage drivers for supplier records.
const (
	StorageREST     = "rest"
	StoragePostgres = "postgres"
)

// Config holds runtime configuration for the application.
type Config struct {
	AppEnv            string        `envconfig:"APP_ENV" default:"development"`
	AppAddr           string        `envconfig:"APP_ADDR" default:":8080"`
	AppBaseURL        string        `envconfig:"APP_BASE_URL" default:"http://localhost:8080"`
	AppReadTimeout    time.Duration `envconfig:"APP_READ_TIMEOUT" default:"15s"`
	AppWriteTimeout   time.Duration `envconfig:"APP_WRITE_TIMEOUT" default:"60s"`
	AppRequestTimeout time.Duration `envconfig:"APP_REQUEST_TIMEOUT" default:"45s"`
	RateLimit         int           `envconfig:"RATE_LIMIT_PER_MINUTE" default:"300"`

	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`

	SupabaseURL       string        `envconfig:"SUPABASE_URL"`
	SupabaseAnonKey   string        `envconfig:"SUPABASE_ANON_KEY" masked:"true"`
	SupabaseJWTSecret string        `envconfig:"SUPABASE_JWT_SECRET" masked:"true"`
	SupabaseTimeout   time.Duration `envconfig:"SUPABASE_TIMEOUT" default:"15s"`

	StorageDriver string `envconfig:"STORAGE_DRIVER" default:"rest"`
	PGDSN         string `envconfig:"PG_DSN" masked:"true"`

	RedisAddr     string        `envconfig:"REDIS_ADDR" default:"127.0.0.1:6379"`
	RedisPassword string        `envconfig:"REDIS_PASSWORD" masked:"true"`
	SessionSecret string        `envconfig:"SESSION_SECRET" required:"true" masked:"true"`
	SessionTTL    time.Duration `envconfig:"SESSION_TTL" default:"12h"`
	CSRFSecret    string        `envconfig:"CSRF_SECRET" required:"true" masked:"true"`

	CacheTTL         time.Duration `envconfig:"DIRECTORY_CACHE_TTL" default:"5m"`
	CacheLocalTTL    time.Duration `envconfig:"DIRECTORY_CACHE_LOCAL_TTL" default:"5s"`
	DashboardRefresh time.Duration `envconfig:"DASHBOARD_REFRESH" default:"30s"`

	GotenbergURL     string        `envconfig:"GOTENBERG_URL"`
	GotenbergTimeout time.Duration `envconfig:"GOTENBERG_TIMEOUT" default:"30s"`

	WorkerMetricsAddr string `envconfig:"WORKER_METRICS_ADDR" default:":9091"`
	// OpsToken guards /metrics and /jobs on the web process. Empty leaves
	// them open, for deployments that keep the port on a private network.
	OpsToken string `envconfig:"OPS_TOKEN" masked:"true"`
}

// LoadConfig reads configuration from an optional .env file and the
// environment. Variables already set in the environment win.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the combinations envconfig cannot express.
func (c *Config) Validate() error {
	if c.SessionSecret == "" {
		return errors.New("session secret must be provided")
	}
	if c.CSRFSecret == "" {
		return errors.New("csrf secret must be provided")
	}
	if c.SupabaseURL == "" || c.SupabaseAnonKey == "" {
		return errors.New("SUPABASE_URL and SUPABASE_ANON_KEY must be provided")
	}
	switch c.StorageDriver {
	case StorageREST:
	case StoragePostgres:
		if c.PGDSN == "" {
			return errors.New("PG_DSN must be provided when STORAGE_DRIVER=postgres")
		}
	default:
		return errors.New("STORAGE_DRIVER must be rest or postgres")
	}
	return nil
}

// IsProduction returns true when the application runs in production.
func (c *Config) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}

// RecoveryURL is the absolute address password reset emails point to.
func (c *Config) RecoveryURL() string {
	return strings.TrimRight(c.AppBaseURL, "/") + "/auth/recover"
}

// LogConfig writes the effective configuration with secrets masked.
func LogConfig(logger *slog.Logger, cfg *Config) {
	if logger == nil || cfg == nil {
		return
	}
	v := reflect.ValueOf(*cfg)
	t := v.Type()
	attrs := make([]any, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		name := field.Tag.Get("envconfig")
		if name == "" {
			continue
		}
		value := v.Field(i).Interface()
		if field.Tag.Get("masked") == "true" {
			value = mask(v.Field(i).String())
		}
		attrs = append(attrs, slog.Any(name, value))
	}
	logger.Info("configuration loaded", attrs...)
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	return "******"
}
