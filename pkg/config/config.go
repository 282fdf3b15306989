package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix  = ""
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	Billing      BillingConfig
	Cron         CronConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"CASAFLOW_APP_ENV" required:"true"`
	Port         string `envconfig:"CASAFLOW_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"CASAFLOW_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"CASAFLOW_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN string `envconfig:"CASAFLOW_DB_DSN"`

	Host     string `envconfig:"CASAFLOW_DB_HOST"`
	Port     int    `envconfig:"CASAFLOW_DB_PORT" default:"5432"`
	User     string `envconfig:"CASAFLOW_DB_USER"`
	Password string `envconfig:"CASAFLOW_DB_PASSWORD"`
	Name     string `envconfig:"CASAFLOW_DB_NAME"`
	SSLMode  string `envconfig:"CASAFLOW_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"CASAFLOW_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"CASAFLOW_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"CASAFLOW_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"CASAFLOW_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (d *DBConfig) ensureDSN() error {
	if d.DSN != "" {
		return nil
	}
	if d.Host == "" || d.User == "" || d.Name == "" {
		return fmt.Errorf("either CASAFLOW_DB_DSN or host/user/name settings are required")
	}
	d.DSN = fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
	return nil
}

type RedisConfig struct {
	URL          string        `envconfig:"CASAFLOW_REDIS_URL"`
	Address      string        `envconfig:"CASAFLOW_REDIS_ADDR"`
	Password     string        `envconfig:"CASAFLOW_REDIS_PASSWORD"`
	DB           int           `envconfig:"CASAFLOW_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"CASAFLOW_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"CASAFLOW_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"CASAFLOW_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"CASAFLOW_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"CASAFLOW_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type BillingConfig struct {
	// DefaultMonthlyAmountCents is used when house creation omits an amount.
	DefaultMonthlyAmountCents int64 `envconfig:"CASAFLOW_BILLING_DEFAULT_MONTHLY_AMOUNT_CENTS" default:"9000"`
	// GenerateIncludePending controls whether the scheduled monthly run also
	// bills houses still marked pending.
	GenerateIncludePending bool `envconfig:"CASAFLOW_BILLING_GENERATE_INCLUDE_PENDING" default:"false"`
}

type CronConfig struct {
	Interval time.Duration `envconfig:"CASAFLOW_CRON_INTERVAL" default:"24h"`
	LockTTL  time.Duration `envconfig:"CASAFLOW_CRON_LOCK_TTL" default:"25h"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"CASAFLOW_FEATURE_AUTO_MIGRATE" default:"false"`
}
