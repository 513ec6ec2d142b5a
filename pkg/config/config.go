package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App      AppConfig
	DB       DBConfig
	Redis    RedisConfig
	JWT      JWTConfig
	ShopAPI  ShopAPIConfig
	Checkout CheckoutConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Checkout.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"TILLPOINT_APP_ENV" required:"true"`
	Port         string `envconfig:"TILLPOINT_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"TILLPOINT_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"TILLPOINT_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"TILLPOINT_DB_DSN"`
	Driver string `envconfig:"TILLPOINT_DB_DRIVER" default:"sqlite"`

	SQLitePath string `envconfig:"TILLPOINT_SQLITE_PATH" default:"tillpoint.db"`

	MaxOpenConns    int           `envconfig:"TILLPOINT_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"TILLPOINT_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"TILLPOINT_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"TILLPOINT_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

// UseSQLite reports whether the local history store runs on sqlite.
func (db DBConfig) UseSQLite() bool {
	return !strings.EqualFold(db.Driver, "postgres")
}

type RedisConfig struct {
	URL          string        `envconfig:"TILLPOINT_REDIS_URL"`
	Password     string        `envconfig:"TILLPOINT_REDIS_PASSWORD"`
	DB           int           `envconfig:"TILLPOINT_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"TILLPOINT_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"TILLPOINT_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"TILLPOINT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"TILLPOINT_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"TILLPOINT_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// Enabled reports whether a redis endpoint was configured at all.
func (r RedisConfig) Enabled() bool {
	return strings.TrimSpace(r.URL) != ""
}

type JWTConfig struct {
	Secret            string `envconfig:"TILLPOINT_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"TILLPOINT_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"TILLPOINT_JWT_EXPIRATION_MINUTES" default:"720"`
}

// AccessTokenTTL returns the access token lifetime.
func (j JWTConfig) AccessTokenTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type ShopAPIConfig struct {
	BaseURL string        `envconfig:"TILLPOINT_SHOP_API_BASE_URL" required:"true"`
	Token   string        `envconfig:"TILLPOINT_SHOP_API_TOKEN"`
	Timeout time.Duration `envconfig:"TILLPOINT_SHOP_API_TIMEOUT" default:"15s"`
}

type CheckoutConfig struct {
	ProfitPolicy   string        `envconfig:"TILLPOINT_CHECKOUT_PROFIT_POLICY" default:"legacy"`
	InFlightTTL    time.Duration `envconfig:"TILLPOINT_CHECKOUT_IN_FLIGHT_TTL" default:"30s"`
	FallbackMethod string        `envconfig:"TILLPOINT_CHECKOUT_FALLBACK_METHOD" default:""`
}

func (c CheckoutConfig) validate() error {
	switch strings.ToLower(strings.TrimSpace(c.ProfitPolicy)) {
	case ProfitPolicyLegacy, ProfitPolicyMargin:
		return nil
	}
	return fmt.Errorf("unknown profit policy %q (want %s or %s)", c.ProfitPolicy, ProfitPolicyLegacy, ProfitPolicyMargin)
}

// Policy returns the normalized profit policy name.
func (c CheckoutConfig) Policy() string {
	return strings.ToLower(strings.TrimSpace(c.ProfitPolicy))
}
