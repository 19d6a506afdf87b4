// Package config loads process configuration from the environment.
//
// Optional .env files are applied first (existing variables win), then the
// environment is parsed into typed structs.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// DefaultEnvFiles are loaded when present.
var DefaultEnvFiles = []string{".env", ".env.local"}

// Config is the full process configuration.
type Config struct {
	Environment  string `env:"APP_ENV" envDefault:"development"`
	Server       Server
	Postgres     PostgresConfig
	Redis        RedisConfig
	Kafka        KafkaConfig
	Provider     ProviderConfig
	DNS          DNSTargets
	Verification VerificationConfig
	Auth         AuthConfig
	Logging      Logging
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string        `env:"DOMAINFLOW_ADDR" envDefault:":8080"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

type PostgresConfig struct {
	DSN             string        `env:"DATABASE_URL"`
	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"20"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"30m"`
	AutoMigrate     bool          `env:"DB_AUTO_MIGRATE" envDefault:"true"`
}

// RedisConfig mirrors go-redis pool options. An empty URL disables Redis and
// the in-memory cache and scheduler are used instead.
type RedisConfig struct {
	URL          string        `env:"REDIS_URL"`
	PoolSize     int           `env:"REDIS_POOL_SIZE" envDefault:"10"`
	MinIdleConns int           `env:"REDIS_MIN_IDLE_CONNS" envDefault:"2"`
	DialTimeout  time.Duration `env:"REDIS_DIAL_TIMEOUT" envDefault:"5s"`
	ReadTimeout  time.Duration `env:"REDIS_READ_TIMEOUT" envDefault:"3s"`
	WriteTimeout time.Duration `env:"REDIS_WRITE_TIMEOUT" envDefault:"3s"`
}

// KafkaConfig configures the email-domain recheck publisher. No brokers means
// the trigger only logs.
type KafkaConfig struct {
	Brokers    []string `env:"KAFKA_BROKERS" envSeparator:","`
	EmailTopic string   `env:"KAFKA_EMAIL_DOMAIN_TOPIC" envDefault:"email-domain-recheck"`
	ClientID   string   `env:"KAFKA_CLIENT_ID" envDefault:"domainflow"`
}

// ProviderConfig configures the hosting provider REST client.
type ProviderConfig struct {
	BaseURL          string        `env:"HOSTING_API_URL" envDefault:"https://api.vercel.com"`
	Token            string        `env:"HOSTING_API_TOKEN"`
	ProjectID        string        `env:"HOSTING_PROJECT_ID"`
	TeamID           string        `env:"HOSTING_TEAM_ID"`
	WebhookSecret    string        `env:"HOSTING_WEBHOOK_SECRET"`
	Timeout          time.Duration `env:"HOSTING_TIMEOUT" envDefault:"10s"`
	BreakerThreshold int           `env:"HOSTING_BREAKER_THRESHOLD" envDefault:"5"`
	BreakerCooldown  time.Duration `env:"HOSTING_BREAKER_COOLDOWN" envDefault:"30s"`
}

// DNSTargets are the platform endpoints tenants point their records at.
type DNSTargets struct {
	AnycastIPv4  string `env:"DNS_ANYCAST_IPV4" envDefault:"76.76.21.21"`
	EdgeHostname string `env:"DNS_EDGE_HOSTNAME" envDefault:"cname.vercel-dns.com"`
	TTL          int    `env:"DNS_RECORD_TTL" envDefault:"3600"`
}

// VerificationConfig drives scheduling and caching of the verification flow.
type VerificationConfig struct {
	InitialDelay    time.Duration `env:"VERIFY_INITIAL_DELAY" envDefault:"5m"`
	MaxDelay        time.Duration `env:"VERIFY_MAX_DELAY" envDefault:"1h"`
	MaxAttempts     int           `env:"VERIFY_MAX_ATTEMPTS" envDefault:"3"`
	PollInterval    time.Duration `env:"VERIFY_POLL_INTERVAL" envDefault:"5s"`
	Concurrency     int           `env:"VERIFY_WORKERS" envDefault:"4"`
	InstructionTTL  time.Duration `env:"DNS_INSTRUCTIONS_TTL" envDefault:"168h"`
	ResolutionTTL   time.Duration `env:"TENANT_RESOLUTION_TTL" envDefault:"5m"`
	StaleAfter      time.Duration `env:"VERIFY_STALE_AFTER" envDefault:"168h"`
	ActivityTTL     time.Duration `env:"DOMAIN_ACTIVITY_TTL" envDefault:"24h"`
	ActivityLimit   int           `env:"DOMAIN_ACTIVITY_LIMIT" envDefault:"20"`
	L1CacheMaxItems int64         `env:"RESOLUTION_L1_MAX_ITEMS" envDefault:"10000"`
}

// AuthConfig holds tenant token and operator credentials.
type AuthConfig struct {
	JWTSigningKey string        `env:"JWT_SIGNING_KEY"`
	JWTIssuer     string        `env:"JWT_ISSUER" envDefault:"domainflow"`
	JWTAudience   string        `env:"JWT_AUDIENCE" envDefault:"domainflow-tenants"`
	TokenTTL      time.Duration `env:"JWT_TOKEN_TTL" envDefault:"1h"`
	AdminToken    string        `env:"ADMIN_API_TOKEN"`
}

type Logging struct {
	Level   string `env:"LOG_LEVEL" envDefault:"info"`
	Service string `env:"LOG_SERVICE" envDefault:"domainflow"`
}

const devSigningKey = "dev-secret-key-change-in-production"

// Load applies the default .env files and parses the environment.
func Load() (*Config, error) {
	if err := LoadEnvFiles(DefaultEnvFiles...); err != nil {
		return nil, err
	}
	return FromEnv()
}

// LoadEnvFiles loads the files that exist and skips the rest.
func LoadEnvFiles(files ...string) error {
	existing := make([]string, 0, len(files))
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("load env files: %w", err)
	}
	return nil
}

// FromEnv parses the process environment.
func FromEnv() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if cfg.Auth.JWTSigningKey == "" && !cfg.IsProduction() {
		cfg.Auth.JWTSigningKey = devSigningKey
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Validate rejects configurations the process cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Auth.JWTSigningKey == "" {
		errs = append(errs, errors.New("JWT_SIGNING_KEY is required in production"))
	}
	if c.Verification.MaxAttempts < 0 {
		errs = append(errs, fmt.Errorf("VERIFY_MAX_ATTEMPTS must be non-negative, got %d", c.Verification.MaxAttempts))
	}
	if c.Verification.InitialDelay <= 0 {
		errs = append(errs, errors.New("VERIFY_INITIAL_DELAY must be positive"))
	}
	if c.Verification.MaxDelay < c.Verification.InitialDelay {
		errs = append(errs, errors.New("VERIFY_MAX_DELAY must be at least VERIFY_INITIAL_DELAY"))
	}
	if c.Provider.Timeout <= 0 {
		errs = append(errs, errors.New("HOSTING_TIMEOUT must be positive"))
	}
	if c.IsProduction() {
		if c.Provider.Token == "" || c.Provider.ProjectID == "" {
			errs = append(errs, errors.New("HOSTING_API_TOKEN and HOSTING_PROJECT_ID are required in production"))
		}
		if c.Provider.WebhookSecret == "" {
			errs = append(errs, errors.New("HOSTING_WEBHOOK_SECRET is required in production"))
		}
	}
	return errors.Join(errs...)
}
