package config

import (
	"fmt"
	"log"
	"time"
	_ "time/tzdata"

	"github.com/segyhp/rental-manager/internal/domain"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds all configuration for our application
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Scheduler SchedulerConfig
	Logging   LoggingConfig
	Business  BusinessConfig
	Auth      AuthConfig
	Storage   StorageConfig
	Renderer  RendererConfig
	Agency    AgencyConfig
	Health    HealthConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	Env          string
	ReadTimeout  string
	WriteTimeout string
}

type DatabaseConfig struct {
	URL             string
	Host            string
	Port            string
	Name            string
	User            string
	Password        string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime string
}

type RedisConfig struct {
	Host       string
	Port       string
	Password   string
	DB         int
	ArrearsTTL string
}

type SchedulerConfig struct {
	ArrearsSpec string
	Timezone    string
}

type LoggingConfig struct {
	Level string
}

type BusinessConfig struct {
	VATRate               string
	EarliestTrackedPeriod string
	ReceiptNumberPrefix   string
}

type AuthConfig struct {
	Email        string
	PasswordHash string
	JWTSecret    string
	SessionTTL   string
}

// StorageConfig points at an S3 compatible bucket for generated PDFs.
// Storage is disabled when Endpoint is empty.
type StorageConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Region    string
	Bucket    string
	UseSSL    bool
}

// RendererConfig drives headless Chromium. PDF output is disabled unless
// Enabled is set.
type RendererConfig struct {
	Enabled  bool
	ExecPath string
	Timeout  string
}

// AgencyConfig is the managing agency printed on receipts and certificates.
type AgencyConfig struct {
	Name    string
	Address string
	TaxID   string
	Phone   string
	Email   string
}

type HealthConfig struct {
	Timeout string
}

var defaults = map[string]any{
	"SERVER_PORT":                "8080",
	"SERVER_HOST":                "0.0.0.0",
	"ENV":                        "development",
	"SERVER_READ_TIMEOUT":        "15s",
	"SERVER_WRITE_TIMEOUT":       "60s",
	"DATABASE_URL":               "",
	"DATABASE_HOST":              "localhost",
	"DATABASE_PORT":              "5432",
	"DATABASE_NAME":              "rental_manager",
	"DATABASE_USER":              "postgres",
	"DATABASE_PASSWORD":          "",
	"DATABASE_SSLMODE":           "disable",
	"DATABASE_MAX_OPEN_CONNS":    10,
	"DATABASE_MAX_IDLE_CONNS":    5,
	"DATABASE_CONN_MAX_LIFETIME": "30m",
	"REDIS_HOST":                 "localhost",
	"REDIS_PORT":                 "6379",
	"REDIS_PASSWORD":             "",
	"REDIS_DB":                   0,
	"ARREARS_CACHE_TTL":          "1h",
	"SCHEDULER_ARREARS_SPEC":     "0 30 2 * * *",
	"SCHEDULER_TIMEZONE":         "Europe/Madrid",
	"LOG_LEVEL":                  "info",
	"VAT_RATE":                   "21",
	"ARREARS_EARLIEST_PERIOD":    "",
	"RECEIPT_NUMBER_PREFIX":      "REC",
	"AUTH_EMAIL":                 "",
	"AUTH_PASSWORD_HASH":         "",
	"JWT_SECRET":                 "",
	"SESSION_TTL":                "30m",
	"S3_ENDPOINT":                "",
	"S3_ACCESS_KEY":              "",
	"S3_SECRET_KEY":              "",
	"S3_REGION":                  "us-east-1",
	"S3_BUCKET":                  "receipts",
	"S3_USE_SSL":                 false,
	"PDF_ENABLED":                false,
	"CHROME_PATH":                "",
	"PDF_TIMEOUT":                "30s",
	"AGENCY_NAME":                "Your Agency S.L.",
	"AGENCY_ADDRESS":             "Calle Principal 123, 08001 Barcelona",
	"AGENCY_TAX_ID":              "B12345678",
	"AGENCY_PHONE":               "+34 93 123 45 67",
	"AGENCY_EMAIL":               "info@youragency.com",
	"HEALTH_CHECK_TIMEOUT":       "5s",
}

// Load reads configuration from environment variables and an optional .env
// file in the working directory.
func Load() (*Config, error) {
	// Don't fail if .env file doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	config := &Config{
		Server: ServerConfig{
			Port:         v.GetString("SERVER_PORT"),
			Host:         v.GetString("SERVER_HOST"),
			Env:          v.GetString("ENV"),
			ReadTimeout:  v.GetString("SERVER_READ_TIMEOUT"),
			WriteTimeout: v.GetString("SERVER_WRITE_TIMEOUT"),
		},
		Database: DatabaseConfig{
			URL:             v.GetString("DATABASE_URL"),
			Host:            v.GetString("DATABASE_HOST"),
			Port:            v.GetString("DATABASE_PORT"),
			Name:            v.GetString("DATABASE_NAME"),
			User:            v.GetString("DATABASE_USER"),
			Password:        v.GetString("DATABASE_PASSWORD"),
			SSLMode:         v.GetString("DATABASE_SSLMODE"),
			MaxOpenConns:    v.GetInt("DATABASE_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DATABASE_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetString("DATABASE_CONN_MAX_LIFETIME"),
		},
		Redis: RedisConfig{
			Host:       v.GetString("REDIS_HOST"),
			Port:       v.GetString("REDIS_PORT"),
			Password:   v.GetString("REDIS_PASSWORD"),
			DB:         v.GetInt("REDIS_DB"),
			ArrearsTTL: v.GetString("ARREARS_CACHE_TTL"),
		},
		Scheduler: SchedulerConfig{
			ArrearsSpec: v.GetString("SCHEDULER_ARREARS_SPEC"),
			Timezone:    v.GetString("SCHEDULER_TIMEZONE"),
		},
		Logging: LoggingConfig{
			Level: v.GetString("LOG_LEVEL"),
		},
		Business: BusinessConfig{
			VATRate:               v.GetString("VAT_RATE"),
			EarliestTrackedPeriod: v.GetString("ARREARS_EARLIEST_PERIOD"),
			ReceiptNumberPrefix:   v.GetString("RECEIPT_NUMBER_PREFIX"),
		},
		Auth: AuthConfig{
			Email:        v.GetString("AUTH_EMAIL"),
			PasswordHash: v.GetString("AUTH_PASSWORD_HASH"),
			JWTSecret:    v.GetString("JWT_SECRET"),
			SessionTTL:   v.GetString("SESSION_TTL"),
		},
		Storage: StorageConfig{
			Endpoint:  v.GetString("S3_ENDPOINT"),
			AccessKey: v.GetString("S3_ACCESS_KEY"),
			SecretKey: v.GetString("S3_SECRET_KEY"),
			Region:    v.GetString("S3_REGION"),
			Bucket:    v.GetString("S3_BUCKET"),
			UseSSL:    v.GetBool("S3_USE_SSL"),
		},
		Renderer: RendererConfig{
			Enabled:  v.GetBool("PDF_ENABLED"),
			ExecPath: v.GetString("CHROME_PATH"),
			Timeout:  v.GetString("PDF_TIMEOUT"),
		},
		Agency: AgencyConfig{
			Name:    v.GetString("AGENCY_NAME"),
			Address: v.GetString("AGENCY_ADDRESS"),
			TaxID:   v.GetString("AGENCY_TAX_ID"),
			Phone:   v.GetString("AGENCY_PHONE"),
			Email:   v.GetString("AGENCY_EMAIL"),
		},
		Health: HealthConfig{
			Timeout: v.GetString("HEALTH_CHECK_TIMEOUT"),
		},
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("SERVER_PORT is required")
	}

	if c.Database.URL == "" && c.Database.Host == "" {
		return fmt.Errorf("DATABASE_URL or DATABASE_HOST is required")
	}

	vat, err := decimal.NewFromString(c.Business.VATRate)
	if err != nil {
		return fmt.Errorf("VAT_RATE must be a valid decimal: %w", err)
	}
	if vat.IsNegative() {
		return fmt.Errorf("VAT_RATE must not be negative")
	}

	if c.Business.EarliestTrackedPeriod != "" {
		if _, err := domain.ParsePeriod(c.Business.EarliestTrackedPeriod); err != nil {
			return fmt.Errorf("ARREARS_EARLIEST_PERIOD must be YYYY-MM: %w", err)
		}
	}

	durations := map[string]string{
		"SERVER_READ_TIMEOUT":        c.Server.ReadTimeout,
		"SERVER_WRITE_TIMEOUT":       c.Server.WriteTimeout,
		"DATABASE_CONN_MAX_LIFETIME": c.Database.ConnMaxLifetime,
		"ARREARS_CACHE_TTL":          c.Redis.ArrearsTTL,
		"SESSION_TTL":                c.Auth.SessionTTL,
		"PDF_TIMEOUT":                c.Renderer.Timeout,
		"HEALTH_CHECK_TIMEOUT":       c.Health.Timeout,
	}
	for key, value := range durations {
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("%s must be a valid duration: %w", key, err)
		}
	}

	parser := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	if _, err := parser.Parse(c.Scheduler.ArrearsSpec); err != nil {
		return fmt.Errorf("SCHEDULER_ARREARS_SPEC must be a valid cron spec: %w", err)
	}

	if _, err := time.LoadLocation(c.Scheduler.Timezone); err != nil {
		return fmt.Errorf("SCHEDULER_TIMEZONE must be a valid location: %w", err)
	}

	return nil
}

// ValidateAuth checks the login gate settings; only the HTTP server needs them.
func (c *Config) ValidateAuth() error {
	if c.Auth.Email == "" || c.Auth.PasswordHash == "" {
		return fmt.Errorf("AUTH_EMAIL and AUTH_PASSWORD_HASH are required")
	}
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters")
	}
	return nil
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development" || c.Server.Env == "dev"
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production" || c.Server.Env == "prod"
}

// IsDebug enables per-month logging in the settlement engine.
func (c *Config) IsDebug() bool {
	return c.Logging.Level == "debug"
}

// DSN builds the Postgres connection string.
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}

// GetVATRate returns the VAT rate as decimal
func (c *Config) GetVATRate() decimal.Decimal {
	rate, _ := decimal.NewFromString(c.Business.VATRate)
	return rate
}

// GetEarliestTrackedPeriod returns the configured floor for arrears, if any.
func (c *Config) GetEarliestTrackedPeriod() (domain.Period, bool) {
	if c.Business.EarliestTrackedPeriod == "" {
		return domain.Period{}, false
	}
	p, err := domain.ParsePeriod(c.Business.EarliestTrackedPeriod)
	if err != nil {
		log.Printf("[ARREARS] ignoring ARREARS_EARLIEST_PERIOD %q: %v", c.Business.EarliestTrackedPeriod, err)
		return domain.Period{}, false
	}
	return p, true
}

// GetArrearsTTL returns how long a cached arrears summary stays valid.
func (c *Config) GetArrearsTTL() time.Duration {
	return mustDuration(c.Redis.ArrearsTTL)
}

// GetSessionTTL returns the inactivity window of a login session.
func (c *Config) GetSessionTTL() time.Duration {
	return mustDuration(c.Auth.SessionTTL)
}

// GetPDFTimeout returns the budget for one headless render.
func (c *Config) GetPDFTimeout() time.Duration {
	return mustDuration(c.Renderer.Timeout)
}

// GetHealthTimeout returns the health check timeout as duration
func (c *Config) GetHealthTimeout() time.Duration {
	return mustDuration(c.Health.Timeout)
}

func (c *Config) GetReadTimeout() time.Duration {
	return mustDuration(c.Server.ReadTimeout)
}

func (c *Config) GetWriteTimeout() time.Duration {
	return mustDuration(c.Server.WriteTimeout)
}

func (c *Config) GetConnMaxLifetime() time.Duration {
	return mustDuration(c.Database.ConnMaxLifetime)
}

// GetSchedulerLocation returns the timezone cron jobs run in.
func (c *Config) GetSchedulerLocation() *time.Location {
	loc, err := time.LoadLocation(c.Scheduler.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func mustDuration(s string) time.Duration {
	d, _ := time.ParseDuration(s)
	return d
}
