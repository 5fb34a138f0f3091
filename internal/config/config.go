// Package config loads and validates service configuration from a YAML file
// with environment variable overrides. A .env file is loaded first when
// present, so local development does not need exported variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultServerPort      = 8060
	defaultServerTimeout   = 30
	defaultDatabasePort    = 5432
	defaultMaxOpenConns    = 25
	defaultMaxIdleConns    = 5
	defaultConnMaxLifetime = 5
	defaultRedisAddress    = "localhost:6379"
	defaultScraperTimeout  = 120
	defaultATSTimeout      = 60
	defaultOpenAIModel     = "gpt-4"
	defaultScrapeInterval  = 6
	defaultStaleRunTimeout = 30
)

type Config struct {
	Debug     bool            `env:"APP_DEBUG" yaml:"debug"`
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Redis     RedisConfig     `yaml:"redis"`
	Scraper   ScraperConfig   `yaml:"scraper"`
	ATS       ATSConfig       `yaml:"ats"`
	OpenAI    OpenAIConfig    `yaml:"openai"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
}

type ServerConfig struct {
	Host         string        `env:"SERVER_HOST" yaml:"host"`
	Port         int           `env:"SERVER_PORT" yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	CORSOrigins  []string      `yaml:"cors_origins"`
}

type DatabaseConfig struct {
	Host            string        `env:"DB_HOST" yaml:"host"`
	Port            int           `env:"DB_PORT" yaml:"port"`
	User            string        `env:"DB_USER" yaml:"user"`
	Password        string        `env:"DB_PASSWORD" yaml:"password"`
	DBName          string        `env:"DB_NAME" yaml:"dbname"`
	SSLMode         string        `env:"DB_SSLMODE" yaml:"sslmode"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

type AuthConfig struct {
	JWTSecret string `env:"AUTH_JWT_SECRET" yaml:"jwt_secret"`
}

// RedisConfig holds Redis connection configuration for run-event publishing.
type RedisConfig struct {
	Address  string `env:"REDIS_ADDRESS" yaml:"address"`
	Password string `env:"REDIS_PASSWORD" yaml:"password"`
	DB       int    `env:"REDIS_DB" yaml:"db"`
	Enabled  bool   `env:"REDIS_EVENTS_ENABLED" yaml:"enabled"`
}

// ScraperConfig points at the external scraping backend (jobspy-style
// Flask service).
type ScraperConfig struct {
	BaseURL string        `env:"SCRAPER_API_URL" yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// ATSConfig points at the external ATS scoring / resume parsing service.
type ATSConfig struct {
	BaseURL string        `env:"FLASK_API_URL" yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

type OpenAIConfig struct {
	APIKey string `env:"OPENAI_API_KEY" yaml:"api_key"`
	Model  string `env:"OPENAI_MODEL" yaml:"model"`
}

// SchedulerConfig controls the periodic scrape of active configs and the
// stale-run reconciliation sweep.
type SchedulerConfig struct {
	Enabled         bool          `env:"SCHEDULER_ENABLED" yaml:"enabled"`
	IntervalHours   int           `env:"SCRAPE_INTERVAL_HOURS" yaml:"interval_hours"`
	StaleRunTimeout time.Duration `yaml:"stale_run_timeout"`
}

func (c *Config) Validate() error {
	if c.Server.Host == "" {
		return errors.New("server.host is required")
	}
	if c.Server.Port <= 0 {
		return errors.New("server.port is required and must be positive")
	}
	if c.Database.Host == "" {
		return errors.New("database.host is required")
	}
	if c.Database.Port <= 0 {
		return errors.New("database.port is required and must be positive")
	}
	if c.Database.User == "" {
		return errors.New("database.user is required")
	}
	if c.Database.DBName == "" {
		return errors.New("database.dbname is required")
	}
	if c.Scraper.BaseURL == "" {
		return errors.New("scraper.base_url is required")
	}
	if c.Scheduler.Enabled && c.Scheduler.IntervalHours < 1 {
		return errors.New("scheduler.interval_hours must be a positive integer")
	}
	return nil
}

// Load reads the YAML file at path, applies .env / environment overrides and
// defaults, and validates the result.
func Load(path string) (*Config, error) {
	// File-not-found is fine for .env; only real load failures abort.
	if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		// No file: environment-only configuration.
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	applyEnvOverrides(cfg)
	setDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	overrideString(&cfg.Server.Host, "SERVER_HOST")
	overrideInt(&cfg.Server.Port, "SERVER_PORT")
	overrideString(&cfg.Database.Host, "DB_HOST")
	overrideInt(&cfg.Database.Port, "DB_PORT")
	overrideString(&cfg.Database.User, "DB_USER")
	overrideString(&cfg.Database.Password, "DB_PASSWORD")
	overrideString(&cfg.Database.DBName, "DB_NAME")
	overrideString(&cfg.Database.SSLMode, "DB_SSLMODE")
	overrideString(&cfg.Auth.JWTSecret, "AUTH_JWT_SECRET")
	overrideString(&cfg.Redis.Address, "REDIS_ADDRESS")
	overrideString(&cfg.Redis.Password, "REDIS_PASSWORD")
	overrideInt(&cfg.Redis.DB, "REDIS_DB")
	overrideBool(&cfg.Redis.Enabled, "REDIS_EVENTS_ENABLED")
	overrideString(&cfg.Scraper.BaseURL, "SCRAPER_API_URL")
	overrideString(&cfg.ATS.BaseURL, "FLASK_API_URL")
	overrideString(&cfg.OpenAI.APIKey, "OPENAI_API_KEY")
	overrideString(&cfg.OpenAI.Model, "OPENAI_MODEL")
	overrideBool(&cfg.Scheduler.Enabled, "SCHEDULER_ENABLED")
	overrideInt(&cfg.Scheduler.IntervalHours, "SCRAPE_INTERVAL_HOURS")
	overrideBool(&cfg.Debug, "APP_DEBUG")
}

func overrideString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func overrideInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func overrideBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = defaultServerPort
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = defaultServerTimeout * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = defaultServerTimeout * time.Second
	}
	if len(cfg.Server.CORSOrigins) == 0 {
		cfg.Server.CORSOrigins = []string{"http://localhost:3000"}
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = defaultDatabasePort
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = defaultMaxOpenConns
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = defaultMaxIdleConns
	}
	if cfg.Database.ConnMaxLifetime == 0 {
		cfg.Database.ConnMaxLifetime = defaultConnMaxLifetime * time.Minute
	}
	if cfg.Redis.Address == "" {
		cfg.Redis.Address = defaultRedisAddress
	}
	if cfg.Scraper.Timeout == 0 {
		cfg.Scraper.Timeout = defaultScraperTimeout * time.Second
	}
	if cfg.ATS.Timeout == 0 {
		cfg.ATS.Timeout = defaultATSTimeout * time.Second
	}
	if cfg.OpenAI.Model == "" {
		cfg.OpenAI.Model = defaultOpenAIModel
	}
	if cfg.Scheduler.IntervalHours == 0 {
		cfg.Scheduler.IntervalHours = defaultScrapeInterval
	}
	if cfg.Scheduler.StaleRunTimeout == 0 {
		cfg.Scheduler.StaleRunTimeout = defaultStaleRunTimeout * time.Minute
	}
}
