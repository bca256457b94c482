package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// app config, provider specific settings are parsed by each provider package
type Config struct {
	Env            string   `env:"ENV" envDefault:"production"`
	Port           string   `env:"PORT" envDefault:"8080"`
	Provider       string   `env:"AI_PROVIDER" envDefault:"gemini"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
	JWTSecret      string   `env:"JWT_SECRET"`

	StoreBackend    string `env:"STORE_BACKEND" envDefault:"mongo"`
	MongoURI        string `env:"MONGO_URI"`
	MongoDBName     string `env:"MONGO_DB_NAME" envDefault:"interview_alchemist"`
	MongoCollection string `env:"MONGO_COLLECTION" envDefault:"interviews"`
	PageSize        int    `env:"INTERVIEWS_PAGE_SIZE" envDefault:"2"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisChannel  string `env:"REDIS_CHANNEL" envDefault:"interview_completed"`

	Postgres PostgresConfig
	Feedback FeedbackConfig
}

type PostgresConfig struct {
	Host     string `env:"POSTGRES_HOST" envDefault:"localhost"`
	User     string `env:"POSTGRES_USER" envDefault:"postgres"`
	Password string `env:"POSTGRES_PASSWORD" envDefault:"postgres"`
	DBName   string `env:"POSTGRES_DB" envDefault:"postgres"`
	Port     string `env:"POSTGRES_PORT" envDefault:"5432"`
	SSLMode  string `env:"POSTGRES_SSLMODE" envDefault:"disable"`
}

// DSN builds the libpq style connection string gorm's postgres driver expects
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		p.Host, p.User, p.Password, p.DBName, p.Port, p.SSLMode)
}

type FeedbackConfig struct {
	Enabled        bool          `env:"FEEDBACK_ENABLED" envDefault:"true"`
	CacheTTL       time.Duration `env:"FEEDBACK_CACHE_TTL" envDefault:"15m"`
	ExportSchedule string        `env:"FEEDBACK_EXPORT_SCHEDULE" envDefault:"0 2 * * *"`
	ExportDir      string        `env:"FEEDBACK_EXPORT_DIR" envDefault:"./exports"`
	ExportEnabled  bool          `env:"FEEDBACK_EXPORT_ENABLED" envDefault:"false"`
}

var supportedProviders = map[string]bool{
	"gemini": true,
	"openai": true,
}

// loads configuration from environment variables
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("environment variables are invalid or missing: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if !supportedProviders[c.Provider] {
		return errors.New("unsupported AI provider: " + c.Provider + ". Currently supported: gemini, openai")
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	switch c.StoreBackend {
	case "mongo":
		if c.MongoURI == "" {
			return errors.New("MONGO_URI is required when STORE_BACKEND=mongo")
		}
	case "memory":
	default:
		return fmt.Errorf("unsupported STORE_BACKEND %q, expected mongo or memory", c.StoreBackend)
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("INTERVIEWS_PAGE_SIZE must be positive, got %d", c.PageSize)
	}
	if c.Feedback.CacheTTL <= 0 {
		return fmt.Errorf("FEEDBACK_CACHE_TTL must be positive, got %s", c.Feedback.CacheTTL)
	}
	if c.Feedback.ExportEnabled && strings.TrimSpace(c.Feedback.ExportSchedule) == "" {
		return errors.New("FEEDBACK_EXPORT_SCHEDULE is required when FEEDBACK_EXPORT_ENABLED=true")
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}
