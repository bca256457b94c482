package config

import (
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
}

func TestLoadConfig_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}

	if cfg.Provider != "gemini" {
		t.Fatalf("expected provider gemini, got %s", cfg.Provider)
	}
	if cfg.PageSize != 2 {
		t.Fatalf("expected page size 2, got %d", cfg.PageSize)
	}
	if cfg.Feedback.CacheTTL != 15*time.Minute {
		t.Fatalf("expected 15m cache ttl, got %s", cfg.Feedback.CacheTTL)
	}
	if cfg.RedisChannel != "interview_completed" {
		t.Fatalf("unexpected redis channel %s", cfg.RedisChannel)
	}
}

func TestLoadConfig_AllowedOrigins(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ALLOWED_ORIGINS", "http://a.test,http://b.test")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "http://b.test" {
		t.Fatalf("unexpected origins %v", cfg.AllowedOrigins)
	}
}

func TestLoadConfig_UnsupportedProvider(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("AI_PROVIDER", "unknown")

	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error for unsupported provider")
	}
}

func TestValidate_MongoRequiresURI(t *testing.T) {
	cfg := &Config{Provider: "gemini", JWTSecret: "s", StoreBackend: "mongo", PageSize: 2, Feedback: FeedbackConfig{CacheTTL: time.Minute}}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when MONGO_URI missing")
	}

	cfg.StoreBackend = "memory"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("memory backend should not need MONGO_URI, got %v", err)
	}
}

func TestValidate_Rejects(t *testing.T) {
	base := Config{Provider: "openai", JWTSecret: "s", StoreBackend: "memory", PageSize: 2, Feedback: FeedbackConfig{CacheTTL: time.Minute}}

	cases := map[string]func(c *Config){
		"missing secret": func(c *Config) { c.JWTSecret = "" },
		"bad backend":    func(c *Config) { c.StoreBackend = "redis" },
		"zero page size": func(c *Config) { c.PageSize = 0 },
		"zero ttl":       func(c *Config) { c.Feedback.CacheTTL = 0 },
		"no schedule": func(c *Config) {
			c.Feedback.ExportEnabled = true
			c.Feedback.ExportSchedule = " "
		},
	}

	for name, mutate := range cases {
		cfg := base
		mutate(&cfg)
		if err := cfg.Validate(); err == nil {
			t.Fatalf("%s: expected validation error", name)
		}
	}
}

func TestPostgresDSN(t *testing.T) {
	p := PostgresConfig{Host: "db", User: "u", Password: "p", DBName: "d", Port: "5432", SSLMode: "disable"}
	want := "host=db user=u password=p dbname=d port=5432 sslmode=disable"
	if got := p.DSN(); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestIsDevelopment(t *testing.T) {
	cfg := &Config{Env: "development"}
	if !cfg.IsDevelopment() {
		t.Fatal("expected development mode")
	}
	cfg.Env = "production"
	if cfg.IsDevelopment() {
		t.Fatal("expected production mode")
	}
}
