package gemini

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// holds Gemini-specific configuration
type Config struct {
	APIKey string `env:"GEMINI_API_KEY,notEmpty"`
	Model  string `env:"GEMINI_MODEL" envDefault:"gemini-2.5-flash"`
}

func NewConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("gemini config: %w", err)
	}
	return &cfg, nil
}
