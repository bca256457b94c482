package openai

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	APIKey  string        `env:"OPENAI_API_KEY,notEmpty"`
	Model   string        `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	BaseURL string        `env:"OPENAI_BASE_URL" envDefault:"https://api.openai.com/v1"`
	Timeout time.Duration `env:"OPENAI_TIMEOUT" envDefault:"120s"`
}

func NewConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("openai config: %w", err)
	}
	return &cfg, nil
}
