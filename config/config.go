// Package config loads runtime configuration from the environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	ProviderOpenRouter = "openrouter"
	ProviderOpenAI     = "openai"
)

type Config struct {
	PostgresDSN string `env:"POSTGRES_DSN" envDefault:"postgres://localhost:5432/documind?sslmode=disable"`
	ListenAddr  string `env:"LISTEN_ADDR" envDefault:":8080"`
	Debug       bool   `env:"DEBUG" envDefault:"false"`

	Provider Provider
}

type Provider struct {
	Name string `env:"LLM_PROVIDER" envDefault:"openrouter"`

	OpenRouterAPIKey  string `env:"OPENROUTER_API_KEY"`
	OpenRouterModel   string `env:"OPENROUTER_MODEL" envDefault:"anthropic/claude-3.5-sonnet"`
	OpenRouterBaseURL string `env:"OPENROUTER_BASE_URL" envDefault:"https://openrouter.ai/api/v1"`

	OpenAIAPIKey  string `env:"OPENAI_API_KEY"`
	OpenAIModel   string `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`
	OpenAIBaseURL string `env:"OPENAI_BASE_URL"`
}

// Load reads configuration from the environment, merging in a .env file when
// one is present in the working directory.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}
