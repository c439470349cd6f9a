package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	internalconfig "github.com/valerie-05/AI-Immigration-Assistant/internal/config"
)

type envConfig struct {
	Env               string `env:"ENV" envDefault:"production"`
	HTTPAddr          string `env:"HTTP_ADDR" envDefault:":8080"`
	DatabaseURL       string `env:"DATABASE_URL"`
	GeminiAPIKey      string `env:"GEMINI_API_KEY"`
	GeminiModel       string `env:"GEMINI_MODEL" envDefault:"gemini-2.5-flash"`
	ElevenLabsAPIKey  string `env:"ELEVENLABS_API_KEY"`
	ElevenLabsBaseURL string `env:"ELEVENLABS_BASE_URL" envDefault:"https://api.elevenlabs.io"`
	DefaultLanguage   string `env:"DEFAULT_LANGUAGE" envDefault:"en"`
}

func Load() (*internalconfig.Config, error) {
	var raw envConfig
	if err := env.Parse(&raw); err != nil {
		return nil, fmt.Errorf("environment variables are invalid or missing: %w", err)
	}

	cfg := &internalconfig.Config{
		Env:               raw.Env,
		HTTPAddr:          raw.HTTPAddr,
		DatabaseURL:       raw.DatabaseURL,
		GeminiAPIKey:      raw.GeminiAPIKey,
		GeminiModel:       raw.GeminiModel,
		ElevenLabsAPIKey:  raw.ElevenLabsAPIKey,
		ElevenLabsBaseURL: raw.ElevenLabsBaseURL,
		DefaultLanguage:   raw.DefaultLanguage,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
