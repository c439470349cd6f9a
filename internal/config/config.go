package config

import "fmt"

// Placeholder credential values shipped in example env files. A credential
// equal to its placeholder is treated the same as an absent credential.
const (
	GeminiKeyPlaceholder     = "your_gemini_api_key_here"
	ElevenLabsKeyPlaceholder = "sk_d19aec60c3e4965bab20528b550f001d5ebdbb245d740b5f"
)

type Config struct {
	Env               string
	HTTPAddr          string
	DatabaseURL       string
	GeminiAPIKey      string
	GeminiModel       string
	ElevenLabsAPIKey  string
	ElevenLabsBaseURL string
	DefaultLanguage   string
}

func (c *Config) Validate() error {
	for _, req := range c.requiredFieldChecks() {
		if req.value == "" {
			return fmt.Errorf("%s is required", req.name)
		}
	}
	if !c.IsDevelopment() && c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required outside development")
	}
	return nil
}

type requiredEnvField struct {
	name  string
	value string
}

func (c *Config) requiredFieldChecks() []requiredEnvField {
	return []requiredEnvField{
		{name: "HTTP_ADDR", value: c.HTTPAddr},
		{name: "GEMINI_MODEL", value: c.GeminiModel},
		{name: "ELEVENLABS_BASE_URL", value: c.ElevenLabsBaseURL},
		{name: "DEFAULT_LANGUAGE", value: c.DefaultLanguage},
	}
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// GuidanceConfigured reports whether the generative-guidance backend has a
// usable credential. When false, every guidance request is answered by the
// deterministic fallback without a network call.
func (c *Config) GuidanceConfigured() bool {
	return c.GeminiAPIKey != "" && c.GeminiAPIKey != GeminiKeyPlaceholder
}

// SynthesisConfigured reports whether the speech-synthesis backend has a
// usable credential. When false, synthesis is disabled and every audio
// request is a silent no-op.
func (c *Config) SynthesisConfigured() bool {
	return c.ElevenLabsAPIKey != "" && c.ElevenLabsAPIKey != ElevenLabsKeyPlaceholder
}
