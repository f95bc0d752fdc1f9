package config

import (
	"strings"

	"github.com/caarlos0/env/v9"
)

// Env holds the environment overrides read at startup.
type Env struct {
	APIKey       string `env:"OPENROUTER_API_KEY"`
	LegacyAPIKey string `env:"OPENROUTER_KEY"`
	ConfigPath   string `env:"VIBE_CONFIG"`
	Debug        bool   `env:"VIBE_DEBUG"`
	BaseURL      string `env:"VIBE_OPENROUTER_BASE_URL"`
}

// LoadEnv parses the process environment. On error the fields that did
// parse are still returned.
func LoadEnv() (Env, error) {
	return parseEnv(nil)
}

func parseEnv(environ map[string]string) (Env, error) {
	var e Env
	err := env.ParseWithOptions(&e, env.Options{Environment: environ})
	return e, err
}

// OpenRouterKey returns OPENROUTER_API_KEY, else OPENROUTER_KEY, trimmed.
func (e Env) OpenRouterKey() string {
	if key := strings.TrimSpace(e.APIKey); key != "" {
		return key
	}
	return strings.TrimSpace(e.LegacyAPIKey)
}
