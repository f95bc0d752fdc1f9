package domain

import (
	"fmt"
	"strings"
	"time"
)

// Rich domain model: configuration lookups and mutations live on the entity
// so commands and services share one set of defaults.

// Theme names accepted by `vibe theme set`.
const (
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// DefaultModelID returns the configured default model or the built-in default.
func (c *Config) DefaultModelID() string {
	if model := strings.TrimSpace(c.OpenRouter.DefaultModel); model != "" {
		return model
	}
	return DefaultModelID
}

// FreeModels returns the configured free-model list, falling back to the
// built-in catalogue when none is configured.
func (c *Config) FreeModels() []FreeModel {
	if len(c.OpenRouter.TopFreeModels) == 0 {
		return DefaultFreeModels()
	}
	models := make([]FreeModel, len(c.OpenRouter.TopFreeModels))
	copy(models, c.OpenRouter.TopFreeModels)
	return models
}

// FreeModelIDs returns the ids of FreeModels in order.
func (c *Config) FreeModelIDs() []string {
	models := c.FreeModels()
	ids := make([]string, 0, len(models))
	for _, model := range models {
		ids = append(ids, model.ID)
	}
	return ids
}

// FindFreeModel searches the free-model list by id.
func (c *Config) FindFreeModel(id string) (FreeModel, bool) {
	for _, model := range c.FreeModels() {
		if model.ID == id {
			return model, true
		}
	}
	return FreeModel{}, false
}

// HasFreeModel reports whether id is part of the free-model list.
func (c *Config) HasFreeModel(id string) bool {
	_, ok := c.FindFreeModel(id)
	return ok
}

// SetDefaultModel changes the default model.
// Returns an error if the model is not in the free-model list.
func (c *Config) SetDefaultModel(id string) error {
	id = strings.TrimSpace(id)
	if !c.HasFreeModel(id) {
		return fmt.Errorf("%w: %s", ErrUnknownModel, id)
	}
	c.OpenRouter.DefaultModel = id
	return nil
}

// StoredAPIKey returns the API key persisted in the config file, trimmed.
func (c *Config) StoredAPIKey() string {
	return strings.TrimSpace(c.OpenRouter.APIKey)
}

// SetAPIKey stores the key in the config.
func (c *Config) SetAPIKey(key string) {
	c.OpenRouter.APIKey = strings.TrimSpace(key)
}

// RateLimitBackoff returns the pause applied after a 429 response.
func (c *Config) RateLimitBackoff() time.Duration {
	const defaultBackoffMS = 5000

	if c.Core.RateLimitBackoff <= 0 {
		return defaultBackoffMS * time.Millisecond
	}
	return time.Duration(c.Core.RateLimitBackoff) * time.Millisecond
}

// TransportRetries returns how often a request is resent after a connection failure.
func (c *Config) TransportRetries() int {
	if c.Core.TransportRetries < 0 {
		return 0
	}
	return c.Core.TransportRetries
}

// ThemeName returns the configured theme, dark when unset.
func (c *Config) ThemeName() string {
	if c.Core.Theme == "" {
		return ThemeDark
	}
	return c.Core.Theme
}

// SetTheme validates and stores the theme.
func (c *Config) SetTheme(theme string) error {
	theme = strings.ToLower(strings.TrimSpace(theme))
	switch theme {
	case ThemeDark, ThemeLight:
		c.Core.Theme = theme
		return nil
	default:
		return fmt.Errorf("%w: %s (use dark or light)", ErrInvalidTheme, theme)
	}
}

// WithDefaults returns a copy with every unset field filled in.
func (c Config) WithDefaults() Config {
	if c.OpenRouter.DefaultModel == "" {
		c.OpenRouter.DefaultModel = DefaultModelID
	}
	if len(c.OpenRouter.TopFreeModels) == 0 {
		c.OpenRouter.TopFreeModels = DefaultFreeModels()
	}
	if c.Core.Theme == "" {
		c.Core.Theme = ThemeDark
	}
	if c.Core.RateLimitBackoff == 0 {
		c.Core.RateLimitBackoff = int(c.RateLimitBackoff() / time.Millisecond)
	}
	return c
}
