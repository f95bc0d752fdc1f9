package config

import (
	"fmt"
	"strings"

	"github.com/doeshing/vibe-go/internal/domain"
)

// MaxTransportRetries bounds core.transportRetries.
const MaxTransportRetries = 5

// Validate ensures config structure is consistent.
func Validate(cfg domain.Config) error {
	if err := validateOpenRouter(cfg.OpenRouter); err != nil {
		return err
	}
	return validateCore(cfg.Core)
}

func validateOpenRouter(settings domain.OpenRouterSettings) error {
	seen := make(map[string]bool, len(settings.TopFreeModels))
	for i, model := range settings.TopFreeModels {
		id := strings.TrimSpace(model.ID)
		if id == "" {
			return fmt.Errorf("openrouter.topFreeModels[%d].id must be set", i)
		}
		if seen[id] {
			return fmt.Errorf("openrouter.topFreeModels contains %s twice", id)
		}
		seen[id] = true
		if model.Ctx < 0 {
			return fmt.Errorf("openrouter.topFreeModels[%d].ctx must be >= 0", i)
		}
	}
	if settings.DefaultModel != "" && strings.TrimSpace(settings.DefaultModel) == "" {
		return fmt.Errorf("openrouter.defaultModel must not be blank")
	}
	if url := settings.BaseURL; url != "" && !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return fmt.Errorf("openrouter.baseUrl must be an http(s) URL, got %s", url)
	}
	return nil
}

func validateCore(core domain.CoreSettings) error {
	switch core.Theme {
	case "", domain.ThemeDark, domain.ThemeLight:
	default:
		return fmt.Errorf("core.theme must be dark|light, got %s", core.Theme)
	}
	if core.RateLimitBackoff < 0 {
		return fmt.Errorf("core.rateLimitBackoff must be >= 0")
	}
	if core.TransportRetries < 0 || core.TransportRetries > MaxTransportRetries {
		return fmt.Errorf("core.transportRetries must be between 0 and %d", MaxTransportRetries)
	}
	return nil
}
