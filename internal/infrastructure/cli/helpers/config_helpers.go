package helpers

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/doeshing/vibe-go/internal/app"
	configapp "github.com/doeshing/vibe-go/internal/application/config"
	"github.com/doeshing/vibe-go/internal/domain"
	configinfra "github.com/doeshing/vibe-go/internal/infrastructure/config"
)

// GetConfigLoader extracts the config loader from container with error handling
func GetConfigLoader(container *app.Container) (*configinfra.FileLoader, error) {
	if container.ConfigLoader == nil {
		return nil, fmt.Errorf("config loader unavailable")
	}
	return container.ConfigLoader, nil
}

// SaveConfigWithValidation validates and saves configuration. The loader
// keeps the previous file as config.json.bak.
func SaveConfigWithValidation(container *app.Container, cfg domain.Config) error {
	loader, err := GetConfigLoader(container)
	if err != nil {
		return err
	}

	if err := configapp.Validate(cfg); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	if err := loader.Save(cfg); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}
	return nil
}

// ParseYAMLValue parses a string value as YAML, falling back to literal string
func ParseYAMLValue(input string) (interface{}, error) {
	var parsed interface{}
	if err := yaml.Unmarshal([]byte(input), &parsed); err != nil {
		return input, nil
	}
	if parsed == nil && strings.TrimSpace(input) != "null" && strings.TrimSpace(input) != "~" {
		return input, nil
	}
	return parsed, nil
}

// SetNestedMapValue sets a value in a nested map using a key path.
// Returns false for an empty path.
func SetNestedMapValue(root map[string]interface{}, keyPath []string, value interface{}) bool {
	if len(keyPath) == 0 {
		return false
	}

	current := root
	for i := 0; i < len(keyPath)-1; i++ {
		key := keyPath[i]
		next, exists := current[key]

		if !exists {
			newChild := map[string]interface{}{}
			current[key] = newChild
			current = newChild
			continue
		}

		child, isMap := next.(map[string]interface{})
		if !isMap {
			child = map[string]interface{}{}
			current[key] = child
		}
		current = child
	}

	current[keyPath[len(keyPath)-1]] = value
	return true
}

// TraverseNestedMap retrieves a value from a nested map using a key path.
// Numeric segments index into lists, so topFreeModels.0.id works.
func TraverseNestedMap(data interface{}, keyPath []string) (interface{}, bool) {
	if len(keyPath) == 0 {
		return data, true
	}

	switch node := data.(type) {
	case map[string]interface{}:
		next, exists := node[keyPath[0]]
		if !exists {
			return nil, false
		}
		return TraverseNestedMap(next, keyPath[1:])
	case []interface{}:
		var idx int
		if _, err := fmt.Sscanf(keyPath[0], "%d", &idx); err != nil || idx < 0 || idx >= len(node) {
			return nil, false
		}
		return TraverseNestedMap(node[idx], keyPath[1:])
	default:
		return nil, false
	}
}

// SplitKeyPath splits a dotted key such as openrouter.defaultModel.
func SplitKeyPath(keyPath string) []string {
	var keys []string
	for _, key := range strings.Split(keyPath, ".") {
		if key = strings.TrimSpace(key); key != "" {
			keys = append(keys, key)
		}
	}
	return keys
}

// ConfigToMap converts domain.Config to a generic map using its JSON field names.
func ConfigToMap(cfg domain.Config) (map[string]interface{}, error) {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}

	var generic map[string]interface{}
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, fmt.Errorf("failed to unmarshal to generic map: %w", err)
	}
	return generic, nil
}

// MapToConfig converts a generic map back to domain.Config.
func MapToConfig(cfgMap map[string]interface{}) (domain.Config, error) {
	raw, err := json.Marshal(cfgMap)
	if err != nil {
		return domain.Config{}, fmt.Errorf("failed to marshal updated map: %w", err)
	}

	var updated domain.Config
	if err := json.Unmarshal(raw, &updated); err != nil {
		return domain.Config{}, fmt.Errorf("failed to unmarshal to Config: %w", err)
	}
	return updated, nil
}

// SetConfigValue applies a YAML-typed value at a dotted key path.
func SetConfigValue(cfg domain.Config, keyPath, value string) (domain.Config, error) {
	keys := SplitKeyPath(keyPath)
	if len(keys) == 0 {
		return domain.Config{}, fmt.Errorf("key path is required")
	}

	cfgMap, err := ConfigToMap(cfg)
	if err != nil {
		return domain.Config{}, err
	}

	parsedValue, err := ParseYAMLValue(value)
	if err != nil {
		return domain.Config{}, fmt.Errorf("failed to parse value: %w", err)
	}
	if !SetNestedMapValue(cfgMap, keys, normalizeYAML(parsedValue)) {
		return domain.Config{}, fmt.Errorf("unable to set key %s", keyPath)
	}

	updated, err := MapToConfig(cfgMap)
	if err != nil {
		return domain.Config{}, fmt.Errorf("unable to set key %s: %w", keyPath, err)
	}
	return updated, nil
}

// GetConfigValue returns the value at a dotted key path.
func GetConfigValue(cfg domain.Config, keyPath string) (interface{}, error) {
	cfgMap, err := ConfigToMap(cfg)
	if err != nil {
		return nil, err
	}
	value, found := TraverseNestedMap(cfgMap, SplitKeyPath(keyPath))
	if !found {
		return nil, fmt.Errorf("key %s not found in configuration", keyPath)
	}
	return value, nil
}

// normalizeYAML turns map[interface{}]interface{} nodes into JSON-friendly maps.
func normalizeYAML(value interface{}) interface{} {
	switch v := value.(type) {
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(v))
		for key, item := range v {
			out[fmt.Sprint(key)] = normalizeYAML(item)
		}
		return out
	case map[string]interface{}:
		for key, item := range v {
			v[key] = normalizeYAML(item)
		}
		return v
	case []interface{}:
		for i, item := range v {
			v[i] = normalizeYAML(item)
		}
		return v
	default:
		return v
	}
}
