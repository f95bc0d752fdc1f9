package domain

// Config mirrors ~/.vibe/config.json.
type Config struct {
	OpenRouter OpenRouterSettings `json:"openrouter" yaml:"openrouter"`
	Core       CoreSettings       `json:"core" yaml:"core"`
	Security   SecuritySettings   `json:"security,omitempty" yaml:"security,omitempty"`
}

// OpenRouterSettings captures provider credentials and model choices.
type OpenRouterSettings struct {
	APIKey        string      `json:"apiKey,omitempty" yaml:"apiKey,omitempty"`
	DefaultModel  string      `json:"defaultModel,omitempty" yaml:"defaultModel,omitempty"`
	TopFreeModels []FreeModel `json:"topFreeModels,omitempty" yaml:"topFreeModels,omitempty"`
	BaseURL       string      `json:"baseUrl,omitempty" yaml:"baseUrl,omitempty"`
}

// CoreSettings captures user level toggles.
type CoreSettings struct {
	Theme            string `json:"theme,omitempty" yaml:"theme,omitempty"`
	Autonomous       bool   `json:"autonomous" yaml:"autonomous"`
	RateLimitBackoff int    `json:"rateLimitBackoff,omitempty" yaml:"rateLimitBackoff,omitempty"`
	TransportRetries int    `json:"transportRetries,omitempty" yaml:"transportRetries,omitempty"`
}

// SecuritySettings defines the edit path guard behavior.
type SecuritySettings struct {
	RulesFile string `json:"rulesFile,omitempty" yaml:"rulesFile,omitempty"`
}
