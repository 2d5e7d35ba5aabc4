package config

// AIModels defines which Gemini models to use for different tasks
type AIModels struct {
	// Report writes the narrative paragraph for a finished fusion round (quality over speed)
	Report string `mapstructure:"report" json:"report"`

	// Dialogue drives the screening conversation (needs to be fast)
	Dialogue string `mapstructure:"dialogue" json:"dialogue"`
}

// AIConfig holds the narrative generator configuration
type AIConfig struct {
	Provider  string   `mapstructure:"provider" json:"provider"` // "gemini" or "mock"
	APIKey    string   `mapstructure:"api_key" json:"-"`         // Never serialize
	BaseURL   string   `mapstructure:"base_url" json:"baseUrl"`
	Models    AIModels `mapstructure:"models" json:"models"`
	TimeoutMS int      `mapstructure:"timeout_ms" json:"timeoutMs"`
}

// IsEnabled returns true if the AI API is configured
func (c *AIConfig) IsEnabled() bool {
	return c.APIKey != ""
}

// IsMock reports whether the deterministic offline generator was selected
func (c *AIConfig) IsMock() bool {
	return c.Provider == "mock"
}

// ModelEndpoint returns the full endpoint for a given model
func (c *AIConfig) ModelEndpoint(model string) string {
	return c.BaseURL + "/" + model + ":generateContent"
}
