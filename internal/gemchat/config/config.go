package config

import (
	"fmt"
	"time"

	"github.com/longkey1/gemchat/internal/gemchat"
	"github.com/spf13/viper"
)

// Transport names accepted by the transport setting.
const (
	TransportHTTP = "http"
	TransportSDK  = "sdk"
)

// Config holds the configuration for gemchat
type Config struct {
	Model                   string        `toml:"model" mapstructure:"model"` // Format: "provider:model" (e.g., "gemini:gemini-2.5-flash")
	GeminiBaseURL           string        `toml:"gemini_base_url" mapstructure:"gemini_base_url"`
	GeminiToken             string        `toml:"gemini_token" mapstructure:"gemini_token"`
	Transport               string        `toml:"transport" mapstructure:"transport"`             // "http" or "sdk"
	RequestTimeout          time.Duration `toml:"request_timeout" mapstructure:"request_timeout"` // 0 = no limit
	Markdown                bool          `toml:"markdown" mapstructure:"markdown"`
	WordWrap                int           `toml:"word_wrap" mapstructure:"word_wrap"`
	PromptDirs              []string      `toml:"prompt_dirs" mapstructure:"prompt_dirs"`
	SessionMessageThreshold int           `toml:"session_message_threshold" mapstructure:"session_message_threshold"` // 0 = disabled
	SessionRetentionDays    int           `toml:"session_retention_days" mapstructure:"session_retention_days"`       // Number of days to retain sessions (default: 30)
}

// GetModel returns the model name
func (c *Config) GetModel() string {
	return c.Model
}

// GetProvider extracts provider name from the model string
func (c *Config) GetProvider() (string, error) {
	provider, _, err := gemchat.ParseModelString(c.Model)
	return provider, err
}

// GetModelName extracts model name from the model string
func (c *Config) GetModelName() (string, error) {
	_, model, err := gemchat.ParseModelString(c.Model)
	return model, err
}

// NewDefaultConfig returns a new Config with default values
func NewDefaultConfig(promptDir string) *Config {
	return &Config{
		Model:                   "gemini:gemini-2.5-flash",
		GeminiBaseURL:           "https://generativelanguage.googleapis.com/v1beta",
		GeminiToken:             "$GEMINI_API_KEY", // Default to env var
		Transport:               TransportHTTP,
		RequestTimeout:          60 * time.Second,
		Markdown:                true,
		WordWrap:                80,
		PromptDirs:              []string{promptDir},
		SessionMessageThreshold: 50, // Default threshold (0 = disabled)
		SessionRetentionDays:    30, // Default: delete sessions older than 30 days
	}
}

// SetDefaults registers the defaults of cfg with v.
func SetDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("model", cfg.Model)
	v.SetDefault("gemini_base_url", cfg.GeminiBaseURL)
	v.SetDefault("gemini_token", cfg.GeminiToken)
	v.SetDefault("transport", cfg.Transport)
	v.SetDefault("request_timeout", cfg.RequestTimeout)
	v.SetDefault("markdown", cfg.Markdown)
	v.SetDefault("word_wrap", cfg.WordWrap)
	v.SetDefault("prompt_dirs", cfg.PromptDirs)
	v.SetDefault("session_message_threshold", cfg.SessionMessageThreshold)
	v.SetDefault("session_retention_days", cfg.SessionRetentionDays)
}

// LoadConfig loads configuration from the global viper instance
func LoadConfig() (*Config, error) {
	return Load(viper.GetViper())
}

// Load unmarshals v into a Config, expands environment references in the
// token and base URL, and resolves prompt directories to absolute paths.
func Load(v *viper.Viper) (*Config, error) {
	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %v", err)
	}

	var err error
	if config.GeminiToken, err = expandEnvVar(config.GeminiToken); err != nil {
		return nil, fmt.Errorf("error expanding gemini_token: %w", err)
	}
	if config.GeminiBaseURL, err = expandEnvVar(config.GeminiBaseURL); err != nil {
		return nil, fmt.Errorf("error expanding gemini_base_url: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Convert prompt directories to absolute paths
	for i, promptDir := range config.PromptDirs {
		absPath, err := ResolvePath(v, promptDir)
		if err != nil {
			return nil, fmt.Errorf("error resolving prompt directory path '%s': %v", promptDir, err)
		}
		config.PromptDirs[i] = absPath
	}

	return config, nil
}

// Validate checks the settings that cannot be fixed up at call time.
func (c *Config) Validate() error {
	provider, _, err := gemchat.ParseModelString(c.Model)
	if err != nil {
		return fmt.Errorf("invalid model: %w", err)
	}
	if provider != "gemini" {
		return fmt.Errorf("unsupported provider: %s (only gemini is supported)", provider)
	}
	switch c.Transport {
	case TransportHTTP, TransportSDK:
	default:
		return fmt.Errorf("unsupported transport: %q (expected %q or %q)", c.Transport, TransportHTTP, TransportSDK)
	}
	if c.RequestTimeout < 0 {
		return fmt.Errorf("request_timeout must not be negative")
	}
	return nil
}
