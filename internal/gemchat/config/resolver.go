package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// expandEnvVar expands environment variable references in the given value
// Supports both $VAR and ${VAR} syntax
// Returns the expanded value. If the environment variable is not set, returns empty string.
func expandEnvVar(value string) (string, error) {
	// Check if it's an environment variable reference
	if !strings.HasPrefix(value, "$") {
		return value, nil
	}

	var envVarName string
	// Support both $VAR and ${VAR} syntax
	if strings.HasPrefix(value, "${") {
		if !strings.HasSuffix(value, "}") {
			return "", fmt.Errorf("unterminated variable reference: %s", value)
		}
		envVarName = value[2 : len(value)-1]
	} else {
		envVarName = strings.TrimPrefix(value, "$")
	}

	if envVarName == "" {
		return "", fmt.Errorf("empty variable reference: %s", value)
	}

	return os.Getenv(envVarName), nil
}

// GetBaseURL returns the base URL for the specified provider
// Environment variables are already expanded during Load()
func (c *Config) GetBaseURL(provider string) (string, error) {
	if provider != "gemini" {
		return "", fmt.Errorf("unsupported provider: %s", provider)
	}

	if c.GeminiBaseURL == "" {
		return "", fmt.Errorf("%s base URL is not configured. Set it in config file (%s_base_url) or environment variable (GEMCHAT_%s_BASE_URL)", provider, provider, strings.ToUpper(provider))
	}

	return c.GeminiBaseURL, nil
}

// GetToken returns the token for the specified provider
// Environment variables are already expanded during Load()
func (c *Config) GetToken(provider string) (string, error) {
	if provider != "gemini" {
		return "", fmt.Errorf("unsupported provider: %s", provider)
	}

	if c.GeminiToken == "" {
		return "", fmt.Errorf("%s token is not configured. Set GEMINI_API_KEY, the config file (%s_token) or environment variable (GEMCHAT_%s_TOKEN)", provider, provider, strings.ToUpper(provider))
	}

	return c.GeminiToken, nil
}

// ResolvePath converts a relative path to absolute path if needed.
// Relative paths are resolved against the directory of the config file in
// use, or the working directory when there is none.
func ResolvePath(v *viper.Viper, path string) (string, error) {
	if filepath.IsAbs(path) {
		return path, nil
	}

	configFile := v.ConfigFileUsed()
	if configFile == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("error getting current working directory: %v", err)
		}
		return filepath.Join(cwd, path), nil
	}

	configDir := filepath.Dir(configFile)
	if !filepath.IsAbs(configDir) {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("error getting current working directory: %v", err)
		}
		configDir = filepath.Join(cwd, configDir)
	}

	return filepath.Join(configDir, path), nil
}
