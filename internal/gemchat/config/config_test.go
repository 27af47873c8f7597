package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper(t *testing.T) *viper.Viper {
	t.Helper()
	v := viper.New()
	SetDefaults(v, NewDefaultConfig("prompts"))
	return v
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "from-env")

	cfg, err := Load(newViper(t))
	require.NoError(t, err)

	assert.Equal(t, "gemini:gemini-2.5-flash", cfg.Model)
	assert.Equal(t, "from-env", cfg.GeminiToken)
	assert.Equal(t, TransportHTTP, cfg.Transport)
	assert.Equal(t, 60*time.Second, cfg.RequestTimeout)
	assert.True(t, cfg.Markdown)
	require.Len(t, cfg.PromptDirs, 1)
	assert.True(t, filepath.IsAbs(cfg.PromptDirs[0]))
}

func TestLoad_UnsetTokenIsEmpty(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	cfg, err := Load(newViper(t))
	require.NoError(t, err)

	_, err = cfg.GetToken("gemini")
	assert.Error(t, err)
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(file, []byte(`
model = "gemini:gemini-2.5-pro"
gemini_token = "${MY_GEMINI_KEY}"
transport = "sdk"
request_timeout = "15s"
markdown = false
prompt_dirs = ["templates"]
`), 0644))
	t.Setenv("MY_GEMINI_KEY", "braced")

	v := newViper(t)
	v.SetConfigFile(file)
	require.NoError(t, v.ReadInConfig())

	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "gemini:gemini-2.5-pro", cfg.Model)
	assert.Equal(t, "braced", cfg.GeminiToken)
	assert.Equal(t, TransportSDK, cfg.Transport)
	assert.Equal(t, 15*time.Second, cfg.RequestTimeout)
	assert.False(t, cfg.Markdown)
	assert.Equal(t, []string{filepath.Join(dir, "templates")}, cfg.PromptDirs)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value any
	}{
		{"model without provider", "model", "gemini-2.5-flash"},
		{"other provider", "model", "openai:gpt-4"},
		{"unknown transport", "transport", "grpc"},
		{"negative timeout", "request_timeout", "-1s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newViper(t)
			v.Set(tt.key, tt.value)
			_, err := Load(v)
			assert.Error(t, err)
		})
	}
}

func TestExpandEnvVar(t *testing.T) {
	t.Setenv("GEMCHAT_TEST_VAR", "value")

	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"literal", "literal", false},
		{"$GEMCHAT_TEST_VAR", "value", false},
		{"${GEMCHAT_TEST_VAR}", "value", false},
		{"$GEMCHAT_TEST_UNSET", "", false},
		{"${GEMCHAT_TEST_VAR", "", true},
		{"$", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := expandEnvVar(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetBaseURL(t *testing.T) {
	cfg := &Config{GeminiBaseURL: "https://example.test/v1beta"}

	got, err := cfg.GetBaseURL("gemini")
	require.NoError(t, err)
	assert.Equal(t, "https://example.test/v1beta", got)

	_, err = cfg.GetBaseURL("openai")
	assert.Error(t, err)

	_, err = (&Config{}).GetBaseURL("gemini")
	assert.Error(t, err)
}
