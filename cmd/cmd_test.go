package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/longkey1/gemchat/internal/gemchat"
	"github.com/longkey1/gemchat/internal/gemchat/config"
	"github.com/longkey1/gemchat/internal/gemchat/session"
	"github.com/longkey1/gemchat/internal/version"
)

func TestMaskToken(t *testing.T) {
	tests := []struct {
		token string
		want  string
	}{
		{"", "(not set)"},
		{"short", "********"},
		{"AIzaSyExampleKey1234", "AIza...1234"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, maskToken(tt.token), tt.token)
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		input   string
		want    time.Time
		wantErr bool
	}{
		{"2024-03-15", time.Date(2024, 3, 15, 0, 0, 0, 0, time.Local), false},
		{"2024-12", time.Date(2024, 12, 1, 0, 0, 0, 0, time.Local), false},
		{"2024", time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local), false},
		{"15/03/2024", time.Time{}, true},
		{"", time.Time{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseDate(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %v", got)
		})
	}
}

func TestRetentionCutoffAndCount(t *testing.T) {
	now := time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC)
	cutoff := retentionCutoff(now, 30)
	assert.Equal(t, time.Date(2025, 5, 31, 12, 0, 0, 0, time.UTC), cutoff)

	sessions := []session.Session{
		{UpdatedAt: now.AddDate(0, 0, -40)},
		{UpdatedAt: now.AddDate(0, 0, -31)},
		{UpdatedAt: now.AddDate(0, 0, -1)},
	}
	assert.Equal(t, 2, countBefore(sessions, cutoff))
}

func TestRecordExchange(t *testing.T) {
	gen := gemchat.GeneratorFunc(func(ctx context.Context, history []gemchat.Turn) gemchat.Outcome {
		return gemchat.Outcome{Kind: gemchat.PromptBlocked, Detail: "HARM_CATEGORY_HARASSMENT"}
	})

	sess := session.NewSession("gemini:gemini-2.5-flash")
	sess.AddTurn(gemchat.Turn{Role: gemchat.RoleUser, Content: "earlier"}, 0)
	sess.AddTurn(gemchat.Turn{Role: gemchat.RoleModel, Content: "reply"}, gemchat.Response)

	conv := gemchat.NewConversation(gen, sess.Turns())
	outcome, err := conv.Submit(context.Background(), "now")
	require.NoError(t, err)

	recordExchange(sess, conv, outcome)

	require.Equal(t, 4, sess.MessageCount())
	assert.Equal(t, "now", sess.Messages[2].Content)
	assert.Equal(t, "", sess.Messages[2].Outcome)
	assert.Equal(t, gemchat.RoleModel, sess.Messages[3].Role)
	assert.Equal(t, "Prompt blocked: HARM_CATEGORY_HARASSMENT", sess.Messages[3].Content)
	assert.Equal(t, "prompt_blocked", sess.Messages[3].Outcome)
}

func TestWriteDefaultConfig_LoadsBack(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "from-env")
	dir := t.TempDir()
	configFile := filepath.Join(dir, "gemchat", "config.toml")
	promptsDir := filepath.Join(dir, "gemchat", "prompts")

	require.NoError(t, writeDefaultConfig(configFile, promptsDir))
	assert.DirExists(t, promptsDir)

	v := viper.New()
	v.SetConfigFile(configFile)
	require.NoError(t, v.ReadInConfig())

	cfg, err := config.Load(v)
	require.NoError(t, err)
	assert.Equal(t, "gemini:gemini-2.5-flash", cfg.Model)
	assert.Equal(t, "from-env", cfg.GeminiToken)
	assert.Equal(t, config.TransportHTTP, cfg.Transport)
	assert.Equal(t, 60*time.Second, cfg.RequestTimeout)
	assert.Equal(t, []string{promptsDir}, cfg.PromptDirs)

	err = writeDefaultConfig(configFile, promptsDir)
	assert.ErrorContains(t, err, "already exists")
}

func TestConfigField(t *testing.T) {
	cfg := config.NewDefaultConfig("/tmp/prompts")
	cfg.GeminiToken = "AIzaSyExampleKey1234"

	got, ok := configField(cfg, "GEMINI_TOKEN")
	require.True(t, ok)
	assert.Equal(t, "AIza...1234", got)

	got, ok = configField(cfg, "request_timeout")
	require.True(t, ok)
	assert.Equal(t, "1m0s", got)

	_, ok = configField(cfg, "openai_token")
	assert.False(t, ok)

	for _, field := range configFields {
		_, ok := configField(cfg, field)
		assert.True(t, ok, field)
	}
}

func TestNewProvider_RejectsUnknownTransport(t *testing.T) {
	cfg := config.NewDefaultConfig("/tmp/prompts")
	cfg.Transport = "grpc"
	_, err := newProvider(cfg)
	assert.Error(t, err)

	cfg.Transport = config.TransportSDK
	_, err = newProvider(cfg)
	assert.NoError(t, err)
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestStartSpinner_StopWaitsForClear(t *testing.T) {
	var out syncBuffer
	stop := startSpinner(&out)
	time.Sleep(100 * time.Millisecond)
	stop()

	got := out.String()
	assert.Contains(t, got, "Waiting for response...")
	assert.True(t, strings.HasSuffix(got, "\r\033[K"), "line not cleared: %q", got)

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, got, out.String(), "spinner wrote after stop returned")
}

func TestStartSpinner_ImmediateStop(t *testing.T) {
	var out syncBuffer
	startSpinner(&out)()
	assert.True(t, strings.HasSuffix(out.String(), "\r\033[K"))
}

func TestPrintSessionHint(t *testing.T) {
	store := session.NewStore(t.TempDir())
	sess := session.NewSession("gemini:gemini-2.5-flash")

	var out bytes.Buffer
	printSessionHint(&out, store, sess)

	got := out.String()
	assert.Contains(t, got, "Session created: "+sess.GetShortID())
	assert.Contains(t, got, store.Path(sess.ID))
	assert.Contains(t, got, "gemchat chat -s "+sess.GetShortID())
	assert.Contains(t, got, "gemchat sessions start "+sess.GetShortID())
}

func TestPrintVersion(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, printVersion(&out, true, false))
	assert.Equal(t, version.Short()+"\n", out.String())

	out.Reset()
	require.NoError(t, printVersion(&out, false, false))
	assert.Equal(t, version.Info()+"\n", out.String())

	out.Reset()
	require.NoError(t, printVersion(&out, false, true))
	var info version.BuildInfo
	require.NoError(t, json.Unmarshal(out.Bytes(), &info))
	assert.Equal(t, version.Get(), info)
}
