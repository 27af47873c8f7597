package render

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/longkey1/gemchat/internal/gemchat"
)

func TestOutcome_Plain(t *testing.T) {
	tests := []struct {
		name    string
		outcome gemchat.Outcome
		want    string
	}{
		{"response", gemchat.Outcome{Kind: gemchat.Response, Detail: "**hi**"}, "**hi**\n"},
		{"response keeps newline", gemchat.Outcome{Kind: gemchat.Response, Detail: "a\n"}, "a\n"},
		{"missing key", gemchat.Outcome{Kind: gemchat.APIKeyMissing}, "API key not set\n"},
		{"blocked", gemchat.Outcome{Kind: gemchat.PromptBlocked, Detail: "HARM_CATEGORY_HATE_SPEECH"}, "Prompt blocked: HARM_CATEGORY_HATE_SPEECH\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			New(&buf, Options{}).Outcome(tt.outcome)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestOutcome_FailureSkipsMarkdown(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, Options{Markdown: true, WordWrap: 80})
	r.Outcome(gemchat.Outcome{Kind: gemchat.APIError, Detail: "**quota**"})
	assert.Equal(t, "API error: **quota**\n", buf.String())
}

func TestMarkdown_Renders(t *testing.T) {
	r := New(&bytes.Buffer{}, Options{Markdown: true, WordWrap: 80})
	got := r.Markdown("# Title\n\nbody")
	assert.Contains(t, got, "Title")
	assert.Contains(t, got, "body")
}

func TestTurn_Labels(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, Options{})
	r.Turn(gemchat.Turn{Role: gemchat.RoleUser, Content: "hello"})
	r.Turn(gemchat.Turn{Role: gemchat.RoleModel, Content: "hi there"})
	assert.Equal(t, "You>\nhello\n\nModel>\nhi there\n\n", buf.String())
}

func TestLabel_Unknown(t *testing.T) {
	assert.Equal(t, "system>", New(&bytes.Buffer{}, Options{}).Label("system"))
}
