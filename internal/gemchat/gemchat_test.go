package gemchat

import "testing"

func TestParseModelString(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		wantProvider string
		wantModel    string
		wantErr      bool
	}{
		{
			name:         "valid gemini model",
			input:        "gemini:gemini-2.5-flash",
			wantProvider: "gemini",
			wantModel:    "gemini-2.5-flash",
			wantErr:      false,
		},
		{
			name:         "model with colon",
			input:        "gemini:tunedModels/foo:bar",
			wantProvider: "gemini",
			wantModel:    "tunedModels/foo:bar",
			wantErr:      false,
		},
		{
			name:         "with whitespace",
			input:        " gemini : gemini-2.5-pro ",
			wantProvider: "gemini",
			wantModel:    "gemini-2.5-pro",
			wantErr:      false,
		},
		{
			name:    "missing colon",
			input:   "gemini-2.5-flash",
			wantErr: true,
		},
		{
			name:    "empty provider",
			input:   ":gemini-2.5-flash",
			wantErr: true,
		},
		{
			name:    "empty model",
			input:   "gemini:",
			wantErr: true,
		},
		{
			name:    "empty string",
			input:   "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, model, err := ParseModelString(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseModelString() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if provider != tt.wantProvider {
				t.Errorf("ParseModelString() provider = %v, want %v", provider, tt.wantProvider)
			}
			if model != tt.wantModel {
				t.Errorf("ParseModelString() model = %v, want %v", model, tt.wantModel)
			}
		})
	}
}

func TestFormatModelString(t *testing.T) {
	if got := FormatModelString("gemini", "gemini-2.5-flash"); got != "gemini:gemini-2.5-flash" {
		t.Errorf("FormatModelString() = %q", got)
	}
}

func TestOutcomeDisplayLine(t *testing.T) {
	tests := []struct {
		outcome Outcome
		want    string
	}{
		{Outcome{Kind: APIKeyMissing}, "API key not set"},
		{Outcome{Kind: TransportError, Detail: "dial tcp: connection refused"}, "dial tcp: connection refused"},
		{Outcome{Kind: ParseError, Detail: "unexpected end of JSON input"}, "API result parsing error: unexpected end of JSON input"},
		{Outcome{Kind: APIError, Detail: "quota exceeded"}, "API error: quota exceeded"},
		{Outcome{Kind: PromptBlocked, Detail: "HARM_CATEGORY_HARASSMENT"}, "Prompt blocked: HARM_CATEGORY_HARASSMENT"},
		{Outcome{Kind: EmptyResponse}, "No response from model"},
		{Outcome{Kind: EmptyResponse, Detail: "finish reason: MAX_TOKENS"}, "No response from model (finish reason: MAX_TOKENS)"},
		{Outcome{Kind: Response, Detail: "**hello**"}, "**hello**"},
	}

	for _, tt := range tests {
		t.Run(tt.outcome.Kind.String(), func(t *testing.T) {
			if got := tt.outcome.DisplayLine(); got != tt.want {
				t.Errorf("DisplayLine() = %q, want %q", got, tt.want)
			}
		})
	}
}
