// Package gemchat provides the core conversation types for gemchat.
// It defines the Turn and Outcome values exchanged between the conversation
// surface and the Gemini client, and the Generator interface the client
// implements.
package gemchat

import (
	"context"
	"fmt"
	"strings"
)

// Roles used in conversation turns.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// Turn represents one message in a conversation.
type Turn struct {
	Role    string `json:"role"`    // "user" or "model"
	Content string `json:"content"` // Message content
}

// OutcomeKind identifies which variant an Outcome is.
type OutcomeKind int

const (
	// APIKeyMissing means no credential was resolved, so no call was made.
	APIKeyMissing OutcomeKind = iota + 1
	// TransportError means the HTTP call itself failed.
	TransportError
	// ParseError means the response body could not be decoded.
	ParseError
	// APIError means the service reported an error object.
	APIError
	// PromptBlocked means a safety rating blocked a candidate.
	PromptBlocked
	// EmptyResponse means the response was well formed but carried no text.
	EmptyResponse
	// Response means the model produced text.
	Response
)

var outcomeKindNames = map[OutcomeKind]string{
	APIKeyMissing:  "api_key_missing",
	TransportError: "transport_error",
	ParseError:     "parse_error",
	APIError:       "api_error",
	PromptBlocked:  "prompt_blocked",
	EmptyResponse:  "empty_response",
	Response:       "response",
}

func (k OutcomeKind) String() string {
	if name, ok := outcomeKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("outcome(%d)", int(k))
}

// Outcome is the single result of one chat turn.
//
// Detail carries the variant payload: the failure description for
// TransportError, ParseError and APIError, the harm category for
// PromptBlocked, the text for Response, and an optional diagnostic for
// EmptyResponse. It is empty for APIKeyMissing.
type Outcome struct {
	Kind   OutcomeKind
	Detail string
}

// Generator produces one Outcome for a conversation snapshot.
// Implementations must not retain or modify history.
type Generator interface {
	Generate(ctx context.Context, history []Turn) Outcome
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func(ctx context.Context, history []Turn) Outcome

// Generate calls f(ctx, history).
func (f GeneratorFunc) Generate(ctx context.Context, history []Turn) Outcome {
	return f(ctx, history)
}

// DisplayLine returns the human-readable line appended to the conversation
// as the model turn for o.
func (o Outcome) DisplayLine() string {
	switch o.Kind {
	case APIKeyMissing:
		return "API key not set"
	case TransportError:
		return o.Detail
	case ParseError:
		return "API result parsing error: " + o.Detail
	case APIError:
		return "API error: " + o.Detail
	case PromptBlocked:
		return "Prompt blocked: " + o.Detail
	case EmptyResponse:
		if o.Detail != "" {
			return fmt.Sprintf("No response from model (%s)", o.Detail)
		}
		return "No response from model"
	case Response:
		return o.Detail
	default:
		return fmt.Sprintf("Unexpected outcome: %s", o.Kind)
	}
}

// IsFailure reports whether o is anything other than model text.
func (o Outcome) IsFailure() bool {
	return o.Kind != Response
}

// ParseModelString parses a model string in "provider:model" format.
// Returns (provider, model, error).
//
// Example:
//
//	provider, model, err := ParseModelString("gemini:gemini-2.5-flash")
//	// provider = "gemini", model = "gemini-2.5-flash"
func ParseModelString(modelStr string) (string, string, error) {
	parts := strings.SplitN(modelStr, ":", 2)
	if len(parts) != 2 {
		return "", "", fmt.Errorf("invalid model format: %s (expected format: provider:model, e.g., gemini:gemini-2.5-flash)", modelStr)
	}

	provider := strings.TrimSpace(parts[0])
	model := strings.TrimSpace(parts[1])

	if provider == "" || model == "" {
		return "", "", fmt.Errorf("provider and model cannot be empty")
	}

	return provider, model, nil
}

// FormatModelString formats provider and model into "provider:model" format.
func FormatModelString(provider, model string) string {
	return fmt.Sprintf("%s:%s", provider, model)
}
