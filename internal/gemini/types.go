package gemini

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/longkey1/gemchat/internal/gemchat"
)

// Request represents the request body for Gemini's generateContent API
type Request struct {
	Contents []Content `json:"contents"`
}

// Content represents a content item in the Gemini request format
type Content struct {
	Role  string `json:"role"` // "user" or "model"
	Parts []Part `json:"parts"`
}

// Part represents a part of the content in the Gemini request format
type Part struct {
	Text string `json:"text"`
}

// NewRequest builds the request body from a conversation history.
// Each turn becomes one content entry with a single text part, in order.
func NewRequest(history []gemchat.Turn) *Request {
	contents := make([]Content, 0, len(history))
	for _, turn := range history {
		contents = append(contents, Content{
			Role:  turn.Role,
			Parts: []Part{{Text: turn.Content}},
		})
	}
	return &Request{Contents: contents}
}

// Response represents the full response from Gemini API
type Response struct {
	Candidates     []Candidate     `json:"candidates,omitempty"`
	PromptFeedback *PromptFeedback `json:"promptFeedback,omitempty"`
	UsageMetadata  *UsageMetadata  `json:"usageMetadata,omitempty"`
	ModelVersion   string          `json:"modelVersion,omitempty"`
	ResponseID     string          `json:"responseId,omitempty"`
	ModelStatus    *ModelStatus    `json:"modelStatus,omitempty"`
	Error          *APIError       `json:"error,omitempty"`
}

// PromptFeedback reports filtering applied to the prompt itself
type PromptFeedback struct {
	BlockReason   BlockReason    `json:"blockReason,omitempty"`
	SafetyRatings []SafetyRating `json:"safetyRatings,omitempty"`
}

// UsageMetadata holds token accounting for a call
type UsageMetadata struct {
	PromptTokenCount     int `json:"promptTokenCount,omitempty"`
	CandidatesTokenCount int `json:"candidatesTokenCount,omitempty"`
	ThoughtsTokenCount   int `json:"thoughtsTokenCount,omitempty"`
	TotalTokenCount      int `json:"totalTokenCount,omitempty"`
}

// ModelStatus describes the lifecycle state of the model that answered
type ModelStatus struct {
	ModelStage     ModelStage `json:"modelStage,omitempty"`
	RetirementTime string     `json:"retirementTime,omitempty"`
	Message        string     `json:"message,omitempty"`
}

// Candidate represents one alternative completion
type Candidate struct {
	Content       ResponseContent `json:"content"`
	FinishReason  FinishReason    `json:"finishReason,omitempty"`
	SafetyRatings []SafetyRating  `json:"safetyRatings,omitempty"`
	Index         int             `json:"index"`
	FinishMessage string          `json:"finishMessage,omitempty"`
}

// ResponseContent represents the content of a candidate
type ResponseContent struct {
	Parts []ResponsePart `json:"parts"`
	Role  string         `json:"role,omitempty"`
}

// ResponsePart is one segment of a candidate's content. Text is nil when the
// part carries something other than text.
type ResponsePart struct {
	Thought          bool      `json:"thought,omitempty"`
	ThoughtSignature string    `json:"thoughtSignature,omitempty"`
	Text             *string   `json:"text,omitempty"`
	InlineData       *Blob     `json:"inlineData,omitempty"`
	FileData         *FileData `json:"fileData,omitempty"`
}

// Blob is inline binary data, base64 encoded
type Blob struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

// FileData references uploaded file content
type FileData struct {
	MimeType string `json:"mimeType"`
	FileURI  string `json:"fileUri"`
}

// SafetyRating is the policy classification attached to a candidate
type SafetyRating struct {
	Category    HarmCategory    `json:"category"`
	Probability HarmProbability `json:"probability"`
	Blocked     bool            `json:"blocked,omitempty"`
}

// APIError is the error object the service returns instead of candidates
type APIError struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Status  string            `json:"status"`
	Details []json.RawMessage `json:"details,omitempty"`
}

// ModelsResponse represents the response from Gemini's models endpoint
type ModelsResponse struct {
	Models        []ModelData `json:"models"`
	NextPageToken string      `json:"nextPageToken,omitempty"`
	Error         *APIError   `json:"error,omitempty"`
}

// ModelData represents a single model in the models endpoint response
type ModelData struct {
	Name                       string   `json:"name"`
	DisplayName                string   `json:"displayName"`
	Description                string   `json:"description"`
	SupportedGenerationMethods []string `json:"supportedGenerationMethods"`
}

// requireFields returns an error naming the first of names that is absent
// or null in the JSON object data.
func requireFields(data []byte, object string, names ...string) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("%s: %w", object, err)
	}
	for _, name := range names {
		raw, ok := fields[name]
		if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			return fmt.Errorf("%s: missing field `%s`", object, name)
		}
	}
	return nil
}

func (c *Candidate) UnmarshalJSON(data []byte) error {
	if err := requireFields(data, "candidate", "content"); err != nil {
		return err
	}
	type plain Candidate
	return json.Unmarshal(data, (*plain)(c))
}

func (c *ResponseContent) UnmarshalJSON(data []byte) error {
	if err := requireFields(data, "content", "parts"); err != nil {
		return err
	}
	type plain ResponseContent
	return json.Unmarshal(data, (*plain)(c))
}

func (r *SafetyRating) UnmarshalJSON(data []byte) error {
	if err := requireFields(data, "safety rating", "category", "probability"); err != nil {
		return err
	}
	type plain SafetyRating
	return json.Unmarshal(data, (*plain)(r))
}

func (e *APIError) UnmarshalJSON(data []byte) error {
	if err := requireFields(data, "error", "code", "message", "status"); err != nil {
		return err
	}
	type plain APIError
	return json.Unmarshal(data, (*plain)(e))
}
