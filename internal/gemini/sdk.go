package gemini

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

// SDKTransport sends requests through the google.golang.org/genai client.
// The typed SDK response is re-encoded to the wire JSON so it is classified
// exactly like an HTTPTransport body.
type SDKTransport struct {
	HTTPClient *http.Client
}

// GenerateContent implements Transport.
func (t *SDKTransport) GenerateContent(ctx context.Context, call Call) ([]byte, error) {
	root, version := splitAPIVersion(call.BaseURL)
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     call.Token,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: t.HTTPClient,
		HTTPOptions: genai.HTTPOptions{
			BaseURL:    root,
			APIVersion: version,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}

	resp, err := client.Models.GenerateContent(ctx, call.Model, toGenaiContents(call.Request), nil)
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			return json.Marshal(Response{Error: &APIError{
				Code:    apiErr.Code,
				Message: apiErr.Message,
				Status:  apiErr.Status,
			}})
		}
		return nil, err
	}

	return json.Marshal(fromGenaiResponse(resp))
}

// The sdk* types mirror the wire shape of Response with pointers and
// omitempty placed so that a field the SDK decoded as absent is absent again
// after re-encoding. Required fields then fail the same way on both paths.
type sdkResponse struct {
	Candidates     []sdkCandidate     `json:"candidates,omitempty"`
	PromptFeedback *sdkPromptFeedback `json:"promptFeedback,omitempty"`
	UsageMetadata  *UsageMetadata     `json:"usageMetadata,omitempty"`
	ModelVersion   string             `json:"modelVersion,omitempty"`
	ResponseID     string             `json:"responseId,omitempty"`
}

type sdkPromptFeedback struct {
	BlockReason   string            `json:"blockReason,omitempty"`
	SafetyRatings []sdkSafetyRating `json:"safetyRatings,omitempty"`
}

type sdkCandidate struct {
	Content       *sdkContent       `json:"content,omitempty"`
	FinishReason  string            `json:"finishReason,omitempty"`
	SafetyRatings []sdkSafetyRating `json:"safetyRatings,omitempty"`
	Index         int32             `json:"index"`
	FinishMessage string            `json:"finishMessage,omitempty"`
}

type sdkContent struct {
	Role  string         `json:"role,omitempty"`
	Parts []ResponsePart `json:"parts"` // nil encodes as null, which is rejected like a missing field
}

type sdkSafetyRating struct {
	Category    string `json:"category,omitempty"`
	Probability string `json:"probability,omitempty"`
	Blocked     bool   `json:"blocked,omitempty"`
}

func fromGenaiResponse(resp *genai.GenerateContentResponse) sdkResponse {
	out := sdkResponse{
		ModelVersion: resp.ModelVersion,
		ResponseID:   resp.ResponseID,
	}
	for _, c := range resp.Candidates {
		if c == nil {
			continue
		}
		cand := sdkCandidate{
			FinishReason:  string(c.FinishReason),
			SafetyRatings: fromGenaiRatings(c.SafetyRatings),
			Index:         c.Index,
			FinishMessage: c.FinishMessage,
		}
		if c.Content != nil {
			cand.Content = &sdkContent{Role: c.Content.Role, Parts: fromGenaiParts(c.Content.Parts)}
		}
		out.Candidates = append(out.Candidates, cand)
	}
	if fb := resp.PromptFeedback; fb != nil {
		out.PromptFeedback = &sdkPromptFeedback{
			BlockReason:   string(fb.BlockReason),
			SafetyRatings: fromGenaiRatings(fb.SafetyRatings),
		}
	}
	if u := resp.UsageMetadata; u != nil {
		out.UsageMetadata = &UsageMetadata{
			PromptTokenCount:     int(u.PromptTokenCount),
			CandidatesTokenCount: int(u.CandidatesTokenCount),
			ThoughtsTokenCount:   int(u.ThoughtsTokenCount),
			TotalTokenCount:      int(u.TotalTokenCount),
		}
	}
	return out
}

func fromGenaiRatings(ratings []*genai.SafetyRating) []sdkSafetyRating {
	if ratings == nil {
		return nil
	}
	out := make([]sdkSafetyRating, 0, len(ratings))
	for _, r := range ratings {
		if r == nil {
			continue
		}
		out = append(out, sdkSafetyRating{
			Category:    string(r.Category),
			Probability: string(r.Probability),
			Blocked:     r.Blocked,
		})
	}
	return out
}

// fromGenaiParts converts SDK parts. genai.Part.Text is a plain string, so
// an empty text part and a part without text look alike; a part that
// carries nothing else is taken as a text part.
func fromGenaiParts(parts []*genai.Part) []ResponsePart {
	if parts == nil {
		return nil
	}
	out := make([]ResponsePart, 0, len(parts))
	for _, p := range parts {
		if p == nil {
			continue
		}
		part := ResponsePart{Thought: p.Thought}
		if len(p.ThoughtSignature) > 0 {
			part.ThoughtSignature = base64.StdEncoding.EncodeToString(p.ThoughtSignature)
		}
		if p.InlineData != nil {
			part.InlineData = &Blob{
				MimeType: p.InlineData.MIMEType,
				Data:     base64.StdEncoding.EncodeToString(p.InlineData.Data),
			}
		}
		if p.FileData != nil {
			part.FileData = &FileData{MimeType: p.FileData.MIMEType, FileURI: p.FileData.FileURI}
		}
		if p.Text != "" || !hasPayload(p) {
			text := p.Text
			part.Text = &text
		}
		out = append(out, part)
	}
	return out
}

func hasPayload(p *genai.Part) bool {
	return p.Thought ||
		len(p.ThoughtSignature) > 0 ||
		p.InlineData != nil ||
		p.FileData != nil ||
		p.FunctionCall != nil ||
		p.FunctionResponse != nil ||
		p.ExecutableCode != nil ||
		p.CodeExecutionResult != nil ||
		p.VideoMetadata != nil ||
		p.MediaResolution != nil
}

func toGenaiContents(req *Request) []*genai.Content {
	contents := make([]*genai.Content, 0, len(req.Contents))
	for _, c := range req.Contents {
		parts := make([]*genai.Part, 0, len(c.Parts))
		for _, p := range c.Parts {
			parts = append(parts, &genai.Part{Text: p.Text})
		}
		contents = append(contents, &genai.Content{
			Role:  c.Role,
			Parts: parts,
		})
	}
	return contents
}

// splitAPIVersion separates a base URL such as
// "https://generativelanguage.googleapis.com/v1beta" into the host root and
// the API version the SDK expects as separate settings.
func splitAPIVersion(baseURL string) (string, string) {
	baseURL = strings.TrimRight(baseURL, "/")
	i := strings.LastIndex(baseURL, "/")
	if i < 0 {
		return baseURL, ""
	}
	last := baseURL[i+1:]
	if strings.HasPrefix(last, "v1") {
		return baseURL[:i+1], last
	}
	return baseURL + "/", ""
}
