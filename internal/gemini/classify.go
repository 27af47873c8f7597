package gemini

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/longkey1/gemchat/internal/gemchat"
)

var errNullBody = errors.New("response body is null")

// Decode parses a generateContent response body.
func Decode(body []byte) (*Response, error) {
	if bytes.Equal(bytes.TrimSpace(body), []byte("null")) {
		return nil, errNullBody
	}
	var result Response
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Classify maps the result of one generateContent call to exactly one
// Outcome. transportErr is the failure of the HTTP call itself; when it is
// non-nil body is ignored.
//
// Checks run in a fixed order: credential, transport, decode, API error,
// safety block, text. The first that applies decides the Outcome.
func Classify(credentialPresent bool, body []byte, transportErr error) gemchat.Outcome {
	if !credentialPresent {
		return gemchat.Outcome{Kind: gemchat.APIKeyMissing}
	}
	if transportErr != nil {
		return gemchat.Outcome{Kind: gemchat.TransportError, Detail: transportErr.Error()}
	}

	resp, err := Decode(body)
	if err != nil {
		return gemchat.Outcome{Kind: gemchat.ParseError, Detail: err.Error()}
	}
	return ClassifyResponse(resp)
}

// ClassifyResponse interprets a decoded response.
func ClassifyResponse(resp *Response) gemchat.Outcome {
	if resp.Error != nil {
		return gemchat.Outcome{Kind: gemchat.APIError, Detail: resp.Error.Message}
	}

	if category, ok := firstBlocked(resp.Candidates); ok {
		return gemchat.Outcome{Kind: gemchat.PromptBlocked, Detail: string(category)}
	}

	if text, ok := firstText(resp.Candidates); ok {
		return gemchat.Outcome{Kind: gemchat.Response, Detail: text}
	}

	return gemchat.Outcome{Kind: gemchat.EmptyResponse, Detail: emptyReason(resp)}
}

// firstBlocked scans candidates, then their ratings, in order and stops at
// the first blocking rating.
func firstBlocked(candidates []Candidate) (HarmCategory, bool) {
	for _, candidate := range candidates {
		for _, rating := range candidate.SafetyRatings {
			if rating.Blocked {
				return rating.Category, true
			}
		}
	}
	return "", false
}

// firstText returns the text of the last part of the first candidate whose
// last part carries text. Earlier parts (thoughts) are never shown.
func firstText(candidates []Candidate) (string, bool) {
	for _, candidate := range candidates {
		parts := candidate.Content.Parts
		if len(parts) == 0 {
			continue
		}
		if last := parts[len(parts)-1]; last.Text != nil {
			return *last.Text, true
		}
	}
	return "", false
}

func emptyReason(resp *Response) string {
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return fmt.Sprintf("block reason: %s", resp.PromptFeedback.BlockReason)
	}
	if len(resp.Candidates) > 0 {
		reason := resp.Candidates[0].FinishReason
		if reason != "" && reason != FinishReasonStop {
			return fmt.Sprintf("finish reason: %s", reason)
		}
	}
	return ""
}
