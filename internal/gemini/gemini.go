// Package gemini implements the Gemini generateContent client: request
// construction, the HTTP and SDK transports, and classification of the
// response into a gemchat.Outcome.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/longkey1/gemchat/internal/gemchat"
)

const (
	ProviderName   = "gemini"
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	DefaultModel   = "gemini-2.5-flash"

	apiKeyHeader = "x-goog-api-key"
)

// Config defines the configuration interface for the Gemini provider
type Config interface {
	GetModel() string
	GetBaseURL(provider string) (string, error)
	GetToken(provider string) (string, error)
}

// Call holds everything a transport needs for one generateContent request.
type Call struct {
	BaseURL string
	Model   string
	Token   string
	Request *Request
}

// Transport performs one generateContent call and returns the raw response
// body. A returned error means the call itself failed; HTTP error statuses
// are not errors, their body is returned for classification.
type Transport interface {
	GenerateContent(ctx context.Context, call Call) ([]byte, error)
}

// ModelInfo represents information about an available model.
type ModelInfo struct {
	ID          string // Model identifier (e.g., "gemini-2.5-flash")
	Description string // Human-readable description of the model
	IsDefault   bool   // Whether this is the configured model
}

// Provider sends conversations to Gemini and classifies the replies.
type Provider struct {
	config     Config
	transport  Transport
	httpClient *http.Client
	timeout    time.Duration
	logger     *zap.Logger
}

// Option configures a Provider.
type Option func(*Provider)

// WithTransport replaces the default HTTP transport.
func WithTransport(t Transport) Option {
	return func(p *Provider) { p.transport = t }
}

// WithHTTPClient sets the client used by the default transport and ListModels.
func WithHTTPClient(c *http.Client) Option {
	return func(p *Provider) { p.httpClient = c }
}

// WithTimeout bounds each Generate call. Zero means no limit.
func WithTimeout(d time.Duration) Option {
	return func(p *Provider) { p.timeout = d }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(p *Provider) { p.logger = l }
}

// NewProvider creates a new Gemini provider instance
func NewProvider(config Config, opts ...Option) *Provider {
	p := &Provider{
		config:     config,
		httpClient: &http.Client{},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.transport == nil {
		p.transport = &HTTPTransport{Client: p.httpClient, Logger: p.logger}
	}
	return p
}

// Generate sends the conversation history and returns the classified
// Outcome. Exactly one request is made, and none when no token is
// configured.
func (p *Provider) Generate(ctx context.Context, history []gemchat.Turn) gemchat.Outcome {
	token, err := p.config.GetToken(ProviderName)
	if err != nil {
		p.logger.Debug("credential not resolved", zap.Error(err))
		return Classify(false, nil, nil)
	}

	call, err := p.newCall(token, history)
	if err != nil {
		// The request could not be attempted, treat it like a failed call.
		return Classify(true, nil, err)
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	body, err := p.transport.GenerateContent(ctx, call)
	outcome := Classify(true, body, err)

	p.logger.Debug("generateContent finished",
		zap.String("model", call.Model),
		zap.Int("turns", len(history)),
		zap.Stringer("outcome", outcome.Kind),
	)
	if err == nil && p.logger.Core().Enabled(zap.DebugLevel) {
		p.logResponse(body)
	}

	return outcome
}

func (p *Provider) newCall(token string, history []gemchat.Turn) (Call, error) {
	_, modelName, err := gemchat.ParseModelString(p.config.GetModel())
	if err != nil {
		return Call{}, fmt.Errorf("invalid model format: %w", err)
	}
	return Call{
		BaseURL: p.baseURL(),
		Model:   modelName,
		Token:   token,
		Request: NewRequest(history),
	}, nil
}

func (p *Provider) baseURL() string {
	baseURL, err := p.config.GetBaseURL(ProviderName)
	if err != nil || baseURL == "" {
		return DefaultBaseURL
	}
	return strings.TrimRight(baseURL, "/")
}

// logResponse writes the parts of the response the Outcome does not carry.
func (p *Provider) logResponse(body []byte) {
	resp, err := Decode(body)
	if err != nil {
		p.logger.Debug("raw response", zap.ByteString("body", body))
		return
	}
	fields := []zap.Field{
		zap.Int("candidates", len(resp.Candidates)),
		zap.String("model_version", resp.ModelVersion),
		zap.String("response_id", resp.ResponseID),
	}
	if u := resp.UsageMetadata; u != nil {
		fields = append(fields,
			zap.Int("prompt_tokens", u.PromptTokenCount),
			zap.Int("candidate_tokens", u.CandidatesTokenCount),
			zap.Int("thought_tokens", u.ThoughtsTokenCount),
			zap.Int("total_tokens", u.TotalTokenCount),
		)
	}
	for i, c := range resp.Candidates {
		fields = append(fields, zap.String(fmt.Sprintf("candidate_%d_finish", i), string(c.FinishReason)))
	}
	if s := resp.ModelStatus; s != nil {
		fields = append(fields, zap.String("model_stage", string(s.ModelStage)), zap.String("model_status", s.Message))
	}
	p.logger.Debug("response details", fields...)
}

// ListModels returns the models that support generateContent, sorted by ID
// in descending order.
func (p *Provider) ListModels(ctx context.Context) ([]ModelInfo, error) {
	token, err := p.config.GetToken(ProviderName)
	if err != nil {
		return nil, fmt.Errorf("failed to get token: %w", err)
	}

	var models []ModelInfo
	pageToken := ""
	for {
		page, err := p.fetchModels(ctx, token, pageToken)
		if err != nil {
			return nil, err
		}
		for _, model := range page.Models {
			if !contains(model.SupportedGenerationMethods, "generateContent") {
				continue
			}
			description := model.Description
			if description == "" {
				description = model.DisplayName
			}
			models = append(models, ModelInfo{
				ID:          strings.TrimPrefix(model.Name, "models/"),
				Description: description,
			})
		}
		if page.NextPageToken == "" {
			break
		}
		pageToken = page.NextPageToken
	}

	sort.Slice(models, func(i, j int) bool {
		return models[i].ID > models[j].ID
	})

	return models, nil
}

func (p *Provider) fetchModels(ctx context.Context, token, pageToken string) (*ModelsResponse, error) {
	endpoint := p.baseURL() + "/models"
	if pageToken != "" {
		endpoint += "?pageToken=" + url.QueryEscape(pageToken)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set(apiKeyHeader, token)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var result ModelsResponse
	if err := json.Unmarshal(body, &result); err != nil {
		p.logger.Debug("unparseable models response", zap.Int("status", resp.StatusCode), zap.ByteString("body", body))
		return nil, fmt.Errorf("failed to parse API response (HTTP %d): %w", resp.StatusCode, err)
	}
	if result.Error != nil {
		return nil, fmt.Errorf("API request failed (HTTP %d): %s", resp.StatusCode, result.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API request failed (HTTP %d)", resp.StatusCode)
	}

	return &result, nil
}

// contains checks if a string slice contains a specific string
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

// HTTPTransport posts requests with net/http.
type HTTPTransport struct {
	Client *http.Client
	Logger *zap.Logger
}

// GenerateContent implements Transport.
func (t *HTTPTransport) GenerateContent(ctx context.Context, call Call) ([]byte, error) {
	jsonData, err := json.Marshal(call.Request)
	if err != nil {
		return nil, fmt.Errorf("error marshaling request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent", call.BaseURL, call.Model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(apiKeyHeader, call.Token)

	client := t.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response: %w", err)
	}

	if t.Logger != nil {
		t.Logger.Debug("generateContent response",
			zap.String("url", endpoint),
			zap.Int("status", resp.StatusCode),
			zap.Int("bytes", len(body)),
		)
	}

	return body, nil
}
