package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const (
	DefaultGroqEndpoint       = "https://api.groq.com/openai/v1/chat/completions"
	DefaultGroqPrimaryModel   = "llama-3.1-8b-instant"
	DefaultGroqSecondaryModel = "mixtral-8x7b-32768"
)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature *float32      `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// GroqProvider calls an OpenAI-compatible chat completions endpoint.
type GroqProvider struct {
	endpoint string
	apiKey   string
	model    string
	client   *http.Client
}

// GroqOption is a functional option for GroqProvider
type GroqOption func(*GroqProvider)

// GroqWithEndpoint overrides the completions URL.
func GroqWithEndpoint(endpoint string) GroqOption {
	return func(p *GroqProvider) {
		if endpoint != "" {
			p.endpoint = endpoint
		}
	}
}

// GroqWithHTTPClient sets the HTTP client.
func GroqWithHTTPClient(c *http.Client) GroqOption {
	return func(p *GroqProvider) {
		p.client = c
	}
}

// NewGroqProvider creates a provider for model.
func NewGroqProvider(apiKey, model string, opts ...GroqOption) *GroqProvider {
	p := &GroqProvider{
		endpoint: DefaultGroqEndpoint,
		apiKey:   apiKey,
		model:    model,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.client = defaultHTTPClient(p.client)
	return p
}

// Generate returns the first choice's message content.
func (p *GroqProvider) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	if p.apiKey == "" {
		return "", ErrNotConfigured
	}

	payload := chatCompletionRequest{
		Model:       p.model,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}
	if req.System != "" {
		payload.Messages = append(payload.Messages, chatMessage{Role: "system", Content: req.System})
	}
	payload.Messages = append(payload.Messages, chatMessage{Role: "user", Content: req.Prompt})

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("groq API error (%s): %d - %s", p.model, resp.StatusCode, string(respBody))
	}

	var out chatCompletionResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if out.Error != nil && out.Error.Message != "" {
		return "", fmt.Errorf("groq API error (%s): %s", p.model, out.Error.Message)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("groq: %w", ErrEmptyResponse)
	}
	return out.Choices[0].Message.Content, nil
}
