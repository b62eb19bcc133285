package ai

import (
	"context"
	"fmt"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const defaultAnthropicMaxTokens = 1024

// AnthropicMessager is the slice of the Anthropic client the provider uses.
type AnthropicMessager interface {
	New(ctx context.Context, params anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
}

// AnthropicProvider generates text with the Messages API.
type AnthropicProvider struct {
	messages AnthropicMessager
	model    anthropic.Model
}

// NewAnthropicProvider creates a provider for model using apiKey.
func NewAnthropicProvider(apiKey, model string) *AnthropicProvider {
	c := anthropic.NewClient(option.WithAPIKey(apiKey))
	return NewAnthropicProviderWithMessager(&c.Messages, model)
}

// NewAnthropicProviderWithMessager wraps an existing messager.
func NewAnthropicProviderWithMessager(m AnthropicMessager, model string) *AnthropicProvider {
	if model == "" {
		model = string(anthropic.ModelClaudeSonnet4_20250514)
	}
	return &AnthropicProvider{messages: m, model: anthropic.Model(model)}
}

// Generate concatenates the text blocks of the reply.
func (a *AnthropicProvider) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	maxTokens := int64(req.MaxTokens)
	if maxTokens <= 0 {
		maxTokens = defaultAnthropicMaxTokens
	}
	params := anthropic.MessageNewParams{
		Model:     a.model,
		MaxTokens: maxTokens,
		Messages:  []anthropic.MessageParam{anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt))},
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}
	if req.Temperature != nil {
		params.Temperature = anthropic.Float(float64(*req.Temperature))
	}

	resp, err := a.messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("anthropic generate: %w", err)
	}

	var sb strings.Builder
	for _, b := range resp.Content {
		if b.Type == "text" {
			sb.WriteString(b.Text)
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("anthropic: %w", ErrEmptyResponse)
	}
	return sb.String(), nil
}
