package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
)

// DefaultGeminiModel is the model used when none is configured.
const DefaultGeminiModel = "gemini-2.0-flash"

// ContentGenerator is the part of genai.GenerativeModel the provider uses.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error)
}

// GeminiProvider generates text with the Gemini SDK.
type GeminiProvider struct {
	newModel func(req GenerateRequest) ContentGenerator
}

// NewGeminiProvider creates a provider for modelName on client.
func NewGeminiProvider(client *genai.Client, modelName string) *GeminiProvider {
	if modelName == "" {
		modelName = DefaultGeminiModel
	}
	return &GeminiProvider{
		newModel: func(req GenerateRequest) ContentGenerator {
			model := client.GenerativeModel(modelName)
			if req.Temperature != nil {
				model.SetTemperature(*req.Temperature)
			}
			if req.MaxTokens > 0 {
				model.SetMaxOutputTokens(int32(req.MaxTokens))
			}
			return model
		},
	}
}

// NewGeminiProviderWithModel wraps an existing generator.
func NewGeminiProviderWithModel(model ContentGenerator) *GeminiProvider {
	return &GeminiProvider{
		newModel: func(GenerateRequest) ContentGenerator { return model },
	}
}

// Generate sends the system text and the user prompt as a single turn.
func (g *GeminiProvider) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	prompt := req.Prompt
	if req.System != "" {
		prompt = req.System + "\n\nUser: " + req.Prompt
	}

	resp, err := g.newModel(req).GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("gemini: %w", ErrEmptyResponse)
	}

	var sb strings.Builder
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				sb.WriteString(string(text))
			}
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("gemini: %w", ErrEmptyResponse)
	}
	return sb.String(), nil
}
