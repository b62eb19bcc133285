// Package ai resolves legal questions against generative models with
// ordered fallback tiers and a shared answer cache.
package ai

import (
	"context"
	"errors"
	"net/http"
	"time"
)

var (
	ErrNotConfigured = errors.New("ai provider not configured")
	ErrEmptyResponse = errors.New("ai provider returned no text")
)

// GenerateRequest is a single prompt sent to a model.
type GenerateRequest struct {
	System      string
	Prompt      string
	Temperature *float32
	MaxTokens   int
}

// Provider generates text for a prompt.
type Provider interface {
	Generate(ctx context.Context, req GenerateRequest) (string, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx context.Context, req GenerateRequest) (string, error)

// Generate calls f.
func (f ProviderFunc) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	return f(ctx, req)
}

// Float32 returns a pointer to v.
func Float32(v float32) *float32 {
	return &v
}

func defaultHTTPClient(c *http.Client) *http.Client {
	if c != nil {
		return c
	}
	return &http.Client{Timeout: 30 * time.Second}
}
