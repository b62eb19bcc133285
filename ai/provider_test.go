package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHuggingFaceProvider_Generate(t *testing.T) {
	var gotInputs string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer hf-token", r.Header.Get("Authorization"))
		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		gotInputs = body["inputs"]
		w.Write([]byte(`[{"generated_text":"<s>[INST] sys \n q [/INST] Section 302 covers murder."}]`))
	}))
	defer srv.Close()

	p := NewHuggingFaceProvider("hf-token", HuggingFaceWithEndpoint(srv.URL))
	text, err := p.Generate(context.Background(), GenerateRequest{System: "sys", Prompt: "q"})
	require.NoError(t, err)
	assert.Equal(t, " Section 302 covers murder.", text)
	assert.Equal(t, "<s>[INST] sys \n q [/INST]", gotInputs)
}

func TestHuggingFaceProvider_NoMarker(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"generated_text":"no marker here"}]`))
	}))
	defer srv.Close()

	p := NewHuggingFaceProvider("t", HuggingFaceWithEndpoint(srv.URL))
	text, err := p.Generate(context.Background(), GenerateRequest{Prompt: "q"})
	require.NoError(t, err)
	assert.Equal(t, "Legal analysis complete.", text)
}

func TestHuggingFaceProvider_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	p := NewHuggingFaceProvider("t", HuggingFaceWithEndpoint(srv.URL))
	_, err := p.Generate(context.Background(), GenerateRequest{Prompt: "q"})
	assert.Error(t, err)

	_, err = NewHuggingFaceProvider("").Generate(context.Background(), GenerateRequest{})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestGroqProvider_Generate(t *testing.T) {
	var got chatCompletionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer gk", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"1. File bail."}}]}`))
	}))
	defer srv.Close()

	p := NewGroqProvider("gk", DefaultGroqPrimaryModel, GroqWithEndpoint(srv.URL))
	text, err := p.Generate(context.Background(), GenerateRequest{
		System:      "expert",
		Prompt:      "strategy",
		Temperature: Float32(0.2),
		MaxTokens:   200,
	})
	require.NoError(t, err)
	assert.Equal(t, "1. File bail.", text)
	assert.Equal(t, DefaultGroqPrimaryModel, got.Model)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, 200, got.MaxTokens)
}

func TestGroqProvider_NoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	_, err := NewGroqProvider("gk", "m", GroqWithEndpoint(srv.URL)).Generate(context.Background(), GenerateRequest{})
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

type mockMessager struct {
	params   anthropic.MessageNewParams
	response *anthropic.Message
	err      error
}

func (m *mockMessager) New(_ context.Context, params anthropic.MessageNewParams, _ ...option.RequestOption) (*anthropic.Message, error) {
	m.params = params
	return m.response, m.err
}

func TestAnthropicProvider_Generate(t *testing.T) {
	m := &mockMessager{response: &anthropic.Message{
		Content: []anthropic.ContentBlockUnion{{Type: "text", Text: "Summary"}},
	}}
	p := NewAnthropicProviderWithMessager(m, "")

	text, err := p.Generate(context.Background(), GenerateRequest{System: "sys", Prompt: "q"})
	require.NoError(t, err)
	assert.Equal(t, "Summary", text)
	assert.Equal(t, int64(defaultAnthropicMaxTokens), m.params.MaxTokens)
	require.Len(t, m.params.System, 1)
	assert.Equal(t, "sys", m.params.System[0].Text)
}

func TestAnthropicProvider_Error(t *testing.T) {
	p := NewAnthropicProviderWithMessager(&mockMessager{err: errors.New("overloaded")}, "")
	_, err := p.Generate(context.Background(), GenerateRequest{Prompt: "q"})
	assert.Error(t, err)

	p = NewAnthropicProviderWithMessager(&mockMessager{response: &anthropic.Message{}}, "")
	_, err = p.Generate(context.Background(), GenerateRequest{Prompt: "q"})
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

type fakeGenerator struct {
	parts []genai.Part
	resp  *genai.GenerateContentResponse
	err   error
}

func (f *fakeGenerator) GenerateContent(_ context.Context, parts ...genai.Part) (*genai.GenerateContentResponse, error) {
	f.parts = parts
	return f.resp, f.err
}

func TestGeminiProvider_Generate(t *testing.T) {
	g := &fakeGenerator{resp: &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []genai.Part{genai.Text("1. Summary")}},
		}},
	}}
	p := NewGeminiProviderWithModel(g)

	text, err := p.Generate(context.Background(), GenerateRequest{System: "You are Nyaya-AI", Prompt: "IPC 302"})
	require.NoError(t, err)
	assert.Equal(t, "1. Summary", text)
	require.Len(t, g.parts, 1)
	assert.Equal(t, genai.Text("You are Nyaya-AI\n\nUser: IPC 302"), g.parts[0])
}

func TestGeminiProvider_NoCandidates(t *testing.T) {
	p := NewGeminiProviderWithModel(&fakeGenerator{resp: &genai.GenerateContentResponse{}})
	_, err := p.Generate(context.Background(), GenerateRequest{Prompt: "q"})
	assert.ErrorIs(t, err, ErrEmptyResponse)
}
