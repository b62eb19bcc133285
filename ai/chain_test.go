package ai

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"nyayamitra-backend/cache"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingProvider struct {
	text  string
	err   error
	calls int
}

func (p *countingProvider) Generate(context.Context, GenerateRequest) (string, error) {
	p.calls++
	return p.text, p.err
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testChain(c cache.Cache, primary, secondary Provider) *Chain {
	return NewChain([]Resolver{
		ProviderResolver{Tier: TierPrimary, Source: "Primary", Provider: primary},
		ProviderResolver{Tier: TierSecondary, Source: "Secondary", Provider: secondary},
		StaticResolver{Tier: TierLocal, Source: "Local", Answer: func(r Request) string { return "local:" + r.Context }},
	}, WithCache(c, time.Hour), WithLogger(quietLogger()))
}

func TestChain_PrimarySuccessIsCached(t *testing.T) {
	c := cache.NewMemoryCache(time.Hour, time.Minute)
	primary := &countingProvider{text: "answer"}
	secondary := &countingProvider{text: "unused"}
	ch := testChain(c, primary, secondary)

	out := ch.Resolve(context.Background(), Request{CacheKey: "q"})
	require.True(t, out.OK())
	assert.Equal(t, TierPrimary, out.Tier)
	assert.Equal(t, "Primary", out.Source)
	assert.Equal(t, "answer", out.Value)

	out = ch.Resolve(context.Background(), Request{CacheKey: "q"})
	assert.Equal(t, TierCache, out.Tier)
	assert.Equal(t, SourceCache, out.Source)
	assert.Equal(t, "answer", out.Value)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 0, secondary.calls)
}

func TestChain_FallsBackToSecondary(t *testing.T) {
	c := cache.NewMemoryCache(time.Hour, time.Minute)
	primary := &countingProvider{err: errors.New("rate limited")}
	secondary := &countingProvider{text: "backup"}
	ch := testChain(c, primary, secondary)

	out := ch.Resolve(context.Background(), Request{CacheKey: "q"})
	assert.Equal(t, TierSecondary, out.Tier)
	assert.Equal(t, "backup", out.Value)

	v, ok := c.Get("q")
	require.True(t, ok)
	assert.Equal(t, "backup", v)
}

func TestChain_LocalAnswerIsNotCached(t *testing.T) {
	c := cache.NewMemoryCache(time.Hour, time.Minute)
	ch := testChain(c,
		&countingProvider{err: errors.New("down")},
		&countingProvider{err: errors.New("down")})

	out := ch.Resolve(context.Background(), Request{CacheKey: "q", Context: "ctx"})
	assert.Equal(t, TierLocal, out.Tier)
	assert.Equal(t, "local:ctx", out.Value)

	_, ok := c.Get("q")
	assert.False(t, ok)
}

func TestChain_EmptyCacheKeySkipsCache(t *testing.T) {
	c := cache.NewMemoryCache(time.Hour, time.Minute)
	primary := &countingProvider{text: "answer"}
	ch := testChain(c, primary, nil)

	ch.Resolve(context.Background(), Request{})
	ch.Resolve(context.Background(), Request{})
	assert.Equal(t, 2, primary.calls)
	assert.Equal(t, 0, c.Len())
}

func TestProviderResolver_NilProviderAndClean(t *testing.T) {
	out := ProviderResolver{Tier: TierPrimary, Source: "x"}.Resolve(context.Background(), Request{})
	assert.ErrorIs(t, out.Err, ErrNotConfigured)

	out = ProviderResolver{
		Tier:     TierPrimary,
		Provider: &countingProvider{text: "**"},
		Clean:    func(s string) string { return "" },
	}.Resolve(context.Background(), Request{})
	assert.ErrorIs(t, out.Err, ErrEmptyResponse)
}

func TestChain_AllFailReturnsLastFailure(t *testing.T) {
	ch := NewChain([]Resolver{
		ProviderResolver{Tier: TierPrimary, Source: "A", Provider: &countingProvider{err: errors.New("a")}},
		ProviderResolver{Tier: TierSecondary, Source: "B", Provider: &countingProvider{err: errors.New("b")}},
	}, WithLogger(quietLogger()))

	out := ch.Resolve(context.Background(), Request{})
	assert.False(t, out.OK())
	assert.Equal(t, "B", out.Source)
	assert.EqualError(t, out.Err, "b")
}
