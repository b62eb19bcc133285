package ai

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"nyayamitra-backend/cache"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Tier identifies which stage of a chain produced an answer.
type Tier string

const (
	TierCache     Tier = "cache"
	TierPrimary   Tier = "primary"
	TierSecondary Tier = "secondary"
	TierLocal     Tier = "local"
)

// SourceCache is the provenance reported for cached answers.
const SourceCache = "Cache"

// Request is what a chain resolves. CacheKey empty disables the cache for
// this request. Context carries deterministic data for local tiers.
type Request struct {
	CacheKey string
	Generate GenerateRequest
	Context  string
}

// Outcome is the tagged result of one tier: either a value with its
// provenance, or the reason the tier failed.
type Outcome struct {
	Tier   Tier
	Source string
	Value  string
	Err    error
}

// OK reports whether the tier produced an answer.
func (o Outcome) OK() bool {
	return o.Err == nil
}

func (o Outcome) cacheable() bool {
	return o.OK() && (o.Tier == TierPrimary || o.Tier == TierSecondary)
}

// Success builds a successful outcome.
func Success(tier Tier, source, value string) Outcome {
	return Outcome{Tier: tier, Source: source, Value: value}
}

// Failure builds a failed outcome.
func Failure(tier Tier, source string, err error) Outcome {
	return Outcome{Tier: tier, Source: source, Err: err}
}

// Resolver is one tier of a chain.
type Resolver interface {
	Resolve(ctx context.Context, req Request) Outcome
}

// ProviderResolver asks a model. Clean, when set, post-processes the text
// before it is returned or cached.
type ProviderResolver struct {
	Tier     Tier
	Source   string
	Provider Provider
	Clean    func(string) string
}

// Resolve calls the provider once; there are no retries within a tier.
func (p ProviderResolver) Resolve(ctx context.Context, req Request) Outcome {
	if p.Provider == nil {
		return Failure(p.Tier, p.Source, ErrNotConfigured)
	}
	text, err := p.Provider.Generate(ctx, req.Generate)
	if err != nil {
		return Failure(p.Tier, p.Source, err)
	}
	if p.Clean != nil {
		text = p.Clean(text)
	}
	if text == "" {
		return Failure(p.Tier, p.Source, ErrEmptyResponse)
	}
	return Success(p.Tier, p.Source, text)
}

// StaticResolver answers without I/O and never fails.
type StaticResolver struct {
	Tier   Tier
	Source string
	Answer func(req Request) string
}

// Resolve returns the static answer.
func (s StaticResolver) Resolve(_ context.Context, req Request) Outcome {
	return Success(s.Tier, s.Source, s.Answer(req))
}

// Chain runs a cache check and then its resolvers in order, stopping at the
// first success. Provider answers are written back to the cache.
type Chain struct {
	resolvers []Resolver
	cache     cache.Cache
	ttl       time.Duration
	tracer    trace.Tracer
	logger    *slog.Logger
}

// ChainOption is a functional option for Chain
type ChainOption func(*Chain)

// WithCache enables the cache tier.
func WithCache(c cache.Cache, ttl time.Duration) ChainOption {
	return func(ch *Chain) {
		ch.cache = c
		ch.ttl = ttl
	}
}

// WithTracer overrides the global tracer.
func WithTracer(t trace.Tracer) ChainOption {
	return func(ch *Chain) {
		ch.tracer = t
	}
}

// WithLogger sets the logger used for tier failures.
func WithLogger(l *slog.Logger) ChainOption {
	return func(ch *Chain) {
		ch.logger = l
	}
}

// NewChain creates a chain over resolvers. The last resolver should be one
// that cannot fail.
func NewChain(resolvers []Resolver, opts ...ChainOption) *Chain {
	ch := &Chain{
		resolvers: resolvers,
		tracer:    otel.Tracer("nyayamitra-backend/ai"),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(ch)
	}
	return ch
}

// Resolve returns the first successful outcome. If every tier fails the
// last failure is returned.
func (ch *Chain) Resolve(ctx context.Context, req Request) Outcome {
	if ch.cache != nil && req.CacheKey != "" {
		if v, ok := ch.cache.Get(req.CacheKey); ok {
			_, span := ch.tracer.Start(ctx, "ai.tier.cache")
			span.SetAttributes(attribute.Bool("ai.hit", true))
			span.End()
			return Success(TierCache, SourceCache, v)
		}
	}

	last := Failure(TierLocal, "", fmt.Errorf("ai chain has no resolvers"))
	for _, r := range ch.resolvers {
		out := ch.attempt(ctx, r, req)
		if out.OK() {
			if out.cacheable() && ch.cache != nil && req.CacheKey != "" {
				ch.cache.Set(req.CacheKey, out.Value, ch.ttl)
			}
			return out
		}
		ch.logger.Warn("ai tier failed, falling back",
			slog.String("tier", string(out.Tier)),
			slog.String("source", out.Source),
			slog.Any("error", out.Err))
		last = out
	}
	return last
}

func (ch *Chain) attempt(ctx context.Context, r Resolver, req Request) Outcome {
	ctx, span := ch.tracer.Start(ctx, "ai.tier")
	defer span.End()

	out := r.Resolve(ctx, req)
	span.SetName("ai.tier." + string(out.Tier))
	span.SetAttributes(
		attribute.String("ai.source", out.Source),
		attribute.Bool("ai.ok", out.OK()),
	)
	if !out.OK() {
		span.RecordError(out.Err)
		span.SetStatus(codes.Error, out.Err.Error())
	}
	return out
}
