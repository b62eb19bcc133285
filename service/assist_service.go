package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"nyayamitra-backend/ai"
	"nyayamitra-backend/cache"
	"nyayamitra-backend/lookup"
	"nyayamitra-backend/models"
	"nyayamitra-backend/repository"
)

// Provenance reported by the assist flows.
const (
	SourceGemini      = "Gemini-Flash"
	SourceHuggingFace = "HuggingFace-Fallback"
	SourceClaude      = "Claude-Fallback"
	SourceLocal       = "Local-Data"

	SourceGroqPrimary   = "Groq-Llama"
	SourceGroqSecondary = "Groq-Mixtral"
	SourceStrategyBrief = "Strategy-Brief"
)

// Legal intelligence result types.
const (
	IntelStatic   = "static"
	IntelAI       = "ai"
	IntelFallback = "fallback"

	ModeMapper   = "mapper"
	ModeStrategy = "strategy"
)

const (
	// HelpMessage is returned when no model answers and the query names no
	// known section.
	HelpMessage = "I am having trouble reaching my AI brain. Please try a specific section number like 'IPC 302'."

	// FallbackStrategy is returned when neither strategy model answers.
	FallbackStrategy = "STRATEGY BRIEF:\n1. Verify FIR and jurisdiction validity.\n2. Examine BNSS procedural compliance.\n3. Prepare interim relief focusing on urgency and admissibility of evidence."

	askSystemTemplate = `You are Nyaya-AI, a legal literacy assistant.
Format: 1. Summary, 2. Conditions (dashes only), 3. Story Example, 4. Hindi/Marathi, 5. Punishment.
If context provided, use it. Context: %s`

	expertSystem   = "You are a professional Indian legal expert."
	strategyPrompt = "You are a Senior Indian Advocate. Provide a concise 3-step legal strategy for a case under %s. Current stage: %s. Side: Petitioner."
	mapperPrompt   = "What is the corresponding Bharatiya Nyaya Sanhita (BNS) section for IPC Section %s? Answer in one sentence."

	intelCachePrefix = "legal-intelligence:"
	intelMaxTokens   = 200
	intelTemperature = 0.2
)

// CaseFinder loads the first row of a case.
type CaseFinder interface {
	First(ctx context.Context, cnr string) (*models.CaseRecord, error)
}

// AssistService answers legal questions through tiered AI chains
type AssistService struct {
	statutes *lookup.StatuteTable
	cases    CaseFinder

	primary         ai.Provider
	secondary       ai.Provider
	secondarySource string
	strategyPrimary ai.Provider
	strategyBackup  ai.Provider

	cache         cache.Cache
	cacheTTL      time.Duration
	normalizeKeys bool
	logger        *slog.Logger

	askChain   *ai.Chain
	intelChain *ai.Chain
}

// AssistServiceOption is a functional option for AssistService
type AssistServiceOption func(*AssistService)

// AssistWithStatutes sets the IPC lookup table
func AssistWithStatutes(t *lookup.StatuteTable) AssistServiceOption {
	return func(s *AssistService) {
		s.statutes = t
	}
}

// AssistWithCases sets the case finder used by strategy mode
func AssistWithCases(f CaseFinder) AssistServiceOption {
	return func(s *AssistService) {
		s.cases = f
	}
}

// AssistWithPrimary sets the primary model for free-text questions
func AssistWithPrimary(p ai.Provider) AssistServiceOption {
	return func(s *AssistService) {
		s.primary = p
	}
}

// AssistWithSecondary sets the secondary model and the provenance it reports
func AssistWithSecondary(source string, p ai.Provider) AssistServiceOption {
	return func(s *AssistService) {
		s.secondarySource = source
		s.secondary = p
	}
}

// AssistWithStrategyModels sets the two models used by legal intelligence
func AssistWithStrategyModels(primary, backup ai.Provider) AssistServiceOption {
	return func(s *AssistService) {
		s.strategyPrimary = primary
		s.strategyBackup = backup
	}
}

// AssistWithCache sets the answer cache
func AssistWithCache(c cache.Cache, ttl time.Duration) AssistServiceOption {
	return func(s *AssistService) {
		s.cache = c
		s.cacheTTL = ttl
	}
}

// AssistWithNormalizedKeys trims and lowercases queries before cache lookup
func AssistWithNormalizedKeys(on bool) AssistServiceOption {
	return func(s *AssistService) {
		s.normalizeKeys = on
	}
}

// AssistWithLogger sets the logger
func AssistWithLogger(l *slog.Logger) AssistServiceOption {
	return func(s *AssistService) {
		s.logger = l
	}
}

// NewAssistService creates a new assist service
func NewAssistService(opts ...AssistServiceOption) *AssistService {
	s := &AssistService{
		secondarySource: SourceHuggingFace,
		cacheTTL:        time.Hour,
		logger:          slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	var chainOpts []ai.ChainOption
	chainOpts = append(chainOpts, ai.WithLogger(s.logger))
	if s.cache != nil {
		chainOpts = append(chainOpts, ai.WithCache(s.cache, s.cacheTTL))
	}

	s.askChain = ai.NewChain([]ai.Resolver{
		ai.ProviderResolver{Tier: ai.TierPrimary, Source: SourceGemini, Provider: s.primary},
		ai.ProviderResolver{Tier: ai.TierSecondary, Source: s.secondarySource, Provider: s.secondary},
		ai.StaticResolver{Tier: ai.TierLocal, Source: SourceLocal, Answer: localAnswer},
	}, chainOpts...)

	s.intelChain = ai.NewChain([]ai.Resolver{
		ai.ProviderResolver{Tier: ai.TierPrimary, Source: SourceGroqPrimary, Provider: s.strategyPrimary, Clean: stripAsterisks},
		ai.ProviderResolver{Tier: ai.TierSecondary, Source: SourceGroqSecondary, Provider: s.strategyBackup, Clean: stripAsterisks},
		ai.StaticResolver{Tier: ai.TierLocal, Source: SourceStrategyBrief, Answer: func(ai.Request) string { return FallbackStrategy }},
	}, chainOpts...)

	return s
}

func localAnswer(req ai.Request) string {
	if req.Context != "" {
		return req.Context
	}
	return HelpMessage
}

func stripAsterisks(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "*", ""))
}

// AskResult is an answer with the tier that produced it
type AskResult struct {
	Answer string `json:"answer"`
	Source string `json:"source"`
}

// Ask answers a free-text legal question. It always produces an answer:
// when every model fails the statute matched by the query is returned
// verbatim, or a help message when nothing matched.
func (s *AssistService) Ask(ctx context.Context, query string) AskResult {
	if strings.TrimSpace(query) == "" {
		return AskResult{Answer: HelpMessage, Source: SourceLocal}
	}

	var statute string
	if s.statutes != nil {
		if st, ok := s.statutes.MatchQuery(query); ok {
			statute = st.Description
		}
	}
	contextText := statute
	if contextText == "" {
		contextText = "None"
	}

	out := s.askChain.Resolve(ctx, ai.Request{
		CacheKey: s.cacheKey(query),
		Context:  statute,
		Generate: ai.GenerateRequest{
			System: fmt.Sprintf(askSystemTemplate, contextText),
			Prompt: query,
		},
	})
	if !out.OK() {
		return AskResult{Answer: localAnswer(ai.Request{Context: statute}), Source: SourceLocal}
	}
	return AskResult{Answer: out.Value, Source: out.Source}
}

func (s *AssistService) cacheKey(query string) string {
	if s.normalizeKeys {
		return strings.ToLower(strings.TrimSpace(query))
	}
	return query
}

// IntelRequest is a legal intelligence query
type IntelRequest struct {
	CNRNumber  string
	IPCSection string
	Mode       string
}

// IntelResult is the legal intelligence panel payload
type IntelResult struct {
	Type   string `json:"type"`
	Result string `json:"result"`
}

// LegalIntelligence maps an IPC section to BNS or drafts a strategy for a
// case. Known mappings are answered without calling a model.
func (s *AssistService) LegalIntelligence(ctx context.Context, req IntelRequest) (*IntelResult, error) {
	var prompt string
	if req.Mode == ModeMapper && strings.TrimSpace(req.IPCSection) != "" {
		if entry, section, ok := lookup.MapToBNS(req.IPCSection); ok {
			return &IntelResult{Type: IntelStatic, Result: lookup.FormatMapping(section, entry)}, nil
		}
		prompt = fmt.Sprintf(mapperPrompt, req.IPCSection)
	} else {
		if s.cases == nil {
			return nil, ErrMissingDependencies
		}
		rec, err := s.cases.First(ctx, req.CNRNumber)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCaseNotFound
		}
		if err != nil {
			s.logger.Error("load case for strategy", "cnr", req.CNRNumber, "error", err)
			return &IntelResult{Type: IntelFallback, Result: FallbackStrategy}, nil
		}
		prompt = fmt.Sprintf(strategyPrompt, rec.UnderSections, rec.CaseStages)
	}

	out := s.intelChain.Resolve(ctx, ai.Request{
		CacheKey: intelCachePrefix + prompt,
		Generate: ai.GenerateRequest{
			System:      expertSystem,
			Prompt:      prompt,
			Temperature: ai.Float32(intelTemperature),
			MaxTokens:   intelMaxTokens,
		},
	})
	if !out.OK() || out.Tier == ai.TierLocal {
		return &IntelResult{Type: IntelFallback, Result: FallbackStrategy}, nil
	}
	return &IntelResult{Type: IntelAI, Result: out.Value}, nil
}
