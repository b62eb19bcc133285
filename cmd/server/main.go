package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"nyayamitra-backend/ai"
	"nyayamitra-backend/cache"
	"nyayamitra-backend/config"
	"nyayamitra-backend/handlers"
	"nyayamitra-backend/integrations"
	"nyayamitra-backend/lookup"
	"nyayamitra-backend/repository"
	"nyayamitra-backend/service"
	"nyayamitra-backend/session"
	"nyayamitra-backend/storage"
	"nyayamitra-backend/telemetry"

	"github.com/gin-gonic/gin"
	"github.com/google/generative-ai-go/genai"
	"github.com/jackc/pgx/v5/pgxpool"
	"google.golang.org/api/option"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	gin.SetMode(cfg.Server.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.OTLPEndpoint)
	if err != nil {
		log.Printf("Warning: Tracing disabled: %v", err)
		shutdownTracing = func(context.Context) error { return nil }
	}

	// Initialize database connections
	db, err := initPostgres(ctx, cfg.Database)
	if err != nil {
		log.Fatal("Failed to initialize Postgres:", err)
	}
	defer db.Close()

	if err := repository.EnsureSchema(ctx, db); err != nil {
		log.Printf("Warning: Failed to ensure schema: %v", err)
	}

	// Initialize storage
	fileStorage, err := storage.New(ctx, storage.Config{
		Type:         storage.Type(cfg.Storage.Type),
		LocalPath:    cfg.Storage.LocalPath,
		S3Bucket:     cfg.Storage.S3Bucket,
		S3Region:     cfg.Storage.S3Region,
		AWSAccessKey: cfg.Storage.AWSAccessKey,
		AWSSecretKey: cfg.Storage.AWSSecretKey,
	})
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	log.Println("Storage initialized")

	// Initialize repositories
	recordRepo := repository.NewCaseRecordRepository(db)
	caseRepo := repository.NewCaseRepository(db)
	hearingRepo := repository.NewHearingRepository(db)
	insightRepo := repository.NewInsightRepository(db)
	runRepo := repository.NewAnalyticsRunRepository(db)
	docRepo := repository.NewCaseDocumentRepository(db)

	statutes, err := lookup.LoadStatutes(cfg.AI.StatutesPath)
	if err != nil {
		log.Fatalf("Failed to load statutes: %v", err)
	}

	logger := slog.Default()
	thresholds := cfg.Analytics.Thresholds()

	// Initialize AI providers
	geminiClient, err := initGemini(ctx, cfg.AI)
	if err != nil {
		log.Printf("Warning: Gemini unavailable: %v", err)
	}
	if geminiClient != nil {
		defer geminiClient.Close()
	}

	assistOpts := []service.AssistServiceOption{
		service.AssistWithStatutes(statutes),
		service.AssistWithCases(recordRepo),
		service.AssistWithCache(cache.NewMemoryCache(cfg.AI.CacheTTL, 10*time.Minute), cfg.AI.CacheTTL),
		service.AssistWithNormalizedKeys(cfg.AI.NormalizeCacheKeys),
		service.AssistWithLogger(logger),
	}
	if geminiClient != nil {
		assistOpts = append(assistOpts, service.AssistWithPrimary(ai.NewGeminiProvider(geminiClient, cfg.AI.GeminiModel)))
	}
	if source, provider := secondaryProvider(cfg.AI); provider != nil {
		assistOpts = append(assistOpts, service.AssistWithSecondary(source, provider))
	}
	if cfg.AI.GroqAPIKey != "" {
		assistOpts = append(assistOpts, service.AssistWithStrategyModels(
			ai.NewGroqProvider(cfg.AI.GroqAPIKey, cfg.AI.GroqPrimaryModel, ai.GroqWithEndpoint(cfg.AI.GroqEndpoint)),
			ai.NewGroqProvider(cfg.AI.GroqAPIKey, cfg.AI.GroqSecondaryModel, ai.GroqWithEndpoint(cfg.AI.GroqEndpoint)),
		))
	} else {
		log.Printf("Warning: GROQ_API_KEY not set, strategy briefs use the local fallback")
	}

	court := integrations.NewClient(integrations.Config{
		CauseListURL:     cfg.Integrations.CauseListURL,
		SmartScheduleURL: cfg.Integrations.SmartScheduleURL,
		NotesURL:         cfg.Integrations.NotesURL,
		SummarizerURL:    cfg.Integrations.SummarizerURL,
		Timeout:          cfg.Integrations.Timeout,
	})

	// Initialize services
	caseService := service.NewCaseService(
		service.CaseWithRecords(recordRepo),
		service.CaseWithInsights(insightRepo),
		service.CaseWithThresholds(thresholds),
		service.CaseWithLogger(logger),
	)
	assistService := service.NewAssistService(assistOpts...)
	judgeService := service.NewJudgeService(
		service.JudgeWithStore(recordRepo),
		service.JudgeWithCases(caseRepo),
		service.JudgeWithInsights(insightRepo),
		service.JudgeWithLogger(logger),
	)
	analyticsService := service.NewAnalyticsService(
		service.AnalyticsWithCases(caseRepo),
		service.AnalyticsWithHearings(hearingRepo),
		service.AnalyticsWithInsights(insightRepo),
		service.AnalyticsWithRuns(runRepo),
		service.AnalyticsWithThresholds(thresholds),
		service.AnalyticsWithBatchSize(cfg.Analytics.BatchSize),
		service.AnalyticsWithLogger(logger),
	)
	documentService := service.NewDocumentService(
		service.DocumentWithSummarizer(court),
		service.DocumentWithRecords(docRepo),
		service.DocumentWithStorage(fileStorage),
		service.DocumentWithLogger(logger),
	)

	sessions := session.NewManager(
		session.NewMemoryStore(10*time.Minute),
		session.NewTokenCodec(cfg.Session.Secret),
		session.WithCookieName(cfg.Session.CookieName),
		session.WithTTL(cfg.Session.TTL),
		session.WithSecureCookie(cfg.Session.SecureCookie),
	)

	// Initialize handlers
	routes := handlers.Routes{
		Citizen:      handlers.NewCitizenHandler(caseService),
		Lawyer:       handlers.NewLawyerHandler(caseService, assistService, documentService, court, sessions),
		Judge:        handlers.NewJudgeHandler(judgeService, court, sessions),
		Assist:       handlers.NewAssistHandler(assistService),
		Court:        handlers.NewCourtHandler(court),
		Analytics:    handlers.NewAnalyticsHandler(analyticsService),
		Documents:    handlers.NewDocumentHandler(documentService),
		Sessions:     sessions,
		AdminKeyHash: cfg.Admin.KeyHash,
	}
	if cfg.Admin.KeyHash == "" {
		log.Printf("Warning: ADMIN_KEY_HASH not set, admin routes are disabled")
	}

	// Setup Gin router
	r := gin.Default()
	routes.Register(r)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	go func() {
		log.Printf("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server:", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Printf("Warning: Failed to flush traces: %v", err)
	}
}

func initPostgres(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, err
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	log.Println("Connected to Postgres")
	return pool, nil
}

// initGemini returns nil without an error when no API key is configured.
func initGemini(ctx context.Context, cfg config.AIConfig) (*genai.Client, error) {
	if cfg.GeminiAPIKey == "" {
		log.Printf("Warning: GEMINI_API_KEY not set, Ask Nyaya skips Gemini")
		return nil, nil
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiAPIKey))
	if err != nil {
		return nil, err
	}

	log.Println("Connected to Gemini")
	return client, nil
}

func secondaryProvider(cfg config.AIConfig) (string, ai.Provider) {
	switch cfg.Secondary {
	case config.SecondaryAnthropic:
		if cfg.AnthropicAPIKey == "" {
			return "", nil
		}
		return service.SourceClaude, ai.NewAnthropicProvider(cfg.AnthropicAPIKey, cfg.AnthropicModel)
	default:
		if cfg.HFToken == "" {
			return "", nil
		}
		return service.SourceHuggingFace, ai.NewHuggingFaceProvider(cfg.HFToken, ai.HuggingFaceWithEndpoint(cfg.HFEndpoint))
	}
}
