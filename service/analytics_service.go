package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"nyayamitra-backend/analytics"
	"nyayamitra-backend/models"
	"nyayamitra-backend/repository"

	"github.com/google/uuid"
)

// DefaultRebuildBatchSize is the number of cases derived per page.
const DefaultRebuildBatchSize = 500

// AnalyticsService rebuilds case_insights from the raw cases and hearings
type AnalyticsService struct {
	cases     CaseSource
	hearings  HearingSource
	insights  InsightStore
	runs      RunStore
	options   analytics.Options
	batchSize int
	logger    *slog.Logger
	now       func() time.Time
}

// AnalyticsServiceOption is a functional option for AnalyticsService
type AnalyticsServiceOption func(*AnalyticsService)

// AnalyticsWithCases sets the raw cases source
func AnalyticsWithCases(cases CaseSource) AnalyticsServiceOption {
	return func(s *AnalyticsService) {
		s.cases = cases
	}
}

// AnalyticsWithHearings sets the raw hearings source
func AnalyticsWithHearings(hearings HearingSource) AnalyticsServiceOption {
	return func(s *AnalyticsService) {
		s.hearings = hearings
	}
}

// AnalyticsWithInsights sets the insight store
func AnalyticsWithInsights(insights InsightStore) AnalyticsServiceOption {
	return func(s *AnalyticsService) {
		s.insights = insights
	}
}

// AnalyticsWithRuns sets the run tracking store
func AnalyticsWithRuns(runs RunStore) AnalyticsServiceOption {
	return func(s *AnalyticsService) {
		s.runs = runs
	}
}

// AnalyticsWithThresholds sets the delay thresholds
func AnalyticsWithThresholds(t analytics.Thresholds) AnalyticsServiceOption {
	return func(s *AnalyticsService) {
		s.options.Thresholds = t
	}
}

// AnalyticsWithHearingOrder sets the order deciding the last hearing
func AnalyticsWithHearingOrder(order analytics.HearingOrder) AnalyticsServiceOption {
	return func(s *AnalyticsService) {
		s.options.Order = order
	}
}

// AnalyticsWithBatchSize sets the page size
func AnalyticsWithBatchSize(n int) AnalyticsServiceOption {
	return func(s *AnalyticsService) {
		if n > 0 {
			s.batchSize = n
		}
	}
}

// AnalyticsWithLogger sets the logger
func AnalyticsWithLogger(l *slog.Logger) AnalyticsServiceOption {
	return func(s *AnalyticsService) {
		s.logger = l
	}
}

// AnalyticsWithClock sets the clock read once per rebuild
func AnalyticsWithClock(now func() time.Time) AnalyticsServiceOption {
	return func(s *AnalyticsService) {
		s.now = now
	}
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(opts ...AnalyticsServiceOption) *AnalyticsService {
	s := &AnalyticsService{
		options:   analytics.Options{Thresholds: analytics.DefaultThresholds()},
		batchSize: DefaultRebuildBatchSize,
		logger:    slog.Default(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Rebuild derives and upserts an insight for every case, one page at a
// time. progress, when set, is called with the running total after each
// page. It returns the number of cases processed.
func (s *AnalyticsService) Rebuild(ctx context.Context, progress func(processed int)) (int, error) {
	if s.cases == nil || s.hearings == nil || s.insights == nil {
		return 0, ErrMissingDependencies
	}

	now := s.now()
	processed := 0
	after := ""
	for {
		page, err := s.cases.ListAfter(ctx, after, s.batchSize)
		if err != nil {
			return processed, fmt.Errorf("failed to load cases: %w", err)
		}
		if len(page) == 0 {
			break
		}

		cnrs := make([]string, len(page))
		for i, c := range page {
			cnrs[i] = c.CNRNumber
		}
		hearings, err := s.hearings.ByCNRs(ctx, cnrs)
		if err != nil {
			return processed, fmt.Errorf("failed to load hearings: %w", err)
		}

		insights := analytics.Build(page, analytics.GroupHearings(hearings), now, s.options)
		if err := s.insights.UpsertBatch(ctx, insights); err != nil {
			return processed, fmt.Errorf("failed to store insights: %w", err)
		}

		processed += len(page)
		after = page[len(page)-1].CNRNumber
		s.logger.Info("insights page stored", "processed", processed)
		if progress != nil {
			progress(processed)
		}
		if len(page) < s.batchSize {
			break
		}
	}
	return processed, nil
}

// CreateRun records a pending rebuild and returns it
func (s *AnalyticsService) CreateRun(ctx context.Context, triggeredBy string) (*models.AnalyticsRun, error) {
	if s.runs == nil {
		return nil, ErrMissingDependencies
	}
	run := &models.AnalyticsRun{
		Status:      models.RunStatusPending,
		TriggeredBy: triggeredBy,
	}
	if err := s.runs.Create(ctx, run); err != nil {
		s.logger.Error("create analytics run", "error", err)
		return nil, ErrRunCreationFailed
	}
	return run, nil
}

// ProcessRun performs a tracked rebuild. It is meant to run in the
// background after CreateRun.
func (s *AnalyticsService) ProcessRun(ctx context.Context, runID uuid.UUID) error {
	if s.runs == nil {
		return ErrMissingDependencies
	}
	if err := s.runs.Start(ctx, runID); err != nil {
		return fmt.Errorf("failed to update run status: %w", err)
	}

	processed, err := s.Rebuild(ctx, func(n int) {
		if err := s.runs.UpdateProgress(ctx, runID, n); err != nil {
			s.logger.Warn("update run progress", "run", runID, "error", err)
		}
	})
	if err != nil {
		s.markRunFailed(ctx, runID, err.Error())
		return err
	}

	if err := s.runs.Complete(ctx, runID, processed); err != nil {
		return fmt.Errorf("failed to complete run: %w", err)
	}
	s.logger.Info("analytics run completed", "run", runID, "processed", processed)
	return nil
}

// GetRun retrieves a run by ID
func (s *AnalyticsService) GetRun(ctx context.Context, id uuid.UUID) (*models.AnalyticsRun, error) {
	if s.runs == nil {
		return nil, ErrMissingDependencies
	}
	run, err := s.runs.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrRunNotFound
	}
	return run, err
}

// Insight returns the stored insight for a case
func (s *AnalyticsService) Insight(ctx context.Context, cnr string) (*models.CaseInsight, error) {
	if s.insights == nil {
		return nil, ErrMissingDependencies
	}
	insight, err := s.insights.GetByCNR(ctx, cnr)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrCaseNotFound
	}
	return insight, err
}

func (s *AnalyticsService) markRunFailed(ctx context.Context, runID uuid.UUID, msg string) {
	if err := s.runs.Fail(ctx, runID, msg); err != nil {
		s.logger.Error("mark analytics run failed", "run", runID, "error", err)
	}
}
