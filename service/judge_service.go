package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"nyayamitra-backend/models"
	"nyayamitra-backend/repository"

	"golang.org/x/sync/errgroup"
)

const (
	judgeDashboardLimit = 50
	judgeListLimit      = 500
	judgeAlertLimit     = 5

	// riskCutoffYear separates old pending cases from recent ones.
	riskCutoffYear = 2018
)

// JudgeService answers the judge dashboard
type JudgeService struct {
	judges   JudgeStore
	cases    CaseSource
	insights InsightStore
	logger   *slog.Logger
}

// JudgeServiceOption is a functional option for JudgeService
type JudgeServiceOption func(*JudgeService)

// JudgeWithStore sets the judge-scoped records store
func JudgeWithStore(store JudgeStore) JudgeServiceOption {
	return func(s *JudgeService) {
		s.judges = store
	}
}

// JudgeWithCases sets the raw cases source
func JudgeWithCases(cases CaseSource) JudgeServiceOption {
	return func(s *JudgeService) {
		s.cases = cases
	}
}

// JudgeWithInsights sets the insight store used for alerts
func JudgeWithInsights(insights InsightStore) JudgeServiceOption {
	return func(s *JudgeService) {
		s.insights = insights
	}
}

// JudgeWithLogger sets the logger
func JudgeWithLogger(l *slog.Logger) JudgeServiceOption {
	return func(s *JudgeService) {
		s.logger = l
	}
}

// NewJudgeService creates a new judge service
func NewJudgeService(opts ...JudgeServiceOption) *JudgeService {
	s := &JudgeService{logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Login resolves a judge name against the records and returns the name
// the session should carry.
func (s *JudgeService) Login(ctx context.Context, name string) (string, error) {
	if s.judges == nil {
		return "", ErrMissingDependencies
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: judge name required", ErrInvalidInput)
	}
	judge, err := s.judges.FindJudge(ctx, name)
	if errors.Is(err, repository.ErrNotFound) {
		return "", ErrJudgeNotFound
	}
	if err != nil {
		return "", err
	}
	s.logger.Info("judge logged in", "judge", judge)
	return judge, nil
}

// RiskSummary buckets dashboard cases by age and status.
type RiskSummary struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

// Alert flags a case that needs the judge's attention.
type Alert struct {
	CNR     string `json:"cnr"`
	Message string `json:"message"`
}

// JudgeDashboard is the judge landing view.
type JudgeDashboard struct {
	JudgeName   string        `json:"judgeName"`
	Cases       []models.Case `json:"cases"`
	RiskSummary RiskSummary   `json:"riskSummary"`
	Alerts      []Alert       `json:"alerts"`
}

// Dashboard loads up to 50 raw cases, optionally filtered by CNR, and
// alerts for the longest delayed cases.
func (s *JudgeService) Dashboard(ctx context.Context, judge, cnr string) (*JudgeDashboard, error) {
	if s.cases == nil || s.insights == nil {
		return nil, ErrMissingDependencies
	}

	var (
		cases   []models.Case
		delayed []models.CaseInsight
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		cases, err = s.cases.Search(gctx, strings.TrimSpace(cnr), judgeDashboardLimit)
		return err
	})
	g.Go(func() error {
		var err error
		delayed, err = s.insights.ListDelayed(gctx, judgeAlertLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &JudgeDashboard{
		JudgeName:   judge,
		Cases:       cases,
		RiskSummary: SummarizeRisk(cases),
		Alerts:      make([]Alert, 0, len(delayed)),
	}
	if out.Cases == nil {
		out.Cases = []models.Case{}
	}
	for _, d := range delayed {
		out.Alerts = append(out.Alerts, Alert{
			CNR: d.CNRNumber,
			Message: fmt.Sprintf("Case %s needs urgent review: %d hearings, pending %d days",
				d.CNRNumber, d.TotalHearings, d.PendencyDays),
		})
	}
	return out, nil
}

// SummarizeRisk counts old pending cases as high risk, recent pending
// cases as medium and disposed cases as low. Pending cases without a year
// count as neither.
func SummarizeRisk(cases []models.Case) RiskSummary {
	var r RiskSummary
	for _, c := range cases {
		switch c.CurrentStatus {
		case "Pending":
			if c.Year == nil {
				continue
			}
			if *c.Year < riskCutoffYear {
				r.High++
			} else {
				r.Medium++
			}
		case "Disposed":
			r.Low++
		}
	}
	return r
}

// Counts tallies the judge's rows by status.
func (s *JudgeService) Counts(ctx context.Context, judge string) (repository.JudgeCounts, error) {
	if s.judges == nil {
		return repository.JudgeCounts{}, ErrMissingDependencies
	}
	return s.judges.JudgeCounts(ctx, judge)
}

// Priority splits the judge's rows into priority bands.
func (s *JudgeService) Priority(ctx context.Context, judge string) (repository.JudgePriority, error) {
	if s.judges == nil {
		return repository.JudgePriority{}, ErrMissingDependencies
	}
	return s.judges.JudgePriority(ctx, judge)
}

// Cases lists the judge's rows for one of the list pages.
func (s *JudgeService) Cases(ctx context.Context, judge string, filter repository.JudgeCaseFilter) ([]models.CaseRecord, error) {
	if s.judges == nil {
		return nil, ErrMissingDependencies
	}
	recs, err := s.judges.JudgeCases(ctx, judge, filter, judgeListLimit)
	if err != nil {
		return nil, err
	}
	if recs == nil {
		recs = []models.CaseRecord{}
	}
	return recs, nil
}

// DisposalSeries is the year-wise disposal chart.
type DisposalSeries struct {
	Years  []string `json:"years"`
	Counts []int    `json:"counts"`
}

// LiveAnalytics feeds the judge analytics charts.
type LiveAnalytics struct {
	Disposal  DisposalSeries `json:"disposal"`
	CaseTypes map[string]int `json:"caseTypes"`
}

// Analytics builds the year-wise disposal series and the case type split.
func (s *JudgeService) Analytics(ctx context.Context, judge string) (*LiveAnalytics, error) {
	if s.judges == nil {
		return nil, ErrMissingDependencies
	}

	out := &LiveAnalytics{
		Disposal:  DisposalSeries{Years: []string{}, Counts: []int{}},
		CaseTypes: map[string]int{},
	}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		years, err := s.judges.DecisionYears(gctx, judge)
		if err != nil {
			return err
		}
		for _, y := range years {
			out.Disposal.Years = append(out.Disposal.Years, y.Label)
			out.Disposal.Counts = append(out.Disposal.Counts, y.Count)
		}
		return nil
	})
	g.Go(func() error {
		types, err := s.judges.CaseTypes(gctx, judge)
		if err != nil {
			return err
		}
		for _, t := range types {
			out.CaseTypes[t.Label] = t.Count
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// DelayedCases lists insights flagged as delayed, longest pending first.
func (s *JudgeService) DelayedCases(ctx context.Context) ([]models.CaseInsight, error) {
	if s.insights == nil {
		return nil, ErrMissingDependencies
	}
	delayed, err := s.insights.ListDelayed(ctx, judgeListLimit)
	if err != nil {
		return nil, err
	}
	if delayed == nil {
		delayed = []models.CaseInsight{}
	}
	return delayed, nil
}
