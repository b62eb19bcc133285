package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"nyayamitra-backend/analytics"
	"nyayamitra-backend/models"
	"nyayamitra-backend/repository"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	// PortfolioPageSize is the number of cases per lawyer dashboard page.
	PortfolioPageSize = 6

	appearanceDateLimit = 5
	hearingLoadDays     = 15
	topStages           = 5

	defaultExplanation = "Standard court procedures."
	pendingStage       = "Pending"
)

var stageExplanations = map[string]string{
	"Admission":         "The court is deciding if your case has enough merit to be heard.",
	"Evidence":          "Both sides are presenting documents and witnesses to prove their facts.",
	"Orders / Judgment": "The judge is writing the final decision for your case.",
	"Arguments":         "Lawyers from both sides are giving their final summaries to the judge.",
}

// CaseService answers the citizen and lawyer views over final_records
type CaseService struct {
	records    CaseRecordStore
	insights   InsightNotesStore
	thresholds analytics.Thresholds
	logger     *slog.Logger
}

// CaseServiceOption is a functional option for CaseService
type CaseServiceOption func(*CaseService)

// CaseWithRecords sets the final records store
func CaseWithRecords(store CaseRecordStore) CaseServiceOption {
	return func(s *CaseService) {
		s.records = store
	}
}

// CaseWithInsights sets the store that receives copies of notes and
// reminders
func CaseWithInsights(store InsightNotesStore) CaseServiceOption {
	return func(s *CaseService) {
		s.insights = store
	}
}

// CaseWithThresholds sets the thresholds used by the rule-based brief
func CaseWithThresholds(t analytics.Thresholds) CaseServiceOption {
	return func(s *CaseService) {
		s.thresholds = t
	}
}

// CaseWithLogger sets the logger
func CaseWithLogger(l *slog.Logger) CaseServiceOption {
	return func(s *CaseService) {
		s.logger = l
	}
}

// NewCaseService creates a new case service
func NewCaseService(opts ...CaseServiceOption) *CaseService {
	s := &CaseService{
		thresholds: analytics.DefaultThresholds(),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// HistoryEntry is one step on the citizen timeline.
type HistoryEntry struct {
	Date    *time.Time `json:"date"`
	Stage   string     `json:"stage"`
	Purpose string     `json:"purpose"`
}

// CaseLookup is the citizen view of a case.
type CaseLookup struct {
	CNR           string         `json:"cnr"`
	Status        string         `json:"status"`
	CurrentStage  string         `json:"currentStage"`
	Explanation   string         `json:"explanation"`
	NextHearing   *time.Time     `json:"nextHearing"`
	CourtLocation string         `json:"courtLocation"`
	History       []HistoryEntry `json:"history"`
}

// Lookup builds the citizen view of a case from its newest row.
func (s *CaseService) Lookup(ctx context.Context, cnr string) (*CaseLookup, error) {
	history, err := s.history(ctx, cnr, true)
	if err != nil {
		return nil, err
	}

	latest := history[0]
	status := "In Progress"
	if latest.Disposed() {
		status = "Completed"
	}
	explanation, ok := stageExplanations[latest.CaseStages]
	if !ok {
		explanation = defaultExplanation
	}

	out := &CaseLookup{
		CNR:           latest.CNRNumber,
		Status:        status,
		CurrentStage:  latest.CaseStages,
		Explanation:   explanation,
		NextHearing:   latest.NextHearingDate,
		CourtLocation: fmt.Sprintf("Hall %s, %s", latest.CourtHallNumber, latest.CourtName),
		History:       make([]HistoryEntry, 0, len(history)),
	}
	for _, h := range history {
		out.History = append(out.History, HistoryEntry{
			Date:    h.HearingDate,
			Stage:   h.CaseStages,
			Purpose: h.PurposeOfHearing,
		})
	}
	return out, nil
}

func (s *CaseService) history(ctx context.Context, cnr string, newestFirst bool) ([]models.CaseRecord, error) {
	if s.records == nil {
		return nil, ErrMissingDependencies
	}
	history, err := s.records.History(ctx, strings.TrimSpace(cnr), newestFirst)
	if err != nil {
		return nil, err
	}
	if len(history) == 0 {
		return nil, ErrCaseNotFound
	}
	return history, nil
}

// HomeStats are the landing page counters.
type HomeStats struct {
	DisposedCases int64 `json:"disposedCases"`
	ActiveCases   int64 `json:"activeCases"`
}

// HomeStats counts disposed and active rows across the dataset.
func (s *CaseService) HomeStats(ctx context.Context) (*HomeStats, error) {
	if s.records == nil {
		return nil, ErrMissingDependencies
	}
	disposed, active, err := s.records.HomeStats(ctx)
	if err != nil {
		return nil, err
	}
	return &HomeStats{DisposedCases: disposed, ActiveCases: active}, nil
}

// DashboardRequest represents a lawyer dashboard query
type DashboardRequest struct {
	Lawyer string
	Search string
	Page   int
}

// DashboardResult is one page of a lawyer's portfolio
type DashboardResult struct {
	LawyerName  string                    `json:"lawyerName"`
	SearchQuery string                    `json:"searchQuery"`
	Cases       []models.CaseRecord       `json:"cases"`
	Stats       repository.PortfolioStats `json:"stats"`
	CurrentPage int                       `json:"currentPage"`
	TotalPages  int                       `json:"totalPages"`
}

// Dashboard loads a page of the portfolio and its stats concurrently.
func (s *CaseService) Dashboard(ctx context.Context, req DashboardRequest) (*DashboardResult, error) {
	if s.records == nil {
		return nil, ErrMissingDependencies
	}
	if strings.TrimSpace(req.Lawyer) == "" {
		return nil, fmt.Errorf("%w: lawyer name is required", ErrInvalidInput)
	}
	page := req.Page
	if page < 1 {
		page = 1
	}

	var (
		cases []models.CaseRecord
		stats repository.PortfolioStats
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		cases, err = s.records.Portfolio(gctx, repository.PortfolioQuery{
			Advocate: req.Lawyer,
			Search:   req.Search,
			Limit:    PortfolioPageSize,
			Offset:   (page - 1) * PortfolioPageSize,
		})
		return err
	})
	g.Go(func() error {
		var err error
		stats, err = s.records.PortfolioStats(gctx, req.Lawyer, req.Search)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if cases == nil {
		cases = []models.CaseRecord{}
	}
	return &DashboardResult{
		LawyerName:  req.Lawyer,
		SearchQuery: req.Search,
		Cases:       cases,
		Stats:       stats,
		CurrentPage: page,
		TotalPages:  (stats.Total + PortfolioPageSize - 1) / PortfolioPageSize,
	}, nil
}

// CaseDetails is the first row of a case with rollups over all its rows.
type CaseDetails struct {
	models.CaseRecord
	TotalHearings  int                 `json:"totalHearings"`
	LastStage      string              `json:"lastStage"`
	CaseState      string              `json:"caseState"`
	HearingHistory []models.CaseRecord `json:"hearingHistory"`
}

// Details returns a case with its full hearing history, oldest first.
func (s *CaseService) Details(ctx context.Context, cnr string) (*CaseDetails, error) {
	history, err := s.history(ctx, cnr, false)
	if err != nil {
		return nil, err
	}

	lastStage := history[len(history)-1].CaseStages
	if lastStage == "" {
		lastStage = pendingStage
	}
	state := "Pending"
	for _, h := range history {
		if h.Disposed() {
			state = "Disposed"
			break
		}
	}

	return &CaseDetails{
		CaseRecord:     history[0],
		TotalHearings:  len(history),
		LastStage:      lastStage,
		CaseState:      state,
		HearingHistory: history,
	}, nil
}

// UpsertCaseRequest is a case registered or edited by a lawyer
type UpsertCaseRequest struct {
	Lawyer          string
	CNRNumber       string
	CaseNumber      string
	ClientNames     string
	CourtName       string
	CourtState      string
	Stage           string
	UnderActs       []string
	UnderSections   []string
	NextHearingDate *time.Time
	CaseAge         string
}

// Upsert registers a case under the lawyer as petitioner advocate, or
// updates every row of an existing case.
func (s *CaseService) Upsert(ctx context.Context, req UpsertCaseRequest) (*models.CaseRecord, error) {
	if s.records == nil {
		return nil, ErrMissingDependencies
	}
	cnr := strings.ToUpper(strings.TrimSpace(req.CNRNumber))
	if cnr == "" {
		return nil, fmt.Errorf("%w: cnrNumber is required", ErrInvalidInput)
	}

	age, err := strconv.Atoi(strings.TrimSpace(req.CaseAge))
	if err != nil {
		age = 0
	}

	err = s.records.Upsert(ctx, repository.CaseUpsert{
		CNRNumber:       cnr,
		CaseNumber:      req.CaseNumber,
		ClientNames:     req.ClientNames,
		CourtName:       req.CourtName,
		CourtState:      req.CourtState,
		CaseStages:      req.Stage,
		UnderActs:       strings.Join(req.UnderActs, ", "),
		UnderSections:   strings.Join(req.UnderSections, ", "),
		NextHearingDate: req.NextHearingDate,
		CaseAge:         strconv.Itoa(age),
		Advocate:        req.Lawyer,
	})
	if err != nil {
		return nil, err
	}

	return s.records.First(ctx, cnr)
}

// Delete removes every row of a case and returns how many were removed.
func (s *CaseService) Delete(ctx context.Context, cnr string) (int64, error) {
	if s.records == nil {
		return 0, ErrMissingDependencies
	}
	n, err := s.records.DeleteByCNR(ctx, cnr)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, ErrCaseNotFound
	}
	return n, nil
}

// UpdateNote writes a private note onto every row of a case.
func (s *CaseService) UpdateNote(ctx context.Context, cnr, note string) error {
	if s.records == nil {
		return ErrMissingDependencies
	}
	if strings.TrimSpace(cnr) == "" {
		return fmt.Errorf("%w: cnrNumber is required", ErrInvalidInput)
	}
	n, err := s.records.UpdateNotes(ctx, cnr, note)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrCaseNotFound
	}
	s.logger.Info("private note updated", "cnr", cnr, "rows", n)
	s.syncInsight(ctx, cnr)
	return nil
}

// AddReminder attaches a new open reminder to every row of a case and
// returns the case's reminders.
func (s *CaseService) AddReminder(ctx context.Context, cnr, text string, at time.Time) (models.Reminders, error) {
	if s.records == nil {
		return nil, ErrMissingDependencies
	}
	if strings.TrimSpace(cnr) == "" || strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: cnrNumber and text are required", ErrInvalidInput)
	}

	rem := models.Reminder{
		ID:       uuid.New(),
		Text:     text,
		DateTime: at,
	}
	list, err := s.records.AddReminder(ctx, cnr, rem)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrCaseNotFound
	}
	if err != nil {
		return nil, err
	}
	s.syncInsight(ctx, cnr)
	return list, nil
}

// ToggleReminder sets the completion state of a reminder.
func (s *CaseService) ToggleReminder(ctx context.Context, cnr string, id uuid.UUID, completed bool) error {
	if s.records == nil {
		return ErrMissingDependencies
	}
	n, err := s.records.SetReminderCompleted(ctx, cnr, id, completed)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrReminderNotFound
	}
	s.syncInsight(ctx, cnr)
	return nil
}

// syncInsight copies a case's notes and reminders into its insight.
// final_records stays authoritative, so a failed copy is only logged.
func (s *CaseService) syncInsight(ctx context.Context, cnr string) {
	if s.insights == nil {
		return
	}
	if err := s.insights.CopyUserFields(ctx, cnr); err != nil {
		s.logger.Warn("copy notes to insight", "cnr", cnr, "error", err)
	}
}

// Brief runs the rule-based assessment over a case's rows.
func (s *CaseService) Brief(ctx context.Context, cnr string) (*analytics.Brief, error) {
	history, err := s.history(ctx, cnr, false)
	if err != nil {
		return nil, err
	}
	brief := analytics.BuildBrief(&history[0], len(history), s.thresholds)
	return &brief, nil
}

// PortfolioCharts are the four series on the lawyer reports page.
type PortfolioCharts struct {
	RiskData    []analytics.Count `json:"riskData"`
	StageData   []analytics.Count `json:"stageData"`
	OutcomeData []analytics.Count `json:"outcomeData"`
	LoadData    []analytics.Count `json:"loadData"`
}

// Charts aggregates a lawyer's portfolio, one value per case.
func (s *CaseService) Charts(ctx context.Context, lawyer string) (*PortfolioCharts, error) {
	if s.records == nil {
		return nil, ErrMissingDependencies
	}

	var (
		facets []repository.CaseFacet
		load   []analytics.Count
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		facets, err = s.records.Facets(gctx, lawyer)
		return err
	})
	g.Go(func() error {
		var err error
		load, err = s.records.HearingLoad(gctx, lawyer, hearingLoadDays)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ages := make([]float64, 0, len(facets))
	stages := make([]string, 0, len(facets))
	var outcomes []string
	for _, f := range facets {
		ages = append(ages, analytics.ParseCaseAge(f.CaseAge))
		stages = append(stages, f.Stage)
		if f.Disposed {
			outcomes = append(outcomes, f.Outcome)
		}
	}

	if load == nil {
		load = []analytics.Count{}
	}
	return &PortfolioCharts{
		RiskData:    nonNil(analytics.BucketValues(ages, analytics.CaseAgeBoundaries)),
		StageData:   nonNil(analytics.TopValues(stages, topStages)),
		OutcomeData: nonNil(analytics.CountValues(outcomes)),
		LoadData:    load,
	}, nil
}

func nonNil(c []analytics.Count) []analytics.Count {
	if c == nil {
		return []analytics.Count{}
	}
	return c
}

// AppearanceDates lists the most recent hearing dates where the lawyer
// appears on either side.
func (s *CaseService) AppearanceDates(ctx context.Context, lawyer string) ([]time.Time, error) {
	if s.records == nil {
		return nil, ErrMissingDependencies
	}
	if strings.TrimSpace(lawyer) == "" {
		return []time.Time{}, nil
	}
	dates, err := s.records.AppearanceDates(ctx, lawyer, appearanceDateLimit)
	if err != nil {
		return nil, err
	}
	if dates == nil {
		dates = []time.Time{}
	}
	return dates, nil
}

// CaseSummary returns the first row of a case.
func (s *CaseService) CaseSummary(ctx context.Context, cnr string) (*models.CaseRecord, error) {
	if s.records == nil {
		return nil, ErrMissingDependencies
	}
	rec, err := s.records.First(ctx, cnr)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrCaseNotFound
	}
	return rec, err
}
