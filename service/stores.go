package service

import (
	"context"
	"io"
	"time"

	"nyayamitra-backend/analytics"
	"nyayamitra-backend/models"
	"nyayamitra-backend/repository"

	"github.com/google/uuid"
)

// CaseRecordStore is the final_records access the case services need.
type CaseRecordStore interface {
	History(ctx context.Context, cnr string, newestFirst bool) ([]models.CaseRecord, error)
	First(ctx context.Context, cnr string) (*models.CaseRecord, error)
	Portfolio(ctx context.Context, q repository.PortfolioQuery) ([]models.CaseRecord, error)
	PortfolioStats(ctx context.Context, advocate, search string) (repository.PortfolioStats, error)
	Facets(ctx context.Context, advocate string) ([]repository.CaseFacet, error)
	HearingLoad(ctx context.Context, advocate string, days int) ([]analytics.Count, error)
	AppearanceDates(ctx context.Context, lawyer string, limit int) ([]time.Time, error)
	HomeStats(ctx context.Context) (disposed, active int64, err error)
	UpdateNotes(ctx context.Context, cnr, note string) (int64, error)
	AddReminder(ctx context.Context, cnr string, rem models.Reminder) (models.Reminders, error)
	SetReminderCompleted(ctx context.Context, cnr string, id uuid.UUID, completed bool) (int64, error)
	Upsert(ctx context.Context, u repository.CaseUpsert) error
	DeleteByCNR(ctx context.Context, cnr string) (int64, error)
}

// JudgeStore is the judge-scoped read access over final_records.
type JudgeStore interface {
	FindJudge(ctx context.Context, name string) (string, error)
	JudgeCounts(ctx context.Context, judge string) (repository.JudgeCounts, error)
	JudgePriority(ctx context.Context, judge string) (repository.JudgePriority, error)
	JudgeCases(ctx context.Context, judge string, filter repository.JudgeCaseFilter, limit int) ([]models.CaseRecord, error)
	DecisionYears(ctx context.Context, judge string) ([]analytics.Count, error)
	CaseTypes(ctx context.Context, judge string) ([]analytics.Count, error)
}

// CaseSource reads the raw cases table.
type CaseSource interface {
	ListAfter(ctx context.Context, after string, limit int) ([]models.Case, error)
	Search(ctx context.Context, cnr string, limit int) ([]models.Case, error)
}

// HearingSource reads the raw hearings table.
type HearingSource interface {
	ByCNRs(ctx context.Context, cnrs []string) ([]models.Hearing, error)
}

// InsightStore reads and writes builder output.
type InsightStore interface {
	UpsertBatch(ctx context.Context, insights []models.CaseInsight) error
	GetByCNR(ctx context.Context, cnr string) (*models.CaseInsight, error)
	ListDelayed(ctx context.Context, limit int) ([]models.CaseInsight, error)
}

// InsightNotesStore mirrors lawyer-entered notes and reminders into
// case_insights.
type InsightNotesStore interface {
	CopyUserFields(ctx context.Context, cnr string) error
}

// RunStore tracks analytics runs.
type RunStore interface {
	Create(ctx context.Context, run *models.AnalyticsRun) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.AnalyticsRun, error)
	Start(ctx context.Context, id uuid.UUID) error
	UpdateProgress(ctx context.Context, id uuid.UUID, processed int) error
	Complete(ctx context.Context, id uuid.UUID, processed int) error
	Fail(ctx context.Context, id uuid.UUID, errorMessage string) error
}

// DocumentStore records uploaded case documents.
type DocumentStore interface {
	Create(ctx context.Context, doc *models.CaseDocument) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.CaseDocument, error)
	SetSummary(ctx context.Context, id uuid.UUID, summary string) error
}

// Summarizer sends a document to the summarization service.
type Summarizer interface {
	Summarize(ctx context.Context, filename, contentType string, r io.Reader) (map[string]any, error)
}

var (
	_ CaseRecordStore   = (*repository.CaseRecordRepository)(nil)
	_ JudgeStore        = (*repository.CaseRecordRepository)(nil)
	_ CaseSource        = (*repository.CaseRepository)(nil)
	_ HearingSource     = (*repository.HearingRepository)(nil)
	_ InsightStore      = (*repository.InsightRepository)(nil)
	_ InsightNotesStore = (*repository.InsightRepository)(nil)
	_ RunStore          = (*repository.AnalyticsRunRepository)(nil)
	_ DocumentStore     = (*repository.CaseDocumentRepository)(nil)
)
