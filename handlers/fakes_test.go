package handlers

import (
	"context"
	"io"
	"sync"
	"time"

	"nyayamitra-backend/analytics"
	"nyayamitra-backend/models"
	"nyayamitra-backend/repository"

	"github.com/google/uuid"
)

// memRecords is a small in-memory final_records table.
type memRecords struct {
	mu    sync.Mutex
	rows  []models.CaseRecord
	judge string
}

func (m *memRecords) byCNR(cnr string) []models.CaseRecord {
	var out []models.CaseRecord
	for _, r := range m.rows {
		if r.CNRNumber == cnr {
			out = append(out, r)
		}
	}
	return out
}

func (m *memRecords) History(_ context.Context, cnr string, newestFirst bool) ([]models.CaseRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.byCNR(cnr)
	if newestFirst {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out, nil
}

func (m *memRecords) First(_ context.Context, cnr string) (*models.CaseRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rows := m.byCNR(cnr)
	if len(rows) == 0 {
		return nil, repository.ErrNotFound
	}
	return &rows[0], nil
}

func (m *memRecords) Portfolio(_ context.Context, q repository.PortfolioQuery) ([]models.CaseRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.CaseRecord
	for _, r := range m.rows {
		if r.PetitionerAdvocate == q.Advocate || r.RespondentAdvocate == q.Advocate {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memRecords) PortfolioStats(ctx context.Context, advocate, _ string) (repository.PortfolioStats, error) {
	rows, _ := m.Portfolio(ctx, repository.PortfolioQuery{Advocate: advocate})
	return repository.PortfolioStats{Total: len(rows), Active: len(rows)}, nil
}

func (m *memRecords) Facets(context.Context, string) ([]repository.CaseFacet, error) {
	return nil, nil
}

func (m *memRecords) HearingLoad(context.Context, string, int) ([]analytics.Count, error) {
	return nil, nil
}

func (m *memRecords) AppearanceDates(context.Context, string, int) ([]time.Time, error) {
	return nil, nil
}

func (m *memRecords) HomeStats(context.Context) (int64, int64, error) {
	return 1, 2, nil
}

func (m *memRecords) UpdateNotes(_ context.Context, cnr, note string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for i := range m.rows {
		if m.rows[i].CNRNumber == cnr {
			m.rows[i].PrivateNotes = note
			n++
		}
	}
	return n, nil
}

func (m *memRecords) AddReminder(_ context.Context, cnr string, rem models.Reminder) (models.Reminders, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var list models.Reminders
	for i := range m.rows {
		if m.rows[i].CNRNumber == cnr {
			m.rows[i].Reminders = append(m.rows[i].Reminders, rem)
			list = m.rows[i].Reminders
		}
	}
	if list == nil {
		return nil, repository.ErrNotFound
	}
	return list, nil
}

func (m *memRecords) SetReminderCompleted(context.Context, string, uuid.UUID, bool) (int64, error) {
	return 0, nil
}

func (m *memRecords) Upsert(_ context.Context, u repository.CaseUpsert) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = append(m.rows, models.CaseRecord{
		CNRNumber:          u.CNRNumber,
		UnderSections:      u.UnderSections,
		CaseAge:            u.CaseAge,
		PetitionerAdvocate: u.Advocate,
	})
	return nil
}

func (m *memRecords) DeleteByCNR(_ context.Context, cnr string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.rows[:0]
	var n int64
	for _, r := range m.rows {
		if r.CNRNumber == cnr {
			n++
			continue
		}
		kept = append(kept, r)
	}
	m.rows = kept
	return n, nil
}

func (m *memRecords) FindJudge(_ context.Context, name string) (string, error) {
	if m.judge == "" || name != m.judge {
		return "", repository.ErrNotFound
	}
	return m.judge, nil
}

func (m *memRecords) JudgeCounts(context.Context, string) (repository.JudgeCounts, error) {
	return repository.JudgeCounts{Total: 3, Pending: 2, Disposed: 1}, nil
}

func (m *memRecords) JudgePriority(context.Context, string) (repository.JudgePriority, error) {
	return repository.JudgePriority{}, nil
}

func (m *memRecords) JudgeCases(context.Context, string, repository.JudgeCaseFilter, int) ([]models.CaseRecord, error) {
	return nil, nil
}

func (m *memRecords) DecisionYears(context.Context, string) ([]analytics.Count, error) {
	return nil, nil
}

func (m *memRecords) CaseTypes(context.Context, string) ([]analytics.Count, error) {
	return nil, nil
}

type memCases struct {
	cases []models.Case
}

func (m *memCases) ListAfter(_ context.Context, after string, limit int) ([]models.Case, error) {
	var out []models.Case
	for _, c := range m.cases {
		if c.CNRNumber > after && len(out) < limit {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *memCases) Search(_ context.Context, _ string, limit int) ([]models.Case, error) {
	return m.cases, nil
}

type memHearings struct{}

func (memHearings) ByCNRs(context.Context, []string) ([]models.Hearing, error) {
	return nil, nil
}

type memInsights struct {
	mu     sync.Mutex
	stored map[string]models.CaseInsight
}

func (m *memInsights) UpsertBatch(_ context.Context, insights []models.CaseInsight) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stored == nil {
		m.stored = map[string]models.CaseInsight{}
	}
	for _, in := range insights {
		m.stored[in.CNRNumber] = in
	}
	return nil
}

func (m *memInsights) GetByCNR(_ context.Context, cnr string) (*models.CaseInsight, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	in, ok := m.stored[cnr]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &in, nil
}

func (m *memInsights) ListDelayed(context.Context, int) ([]models.CaseInsight, error) {
	return nil, nil
}

type memRuns struct {
	mu   sync.Mutex
	runs map[uuid.UUID]models.AnalyticsRun
}

func (m *memRuns) update(id uuid.UUID, fn func(*models.AnalyticsRun)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	run, ok := m.runs[id]
	if !ok {
		return repository.ErrNotFound
	}
	fn(&run)
	m.runs[id] = run
	return nil
}

func (m *memRuns) Create(_ context.Context, run *models.AnalyticsRun) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.runs == nil {
		m.runs = map[uuid.UUID]models.AnalyticsRun{}
	}
	run.ID = uuid.New()
	m.runs[run.ID] = *run
	return nil
}

func (m *memRuns) GetByID(_ context.Context, id uuid.UUID) (*models.AnalyticsRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	run, ok := m.runs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &run, nil
}

func (m *memRuns) Start(_ context.Context, id uuid.UUID) error {
	return m.update(id, func(r *models.AnalyticsRun) { r.Status = models.RunStatusInProgress })
}

func (m *memRuns) UpdateProgress(_ context.Context, id uuid.UUID, processed int) error {
	return m.update(id, func(r *models.AnalyticsRun) { r.Processed = processed })
}

func (m *memRuns) Complete(_ context.Context, id uuid.UUID, processed int) error {
	return m.update(id, func(r *models.AnalyticsRun) {
		r.Status = models.RunStatusCompleted
		r.Processed = processed
	})
}

func (m *memRuns) Fail(_ context.Context, id uuid.UUID, msg string) error {
	return m.update(id, func(r *models.AnalyticsRun) {
		r.Status = models.RunStatusFailed
		r.ErrorMessage = &msg
	})
}

type memDocs struct {
	mu   sync.Mutex
	docs map[uuid.UUID]models.CaseDocument
}

func (m *memDocs) Create(_ context.Context, doc *models.CaseDocument) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.docs == nil {
		m.docs = map[uuid.UUID]models.CaseDocument{}
	}
	m.docs[doc.ID] = *doc
	return nil
}

func (m *memDocs) GetByID(_ context.Context, id uuid.UUID) (*models.CaseDocument, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &doc, nil
}

func (m *memDocs) SetSummary(_ context.Context, id uuid.UUID, summary string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[id]
	if !ok {
		return repository.ErrNotFound
	}
	doc.Summary = &summary
	m.docs[id] = doc
	return nil
}

// stubCourt fakes the external court services.
type stubCourt struct {
	causeList map[string]any
	schedule  map[string]any
	err       error
}

func (s *stubCourt) CauseList(context.Context, string) (map[string]any, error) {
	return s.causeList, s.err
}

func (s *stubCourt) SmartSchedule(context.Context, string, string) (map[string]any, error) {
	return s.schedule, s.err
}

func (s *stubCourt) SaveNote(_ context.Context, cnr, note string) (map[string]any, error) {
	if s.err != nil {
		return nil, s.err
	}
	return map[string]any{"cnr": cnr, "note": note}, nil
}

func (s *stubCourt) GetNotes(context.Context, string) (any, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []any{"first note"}, nil
}

type stubSummarizer struct {
	payload map[string]any
	err     error
}

func (s *stubSummarizer) Summarize(_ context.Context, _, _ string, r io.Reader) (map[string]any, error) {
	_, _ = io.Copy(io.Discard, r)
	return s.payload, s.err
}
