package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"sync"
	"time"

	"nyayamitra-backend/analytics"
	"nyayamitra-backend/models"
	"nyayamitra-backend/repository"

	"github.com/google/uuid"
)

var errBoom = errors.New("boom")

func datePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func intPtr(v int) *int { return &v }

// fakeRecords keeps final_records rows in memory, in insertion order.
type fakeRecords struct {
	mu   sync.Mutex
	rows []models.CaseRecord

	portfolio   []models.CaseRecord
	stats       repository.PortfolioStats
	facets      []repository.CaseFacet
	load        []analytics.Count
	appearances []time.Time
	judge       string
	years       []analytics.Count
	types       []analytics.Count
	upserts     []repository.CaseUpsert
	err         error
}

func (f *fakeRecords) byCNR(cnr string) []models.CaseRecord {
	var out []models.CaseRecord
	for _, r := range f.rows {
		if r.CNRNumber == cnr {
			out = append(out, r)
		}
	}
	return out
}

func (f *fakeRecords) History(_ context.Context, cnr string, newestFirst bool) ([]models.CaseRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := f.byCNR(cnr)
	if newestFirst {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out, nil
}

func (f *fakeRecords) First(_ context.Context, cnr string) (*models.CaseRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	rows := f.byCNR(cnr)
	if len(rows) == 0 {
		return nil, repository.ErrNotFound
	}
	return &rows[0], nil
}

func (f *fakeRecords) Portfolio(context.Context, repository.PortfolioQuery) ([]models.CaseRecord, error) {
	return f.portfolio, f.err
}

func (f *fakeRecords) PortfolioStats(context.Context, string, string) (repository.PortfolioStats, error) {
	return f.stats, f.err
}

func (f *fakeRecords) Facets(context.Context, string) ([]repository.CaseFacet, error) {
	return f.facets, f.err
}

func (f *fakeRecords) HearingLoad(context.Context, string, int) ([]analytics.Count, error) {
	return f.load, f.err
}

func (f *fakeRecords) AppearanceDates(_ context.Context, _ string, limit int) ([]time.Time, error) {
	if len(f.appearances) > limit {
		return f.appearances[:limit], f.err
	}
	return f.appearances, f.err
}

func (f *fakeRecords) HomeStats(context.Context) (int64, int64, error) {
	var disposed, active int64
	for i := range f.rows {
		if f.rows[i].Disposed() {
			disposed++
		} else {
			active++
		}
	}
	return disposed, active, f.err
}

func (f *fakeRecords) UpdateNotes(_ context.Context, cnr, note string) (int64, error) {
	var n int64
	for i := range f.rows {
		if f.rows[i].CNRNumber == cnr {
			f.rows[i].PrivateNotes = note
			n++
		}
	}
	return n, f.err
}

func (f *fakeRecords) AddReminder(_ context.Context, cnr string, rem models.Reminder) (models.Reminders, error) {
	var list models.Reminders
	found := false
	for i := range f.rows {
		if f.rows[i].CNRNumber == cnr {
			f.rows[i].Reminders = append(f.rows[i].Reminders, rem)
			list = f.rows[i].Reminders
			found = true
		}
	}
	if !found {
		return nil, repository.ErrNotFound
	}
	return list, nil
}

func (f *fakeRecords) SetReminderCompleted(_ context.Context, cnr string, id uuid.UUID, completed bool) (int64, error) {
	var n int64
	for i := range f.rows {
		if f.rows[i].CNRNumber != cnr {
			continue
		}
		for j := range f.rows[i].Reminders {
			if f.rows[i].Reminders[j].ID == id {
				f.rows[i].Reminders[j].Completed = completed
				n++
			}
		}
	}
	return n, nil
}

func (f *fakeRecords) Upsert(_ context.Context, u repository.CaseUpsert) error {
	if f.err != nil {
		return f.err
	}
	f.upserts = append(f.upserts, u)
	if len(f.byCNR(u.CNRNumber)) == 0 {
		f.rows = append(f.rows, models.CaseRecord{
			CNRNumber:          u.CNRNumber,
			CaseStages:         u.CaseStages,
			PetitionerAdvocate: u.Advocate,
			CaseAge:            u.CaseAge,
		})
		return nil
	}
	for i := range f.rows {
		if f.rows[i].CNRNumber == u.CNRNumber {
			f.rows[i].CaseStages = u.CaseStages
			f.rows[i].CaseAge = u.CaseAge
		}
	}
	return nil
}

func (f *fakeRecords) DeleteByCNR(_ context.Context, cnr string) (int64, error) {
	kept := f.rows[:0]
	var n int64
	for _, r := range f.rows {
		if r.CNRNumber == cnr {
			n++
			continue
		}
		kept = append(kept, r)
	}
	f.rows = kept
	return n, f.err
}

func (f *fakeRecords) FindJudge(_ context.Context, name string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if f.judge == "" || f.judge != name {
		return "", repository.ErrNotFound
	}
	return f.judge, nil
}

func (f *fakeRecords) JudgeCounts(context.Context, string) (repository.JudgeCounts, error) {
	return repository.JudgeCounts{Total: len(f.rows)}, f.err
}

func (f *fakeRecords) JudgePriority(context.Context, string) (repository.JudgePriority, error) {
	return repository.JudgePriority{}, f.err
}

func (f *fakeRecords) JudgeCases(_ context.Context, _ string, _ repository.JudgeCaseFilter, _ int) ([]models.CaseRecord, error) {
	if f.err != nil {
		return nil, f.err
	}
	return nil, nil
}

func (f *fakeRecords) DecisionYears(context.Context, string) ([]analytics.Count, error) {
	return f.years, f.err
}

func (f *fakeRecords) CaseTypes(context.Context, string) ([]analytics.Count, error) {
	return f.types, f.err
}

// fakeCases serves raw cases sorted by CNR.
type fakeCases struct {
	cases []models.Case
	calls int
	err   error
}

func (f *fakeCases) ListAfter(_ context.Context, after string, limit int) ([]models.Case, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	sorted := append([]models.Case(nil), f.cases...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].CNRNumber < sorted[j].CNRNumber })
	var out []models.Case
	for _, c := range sorted {
		if c.CNRNumber > after {
			out = append(out, c)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeCases) Search(_ context.Context, _ string, limit int) ([]models.Case, error) {
	if len(f.cases) > limit {
		return f.cases[:limit], f.err
	}
	return f.cases, f.err
}

type fakeHearings struct {
	hearings []models.Hearing
}

func (f *fakeHearings) ByCNRs(_ context.Context, cnrs []string) ([]models.Hearing, error) {
	want := make(map[string]bool, len(cnrs))
	for _, c := range cnrs {
		want[c] = true
	}
	var out []models.Hearing
	for _, h := range f.hearings {
		if want[h.CNRNumber] {
			out = append(out, h)
		}
	}
	return out, nil
}

type fakeInsights struct {
	mu      sync.Mutex
	stored  map[string]models.CaseInsight
	delayed []models.CaseInsight
	err     error
}

func (f *fakeInsights) UpsertBatch(_ context.Context, insights []models.CaseInsight) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.stored == nil {
		f.stored = map[string]models.CaseInsight{}
	}
	for _, in := range insights {
		if prev, ok := f.stored[in.CNRNumber]; ok {
			in.PrivateNotes = prev.PrivateNotes
			in.Reminders = prev.Reminders
		}
		f.stored[in.CNRNumber] = in
	}
	return nil
}

func (f *fakeInsights) GetByCNR(_ context.Context, cnr string) (*models.CaseInsight, error) {
	in, ok := f.stored[cnr]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &in, nil
}

func (f *fakeInsights) ListDelayed(_ context.Context, limit int) ([]models.CaseInsight, error) {
	if len(f.delayed) > limit {
		return f.delayed[:limit], nil
	}
	return f.delayed, nil
}

type fakeRuns struct {
	mu        sync.Mutex
	runs      map[uuid.UUID]*models.AnalyticsRun
	progress  []int
	createErr error
}

func (f *fakeRuns) Create(_ context.Context, run *models.AnalyticsRun) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.runs == nil {
		f.runs = map[uuid.UUID]*models.AnalyticsRun{}
	}
	run.ID = uuid.New()
	cp := *run
	f.runs[run.ID] = &cp
	return nil
}

func (f *fakeRuns) GetByID(_ context.Context, id uuid.UUID) (*models.AnalyticsRun, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	run, ok := f.runs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *run
	return &cp, nil
}

func (f *fakeRuns) set(id uuid.UUID, fn func(*models.AnalyticsRun)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	run, ok := f.runs[id]
	if !ok {
		return repository.ErrNotFound
	}
	fn(run)
	return nil
}

func (f *fakeRuns) Start(_ context.Context, id uuid.UUID) error {
	return f.set(id, func(r *models.AnalyticsRun) { r.Status = models.RunStatusInProgress })
}

func (f *fakeRuns) UpdateProgress(_ context.Context, id uuid.UUID, processed int) error {
	f.progress = append(f.progress, processed)
	return f.set(id, func(r *models.AnalyticsRun) { r.Processed = processed })
}

func (f *fakeRuns) Complete(_ context.Context, id uuid.UUID, processed int) error {
	return f.set(id, func(r *models.AnalyticsRun) {
		r.Status = models.RunStatusCompleted
		r.Processed = processed
	})
}

func (f *fakeRuns) Fail(_ context.Context, id uuid.UUID, msg string) error {
	return f.set(id, func(r *models.AnalyticsRun) {
		r.Status = models.RunStatusFailed
		r.ErrorMessage = &msg
	})
}

type fakeDocs struct {
	docs      map[uuid.UUID]*models.CaseDocument
	summaries map[uuid.UUID]string
	createErr error
}

func (f *fakeDocs) Create(_ context.Context, doc *models.CaseDocument) error {
	if f.createErr != nil {
		return f.createErr
	}
	if f.docs == nil {
		f.docs = map[uuid.UUID]*models.CaseDocument{}
	}
	f.docs[doc.ID] = doc
	return nil
}

func (f *fakeDocs) GetByID(_ context.Context, id uuid.UUID) (*models.CaseDocument, error) {
	doc, ok := f.docs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return doc, nil
}

func (f *fakeDocs) SetSummary(_ context.Context, id uuid.UUID, summary string) error {
	if f.summaries == nil {
		f.summaries = map[uuid.UUID]string{}
	}
	f.summaries[id] = summary
	return nil
}

type fakeSummarizer struct {
	payload map[string]any
	err     error
	got     []byte
}

func (f *fakeSummarizer) Summarize(_ context.Context, _, _ string, r io.Reader) (map[string]any, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	f.got = b
	return f.payload, f.err
}

// fakeObjects is an in-memory storage.Store.
type fakeObjects struct {
	objects map[string][]byte
	putErr  error
}

func (f *fakeObjects) Put(_ context.Context, namespace string, id uuid.UUID, filename string, data io.Reader) (string, error) {
	if f.putErr != nil {
		return "", f.putErr
	}
	b, err := io.ReadAll(data)
	if err != nil {
		return "", err
	}
	if f.objects == nil {
		f.objects = map[string][]byte{}
	}
	key := namespace + "/" + id.String() + "_" + filename
	f.objects[key] = b
	return key, nil
}

func (f *fakeObjects) Open(_ context.Context, key string) (io.ReadCloser, error) {
	b, ok := f.objects[key]
	if !ok {
		return nil, errors.New("object not found")
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

func (f *fakeObjects) Remove(_ context.Context, key string) error {
	delete(f.objects, key)
	return nil
}

type fakeInsightNotes struct {
	copied []string
	err    error
}

func (f *fakeInsightNotes) CopyUserFields(_ context.Context, cnr string) error {
	f.copied = append(f.copied, cnr)
	return f.err
}
