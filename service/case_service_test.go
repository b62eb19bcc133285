package service

import (
	"context"
	"testing"
	"time"

	"nyayamitra-backend/analytics"
	"nyayamitra-backend/models"
	"nyayamitra-backend/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecords() *fakeRecords {
	return &fakeRecords{rows: []models.CaseRecord{
		{CNRNumber: "MHPU010012342019", CaseStages: "Admission", CourtHallNumber: "4", CourtName: "District Court Pune", HearingDate: datePtr(2023, 1, 10), PurposeOfHearing: "Filing", CaseAge: "3"},
		{CNRNumber: "MHPU010012342019", CaseStages: "Evidence", CourtHallNumber: "4", CourtName: "District Court Pune", HearingDate: datePtr(2024, 2, 10), PurposeOfHearing: "Witness", NextHearingDate: datePtr(2025, 7, 1)},
		{CNRNumber: "MHPU010099992020", CaseStages: "Orders / Judgment", NatureOfDisposal: "Allowed"},
	}}
}

func TestCaseService_Lookup(t *testing.T) {
	svc := NewCaseService(CaseWithRecords(sampleRecords()))

	got, err := svc.Lookup(context.Background(), " MHPU010012342019 ")
	require.NoError(t, err)

	assert.Equal(t, "In Progress", got.Status)
	assert.Equal(t, "Evidence", got.CurrentStage)
	assert.Equal(t, stageExplanations["Evidence"], got.Explanation)
	assert.Equal(t, "Hall 4, District Court Pune", got.CourtLocation)
	require.Len(t, got.History, 2)
	assert.Equal(t, "Witness", got.History[0].Purpose)
	assert.Equal(t, "Filing", got.History[1].Purpose)
}

func TestCaseService_LookupCompletedAndUnknownStage(t *testing.T) {
	recs := sampleRecords()
	recs.rows[2].CaseStages = "Mediation"
	svc := NewCaseService(CaseWithRecords(recs))

	got, err := svc.Lookup(context.Background(), "MHPU010099992020")
	require.NoError(t, err)
	assert.Equal(t, "Completed", got.Status)
	assert.Equal(t, defaultExplanation, got.Explanation)
}

func TestCaseService_LookupNotFound(t *testing.T) {
	svc := NewCaseService(CaseWithRecords(sampleRecords()))

	_, err := svc.Lookup(context.Background(), "NOPE")
	assert.ErrorIs(t, err, ErrCaseNotFound)
}

func TestCaseService_Details(t *testing.T) {
	svc := NewCaseService(CaseWithRecords(sampleRecords()))

	got, err := svc.Details(context.Background(), "MHPU010012342019")
	require.NoError(t, err)
	assert.Equal(t, 2, got.TotalHearings)
	assert.Equal(t, "Evidence", got.LastStage)
	assert.Equal(t, "Pending", got.CaseState)
	assert.Equal(t, "Admission", got.CaseStages)
}

func TestCaseService_DashboardPaging(t *testing.T) {
	recs := &fakeRecords{stats: repository.PortfolioStats{Total: 13, Active: 10, Disposed: 3}}
	svc := NewCaseService(CaseWithRecords(recs))

	got, err := svc.Dashboard(context.Background(), DashboardRequest{Lawyer: "A. Sharma", Page: 0})
	require.NoError(t, err)
	assert.Equal(t, 1, got.CurrentPage)
	assert.Equal(t, 3, got.TotalPages)
	assert.NotNil(t, got.Cases)

	_, err = svc.Dashboard(context.Background(), DashboardRequest{})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCaseService_DashboardPropagatesErrors(t *testing.T) {
	svc := NewCaseService(CaseWithRecords(&fakeRecords{err: errBoom}))

	_, err := svc.Dashboard(context.Background(), DashboardRequest{Lawyer: "A. Sharma"})
	assert.ErrorIs(t, err, errBoom)
}

func TestCaseService_UpsertNormalizesInput(t *testing.T) {
	recs := &fakeRecords{}
	svc := NewCaseService(CaseWithRecords(recs))

	rec, err := svc.Upsert(context.Background(), UpsertCaseRequest{
		Lawyer:        "A. Sharma",
		CNRNumber:     " mhpu010055552024 ",
		Stage:         "Admission",
		UnderActs:     []string{"IPC", "CrPC"},
		UnderSections: []string{"302", "34"},
		CaseAge:       "abc",
	})
	require.NoError(t, err)
	assert.Equal(t, "MHPU010055552024", rec.CNRNumber)

	require.Len(t, recs.upserts, 1)
	u := recs.upserts[0]
	assert.Equal(t, "IPC, CrPC", u.UnderActs)
	assert.Equal(t, "302, 34", u.UnderSections)
	assert.Equal(t, "0", u.CaseAge)
	assert.Equal(t, "A. Sharma", u.Advocate)

	_, err = svc.Upsert(context.Background(), UpsertCaseRequest{CNRNumber: "  "})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCaseService_Delete(t *testing.T) {
	recs := sampleRecords()
	svc := NewCaseService(CaseWithRecords(recs))

	n, err := svc.Delete(context.Background(), "MHPU010012342019")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.Len(t, recs.rows, 1)

	_, err = svc.Delete(context.Background(), "MHPU010012342019")
	assert.ErrorIs(t, err, ErrCaseNotFound)
}

func TestCaseService_NotesAndReminders(t *testing.T) {
	recs := sampleRecords()
	svc := NewCaseService(CaseWithRecords(recs))
	ctx := context.Background()

	require.NoError(t, svc.UpdateNote(ctx, "MHPU010012342019", "call client"))
	for _, r := range recs.byCNR("MHPU010012342019") {
		assert.Equal(t, "call client", r.PrivateNotes)
	}
	assert.ErrorIs(t, svc.UpdateNote(ctx, "NOPE", "x"), ErrCaseNotFound)

	at := time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC)
	list, err := svc.AddReminder(ctx, "MHPU010012342019", "file reply", at)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.False(t, list[0].Completed)
	assert.NotEqual(t, uuid.Nil, list[0].ID)

	require.NoError(t, svc.ToggleReminder(ctx, "MHPU010012342019", list[0].ID, true))
	assert.True(t, recs.byCNR("MHPU010012342019")[1].Reminders[0].Completed)
	assert.ErrorIs(t, svc.ToggleReminder(ctx, "MHPU010012342019", uuid.New(), true), ErrReminderNotFound)

	_, err = svc.AddReminder(ctx, "NOPE", "x", at)
	assert.ErrorIs(t, err, ErrCaseNotFound)
	_, err = svc.AddReminder(ctx, "MHPU010012342019", " ", at)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCaseService_NotesReachInsights(t *testing.T) {
	notes := &fakeInsightNotes{}
	svc := NewCaseService(CaseWithRecords(sampleRecords()), CaseWithInsights(notes))
	ctx := context.Background()
	cnr := "MHPU010012342019"

	require.NoError(t, svc.UpdateNote(ctx, cnr, "call client"))
	list, err := svc.AddReminder(ctx, cnr, "file reply", time.Now())
	require.NoError(t, err)
	require.NoError(t, svc.ToggleReminder(ctx, cnr, list[0].ID, true))
	assert.Equal(t, []string{cnr, cnr, cnr}, notes.copied)

	// Failed writes are not mirrored.
	assert.Error(t, svc.UpdateNote(ctx, "NOPE", "x"))
	assert.Error(t, svc.ToggleReminder(ctx, cnr, uuid.New(), true))
	assert.Len(t, notes.copied, 3)

	// The final_records write stands even when the copy fails.
	notes.err = errBoom
	assert.NoError(t, svc.UpdateNote(ctx, cnr, "again"))
}

func TestCaseService_Brief(t *testing.T) {
	svc := NewCaseService(CaseWithRecords(sampleRecords()))

	brief, err := svc.Brief(context.Background(), "MHPU010012342019")
	require.NoError(t, err)
	assert.Equal(t, analytics.RiskHigh, brief.RiskLevel)
	assert.Contains(t, brief.AgeAnalysis, "3 years across 2 hearings")
}

func TestCaseService_Charts(t *testing.T) {
	recs := &fakeRecords{facets: []repository.CaseFacet{
		{CNRNumber: "A", CaseAge: "0.5", Stage: "Evidence"},
		{CNRNumber: "B", CaseAge: "3", Stage: "Evidence", Disposed: true, Outcome: "Allowed"},
		{CNRNumber: "C", CaseAge: "30", Stage: "Admission", Disposed: true, Outcome: "Dismissed"},
	}}
	svc := NewCaseService(CaseWithRecords(recs))

	got, err := svc.Charts(context.Background(), "A. Sharma")
	require.NoError(t, err)
	assert.NotEmpty(t, got.RiskData)
	require.NotEmpty(t, got.StageData)
	assert.Equal(t, analytics.Count{Label: "Evidence", Count: 2}, got.StageData[0])
	assert.Len(t, got.OutcomeData, 2)
	assert.NotNil(t, got.LoadData)
}

func TestCaseService_AppearanceDates(t *testing.T) {
	var dates []time.Time
	for i := 0; i < 8; i++ {
		dates = append(dates, *datePtr(2025, 1, i+1))
	}
	svc := NewCaseService(CaseWithRecords(&fakeRecords{appearances: dates}))

	got, err := svc.AppearanceDates(context.Background(), "A. Sharma")
	require.NoError(t, err)
	assert.Len(t, got, appearanceDateLimit)

	got, err = svc.AppearanceDates(context.Background(), " ")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCaseService_HomeStats(t *testing.T) {
	svc := NewCaseService(CaseWithRecords(sampleRecords()))

	got, err := svc.HomeStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.DisposedCases)
	assert.Equal(t, int64(2), got.ActiveCases)
}

func TestCaseService_MissingStore(t *testing.T) {
	_, err := NewCaseService().Lookup(context.Background(), "X")
	assert.ErrorIs(t, err, ErrMissingDependencies)
}
