package importer

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"nyayamitra-backend/analytics"
	"nyayamitra-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type memorySink[T any] struct {
	records   []T
	batches   int
	failBatch bool
	reject    func(T) bool
}

func (m *memorySink[T]) InsertBatch(_ context.Context, recs []T) (int, error) {
	m.batches++
	if m.failBatch {
		return 0, errors.New("batch rejected")
	}
	m.records = append(m.records, recs...)
	return len(recs), nil
}

func (m *memorySink[T]) Insert(_ context.Context, rec T) error {
	if m.reject != nil && m.reject(rec) {
		return errors.New("row rejected")
	}
	m.records = append(m.records, rec)
	return nil
}

func quiet() Option {
	return WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestParseDate(t *testing.T) {
	for _, blank := range []string{"NA", "N/A", "", " "} {
		d, err := ParseDate(blank)
		assert.NoError(t, err, blank)
		assert.Nil(t, d, blank)
	}

	d, err := ParseDate("05-03-2020")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2020, 3, 5, 0, 0, 0, 0, time.UTC), *d)

	d, err = ParseDate("5-3-2020")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2020, 3, 5, 0, 0, 0, 0, time.UTC), *d)

	d, err = ParseDate("2021-12-01")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2021, 12, 1, 0, 0, 0, 0, time.UTC), *d)

	d, err = ParseDate("yesterday")
	assert.ErrorIs(t, err, ErrMalformedValue)
	assert.Nil(t, d)
}

const finalCSV = "CNR_NUMBER,DATE_FILED,Case_Stages,Case Age,HearingGap_Days,Mystery\n" +
	"MHPU01,NA,Evidence,3.5,12,blue\n" +
	"MHPU02,01-06-2019,,1,NA,\n" +
	",01-06-2019,Hearing,1,0,\n" +
	"MHPU03,99-99-2019,Arguments,0,0,\n"

func TestImporter_FinalRecords(t *testing.T) {
	rows, err := Open("combined.csv", strings.NewReader(finalCSV))
	require.NoError(t, err)

	sink := &memorySink[models.CaseRecord]{}
	im := New(FinalRecordMapping(analytics.DefaultThresholds()), sink, quiet())
	res, err := im.Run(context.Background(), rows)
	require.NoError(t, err)

	assert.Equal(t, 4, res.Read)
	assert.Equal(t, 3, res.Inserted)
	assert.Equal(t, 1, res.Skipped)
	require.Len(t, sink.records, 3)

	first := sink.records[0]
	assert.Equal(t, "MHPU01", first.CNRNumber)
	assert.Nil(t, first.DateFiled)
	assert.Equal(t, "Evidence", first.LastStage)
	assert.True(t, first.IsDelayed)
	assert.Equal(t, 1, first.TotalHearings)
	assert.Equal(t, 12.0, first.HearingGapDays)
	assert.Equal(t, "blue", first.Extra["Mystery"])
	assert.NotNil(t, first.Reminders)

	second := sink.records[1]
	require.NotNil(t, second.DateFiled)
	assert.Equal(t, time.Date(2019, 6, 1, 0, 0, 0, 0, time.UTC), *second.DateFiled)
	assert.Equal(t, DefaultStage, second.LastStage)
	assert.False(t, second.IsDelayed)
	assert.Empty(t, second.Extra)

	third := sink.records[2]
	assert.Equal(t, "MHPU03", third.CNRNumber)
	assert.Nil(t, third.DateFiled)

	var sawDate, sawCNR bool
	for _, w := range res.Warnings {
		if w.Column == "DATE_FILED" && w.Row == 5 {
			sawDate = true
		}
		if w.Row == 4 && strings.Contains(w.Message, ErrMissingCNR.Error()) {
			sawCNR = true
		}
	}
	assert.True(t, sawDate, "malformed date should be warned")
	assert.True(t, sawCNR, "missing CNR should be warned")
}

func TestImporter_BatchesAndFallback(t *testing.T) {
	var b strings.Builder
	b.WriteString("CNR_NUMBER,CASE_NUMBER\n")
	for _, cnr := range []string{"A", "B", "C", "D", "E"} {
		b.WriteString(cnr + ",1\n")
	}

	sink := &memorySink[models.Case]{}
	rows, err := NewCSVReader(strings.NewReader(b.String()))
	require.NoError(t, err)
	res, err := New(CaseMapping(), sink, WithBatchSize(2), quiet()).Run(context.Background(), rows)
	require.NoError(t, err)
	assert.Equal(t, 5, res.Inserted)
	assert.Equal(t, 3, sink.batches)

	failing := &memorySink[models.Case]{
		failBatch: true,
		reject:    func(c models.Case) bool { return c.CNRNumber == "C" },
	}
	rows, err = NewCSVReader(strings.NewReader(b.String()))
	require.NoError(t, err)
	res, err = New(CaseMapping(), failing, WithBatchSize(2), quiet()).Run(context.Background(), rows)
	require.NoError(t, err)
	assert.Equal(t, 4, res.Inserted)
	assert.Equal(t, 1, res.Skipped)
	require.NotEmpty(t, res.Warnings)
	assert.Equal(t, 4, res.Warnings[0].Row)
}

func TestImporter_CaseNumbers(t *testing.T) {
	rows, err := NewCSVReader(strings.NewReader("CNR_NUMBER,YEAR,DISPOSALTIME_ADJ,DISPOSAL_YEAR\nX1,2017,1.5,NA\n"))
	require.NoError(t, err)

	sink := &memorySink[models.Case]{}
	_, err = New(CaseMapping(), sink, quiet()).Run(context.Background(), rows)
	require.NoError(t, err)
	require.Len(t, sink.records, 1)

	c := sink.records[0]
	require.NotNil(t, c.Year)
	assert.Equal(t, 2017, *c.Year)
	require.NotNil(t, c.DisposalTime)
	assert.Equal(t, 1.5, *c.DisposalTime)
	assert.Nil(t, c.DisposalYear)
}

func TestImporter_XLSXHearings(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"CNR_NUMBER", "Remappedstages", "BusinessOnDate", "NextHearingDate"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{"MHPU01", "Evidence", time.Date(2022, 4, 10, 0, 0, 0, 0, time.UTC), "N/A"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	rows, err := Open("hearing.xlsx", buf)
	require.NoError(t, err)
	defer rows.Close()

	sink := &memorySink[models.Hearing]{}
	res, err := New(HearingMapping(), sink, quiet()).Run(context.Background(), rows)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Inserted)

	h := sink.records[0]
	assert.Equal(t, "Evidence", h.RemappedStages)
	require.NotNil(t, h.BusinessOnDate)
	assert.Equal(t, "2022-04-10", h.BusinessOnDate.Format("2006-01-02"))
	assert.Nil(t, h.NextHearingDate)
}

func TestOpen_UnsupportedFormat(t *testing.T) {
	_, err := Open("cases.json", strings.NewReader("{}"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}
