package repository

import (
	"context"
	"testing"

	"nyayamitra-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColumns_FlattensEmbeddedCase(t *testing.T) {
	cols := columns[models.CaseInsight]()
	assert.Contains(t, cols, "cnr_number")
	assert.Contains(t, cols, "police_station")
	assert.Contains(t, cols, "last_calculated")
	assert.Contains(t, cols, "reminders")
	assert.Equal(t, "cnr_number", cols[0])
}

func TestValues_MatchColumns(t *testing.T) {
	year := 2019
	in := models.CaseInsight{
		Case:          models.Case{CNRNumber: "MHAU010001232019", Year: &year},
		TotalHearings: 4,
		PrivateNotes:  "keep",
	}

	cols := columns[models.CaseInsight](userOwnedInsightColumns...)
	vals := values(&in, userOwnedInsightColumns...)
	assert.Len(t, vals, len(cols))

	byName := make(map[string]any, len(cols))
	for i, c := range cols {
		byName[c] = vals[i]
	}
	assert.Equal(t, "MHAU010001232019", byName["cnr_number"])
	assert.Equal(t, 4, byName["total_hearings"])
	assert.NotContains(t, byName, "private_notes")
}

func TestInsightUpsert_LeavesUserFieldsAlone(t *testing.T) {
	assert.Contains(t, insightUpsertSQL, "ON CONFLICT (cnr_number)")
	assert.Contains(t, insightUpsertSQL, "is_delayed = EXCLUDED.is_delayed")
	assert.NotContains(t, insightUpsertSQL, "private_notes")
	assert.NotContains(t, insightUpsertSQL, "reminders")
	assert.NotContains(t, insightUpsertSQL, "cnr_number = EXCLUDED")
}

func TestLikePattern(t *testing.T) {
	assert.Equal(t, "%MHAU%", likePattern("MHAU"))
	assert.Equal(t, `%50\%\_off%`, likePattern("50%_off"))
	assert.Equal(t, "%%", likePattern(""))
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, "$1, $2, $3", placeholders(1, 3))
	assert.Equal(t, "$4", placeholders(4, 1))
}

func TestClearTable_RejectsUnknownTable(t *testing.T) {
	err := ClearTable(context.Background(), nil, "users; DROP TABLE cases")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a data table")
}
