package repository

import (
	"context"
	"fmt"
	"strings"

	"nyayamitra-backend/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// userOwnedInsightColumns are written by lawyers, never by rebuilds.
var userOwnedInsightColumns = []string{"private_notes", "reminders"}

var (
	insightColumns      = columns[models.CaseInsight]()
	insightWriteColumns = columns[models.CaseInsight](userOwnedInsightColumns...)
	insightUpsertSQL    = buildInsightUpsert()
)

func buildInsightUpsert() string {
	sets := make([]string, 0, len(insightWriteColumns))
	for _, c := range insightWriteColumns {
		if c == "cnr_number" {
			continue
		}
		sets = append(sets, fmt.Sprintf("%s = EXCLUDED.%s", c, c))
	}
	return fmt.Sprintf(`
		INSERT INTO case_insights (%s) VALUES (%s)
		ON CONFLICT (cnr_number) DO UPDATE SET %s`,
		strings.Join(insightWriteColumns, ", "),
		placeholders(1, len(insightWriteColumns)),
		strings.Join(sets, ", "))
}

// InsightRepository handles database operations for case_insights
type InsightRepository struct {
	db *pgxpool.Pool
}

// NewInsightRepository creates a new insight repository
func NewInsightRepository(db *pgxpool.Pool) *InsightRepository {
	return &InsightRepository{db: db}
}

// UpsertBatch writes insights keyed by CNR in one round trip. Notes and
// reminders already stored for a CNR are kept.
func (r *InsightRepository) UpsertBatch(ctx context.Context, insights []models.CaseInsight) error {
	if len(insights) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for i := range insights {
		batch.Queue(insightUpsertSQL, values(&insights[i], userOwnedInsightColumns...)...)
	}

	results := r.db.SendBatch(ctx, batch)
	defer results.Close()
	for i := range insights {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("upsert insight %s: %w", insights[i].CNRNumber, err)
		}
	}
	return results.Close()
}

// CopyUserFields refreshes an insight's notes and reminders from the case's
// final_records rows. It is a no-op when the case has no insight yet.
func (r *InsightRepository) CopyUserFields(ctx context.Context, cnr string) error {
	query := `
		UPDATE case_insights ci SET
			private_notes = fr.private_notes,
			reminders = fr.reminders
		FROM (
			SELECT private_notes, reminders
			FROM final_records
			WHERE cnr_number = $1
			ORDER BY updated_at DESC
			LIMIT 1
		) fr
		WHERE ci.cnr_number = $1`

	if _, err := r.db.Exec(ctx, query, cnr); err != nil {
		return fmt.Errorf("copy user fields %s: %w", cnr, err)
	}
	return nil
}

// GetByCNR retrieves the insight for a case.
func (r *InsightRepository) GetByCNR(ctx context.Context, cnr string) (*models.CaseInsight, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM case_insights
		WHERE cnr_number = $1`, strings.Join(insightColumns, ", "))

	rows, err := r.db.Query(ctx, query, cnr)
	if err != nil {
		return nil, fmt.Errorf("query insight %s: %w", cnr, err)
	}
	insight, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[models.CaseInsight])
	if err != nil {
		return nil, notFound(err, "insight "+cnr)
	}
	return insight, nil
}

// ListDelayed returns delayed cases, longest pending first.
func (r *InsightRepository) ListDelayed(ctx context.Context, limit int) ([]models.CaseInsight, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM case_insights
		WHERE is_delayed
		ORDER BY pendency_days DESC, cnr_number
		LIMIT $1`, strings.Join(insightColumns, ", "))

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query delayed insights: %w", err)
	}
	insights, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.CaseInsight])
	if err != nil {
		return nil, fmt.Errorf("scan delayed insights: %w", err)
	}
	return insights, nil
}
