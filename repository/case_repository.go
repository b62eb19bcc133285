package repository

import (
	"context"
	"fmt"
	"strings"

	"nyayamitra-backend/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	caseColumns    = columns[models.Case]()
	hearingColumns = columns[models.Hearing]()
)

// CaseRepository handles database operations for the raw cases table
type CaseRepository struct {
	db *pgxpool.Pool
}

// NewCaseRepository creates a new case repository
func NewCaseRepository(db *pgxpool.Pool) *CaseRepository {
	return &CaseRepository{db: db}
}

// InsertBatch copies cases in with a single COPY.
func (r *CaseRepository) InsertBatch(ctx context.Context, cases []models.Case) (int, error) {
	n, err := r.db.CopyFrom(ctx, pgx.Identifier{"cases"}, caseColumns,
		pgx.CopyFromSlice(len(cases), func(i int) ([]any, error) {
			return values(&cases[i]), nil
		}),
	)
	if err != nil {
		return 0, fmt.Errorf("copy cases: %w", err)
	}
	return int(n), nil
}

// Insert adds a single case.
func (r *CaseRepository) Insert(ctx context.Context, c models.Case) error {
	query := fmt.Sprintf(`INSERT INTO cases (%s) VALUES (%s)`,
		strings.Join(caseColumns, ", "), placeholders(1, len(caseColumns)))

	if _, err := r.db.Exec(ctx, query, values(&c)...); err != nil {
		return fmt.Errorf("insert case %s: %w", c.CNRNumber, err)
	}
	return nil
}

// ListAfter returns up to limit cases ordered by CNR, starting after the
// given CNR. An empty after starts from the beginning.
func (r *CaseRepository) ListAfter(ctx context.Context, after string, limit int) ([]models.Case, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM cases
		WHERE cnr_number > $1
		ORDER BY cnr_number
		LIMIT $2`, strings.Join(caseColumns, ", "))

	rows, err := r.db.Query(ctx, query, after, limit)
	if err != nil {
		return nil, fmt.Errorf("query cases: %w", err)
	}
	cases, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Case])
	if err != nil {
		return nil, fmt.Errorf("scan cases: %w", err)
	}
	return cases, nil
}

// Search returns up to limit cases whose CNR contains cnr. An empty cnr
// matches everything.
func (r *CaseRepository) Search(ctx context.Context, cnr string, limit int) ([]models.Case, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM cases
		WHERE cnr_number ILIKE $1
		ORDER BY cnr_number
		LIMIT $2`, strings.Join(caseColumns, ", "))

	rows, err := r.db.Query(ctx, query, likePattern(cnr), limit)
	if err != nil {
		return nil, fmt.Errorf("search cases: %w", err)
	}
	cases, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Case])
	if err != nil {
		return nil, fmt.Errorf("scan cases: %w", err)
	}
	return cases, nil
}

// HearingRepository handles database operations for the hearings table
type HearingRepository struct {
	db *pgxpool.Pool
}

// NewHearingRepository creates a new hearing repository
func NewHearingRepository(db *pgxpool.Pool) *HearingRepository {
	return &HearingRepository{db: db}
}

// InsertBatch copies hearings in with a single COPY.
func (r *HearingRepository) InsertBatch(ctx context.Context, hearings []models.Hearing) (int, error) {
	n, err := r.db.CopyFrom(ctx, pgx.Identifier{"hearings"}, hearingColumns,
		pgx.CopyFromSlice(len(hearings), func(i int) ([]any, error) {
			return values(&hearings[i]), nil
		}),
	)
	if err != nil {
		return 0, fmt.Errorf("copy hearings: %w", err)
	}
	return int(n), nil
}

// Insert adds a single hearing.
func (r *HearingRepository) Insert(ctx context.Context, h models.Hearing) error {
	query := fmt.Sprintf(`INSERT INTO hearings (%s) VALUES (%s)`,
		strings.Join(hearingColumns, ", "), placeholders(1, len(hearingColumns)))

	if _, err := r.db.Exec(ctx, query, values(&h)...); err != nil {
		return fmt.Errorf("insert hearing for %s: %w", h.CNRNumber, err)
	}
	return nil
}

// ByCNRs returns the hearings of the given cases in insertion order.
func (r *HearingRepository) ByCNRs(ctx context.Context, cnrs []string) ([]models.Hearing, error) {
	if len(cnrs) == 0 {
		return nil, nil
	}
	query := fmt.Sprintf(`
		SELECT %s
		FROM hearings
		WHERE cnr_number = ANY($1)
		ORDER BY id`, strings.Join(hearingColumns, ", "))

	rows, err := r.db.Query(ctx, query, cnrs)
	if err != nil {
		return nil, fmt.Errorf("query hearings: %w", err)
	}
	hearings, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.Hearing])
	if err != nil {
		return nil, fmt.Errorf("scan hearings: %w", err)
	}
	return hearings, nil
}
