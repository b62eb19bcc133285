package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"nyayamitra-backend/analytics"
	"nyayamitra-backend/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	recordColumns       = columns[models.CaseRecord]()
	recordInsertColumns = columns[models.CaseRecord]("id", "created_at", "updated_at")
	recordSelect        = strings.Join(recordColumns, ", ")
)

// PortfolioQuery selects one advocate's cases for the dashboard.
type PortfolioQuery struct {
	Advocate string
	Search   string
	Limit    int
	Offset   int
}

// PortfolioStats counts distinct cases in an advocate's portfolio.
type PortfolioStats struct {
	Total    int `json:"total"`
	Active   int `json:"active"`
	Disposed int `json:"disposed"`
}

// CaseFacet is the first snapshot row of a case reduced to the fields the
// portfolio charts group by.
type CaseFacet struct {
	CNRNumber string
	CaseAge   string
	Stage     string
	Disposed  bool
	Outcome   string
}

// JudgeCounts tallies snapshot rows on a judge's board.
type JudgeCounts struct {
	Total    int `json:"total"`
	Pending  int `json:"pending"`
	Disposed int `json:"disposed"`
}

// JudgePriority is the high/medium/low split of a judge's board.
type JudgePriority struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
}

// JudgeCaseFilter narrows a judge's case list.
type JudgeCaseFilter string

const (
	JudgeCasesAll      JudgeCaseFilter = ""
	JudgeCasesPending  JudgeCaseFilter = "pending"
	JudgeCasesDisposed JudgeCaseFilter = "disposed"
)

// CaseUpsert is the subset of a case a lawyer registers by hand.
type CaseUpsert struct {
	CNRNumber       string
	CaseNumber      string
	ClientNames     string
	CourtName       string
	CourtState      string
	CaseStages      string
	UnderActs       string
	UnderSections   string
	NextHearingDate *time.Time
	CaseAge         string
	Advocate        string
}

// CaseRecordRepository handles database operations for final_records
type CaseRecordRepository struct {
	db *pgxpool.Pool
}

// NewCaseRecordRepository creates a new case record repository
func NewCaseRecordRepository(db *pgxpool.Pool) *CaseRecordRepository {
	return &CaseRecordRepository{db: db}
}

// InsertBatch copies records in with a single COPY.
func (r *CaseRecordRepository) InsertBatch(ctx context.Context, recs []models.CaseRecord) (int, error) {
	n, err := r.db.CopyFrom(
		ctx,
		pgx.Identifier{"final_records"},
		recordInsertColumns,
		pgx.CopyFromSlice(len(recs), func(i int) ([]any, error) {
			rec := normalizeRecord(recs[i])
			return values(&rec, "id", "created_at", "updated_at"), nil
		}),
	)
	if err != nil {
		return 0, fmt.Errorf("copy final records: %w", err)
	}
	return int(n), nil
}

// Insert adds a single record.
func (r *CaseRecordRepository) Insert(ctx context.Context, rec models.CaseRecord) error {
	rec = normalizeRecord(rec)
	query := fmt.Sprintf(`INSERT INTO final_records (%s) VALUES (%s)`,
		strings.Join(recordInsertColumns, ", "),
		placeholders(1, len(recordInsertColumns)))

	if _, err := r.db.Exec(ctx, query, values(&rec, "id", "created_at", "updated_at")...); err != nil {
		return fmt.Errorf("insert final record %s: %w", rec.CNRNumber, err)
	}
	return nil
}

func normalizeRecord(rec models.CaseRecord) models.CaseRecord {
	if rec.Reminders == nil {
		rec.Reminders = models.Reminders{}
	}
	if rec.Extra == nil {
		rec.Extra = models.Extra{}
	}
	return rec
}

// History returns every snapshot row of a case ordered by hearing date.
func (r *CaseRecordRepository) History(ctx context.Context, cnr string, newestFirst bool) ([]models.CaseRecord, error) {
	order := "hearing_date ASC NULLS FIRST"
	if newestFirst {
		order = "hearing_date DESC NULLS LAST"
	}
	query := fmt.Sprintf(`
		SELECT %s
		FROM final_records
		WHERE cnr_number = $1
		ORDER BY %s, created_at`, recordSelect, order)

	rows, err := r.db.Query(ctx, query, cnr)
	if err != nil {
		return nil, fmt.Errorf("query case history: %w", err)
	}
	recs, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.CaseRecord])
	if err != nil {
		return nil, fmt.Errorf("scan case history: %w", err)
	}
	return recs, nil
}

// First returns the earliest inserted row of a case.
func (r *CaseRecordRepository) First(ctx context.Context, cnr string) (*models.CaseRecord, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM final_records
		WHERE cnr_number = $1
		ORDER BY created_at
		LIMIT 1`, recordSelect)

	rows, err := r.db.Query(ctx, query, cnr)
	if err != nil {
		return nil, fmt.Errorf("query case %s: %w", cnr, err)
	}
	rec, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[models.CaseRecord])
	if err != nil {
		return nil, notFound(err, "case "+cnr)
	}
	return rec, nil
}

const advocateScope = `(petitioner_advocate = $1 OR respondent_advocate = $1)
		AND ($2 = '' OR cnr_number ILIKE $3)`

func scopeArgs(advocate, search string) []any {
	return []any{advocate, search, likePattern(search)}
}

// Portfolio returns the most recent row of each case in an advocate's
// portfolio, carrying the furthest next hearing date seen across its rows.
func (r *CaseRecordRepository) Portfolio(ctx context.Context, q PortfolioQuery) ([]models.CaseRecord, error) {
	cols := make([]string, len(recordColumns))
	for i, c := range recordColumns {
		if c == "next_hearing_date" {
			cols[i] = "MAX(next_hearing_date) OVER (PARTITION BY cnr_number) AS next_hearing_date"
			continue
		}
		cols[i] = c
	}

	query := fmt.Sprintf(`
		SELECT * FROM (
			SELECT DISTINCT ON (cnr_number) %s
			FROM final_records
			WHERE %s
			ORDER BY cnr_number, hearing_date DESC NULLS LAST, created_at DESC
		) latest
		ORDER BY cnr_number
		LIMIT $4 OFFSET $5`, strings.Join(cols, ", "), advocateScope)

	args := append(scopeArgs(q.Advocate, q.Search), q.Limit, q.Offset)
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query portfolio: %w", err)
	}
	recs, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.CaseRecord])
	if err != nil {
		return nil, fmt.Errorf("scan portfolio: %w", err)
	}
	return recs, nil
}

// PortfolioStats counts cases across the whole scoped portfolio.
func (r *CaseRecordRepository) PortfolioStats(ctx context.Context, advocate, search string) (PortfolioStats, error) {
	query := fmt.Sprintf(`
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE next_hearing IS NOT NULL),
			COUNT(*) FILTER (WHERE disposed)
		FROM (
			SELECT cnr_number,
				MAX(next_hearing_date) AS next_hearing,
				BOOL_OR(nature_of_disposal <> '') AS disposed
			FROM final_records
			WHERE %s
			GROUP BY cnr_number
		) per_case`, advocateScope)

	var s PortfolioStats
	err := r.db.QueryRow(ctx, query, scopeArgs(advocate, search)...).Scan(&s.Total, &s.Active, &s.Disposed)
	if err != nil {
		return PortfolioStats{}, fmt.Errorf("query portfolio stats: %w", err)
	}
	return s, nil
}

// Facets returns one CaseFacet per case in an advocate's portfolio.
func (r *CaseRecordRepository) Facets(ctx context.Context, advocate string) ([]CaseFacet, error) {
	query := fmt.Sprintf(`
		SELECT DISTINCT ON (cnr_number)
			cnr_number, case_age, case_stages, nature_of_disposal <> '', nature_of_disposal_outcome
		FROM final_records
		WHERE %s
		ORDER BY cnr_number, created_at`, advocateScope)

	rows, err := r.db.Query(ctx, query, scopeArgs(advocate, "")...)
	if err != nil {
		return nil, fmt.Errorf("query facets: %w", err)
	}
	facets, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (CaseFacet, error) {
		var f CaseFacet
		err := row.Scan(&f.CNRNumber, &f.CaseAge, &f.Stage, &f.Disposed, &f.Outcome)
		return f, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan facets: %w", err)
	}
	return facets, nil
}

// HearingLoad counts portfolio rows per next-hearing day, earliest first.
func (r *CaseRecordRepository) HearingLoad(ctx context.Context, advocate string, days int) ([]analytics.Count, error) {
	query := fmt.Sprintf(`
		SELECT to_char(next_hearing_date, 'YYYY-MM-DD') AS day, COUNT(*)
		FROM final_records
		WHERE %s AND next_hearing_date IS NOT NULL
		GROUP BY day
		ORDER BY day
		LIMIT $4`, advocateScope)

	args := append(scopeArgs(advocate, ""), days)
	return r.counts(ctx, query, args...)
}

// AppearanceDates lists distinct hearing dates for cases where the
// advocate's name appears on either side, newest first.
func (r *CaseRecordRepository) AppearanceDates(ctx context.Context, lawyer string, limit int) ([]time.Time, error) {
	query := `
		SELECT DISTINCT hearing_date
		FROM final_records
		WHERE hearing_date IS NOT NULL
			AND (petitioner_advocate ILIKE $1 OR respondent_advocate ILIKE $1)
		ORDER BY hearing_date DESC
		LIMIT $2`

	rows, err := r.db.Query(ctx, query, likePattern(lawyer), limit)
	if err != nil {
		return nil, fmt.Errorf("query appearance dates: %w", err)
	}
	dates, err := pgx.CollectRows(rows, pgx.RowTo[time.Time])
	if err != nil {
		return nil, fmt.Errorf("scan appearance dates: %w", err)
	}
	return dates, nil
}

// HomeStats counts disposed and active snapshot rows across the dataset.
func (r *CaseRecordRepository) HomeStats(ctx context.Context) (disposed, active int64, err error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE new_case_status ILIKE '%disposed%' OR decision_date IS NOT NULL),
			COUNT(*) FILTER (WHERE new_case_status ILIKE '%pending%' OR decision_date IS NULL)
		FROM final_records`

	if err := r.db.QueryRow(ctx, query).Scan(&disposed, &active); err != nil {
		return 0, 0, fmt.Errorf("query home stats: %w", err)
	}
	return disposed, active, nil
}

// FindJudge resolves a login name to the judge name stored on the records.
// An exact case-insensitive match on either judge column wins; otherwise
// the first bench containing the name is used.
func (r *CaseRecordRepository) FindJudge(ctx context.Context, name string) (string, error) {
	exact := `
		SELECT CASE WHEN lower(before_honourable_judges) = lower($1)
			THEN before_honourable_judges ELSE njdg_judge_name END
		FROM final_records
		WHERE lower(njdg_judge_name) = lower($1) OR lower(before_honourable_judges) = lower($1)
		LIMIT 1`

	var judge string
	err := r.db.QueryRow(ctx, exact, name).Scan(&judge)
	if err == nil {
		return judge, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return "", fmt.Errorf("query judge: %w", err)
	}

	partial := `
		SELECT before_honourable_judges
		FROM final_records
		WHERE before_honourable_judges ILIKE $1
		LIMIT 1`

	if err := r.db.QueryRow(ctx, partial, likePattern(name)).Scan(&judge); err != nil {
		return "", notFound(err, "judge "+name)
	}
	return judge, nil
}

const judgeScope = `(before_honourable_judges = $1 OR njdg_judge_name = $1)`

// JudgeCounts tallies rows on a judge's board by status.
func (r *CaseRecordRepository) JudgeCounts(ctx context.Context, judge string) (JudgeCounts, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE new_case_status ILIKE '%pending%'),
			COUNT(*) FILTER (WHERE new_case_status ILIKE '%disposed%')
		FROM final_records
		WHERE ` + judgeScope

	var c JudgeCounts
	if err := r.db.QueryRow(ctx, query, judge).Scan(&c.Total, &c.Pending, &c.Disposed); err != nil {
		return JudgeCounts{}, fmt.Errorf("query judge counts: %w", err)
	}
	return c, nil
}

// JudgePriority splits a judge's rows into priority bands. High counts
// pending rows with a recorded case age.
func (r *CaseRecordRepository) JudgePriority(ctx context.Context, judge string) (JudgePriority, error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE new_case_status ILIKE '%pending%' AND case_age <> ''),
			COUNT(*) FILTER (WHERE new_case_status ILIKE '%pending%'),
			COUNT(*) FILTER (WHERE new_case_status ILIKE '%disposed%')
		FROM final_records
		WHERE ` + judgeScope

	var p JudgePriority
	if err := r.db.QueryRow(ctx, query, judge).Scan(&p.High, &p.Medium, &p.Low); err != nil {
		return JudgePriority{}, fmt.Errorf("query judge priority: %w", err)
	}
	return p, nil
}

// JudgeCases lists a judge's rows. Disposed lists are ordered by decision
// date, the others by filing date, newest first.
func (r *CaseRecordRepository) JudgeCases(ctx context.Context, judge string, filter JudgeCaseFilter, limit int) ([]models.CaseRecord, error) {
	where := judgeScope
	order := "date_filed DESC NULLS LAST"
	switch filter {
	case JudgeCasesPending:
		where += ` AND new_case_status ILIKE '%pending%'`
	case JudgeCasesDisposed:
		where += ` AND new_case_status ILIKE '%disposed%'`
		order = "decision_date DESC NULLS LAST"
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM final_records
		WHERE %s
		ORDER BY %s
		LIMIT $2`, recordSelect, where, order)

	rows, err := r.db.Query(ctx, query, judge, limit)
	if err != nil {
		return nil, fmt.Errorf("query judge cases: %w", err)
	}
	recs, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.CaseRecord])
	if err != nil {
		return nil, fmt.Errorf("scan judge cases: %w", err)
	}
	return recs, nil
}

// DecisionYears counts a judge's rows per decision year, oldest first.
func (r *CaseRecordRepository) DecisionYears(ctx context.Context, judge string) ([]analytics.Count, error) {
	query := `
		SELECT decision_year, COUNT(*)
		FROM final_records
		WHERE ` + judgeScope + ` AND decision_year <> ''
		GROUP BY decision_year
		ORDER BY decision_year`
	return r.counts(ctx, query, judge)
}

// CaseTypes counts a judge's rows per case type.
func (r *CaseRecordRepository) CaseTypes(ctx context.Context, judge string) ([]analytics.Count, error) {
	query := `
		SELECT case_type, COUNT(*)
		FROM final_records
		WHERE ` + judgeScope + ` AND case_type <> ''
		GROUP BY case_type
		ORDER BY case_type`
	return r.counts(ctx, query, judge)
}

func (r *CaseRecordRepository) counts(ctx context.Context, query string, args ...any) ([]analytics.Count, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query counts: %w", err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (analytics.Count, error) {
		var c analytics.Count
		err := row.Scan(&c.Label, &c.Count)
		return c, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan counts: %w", err)
	}
	return out, nil
}

// UpdateNotes writes the note onto every row of a case and returns the
// number of rows touched.
func (r *CaseRecordRepository) UpdateNotes(ctx context.Context, cnr, note string) (int64, error) {
	query := `
		UPDATE final_records SET
			private_notes = $2,
			updated_at = NOW()
		WHERE cnr_number = $1`

	tag, err := r.db.Exec(ctx, query, cnr, note)
	if err != nil {
		return 0, fmt.Errorf("update notes: %w", err)
	}
	return tag.RowsAffected(), nil
}

// AddReminder appends a reminder to every row of a case and returns the
// resulting list.
func (r *CaseRecordRepository) AddReminder(ctx context.Context, cnr string, rem models.Reminder) (models.Reminders, error) {
	payload, err := json.Marshal(models.Reminders{rem})
	if err != nil {
		return nil, fmt.Errorf("encode reminder: %w", err)
	}

	query := `
		WITH updated AS (
			UPDATE final_records SET
				reminders = reminders || $2::jsonb,
				updated_at = NOW()
			WHERE cnr_number = $1
			RETURNING reminders
		)
		SELECT reminders FROM updated LIMIT 1`

	var out models.Reminders
	if err := r.db.QueryRow(ctx, query, cnr, string(payload)).Scan(&out); err != nil {
		return nil, notFound(err, "case "+cnr)
	}
	return out, nil
}

// SetReminderCompleted flips the completed flag of one reminder on every
// row of a case and returns the number of rows touched.
func (r *CaseRecordRepository) SetReminderCompleted(ctx context.Context, cnr string, id uuid.UUID, completed bool) (int64, error) {
	query := `
		UPDATE final_records SET
			reminders = (
				SELECT COALESCE(jsonb_agg(
					CASE WHEN elem->>'id' = $2
						THEN jsonb_set(elem, '{completed}', to_jsonb($3::boolean))
						ELSE elem END
					ORDER BY ord), '[]'::jsonb)
				FROM jsonb_array_elements(reminders) WITH ORDINALITY AS t(elem, ord)
			),
			updated_at = NOW()
		WHERE cnr_number = $1
			AND reminders @> jsonb_build_array(jsonb_build_object('id', $2::text))`

	tag, err := r.db.Exec(ctx, query, cnr, id.String(), completed)
	if err != nil {
		return 0, fmt.Errorf("toggle reminder: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Upsert updates every row of a case with the lawyer-entered fields, or
// inserts a new row when the CNR is unknown.
func (r *CaseRecordRepository) Upsert(ctx context.Context, u CaseUpsert) error {
	query := `
		WITH updated AS (
			UPDATE final_records SET
				case_number = $2,
				client_names = $3,
				court_name = $4,
				court_state = $5,
				case_stages = $6,
				under_acts = $7,
				under_sections = $8,
				next_hearing_date = $9,
				case_age = $10,
				petitioner_advocate = $11,
				updated_at = NOW()
			WHERE cnr_number = $1
			RETURNING id
		)
		INSERT INTO final_records (
			cnr_number, case_number, client_names, court_name, court_state,
			case_stages, under_acts, under_sections, next_hearing_date,
			case_age, petitioner_advocate
		)
		SELECT $1::text, $2::text, $3::text, $4::text, $5::text, $6::text,
			$7::text, $8::text, $9::timestamptz, $10::text, $11::text
		WHERE NOT EXISTS (SELECT 1 FROM updated)`

	_, err := r.db.Exec(ctx, query,
		u.CNRNumber,
		u.CaseNumber,
		u.ClientNames,
		u.CourtName,
		u.CourtState,
		u.CaseStages,
		u.UnderActs,
		u.UnderSections,
		u.NextHearingDate,
		u.CaseAge,
		u.Advocate,
	)
	if err != nil {
		return fmt.Errorf("upsert case %s: %w", u.CNRNumber, err)
	}
	return nil
}

// DeleteByCNR removes every row of a case.
func (r *CaseRecordRepository) DeleteByCNR(ctx context.Context, cnr string) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM final_records WHERE cnr_number = $1`, cnr)
	if err != nil {
		return 0, fmt.Errorf("delete case %s: %w", cnr, err)
	}
	return tag.RowsAffected(), nil
}
