package repository

import (
	"context"
	"fmt"
	"slices"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SchemaSQL creates every table the backend reads and writes. It is safe
// to apply more than once.
const SchemaSQL = `
CREATE TABLE IF NOT EXISTS final_records (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),

    cnr_number TEXT NOT NULL,
    case_number TEXT NOT NULL DEFAULT '',
    case_type_old TEXT NOT NULL DEFAULT '',
    combined_case_number TEXT NOT NULL DEFAULT '',
    combined_case_number_alt TEXT NOT NULL DEFAULT '',
    full_identifier TEXT NOT NULL DEFAULT '',
    case_unique_value TEXT NOT NULL DEFAULT '',
    hearing_id TEXT NOT NULL DEFAULT '',

    court_name TEXT NOT NULL DEFAULT '',
    court_name_alt TEXT NOT NULL DEFAULT '',
    court_number TEXT NOT NULL DEFAULT '',
    name_of_high_court TEXT NOT NULL DEFAULT '',
    njdg_judge_name TEXT NOT NULL DEFAULT '',
    before_honourable_judges TEXT NOT NULL DEFAULT '',
    before_honourable_judge_two TEXT NOT NULL DEFAULT '',
    court_type TEXT NOT NULL DEFAULT '',
    court_state TEXT NOT NULL DEFAULT '',
    court_hall_number TEXT NOT NULL DEFAULT '',

    petitioner_advocate TEXT NOT NULL DEFAULT '',
    respondent_advocate TEXT NOT NULL DEFAULT '',
    client_names TEXT NOT NULL DEFAULT '',

    under_acts TEXT NOT NULL DEFAULT '',
    under_sections TEXT NOT NULL DEFAULT '',
    case_type TEXT NOT NULL DEFAULT '',
    year TEXT NOT NULL DEFAULT '',
    case_year TEXT NOT NULL DEFAULT '',
    parsing_year TEXT NOT NULL DEFAULT '',

    current_status_old TEXT NOT NULL DEFAULT '',
    new_case_status TEXT NOT NULL DEFAULT '',
    case_stages TEXT NOT NULL DEFAULT '',
    case_age TEXT NOT NULL DEFAULT '',

    date_filed TIMESTAMPTZ,
    registration_date TIMESTAMPTZ,
    decision_date TIMESTAMPTZ,
    registration_number TEXT NOT NULL DEFAULT '',
    filing_number TEXT NOT NULL DEFAULT '',
    filed_year TEXT NOT NULL DEFAULT '',
    filed_month TEXT NOT NULL DEFAULT '',
    filed_quarter TEXT NOT NULL DEFAULT '',
    decision_year TEXT NOT NULL DEFAULT '',
    decision_month TEXT NOT NULL DEFAULT '',
    decision_quarter TEXT NOT NULL DEFAULT '',

    next_hearing_date TIMESTAMPTZ,
    date_of_appearance TIMESTAMPTZ,
    purpose_of_hearing TEXT NOT NULL DEFAULT '',
    previous_hearing TEXT NOT NULL DEFAULT '',
    hearing_date TIMESTAMPTZ,
    hearing_sequence TEXT NOT NULL DEFAULT '',
    hearing_gap_days DOUBLE PRECISION NOT NULL DEFAULT 0,
    is_last_hearing TEXT NOT NULL DEFAULT '',
    next_hearing_label TEXT NOT NULL DEFAULT '',

    nature_of_disposal TEXT NOT NULL DEFAULT '',
    nature_of_disposal_outcome TEXT NOT NULL DEFAULT '',
    nature_of_disposal_binary TEXT NOT NULL DEFAULT '',
    disposal_year TEXT NOT NULL DEFAULT '',
    disposal_time_adj TEXT NOT NULL DEFAULT '',
    case_duration_days DOUBLE PRECISION NOT NULL DEFAULT 0,

    total_hearings INTEGER NOT NULL DEFAULT 0,
    last_stage TEXT NOT NULL DEFAULT '',
    pendency_days INTEGER NOT NULL DEFAULT 0,
    is_delayed BOOLEAN NOT NULL DEFAULT false,

    private_notes TEXT NOT NULL DEFAULT '',
    reminders JSONB NOT NULL DEFAULT '[]'::jsonb,
    extra JSONB NOT NULL DEFAULT '{}'::jsonb,

    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_final_records_cnr ON final_records(cnr_number);
CREATE INDEX IF NOT EXISTS idx_final_records_petitioner ON final_records(petitioner_advocate);
CREATE INDEX IF NOT EXISTS idx_final_records_respondent ON final_records(respondent_advocate);
CREATE INDEX IF NOT EXISTS idx_final_records_bench ON final_records(before_honourable_judges);

CREATE TABLE IF NOT EXISTS cases (
    cnr_number TEXT PRIMARY KEY,
    case_number TEXT NOT NULL DEFAULT '',
    combined_case_number TEXT NOT NULL DEFAULT '',
    filing_number TEXT NOT NULL DEFAULT '',
    registration_number TEXT NOT NULL DEFAULT '',
    case_type TEXT NOT NULL DEFAULT '',
    current_status TEXT NOT NULL DEFAULT '',
    nature_of_disposal TEXT NOT NULL DEFAULT '',
    under_acts TEXT NOT NULL DEFAULT '',
    under_sections TEXT NOT NULL DEFAULT '',
    year INTEGER,
    court_name TEXT NOT NULL DEFAULT '',
    court_number TEXT NOT NULL DEFAULT '',
    name_of_high_court TEXT NOT NULL DEFAULT '',
    judge_name TEXT NOT NULL DEFAULT '',
    police_station TEXT NOT NULL DEFAULT '',
    date_filed TIMESTAMPTZ,
    decision_date TIMESTAMPTZ,
    registration_date TIMESTAMPTZ,
    last_sync_time TEXT NOT NULL DEFAULT '',
    disposal_year INTEGER,
    disposal_time DOUBLE PRECISION,
    disposal_binary TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS hearings (
    id BIGSERIAL PRIMARY KEY,
    cnr_number TEXT NOT NULL,
    hearing_id TEXT NOT NULL DEFAULT '',
    case_unique_value TEXT NOT NULL DEFAULT '',
    full_identifier TEXT NOT NULL DEFAULT '',
    combined_case_number TEXT NOT NULL DEFAULT '',
    case_type TEXT NOT NULL DEFAULT '',
    petitioner_advocate TEXT NOT NULL DEFAULT '',
    respondent_advocate TEXT NOT NULL DEFAULT '',
    current_stage TEXT NOT NULL DEFAULT '',
    remapped_stages TEXT NOT NULL DEFAULT '',
    last_action_taken TEXT NOT NULL DEFAULT '',
    purpose_of_hearing TEXT NOT NULL DEFAULT '',
    before_honourable_judges TEXT NOT NULL DEFAULT '',
    before_honourable_judge_one TEXT NOT NULL DEFAULT '',
    before_honourable_judge_two TEXT NOT NULL DEFAULT '',
    before_honourable_judge_three TEXT NOT NULL DEFAULT '',
    before_honourable_judge_four TEXT NOT NULL DEFAULT '',
    before_honourable_judge_five TEXT NOT NULL DEFAULT '',
    njdg_judge_name TEXT NOT NULL DEFAULT '',
    business_on_date TIMESTAMPTZ,
    next_hearing_date TIMESTAMPTZ,
    appearance_date TIMESTAMPTZ,
    sync_date TIMESTAMPTZ,
    previous_hearing TEXT NOT NULL DEFAULT '',
    court_name TEXT NOT NULL DEFAULT '',
    court_code TEXT NOT NULL DEFAULT '',
    court_type TEXT NOT NULL DEFAULT '',
    court_state TEXT NOT NULL DEFAULT '',
    court_hall_number TEXT NOT NULL DEFAULT '',
    board_sr_no TEXT NOT NULL DEFAULT '',
    parsing_year TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_hearings_cnr ON hearings(cnr_number);

CREATE TABLE IF NOT EXISTS case_insights (
    cnr_number TEXT PRIMARY KEY,
    case_number TEXT NOT NULL DEFAULT '',
    combined_case_number TEXT NOT NULL DEFAULT '',
    filing_number TEXT NOT NULL DEFAULT '',
    registration_number TEXT NOT NULL DEFAULT '',
    case_type TEXT NOT NULL DEFAULT '',
    current_status TEXT NOT NULL DEFAULT '',
    nature_of_disposal TEXT NOT NULL DEFAULT '',
    under_acts TEXT NOT NULL DEFAULT '',
    under_sections TEXT NOT NULL DEFAULT '',
    year INTEGER,
    court_name TEXT NOT NULL DEFAULT '',
    court_number TEXT NOT NULL DEFAULT '',
    name_of_high_court TEXT NOT NULL DEFAULT '',
    judge_name TEXT NOT NULL DEFAULT '',
    police_station TEXT NOT NULL DEFAULT '',
    date_filed TIMESTAMPTZ,
    decision_date TIMESTAMPTZ,
    registration_date TIMESTAMPTZ,
    last_sync_time TEXT NOT NULL DEFAULT '',
    disposal_year INTEGER,
    disposal_time DOUBLE PRECISION,
    disposal_binary TEXT NOT NULL DEFAULT '',

    petitioner_advocate TEXT NOT NULL DEFAULT '',
    respondent_advocate TEXT NOT NULL DEFAULT '',
    total_hearings INTEGER NOT NULL DEFAULT 0,
    last_stage TEXT NOT NULL DEFAULT '',
    next_hearing_date TIMESTAMPTZ,
    pendency_days INTEGER NOT NULL DEFAULT 0,
    is_delayed BOOLEAN NOT NULL DEFAULT false,
    last_calculated TIMESTAMPTZ NOT NULL DEFAULT NOW(),

    private_notes TEXT NOT NULL DEFAULT '',
    reminders JSONB NOT NULL DEFAULT '[]'::jsonb
);

CREATE INDEX IF NOT EXISTS idx_case_insights_delayed ON case_insights(is_delayed) WHERE is_delayed;

CREATE TABLE IF NOT EXISTS analytics_runs (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    status VARCHAR(50) NOT NULL DEFAULT 'pending',
    triggered_by TEXT NOT NULL DEFAULT '',
    processed INTEGER NOT NULL DEFAULT 0,
    error_message TEXT,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    completed_at TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS case_documents (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    cnr_number TEXT NOT NULL DEFAULT '',
    uploaded_by TEXT NOT NULL DEFAULT '',
    filename TEXT NOT NULL,
    mime_type TEXT NOT NULL DEFAULT '',
    size BIGINT NOT NULL DEFAULT 0,
    storage_path TEXT NOT NULL,
    summary TEXT,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_case_documents_cnr ON case_documents(cnr_number);
`

// dataTables are emptied by ResetData, children first.
var dataTables = []string{
	"case_documents",
	"analytics_runs",
	"case_insights",
	"hearings",
	"cases",
	"final_records",
}

// EnsureSchema applies SchemaSQL.
func EnsureSchema(ctx context.Context, db *pgxpool.Pool) error {
	if _, err := db.Exec(ctx, SchemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// ClearTable truncates one data table ahead of a full re-import.
func ClearTable(ctx context.Context, db *pgxpool.Pool, table string) error {
	if !slices.Contains(dataTables, table) {
		return fmt.Errorf("clear %s: not a data table", table)
	}
	if _, err := db.Exec(ctx, "TRUNCATE TABLE "+table); err != nil {
		return fmt.Errorf("truncate %s: %w", table, err)
	}
	return nil
}

// ResetData truncates every data table in one transaction.
func ResetData(ctx context.Context, db *pgxpool.Pool) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("reset begin: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, tbl := range dataTables {
		if _, err := tx.Exec(ctx, "TRUNCATE TABLE "+tbl); err != nil {
			return fmt.Errorf("truncate %s: %w", tbl, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("reset commit: %w", err)
	}
	return nil
}
